// krk-build enumerates the full legal KRK state space, runs the retrograde solver over
// it, and persists the resulting tablebase artifact. See: spec.md §4.D, §4.F, §5.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/anbotka/krktable/pkg/enum"
	"github.com/anbotka/krktable/pkg/position"
	"github.com/anbotka/krktable/pkg/solver"
	"github.com/anbotka/krktable/pkg/tablebase"
	"github.com/anbotka/krktable/pkg/tablebase/store"
	"github.com/seekerror/logw"
)

var (
	out = flag.String("out", "krk.tb", "Output path for the tablebase artifact")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: krk-build [options]

krk-build computes and persists the complete King-and-Rook-vs-King tablebase:
every legal position is labeled with its Distance-to-Mate (or marked drawn) by
retrograde backward induction (spec.md §4.F).
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	logw.Infof(ctx, "%v starting; enumerating legal KRK positions", tablebase.Version())

	start := time.Now()
	positions, err := enum.All()
	if err != nil {
		logw.Exitf(ctx, "Enumeration failed: %v", err)
	}
	logw.Infof(ctx, "Enumerated %v positions in %v", len(positions), time.Since(start))

	start = time.Now()
	entries, stats, err := solver.Solve(ctx, positions)
	if err != nil {
		logw.Exitf(ctx, "Solve failed: %v", err)
	}
	logw.Infof(ctx, "Solved in %v: %v", time.Since(start), stats)

	fs, err := store.OpenFileStore(*out)
	if err != nil {
		logw.Exitf(ctx, "Failed to open output store %v: %v", *out, err)
	}
	byKey := byFEN(positions)
	for key, e := range entries {
		p, ok := byKey[key]
		if !ok {
			logw.Exitf(ctx, "Internal error: solver produced an entry for an unknown position %v", key)
		}
		if err := fs.Put(p, e); err != nil {
			logw.Exitf(ctx, "Failed to write entry for %v: %v", key, err)
		}
	}

	if err := fs.Flush(); err != nil {
		logw.Exitf(ctx, "Failed to persist tablebase to %v: %v", *out, err)
	}
	logw.Infof(ctx, "Wrote %v entries to %v", fs.Len(), *out)
}

// byFEN indexes positions by their own canonical FEN, so the positions enum.All already
// built can be written to the store directly, without reparsing their own FEN keys.
func byFEN(positions []*position.Position) map[string]*position.Position {
	m := make(map[string]*position.Position, len(positions))
	for _, p := range positions {
		m[p.FEN()] = p
	}
	return m
}
