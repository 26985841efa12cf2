// krk-query looks up KRK positions in a persisted tablebase artifact (spec.md §4.G,
// §6). With -fen it answers one position and exits; otherwise it reads FEN strings from
// stdin, one per line, and reports a value for each — the one-shot/REPL split the
// teacher's cmd/morlock makes between a flag-driven run and its interactive console
// protocol (pkg/engine/console), generalized here to a read-only lookup loop.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/anbotka/krktable/pkg/query"
	"github.com/anbotka/krktable/pkg/tablebase"
	"github.com/anbotka/krktable/pkg/tablebase/store"
	"github.com/seekerror/logw"
)

var (
	in  = flag.String("tb", "krk.tb", "Path to the tablebase artifact")
	one = flag.String("fen", "", "Look up a single FEN and exit (default: read stdin, one FEN per line)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: krk-query -tb <path> [-fen <fen>]

krk-query answers "draw" / "mate 0" / "mate d <move>" / "not in store" for
KRK positions (spec.md §6), reading either a single -fen flag or a stream of
FEN strings from stdin, one per line.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	logw.Infof(ctx, "%v loading tablebase from %v", tablebase.Version(), *in)
	fs, err := store.OpenFileStore(*in)
	if err != nil {
		logw.Exitf(ctx, "Failed to open tablebase %v: %v", *in, err)
	}
	logw.Infof(ctx, "Loaded %v entries", fs.Len())

	if *one != "" {
		report(ctx, fs, *one)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		report(ctx, fs, line)
	}
	if err := scanner.Err(); err != nil {
		logw.Exitf(ctx, "Failed reading stdin: %v", err)
	}
}

func report(ctx context.Context, fs *store.FileStore, fen string) {
	value, err := query.LookupFEN(fs, fen)
	if err != nil {
		fmt.Printf("%v: error: %v\n", fen, err)
		return
	}

	e, ok := value.V()
	if !ok {
		fmt.Printf("%v: not in store\n", fen)
		return
	}
	fmt.Printf("%v: %v\n", fen, e.Report())
}
