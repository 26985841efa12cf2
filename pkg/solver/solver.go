// Package solver implements the retrograde (backward-induction) fixpoint algorithm that
// computes the exact Distance-to-Mate value of every KRK position (spec.md §4.F). This
// is the core of the module.
package solver

import (
	"context"
	"fmt"
	"sort"

	"github.com/anbotka/krktable/pkg/board"
	"github.com/anbotka/krktable/pkg/movegen"
	"github.com/anbotka/krktable/pkg/position"
	"github.com/anbotka/krktable/pkg/tablebase"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"golang.org/x/exp/maps"
)

// maxPasses bounds the backward-induction loop (spec.md §9, Open Question 2). The true
// maximum DTM in KRK is well under this; the cap only guards against a defect turning
// the fixpoint into an infinite loop.
const maxPasses = 50

// Stats summarizes a completed solve, in the spirit of
// original_source/tablebase_generator_fixed.py's _print_statistics.
type Stats struct {
	Total     int
	Mates     int
	Draws     int
	MaxDTM    int
	Passes    int
	Histogram map[int]int // DTM -> count of positions with that DTM
}

func (s Stats) String() string {
	return fmt.Sprintf("{total=%v, mates=%v, draws=%v, maxDTM=%v, passes=%v}", s.Total, s.Mates, s.Draws, s.MaxDTM, s.Passes)
}

// Solve runs backward induction over the given state space and returns every position's
// Entry, keyed by canonical FEN, alongside summary statistics. positions must be the
// full legal KRK state space (e.g., from pkg/enum.All) for the result to be complete:
// every successor a position can reach must also be present in the slice.
func Solve(ctx context.Context, positions []*position.Position) (map[string]tablebase.Entry, Stats, error) {
	entries := make(map[string]tablebase.Entry, len(positions))

	terminal := 0
	for _, p := range positions {
		outcome, _ := movegen.Status(p)
		switch outcome {
		case movegen.Checkmate:
			entries[p.FEN()] = tablebase.Entry{Value: tablebase.MateIn(0)}
			terminal++
		case movegen.Stalemate:
			entries[p.FEN()] = tablebase.Entry{Value: tablebase.DrawValue}
			terminal++
		}
	}
	logw.Infof(ctx, "Labeled %v terminal positions out of %v", terminal, len(positions))

	pass := 0
	for pass = 1; pass <= maxPasses; pass++ {
		assigned := 0

		for _, p := range positions {
			fen := p.FEN()
			if _, ok := entries[fen]; ok {
				continue
			}

			successors, err := movegen.Successors(p)
			if err != nil {
				return nil, Stats{}, fmt.Errorf("failed to generate successors of %v: %v", fen, err)
			}

			var next tablebase.Entry
			var ok bool
			if p.SideToMove() == board.White {
				next, ok = solveWhite(entries, successors, pass)
			} else {
				next, ok = solveBlack(entries, successors, pass)
			}
			if ok {
				entries[fen] = next
				assigned++
			}
		}

		logw.Debugf(ctx, "Pass %v: %v positions newly assigned", pass, assigned)
		if assigned == 0 {
			break
		}
	}
	if pass > maxPasses {
		logw.Warningf(ctx, "Backward induction hit the %v-pass safety cap; remaining positions are marked draws", maxPasses)
	}

	draws := 0
	for _, p := range positions {
		if _, ok := entries[p.FEN()]; !ok {
			entries[p.FEN()] = tablebase.Entry{Value: tablebase.DrawValue}
			draws++
		}
	}
	if draws > 0 {
		logw.Infof(ctx, "Marked %v remaining positions as draws", draws)
	}

	stats := summarize(entries, pass)
	logw.Infof(ctx, "Solve complete: %v", stats)
	return entries, stats, nil
}

// solveWhite applies spec.md §4.F's White rule: value = 1 + min(DTM) over MATE-valued
// successors, accepted only once that minimum equals pass-1 (BFS layering, so the
// position is assigned at the earliest pass where it is correct).
func solveWhite(entries map[string]tablebase.Entry, successors []movegen.Successor, pass int) (tablebase.Entry, bool) {
	best := -1
	var bestMove board.Move

	for _, s := range successors {
		if s.IsImmediateDraw() {
			continue // White never captures its own rook; unreachable in practice.
		}
		e, ok := entries[s.Next.FEN()]
		if !ok || e.Value.Kind != tablebase.Mate {
			continue
		}
		if best == -1 || e.Value.DTM < best {
			best = e.Value.DTM
			bestMove = s.Move
		}
	}

	if best == pass-1 {
		return tablebase.Entry{Value: tablebase.MateIn(pass), Best: lang.Some(bestMove)}, true
	}
	return tablebase.Entry{}, false
}

// solveBlack applies spec.md §4.F's Black rule: if any successor is already known to be
// a draw (including an immediate draw from capturing the rook), the position is a draw.
// Otherwise, only once every successor is known and MATE-valued does the position get a
// value: 1 + max(DTM), the longest resistance, accepted once that maximum equals
// pass-1.
func solveBlack(entries map[string]tablebase.Entry, successors []movegen.Successor, pass int) (tablebase.Entry, bool) {
	worst := -1
	var worstMove board.Move
	allKnownMate := true

	for _, s := range successors {
		if s.IsImmediateDraw() {
			return tablebase.Entry{Value: tablebase.DrawValue}, true
		}
		e, ok := entries[s.Next.FEN()]
		if !ok {
			allKnownMate = false
			continue
		}
		if e.Value.Kind == tablebase.Draw {
			return tablebase.Entry{Value: tablebase.DrawValue}, true
		}
		if e.Value.DTM > worst {
			worst = e.Value.DTM
			worstMove = s.Move
		}
	}

	if allKnownMate && worst == pass-1 {
		return tablebase.Entry{Value: tablebase.MateIn(pass), Best: lang.Some(worstMove)}, true
	}
	return tablebase.Entry{}, false
}

func summarize(entries map[string]tablebase.Entry, passes int) Stats {
	s := Stats{Total: len(entries), Passes: passes, Histogram: make(map[int]int)}
	for _, e := range entries {
		if e.Value.Kind == tablebase.Draw {
			s.Draws++
			continue
		}
		s.Mates++
		s.Histogram[e.Value.DTM]++
		if e.Value.DTM > s.MaxDTM {
			s.MaxDTM = e.Value.DTM
		}
	}
	return s
}

// DTMs returns the histogram's DTM keys in ascending order, for reporting.
func (s Stats) DTMs() []int {
	keys := maps.Keys(s.Histogram)
	sort.Ints(keys)
	return keys
}
