// Package query implements the read-only tablebase lookup interface (spec.md §4.G,
// §6). Lookup never triggers construction: a position outside the stored KRK domain
// simply reports as absent.
package query

import (
	"fmt"

	"github.com/anbotka/krktable/pkg/board"
	"github.com/anbotka/krktable/pkg/position"
	"github.com/anbotka/krktable/pkg/tablebase"
	"github.com/anbotka/krktable/pkg/tablebase/store"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Lookup returns p's entry from s, if present.
func Lookup(s store.Store, p *position.Position) (lang.Optional[tablebase.Entry], error) {
	e, ok, err := s.Get(p)
	if err != nil {
		return lang.Optional[tablebase.Entry]{}, fmt.Errorf("lookup failed for %v: %v", p.FEN(), err)
	}
	if !ok {
		return lang.Optional[tablebase.Entry]{}, nil
	}
	return lang.Some(e), nil
}

// LookupFEN parses fen as a canonical KRK position and looks it up in s. A FEN that
// fails to parse, or that violates spec.md §3's structural invariants, is returned as an
// "invalid position" error rather than reported as absent; a legal position with no
// entry returns an empty Optional and a nil error.
func LookupFEN(s store.Store, fen string) (lang.Optional[tablebase.Entry], error) {
	p, err := position.FromFEN(fen)
	if err != nil {
		return lang.Optional[tablebase.Entry]{}, fmt.Errorf("invalid position: %v", err)
	}
	return Lookup(s, p)
}

// Report renders the value of looking up p in s using the collaborator-facing strings
// of spec.md §6: "draw", "mate 0", "mate d <move>", or "not in store" for a legal FEN
// that the store has no entry for (spec.md §4.G: a missing entry signals an input
// outside the legal KRK domain, e.g. kings adjacent).
func Report(s store.Store, p *position.Position) (string, error) {
	e, err := Lookup(s, p)
	if err != nil {
		return "", err
	}
	v, ok := e.V()
	if !ok {
		return "not in store", nil
	}
	return v.Report(), nil
}

// BestMove returns the move stored for p, if any. It is absent for DRAW entries and for
// MATE(0) (already checkmate): spec.md §3, "best_move is present iff the value is
// MATE(d) with d > 0."
func BestMove(s store.Store, p *position.Position) (lang.Optional[board.Move], error) {
	e, err := Lookup(s, p)
	if err != nil {
		return lang.Optional[board.Move]{}, err
	}
	v, ok := e.V()
	if !ok {
		return lang.Optional[board.Move]{}, nil
	}
	return v.Best, nil
}
