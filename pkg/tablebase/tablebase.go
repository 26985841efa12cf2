// Package tablebase defines the King-and-Rook-vs-King value and entry representation
// shared by the packages that build, persist, and query the tablebase (spec.md §4.E),
// plus the module's version banner.
package tablebase

import (
	"fmt"

	"github.com/anbotka/krktable/pkg/board"
	"github.com/seekerror/build"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(1, 0, 0)

// Kind distinguishes a Draw value from a Mate value.
type Kind uint8

const (
	Draw Kind = iota
	Mate
)

func (k Kind) String() string {
	if k == Mate {
		return "mate"
	}
	return "draw"
}

// Value is the exact game-theoretic value of a KRK position from the side to move's
// perspective: either Draw, or Mate in DTM plies (spec.md §4.F).
type Value struct {
	Kind Kind
	DTM  int // valid iff Kind == Mate. 0 means the side to move is already checkmated.
}

// DrawValue is the Value assigned to every drawn position.
var DrawValue = Value{Kind: Draw}

// MateIn constructs a Value of Mate in d plies.
func MateIn(d int) Value {
	if d < 0 {
		panic(fmt.Sprintf("negative DTM: %v", d))
	}
	return Value{Kind: Mate, DTM: d}
}

// Better reports whether v is a more favorable value than o for White, the mating side:
// shorter mates beat longer mates, and any mate beats a draw.
func (v Value) Better(o Value) bool {
	if v.Kind == Draw {
		return false
	}
	if o.Kind == Draw {
		return true
	}
	return v.DTM < o.DTM
}

func (v Value) String() string {
	if v.Kind == Draw {
		return "draw"
	}
	return fmt.Sprintf("mate %d", v.DTM)
}

// Entry is the tablebase record for one position: its Value and, for Mate values, the
// first move of a principal line realizing it: pkg/solver stores the first successor, in
// pkg/movegen.Legal's fixed move order, that achieves the extremal value.
type Entry struct {
	Value Value
	Best  lang.Optional[board.Move]
}

// Report renders an Entry the way the collaborator API does (spec.md §6): "draw",
// "mate 0" (the position is already checkmate), or "mate d <move>".
func (e Entry) Report() string {
	if e.Value.Kind == Draw {
		return "draw"
	}
	if m, ok := e.Best.V(); ok {
		return fmt.Sprintf("mate %d %v", e.Value.DTM, m)
	}
	return fmt.Sprintf("mate %d", e.Value.DTM)
}

// Version returns the tablebase package's build version banner.
func Version() string {
	return fmt.Sprintf("krktable %v", version)
}
