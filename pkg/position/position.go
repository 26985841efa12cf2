// Package position implements the four-tuple KRK position model: the squares of the
// white king, white rook, and black king, plus the side to move (spec.md §3).
package position

import (
	"fmt"
	"strings"

	"github.com/anbotka/krktable/pkg/board"
	"github.com/anbotka/krktable/pkg/board/fen"
)

// Position is an immutable King-and-Rook-vs-King position: exactly three pieces and a
// side to move. Constructed only via New or FromFEN, both of which enforce spec.md §3's
// structural invariants:
//
//  1. The three squares are pairwise distinct.
//  2. The two kings are not adjacent (Chebyshev distance >= 2).
type Position struct {
	wk, wr, bk board.Square
	stm        board.Color
}

// New constructs a Position, validating spec.md §3's invariants. It does not check
// whether stm is in an illegal double-check or other legality condition beyond the
// structural invariants above — that is pkg/movegen's job.
func New(wk, wr, bk board.Square, stm board.Color) (*Position, error) {
	if !wk.IsValid() || !wr.IsValid() || !bk.IsValid() {
		return nil, fmt.Errorf("invalid square: wk=%v wr=%v bk=%v", wk, wr, bk)
	}
	if wk == wr || wk == bk || wr == bk {
		return nil, fmt.Errorf("pieces must occupy distinct squares: wk=%v wr=%v bk=%v", wk, wr, bk)
	}
	if board.KingAdjacent(wk, bk) {
		return nil, fmt.Errorf("kings cannot be adjacent: wk=%v bk=%v", wk, bk)
	}
	return &Position{wk: wk, wr: wr, bk: bk, stm: stm}, nil
}

// FromFEN parses a canonical KRK FEN string into a Position (spec.md §4.B, §6).
func FromFEN(s string) (*Position, error) {
	wk, wr, bk, stm, err := fen.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN: %v", err)
	}
	return New(wk, wr, bk, stm)
}

func (p *Position) WhiteKing() board.Square  { return p.wk }
func (p *Position) WhiteRook() board.Square  { return p.wr }
func (p *Position) BlackKing() board.Square  { return p.bk }
func (p *Position) SideToMove() board.Color  { return p.stm }

// Occupied returns the bitboard of all three occupied squares.
func (p *Position) Occupied() board.Bitboard {
	return board.BitMask(p.wk) | board.BitMask(p.wr) | board.BitMask(p.bk)
}

// FEN returns the canonical FEN encoding, which doubles as the position's key in
// pkg/enum and pkg/tablebase/store (spec.md §6).
func (p *Position) FEN() string {
	return fen.Encode(p.wk, p.wr, p.bk, p.stm)
}

// Equals returns true iff the two positions have the same piece placement and side to
// move.
func (p *Position) Equals(o *Position) bool {
	if o == nil {
		return false
	}
	return p.wk == o.wk && p.wr == o.wr && p.bk == o.bk && p.stm == o.stm
}

func (p *Position) String() string {
	var sb strings.Builder
	for r := board.NumRanks - 1; r >= board.ZeroRank; r-- {
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			switch sq := board.NewSquare(f, r); sq {
			case p.wk:
				sb.WriteRune('K')
			case p.wr:
				sb.WriteRune('R')
			case p.bk:
				sb.WriteRune('k')
			default:
				sb.WriteRune('-')
			}
		}
		if r > board.ZeroRank {
			sb.WriteRune('/')
		}
	}
	return fmt.Sprintf("%v (%v to move)", sb.String(), p.stm)
}
