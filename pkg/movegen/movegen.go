// Package movegen generates legal moves for KRK positions and classifies terminal
// positions, per spec.md §4.C.
package movegen

import (
	"fmt"

	"github.com/anbotka/krktable/pkg/board"
	"github.com/anbotka/krktable/pkg/position"
)

// Setup constructs the starting position of a KRK game/puzzle, validating spec.md §3's
// invariants. It is the "setup" operation of spec.md §6's collaborator-facing API; a UI
// front end (out of scope here) calls this once per game and then drives playback with
// Legal/Apply.
func Setup(wk, wr, bk board.Square, stm board.Color) (*position.Position, error) {
	return position.New(wk, wr, bk, stm)
}

// Successor is one legal move out of a position together with the resulting position.
// Next is nil iff the move captures the white rook (Black's only possible capture in
// KRK) — the resulting two-king position is outside the KRK state space and is always
// an immediate draw by insufficient material (spec.md §9, Open Question 1).
type Successor struct {
	Move board.Move
	Next *position.Position
}

// IsImmediateDraw reports whether this successor leaves the KRK state space via a rook
// capture, and is therefore a draw without further lookup.
func (s Successor) IsImmediateDraw() bool {
	return s.Next == nil
}

// rookAttacks returns the squares the white rook on wr attacks, using only wk as a
// blocker. It is used both to test check against a black king occupying some square
// and to test whether a black king's candidate destination is attacked: in both cases
// the black king itself must not be treated as a blocker to its own square.
func rookAttacks(wr, wk board.Square) board.Bitboard {
	return board.RookAttackboard(wr, board.BitMask(wk))
}

// IsCheck reports whether the side to move's king is attacked. White can never be in
// check in a KRK position (Black has no piece that attacks a square); only Black's king
// can be attacked, by the white rook.
func IsCheck(p *position.Position) bool {
	if p.SideToMove() != board.Black {
		return false
	}
	return rookAttacks(p.WhiteRook(), p.WhiteKing()).IsSet(p.BlackKing())
}

// Legal returns every legal move from p, in a fixed, deterministic order: king moves
// (if any) precede rook moves for White, ordered by ascending destination square.
func Legal(p *position.Position) []board.Move {
	if p.SideToMove() == board.White {
		return append(whiteKingMoves(p), whiteRookMoves(p)...)
	}
	return blackKingMoves(p)
}

// Successors returns every legal move from p paired with its resulting position (or
// nil, for the rook-capture case), in the same order as Legal.
func Successors(p *position.Position) ([]Successor, error) {
	moves := Legal(p)
	ret := make([]Successor, 0, len(moves))
	for _, m := range moves {
		s, err := successor(p, m)
		if err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, nil
}

// Outcome classifies a position with no legal moves.
type Outcome uint8

const (
	// Ongoing means the side to move has at least one legal move.
	Ongoing Outcome = iota
	// Checkmate means the side to move has no legal moves and is in check.
	Checkmate
	// Stalemate means the side to move has no legal moves and is not in check.
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "?"
	}
}

// Status classifies p and returns its legal moves (empty if terminal).
func Status(p *position.Position) (Outcome, []board.Move) {
	moves := Legal(p)
	if len(moves) > 0 {
		return Ongoing, moves
	}
	if IsCheck(p) {
		return Checkmate, nil
	}
	return Stalemate, nil
}

// Apply plays m against p and returns the resulting position. It returns an error if m
// is not legal or if m captures the white rook — callers that need to handle the
// rook-capture terminal explicitly should use Successors instead (spec.md §6's
// collaborator API plays single moves and is not expected to continue past a capture).
func Apply(p *position.Position, m board.Move) (*position.Position, error) {
	s, err := successor(p, m)
	if err != nil {
		return nil, err
	}
	if s.IsImmediateDraw() {
		return nil, fmt.Errorf("move %v captures the rook: position is a draw, not a KRK position", m)
	}
	return s.Next, nil
}

func successor(p *position.Position, m board.Move) (Successor, error) {
	var found *board.Move
	for _, legal := range Legal(p) {
		if legal.Equals(m) {
			mm := legal
			found = &mm
			break
		}
	}
	if found == nil {
		return Successor{}, fmt.Errorf("illegal move: %v in %v", m, p.FEN())
	}

	wk, wr, bk := p.WhiteKing(), p.WhiteRook(), p.BlackKing()

	if p.SideToMove() == board.White {
		if found.Piece == board.King {
			wk = found.To
		} else {
			wr = found.To
		}
		next, err := position.New(wk, wr, bk, board.Black)
		if err != nil {
			return Successor{}, fmt.Errorf("internal error: generated move produced illegal position: %v", err)
		}
		return Successor{Move: *found, Next: next}, nil
	}

	if found.Type == board.Capture {
		return Successor{Move: *found}, nil
	}

	bk = found.To
	next, err := position.New(wk, wr, bk, board.White)
	if err != nil {
		return Successor{}, fmt.Errorf("internal error: generated move produced illegal position: %v", err)
	}
	return Successor{Move: *found, Next: next}, nil
}

func whiteKingMoves(p *position.Position) []board.Move {
	wk, wr, bk := p.WhiteKing(), p.WhiteRook(), p.BlackKing()
	attacks := board.KingAttackboard(wk)

	var ret []board.Move
	for dst := board.ZeroSquare; dst < board.NumSquares; dst++ {
		if !attacks.IsSet(dst) {
			continue
		}
		if dst == wr {
			continue
		}
		if board.KingAdjacent(dst, bk) {
			continue
		}
		ret = append(ret, board.Move{Piece: board.King, From: wk, To: dst})
	}
	return ret
}

func whiteRookMoves(p *position.Position) []board.Move {
	wk, wr, bk := p.WhiteKing(), p.WhiteRook(), p.BlackKing()
	occ := board.BitMask(wk) | board.BitMask(bk)
	attacks := board.RookAttackboard(wr, occ) &^ board.BitMask(wk) &^ board.BitMask(bk)

	var ret []board.Move
	for dst := board.ZeroSquare; dst < board.NumSquares; dst++ {
		if !attacks.IsSet(dst) {
			continue
		}
		ret = append(ret, board.Move{Piece: board.Rook, From: wr, To: dst})
	}
	return ret
}

func blackKingMoves(p *position.Position) []board.Move {
	wk, wr, bk := p.WhiteKing(), p.WhiteRook(), p.BlackKing()
	attacks := board.KingAttackboard(bk)
	guarded := rookAttacks(wr, wk)

	var ret []board.Move
	for dst := board.ZeroSquare; dst < board.NumSquares; dst++ {
		if !attacks.IsSet(dst) {
			continue
		}
		if board.KingAdjacent(dst, wk) {
			continue
		}
		if dst != wr && guarded.IsSet(dst) {
			continue
		}

		typ := board.Normal
		if dst == wr {
			typ = board.Capture
		}
		ret = append(ret, board.Move{Type: typ, Piece: board.King, From: bk, To: dst})
	}
	return ret
}
