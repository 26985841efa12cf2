// Package enum enumerates the full KRK legal state space (spec.md §4.D): every
// placement of the white king, white rook, and black king satisfying spec.md §3's
// invariants, for both sides to move.
package enum

import (
	"github.com/anbotka/krktable/pkg/board"
	"github.com/anbotka/krktable/pkg/position"
)

// Each calls fn once for every legal KRK position, in a fixed, reproducible order: wk
// ascending, then wr ascending, then bk ascending, then White before Black. Each stops
// and returns fn's error as soon as fn returns one.
func Each(fn func(*position.Position) error) error {
	for wk := board.ZeroSquare; wk < board.NumSquares; wk++ {
		for wr := board.ZeroSquare; wr < board.NumSquares; wr++ {
			if wr == wk {
				continue
			}
			for bk := board.ZeroSquare; bk < board.NumSquares; bk++ {
				if bk == wk || bk == wr {
					continue
				}
				if board.KingAdjacent(wk, bk) {
					continue
				}

				for _, stm := range [2]board.Color{board.White, board.Black} {
					p, err := position.New(wk, wr, bk, stm)
					if err != nil {
						// Unreachable: the loop above already enforces every invariant
						// position.New checks.
						return err
					}
					if err := fn(p); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// All materializes the full state space as a slice, in Each's order: 447,888 positions
// (3,612 non-adjacent king pairs x 62 rook squares x 2 sides to move).
func All() ([]*position.Position, error) {
	var ret []*position.Position
	err := Each(func(p *position.Position) error {
		ret = append(ret, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Count returns the number of legal KRK positions without materializing them.
func Count() (int, error) {
	n := 0
	err := Each(func(*position.Position) error {
		n++
		return nil
	})
	return n, err
}
