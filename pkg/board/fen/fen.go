// Package fen contains utilities for reading and writing KRK positions in FEN notation.
// Unlike a general chess FEN codec, this one accepts and emits only the three KRK pieces
// (white king, white rook, black king) and always prints no castling rights, no en
// passant target, halfmove clock 0, fullmove number 1 (spec.md §4.B).
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/anbotka/krktable/pkg/board"
)

// Decode parses a KRK FEN string and returns the three piece squares and the side to
// move. It validates FEN syntax and piece composition only; game-legality invariants
// (king adjacency, etc.) are pkg/position's job.
//
// Example: "4k3/8/8/8/8/8/8/R3K3 w - - 0 1"
func Decode(s string) (wk, wr, bk board.Square, stm board.Color, err error) {
	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 6 {
		return 0, 0, 0, 0, fmt.Errorf("invalid number of sections in FEN: '%v'", s)
	}

	var haveWK, haveWR, haveBK bool

	// FEN ranks read top (8) to bottom (1); within a rank, files read a to h. Under this
	// board's a1=0 numbering that means file climbs across a rank and rank descends on
	// each "/", the mirror image of reading order.
	rank := board.NumRanks - 1
	file := board.ZeroFile
	for _, r := range []rune(parts[0]) {
		switch {
		case r == '/':
			if file != board.NumFiles || rank == board.ZeroRank {
				return 0, 0, 0, 0, fmt.Errorf("invalid number of squares in FEN: '%v'", s)
			}
			rank--
			file = board.ZeroFile

		case unicode.IsDigit(r):
			file += board.File(r - '0')
			if file > board.NumFiles {
				return 0, 0, 0, 0, fmt.Errorf("invalid number of squares in FEN: '%v'", s)
			}

		case unicode.IsLetter(r):
			if file >= board.NumFiles {
				return 0, 0, 0, 0, fmt.Errorf("invalid number of squares in FEN: '%v'", s)
			}
			color, piece, ok := parsePiece(r)
			if !ok {
				return 0, 0, 0, 0, fmt.Errorf("invalid piece '%v' in FEN: '%v'", r, s)
			}

			sq := board.NewSquare(file, rank)
			switch {
			case piece == board.King && color == board.White:
				if haveWK {
					return 0, 0, 0, 0, fmt.Errorf("duplicate white king in FEN: '%v'", s)
				}
				wk, haveWK = sq, true
			case piece == board.King && color == board.Black:
				if haveBK {
					return 0, 0, 0, 0, fmt.Errorf("duplicate black king in FEN: '%v'", s)
				}
				bk, haveBK = sq, true
			case piece == board.Rook && color == board.White:
				if haveWR {
					return 0, 0, 0, 0, fmt.Errorf("duplicate white rook in FEN: '%v'", s)
				}
				wr, haveWR = sq, true
			default:
				return 0, 0, 0, 0, fmt.Errorf("piece not valid in a KRK position: '%v' in '%v'", r, s)
			}
			file++

		default:
			return 0, 0, 0, 0, fmt.Errorf("invalid character in FEN: '%v'", s)
		}
	}
	if rank != board.ZeroRank || file != board.NumFiles {
		return 0, 0, 0, 0, fmt.Errorf("invalid number of squares in FEN: '%v'", s)
	}
	if !haveWK || !haveWR || !haveBK {
		return 0, 0, 0, 0, fmt.Errorf("FEN is not a KRK position (missing piece): '%v'", s)
	}

	stm, ok := parseColor(parts[1])
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("invalid active color in FEN: '%v'", s)
	}

	if parts[2] != "-" {
		return 0, 0, 0, 0, fmt.Errorf("KRK positions have no castling rights: '%v'", s)
	}
	if parts[3] != "-" {
		return 0, 0, 0, 0, fmt.Errorf("KRK positions have no en passant target: '%v'", s)
	}
	if _, err := strconv.Atoi(parts[4]); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid halfmove clock in FEN: '%v'", s)
	}
	if _, err := strconv.Atoi(parts[5]); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid fullmove number in FEN: '%v'", s)
	}

	return wk, wr, bk, stm, nil
}

// Encode encodes a KRK position in canonical FEN form: no castling rights, no en
// passant target, halfmove clock 0, fullmove number 1 (spec.md §4.B, §6).
func Encode(wk, wr, bk board.Square, stm board.Color) string {
	var sb strings.Builder
	for r := board.NumRanks - 1; r >= board.ZeroRank; r-- {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			sq := board.NewSquare(f, r)

			var c rune
			switch sq {
			case wk:
				c = 'K'
			case wr:
				c = 'R'
			case bk:
				c = 'k'
			}

			if c == 0 {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(c)
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > board.ZeroRank {
			sb.WriteRune('/')
		}
	}

	return fmt.Sprintf("%v %v - - 0 1", sb.String(), printColor(stm))
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	switch r {
	case 'K':
		return board.White, board.King, true
	case 'R':
		return board.White, board.Rook, true
	case 'k':
		return board.Black, board.King, true
	case 'r':
		return board.Black, board.Rook, true
	default:
		return 0, 0, false
	}
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}
