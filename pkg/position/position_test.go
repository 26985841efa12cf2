package position_test

import (
	"testing"

	"github.com/anbotka/krktable/pkg/board"
	"github.com/anbotka/krktable/pkg/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsDuplicateSquares(t *testing.T) {
	_, err := position.New(board.A1, board.A1, board.E8, board.White)
	assert.Error(t, err)

	_, err = position.New(board.A1, board.B1, board.A1, board.White)
	assert.Error(t, err)
}

func TestNewRejectsAdjacentKings(t *testing.T) {
	_, err := position.New(board.E4, board.A1, board.E5, board.White)
	assert.Error(t, err)

	_, err = position.New(board.E4, board.A1, board.E4, board.White)
	assert.Error(t, err)
}

func TestNewAccepts(t *testing.T) {
	p, err := position.New(board.E1, board.A1, board.E8, board.White)
	require.NoError(t, err)
	assert.Equal(t, board.E1, p.WhiteKing())
	assert.Equal(t, board.A1, p.WhiteRook())
	assert.Equal(t, board.E8, p.BlackKing())
	assert.Equal(t, board.White, p.SideToMove())
}

func TestFENRoundTrip(t *testing.T) {
	p, err := position.New(board.E1, board.A1, board.E8, board.White)
	require.NoError(t, err)
	assert.Equal(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", p.FEN())

	p2, err := position.FromFEN(p.FEN())
	require.NoError(t, err)
	assert.True(t, p.Equals(p2))
}

func TestFromFENRejectsIllegalPosition(t *testing.T) {
	// Well-formed FEN (parses fine), but the kings are adjacent.
	_, err := position.FromFEN("8/8/8/4k3/4K3/8/8/R7 w - - 0 1")
	assert.Error(t, err)
}

func TestEquals(t *testing.T) {
	a, err := position.New(board.E1, board.A1, board.E8, board.White)
	require.NoError(t, err)
	b, err := position.New(board.E1, board.A1, board.E8, board.Black)
	require.NoError(t, err)

	assert.True(t, a.Equals(a))
	assert.False(t, a.Equals(b))
	assert.False(t, a.Equals(nil))
}
