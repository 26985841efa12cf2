package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anbotka/krktable/pkg/board"
	"github.com/anbotka/krktable/pkg/position"
	"github.com/anbotka/krktable/pkg/tablebase"
	"github.com/anbotka/krktable/pkg/tablebase/store"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPosition(t *testing.T, wk, wr, bk board.Square, stm board.Color) *position.Position {
	t.Helper()
	p, err := position.New(wk, wr, bk, stm)
	require.NoError(t, err)
	return p
}

func TestMemStorePutGet(t *testing.T) {
	s := store.NewMemStore()
	p := mustPosition(t, board.E1, board.A1, board.E8, board.White)

	_, ok, err := s.Get(p)
	require.NoError(t, err)
	assert.False(t, ok)

	entry := tablebase.Entry{Value: tablebase.MateIn(7), Best: lang.Some(board.Move{From: board.A1, To: board.A8})}
	require.NoError(t, s.Put(p, entry))

	got, ok, err := s.Get(p)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Value, got.Value)

	assert.Equal(t, 1, s.Len())
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "krk.tb")

	fs, err := store.OpenFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, 0, fs.Len())

	positions := []*position.Position{
		mustPosition(t, board.E1, board.A1, board.E8, board.White),
		mustPosition(t, board.E1, board.A1, board.E8, board.Black),
		mustPosition(t, board.H1, board.A8, board.A7, board.Black),
	}
	entries := []tablebase.Entry{
		{Value: tablebase.DrawValue},
		{Value: tablebase.MateIn(0)},
		{Value: tablebase.MateIn(12), Best: lang.Some(board.Move{From: board.A7, To: board.A8, Type: board.Capture})},
	}

	for i, p := range positions {
		require.NoError(t, fs.Put(p, entries[i]))
	}
	require.NoError(t, fs.Flush())

	reopened, err := store.OpenFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, len(positions), reopened.Len())

	for i, p := range positions {
		got, ok, err := reopened.Get(p)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, entries[i].Value, got.Value)

		wantMove, wantOK := entries[i].Best.V()
		gotMove, gotOK := got.Best.V()
		assert.Equal(t, wantOK, gotOK)
		if wantOK {
			assert.Equal(t, wantMove.From, gotMove.From)
			assert.Equal(t, wantMove.To, gotMove.To)
		}
	}
}

func TestOpenFileStoreMissingFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.OpenFileStore(filepath.Join(dir, "does-not-exist.tb"))
	require.NoError(t, err)
	assert.Equal(t, 0, fs.Len())
}

func TestOpenFileStoreRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.tb")
	require.NoError(t, os.WriteFile(path, []byte("not a tablebase file"), 0o644))

	_, err := store.OpenFileStore(path)
	assert.Error(t, err)
}
