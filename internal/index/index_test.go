package index

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(&Config{Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return idx
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(&Config{})
	require.Error(t, err)
}

func TestSetThenGet(t *testing.T) {
	idx := newTestIndex(t)

	idx.Set("k1", CommandPos{Gen: 1, Pos: 0, Len: 10})
	pos, ok := idx.Get("k1")
	require.True(t, ok)
	require.Equal(t, CommandPos{Gen: 1, Pos: 0, Len: 10}, pos)
}

func TestGetMissingKey(t *testing.T) {
	idx := newTestIndex(t)
	_, ok := idx.Get("missing")
	require.False(t, ok)
}

func TestSetOverwritesExistingEntry(t *testing.T) {
	idx := newTestIndex(t)

	idx.Set("k1", CommandPos{Gen: 1, Pos: 0, Len: 10})
	idx.Set("k1", CommandPos{Gen: 2, Pos: 50, Len: 20})

	pos, ok := idx.Get("k1")
	require.True(t, ok)
	require.Equal(t, uint64(2), pos.Gen)
}

func TestDeleteReportsPresence(t *testing.T) {
	idx := newTestIndex(t)

	require.False(t, idx.Delete("k1"))

	idx.Set("k1", CommandPos{Gen: 1, Pos: 0, Len: 10})
	require.True(t, idx.Delete("k1"))

	_, ok := idx.Get("k1")
	require.False(t, ok)
}

func TestLenAndKeysSorted(t *testing.T) {
	idx := newTestIndex(t)

	idx.Set("banana", CommandPos{Gen: 1})
	idx.Set("apple", CommandPos{Gen: 1})
	idx.Set("cherry", CommandPos{Gen: 1})

	require.Equal(t, 3, idx.Len())
	require.Equal(t, []string{"apple", "banana", "cherry"}, idx.Keys())
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	idx := newTestIndex(t)
	idx.Set("k1", CommandPos{Gen: 1, Pos: 0, Len: 10})

	snap := idx.Snapshot()
	idx.Set("k1", CommandPos{Gen: 2, Pos: 0, Len: 10})

	require.Equal(t, uint64(1), snap["k1"].Gen)
}

func TestCloseTwiceReturnsErrIndexClosed(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Close())
	require.ErrorIs(t, idx.Close(), ErrIndexClosed)
}
