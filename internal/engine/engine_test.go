package engine

import (
	"testing"

	"github.com/arvikram/bitvault/pkg/errors"
	"github.com/arvikram/bitvault/pkg/options"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestEngine(t *testing.T, dir string, threshold uint64) *Engine {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	if threshold > 0 {
		opts.CompactionThreshold = threshold
	}

	e, err := Open(&Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return e
}

func TestSetThenGet(t *testing.T) {
	e := openTestEngine(t, t.TempDir(), 0)
	defer e.Close()

	require.NoError(t, e.Set("k1", "v1"))

	value, ok, err := e.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", value)
}

func TestGetMissingKeyIsNotAnError(t *testing.T) {
	e := openTestEngine(t, t.TempDir(), 0)
	defer e.Close()

	value, ok, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, value)
}

func TestSetOverwritesPriorValue(t *testing.T) {
	e := openTestEngine(t, t.TempDir(), 0)
	defer e.Close()

	require.NoError(t, e.Set("k1", "v1"))
	require.NoError(t, e.Set("k1", "v2"))

	value, ok, err := e.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", value)
}

func TestRemoveDeletesKey(t *testing.T) {
	e := openTestEngine(t, t.TempDir(), 0)
	defer e.Close()

	require.NoError(t, e.Set("k1", "v1"))
	require.NoError(t, e.Remove("k1"))

	_, ok, err := e.Get("k1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveMissingKeyErrors(t *testing.T) {
	e := openTestEngine(t, t.TempDir(), 0)
	defer e.Close()

	err := e.Remove("missing")
	require.Error(t, err)
	require.Equal(t, errors.ErrorCodeIndexKeyNotFound, errors.GetErrorCode(err))
}

func TestOperationsAfterCloseFail(t *testing.T) {
	e := openTestEngine(t, t.TempDir(), 0)
	require.NoError(t, e.Close())

	require.ErrorIs(t, e.Set("k1", "v1"), ErrEngineClosed)
	_, _, err := e.Get("k1")
	require.ErrorIs(t, err, ErrEngineClosed)
	require.ErrorIs(t, e.Remove("k1"), ErrEngineClosed)
}

func TestCloseTwiceErrors(t *testing.T) {
	e := openTestEngine(t, t.TempDir(), 0)
	require.NoError(t, e.Close())
	require.ErrorIs(t, e.Close(), ErrEngineClosed)
}

func TestReopenRecoversStateFromSegments(t *testing.T) {
	dir := t.TempDir()

	e := openTestEngine(t, dir, 0)
	require.NoError(t, e.Set("k1", "v1"))
	require.NoError(t, e.Set("k2", "v2"))
	require.NoError(t, e.Remove("k1"))
	require.NoError(t, e.Close())

	e2 := openTestEngine(t, dir, 0)
	defer e2.Close()

	_, ok, err := e2.Get("k1")
	require.NoError(t, err)
	require.False(t, ok, "k1 was removed before close and should not resurface on reopen")

	value, ok, err := e2.Get("k2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", value)
}

func TestCompactionTriggersAutomaticallyAndPreservesData(t *testing.T) {
	e := openTestEngine(t, t.TempDir(), 64)
	defer e.Close()

	for i := 0; i < 50; i++ {
		require.NoError(t, e.Set("k1", "some reasonably sized value to force compaction"))
	}

	value, ok, err := e.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "some reasonably sized value to force compaction", value)
}

func TestOpenRequiresConfig(t *testing.T) {
	_, err := Open(nil)
	require.Error(t, err)

	_, err = Open(&Config{})
	require.Error(t, err)
}
