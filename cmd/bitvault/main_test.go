package main

import (
	"testing"

	"github.com/arvikram/bitvault/pkg/bitvault"
	"github.com/arvikram/bitvault/pkg/options"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *bitvault.DB {
	t.Helper()
	db, err := bitvault.Open(t.TempDir(), options.WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestExecuteSetThenGet(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, execute(db, []string{"set", "k1", "v1"}))
	require.NoError(t, execute(db, []string{"get", "k1"}))
}

func TestExecuteUnknownCommand(t *testing.T) {
	db := openTestDB(t)

	err := execute(db, []string{"bogus"})
	require.Error(t, err)
}

func TestExecuteWrongArgCount(t *testing.T) {
	db := openTestDB(t)

	require.Error(t, execute(db, []string{"set", "onlyonearg"}))
	require.Error(t, execute(db, []string{"get"}))
	require.Error(t, execute(db, []string{"rm"}))
}

func TestRunGetMissingKeyDoesNotError(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, runGet(db, "missing"))
}
