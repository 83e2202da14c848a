package errors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsStorageErrorExtractsContext(t *testing.T) {
	err := NewStorageError(nil, ErrorCodeSegmentCorrupted, "bad record").
		WithGen(3).WithOffset(128).WithFileName("3.log")

	se, ok := AsStorageError(err)
	require.True(t, ok)
	require.Equal(t, uint64(3), se.Gen())
	require.Equal(t, uint64(128), se.Offset())
	require.Equal(t, "3.log", se.FileName())
}

func TestAsIndexErrorExtractsContext(t *testing.T) {
	err := NewKeyNotFoundError("k1")

	ie, ok := AsIndexError(err)
	require.True(t, ok)
	require.Equal(t, "k1", ie.Key())
	require.Equal(t, ErrorCodeIndexKeyNotFound, ie.Code())
}

func TestGetErrorCodeFallsBackToInternal(t *testing.T) {
	require.Equal(t, ErrorCodeInternal, GetErrorCode(nil))
}

func TestGetErrorCodeDispatchesByType(t *testing.T) {
	require.Equal(t, ErrorCodeIndexKeyNotFound, GetErrorCode(NewKeyNotFoundError("k1")))
	require.Equal(t, ErrorCodeInvalidInput, GetErrorCode(NewRequiredFieldError("dataDir")))
	require.Equal(t, ErrorCodeIO, GetErrorCode(NewStorageError(nil, ErrorCodeIO, "boom")))
}

func TestIsStorageErrorAndIsIndexErrorAreDisjoint(t *testing.T) {
	storageErr := NewStorageError(nil, ErrorCodeIO, "boom")
	require.True(t, IsStorageError(storageErr))
	require.False(t, IsIndexError(storageErr))

	indexErr := NewKeyNotFoundError("k1")
	require.True(t, IsIndexError(indexErr))
	require.False(t, IsStorageError(indexErr))
}
