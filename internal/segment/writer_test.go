package segment

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenWriterStartsAtZeroForNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.log")

	w, err := OpenWriter(path)
	require.NoError(t, err)
	defer w.Close()

	require.Equal(t, int64(0), w.Pos())
}

func TestWriterAdvancesPosByWrittenBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.log")

	w, err := OpenWriter(path)
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, int64(5), w.Pos())

	n, err = w.Write([]byte("world!"))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, int64(11), w.Pos())
}

func TestOpenWriterResumesAtEndOfExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.log")

	w, err := OpenWriter(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("existing"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w2, err := OpenWriter(path)
	require.NoError(t, err)
	defer w2.Close()

	require.Equal(t, int64(len("existing")), w2.Pos())
}

func TestWriterCloseFlushesBufferedBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.log")

	w, err := OpenWriter(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("flush me"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, len("flush me"))
	require.NoError(t, r.ReadAt(0, buf))
	require.Equal(t, "flush me", string(buf))
}
