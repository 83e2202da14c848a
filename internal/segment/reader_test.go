package segment

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "1.log")
	w, err := OpenWriter(path)
	require.NoError(t, err)
	_, err = w.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

func TestReaderSequentialRead(t *testing.T) {
	path := writeFile(t, "abcdefgh")

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 4)
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "abcd", string(buf))
	require.Equal(t, int64(4), r.Pos())

	n, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "efgh", string(buf))
	require.Equal(t, int64(8), r.Pos())
}

func TestReaderReadAtDoesNotDisturbContents(t *testing.T) {
	path := writeFile(t, "0123456789")

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 3)
	require.NoError(t, r.ReadAt(5, buf))
	require.Equal(t, "567", string(buf))
	require.Equal(t, int64(8), r.Pos())

	buf2 := make([]byte, 3)
	require.NoError(t, r.ReadAt(0, buf2))
	require.Equal(t, "012", string(buf2))
}

func TestReaderSeek(t *testing.T) {
	path := writeFile(t, "hello world")

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	pos, err := r.Seek(6, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(6), pos)
	require.Equal(t, int64(6), r.Pos())

	buf := make([]byte, 5)
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))
}

func TestReaderReadAtPastEndReturnsError(t *testing.T) {
	path := writeFile(t, "short")

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 100)
	err = r.ReadAt(0, buf)
	require.Error(t, err)
}
