package segment

import (
	"bufio"
	"io"
	"os"
)

// Reader is a buffered, seekable, position-tracking reader over one
// segment file. pos advances by the number of bytes returned from Read and
// resets on Seek, the read-side mirror of Writer's bookkeeping.
type Reader struct {
	file *os.File
	buf  *bufio.Reader
	pos  int64
}

// OpenReader opens path read-only with pos starting at 0.
func OpenReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: file, buf: bufio.NewReader(file)}, nil
}

// Pos returns the reader's current logical position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Read implements io.Reader, advancing pos by the bytes returned.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.buf.Read(p)
	r.pos += int64(n)
	return n, err
}

// Seek seeks the underlying file to the given offset and resets pos and
// the buffered reader's internal state so subsequent reads start exactly
// at offset.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	newPos, err := r.file.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	r.buf.Reset(r.file)
	r.pos = newPos
	return newPos, nil
}

// ReadAt reads exactly len(p) bytes starting at offset, without disturbing
// the reader's current position tracking semantics for any caller relying
// on sequential Read/Seek — it seeks, reads fully, and leaves pos at
// offset+len(p).
func (r *Reader) ReadAt(offset int64, p []byte) error {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	n, err := io.ReadFull(r.buf, p)
	r.pos += int64(n)
	return err
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
