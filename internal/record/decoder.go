package record

import (
	"encoding/json"
	"errors"
	"io"
)

// Decoder streams Commands back-to-back from a reader positioned at the
// start of a segment, reporting the byte offset reached after each record
// so callers can compute each record's (pos, len) for the index — the Go
// analogue of serde_json's Deserializer::into_iter().byte_offset() used by
// the Rust original this store's replay algorithm is grounded on.
type Decoder struct {
	dec *json.Decoder
	pos int64
}

// NewDecoder wraps r, which must be positioned at the offset the caller
// considers byte 0 of the stream (start tracks that as pos 0 regardless of
// the underlying file's absolute offset).
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

// ErrStreamEOF is returned by Next when the stream is exhausted.
var ErrStreamEOF = io.EOF

// Next decodes the next Command, returning its starting offset and length
// within the stream along with the decoded value. Returns io.EOF when no
// more records remain.
func (d *Decoder) Next() (cmd Command, pos int64, length int64, err error) {
	pos = d.pos
	if err = d.dec.Decode(&cmd); err != nil {
		if errors.Is(err, io.EOF) {
			return Command{}, 0, 0, io.EOF
		}
		return Command{}, 0, 0, err
	}
	if _, ok := cmd.Key(); !ok {
		return Command{}, 0, 0, errors.New("record: decoded command has neither or both arms set")
	}
	newPos := d.dec.InputOffset()
	length = newPos - pos
	d.pos = newPos
	return cmd, pos, length, nil
}
