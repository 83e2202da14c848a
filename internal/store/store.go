// Package store owns the on-disk segment files that make up a bitvault
// directory: the reader pool (one position-tracking reader per
// generation), the single active writer, and the bookkeeping needed to
// create, promote, and delete generations. It has no notion of keys or
// the index — internal/engine composes store with internal/index and
// internal/record to implement set/get/remove, and internal/compaction
// composes store and index to implement compaction.
//
// Unlike a size-rotated segment scheme, bitvault's generations are
// compaction-driven: the store keeps one reader alive per generation until
// compaction deletes that generation, and the active segment is the single
// reader-pool entry it also appends to.
package store

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/arvikram/bitvault/internal/record"
	"github.com/arvikram/bitvault/internal/segment"
	"github.com/arvikram/bitvault/pkg/errors"
	"github.com/arvikram/bitvault/pkg/filesys"
	"github.com/arvikram/bitvault/pkg/seginfo"
	"go.uber.org/zap"
)

// Store manages the segment files backing one bitvault directory: a pool
// of readers keyed by generation, and the single writer for the current
// active generation.
type Store struct {
	dataDir string
	log     *zap.SugaredLogger

	mu      sync.Mutex
	readers map[uint64]*segment.Reader
	writer  *segment.Writer
	currGen uint64
}

// Config carries the parameters Open needs.
type Config struct {
	DataDir string
	Logger  *zap.SugaredLogger
}

// Open ensures dataDir exists, opens a reader for every pre-existing
// segment, and creates a fresh writer+reader pair at generation
// max(existing)+1. It returns the store and
// the sorted list of pre-existing generations so the caller can replay
// them in ascending order to rebuild the index (step 3 is the caller's
// responsibility, since only the caller knows how to interpret records).
func Open(config *Config) (st *Store, existingGenerations []uint64, err error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "store configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	if err := filesys.CreateDir(config.DataDir, 0755, true); err != nil {
		return nil, nil, errors.ClassifyDirectoryCreationError(err, config.DataDir)
	}

	gens, err := seginfo.DiscoverGenerations(config.DataDir)
	if err != nil {
		return nil, nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to discover segments").
			WithPath(config.DataDir)
	}
	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })

	st = &Store{
		dataDir: config.DataDir,
		log:     config.Logger,
		readers: make(map[uint64]*segment.Reader, len(gens)+1),
	}

	for _, gen := range gens {
		if _, err := st.openReader(gen); err != nil {
			st.closeAll()
			return nil, nil, err
		}
	}

	currGen := uint64(1)
	if len(gens) > 0 {
		currGen = gens[len(gens)-1] + 1
	}

	writer, err := st.openWriter(currGen)
	if err != nil {
		st.closeAll()
		return nil, nil, err
	}
	if _, err := st.openReader(currGen); err != nil {
		st.closeAll()
		return nil, nil, err
	}

	st.writer = writer
	st.currGen = currGen

	st.log.Infow("store opened", "dataDir", config.DataDir, "existingGenerations", gens, "currGen", currGen)
	return st, gens, nil
}

// CurrGen returns the generation the active writer is appending to.
func (s *Store) CurrGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currGen
}

// Generations returns every generation with a registered reader,
// including the active one, sorted ascending.
func (s *Store) Generations() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	gens := make([]uint64, 0, len(s.readers))
	for gen := range s.readers {
		gens = append(gens, gen)
	}
	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	return gens
}

// Append serializes cmd and appends+flushes it to the active segment,
// returning the offset the record started at and its encoded length —
// exactly the (pos, len) pair an index entry needs.
func (s *Store) Append(cmd record.Command) (pos uint64, length uint64, err error) {
	data, err := cmd.Marshal()
	if err != nil {
		return 0, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	posBefore := uint64(s.writer.Pos())
	if _, err := s.writer.Write(data); err != nil {
		return 0, 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to append record").
			WithGen(s.currGen).WithOffset(posBefore)
	}
	if err := s.writer.Flush(); err != nil {
		return 0, 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to flush active segment").
			WithGen(s.currGen).WithOffset(posBefore)
	}

	return posBefore, uint64(s.writer.Pos()) - posBefore, nil
}

// Read decodes exactly one command from generation gen starting at pos,
// spanning length bytes.
func (s *Store) Read(gen, pos, length uint64) (record.Command, error) {
	s.mu.Lock()
	reader, ok := s.readers[gen]
	s.mu.Unlock()
	if !ok {
		return record.Command{}, errors.NewStorageError(
			nil, errors.ErrorCodeSegmentCorrupted, "no reader registered for generation",
		).WithGen(gen).WithOffset(pos)
	}

	buf := make([]byte, length)
	if err := reader.ReadAt(int64(pos), buf); err != nil {
		return record.Command{}, errors.NewStorageError(err, errors.ErrorCodePayloadReadFailure, "failed to read record").
			WithGen(gen).WithOffset(pos)
	}

	cmd, err := record.Unmarshal(buf)
	if err != nil {
		return record.Command{}, errors.NewStorageError(err, errors.ErrorCodeSegmentCorrupted, "failed to decode record").
			WithGen(gen).WithOffset(pos)
	}
	return cmd, nil
}

// Replay decodes every record in generation gen from the start, invoking
// fn with each command's (pos, length). It stops at the first error fn
// returns or the first decode failure.
func (s *Store) Replay(gen uint64, fn func(cmd record.Command, pos, length uint64) error) error {
	s.mu.Lock()
	reader, ok := s.readers[gen]
	s.mu.Unlock()
	if !ok {
		return errors.NewStorageError(nil, errors.ErrorCodeSegmentCorrupted, "no reader registered for generation").
			WithGen(gen)
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek segment for replay").WithGen(gen)
	}

	dec := record.NewDecoder(reader)
	for {
		cmd, pos, length, err := dec.Next()
		if err == record.ErrStreamEOF {
			return nil
		}
		if err != nil {
			return errors.NewStorageError(err, errors.ErrorCodeSegmentCorrupted, "malformed record during replay").
				WithGen(gen).WithOffset(uint64(pos))
		}
		if err := fn(cmd, uint64(pos), uint64(length)); err != nil {
			return err
		}
	}
}

// CreateSegment opens a brand-new segment file at gen for both writing
// and reading, without making it the active writer. Compaction uses this
// to stand up its compaction and replacement-active segments
// before swapping them in via Promote.
func (s *Store) CreateSegment(gen uint64) (*segment.Writer, error) {
	writer, err := s.openWriter(gen)
	if err != nil {
		return nil, err
	}
	if _, err := s.openReader(gen); err != nil {
		writer.Close()
		return nil, err
	}
	return writer, nil
}

// Promote makes gen the active generation, closing (but not deleting)
// whatever writer was previously active. Its reader remains registered
// since the now-sealed segment may still be read.
func (s *Store) Promote(gen uint64, writer *segment.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldWriter := s.writer
	s.writer = writer
	s.currGen = gen

	if oldWriter != nil {
		return oldWriter.Close()
	}
	return nil
}

// DeleteSegment closes and removes the reader and backing file for gen.
// It must never be called for the currently active generation.
func (s *Store) DeleteSegment(gen uint64) error {
	s.mu.Lock()
	reader, ok := s.readers[gen]
	if ok {
		delete(s.readers, gen)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}

	if err := reader.Close(); err != nil {
		s.log.Warnw("failed to close reader before delete", "gen", gen, "error", err)
	}

	path := seginfo.GenerationPath(s.dataDir, gen)
	if err := filesys.DeleteFile(path); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to delete stale segment").
			WithGen(gen).WithPath(path)
	}
	return nil
}

// Reader returns the registered reader for gen, used by compaction to
// copy live records into the compaction segment.
func (s *Store) Reader(gen uint64) (*segment.Reader, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.readers[gen]
	return r, ok
}

// Writer returns the active writer. Compaction does not use it: it copies
// live records through the writer CreateSegment returns for the
// compaction generation.
func (s *Store) Writer() *segment.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer
}

// Close flushes the active writer and closes every open file handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeAllLocked()
}

func (s *Store) openWriter(gen uint64) (*segment.Writer, error) {
	path := seginfo.GenerationPath(s.dataDir, gen)
	w, err := segment.OpenWriter(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, seginfo.GenerateName(gen))
	}
	return w, nil
}

func (s *Store) openReader(gen uint64) (*segment.Reader, error) {
	path := seginfo.GenerationPath(s.dataDir, gen)
	r, err := segment.OpenReader(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, seginfo.GenerateName(gen))
	}

	s.mu.Lock()
	s.readers[gen] = r
	s.mu.Unlock()
	return r, nil
}

func (s *Store) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeAllLocked()
}

func (s *Store) closeAllLocked() error {
	var firstErr error
	if s.writer != nil {
		if err := s.writer.Close(); err != nil {
			firstErr = err
		}
		s.writer = nil
	}
	for gen, r := range s.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("store: failed to close reader for generation %d: %w", gen, err)
		}
	}
	s.readers = nil
	return firstErr
}
