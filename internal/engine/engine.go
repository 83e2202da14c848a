// Package engine provides the core database engine implementation for
// the bitvault storage system.
//
// The engine serves as the central coordinator and entry point for all
// database operations. It orchestrates the interaction between three
// main subsystems:
//   - Index: an in-memory hash table mapping keys to their most recent
//     Set's on-disk location.
//   - Store: owns the segment files on disk — the reader pool and the
//     single active writer.
//   - Compaction: reclaims space by rewriting live records into a fresh
//     segment once enough stale bytes have accumulated.
//
// An Engine is single-threaded and blocking: every
// operation runs synchronously on the caller's goroutine, including
// compaction when it's triggered, and a single instance is not safe for
// concurrent use.
package engine

import (
	"errors"
	"sync/atomic"

	"github.com/arvikram/bitvault/internal/compaction"
	"github.com/arvikram/bitvault/internal/index"
	"github.com/arvikram/bitvault/internal/record"
	"github.com/arvikram/bitvault/internal/store"
	pkgerrors "github.com/arvikram/bitvault/pkg/errors"
	"github.com/arvikram/bitvault/pkg/options"
	"go.uber.org/zap"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = errors.New("operation failed: cannot access closed engine")
)

// Engine represents the main database engine that coordinates all
// subsystems. It acts as the primary interface for database operations
// and manages the lifecycle of all internal components.
type Engine struct {
	opts    *options.Options   // opts contains all configuration parameters for the engine and its subsystems.
	log     *zap.SugaredLogger // log provides structured logging capabilities throughout the engine.
	closed  atomic.Bool        // closed tracks the engine's lifecycle state.
	idx     *index.Index       // idx manages the in-memory data structures for fast data access.
	st      *store.Store       // st handles all persistent segment operations.
	compact *compaction.Compactor

	// staleBytes is the compaction counter: the cumulative number of
	// bytes written since the last compaction. It is not safe for
	// concurrent use, matching the engine's single-threaded contract.
	staleBytes uint64
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Open initializes a new Engine rooted at config.Options.DataDir: it
// opens (creating if necessary) the segment directory, replays every
// existing segment in ascending generation order to rebuild the index,
// and opens a fresh active segment for writes.
func Open(config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, pkgerrors.NewValidationError(
			nil, pkgerrors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	idx, err := index.New(&index.Config{Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	st, existingGens, err := store.Open(&store.Config{
		DataDir: config.Options.DataDir,
		Logger:  config.Logger,
	})
	if err != nil {
		return nil, err
	}

	for _, gen := range existingGens {
		if err := replaySegment(st, idx, gen); err != nil {
			st.Close()
			return nil, err
		}
	}

	config.Logger.Infow("engine opened", "dataDir", config.Options.DataDir, "recoveredKeys", idx.Len())

	return &Engine{
		opts:    config.Options,
		log:     config.Logger,
		idx:     idx,
		st:      st,
		compact: compaction.New(config.Logger),
	}, nil
}

// replaySegment rebuilds idx's entries from one segment's records in
// append order: Set overwrites, Remove deletes, and a Remove with no
// matching prior entry is treated as fatal corruption rather than
// silently ignored.
func replaySegment(st *store.Store, idx *index.Index, gen uint64) error {
	return st.Replay(gen, func(cmd record.Command, pos, length uint64) error {
		switch {
		case cmd.IsSet():
			key, _ := cmd.Key()
			idx.Set(key, index.CommandPos{Gen: gen, Pos: pos, Len: length})
			return nil
		case cmd.IsRemove():
			key, _ := cmd.Key()
			if !idx.Delete(key) {
				return pkgerrors.NewIndexCorruptionError("Replay", key, idx.Len(), nil)
			}
			return nil
		default:
			return pkgerrors.NewInvalidCommandError("", gen)
		}
	})
}

// Set assigns key <- value, appending a Set record to the active segment
// and updating the index to point at it. If the
// compaction counter crosses the configured threshold afterward,
// compaction runs synchronously before Set returns.
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	pos, length, err := e.st.Append(record.NewSet(key, value))
	if err != nil {
		return err
	}

	e.idx.Set(key, index.CommandPos{Gen: e.st.CurrGen(), Pos: pos, Len: length})
	return e.accumulateAndMaybeCompact(length)
}

// Get looks up key and, if present, decodes and returns its value.
// A missing key is not an error: it returns ("", false).
func (e *Engine) Get(key string) (string, bool, error) {
	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	pos, ok := e.idx.Get(key)
	if !ok {
		return "", false, nil
	}

	cmd, err := e.st.Read(pos.Gen, pos.Pos, pos.Len)
	if err != nil {
		return "", false, err
	}
	if !cmd.IsSet() {
		return "", false, pkgerrors.NewInvalidCommandError(key, pos.Gen)
	}

	return cmd.Set.Value, true, nil
}

// Remove deletes key, appending a Remove tombstone to the active segment
// Unlike Get, Remove of an absent key is an error.
func (e *Engine) Remove(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	if _, ok := e.idx.Get(key); !ok {
		return pkgerrors.NewKeyNotFoundError(key)
	}

	_, length, err := e.st.Append(record.NewRemove(key))
	if err != nil {
		return err
	}
	e.idx.Delete(key)

	return e.accumulateAndMaybeCompact(length)
}

// accumulateAndMaybeCompact adds n bytes to the compaction counter and,
// if the configured threshold is crossed, runs a compaction pass and
// resets the counter.
func (e *Engine) accumulateAndMaybeCompact(n uint64) error {
	e.staleBytes += n
	if e.staleBytes < e.opts.CompactionThreshold {
		return nil
	}

	if err := e.compact.Run(e.st, e.idx); err != nil {
		return err
	}
	e.staleBytes = 0
	return nil
}

// Close gracefully shuts down the engine and releases all associated
// resources, flushing the active segment before the index and store are
// torn down.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	if err := e.st.Close(); err != nil {
		return err
	}
	return e.idx.Close()
}
