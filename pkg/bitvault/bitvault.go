// Package bitvault provides a high-performance key/value data store
// designed for fast read and write operations, inspired by Bitcask.
// It combines an in-memory hash table (the index) with an append-only
// log structure on disk to achieve high throughput, trading range scans
// and multi-key transactions for O(1) lookups and crash-safe durability.
package bitvault

import (
	"errors"

	"github.com/arvikram/bitvault/internal/engine"
	pkgerrors "github.com/arvikram/bitvault/pkg/errors"
	"github.com/arvikram/bitvault/pkg/logger"
	"github.com/arvikram/bitvault/pkg/options"
)

// ErrKeyNotFound is returned by Remove when the key is absent from the
// store. Get does not return this error — it reports a miss via its
// second return value instead.
var ErrKeyNotFound = errors.New("bitvault: key not found")

// DB is the primary entry point for interacting with a bitvault store,
// providing methods for setting, getting, and removing key-value pairs.
// A DB is bound to one data directory for its entire lifetime and is not
// safe for concurrent use; callers sharing a DB across
// goroutines must serialize access themselves.
type DB struct {
	engine *engine.Engine
	opts   *options.Options
}

// Open creates or reopens a bitvault store rooted at dir. If dir already
// holds segment files from a previous session, Open replays them to
// restore the index before returning.
func Open(dir string, opts ...options.OptionFunc) (*DB, error) {
	conf := options.NewDefaultOptions()
	options.WithDataDir(dir)(&conf)
	for _, opt := range opts {
		opt(&conf)
	}

	log := conf.Logger
	if log == nil {
		var err error
		log, err = logger.New("bitvault")
		if err != nil {
			log = logger.NewNop()
		}
	}

	eng, err := engine.Open(&engine.Config{Options: &conf, Logger: log})
	if err != nil {
		return nil, err
	}

	return &DB{engine: eng, opts: &conf}, nil
}

// Set stores a key-value pair in the database. If the key already
// exists, its value is overwritten. The write is buffered-and-flushed
// before Set returns; fsync is not guaranteed.
func (db *DB) Set(key, value string) error {
	return db.engine.Set(key, value)
}

// Get retrieves the value associated with key. The second return value
// reports whether key was present; a miss is not an error.
func (db *DB) Get(key string) (string, bool, error) {
	return db.engine.Get(key)
}

// Remove deletes key from the database. Unlike Get, removing an absent
// key is an error: ErrKeyNotFound.
func (db *DB) Remove(key string) error {
	if err := db.engine.Remove(key); err != nil {
		if isKeyNotFound(err) {
			return ErrKeyNotFound
		}
		return err
	}
	return nil
}

// Close gracefully shuts down the DB, flushing the active segment and
// releasing every open file handle. The DB is not usable after Close
// returns.
func (db *DB) Close() error {
	return db.engine.Close()
}

func isKeyNotFound(err error) bool {
	return pkgerrors.GetErrorCode(err) == pkgerrors.ErrorCodeIndexKeyNotFound
}
