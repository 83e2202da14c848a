// Package index provides the in-memory hash table that maps keys to their
// most recent Set's on-disk location — the core Bitcask architectural
// principle: keep every key in memory with minimal metadata, keep actual
// values on disk.
//
// The index enables O(1) key lookups while storage overhead stays minimal,
// which lets the engine handle datasets larger than available RAM while
// keeping read performance predictable.
package index

import (
	stdErrors "errors"
	"sort"

	"github.com/arvikram/bitvault/pkg/errors"
)

// ErrIndexClosed is returned when attempting to operate on a closed index.
var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// New creates and initializes a new Index instance. The returned Index is
// immediately ready for use and includes a pre-allocated map to avoid
// early rehashing for small stores.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:     config.Logger,
		entries: make(map[string]CommandPos, 1024),
	}, nil
}

// Get returns the CommandPos for key and whether it was present.
func (idx *Index) Get(key string) (CommandPos, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	pos, ok := idx.entries[key]
	return pos, ok
}

// Set inserts or overwrites the entry for key.
func (idx *Index) Set(key string, pos CommandPos) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries[key] = pos
}

// Delete removes the entry for key, reporting whether it was present.
func (idx *Index) Delete(key string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.entries[key]; !ok {
		return false
	}
	delete(idx.entries, key)
	return true
}

// Len returns the number of live keys in the index.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Keys returns all live keys in sorted order. Ordering is not required for
// correctness but makes compaction output and tests
// deterministic.
func (idx *Index) Keys() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	keys := make([]string, 0, len(idx.entries))
	for k := range idx.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of every (key, CommandPos) pair currently live.
// The copy is a map, so it carries no key order; later changes to the
// index do not affect it.
func (idx *Index) Snapshot() map[string]CommandPos {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string]CommandPos, len(idx.entries))
	for k, v := range idx.entries {
		out[k] = v
	}
	return out
}

// Close clears the index's backing map. The index is not usable after
// Close returns.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Debugw("closing index", "entries", len(idx.entries))

	idx.mu.Lock()
	defer idx.mu.Unlock()
	clear(idx.entries)
	idx.entries = nil
	return nil
}
