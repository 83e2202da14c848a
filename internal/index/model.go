package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// CommandPos contains the metadata required to locate and retrieve a Set
// record from disk. It is the single entry stored per live key in the
// in-memory index: everything downstream (get, compaction) works from
// this triple alone, never from a re-scan of the segment.
//
// Each CommandPos serves as a precise "address" that tells the engine
// exactly where to find a value without requiring any scanning or
// additional lookups: jump straight to Gen, seek to Pos, read Len bytes.
type CommandPos struct {
	// Gen identifies which segment file holds this record.
	Gen uint64

	// Pos is the byte offset within segment Gen where the record begins.
	// A read seeks here and reads exactly Len bytes.
	Pos uint64

	// Len is the total byte length of the record on disk, encompassing
	// the full encoded Set command. It lets a read fetch the entire
	// record in one call rather than scanning for a delimiter.
	Len uint64
}

// Index is the in-memory hash table that maps keys to their most recent
// Set's disk location. This is the core Bitcask-style optimization: every
// key lives in memory, but values stay on disk, so the store can hold far
// more data than fits in RAM while keeping lookups O(1).
type Index struct {
	log     *zap.SugaredLogger     // Structured logging for index lifecycle events.
	entries map[string]CommandPos  // The core mapping from key to disk location.
	mu      sync.RWMutex           // Guards entries against reentrant misuse.
	closed  atomic.Bool            // Indicates whether the index has been closed.
}

// Config encapsulates the configuration parameters required to initialize
// an Index.
type Config struct {
	Logger *zap.SugaredLogger // Structured logging capabilities for index operations.
}
