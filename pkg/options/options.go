// Package options provides data structures and functions for configuring
// a bitvault store. It defines the parameters that control storage
// location, compaction behavior, and logging, following the functional
// options pattern so callers only specify what they want to override.
package options

import (
	"strings"

	"go.uber.org/zap"
)

// Options defines the configuration parameters for a bitvault store.
type Options struct {
	// DataDir is the base path where segment files and any derived state
	// are stored.
	//
	// Default: "/var/lib/bitvault"
	DataDir string `json:"dataDir"`

	// CompactionThreshold is the number of uncompacted bytes (the sum of
	// every record written since the last compaction, including
	// overwritten and tombstoned ones) that triggers an online
	// compaction pass.
	//
	// Default: 1048576 (1 MiB)
	CompactionThreshold uint64 `json:"compactionThreshold"`

	// Logger receives structured events for store lifecycle, recovery,
	// and compaction. bitvault.Open replaces a nil Logger with a
	// development logger from pkg/logger (or a no-op logger if that
	// cannot be built).
	Logger *zap.SugaredLogger `json:"-"`
}

// OptionFunc is a function type that modifies a bitvault store's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the predefined set of default configuration
// values to Options, without touching an already-set Logger.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		defaults := NewDefaultOptions()
		o.DataDir = defaults.DataDir
		o.CompactionThreshold = defaults.CompactionThreshold
	}
}

// WithDataDir sets the base directory bitvault stores its segment files in.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithCompactionThreshold sets the uncompacted-bytes watermark that
// triggers compaction. Values below MinCompactionThreshold are ignored
// in favor of the current setting, since a threshold that small turns
// nearly every write into a compaction.
func WithCompactionThreshold(bytes uint64) OptionFunc {
	return func(o *Options) {
		if bytes >= MinCompactionThreshold {
			o.CompactionThreshold = bytes
		}
	}
}

// WithLogger sets the structured logger used for store lifecycle,
// recovery, and compaction events.
func WithLogger(logger *zap.SugaredLogger) OptionFunc {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
