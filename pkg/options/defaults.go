package options

const (
	// DefaultDataDir specifies the default base directory where bitvault
	// will store its segment files.
	DefaultDataDir = "/var/lib/bitvault"

	// DefaultCompactionThreshold is the uncompacted-bytes watermark that
	// triggers compaction: 1 MiB.
	DefaultCompactionThreshold uint64 = 1024 * 1024

	// MinCompactionThreshold is the smallest threshold accepted by
	// WithCompactionThreshold; smaller values passed to it are ignored,
	// since they would make compaction run on nearly every write.
	MinCompactionThreshold uint64 = 4 * 1024
)

// Holds the default configuration settings for a bitvault instance.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	CompactionThreshold: DefaultCompactionThreshold,
}

// NewDefaultOptions returns a fresh copy of the default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
