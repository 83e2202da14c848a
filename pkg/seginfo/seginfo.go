// Package seginfo provides utilities for discovering and naming the
// generation-numbered segment files that make up a bitvault store.
//
// Filename format: <generation>.log
//
// Where generation is a base-10, non-zero-padded uint64. Generations are
// assigned in strictly increasing order as new segments are created, so
// lexicographic filename order is NOT sort order — callers must parse
// and compare numerically (DiscoverGenerations does this for you).
//
// Example filenames:
//
//	1.log
//	2.log
//	17.log
package seginfo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/arvikram/bitvault/pkg/filesys"
)

// Extension is the fixed suffix every segment file carries.
const Extension = ".log"

// GenerateName returns the filename for segment generation gen, e.g.
// GenerateName(3) == "3.log".
func GenerateName(gen uint64) string {
	return strconv.FormatUint(gen, 10) + Extension
}

// GenerationPath joins dataDir and the generated filename for gen.
func GenerationPath(dataDir string, gen uint64) string {
	return filepath.Join(dataDir, GenerateName(gen))
}

// ParseGeneration extracts the generation number from a segment filename
// or full path. It reports false if the name doesn't match "<uint64>.log".
func ParseGeneration(name string) (uint64, bool) {
	name = filepath.Base(name)
	if !strings.HasSuffix(name, Extension) {
		return 0, false
	}

	digits := strings.TrimSuffix(name, Extension)
	if digits == "" {
		return 0, false
	}

	gen, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return gen, true
}

// DiscoverGenerations scans dataDir for segment files and returns every
// generation found, sorted ascending. Non-matching files (anything that
// isn't "<uint64>.log") are ignored rather than treated as an error,
// since a data directory may also hold unrelated files.
func DiscoverGenerations(dataDir string) ([]uint64, error) {
	entries, err := filesys.ReadDir(filepath.Join(dataDir, "*"+Extension))
	if err != nil {
		return nil, fmt.Errorf("seginfo: failed to scan %s: %w", dataDir, err)
	}

	gens := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		if gen, ok := ParseGeneration(entry); ok {
			gens = append(gens, gen)
		}
	}

	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	return gens, nil
}

// LatestGeneration returns the highest generation number present in
// dataDir, and whether any segment exists at all.
func LatestGeneration(dataDir string) (uint64, bool, error) {
	gens, err := DiscoverGenerations(dataDir)
	if err != nil {
		return 0, false, err
	}
	if len(gens) == 0 {
		return 0, false, nil
	}
	return gens[len(gens)-1], true, nil
}

// GetFileInfo safely retrieves file system metadata for a given path.
func GetFileInfo(filePath string) (os.FileInfo, error) {
	file, err := os.OpenFile(filePath, os.O_RDONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info for %s: %w", filePath, err)
	}
	return stat, nil
}
