package seginfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateName(t *testing.T) {
	require.Equal(t, "3.log", GenerateName(3))
	require.Equal(t, "0.log", GenerateName(0))
}

func TestGenerationPath(t *testing.T) {
	require.Equal(t, filepath.Join("data", "7.log"), GenerationPath("data", 7))
}

func TestParseGeneration(t *testing.T) {
	cases := []struct {
		name    string
		wantGen uint64
		wantOk  bool
	}{
		{"1.log", 1, true},
		{"17.log", 17, true},
		{"/some/dir/42.log", 42, true},
		{"notasegment.txt", 0, false},
		{".log", 0, false},
		{"abc.log", 0, false},
	}

	for _, tc := range cases {
		gen, ok := ParseGeneration(tc.name)
		require.Equal(t, tc.wantOk, ok, tc.name)
		if tc.wantOk {
			require.Equal(t, tc.wantGen, gen, tc.name)
		}
	}
}

func TestDiscoverGenerationsSortsAscendingAndIgnoresOthers(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"3.log", "1.log", "17.log", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	gens, err := DiscoverGenerations(dir)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3, 17}, gens)
}

func TestLatestGenerationEmptyDir(t *testing.T) {
	dir := t.TempDir()

	_, ok, err := LatestGeneration(dir)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLatestGenerationReturnsHighest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.log", "5.log", "2.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	gen, ok, err := LatestGeneration(dir)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(5), gen)
}
