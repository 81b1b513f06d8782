package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Out")

	path, err := WriteResults(dir, "batch 7", []string{"0104600", "приём", "x\x1dy"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "batch 7_results.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0104600\nприём\nx\x1dy\n", string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWriteResultsReplaces(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteResults(dir, "a", []string{"old", "older"})
	require.NoError(t, err)

	path, err := WriteResults(dir, "a", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWriteResultsFailure(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := WriteResults(filepath.Join(blocker, "Out"), "a", []string{"x"})
	require.ErrorIs(t, err, ErrOutputWrite)
}
