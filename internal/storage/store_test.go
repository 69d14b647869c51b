package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Rick Astley - Never Gonna Give You Up", "rick_astley___never_gonna_give_you_up"},
		{"abc123", "abc123"},
		{"Ünïcode!", "_n_code_"},
		{"../etc/passwd", "___etc_passwd"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestFileStore_SaveCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	store := NewFileStore(dir, nil)

	path, n, err := store.Save("clip.mp4", strings.NewReader("video bytes"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "clip.mp4"), path)
	assert.EqualValues(t, len("video bytes"), n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "video bytes", string(data))
	assertNoPartFiles(t, dir)
}

func TestFileStore_SaveReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, nil)

	_, _, err := store.Save("clip.mp4", strings.NewReader("old"))
	require.NoError(t, err)
	path, _, err := store.Save("clip.mp4", strings.NewReader("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

type failingReader struct {
	sent bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "partial"), nil
	}
	return 0, errors.New("connection reset")
}

func TestFileStore_SaveFailureRemovesPartFile(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, nil)

	_, n, err := store.Save("clip.mp4", &failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.EqualValues(t, len("partial"), n)

	_, statErr := os.Stat(filepath.Join(dir, "clip.mp4"))
	assert.True(t, os.IsNotExist(statErr), "destination should not exist")
	assertNoPartFiles(t, dir)
}

func TestFileStore_PathStripsDirectories(t *testing.T) {
	store := NewFileStore("/out", nil)
	assert.Equal(t, filepath.Join("/out", "passwd"), store.Path("../../etc/passwd"))
}

func TestFileStore_Writable(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, nil)

	require.NoError(t, store.Writable())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file should be removed")
}

func TestFileStore_DiskUsage(t *testing.T) {
	store := NewFileStore(t.TempDir(), nil)
	usage := store.DiskUsage()

	if usage.TotalBytes > 0 {
		assert.GreaterOrEqual(t, usage.TotalBytes, usage.FreeBytes)
		assert.Equal(t, usage.TotalBytes-usage.FreeBytes, usage.UsedBytes)
	}
}

func TestFileStore_DiskUsageMissingDir(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Equal(t, DiskUsage{}, store.DiskUsage())
}

func assertNoPartFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".part"), "leftover part file %s", e.Name())
	}
}
