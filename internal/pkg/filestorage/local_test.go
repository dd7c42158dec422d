package filestorage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_WriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir)
	require.NoError(t, err)

	exists, err := ls.Exists("data.json")
	require.NoError(t, err)
	assert.False(t, exists)

	info, err := ls.WriteFileAtomic("data.json", []byte(`{"a":1}`), 0o644)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.json"), info.Path)
	assert.Equal(t, int64(7), info.FileSize)

	info, err = ls.WriteFileAtomic("data.json", []byte(`{"a":2}`), 0o644)
	require.NoError(t, err)

	got, err := ls.ReadFile("data.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestLocalStorage_FailedWriteKeepsPreviousContent(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = ls.WriteFileAtomic("data.json", []byte("old"), 0o644)
	require.NoError(t, err)

	// data.json is a file, so nothing can be created beneath it.
	_, err = ls.WriteFileAtomic("data.json/nested", []byte("new"), 0o644)
	require.Error(t, err)

	got, err := ls.ReadFile("data.json")
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}

func TestLocalStorage_GetFullPath(t *testing.T) {
	ls := &LocalStorage{basePath: "/srv/data"}
	assert.Equal(t, "/srv/data/catalog.json", ls.GetFullPath("catalog.json"))
	assert.Equal(t, "/abs/catalog.json", ls.GetFullPath("/abs/catalog.json"))
}
