package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveGeneratesServerName(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(strings.NewReader("hello"), "recording.webm")
	require.NoError(t, err)
	assert.NotEqual(t, "recording.webm", name)
	assert.True(t, strings.HasSuffix(name, "-recording.webm"))

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	second, err := store.Save(strings.NewReader("hello"), "recording.webm")
	require.NoError(t, err)
	assert.NotEqual(t, name, second, "same original name must not collide")
}

func TestSaveStripsClientPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	name, err := store.Save(strings.NewReader("x"), "../../etc/passwd")
	require.NoError(t, err)
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "..")

	_, err = os.Stat(filepath.Join(dir, name))
	assert.NoError(t, err, "the file lands inside the store directory")
}

func TestRemove(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(strings.NewReader("bye"), "note.txt")
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Remove(name), "removing a missing file is not an error")
	assert.NoError(t, store.Remove("never-existed"))
}
