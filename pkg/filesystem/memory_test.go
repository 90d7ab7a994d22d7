package filesystem_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/asprules/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFS_WriteRead(t *testing.T) {
	m := filesystem.NewMemory()

	err := m.WriteFile("/data/rules.json", []byte("[]"), 0644)
	require.Error(t, err, "parent directory must exist")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, m.MkdirAll("/data", 0755))
	require.NoError(t, m.WriteFile("/data/rules.json", []byte("[]"), 0644))

	data, err := m.ReadFile("/data/rules.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	info, err := m.Stat("/data/rules.json")
	require.NoError(t, err)
	assert.Equal(t, "rules.json", info.Name())
	assert.Equal(t, int64(2), info.Size())
	assert.False(t, info.IsDir())

	reads, writes := m.Stats()
	assert.Equal(t, 1, reads)
	assert.Equal(t, 2, writes)
}

func TestMemoryFS_Rename(t *testing.T) {
	m := filesystem.NewMemory()
	require.NoError(t, m.MkdirAll("/d", 0755))
	require.NoError(t, m.WriteFile("/d/a.tmp", []byte("new"), 0644))
	require.NoError(t, m.WriteFile("/d/a", []byte("old"), 0644))

	require.NoError(t, m.Rename("/d/a.tmp", "/d/a"))

	data, err := m.ReadFile("/d/a")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	_, err = m.Stat("/d/a.tmp")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemoryFS_Remove(t *testing.T) {
	m := filesystem.NewMemory()
	require.NoError(t, m.MkdirAll("/d/e", 0755))

	assert.Error(t, m.Remove("/d"), "non-empty directory")
	require.NoError(t, m.Remove("/d/e"))
	require.NoError(t, m.Remove("/d"))
	assert.ErrorIs(t, m.Remove("/d"), fs.ErrNotExist)
}

func TestMemoryFS_ErrorInjection(t *testing.T) {
	boom := errors.New("boom")
	m := filesystem.NewMemory()
	require.NoError(t, m.MkdirAll("/d", 0755))
	m.WithError("/d/x", boom)

	_, err := m.ReadFile("/d/x")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.WriteFile("/d/x", nil, 0644), boom)

	m.ClearErrors()
	assert.NoError(t, m.WriteFile("/d/x", nil, 0644))
}

func TestOS_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	osfs := filesystem.NewOS()

	path := filepath.Join(dir, "nested", "file.txt")
	require.NoError(t, osfs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, osfs.WriteFile(path+".tmp", []byte("hello"), 0644))
	require.NoError(t, osfs.Rename(path+".tmp", path))

	data, err := osfs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, osfs.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteAtomic(t *testing.T) {
	t.Run("creates_parent_and_replaces", func(t *testing.T) {
		m := filesystem.NewMemory()
		require.NoError(t, filesystem.WriteAtomic(m, "/state/rules.json", []byte("[1]"), 0644))
		require.NoError(t, filesystem.WriteAtomic(m, "/state/rules.json", []byte("[2]"), 0644))

		data, err := m.ReadFile("/state/rules.json")
		require.NoError(t, err)
		assert.Equal(t, "[2]", string(data))

		_, err = m.Stat("/state/rules.json.tmp")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("failed_rename_keeps_old_content", func(t *testing.T) {
		boom := errors.New("busy")
		m := filesystem.NewMemory()
		require.NoError(t, filesystem.WriteAtomic(m, "/state/rules.json", []byte("old"), 0644))
		m.WithError("/state/rules.json", boom)

		err := filesystem.WriteAtomic(m, "/state/rules.json", []byte("new"), 0644)
		assert.ErrorIs(t, err, boom)

		m.ClearErrors()
		data, err := m.ReadFile("/state/rules.json")
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))
		_, err = m.Stat("/state/rules.json.tmp")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}
