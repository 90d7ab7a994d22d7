// Test Type: Unit Test
// Description: Tests for the file storage backend

package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	coded "github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/filesystem"
	"github.com/arthur-debert/asprules/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "asp-rules", storage.FileName("asp:rules"))
	assert.Equal(t, "a-b-c", storage.FileName("a/b\\c"))
	assert.Equal(t, "_", storage.FileName(".."))
	assert.Equal(t, "_", storage.FileName(""))
}

func TestFile_GetMissing(t *testing.T) {
	f := storage.NewFile("/state", storage.WithFS(filesystem.NewMemory()))

	v, found, err := f.Get(context.Background(), "asp:rules")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestFile_SetGet(t *testing.T) {
	for _, format := range storage.Formats {
		t.Run(format, func(t *testing.T) {
			ctx := context.Background()
			mem := filesystem.NewMemory()
			codec, err := storage.CodecFor(format)
			require.NoError(t, err)

			f := storage.NewFile("/state/asprules", storage.WithFS(mem), storage.WithCodec(codec))
			assert.Equal(t, "/state/asprules/asp-rules"+codec.Ext(), f.Path("asp:rules"))

			require.NoError(t, f.Set(ctx, "asp:rules", sampleValue()))

			_, err = mem.Stat(f.Path("asp:rules"))
			require.NoError(t, err)
			_, err = mem.Stat(f.Path("asp:rules") + ".tmp")
			assert.Error(t, err, "temporary file must be renamed away")

			got, found, err := f.Get(ctx, "asp:rules")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, sampleValue(), got)
		})
	}
}

func TestFile_CorruptPayload(t *testing.T) {
	mem := filesystem.NewMemory()
	require.NoError(t, mem.MkdirAll("/state", 0755))
	require.NoError(t, mem.WriteFile("/state/asp-rules.json", []byte("{not json"), 0644))

	f := storage.NewFile("/state", storage.WithFS(mem))
	_, found, err := f.Get(context.Background(), "asp:rules")
	assert.False(t, found)
	assert.True(t, coded.IsErrorCode(err, coded.ErrStorageCodec))
}

func TestFile_ReadError(t *testing.T) {
	boom := errors.New("permission denied")
	mem := filesystem.NewMemory()
	mem.WithError("/state/asp-rules.json", boom)

	f := storage.NewFile("/state", storage.WithFS(mem))
	_, _, err := f.Get(context.Background(), "asp:rules")
	assert.True(t, coded.IsErrorCode(err, coded.ErrStorageRead))
	assert.ErrorIs(t, err, boom)
}

func TestFile_WriteError(t *testing.T) {
	boom := errors.New("read-only filesystem")
	mem := filesystem.NewMemory()
	mem.WithError("/state/asp-rules.json.tmp", boom)

	f := storage.NewFile("/state", storage.WithFS(mem))
	err := f.Set(context.Background(), "asp:rules", sampleValue())
	assert.True(t, coded.IsErrorCode(err, coded.ErrStorageWrite))
	assert.ErrorIs(t, err, boom)
}

func TestFile_OnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	f := storage.NewFile(dir)
	ctx := context.Background()

	require.NoError(t, f.Set(ctx, "asp:rules", sampleValue()))
	got, found, err := f.Get(ctx, "asp:rules")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sampleValue(), got)
	assert.Equal(t, dir, f.Dir())
}
