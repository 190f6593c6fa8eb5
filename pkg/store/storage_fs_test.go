package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStorage_WriteRead(t *testing.T) {
	ctx := context.Background()
	storage, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)

	err = storage.Write(ctx, "test-key", []byte("test-data"))
	require.NoError(t, err)

	data, err := storage.Read(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, []byte("test-data"), data)
}

func TestFilesystemStorage_Overwrite(t *testing.T) {
	ctx := context.Background()
	storage, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.Write(ctx, "test-key", []byte("original")))
	require.NoError(t, storage.Write(ctx, "test-key", []byte("updated")))

	data, err := storage.Read(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), data)
}

func TestFilesystemStorage_ReadNotFound(t *testing.T) {
	ctx := context.Background()
	storage, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.Read(ctx, "nonexistent-key")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestFilesystemStorage_List(t *testing.T) {
	ctx := context.Background()
	storage, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.Write(ctx, "page-a.json", []byte("a")))
	require.NoError(t, storage.Write(ctx, "page-b.json", []byte("b")))
	require.NoError(t, storage.Write(ctx, "menu.json", []byte("m")))

	keys, err := storage.List(ctx, "page-")
	require.NoError(t, err)
	assert.Equal(t, []string{"page-b.json", "page-a.json"}, keys)
}

func TestFilesystemStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.Write(ctx, "test-key", []byte("x")))
	require.NoError(t, storage.Delete(ctx, "test-key"))

	_, err = storage.Read(ctx, "test-key")
	require.Error(t, err)

	// deleting a missing key is not an error
	require.NoError(t, storage.Delete(ctx, "test-key"))
}
