package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"rentalhub/internal/domain/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, logs io.Writer) *blobStorage {
	t.Helper()

	storage, err := NewBlobStorage(context.Background(), "mem://", "http://cdn.test/uploads/", slog.New(slog.NewTextHandler(logs, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	return storage
}

func TestBlobStorage_UploadAndDelete(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t, io.Discard)

	obj, err := storage.Upload(ctx, constants.FolderProperties, "Flat.JPG", "image/jpeg", []byte("jpeg-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.Key, constants.FolderProperties+"/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".jpg"))
	assert.Equal(t, "http://cdn.test/uploads/"+obj.Key, obj.URL)
	assert.Equal(t, int64(10), obj.Size)
	assert.Equal(t, "image/jpeg", obj.ContentType)

	data, err := storage.bucket.ReadAll(ctx, obj.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	storage.Delete(ctx, obj.URL)

	exists, err := storage.bucket.Exists(ctx, obj.Key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBlobStorage_UniqueKeys(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t, io.Discard)

	first, err := storage.Upload(ctx, constants.FolderGeneral, "a.png", "image/png", []byte("1"))
	require.NoError(t, err)
	second, err := storage.Upload(ctx, constants.FolderGeneral, "a.png", "image/png", []byte("2"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
}

func TestBlobStorage_DeleteForeignURL(t *testing.T) {
	var logs bytes.Buffer
	storage := newTestStorage(t, &logs)

	storage.Delete(context.Background(), "https://elsewhere.test/a.jpg")
	storage.Delete(context.Background(), "http://cdn.test/uploads/../secret")

	assert.Contains(t, logs.String(), "Skipping delete of foreign object URL")
}

func TestBlobStorage_DeleteMissingObjectIsLogged(t *testing.T) {
	var logs bytes.Buffer
	storage := newTestStorage(t, &logs)

	storage.Delete(context.Background(), "http://cdn.test/uploads/rental_app/general/missing.jpg")

	assert.Contains(t, logs.String(), "Failed to delete object")
}
