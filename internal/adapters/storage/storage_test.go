package storage

import (
	"context"
	"testing"

	"skillbook/internal/adapters/persistence/memory"
	"skillbook/internal/config"
	"skillbook/internal/core/domain"
	"skillbook/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ services.PhotoStore = (*DBStore)(nil)
var _ services.PhotoStore = (*MinioStore)(nil)

func TestDBStore_RoundTrip(t *testing.T) {
	store := NewDBStore(memory.NewStore().Photos())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "users/7/photo-1", "image/png", []byte{1, 2, 3}))

	data, contentType, err := store.Get(ctx, "users/7/photo-1")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, store.Delete(ctx, "users/7/photo-1"))
	_, _, err = store.Get(ctx, "users/7/photo-1")
	assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
}

func TestUserIDFromKey(t *testing.T) {
	assert.Equal(t, uint(7), userIDFromKey("users/7/photo-abc"))
	assert.Equal(t, uint(0), userIDFromKey("avatars/7/photo"))
	assert.Equal(t, uint(0), userIDFromKey("users/x/photo"))
	assert.Equal(t, uint(0), userIDFromKey(""))
}

func TestNewMinioStore_Validation(t *testing.T) {
	_, err := NewMinioStore(config.MinIOConfig{})
	assert.Error(t, err)

	_, err = NewMinioStore(config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"})
	assert.Error(t, err)

	_, err = NewMinioStore(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"})
	assert.Error(t, err)

	s, err := NewMinioStore(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "photos"})
	require.NoError(t, err)
	assert.Equal(t, "photos", s.Bucket())
}
