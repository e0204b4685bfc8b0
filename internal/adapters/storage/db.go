// Package storage holds the profile photo backends: a MinIO bucket, or the
// database when no object storage is configured.
package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/adapters/persistence/repositories"
)

// DBStore keeps profile photos in the user_photos table
type DBStore struct {
	photos repositories.PhotoRepository
}

func NewDBStore(photos repositories.PhotoRepository) *DBStore {
	return &DBStore{photos: photos}
}

func (s *DBStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	return s.photos.Save(ctx, &models.UserPhoto{
		Key:         key,
		UserID:      userIDFromKey(key),
		ContentType: contentType,
		Data:        data,
	})
}

func (s *DBStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	photo, err := s.photos.GetByKey(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return photo.Data, photo.ContentType, nil
}

func (s *DBStore) Delete(ctx context.Context, key string) error {
	if err := s.photos.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete photo %s: %w", key, err)
	}
	return nil
}

// userIDFromKey reads the owner from keys shaped users/<id>/...; 0 if absent
func userIDFromKey(key string) uint {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) < 2 || parts[0] != "users" {
		return 0
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
