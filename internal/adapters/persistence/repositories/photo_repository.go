package repositories

import (
	"context"
	"errors"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// photoRepository implements PhotoRepository interface
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

// Save inserts or replaces a photo by key
func (r *photoRepository) Save(ctx context.Context, photo *models.UserPhoto) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "object_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"content_type", "data"}),
		}).
		Create(photo).Error
}

// GetByKey gets a photo by key
func (r *photoRepository) GetByKey(ctx context.Context, key string) (*models.UserPhoto, error) {
	var photo models.UserPhoto
	err := r.db.WithContext(ctx).Where("object_key = ?", key).First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// Delete removes a photo; deleting a missing key is not an error
func (r *photoRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("object_key = ?", key).Delete(&models.UserPhoto{}).Error
}
