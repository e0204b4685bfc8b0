package repositories

import (
	"context"
	"errors"
	"time"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// courseRepository implements CourseRepository interface
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(course).Error
}

// GetByID gets a course with its instructor
func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).Preload("Instructor").Where("id = ?", id).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

// List lists courses with pagination; limit <= 0 returns every course
func (r *courseRepository) List(ctx context.Context, offset, limit int) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	// Count total
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Preload("Instructor").Order("id ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// ListByCategory lists courses whose category matches exactly
func (r *courseRepository) ListByCategory(ctx context.Context, category string) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("category = ?", category).
		Order("id ASC").
		Find(&courses).Error
	return courses, err
}

// ListStartingBetween lists courses with from <= start_time < to
func (r *courseRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&courses).Error
	return courses, err
}

// Update updates a course's own columns
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(course).Error
}
