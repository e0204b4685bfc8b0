package repositories

import (
	"context"

	"skillbook/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// enrollmentRepository implements EnrollmentRepository interface
type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Enroll inserts the pair with ON CONFLICT DO NOTHING. Concurrent calls for the
// same pair leave exactly one row and exactly one caller sees created=true.
func (r *enrollmentRepository) Enroll(ctx context.Context, userID, courseID uint) (bool, error) {
	enrollment := models.CourseEnrollment{UserID: userID, CourseID: courseID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&enrollment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListStudents lists users enrolled in a course
func (r *enrollmentRepository) ListStudents(ctx context.Context, courseID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN course_enrollments ON course_enrollments.user_id = users.id").
		Where("course_enrollments.course_id = ?", courseID).
		Order("users.username ASC").
		Find(&users).Error
	return users, err
}

// CountStudents counts users enrolled in a course
func (r *enrollmentRepository) CountStudents(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CourseEnrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
