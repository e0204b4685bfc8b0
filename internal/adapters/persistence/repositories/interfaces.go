package repositories

import (
	"context"
	"time"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetProfile loads the user with enrolled courses and their instructors
	GetProfile(ctx context.Context, username string) (*models.User, error)
	// Update writes the user's own columns; enrollments are never touched
	Update(ctx context.Context, user *models.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// CourseRepository defines course repository interface
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, offset, limit int) ([]*models.Course, int64, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Course, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
}

// EnrollmentRepository is the only writer of course_enrollments
type EnrollmentRepository interface {
	// Enroll inserts the (user, course) pair if absent and reports whether a row was created
	Enroll(ctx context.Context, userID, courseID uint) (bool, error)
	ListStudents(ctx context.Context, courseID uint) ([]*models.User, error)
	CountStudents(ctx context.Context, courseID uint) (int64, error)
}

// PhotoRepository stores profile photo bytes in the database
type PhotoRepository interface {
	Save(ctx context.Context, photo *models.UserPhoto) error
	GetByKey(ctx context.Context, key string) (*models.UserPhoto, error)
	Delete(ctx context.Context, key string) error
}
