package services

import (
	"context"
	"fmt"
	"log"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/adapters/persistence/repositories"
	"skillbook/internal/core/domain"
)

// EnrollmentService is the only path that adds a learner to a course
type EnrollmentService struct {
	userRepo       repositories.UserRepository
	courseRepo     repositories.CourseRepository
	enrollmentRepo repositories.EnrollmentRepository
	notifier       *NotificationService
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	userRepo repositories.UserRepository,
	courseRepo repositories.CourseRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	notifier *NotificationService,
) *EnrollmentService {
	return &EnrollmentService{
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		notifier:       notifier,
	}
}

// EnrollmentResult describes a successful enroll call
type EnrollmentResult struct {
	User            *models.User
	Course          *models.Course
	AlreadyEnrolled bool
}

// Enroll adds the course to the learner's enrolled set. Enrolling twice is a
// no-op that still succeeds.
func (s *EnrollmentService) Enroll(ctx context.Context, learnerUsername string, courseID uint) (*EnrollmentResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, learnerUsername)
	if err != nil {
		return nil, err
	}

	if user.Role != domain.RoleLearner {
		return nil, fmt.Errorf("%w: only learners can enroll", domain.ErrForbidden)
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	created, err := s.enrollmentRepo.Enroll(ctx, user.ID, course.ID)
	if err != nil {
		return nil, fmt.Errorf("enroll: %w", err)
	}

	if created {
		log.Printf("✅ Enrolled: %s -> course #%d", user.Username, course.ID)
		s.notifier.NotifyEnrollment(ctx, user, course)
	}

	return &EnrollmentResult{
		User:            user,
		Course:          course,
		AlreadyEnrolled: !created,
	}, nil
}
