package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/adapters/persistence/repositories"
	"skillbook/internal/core/domain"
)

const invalidCourseMessage = "All fields are required and must be valid"

// CourseService handles the course catalog
type CourseService struct {
	courseRepo     repositories.CourseRepository
	userRepo       repositories.UserRepository
	enrollmentRepo repositories.EnrollmentRepository
	notifier       *NotificationService
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo repositories.CourseRepository,
	userRepo repositories.UserRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	notifier *NotificationService,
) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		notifier:       notifier,
	}
}

// localTimestampLayout is ISO-8601 without an offset, read as UTC
const localTimestampLayout = "2006-01-02T15:04:05"

// Timestamp accepts RFC 3339 and offset-less ISO-8601 date-times
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		parsed, err = time.ParseInLocation(localTimestampLayout, raw, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q", raw)
		}
	}
	t.Time = parsed
	return nil
}

// CourseInput is the body of create and update requests
type CourseInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	LongDescription string     `json:"longDescription"`
	Category        string     `json:"category"`
	StartTime       *Timestamp `json:"startTime"`
	DurationMinutes int        `json:"durationMinutes"`
	InstructorID    *uint      `json:"instructorId"`
}

func (in *CourseInput) validate() error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Category) == "" ||
		in.StartTime == nil || in.StartTime.IsZero() ||
		in.DurationMinutes < 1 {
		return domain.NewValidationError(invalidCourseMessage)
	}
	return nil
}

// Create adds a course. An INSTRUCTOR caller without instructorId teaches it themselves.
func (s *CourseService) Create(ctx context.Context, principal *domain.Principal, input *CourseInput) (*models.Course, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	instructorID := input.InstructorID
	if instructorID == nil {
		if principal.Role != domain.RoleInstructor {
			return nil, domain.NewValidationError(invalidCourseMessage)
		}
		id := principal.UserID
		instructorID = &id
	}

	instructor, err := s.resolveInstructor(ctx, *instructorID)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		LongDescription: strings.TrimSpace(input.LongDescription),
		Category:        strings.TrimSpace(input.Category),
		StartTime:       input.StartTime.UTC(),
		DurationMinutes: input.DurationMinutes,
		InstructorID:    &instructor.ID,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	course.Instructor = instructor

	log.Printf("✅ Course created: #%d %s (instructor %s)", course.ID, course.Title, instructor.Username)
	s.notifier.NotifyCourseCreated(ctx, course)
	return course, nil
}

// Update replaces a course's mutable fields. An INSTRUCTOR may only update
// courses they teach; ADMIN may update any.
func (s *CourseService) Update(ctx context.Context, principal *domain.Principal, id uint, input *CourseInput) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if principal.Role != domain.RoleAdmin {
		if course.InstructorID == nil || *course.InstructorID != principal.UserID {
			return nil, domain.ErrNotCourseInstructor
		}
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	instructorID := course.InstructorID
	if input.InstructorID != nil {
		instructorID = input.InstructorID
	}
	if instructorID == nil {
		return nil, domain.NewValidationError(invalidCourseMessage)
	}
	instructor, err := s.resolveInstructor(ctx, *instructorID)
	if err != nil {
		return nil, err
	}

	course.Title = strings.TrimSpace(input.Title)
	course.Description = strings.TrimSpace(input.Description)
	course.LongDescription = strings.TrimSpace(input.LongDescription)
	course.Category = strings.TrimSpace(input.Category)
	course.StartTime = input.StartTime.UTC()
	course.DurationMinutes = input.DurationMinutes
	course.InstructorID = &instructor.ID
	course.Instructor = nil

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	course.Instructor = instructor

	log.Printf("✅ Course updated: #%d by %s", course.ID, principal.Username)
	return course, nil
}

// GetByID gets a course with its instructor and enrollment count
func (s *CourseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.enrollmentRepo.CountStudents(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	course.EnrolledCount = &count
	return course, nil
}

// List lists courses; limit <= 0 returns all of them
func (s *CourseService) List(ctx context.Context, offset, limit int) ([]*models.Course, int64, error) {
	return s.courseRepo.List(ctx, offset, limit)
}

// ListByCategory lists courses in a category; an empty result is NotFound
func (s *CourseService) ListByCategory(ctx context.Context, category string) ([]*models.Course, error) {
	courses, err := s.courseRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, domain.ErrNoCoursesInCategory
	}
	return courses, nil
}

// Roster lists the users enrolled in a course
func (s *CourseService) Roster(ctx context.Context, principal *domain.Principal, id uint) ([]*models.User, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if principal.Role == domain.RoleInstructor &&
		(course.InstructorID == nil || *course.InstructorID != principal.UserID) {
		return nil, domain.ErrNotCourseInstructor
	}
	return s.enrollmentRepo.ListStudents(ctx, course.ID)
}

func (s *CourseService) resolveInstructor(ctx context.Context, id uint) (*models.User, error) {
	instructor, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInstructorNotFound
		}
		return nil, err
	}
	if instructor.Role != domain.RoleInstructor {
		return nil, domain.ErrInstructorRole
	}
	return instructor, nil
}
