package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) (learner, instructor *models.User, course *models.Course) {
	t.Helper()
	ctx := context.Background()

	learner = &models.User{Username: "alice", Email: "alice@example.com", Role: domain.RoleLearner}
	require.NoError(t, s.Users().Create(ctx, learner))

	instructor = &models.User{Username: "ivan", Email: "ivan@example.com", Role: domain.RoleInstructor}
	require.NoError(t, s.Users().Create(ctx, instructor))

	course = &models.Course{
		Title:           "Intro to Go",
		Description:     "Basics",
		Category:        "Programming",
		StartTime:       time.Date(2025, 5, 15, 16, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
		InstructorID:    &instructor.ID,
	}
	require.NoError(t, s.Courses().Create(ctx, course))
	return learner, instructor, course
}

func TestUsers_CreateRejectsDuplicateUsername(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, &models.User{Username: "alice"}))
	err := s.Users().Create(ctx, &models.User{Username: "alice"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestEnroll_IsIdempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	learner, _, course := seed(t, s)

	created, err := s.Enrollments().Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.Enrollments().Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := s.Enrollments().CountStudents(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEnroll_ConcurrentSamePair(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	learner, _, course := seed(t, s)

	var wg sync.WaitGroup
	var createdCount int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := s.Enrollments().Enroll(ctx, learner.ID, course.ID)
			assert.NoError(t, err)
			if created {
				atomic.AddInt32(&createdCount, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), createdCount)
	n, err := s.Enrollments().CountStudents(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEnrollment_BothProjectionsAgree(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	learner, instructor, course := seed(t, s)

	_, err := s.Enrollments().Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)

	profile, err := s.Users().GetProfile(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, profile.EnrolledCourses, 1)
	assert.Equal(t, course.ID, profile.EnrolledCourses[0].ID)
	require.NotNil(t, profile.EnrolledCourses[0].Instructor)
	assert.Equal(t, instructor.Username, profile.EnrolledCourses[0].Instructor.Username)

	students, err := s.Enrollments().ListStudents(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, learner.ID, students[0].ID)
}

func TestEnroll_UnknownCourse(t *testing.T) {
	s := NewStore()
	learner, _, _ := seed(t, s)

	_, err := s.Enrollments().Enroll(context.Background(), learner.ID, 999)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestCourses_ListPaginatesInIDOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, s.Courses().Create(ctx, &models.Course{Title: title, Category: "x", DurationMinutes: 1}))
	}

	page, total, err := s.Courses().List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].Title)

	all, _, err := s.Courses().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	empty, _, err := s.Courses().List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCourses_ListStartingBetween(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{-time.Hour, time.Hour, 23 * time.Hour, 24 * time.Hour} {
		require.NoError(t, s.Courses().Create(ctx, &models.Course{
			Title:           string(rune('a' + i)),
			StartTime:       base.Add(offset),
			DurationMinutes: 60,
		}))
	}

	got, err := s.Courses().ListStartingBetween(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
}

func TestPhotos_SaveGetDelete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Photos().Save(ctx, &models.UserPhoto{Key: "k", UserID: 1, ContentType: "image/png", Data: []byte{1, 2}}))

	p, err := s.Photos().GetByKey(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, p.Data)

	require.NoError(t, s.Photos().Delete(ctx, "k"))
	_, err = s.Photos().GetByKey(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
}
