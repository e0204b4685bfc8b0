package services

import (
	"context"
	"testing"
	"time"

	"skillbook/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminder_RunOnceRemindsEnrolledLearnersOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 15, 8, 0, 0, 0, time.UTC)

	ivan := f.register(t, "ivan", domain.RoleInstructor)
	f.register(t, "alice", domain.RoleLearner)
	f.register(t, "bob", domain.RoleLearner)

	soon := f.course(t, ivan, "Programming", now.Add(8*time.Hour))
	later := f.course(t, ivan, "Programming", now.Add(48*time.Hour))

	for _, username := range []string{"alice", "bob"} {
		_, err := f.enrollments.Enroll(ctx, username, soon.ID)
		require.NoError(t, err)
	}
	_, err := f.enrollments.Enroll(ctx, "alice", later.ID)
	require.NoError(t, err)

	reminders, err := NewReminderService(f.store.Courses(), f.store.Enrollments(), NewNotificationService(f.publisher), "0 8 * * *", 24*time.Hour)
	require.NoError(t, err)
	reminders.now = func() time.Time { return now }

	sent, err := reminders.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	events := f.publisher.named(domain.EventCourseReminder)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, soon.ID, e.Payload["courseId"])
	}

	sent, err = reminders.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestReminder_ForgetsStartedCourses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 15, 8, 0, 0, 0, time.UTC)

	ivan := f.register(t, "ivan", domain.RoleInstructor)
	f.register(t, "alice", domain.RoleLearner)

	morning := f.course(t, ivan, "Programming", now.Add(2*time.Hour))
	evening := f.course(t, ivan, "Programming", now.Add(10*time.Hour))
	for _, course := range []uint{morning.ID, evening.ID} {
		_, err := f.enrollments.Enroll(ctx, "alice", course)
		require.NoError(t, err)
	}

	reminders, err := NewReminderService(f.store.Courses(), f.store.Enrollments(), NewNotificationService(f.publisher), "0 * * * *", 24*time.Hour)
	require.NoError(t, err)
	reminders.now = func() time.Time { return now }

	sent, err := reminders.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Len(t, reminders.sent, 2)

	// morning has started; only evening's key survives
	now = now.Add(3 * time.Hour)
	sent, err = reminders.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	require.Len(t, reminders.sent, 1)
	for key := range reminders.sent {
		assert.Equal(t, evening.ID, key.courseID)
	}

	now = now.Add(24 * time.Hour)
	_, err = reminders.RunOnce(ctx)
	require.NoError(t, err)
	assert.Empty(t, reminders.sent)
}

func TestReminder_InvalidSchedule(t *testing.T) {
	f := newFixture(t)

	_, err := NewReminderService(f.store.Courses(), f.store.Enrollments(), nil, "every tuesday", time.Hour)
	assert.Error(t, err)
}

func TestReminder_StartStop(t *testing.T) {
	f := newFixture(t)

	reminders, err := NewReminderService(f.store.Courses(), f.store.Enrollments(), nil, "@every 1h", time.Hour)
	require.NoError(t, err)
	reminders.Start()
	reminders.Stop()
}
