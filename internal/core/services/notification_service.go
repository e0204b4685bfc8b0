package services

import (
	"context"
	"log"
	"time"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/core/domain"
)

// NotificationService turns domain changes into published events.
// Publishing is best effort; a broker outage never fails the request.
type NotificationService struct {
	publisher EventPublisher
	now       func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(publisher EventPublisher) *NotificationService {
	return &NotificationService{
		publisher: publisher,
		now:       time.Now,
	}
}

// IsEnabled checks if a publisher is wired
func (s *NotificationService) IsEnabled() bool {
	return s != nil && s.publisher != nil
}

func (s *NotificationService) publish(ctx context.Context, name string, payload map[string]any) {
	if !s.IsEnabled() {
		return
	}

	event := Event{Name: name, OccurredAt: s.now().UTC(), Payload: payload}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("⚠️ Failed to publish %s: %v", name, err)
	}
}

// NotifyUserRegistered publishes user.registered
func (s *NotificationService) NotifyUserRegistered(ctx context.Context, user *models.User) {
	s.publish(ctx, domain.EventUserRegistered, map[string]any{
		"userId":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// NotifyCourseCreated publishes course.created
func (s *NotificationService) NotifyCourseCreated(ctx context.Context, course *models.Course) {
	payload := map[string]any{
		"courseId":  course.ID,
		"title":     course.Title,
		"category":  course.Category,
		"startTime": course.StartTime,
	}
	if course.InstructorID != nil {
		payload["instructorId"] = *course.InstructorID
	}
	s.publish(ctx, domain.EventCourseCreated, payload)
}

// NotifyEnrollment publishes enrollment.created
func (s *NotificationService) NotifyEnrollment(ctx context.Context, user *models.User, course *models.Course) {
	s.publish(ctx, domain.EventEnrollmentCreated, map[string]any{
		"userId":   user.ID,
		"username": user.Username,
		"courseId": course.ID,
		"title":    course.Title,
	})
}

// NotifyCourseReminder publishes course.reminder for one enrolled learner
func (s *NotificationService) NotifyCourseReminder(ctx context.Context, user *models.User, course *models.Course) {
	s.publish(ctx, domain.EventCourseReminder, map[string]any{
		"userId":    user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"courseId":  course.ID,
		"title":     course.Title,
		"startTime": course.StartTime,
	})
}
