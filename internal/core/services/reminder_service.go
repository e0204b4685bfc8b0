package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"skillbook/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// ReminderService publishes course.reminder events for courses about to start
type ReminderService struct {
	courseRepo     repositories.CourseRepository
	enrollmentRepo repositories.EnrollmentRepository
	notifier       *NotificationService
	window         time.Duration
	now            func() time.Time

	cron *cron.Cron

	mu   sync.Mutex
	sent map[reminderKey]struct{}
}

type reminderKey struct {
	courseID uint
	userID   uint
	start    int64
}

// NewReminderService creates a new reminder service. spec is a standard
// five-field cron expression.
func NewReminderService(
	courseRepo repositories.CourseRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	notifier *NotificationService,
	spec string,
	window time.Duration,
) (*ReminderService, error) {
	if window <= 0 {
		window = 24 * time.Hour
	}

	s := &ReminderService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		notifier:       notifier,
		window:         window,
		now:            time.Now,
		cron:           cron.New(cron.WithLocation(time.UTC)),
		sent:           make(map[reminderKey]struct{}),
	}

	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			log.Printf("❌ Course reminder run failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start launches the scheduler
func (s *ReminderService) Start() {
	s.cron.Start()
	log.Println("🚀 ReminderService started")
}

// Stop waits for a running job to finish
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 ReminderService stopped")
}

// RunOnce sends reminders for courses starting within the window and returns
// how many were sent. A learner is reminded once per course start time.
func (s *ReminderService) RunOnce(ctx context.Context) (int, error) {
	from := s.now().UTC()
	s.forgetStarted(from)

	courses, err := s.courseRepo.ListStartingBetween(ctx, from, from.Add(s.window))
	if err != nil {
		return 0, fmt.Errorf("list upcoming courses: %w", err)
	}

	sent := 0
	for _, course := range courses {
		students, err := s.enrollmentRepo.ListStudents(ctx, course.ID)
		if err != nil {
			log.Printf("❌ Reminder roster for course #%d: %v", course.ID, err)
			continue
		}

		for _, student := range students {
			key := reminderKey{courseID: course.ID, userID: student.ID, start: course.StartTime.Unix()}
			if !s.markSent(key) {
				continue
			}
			s.notifier.NotifyCourseReminder(ctx, student, course)
			sent++
		}
	}

	if sent > 0 {
		log.Printf("🔔 Sent %d course reminders", sent)
	}
	return sent, nil
}

// forgetStarted drops keys of courses that started before now; they can no
// longer fall inside a reminder window.
func (s *ReminderService) forgetStarted(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.sent {
		if key.start < now.Unix() {
			delete(s.sent, key)
		}
	}
}

func (s *ReminderService) markSent(key reminderKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sent[key]; ok {
		return false
	}
	s.sent[key] = struct{}{}
	return true
}
