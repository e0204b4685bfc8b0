// Package memory provides process-local repositories used by DB_DRIVER=memory and by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/adapters/persistence/repositories"
	"skillbook/internal/core/domain"
)

type enrollmentKey struct {
	userID   uint
	courseID uint
}

// Store holds every table behind one lock
type Store struct {
	mu sync.RWMutex

	users       map[uint]models.User
	usernames   map[string]uint
	courses     map[uint]models.Course
	enrollments map[enrollmentKey]struct{}
	photos      map[string]models.UserPhoto

	nextUserID   uint
	nextCourseID uint
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       make(map[uint]models.User),
		usernames:   make(map[string]uint),
		courses:     make(map[uint]models.Course),
		enrollments: make(map[enrollmentKey]struct{}),
		photos:      make(map[string]models.UserPhoto),
		now:         time.Now,
	}
}

func (s *Store) Users() repositories.UserRepository { return userRepo{s} }
func (s *Store) Courses() repositories.CourseRepository { return courseRepo{s} }
func (s *Store) Enrollments() repositories.EnrollmentRepository { return enrollmentRepo{s} }
func (s *Store) Photos() repositories.PhotoRepository { return photoRepo{s} }

// ============================================================
// Users
// ============================================================

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernames[user.Username]; exists {
		return domain.ErrUserAlreadyExists
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	if user.Role == "" {
		user.Role = domain.RoleLearner
	}

	stored := *user
	stored.EnrolledCourses = nil
	s.users[user.ID] = stored
	s.usernames[user.Username] = user.ID
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usernames[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r userRepo) GetProfile(_ context.Context, username string) (*models.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := s.users[id]

	u.EnrolledCourses = []models.Course{}
	for key := range s.enrollments {
		if key.userID != id {
			continue
		}
		if c, ok := s.courses[key.courseID]; ok {
			u.EnrolledCourses = append(u.EnrolledCourses, s.withInstructor(c))
		}
	}
	sort.Slice(u.EnrolledCourses, func(i, j int) bool {
		a, b := u.EnrolledCourses[i], u.EnrolledCourses[j]
		if a.StartTime.Equal(b.StartTime) {
			return a.ID < b.ID
		}
		return a.StartTime.Before(b.StartTime)
	})
	return &u, nil
}

func (r userRepo) Update(_ context.Context, user *models.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if current.Username != user.Username {
		if _, taken := s.usernames[user.Username]; taken {
			return domain.ErrUserAlreadyExists
		}
		delete(s.usernames, current.Username)
		s.usernames[user.Username] = user.ID
	}

	user.UpdatedAt = s.now()
	stored := *user
	stored.EnrolledCourses = nil
	s.users[user.ID] = stored
	return nil
}

func (r userRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.usernames[username]
	return ok, nil
}

func (r userRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ============================================================
// Courses
// ============================================================

type courseRepo struct{ s *Store }

// withInstructor must be called with s.mu held
func (s *Store) withInstructor(c models.Course) models.Course {
	c.EnrolledUsers = nil
	c.Instructor = nil
	if c.InstructorID != nil {
		if u, ok := s.users[*c.InstructorID]; ok {
			u.EnrolledCourses = nil
			c.Instructor = &u
		}
	}
	return c
}

func (r courseRepo) Create(_ context.Context, course *models.Course) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCourseID++
	course.ID = s.nextCourseID
	course.CreatedAt = s.now()
	course.UpdatedAt = course.CreatedAt

	stored := *course
	stored.Instructor = nil
	stored.EnrolledUsers = nil
	s.courses[course.ID] = stored
	return nil
}

func (r courseRepo) GetByID(_ context.Context, id uint) (*models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	c = r.s.withInstructor(c)
	return &c, nil
}

func (r courseRepo) List(_ context.Context, offset, limit int) ([]*models.Course, int64, error) {
	all := r.filter(func(models.Course) bool { return true })
	total := int64(len(all))
	if limit <= 0 {
		return all, total, nil
	}
	if offset >= len(all) {
		return []*models.Course{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r courseRepo) ListByCategory(_ context.Context, category string) ([]*models.Course, error) {
	return r.filter(func(c models.Course) bool { return c.Category == category }), nil
}

func (r courseRepo) ListStartingBetween(_ context.Context, from, to time.Time) ([]*models.Course, error) {
	out := r.filter(func(c models.Course) bool {
		return !c.StartTime.Before(from) && c.StartTime.Before(to)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r courseRepo) Update(_ context.Context, course *models.Course) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.courses[course.ID]
	if !ok {
		return domain.ErrCourseNotFound
	}
	course.CreatedAt = current.CreatedAt
	course.UpdatedAt = s.now()

	stored := *course
	stored.Instructor = nil
	stored.EnrolledUsers = nil
	s.courses[course.ID] = stored
	return nil
}

// filter returns matching courses ordered by id
func (r courseRepo) filter(keep func(models.Course) bool) []*models.Course {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if !keep(c) {
			continue
		}
		c = s.withInstructor(c)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ============================================================
// Enrollments
// ============================================================

type enrollmentRepo struct{ s *Store }

func (r enrollmentRepo) Enroll(_ context.Context, userID, courseID uint) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return false, domain.ErrUserNotFound
	}
	if _, ok := s.courses[courseID]; !ok {
		return false, domain.ErrCourseNotFound
	}

	key := enrollmentKey{userID: userID, courseID: courseID}
	if _, exists := s.enrollments[key]; exists {
		return false, nil
	}
	s.enrollments[key] = struct{}{}
	return true, nil
}

func (r enrollmentRepo) ListStudents(_ context.Context, courseID uint) ([]*models.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.User{}
	for key := range s.enrollments {
		if key.courseID != courseID {
			continue
		}
		if u, ok := s.users[key.userID]; ok {
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r enrollmentRepo) CountStudents(_ context.Context, courseID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for key := range r.s.enrollments {
		if key.courseID == courseID {
			n++
		}
	}
	return n, nil
}

// ============================================================
// Photos
// ============================================================

type photoRepo struct{ s *Store }

func (r photoRepo) Save(_ context.Context, photo *models.UserPhoto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *photo
	stored.Data = append([]byte(nil), photo.Data...)
	stored.CreatedAt = r.s.now()
	r.s.photos[photo.Key] = stored
	return nil
}

func (r photoRepo) GetByKey(_ context.Context, key string) (*models.UserPhoto, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.photos[key]
	if !ok {
		return nil, domain.ErrPhotoNotFound
	}
	p.Data = append([]byte(nil), p.Data...)
	return &p, nil
}

func (r photoRepo) Delete(_ context.Context, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.photos, key)
	return nil
}
