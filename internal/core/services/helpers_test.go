package services

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"skillbook/internal/adapters/persistence/memory"
	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/core/authz"
	"skillbook/internal/core/domain"
	"skillbook/internal/pkg/jwt"
	"skillbook/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) named(name string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []Event
	for _, e := range p.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type fakeSessions struct {
	mu   sync.Mutex
	next int
	m    map[string]Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{m: make(map[string]Session)}
}

func (f *fakeSessions) Create(_ context.Context, session Session, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := "sess-" + strconv.Itoa(f.next)
	f.m[id] = session
	return id, nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.m[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.m[id]; !ok {
		return ErrSessionNotFound
	}
	delete(f.m, id)
	return nil
}

type fakePhotos struct {
	mu sync.Mutex
	m  map[string][]byte
	ct map[string]string
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{m: make(map[string][]byte), ct: make(map[string]string)}
}

func (f *fakePhotos) Put(_ context.Context, key, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[key] = data
	f.ct[key] = contentType
	return nil
}

func (f *fakePhotos) Get(_ context.Context, key string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.m[key]
	if !ok {
		return nil, "", domain.ErrPhotoNotFound
	}
	return data, f.ct[key], nil
}

func (f *fakePhotos) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, key)
	delete(f.ct, key)
	return nil
}

func (f *fakePhotos) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.m)
}

func fixtureHasher() password.Hasher {
	return password.NewBcryptHasher(bcrypt.MinCost)
}

type fixture struct {
	store       *memory.Store
	publisher   *recordingPublisher
	sessions    *fakeSessions
	photos      *fakePhotos
	tokens      *jwt.Service
	policy      *authz.Policy
	auth        *AuthService
	users       *UserService
	courses     *CourseService
	enrollments *EnrollmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:     memory.NewStore(),
		publisher: &recordingPublisher{},
		sessions:  newFakeSessions(),
		photos:    newFakePhotos(),
		policy:    authz.NewPolicy(authz.ProfileStrict),
	}

	hasher := fixtureHasher()
	tokens, err := jwt.NewService("test-secret", 30*time.Minute)
	require.NoError(t, err)
	f.tokens = tokens

	notifier := NewNotificationService(f.publisher)

	f.auth, err = NewAuthService(f.store.Users(), hasher, tokens, f.sessions, time.Hour)
	require.NoError(t, err)
	f.users = NewUserService(f.store.Users(), hasher, f.policy, f.photos, notifier, true)
	f.courses = NewCourseService(f.store.Courses(), f.store.Users(), f.store.Enrollments(), notifier)
	f.enrollments = NewEnrollmentService(f.store.Users(), f.store.Courses(), f.store.Enrollments(), notifier)
	return f
}

func (f *fixture) register(t *testing.T, username string, role domain.Role) *models.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), &RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw123",
		Role:     role.String(),
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) course(t *testing.T, instructor *models.User, category string, start time.Time) *models.Course {
	t.Helper()
	course, err := f.courses.Create(context.Background(), instructor.Principal(), &CourseInput{
		Title:           "Course in " + category,
		Description:     "desc",
		Category:        category,
		StartTime:       &Timestamp{start},
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	return course
}
