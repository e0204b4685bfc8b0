package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"skillbook/internal/adapters/persistence/repositories"
	"skillbook/internal/core/domain"
	"skillbook/internal/pkg/jwt"
	"skillbook/internal/pkg/password"
)

// dummyPassword is hashed once so unknown usernames cost one bcrypt comparison
const dummyPassword = "skillbook-timing-parity"

// AuthService handles authentication business logic
type AuthService struct {
	userRepo   repositories.UserRepository
	hasher     password.Hasher
	tokens     *jwt.Service
	sessions   SessionStore
	sessionTTL time.Duration
	dummyHash  string
}

// NewAuthService creates a new auth service. sessions may be nil when no
// session store is configured.
func NewAuthService(
	userRepo repositories.UserRepository,
	hasher password.Hasher,
	tokens *jwt.Service,
	sessions SessionStore,
	sessionTTL time.Duration,
) (*AuthService, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	if sessionTTL <= 0 {
		sessionTTL = tokens.TTL()
	}

	return &AuthService{
		userRepo:   userRepo,
		hasher:     hasher,
		tokens:     tokens,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		dummyHash:  dummyHash,
	}, nil
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is the identity proven by a username/password pair
type AuthResult struct {
	UserID  uint
	Subject string
	Role    domain.Role
}

// LoginResult carries the credentials handed back to the client
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	SessionID string    `json:"-"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// SessionTTL returns the lifetime of server sessions
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, plaintext string) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(plaintext, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(plaintext, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return &AuthResult{UserID: user.ID, Subject: user.Username, Role: user.Role}, nil
}

// Login authenticates a user and issues a token, plus a session when enabled
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, domain.NewValidationError("Username and password are required")
	}

	auth, err := s.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(auth.Subject)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	result := &LoginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.TTL()).UTC(),
		Username:  auth.Subject,
		Role:      auth.Role.String(),
	}

	if s.sessions != nil {
		id, err := s.sessions.Create(ctx, Session{
			UserID:    auth.UserID,
			Username:  auth.Subject,
			Role:      auth.Role,
			CreatedAt: time.Now().UTC(),
		}, s.sessionTTL)
		if err != nil {
			// The token alone is a complete login
			log.Printf("⚠️ Session not created for %s: %v", auth.Subject, err)
		} else {
			result.SessionID = id
		}
	}

	log.Printf("✅ User logged in: %s", auth.Subject)
	return result, nil
}

// Logout drops the server session, if any
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if s.sessions == nil || sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}

	log.Printf("✅ Session closed")
	return nil
}

// ResolveToken turns a bearer token into the current principal. The role comes
// from the stored user, not from the token.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*domain.Principal, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	return s.principalFor(ctx, subject)
}

// ResolveSession turns a session id into the current principal
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*domain.Principal, error) {
	if s.sessions == nil {
		return nil, domain.ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
		}
		return nil, err
	}
	return s.principalFor(ctx, session.Username)
}

func (s *AuthService) principalFor(ctx context.Context, username string) (*domain.Principal, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return user.Principal(), nil
}
