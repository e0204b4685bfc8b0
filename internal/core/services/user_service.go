package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/adapters/persistence/repositories"
	"skillbook/internal/core/authz"
	"skillbook/internal/core/domain"
	"skillbook/internal/pkg/password"

	"github.com/google/uuid"
)

// MaxPhotoBytes is the largest accepted profile photo
const MaxPhotoBytes = 2 << 20

// UserService handles user management business logic
type UserService struct {
	userRepo         repositories.UserRepository
	hasher           password.Hasher
	policy           *authz.Policy
	photos           PhotoStore
	notifier         *NotificationService
	allowAdminSignup bool
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	hasher password.Hasher,
	policy *authz.Policy,
	photos PhotoStore,
	notifier *NotificationService,
	allowAdminSignup bool,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		hasher:           hasher,
		policy:           policy,
		photos:           photos,
		notifier:         notifier,
		allowAdminSignup: allowAdminSignup,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// UpdateProfileInput represents a full replace of the caller's own profile.
// Password and Role are optional.
type UpdateProfileInput struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// Register creates a new user
func (s *UserService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, domain.NewValidationError("Username cannot be empty")
	}
	if len(username) > 50 {
		return nil, domain.NewValidationError("Username must be at most 50 characters")
	}
	if input.Password == "" {
		return nil, domain.NewValidationError("Password is required")
	}
	if !password.ValidatePassword(input.Password) {
		return nil, domain.NewValidationError(fmt.Sprintf("Password must be at least %d characters", password.MinLength))
	}

	role, err := parseRoleInput(input.Role, domain.RoleLearner)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleAdmin && !s.allowAdminSignup {
		return nil, domain.ErrAdminSignupDisabled
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:  username,
		Email:     strings.TrimSpace(input.Email),
		Password:  hashedPassword,
		Role:      role,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}

	// A concurrent registration of the same name loses on the unique index
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Printf("✅ User registered: %s (%s)", user.Username, user.Role)
	s.notifier.NotifyUserRegistered(ctx, user)
	return user, nil
}

// GetProfile returns a user with enrolled courses
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetProfile(ctx, username)
}

// UpdateProfile replaces the caller's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, principal *domain.Principal, input *UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, principal.Username)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Role) != "" {
		role, err := parseRoleInput(input.Role, user.Role)
		if err != nil {
			return nil, err
		}
		if role != user.Role {
			if !s.policy.Allows(principal, authz.ActionChangeRole) {
				return nil, domain.ErrRoleChangeForbidden
			}
			log.Printf("🔄 Role changed: %s %s -> %s", user.Username, user.Role, role)
			user.Role = role
		}
	}

	if input.Password != "" {
		if !password.ValidatePassword(input.Password) {
			return nil, domain.NewValidationError(fmt.Sprintf("Password must be at least %d characters", password.MinLength))
		}
		hashed, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hashed
	}

	user.Email = strings.TrimSpace(input.Email)
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	log.Printf("✅ Profile updated: %s", user.Username)
	return s.userRepo.GetProfile(ctx, user.Username)
}

// SetPhoto stores a new profile photo and replaces the previous one
func (s *UserService) SetPhoto(ctx context.Context, principal *domain.Principal, contentType string, data []byte) error {
	if len(data) == 0 {
		return domain.NewValidationError("Photo is required")
	}
	if len(data) > MaxPhotoBytes {
		return domain.NewValidationError("Photo must be at most 2 MiB")
	}

	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "image/") {
		return domain.NewValidationError("Photo must be an image")
	}
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = sniffed
	}

	user, err := s.userRepo.GetByUsername(ctx, principal.Username)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("users/%d/photo-%s", user.ID, uuid.New().String())
	if err := s.photos.Put(ctx, key, contentType, data); err != nil {
		return fmt.Errorf("store photo: %w", err)
	}

	previous := user.PhotoKey
	user.PhotoKey = key
	user.PhotoContentType = contentType
	if err := s.userRepo.Update(ctx, user); err != nil {
		_ = s.photos.Delete(ctx, key)
		return fmt.Errorf("update user: %w", err)
	}

	if previous != "" {
		if err := s.photos.Delete(ctx, previous); err != nil {
			log.Printf("⚠️ Old photo %s not deleted: %v", previous, err)
		}
	}

	log.Printf("✅ Photo updated: %s (%d bytes)", user.Username, len(data))
	return nil
}

// GetPhoto returns the caller's profile photo and its content type
func (s *UserService) GetPhoto(ctx context.Context, principal *domain.Principal) ([]byte, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, principal.Username)
	if err != nil {
		return nil, "", err
	}
	if !user.HasPhoto() {
		return nil, "", domain.ErrPhotoNotFound
	}
	return s.photos.Get(ctx, user.PhotoKey)
}

// parseRoleInput parses an optional role; empty means fallback
func parseRoleInput(raw string, fallback domain.Role) (domain.Role, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	role, ok := domain.ParseRole(raw)
	if !ok {
		return "", domain.NewValidationError("Role must be one of LEARNER, INSTRUCTOR, ADMIN")
	}
	return role, nil
}
