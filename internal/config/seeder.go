package config

import (
	"context"
	"fmt"
	"log"
	"strings"

	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/adapters/persistence/repositories"
	"skillbook/internal/core/domain"
	"skillbook/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	users  repositories.UserRepository
	hasher password.Hasher
	admin  AdminConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(users repositories.UserRepository, hasher password.Hasher, admin AdminConfig) *Seeder {
	return &Seeder{users: users, hasher: hasher, admin: admin}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	created, err := s.SeedAdminUser(ctx)
	if err != nil {
		return err
	}
	if !created {
		log.Println("⚠️ Admin seeder skipped")
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// SeedAdminUser creates the configured admin account unless it, or any other
// ADMIN, already exists. It reports whether a user was created.
func (s *Seeder) SeedAdminUser(ctx context.Context) (bool, error) {
	username := strings.TrimSpace(s.admin.Username)
	if username == "" || s.admin.Password == "" {
		log.Println("⚠️ ADMIN_USERNAME or ADMIN_PASSWORD not set")
		return false, nil
	}
	if !password.ValidatePassword(s.admin.Password) {
		return false, fmt.Errorf("admin password must be at least %d characters", password.MinLength)
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		log.Printf("ℹ️ Admin user already exists: %s", username)
		return false, nil
	}

	admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		log.Printf("ℹ️ %d admin user(s) already present, not creating %s", admins, username)
		return false, nil
	}

	hashedPassword, err := s.hasher.Hash(s.admin.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.User{
		Username: username,
		Email:    s.admin.Email,
		Password: hashedPassword,
		Role:     domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return true, nil
}
