package config

import (
	"context"
	"errors"
	"testing"

	"skillbook/internal/adapters/persistence/memory"
	"skillbook/internal/adapters/persistence/models"
	"skillbook/internal/core/authz"
	"skillbook/internal/core/domain"
	"skillbook/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestFromEnv_DevDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_MODE":           "dev",
		"DB_DRIVER":          "memory",
		"DEV_JWT_SECRET":     "dev-secret",
		"JWT_TTL_MINUTES":    "",
		"SECURITY_PROFILE":   "",
		"ALLOW_ADMIN_SIGNUP": "",
		"PORT":               "",
		"REMINDER_CRON":      "",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "dev-secret", cfg.JWT.Secret)
	assert.Equal(t, 30, cfg.JWT.AccessTokenMins)
	assert.Equal(t, authz.ProfileStrict, cfg.Security.Profile)
	assert.True(t, cfg.Security.AllowAdminSignup)
	assert.Equal(t, "0 8 * * *", cfg.Reminder.Spec)
}

func TestFromEnv_Prod(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_MODE":           "prod",
		"DB_DRIVER":          "mysql",
		"PROD_JWT_SECRET":    "prod-secret",
		"PROD_DB_HOST":       "db.internal",
		"PROD_COOKIE_SECURE": "true",
		"SECURITY_PROFILE":   "open-catalog",
		"ALLOW_ADMIN_SIGNUP": "",
		"DEV_DB_PORT":        "",
		"PROD_DB_PORT":       "",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, authz.ProfileOpenCatalog, cfg.Security.Profile)
	assert.False(t, cfg.Security.AllowAdminSignup)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"app mode", map[string]string{"APP_MODE": "staging"}},
		{"driver", map[string]string{"APP_MODE": "dev", "DB_DRIVER": "sqlite"}},
		{"profile", map[string]string{"APP_MODE": "dev", "DB_DRIVER": "memory", "SECURITY_PROFILE": "wide-open"}},
		{"prod default secret", map[string]string{"APP_MODE": "prod", "DB_DRIVER": "memory", "PROD_JWT_SECRET": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestDialector(t *testing.T) {
	_, err := Dialector(DatabaseConfig{Driver: "memory"})
	assert.True(t, errors.Is(err, ErrNoDatabase))

	_, err = Dialector(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)

	d, err := Dialector(DatabaseConfig{Driver: "postgres", Host: "localhost", Port: "5432"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	dsn := buildMySQLDSN(DatabaseConfig{User: "root", Password: "pw", Host: "db", Port: "3306", DBName: "skillbook"})
	assert.Equal(t, "root:pw@tcp(db:3306)/skillbook?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
}

func TestSeeder_SeedAdminUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	hasher := password.NewBcryptHasher(bcrypt.MinCost)

	seeder := NewSeeder(store.Users(), hasher, AdminConfig{Username: "root", Password: "s3cret!", Email: "root@x.com"})

	created, err := seeder.SeedAdminUser(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := store.Users().GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, hasher.Verify("s3cret!", admin.Password))

	created, err = seeder.SeedAdminUser(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := store.Users().CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSeeder_SkipsWhenAnotherAdminExists(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(ctx, &models.User{
		Username: "owner",
		Email:    "owner@x.com",
		Password: "hash",
		Role:     domain.RoleAdmin,
	}))

	seeder := NewSeeder(store.Users(), password.NewBcryptHasher(bcrypt.MinCost), AdminConfig{Username: "root", Password: "s3cret!"})

	created, err := seeder.SeedAdminUser(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	exists, err := store.Users().ExistsByUsername(ctx, "root")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSeeder_SkipsWithoutCredentials(t *testing.T) {
	store := memory.NewStore()
	seeder := NewSeeder(store.Users(), password.NewBcryptHasher(bcrypt.MinCost), AdminConfig{})

	require.NoError(t, seeder.Run(context.Background()))

	count, err := store.Users().CountByRole(context.Background(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, count)
}
