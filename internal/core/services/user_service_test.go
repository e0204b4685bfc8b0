package services

import (
	"context"
	"testing"

	"skillbook/internal/core/authz"
	"skillbook/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   RegisterInput
		message string
	}{
		{"blank username", RegisterInput{Username: "   ", Password: "pw123"}, "Username cannot be empty"},
		{"missing password", RegisterInput{Username: "alice"}, "Password is required"},
		{"short password", RegisterInput{Username: "alice", Password: "pw"}, "Password must be at least 4 characters"},
		{"unknown role", RegisterInput{Username: "alice", Password: "pw123", Role: "WIZARD"}, "Role must be one of LEARNER, INSTRUCTOR, ADMIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			_, err := f.users.Register(ctx, &in)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.message, domain.PublicMessage(err, ""))
		})
	}
}

func TestRegister_TrimsUsernameAndDefaultsRole(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.Register(context.Background(), &RegisterInput{Username: "  alice ", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, domain.RoleLearner, user.Role)
	assert.NotEqual(t, "pw123", user.Password)

	assert.Len(t, f.publisher.named(domain.EventUserRegistered), 1)
}

func TestRegister_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", domain.RoleLearner)

	_, err := f.users.Register(context.Background(), &RegisterInput{Username: "alice", Password: "other"})
	require.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Username already exists.", domain.PublicMessage(err, ""))
}

func TestRegister_AdminSignupDisabled(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.store.Users(), fixtureHasher(), f.policy, f.photos, nil, false)

	_, err := users.Register(context.Background(), &RegisterInput{Username: "root", Password: "pw123", Role: "ADMIN"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = users.Register(context.Background(), &RegisterInput{Username: "ivan", Password: "pw123", Role: "instructor"})
	assert.NoError(t, err)
}

func TestUpdateProfile_FullReplace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", domain.RoleLearner)

	updated, err := f.users.UpdateProfile(ctx, alice.Principal(), &UpdateProfileInput{
		Email:     "new@example.com",
		FirstName: "Alice",
		Password:  "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "", updated.LastName)
	assert.Equal(t, domain.RoleLearner, updated.Role)

	_, err = f.auth.Authenticate(ctx, "alice", "secret")
	assert.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, "alice", "pw123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateProfile_RoleChangeNeedsAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", domain.RoleLearner)

	_, err := f.users.UpdateProfile(ctx, alice.Principal(), &UpdateProfileInput{Role: "ADMIN"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// resubmitting the current role is not a change
	_, err = f.users.UpdateProfile(ctx, alice.Principal(), &UpdateProfileInput{Role: "LEARNER"})
	assert.NoError(t, err)

	stored, err := f.store.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleLearner, stored.Role)
}

func TestUpdateProfile_KeepsEnrollments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", domain.RoleLearner)
	ivan := f.register(t, "ivan", domain.RoleInstructor)
	course := f.course(t, ivan, "Programming", fixedStart)

	_, err := f.enrollments.Enroll(ctx, "alice", course.ID)
	require.NoError(t, err)

	updated, err := f.users.UpdateProfile(ctx, alice.Principal(), &UpdateProfileInput{Email: "a@x.io"})
	require.NoError(t, err)
	require.Len(t, updated.EnrolledCourses, 1)
	assert.Equal(t, course.ID, updated.EnrolledCourses[0].ID)
}

func TestPhoto_UploadReplaceAndRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", domain.RoleLearner)

	_, _, err := f.users.GetPhoto(ctx, alice.Principal())
	assert.ErrorIs(t, err, domain.ErrPhotoNotFound)

	first := append(append([]byte{}, pngHeader...), 1)
	require.NoError(t, f.users.SetPhoto(ctx, alice.Principal(), "image/png", first))

	second := append(append([]byte{}, pngHeader...), 2)
	require.NoError(t, f.users.SetPhoto(ctx, alice.Principal(), "", second))

	data, contentType, err := f.users.GetPhoto(ctx, alice.Principal())
	require.NoError(t, err)
	assert.Equal(t, second, data)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, 1, f.photos.len(), "previous photo is removed")
}

func TestPhoto_RejectsNonImagesAndOversize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", domain.RoleLearner)

	err := f.users.SetPhoto(ctx, alice.Principal(), "image/png", []byte("just some text"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = f.users.SetPhoto(ctx, alice.Principal(), "image/png", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	big := make([]byte, MaxPhotoBytes+1)
	copy(big, pngHeader)
	err = f.users.SetPhoto(ctx, alice.Principal(), "image/png", big)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 0, f.photos.len())
}

func TestPolicyDrivesRoleChange_OpenCatalogUnchanged(t *testing.T) {
	// the profile only widens anonymous reads, never role changes
	p := authz.NewPolicy(authz.ProfileOpenCatalog)
	assert.False(t, p.Allows(&domain.Principal{Role: domain.RoleInstructor}, authz.ActionChangeRole))
}
