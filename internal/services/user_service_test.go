package services

import (
	"context"
	"testing"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/auth"
	"dorm-backend/internal/config"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *auth.JWTManager) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	jwtManager := auth.NewJWTManager(cfg)
	return NewUserService(newFixture(t).store, jwtManager), jwtManager
}

func TestSeedAdminAndLogin(t *testing.T) {
	svc, jwtManager := newUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedAdmin(ctx, "admin", "changeme", "Administrator"))
	// second seed is a no-op
	require.NoError(t, svc.SeedAdmin(ctx, "other", "changeme", "Other"))
	users, err := svc.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)

	resp, err := svc.Login(ctx, &models.LoginRequest{Username: "admin", Password: "changeme"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Username)
	claims, err := jwtManager.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.Unauthorized)
	_, err = svc.Login(ctx, &models.LoginRequest{Username: "ghost", Password: "changeme"})
	assert.ErrorIs(t, err, apperr.Unauthorized)
}

func TestSeedAdminWithoutPassword(t *testing.T) {
	svc, _ := newUserService(t)
	require.NoError(t, svc.SeedAdmin(context.Background(), "admin", "", "Administrator"))
	users, err := svc.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserManagement(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, admin, &models.CreateUserRequest{
		Username: "staff1", Password: "secret1", FullName: "Staff One", Role: models.RoleStaff,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	_, err = svc.Create(ctx, admin, &models.CreateUserRequest{
		Username: "staff1", Password: "secret2", FullName: "Dup", Role: models.RoleStaff,
	})
	assert.ErrorIs(t, err, apperr.DuplicateKey)

	// staff cannot manage accounts
	_, err = svc.List(ctx, staff)
	assert.ErrorIs(t, err, apperr.Forbidden)
	_, err = svc.Update(ctx, staff, u.ID, &models.UpdateUserRequest{Role: ptr(models.RoleAdmin)})
	assert.ErrorIs(t, err, apperr.Forbidden)

	updated, err := svc.Update(ctx, admin, u.ID, &models.UpdateUserRequest{Role: ptr(models.RoleAdmin), Password: ptr("newpass")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	_, err = svc.Login(ctx, &models.LoginRequest{Username: "staff1", Password: "newpass"})
	assert.NoError(t, err)

	self := policy.Actor{UserID: u.ID, Username: "staff1", Role: models.RoleAdmin}
	err = svc.Delete(ctx, self, u.ID)
	assert.ErrorIs(t, err, apperr.InvalidInput)
	require.NoError(t, svc.Delete(ctx, admin, u.ID))
}

func TestLoginValidation(t *testing.T) {
	svc, _ := newUserService(t)
	_, err := svc.Login(context.Background(), &models.LoginRequest{Username: "admin"})
	assert.ErrorIs(t, err, apperr.InvalidInput)
}
