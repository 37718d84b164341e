package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.createUser(t, models.RoleStudent, "Emma", "Davis", "emma@greenfield.edu")
	inactive := f.createUser(t, models.RoleFaculty, "Sam", "Idle", "idle@greenfield.edu")
	_, err := f.users.SetActive(ctx, 0, inactive.ID, false)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		role     string
		wantErr  error
	}{
		{"unknown email", "nobody@greenfield.edu", "password123", "STUDENT", apperrors.ErrEmailNotFound},
		{"role mismatch", "emma@greenfield.edu", "password123", "ADMIN", apperrors.ErrRoleMismatch},
		{"deactivated", "idle@greenfield.edu", "password123", "FACULTY", apperrors.ErrAccountDeactivated},
		{"wrong password", "emma@greenfield.edu", "wrong-password", "STUDENT", apperrors.ErrInvalidCredentials},
		{"missing password", "emma@greenfield.edu", "", "STUDENT", apperrors.ErrValidationFailed},
		{"unknown role", "emma@greenfield.edu", "password123", "JANITOR", apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Login(ctx, tt.email, tt.password, tt.role)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("success is case insensitive on email", func(t *testing.T) {
		res, err := f.auth.Login(ctx, "  EMMA@Greenfield.edu ", "password123", "student")
		require.NoError(t, err)
		assert.Equal(t, student.ID, res.User.ID)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, models.RoleStudent, res.Claims.Role)
		require.NotNil(t, res.User.LastLoginAt)

		stored, err := f.repos.UserRepository.GetByID(ctx, student.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)
	})
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, models.RoleAdmin, "Ada", "Min", "ada@greenfield.edu")

	res, err := f.auth.Login(ctx, "ada@greenfield.edu", "password123", "ADMIN")
	require.NoError(t, err)

	user, claims, err := f.auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "ada@greenfield.edu", user.Email)
	assert.Equal(t, res.Claims.ID, claims.ID)

	require.NoError(t, f.auth.Logout(ctx, res.Token))

	_, _, err = f.auth.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	// a second login issues a fresh, unrevoked token
	again, err := f.auth.Login(ctx, "ada@greenfield.edu", "password123", "ADMIN")
	require.NoError(t, err)
	_, _, err = f.auth.Authenticate(ctx, again.Token)
	assert.NoError(t, err)
}

func TestAuthService_LogoutIgnoresBadTokens(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.auth.Logout(context.Background(), ""))
	assert.NoError(t, f.auth.Logout(context.Background(), "not-a-jwt"))
}

func TestAuthService_AuthenticateRechecksAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createUser(t, models.RoleAdmin, "Ada", "Min", "ada@greenfield.edu")
	student := f.createUser(t, models.RoleStudent, "Emma", "Davis", "emma@greenfield.edu")

	res, err := f.auth.Login(ctx, "emma@greenfield.edu", "password123", "STUDENT")
	require.NoError(t, err)

	_, err = f.users.SetActive(ctx, admin.ID, student.ID, false)
	require.NoError(t, err)
	_, _, err = f.auth.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, apperrors.ErrAccountDeactivated)

	_, err = f.users.SetActive(ctx, admin.ID, student.ID, true)
	require.NoError(t, err)
	require.NoError(t, f.users.DeleteUser(ctx, admin.ID, student.ID))
	_, _, err = f.auth.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestAuthService_AuthenticateRejectsForeignToken(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.auth.Authenticate(context.Background(), "eyJhbGciOiJIUzI1NiJ9.e30.c2lnbmF0dXJl")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, _, err = f.auth.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}
