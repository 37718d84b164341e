package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/app/repositories/inmem"
	"github.com/yigit/greenfield/internal/app/services"
	"github.com/yigit/greenfield/internal/config"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/email"
	"github.com/yigit/greenfield/internal/pkg/events"
)

func setup(t *testing.T, password string) (*commandLine, *bytes.Buffer, *repositories.Repositories) {
	t.Helper()

	repos, _ := inmem.NewRepositories()
	logger := zerolog.Nop()
	svc := services.NewUserService(
		repos.UserRepository,
		repos.CourseRepository,
		email.NewEmailService(email.Config{}, logger),
		events.LogPublisher{Logger: logger},
		logger,
	)

	out := &bytes.Buffer{}
	cl := newCommandLine(&config.Config{}, logger)
	cl.stdout = out
	cl.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	cl.readPassword = func(int) ([]byte, error) { return []byte(password), nil }
	cl.users = func(context.Context) (userCreator, func(), error) {
		return svc, func() {}, nil
	}
	return cl, out, repos
}

func Test_commandLine_createAdmin(t *testing.T) {
	cl, out, _ := setup(t, "s3cret-pass")

	err := cl.app().RunContext(context.Background(), []string{
		"admin", "create-admin", "--email", "Root@Greenfield.edu", "--first-name", "Ada", "--last-name", "Lovelace",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "created admin root@greenfield.edu")
	assert.Contains(t, out.String(), "ADAL")
}

func Test_commandLine_createAdmin_errors(t *testing.T) {
	tests := []struct {
		name     string
		password string
		args     []string
		wantErr  error
	}{
		{
			name:     "empty password",
			password: "",
			args:     []string{"admin", "create-admin", "--email", "a@greenfield.edu"},
			wantErr:  errEmptyPassword,
		},
		{
			name:     "short password",
			password: "short",
			args:     []string{"admin", "create-admin", "--email", "a@greenfield.edu"},
			wantErr:  apperrors.ErrValidationFailed,
		},
		{
			name:     "invalid email",
			password: "long-enough",
			args:     []string{"admin", "create-admin", "--email", "not-an-email"},
			wantErr:  apperrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl, _, _ := setup(t, tt.password)
			err := cl.app().RunContext(context.Background(), tt.args)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func Test_commandLine_createAdmin_duplicateEmail(t *testing.T) {
	cl, _, _ := setup(t, "s3cret-pass")
	args := []string{"admin", "create-admin", "--email", "dup@greenfield.edu"}

	require.NoError(t, cl.app().RunContext(context.Background(), args))
	err := cl.app().RunContext(context.Background(), args)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func Test_commandLine_seedRequiresConfirmation(t *testing.T) {
	cl, _, _ := setup(t, "")
	err := cl.app().RunContext(context.Background(), []string{"admin", "seed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func Test_commandLine_createAdminRole(t *testing.T) {
	cl, _, repos := setup(t, "s3cret-pass")
	require.NoError(t, cl.app().RunContext(context.Background(), []string{
		"admin", "create-admin", "--email", "ops@greenfield.edu",
	}))

	user, err := repos.UserRepository.GetByEmail(context.Background(), "ops@greenfield.edu")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.IsActive)
	assert.Regexp(t, `^ADSA\d{6}$`, user.RoleID)
}
