package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/auth"
	"github.com/yigit/greenfield/internal/pkg/cache"
	"github.com/yigit/greenfield/internal/pkg/validation"
)

const revokedTokenPrefix = "auth:revoked:"

// LoginResult is a signed session token and the account it belongs to
type LoginResult struct {
	Token  string
	Claims *auth.Claims
	User   *models.User
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo    repositories.IUserRepository
	jwtService  *auth.JWTService
	revocations cache.Store
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	revocations cache.Store,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		revocations: revocations,
		logger:      logger,
		now:         time.Now,
	}
}

// Login verifies the email, password and role triple and issues a session token.
// The account is looked up by email only; the requested role must then match it.
func (s *AuthService) Login(ctx context.Context, email, password, role string) (*LoginResult, error) {
	email = validation.NormalizeEmail(email)
	requested, ok := models.ParseRole(role)
	if email == "" || password == "" || !ok {
		return nil, apperrors.NewValidationError("Email, password, and role are required", nil)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrEmailNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if user.Role != requested {
		s.logger.Warn().Int64("userID", user.ID).Str("requestedRole", string(requested)).Msg("Login with mismatched role")
		return nil, apperrors.ErrRoleMismatch
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, claims, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	} else {
		user.LastLoginAt = &now
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return &LoginResult{Token: token, Claims: claims, User: user}, nil
}

// Logout revokes token until it would have expired. Tokens that are already
// invalid or expired need no revocation and are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.Set(ctx, revokedTokenPrefix+claims.ID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	s.logger.Info().Int64("userID", claims.UserID).Msg("User logged out")
	return nil
}

// Authenticate validates a session token and re-loads its user. It fails for
// revoked tokens, deleted users and deactivated accounts.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, *auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}

	_, revoked, err := s.revocations.Get(ctx, revokedTokenPrefix+claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error checking token revocation: %w", err)
	}
	if revoked {
		return nil, nil, apperrors.ErrTokenRevoked
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Account no longer exists")
		}
		return nil, nil, fmt.Errorf("error retrieving session user: %w", err)
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDeactivated
	}
	return user, claims, nil
}

// SessionTTL is the lifetime of issued tokens and their cookie.
func (s *AuthService) SessionTTL() time.Duration {
	return s.jwtService.Expiration()
}
