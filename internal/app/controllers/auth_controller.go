// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/services"
	"github.com/yigit/greenfield/internal/middleware"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/auth"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService   *services.AuthService
	userService   *services.UserService
	secureCookies bool
	logger        zerolog.Logger
}

// NewAuthController creates a new AuthController. secureCookies marks the
// session cookie Secure and should be set in release mode.
func NewAuthController(authService *services.AuthService, userService *services.UserService, secureCookies bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:   authService,
		userService:   userService,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user for the selected role and sets the auth_token session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Email, password, and role are required"
// @Failure 401 {object} dto.ErrorResponse "Email not found, invalid role or incorrect password"
// @Failure 403 {object} dto.ErrorResponse "Account is deactivated"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Email, password, and role are required", nil))
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Str("role", req.Role).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	http.SetCookie(ctx.Writer, auth.NewSessionCookie(result.Token, c.authService.SessionTTL(), c.secureCookies))
	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    dto.NewUserResponse(result.User),
	})
}

// Logout handles user logout
// @Summary Log out
// @Description Revokes the current session token, if any, and clears the session cookie. No session is required.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.LogoutResponse "Logged out successfully"
// @Router /auth/logout [post]
// @Router /auth/logout [get]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.SessionToken(ctx)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to revoke session token")
	}

	http.SetCookie(ctx.Writer, auth.ClearSessionCookie(c.secureCookies))
	ctx.JSON(http.StatusOK, dto.LogoutResponse{
		Success:  true,
		Message:  "Logged out successfully",
		Redirect: "/portal",
	})
}

// Me returns the session user
// @Summary Current user
// @Description Returns the user of the current session
// @Tags auth
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=dto.UserResponse} "Current user"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Security CookieAuth
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenNotFound)
		return
	}

	user, err := c.userService.GetUser(ctx.Request.Context(), principal.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewUserResponse(user), "Current user"))
}
