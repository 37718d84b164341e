package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/greenfield/internal/app/auth"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/auth"
)

// Context keys set by SessionGuard
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// SessionAuthenticator verifies a session token and returns its active user
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *auth.Claims, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	sessions SessionAuthenticator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// SessionToken returns the token from the session cookie, falling back to a
// Bearer Authorization header.
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	if token, ok := auth.ExtractBearerToken(c.GetHeader("Authorization")); ok {
		return token
	}
	return ""
}

// isPortalRequest reports whether the request targets a browser page
func isPortalRequest(c *gin.Context) bool {
	p := c.Request.URL.Path
	return p == "/portal" || strings.HasPrefix(p, "/portal/")
}

// loginRedirect is the login page for the role named in a /portal path, or
// the portal landing page.
func loginRedirect(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/portal/"), "/")
	if role, ok := models.ParseRole(segments[0]); ok && strings.HasPrefix(path, "/portal/") {
		return role.PortalPath() + "/login"
	}
	return "/portal"
}

// SessionGuard authenticates the request. API requests without a valid session
// get a JSON error. Portal requests are redirected to the login page.
func (m *AuthMiddleware) SessionGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		var (
			user *models.User
			err  error
		)
		if token == "" {
			err = apperrors.ErrTokenNotFound
		} else {
			user, _, err = m.sessions.Authenticate(c.Request.Context(), token)
		}

		if err != nil {
			if isPortalRequest(c) && !errors.Is(err, apperrors.ErrAccountDeactivated) {
				c.Redirect(http.StatusFound, loginRedirect(c.Request.URL.Path))
				c.Abort()
				return
			}
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextEmail, user.Email)
		c.Set(ContextRole, user.Role)
		c.Next()
	}
}

// RoleRequired middleware to check if user has one of the required roles
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			HandleAPIError(c, apperrors.ErrTokenNotFound)
			c.Abort()
			return
		}

		current, _ := role.(models.Role)
		for _, allowed := range roles {
			if current == allowed {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// CurrentPrincipal returns the session user set by SessionGuard
func CurrentPrincipal(c *gin.Context) (appauth.Principal, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return appauth.Principal{}, false
	}
	role, _ := c.Get(ContextRole)
	userID, _ := id.(int64)
	r, _ := role.(models.Role)
	return appauth.Principal{UserID: userID, Role: r}, userID > 0
}
