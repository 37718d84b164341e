package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/auth"
)

type stubSessions struct {
	user *models.User
	err  error
	seen string
}

func (s *stubSessions) Authenticate(_ context.Context, token string) (*models.User, *auth.Claims, error) {
	s.seen = token
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.user, &auth.Claims{UserID: s.user.ID, Email: s.user.Email, Role: s.user.Role}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func guardedRouter(sessions SessionAuthenticator, roles ...models.Role) *gin.Engine {
	r := gin.New()
	m := NewAuthMiddleware(sessions)
	ok := func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "role": p.Role})
	}
	r.GET("/api/private", m.SessionGuard(), RoleRequired(roles...), ok)
	r.GET("/portal/:role/*rest", m.SessionGuard(), RoleRequired(roles...), ok)
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestSessionGuard_API(t *testing.T) {
	student := &models.User{ID: 7, Email: "emma@greenfield.edu", Role: models.RoleStudent, IsActive: true}

	tests := []struct {
		name       string
		sessions   *stubSessions
		cookie     string
		header     string
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"no token", &stubSessions{user: student}, "", "", http.StatusUnauthorized, dto.ErrorCodeTokenNotFound},
		{"revoked", &stubSessions{err: apperrors.ErrTokenRevoked}, "tok", "", http.StatusUnauthorized, dto.ErrorCodeRevokedToken},
		{"expired", &stubSessions{err: apperrors.ErrTokenExpired}, "tok", "", http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"invalid", &stubSessions{err: apperrors.ErrTokenInvalid}, "tok", "", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"inactive", &stubSessions{err: apperrors.ErrAccountDeactivated}, "tok", "", http.StatusForbidden, dto.ErrorCodeAccountDeactivated},
		{"bearer fallback", &stubSessions{user: student}, "", "Bearer tok", http.StatusOK, ""},
		{"cookie", &stubSessions{user: student}, "tok", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := guardedRouter(tt.sessions, models.RoleStudent)
			req := httptest.NewRequest(http.MethodGet, "/api/private", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error.Code)
				return
			}
			assert.Equal(t, "tok", tt.sessions.seen)
			assert.JSONEq(t, `{"userId":7,"role":"STUDENT"}`, w.Body.String())
		})
	}
}

func TestSessionGuard_PortalRedirects(t *testing.T) {
	r := guardedRouter(&stubSessions{err: apperrors.ErrTokenExpired}, models.RoleFaculty)

	req := httptest.NewRequest(http.MethodGet, "/portal/faculty/courses", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "old"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/portal/faculty/login", w.Header().Get("Location"))

	r = guardedRouter(&stubSessions{err: apperrors.ErrAccountDeactivated}, models.RoleFaculty)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginRedirect(t *testing.T) {
	assert.Equal(t, "/portal/admin/login", loginRedirect("/portal/admin/users"))
	assert.Equal(t, "/portal/student/login", loginRedirect("/portal/student"))
	assert.Equal(t, "/portal", loginRedirect("/portal/unknown/page"))
	assert.Equal(t, "/portal", loginRedirect("/portal"))
}

func TestRoleRequired(t *testing.T) {
	faculty := &models.User{ID: 3, Email: "prof@greenfield.edu", Role: models.RoleFaculty, IsActive: true}
	r := guardedRouter(&stubSessions{user: faculty}, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/private", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "tok"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Error.Code)

	r = guardedRouter(&stubSessions{user: faculty}, models.RoleAdmin, models.RoleFaculty)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
		wantMsg    string
	}{
		{"email not found", apperrors.ErrEmailNotFound, http.StatusUnauthorized, dto.ErrorCodeEmailNotFound, "Email not found"},
		{"role mismatch", apperrors.ErrRoleMismatch, http.StatusUnauthorized, dto.ErrorCodeRoleMismatch, "Invalid role for this account"},
		{"bad password", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Incorrect password"},
		{"permission", apperrors.NewForbiddenError("Not your course"), http.StatusForbidden, dto.ErrorCodeForbidden, "Not your course"},
		{"validation", apperrors.NewValidationError("Invalid user", map[string]interface{}{"email": "bad"}), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid user"},
		{"not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Course not found"},
		{"conflict", apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, ""},
		{"bad request", apperrors.NewBadRequestError("Nope"), http.StatusBadRequest, dto.ErrorCodeBadRequest, "Nope"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/x", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Error.Message)
			}
		})
	}
}
