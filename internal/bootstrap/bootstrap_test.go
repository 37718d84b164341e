package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/greenfield/internal/app/repositories/inmem"
	"github.com/yigit/greenfield/internal/config"
	"github.com/yigit/greenfield/internal/pkg/auth"
	"github.com/yigit/greenfield/internal/pkg/cache"
	"github.com/yigit/greenfield/internal/pkg/email"
	"github.com/yigit/greenfield/internal/pkg/events"
	"github.com/yigit/greenfield/internal/pkg/filestorage"
)

const adminPassword = "admin-pass-123"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Server.Mode = gin.TestMode
	cfg.Server.StoragePath = t.TempDir()
	cfg.DefaultAdmin.Password = adminPassword

	lgr := zerolog.Nop()
	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, "/uploads")
	require.NoError(t, err)
	infra := &Infrastructure{
		Cache:     cache.NewMemoryStore(),
		Publisher: events.LogPublisher{Logger: lgr},
		Mailer:    email.NewEmailService(email.Config{}, lgr),
		Storage:   storage,
	}

	repos, _ := inmem.NewRepositories()
	deps, err := BuildDependencies(cfg, repos, infra, lgr)
	require.NoError(t, err)
	EnsureAdmin(context.Background(), cfg, deps)
	return SetupRouter(cfg, deps)
}

func do(t *testing.T, r http.Handler, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func login(t *testing.T, r http.Handler, email, password, role string) *http.Cookie {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password, "role": role}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			assert.True(t, c.HttpOnly)
			return c
		}
	}
	t.Fatalf("login response has no %s cookie", auth.SessionCookieName)
	return nil
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestPortalSessionFlow(t *testing.T) {
	r := newTestRouter(t)

	admin := login(t, r, "ADMIN@greenfield.edu", adminPassword, "ADMIN")

	w := do(t, r, http.MethodPost, "/api/users", gin.H{
		"email": "ann.lee@greenfield.edu", "password": "password123",
		"firstName": "Ann", "lastName": "Lee", "role": "STUDENT",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			RoleID string `json:"roleId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Regexp(t, `^STAL\d{6}$`, created.Data.RoleID)

	w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ann.lee@greenfield.edu", "password": "password123", "role": "FACULTY",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_007", errorCode(t, w))

	student := login(t, r, "ann.lee@greenfield.edu", "password123", "STUDENT")

	w = do(t, r, http.MethodGet, "/portal/student/dashboard", nil, student)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, "/portal/admin/dashboard", nil, student)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, r, http.MethodGet, "/api/users", nil, student)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, r, http.MethodGet, "/api/auth/me", nil, student)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/logout", nil, student)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Logged out successfully","redirect":"/portal"}`, w.Body.String())
	cleared := responseCookie(w, auth.SessionCookieName)
	require.NotNil(t, cleared, "logout must clear the session cookie")
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
	assert.Equal(t, "/", cleared.Path)

	w = do(t, r, http.MethodGet, "/api/auth/me", nil, student)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_005", errorCode(t, w))

	w = do(t, r, http.MethodGet, "/portal/student/dashboard", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/portal/student/login", w.Header().Get("Location"))

	w = do(t, r, http.MethodGet, "/portal/admin/dashboard", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/applications", gin.H{
		"type": "INTERNATIONAL", "firstName": "Sofia", "lastName": "Martinez",
		"email": "sofia@example.com", "toeflScore": "105", "satScore": 1300,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/applications?email=SOFIA@example.com", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []struct {
			Type       string         `json:"type"`
			TestScores map[string]any `json:"testScores"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "INTERNATIONAL", list.Data[0].Type)
	assert.Equal(t, map[string]any{"toeflScore": float64(105)}, list.Data[0].TestScores)

	w = do(t, r, http.MethodPost, "/api/contact", gin.H{
		"name": "Parent", "email": "parent@example.com", "message": "When is orientation?",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// wizardDraft is the payload the application wizard posts when the applicant
// fills in only the required fields.
func wizardDraft(email string) gin.H {
	return gin.H{
		"type": "UNDERGRADUATE", "firstName": "Jordan", "lastName": "Rivera", "email": email,
		"phoneNumber": "", "dateOfBirth": "", "address": "", "city": "", "state": "",
		"country": "", "postalCode": "", "intendedMajor": "", "startTerm": "",
		"gpa": "", "satScore": "", "actScore": "", "toeflScore": "", "ieltsScore": "",
		"previousSchools": []gin.H{{"name": "", "location": "", "startDate": "", "endDate": "", "degree": ""}},
		"documents": []gin.H{
			{"type": "transcript", "status": "pending"},
			{"type": "recommendation", "status": "pending"},
			{"type": "identification", "status": "pending"},
		},
		"essay": "",
	}
}

type applicationBody struct {
	ID              int64            `json:"id"`
	PreviousSchools []map[string]any `json:"previousSchools"`
	Documents       []map[string]any `json:"documents"`
}

func TestSubmitWizardDefaultDraft(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/applications", wizardDraft("jordan@example.com"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data applicationBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Empty(t, created.Data.PreviousSchools, "untouched school rows are dropped")
	require.Len(t, created.Data.Documents, 3)
	assert.Equal(t, "pending", created.Data.Documents[0]["status"])
}

func uploadDocument(t *testing.T, r http.Handler, id int64, email, docType, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("email", email))
	require.NoError(t, mw.WriteField("type", docType))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/applications/%d/documents", id), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApplicationDocumentsAreAdminOnly(t *testing.T) {
	r := newTestRouter(t)
	content := []byte("%PDF-1.4 transcript")

	w := do(t, r, http.MethodPost, "/api/applications", wizardDraft("jordan@example.com"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data applicationBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = uploadDocument(t, r, created.Data.ID, "Jordan@Example.com", "transcript", "transcript.pdf", content)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var uploaded struct {
		Data applicationBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	assert.Equal(t, "uploaded", uploaded.Data.Documents[0]["status"])
	assert.NotContains(t, uploaded.Data.Documents[0], "path")

	w = do(t, r, http.MethodGet, "/api/applications?email=jordan@example.com", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var public struct {
		Data []applicationBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &public))
	require.Len(t, public.Data, 1)
	for _, d := range public.Data[0].Documents {
		assert.NotContains(t, d, "path")
	}

	admin := login(t, r, "admin@greenfield.edu", adminPassword, "ADMIN")
	w = do(t, r, http.MethodGet, "/api/admin/applications", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var review struct {
		Data []applicationBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
	require.Len(t, review.Data, 1)
	path, _ := review.Data[0].Documents[0]["path"].(string)
	require.Regexp(t, `^/uploads/applications/\d+/.+\.pdf$`, path)

	w = do(t, r, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "transcript")

	w = do(t, r, http.MethodGet, path, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.Bytes())
}

func TestAdminMissingCourseCoursework(t *testing.T) {
	r := newTestRouter(t)
	admin := login(t, r, "admin@greenfield.edu", adminPassword, "ADMIN")

	for _, path := range []string{"/api/courses/999/assignments", "/api/courses/999/announcements"} {
		w := do(t, r, http.MethodGet, path, nil, admin)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "RES_001", errorCode(t, w), path)
	}
}
