package services

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/greenfield/internal/app/auth"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/app/repositories/inmem"
	"github.com/yigit/greenfield/internal/pkg/auth"
	"github.com/yigit/greenfield/internal/pkg/cache"
)

var fixedNow = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

type sentMail struct {
	kind string
	to   string
	args []any
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) record(kind, to string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: kind, to: to, args: args})
	return m.err
}

func (m *recordingMailer) SendWelcomeEmail(_ context.Context, toEmail, toName, roleID string) error {
	return m.record("welcome", toEmail, toName, roleID)
}

func (m *recordingMailer) SendApplicationConfirmation(_ context.Context, toEmail, toName, applicationType string, applicationID int64) error {
	return m.record("application", toEmail, toName, applicationType, applicationID)
}

func (m *recordingMailer) SendContactMessage(_ context.Context, fromName, fromEmail, message string) error {
	return m.record("contact", fromEmail, fromName, message)
}

func (m *recordingMailer) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, s := range m.sent {
		out = append(out, s.kind)
	}
	return out
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

// fakeStorage keeps uploads in a map keyed by returned path
type fakeStorage struct {
	saved   map[string]string
	deleted []string
	failOn  string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: map[string]string{}}
}

func (f *fakeStorage) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (string, error) {
	if f.failOn != "" && fh.Filename == f.failOn {
		return "", errors.New("file type not allowed")
	}
	p := "/uploads/" + subPath + "/" + fh.Filename
	f.saved[p] = fh.Filename
	return p, nil
}

func (f *fakeStorage) DeleteFile(p string) error {
	f.deleted = append(f.deleted, p)
	delete(f.saved, p)
	return nil
}

type fixture struct {
	repos     *repositories.Repositories
	store     *inmem.Store
	mailer    *recordingMailer
	publisher *recordingPublisher
	cache     *cache.MemoryStore
	jwt       *auth.JWTService

	auth       *AuthService
	users      *UserService
	courses    *CourseService
	coursework *CourseworkService
	reports    *ReportService
	apps       *ApplicationService
	storage    *fakeStorage
	dashboard  *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos, store := inmem.NewRepositories()
	store.SetClock(func() time.Time { return fixedNow })
	logger := zerolog.Nop()

	f := &fixture{
		repos:     repos,
		store:     store,
		mailer:    &recordingMailer{},
		publisher: &recordingPublisher{},
		cache:     cache.NewMemoryStore(),
		storage:   newFakeStorage(),
		jwt: auth.NewJWTService(auth.JWTConfig{
			SecretKey:   "test-secret",
			Expiration:  time.Hour,
			TokenIssuer: "greenfield.test",
		}),
	}

	f.auth = NewAuthService(repos.UserRepository, f.jwt, f.cache, logger)
	f.users = NewUserService(repos.UserRepository, repos.CourseRepository, f.mailer, f.publisher, logger)
	f.users.now = func() time.Time { return fixedNow }
	f.courses = NewCourseService(repos.CourseRepository, repos.UserRepository, logger)
	f.coursework = NewCourseworkService(repos.CourseworkRepository, repos.CourseRepository,
		appauth.NewAuthorizationService(repos.CourseRepository), logger)
	f.reports = NewReportService(repos, f.publisher, logger)
	f.apps = NewApplicationService(repos.ApplicationRepository, f.storage, f.mailer, f.publisher, logger)
	f.apps.now = func() time.Time { return fixedNow }
	f.dashboard = NewDashboardService(repos, f.cache, time.Minute, logger)
	f.dashboard.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) createUser(t *testing.T, role models.Role, first, last, email string) *models.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:     email,
		Password:  "password123",
		FirstName: first,
		LastName:  last,
		Role:      string(role),
	})
	require.NoError(t, err)
	return u
}

func principal(u *models.User) appauth.Principal {
	return appauth.Principal{UserID: u.ID, Role: u.Role}
}
