// Package inmem implements the repository interfaces in memory. It backs the
// handler and service tests and mirrors the constraints of the SQL schema.
package inmem

import (
	"sync"
	"time"

	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/repositories"
)

type enrollment struct {
	courseID  int64
	studentID int64
}

type gradeKey struct {
	assignmentID int64
	studentID    int64
}

// Store is the shared state behind all in-memory repositories
type Store struct {
	mu  sync.RWMutex
	seq int64
	now func() time.Time

	users         map[int64]*models.User
	courses       map[int64]*models.Course
	enrollments   map[enrollment]time.Time
	schedules     map[int64]*models.Schedule
	assignments   map[int64]*models.Assignment
	announcements map[int64]*models.Announcement
	submissions   map[gradeKey]*models.Submission
	grades        map[gradeKey]*models.Grade
	reports       map[int64]*models.Report
	applications  map[int64]*models.Application
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:           time.Now,
		users:         make(map[int64]*models.User),
		courses:       make(map[int64]*models.Course),
		enrollments:   make(map[enrollment]time.Time),
		schedules:     make(map[int64]*models.Schedule),
		assignments:   make(map[int64]*models.Assignment),
		announcements: make(map[int64]*models.Announcement),
		submissions:   make(map[gradeKey]*models.Submission),
		grades:        make(map[gradeKey]*models.Grade),
		reports:       make(map[int64]*models.Report),
		applications:  make(map[int64]*models.Application),
	}
}

// SetClock replaces the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// nextID must be called with the lock held.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// NewRepositories returns a container whose repositories share one store.
func NewRepositories() (*repositories.Repositories, *Store) {
	s := NewStore()
	return &repositories.Repositories{
		UserRepository:        &UserRepository{s: s},
		CourseRepository:      &CourseRepository{s: s},
		CourseworkRepository:  &CourseworkRepository{s: s},
		ReportRepository:      &ReportRepository{s: s},
		ApplicationRepository: &ApplicationRepository{s: s},
	}, s
}
