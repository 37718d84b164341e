package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/pkg/cache"
	"golang.org/x/sync/errgroup"
)

const (
	adminDashboardKey = "dashboard:admin"
	adminDashboardTTL = 15 * time.Second
	dashboardListSize = 5
)

// DashboardService assembles the role landing pages
type DashboardService struct {
	repos  *repositories.Repositories
	cache  cache.Store
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService. A non-positive ttl
// uses the default of 15 seconds.
func NewDashboardService(repos *repositories.Repositories, store cache.Store, ttl time.Duration, logger zerolog.Logger) *DashboardService {
	if ttl <= 0 {
		ttl = adminDashboardTTL
	}
	return &DashboardService{repos: repos, cache: store, ttl: ttl, logger: logger, now: time.Now}
}

// Admin returns portal-wide counts. Results are cached briefly.
func (s *DashboardService) Admin(ctx context.Context) (*dto.AdminDashboard, error) {
	if raw, ok, err := s.cache.Get(ctx, adminDashboardKey); err != nil {
		s.logger.Warn().Err(err).Msg("Dashboard cache read failed")
	} else if ok {
		var cached dto.AdminDashboard
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	out := &dto.AdminDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.UsersByRole, err = s.repos.UserRepository.CountByRole(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.ActiveUsers, out.InactiveUsers, err = s.repos.UserRepository.CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Courses, err = s.repos.CourseRepository.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.ApplicationsByStatus, err = s.repos.ApplicationRepository.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.RecentReports, err = s.repos.ReportRepository.List(gctx, models.ReportFilter{}, dashboardListSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, adminDashboardKey, raw, s.ttl); err != nil {
			s.logger.Warn().Err(err).Msg("Dashboard cache write failed")
		}
	}
	return out, nil
}

func courseIDs(courses []models.Course) []int64 {
	ids := make([]int64, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
	}
	return ids
}

func courseSummaries(courses []models.Course) []dto.CourseSummary {
	out := make([]dto.CourseSummary, len(courses))
	for i := range courses {
		out[i] = dto.NewCourseSummary(&courses[i])
	}
	return out
}

// Faculty returns the courses taught by facultyID with their upcoming work.
func (s *DashboardService) Faculty(ctx context.Context, facultyID int64) (*dto.FacultyDashboard, error) {
	courses, err := s.repos.CourseRepository.List(ctx, models.CourseFilter{InstructorID: facultyID})
	if err != nil {
		return nil, err
	}
	ids := courseIDs(courses)
	out := &dto.FacultyDashboard{Courses: courseSummaries(courses)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.UpcomingAssignments, err = s.repos.CourseworkRepository.UpcomingAssignments(gctx, ids, s.now(), dashboardListSize)
		return err
	})
	g.Go(func() error {
		var err error
		out.RecentAnnouncements, err = s.repos.CourseworkRepository.ListAnnouncements(gctx, ids, dashboardListSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Student returns the enrolled courses of studentID with upcoming work and recent grades.
func (s *DashboardService) Student(ctx context.Context, studentID int64) (*dto.StudentDashboard, error) {
	courses, err := s.repos.CourseRepository.List(ctx, models.CourseFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	ids := courseIDs(courses)
	out := &dto.StudentDashboard{Courses: courseSummaries(courses)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.UpcomingAssignments, err = s.repos.CourseworkRepository.UpcomingAssignments(gctx, ids, s.now(), dashboardListSize)
		return err
	})
	g.Go(func() error {
		var err error
		out.RecentGrades, err = s.repos.CourseworkRepository.ListGradesByStudent(gctx, studentID, dashboardListSize)
		return err
	})
	g.Go(func() error {
		var err error
		out.Announcements, err = s.repos.CourseworkRepository.ListAnnouncements(gctx, ids, dashboardListSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
