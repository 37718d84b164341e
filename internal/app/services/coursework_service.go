package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/greenfield/internal/app/auth"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

// CourseworkService handles assignments, announcements, submissions and grades
type CourseworkService struct {
	workRepo   repositories.ICourseworkRepository
	courseRepo repositories.ICourseRepository
	authz      *appauth.AuthorizationService
	logger     zerolog.Logger
}

// NewCourseworkService creates a new CourseworkService
func NewCourseworkService(
	workRepo repositories.ICourseworkRepository,
	courseRepo repositories.ICourseRepository,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) *CourseworkService {
	return &CourseworkService{workRepo: workRepo, courseRepo: courseRepo, authz: authz, logger: logger}
}

// ListAssignments returns a course's assignments to anyone who may read it
func (s *CourseworkService) ListAssignments(ctx context.Context, courseID int64, p appauth.Principal) ([]models.Assignment, error) {
	if err := s.authz.ValidateCourseReader(ctx, courseID, p); err != nil {
		return nil, err
	}
	return s.workRepo.ListAssignments(ctx, courseID)
}

// CreateAssignment adds an assignment to a course
func (s *CourseworkService) CreateAssignment(ctx context.Context, courseID int64, req dto.CreateAssignmentRequest, p appauth.Principal) (*models.Assignment, error) {
	if err := s.authz.ValidateCourseManager(ctx, courseID, p); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("Invalid assignment", map[string]interface{}{"title": "is required"})
	}
	a := &models.Assignment{
		CourseID:    courseID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		DueDate:     req.DueDate.UTC(),
	}
	if err := s.workRepo.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("assignmentID", a.ID).Int64("courseID", courseID).Msg("Assignment created")
	return a, nil
}

// UpdateAssignment applies the fields present in req
func (s *CourseworkService) UpdateAssignment(ctx context.Context, id int64, req dto.UpdateAssignmentRequest, p appauth.Principal) (*models.Assignment, error) {
	a, err := s.workRepo.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateCourseManager(ctx, a.CourseID, p); err != nil {
		return nil, err
	}
	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
		if a.Title == "" {
			return nil, apperrors.NewValidationError("Invalid assignment", map[string]interface{}{"title": "is required"})
		}
	}
	if req.Description != nil {
		a.Description = strings.TrimSpace(*req.Description)
	}
	if req.DueDate != nil {
		a.DueDate = req.DueDate.UTC()
	}
	if err := s.workRepo.UpdateAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAssignment removes an assignment
func (s *CourseworkService) DeleteAssignment(ctx context.Context, id int64, p appauth.Principal) error {
	a, err := s.workRepo.GetAssignment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateCourseManager(ctx, a.CourseID, p); err != nil {
		return err
	}
	return s.workRepo.DeleteAssignment(ctx, id)
}

// ListAnnouncements returns a course's announcements, newest first
func (s *CourseworkService) ListAnnouncements(ctx context.Context, courseID int64, p appauth.Principal) ([]models.Announcement, error) {
	if err := s.authz.ValidateCourseReader(ctx, courseID, p); err != nil {
		return nil, err
	}
	return s.workRepo.ListAnnouncements(ctx, []int64{courseID}, 0)
}

// CreateAnnouncement posts an announcement to a course
func (s *CourseworkService) CreateAnnouncement(ctx context.Context, courseID int64, req dto.CreateAnnouncementRequest, p appauth.Principal) (*models.Announcement, error) {
	if err := s.authz.ValidateCourseManager(ctx, courseID, p); err != nil {
		return nil, err
	}
	a := &models.Announcement{
		CourseID: courseID,
		AuthorID: p.UserID,
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
	}
	if a.Title == "" || a.Content == "" {
		return nil, apperrors.NewValidationError("Invalid announcement", map[string]interface{}{"title": "title and content are required"})
	}
	if err := s.workRepo.CreateAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("announcementID", a.ID).Int64("courseID", courseID).Msg("Announcement posted")
	return a, nil
}

// DeleteAnnouncement removes an announcement
func (s *CourseworkService) DeleteAnnouncement(ctx context.Context, id int64, p appauth.Principal) error {
	a, err := s.workRepo.GetAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateCourseManager(ctx, a.CourseID, p); err != nil {
		return err
	}
	return s.workRepo.DeleteAnnouncement(ctx, id)
}

// SubmitAssignment records an enrolled student's answer. Each student submits once.
func (s *CourseworkService) SubmitAssignment(ctx context.Context, assignmentID int64, req dto.SubmitAssignmentRequest, p appauth.Principal) (*models.Submission, error) {
	a, err := s.workRepo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("Only students can submit assignments")
	}
	enrolled, err := s.courseRepo.IsEnrolled(ctx, a.CourseID, p.UserID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperrors.NewForbiddenError("You are not enrolled in this course")
	}

	sub := &models.Submission{AssignmentID: assignmentID, StudentID: p.UserID, Content: strings.TrimSpace(req.Content)}
	if sub.Content == "" {
		return nil, apperrors.NewValidationError("Invalid submission", map[string]interface{}{"content": "is required"})
	}
	if err := s.workRepo.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("assignmentID", assignmentID).Int64("studentID", p.UserID).Msg("Assignment submitted")
	return sub, nil
}

// GradeSubmission records or replaces a student's grade
func (s *CourseworkService) GradeSubmission(ctx context.Context, assignmentID int64, req dto.GradeRequest, p appauth.Principal) (*models.Grade, error) {
	a, err := s.workRepo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateCourseManager(ctx, a.CourseID, p); err != nil {
		return nil, err
	}
	if req.Score == nil || *req.Score < 0 || *req.Score > 100 {
		return nil, apperrors.NewValidationError("Invalid grade", map[string]interface{}{"score": "must be between 0 and 100"})
	}
	enrolled, err := s.courseRepo.IsEnrolled(ctx, a.CourseID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperrors.NewBadRequestError("Student is not enrolled in this course")
	}

	g := &models.Grade{
		AssignmentID: assignmentID,
		StudentID:    req.StudentID,
		Score:        *req.Score,
		Feedback:     strings.TrimSpace(req.Feedback),
		GradedBy:     p.UserID,
	}
	if err := s.workRepo.UpsertGrade(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("assignmentID", assignmentID).Int64("studentID", req.StudentID).Float64("score", g.Score).Msg("Grade recorded")
	return g, nil
}

// ListGrades returns the grades of an assignment to its course managers
func (s *CourseworkService) ListGrades(ctx context.Context, assignmentID int64, p appauth.Principal) ([]models.Grade, error) {
	a, err := s.workRepo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateCourseManager(ctx, a.CourseID, p); err != nil {
		return nil, err
	}
	return s.workRepo.ListGrades(ctx, assignmentID)
}

// StudentGrades returns every grade of a student, most recent first
func (s *CourseworkService) StudentGrades(ctx context.Context, studentID int64) ([]models.Grade, error) {
	return s.workRepo.ListGradesByStudent(ctx, studentID, 0)
}

// Upcoming returns assignments of the given courses due after now
func (s *CourseworkService) Upcoming(ctx context.Context, courseIDs []int64, now time.Time, limit int) ([]models.Assignment, error) {
	return s.workRepo.UpcomingAssignments(ctx, courseIDs, now, limit)
}
