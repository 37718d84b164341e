package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/validation"
)

// CourseService handles courses, enrollments and schedules
type CourseService struct {
	courseRepo repositories.ICourseRepository
	userRepo   repositories.IUserRepository
	logger     zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo repositories.ICourseRepository, userRepo repositories.IUserRepository, logger zerolog.Logger) *CourseService {
	return &CourseService{courseRepo: courseRepo, userRepo: userRepo, logger: logger}
}

// requireRole loads a user and checks it has role. A missing user is reported as notFound.
func (s *CourseService) requireRole(ctx context.Context, id int64, role models.Role, notFound string, wrongRole error) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrUserNotFound, notFound)
		}
		return nil, err
	}
	if user.Role != role {
		return nil, wrongRole
	}
	return user, nil
}

func (s *CourseService) requireInstructor(ctx context.Context, id int64) (*models.User, error) {
	return s.requireRole(ctx, id, models.RoleFaculty, "Instructor not found", apperrors.ErrInstructorNotFaculty)
}

func normalizeCourseCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !validation.NewStringValidation(code).WithPattern(validation.CompiledPatterns.CourseCode).Validate() {
		return "", apperrors.NewValidationError("Invalid course data", map[string]interface{}{
			"code": "must look like CS150 or MATH201",
		})
	}
	return code, nil
}

// CreateCourse creates a course taught by a faculty member
func (s *CourseService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	code, err := normalizeCourseCode(req.Code)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Invalid course data", map[string]interface{}{"name": "is required"})
	}
	if _, err := s.requireInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	course := &models.Course{
		Name:         name,
		Code:         code,
		Description:  strings.TrimSpace(req.Description),
		Credits:      req.Credits,
		InstructorID: req.InstructorID,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("courseID", course.ID).Str("code", course.Code).Msg("Course created")
	return s.courseRepo.GetByID(ctx, course.ID)
}

// GetCourse retrieves a course by ID
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListCourses returns courses matching filter
func (s *CourseService) ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.courseRepo.List(ctx, filter)
}

// UpdateCourse applies the fields present in req
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
		if course.Name == "" {
			return nil, apperrors.NewValidationError("Invalid course data", map[string]interface{}{"name": "is required"})
		}
	}
	if req.Code != nil {
		if course.Code, err = normalizeCourseCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		course.Description = strings.TrimSpace(*req.Description)
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.InstructorID != nil && *req.InstructorID != course.InstructorID {
		if _, err := s.requireInstructor(ctx, *req.InstructorID); err != nil {
			return nil, err
		}
		course.InstructorID = *req.InstructorID
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("courseID", course.ID).Msg("Course updated")
	return s.courseRepo.GetByID(ctx, id)
}

// AssignInstructor changes the faculty member teaching a course
func (s *CourseService) AssignInstructor(ctx context.Context, id, instructorID int64) (*models.Course, error) {
	return s.UpdateCourse(ctx, id, dto.UpdateCourseRequest{InstructorID: &instructorID})
}

// DeleteCourse removes a course
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// EnrollStudent adds a student to the roster
func (s *CourseService) EnrollStudent(ctx context.Context, courseID, studentID int64) (*models.Course, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	if _, err := s.requireRole(ctx, studentID, models.RoleStudent, "Student not found",
		apperrors.NewBadRequestError("Only students can be enrolled in a course")); err != nil {
		return nil, err
	}
	if err := s.courseRepo.AddStudent(ctx, courseID, studentID); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("courseID", courseID).Int64("studentID", studentID).Msg("Student enrolled")
	return s.courseRepo.GetByID(ctx, courseID)
}

// UnenrollStudent removes a student from the roster
func (s *CourseService) UnenrollStudent(ctx context.Context, courseID, studentID int64) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}
	if err := s.courseRepo.RemoveStudent(ctx, courseID, studentID); err != nil {
		if errors.Is(err, apperrors.ErrNotEnrolled) {
			return apperrors.NewResourceNotFoundError("Student is not enrolled in this course")
		}
		return err
	}
	s.logger.Info().Int64("courseID", courseID).Int64("studentID", studentID).Msg("Student unenrolled")
	return nil
}

// AddSchedule adds a weekly meeting slot
func (s *CourseService) AddSchedule(ctx context.Context, courseID int64, req dto.CreateScheduleRequest) (*models.Course, error) {
	if req.EndTime <= req.StartTime {
		return nil, apperrors.NewValidationError("Invalid schedule", map[string]interface{}{"endTime": "must be after startTime"})
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	schedule := &models.Schedule{
		CourseID:  courseID,
		DayOfWeek: strings.ToUpper(req.DayOfWeek),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      strings.TrimSpace(req.Room),
	}
	if err := s.courseRepo.AddSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return s.courseRepo.GetByID(ctx, courseID)
}
