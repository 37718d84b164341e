package auth

import (
	"context"
	"fmt"

	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/logger"
)

// Principal is the authenticated caller of a request
type Principal struct {
	UserID int64
	Role   models.Role
}

// AuthorizationService decides who may read and manage a course's coursework
type AuthorizationService struct {
	courseRepo repositories.ICourseRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(courseRepo repositories.ICourseRepository) *AuthorizationService {
	return &AuthorizationService{courseRepo: courseRepo}
}

// CanManageCourse reports whether p may change the course's coursework:
// admins always, faculty only for courses they teach. A missing course is
// an error for every role.
func (s *AuthorizationService) CanManageCourse(ctx context.Context, courseID int64, p Principal) (bool, error) {
	if p.Role != models.RoleAdmin && p.Role != models.RoleFaculty {
		return false, nil
	}
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return false, err
	}
	return p.Role == models.RoleAdmin || course.InstructorID == p.UserID, nil
}

// CanReadCourse reports whether p may see the course's coursework: anyone who
// can manage it, plus its enrolled students.
func (s *AuthorizationService) CanReadCourse(ctx context.Context, courseID int64, p Principal) (bool, error) {
	if p.Role == models.RoleStudent {
		if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
			return false, err
		}
		return s.courseRepo.IsEnrolled(ctx, courseID, p.UserID)
	}
	return s.CanManageCourse(ctx, courseID, p)
}

// ValidateCourseManager returns a forbidden error unless p may manage the course
func (s *AuthorizationService) ValidateCourseManager(ctx context.Context, courseID int64, p Principal) error {
	ok, err := s.CanManageCourse(ctx, courseID, p)
	if err != nil {
		return err
	}
	if !ok {
		logger.Warn().Int64("courseID", courseID).Int64("userID", p.UserID).Msg("Course management denied")
		return apperrors.NewForbiddenError("Only the course instructor or an administrator can do this")
	}
	return nil
}

// ValidateCourseReader returns a forbidden error unless p may read the course
func (s *AuthorizationService) ValidateCourseReader(ctx context.Context, courseID int64, p Principal) error {
	ok, err := s.CanReadCourse(ctx, courseID, p)
	if err != nil {
		return fmt.Errorf("failed to check course access: %w", err)
	}
	if !ok {
		return apperrors.NewForbiddenError("You are not enrolled in this course")
	}
	return nil
}
