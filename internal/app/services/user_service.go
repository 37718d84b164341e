package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/auth"
	"github.com/yigit/greenfield/internal/pkg/email"
	"github.com/yigit/greenfield/internal/pkg/events"
	"github.com/yigit/greenfield/internal/pkg/roleid"
	"github.com/yigit/greenfield/internal/pkg/validation"
)

const (
	// MaxRoleIDAttempts bounds the insert-and-retry loop of role ID assignment.
	MaxRoleIDAttempts = 10
	roleIDRetryDelay  = 5 * time.Millisecond
)

// UserService handles account administration
type UserService struct {
	userRepo   repositories.IUserRepository
	courseRepo repositories.ICourseRepository
	mailer     email.EmailService
	publisher  events.Publisher
	logger     zerolog.Logger
	now        func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	courseRepo repositories.ICourseRepository,
	mailer email.EmailService,
	publisher events.Publisher,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		mailer:     mailer,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func validateNewUser(req dto.CreateUserRequest) (models.Role, error) {
	fields := map[string]interface{}{}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		fields["role"] = "must be one of ADMIN, FACULTY, STUDENT"
	}
	if !validation.IsEmail(req.Email) {
		fields["email"] = "must be a valid email address"
	}
	if len(req.Password) < validation.PasswordMinLength {
		fields["password"] = fmt.Sprintf("must be at least %d characters", validation.PasswordMinLength)
	}
	for field, value := range map[string]string{"firstName": req.FirstName, "lastName": req.LastName} {
		if !validation.NewStringValidation(value).
			WithMinLength(validation.NameMinLength).
			WithMaxLength(validation.NameMaxLength).
			Validate() {
			fields[field] = "is required"
		}
	}
	if len(fields) > 0 {
		return "", apperrors.NewValidationError("Invalid user data", fields)
	}
	return role, nil
}

// assignRoleID sets user.RoleID and runs write until it stops failing with
// apperrors.ErrRoleIDTaken.
//
// The candidate sequence starts after the number of existing IDs sharing the
// same base. The write itself decides uniqueness: a role ID collision moves
// on to the next sequence, at most MaxRoleIDAttempts times.
func (s *UserService) assignRoleID(ctx context.Context, user *models.User, write func(context.Context) error) error {
	year := s.now().Year()
	base := roleid.Base(user.Role, user.FirstName, user.LastName, year)

	attempt := 0
	backoff := retry.WithMaxRetries(MaxRoleIDAttempts-1, retry.NewConstant(roleIDRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		count, err := s.userRepo.CountByRoleIDPrefix(ctx, base)
		if err != nil {
			return err
		}
		candidate, err := roleid.Compose(user.Role, user.FirstName, user.LastName, year, count+1+attempt)
		if err != nil {
			return err
		}
		user.RoleID = candidate
		attempt++

		err = write(ctx)
		if errors.Is(err, apperrors.ErrRoleIDTaken) {
			s.logger.Debug().Str("roleId", user.RoleID).Int("attempt", attempt).Msg("Role ID taken, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, apperrors.ErrRoleIDTaken) || errors.Is(err, roleid.ErrSequenceOverflow) {
		s.logger.Error().Str("base", base).Int("attempts", attempt).Msg("Role ID attempts exhausted")
		return fmt.Errorf("%w after %d attempts", apperrors.ErrRoleIDExhausted, attempt)
	}
	return err
}

// CreateUser creates an account and assigns it a unique role ID.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	role, err := validateNewUser(req)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     validation.NormalizeEmail(req.Email),
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      role,
		IsActive:  true,
	}
	err = s.assignRoleID(ctx, user, func(ctx context.Context) error {
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrRoleIDExhausted) || errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("roleId", user.RoleID).Str("role", string(role)).Msg("User created")

	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.FullName(), user.RoleID); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome email")
	}
	if err := s.publisher.Publish(ctx, events.UserCreated, map[string]any{
		"id": user.ID, "email": user.Email, "role": user.Role, "roleId": user.RoleID,
	}); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to publish user event")
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns a page of users matching filter
func (s *UserService) ListUsers(ctx context.Context, filter models.UserFilter, limit int, offset uint64) ([]models.User, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.userRepo.List(ctx, filter, limit, offset)
}

// ListFaculty returns active faculty ordered by first name with the courses they teach
func (s *UserService) ListFaculty(ctx context.Context) ([]dto.FacultyResponse, error) {
	active := true
	faculty, _, err := s.userRepo.List(ctx, models.UserFilter{Role: models.RoleFaculty, IsActive: &active}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("error listing faculty: %w", err)
	}
	sort.SliceStable(faculty, func(i, j int) bool {
		if faculty[i].FirstName != faculty[j].FirstName {
			return faculty[i].FirstName < faculty[j].FirstName
		}
		return faculty[i].LastName < faculty[j].LastName
	})

	courses, err := s.courseRepo.List(ctx, models.CourseFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	byInstructor := make(map[int64][]dto.CourseSummary)
	for i := range courses {
		c := &courses[i]
		byInstructor[c.InstructorID] = append(byInstructor[c.InstructorID], dto.NewCourseSummary(c))
	}

	out := make([]dto.FacultyResponse, 0, len(faculty))
	for i := range faculty {
		taught := byInstructor[faculty[i].ID]
		if taught == nil {
			taught = []dto.CourseSummary{}
		}
		out = append(out, dto.FacultyResponse{UserSummary: *dto.NewUserSummary(&faculty[i]), Courses: taught})
	}
	return out, nil
}

// UpdateUser applies the fields present in req. A faculty member who still
// teaches cannot change role. A new role or new initials get a new role ID.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldRole, oldInitials := user.Role, roleid.Initials(user.FirstName, user.LastName)

	if req.Email != nil {
		if !validation.IsEmail(*req.Email) {
			return nil, apperrors.NewValidationError("Invalid user data", map[string]interface{}{"email": "must be a valid email address"})
		}
		user.Email = validation.NormalizeEmail(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil {
		role, ok := models.ParseRole(*req.Role)
		if !ok {
			return nil, apperrors.NewValidationError("Invalid user data", map[string]interface{}{"role": "must be one of ADMIN, FACULTY, STUDENT"})
		}
		if role != user.Role && user.Role == models.RoleFaculty {
			taught, err := s.courseRepo.List(ctx, models.CourseFilter{InstructorID: user.ID})
			if err != nil {
				return nil, fmt.Errorf("error listing taught courses: %w", err)
			}
			if len(taught) > 0 {
				return nil, apperrors.ErrUserTeachesCourses
			}
		}
		user.Role = role
	}
	if req.Password != nil {
		if len(*req.Password) < validation.PasswordMinLength {
			return nil, apperrors.NewValidationError("Invalid user data", map[string]interface{}{
				"password": fmt.Sprintf("must be at least %d characters", validation.PasswordMinLength),
			})
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.Password = hash
	}
	if user.FirstName == "" || user.LastName == "" {
		return nil, apperrors.NewValidationError("Invalid user data", map[string]interface{}{"name": "first and last name are required"})
	}

	save := func(ctx context.Context) error { return s.userRepo.Update(ctx, user) }
	if user.Role != oldRole || roleid.Initials(user.FirstName, user.LastName) != oldInitials {
		// The role ID follows role and initials; the year part moves to the current year.
		if err := s.assignRoleID(ctx, user, save); err != nil {
			return nil, err
		}
	} else if err := save(ctx); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userID", user.ID).Str("roleId", user.RoleID).Msg("User updated")
	return user, nil
}

// SetActive activates or deactivates an account. Admins cannot deactivate themselves.
func (s *UserService) SetActive(ctx context.Context, actorID, id int64, active bool) (*models.User, error) {
	if actorID == id && !active {
		return nil, apperrors.NewBadRequestError("You cannot deactivate your own account")
	}
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userID", id).Bool("active", active).Int64("by", actorID).Msg("User status changed")
	return s.userRepo.GetByID(ctx, id)
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return apperrors.NewBadRequestError("You cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", id).Int64("by", actorID).Msg("User deleted")
	return nil
}
