package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/repositories/inmem"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/events"
)

func TestUserService_CreateUserAssignsSequentialRoleIDs(t *testing.T) {
	f := newFixture(t)

	first := f.createUser(t, models.RoleStudent, "Ann", "Lee", "ann.lee@greenfield.edu")
	second := f.createUser(t, models.RoleStudent, "alan", "lowe", "alan.lowe@greenfield.edu")
	faculty := f.createUser(t, models.RoleFaculty, "Ann", "Lee", "prof.lee@greenfield.edu")

	assert.Equal(t, "STAL202601", first.RoleID)
	assert.Equal(t, "STAL202602", second.RoleID)
	assert.Equal(t, "FAAL202601", faculty.RoleID)
	assert.True(t, first.IsActive)
	assert.NotEqual(t, "password123", first.Password)

	assert.Equal(t, []string{"welcome", "welcome", "welcome"}, f.mailer.kinds())
	assert.Equal(t, []string{events.UserCreated, events.UserCreated, events.UserCreated}, f.publisher.published())
}

func TestUserService_CreateUserRetriesTakenRoleID(t *testing.T) {
	f := newFixture(t)
	repo := f.repos.UserRepository.(*inmem.UserRepository)

	var tried []string
	repo.CreateHook = func(u *models.User) error {
		tried = append(tried, u.RoleID)
		if len(tried) <= 2 {
			return apperrors.ErrRoleIDTaken
		}
		return nil
	}

	user := f.createUser(t, models.RoleStudent, "Ann", "Lee", "ann.lee@greenfield.edu")
	assert.Equal(t, []string{"STAL202601", "STAL202602", "STAL202603"}, tried)
	assert.Equal(t, "STAL202603", user.RoleID)
}

func TestUserService_CreateUserGivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture(t)
	repo := f.repos.UserRepository.(*inmem.UserRepository)

	calls := 0
	repo.CreateHook = func(*models.User) error {
		calls++
		return apperrors.ErrRoleIDTaken
	}

	_, err := f.users.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "ann.lee@greenfield.edu", Password: "password123",
		FirstName: "Ann", LastName: "Lee", Role: "STUDENT",
	})
	assert.ErrorIs(t, err, apperrors.ErrRoleIDExhausted)
	assert.Equal(t, MaxRoleIDAttempts, calls)
	assert.Empty(t, f.mailer.kinds())
}

func TestUserService_CreateUserValidation(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, models.RoleStudent, "Ann", "Lee", "ann.lee@greenfield.edu")

	tests := []struct {
		name    string
		req     dto.CreateUserRequest
		wantErr error
	}{
		{
			name:    "duplicate email differing in case",
			req:     dto.CreateUserRequest{Email: "ANN.LEE@greenfield.edu", Password: "password123", FirstName: "A", LastName: "L", Role: "STUDENT"},
			wantErr: apperrors.ErrEmailAlreadyExists,
		},
		{
			name:    "bad role",
			req:     dto.CreateUserRequest{Email: "x@greenfield.edu", Password: "password123", FirstName: "A", LastName: "L", Role: "DEAN"},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "short password",
			req:     dto.CreateUserRequest{Email: "x@greenfield.edu", Password: "short", FirstName: "A", LastName: "L", Role: "STUDENT"},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "missing name",
			req:     dto.CreateUserRequest{Email: "x@greenfield.edu", Password: "password123", FirstName: " ", LastName: "L", Role: "STUDENT"},
			wantErr: apperrors.ErrValidationFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.CreateUser(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserService_SelfProtection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createUser(t, models.RoleAdmin, "Ada", "Min", "ada@greenfield.edu")

	_, err := f.users.SetActive(ctx, admin.ID, admin.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	err = f.users.DeleteUser(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	reactivated, err := f.users.SetActive(ctx, admin.ID, admin.ID, true)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)
}

func TestUserService_DeleteInstructorWithCourses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createUser(t, models.RoleAdmin, "Ada", "Min", "ada@greenfield.edu")
	prof := f.createUser(t, models.RoleFaculty, "Robert", "Thompson", "math.prof@greenfield.edu")

	_, err := f.courses.CreateCourse(ctx, dto.CreateCourseRequest{
		Name: "Calculus I", Code: "MATH201", Credits: 4, InstructorID: prof.ID,
	})
	require.NoError(t, err)

	err = f.users.DeleteUser(ctx, admin.ID, prof.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserTeachesCourses)
}

func TestUserService_UpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, models.RoleStudent, "Ann", "Lee", "ann.lee@greenfield.edu")

	email := "Ann.New@Greenfield.edu"
	first := "Annie"
	updated, err := f.users.UpdateUser(ctx, user.ID, dto.UpdateUserRequest{Email: &email, FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "ann.new@greenfield.edu", updated.Email)
	assert.Equal(t, "Annie", updated.FirstName)
	assert.Equal(t, user.RoleID, updated.RoleID, "same initials keep the role ID")

	badRole := "DEAN"
	_, err = f.users.UpdateUser(ctx, user.ID, dto.UpdateUserRequest{Role: &badRole})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.users.UpdateUser(ctx, 999, dto.UpdateUserRequest{FirstName: &first})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_UpdateUserRoleChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, models.RoleFaculty, "Amy", "Liu", "amy.liu@greenfield.edu")
	student := f.createUser(t, models.RoleStudent, "Ann", "Lee", "ann.lee@greenfield.edu")
	require.Equal(t, "STAL202601", student.RoleID)

	faculty := "FACULTY"
	promoted, err := f.users.UpdateUser(ctx, student.ID, dto.UpdateUserRequest{Role: &faculty})
	require.NoError(t, err)
	assert.Equal(t, models.RoleFaculty, promoted.Role)
	assert.Equal(t, "FAAL202602", promoted.RoleID)

	stored, err := f.repos.UserRepository.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "FAAL202602", stored.RoleID)

	// The freed student ID can be handed out again.
	next := f.createUser(t, models.RoleStudent, "Alan", "Lowe", "alan.lowe@greenfield.edu")
	assert.Equal(t, "STAL202601", next.RoleID)

	last := "Kim"
	renamed, err := f.users.UpdateUser(ctx, student.ID, dto.UpdateUserRequest{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "FAAK202601", renamed.RoleID)
}

func TestUserService_UpdateUserRoleChangeRetriesTakenRoleID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.createUser(t, models.RoleStudent, "Ann", "Lee", "ann.lee@greenfield.edu")
	first := f.createUser(t, models.RoleFaculty, "Abe", "Lin", "abe.lin@greenfield.edu")
	second := f.createUser(t, models.RoleFaculty, "Al", "Lo", "al.lo@greenfield.edu")
	require.Equal(t, "FAAL202602", second.RoleID)

	// One FAAL ID left, so the first candidate is FAAL202602 and already taken.
	require.NoError(t, f.repos.UserRepository.Delete(ctx, first.ID))

	faculty := "FACULTY"
	promoted, err := f.users.UpdateUser(ctx, student.ID, dto.UpdateUserRequest{Role: &faculty})
	require.NoError(t, err)
	assert.Equal(t, "FAAL202603", promoted.RoleID)
}

func TestUserService_UpdateUserRoleOfInstructor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.createUser(t, models.RoleFaculty, "Robert", "Thompson", "math.prof@greenfield.edu")
	idle := f.createUser(t, models.RoleFaculty, "Maria", "Rodriguez", "maria@greenfield.edu")
	_, err := f.courses.CreateCourse(ctx, dto.CreateCourseRequest{
		Name: "Calculus I", Code: "MATH201", Credits: 4, InstructorID: prof.ID,
	})
	require.NoError(t, err)

	student := "STUDENT"
	_, err = f.users.UpdateUser(ctx, prof.ID, dto.UpdateUserRequest{Role: &student})
	assert.ErrorIs(t, err, apperrors.ErrUserTeachesCourses)

	stored, err := f.repos.UserRepository.GetByID(ctx, prof.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleFaculty, stored.Role)
	assert.Equal(t, prof.RoleID, stored.RoleID)

	demoted, err := f.users.UpdateUser(ctx, idle.ID, dto.UpdateUserRequest{Role: &student})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, demoted.Role)
	assert.Equal(t, "STMR202601", demoted.RoleID)
}

func TestUserService_CreateUserConcurrentSameInitials(t *testing.T) {
	f := newFixture(t)
	const n = 30

	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := f.users.CreateUser(context.Background(), dto.CreateUserRequest{
				Email:     fmt.Sprintf("ann.lee%d@greenfield.edu", i),
				Password:  "password123",
				FirstName: "Ann",
				LastName:  "Lee",
				Role:      "STUDENT",
			})
			errs[i] = err
			if u != nil {
				ids[i] = u.RoleID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Regexp(t, `^STAL2026\d{2}$`, ids[i])
		assert.False(t, seen[ids[i]], "duplicate role ID %s", ids[i])
		seen[ids[i]] = true
	}
	assert.Len(t, seen, n)
}

func TestUserService_ListFaculty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	zed := f.createUser(t, models.RoleFaculty, "Zed", "Young", "zed@greenfield.edu")
	amy := f.createUser(t, models.RoleFaculty, "Amy", "Zhao", "amy@greenfield.edu")
	f.createUser(t, models.RoleStudent, "Emma", "Davis", "emma@greenfield.edu")
	_, err := f.courses.CreateCourse(ctx, dto.CreateCourseRequest{Name: "Biology", Code: "BIO101", Credits: 3, InstructorID: zed.ID})
	require.NoError(t, err)

	faculty, err := f.users.ListFaculty(ctx)
	require.NoError(t, err)
	require.Len(t, faculty, 2)
	assert.Equal(t, amy.ID, faculty[0].ID)
	assert.Empty(t, faculty[0].Courses)
	assert.Equal(t, zed.ID, faculty[1].ID)
	require.Len(t, faculty[1].Courses, 1)
	assert.Equal(t, "BIO101", faculty[1].Courses[0].Code)
}
