package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

type courseSetup struct {
	admin, prof, other, student, outsider *models.User
	course                                *models.Course
}

func newCourseSetup(t *testing.T, f *fixture) courseSetup {
	t.Helper()
	s := courseSetup{
		admin:    f.createUser(t, models.RoleAdmin, "Ada", "Min", "ada@greenfield.edu"),
		prof:     f.createUser(t, models.RoleFaculty, "Robert", "Thompson", "math.prof@greenfield.edu"),
		other:    f.createUser(t, models.RoleFaculty, "Maria", "Rodriguez", "physics.prof@greenfield.edu"),
		student:  f.createUser(t, models.RoleStudent, "Emma", "Davis", "emma@greenfield.edu"),
		outsider: f.createUser(t, models.RoleStudent, "Alex", "Wang", "alex@greenfield.edu"),
	}
	course, err := f.courses.CreateCourse(context.Background(), dto.CreateCourseRequest{
		Name: "Calculus I", Code: " math201 ", Credits: 4, InstructorID: s.prof.ID,
	})
	require.NoError(t, err)
	_, err = f.courses.EnrollStudent(context.Background(), course.ID, s.student.ID)
	require.NoError(t, err)
	s.course = course
	return s
}

func TestCourseService_CreateCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newCourseSetup(t, f)

	assert.Equal(t, "MATH201", s.course.Code)
	require.NotNil(t, s.course.Instructor)
	assert.Equal(t, s.prof.ID, s.course.Instructor.ID)

	tests := []struct {
		name    string
		req     dto.CreateCourseRequest
		wantErr error
	}{
		{"duplicate code", dto.CreateCourseRequest{Name: "Again", Code: "MATH201", InstructorID: s.prof.ID}, apperrors.ErrCourseCodeExists},
		{"student instructor", dto.CreateCourseRequest{Name: "X", Code: "CS150", InstructorID: s.student.ID}, apperrors.ErrInstructorNotFaculty},
		{"missing instructor", dto.CreateCourseRequest{Name: "X", Code: "CS150", InstructorID: 999}, apperrors.ErrUserNotFound},
		{"bad code", dto.CreateCourseRequest{Name: "X", Code: "150", InstructorID: s.prof.ID}, apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.courses.CreateCourse(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCourseService_Enrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newCourseSetup(t, f)

	_, err := f.courses.EnrollStudent(ctx, s.course.ID, s.student.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)

	_, err = f.courses.EnrollStudent(ctx, s.course.ID, s.prof.ID)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	course, err := f.courses.EnrollStudent(ctx, s.course.ID, s.outsider.ID)
	require.NoError(t, err)
	assert.Len(t, course.Students, 2)

	require.NoError(t, f.courses.UnenrollStudent(ctx, s.course.ID, s.outsider.ID))
	err = f.courses.UnenrollStudent(ctx, s.course.ID, s.outsider.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	enrolled, err := f.courses.ListCourses(ctx, models.CourseFilter{StudentID: s.student.ID})
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, "MATH201", enrolled[0].Code)
}

func TestCourseService_UpdateAndSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newCourseSetup(t, f)

	course, err := f.courses.AssignInstructor(ctx, s.course.ID, s.other.ID)
	require.NoError(t, err)
	assert.Equal(t, s.other.ID, course.InstructorID)

	_, err = f.courses.AssignInstructor(ctx, s.course.ID, s.student.ID)
	assert.ErrorIs(t, err, apperrors.ErrInstructorNotFaculty)

	_, err = f.courses.AddSchedule(ctx, s.course.ID, dto.CreateScheduleRequest{
		DayOfWeek: "monday", StartTime: "10:30", EndTime: "09:00", Room: "101",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	course, err = f.courses.AddSchedule(ctx, s.course.ID, dto.CreateScheduleRequest{
		DayOfWeek: "monday", StartTime: "09:00", EndTime: "10:30", Room: " Room 101 ",
	})
	require.NoError(t, err)
	require.Len(t, course.Schedules, 1)
	assert.Equal(t, "MONDAY", course.Schedules[0].DayOfWeek)
	assert.Equal(t, "Room 101", course.Schedules[0].Room)
}

func TestCourseworkService_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newCourseSetup(t, f)
	due := fixedNow.Add(7 * 24 * time.Hour)

	_, err := f.coursework.CreateAssignment(ctx, s.course.ID, dto.CreateAssignmentRequest{Title: "PS1", DueDate: due}, principal(s.other))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.coursework.CreateAssignment(ctx, s.course.ID, dto.CreateAssignmentRequest{Title: "PS1", DueDate: due}, principal(s.student))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	a, err := f.coursework.CreateAssignment(ctx, s.course.ID, dto.CreateAssignmentRequest{Title: " PS1 ", DueDate: due}, principal(s.prof))
	require.NoError(t, err)
	assert.Equal(t, "PS1", a.Title)

	_, err = f.coursework.CreateAssignment(ctx, s.course.ID, dto.CreateAssignmentRequest{Title: "PS2", DueDate: due}, principal(s.admin))
	require.NoError(t, err)

	list, err := f.coursework.ListAssignments(ctx, s.course.ID, principal(s.student))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = f.coursework.ListAssignments(ctx, s.course.ID, principal(s.outsider))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.coursework.ListAssignments(ctx, 999, principal(s.student))
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCourseworkService_MissingCourseForEveryRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newCourseSetup(t, f)
	due := fixedNow.Add(7 * 24 * time.Hour)

	for _, u := range []*models.User{s.admin, s.prof, s.student} {
		_, err := f.coursework.ListAssignments(ctx, 999, principal(u))
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound, "assignments as %s", u.Role)

		_, err = f.coursework.ListAnnouncements(ctx, 999, principal(u))
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound, "announcements as %s", u.Role)
	}

	_, err := f.coursework.CreateAssignment(ctx, 999, dto.CreateAssignmentRequest{Title: "PS1", DueDate: due}, principal(s.admin))
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	list, err := f.coursework.ListAssignments(ctx, s.course.ID, principal(s.admin))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCourseworkService_SubmitAndGrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newCourseSetup(t, f)

	a, err := f.coursework.CreateAssignment(ctx, s.course.ID, dto.CreateAssignmentRequest{
		Title: "Midterm Project", DueDate: fixedNow.Add(48 * time.Hour),
	}, principal(s.prof))
	require.NoError(t, err)

	_, err = f.coursework.SubmitAssignment(ctx, a.ID, dto.SubmitAssignmentRequest{Content: "answer"}, principal(s.outsider))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	sub, err := f.coursework.SubmitAssignment(ctx, a.ID, dto.SubmitAssignmentRequest{Content: "answer"}, principal(s.student))
	require.NoError(t, err)
	assert.Equal(t, s.student.ID, sub.StudentID)

	_, err = f.coursework.SubmitAssignment(ctx, a.ID, dto.SubmitAssignmentRequest{Content: "again"}, principal(s.student))
	assert.ErrorIs(t, err, apperrors.ErrAlreadySubmitted)

	score := 120.0
	_, err = f.coursework.GradeSubmission(ctx, a.ID, dto.GradeRequest{StudentID: s.student.ID, Score: &score}, principal(s.prof))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	score = 88
	_, err = f.coursework.GradeSubmission(ctx, a.ID, dto.GradeRequest{StudentID: s.outsider.ID, Score: &score}, principal(s.prof))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = f.coursework.GradeSubmission(ctx, a.ID, dto.GradeRequest{StudentID: s.student.ID, Score: &score}, principal(s.other))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	g, err := f.coursework.GradeSubmission(ctx, a.ID, dto.GradeRequest{StudentID: s.student.ID, Score: &score, Feedback: "good"}, principal(s.prof))
	require.NoError(t, err)
	assert.Equal(t, s.prof.ID, g.GradedBy)

	// regrading replaces the previous grade
	score = 91
	_, err = f.coursework.GradeSubmission(ctx, a.ID, dto.GradeRequest{StudentID: s.student.ID, Score: &score}, principal(s.admin))
	require.NoError(t, err)

	grades, err := f.coursework.StudentGrades(ctx, s.student.ID)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, 91.0, grades[0].Score)
	assert.Equal(t, s.admin.ID, grades[0].GradedBy)
}
