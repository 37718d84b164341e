package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/dberrors"
)

const (
	coursesCodeKey      = "courses_code_key"
	courseStudentsPKey  = "course_students_pkey"
	courseSelectColumns = `c.id, c.name, c.code, c.description, c.credits, c.instructor_id, c.created_at, c.updated_at,
		u.id, u.email, u.first_name, u.last_name, u.role, u.role_id, u.is_active`
)

// CourseRepository handles course database operations
type CourseRepository struct {
	db querier
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db querier) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	c := &models.Course{}
	instructor := &models.User{}
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Credits, &c.InstructorID, &c.CreatedAt, &c.UpdatedAt,
		&instructor.ID, &instructor.Email, &instructor.FirstName, &instructor.LastName, &instructor.Role,
		&instructor.RoleID, &instructor.IsActive)
	if err != nil {
		return nil, err
	}
	c.Instructor = instructor
	c.Students = []models.User{}
	c.Schedules = []models.Schedule{}
	return c, nil
}

func mapCourseWriteError(err error, op string) error {
	if constraint, ok := dberrors.IsUniqueViolation(err); ok && constraint == coursesCodeKey {
		return apperrors.ErrCourseCodeExists
	}
	if dberrors.IsForeignKeyViolation(err) {
		return apperrors.ErrUserNotFound
	}
	return fmt.Errorf("error %s course: %w", op, err)
}

// Create inserts a course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (name, code, description, credits, instructor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		course.Name, course.Code, course.Description, course.Credits, course.InstructorID,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return mapCourseWriteError(err, "creating")
	}
	return nil
}

// GetByID retrieves a course with its instructor, roster and schedule
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	courses, err := r.list(ctx, psql.Select(courseSelectColumns).
		From("courses c").
		Join("users u ON u.id = c.instructor_id").
		Where(sq.Eq{"c.id": id}))
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, apperrors.ErrCourseNotFound
	}
	return &courses[0], nil
}

// List returns courses matching filter ordered by code
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	b := psql.Select(courseSelectColumns).
		From("courses c").
		Join("users u ON u.id = c.instructor_id").
		OrderBy("c.code")
	if filter.InstructorID > 0 {
		b = b.Where(sq.Eq{"c.instructor_id": filter.InstructorID})
	}
	if filter.StudentID > 0 {
		b = b.Where(sq.Expr("EXISTS (SELECT 1 FROM course_students cs WHERE cs.course_id = c.id AND cs.student_id = ?)", filter.StudentID))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(sq.Or{
			sq.Expr("c.name ILIKE ?", pattern),
			sq.Expr("c.code ILIKE ?", pattern),
		})
	}
	return r.list(ctx, b)
}

func (r *CourseRepository) list(ctx context.Context, b sq.SelectBuilder) ([]models.Course, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	index := make(map[int64]int)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		index[c.ID] = len(courses)
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}
	if len(courses) == 0 {
		return courses, nil
	}

	ids := make([]int64, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	if err := r.attachStudents(ctx, ids, courses, index); err != nil {
		return nil, err
	}
	if err := r.attachSchedules(ctx, ids, courses, index); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) attachStudents(ctx context.Context, ids []int64, courses []models.Course, index map[int64]int) error {
	rows, err := r.db.Query(ctx, `
		SELECT cs.course_id, u.id, u.email, u.first_name, u.last_name, u.role, u.role_id, u.is_active
		FROM course_students cs
		JOIN users u ON u.id = cs.student_id
		WHERE cs.course_id = ANY($1)
		ORDER BY u.last_name, u.first_name`, ids)
	if err != nil {
		return fmt.Errorf("error loading enrollments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID int64
		var u models.User
		if err := rows.Scan(&courseID, &u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.RoleID, &u.IsActive); err != nil {
			return fmt.Errorf("error scanning enrollment: %w", err)
		}
		if i, ok := index[courseID]; ok {
			courses[i].Students = append(courses[i].Students, u)
		}
	}
	return rows.Err()
}

func (r *CourseRepository) attachSchedules(ctx context.Context, ids []int64, courses []models.Course, index map[int64]int) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, course_id, day_of_week, start_time, end_time, room
		FROM schedules
		WHERE course_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("error loading schedules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.ID, &s.CourseID, &s.DayOfWeek, &s.StartTime, &s.EndTime, &s.Room); err != nil {
			return fmt.Errorf("error scanning schedule: %w", err)
		}
		if i, ok := index[s.CourseID]; ok {
			courses[i].Schedules = append(courses[i].Schedules, s)
		}
	}
	return rows.Err()
}

// Update saves the editable fields of course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	err := r.db.QueryRow(ctx, `
		UPDATE courses
		SET name = $1, code = $2, description = $3, credits = $4, instructor_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`,
		course.Name, course.Code, course.Description, course.Credits, course.InstructorID, course.ID,
	).Scan(&course.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrCourseNotFound
		}
		return mapCourseWriteError(err, "updating")
	}
	return nil
}

// Delete removes a course together with its enrollments and coursework
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	return rowsAffectedOr(tag, apperrors.ErrCourseNotFound)
}

// Count returns the number of courses
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return n, nil
}

// AddStudent enrolls a student
func (r *CourseRepository) AddStudent(ctx context.Context, courseID, studentID int64) error {
	_, err := r.db.Exec(ctx, `INSERT INTO course_students (course_id, student_id) VALUES ($1, $2)`, courseID, studentID)
	if err != nil {
		if constraint, ok := dberrors.IsUniqueViolation(err); ok && constraint == courseStudentsPKey {
			return apperrors.ErrAlreadyEnrolled
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error enrolling student: %w", err)
	}
	return nil
}

// RemoveStudent drops a student from the roster
func (r *CourseRepository) RemoveStudent(ctx context.Context, courseID, studentID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM course_students WHERE course_id = $1 AND student_id = $2`, courseID, studentID)
	if err != nil {
		return fmt.Errorf("error removing student: %w", err)
	}
	return rowsAffectedOr(tag, apperrors.ErrNotEnrolled)
}

// IsEnrolled reports whether the student is on the course roster
func (r *CourseRepository) IsEnrolled(ctx context.Context, courseID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM course_students WHERE course_id = $1 AND student_id = $2)`,
		courseID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// AddSchedule inserts a weekly meeting slot
func (r *CourseRepository) AddSchedule(ctx context.Context, s *models.Schedule) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO schedules (course_id, day_of_week, start_time, end_time, room)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		s.CourseID, s.DayOfWeek, s.StartTime, s.EndTime, s.Room).Scan(&s.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating schedule: %w", err)
	}
	return nil
}
