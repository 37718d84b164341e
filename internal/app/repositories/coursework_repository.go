package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/dberrors"
)

const submissionsUniqueKey = "submissions_assignment_id_student_id_key"

// CourseworkRepository handles assignments, announcements, submissions and grades
type CourseworkRepository struct {
	db querier
}

// NewCourseworkRepository creates a new CourseworkRepository
func NewCourseworkRepository(db querier) *CourseworkRepository {
	return &CourseworkRepository{db: db}
}

func (r *CourseworkRepository) queryAssignments(ctx context.Context, b sq.SelectBuilder) ([]models.Assignment, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	out := make([]models.Assignment, 0)
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Title, &a.Description, &a.DueDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func assignmentSelect() sq.SelectBuilder {
	return psql.Select("id", "course_id", "title", "description", "due_date", "created_at", "updated_at").From("assignments")
}

// CreateAssignment inserts an assignment
func (r *CourseworkRepository) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO assignments (course_id, title, description, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		a.CourseID, a.Title, a.Description, a.DueDate).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating assignment: %w", err)
	}
	return nil
}

// GetAssignment retrieves an assignment by ID
func (r *CourseworkRepository) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	list, err := r.queryAssignments(ctx, assignmentSelect().Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperrors.ErrAssignmentNotFound
	}
	return &list[0], nil
}

// ListAssignments returns the assignments of a course by due date
func (r *CourseworkRepository) ListAssignments(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	return r.queryAssignments(ctx, assignmentSelect().Where(sq.Eq{"course_id": courseID}).OrderBy("due_date", "id"))
}

// UpcomingAssignments returns assignments of courseIDs due after the given time
func (r *CourseworkRepository) UpcomingAssignments(ctx context.Context, courseIDs []int64, after time.Time, limit int) ([]models.Assignment, error) {
	if len(courseIDs) == 0 {
		return []models.Assignment{}, nil
	}
	b := assignmentSelect().
		Where(sq.Eq{"course_id": courseIDs}).
		Where(sq.Gt{"due_date": after}).
		OrderBy("due_date", "id")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return r.queryAssignments(ctx, b)
}

// UpdateAssignment saves the editable fields of an assignment
func (r *CourseworkRepository) UpdateAssignment(ctx context.Context, a *models.Assignment) error {
	err := r.db.QueryRow(ctx, `
		UPDATE assignments SET title = $1, description = $2, due_date = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		a.Title, a.Description, a.DueDate, a.ID).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrAssignmentNotFound
		}
		return fmt.Errorf("error updating assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes an assignment with its submissions and grades
func (r *CourseworkRepository) DeleteAssignment(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	return rowsAffectedOr(tag, apperrors.ErrAssignmentNotFound)
}

// CreateAnnouncement inserts an announcement
func (r *CourseworkRepository) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO announcements (course_id, author_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		a.CourseID, a.AuthorID, a.Title, a.Content).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating announcement: %w", err)
	}
	return nil
}

func announcementSelect() sq.SelectBuilder {
	return psql.Select("a.id", "a.course_id", "a.author_id", "u.first_name || ' ' || u.last_name",
		"a.title", "a.content", "a.created_at").
		From("announcements a").
		Join("users u ON u.id = a.author_id")
}

func (r *CourseworkRepository) queryAnnouncements(ctx context.Context, b sq.SelectBuilder) ([]models.Announcement, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing announcements: %w", err)
	}
	defer rows.Close()

	out := make([]models.Announcement, 0)
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.CourseID, &a.AuthorID, &a.AuthorName, &a.Title, &a.Content, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning announcement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAnnouncement retrieves an announcement by ID
func (r *CourseworkRepository) GetAnnouncement(ctx context.Context, id int64) (*models.Announcement, error) {
	list, err := r.queryAnnouncements(ctx, announcementSelect().Where(sq.Eq{"a.id": id}))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperrors.ErrAnnouncementNotFound
	}
	return &list[0], nil
}

// ListAnnouncements returns announcements of courseIDs, newest first
func (r *CourseworkRepository) ListAnnouncements(ctx context.Context, courseIDs []int64, limit int) ([]models.Announcement, error) {
	if len(courseIDs) == 0 {
		return []models.Announcement{}, nil
	}
	b := announcementSelect().Where(sq.Eq{"a.course_id": courseIDs}).OrderBy("a.created_at DESC", "a.id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return r.queryAnnouncements(ctx, b)
}

// DeleteAnnouncement removes an announcement
func (r *CourseworkRepository) DeleteAnnouncement(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting announcement: %w", err)
	}
	return rowsAffectedOr(tag, apperrors.ErrAnnouncementNotFound)
}

// CreateSubmission records a student's answer. One per student and assignment.
func (r *CourseworkRepository) CreateSubmission(ctx context.Context, s *models.Submission) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO submissions (assignment_id, student_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, submitted_at`,
		s.AssignmentID, s.StudentID, s.Content).Scan(&s.ID, &s.SubmittedAt)
	if err != nil {
		if constraint, ok := dberrors.IsUniqueViolation(err); ok && constraint == submissionsUniqueKey {
			return apperrors.ErrAlreadySubmitted
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrAssignmentNotFound
		}
		return fmt.Errorf("error creating submission: %w", err)
	}
	return nil
}

// UpsertGrade records a grade, replacing an earlier one for the same student
func (r *CourseworkRepository) UpsertGrade(ctx context.Context, g *models.Grade) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO grades (assignment_id, student_id, score, feedback, graded_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assignment_id, student_id)
		DO UPDATE SET score = EXCLUDED.score, feedback = EXCLUDED.feedback,
			graded_by = EXCLUDED.graded_by, updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		g.AssignmentID, g.StudentID, g.Score, g.Feedback, g.GradedBy).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrAssignmentNotFound
		}
		return fmt.Errorf("error saving grade: %w", err)
	}
	return nil
}

func gradeSelect() sq.SelectBuilder {
	return psql.Select("g.id", "g.assignment_id", "a.title", "a.course_id", "g.student_id", "g.score",
		"g.feedback", "COALESCE(g.graded_by, 0)", "g.created_at", "g.updated_at").
		From("grades g").
		Join("assignments a ON a.id = g.assignment_id")
}

func (r *CourseworkRepository) queryGrades(ctx context.Context, b sq.SelectBuilder) ([]models.Grade, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing grades: %w", err)
	}
	defer rows.Close()

	out := make([]models.Grade, 0)
	for rows.Next() {
		var g models.Grade
		if err := rows.Scan(&g.ID, &g.AssignmentID, &g.AssignmentTitle, &g.CourseID, &g.StudentID, &g.Score,
			&g.Feedback, &g.GradedBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning grade: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListGrades returns every grade of an assignment
func (r *CourseworkRepository) ListGrades(ctx context.Context, assignmentID int64) ([]models.Grade, error) {
	return r.queryGrades(ctx, gradeSelect().Where(sq.Eq{"g.assignment_id": assignmentID}).OrderBy("g.student_id"))
}

// ListGradesByStudent returns a student's grades, most recently graded first
func (r *CourseworkRepository) ListGradesByStudent(ctx context.Context, studentID int64, limit int) ([]models.Grade, error) {
	b := gradeSelect().Where(sq.Eq{"g.student_id": studentID}).OrderBy("g.updated_at DESC", "g.id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return r.queryGrades(ctx, b)
}
