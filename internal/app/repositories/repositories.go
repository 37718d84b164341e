package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/db"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	// Create inserts user. A taken role ID returns apperrors.ErrRoleIDTaken and
	// a taken email apperrors.ErrEmailAlreadyExists.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter, limit int, offset uint64) ([]models.User, int64, error)
	// Update saves user. Like Create, a taken role ID returns apperrors.ErrRoleIDTaken.
	Update(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id int64, active bool) error
	// Delete removes the user and everything they own in one transaction.
	Delete(ctx context.Context, id int64) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	CountByRoleIDPrefix(ctx context.Context, prefix string) (int, error)
	CountByRole(ctx context.Context) (map[models.Role]int64, error)
	CountActive(ctx context.Context) (active, inactive int64, err error)
}

// ICourseRepository defines course, enrollment and schedule persistence
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	// GetByID loads the course with its instructor, students and schedules.
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)

	AddStudent(ctx context.Context, courseID, studentID int64) error
	RemoveStudent(ctx context.Context, courseID, studentID int64) error
	IsEnrolled(ctx context.Context, courseID, studentID int64) (bool, error)
	AddSchedule(ctx context.Context, schedule *models.Schedule) error
}

// ICourseworkRepository defines assignment, announcement, submission and grade persistence
type ICourseworkRepository interface {
	CreateAssignment(ctx context.Context, a *models.Assignment) error
	GetAssignment(ctx context.Context, id int64) (*models.Assignment, error)
	ListAssignments(ctx context.Context, courseID int64) ([]models.Assignment, error)
	// UpcomingAssignments returns assignments of the given courses due after
	// the given time, soonest first.
	UpcomingAssignments(ctx context.Context, courseIDs []int64, after time.Time, limit int) ([]models.Assignment, error)
	UpdateAssignment(ctx context.Context, a *models.Assignment) error
	DeleteAssignment(ctx context.Context, id int64) error

	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	GetAnnouncement(ctx context.Context, id int64) (*models.Announcement, error)
	// ListAnnouncements returns the newest announcements of the given courses.
	// A limit of 0 returns all of them.
	ListAnnouncements(ctx context.Context, courseIDs []int64, limit int) ([]models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error

	CreateSubmission(ctx context.Context, s *models.Submission) error
	UpsertGrade(ctx context.Context, g *models.Grade) error
	ListGrades(ctx context.Context, assignmentID int64) ([]models.Grade, error)
	ListGradesByStudent(ctx context.Context, studentID int64, limit int) ([]models.Grade, error)
}

// IReportRepository defines report persistence
type IReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	// List returns reports newest first. A limit of 0 returns all of them.
	List(ctx context.Context, filter models.ReportFilter, limit int) ([]models.Report, error)
	Delete(ctx context.Context, id int64) error
}

// IApplicationRepository defines admissions application persistence
type IApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	// List returns applications newest first.
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus, submittedAt *time.Time) error
	UpdateDocuments(ctx context.Context, id int64, documents []models.Document) error
	CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        IUserRepository
	CourseRepository      ICourseRepository
	CourseworkRepository  ICourseworkRepository
	ReportRepository      IReportRepository
	ApplicationRepository IApplicationRepository
}

// NewRepositories initializes all PostgreSQL repositories
func NewRepositories(pg *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(pg),
		CourseRepository:      NewCourseRepository(pg.Pool),
		CourseworkRepository:  NewCourseworkRepository(pg.Pool),
		ReportRepository:      NewReportRepository(pg.Pool),
		ApplicationRepository: NewApplicationRepository(pg.Pool),
	}
}

// rowsAffectedOr returns notFound when tag touched no rows.
func rowsAffectedOr(tag pgconn.CommandTag, notFound error) error {
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
