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
)

var applicationColumns = []string{
	"id", "type", "status", "first_name", "last_name", "email", "phone_number", "date_of_birth",
	"address", "city", "state", "country", "postal_code", "gpa", "intended_major", "start_term",
	"sat_score", "act_score", "toefl_score", "ielts_score", "previous_schools", "documents", "essay",
	"submitted_at", "created_at", "updated_at",
}

// ApplicationRepository handles admissions application database operations
type ApplicationRepository struct {
	db querier
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db querier) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	a := &models.Application{}
	var sat, act, toefl *int
	var ielts *float64
	err := row.Scan(&a.ID, &a.Type, &a.Status, &a.FirstName, &a.LastName, &a.Email, &a.PhoneNumber,
		&a.DateOfBirth, &a.Address, &a.City, &a.State, &a.Country, &a.PostalCode, &a.GPA, &a.IntendedMajor,
		&a.StartTerm, &sat, &act, &toefl, &ielts, &a.PreviousSchools, &a.Documents, &a.Essay,
		&a.SubmittedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Scores = models.ScoresFromColumns(a.Type, sat, act, toefl, ielts)
	if a.PreviousSchools == nil {
		a.PreviousSchools = []models.PreviousSchool{}
	}
	if a.Documents == nil {
		a.Documents = []models.Document{}
	}
	return a, nil
}

// Create inserts an application. Scores are flattened into their columns.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	sat, act, toefl, ielts := models.ScoreColumns(app.Scores)
	if app.PreviousSchools == nil {
		app.PreviousSchools = []models.PreviousSchool{}
	}
	if app.Documents == nil {
		app.Documents = []models.Document{}
	}

	query, args, err := psql.Insert("applications").
		Columns(applicationColumns[1:24]...).
		Values(app.Type, app.Status, app.FirstName, app.LastName, app.Email, app.PhoneNumber, app.DateOfBirth,
			app.Address, app.City, app.State, app.Country, app.PostalCode, app.GPA, app.IntendedMajor, app.StartTerm,
			sat, act, toefl, ielts, app.PreviousSchools, app.Documents, app.Essay, app.SubmittedAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	query, args, err := psql.Select(applicationColumns...).From("applications").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}
	app, err := scanApplication(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return app, nil
}

// List returns applications matching filter, newest first
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	b := psql.Select(applicationColumns...).From("applications").OrderBy("created_at DESC", "id DESC")
	if filter.Email != "" {
		b = b.Where(sq.Eq{"email": filter.Email})
	}
	if filter.Status != "" {
		b = b.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Type != "" {
		b = b.Where(sq.Eq{"type": filter.Type})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	apps := make([]models.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// UpdateStatus moves an application to status. A nil submittedAt keeps the stored value.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus, submittedAt *time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE applications
		SET status = $1, submitted_at = COALESCE($2, submitted_at), updated_at = NOW()
		WHERE id = $3`,
		status, submittedAt, id)
	if err != nil {
		return fmt.Errorf("error updating application status: %w", err)
	}
	return rowsAffectedOr(tag, apperrors.ErrApplicationNotFound)
}

// UpdateDocuments replaces the document list of an application
func (r *ApplicationRepository) UpdateDocuments(ctx context.Context, id int64, documents []models.Document) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE applications SET documents = $1, updated_at = NOW() WHERE id = $2`,
		documents, id)
	if err != nil {
		return fmt.Errorf("error updating application documents: %w", err)
	}
	return rowsAffectedOr(tag, apperrors.ErrApplicationNotFound)
}

// CountByStatus returns the number of applications per status. Every status is present.
func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting applications: %w", err)
	}
	defer rows.Close()

	counts := map[models.ApplicationStatus]int64{
		models.ApplicationDraft:       0,
		models.ApplicationSubmitted:   0,
		models.ApplicationUnderReview: 0,
		models.ApplicationAccepted:    0,
		models.ApplicationRejected:    0,
		models.ApplicationWaitlisted:  0,
	}
	for rows.Next() {
		var status models.ApplicationStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("error scanning application count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
