package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

// ReportRepository handles report database operations
type ReportRepository struct {
	db querier
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db querier) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a report. Data is stored as JSONB.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.Data == nil {
		report.Data = map[string]any{}
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO reports (title, type, period, data, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		report.Title, report.Type, report.Period, report.Data, report.Status, report.CreatedBy,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating report: %w", err)
	}
	return nil
}

// List returns reports matching filter, newest first, with the creator's name
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter, limit int) ([]models.Report, error) {
	b := psql.Select("r.id", "r.title", "r.type", "r.period", "r.data", "r.status",
		"COALESCE(r.created_by, 0)", "COALESCE(u.first_name || ' ' || u.last_name, '')", "r.created_at").
		From("reports r").
		LeftJoin("users u ON u.id = r.created_by").
		OrderBy("r.created_at DESC", "r.id DESC")
	if filter.Type != "" {
		b = b.Where(sq.Eq{"r.type": filter.Type})
	}
	if filter.Period != "" {
		b = b.Where(sq.Eq{"r.period": filter.Period})
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	defer rows.Close()

	reports := make([]models.Report, 0)
	for rows.Next() {
		var rep models.Report
		if err := rows.Scan(&rep.ID, &rep.Title, &rep.Type, &rep.Period, &rep.Data, &rep.Status,
			&rep.CreatedBy, &rep.CreatorName, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// Delete removes a report
func (r *ReportRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting report: %w", err)
	}
	return rowsAffectedOr(tag, apperrors.ErrReportNotFound)
}
