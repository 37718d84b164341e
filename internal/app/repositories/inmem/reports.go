package inmem

import (
	"context"
	"sort"

	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

// ReportRepository is the in-memory IReportRepository
type ReportRepository struct {
	s *Store
}

// Create inserts a report
func (r *ReportRepository) Create(_ context.Context, report *models.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if report.Data == nil {
		report.Data = map[string]any{}
	}
	report.ID = r.s.nextID()
	report.CreatedAt = r.s.now()
	stored := *report
	r.s.reports[report.ID] = &stored
	return nil
}

// List returns reports matching filter, newest first, with the creator's name
func (r *ReportRepository) List(_ context.Context, filter models.ReportFilter, limit int) ([]models.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Report, 0)
	for _, rep := range r.s.reports {
		if filter.Type != "" && rep.Type != filter.Type {
			continue
		}
		if filter.Period != "" && rep.Period != filter.Period {
			continue
		}
		item := *rep
		item.CreatorName = ""
		if u, ok := r.s.users[rep.CreatedBy]; ok {
			item.CreatorName = u.FullName()
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a report
func (r *ReportRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reports[id]; !ok {
		return apperrors.ErrReportNotFound
	}
	delete(r.s.reports, id)
	return nil
}
