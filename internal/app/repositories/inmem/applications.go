package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

// ApplicationRepository is the in-memory IApplicationRepository
type ApplicationRepository struct {
	s *Store
}

func cloneApplication(a *models.Application) models.Application {
	out := *a
	out.PreviousSchools = append([]models.PreviousSchool{}, a.PreviousSchools...)
	out.Documents = append([]models.Document{}, a.Documents...)
	return out
}

// Create inserts an application
func (r *ApplicationRepository) Create(_ context.Context, app *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	app.ID = r.s.nextID()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.PreviousSchools == nil {
		app.PreviousSchools = []models.PreviousSchool{}
	}
	if app.Documents == nil {
		app.Documents = []models.Document{}
	}
	stored := cloneApplication(app)
	r.s.applications[app.ID] = &stored
	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(_ context.Context, id int64) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	out := cloneApplication(a)
	return &out, nil
}

// List returns applications matching filter, newest first
func (r *ApplicationRepository) List(_ context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Application, 0)
	for _, a := range r.s.applications {
		if filter.Email != "" && a.Email != filter.Email {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		out = append(out, cloneApplication(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// UpdateStatus moves an application to status
func (r *ApplicationRepository) UpdateStatus(_ context.Context, id int64, status models.ApplicationStatus, submittedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.applications[id]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	a.Status = status
	if submittedAt != nil {
		a.SubmittedAt = submittedAt
	}
	a.UpdatedAt = r.s.now()
	return nil
}

// UpdateDocuments replaces the document list of an application
func (r *ApplicationRepository) UpdateDocuments(_ context.Context, id int64, documents []models.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.applications[id]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	a.Documents = append([]models.Document{}, documents...)
	a.UpdatedAt = r.s.now()
	return nil
}

// CountByStatus returns the number of applications per status
func (r *ApplicationRepository) CountByStatus(_ context.Context) (map[models.ApplicationStatus]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := map[models.ApplicationStatus]int64{
		models.ApplicationDraft:       0,
		models.ApplicationSubmitted:   0,
		models.ApplicationUnderReview: 0,
		models.ApplicationAccepted:    0,
		models.ApplicationRejected:    0,
		models.ApplicationWaitlisted:  0,
	}
	for _, a := range r.s.applications {
		counts[a.Status]++
	}
	return counts, nil
}
