package inmem

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

// UserRepository is the in-memory IUserRepository
type UserRepository struct {
	s *Store

	// CreateHook, when set, runs before every insert and may fail it.
	CreateHook func(user *models.User) error
}

// Create inserts a user enforcing unique email and role ID
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.CreateHook != nil {
		if err := r.CreateHook(user); err != nil {
			return err
		}
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if u.RoleID == user.RoleID {
			return apperrors.ErrRoleIDTaken
		}
	}

	now := r.s.now()
	user.ID = r.s.nextID()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func matchesUser(u *models.User, filter models.UserFilter) bool {
	if filter.Role != "" && u.Role != filter.Role {
		return false
	}
	if filter.IsActive != nil && u.IsActive != *filter.IsActive {
		return false
	}
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		fields := []string{u.Email, u.FirstName, u.LastName, u.RoleID}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	}
	return true
}

// List returns a page of matching users, newest first
func (r *UserRepository) List(_ context.Context, filter models.UserFilter, limit int, offset uint64) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]models.User, 0)
	for _, u := range r.s.users {
		if matchesUser(u, filter) {
			matched = append(matched, *u)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if limit <= 0 {
		return matched, total, nil
	}
	start := int(offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Update saves the editable fields of user, including its role ID
func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	for id, u := range r.s.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if u.RoleID == user.RoleID {
			return apperrors.ErrRoleIDTaken
		}
	}
	stored.Email = user.Email
	stored.RoleID = user.RoleID
	stored.Password = user.Password
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Role = user.Role
	stored.UpdatedAt = r.s.now()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

// SetActive activates or deactivates an account
func (r *UserRepository) SetActive(_ context.Context, id int64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.IsActive = active
	u.UpdatedAt = r.s.now()
	return nil
}

// Delete removes a user and cascades like the SQL schema
func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	for _, c := range r.s.courses {
		if c.InstructorID == id {
			return apperrors.ErrUserTeachesCourses
		}
	}

	for k := range r.s.enrollments {
		if k.studentID == id {
			delete(r.s.enrollments, k)
		}
	}
	for k := range r.s.submissions {
		if k.studentID == id {
			delete(r.s.submissions, k)
		}
	}
	for k, g := range r.s.grades {
		if k.studentID == id {
			delete(r.s.grades, k)
		} else if g.GradedBy == id {
			g.GradedBy = 0
		}
	}
	for aid, a := range r.s.announcements {
		if a.AuthorID == id {
			delete(r.s.announcements, aid)
		}
	}
	for _, rep := range r.s.reports {
		if rep.CreatedBy == id {
			rep.CreatedBy = 0
		}
	}
	delete(r.s.users, id)
	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

// CountByRoleIDPrefix counts role IDs starting with prefix
func (r *UserRepository) CountByRoleIDPrefix(_ context.Context, prefix string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, u := range r.s.users {
		if strings.HasPrefix(u.RoleID, prefix) {
			n++
		}
	}
	return n, nil
}

// CountByRole returns the number of users per role
func (r *UserRepository) CountByRole(_ context.Context) (map[models.Role]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[models.Role]int64, len(models.Roles))
	for _, role := range models.Roles {
		counts[role] = 0
	}
	for _, u := range r.s.users {
		counts[u.Role]++
	}
	return counts, nil
}

// CountActive returns the number of active and inactive accounts
func (r *UserRepository) CountActive(_ context.Context) (active, inactive int64, err error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.IsActive {
			active++
		} else {
			inactive++
		}
	}
	return active, inactive, nil
}
