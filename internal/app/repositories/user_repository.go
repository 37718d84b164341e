package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/db"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/dberrors"
)

const (
	usersEmailKey  = "users_email_key"
	usersRoleIDKey = "users_role_id_key"
)

var userColumns = []string{
	"id", "email", "password", "first_name", "last_name", "role", "role_id",
	"is_active", "last_login_at", "created_at", "updated_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	pg *db.PostgresDB
	db querier
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pg *db.PostgresDB) *UserRepository {
	return &UserRepository{pg: pg, db: pg.Pool}
}

// WithTx returns a repository whose statements run inside tx. Delete opens
// its own transaction and is not available on the returned repository.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Role, &u.RoleID,
		&u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// mapUserWriteError translates unique violations on the users table
func mapUserWriteError(err error) error {
	if constraint, ok := dberrors.IsUniqueViolation(err); ok {
		switch constraint {
		case usersEmailKey:
			return apperrors.ErrEmailAlreadyExists
		case usersRoleIDKey:
			return apperrors.ErrRoleIDTaken
		}
	}
	return err
}

// Create inserts a user and fills in its generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, role, role_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		user.Email, user.Password, user.FirstName, user.LastName, user.Role, user.RoleID, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if mapped := mapUserWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email. Emails are stored lowercased.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(sq.Eq{"email": email}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

func applyUserFilter(b sq.SelectBuilder, filter models.UserFilter) sq.SelectBuilder {
	if filter.Role != "" {
		b = b.Where(sq.Eq{"role": filter.Role})
	}
	if filter.IsActive != nil {
		b = b.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(sq.Or{
			sq.Expr("email ILIKE ?", pattern),
			sq.Expr("first_name ILIKE ?", pattern),
			sq.Expr("last_name ILIKE ?", pattern),
			sq.Expr("role_id ILIKE ?", pattern),
		})
	}
	return b
}

// List returns a page of users matching filter, newest first, and the total match count
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter, limit int, offset uint64) ([]models.User, int64, error) {
	countQuery, countArgs, err := applyUserFilter(psql.Select("COUNT(*)").From("users"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	b := applyUserFilter(psql.Select(userColumns...).From("users"), filter).OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit)).Offset(offset)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}
	return users, total, nil
}

// Update saves the editable fields of user, including its role ID
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET email = $1, password = $2, first_name = $3, last_name = $4, role = $5, role_id = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`,
		user.Email, user.Password, user.FirstName, user.LastName, user.Role, user.RoleID, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrUserNotFound
		}
		if mapped := mapUserWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// SetActive activates or deactivates an account
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error updating user status: %w", err)
	}
	return rowsAffectedOr(tag, apperrors.ErrUserNotFound)
}

// Delete removes a user. Enrollments, submissions, own grades and announcements
// cascade; grades they gave and reports they created are kept without an owner.
// Instructors of existing courses cannot be deleted.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var teaching int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE instructor_id = $1`, id).Scan(&teaching); err != nil {
			return fmt.Errorf("error counting taught courses: %w", err)
		}
		if teaching > 0 {
			return apperrors.ErrUserTeachesCourses
		}

		if _, err := tx.Exec(ctx, `UPDATE grades SET graded_by = NULL WHERE graded_by = $1`, id); err != nil {
			return fmt.Errorf("error detaching grades: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE reports SET created_by = NULL WHERE created_by = $1`, id); err != nil {
			return fmt.Errorf("error detaching reports: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return rowsAffectedOr(tag, apperrors.ErrUserNotFound)
	})
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}
	return nil
}

// CountByRoleIDPrefix counts role IDs starting with prefix
func (r *UserRepository) CountByRoleIDPrefix(ctx context.Context, prefix string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id LIKE $1 || '%'`, prefix).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting role ids: %w", err)
	}
	return n, nil
}

// CountByRole returns the number of users per role. Every role is present.
func (r *UserRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("error counting users by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Role]int64, len(models.Roles))
	for _, role := range models.Roles {
		counts[role] = 0
	}
	for rows.Next() {
		var role models.Role
		var n int64
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("error scanning role count: %w", err)
		}
		counts[role] = n
	}
	return counts, rows.Err()
}

// CountActive returns the number of active and inactive accounts
func (r *UserRepository) CountActive(ctx context.Context) (active, inactive int64, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE is_active), COUNT(*) FILTER (WHERE NOT is_active)
		FROM users`).Scan(&active, &inactive)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting active users: %w", err)
	}
	return active, inactive, nil
}
