// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/eatme/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateTarget(ctx context.Context, id int64, target int) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id int64) error
	RecordLogin(ctx context.Context, id int64, ipAddress string) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectUser = `
	SELECT u.id, u.email, u.password_hash, u.active, u.target_daily_calories,
	       u.token_version, u.last_login_at, u.current_login_at,
	       u.last_login_ip, u.current_login_ip, u.login_count,
	       u.date_created, u.date_modified,
	       COALESCE((
	           SELECT string_agg(r.name, ',' ORDER BY r.name)
	           FROM user_roles ur
	           JOIN roles r ON r.id = ur.role_id
	           WHERE ur.user_id = u.id
	       ), '') AS role_names
	FROM users u`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, active, target_daily_calories, token_version,
		          login_count, date_created, date_modified`

	err := r.db.GetContext(ctx, user, query, user.Email, user.PasswordHash)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, selectUser+` WHERE u.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, selectUser+` WHERE u.email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.db.SelectContext(ctx, &users, selectUser+` ORDER BY u.id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (r *repository) UpdateTarget(
	ctx context.Context,
	id int64,
	target int,
) error {
	query := `
		UPDATE users
		SET target_daily_calories = $2, date_modified = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update target", query, id, target)
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, date_modified = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET token_version = token_version + 1, date_modified = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "increment token version", query, id)
}

// RecordLogin shifts the current login into the "last" columns; the right
// hand sides see the pre-update row.
func (r *repository) RecordLogin(
	ctx context.Context,
	id int64,
	ipAddress string,
) error {
	query := `
		UPDATE users
		SET last_login_at = current_login_at,
		    last_login_ip = current_login_ip,
		    current_login_at = NOW(),
		    current_login_ip = $2,
		    login_count = login_count + 1
		WHERE id = $1`

	return r.execOne(ctx, "record login", query, id, ipAddress)
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
