// AngelaMos | 2026
// repository.go

package role

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/eatme/internal/core"
)

type Repository interface {
	ListForUser(ctx context.Context, userID int64) ([]string, error)
	Grant(ctx context.Context, userID int64, name string) error
	Revoke(ctx context.Context, userID int64, name string) error
}

// DB is what the repository needs from *sqlx.DB.
type DB interface {
	core.DBTX
	core.TxBeginner
}

type repository struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repository{db: db}
}

func findByName(ctx context.Context, db core.DBTX, name string) (*Role, error) {
	query := `
		SELECT id, name, description, date_created, date_modified
		FROM roles
		WHERE name = $1`

	var role Role
	err := db.GetContext(ctx, &role, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find role %q: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find role %q: %w", name, err)
	}

	return &role, nil
}

func (r *repository) ListForUser(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, userID); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Grant is idempotent. An unknown role name yields core.ErrNotFound.
func (r *repository) Grant(ctx context.Context, userID int64, name string) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		role, err := findByName(ctx, tx, name)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO user_roles (user_id, role_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`

		if _, err := tx.ExecContext(ctx, query, userID, role.ID); err != nil {
			return fmt.Errorf("grant role %q: %w", name, err)
		}
		return nil
	})
}

// Revoke treats removing a role the user does not hold is not an error.
func (r *repository) Revoke(ctx context.Context, userID int64, name string) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		role, err := findByName(ctx, tx, name)
		if err != nil {
			return err
		}

		query := `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`

		if _, err := tx.ExecContext(ctx, query, userID, role.ID); err != nil {
			return fmt.Errorf("revoke role %q: %w", name, err)
		}
		return nil
	})
}
