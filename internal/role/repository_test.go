// AngelaMos | 2026
// repository_test.go

package role

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/eatme/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func roleRow(id int64, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "description", "date_created", "date_modified"}).
		AddRow(id, name, "", now, now)
}

func TestRepository_Grant(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "grants known role",
			role: "editor",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FROM roles\s+WHERE name = \$1`).
					WithArgs("editor").
					WillReturnRows(roleRow(2, "editor"))
				mock.ExpectExec(`INSERT INTO user_roles .* ON CONFLICT DO NOTHING`).
					WithArgs(int64(5), int64(2)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "already granted is not an error",
			role: "editor",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FROM roles`).
					WithArgs("editor").
					WillReturnRows(roleRow(2, "editor"))
				mock.ExpectExec(`INSERT INTO user_roles`).
					WithArgs(int64(5), int64(2)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
			},
		},
		{
			name: "unknown role",
			role: "chef",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FROM roles`).
					WithArgs("chef").
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectRollback()
			},
			wantErr: core.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setupMock(mock)

			err := repo.Grant(context.Background(), 5, tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Revoke(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM roles`).
		WithArgs("admin").
		WillReturnRows(roleRow(1, "admin"))
	mock.ExpectExec(`DELETE FROM user_roles WHERE user_id = \$1 AND role_id = \$2`).
		WithArgs(int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, repo.Revoke(context.Background(), 3, "admin"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListForUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`ORDER BY r.name`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("admin").AddRow("editor"))

	names, err := repo.ListForUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "editor"}, names)

	mock.ExpectQuery(`ORDER BY r.name`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	names, err = repo.ListForUser(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)

	assert.NoError(t, mock.ExpectationsWereMet())
}
