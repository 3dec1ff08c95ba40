// AngelaMos | 2026
// repository_test.go

package record

import (
	"context"
	"database/sql/driver"
	"errors"
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

var columns = []string{
	"id", "user_id", "record_date", "record_time",
	"calories", "description", "date_created", "date_modified",
}

func TestRepository_ListFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		where  string
		args   []driver.Value
	}{
		{
			name:  "no filter",
			where: `WHERE \(user_id = \$1\) ORDER BY`,
			args:  []driver.Value{int64(1)},
		},
		{
			name:   "date range",
			filter: Filter{DateStart: "2016-04-11", DateEnd: "2016-04-12"},
			where:  `WHERE \(user_id = \$1 AND record_date >= \$2 AND record_date <= \$3\) ORDER BY`,
			args:   []driver.Value{int64(1), "2016-04-11", "2016-04-12"},
		},
		{
			name:   "time window",
			filter: Filter{TimeStart: "12:00:00", TimeEnd: "13:00:00"},
			where:  `WHERE \(user_id = \$1 AND record_time >= \$2 AND record_time <= \$3\) ORDER BY`,
			args:   []driver.Value{int64(1), "12:00:00", "13:00:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			now := time.Now()

			mock.ExpectQuery(tt.where+` records.record_date DESC, records.record_time DESC`).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows(columns).
					AddRow(1, 1, "2016-04-12", "12:30:00", 120, "Sandwich", now, now))

			records, err := repo.List(context.Background(), 1, tt.filter)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "2016-04-12", records[0].RecordDate)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO records .* RETURNING id, date_created, date_modified`).
		WithArgs(int64(2), "2016-04-12", "12:30:00", 120, "Sandwich").
		WillReturnRows(sqlmock.NewRows([]string{"id", "date_created", "date_modified"}).
			AddRow(17, now, now))

	r := &Record{UserID: 2, RecordDate: "2016-04-12", RecordTime: "12:30:00", Calories: 120, Description: "Sandwich"}
	require.NoError(t, repo.Create(context.Background(), r))
	assert.Equal(t, int64(17), r.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateInTx(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM records WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(17)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(17, 2, "2016-04-12", "12:30:00", 120, "Sandwich", now, now))
	mock.ExpectQuery(`UPDATE records SET calories = \$1, date_modified = NOW\(\), description = \$2, record_date = \$3, record_time = \$4 WHERE id = \$5 RETURNING date_modified`).
		WithArgs(150, "Sandwich", "2016-04-12", "12:30:00", int64(17)).
		WillReturnRows(sqlmock.NewRows([]string{"date_modified"}).AddRow(now))
	mock.ExpectCommit()

	err := repo.InTx(context.Background(), func(tx Repository) error {
		r, err := tx.GetForUpdate(context.Background(), 17)
		if err != nil {
			return err
		}
		r.Calories = 150
		return tx.Update(context.Background(), r)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InTxRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(tx Repository) error {
		if _, err := tx.GetForUpdate(context.Background(), 5); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM records WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
