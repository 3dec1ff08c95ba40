// AngelaMos | 2026
// repository.go

package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/eatme/internal/core"
)

type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, id int64) (*Record, error)
	GetForUpdate(ctx context.Context, id int64) (*Record, error)
	List(ctx context.Context, userID int64, filter Filter) ([]Record, error)
	Update(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	InTx(ctx context.Context, fn func(repo Repository) error) error
}

// DB is what the repository needs from *sqlx.DB.
type DB interface {
	core.DBTX
	core.TxBeginner
}

type repository struct {
	db DB
	tx core.DBTX
}

func NewRepository(db DB) Repository {
	return &repository{db: db}
}

var recordColumns = []string{
	"id",
	"user_id",
	"to_char(record_date, 'YYYY-MM-DD') AS record_date",
	"to_char(record_time, 'HH24:MI:SS') AS record_time",
	"calories",
	"description",
	"date_created",
	"date_modified",
}

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *repository) conn() core.DBTX {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InTx runs fn against a repository bound to one transaction.
func (r *repository) InTx(ctx context.Context, fn func(repo Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&repository{db: r.db, tx: tx})
	})
}

func (r *repository) Create(ctx context.Context, record *Record) error {
	query, args, err := psql().
		Insert("records").
		Columns("user_id", "record_date", "record_time", "calories", "description").
		Values(record.UserID, record.RecordDate, record.RecordTime, record.Calories, record.Description).
		Suffix("RETURNING id, date_created, date_modified").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.conn().GetContext(ctx, record, query, args...); err != nil {
		return fmt.Errorf("create record: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Record, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Record, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *repository) get(ctx context.Context, id int64, suffix string) (*Record, error) {
	builder := psql().
		Select(recordColumns...).
		From("records").
		Where(squirrel.Eq{"id": id})
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var record Record
	err = r.conn().GetContext(ctx, &record, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get record: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	return &record, nil
}

func (r *repository) List(
	ctx context.Context,
	userID int64,
	filter Filter,
) ([]Record, error) {
	where := squirrel.And{squirrel.Eq{"user_id": userID}}
	if filter.DateStart != "" {
		where = append(where, squirrel.GtOrEq{"record_date": filter.DateStart})
	}
	if filter.DateEnd != "" {
		where = append(where, squirrel.LtOrEq{"record_date": filter.DateEnd})
	}
	if filter.TimeStart != "" {
		where = append(where, squirrel.GtOrEq{"record_time": filter.TimeStart})
	}
	if filter.TimeEnd != "" {
		where = append(where, squirrel.LtOrEq{"record_time": filter.TimeEnd})
	}

	query, args, err := psql().
		Select(recordColumns...).
		From("records").
		Where(where).
		OrderBy("records.record_date DESC", "records.record_time DESC", "records.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var records []Record
	if err := r.conn().SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Update writes every mutable column of record and refreshes its
// modification time.
func (r *repository) Update(ctx context.Context, record *Record) error {
	query, args, err := psql().
		Update("records").
		SetMap(map[string]any{
			"record_date":   record.RecordDate,
			"record_time":   record.RecordTime,
			"calories":      record.Calories,
			"description":   record.Description,
			"date_modified": squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": record.ID}).
		Suffix("RETURNING date_modified").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	err = r.conn().GetContext(ctx, &record.DateModified, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update record: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql().
		Delete("records").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.conn().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete record: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn().GetContext(ctx, &n, `SELECT COUNT(*) FROM records`); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}
