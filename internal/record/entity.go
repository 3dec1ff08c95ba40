// AngelaMos | 2026
// entity.go

package record

import (
	"time"
)

// Record is one meal entry. RecordDate and RecordTime are kept in their
// canonical text forms, YYYY-MM-DD and HH:MM:SS.
type Record struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	RecordDate   string    `db:"record_date"`
	RecordTime   string    `db:"record_time"`
	Calories     int       `db:"calories"`
	Description  string    `db:"description"`
	DateCreated  time.Time `db:"date_created"`
	DateModified time.Time `db:"date_modified"`
}

// Filter bounds are inclusive; empty means unbounded.
type Filter struct {
	DateStart string
	DateEnd   string
	TimeStart string
	TimeEnd   string
}
