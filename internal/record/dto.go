// AngelaMos | 2026
// dto.go

package record

import (
	"net/url"
	"time"

	"github.com/carterperez-dev/eatme/internal/core"
)

// CreateRecordRequest requires the date and time keys to be present. Their
// format is checked by the service so that empty strings get the same
// answer as malformed ones.
type CreateRecordRequest struct {
	UserID      int64   `json:"userid"      validate:"required,min=1"`
	RecordDate  *string `json:"record_date" validate:"required"`
	RecordTime  *string `json:"record_time" validate:"required"`
	Calories    *int    `json:"calories"    validate:"required,min=0,max=2147483647"`
	Description string  `json:"description" validate:"max=255"`
}

// UpdateRecordRequest only changes the fields present in the body. The
// owner of a record cannot be changed.
type UpdateRecordRequest struct {
	RecordDate  *string `json:"record_date" validate:"omitempty"`
	RecordTime  *string `json:"record_time" validate:"omitempty"`
	Calories    *int    `json:"calories"    validate:"omitempty,min=0,max=2147483647"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

type RecordResponse struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	RecordDate   string    `json:"record_date"`
	RecordTime   string    `json:"record_time"`
	Calories     int       `json:"calories"`
	Description  string    `json:"description"`
	DateCreated  time.Time `json:"date_created"`
	DateModified time.Time `json:"date_modified"`
}

func ToRecordResponse(r *Record) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		RecordDate:   r.RecordDate,
		RecordTime:   r.RecordTime,
		Calories:     r.Calories,
		Description:  r.Description,
		DateCreated:  r.DateCreated,
		DateModified: r.DateModified,
	}
}

func ToRecordResponseList(records []Record) []RecordResponse {
	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToRecordResponse(&records[i]))
	}
	return responses
}

// ParseFilter reads date_start, date_end, time_start and time_end. Any
// malformed bound rejects the whole query.
func ParseFilter(q url.Values) (Filter, error) {
	var (
		f   Filter
		err error
	)

	if v, ok := q["date_start"]; ok {
		if f.DateStart, err = core.ParseDate(v[0]); err != nil {
			return Filter{}, err
		}
	}
	if v, ok := q["date_end"]; ok {
		if f.DateEnd, err = core.ParseDate(v[0]); err != nil {
			return Filter{}, err
		}
	}
	if v, ok := q["time_start"]; ok {
		if f.TimeStart, err = core.ParseTimeOfDay(v[0]); err != nil {
			return Filter{}, err
		}
	}
	if v, ok := q["time_end"]; ok {
		if f.TimeEnd, err = core.ParseTimeOfDay(v[0]); err != nil {
			return Filter{}, err
		}
	}

	return f, nil
}
