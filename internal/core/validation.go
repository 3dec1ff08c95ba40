// AngelaMos | 2026
// validation.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	maxBodyBytes = 1 << 20
)

// NewValidator returns a validator that reports fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// DecodeAndValidate reads a single JSON document from the request body into
// dst and runs the struct rules. The returned error is always an *AppError.
func DecodeAndValidate(r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return ValidationError([]FieldViolation{{
				Field: typeErr.Field,
				Rule:  "type",
				Param: jsonTypeName(typeErr.Type),
			}})
		}
		return BadRequestError("invalid request body")
	}

	if dec.More() {
		return BadRequestError("invalid request body")
	}

	if err := v.Struct(dst); err != nil {
		return ValidationError(FormatValidationError(err))
	}

	return nil
}

func FormatValidationError(err error) []FieldViolation {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldViolation{{Field: "", Rule: err.Error()}}
	}

	fields := make([]FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldViolation{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return fields
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// ParseDate accepts only YYYY-MM-DD and returns the canonical form.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, ErrInvalidDate)
	}
	return t.Format(DateLayout), nil
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
// Fractional seconds are rejected rather than truncated.
func ParseTimeOfDay(s string) (string, error) {
	if strings.IndexFunc(s, notClockRune) >= 0 {
		return "", fmt.Errorf("parse time %q: %w", s, ErrInvalidTime)
	}

	value := s
	if len(value) <= len("15:04") {
		value += ":00"
	}

	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return "", fmt.Errorf("parse time %q: %w", s, ErrInvalidTime)
	}
	return t.Format(TimeLayout), nil
}

func notClockRune(r rune) bool {
	return r != ':' && (r < '0' || r > '9')
}

// ParseID parses a positive integer path parameter.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("parse id %q: %w", s, ErrInvalidInput)
	}
	return id, nil
}
