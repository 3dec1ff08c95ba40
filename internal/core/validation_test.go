// AngelaMos | 2026
// validation_test.go

package core

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Calories    *int    `json:"calories"    validate:"required,min=0"`
	Description *string `json:"description" validate:"omitempty,max=5"`
	Role        string  `json:"role"        validate:"omitempty,oneof=admin editor"`
}

func decode(t *testing.T, body string) (*sampleRequest, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dst sampleRequest
	err := DecodeAndValidate(req, NewValidator(), &dst)
	return &dst, err
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFields []FieldViolation
	}{
		{
			name: "valid zero calories",
			body: `{"calories": 0}`,
		},
		{
			name:       "missing required field",
			body:       `{"description": "abc"}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []FieldViolation{{Field: "calories", Rule: "required"}},
		},
		{
			name:       "negative calories",
			body:       `{"calories": -1}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []FieldViolation{{Field: "calories", Rule: "min", Param: "0"}},
		},
		{
			name:       "wrong primitive type",
			body:       `{"calories": "many"}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []FieldViolation{{Field: "calories", Rule: "type", Param: "integer"}},
		},
		{
			name:       "string too long",
			body:       `{"calories": 1, "description": "toolong"}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []FieldViolation{{Field: "description", Rule: "max", Param: "5"}},
		},
		{
			name:       "enum violation",
			body:       `{"calories": 1, "role": "root"}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []FieldViolation{{Field: "role", Rule: "oneof", Param: "admin editor"}},
		},
		{
			name:       "malformed json",
			body:       `{"calories":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.body)
			if tt.wantStatus == 0 {
				require.NoError(t, err)
				return
			}

			var appErr *AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantStatus, appErr.StatusCode)
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, appErr.Fields)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2016-04-19", want: "2016-04-19"},
		{in: "2016-02-29", want: "2016-02-29"},
		{in: "2015-02-29", wantErr: true},
		{in: "2016-4-19", wantErr: true},
		{in: "19/04/2016", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12:30", want: "12:30:00"},
		{in: "21:30:21", want: "21:30:21"},
		{in: "00:00", want: "00:00:00"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
		{in: "12:30:00.987", wantErr: true},
		{in: "12:30:00,5", wantErr: true},
		{in: " 12:30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, in := range []string{"0", "-1", "abc", "99999999999999999999", ""} {
		_, err := ParseID(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}
