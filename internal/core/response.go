// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type Meta struct {
	Code int `json:"code"`
}

type Envelope struct {
	Meta     Meta `json:"meta"`
	Response any  `json:"response"`
}

type ErrorBody struct {
	Message string           `json:"message"`
	Code    string           `json:"code,omitempty"`
	Fields  []FieldViolation `json:"fields,omitempty"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

func JSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(Envelope{
		Meta:     Meta{Code: status},
		Response: response,
	})
}

func OK(w http.ResponseWriter, response any) {
	JSON(w, http.StatusOK, response)
}

// JSONError renders err in the error envelope. Errors that are not an
// *AppError are treated as internal failures and logged.
func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError(err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}

	JSON(w, appErr.StatusCode, errorResponse{
		Error: ErrorBody{
			Message: appErr.Message,
			Code:    appErr.Code,
			Fields:  appErr.Fields,
		},
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, BadRequestError(message))
}

func NotFound(w http.ResponseWriter, message string) {
	JSONError(w, NotFoundError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func InternalServerError(w http.ResponseWriter, err error) {
	JSONError(w, InternalError(err))
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	JSONError(w, MethodNotAllowedError())
}

func RouteNotFound(w http.ResponseWriter, _ *http.Request) {
	JSONError(w, RouteNotFoundError())
}
