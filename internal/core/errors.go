// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrForbidden      = errors.New("forbidden")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidTime    = errors.New("invalid time")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenRevoked   = errors.New("token revoked")
	ErrNotImplemented = errors.New("not implemented")
)

// FieldViolation describes one failed constraint of a request body.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Fields     []FieldViolation
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// ValidationError carries the violated constraints of a request body.
func ValidationError(fields []FieldViolation) *AppError {
	return &AppError{
		Err:        ErrInvalidInput,
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
		Fields:     fields,
	}
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "BAD_REQUEST")
}

// NotFoundError answers 400: missing users and records are reported as
// bad requests by this API.
func NotFoundError(message string) *AppError {
	return NewAppError(ErrNotFound, message, http.StatusBadRequest, "NOT_FOUND")
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Unauthorized Access"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrDuplicateKey, message, http.StatusConflict, "CONFLICT")
}

func MethodNotAllowedError() *AppError {
	return NewAppError(nil, "Method not allowed", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func RouteNotFoundError() *AppError {
	return NewAppError(nil, "Not found", http.StatusNotFound, "ROUTE_NOT_FOUND")
}

func NotImplementedError(message string) *AppError {
	return NewAppError(ErrNotImplemented, message, http.StatusNotImplemented, "NOT_IMPLEMENTED")
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "token has expired", http.StatusUnauthorized, "TOKEN_EXPIRED")
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "invalid token", http.StatusUnauthorized, "TOKEN_INVALID")
}

func TokenRevokedError() *AppError {
	return NewAppError(ErrTokenRevoked, "token has been revoked", http.StatusUnauthorized, "TOKEN_REVOKED")
}

func InternalError(err error) *AppError {
	return NewAppError(err, "internal server error", http.StatusInternalServerError, "INTERNAL_ERROR")
}
