// Package errors carries the application error taxonomy. Use cases translate
// domain failures into AppError values and the HTTP layer renders Type,
// Message and Details into the response envelope with Code as the status.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation_error"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeForbidden       ErrorType = "forbidden"
	ErrorTypeRateLimited     ErrorType = "rate_limited"
	ErrorTypeUpgradeRequired ErrorType = "upgrade_required"
	ErrorTypeInternal        ErrorType = "internal_error"
)

// statusByType is the single source of HTTP status codes for AppError.
var statusByType = map[ErrorType]int{
	ErrorTypeValidation:      http.StatusBadRequest,
	ErrorTypeNotFound:        http.StatusNotFound,
	ErrorTypeConflict:        http.StatusConflict,
	ErrorTypeUnauthorized:    http.StatusUnauthorized,
	ErrorTypeForbidden:       http.StatusForbidden,
	ErrorTypeRateLimited:     http.StatusTooManyRequests,
	ErrorTypeUpgradeRequired: http.StatusUpgradeRequired,
	ErrorTypeInternal:        http.StatusInternalServerError,
}

type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// New builds an AppError of type t. Only the first detail is kept.
func New(t ErrorType, message string, details ...string) *AppError {
	code, ok := statusByType[t]
	if !ok {
		t, code = ErrorTypeInternal, http.StatusInternalServerError
	}
	e := &AppError{Type: t, Message: message, Code: code}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

func NewValidationError(message string, details ...string) *AppError {
	return New(ErrorTypeValidation, message, details...)
}

func NewNotFoundError(message string, details ...string) *AppError {
	return New(ErrorTypeNotFound, message, details...)
}

func NewConflictError(message string, details ...string) *AppError {
	return New(ErrorTypeConflict, message, details...)
}

func NewUnauthorizedError(message string, details ...string) *AppError {
	return New(ErrorTypeUnauthorized, message, details...)
}

func NewForbiddenError(message string, details ...string) *AppError {
	return New(ErrorTypeForbidden, message, details...)
}

func NewRateLimitedError(message string, details ...string) *AppError {
	return New(ErrorTypeRateLimited, message, details...)
}

// NewUpgradeRequiredError rejects a client build older than the supported minimum.
func NewUpgradeRequiredError(message string, details ...string) *AppError {
	return New(ErrorTypeUpgradeRequired, message, details...)
}

func NewInternalError(message string, details ...string) *AppError {
	return New(ErrorTypeInternal, message, details...)
}

func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

// GetAppError returns the first AppError in err's chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsConflictError(err error) bool   { return isType(err, ErrorTypeConflict) }
func IsNotFoundError(err error) bool   { return isType(err, ErrorTypeNotFound) }
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// duplicateMarkers are the unique-violation messages of the MySQL and SQLite
// drivers. Two punch-ins racing on (employee_id, work_date) surface this way.
var duplicateMarkers = []string{
	"Duplicate entry",
	"duplicate key",
	"UNIQUE constraint failed",
}

func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, m := range duplicateMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
