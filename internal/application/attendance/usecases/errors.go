package usecases

import (
	"errors"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	apperrors "github.com/Tatu1984/hrms-sub001/internal/shared/errors"
)

// toAppError maps attendance precondition failures to their API errors.
// Anything else becomes an internal error carrying only fallback.
func toAppError(err error, fallback string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, attendance.ErrSessionNotFound):
		return apperrors.NewNotFoundError("punch in first")
	case errors.Is(err, attendance.ErrNotPunchedIn):
		return apperrors.NewConflictError("not punched in")
	case errors.Is(err, attendance.ErrAlreadyPunchedOut):
		return apperrors.NewConflictError("already punched out")
	case errors.Is(err, attendance.ErrAlreadyPunchedIn):
		return apperrors.NewConflictError("already punched in")
	case errors.Is(err, attendance.ErrPunchOutBeforePunchIn):
		return apperrors.NewValidationError("punch-out precedes punch-in")
	}
	return apperrors.NewInternalError(fallback)
}

// isPrecondition reports whether err is an expected caller-side rejection
// rather than a failure worth an error-level log line.
func isPrecondition(err error) bool {
	return errors.Is(err, attendance.ErrSessionNotFound) ||
		errors.Is(err, attendance.ErrNotPunchedIn) ||
		errors.Is(err, attendance.ErrAlreadyPunchedOut) ||
		errors.Is(err, attendance.ErrAlreadyPunchedIn)
}
