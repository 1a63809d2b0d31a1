package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound       = errors.New("attendance session not found")
	ErrNotPunchedIn          = errors.New("not punched in")
	ErrAlreadyPunchedIn      = errors.New("already punched in")
	ErrAlreadyPunchedOut     = errors.New("already punched out")
	ErrPunchOutBeforePunchIn = errors.New("punch-out precedes punch-in")
	ErrInvalidSession        = errors.New("invalid attendance session")
	ErrInvalidActivityEntry  = errors.New("invalid activity entry")
)

func ErrInvalidStatus(status string) error {
	return fmt.Errorf("%w: unknown status %q", ErrInvalidSession, status)
}
