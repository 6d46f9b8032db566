package attendance

import (
	"errors"
	"fmt"
)

// Rejections of the punch state machine. They carry no state change and are
// reported to the user as information, not failures.
var (
	ErrAlreadyPunchedIn  = errors.New("already punched in today")
	ErrAlreadyPunchedOut = errors.New("already punched out today")
	ErrNotPunchedInYet   = errors.New("not punched in yet today")
)

// ErrEmptyName is wrapped by ValidationError when no employee name was given.
var ErrEmptyName = errors.New("employee name is required")

// ValidationError reports bad user input for a single field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsRejection reports whether err is one of the expected state-machine
// rejections rather than a failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrAlreadyPunchedIn) ||
		errors.Is(err, ErrAlreadyPunchedOut) ||
		errors.Is(err, ErrNotPunchedInYet)
}
