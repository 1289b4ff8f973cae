package errors

import (
	"errors"
	"fmt"
)

// define error types for the command line layer,
// the datetime package itself has no failure modes
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConfig       = errors.New("config error")

	ErrUnknownOutput = fmt.Errorf("%w: %v", ErrInvalidInput, "unknown output")
	ErrBadCount      = fmt.Errorf("%w: %v", ErrInvalidInput, "bad microsecond count")
)

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool { return errors.Is(err, target) }

// Join wraps errors.Join
func Join(errs ...error) error { return errors.Join(errs...) }
