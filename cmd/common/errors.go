package common

import "errors"

var (
	// ErrLoggerRequired is returned when CommandDeps.Logger is nil
	ErrLoggerRequired = errors.New("logger is required")

	// ErrConfigRequired is returned when CommandDeps.Config is nil
	ErrConfigRequired = errors.New("config is required")

	// ErrFatal matches any error that ended a command run.
	ErrFatal = errors.New("fatal error")
)

// FatalError marks a failure that ends the command. Its message is the
// message of the wrapped error.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the wrapped error.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// Is reports ErrFatal as a match.
func (e *FatalError) Is(target error) bool {
	return target == ErrFatal
}

// Fatal wraps err in a *FatalError. A nil err stays nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}
