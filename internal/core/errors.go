package core

import "errors"

// ExecuteErrorPrefix is the fixed marker prepended to every execution failure
// surfaced by Connection.ExecuteQuery. It is the single place raw client
// errors are translated; transaction boundary failures pass through unwrapped.
const ExecuteErrorPrefix = "failed to execute query"

// Predefined errors returned by sqlbridge driver operations.
var (
	// ErrDriverDestroyed is returned when operating on a driver after Destroy.
	ErrDriverDestroyed = errors.New("driver has been destroyed")
)

// WrapError wraps an error with additional context message.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
