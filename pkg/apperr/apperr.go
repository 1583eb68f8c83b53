package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Match with errors.Is.
var (
	ErrValidation           = errors.New("validation error")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionNotConfigured = errors.New("session not configured")
	ErrBackendUnavailable   = errors.New("backend unavailable")
	ErrModelCallFailed      = errors.New("model call failed")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrIllegalTransition    = errors.New("illegal task transition")

	// ErrModelCallTimeout is carried as the cause of a ErrModelCallFailed
	// error when the call deadline expired.
	ErrModelCallTimeout = errors.New("model call timed out")
)

// Error pairs a sentinel kind with a human readable message.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the sentinel kind carried by err, or nil when err is not
// part of the taxonomy.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrValidation,
		ErrSessionNotFound,
		ErrSessionNotConfigured,
		ErrBackendUnavailable,
		ErrModelCallFailed,
		ErrProfileNotFound,
		ErrTaskNotFound,
		ErrIllegalTransition,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Message returns the human readable part of err without the kind prefix.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
