package domain

import "errors"

var (
	// ErrLockTimeout is returned when the submission lock cannot be
	// acquired within its bounded wait.
	ErrLockTimeout = errors.New("timed out waiting for submission lock")
	// ErrNoQuestions indicates the question dataset has no data rows.
	ErrNoQuestions = errors.New("no questions found in the database")
	// ErrStoreNotConfigured indicates a required backing store is missing.
	ErrStoreNotConfigured = errors.New("store not configured")
)

// ErrorKind tags a failure with its place in the error taxonomy so callers
// can map it to a structured outcome without string matching.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindValidation    ErrorKind = "validation"
	KindDuplicate     ErrorKind = "duplicate"
	KindLockTimeout   ErrorKind = "lock_timeout"
	KindPersistence   ErrorKind = "persistence"
	KindNotification  ErrorKind = "notification"
)

// Error couples a taxonomy kind with a user-presentable message and an
// optional underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a tagged error.
func E(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the taxonomy kind from err, or "" if err is untagged.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
