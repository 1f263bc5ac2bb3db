package util

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrNotEnrolled        = errors.New("student is not enrolled in this course")
	ErrNotQuizContent     = errors.New("content item is not a quiz")
	ErrQuizContent        = errors.New("quiz content must be submitted for grading")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError is a rejected-at-the-boundary input error; it never
// reaches the storage layer.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a boundary validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InvariantViolation marks a state the caller should have made impossible,
// such as recording a completion for an unenrolled student. The enclosing
// transaction is rolled back.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.Msg }

func NewInvariantViolation(msg string) error { return &InvariantViolation{Msg: msg} }

func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
