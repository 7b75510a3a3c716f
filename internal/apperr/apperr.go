package apperr

import (
	"errors"
	"fmt"
)

// ErrDuplicate is returned by repositories when an insert hits a uniqueness
// constraint. Callers decide whether that is a user error (duplicate vote) or
// a retryable race (concurrent crown creation).
var ErrDuplicate = errors.New("duplicate record")

// ErrConflict is returned when a transaction loses a lock/serialization race
// and should be retried against current row state.
var ErrConflict = errors.New("concurrency conflict")

// ValidationError is a violated precondition: the request was understood but
// refused. Surfaced to clients as 400 with the reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced entity does not exist. Surfaced as 404.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
