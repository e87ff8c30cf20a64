package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// NotFound wraps ErrNotFound with the kind of entity that was missing.
func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// ValidationError reports bad user input. Operations that return it have
// not written anything.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// TransportError reports a mail delivery failure. The send loop stops at the
// first one; Sent counts the recipients processed before it.
type TransportError struct {
	Recipient string
	Sent      int
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send to %s failed after %d deliveries: %v", e.Recipient, e.Sent, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BulkOperationError reports a failed multi-row change that was rolled back.
type BulkOperationError struct {
	Op  string
	Err error
}

func (e *BulkOperationError) Error() string {
	return fmt.Sprintf("%s failed and was rolled back: %v", e.Op, e.Err)
}

func (e *BulkOperationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
