package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	// ErrValidationFailed is matched by every ValidationError via errors.Is.
	ErrValidationFailed = errors.New("validation failed")

	// ErrStorage is matched by every StorageError via errors.Is.
	ErrStorage = errors.New("storage failure")

	// ErrNotFound is never returned for deletes; a missing row is a no-op there.
	ErrNotFound = errors.New("requested resource not found")
)

// Validation messages reported to callers verbatim.
const (
	MsgNameRequired      = "name required"
	MsgPlayersRequired   = "players required"
	MsgPlayersMustDiffer = "players must be different"
	MsgScoresRequired    = "scores required"
	MsgDateRequired      = "date required"
	MsgKeyRequired       = "key required"
	MsgDataRequired      = "data required"
)

// ValidationError reports a payload that violates a required invariant.
// Nothing has been written when it is returned.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// StorageError wraps any failure of the persistence gateway.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
