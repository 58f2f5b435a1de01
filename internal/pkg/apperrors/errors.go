package apperrors

import (
	"errors"
	"fmt"
)

// NotFoundError signals that the addressed record does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// NewNotFound creates a NotFoundError for the given entity and id.
func NewNotFound(entity string, id uint) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError signals a missing or malformed request field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError signals a status change the workflow's
// transition table does not permit.
type InvalidTransitionError struct {
	Entity string
	From   string
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: action %q not allowed from status %q", e.Entity, e.Action, e.From)
}

// StorageError wraps a persistence-layer failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// ChainError wraps a chain-gateway failure. Chain errors are logged
// and never surfaced to API callers; the local record stays
// authoritative.
type ChainError struct {
	Op  string
	Err error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("chain: %s: %v", e.Op, e.Err)
}

func (e *ChainError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var it *InvalidTransitionError
	return errors.As(err, &it)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
