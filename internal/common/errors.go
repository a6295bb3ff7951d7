package common

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a persistence failure caused by a missing row.
var ErrNotFound = errors.New("not found")

// ErrModelUnavailable marks a failed call to the external model outside
// receipt extraction.
var ErrModelUnavailable = errors.New("model unavailable")

// ErrRateLimited is returned when a caller exceeds the receipt scan quota.
var ErrRateLimited = errors.New("rate limit exceeded")

// ValidationError reports caller input that violates a precondition.
// The operation is not attempted.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// PersistenceError reports that the store was unreachable or rejected a write.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ExtractionKind distinguishes the two receipt extraction failures.
type ExtractionKind int

const (
	// ExtractionUpstream: the model call itself failed (network, auth, quota).
	ExtractionUpstream ExtractionKind = iota + 1
	// ExtractionNoItems: the model answered but no valid food rows were found.
	ExtractionNoItems
)

// ExtractionError reports a failed receipt extraction.
type ExtractionError struct {
	Kind ExtractionKind
	Err  error
}

func NewExtractionError(kind ExtractionKind, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Err: err}
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return e.UserMessage()
	}
	return fmt.Sprintf("extraction: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the end user for this failure.
func (e *ExtractionError) UserMessage() string {
	if e.Kind == ExtractionNoItems {
		return "No food items found in the receipt. Try a clearer photo."
	}
	return "Could not read the receipt right now. Please try again."
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
