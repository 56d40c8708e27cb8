package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Ingestion errors
	ErrNoActiveSection    ErrorCode = "NO_ACTIVE_SECTION"
	ErrIncompleteQuestion ErrorCode = "INCOMPLETE_QUESTION"
	ErrValidationFailure  ErrorCode = "VALIDATION_FAILURE"
	ErrPersistence        ErrorCode = "PERSISTENCE_ERROR"
	ErrFileUnreadable     ErrorCode = "FILE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewIncompleteQuestionError(ordinal, options int) *DomainError {
	return NewError(ErrIncompleteQuestion, fmt.Sprintf("question %d incomplete: %d options", ordinal, options), nil)
}

func NewPersistenceError(message string, err error) *DomainError {
	return NewError(ErrPersistence, message, err)
}

func NewFileError(path string, err error) *DomainError {
	return NewError(ErrFileUnreadable, fmt.Sprintf("cannot read %s", path), err)
}

// ValidationError names the validator rule a candidate violated.
type ValidationError struct {
	Rule   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Reason)
}

func NewValidationError(rule, reason string) error {
	return &ValidationError{Rule: rule, Reason: reason}
}
