package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrValidation       = errors.New("validation error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInconsistent     = errors.New("data inconsistency")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// NotFoundError reports a failed lookup with enough structure to build a
// diagnostic message: the collection queried and the keys that were tried.
type NotFoundError struct {
	Collection string
	Keys       map[string]string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Collection, formatKeys(e.Keys), ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError creates a NotFoundError for a collection and lookup keys.
func NewNotFoundError(collection string, keys map[string]string) *NotFoundError {
	return &NotFoundError{Collection: collection, Keys: keys}
}

// ConsistencyError reports a dangling graph reference: a live node without an
// orientation entry, or a parent/prerequisite id that resolves outside the
// loaded set. It indicates a prior partial write, never a client mistake.
type ConsistencyError struct {
	Collection string
	Keys       map[string]string
	Detail     string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %s", e.Collection, formatKeys(e.Keys), e.Detail, ErrInconsistent)
}

func (e *ConsistencyError) Unwrap() error { return ErrInconsistent }

// NewConsistencyError creates a ConsistencyError for a collection, keys and detail.
func NewConsistencyError(collection string, keys map[string]string, detail string) *ConsistencyError {
	return &ConsistencyError{Collection: collection, Keys: keys, Detail: detail}
}

func formatKeys(keys map[string]string) string {
	if len(keys) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(keys))
	for k, v := range keys {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}
