package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the four error kinds surfaced by the persistence layer.
// Concrete errors wrap one of these so callers can branch with errors.Is
// without losing per-error context.
var (
	ErrValidationFailed    = errors.New("validation failed")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrStorage             = errors.New("storage error")
)

// Resource errors
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// Uniqueness errors
var (
	ErrDepartmentNameTaken    = errors.New("department with this name already exists")
	ErrCourseAlreadyExists    = errors.New("course with this number already exists")
	ErrStudentAlreadyEnrolled = errors.New("student is already enrolled in this course")
)

// IsNotFound reports whether err is any of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrInstructorNotFound) ||
		errors.Is(err, ErrDepartmentNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound)
}

// FieldError describes a single field-level constraint violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the per-field error list produced by entity
// validation. It never reaches the storage layer and is always recoverable.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap makes errors.Is(err, ErrValidationFailed) work.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a ValidationError from field errors.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ConflictError is returned when an optimistic-concurrency check fails. It
// carries both the values the caller attempted to write and the values
// currently in the store, so the caller can decide to discard or overwrite.
type ConflictError struct {
	Entity    string
	Attempted interface{}
	Current   interface{}
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s was modified by another caller", e.Entity)
}

// Unwrap makes errors.Is(err, ErrConcurrencyConflict) work.
func (e *ConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// NewConflictError creates a ConflictError with both value sets.
func NewConflictError(entity string, attempted, current interface{}) *ConflictError {
	return &ConflictError{Entity: entity, Attempted: attempted, Current: current}
}

// StorageError wraps an underlying storage-layer fault. It is fatal for the
// operation that produced it; the caller must re-issue the whole operation.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

// Unwrap makes errors.Is(err, ErrStorage) work.
func (e *StorageError) Unwrap() error {
	return ErrStorage
}

// Cause returns the underlying fault.
func (e *StorageError) Cause() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for the named operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
