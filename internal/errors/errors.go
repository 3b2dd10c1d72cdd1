// Package errors provides custom error types for the import and analytics engine.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrTooFewRows        = errors.New("file needs a header row and at least one data row")
	ErrMissingFields     = errors.New("required fields are not mapped")
	ErrInvalidTrade      = errors.New("invalid trade")
	ErrNotFound          = errors.New("trade not found")
	ErrDatabaseError     = errors.New("database error")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrFileTooLarge      = errors.New("file exceeds the configured size limit")
)

// FormatError reports a file that cannot be decoded at all.
// It is fatal to the whole import attempt.
type FormatError struct {
	File   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format error [%s]: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("format error [%s]: %s", e.File, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a new FormatError.
func NewFormatError(file, reason string, err error) *FormatError {
	return &FormatError{
		File:   file,
		Reason: reason,
		Err:    err,
	}
}

// MissingFieldsError reports required semantic fields that no column maps to.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingFields
}

// NewMissingFieldsError creates a new MissingFieldsError.
func NewMissingFieldsError(fields []string) *MissingFieldsError {
	return &MissingFieldsError{Fields: fields}
}

// RowValidationError reports a data row that breaks a business rule.
// It is recorded in the import outcome, never returned to the caller.
type RowValidationError struct {
	Row     int
	Field   string
	Value   string
	Message string
}

func (e *RowValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s (%q): %s", e.Field, e.Value, e.Message)
}

func (e *RowValidationError) Unwrap() error {
	return ErrInvalidTrade
}

// NewRowValidationError creates a new RowValidationError.
func NewRowValidationError(row int, field, value, message string) *RowValidationError {
	return &RowValidationError{
		Row:     row,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// StoreError represents a rejection from the record store.
type StoreError struct {
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store error [%s]: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %s", e.Operation, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation, message string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ValidationError represents an invalid user-supplied value outside of row import,
// such as a CLI flag or API query parameter.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
