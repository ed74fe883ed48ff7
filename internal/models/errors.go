package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrDataStoreUnavailable = errors.New("data store unavailable")
	ErrStrategyFailed       = errors.New("strategy failed")
	ErrUnknownStrategy      = errors.New("unknown strategy")
	ErrInvalidOdds          = errors.New("invalid american odds")
)

// InvalidInputError reports a caller error on a single field
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInvalidInput creates an InvalidInputError
func NewInvalidInput(field, format string, args ...interface{}) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DataStoreError wraps a failure of the statistical store
type DataStoreError struct {
	Op    string
	Cause error
}

func (e *DataStoreError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("data store unavailable during %s", e.Op)
	}
	return fmt.Sprintf("data store unavailable during %s: %v", e.Op, e.Cause)
}

// Is matches ErrDataStoreUnavailable
func (e *DataStoreError) Is(target error) bool {
	return target == ErrDataStoreUnavailable
}

func (e *DataStoreError) Unwrap() error {
	return e.Cause
}

// NewDataStoreError wraps cause as a DataStoreError. A nil cause returns nil.
func NewDataStoreError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var existing *DataStoreError
	if errors.As(cause, &existing) {
		return cause
	}
	return &DataStoreError{Op: op, Cause: cause}
}

// StrategyError records an isolated strategy failure
type StrategyError struct {
	StrategyID string
	Cause      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s failed: %v", e.StrategyID, e.Cause)
}

// Is matches ErrStrategyFailed
func (e *StrategyError) Is(target error) bool {
	return target == ErrStrategyFailed
}

func (e *StrategyError) Unwrap() error {
	return e.Cause
}
