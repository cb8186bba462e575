package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors surfaced across the service and store layers.
var (
	ErrShiftNotFound       = errors.New("shift not found")
	ErrMaintenanceNotFound = errors.New("maintenance item not found")
	ErrActiveShiftExists   = errors.New("active shift already exists")
)

// ValidationError rejects a request before any write, carrying
// per-field messages for the caller.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidation builds a single-field validation error.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AsValidation extracts a ValidationError from an error chain.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
