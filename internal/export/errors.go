package export

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGeometry means a feature carries no coordinate data.
	ErrEmptyGeometry = errors.New("feature has no coordinate data")

	// ErrMalformedCoordinates means coordinates were present but none formed a usable ring.
	ErrMalformedCoordinates = errors.New("malformed coordinates")

	// ErrUnsupportedGeometry means the geometry type has no encoding.
	ErrUnsupportedGeometry = errors.New("unsupported geometry type")
)

// EncodingError represents a failure to build an export document.
type EncodingError struct {
	Format  Format // Export format being built
	Feature string // Logical feature name
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error [format=%s, feature=%s]: %v", e.Format, e.Feature, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// NewEncodingError creates a new EncodingError.
func NewEncodingError(format Format, feature string, cause error) *EncodingError {
	return &EncodingError{
		Format:  format,
		Feature: feature,
		Cause:   cause,
	}
}

// IOError represents a directory creation or file write failure.
type IOError struct {
	Op    string // Operation ("mkdir", "write", "rename", ...)
	Path  string // Target path
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("io error [op=%s, path=%s]: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// NewIOError creates a new IOError.
func NewIOError(op, path string, cause error) *IOError {
	return &IOError{
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}

// emptyOrMalformed picks the error for a feature that produced no rings.
func emptyOrMalformed(format Format, name string, skipped int) error {
	if skipped > 0 {
		return NewEncodingError(format, name, ErrMalformedCoordinates)
	}

	return fmt.Errorf("%s export of %s: %w", format, name, ErrEmptyGeometry)
}
