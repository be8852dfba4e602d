package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is the sentinel wrapped by every error raised for a value
// outside a recognised enumeration.
var ErrInvalidArgument = errors.New("invalid argument")

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsConfigurationError reports whether err stems from loading or validating
// configuration.
func IsConfigurationError(err error) bool {
	var parseErr *ParseError
	var validationErr *ValidationError
	return errors.As(err, &parseErr) || errors.As(err, &validationErr)
}

// InvalidStageError is returned when a stage label is not one of the
// recognised deployment stages.
type InvalidStageError struct {
	Stage   string
	Allowed []string
}

// NewInvalidStageError constructs an InvalidStageError.
func NewInvalidStageError(stage string, allowed []string) error {
	return &InvalidStageError{Stage: stage, Allowed: allowed}
}

func (e *InvalidStageError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid stage %q", e.Stage)
	}
	return fmt.Sprintf("invalid stage %q (expected one of: %s)", e.Stage, strings.Join(e.Allowed, ", "))
}

// Unwrap returns ErrInvalidArgument.
func (e *InvalidStageError) Unwrap() error {
	return ErrInvalidArgument
}

// InvalidStrategyKindError is returned when a version match rule is unknown.
type InvalidStrategyKindError struct {
	Kind    string
	Allowed []string
}

// NewInvalidStrategyKindError constructs an InvalidStrategyKindError.
func NewInvalidStrategyKindError(kind string, allowed []string) error {
	return &InvalidStrategyKindError{Kind: kind, Allowed: allowed}
}

func (e *InvalidStrategyKindError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid strategy kind %q", e.Kind)
	}
	return fmt.Sprintf("invalid strategy kind %q (expected one of: %s)", e.Kind, strings.Join(e.Allowed, ", "))
}

// Unwrap returns ErrInvalidArgument.
func (e *InvalidStrategyKindError) Unwrap() error {
	return ErrInvalidArgument
}
