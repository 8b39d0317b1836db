package annotations

import (
	"fmt"
	"strings"
)

// AnnotationError defines the interface for annotation-related errors
type AnnotationError interface {
	error
	Location() SourceLocation
	Suggestion() string
	Code() ErrorCode
}

// ErrorCode represents different types of annotation errors
type ErrorCode int

const (
	SyntaxErrorCode ErrorCode = iota
	ValidationErrorCode
	SchemaErrorCode
	RegistrationErrorCode
	LookupErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case SyntaxErrorCode:
		return "SyntaxError"
	case ValidationErrorCode:
		return "ValidationError"
	case SchemaErrorCode:
		return "SchemaError"
	case RegistrationErrorCode:
		return "RegistrationError"
	case LookupErrorCode:
		return "LookupError"
	default:
		return "UnknownError"
	}
}

// formatMessage prefixes msg with the location when one is known and appends the hint
func formatMessage(loc SourceLocation, kind, msg, hint string) string {
	var b strings.Builder
	if !loc.IsZero() {
		b.WriteString(loc.String())
		b.WriteString(": ")
	}
	b.WriteString(kind)
	b.WriteString(": ")
	b.WriteString(msg)
	if hint != "" {
		b.WriteString(". ")
		b.WriteString(hint)
	}
	return b.String()
}

// ValidationError represents a parameter validation error
type ValidationError struct {
	Parameter string         // Parameter name that failed validation
	Expected  string         // What was expected
	Actual    string         // What was provided
	Loc       SourceLocation // Where the error occurred
	Hint      string         // Suggested fix
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("parameter '%s' validation failed: expected %s, got %s", e.Parameter, e.Expected, e.Actual)
	return formatMessage(e.Loc, "validation error", msg, e.Hint)
}

func (e *ValidationError) Location() SourceLocation { return e.Loc }
func (e *ValidationError) Suggestion() string       { return e.Hint }
func (e *ValidationError) Code() ErrorCode          { return ValidationErrorCode }

// SyntaxError represents a syntax parsing error
type SyntaxError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SyntaxError) Error() string {
	return formatMessage(e.Loc, "syntax error", e.Msg, e.Hint)
}

func (e *SyntaxError) Location() SourceLocation { return e.Loc }
func (e *SyntaxError) Suggestion() string       { return e.Hint }
func (e *SyntaxError) Code() ErrorCode          { return SyntaxErrorCode }

// SchemaError represents a schema-related error
type SchemaError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SchemaError) Error() string {
	return formatMessage(e.Loc, "schema error", e.Msg, e.Hint)
}

func (e *SchemaError) Location() SourceLocation { return e.Loc }
func (e *SchemaError) Suggestion() string       { return e.Hint }
func (e *SchemaError) Code() ErrorCode          { return SchemaErrorCode }

// RegistrationError represents a definition-time misuse: an unknown schema,
// a disallowed target, an undeclared site or a forbidden repeat
type RegistrationError struct {
	Msg  string         // Error message
	Site string         // Declaration the annotation was attached to, if any
	Loc  SourceLocation // Where the error occurred (optional)
	Hint string         // Suggested fix
}

func (e *RegistrationError) Error() string {
	msg := e.Msg
	if e.Site != "" {
		msg = fmt.Sprintf("%s on %s", e.Msg, e.Site)
	}
	return formatMessage(e.Loc, "registration error", msg, e.Hint)
}

func (e *RegistrationError) Location() SourceLocation { return e.Loc }
func (e *RegistrationError) Suggestion() string       { return e.Hint }
func (e *RegistrationError) Code() ErrorCode          { return RegistrationErrorCode }

// LookupError reports that a named declaration does not exist in a registry
type LookupError struct {
	Kind TargetKind // Kind of declaration looked up
	Name string     // Qualified name looked up
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup error: %s %s is not declared", e.Kind, e.Name)
}

func (e *LookupError) Location() SourceLocation { return SourceLocation{} }
func (e *LookupError) Suggestion() string {
	return fmt.Sprintf("Declare %s before querying its annotations", e.Name)
}
func (e *LookupError) Code() ErrorCode { return LookupErrorCode }

// MultipleAnnotationErrors represents multiple annotation errors collected together
type MultipleAnnotationErrors struct {
	Errors []AnnotationError
}

func (e *MultipleAnnotationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("multiple annotation errors (%d total):\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap returns the underlying errors for error inspection
func (e *MultipleAnnotationErrors) Unwrap() []error {
	errors := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errors[i] = err
	}
	return errors
}

// HasType returns true if any error of the specified type exists
func (e *MultipleAnnotationErrors) HasType(code ErrorCode) bool {
	for _, err := range e.Errors {
		if err.Code() == code {
			return true
		}
	}
	return false
}

// Add appends err, flattening nested MultipleAnnotationErrors
func (e *MultipleAnnotationErrors) Add(err AnnotationError) {
	if multi, ok := err.(*MultipleAnnotationErrors); ok {
		e.Errors = append(e.Errors, multi.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultipleAnnotationErrors) ErrorOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Location returns the location of the first collected error
func (e *MultipleAnnotationErrors) Location() SourceLocation {
	if len(e.Errors) == 0 {
		return SourceLocation{}
	}
	return e.Errors[0].Location()
}

// Suggestion returns the suggestion of the first collected error
func (e *MultipleAnnotationErrors) Suggestion() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Suggestion()
}

// Code returns the code of the first collected error
func (e *MultipleAnnotationErrors) Code() ErrorCode {
	if len(e.Errors) == 0 {
		return ValidationErrorCode
	}
	return e.Errors[0].Code()
}
