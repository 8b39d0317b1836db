package utils

import "fmt"

// Common error wrapping patterns, kept in one place for consistent messages

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, err error) error {
	return fmt.Errorf("failed to parse %s: %w", item, err)
}

// WrapLoadError wraps an error with a "failed to load" message
func WrapLoadError(item string, err error) error {
	return fmt.Errorf("failed to load %s: %w", item, err)
}

// WrapDeclareError wraps an error with a "failed to declare" message
func WrapDeclareError(item string, err error) error {
	return fmt.Errorf("failed to declare %s: %w", item, err)
}
