package config

import "github.com/toyz/attrs/internal/annotations"

// Config holds what the authors report looks up
type Config struct {
	// TypeName is the declared type whose annotations are reported
	TypeName string

	// MethodName is the method of TypeName whose annotations are reported
	MethodName string

	// Inherit includes annotations of embedded types in the type section
	Inherit bool
}

// Default returns the configuration of the authors command
func Default() Config {
	return Config{
		TypeName:   "MyClass",
		MethodName: "MyMethod",
		Inherit:    true,
	}
}

// Validate reports a missing type or method name
func (c Config) Validate() error {
	if c.TypeName == "" {
		return &annotations.ValidationError{
			Parameter: "TypeName",
			Expected:  "type name",
			Actual:    "empty string",
			Hint:      "Set the type to report on",
		}
	}
	if c.MethodName == "" {
		return &annotations.ValidationError{
			Parameter: "MethodName",
			Expected:  "method name",
			Actual:    "empty string",
			Hint:      "Set the method to report on",
		}
	}
	return nil
}
