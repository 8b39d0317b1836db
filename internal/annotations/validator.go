package annotations

import (
	"fmt"
	"sort"
)

// SchemaValidator validates parsed annotations against their schemas
type SchemaValidator interface {
	// Validate annotation against its schema
	Validate(annotation *ParsedAnnotation, schema Schema) error
}

// validator is the concrete implementation of SchemaValidator
type validator struct{}

// NewValidator creates a new schema validator
func NewValidator() SchemaValidator {
	return &validator{}
}

// Validate checks that required parameters are present, that no unknown
// parameters were given, and runs each parameter's custom validator.
// All problems are reported together.
func (v *validator) Validate(annotation *ParsedAnnotation, schema Schema) error {
	errors := &MultipleAnnotationErrors{}

	// Validate required parameters are present
	for _, paramName := range sortedParameterNames(schema.Parameters) {
		paramSpec := schema.Parameters[paramName]
		if !paramSpec.Required {
			continue
		}
		if _, exists := annotation.Parameters[paramName]; !exists {
			errors.Add(&ValidationError{
				Parameter: paramName,
				Expected:  fmt.Sprintf("required parameter of type %s", paramSpec.Type.String()),
				Actual:    "missing",
				Loc:       annotation.Location,
				Hint:      requiredHint(schema, paramName),
			})
		}
	}

	// Validate parameter types and values
	for _, paramName := range sortedKeys(annotation.Parameters) {
		paramValue := annotation.Parameters[paramName]
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			errors.Add(&ValidationError{
				Parameter: paramName,
				Expected:  "known parameter",
				Actual:    fmt.Sprintf("unknown parameter '%s'", paramName),
				Loc:       annotation.Location,
				Hint:      fmt.Sprintf("Remove -%s or check parameter name spelling", paramName),
			})
			continue
		}

		if paramSpec.Type == BoolType {
			if _, err := ConvertToBool(paramValue); err != nil {
				errors.Add(&ValidationError{
					Parameter: paramName,
					Expected:  "bool",
					Actual:    fmt.Sprintf("'%s'", paramValue),
					Loc:       annotation.Location,
					Hint:      fmt.Sprintf("Use -%s or -%s=false", paramName, paramName),
				})
				continue
			}
		}

		// Run custom validator if present
		if paramSpec.Validator != nil {
			if err := paramSpec.Validator(paramValue); err != nil {
				errors.Add(&ValidationError{
					Parameter: paramName,
					Expected:  "valid value",
					Actual:    fmt.Sprintf("'%s'", paramValue),
					Loc:       annotation.Location,
					Hint:      err.Error(),
				})
			}
		}
	}

	return errors.ErrorOrNil()
}

func requiredHint(schema Schema, paramName string) string {
	for i, positional := range schema.Positional {
		if positional == paramName {
			return fmt.Sprintf("Pass %s as positional value #%d", paramName, i+1)
		}
	}
	return fmt.Sprintf("Add -%s=<value> to the annotation", paramName)
}

func sortedParameterNames(params map[string]ParameterSpec) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(params map[string]string) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
