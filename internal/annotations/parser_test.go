package annotations

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()

	registry := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(registry))
	require.NoError(t, registry.RegisterSchema(Schema{
		Name:       "Reviewed",
		Targets:    []TargetKind{TypeTarget},
		Positional: []string{"by"},
		Parameters: map[string]ParameterSpec{
			"by":       {Type: StringType, Required: true},
			"Approved": {Type: BoolType},
			"Team": {
				Type: StringType,
				Validator: func(v string) error {
					if v != "core" && v != "infra" {
						return fmt.Errorf("must be 'core' or 'infra', got '%s'", v)
					}
					return nil
				},
			},
		},
		Decode: noopDecoder,
	}))
	return NewParser(registry)
}

func TestIsAnnotation(t *testing.T) {
	tests := []struct {
		comment  string
		expected bool
	}{
		{`//attr::Author "Alice"`, true},
		{`// attr::Author "Alice"`, true},
		{`//attr::`, true},
		{`// MyClass does things`, false},
		{`//axon::core`, false},
		{`//go:embed myclass.go`, false},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAnnotation(tt.comment))
		})
	}
}

func TestParseAnnotation(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "myclass.go", Line: 5, Column: 1}

	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:     "quoted name",
			input:    `//attr::Author "Bob"`,
			expected: map[string]string{"name": "Bob"},
		},
		{
			name:     "quoted name and version",
			input:    `//attr::Author "Alice" -Version="1.0"`,
			expected: map[string]string{"name": "Alice", "Version": "1.0"},
		},
		{
			name:     "bare identifiers and numbers",
			input:    `//attr::Author Carol -Version=2.1`,
			expected: map[string]string{"name": "Carol", "Version": "2.1"},
		},
		{
			name:     "space after slashes",
			input:    `// attr::Author "Dave" -Version=v1.2.3`,
			expected: map[string]string{"name": "Dave", "Version": "v1.2.3"},
		},
		{
			name:     "unquoted pre-release version",
			input:    `//attr::Author "Alice" -Version=1.0-rc1`,
			expected: map[string]string{"name": "Alice", "Version": "1.0-rc1"},
		},
		{
			name:     "unquoted version with letters",
			input:    `//attr::Author "Alice" -Version=1.0beta`,
			expected: map[string]string{"name": "Alice", "Version": "1.0beta"},
		},
		{
			name:     "unquoted tagged version",
			input:    `//attr::Author Alice -Version=v2.0-beta.1+build`,
			expected: map[string]string{"name": "Alice", "Version": "v2.0-beta.1+build"},
		},
		{
			name:     "name with spaces and escapes",
			input:    `//attr::Author "Eve \"E\" Smith"`,
			expected: map[string]string{"name": `Eve "E" Smith`},
		},
		{
			name:     "bool flag",
			input:    `//attr::Reviewed Frank -Approved -Team=core`,
			expected: map[string]string{"by": "Frank", "Approved": "true", "Team": "core"},
		},
		{
			name:     "explicit bool",
			input:    `//attr::Reviewed Frank -Approved=false`,
			expected: map[string]string{"by": "Frank", "Approved": "false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.ParseAnnotation(tt.input, location)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed.Parameters)
			assert.Equal(t, location, parsed.Location)
			assert.Equal(t, tt.input, parsed.Raw)
		})
	}
}

func TestParseAnnotationErrors(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "myclass.go", Line: 9, Column: 1}

	tests := []struct {
		name  string
		input string
		code  ErrorCode
	}{
		{name: "missing name", input: `//attr::Author -Version="1.0"`, code: ValidationErrorCode},
		{name: "unknown parameter", input: `//attr::Author "Alice" -Release="1.0"`, code: ValidationErrorCode},
		{name: "too many positional", input: `//attr::Author "Alice" "Bob"`, code: ValidationErrorCode},
		{name: "duplicate parameter", input: `//attr::Author "Alice" -Version=1 -Version=2`, code: ValidationErrorCode},
		{name: "version without value", input: `//attr::Author "Alice" -Version`, code: ValidationErrorCode},
		{name: "invalid bool", input: `//attr::Reviewed Frank -Approved=maybe`, code: ValidationErrorCode},
		{name: "custom validator", input: `//attr::Reviewed Frank -Team=sales`, code: ValidationErrorCode},
		{name: "unknown annotation", input: `//attr::Maintainer "Alice"`, code: SchemaErrorCode},
		{name: "missing annotation name", input: `//attr::`, code: SyntaxErrorCode},
		{name: "dangling equals", input: `//attr::Author "Alice" -Version=`, code: SyntaxErrorCode},
		{name: "separated pre-release", input: `//attr::Author "Alice" -Version=1.0 -rc1`, code: ValidationErrorCode},
		{name: "positional after named", input: `//attr::Author -Version=1.0 "Alice"`, code: SyntaxErrorCode},
		{name: "not an annotation", input: `// just a comment`, code: SyntaxErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseAnnotation(tt.input, location)
			require.Error(t, err)

			var annotationErr AnnotationError
			require.True(t, errors.As(err, &annotationErr), "expected an AnnotationError, got %T", err)
			assert.Equal(t, tt.code, annotationErr.Code(), err.Error())
			assert.Equal(t, location.Line, annotationErr.Location().Line)
			assert.Equal(t, location.File, annotationErr.Location().File)
		})
	}
}

func TestParseAnnotationSyntaxErrorColumn(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "myclass.go", Line: 3, Column: 5}

	_, err := parser.ParseAnnotation(`//attr::Author "Alice" ?`, location)

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr), "expected a SyntaxError, got %v", err)
	assert.Greater(t, syntaxErr.Location().Column, location.Column)
	assert.NotEmpty(t, syntaxErr.Suggestion())
}

func TestValidatorCollectsAllErrors(t *testing.T) {
	validator := NewValidator()
	annotation := &ParsedAnnotation{
		Name:       AuthorAnnotationName,
		Parameters: map[string]string{"Release": "1", "Build": "2"},
	}

	err := validator.Validate(annotation, AuthorSchema)

	var multi *MultipleAnnotationErrors
	require.True(t, errors.As(err, &multi))
	assert.Len(t, multi.Errors, 3, "missing name plus two unknown parameters")
	assert.True(t, multi.HasType(ValidationErrorCode))
	assert.Contains(t, multi.Error(), "multiple annotation errors (3 total)")
}

func TestParsedAnnotationAccessors(t *testing.T) {
	parsed := &ParsedAnnotation{Parameters: map[string]string{"name": "Alice", "Approved": "yes", "Broken": "perhaps"}}

	name, ok := parsed.GetString("name")
	assert.True(t, ok)
	assert.Equal(t, "Alice", name)

	_, ok = parsed.GetString("Version")
	assert.False(t, ok)

	assert.True(t, parsed.HasParameter("name"))
	assert.False(t, parsed.HasParameter("Version"))

	assert.True(t, parsed.GetBool("Approved"))
	assert.False(t, parsed.GetBool("Broken"))
	assert.False(t, parsed.GetBool("Missing"))
}
