package annotations

import "fmt"

// TargetKind represents the kind of declaration an annotation is attached to
type TargetKind int

const (
	TypeTarget TargetKind = iota
	InterfaceTarget
	MethodTarget
	FunctionTarget
	FieldTarget
	VariableTarget
	ConstantTarget
)

// String returns the string representation of the target kind
func (k TargetKind) String() string {
	switch k {
	case TypeTarget:
		return "type"
	case InterfaceTarget:
		return "interface"
	case MethodTarget:
		return "method"
	case FunctionTarget:
		return "function"
	case FieldTarget:
		return "field"
	case VariableTarget:
		return "variable"
	case ConstantTarget:
		return "constant"
	default:
		return "unknown"
	}
}

// isTypeKind reports whether declarations of this kind can own methods and embed other types
func (k TargetKind) isTypeKind() bool {
	return k == TypeTarget || k == InterfaceTarget
}

// Site identifies a declaration that annotations can be attached to.
// Type holds the owning type for methods and fields; Member holds the
// method, field, function, variable or constant name.
type Site struct {
	Kind   TargetKind
	Type   string
	Member string
}

// TypeSite returns the site of a struct or other non-interface type declaration
func TypeSite(name string) Site {
	return Site{Kind: TypeTarget, Type: name}
}

// InterfaceSite returns the site of an interface declaration
func InterfaceSite(name string) Site {
	return Site{Kind: InterfaceTarget, Type: name}
}

// MethodSite returns the site of a method declared on typeName
func MethodSite(typeName, method string) Site {
	return Site{Kind: MethodTarget, Type: typeName, Member: method}
}

// FunctionSite returns the site of a package-level function
func FunctionSite(name string) Site {
	return Site{Kind: FunctionTarget, Member: name}
}

// FieldSite returns the site of a struct field
func FieldSite(typeName, field string) Site {
	return Site{Kind: FieldTarget, Type: typeName, Member: field}
}

// String returns the qualified name of the declaration, e.g. MyClass.MyMethod
func (s Site) String() string {
	switch {
	case s.Type == "":
		return s.Member
	case s.Member == "":
		return s.Type
	default:
		return s.Type + "." + s.Member
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// IsZero reports whether the location is unknown
func (l SourceLocation) IsZero() bool {
	return l.File == "" && l.Line == 0
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Annotation is a metadata record that can be attached to a Site.
// AnnotationName must match the Name of a registered Schema.
type Annotation interface {
	AnnotationName() string
}

// ParsedAnnotation is an annotation read from a source comment, before it is
// decoded into its concrete Annotation type
type ParsedAnnotation struct {
	Name       string            // Schema name, e.g. Author
	Parameters map[string]string // Positional and named parameters keyed by parameter name
	Location   SourceLocation    // Source location
	Raw        string            // Original annotation text
}

// GetString returns a parameter value and whether it was supplied
func (p *ParsedAnnotation) GetString(paramName string) (string, bool) {
	value, exists := p.Parameters[paramName]
	return value, exists
}

// GetBool returns a boolean parameter value, false when it is absent or malformed
func (p *ParsedAnnotation) GetBool(paramName string) bool {
	value, exists := p.Parameters[paramName]
	if !exists {
		return false
	}
	b, err := ConvertToBool(value)
	return err == nil && b
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for an annotation parameter
type ParameterSpec struct {
	Type        ParameterType      // Parameter type
	Required    bool               // Whether parameter is required
	Description string             // Parameter description
	Validator   func(string) error // Custom validator function
}

// Decoder turns a validated ParsedAnnotation into its concrete Annotation
type Decoder func(*ParsedAnnotation) (Annotation, error)

// Schema defines how an annotation type may be declared and where it may be used
type Schema struct {
	Name          string                   // Annotation name as written after the prefix
	Description   string                   // Human-readable description
	Targets       []TargetKind             // Declaration kinds the annotation may be attached to
	AllowMultiple bool                     // Whether one site may carry the annotation more than once
	Inherited     bool                     // Whether types embedding an annotated type see it too
	Positional    []string                 // Parameter names filled by positional values, in order
	Parameters    map[string]ParameterSpec // Parameter specifications
	Decode        Decoder                  // Builds the concrete annotation
	Examples      []string                 // Usage examples
}

// Allows reports whether the schema may be attached to a declaration of the given kind
func (s Schema) Allows(kind TargetKind) bool {
	for _, target := range s.Targets {
		if target == kind {
			return true
		}
	}
	return false
}

// ConvertToBool converts a parameter string to boolean
func ConvertToBool(value string) (bool, error) {
	switch value {
	case "true", "True", "TRUE", "1", "yes", "Yes", "YES", "on", "On", "ON":
		return true, nil
	case "false", "False", "FALSE", "0", "no", "No", "NO", "off", "Off", "OFF":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s", value)
	}
}
