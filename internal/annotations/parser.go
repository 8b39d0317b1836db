package annotations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// AnnotationPrefix marks a comment line as an annotation, e.g. //attr::Author "Alice"
const AnnotationPrefix = "attr::"

// annotationGrammar is the root of an annotation comment
type annotationGrammar struct {
	Name   string          `parser:"Prefix @Ident"`
	Values []*valueGrammar `parser:"@@*"`
	Params []*paramGrammar `parser:"@@*"`
}

// paramGrammar is a named parameter (-Key=value) or a bare flag (-Key)
type paramGrammar struct {
	Pos    lexer.Position
	Key    string        `parser:"'-' @Ident"`
	Equals bool          `parser:"( @'='"`
	Value  *valueGrammar `parser:"  @@ )?"`
}

// valueGrammar is a positional or named parameter value
type valueGrammar struct {
	String *string `parser:"  @String"`
	Number *string `parser:"| @Number"`
	Ident  *string `parser:"| @Ident"`
}

func (v *valueGrammar) text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Unquoted values may contain inner hyphens (1.0-rc1, v2-beta); a hyphen
// only starts a new parameter after whitespace.
var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Prefix", Pattern: `//[ \t]*attr::`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[0-9][0-9a-zA-Z_.+]*(-[0-9a-zA-Z_.+]+)*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*(-[a-zA-Z0-9_.]+)*`},
	{Name: "Punct", Pattern: `[-=]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Parser reads annotation comments and validates them against a registry's schemas
type Parser struct {
	parser    *participle.Parser[annotationGrammar]
	registry  *Registry
	validator SchemaValidator
}

// NewParser creates a new annotation comment parser
func NewParser(registry *Registry) *Parser {
	parser := participle.MustBuild[annotationGrammar](
		participle.Lexer(annotationLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)

	return &Parser{
		parser:    parser,
		registry:  registry,
		validator: NewValidator(),
	}
}

// IsAnnotation reports whether a comment line is an annotation
func IsAnnotation(comment string) bool {
	text := strings.TrimPrefix(strings.TrimSpace(comment), "//")
	return strings.HasPrefix(strings.TrimSpace(text), AnnotationPrefix)
}

// ParseAnnotation parses a single annotation comment. location is the
// position of the comment's leading slash; error locations are reported
// relative to it.
func (p *Parser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	comment = strings.TrimSpace(comment)

	tree, err := p.parser.ParseString(location.File, comment)
	if err != nil {
		return nil, p.syntaxError(err, location)
	}

	schema, err := p.registry.GetSchema(tree.Name)
	if err != nil {
		return nil, &SchemaError{
			Msg:  fmt.Sprintf("unknown annotation '%s'", tree.Name),
			Loc:  location,
			Hint: fmt.Sprintf("Known annotations: %s", strings.Join(p.registry.ListSchemas(), ", ")),
		}
	}

	parsed := &ParsedAnnotation{
		Name:       tree.Name,
		Parameters: make(map[string]string),
		Location:   location,
		Raw:        comment,
	}

	if len(tree.Values) > len(schema.Positional) {
		return nil, &ValidationError{
			Parameter: fmt.Sprintf("#%d", len(schema.Positional)+1),
			Expected:  fmt.Sprintf("at most %d positional value(s)", len(schema.Positional)),
			Actual:    fmt.Sprintf("%d", len(tree.Values)),
			Loc:       location,
			Hint:      "Pass optional values as -Name=value",
		}
	}
	for i, value := range tree.Values {
		parsed.Parameters[schema.Positional[i]] = value.text()
	}

	for _, param := range tree.Params {
		paramLoc := offsetLocation(location, param.Pos)
		if _, exists := parsed.Parameters[param.Key]; exists {
			return nil, &ValidationError{
				Parameter: param.Key,
				Expected:  "a single value",
				Actual:    "duplicate parameter",
				Loc:       paramLoc,
				Hint:      fmt.Sprintf("Remove the repeated -%s", param.Key),
			}
		}

		if param.Equals {
			parsed.Parameters[param.Key] = param.Value.text()
			continue
		}

		// A bare -Flag only makes sense for boolean parameters
		spec, known := schema.Parameters[param.Key]
		if known && spec.Type != BoolType {
			return nil, &ValidationError{
				Parameter: param.Key,
				Expected:  fmt.Sprintf("a %s value", spec.Type),
				Actual:    "flag without value",
				Loc:       paramLoc,
				Hint:      fmt.Sprintf("Write -%s=<value>", param.Key),
			}
		}
		parsed.Parameters[param.Key] = "true"
	}

	if err := p.validator.Validate(parsed, schema); err != nil {
		return nil, err
	}

	return parsed, nil
}

// syntaxError converts a participle error into a SyntaxError positioned in the source file
func (p *Parser) syntaxError(err error, location SourceLocation) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &SyntaxError{
			Msg:  perr.Message(),
			Loc:  offsetLocation(location, perr.Position()),
			Hint: `Expected //attr::Name "positional" -Key=value`,
		}
	}
	return &SyntaxError{Msg: err.Error(), Loc: location}
}

// offsetLocation maps a position inside a single comment line onto the source file
func offsetLocation(location SourceLocation, pos lexer.Position) SourceLocation {
	if pos.Column <= 0 {
		return location
	}
	location.Column += pos.Column - 1
	return location
}
