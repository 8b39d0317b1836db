package annotations

import "fmt"

// AuthorAnnotationName is the name Author annotations are written and registered under
const AuthorAnnotationName = "Author"

// Author records who wrote a type or method, and optionally for which version.
// The zero value is not a valid annotation; use NewAuthor.
type Author struct {
	name       string
	version    string
	hasVersion bool
}

// AuthorOption configures optional Author fields
type AuthorOption func(*Author)

// WithVersion records the version an author is credited for
func WithVersion(version string) AuthorOption {
	return func(a *Author) {
		a.version = version
		a.hasVersion = true
	}
}

// NewAuthor creates an Author annotation. The name is required.
func NewAuthor(name string, opts ...AuthorOption) (Author, error) {
	if name == "" {
		return Author{}, &ValidationError{
			Parameter: "name",
			Expected:  "non-empty author name",
			Actual:    "empty string",
			Hint:      `Pass the author name, e.g. //attr::Author "Alice"`,
		}
	}

	author := Author{name: name}
	for _, opt := range opts {
		opt(&author)
	}
	return author, nil
}

// MustAuthor is like NewAuthor but panics on error. Intended for static declarations.
func MustAuthor(name string, opts ...AuthorOption) Author {
	author, err := NewAuthor(name, opts...)
	if err != nil {
		panic(err)
	}
	return author
}

// AnnotationName implements Annotation
func (a Author) AnnotationName() string { return AuthorAnnotationName }

// Name returns the author name
func (a Author) Name() string { return a.name }

// Version returns the recorded version and whether one was recorded at all.
// An explicitly empty version is reported as ("", true).
func (a Author) Version() (string, bool) { return a.version, a.hasVersion }

func (a Author) String() string {
	if a.hasVersion {
		return fmt.Sprintf("Author(%q, Version=%q)", a.name, a.version)
	}
	return fmt.Sprintf("Author(%q)", a.name)
}

// AuthorSchema defines the schema for //attr::Author annotations
var AuthorSchema = Schema{
	Name:          AuthorAnnotationName,
	Description:   "Credits the author of a type or method, optionally with the version they wrote",
	Targets:       []TargetKind{TypeTarget, MethodTarget},
	AllowMultiple: true,
	Inherited:     true,
	Positional:    []string{"name"},
	Parameters: map[string]ParameterSpec{
		"name": {
			Type:        StringType,
			Required:    true,
			Description: "Author name",
		},
		"Version": {
			Type:        StringType,
			Required:    false,
			Description: "Version the author is credited for; absent means no version recorded",
		},
	},
	Decode: decodeAuthor,
	Examples: []string{
		`//attr::Author "Alice"`,
		`//attr::Author "Alice" -Version="1.0"`,
		`//attr::Author Bob -Version=2.1`,
	},
}

func decodeAuthor(parsed *ParsedAnnotation) (Annotation, error) {
	name, _ := parsed.GetString("name")

	var opts []AuthorOption
	if version, ok := parsed.GetString("Version"); ok {
		opts = append(opts, WithVersion(version))
	}

	author, err := NewAuthor(name, opts...)
	if err != nil {
		if validationErr, ok := err.(*ValidationError); ok {
			validationErr.Loc = parsed.Location
		}
		return nil, err
	}
	return author, nil
}
