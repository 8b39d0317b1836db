// Package catalog holds the annotated declarations shown by the authors
// command and loads them into an annotation registry.
package catalog

import (
	_ "embed"

	"github.com/toyz/attrs/internal/annotations"
	"github.com/toyz/attrs/internal/parser"
	"github.com/toyz/attrs/internal/utils"
)

// SourceFile is the name the embedded declarations are reported under
const SourceFile = "myclass.go"

//go:embed myclass.go
var source string

// Source returns the Go source of the annotated declarations
func Source() string {
	return source
}

// Load declares MyClass and its methods in registry and attaches the
// annotations written on them. Built-in schemas are registered if missing.
func Load(registry *annotations.Registry, diagnostics *utils.DiagnosticSystem) error {
	return LoadSource(registry, diagnostics, SourceFile, source)
}

// LoadSource is like Load but reads the declarations from src
func LoadSource(registry *annotations.Registry, diagnostics *utils.DiagnosticSystem, filename, src string) error {
	if err := annotations.EnsureBuiltinSchemas(registry); err != nil {
		return err
	}

	if err := parser.NewParserWithDiagnostics(registry, diagnostics).ParseSource(filename, src); err != nil {
		return utils.WrapLoadError(filename, err)
	}
	diagnostics.Info("Loaded annotated declarations from %s", filename)
	return nil
}

// Register records the same declarations as Load without reading source,
// attaching each annotation explicitly
func Register(registry *annotations.Registry) error {
	if err := annotations.EnsureBuiltinSchemas(registry); err != nil {
		return err
	}

	if err := registry.DeclareType("MyClass"); err != nil {
		return err
	}
	if err := registry.DeclareMethod("MyClass", "MyMethod"); err != nil {
		return err
	}

	attachments := []struct {
		site   annotations.Site
		author annotations.Author
	}{
		{annotations.TypeSite("MyClass"), annotations.MustAuthor("Alice", annotations.WithVersion("1.0"))},
		{annotations.TypeSite("MyClass"), annotations.MustAuthor("Bob")},
		{annotations.MethodSite("MyClass", "MyMethod"), annotations.MustAuthor("Carol", annotations.WithVersion("2.1"))},
	}
	for _, a := range attachments {
		if err := registry.Attach(a.site, a.author); err != nil {
			return err
		}
	}
	return nil
}
