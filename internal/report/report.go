// Package report prints the Author annotations of a type and one of its methods.
package report

import (
	"fmt"
	"io"

	"github.com/toyz/attrs/internal/annotations"
	"github.com/toyz/attrs/internal/config"
	"github.com/toyz/attrs/internal/utils"
)

// MethodSectionHeader introduces the method annotations
const MethodSectionHeader = "Method Attributes:"

// Reporter writes annotation reports
type Reporter struct {
	out         io.Writer
	diagnostics *utils.DiagnosticSystem
}

// NewReporter creates a reporter writing the report to out and logging to diagnostics
func NewReporter(out io.Writer, diagnostics *utils.DiagnosticSystem) *Reporter {
	return &Reporter{out: out, diagnostics: diagnostics}
}

// Report prints the authors of cfg.TypeName and then, under a header, the
// authors of cfg.MethodName. The method section, header included, is left
// out when the method has no authors. A missing method is logged and is
// not an error; a missing type is.
func (r *Reporter) Report(registry *annotations.Registry, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	typeInfo, ok := registry.LookupType(cfg.TypeName)
	if !ok {
		return &annotations.LookupError{Kind: annotations.TypeTarget, Name: cfg.TypeName}
	}

	typeAuthors := annotations.OfType[annotations.Author](
		typeInfo.Annotations(annotations.AuthorAnnotationName, cfg.Inherit))
	r.diagnostics.Debug("%s has %d author annotation(s)", typeInfo.Name(), len(typeAuthors))
	if err := WriteAuthors(r.out, typeAuthors); err != nil {
		return err
	}

	methodInfo, ok := typeInfo.Method(cfg.MethodName)
	if !ok {
		r.diagnostics.Warn("method %s.%s is not declared, skipping method attributes", cfg.TypeName, cfg.MethodName)
		return nil
	}

	methodAuthors := annotations.MethodAuthors(methodInfo)
	r.diagnostics.Debug("%s has %d author annotation(s)", methodInfo.Site(), len(methodAuthors))
	if len(methodAuthors) == 0 {
		r.diagnostics.Info("%s has no authors, omitting method attributes", methodInfo.Site())
		return nil
	}

	if _, err := fmt.Fprintf(r.out, "\n%s\n", MethodSectionHeader); err != nil {
		return err
	}
	return WriteAuthors(r.out, methodAuthors)
}

// WriteAuthors writes one "Author: <name>" line per author, each followed by
// "Version: <version>" when a version was recorded
func WriteAuthors(w io.Writer, authors []annotations.Author) error {
	for _, author := range authors {
		if _, err := fmt.Fprintf(w, "Author: %s\n", author.Name()); err != nil {
			return err
		}
		if version, ok := author.Version(); ok {
			if _, err := fmt.Fprintf(w, "Version: %s\n", version); err != nil {
				return err
			}
		}
	}
	return nil
}
