package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/toyz/attrs/internal/annotations"
	"github.com/toyz/attrs/internal/utils"
)

// Parser discovers declarations and their annotation comments in Go source
// and records them in an annotation registry
type Parser struct {
	fileSet          *token.FileSet
	registry         *annotations.Registry
	annotationParser *annotations.Parser
	diagnostics      *utils.DiagnosticSystem
}

// declaration is a site found in source together with its doc comment.
// Unreferenced declarations (init functions, blank methods) are never
// registered; annotating one is an error.
type declaration struct {
	site         annotations.Site
	bases        []string
	doc          *ast.CommentGroup
	unreferenced bool
}

// NewParser creates a parser that records into registry and only logs errors
func NewParser(registry *annotations.Registry) *Parser {
	return NewParserWithDiagnostics(registry, utils.NewQuietDiagnostics())
}

// NewParserWithDiagnostics creates a parser that logs each declaration it registers
func NewParserWithDiagnostics(registry *annotations.Registry, diagnostics *utils.DiagnosticSystem) *Parser {
	return &Parser{
		fileSet:          token.NewFileSet(),
		registry:         registry,
		annotationParser: annotations.NewParser(registry),
		diagnostics:      diagnostics,
	}
}

// ParseSource parses Go source from a string, declares every type, method,
// function, field, variable and constant it finds and attaches their
// annotations. Misplaced or malformed annotations are returned together as
// *annotations.MultipleAnnotationErrors.
func (p *Parser) ParseSource(filename, source string) error {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return utils.WrapParseError(filename, err)
	}

	return p.ProcessFiles(file)
}

// ProcessFiles declares and annotates the top-level declarations of the given files.
// All files are declared before any annotation is attached, so methods may
// precede their receiver type.
func (p *Parser) ProcessFiles(files ...*ast.File) error {
	decls := p.collectDeclarations(files)

	p.diagnostics.Verbose("Declaring %d declaration(s)", len(decls))
	p.diagnostics.Indent()
	for _, decl := range decls {
		if decl.unreferenced {
			p.diagnostics.Verbose("skipping %s %s", decl.site.Kind, decl.site)
			continue
		}
		if err := p.registry.Declare(decl.site, decl.bases...); err != nil {
			p.diagnostics.Unindent()
			return utils.WrapDeclareError(decl.site.String(), err)
		}
		p.diagnostics.Verbose("%s %s", decl.site.Kind, decl.site)
	}
	p.diagnostics.Unindent()

	errs := &annotations.MultipleAnnotationErrors{}
	for _, decl := range decls {
		p.attachAnnotations(decl, errs)
	}

	return errs.ErrorOrNil()
}

// collectDeclarations walks the top-level declarations of files in source order
func (p *Parser) collectDeclarations(files []*ast.File) []declaration {
	var decls []declaration

	insp := inspector.New(files)
	filter := []ast.Node{(*ast.GenDecl)(nil), (*ast.FuncDecl)(nil)}
	insp.WithStack(filter, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return false
		}
		// Only the file may enclose a declaration; local declarations cannot be annotated
		if len(stack) != 2 {
			return false
		}

		switch node := n.(type) {
		case *ast.GenDecl:
			decls = append(decls, p.genDeclarations(node)...)
		case *ast.FuncDecl:
			decls = append(decls, funcDeclaration(node))
		}
		return false
	})

	return decls
}

// genDeclarations handles type, var and const declarations
func (p *Parser) genDeclarations(node *ast.GenDecl) []declaration {
	var decls []declaration

	for _, spec := range node.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			decls = append(decls, typeDeclarations(s, specDoc(node, s.Doc))...)
		case *ast.ValueSpec:
			kind := annotations.VariableTarget
			if node.Tok == token.CONST {
				kind = annotations.ConstantTarget
			}
			for _, name := range s.Names {
				if name.Name == "_" {
					continue
				}
				decls = append(decls, declaration{
					site: annotations.Site{Kind: kind, Member: name.Name},
					doc:  specDoc(node, s.Doc),
				})
			}
		}
	}

	return decls
}

// typeDeclarations declares a type, its embedded types and its named fields,
// or an interface, its embedded interfaces and its methods
func typeDeclarations(spec *ast.TypeSpec, doc *ast.CommentGroup) []declaration {
	name := spec.Name.Name
	decl := declaration{site: annotations.TypeSite(name), doc: doc}

	var fields []declaration
	switch t := spec.Type.(type) {
	case *ast.StructType:
		for _, field := range t.Fields.List {
			if len(field.Names) == 0 {
				decl.bases = append(decl.bases, typeName(field.Type))
				continue
			}
			for _, fieldName := range field.Names {
				fields = append(fields, declaration{
					site: annotations.FieldSite(name, fieldName.Name),
					doc:  field.Doc,
				})
			}
		}
	case *ast.InterfaceType:
		decl.site = annotations.InterfaceSite(name)
		for _, method := range t.Methods.List {
			if len(method.Names) == 0 {
				decl.bases = append(decl.bases, typeName(method.Type))
				continue
			}
			for _, methodName := range method.Names {
				fields = append(fields, declaration{
					site:         annotations.MethodSite(name, methodName.Name),
					doc:          method.Doc,
					unreferenced: methodName.Name == "_",
				})
			}
		}
	}

	return append([]declaration{decl}, fields...)
}

// funcDeclaration declares a method or a package-level function. Blank
// methods and functions, and init functions, may repeat and cannot be
// referenced, so they are marked unreferenced.
func funcDeclaration(node *ast.FuncDecl) declaration {
	name := node.Name.Name
	if node.Recv != nil && len(node.Recv.List) > 0 {
		return declaration{
			site:         annotations.MethodSite(typeName(node.Recv.List[0].Type), name),
			doc:          node.Doc,
			unreferenced: name == "_",
		}
	}
	return declaration{
		site:         annotations.FunctionSite(name),
		doc:          node.Doc,
		unreferenced: name == "_" || name == "init",
	}
}

// attachAnnotations parses every annotation comment of decl and attaches it
func (p *Parser) attachAnnotations(decl declaration, errs *annotations.MultipleAnnotationErrors) {
	if decl.doc == nil {
		return
	}

	for _, comment := range decl.doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}

		pos := p.fileSet.Position(comment.Slash)
		loc := annotations.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}

		if decl.unreferenced {
			errs.Add(&annotations.RegistrationError{
				Msg:  fmt.Sprintf("%s cannot be referenced and may not be annotated", decl.site.Kind),
				Site: decl.site.String(),
				Loc:  loc,
				Hint: "Move the annotation to a named declaration",
			})
			continue
		}

		parsed, err := p.annotationParser.ParseAnnotation(comment.Text, loc)
		if err != nil {
			errs.Add(asAnnotationError(err, loc))
			continue
		}

		annotation, err := p.registry.Decode(parsed)
		if err != nil {
			errs.Add(asAnnotationError(err, loc))
			continue
		}

		if err := p.registry.AttachAt(loc, decl.site, annotation); err != nil {
			errs.Add(asAnnotationError(err, loc))
		}
	}
}

// specDoc returns the doc comment of a spec, falling back to the declaration's
// doc comment for unparenthesized declarations such as `type T struct{}`
func specDoc(node *ast.GenDecl, doc *ast.CommentGroup) *ast.CommentGroup {
	if doc == nil && !node.Lparen.IsValid() {
		return node.Doc
	}
	return doc
}

// typeName returns the name of a receiver or embedded type expression
func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return typeName(t.X)
	case *ast.SelectorExpr:
		return typeName(t.X) + "." + t.Sel.Name
	case *ast.IndexExpr:
		return typeName(t.X)
	case *ast.IndexListExpr:
		return typeName(t.X)
	case *ast.ParenExpr:
		return typeName(t.X)
	default:
		return fmt.Sprintf("%T", expr)
	}
}

func asAnnotationError(err error, loc annotations.SourceLocation) annotations.AnnotationError {
	if annotationErr, ok := err.(annotations.AnnotationError); ok {
		return annotationErr
	}
	return &annotations.SyntaxError{Msg: err.Error(), Loc: loc}
}
