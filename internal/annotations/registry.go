package annotations

import (
	"fmt"
	"sort"
	"sync"
)

// Registry records annotation schemas, the declarations annotations can be
// attached to, and the attachments themselves. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex          // Protects concurrent access
	schemas     map[string]Schema     // Schema storage
	types       map[string]*typeEntry // Declared types and interfaces
	methods     map[string][]string   // Method names per receiver type, in declaration order
	declared    map[Site]bool         // Every declared site
	attachments map[Site][]Annotation // Attachments per site, in declaration order
}

type typeEntry struct {
	name  string
	kind  TargetKind
	bases []string // Embedded types, in field order
}

// NewRegistry creates a new, empty annotation registry
func NewRegistry() *Registry {
	return &Registry{
		schemas:     make(map[string]Schema),
		types:       make(map[string]*typeEntry),
		methods:     make(map[string][]string),
		declared:    make(map[Site]bool),
		attachments: make(map[Site][]Annotation),
	}
}

// defaultRegistry is the global registry instance
var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global annotation registry with the built-in schemas registered
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinSchemas(defaultRegistry); err != nil {
			panic(err)
		}
	})
	return defaultRegistry
}

// RegisterSchema adds a new annotation schema to the registry
func (r *Registry) RegisterSchema(schema Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	// Check if already registered
	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("annotation %s is already registered", schema.Name)
	}

	if err := r.validateSchema(schema); err != nil {
		return fmt.Errorf("invalid schema for %s: %w", schema.Name, err)
	}

	r.schemas[schema.Name] = schema
	return nil
}

// GetSchema retrieves the schema registered under name
func (r *Registry) GetSchema(name string) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[name]
	if !exists {
		return Schema{}, fmt.Errorf("annotation %s is not registered", name)
	}

	return schema, nil
}

// ListSchemas returns the names of all registered schemas, sorted
func (r *Registry) ListSchemas() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// IsRegistered checks if a schema is registered under name
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[name]
	return exists
}

// validateSchema performs basic validation on a schema
func (r *Registry) validateSchema(schema Schema) error {
	if len(schema.Targets) == 0 {
		return fmt.Errorf("at least one target kind is required")
	}

	if schema.Decode == nil {
		return fmt.Errorf("a decoder is required")
	}

	for paramName, paramSpec := range schema.Parameters {
		if paramName == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}

		if paramSpec.Type < StringType || paramSpec.Type > BoolType {
			return fmt.Errorf("invalid parameter type for %s: %d", paramName, paramSpec.Type)
		}
	}

	for _, positional := range schema.Positional {
		if _, exists := schema.Parameters[positional]; !exists {
			return fmt.Errorf("positional parameter %s has no parameter specification", positional)
		}
	}

	return nil
}

// Declare records a declaration site. Types and interfaces may list the
// types they embed; bases are ignored for every other kind.
func (r *Registry) Declare(site Site, bases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if site.Kind.isTypeKind() && site.Type == "" ||
		!site.Kind.isTypeKind() && site.Member == "" ||
		site.Kind == MethodTarget && site.Type == "" {
		return &RegistrationError{
			Msg:  fmt.Sprintf("%s declaration has no name", site.Kind),
			Hint: "Name the declaration before registering it",
		}
	}

	if r.declared[site] {
		return &RegistrationError{
			Msg:  fmt.Sprintf("%s is already declared", site.Kind),
			Site: site.String(),
			Hint: "Each declaration may only be registered once",
		}
	}

	if site.Kind.isTypeKind() {
		if _, exists := r.types[site.Type]; exists {
			return &RegistrationError{
				Msg:  "type is already declared",
				Site: site.Type,
				Hint: "Each declaration may only be registered once",
			}
		}
		r.types[site.Type] = &typeEntry{
			name:  site.Type,
			kind:  site.Kind,
			bases: append([]string(nil), bases...),
		}
	}

	if site.Kind == MethodTarget {
		r.methods[site.Type] = append(r.methods[site.Type], site.Member)
	}

	r.declared[site] = true
	return nil
}

// DeclareType records a struct (or other non-interface) type and the types it embeds
func (r *Registry) DeclareType(name string, bases ...string) error {
	return r.Declare(TypeSite(name), bases...)
}

// DeclareMethod records a method on typeName. The type may be declared before or after its methods.
func (r *Registry) DeclareMethod(typeName, method string) error {
	return r.Declare(MethodSite(typeName, method))
}

// Attach attaches an annotation to a declared site
func (r *Registry) Attach(site Site, annotation Annotation) error {
	return r.AttachAt(SourceLocation{}, site, annotation)
}

// AttachAt attaches an annotation to a declared site, recording where it was written.
// It enforces the schema's target kinds and repeat policy.
func (r *Registry) AttachAt(loc SourceLocation, site Site, annotation Annotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if annotation == nil {
		return &RegistrationError{Msg: "nil annotation", Site: site.String(), Loc: loc}
	}

	name := annotation.AnnotationName()
	schema, exists := r.schemas[name]
	if !exists {
		return &RegistrationError{
			Msg:  fmt.Sprintf("annotation %s is not registered", name),
			Site: site.String(),
			Loc:  loc,
			Hint: "Register its schema before attaching it",
		}
	}

	if !schema.Allows(site.Kind) {
		return &RegistrationError{
			Msg:  fmt.Sprintf("annotation %s is not valid on %s declarations", name, site.Kind),
			Site: site.String(),
			Loc:  loc,
			Hint: fmt.Sprintf("%s may only be attached to: %s", name, targetList(schema.Targets)),
		}
	}

	if !r.declared[site] {
		return &RegistrationError{
			Msg:  fmt.Sprintf("%s is not declared", site.Kind),
			Site: site.String(),
			Loc:  loc,
			Hint: "Declare the site before attaching annotations to it",
		}
	}

	if !schema.AllowMultiple {
		for _, existing := range r.attachments[site] {
			if existing.AnnotationName() == name {
				return &RegistrationError{
					Msg:  fmt.Sprintf("annotation %s may only be attached once", name),
					Site: site.String(),
					Loc:  loc,
					Hint: "Remove the duplicate annotation",
				}
			}
		}
	}

	r.attachments[site] = append(r.attachments[site], annotation)
	return nil
}

// Decode builds the concrete annotation for a parsed annotation using its schema's decoder
func (r *Registry) Decode(parsed *ParsedAnnotation) (Annotation, error) {
	schema, err := r.GetSchema(parsed.Name)
	if err != nil {
		return nil, &SchemaError{Msg: err.Error(), Loc: parsed.Location, Hint: "Check the annotation name"}
	}
	return schema.Decode(parsed)
}

// LookupType returns the metadata handle of a declared type or interface
func (r *Registry) LookupType(name string) (*TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.types[name]
	if !exists {
		return nil, false
	}
	return &TypeInfo{registry: r, name: entry.name, kind: entry.kind}, true
}

// collect returns the annotations of schemaName attached directly to site.
// The caller must hold at least a read lock.
func (r *Registry) collect(site Site, schemaName string) []Annotation {
	var result []Annotation
	for _, a := range r.attachments[site] {
		if a.AnnotationName() == schemaName {
			result = append(result, a)
		}
	}
	return result
}

// hasMethod reports whether typeName declares method itself.
// The caller must hold at least a read lock.
func (r *Registry) hasMethod(typeName, method string) bool {
	for _, m := range r.methods[typeName] {
		if m == method {
			return true
		}
	}
	return false
}

func targetList(targets []TargetKind) string {
	list := ""
	for i, target := range targets {
		if i > 0 {
			list += ", "
		}
		list += target.String()
	}
	return list
}
