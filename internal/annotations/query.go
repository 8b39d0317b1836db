package annotations

// TypeInfo is the metadata handle of a declared type or interface
type TypeInfo struct {
	registry *Registry
	name     string
	kind     TargetKind
}

// Name returns the type name
func (t *TypeInfo) Name() string { return t.name }

// Kind returns TypeTarget or InterfaceTarget
func (t *TypeInfo) Kind() TargetKind { return t.kind }

// Site returns the declaration site of the type
func (t *TypeInfo) Site() Site { return Site{Kind: t.kind, Type: t.name} }

// Annotations returns the annotations of schemaName attached to the type, in
// declaration order. When inherit is set and the schema is Inherited, the
// annotations of embedded types follow, nearest embedding first. A schema
// that does not allow repeats yields at most the most derived instance.
// The returned slice is a fresh copy.
func (t *TypeInfo) Annotations(schemaName string, inherit bool) []Annotation {
	r := t.registry
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[schemaName]
	if !exists {
		return nil
	}

	result := r.collect(t.Site(), schemaName)
	if inherit && schema.Inherited {
		visited := map[string]bool{t.name: true}
		level := r.basesOf(t.name)
		for len(level) > 0 {
			var next []string
			for _, base := range level {
				if visited[base] {
					continue
				}
				visited[base] = true

				entry, declared := r.types[base]
				if !declared {
					continue
				}
				result = append(result, r.collect(Site{Kind: entry.kind, Type: base}, schemaName)...)
				next = append(next, entry.bases...)
			}
			level = next
		}
	}

	if !schema.AllowMultiple && len(result) > 1 {
		result = result[:1]
	}
	return result
}

// Bases returns the names of the types embedded directly in this type
func (t *TypeInfo) Bases() []string {
	t.registry.mu.RLock()
	defer t.registry.mu.RUnlock()

	return append([]string(nil), t.registry.basesOf(t.name)...)
}

// Methods returns the names of methods declared directly on the type, in declaration order
func (t *TypeInfo) Methods() []string {
	t.registry.mu.RLock()
	defer t.registry.mu.RUnlock()

	return append([]string(nil), t.registry.methods[t.name]...)
}

// Method resolves a method by name, following Go's selector rules: a method
// declared on the type wins, otherwise the shallowest promoted method from an
// embedded type. Two candidates at the same depth are ambiguous and, like a
// missing method, yield (nil, false).
func (t *TypeInfo) Method(name string) (*MethodInfo, bool) {
	r := t.registry
	r.mu.RLock()
	defer r.mu.RUnlock()

	visited := make(map[string]bool)
	level := []string{t.name}
	for len(level) > 0 {
		var found, next []string
		for _, typeName := range level {
			if visited[typeName] {
				continue
			}
			visited[typeName] = true

			if r.hasMethod(typeName, name) {
				found = append(found, typeName)
				continue
			}
			next = append(next, r.basesOf(typeName)...)
		}

		switch len(found) {
		case 0:
			level = next
		case 1:
			return &MethodInfo{registry: r, owner: found[0], name: name}, true
		default:
			return nil, false
		}
	}

	return nil, false
}

// basesOf returns the embedded types of typeName. The caller must hold at least a read lock.
func (r *Registry) basesOf(typeName string) []string {
	if entry, exists := r.types[typeName]; exists {
		return entry.bases
	}
	return nil
}

// MethodInfo is the metadata handle of a declared method
type MethodInfo struct {
	registry *Registry
	owner    string
	name     string
}

// Name returns the method name
func (m *MethodInfo) Name() string { return m.name }

// Owner returns the type that declares the method, which differs from the
// looked-up type for promoted methods
func (m *MethodInfo) Owner() string { return m.owner }

// Site returns the declaration site of the method
func (m *MethodInfo) Site() Site { return MethodSite(m.owner, m.name) }

// Annotations returns the annotations of schemaName attached to this method
// declaration only. Annotations on the owning type are never included.
func (m *MethodInfo) Annotations(schemaName string) []Annotation {
	m.registry.mu.RLock()
	defer m.registry.mu.RUnlock()

	return m.registry.collect(m.Site(), schemaName)
}

// OfType keeps the annotations whose concrete type is T, preserving order
func OfType[T Annotation](annotations []Annotation) []T {
	result := make([]T, 0, len(annotations))
	for _, annotation := range annotations {
		if typed, ok := annotation.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

// Authors returns the Author annotations of a type, including inherited ones
func Authors(t *TypeInfo) []Author {
	return OfType[Author](t.Annotations(AuthorAnnotationName, true))
}

// MethodAuthors returns the Author annotations declared on a method
func MethodAuthors(m *MethodInfo) []Author {
	return OfType[Author](m.Annotations(AuthorAnnotationName))
}
