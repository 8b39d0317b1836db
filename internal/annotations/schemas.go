package annotations

import "fmt"

// Built-in annotation schemas

// BuiltinSchemas returns every schema shipped with this package
func BuiltinSchemas() []Schema {
	return []Schema{
		AuthorSchema,
	}
}

// RegisterBuiltinSchemas registers all built-in annotation schemas with the provided registry
func RegisterBuiltinSchemas(registry *Registry) error {
	for _, schema := range BuiltinSchemas() {
		if err := registry.RegisterSchema(schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Name, err)
		}
	}
	return nil
}

// EnsureBuiltinSchemas registers the built-in schemas that are not registered yet
func EnsureBuiltinSchemas(registry *Registry) error {
	for _, schema := range BuiltinSchemas() {
		if registry.IsRegistered(schema.Name) {
			continue
		}
		if err := registry.RegisterSchema(schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Name, err)
		}
	}
	return nil
}
