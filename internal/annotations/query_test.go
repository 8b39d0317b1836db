package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAuthorRegistry returns a registry with the builtin schemas and MyClass/MyMethod declared
func newAuthorRegistry(t *testing.T) *Registry {
	t.Helper()

	registry := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(registry))
	require.NoError(t, registry.DeclareType("MyClass"))
	require.NoError(t, registry.DeclareMethod("MyClass", "MyMethod"))
	return registry
}

func authorNames(authors []Author) []string {
	names := make([]string, 0, len(authors))
	for _, author := range authors {
		names = append(names, author.Name())
	}
	return names
}

func TestTypeAnnotations(t *testing.T) {
	registry := newAuthorRegistry(t)
	require.NoError(t, registry.Attach(TypeSite("MyClass"), MustAuthor("Alice", WithVersion("1.0"))))
	require.NoError(t, registry.Attach(TypeSite("MyClass"), MustAuthor("Bob")))
	require.NoError(t, registry.Attach(MethodSite("MyClass", "MyMethod"), MustAuthor("Carol", WithVersion("2.1"))))

	typeInfo, ok := registry.LookupType("MyClass")
	require.True(t, ok)
	assert.Equal(t, "MyClass", typeInfo.Name())
	assert.Equal(t, TypeTarget, typeInfo.Kind())
	assert.Equal(t, []string{"MyMethod"}, typeInfo.Methods())

	authors := Authors(typeInfo)
	require.Len(t, authors, 2)

	assert.Equal(t, "Alice", authors[0].Name())
	version, ok := authors[0].Version()
	assert.True(t, ok)
	assert.Equal(t, "1.0", version)

	assert.Equal(t, "Bob", authors[1].Name())
	_, ok = authors[1].Version()
	assert.False(t, ok, "Bob has no version recorded")

	t.Run("method annotations exclude the class", func(t *testing.T) {
		method, ok := typeInfo.Method("MyMethod")
		require.True(t, ok)
		assert.Equal(t, "MyMethod", method.Name())
		assert.Equal(t, "MyClass", method.Owner())
		assert.Equal(t, "MyClass.MyMethod", method.Site().String())

		methodAuthors := MethodAuthors(method)
		require.Len(t, methodAuthors, 1)
		assert.Equal(t, "Carol", methodAuthors[0].Name())
		version, ok := methodAuthors[0].Version()
		assert.True(t, ok)
		assert.Equal(t, "2.1", version)
	})

	t.Run("repeated queries are equivalent", func(t *testing.T) {
		first := typeInfo.Annotations(AuthorAnnotationName, true)
		second := typeInfo.Annotations(AuthorAnnotationName, true)
		assert.Equal(t, first, second)

		// Mutating a result must not affect the registry
		first[0] = MustAuthor("Mallory")
		assert.Equal(t, []string{"Alice", "Bob"}, authorNames(Authors(typeInfo)))
	})
}

func TestLookupMissing(t *testing.T) {
	registry := newAuthorRegistry(t)

	_, ok := registry.LookupType("Unknown")
	assert.False(t, ok)

	typeInfo, ok := registry.LookupType("MyClass")
	require.True(t, ok)

	method, ok := typeInfo.Method("NoSuchMethod")
	assert.False(t, ok)
	assert.Nil(t, method)
}

func TestEmptyAnnotations(t *testing.T) {
	registry := newAuthorRegistry(t)

	typeInfo, ok := registry.LookupType("MyClass")
	require.True(t, ok)
	assert.Empty(t, Authors(typeInfo))

	method, ok := typeInfo.Method("MyMethod")
	require.True(t, ok)
	assert.Empty(t, MethodAuthors(method))

	assert.Nil(t, typeInfo.Annotations("Unregistered", true))
}

func TestInheritedAnnotations(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(registry))

	// Derived embeds Middle, which embeds Base
	require.NoError(t, registry.DeclareType("Base"))
	require.NoError(t, registry.DeclareType("Middle", "Base"))
	require.NoError(t, registry.DeclareType("Derived", "Middle", "external.Type"))

	require.NoError(t, registry.Attach(TypeSite("Base"), MustAuthor("Base author")))
	require.NoError(t, registry.Attach(TypeSite("Middle"), MustAuthor("Middle author")))
	require.NoError(t, registry.Attach(TypeSite("Derived"), MustAuthor("Derived author")))

	derived, ok := registry.LookupType("Derived")
	require.True(t, ok)
	assert.Equal(t, []string{"Middle", "external.Type"}, derived.Bases())

	inherited := OfType[Author](derived.Annotations(AuthorAnnotationName, true))
	assert.Equal(t, []string{"Derived author", "Middle author", "Base author"}, authorNames(inherited))

	own := OfType[Author](derived.Annotations(AuthorAnnotationName, false))
	assert.Equal(t, []string{"Derived author"}, authorNames(own))
}

func TestInheritanceCycle(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(registry))
	require.NoError(t, registry.DeclareType("A", "B"))
	require.NoError(t, registry.DeclareType("B", "A"))
	require.NoError(t, registry.Attach(TypeSite("A"), MustAuthor("a")))
	require.NoError(t, registry.Attach(TypeSite("B"), MustAuthor("b")))

	a, ok := registry.LookupType("A")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, authorNames(Authors(a)))

	_, ok = a.Method("Missing")
	assert.False(t, ok)
}

func TestNonRepeatableInheritance(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterSchema(Schema{
		Name:      "Owner",
		Targets:   []TargetKind{TypeTarget},
		Inherited: true,
		Decode:    noopDecoder,
	}))
	require.NoError(t, registry.DeclareType("Base"))
	require.NoError(t, registry.DeclareType("Derived", "Base"))
	require.NoError(t, registry.Attach(TypeSite("Base"), marker{name: "Owner"}))

	derived, ok := registry.LookupType("Derived")
	require.True(t, ok)
	assert.Len(t, derived.Annotations("Owner", true), 1, "inherited from Base")

	require.NoError(t, registry.Attach(TypeSite("Derived"), marker{name: "Owner"}))
	assert.Len(t, derived.Annotations("Owner", true), 1, "only the most derived instance")
}

func TestPromotedMethods(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(registry))
	require.NoError(t, registry.DeclareType("Left"))
	require.NoError(t, registry.DeclareType("Right"))
	require.NoError(t, registry.DeclareType("Outer", "Left", "Right"))
	require.NoError(t, registry.DeclareMethod("Left", "Shared"))
	require.NoError(t, registry.DeclareMethod("Right", "Shared"))
	require.NoError(t, registry.DeclareMethod("Left", "OnlyLeft"))
	require.NoError(t, registry.Attach(MethodSite("Left", "OnlyLeft"), MustAuthor("Lefty")))
	require.NoError(t, registry.Attach(TypeSite("Left"), MustAuthor("Class author")))

	outer, ok := registry.LookupType("Outer")
	require.True(t, ok)

	t.Run("promoted", func(t *testing.T) {
		method, ok := outer.Method("OnlyLeft")
		require.True(t, ok)
		assert.Equal(t, "Left", method.Owner())
		assert.Equal(t, []string{"Lefty"}, authorNames(MethodAuthors(method)))
	})

	t.Run("ambiguous", func(t *testing.T) {
		_, ok := outer.Method("Shared")
		assert.False(t, ok)
	})

	t.Run("own method shadows promoted", func(t *testing.T) {
		require.NoError(t, registry.DeclareMethod("Outer", "Shared"))
		method, ok := outer.Method("Shared")
		require.True(t, ok)
		assert.Equal(t, "Outer", method.Owner())
		assert.Empty(t, MethodAuthors(method))
	})
}

func TestOfType(t *testing.T) {
	mixed := []Annotation{
		MustAuthor("Alice"),
		marker{name: "Other"},
		MustAuthor("Bob"),
	}

	assert.Equal(t, []string{"Alice", "Bob"}, authorNames(OfType[Author](mixed)))
	assert.Len(t, OfType[marker](mixed), 1)
	assert.Empty(t, OfType[Author](nil))
}
