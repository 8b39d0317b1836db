package catalog

// MyClass is the annotated type printed by the authors command.
//
// attr::Author "Alice" -Version="1.0"
// attr::Author "Bob"
type MyClass struct{}

// MyMethod carries its own authorship, separate from MyClass.
//
// attr::Author "Carol" -Version="2.1"
func (c *MyClass) MyMethod() {}
