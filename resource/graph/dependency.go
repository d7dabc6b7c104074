package graph

import "github.com/zclconf/go-cty/cty"

// A Dependency binds an input field of a resource to an expression that is
// resolved from the outputs of other resources.
type Dependency struct {
	// Field is the path to the dependent field, relative to the resource's
	// input object.
	Field cty.Path

	// Expression is the value of the field. Any number of its parts may
	// reference other resources or the pseudo root.
	Expression Expression
}

// Parents returns the names of the referenced resources, in the order they
// are first referenced. The pseudo root is included if referenced.
func (d Dependency) Parents() []string {
	var names []string
	seen := make(map[string]bool)
	for _, ref := range d.Expression.References() {
		name := ref[0].(cty.GetAttrStep).Name
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Resources is like Parents but excludes the pseudo root.
func (d Dependency) Resources() []string {
	var names []string
	for _, p := range d.Parents() {
		if p != PseudoRoot {
			names = append(names, p)
		}
	}
	return names
}
