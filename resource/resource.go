// Package resource contains the building blocks for declaring cloud
// resources: definitions, registered types and resource instances.
package resource

import (
	"github.com/zclconf/go-cty/cty"
)

// A Definition describes a resource type.
//
// All resources must implement this interface. Definitions are structs whose
// fields carry schema struct tags, see package schema.
type Definition interface {
	// Type returns the type name for the resource.
	//
	// The name is used for matching the resource to the resource
	// configuration provided by the user.
	Type() string
}

// A Resource is an instance of a resource declared by the user.
type Resource struct {
	Name string // Name is unique within a stack.
	Type string // Type is the registered type name.

	// Input contains the input values for the resource. The value is an
	// object conforming to the input fields of the resource definition.
	// Values that are resolved from other resources are unknown.
	Input cty.Value

	// Deps contains explicitly declared dependencies, by resource name.
	// Dependencies implied by references in inputs are not included.
	Deps []string
}
