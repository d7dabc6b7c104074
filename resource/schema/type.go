package schema

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

var primitiveTypes = map[reflect.Kind]cty.Type{
	reflect.Bool:    cty.Bool,
	reflect.String:  cty.String,
	reflect.Int:     cty.Number,
	reflect.Int8:    cty.Number,
	reflect.Int16:   cty.Number,
	reflect.Int32:   cty.Number,
	reflect.Int64:   cty.Number,
	reflect.Uint:    cty.Number,
	reflect.Uint8:   cty.Number,
	reflect.Uint16:  cty.Number,
	reflect.Uint32:  cty.Number,
	reflect.Uint64:  cty.Number,
	reflect.Float32: cty.Number,
	reflect.Float64: cty.Number,
}

// ImpliedType returns the cty type a resource definition field is converted
// to when it is added to a stack.
//
// Pointers are dereferenced, so optional properties have the same type as
// required ones. Nested property structs become objects keyed by the
// snake_case field names returned by Fields; they need no cty struct tags.
// Maps must be keyed by strings, as CloudFormation property maps are.
//
// Panics on kinds that have no cty equivalent, such as functions or channels.
func ImpliedType(t reflect.Type) cty.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if ty, ok := primitiveTypes[t.Kind()]; ok {
		return ty
	}
	switch t.Kind() {
	case reflect.Struct:
		return Fields(t).CtyType()
	case reflect.Slice, reflect.Array:
		return cty.List(ImpliedType(t.Elem()))
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			panic(fmt.Sprintf("map %s: key must be a string", t))
		}
		return cty.Map(ImpliedType(t.Elem()))
	}
	panic(fmt.Sprintf("%s cannot be used as a resource property", t))
}
