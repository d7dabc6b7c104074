package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// A Field is an exported field of a resource definition struct.
type Field struct {
	Name     string            // Go field name.
	Index    int               // Index in the struct.
	Type     reflect.Type      // Go field type.
	Required bool              // stack:"input,required"
	Tags     map[string]string // Values of the cfn and validate tags.

	functag string // input or output
}

// Struct tags copied to Field.Tags.
var extraTags = []string{"cfn", "validate"}

// PropertyName returns the CloudFormation property name of the field: the cfn
// tag if set, otherwise the Go field name.
func (f Field) PropertyName() string {
	if n, ok := f.Tags["cfn"]; ok {
		return n
	}
	return f.Name
}

// A FieldSet holds fields by schema name.
type FieldSet map[string]Field

// Inputs returns the fields tagged stack:"input".
func (ff FieldSet) Inputs() FieldSet { return ff.with("input") }

// Outputs returns the fields tagged stack:"output".
func (ff FieldSet) Outputs() FieldSet { return ff.with("output") }

func (ff FieldSet) with(functag string) FieldSet {
	out := FieldSet{}
	for name, f := range ff {
		if f.functag == functag {
			out[name] = f
		}
	}
	return out
}

// Names returns the sorted schema names.
func (ff FieldSet) Names() []string {
	names := make([]string, 0, len(ff))
	for name := range ff {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CtyType returns the object type of the field set. Nested structs are
// included deeply. Interface fields have no cty type and are left out.
//
// Panics if a field cannot be converted, see ImpliedType.
func (ff FieldSet) CtyType() cty.Type {
	attrs := map[string]cty.Type{}
	for name, f := range ff {
		if f.Type.Kind() != reflect.Interface {
			attrs[name] = ImpliedType(f.Type)
		}
	}
	return cty.Object(attrs)
}

// Fields returns the exported fields of a struct type, or of the struct a
// pointer type points to. The set includes inputs, outputs and untagged
// fields; use Inputs or Outputs to narrow it down.
//
// Fields are named with FieldName: VpcID becomes vpc_id unless a name tag
// overrides it.
//
// Panics if target is not a struct, or on a malformed stack tag.
func Fields(target reflect.Type) FieldSet {
	t := target
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("%s is not a struct", target))
	}
	set := make(FieldSet, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := FieldName(sf)
		if name == "" {
			continue
		}
		f := Field{Name: sf.Name, Index: i, Type: sf.Type}
		if st, ok := sf.Tag.Lookup("stack"); ok {
			f.functag, f.Required = stackTag(sf.Name, st)
		}
		for _, key := range extraTags {
			if v, ok := sf.Tag.Lookup(key); ok {
				if f.Tags == nil {
					f.Tags = map[string]string{}
				}
				f.Tags[key] = v
			}
		}
		set[name] = f
	}
	return set
}

// stackTag parses input, input,required and output.
func stackTag(field, tag string) (functag string, required bool) {
	switch tag {
	case "input", "output":
		return tag, false
	case "input,required":
		return "input", true
	}
	if strings.HasPrefix(tag, "input,") || strings.HasPrefix(tag, "output,") {
		panic(fmt.Sprintf("%s: unsupported stack tag attribute in %q", field, tag))
	}
	panic(fmt.Sprintf("%s: unsupported stack tag %q", field, tag))
}
