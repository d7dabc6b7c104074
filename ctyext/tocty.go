package ctyext

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// A FieldNameFunc returns the attribute name to use for a struct field. An
// empty name excludes the field.
type FieldNameFunc func(field reflect.StructField) string

// ToCtyValue converts a resource definition, or any part of one, to a value
// of type ty.
//
// Struct fields are matched to object attributes by fieldName; attributes
// without a matching field are null. Nil pointers, slices and maps become
// nulls, while empty slices and maps become empty collections. Errors are
// PathErrors pointing at the offending value.
func ToCtyValue(val interface{}, ty cty.Type, fieldName FieldNameFunc) (cty.Value, error) {
	c := converter{fieldName: fieldName}
	return c.convert(reflect.ValueOf(val), ty, nil)
}

type converter struct {
	fieldName FieldNameFunc
}

func mismatch(path cty.Path, val reflect.Value, want string) error {
	return WithPath(path, fmt.Errorf("value is %s, not %s", val.Kind(), want))
}

func (c converter) convert(val reflect.Value, ty cty.Type, path cty.Path) (cty.Value, error) {
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return cty.NullVal(ty), nil
		}
		val = val.Elem()
	}
	if !val.IsValid() {
		return cty.NullVal(ty), nil
	}

	switch {
	case ty == cty.Bool:
		if val.Kind() != reflect.Bool {
			return cty.NilVal, mismatch(path, val, "bool")
		}
		return cty.BoolVal(val.Bool()), nil
	case ty == cty.String:
		if val.Kind() != reflect.String {
			return cty.NilVal, mismatch(path, val, "string")
		}
		return cty.StringVal(val.String()), nil
	case ty == cty.Number:
		return number(val, path)
	case ty.IsListType():
		return c.list(val, ty.ElementType(), path)
	case ty.IsMapType():
		return c.mapping(val, ty.ElementType(), path)
	case ty.IsObjectType():
		return c.object(val, ty.AttributeTypes(), path)
	}
	return cty.NilVal, WithPath(path, fmt.Errorf("cannot convert to %s", ty.FriendlyName()))
}

func number(val reflect.Value, path cty.Path) (cty.Value, error) {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cty.NumberIntVal(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cty.NumberUIntVal(val.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return cty.NumberFloatVal(val.Float()), nil
	}
	return cty.NilVal, mismatch(path, val, "number")
}

func (c converter) list(val reflect.Value, ety cty.Type, path cty.Path) (cty.Value, error) {
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		return cty.NilVal, mismatch(path, val, "list")
	}
	if val.Kind() == reflect.Slice && val.IsNil() {
		return cty.NullVal(cty.List(ety)), nil
	}
	n := val.Len()
	if n == 0 {
		return cty.ListValEmpty(ety), nil
	}
	elems := make([]cty.Value, 0, n)
	for i := 0; i < n; i++ {
		p := path.Copy().Index(cty.NumberIntVal(int64(i)))
		v, err := c.convert(val.Index(i), ety, p)
		if err != nil {
			return cty.NilVal, err
		}
		elems = append(elems, v)
	}
	return cty.ListVal(elems), nil
}

func (c converter) mapping(val reflect.Value, ety cty.Type, path cty.Path) (cty.Value, error) {
	switch {
	case val.Kind() != reflect.Map:
		return cty.NilVal, mismatch(path, val, "map")
	case val.IsNil():
		return cty.NullVal(cty.Map(ety)), nil
	case val.Len() == 0:
		return cty.MapValEmpty(ety), nil
	case val.Type().Key().Kind() != reflect.String:
		return cty.NilVal, WithPath(path, fmt.Errorf("map key type must be string, not %s", val.Type().Key()))
	}
	elems := make(map[string]cty.Value, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		v, err := c.convert(iter.Value(), ety, path.Copy().Index(cty.StringVal(k)))
		if err != nil {
			return cty.NilVal, err
		}
		elems[k] = v
	}
	return cty.MapVal(elems), nil
}

func (c converter) object(val reflect.Value, attrs map[string]cty.Type, path cty.Path) (cty.Value, error) {
	if val.Kind() != reflect.Struct {
		return cty.NilVal, mismatch(path, val, "struct")
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal, nil
	}

	fields := make(map[string]reflect.Value, len(attrs))
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.PkgPath == "" {
			if name := c.fieldName(f); name != "" {
				fields[name] = val.Field(i)
			}
		}
	}

	obj := make(map[string]cty.Value, len(attrs))
	for name, aty := range attrs {
		fv, ok := fields[name]
		if !ok {
			obj[name] = cty.NullVal(aty)
			continue
		}
		v, err := c.convert(fv, aty, path.Copy().GetAttr(name))
		if err != nil {
			return cty.NilVal, err
		}
		obj[name] = v
	}
	return cty.ObjectVal(obj), nil
}
