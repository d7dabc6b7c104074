package schema

import (
	"reflect"
	"strings"
	"unicode"
)

// FieldName returns the schema name for a struct field: the name tag if set,
// otherwise the field name in snake_case. Unexported fields have no name.
func FieldName(f reflect.StructField) string {
	if f.PkgPath != "" {
		return ""
	}
	return fieldName(f)
}

func fieldName(f reflect.StructField) string {
	if n, ok := f.Tag.Lookup("name"); ok {
		return n
	}
	return snakeCase(f.Name)
}

// snakeCase splits a Go identifier into lower case words. Acronyms stay
// together: VpcID is vpc_id and HTTPRoute is http_route.
func snakeCase(name string) string {
	rr := []rune(name)
	var sb strings.Builder
	for i, r := range rr {
		if i > 0 && unicode.IsUpper(r) && rr[i-1] != '_' {
			prev := rr[i-1]
			wordEnd := unicode.IsLower(prev) || unicode.IsDigit(prev)
			acronymEnd := i+1 < len(rr) && unicode.IsLower(rr[i+1])
			if wordEnd || acronymEnd {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
