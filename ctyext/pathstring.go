package ctyext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// PathString formats a path the way it is written in configuration:
//
//   container_definitions[0].environment["COLOR"]
//
// Paths that start with an index step start with the brackets.
func PathString(path cty.Path) string {
	var sb strings.Builder
	for i, step := range path {
		switch s := step.(type) {
		case cty.GetAttrStep:
			if i > 0 {
				sb.WriteString(".")
			}
			sb.WriteString(s.Name)
		case cty.IndexStep:
			sb.WriteString("[" + indexKey(s.Key) + "]")
		default:
			panic(fmt.Sprintf("unsupported path step %T", step))
		}
	}
	return sb.String()
}

func indexKey(key cty.Value) string {
	if key.Type() == cty.Number {
		n, _ := key.AsBigFloat().Int64()
		return strconv.FormatInt(n, 10)
	}
	return strconv.Quote(key.AsString())
}

// ParsePathString parses a path produced by PathString.
//
// The first step must be an attribute name. An empty string returns an empty
// path.
func ParsePathString(str string) (cty.Path, error) {
	if str == "" {
		return cty.Path{}, nil
	}
	trav, diags := hclsyntax.ParseTraversalAbs([]byte(str), "", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, errors.Errorf("parse path %q: %s", str, diags.Error())
	}
	return TraversalPath(trav)
}

// TraversalPath converts a HCL traversal to a path. Only root, attribute and
// index steps are supported.
func TraversalPath(trav hcl.Traversal) (cty.Path, error) {
	path := make(cty.Path, 0, len(trav))
	for _, step := range trav {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			path = append(path, cty.GetAttrStep{Name: s.Name})
		case hcl.TraverseAttr:
			path = append(path, cty.GetAttrStep{Name: s.Name})
		case hcl.TraverseIndex:
			path = append(path, cty.IndexStep{Key: s.Key})
		default:
			return nil, errors.Errorf("traversal step %T not supported", step)
		}
	}
	return path, nil
}

// PathEquals reports whether two paths contain the same steps.
func PathEquals(a, b cty.Path) bool {
	return PathString(a) == PathString(b)
}
