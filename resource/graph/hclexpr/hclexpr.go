// Package hclexpr converts HCL expressions to graph expressions.
package hclexpr

import (
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/hashicorp/hcl2/hclpack"
	"github.com/meshstack/meshstack/ctyext"
	"github.com/meshstack/meshstack/resource/graph"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// Convert converts a HCL expression into a graph expression.
//
// Only simple expressions containing template literals or traversals are
// supported. Function calls, operators and conditionals return an error.
func Convert(input hcl.Expression) (graph.Expression, error) {
	if len(input.Variables()) == 0 {
		val, diags := input.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		return graph.Expression{graph.ExprLiteral{Value: val}}, nil
	}

	if packexpr, ok := input.(*hclpack.Expression); ok {
		ex, diags := packexpr.Parse()
		if diags.HasErrors() {
			return nil, diags
		}
		input = ex
	}

	switch expr := input.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		path, err := ctyext.TraversalPath(expr.Traversal)
		if err != nil {
			return nil, err
		}
		return graph.Expression{graph.ExprReference{Path: path}}, nil
	case *hclsyntax.RelativeTraversalExpr:
		src, err := reference(expr.Source)
		if err != nil {
			return nil, err
		}
		rel, err := ctyext.TraversalPath(expr.Traversal)
		if err != nil {
			return nil, err
		}
		path := append(src.Copy(), rel...)
		return graph.Expression{graph.ExprReference{Path: path}}, nil
	case *hclsyntax.IndexExpr:
		path, err := reference(expr.Collection)
		if err != nil {
			return nil, err
		}
		if len(expr.Key.Variables()) > 0 {
			return nil, errors.New("index key must be a static value")
		}
		key, diags := expr.Key.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		return graph.Expression{graph.ExprReference{Path: path.Copy().Index(key)}}, nil
	case *hclsyntax.TemplateWrapExpr:
		return Convert(expr.Wrapped)
	case *hclsyntax.TemplateExpr:
		var out graph.Expression
		for i, p := range expr.Parts {
			part, err := Convert(p)
			if err != nil {
				return nil, err
			}
			if err := checkTemplatePart(part); err != nil {
				return nil, errors.Wrapf(err, "template part %d", i)
			}
			out = append(out, part...)
		}
		return out.MergeLiterals()
	}

	return nil, errors.Errorf("expression of type %T not supported", input)
}

// checkTemplatePart returns an error if a literal interpolated into a
// template has no string form.
func checkTemplatePart(part graph.Expression) error {
	for _, p := range part {
		lit, ok := p.(graph.ExprLiteral)
		if !ok {
			continue
		}
		switch {
		case lit.Value.IsNull():
			return errors.New("value is null")
		case !lit.Value.Type().IsPrimitiveType():
			return errors.Errorf("%s value cannot be used in a string template", lit.Value.Type().FriendlyName())
		}
	}
	return nil
}

func reference(input hcl.Expression) (cty.Path, error) {
	ex, err := Convert(input)
	if err != nil {
		return nil, err
	}
	if len(ex) != 1 {
		return nil, errors.New("expression is not a reference")
	}
	ref, ok := ex[0].(graph.ExprReference)
	if !ok {
		return nil, errors.New("expression is not a reference")
	}
	return ref.Path, nil
}

// ParseString parses a string that may contain ${name.attr} interpolation
// sequences. A literal "${" is written as "$${".
//
// A string without interpolations is returned as a single literal.
func ParseString(str string) (graph.Expression, error) {
	ex, diags := hclsyntax.ParseTemplate([]byte(str), "", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, errors.Errorf("parse %q: %s", str, diags.Error())
	}
	out, err := Convert(ex)
	if err != nil {
		return nil, errors.Wrapf(err, "convert %q", str)
	}
	return out, nil
}

// HasReferences returns true if the string contains interpolation sequences.
func HasReferences(str string) bool {
	ex, diags := hclsyntax.ParseTemplate([]byte(str), "", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return false
	}
	return len(ex.Variables()) > 0
}
