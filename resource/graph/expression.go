package graph

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/meshstack/meshstack/ctyext"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// An Expression is the value of a resource field or a stack output, made of
// literal parts and references to resource attributes. The string
// "arn:${aws.partition}:s3:::${bucket.ref}" is an expression of four parts.
//
// Only ExprLiteral and ExprReference implement exprPart.
type Expression []exprPart

type exprPart interface{ isExpr() }

// ExprLiteral is a static part of an expression.
type ExprLiteral struct {
	Value cty.Value
}

// ExprReference refers to an attribute of a resource. The first step of the
// path is the resource name, or PseudoRoot for pseudo parameters.
type ExprReference struct {
	Path cty.Path
}

func (ExprLiteral) isExpr()   {}
func (ExprReference) isExpr() {}

// References returns the paths of all references, in order.
func (expr Expression) References() []cty.Path {
	var refs []cty.Path
	for _, e := range expr {
		if ref, ok := e.(ExprReference); ok {
			refs = append(refs, ref.Path)
		}
	}
	return refs
}

// IsLiteral reports whether the expression has no references.
func (expr Expression) IsLiteral() bool {
	return len(expr.References()) == 0
}

// Value evaluates the expression. References are looked up in vars, keyed by
// resource name. A nil vars is fine for literal expressions.
//
// An expression of one part evaluates to that part, keeping its type. Longer
// expressions are concatenated into a string; every part must then convert
// to a string. If any part of a longer expression is not yet known, the
// result is an unknown string. An empty expression evaluates to cty.NilVal.
func (expr Expression) Value(vars map[string]cty.Value) (cty.Value, error) {
	if len(expr) == 0 {
		return cty.NilVal, nil
	}
	vals := make([]cty.Value, len(expr))
	for i, e := range expr {
		v, err := evalPart(e, vars)
		if err != nil {
			return cty.NilVal, err
		}
		vals[i] = v
	}
	if len(vals) == 1 {
		return vals[0], nil
	}
	return concat(vals)
}

func evalPart(e exprPart, vars map[string]cty.Value) (cty.Value, error) {
	switch p := e.(type) {
	case ExprLiteral:
		return p.Value, nil
	case ExprReference:
		v, err := p.Path.Apply(cty.ObjectVal(vars))
		if err != nil {
			return cty.NilVal, errors.Wrapf(err, "resolve %s", ctyext.PathString(p.Path))
		}
		return v, nil
	}
	panic(fmt.Sprintf("unsupported expression part %T", e))
}

func concat(vals []cty.Value) (cty.Value, error) {
	var sb strings.Builder
	for i, v := range vals {
		if !v.IsWhollyKnown() {
			return cty.UnknownVal(cty.String), nil
		}
		s, err := stringPart(v)
		if err != nil {
			return cty.NilVal, errors.Wrapf(err, "part %d", i)
		}
		sb.WriteString(s)
	}
	return cty.StringVal(sb.String()), nil
}

// stringPart converts a known value to the string it contributes to a
// template. Null values and collections have no string form.
func stringPart(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", errors.New("value is null")
	}
	if !v.Type().IsPrimitiveType() {
		return "", errors.Errorf("%s value cannot be used in a string template", v.Type().FriendlyName())
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	return s.AsString(), nil
}

// MergeLiterals returns an equivalent expression where runs of consecutive
// literals are joined into a single string literal. A single literal is
// returned as is, keeping its type.
//
// An error is returned if a literal in a run has no string form, such as a
// null or a list.
func (expr Expression) MergeLiterals() (Expression, error) {
	if len(expr) <= 1 {
		return expr, nil
	}
	var out Expression
	var run []cty.Value
	flush := func() error {
		switch len(run) {
		case 0:
			return nil
		case 1:
			out = append(out, ExprLiteral{Value: run[0]})
		default:
			v, err := concat(run)
			if err != nil {
				return err
			}
			out = append(out, ExprLiteral{Value: v})
		}
		run = nil
		return nil
	}
	for _, e := range expr {
		if lit, ok := e.(ExprLiteral); ok {
			run = append(run, lit.Value)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

var exprCmpOpts = []cmp.Option{
	cmp.Transformer("GoString", func(v cty.Value) string { return v.GoString() }),
	cmp.Transformer("Name", func(v cty.GetAttrStep) string { return v.Name }),
	cmp.Transformer("GoString", func(v cty.IndexStep) string { return v.GoString() }),
}

// Equals reports whether both expressions have the same parts.
func (expr Expression) Equals(other Expression) bool {
	return cmp.Equal(expr, other, exprCmpOpts...)
}

// String formats the expression in template syntax. Literal "${" sequences
// are escaped as "$${".
func (expr Expression) String() string {
	var sb strings.Builder
	for _, e := range expr {
		switch p := e.(type) {
		case ExprLiteral:
			sb.WriteString(literalString(p.Value))
		case ExprReference:
			sb.WriteString("${" + ctyext.PathString(p.Path) + "}")
		}
	}
	return sb.String()
}

func literalString(v cty.Value) string {
	if !v.IsWhollyKnown() || v.IsNull() {
		return v.GoString()
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return v.GoString()
	}
	return strings.Replace(s.AsString(), "${", "$${", -1)
}
