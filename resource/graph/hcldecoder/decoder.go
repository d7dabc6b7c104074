package hcldecoder

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/meshstack/meshstack/ctyext"
	"github.com/meshstack/meshstack/resource"
	"github.com/meshstack/meshstack/resource/graph"
	"github.com/meshstack/meshstack/resource/graph/hclexpr"
	"github.com/meshstack/meshstack/resource/schema"
	"github.com/meshstack/meshstack/suggest"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"go.uber.org/multierr"
)

// A ResourceRegistry is used for matching resource type names to resource
// implementations.
type ResourceRegistry interface {
	Type(typename string) reflect.Type
	Typenames() []string
}

// A Stack is a decoded stack block.
type Stack struct {
	Name        string
	Description string
	Graph       *graph.Graph
	DefRange    hcl.Range
}

// Decoder decodes stack configuration files.
type Decoder struct {
	Resources ResourceRegistry
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "stack", LabelNames: []string{"name"}},
	},
}

var stackSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "resource", LabelNames: []string{"type", "name"}},
		{Type: "output", LabelNames: []string{"name"}},
	},
}

var outputSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "value", Required: true},
		{Name: "description"},
	},
}

// DecodeBody decodes all stacks declared in the body. The stacks are returned
// in the order they were declared.
//
// Within a stack, references to other resources become dependencies in the
// stack's graph. References to inputs of other resources are resolved
// statically where possible, so that
//
//   name = "${mesh.mesh_name}-gateway"
//
// receives the mesh name as a literal value when mesh_name is set on the
// mesh. References anywhere inside object or tuple values are supported, the
// dependency is added for the nested field.
//
// Inputs that are known after decoding are validated against the rules of
// the resource type.
func (d *Decoder) DecodeBody(body hcl.Body) ([]*Stack, hcl.Diagnostics) {
	cont, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	var stacks []*Stack // nolint: prealloc
	seen := make(map[string]*Stack)
	for _, b := range cont.Blocks {
		name := b.Labels[0]
		if !hclsyntax.ValidIdentifier(name) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid stack name",
				Detail:   "A stack name must start with a letter and may contain letters, digits, underscores and dashes.",
				Subject:  b.LabelRanges[0].Ptr(),
			})
			continue
		}
		if prev, ok := seen[name]; ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate stack",
				Detail: fmt.Sprintf(
					"Another stack %q was defined in %s on line %d.",
					name, prev.DefRange.Filename, prev.DefRange.Start.Line,
				),
				Subject: b.DefRange.Ptr(),
			})
			continue
		}
		s, morediags := d.decodeStack(b)
		diags = append(diags, morediags...)
		seen[name] = s
		stacks = append(stacks, s)
	}
	return stacks, diags
}

// pending is a decoded resource that has not yet been added to the graph.
type pending struct {
	res      *resource.Resource
	typ      reflect.Type
	fields   schema.FieldSet
	outputs  schema.FieldSet
	defRange hcl.Range
	attrs    hcl.Attributes
	deps     []*dependency
}

type dependency struct {
	graph.Dependency
	rng hcl.Range
}

func (d *Decoder) decodeStack(block *hcl.Block) (*Stack, hcl.Diagnostics) {
	s := &Stack{
		Name:     block.Labels[0],
		Graph:    graph.New(),
		DefRange: block.DefRange,
	}
	cont, diags := block.Body.Content(stackSchema)
	if attr, ok := cont.Attributes["description"]; ok {
		v, morediags := attr.Expr.Value(nil)
		diags = append(diags, morediags...)
		if !morediags.HasErrors() {
			if str, err := convert.Convert(v, cty.String); err == nil && !str.IsNull() {
				s.Description = str.AsString()
			}
		}
	}

	resources := make(map[string]*pending)
	var order []string
	var outputs []*hcl.Block
	for _, b := range cont.Blocks {
		switch b.Type {
		case "resource":
			p, morediags := d.decodeResource(b)
			diags = append(diags, morediags...)
			if p == nil {
				continue
			}
			if prev, ok := resources[p.res.Name]; ok {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate resource",
					Detail: fmt.Sprintf(
						"Another resource %q was defined in %s on line %d.",
						p.res.Name, prev.defRange.Filename, prev.defRange.Start.Line,
					),
					Subject: b.DefRange.Ptr(),
				})
				continue
			}
			resources[p.res.Name] = p
			order = append(order, p.res.Name)
		case "output":
			outputs = append(outputs, b)
		}
	}

	diags = append(diags, resolveInputs(resources)...)

	for _, name := range order {
		p := resources[name]
		if err := s.Graph.AddResource(p.res); err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid resource",
				Detail:   capitalize(err.Error()) + ".",
				Subject:  p.defRange.Ptr(),
			})
			continue
		}
		diags = append(diags, validate(p)...)
	}
	for _, name := range order {
		p := resources[name]
		if _, ok := s.Graph.Resources[name]; !ok {
			continue
		}
		for _, dep := range p.deps {
			if morediags := checkRefs(dep.Expression, resources, dep.rng); morediags.HasErrors() {
				diags = append(diags, morediags...)
				continue
			}
			if err := s.Graph.AddDependency(name, dep.Dependency); err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid reference",
					Detail:   capitalize(err.Error()) + ".",
					Subject:  dep.rng.Ptr(),
				})
			}
		}
	}

	for _, b := range outputs {
		diags = append(diags, d.decodeOutput(b, s.Graph, resources)...)
	}

	return s, diags
}

func (d *Decoder) decodeResource(block *hcl.Block) (*pending, hcl.Diagnostics) {
	typename, name := block.Labels[0], block.Labels[1]
	if name == "" {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Resource name not set",
			Subject:  block.LabelRanges[1].Ptr(),
			Context:  block.DefRange.Ptr(),
		}}
	}

	t := d.Resources.Type(typename)
	if t == nil {
		diag := &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Resource not supported",
			Detail:   fmt.Sprintf("Resource type %q is not supported.", typename),
			Subject:  block.LabelRanges[0].Ptr(),
		}
		if s := suggest.DidYouMean(typename, d.Resources.Typenames()); s != "" {
			diag.Detail += " " + s
		}
		return nil, hcl.Diagnostics{diag}
	}

	all := schema.Fields(t)
	fields := all.Inputs()
	bodySchema := &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "depends_on"}},
	}
	for _, n := range fields.Names() {
		bodySchema.Attributes = append(bodySchema.Attributes, hcl.AttributeSchema{Name: n})
	}

	cont, remain, diags := block.Body.PartialContent(bodySchema)
	extra, morediags := remain.JustAttributes()
	diags = append(diags, morediags...)
	for _, attr := range sortedAttrs(extra) {
		diag := &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported argument",
			Detail:   fmt.Sprintf("An argument named %q is not expected in %s.", attr.Name, typename),
			Subject:  attr.NameRange.Ptr(),
		}
		if s := suggest.DidYouMean(attr.Name, fields.Names()); s != "" {
			diag.Detail += " " + s
		}
		diags = append(diags, diag)
	}

	p := &pending{
		res:      &resource.Resource{Name: name, Type: typename},
		typ:      t,
		fields:   fields,
		outputs:  all.Outputs(),
		defRange: block.DefRange,
		attrs:    cont.Attributes,
	}

	if attr, ok := cont.Attributes["depends_on"]; ok {
		deps, morediags := decodeDependsOn(attr)
		diags = append(diags, morediags...)
		p.res.Deps = deps
	}

	inputs := make(map[string]cty.Value, len(fields))
	for _, n := range fields.Names() {
		ty := schema.ImpliedType(fields[n].Type)
		attr, ok := cont.Attributes[n]
		if !ok {
			inputs[n] = cty.NullVal(ty)
			continue
		}
		v, deps, morediags := decodeValue(attr.Expr, ty, cty.GetAttrPath(n))
		diags = append(diags, morediags...)
		inputs[n] = v
		for _, dep := range deps {
			p.deps = append(p.deps, &dependency{Dependency: dep, rng: attr.Expr.Range()})
		}
	}
	p.res.Input = cty.ObjectVal(inputs)

	return p, diags
}

func decodeDependsOn(attr *hcl.Attribute) ([]string, hcl.Diagnostics) {
	exprs, diags := hcl.ExprList(attr.Expr)
	if diags.HasErrors() {
		return nil, diags
	}
	seen := make(map[string]struct{}, len(exprs))
	out := make([]string, 0, len(exprs))
	for _, ex := range exprs {
		name := hcl.ExprAsKeyword(ex)
		if name == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid dependency",
				Detail:   "A dependency must be the name of another resource.",
				Subject:  ex.Range().Ptr(),
			})
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, diags
}

// decodeValue decodes an expression into a value of the given type. Parts of
// the value that contain references are returned as unknown values, with a
// dependency for each of them.
func decodeValue(expr hcl.Expression, ty cty.Type, path cty.Path) (cty.Value, []graph.Dependency, hcl.Diagnostics) { // nolint: lll
	if len(expr.Variables()) == 0 {
		v, diags := expr.Value(nil)
		if diags.HasErrors() {
			return cty.UnknownVal(ty), nil, diags
		}
		conv, err := convert.Convert(v, ty)
		if err != nil {
			return cty.UnknownVal(ty), nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Unsuitable value type",
				Detail:   fmt.Sprintf("The value must be %s: %v.", ty.FriendlyName(), err),
				Subject:  expr.Range().Ptr(),
			}}
		}
		return conv, nil, nil
	}

	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		if ty.IsObjectType() || ty.IsMapType() {
			return decodeObject(e, ty, path)
		}
	case *hclsyntax.TupleConsExpr:
		if ty.IsListType() {
			return decodeTuple(e, ty, path)
		}
	}

	ex, err := hclexpr.Convert(expr)
	if err != nil {
		return cty.UnknownVal(ty), nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported expression",
			Detail:   fmt.Sprintf("Only references and string templates may refer to other resources: %v.", err),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return cty.UnknownVal(ty), []graph.Dependency{{Field: path, Expression: ex}}, nil
}

func decodeObject(e *hclsyntax.ObjectConsExpr, ty cty.Type, path cty.Path) (cty.Value, []graph.Dependency, hcl.Diagnostics) { // nolint: lll
	var deps []graph.Dependency
	var diags hcl.Diagnostics
	vals := make(map[string]cty.Value, len(e.Items))
	for _, item := range e.Items {
		key := hcl.ExprAsKeyword(item.KeyExpr)
		if key == "" {
			kv, morediags := item.KeyExpr.Value(nil)
			diags = append(diags, morediags...)
			if morediags.HasErrors() {
				continue
			}
			kv, err := convert.Convert(kv, cty.String)
			if err != nil || kv.IsNull() || !kv.IsKnown() {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid key",
					Detail:   "An object key must be a string.",
					Subject:  item.KeyExpr.Range().Ptr(),
				})
				continue
			}
			key = kv.AsString()
		}

		var attrType cty.Type
		if ty.IsMapType() {
			attrType = ty.ElementType()
		} else {
			if !ty.HasAttribute(key) {
				names := make([]string, 0, len(ty.AttributeTypes()))
				for n := range ty.AttributeTypes() {
					names = append(names, n)
				}
				diag := &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unsupported attribute",
					Detail:   fmt.Sprintf("An attribute named %q is not expected here.", key),
					Subject:  item.KeyExpr.Range().Ptr(),
				}
				if s := suggest.DidYouMean(key, names); s != "" {
					diag.Detail += " " + s
				}
				diags = append(diags, diag)
				continue
			}
			attrType = ty.AttributeType(key)
		}

		v, moredeps, morediags := decodeValue(item.ValueExpr, attrType, append(path.Copy(), cty.GetAttrStep{Name: key}))
		diags = append(diags, morediags...)
		deps = append(deps, moredeps...)
		vals[key] = v
	}

	if ty.IsMapType() {
		if len(vals) == 0 {
			return cty.MapValEmpty(ty.ElementType()), deps, diags
		}
		// Map values are addressed by index, not attribute.
		for i := range deps {
			deps[i].Field = mapPath(deps[i].Field, len(path))
		}
		return cty.MapVal(vals), deps, diags
	}
	for n, at := range ty.AttributeTypes() {
		if _, ok := vals[n]; !ok {
			vals[n] = cty.NullVal(at)
		}
	}
	return cty.ObjectVal(vals), deps, diags
}

// mapPath converts the attribute step at index i to an index step.
func mapPath(p cty.Path, i int) cty.Path {
	out := p.Copy()
	if attr, ok := out[i].(cty.GetAttrStep); ok {
		out[i] = cty.IndexStep{Key: cty.StringVal(attr.Name)}
	}
	return out
}

func decodeTuple(e *hclsyntax.TupleConsExpr, ty cty.Type, path cty.Path) (cty.Value, []graph.Dependency, hcl.Diagnostics) { // nolint: lll
	if len(e.Exprs) == 0 {
		return cty.ListValEmpty(ty.ElementType()), nil, nil
	}
	var deps []graph.Dependency
	var diags hcl.Diagnostics
	vals := make([]cty.Value, len(e.Exprs))
	for i, ex := range e.Exprs {
		v, moredeps, morediags := decodeValue(ex, ty.ElementType(), path.Copy().Index(cty.NumberIntVal(int64(i))))
		diags = append(diags, morediags...)
		deps = append(deps, moredeps...)
		vals[i] = v
	}
	return cty.ListVal(vals), deps, diags
}

// resolveInputs replaces references to inputs of other resources with the
// input's value, or with the expression that sets the input. References to
// outputs are left as-is.
func resolveInputs(resources map[string]*pending) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for pass := 0; pass <= len(resources); pass++ {
		changed := false
		for _, p := range resources {
			var keep []*dependency
			for _, dep := range p.deps {
				expr, ok, morediags := resolveExpr(dep.Expression, resources, dep.rng)
				diags = append(diags, morediags...)
				if morediags.HasErrors() {
					continue
				}
				if ok {
					changed = true
					dep.Expression = expr
				}
				if !dep.Expression.IsLiteral() {
					keep = append(keep, dep)
					continue
				}
				diags = append(diags, setStatic(p, dep)...)
			}
			p.deps = keep
		}
		if !changed {
			break
		}
	}
	return diags
}

// resolveExpr resolves references to inputs. Returns true if the expression
// was modified.
func resolveExpr(expr graph.Expression, resources map[string]*pending, rng hcl.Range) (graph.Expression, bool, hcl.Diagnostics) { // nolint: lll
	var out graph.Expression
	changed := false
	for _, part := range expr {
		ref, ok := part.(graph.ExprReference)
		if !ok || len(ref.Path) < 2 {
			out = append(out, part)
			continue
		}
		root, _ := ref.Path[0].(cty.GetAttrStep)
		attr, isAttr := ref.Path[1].(cty.GetAttrStep)
		parent, found := resources[root.Name]
		if !found || !isAttr || attr.Name == "ref" {
			out = append(out, part)
			continue
		}
		if _, ok := parent.outputs[attr.Name]; ok {
			out = append(out, part)
			continue
		}
		if _, ok := parent.fields[attr.Name]; !ok {
			names := append(parent.fields.Names(), parent.outputs.Names()...)
			names = append(names, "ref")
			diag := &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "No such field",
				Detail:   fmt.Sprintf("Resource %s (%s) does not have a field %q.", root.Name, parent.res.Type, attr.Name),
				Subject:  rng.Ptr(),
			}
			if s := suggest.DidYouMean(attr.Name, names); s != "" {
				diag.Detail += " " + s
			}
			return nil, false, hcl.Diagnostics{diag}
		}

		field := ref.Path[1:]
		if v, err := field.Apply(parent.res.Input); err == nil && v.IsWhollyKnown() {
			if v.IsNull() {
				return nil, false, hcl.Diagnostics{{
					Severity: hcl.DiagError,
					Summary:  "Reference to unset field",
					Detail:   fmt.Sprintf("Field %s is not set on resource %s.", ctyext.PathString(field), root.Name),
					Subject:  rng.Ptr(),
				}}
			}
			out = append(out, graph.ExprLiteral{Value: v})
			changed = true
			continue
		}
		if src := findDep(parent, field); src != nil {
			out = append(out, src.Expression...)
			changed = true
			continue
		}
		out = append(out, part)
	}
	if changed {
		merged, err := out.MergeLiterals()
		if err != nil {
			return nil, false, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid template",
				Detail:   capitalize(err.Error()) + ".",
				Subject:  rng.Ptr(),
			}}
		}
		out = merged
	}
	return out, changed, nil
}

func findDep(p *pending, field cty.Path) *dependency {
	for _, d := range p.deps {
		if ctyext.PathEquals(d.Field, field) {
			return d
		}
	}
	return nil
}

func setStatic(p *pending, dep *dependency) hcl.Diagnostics {
	val, err := dep.Expression.Value(nil)
	if err != nil {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   capitalize(err.Error()) + ".",
			Subject:  dep.rng.Ptr(),
		}}
	}
	var diags hcl.Diagnostics
	input, _ := cty.Transform(p.res.Input, func(path cty.Path, v cty.Value) (cty.Value, error) {
		if !ctyext.PathEquals(path, dep.Field) {
			return v, nil
		}
		conv, err := convert.Convert(val, v.Type())
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsuitable value type",
				Detail:   fmt.Sprintf("The value must be %s: %v.", v.Type().FriendlyName(), err),
				Subject:  dep.rng.Ptr(),
			})
			return v, nil
		}
		return conv, nil
	})
	p.res.Input = input
	return diags
}

func (d *Decoder) decodeOutput(block *hcl.Block, g *graph.Graph, resources map[string]*pending) hcl.Diagnostics {
	cont, diags := block.Body.Content(outputSchema)
	if diags.HasErrors() {
		return diags
	}
	out := &graph.Output{Name: block.Labels[0]}
	if attr, ok := cont.Attributes["description"]; ok {
		var desc cty.Value
		desc, diags = attr.Expr.Value(nil)
		if diags.HasErrors() {
			return diags
		}
		if desc.Type() != cty.String || desc.IsNull() {
			return hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid description",
				Detail:   "The description must be a string.",
				Subject:  attr.Expr.Range().Ptr(),
			}}
		}
		out.Description = desc.AsString()
	}

	attr := cont.Attributes["value"]
	expr, err := hclexpr.Convert(attr.Expr)
	if err != nil {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported expression",
			Detail:   fmt.Sprintf("An output value may only contain references and string templates: %v.", err),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	if diags := checkRefs(expr, resources, attr.Expr.Range()); diags.HasErrors() {
		return diags
	}
	for i := 0; i <= len(resources); i++ {
		resolved, changed, diags := resolveExpr(expr, resources, attr.Expr.Range())
		if diags.HasErrors() {
			return diags
		}
		if !changed {
			break
		}
		expr = resolved
	}
	out.Value = expr
	if err := g.AddOutput(out); err != nil {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid output",
			Detail:   capitalize(err.Error()) + ".",
			Subject:  block.DefRange.Ptr(),
		}}
	}
	return nil
}

func checkRefs(expr graph.Expression, resources map[string]*pending, rng hcl.Range) hcl.Diagnostics {
	for _, name := range (graph.Dependency{Expression: expr}).Resources() {
		if _, ok := resources[name]; ok {
			continue
		}
		names := make([]string, 0, len(resources))
		for k := range resources {
			names = append(names, k)
		}
		sort.Strings(names)
		diag := &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Referenced value not found",
			Detail:   fmt.Sprintf("A resource named %q is not defined.", name),
			Subject:  rng.Ptr(),
		}
		if s := suggest.DidYouMean(name, names); s != "" {
			diag.Detail += " " + s
		}
		return hcl.Diagnostics{diag}
	}
	return nil
}

func validate(p *pending) hcl.Diagnostics {
	var diags hcl.Diagnostics
	err := schema.ValidateValue(p.res.Input, p.typ)
	for _, e := range multierr.Errors(err) {
		subject := p.defRange
		detail := e.Error()
		if perr, ok := e.(ctyext.PathError); ok {
			if attr, ok := p.attrs[rootName(perr.Path)]; ok {
				subject = attr.Expr.Range()
			}
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Validation error",
			Detail:   detail + ".",
			Subject:  subject.Ptr(),
		})
	}
	return diags
}

func rootName(p cty.Path) string {
	if len(p) == 0 {
		return ""
	}
	if attr, ok := p[0].(cty.GetAttrStep); ok {
		return attr.Name
	}
	return ""
}

func sortedAttrs(attrs hcl.Attributes) []*hcl.Attribute {
	out := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NameRange.Start.Byte < out[j].NameRange.Start.Byte
	})
	return out
}

func capitalize(str string) string {
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}
