package template

import (
	"math/big"
	"reflect"
	"sort"

	"github.com/meshstack/meshstack/ctyext"
	"github.com/meshstack/meshstack/resource"
	"github.com/meshstack/meshstack/resource/graph"
	"github.com/meshstack/meshstack/resource/schema"
	"github.com/meshstack/meshstack/suggest"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// A CloudFormationTyper is implemented by resource definitions that can be
// emitted to a template.
type CloudFormationTyper interface {
	// CloudFormationType returns the resource type, such as
	// AWS::ECS::Cluster.
	CloudFormationType() string
}

// A ResourceRegistry is used for matching resource type names to resource
// implementations.
type ResourceRegistry interface {
	Type(typename string) reflect.Type
	Typenames() []string
}

// Options set stack wide values for an emitted template.
type Options struct {
	// StackName is used for computing logical IDs and construct paths.
	StackName   string
	Description string

	// Region and Account, when set, replace references to aws.region and
	// aws.account_id with literal values.
	Region  string
	Account string
}

// PseudoParameters maps the attributes of the pseudo root to CloudFormation
// pseudo parameters. For example, aws.region is emitted as
// {"Ref": "AWS::Region"}.
var PseudoParameters = map[string]string{
	"region":     "AWS::Region",
	"account_id": "AWS::AccountId",
	"partition":  "AWS::Partition",
	"url_suffix": "AWS::URLSuffix",
	"stack_name": "AWS::StackName",
	"stack_id":   "AWS::StackId",
}

// MetadataPathKey is the metadata key that holds a resource's construct path.
const MetadataPathKey = "meshstack:path"

// An Emitter compiles resource graphs into templates.
type Emitter struct {
	Registry ResourceRegistry
	Logger   *zap.Logger
}

func (e *Emitter) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

type emitContext struct {
	ids    map[string]string
	types  map[string]reflect.Type
	pseudo map[string]string
}

// Emit compiles a graph into a template.
//
// Resources are emitted in dependency order. References between resources
// are emitted as intrinsic functions: a reference to name.ref becomes a Ref
// to the resource, a reference to an output becomes Fn::GetAtt and a value
// that mixes literals and references becomes Fn::Join.
//
// Errors for individual resources do not stop the emitter; all errors are
// returned together.
func (e *Emitter) Emit(g *graph.Graph, opts Options) (*Template, error) {
	order, err := g.Sort()
	if err != nil {
		return nil, err
	}

	ctx := &emitContext{
		ids:    make(map[string]string, len(order)),
		types:  make(map[string]reflect.Type, len(order)),
		pseudo: make(map[string]string, 2),
	}
	if opts.Region != "" {
		ctx.pseudo["region"] = opts.Region
	}
	if opts.Account != "" {
		ctx.pseudo["account_id"] = opts.Account
	}
	owners := make(map[string]string, len(order))
	var errs error
	for _, name := range order {
		id := LogicalID(opts.StackName, name)
		if prev, ok := owners[id]; ok {
			errs = multierr.Append(errs, errors.Errorf("resources %q and %q have the same logical id %s", prev, name, id))
			continue
		}
		owners[id] = name
		ctx.ids[name] = id

		typename := g.Resources[name].Type
		t := e.Registry.Type(typename)
		if t == nil {
			errs = multierr.Append(errs, errors.Wrapf(resource.NotSupportedError{
				Type:       typename,
				Suggestion: suggest.String(typename, e.Registry.Typenames()),
			}, "resource %q", name))
			continue
		}
		ctx.types[name] = t
	}

	tmpl := &Template{Description: opts.Description}
	for _, name := range order {
		t, ok := ctx.types[name]
		if !ok {
			continue
		}
		r, err := ctx.resource(g, name, t, opts)
		if err != nil {
			for _, err := range multierr.Errors(err) {
				errs = multierr.Append(errs, errors.Wrapf(err, "resource %q", name))
			}
			continue
		}
		e.logger().Debug("Emit resource",
			zap.String("stack", opts.StackName),
			zap.String("name", name),
			zap.String("logical_id", r.LogicalID),
			zap.String("type", r.Type),
		)
		tmpl.Resources = append(tmpl.Resources, r)
	}

	names := make([]string, 0, len(g.Outputs))
	for n := range g.Outputs {
		names = append(names, n)
	}
	sort.Strings(names)
	outputIDs := make(map[string]string, len(names))
	for _, n := range names {
		id := pascalCase(n)
		if prev, ok := outputIDs[id]; ok {
			errs = multierr.Append(errs, errors.Errorf("outputs %q and %q have the same logical id %s", prev, n, id))
			continue
		}
		outputIDs[id] = n

		out := g.Outputs[n]
		v, err := ctx.value(out.Value)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "output %q", n))
			continue
		}
		tmpl.Outputs = append(tmpl.Outputs, &Output{
			LogicalID:   id,
			Description: out.Description,
			Value:       v,
		})
	}

	if errs != nil {
		return nil, errs
	}
	return tmpl, nil
}

func (c *emitContext) resource(g *graph.Graph, name string, t reflect.Type, opts Options) (*Resource, error) {
	res := g.Resources[name]
	def, ok := reflect.New(t).Interface().(CloudFormationTyper)
	if !ok {
		return nil, errors.Errorf("%s cannot be emitted to a template", res.Type)
	}

	if err := schema.ValidateValue(res.Input, t); err != nil {
		return nil, err
	}

	deps := make(map[string]graph.Expression, len(g.Dependencies[name]))
	for _, d := range g.Dependencies[name] {
		deps[ctyext.PathString(d.Field)] = d.Expression
	}
	props, err := c.object(res.Input, schema.Fields(t).Inputs(), nil, deps)
	if err != nil {
		return nil, err
	}

	var dependsOn []string
	for _, p := range res.Deps {
		id, ok := c.ids[p]
		if !ok {
			return nil, errors.Errorf("depends on %q, which could not be emitted", p)
		}
		dependsOn = append(dependsOn, id)
	}
	sort.Strings(dependsOn)

	return &Resource{
		Name:       name,
		LogicalID:  c.ids[name],
		Type:       def.CloudFormationType(),
		Properties: props,
		DependsOn:  dependsOn,
		Metadata: map[string]interface{}{
			MetadataPathKey: opts.StackName + "/" + name,
		},
	}, nil
}

func (c *emitContext) object(val cty.Value, fields schema.FieldSet, path cty.Path, deps map[string]graph.Expression) (map[string]interface{}, error) { // nolint: lll
	out := make(map[string]interface{}, len(fields))
	var errs error
	for _, name := range fields.Names() {
		if !val.Type().IsObjectType() || !val.Type().HasAttribute(name) {
			continue
		}
		f := fields[name]
		v, err := c.convert(val.GetAttr(name), f.Type, append(path.Copy(), cty.GetAttrStep{Name: name}), deps)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if v == nil {
			continue
		}
		out[f.PropertyName()] = v
	}
	return out, errs
}

func (c *emitContext) convert(val cty.Value, t reflect.Type, path cty.Path, deps map[string]graph.Expression) (interface{}, error) { // nolint: lll
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if !val.IsKnown() {
		expr, ok := deps[ctyext.PathString(path)]
		if !ok {
			return nil, ctyext.PathError{Path: path, Err: errors.New("value is not known")}
		}
		v, err := c.value(expr)
		if err != nil {
			return nil, ctyext.PathError{Path: path, Err: err}
		}
		return v, nil
	}
	if val.IsNull() {
		return nil, nil
	}

	switch t.Kind() {
	case reflect.Struct:
		return c.object(val, schema.Fields(t), path, deps)
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, 0, val.LengthInt())
		var errs error
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			x, err := c.convert(v, t.Elem(), append(path.Copy(), cty.IndexStep{Key: k}), deps)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			out = append(out, x)
		}
		return out, errs
	case reflect.Map:
		out := make(map[string]interface{}, val.LengthInt())
		var errs error
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			x, err := c.convert(v, t.Elem(), append(path.Copy(), cty.IndexStep{Key: k}), deps)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if x != nil {
				out[k.AsString()] = x
			}
		}
		return out, errs
	}
	return literal(val)
}

// value returns the template value for an expression.
func (c *emitContext) value(expr graph.Expression) (interface{}, error) {
	expr, err := expr.MergeLiterals()
	if err != nil {
		return nil, err
	}
	if len(expr) == 0 {
		return nil, nil
	}
	if len(expr) == 1 {
		return c.part(expr[0])
	}
	parts := make([]interface{}, len(expr))
	for i, p := range expr {
		if lit, ok := p.(graph.ExprLiteral); ok {
			if lit.Value.IsNull() {
				return nil, errors.Errorf("part %d: value is null", i)
			}
			if !lit.Value.Type().IsPrimitiveType() {
				return nil, errors.Errorf("part %d: %s value cannot be joined", i, lit.Value.Type().FriendlyName())
			}
			str, err := convert.Convert(lit.Value, cty.String)
			if err != nil {
				return nil, errors.Wrapf(err, "part %d", i)
			}
			parts[i] = str.AsString()
			continue
		}
		v, err := c.part(p)
		if err != nil {
			return nil, err
		}
		parts[i] = v
	}
	parts = mergeStrings(parts)
	if len(parts) == 1 {
		return parts[0], nil
	}
	return map[string]interface{}{
		"Fn::Join": []interface{}{"", parts},
	}, nil
}

// mergeStrings joins adjacent plain strings, such as literals next to pseudo
// parameters that resolved to literal values.
func mergeStrings(parts []interface{}) []interface{} {
	out := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		str, ok := p.(string)
		if !ok || len(out) == 0 {
			out = append(out, p)
			continue
		}
		if prev, ok := out[len(out)-1].(string); ok {
			out[len(out)-1] = prev + str
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *emitContext) part(p interface{}) (interface{}, error) {
	switch v := p.(type) {
	case graph.ExprLiteral:
		return literal(v.Value)
	case graph.ExprReference:
		return c.reference(v.Path)
	}
	return nil, errors.Errorf("unsupported expression part %T", p)
}

func (c *emitContext) reference(path cty.Path) (interface{}, error) {
	if len(path) != 2 {
		return nil, errors.Errorf("reference %s must have the form <name>.<attribute>", ctyext.PathString(path))
	}
	root, ok := path[0].(cty.GetAttrStep)
	if !ok {
		return nil, errors.Errorf("reference %s does not start with a name", ctyext.PathString(path))
	}
	attr, ok := path[1].(cty.GetAttrStep)
	if !ok {
		return nil, errors.Errorf("reference %s must have the form <name>.<attribute>", ctyext.PathString(path))
	}

	if root.Name == graph.PseudoRoot {
		param, ok := PseudoParameters[attr.Name]
		if !ok {
			names := make([]string, 0, len(PseudoParameters))
			for k := range PseudoParameters {
				names = append(names, k)
			}
			return nil, unknownAttr(root.Name, attr.Name, names)
		}
		if v, ok := c.pseudo[attr.Name]; ok {
			return v, nil
		}
		return map[string]interface{}{"Ref": param}, nil
	}

	id, ok := c.ids[root.Name]
	if !ok {
		return nil, errors.Errorf("reference to unknown resource %q", root.Name)
	}
	if attr.Name == "ref" {
		return map[string]interface{}{"Ref": id}, nil
	}
	t, ok := c.types[root.Name]
	if !ok {
		return nil, errors.Errorf("reference to unsupported resource %q", root.Name)
	}
	fields := schema.Fields(t)
	outputs := fields.Outputs()
	if f, ok := outputs[attr.Name]; ok {
		return map[string]interface{}{
			"Fn::GetAtt": []interface{}{id, f.PropertyName()},
		}, nil
	}
	if _, ok := fields.Inputs()[attr.Name]; ok {
		return nil, errors.Errorf("%s.%s is an input; only outputs and ref can be referenced", root.Name, attr.Name)
	}
	return nil, unknownAttr(root.Name, attr.Name, append(outputs.Names(), "ref"))
}

func unknownAttr(root, attr string, candidates []string) error {
	sort.Strings(candidates)
	msg := "%s has no attribute %q"
	if s := suggest.DidYouMean(attr, candidates); s != "" {
		msg += ". " + s
	}
	return errors.Errorf(msg, root, attr)
}

// literal converts a known cty value to a value that can be marshalled to
// JSON.
func literal(val cty.Value) (interface{}, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, errors.New("value is not known")
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		out := make([]interface{}, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			x, err := literal(v)
			if err != nil {
				return nil, err
			}
			out = append(out, x)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]interface{})
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			x, err := literal(v)
			if err != nil {
				return nil, err
			}
			if x != nil {
				out[k.AsString()] = x
			}
		}
		return out, nil
	}
	return nil, errors.Errorf("cannot convert %s", ty.FriendlyName())
}
