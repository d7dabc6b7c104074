package stack

import (
	"reflect"
	"sort"
	"strings"

	"github.com/meshstack/meshstack/ctyext"
	"github.com/meshstack/meshstack/resource"
	"github.com/meshstack/meshstack/resource/graph"
	"github.com/meshstack/meshstack/resource/graph/hclexpr"
	"github.com/meshstack/meshstack/resource/schema"
	"github.com/meshstack/meshstack/suggest"
	"github.com/meshstack/meshstack/template"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/multierr"
)

// A Stack is a set of resources that are deployed together as a single
// CloudFormation stack.
//
// Errors that occur while declaring resources are collected and returned
// when the app is synthesized.
type Stack struct {
	Name        string
	Description string
	Env         Environment

	app   *App
	graph *graph.Graph
	errs  error
}

// A StackOption configures a stack.
type StackOption func(s *Stack)

// WithDescription sets the template description.
func WithDescription(desc string) StackOption {
	return func(s *Stack) { s.Description = desc }
}

// An Option configures a resource added to a stack.
type Option func(o *addOptions)

type addOptions struct {
	deps []string
}

// DependsOn declares explicit dependencies to other constructs. The
// dependencies are emitted as DependsOn in the template.
func DependsOn(cc ...*Construct) Option {
	return func(o *addOptions) {
		for _, c := range cc {
			o.deps = append(o.deps, c.Name)
		}
	}
}

// Add adds a resource to the stack.
//
// String fields of def may contain references to other resources, such as
// "${vpc.ref}", usually built with Construct.Ref or Construct.Attr. The
// referenced resources must already have been added.
func (s *Stack) Add(name string, def resource.Definition, opts ...Option) *Construct {
	c := &Construct{Name: name, Type: def.Type(), stack: s}

	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := s.add(name, def, o); err != nil {
		s.errs = multierr.Append(s.errs, errors.Wrapf(err, "add %q", name))
	}
	return c
}

func (s *Stack) add(name string, def resource.Definition, o addOptions) error {
	t := reflect.TypeOf(def)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		return errors.Errorf("definition %T must be a pointer to a struct", def)
	}
	if s.app.Registry.Type(def.Type()) != t.Elem() {
		return resource.NotSupportedError{
			Type:       def.Type(),
			Suggestion: s.app.Registry.SuggestType(def.Type()),
		}
	}

	ty := schema.Fields(t.Elem()).Inputs().CtyType()
	val, err := ctyext.ToCtyValue(def, ty, schema.FieldName)
	if err != nil {
		return errors.Wrap(err, "convert input")
	}

	val, deps, err := extractTokens(val)
	if err != nil {
		return err
	}

	res := &resource.Resource{
		Name:  name,
		Type:  def.Type(),
		Input: val,
		Deps:  o.deps,
	}
	if err := s.graph.AddResource(res); err != nil {
		return err
	}
	var errs error
	for _, d := range deps {
		errs = multierr.Append(errs, s.graph.AddDependency(name, d))
	}
	return errs
}

// extractTokens replaces string values holding ${} references with unknown
// values and returns the references as dependencies. Strings that only
// contain escaped tokens are unescaped.
func extractTokens(val cty.Value) (cty.Value, []graph.Dependency, error) {
	var deps []graph.Dependency
	out, err := cty.Transform(val, func(path cty.Path, v cty.Value) (cty.Value, error) {
		if !v.IsKnown() || v.IsNull() || v.Type() != cty.String {
			return v, nil
		}
		str := v.AsString()
		if !strings.Contains(str, "${") {
			return v, nil
		}
		expr, err := hclexpr.ParseString(str)
		if err != nil {
			return cty.NilVal, ctyext.WithPath(path, err)
		}
		if expr.IsLiteral() {
			lit, err := expr.Value(nil)
			if err != nil {
				return cty.NilVal, ctyext.WithPath(path, err)
			}
			return lit, nil
		}
		deps = append(deps, graph.Dependency{Field: path.Copy(), Expression: expr})
		return cty.UnknownVal(cty.String), nil
	})
	if err != nil {
		return cty.NilVal, nil, err
	}
	sort.Slice(deps, func(i, j int) bool {
		return ctyext.PathString(deps[i].Field) < ctyext.PathString(deps[j].Field)
	})
	return out, deps, nil
}

// Output declares a stack output. The value may contain references.
func (s *Stack) Output(name, value, description string) {
	expr, err := hclexpr.ParseString(value)
	if err != nil {
		s.errs = multierr.Append(s.errs, errors.Wrapf(err, "output %q", name))
		return
	}
	err = s.graph.AddOutput(&graph.Output{
		Name:        name,
		Description: description,
		Value:       expr,
	})
	s.errs = multierr.Append(s.errs, err)
}

// Region returns the region the stack is deployed to. If the environment
// does not set a region, a reference to the region pseudo parameter is
// returned.
func (s *Stack) Region() string {
	if s.Env.Region != "" {
		return s.Env.Region
	}
	return "${" + graph.PseudoRoot + ".region}"
}

// Account returns the account the stack is deployed to. If the environment
// does not set an account, a reference to the account pseudo parameter is
// returned.
func (s *Stack) Account() string {
	if s.Env.Account != "" {
		return s.Env.Account
	}
	return "${" + graph.PseudoRoot + ".account_id}"
}

// URLSuffix returns a reference to the domain suffix of the partition.
func (s *Stack) URLSuffix() string {
	return "${" + graph.PseudoRoot + ".url_suffix}"
}

// Graph returns the resource graph of the stack.
func (s *Stack) Graph() *graph.Graph { return s.graph }

// Err returns the errors that have occurred while declaring the stack.
func (s *Stack) Err() error { return s.errs }

// Synth compiles the stack into a template.
func (s *Stack) Synth() (*template.Template, error) {
	if s.errs != nil {
		return nil, s.errs
	}
	e := &template.Emitter{
		Registry: s.app.Registry,
		Logger:   s.app.logger(),
	}
	return e.Emit(s.graph, template.Options{
		StackName:   s.Name,
		Description: s.Description,
		Region:      s.Env.Region,
		Account:     s.Env.Account,
	})
}

// A Construct is a resource that has been added to a stack.
type Construct struct {
	Name string
	Type string

	stack *Stack
}

// Ref returns a token that resolves to the resource's primary identifier.
func (c *Construct) Ref() string {
	return "${" + c.Name + ".ref}"
}

// Attr returns a token that resolves to an output attribute of the resource.
// If the resource type does not have the output, an error is recorded on
// the stack.
func (c *Construct) Attr(name string) string {
	if t := c.stack.app.Registry.Type(c.Type); t != nil {
		outputs := schema.Fields(t).Outputs()
		if _, ok := outputs[name]; !ok {
			msg := "%s (%s) does not have an output %q"
			if s := suggest.DidYouMean(name, outputs.Names()); s != "" {
				msg += ". " + s
			}
			c.stack.errs = multierr.Append(c.stack.errs, errors.Errorf(msg, c.Name, c.Type, name))
		}
	}
	return "${" + c.Name + "." + name + "}"
}
