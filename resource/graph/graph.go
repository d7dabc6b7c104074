package graph

import (
	"sort"

	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/meshstack/meshstack/ctyext"
	"github.com/meshstack/meshstack/resource"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// PseudoRoot is the name of the reserved root that references deployment
// level values, such as aws.region or aws.account_id. A resource cannot use
// this name.
const PseudoRoot = "aws"

// A Graph contains a resource graph of user defined configurations for
// resources and their dependencies.
type Graph struct {
	Resources    map[string]*resource.Resource
	Dependencies map[string][]Dependency
	Outputs      map[string]*Output
}

// An Output is a value exported from the stack once it has been deployed.
type Output struct {
	Name        string
	Description string
	Value       Expression
}

// New creates a new empty graph.
func New() *Graph {
	return &Graph{
		Resources:    make(map[string]*resource.Resource),
		Dependencies: make(map[string][]Dependency),
		Outputs:      make(map[string]*Output),
	}
}

// AddResource adds a new resource to the graph.
//
// The name must be a valid identifier that is not already used by another
// resource. The resource is allowed to declare dependencies to resources that
// do not (yet) exist; these are checked when the graph is sorted.
func (g *Graph) AddResource(res *resource.Resource) error {
	if res.Name == "" {
		return errors.New("resource has no name")
	}
	if res.Type == "" {
		return errors.Errorf("resource %q has no type", res.Name)
	}
	if !hclsyntax.ValidIdentifier(res.Name) {
		return errors.Errorf("resource name %q is not a valid identifier", res.Name)
	}
	if res.Name == PseudoRoot {
		return errors.Errorf("resource name %q is reserved", res.Name)
	}
	if existing, ok := g.Resources[res.Name]; ok {
		return errors.Errorf("resource name %q already used by %s", res.Name, existing.Type)
	}
	g.Resources[res.Name] = res
	return nil
}

// AddDependency adds a dependency to a resource.
//
// Every reference in the dependency's expression must refer to an existing
// resource, or to the pseudo root. Beyond that, no validation is done on the
// dependency (such as ensuring the field exists).
func (g *Graph) AddDependency(resourceName string, dep Dependency) error {
	if _, ok := g.Resources[resourceName]; !ok {
		return errors.Errorf("resource %q does not exist", resourceName)
	}
	if err := g.checkRefs(dep.Expression); err != nil {
		return ctyext.WithPath(dep.Field, err)
	}
	g.Dependencies[resourceName] = append(g.Dependencies[resourceName], dep)
	return nil
}

// AddOutput adds a stack output.
func (g *Graph) AddOutput(out *Output) error {
	if !hclsyntax.ValidIdentifier(out.Name) {
		return errors.Errorf("output name %q is not a valid identifier", out.Name)
	}
	if _, ok := g.Outputs[out.Name]; ok {
		return errors.Errorf("output %q already defined", out.Name)
	}
	if len(out.Value) == 0 {
		return errors.Errorf("output %q has no value", out.Name)
	}
	if err := g.checkRefs(out.Value); err != nil {
		return errors.Wrapf(err, "output %q", out.Name)
	}
	g.Outputs[out.Name] = out
	return nil
}

func (g *Graph) checkRefs(expr Expression) error {
	for i, r := range expr.References() {
		if len(r) == 0 {
			return errors.Errorf("reference %d is empty", i)
		}
		attr, ok := r[0].(cty.GetAttrStep)
		if !ok {
			return errors.Errorf("reference %d in expression does not start with resource name", i)
		}
		if attr.Name == PseudoRoot {
			continue
		}
		if _, ok := g.Resources[attr.Name]; !ok {
			return errors.Errorf("reference to non-existing resource %q", attr.Name)
		}
	}
	return nil
}

// Parents returns the names of the resources the named resource depends on,
// both implicitly through references in its dependencies and explicitly
// through declared dependencies. The result is sorted and free of duplicates.
func (g *Graph) Parents(name string) []string {
	seen := make(map[string]struct{})
	for _, d := range g.Dependencies[name] {
		for _, p := range d.Resources() {
			seen[p] = struct{}{}
		}
	}
	if res, ok := g.Resources[name]; ok {
		for _, p := range res.Deps {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// LeafResources returns all resources that have no children, in lexical
// order.
func (g *Graph) LeafResources() []string {
	parents := make(map[string]struct{})
	for name := range g.Resources {
		for _, p := range g.Parents(name) {
			parents[p] = struct{}{}
		}
	}

	out := make([]string, 0, len(g.Resources))
	for name := range g.Resources {
		if _, isParent := parents[name]; !isParent {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
