package graph_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/meshstack/meshstack/resource"
	"github.com/meshstack/meshstack/resource/graph"
	"github.com/zclconf/go-cty/cty"
)

var opts = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmp.Transformer("GoString", func(v cty.Value) string { return v.GoString() }),
	cmp.Transformer("Name", func(v cty.GetAttrStep) string { return v.Name }),
	cmp.Transformer("GoString", func(v cty.IndexStep) string { return v.GoString() }),
}

func ref(path ...string) graph.Expression {
	p := cty.GetAttrPath(path[0])
	for _, s := range path[1:] {
		p = p.GetAttr(s)
	}
	return graph.Expression{graph.ExprReference{Path: p}}
}

func mustAdd(t *testing.T, g *graph.Graph, resources ...*resource.Resource) {
	t.Helper()
	for _, r := range resources {
		if err := g.AddResource(r); err != nil {
			t.Fatalf("AddResource(%q) err = %v", r.Name, err)
		}
	}
}

func mustDep(t *testing.T, g *graph.Graph, child, field string, expr graph.Expression) {
	t.Helper()
	err := g.AddDependency(child, graph.Dependency{Field: cty.GetAttrPath(field), Expression: expr})
	if err != nil {
		t.Fatalf("AddDependency(%q) err = %v", child, err)
	}
}

func TestGraph_AddResource(t *testing.T) {
	g := graph.New()
	a := &resource.Resource{Type: "foo", Name: "a"}
	b := &resource.Resource{Type: "bar", Name: "b-b"}
	mustAdd(t, g, a, b)

	want := &graph.Graph{
		Resources: map[string]*resource.Resource{
			"a":   a,
			"b-b": b,
		},
	}
	if diff := cmp.Diff(g, want, opts...); diff != "" {
		t.Errorf("Resources not added (-got, +want)\n%s", diff)
	}
}

func TestGraph_AddResource_errors(t *testing.T) {
	tests := []struct {
		name    string
		res     *resource.Resource
		wantErr string
	}{
		{"NoName", &resource.Resource{Type: "foo"}, "resource has no name"},
		{"NoType", &resource.Resource{Name: "foo"}, `resource "foo" has no type`},
		{"NotIdentifier", &resource.Resource{Type: "foo", Name: "1foo"}, `resource name "1foo" is not a valid identifier`},
		{"Reserved", &resource.Resource{Type: "foo", Name: "aws"}, `resource name "aws" is reserved`},
		{"Duplicate", &resource.Resource{Type: "bar", Name: "existing"}, `resource name "existing" already used by foo`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New()
			mustAdd(t, g, &resource.Resource{Type: "foo", Name: "existing"})
			err := g.AddResource(tt.res)
			if err == nil {
				t.Fatalf("AddResource() want error")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("AddResource() err = %q, want = %q", err, tt.wantErr)
			}
		})
	}
}

func TestGraph_AddResource_nonExistingParent(t *testing.T) {
	g := graph.New()
	err := g.AddResource(&resource.Resource{
		Type: "foo",
		Name: "foo",
		Deps: []string{"nonexisting"},
	})
	if err != nil {
		t.Fatalf("AddResource() err = %v", err)
	}
}

func TestGraph_AddDependency(t *testing.T) {
	g := graph.New()
	a := &resource.Resource{Type: "foo", Name: "a"}
	b := &resource.Resource{Type: "bar", Name: "b"}
	mustAdd(t, g, a, b)
	dep := graph.Dependency{
		Field: cty.GetAttrPath("input"),
		Expression: graph.Expression{
			graph.ExprReference{
				Path: cty.GetAttrPath("a").GetAttr("output").Index(cty.NumberIntVal(2)),
			},
		},
	}
	if err := g.AddDependency("b", dep); err != nil {
		t.Fatalf("AddDependency() err = %v", err)
	}

	want := &graph.Graph{
		Resources: map[string]*resource.Resource{
			"a": a,
			"b": b,
		},
		Dependencies: map[string][]graph.Dependency{
			"b": {dep},
		},
	}
	if diff := cmp.Diff(g, want, opts...); diff != "" {
		t.Errorf("Dependencies do not match (-got, +want)\n%s", diff)
	}
}

func TestGraph_AddDependency_pseudoRoot(t *testing.T) {
	g := graph.New()
	mustAdd(t, g, &resource.Resource{Type: "foo", Name: "a"})
	err := g.AddDependency("a", graph.Dependency{
		Field:      cty.GetAttrPath("region"),
		Expression: ref("aws", "region"),
	})
	if err != nil {
		t.Fatalf("AddDependency() err = %v", err)
	}
}

func TestGraph_AddDependency_errors(t *testing.T) {
	tests := []struct {
		name    string
		child   string
		dep     graph.Dependency
		wantErr string
	}{
		{
			name:    "NonExistingChild",
			child:   "bar",
			dep:     graph.Dependency{Expression: ref("foo", "output")},
			wantErr: `resource "bar" does not exist`,
		},
		{
			name:  "RefNoName",
			child: "foo",
			dep: graph.Dependency{
				Field: cty.GetAttrPath("input"),
				Expression: graph.Expression{
					graph.ExprReference{Path: cty.IndexPath(cty.NumberIntVal(0))},
				},
			},
			wantErr: "input: reference 0 in expression does not start with resource name",
		},
		{
			name:    "NonExistingRef",
			child:   "foo",
			dep:     graph.Dependency{Field: cty.GetAttrPath("input"), Expression: ref("nonexisting", "output")},
			wantErr: `input: reference to non-existing resource "nonexisting"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New()
			mustAdd(t, g, &resource.Resource{Type: "foo", Name: "foo"})
			err := g.AddDependency(tt.child, tt.dep)
			if err == nil {
				t.Fatalf("AddDependency() want error")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("AddDependency() err = %q, want = %q", err, tt.wantErr)
			}
		})
	}
}

func TestGraph_AddOutput(t *testing.T) {
	g := graph.New()
	mustAdd(t, g, &resource.Resource{Type: "aws_appmesh_mesh", Name: "mesh"})

	out := &graph.Output{Name: "mesh_name", Value: ref("mesh", "mesh_name")}
	if err := g.AddOutput(out); err != nil {
		t.Fatalf("AddOutput() err = %v", err)
	}
	if err := g.AddOutput(out); err == nil {
		t.Errorf("AddOutput() duplicate, want error")
	}
	if err := g.AddOutput(&graph.Output{Name: "bad", Value: ref("nope", "id")}); err == nil {
		t.Errorf("AddOutput() non-existing reference, want error")
	}
	if err := g.AddOutput(&graph.Output{Name: "empty"}); err == nil {
		t.Errorf("AddOutput() no value, want error")
	}
	if diff := cmp.Diff(g.Outputs, map[string]*graph.Output{"mesh_name": out}, opts...); diff != "" {
		t.Errorf("Outputs (-got, +want)\n%s", diff)
	}
}

func TestGraph_Parents(t *testing.T) {
	g := graph.New()
	mustAdd(t, g,
		&resource.Resource{Type: "foo", Name: "a"},
		&resource.Resource{Type: "foo", Name: "b"},
		&resource.Resource{Type: "foo", Name: "c", Deps: []string{"b", "a"}},
	)
	mustDep(t, g, "c", "x", ref("a", "output"))
	mustDep(t, g, "c", "y", ref("aws", "region"))

	got := g.Parents("c")
	want := []string{"a", "b"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Parents() (-got, +want)\n%s", diff)
	}
}

func TestGraph_LeafResources(t *testing.T) {
	g := graph.New()
	mustAdd(t, g,
		&resource.Resource{Type: "foo", Name: "a"},
		&resource.Resource{Type: "bar", Name: "b"},
		&resource.Resource{Type: "baz", Name: "c"},
		&resource.Resource{Type: "qux", Name: "d"},
		&resource.Resource{Type: "qux", Name: "e", Deps: []string{"d"}},
	)

	// a -> b
	mustDep(t, g, "b", "input", ref("a", "output"))
	// b -> c
	mustDep(t, g, "c", "input", ref("b", "output"))

	got := g.LeafResources()
	want := []string{"c", "e"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("LeafResources() (-got +want)\n%s", diff)
	}
}

func TestGraph_Sort(t *testing.T) {
	g := graph.New()
	mustAdd(t, g,
		&resource.Resource{Type: "aws_ec2_vpc", Name: "vpc"},
		&resource.Resource{Type: "aws_ec2_subnet", Name: "subnet_b"},
		&resource.Resource{Type: "aws_ec2_subnet", Name: "subnet_a"},
		&resource.Resource{Type: "aws_ecs_cluster", Name: "cluster"},
		&resource.Resource{Type: "aws_ec2_internet_gateway", Name: "igw"},
		&resource.Resource{Type: "aws_ec2_route", Name: "route", Deps: []string{"attach"}},
		&resource.Resource{Type: "aws_ec2_vpc_gateway_attachment", Name: "attach"},
	)
	mustDep(t, g, "subnet_a", "vpc_id", ref("vpc", "ref"))
	mustDep(t, g, "subnet_b", "vpc_id", ref("vpc", "ref"))
	mustDep(t, g, "attach", "vpc_id", ref("vpc", "ref"))
	mustDep(t, g, "attach", "internet_gateway_id", ref("igw", "ref"))
	mustDep(t, g, "route", "gateway_id", ref("igw", "ref"))

	got, err := g.Sort()
	if err != nil {
		t.Fatalf("Sort() err = %v", err)
	}
	want := []string{"cluster", "igw", "vpc", "attach", "route", "subnet_a", "subnet_b"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Sort() (-got, +want)\n%s", diff)
	}
}

func TestGraph_Sort_nonExistingDeclared(t *testing.T) {
	g := graph.New()
	mustAdd(t, g, &resource.Resource{Type: "foo", Name: "a", Deps: []string{"nope"}})
	_, err := g.Sort()
	if err == nil {
		t.Fatalf("Sort() want error")
	}
	if !strings.Contains(err.Error(), `non-existing resource "nope"`) {
		t.Errorf("Sort() err = %v", err)
	}
}

func TestGraph_Sort_cycle(t *testing.T) {
	g := graph.New()
	mustAdd(t, g,
		&resource.Resource{Type: "foo", Name: "a", Deps: []string{"c"}},
		&resource.Resource{Type: "foo", Name: "b"},
		&resource.Resource{Type: "foo", Name: "c"},
		&resource.Resource{Type: "foo", Name: "d"},
		&resource.Resource{Type: "foo", Name: "e", Deps: []string{"d"}},
		&resource.Resource{Type: "foo", Name: "x"},
	)
	mustDep(t, g, "b", "in", ref("a", "out"))
	mustDep(t, g, "c", "in", ref("b", "out"))
	mustDep(t, g, "d", "in", ref("e", "out"))

	_, err := g.Sort()
	cerr, ok := err.(*graph.CycleError)
	if !ok {
		t.Fatalf("Sort() err = %v (%T), want *CycleError", err, err)
	}
	want := [][]string{{"a", "b", "c"}, {"d", "e"}}
	if diff := cmp.Diff(cerr.Cycles, want); diff != "" {
		t.Errorf("Cycles (-got, +want)\n%s", diff)
	}
	wantMsg := "dependency cycle between resources: [a, b, c], [d, e]"
	if cerr.Error() != wantMsg {
		t.Errorf("Error() got = %q, want = %q", cerr.Error(), wantMsg)
	}
}

func TestGraph_Sort_selfReference(t *testing.T) {
	tests := []struct {
		name string
		deps [][2]string
		want [][]string
	}{
		{
			name: "Alone",
			deps: [][2]string{{"a", "a"}},
			want: [][]string{{"a"}},
		},
		{
			name: "WithCycle",
			deps: [][2]string{{"a", "a"}, {"b", "c"}, {"c", "b"}},
			want: [][]string{{"a"}, {"b", "c"}},
		},
		{
			name: "AfterCycle",
			deps: [][2]string{{"a", "b"}, {"b", "a"}, {"c", "c"}, {"d", "a"}},
			want: [][]string{{"a", "b"}, {"c"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New()
			for _, name := range []string{"a", "b", "c", "d"} {
				mustAdd(t, g, &resource.Resource{Type: "foo", Name: name})
			}
			for _, d := range tt.deps {
				mustDep(t, g, d[0], "in", ref(d[1], "out"))
			}

			_, err := g.Sort()
			cerr, ok := err.(*graph.CycleError)
			if !ok {
				t.Fatalf("Sort() err = %v (%T), want *CycleError", err, err)
			}
			if diff := cmp.Diff(cerr.Cycles, tt.want); diff != "" {
				t.Errorf("Cycles (-got, +want)\n%s", diff)
			}
		})
	}
}

func TestGraph_MarshalDOT(t *testing.T) {
	g := graph.New()
	mustAdd(t, g,
		&resource.Resource{Type: "aws_ec2_vpc", Name: "vpc"},
		&resource.Resource{Type: "aws_ec2_subnet", Name: "subnet"},
	)
	mustDep(t, g, "subnet", "vpc_id", ref("vpc", "ref"))

	b, err := g.MarshalDOT("stack")
	if err != nil {
		t.Fatalf("MarshalDOT() err = %v", err)
	}
	got := string(b)
	for _, want := range []string{"digraph stack {", "vpc -> subnet", "vpc_id"} {
		if !strings.Contains(got, want) {
			t.Errorf("MarshalDOT() does not contain %q\n%s", want, got)
		}
	}
}
