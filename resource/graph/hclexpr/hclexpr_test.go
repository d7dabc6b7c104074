package hclexpr_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/hashicorp/hcl2/hclpack"
	"github.com/meshstack/meshstack/resource/graph"
	"github.com/meshstack/meshstack/resource/graph/hclexpr"
	"github.com/zclconf/go-cty/cty"
)

var opts = []cmp.Option{
	cmp.Comparer(func(a, b cty.Value) bool { return a.Equals(b).True() }),
	cmp.Transformer("Name", func(v cty.GetAttrStep) string { return v.Name }),
	cmp.Transformer("GoString", func(v cty.IndexStep) string { return v.GoString() }),
}

func parse(t *testing.T, src string) hcl.Expression {
	t.Helper()
	ex, diags := hclsyntax.ParseExpression([]byte(src), "", hcl.InitialPos)
	if diags.HasErrors() {
		t.Fatal(diags)
	}
	return ex
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		expr func(t *testing.T) hcl.Expression
		want graph.Expression
	}{
		{
			"StaticExpr",
			func(t *testing.T) hcl.Expression {
				return hcl.StaticExpr(cty.StringVal("foo"), hcl.Range{})
			},
			graph.Expression{
				graph.ExprLiteral{Value: cty.StringVal("foo")},
			},
		},
		{
			"HCLSyntax_static",
			func(t *testing.T) hcl.Expression { return parse(t, `"foo"`) },
			graph.Expression{
				graph.ExprLiteral{Value: cty.StringVal("foo")},
			},
		},
		{
			"HCLSyntax_ref",
			func(t *testing.T) hcl.Expression { return parse(t, `foo.bar[2]`) },
			graph.Expression{
				graph.ExprReference{Path: cty.GetAttrPath("foo").GetAttr("bar").Index(cty.NumberIntVal(2))},
			},
		},
		{
			"HCLSyntax_wrapped",
			func(t *testing.T) hcl.Expression { return parse(t, `"${foo.bar}"`) },
			graph.Expression{
				graph.ExprReference{Path: cty.GetAttrPath("foo").GetAttr("bar")},
			},
		},
		{
			"HCLSyntax_mapAccess",
			func(t *testing.T) hcl.Expression { return parse(t, `foo["baz"]`) },
			graph.Expression{
				graph.ExprReference{Path: cty.GetAttrPath("foo").Index(cty.StringVal("baz"))},
			},
		},
		{
			"HCLSyntax_relative",
			func(t *testing.T) hcl.Expression { return parse(t, `foo["baz"].qux`) },
			graph.Expression{
				graph.ExprReference{Path: cty.GetAttrPath("foo").Index(cty.StringVal("baz")).GetAttr("qux")},
			},
		},
		{
			"HCLPack_simple",
			func(t *testing.T) hcl.Expression {
				return &hclpack.Expression{
					Source:     []byte(`"foo"`),
					SourceType: hclpack.ExprNative,
				}
			},
			graph.Expression{
				graph.ExprLiteral{Value: cty.StringVal("foo")},
			},
		},
		{
			"HCLPack_realistic",
			func(t *testing.T) hcl.Expression {
				src := `"mesh/${mesh.mesh_name}/virtualNode/${node.virtual_node_name}-${aws.region}"`
				return &hclpack.Expression{
					Source:     []byte(src),
					SourceType: hclpack.ExprNative,
				}
			},
			graph.Expression{
				graph.ExprLiteral{Value: cty.StringVal("mesh/")},
				graph.ExprReference{Path: cty.GetAttrPath("mesh").GetAttr("mesh_name")},
				graph.ExprLiteral{Value: cty.StringVal("/virtualNode/")},
				graph.ExprReference{Path: cty.GetAttrPath("node").GetAttr("virtual_node_name")},
				graph.ExprLiteral{Value: cty.StringVal("-")},
				graph.ExprReference{Path: cty.GetAttrPath("aws").GetAttr("region")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hclexpr.Convert(tt.expr(t))
			if err != nil {
				t.Fatalf("Convert() err = %v", err)
			}
			if diff := cmp.Diff(got, tt.want, opts...); diff != "" {
				t.Errorf("Convert() (-got +want) %s", diff)
			}
		})
	}
}

func TestConvert_notSupported(t *testing.T) {
	for _, src := range []string{
		`upper(foo.bar)`,
		`foo.bar ? 1 : 2`,
		`foo.bar + 1`,
		`foo[bar.baz]`,
	} {
		t.Run(src, func(t *testing.T) {
			_, err := hclexpr.Convert(parse(t, src))
			if err == nil {
				t.Errorf("Convert() want error")
			}
		})
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input string
		want  graph.Expression
	}{
		{
			"",
			graph.Expression{graph.ExprLiteral{Value: cty.StringVal("")}},
		},
		{
			"colors.local",
			graph.Expression{graph.ExprLiteral{Value: cty.StringVal("colors.local")}},
		},
		{
			"$${escaped}",
			graph.Expression{graph.ExprLiteral{Value: cty.StringVal("${escaped}")}},
		},
		{
			"${vpc.ref}",
			graph.Expression{graph.ExprReference{Path: cty.GetAttrPath("vpc").GetAttr("ref")}},
		},
		{
			"colorteller-${color}.${ns.name}",
			graph.Expression{
				graph.ExprLiteral{Value: cty.StringVal("colorteller-")},
				graph.ExprReference{Path: cty.GetAttrPath("color")},
				graph.ExprLiteral{Value: cty.StringVal(".")},
				graph.ExprReference{Path: cty.GetAttrPath("ns").GetAttr("name")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := hclexpr.ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString() err = %v", err)
			}
			if diff := cmp.Diff(got, tt.want, opts...); diff != "" {
				t.Errorf("ParseString() (-got +want) %s", diff)
			}
		})
	}
}

func TestParseString_error(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Unterminated", "${unterminated", `parse "${unterminated"`},
		{"Null", "a${null}b${mesh.arn}", "template part 1: value is null"},
		{"Tuple", "a${[1]}b${mesh.arn}", "template part 1: tuple value cannot be used in a string template"},
		{"NullOnly", "${null}${mesh.arn}", "template part 0: value is null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hclexpr.ParseString(tt.input)
			if err == nil {
				t.Fatal("ParseString() error = <nil>")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseString() error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestHasReferences(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"plain", false},
		{"$${escaped}", false},
		{"${role.arn}", true},
		{"arn:${aws.partition}:iam", true},
	}
	for _, tt := range tests {
		if got := hclexpr.HasReferences(tt.input); got != tt.want {
			t.Errorf("HasReferences(%q) = %t, want %t", tt.input, got, tt.want)
		}
	}
}
