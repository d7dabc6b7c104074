package hcldecoder_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/meshstack/meshstack/resource"
	"github.com/meshstack/meshstack/resource/graph"
	"github.com/meshstack/meshstack/resource/graph/hcldecoder"
	"github.com/zclconf/go-cty/cty"
)

type meshDef struct {
	MeshName string `stack:"input,required"`
	Arn      string `stack:"output"`
}

func (*meshDef) Type() string { return "test_mesh" }

type nodeSpec struct {
	Hostname string
	Port     int
}

type nodeDef struct {
	MeshName string            `stack:"input,required"`
	NodeName string            `stack:"input"`
	Port     *int              `stack:"input" validate:"port"`
	Backends []string          `stack:"input"`
	Spec     *nodeSpec         `stack:"input"`
	Tags     map[string]string `stack:"input"`
	Arn      string            `stack:"output"`
}

func (*nodeDef) Type() string { return "test_node" }

func registry() *resource.Registry {
	reg := &resource.Registry{}
	reg.Register(&meshDef{})
	reg.Register(&nodeDef{})
	return reg
}

func decode(t *testing.T, src string) ([]*hcldecoder.Stack, hcl.Diagnostics) {
	t.Helper()
	file, diags := hclsyntax.ParseConfig([]byte(src), "stack.hcl", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		t.Fatalf("Parse config: %v", diags)
	}
	dec := &hcldecoder.Decoder{Resources: registry()}
	return dec.DecodeBody(file.Body)
}

var opts = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmp.Comparer(func(a, b cty.Value) bool { return a.RawEquals(b) }),
	cmp.Transformer("Name", func(v cty.GetAttrStep) string { return v.Name }),
	cmp.Transformer("GoString", func(v cty.IndexStep) string { return v.GoString() }),
}

var specType = cty.Object(map[string]cty.Type{
	"hostname": cty.String,
	"port":     cty.Number,
})

func TestDecodeBody(t *testing.T) {
	stacks, diags := decode(t, `
		stack "colors" {
			description = "App Mesh demo"

			resource "test_mesh" "mesh" {
				mesh_name = "colorsMesh"
			}

			resource "test_node" "black" {
				mesh_name  = mesh.mesh_name
				node_name  = "${mesh.mesh_name}-black"
				backends   = [mesh.arn, "static"]
				spec = {
					hostname = "black.${mesh.mesh_name}"
					port     = 9080
				}
				tags = {
					mesh = mesh.arn
				}
				depends_on = [mesh]
			}

			output "mesh_arn" {
				value       = mesh.arn
				description = "Mesh ARN"
			}
		}

		stack "other" {}
	`)
	if diags.HasErrors() {
		t.Fatalf("DecodeBody() diags = %v", diags)
	}
	if len(stacks) != 2 {
		t.Fatalf("DecodeBody() got %d stacks, want 2", len(stacks))
	}
	if stacks[0].Name != "colors" || stacks[1].Name != "other" {
		t.Errorf("Stack order = %q, %q", stacks[0].Name, stacks[1].Name)
	}
	if stacks[0].Description != "App Mesh demo" {
		t.Errorf("Description = %q", stacks[0].Description)
	}

	meshRef := func(attr string) graph.Expression {
		return graph.Expression{graph.ExprReference{Path: cty.GetAttrPath("mesh").GetAttr(attr)}}
	}
	want := &graph.Graph{
		Resources: map[string]*resource.Resource{
			"mesh": {
				Name: "mesh",
				Type: "test_mesh",
				Input: cty.ObjectVal(map[string]cty.Value{
					"mesh_name": cty.StringVal("colorsMesh"),
				}),
			},
			"black": {
				Name: "black",
				Type: "test_node",
				Input: cty.ObjectVal(map[string]cty.Value{
					"mesh_name": cty.StringVal("colorsMesh"),
					"node_name": cty.StringVal("colorsMesh-black"),
					"port":      cty.NullVal(cty.Number),
					"backends": cty.ListVal([]cty.Value{
						cty.UnknownVal(cty.String),
						cty.StringVal("static"),
					}),
					"spec": cty.ObjectVal(map[string]cty.Value{
						"hostname": cty.StringVal("black.colorsMesh"),
						"port":     cty.NumberIntVal(9080),
					}),
					"tags": cty.MapVal(map[string]cty.Value{
						"mesh": cty.UnknownVal(cty.String),
					}),
				}),
				Deps: []string{"mesh"},
			},
		},
		Dependencies: map[string][]graph.Dependency{
			"black": {
				{
					Field:      cty.GetAttrPath("backends").Index(cty.NumberIntVal(0)),
					Expression: meshRef("arn"),
				},
				{
					Field:      cty.GetAttrPath("tags").Index(cty.StringVal("mesh")),
					Expression: meshRef("arn"),
				},
			},
		},
		Outputs: map[string]*graph.Output{
			"mesh_arn": {
				Name:        "mesh_arn",
				Description: "Mesh ARN",
				Value:       meshRef("arn"),
			},
		},
	}
	if diff := cmp.Diff(stacks[0].Graph, want, opts...); diff != "" {
		t.Errorf("DecodeBody() (-got, +want)\n%s", diff)
	}
}

func TestDecodeBody_chainedInputs(t *testing.T) {
	stacks, diags := decode(t, `
		stack "s" {
			resource "test_mesh" "mesh" {
				mesh_name = "colorsMesh"
			}
			resource "test_node" "a" {
				mesh_name = mesh.mesh_name
				node_name = mesh.arn
			}
			resource "test_node" "b" {
				mesh_name = a.mesh_name
				node_name = "${a.node_name}/b"
			}
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("DecodeBody() diags = %v", diags)
	}
	g := stacks[0].Graph
	got := g.Resources["b"].Input.GetAttr("mesh_name")
	if !got.RawEquals(cty.StringVal("colorsMesh")) {
		t.Errorf("mesh_name = %#v", got)
	}
	want := []graph.Dependency{{
		Field: cty.GetAttrPath("node_name"),
		Expression: graph.Expression{
			graph.ExprReference{Path: cty.GetAttrPath("mesh").GetAttr("arn")},
			graph.ExprLiteral{Value: cty.StringVal("/b")},
		},
	}}
	if diff := cmp.Diff(g.Dependencies["b"], want, opts...); diff != "" {
		t.Errorf("Dependencies (-got, +want)\n%s", diff)
	}
}

func TestDecodeBody_errors(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantSummary string
		wantDetail  string
	}{
		{
			name: "UnknownType",
			config: `stack "s" {
				resource "test_nod" "a" {}
			}`,
			wantSummary: "Resource not supported",
			wantDetail:  `Did you mean "test_node"?`,
		},
		{
			name: "UnknownAttribute",
			config: `stack "s" {
				resource "test_mesh" "a" {
					mesh_nam = "x"
				}
			}`,
			wantSummary: "Unsupported argument",
			wantDetail:  `Did you mean "mesh_name"?`,
		},
		{
			name: "DuplicateResource",
			config: `stack "s" {
				resource "test_mesh" "a" { mesh_name = "x" }
				resource "test_mesh" "a" { mesh_name = "y" }
			}`,
			wantSummary: "Duplicate resource",
			wantDetail:  `Another resource "a" was defined in stack.hcl on line 2.`,
		},
		{
			name: "DuplicateStack",
			config: `
				stack "s" {}
				stack "s" {}
			`,
			wantSummary: "Duplicate stack",
		},
		{
			name: "UndefinedReference",
			config: `stack "s" {
				resource "test_mesh" "mesh" { mesh_name = "x" }
				resource "test_node" "a" {
					mesh_name = mesk.mesh_name
				}
			}`,
			wantSummary: "Referenced value not found",
			wantDetail:  `Did you mean "mesh"?`,
		},
		{
			name: "NoSuchField",
			config: `stack "s" {
				resource "test_mesh" "mesh" { mesh_name = "x" }
				resource "test_node" "a" {
					mesh_name = mesh.mesh_nme
				}
			}`,
			wantSummary: "No such field",
			wantDetail:  `Did you mean "mesh_name"?`,
		},
		{
			name: "Validation",
			config: `stack "s" {
				resource "test_node" "a" {
					mesh_name = "x"
					port      = 70000
				}
			}`,
			wantSummary: "Validation error",
			wantDetail:  "port: must be a valid port number (1-65535).",
		},
		{
			name: "MissingRequired",
			config: `stack "s" {
				resource "test_mesh" "a" {}
			}`,
			wantSummary: "Validation error",
			wantDetail:  "mesh_name: value is required.",
		},
		{
			name: "UnsupportedExpression",
			config: `stack "s" {
				resource "test_mesh" "mesh" { mesh_name = "x" }
				resource "test_node" "a" {
					mesh_name = upper(mesh.arn)
				}
			}`,
			wantSummary: "Unsupported expression",
		},
		{
			name: "NullInTemplate",
			config: `stack "s" {
				resource "test_mesh" "mesh" { mesh_name = "x" }
				resource "test_node" "a" {
					mesh_name = "x"
					node_name = "a${null}-${mesh.arn}"
				}
			}`,
			wantSummary: "Unsupported expression",
			wantDetail:  "template part 1: value is null",
		},
		{
			name: "ListInTemplate",
			config: `stack "s" {
				resource "test_node" "a" {
					mesh_name = "x"
					backends  = ["colorteller.colors.local"]
				}
				resource "test_node" "b" {
					mesh_name = "x"
					node_name = "gw-${a.backends}"
				}
			}`,
			wantSummary: "Invalid template",
			wantDetail:  "value cannot be used in a string template.",
		},
		{
			name: "UnsuitableType",
			config: `stack "s" {
				resource "test_node" "a" {
					mesh_name = "x"
					backends  = "not a list"
				}
			}`,
			wantSummary: "Unsuitable value type",
		},
		{
			name: "InvalidResourceName",
			config: `stack "s" {
				resource "test_mesh" "aws" { mesh_name = "x" }
			}`,
			wantSummary: "Invalid resource",
			wantDetail:  `Resource name "aws" is reserved.`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := decode(t, tt.config)
			if !diags.HasErrors() {
				t.Fatalf("DecodeBody() want error diagnostics")
			}
			for _, d := range diags {
				if d.Summary == tt.wantSummary && strings.Contains(d.Detail, tt.wantDetail) {
					return
				}
			}
			t.Errorf("Diagnostic %q (%q) not found in\n%v", tt.wantSummary, tt.wantDetail, diags)
		})
	}
}
