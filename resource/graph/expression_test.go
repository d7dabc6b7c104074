package graph_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/meshstack/meshstack/resource/graph"
	"github.com/zclconf/go-cty/cty"
)

func lit(v cty.Value) graph.ExprLiteral { return graph.ExprLiteral{Value: v} }

func refPath(steps ...string) graph.ExprReference {
	p := cty.GetAttrPath(steps[0])
	for _, s := range steps[1:] {
		p = p.GetAttr(s)
	}
	return graph.ExprReference{Path: p}
}

func ExampleExpression_MergeLiterals() {
	// mesh/${mesh.name}/virtualNode/colorteller-black-vn
	expr := graph.Expression{
		lit(cty.StringVal("mesh/")),
		refPath("mesh", "name"),
		lit(cty.StringVal("/virtualNode/")),
		lit(cty.StringVal("colorteller-")),
		lit(cty.StringVal("black-vn")),
	}
	merged, err := expr.MergeLiterals()
	if err != nil {
		panic(err)
	}
	fmt.Println(merged)
	fmt.Println(len(merged))
	// Output:
	// mesh/${mesh.name}/virtualNode/colorteller-black-vn
	// 3
}

func TestExpression_Value(t *testing.T) {
	vars := map[string]cty.Value{
		"aws": cty.ObjectVal(map[string]cty.Value{
			"partition": cty.StringVal("aws"),
			"region":    cty.StringVal("eu-west-1"),
		}),
		"listener": cty.ObjectVal(map[string]cty.Value{
			"port": cty.NumberIntVal(9080),
		}),
		"mesh": cty.ObjectVal(map[string]cty.Value{
			"arn": cty.UnknownVal(cty.String),
		}),
	}

	tests := []struct {
		name    string
		expr    graph.Expression
		vars    map[string]cty.Value
		want    cty.Value
		wantErr bool
	}{
		{
			name: "Empty",
			want: cty.NilVal,
		},
		{
			name: "Literal",
			expr: graph.Expression{lit(cty.StringVal("colors.local"))},
			want: cty.StringVal("colors.local"),
		},
		{
			name: "LiteralKeepsType",
			expr: graph.Expression{lit(cty.NumberIntVal(2701))},
			want: cty.NumberIntVal(2701),
		},
		{
			name: "ReferenceKeepsType",
			expr: graph.Expression{refPath("listener", "port")},
			vars: vars,
			want: cty.NumberIntVal(9080),
		},
		{
			name: "Concat",
			expr: graph.Expression{
				lit(cty.StringVal("arn:")),
				refPath("aws", "partition"),
				lit(cty.StringVal(":ecs:")),
				refPath("aws", "region"),
				lit(cty.StringVal(":")),
				refPath("listener", "port"),
			},
			vars: vars,
			want: cty.StringVal("arn:aws:ecs:eu-west-1:9080"),
		},
		{
			name: "Unknown",
			expr: graph.Expression{refPath("mesh", "arn"), lit(cty.StringVal("/*"))},
			vars: vars,
			want: cty.UnknownVal(cty.String),
		},
		{
			name:    "MissingResource",
			expr:    graph.Expression{refPath("cluster", "arn")},
			vars:    vars,
			wantErr: true,
		},
		{
			name:    "MissingAttribute",
			expr:    graph.Expression{refPath("aws", "account_id")},
			vars:    vars,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.expr.Value(tt.vars)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Value() = %#v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Value() error = %v", err)
			}
			if tt.want == cty.NilVal {
				if got != cty.NilVal {
					t.Errorf("Value() = %#v, want NilVal", got)
				}
				return
			}
			if !tt.want.IsKnown() {
				if got.IsKnown() || !got.Type().Equals(tt.want.Type()) {
					t.Errorf("Value() = %#v, want %#v", got, tt.want)
				}
				return
			}
			if !got.RawEquals(tt.want) {
				t.Errorf("Value() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExpression_MergeLiterals(t *testing.T) {
	opts := []cmp.Option{
		cmpopts.EquateEmpty(),
		cmp.Transformer("GoString", func(v cty.Value) string { return v.GoString() }),
		cmp.Transformer("Name", func(v cty.GetAttrStep) string { return v.Name }),
	}
	tests := []struct {
		name string
		expr graph.Expression
		want graph.Expression
	}{
		{"Empty", nil, nil},
		{
			"SingleNumber",
			graph.Expression{lit(cty.NumberIntVal(14))},
			graph.Expression{lit(cty.NumberIntVal(14))},
		},
		{
			"Strings",
			graph.Expression{lit(cty.StringVal("10.0.")), lit(cty.StringVal("0.0/16"))},
			graph.Expression{lit(cty.StringVal("10.0.0.0/16"))},
		},
		{
			"StringAndNumber",
			graph.Expression{lit(cty.StringVal("port-")), lit(cty.NumberIntVal(9901))},
			graph.Expression{lit(cty.StringVal("port-9901"))},
		},
		{
			"AroundReferences",
			graph.Expression{
				lit(cty.StringVal("curl ")),
				lit(cty.StringVal("http://")),
				refPath("gateway", "dns"),
				refPath("gateway", "port"),
				lit(cty.StringVal("/ping")),
			},
			graph.Expression{
				lit(cty.StringVal("curl http://")),
				refPath("gateway", "dns"),
				refPath("gateway", "port"),
				lit(cty.StringVal("/ping")),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.expr.MergeLiterals()
			if err != nil {
				t.Fatalf("MergeLiterals() error = %v", err)
			}
			if diff := cmp.Diff(got, tt.want, opts...); diff != "" {
				t.Errorf("MergeLiterals() (-got, +want)\n%s", diff)
			}
		})
	}
}

func TestExpression_MergeLiterals_error(t *testing.T) {
	tests := []struct {
		name string
		expr graph.Expression
		want string
	}{
		{
			"Null",
			graph.Expression{lit(cty.StringVal("a")), lit(cty.NullVal(cty.String)), refPath("mesh", "arn")},
			"part 1: value is null",
		},
		{
			"Tuple",
			graph.Expression{
				lit(cty.StringVal("a")),
				lit(cty.TupleVal([]cty.Value{cty.NumberIntVal(1)})),
				refPath("mesh", "arn"),
			},
			"part 1: tuple value cannot be used in a string template",
		},
		{
			"Object",
			graph.Expression{
				refPath("mesh", "arn"),
				lit(cty.EmptyObjectVal),
				lit(cty.StringVal("b")),
			},
			"part 0: object value cannot be used in a string template",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.expr.MergeLiterals()
			if err == nil {
				t.Fatal("MergeLiterals() error = <nil>")
			}
			if err.Error() != tt.want {
				t.Errorf("MergeLiterals() error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExpression_IsLiteral(t *testing.T) {
	if !(graph.Expression{lit(cty.StringVal("x"))}).IsLiteral() {
		t.Error("literal expression: IsLiteral() = false")
	}
	if (graph.Expression{lit(cty.StringVal("x")), refPath("aws", "region")}).IsLiteral() {
		t.Error("expression with reference: IsLiteral() = true")
	}
}

func TestExpression_String(t *testing.T) {
	tests := []struct {
		name string
		expr graph.Expression
		want string
	}{
		{"Empty", nil, ""},
		{"Literal", graph.Expression{lit(cty.StringVal("colors.local"))}, "colors.local"},
		{"Number", graph.Expression{lit(cty.NumberIntVal(9080))}, "9080"},
		{"Bool", graph.Expression{lit(cty.True)}, "true"},
		{"Escaped", graph.Expression{lit(cty.StringVal("${literal}"))}, "$${literal}"},
		{
			"Mixed",
			graph.Expression{
				lit(cty.StringVal("arn:")),
				refPath("aws", "partition"),
				lit(cty.StringVal(":iam::")),
				graph.ExprReference{Path: cty.GetAttrPath("role").GetAttr("names").Index(cty.NumberIntVal(0))},
			},
			"arn:${aws.partition}:iam::${role.names[0]}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
