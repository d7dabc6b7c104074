package suggest_test

import (
	"fmt"
	"testing"

	"github.com/meshstack/meshstack/suggest"
)

func ExampleString() {
	userProvided := "aws_appmesh_virtualnode"
	candidates := []string{"aws_appmesh_virtual_node", "aws_appmesh_virtual_router"}

	suggestion := suggest.String(userProvided, candidates)
	fmt.Printf("Did you mean %q?", suggestion)
	// Output: Did you mean "aws_appmesh_virtual_node"?
}

func TestString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		options []string
		want    string
	}{
		{"Exact", "arn", []string{"ref", "arn"}, "arn"},
		{"OneEdit", "arm", []string{"ref", "arn"}, "arn"},
		{"TooShort", "id", []string{"ref", "arn"}, ""},
		{"CaseInsensitive", "AWS_ECS_CLUSTER", []string{"aws_ecs_cluster", "aws_ecs_service"}, "aws_ecs_cluster"},
		{"Separators", "aws:iam:role", []string{"aws_iam_role", "aws_iam_policy"}, "aws_iam_role"},
		{"TooFar", "aws_appmesh_gateway", []string{"aws_appmesh_mesh", "aws_appmesh_route"}, ""},
		{"Closest", "colr", []string{"color", "colors"}, "color"},
		{"NoCandidates", "mesh", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := suggest.String(tt.input, tt.options)
			if got != tt.want {
				t.Errorf("String(%q, %q) = %q, want %q", tt.input, tt.options, got, tt.want)
			}
		})
	}
}

func TestDidYouMean(t *testing.T) {
	if got := suggest.DidYouMean("arn", []string{"ref", "arn"}); got != "" {
		t.Errorf("exact match got = %q, want empty", got)
	}
	if got, want := suggest.DidYouMean("arm", []string{"ref", "arn"}), `Did you mean "arn"?`; got != want {
		t.Errorf("got = %q, want = %q", got, want)
	}
}
