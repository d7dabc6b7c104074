package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/meshstack/meshstack/stacks/appmesh"
)

func TestResourceDocs(t *testing.T) {
	reg := appmesh.NewApp().Registry

	got, err := resourceDocs(reg, []string{"aws_logs_log_group"})
	if err != nil {
		t.Fatalf("resourceDocs() error = %v", err)
	}
	want := []typeDoc{{
		Name:           "aws_logs_log_group",
		CloudFormation: "AWS::Logs::LogGroup",
		Inputs: []fieldDoc{
			{Name: "log_group_name", Validate: "min=1,max=512"},
			{Name: "retention_in_days", Validate: "oneof=1 3 5 7 14 30 60 90 120 150 180 365 400 545 731 1827 3653"},
		},
		Outputs: []fieldDoc{{Name: "arn"}},
	}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("resourceDocs() (-got, +want)\n%s", diff)
	}
}

func TestResourceDocs_all(t *testing.T) {
	reg := appmesh.NewApp().Registry
	got, err := resourceDocs(reg, nil)
	if err != nil {
		t.Fatalf("resourceDocs() error = %v", err)
	}
	if len(got) != len(reg.Typenames()) {
		t.Errorf("Got %d docs, want %d", len(got), len(reg.Typenames()))
	}
}

func TestResourceDocs_unknown(t *testing.T) {
	reg := appmesh.NewApp().Registry
	_, err := resourceDocs(reg, []string{"aws_logs_log_grup"})
	if err == nil {
		t.Fatal("resourceDocs() returned nil error")
	}
	want := `resource type "aws_logs_log_grup" not supported, did you mean "aws_logs_log_group"?`
	if err.Error() != want {
		t.Errorf("Error = %q, want %q", err.Error(), want)
	}
}
