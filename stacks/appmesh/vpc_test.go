package appmesh_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/meshstack/meshstack/stack"
	"github.com/meshstack/meshstack/stacks/appmesh"
	"github.com/meshstack/meshstack/template"
)

func synth(t *testing.T, app *stack.App, name string) *template.Template {
	t.Helper()
	asm, err := app.Synth(context.Background())
	if err != nil {
		t.Fatalf("Synth() error = %v", err)
	}
	a := asm.Stack(name)
	if a == nil {
		t.Fatalf("Assembly does not contain stack %q", name)
	}
	return a.Template
}

func mustResource(t *testing.T, tmpl *template.Template, name string) *template.Resource {
	t.Helper()
	r := tmpl.Resource(name)
	if r == nil {
		t.Fatalf("Template does not contain resource %q", name)
	}
	return r
}

func ref(stackName, name string) map[string]interface{} {
	return map[string]interface{}{"Ref": template.LogicalID(stackName, name)}
}

func TestNewVpc(t *testing.T) {
	tests := []struct {
		name          string
		maxAzs        int
		wantResources int
		wantAzs       []string
	}{
		{"One", 1, 13, []string{"eu-west-1a"}},
		{"Three", 3, 33, []string{"eu-west-1a", "eu-west-1b", "eu-west-1c"}},
		{"ClampLow", 0, 13, []string{"eu-west-1a"}},
		{"ClampHigh", 5, 33, []string{"eu-west-1a", "eu-west-1b", "eu-west-1c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := appmesh.NewApp()
			s := app.NewStack("net", stack.Environment{Region: "eu-west-1"})
			vpc := appmesh.NewVpc(s, "vpc", tt.maxAzs)

			if diff := cmp.Diff(vpc.AvailabilityZones, tt.wantAzs); diff != "" {
				t.Errorf("AvailabilityZones (-got, +want)\n%s", diff)
			}
			if len(vpc.PublicSubnets) != len(tt.wantAzs) || len(vpc.PrivateSubnets) != len(tt.wantAzs) {
				t.Errorf("Got %d public and %d private subnets, want %d", len(vpc.PublicSubnets), len(vpc.PrivateSubnets), len(tt.wantAzs)) // nolint: lll
			}

			tmpl := synth(t, app, "net")
			if len(tmpl.Resources) != tt.wantResources {
				t.Errorf("Got %d resources, want %d", len(tmpl.Resources), tt.wantResources)
			}
		})
	}
}

func TestNewVpc_properties(t *testing.T) {
	app := appmesh.NewApp()
	s := app.NewStack("net", stack.Environment{Region: "eu-west-1"})
	appmesh.NewVpc(s, "vpc", 2)
	tmpl := synth(t, app, "net")

	tests := []struct {
		resource string
		want     map[string]interface{}
	}{
		{
			resource: "vpc",
			want: map[string]interface{}{
				"CidrBlock":          "10.0.0.0/16",
				"EnableDnsHostnames": true,
				"EnableDnsSupport":   true,
				"Tags": []interface{}{
					map[string]interface{}{"Key": "Name", "Value": "net/vpc"},
				},
			},
		},
		{
			resource: "vpc_public_subnet_2",
			want: map[string]interface{}{
				"VpcId":               ref("net", "vpc"),
				"CidrBlock":           "10.0.32.0/19",
				"AvailabilityZone":    "eu-west-1b",
				"MapPublicIpOnLaunch": true,
				"Tags": []interface{}{
					map[string]interface{}{"Key": "Name", "Value": "net/vpc/PublicSubnet2"},
				},
			},
		},
		{
			resource: "vpc_private_subnet_1",
			want: map[string]interface{}{
				"VpcId":            ref("net", "vpc"),
				"CidrBlock":        "10.0.64.0/19",
				"AvailabilityZone": "eu-west-1a",
				"Tags": []interface{}{
					map[string]interface{}{"Key": "Name", "Value": "net/vpc/PrivateSubnet1"},
				},
			},
		},
		{
			resource: "vpc_public_nat_gateway_1",
			want: map[string]interface{}{
				"AllocationId": map[string]interface{}{
					"Fn::GetAtt": []interface{}{template.LogicalID("net", "vpc_public_eip_1"), "AllocationId"},
				},
				"SubnetId": ref("net", "vpc_public_subnet_1"),
			},
		},
		{
			resource: "vpc_private_default_route_1",
			want: map[string]interface{}{
				"RouteTableId":         ref("net", "vpc_private_route_table_1"),
				"DestinationCidrBlock": "0.0.0.0/0",
				"NatGatewayId":         ref("net", "vpc_public_nat_gateway_1"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			got := mustResource(t, tmpl, tt.resource).Properties
			if diff := cmp.Diff(got, tt.want); diff != "" {
				t.Errorf("Properties (-got, +want)\n%s", diff)
			}
		})
	}

	route := mustResource(t, tmpl, "vpc_public_default_route_1")
	want := []string{template.LogicalID("net", "vpc_igw_attachment")}
	if diff := cmp.Diff(route.DependsOn, want); diff != "" {
		t.Errorf("DependsOn (-got, +want)\n%s", diff)
	}
}

func TestNewVpc_unknownRegion(t *testing.T) {
	app := appmesh.NewApp()
	s := app.NewStack("net", stack.Environment{})
	appmesh.NewVpc(s, "vpc", 1)
	tmpl := synth(t, app, "net")

	got := mustResource(t, tmpl, "vpc_public_subnet_1").Properties["AvailabilityZone"]
	want := map[string]interface{}{
		"Fn::Join": []interface{}{"", []interface{}{
			map[string]interface{}{"Ref": "AWS::Region"},
			"a",
		}},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("AvailabilityZone (-got, +want)\n%s", diff)
	}
}

func TestNewVpcStack(t *testing.T) {
	app := appmesh.NewApp()
	appmesh.NewVpcStack(app, stack.Environment{Region: "us-east-1"})
	tmpl := synth(t, app, appmesh.VpcStackName)

	want := []*template.Output{{
		LogicalID:   "VpcId",
		Description: "VPC ID",
		Value:       ref(appmesh.VpcStackName, "vpc"),
	}}
	if diff := cmp.Diff(tmpl.Outputs, want); diff != "" {
		t.Errorf("Outputs (-got, +want)\n%s", diff)
	}
}
