package schema

import (
	"reflect"
	"testing"
)

func TestFieldName(t *testing.T) {
	tests := []struct {
		name string
		tag  reflect.StructTag
		want string
	}{
		{name: "Name", want: "name"},
		{name: "VirtualNodeName", want: "virtual_node_name"},
		{name: "TaskRoleArn", want: "task_role_arn"},
		{name: "VpcID", want: "vpc_id"},
		{name: "CPU", want: "cpu"},
		{name: "EnableDNSHostnames", want: "enable_dns_hostnames"},
		{name: "MapPublicIPOnLaunch", want: "map_public_ip_on_launch"},
		{name: "HTTPRoute", want: "http_route"},
		{name: "Ipv6CidrBlock", want: "ipv6_cidr_block"},
		{name: "S3Key", want: "s3_key"},
		{name: "CIDR", tag: `name:"cidr_block"`, want: "cidr_block"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := reflect.StructField{Name: tt.name, Tag: tt.tag}
			if got := FieldName(f); got != tt.want {
				t.Errorf("FieldName(%s) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestFieldName_unexported(t *testing.T) {
	f := reflect.StructField{Name: "logger", PkgPath: "github.com/meshstack/meshstack/provider/aws"}
	if got := FieldName(f); got != "" {
		t.Errorf("FieldName() = %q, want empty", got)
	}
}
