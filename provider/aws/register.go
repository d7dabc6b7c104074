// Package aws contains resource definitions for AWS CloudFormation resources
// and helpers for resolving the deployment environment.
package aws

import (
	"github.com/meshstack/meshstack/resource"
)

type registry interface {
	Register(resource.Definition)
}

// Register adds all supported AWS resources to the registry.
func Register(reg registry) {
	for _, def := range Definitions() {
		reg.Register(def)
	}
}

// Definitions returns a zero value of every supported resource.
func Definitions() []resource.Definition {
	return []resource.Definition{
		&EC2VPC{},
		&EC2Subnet{},
		&EC2InternetGateway{},
		&EC2VPCGatewayAttachment{},
		&EC2RouteTable{},
		&EC2Route{},
		&EC2SubnetRouteTableAssociation{},
		&EC2EIP{},
		&EC2NatGateway{},
		&ECSCluster{},
		&ECSTaskDefinition{},
		&AppMeshMesh{},
		&AppMeshVirtualNode{},
		&AppMeshVirtualRouter{},
		&AppMeshRoute{},
		&AppMeshVirtualService{},
		&ServiceDiscoveryPrivateDNSNamespace{},
		&IAMRole{},
		&LogsLogGroup{},
	}
}

// NewRegistry returns a registry with all supported AWS resources.
func NewRegistry() *resource.Registry {
	reg := &resource.Registry{}
	Register(reg)
	return reg
}
