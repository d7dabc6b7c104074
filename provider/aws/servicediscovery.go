package aws

// ServiceDiscoveryPrivateDNSNamespace creates a private namespace based on
// DNS, which is visible only inside a specified VPC.
type ServiceDiscoveryPrivateDNSNamespace struct {
	// Inputs

	// The name that you want to assign to this namespace, such as
	// colors.local. When you create a private DNS namespace, Cloud Map
	// automatically creates a Route 53 private hosted zone that has the same
	// name as the namespace.
	Name string `stack:"input,required" validate:"min=1,max=1024"`

	// The ID of the Amazon VPC that you want to associate the namespace with.
	Vpc string `stack:"input,required"`

	Description *string `stack:"input" validate:"max=1024"`

	Tags []Tag `stack:"input"`

	// Outputs

	// The Amazon Resource Name (ARN) of the namespace.
	Arn string `stack:"output"`

	// The ID of the namespace.
	ID string `stack:"output" name:"id" cfn:"Id"`
}

// Type returns the type name for a private DNS namespace.
func (*ServiceDiscoveryPrivateDNSNamespace) Type() string {
	return "aws_servicediscovery_private_dns_namespace"
}

// CloudFormationType returns the CloudFormation resource type.
func (*ServiceDiscoveryPrivateDNSNamespace) CloudFormationType() string {
	return "AWS::ServiceDiscovery::PrivateDnsNamespace"
}
