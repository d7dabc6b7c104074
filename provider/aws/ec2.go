package aws

// EC2VPC specifies a virtual private cloud (VPC).
type EC2VPC struct {
	// Inputs

	// The primary IPv4 CIDR block for the VPC.
	CidrBlock string `stack:"input,required" validate:"cidr"`

	// Indicates whether the instances launched in the VPC get DNS hostnames.
	EnableDNSHostnames *bool `stack:"input" name:"enable_dns_hostnames" cfn:"EnableDnsHostnames"`

	// Indicates whether the DNS resolution is supported for the VPC.
	EnableDNSSupport *bool `stack:"input" name:"enable_dns_support" cfn:"EnableDnsSupport"`

	// The allowed tenancy of instances launched into the VPC.
	InstanceTenancy *string `stack:"input" validate:"oneof=default dedicated"`

	Tags []Tag `stack:"input"`

	// Outputs

	// The ID of the default security group created with the VPC.
	DefaultSecurityGroup string `stack:"output"`

	// The ID of the default network ACL created with the VPC.
	DefaultNetworkACL string `stack:"output" name:"default_network_acl" cfn:"DefaultNetworkAcl"`
}

// Type returns the type name for an EC2 VPC.
func (*EC2VPC) Type() string { return "aws_ec2_vpc" }

// CloudFormationType returns the CloudFormation resource type.
func (*EC2VPC) CloudFormationType() string { return "AWS::EC2::VPC" }

// EC2Subnet specifies a subnet for a VPC.
type EC2Subnet struct {
	// Inputs

	// The ID of the VPC the subnet is in.
	VpcID string `stack:"input,required" name:"vpc_id" cfn:"VpcId"`

	// The IPv4 CIDR block assigned to the subnet. Must be within the VPC's
	// CIDR block.
	CidrBlock string `stack:"input,required" validate:"cidr"`

	// The Availability Zone of the subnet.
	AvailabilityZone *string `stack:"input"`

	// Indicates whether instances launched in this subnet receive a public
	// IPv4 address.
	MapPublicIPOnLaunch *bool `stack:"input" name:"map_public_ip_on_launch" cfn:"MapPublicIpOnLaunch"`

	Tags []Tag `stack:"input"`

	// Outputs

	NetworkACLAssociationID string `stack:"output" name:"network_acl_association_id" cfn:"NetworkAclAssociationId"`
}

// Type returns the type name for an EC2 subnet.
func (*EC2Subnet) Type() string { return "aws_ec2_subnet" }

// CloudFormationType returns the CloudFormation resource type.
func (*EC2Subnet) CloudFormationType() string { return "AWS::EC2::Subnet" }

// EC2InternetGateway allocates an internet gateway for use with a VPC.
type EC2InternetGateway struct {
	Tags []Tag `stack:"input"`

	InternetGatewayID string `stack:"output" name:"internet_gateway_id" cfn:"InternetGatewayId"`
}

// Type returns the type name for an EC2 internet gateway.
func (*EC2InternetGateway) Type() string { return "aws_ec2_internet_gateway" }

// CloudFormationType returns the CloudFormation resource type.
func (*EC2InternetGateway) CloudFormationType() string { return "AWS::EC2::InternetGateway" }

// EC2VPCGatewayAttachment attaches an internet gateway to a VPC.
type EC2VPCGatewayAttachment struct {
	VpcID             string  `stack:"input,required" name:"vpc_id" cfn:"VpcId"`
	InternetGatewayID *string `stack:"input" name:"internet_gateway_id" cfn:"InternetGatewayId"`
}

// Type returns the type name for a VPC gateway attachment.
func (*EC2VPCGatewayAttachment) Type() string { return "aws_ec2_vpc_gateway_attachment" }

// CloudFormationType returns the CloudFormation resource type.
func (*EC2VPCGatewayAttachment) CloudFormationType() string { return "AWS::EC2::VPCGatewayAttachment" }

// EC2RouteTable specifies a route table for a VPC.
type EC2RouteTable struct {
	VpcID string `stack:"input,required" name:"vpc_id" cfn:"VpcId"`
	Tags  []Tag  `stack:"input"`

	RouteTableID string `stack:"output" name:"route_table_id" cfn:"RouteTableId"`
}

// Type returns the type name for an EC2 route table.
func (*EC2RouteTable) Type() string { return "aws_ec2_route_table" }

// CloudFormationType returns the CloudFormation resource type.
func (*EC2RouteTable) CloudFormationType() string { return "AWS::EC2::RouteTable" }

// EC2Route specifies a route in a route table. Exactly one target, either
// GatewayID or NatGatewayID, should be set.
type EC2Route struct {
	RouteTableID         string  `stack:"input,required" name:"route_table_id" cfn:"RouteTableId"`
	DestinationCidrBlock *string `stack:"input" validate:"cidr"`
	GatewayID            *string `stack:"input" name:"gateway_id" cfn:"GatewayId"`
	NatGatewayID         *string `stack:"input" name:"nat_gateway_id" cfn:"NatGatewayId"`
}

// Type returns the type name for an EC2 route.
func (*EC2Route) Type() string { return "aws_ec2_route" }

// CloudFormationType returns the CloudFormation resource type.
func (*EC2Route) CloudFormationType() string { return "AWS::EC2::Route" }

// EC2SubnetRouteTableAssociation associates a subnet with a route table.
type EC2SubnetRouteTableAssociation struct {
	RouteTableID string `stack:"input,required" name:"route_table_id" cfn:"RouteTableId"`
	SubnetID     string `stack:"input,required" name:"subnet_id" cfn:"SubnetId"`
}

// Type returns the type name for a subnet route table association.
func (*EC2SubnetRouteTableAssociation) Type() string {
	return "aws_ec2_subnet_route_table_association"
}

// CloudFormationType returns the CloudFormation resource type.
func (*EC2SubnetRouteTableAssociation) CloudFormationType() string {
	return "AWS::EC2::SubnetRouteTableAssociation"
}

// EC2EIP specifies an Elastic IP address.
type EC2EIP struct {
	// Indicates whether the address is for use in a VPC.
	Domain *string `stack:"input" validate:"oneof=vpc standard"`
	Tags   []Tag   `stack:"input"`

	AllocationID string `stack:"output" name:"allocation_id" cfn:"AllocationId"`
}

// Type returns the type name for an Elastic IP.
func (*EC2EIP) Type() string { return "aws_ec2_eip" }

// CloudFormationType returns the CloudFormation resource type.
func (*EC2EIP) CloudFormationType() string { return "AWS::EC2::EIP" }

// EC2NatGateway specifies a network address translation gateway in a public
// subnet.
type EC2NatGateway struct {
	// The allocation ID of the Elastic IP address associated with the gateway.
	AllocationID *string `stack:"input" name:"allocation_id" cfn:"AllocationId"`

	// The public subnet the gateway is placed in.
	SubnetID string `stack:"input,required" name:"subnet_id" cfn:"SubnetId"`

	Tags []Tag `stack:"input"`
}

// Type returns the type name for a NAT gateway.
func (*EC2NatGateway) Type() string { return "aws_ec2_nat_gateway" }

// CloudFormationType returns the CloudFormation resource type.
func (*EC2NatGateway) CloudFormationType() string { return "AWS::EC2::NatGateway" }
