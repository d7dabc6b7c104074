// Package appmesh declares the App Mesh "colors" demo application: a VPC, an
// ECS cluster, and a service mesh of color teller services.
package appmesh

import (
	"fmt"
	"strconv"

	"github.com/meshstack/meshstack/provider/aws"
	"github.com/meshstack/meshstack/stack"
)

// VpcCidr is the address range of VPCs created with NewVpc.
const VpcCidr = "10.0.0.0/16"

// MaxAzs is the maximum number of availability zones a VPC spans.
const MaxAzs = 3

// A Vpc is a VPC with a public and a private subnet in each availability
// zone. Private subnets route outbound traffic through a NAT gateway in the
// public subnet of the same zone.
type Vpc struct {
	VPC               *stack.Construct
	InternetGateway   *stack.Construct
	PublicSubnets     []*stack.Construct
	PrivateSubnets    []*stack.Construct
	AvailabilityZones []string
}

// Ref returns a token for the VPC ID.
func (v *Vpc) Ref() string { return v.VPC.Ref() }

// NewVpc adds a VPC to the stack. Resource names are prefixed with id.
//
// The VPC spans maxAzs availability zones, at least 1 and at most MaxAzs.
// Every subnet is a /19 block of VpcCidr: public subnets come first,
// followed by the private subnets.
func NewVpc(s *stack.Stack, id string, maxAzs int) *Vpc {
	if maxAzs < 1 {
		maxAzs = 1
	}
	if maxAzs > MaxAzs {
		maxAzs = MaxAzs
	}

	v := &Vpc{}
	v.VPC = s.Add(id, &aws.EC2VPC{
		CidrBlock:          VpcCidr,
		EnableDNSHostnames: boolPtr(true),
		EnableDNSSupport:   boolPtr(true),
		Tags:               aws.Tags("Name", s.Name+"/"+id),
	})
	v.InternetGateway = s.Add(id+"_igw", &aws.EC2InternetGateway{
		Tags: aws.Tags("Name", s.Name+"/"+id),
	})
	attach := s.Add(id+"_igw_attachment", &aws.EC2VPCGatewayAttachment{
		VpcID:             v.VPC.Ref(),
		InternetGatewayID: strPtr(v.InternetGateway.Ref()),
	})

	for i := 0; i < maxAzs; i++ {
		az := s.Region() + string(rune('a'+i))
		v.AvailabilityZones = append(v.AvailabilityZones, az)
		n := strconv.Itoa(i + 1)

		public := s.Add(id+"_public_subnet_"+n, &aws.EC2Subnet{
			VpcID:               v.VPC.Ref(),
			CidrBlock:           subnetCidr(i),
			AvailabilityZone:    strPtr(az),
			MapPublicIPOnLaunch: boolPtr(true),
			Tags:                aws.Tags("Name", fmt.Sprintf("%s/%s/PublicSubnet%s", s.Name, id, n)),
		})
		v.PublicSubnets = append(v.PublicSubnets, public)
		publicRT := s.Add(id+"_public_route_table_"+n, &aws.EC2RouteTable{
			VpcID: v.VPC.Ref(),
		})
		s.Add(id+"_public_route_table_association_"+n, &aws.EC2SubnetRouteTableAssociation{
			RouteTableID: publicRT.Ref(),
			SubnetID:     public.Ref(),
		})
		s.Add(id+"_public_default_route_"+n, &aws.EC2Route{
			RouteTableID:         publicRT.Ref(),
			DestinationCidrBlock: strPtr("0.0.0.0/0"),
			GatewayID:            strPtr(v.InternetGateway.Ref()),
		}, stack.DependsOn(attach))

		eip := s.Add(id+"_public_eip_"+n, &aws.EC2EIP{
			Domain: strPtr("vpc"),
		})
		nat := s.Add(id+"_public_nat_gateway_"+n, &aws.EC2NatGateway{
			AllocationID: strPtr(eip.Attr("allocation_id")),
			SubnetID:     public.Ref(),
		})

		private := s.Add(id+"_private_subnet_"+n, &aws.EC2Subnet{
			VpcID:            v.VPC.Ref(),
			CidrBlock:        subnetCidr(maxAzs + i),
			AvailabilityZone: strPtr(az),
			Tags:             aws.Tags("Name", fmt.Sprintf("%s/%s/PrivateSubnet%s", s.Name, id, n)),
		})
		v.PrivateSubnets = append(v.PrivateSubnets, private)
		privateRT := s.Add(id+"_private_route_table_"+n, &aws.EC2RouteTable{
			VpcID: v.VPC.Ref(),
		})
		s.Add(id+"_private_route_table_association_"+n, &aws.EC2SubnetRouteTableAssociation{
			RouteTableID: privateRT.Ref(),
			SubnetID:     private.Ref(),
		})
		s.Add(id+"_private_default_route_"+n, &aws.EC2Route{
			RouteTableID:         privateRT.Ref(),
			DestinationCidrBlock: strPtr("0.0.0.0/0"),
			NatGatewayID:         strPtr(nat.Ref()),
		})
	}
	return v
}

// subnetCidr returns the i:th /19 block in VpcCidr.
func subnetCidr(i int) string {
	return fmt.Sprintf("10.0.%d.0/19", i*32)
}

// VpcStackName is the name of the stack created by NewVpcStack.
const VpcStackName = "VpcStack"

// NewVpcStack adds a stack that only contains a VPC.
func NewVpcStack(app *stack.App, env stack.Environment) *stack.Stack {
	s := app.NewStack(VpcStackName, env, stack.WithDescription("VPC with public and private subnets"))
	vpc := NewVpc(s, "vpc", MaxAzs)
	s.Output("vpc_id", vpc.Ref(), "VPC ID")
	return s
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
