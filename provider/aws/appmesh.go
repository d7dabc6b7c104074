package aws

// AppMeshMesh creates a service mesh, a logical boundary for network traffic
// between the services that reside within it.
type AppMeshMesh struct {
	// Inputs

	// The name to use for the service mesh.
	MeshName *string `stack:"input" validate:"min=1,max=255"`

	Spec *MeshSpec `stack:"input"`

	Tags []Tag `stack:"input"`

	// Outputs

	// The full Amazon Resource Name (ARN) for the mesh.
	Arn string `stack:"output"`

	// The unique identifier for the mesh.
	UID string `stack:"output" name:"uid" cfn:"Uid"`
}

// Type returns the type name for an App Mesh mesh.
func (*AppMeshMesh) Type() string { return "aws_appmesh_mesh" }

// CloudFormationType returns the CloudFormation resource type.
func (*AppMeshMesh) CloudFormationType() string { return "AWS::AppMesh::Mesh" }

// MeshSpec is the specification of a service mesh.
type MeshSpec struct {
	EgressFilter *EgressFilter `stack:"input"`
}

// EgressFilter sets whether traffic to destinations outside the mesh is
// allowed.
type EgressFilter struct {
	Type string `stack:"input,required" validate:"oneof=ALLOW_ALL DROP_ALL"`
}

// AppMeshVirtualNode creates a virtual node, a logical pointer to a
// discoverable service such as an ECS service.
type AppMeshVirtualNode struct {
	// Inputs

	MeshName        string          `stack:"input,required"`
	VirtualNodeName string          `stack:"input,required" validate:"min=1,max=255"`
	Spec            VirtualNodeSpec `stack:"input,required"`
	Tags            []Tag           `stack:"input"`

	// Outputs

	Arn string `stack:"output"`
	UID string `stack:"output" name:"uid" cfn:"Uid"`
}

// Type returns the type name for an App Mesh virtual node.
func (*AppMeshVirtualNode) Type() string { return "aws_appmesh_virtual_node" }

// CloudFormationType returns the CloudFormation resource type.
func (*AppMeshVirtualNode) CloudFormationType() string { return "AWS::AppMesh::VirtualNode" }

// VirtualNodeSpec is the specification of a virtual node.
type VirtualNodeSpec struct {
	// The listener that the virtual node is expected to receive inbound
	// traffic from. A virtual node can have at most one listener.
	Listeners []Listener `stack:"input" validate:"max=1"`

	// How the virtual node is discovered by other mesh members.
	ServiceDiscovery *ServiceDiscovery `stack:"input"`

	// Virtual services the node is expected to send outbound traffic to.
	Backends []Backend `stack:"input"`
}

// Listener protocols.
const (
	ProtocolHTTP  = "http"
	ProtocolHTTP2 = "http2"
	ProtocolGRPC  = "grpc"
	ProtocolTCP   = "tcp"
)

// A Listener describes the inbound traffic of a virtual node.
type Listener struct {
	PortMapping ListenerPortMapping `stack:"input,required"`
	HealthCheck *HealthCheck        `stack:"input"`
}

// ListenerPortMapping is the port and protocol of a listener.
type ListenerPortMapping struct {
	Port     int    `stack:"input,required" validate:"port"`
	Protocol string `stack:"input,required" validate:"oneof=http http2 grpc tcp"`
}

// A HealthCheck is the health check policy of a listener. Durations are in
// milliseconds.
type HealthCheck struct {
	Protocol           string  `stack:"input,required" validate:"oneof=http http2 grpc tcp"`
	Path               *string `stack:"input"`
	Port               *int    `stack:"input" validate:"port"`
	HealthyThreshold   int     `stack:"input,required" validate:"min=2,max=10"`
	UnhealthyThreshold int     `stack:"input,required" validate:"min=2,max=10"`
	TimeoutMillis      int     `stack:"input,required" validate:"min=2000,max=60000"`
	IntervalMillis     int     `stack:"input,required" validate:"min=5000,max=300000"`
}

// ServiceDiscovery sets how a virtual node is discovered.
type ServiceDiscovery struct {
	DNS *DNSServiceDiscovery `stack:"input" name:"dns" cfn:"DNS"`
}

// DNSServiceDiscovery discovers a virtual node through a DNS hostname.
type DNSServiceDiscovery struct {
	Hostname string `stack:"input,required"`
}

// DNS returns service discovery through the given hostname.
func DNS(hostname string) *ServiceDiscovery {
	return &ServiceDiscovery{DNS: &DNSServiceDiscovery{Hostname: hostname}}
}

// A Backend is a virtual service a virtual node sends traffic to.
type Backend struct {
	VirtualService *VirtualServiceBackend `stack:"input"`
}

// VirtualServiceBackend references a virtual service by name.
type VirtualServiceBackend struct {
	VirtualServiceName string `stack:"input,required"`
}

// VirtualServiceBackends returns backends for the named virtual services.
func VirtualServiceBackends(names ...string) []Backend {
	out := make([]Backend, len(names))
	for i, n := range names {
		out[i] = Backend{VirtualService: &VirtualServiceBackend{VirtualServiceName: n}}
	}
	return out
}

// AppMeshVirtualRouter creates a virtual router, which handles traffic for
// one or more virtual services.
type AppMeshVirtualRouter struct {
	MeshName          string            `stack:"input,required"`
	VirtualRouterName string            `stack:"input,required" validate:"min=1,max=255"`
	Spec              VirtualRouterSpec `stack:"input,required"`
	Tags              []Tag             `stack:"input"`

	Arn string `stack:"output"`
	UID string `stack:"output" name:"uid" cfn:"Uid"`
}

// Type returns the type name for an App Mesh virtual router.
func (*AppMeshVirtualRouter) Type() string { return "aws_appmesh_virtual_router" }

// CloudFormationType returns the CloudFormation resource type.
func (*AppMeshVirtualRouter) CloudFormationType() string { return "AWS::AppMesh::VirtualRouter" }

// VirtualRouterSpec is the specification of a virtual router.
type VirtualRouterSpec struct {
	Listeners []VirtualRouterListener `stack:"input,required" validate:"min=1,max=1"`
}

// A VirtualRouterListener is the port and protocol a router listens on.
type VirtualRouterListener struct {
	PortMapping ListenerPortMapping `stack:"input,required"`
}

// AppMeshRoute specifies a route that is associated with a virtual router.
type AppMeshRoute struct {
	MeshName          string    `stack:"input,required"`
	VirtualRouterName string    `stack:"input,required"`
	RouteName         string    `stack:"input,required" validate:"min=1,max=255"`
	Spec              RouteSpec `stack:"input,required"`
	Tags              []Tag     `stack:"input"`

	Arn string `stack:"output"`
	UID string `stack:"output" name:"uid" cfn:"Uid"`
}

// Type returns the type name for an App Mesh route.
func (*AppMeshRoute) Type() string { return "aws_appmesh_route" }

// CloudFormationType returns the CloudFormation resource type.
func (*AppMeshRoute) CloudFormationType() string { return "AWS::AppMesh::Route" }

// RouteSpec is the specification of a route. Exactly one of the routes
// should be set.
type RouteSpec struct {
	HTTPRoute *HTTPRoute `stack:"input" name:"http_route" cfn:"HttpRoute"`
	TCPRoute  *TCPRoute  `stack:"input" name:"tcp_route" cfn:"TcpRoute"`
}

// HTTPRoute matches HTTP requests and sends them to weighted targets.
type HTTPRoute struct {
	Match  HTTPRouteMatch `stack:"input,required"`
	Action RouteAction    `stack:"input,required"`
}

// HTTPRouteMatch matches requests by path prefix.
type HTTPRouteMatch struct {
	Prefix string `stack:"input,required"`
}

// TCPRoute sends TCP connections to weighted targets.
type TCPRoute struct {
	Action RouteAction `stack:"input,required"`
}

// RouteAction lists the targets that traffic is routed to.
type RouteAction struct {
	WeightedTargets []WeightedTarget `stack:"input,required" validate:"min=1,max=10"`
}

// A WeightedTarget is a virtual node and its relative weight.
type WeightedTarget struct {
	VirtualNode string `stack:"input,required"`
	Weight      int    `stack:"input,required" validate:"min=0,max=100"`
}

// AppMeshVirtualService creates a virtual service, an abstraction of a real
// service provided by a virtual node or a virtual router.
type AppMeshVirtualService struct {
	MeshName           string             `stack:"input,required"`
	VirtualServiceName string             `stack:"input,required"`
	Spec               VirtualServiceSpec `stack:"input,required"`
	Tags               []Tag              `stack:"input"`

	Arn string `stack:"output"`
	UID string `stack:"output" name:"uid" cfn:"Uid"`
}

// Type returns the type name for an App Mesh virtual service.
func (*AppMeshVirtualService) Type() string { return "aws_appmesh_virtual_service" }

// CloudFormationType returns the CloudFormation resource type.
func (*AppMeshVirtualService) CloudFormationType() string { return "AWS::AppMesh::VirtualService" }

// VirtualServiceSpec is the specification of a virtual service.
type VirtualServiceSpec struct {
	Provider *VirtualServiceProvider `stack:"input"`
}

// VirtualServiceProvider is the node or router that provides a virtual
// service. Only one should be set.
type VirtualServiceProvider struct {
	VirtualNode   *VirtualNodeServiceProvider   `stack:"input"`
	VirtualRouter *VirtualRouterServiceProvider `stack:"input"`
}

// VirtualNodeServiceProvider provides a service through a virtual node.
type VirtualNodeServiceProvider struct {
	VirtualNodeName string `stack:"input,required"`
}

// VirtualRouterServiceProvider provides a service through a virtual router.
type VirtualRouterServiceProvider struct {
	VirtualRouterName string `stack:"input,required"`
}
