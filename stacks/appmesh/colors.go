package appmesh

import (
	"github.com/meshstack/meshstack/provider/aws"
	"github.com/meshstack/meshstack/stack"
	"github.com/pkg/errors"
)

// Names of the colors application.
const (
	MeshName        = "colorsMesh"
	NamespaceName   = "colors.local"
	AppPort         = 9080
	TCPEchoPort     = 2701
	ColorTeller     = "colorteller"
	ColorGateway    = "colorgateway"
	TCPEcho         = "tcpecho"
	RouterName      = "colorteller-vr"
	RouteName       = "colorteller-route"
	EnvoyRepository = "arn:aws:ecr:us-west-2:840364872350:repository/aws-appmesh-envoy"
	EnvoyTag        = "v1.20.0.1-prod"
	EnvoyUID        = 1337
)

// Colors are the colors served by color teller nodes.
var Colors = []string{"black", "blue", "red", "white"}

// ColorsStackName is the default name of the colors stack.
const ColorsStackName = "VpcStack"

// NewColorsStack adds a stack with the colors application: a VPC, an ECS
// cluster, a private DNS namespace and an App Mesh with color teller, tcp
// echo and gateway nodes.
func NewColorsStack(app *stack.App, name string, env stack.Environment) *stack.Stack {
	s := app.NewStack(name, env, stack.WithDescription("App Mesh colors application"))

	vpc := NewVpc(s, "my_vpc", MaxAzs)

	mesh := s.Add("colors_mesh", &aws.AppMeshMesh{
		MeshName: strPtr(MeshName),
	})
	cluster := s.Add("colors_cluster", &aws.ECSCluster{})
	s.Add("service_namespace", &aws.ServiceDiscoveryPrivateDNSNamespace{
		Name: NamespaceName,
		Vpc:  vpc.Ref(),
	})

	taskRole := s.Add("task_role", &aws.IAMRole{
		AssumeRolePolicyDocument: aws.AssumeRolePolicy("ecs-tasks.amazonaws.com"),
		ManagedPolicyArns: []string{
			aws.ManagedPolicyArn("CloudWatchFullAccess"),
			aws.ManagedPolicyArn("AWSXRayDaemonWriteAccess"),
			aws.ManagedPolicyArn("AWSAppMeshEnvoyAccess"),
		},
	})
	executionRole := s.Add("task_execution_role", &aws.IAMRole{
		AssumeRolePolicyDocument: aws.AssumeRolePolicy("ecs-tasks.amazonaws.com"),
		ManagedPolicyArns: []string{
			aws.ManagedPolicyArn("service-role/AmazonECSTaskExecutionRolePolicy"),
			aws.ManagedPolicyArn("AmazonEC2ContainerRegistryReadOnly"),
			aws.ManagedPolicyArn("CloudWatchLogsFullAccess"),
		},
	})
	logGroup := s.Add("service_log_group", &aws.LogsLogGroup{
		RetentionInDays: intPtr(aws.RetentionTwoWeeks),
	})

	// Color tellers, routed to with equal weights.
	var nodes []*stack.Construct
	var targets []aws.WeightedTarget
	for _, color := range Colors {
		nodeName := color + "-vn"
		n := s.Add(color+"_virtual_node", &aws.AppMeshVirtualNode{
			MeshName:        MeshName,
			VirtualNodeName: nodeName,
			Spec: aws.VirtualNodeSpec{
				Listeners: []aws.Listener{{
					PortMapping: aws.ListenerPortMapping{Port: AppPort, Protocol: aws.ProtocolHTTP},
					HealthCheck: httpHealthCheck("/ping"),
				}},
				ServiceDiscovery: aws.DNS(ColorTeller + "-" + color + "." + NamespaceName),
			},
		}, stack.DependsOn(mesh))
		nodes = append(nodes, n)
		targets = append(targets, aws.WeightedTarget{VirtualNode: nodeName, Weight: 1})
	}

	router := s.Add("color_teller_virtual_router", &aws.AppMeshVirtualRouter{
		MeshName:          MeshName,
		VirtualRouterName: RouterName,
		Spec: aws.VirtualRouterSpec{
			Listeners: []aws.VirtualRouterListener{{
				PortMapping: aws.ListenerPortMapping{Port: AppPort, Protocol: aws.ProtocolHTTP},
			}},
		},
	}, stack.DependsOn(mesh))

	s.Add("color_teller_route", &aws.AppMeshRoute{
		MeshName:          MeshName,
		VirtualRouterName: RouterName,
		RouteName:         RouteName,
		Spec: aws.RouteSpec{
			HTTPRoute: &aws.HTTPRoute{
				Match:  aws.HTTPRouteMatch{Prefix: "/"},
				Action: aws.RouteAction{WeightedTargets: targets},
			},
		},
	}, stack.DependsOn(append([]*stack.Construct{router}, nodes...)...))

	colorTellerService := s.Add("color_teller_virtual_service", &aws.AppMeshVirtualService{
		MeshName:           MeshName,
		VirtualServiceName: ColorTeller + "." + NamespaceName,
		Spec: aws.VirtualServiceSpec{
			Provider: &aws.VirtualServiceProvider{
				VirtualRouter: &aws.VirtualRouterServiceProvider{VirtualRouterName: RouterName},
			},
		},
	}, stack.DependsOn(router))

	tcpEchoNode := s.Add("tcp_echo_virtual_node", &aws.AppMeshVirtualNode{
		MeshName:        MeshName,
		VirtualNodeName: TCPEcho + "-vn",
		Spec: aws.VirtualNodeSpec{
			Listeners: []aws.Listener{{
				PortMapping: aws.ListenerPortMapping{Port: TCPEchoPort, Protocol: aws.ProtocolTCP},
				HealthCheck: &aws.HealthCheck{
					Protocol:           aws.ProtocolTCP,
					HealthyThreshold:   2,
					UnhealthyThreshold: 2,
					TimeoutMillis:      2000,
					IntervalMillis:     5000,
				},
			}},
			ServiceDiscovery: aws.DNS(TCPEcho + "." + NamespaceName),
		},
	}, stack.DependsOn(mesh))

	tcpEchoService := s.Add("tcp_echo_virtual_service", &aws.AppMeshVirtualService{
		MeshName:           MeshName,
		VirtualServiceName: TCPEcho + "." + NamespaceName,
		Spec: aws.VirtualServiceSpec{
			Provider: &aws.VirtualServiceProvider{
				VirtualNode: &aws.VirtualNodeServiceProvider{VirtualNodeName: TCPEcho + "-vn"},
			},
		},
	}, stack.DependsOn(tcpEchoNode))

	s.Add("color_gateway_virtual_node", &aws.AppMeshVirtualNode{
		MeshName:        MeshName,
		VirtualNodeName: ColorGateway + "-vn",
		Spec: aws.VirtualNodeSpec{
			Listeners: []aws.Listener{{
				PortMapping: aws.ListenerPortMapping{Port: AppPort, Protocol: aws.ProtocolHTTP},
			}},
			ServiceDiscovery: aws.DNS(ColorGateway + "." + NamespaceName),
			Backends: aws.VirtualServiceBackends(
				ColorTeller+"."+NamespaceName,
				TCPEcho+"."+NamespaceName,
			),
		},
	}, stack.DependsOn(colorTellerService, tcpEchoService))

	task, err := colorTellerTask(s, "black", logGroup.Ref())
	if err != nil {
		// EnvoyRepository is a valid repository ARN.
		panic(err)
	}
	task.TaskRoleArn = strPtr(taskRole.Attr("arn"))
	task.ExecutionRoleArn = strPtr(executionRole.Attr("arn"))
	s.Add("color_task", task)

	s.Output("mesh_name", MeshName, "Name of the service mesh")
	s.Output("mesh_arn", mesh.Ref(), "ARN of the service mesh")
	s.Output("cluster_name", cluster.Ref(), "Name of the ECS cluster")
	s.Output("vpc_id", vpc.Ref(), "ID of the VPC")
	return s
}

func httpHealthCheck(path string) *aws.HealthCheck {
	return &aws.HealthCheck{
		Protocol:           aws.ProtocolHTTP,
		Path:               strPtr(path),
		HealthyThreshold:   2,
		UnhealthyThreshold: 2,
		TimeoutMillis:      2000,
		IntervalMillis:     5000,
	}
}

// colorTellerTask returns the task definition of a color teller serving
// color, with an envoy sidecar proxying its traffic.
func colorTellerTask(s *stack.Stack, color, logGroup string) (*aws.ECSTaskDefinition, error) {
	envoyImage, err := aws.ECRImageFromARN(EnvoyRepository, EnvoyTag)
	if err != nil {
		return nil, errors.Wrap(err, "envoy image")
	}

	app := aws.ContainerDefinition{
		Name:      "app",
		Image:     aws.ECRImage(s, ColorTeller, "latest"),
		Essential: boolPtr(true),
		Memory:    intPtr(512),
		PortMappings: []aws.PortMapping{
			tcpPort(AppPort),
		},
		Environment: aws.Env(map[string]string{
			"COLOR":       color,
			"SERVER_PORT": "9080",
		}),
		LogConfiguration: aws.AWSLogs(logGroup, s.Region(), "bb"),
		DependsOn: []aws.ContainerDependency{
			{ContainerName: "envoy", Condition: aws.ConditionHealthy},
		},
	}

	envoy := aws.ContainerDefinition{
		Name:      "envoy",
		Image:     envoyImage,
		Essential: boolPtr(true),
		Memory:    intPtr(512),
		User:      strPtr("1337"),
		PortMappings: []aws.PortMapping{
			tcpPort(9901),
			tcpPort(15000),
			tcpPort(15001),
		},
		Environment: aws.Env(map[string]string{
			"APPMESH_VIRTUAL_NODE_NAME": "mesh/" + MeshName + "/virtualNode/" + ColorTeller + "-" + color + "-vn",
			"ENVOY_LOG_LEVEL":           "debug",
		}),
		LogConfiguration: aws.AWSLogs(logGroup, s.Region(), "ee"),
		HealthCheck: &aws.ContainerHealthCheck{
			Command: []string{
				"CMD-SHELL",
				"curl -s http://localhost:9901/server_info | grep state | grep -q LIVE",
			},
			Interval: intPtr(5),
			Timeout:  intPtr(2),
			Retries:  intPtr(3),
		},
		Ulimits: []aws.Ulimit{
			{Name: "nofile", HardLimit: 15000, SoftLimit: 15000},
		},
	}

	proxy := aws.AppMeshProxy{
		IgnoredUID:       EnvoyUID,
		ProxyIngressPort: 15000,
		ProxyEgressPort:  15001,
		AppPorts:         []int{9000},
		EgressIgnoredIPs: []string{"169.254.170.2", "169.254.169.254"},
	}

	return &aws.ECSTaskDefinition{
		Family:                  strPtr("task"),
		CPU:                     strPtr("512"),
		Memory:                  strPtr("1024"),
		NetworkMode:             strPtr("awsvpc"),
		RequiresCompatibilities: []string{aws.CompatibilityEC2, aws.CompatibilityFargate},
		ContainerDefinitions:    []aws.ContainerDefinition{app, envoy},
		ProxyConfiguration:      proxy.Configuration("envoy"),
	}, nil
}

func tcpPort(port int) aws.PortMapping {
	return aws.PortMapping{
		ContainerPort: port,
		HostPort:      intPtr(port),
		Protocol:      strPtr("tcp"),
	}
}
