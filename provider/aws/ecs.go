package aws

import (
	"sort"
	"strconv"
	"strings"
)

// ECSCluster creates an Amazon ECS cluster.
type ECSCluster struct {
	// Inputs

	// A user-generated string that you use to identify your cluster. If you
	// don't specify a name, CloudFormation generates a unique physical ID.
	ClusterName *string `stack:"input"`

	Tags []Tag `stack:"input"`

	// Outputs

	// The Amazon Resource Name (ARN) of the cluster.
	Arn string `stack:"output"`
}

// Type returns the type name for an ECS cluster.
func (*ECSCluster) Type() string { return "aws_ecs_cluster" }

// CloudFormationType returns the CloudFormation resource type.
func (*ECSCluster) CloudFormationType() string { return "AWS::ECS::Cluster" }

// Launch types a task definition can be compatible with.
const (
	CompatibilityEC2     = "EC2"
	CompatibilityFargate = "FARGATE"
)

// ECSTaskDefinition describes the containers and volumes that form an
// application.
type ECSTaskDefinition struct {
	// Inputs

	// The name of a family that this task definition is registered to.
	Family *string `stack:"input"`

	// The number of cpu units used by the task, such as "512".
	CPU *string `stack:"input" name:"cpu" cfn:"Cpu"`

	// The amount of memory (in MiB) used by the task, such as "1024".
	Memory *string `stack:"input"`

	// The Docker networking mode to use for the containers in the task.
	NetworkMode *string `stack:"input" validate:"oneof=bridge host awsvpc none"`

	// The launch types the task definition was validated against.
	RequiresCompatibilities []string `stack:"input"`

	// The ARN of the role that grants the ECS container agent permission to
	// make AWS API calls on your behalf, such as pulling images and writing
	// logs.
	ExecutionRoleArn *string `stack:"input"`

	// The ARN of the role that containers in the task can assume.
	TaskRoleArn *string `stack:"input"`

	ContainerDefinitions []ContainerDefinition `stack:"input"`

	// The configuration for an App Mesh proxy.
	ProxyConfiguration *ProxyConfiguration `stack:"input"`

	Tags []Tag `stack:"input"`

	// Outputs

	TaskDefinitionArn string `stack:"output"`
}

// Type returns the type name for an ECS task definition.
func (*ECSTaskDefinition) Type() string { return "aws_ecs_task_definition" }

// CloudFormationType returns the CloudFormation resource type.
func (*ECSTaskDefinition) CloudFormationType() string { return "AWS::ECS::TaskDefinition" }

// Container returns the container definition with the given name, or nil if
// the task does not have such a container.
func (t *ECSTaskDefinition) Container(name string) *ContainerDefinition {
	for i := range t.ContainerDefinitions {
		if t.ContainerDefinitions[i].Name == name {
			return &t.ContainerDefinitions[i]
		}
	}
	return nil
}

// A ContainerDefinition describes a container in a task.
type ContainerDefinition struct {
	Name  string `stack:"input,required"`
	Image string `stack:"input,required"`

	// If the essential container fails or stops, all other containers in the
	// task are stopped.
	Essential *bool `stack:"input"`

	// The hard limit (in MiB) of memory to present to the container.
	Memory *int `stack:"input" validate:"min=4"`

	// The user name to use inside the container.
	User *string `stack:"input"`

	PortMappings []PortMapping  `stack:"input"`
	Environment  []KeyValuePair `stack:"input"`

	LogConfiguration *LogConfiguration     `stack:"input"`
	HealthCheck      *ContainerHealthCheck `stack:"input"`
	Ulimits          []Ulimit              `stack:"input"`

	// Dependencies on other containers in the task.
	DependsOn []ContainerDependency `stack:"input"`
}

// A PortMapping maps a container port to a host port.
type PortMapping struct {
	ContainerPort int     `stack:"input,required" validate:"port"`
	HostPort      *int    `stack:"input" validate:"port"`
	Protocol      *string `stack:"input" validate:"oneof=tcp udp"`
}

// A KeyValuePair is a name and value, such as an environment variable.
type KeyValuePair struct {
	Name  string `stack:"input,required"`
	Value string `stack:"input"`
}

// Env converts a map to key value pairs, sorted by name.
func Env(vars map[string]string) []KeyValuePair {
	out := make([]KeyValuePair, 0, len(vars))
	for k, v := range vars {
		out = append(out, KeyValuePair{Name: k, Value: v})
	}
	sortPairs(out)
	return out
}

// LogConfiguration sets the log driver of a container.
type LogConfiguration struct {
	LogDriver string            `stack:"input,required" validate:"oneof=awslogs fluentd gelf journald json-file splunk syslog awsfirelens"` // nolint: lll
	Options   map[string]string `stack:"input"`
}

// AWSLogs returns a configuration for the awslogs driver.
func AWSLogs(group, region, streamPrefix string) *LogConfiguration {
	return &LogConfiguration{
		LogDriver: "awslogs",
		Options: map[string]string{
			"awslogs-group":         group,
			"awslogs-region":        region,
			"awslogs-stream-prefix": streamPrefix,
		},
	}
}

// ContainerHealthCheck is a Docker health check for a container. Durations
// are in seconds.
type ContainerHealthCheck struct {
	Command     []string `stack:"input,required" validate:"min=1"`
	Interval    *int     `stack:"input" validate:"min=5,max=300"`
	Timeout     *int     `stack:"input" validate:"min=2,max=60"`
	Retries     *int     `stack:"input" validate:"min=1,max=10"`
	StartPeriod *int     `stack:"input" validate:"min=0,max=300"`
}

// A Ulimit overrides a default resource limit of a container.
type Ulimit struct {
	Name      string `stack:"input,required"`
	HardLimit int    `stack:"input,required"`
	SoftLimit int    `stack:"input,required"`
}

// Conditions for container dependencies.
const (
	ConditionStart    = "START"
	ConditionComplete = "COMPLETE"
	ConditionSuccess  = "SUCCESS"
	ConditionHealthy  = "HEALTHY"
)

// A ContainerDependency delays the start of a container until another
// container reaches a condition.
type ContainerDependency struct {
	ContainerName string `stack:"input,required"`
	Condition     string `stack:"input,required" validate:"oneof=START COMPLETE SUCCESS HEALTHY"`
}

// ProxyConfiguration enables an App Mesh proxy for a task.
type ProxyConfiguration struct {
	Type                         *string        `stack:"input" validate:"oneof=APPMESH"`
	ContainerName                string         `stack:"input,required"`
	ProxyConfigurationProperties []KeyValuePair `stack:"input"`
}

// AppMeshProxy holds the properties of an App Mesh proxy configuration.
type AppMeshProxy struct {
	IgnoredUID       int
	IgnoredGID       int
	ProxyIngressPort int
	ProxyEgressPort  int
	AppPorts         []int
	EgressIgnoredIPs []string
}

// Configuration returns the proxy configuration for the container.
func (p AppMeshProxy) Configuration(container string) *ProxyConfiguration {
	typ := "APPMESH"
	props := make(map[string]string)
	if p.IgnoredUID != 0 {
		props["IgnoredUID"] = itoa(p.IgnoredUID)
	}
	if p.IgnoredGID != 0 {
		props["IgnoredGID"] = itoa(p.IgnoredGID)
	}
	props["ProxyIngressPort"] = itoa(p.ProxyIngressPort)
	props["ProxyEgressPort"] = itoa(p.ProxyEgressPort)
	if len(p.AppPorts) > 0 {
		ports := make([]string, len(p.AppPorts))
		for i, port := range p.AppPorts {
			ports[i] = itoa(port)
		}
		props["AppPorts"] = join(ports)
	}
	if len(p.EgressIgnoredIPs) > 0 {
		props["EgressIgnoredIPs"] = join(p.EgressIgnoredIPs)
	}
	return &ProxyConfiguration{
		Type:                         &typ,
		ContainerName:                container,
		ProxyConfigurationProperties: Env(props),
	}
}

func sortPairs(pp []KeyValuePair) {
	sort.Slice(pp, func(i, j int) bool { return pp[i].Name < pp[j].Name })
}

func itoa(i int) string { return strconv.Itoa(i) }

func join(ss []string) string { return strings.Join(ss, ",") }
