package aws

// IAMRole creates a new role for your AWS account. For more information about
// roles, go to [IAM Roles](http://docs.aws.amazon.com/IAM/latest/UserGuide/WorkingWithRoles.html).
//
// For information about limitations on role names and the number of roles you
// can create, go to Limitations on
// [IAM Entities](http://docs.aws.amazon.com/IAM/latest/UserGuide/LimitationsOnEntities.html)
// in the IAM User Guide.
type IAMRole struct {
	// Inputs

	// The trust relationship policy document that grants an entity permission to
	// assume the role.
	AssumeRolePolicyDocument PolicyDocument `stack:"input,required"`

	// A description of the role.
	Description *string `stack:"input" validate:"max=1000"`

	// A list of Amazon Resource Names (ARNs) of the IAM managed policies that
	// you want to attach to the role.
	ManagedPolicyArns []string `stack:"input"`

	// The maximum session duration (in seconds) that you want to set for the
	// specified role. If you do not specify a value for this setting, the
	// default maximum of one hour is applied. This setting can have a value
	// from 1 hour to 12 hours.
	MaxSessionDuration *int `stack:"input" validate:"min=3600,max=43200"`

	// The path to the role. For more information about paths, see
	// [IAM Identifiers](http://docs.aws.amazon.com/IAM/latest/UserGuide/Using_Identifiers.html)
	// in the IAM User Guide.
	//
	// This parameter is optional. If it is not included, it defaults to a
	// slash (/).
	Path *string `stack:"input"`

	// The ARN of the policy that is used to set the permissions boundary for
	// the role.
	PermissionsBoundary *string `stack:"input" validate:"arn"`

	// Inline policies embedded in the role.
	Policies []Policy `stack:"input"`

	// The name of the role to create.
	//
	// Role names are not distinguished by case. For example, you cannot create
	// roles named both "PRODROLE" and "prodrole".
	RoleName *string `stack:"input" validate:"min=1,max=64"`

	Tags []Tag `stack:"input"`

	// Outputs

	// The Amazon Resource Name (ARN) specifying the role.
	Arn string `stack:"output"`

	// The stable and unique string identifying the role.
	RoleID string `stack:"output" name:"role_id" cfn:"RoleId"`
}

// Type returns the type name for an IAM role.
func (*IAMRole) Type() string { return "aws_iam_role" }

// CloudFormationType returns the CloudFormation resource type.
func (*IAMRole) CloudFormationType() string { return "AWS::IAM::Role" }

// A Policy is an inline policy embedded in a role.
type Policy struct {
	PolicyName     string         `stack:"input,required" validate:"min=1,max=128"`
	PolicyDocument PolicyDocument `stack:"input,required"`
}

// ManagedPolicyArn returns the ARN of an AWS managed policy, such as
// service-role/AmazonECSTaskExecutionRolePolicy.
func ManagedPolicyArn(name string) string {
	return "arn:${aws.partition}:iam::aws:policy/" + name
}
