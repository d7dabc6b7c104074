package aws

// DefaultPolicyVersion is set on a policy when the version is omitted.
const DefaultPolicyVersion = "2012-10-17"

// PolicyDocument is an IAM policy.
type PolicyDocument struct {
	// Specify the version of the policy language that you want to use.
	// If not set, `2012-10-17` is used.
	Version *string `stack:"input"`

	// Use this main policy element as a container for the following elements.
	// You can include more than one statement in a policy.
	Statement []PolicyStatement `stack:"input,required" validate:"min=1"`
}

// PolicyStatement is a single statement in an IAM Policy Document.
type PolicyStatement struct {
	// Include an optional statement ID to differentiate between your statements.
	Sid *string `stack:"input"`

	// Use `Allow` or `Deny` to indicate whether the policy allows or
	// denies access.
	Effect string `stack:"input,required" validate:"oneof=Allow Deny"`

	// The account, user, role, or federated user to which you would like to
	// allow or deny access.
	//
	// If you are creating a policy to attach to a user or role, you cannot
	// include this element. The principal is implied as that user or role.
	Principal map[string][]string `stack:"input"`

	// Include a list of actions that the policy allows or denies.
	Action []string `stack:"input"`

	// List of actions that the statement do **not** apply to.
	NotAction []string `stack:"input"`

	// List of resources to which the actions apply.
	Resource []string `stack:"input"`

	// Specify the circumstances under which the policy grants permission.
	//
	//   Condition: map[string]map[string]string{
	//     "StringEquals": {"aws:username": "johndoe"},
	//   }
	//
	// See https://docs.aws.amazon.com/IAM/latest/UserGuide/reference_policies_elements_condition_operators.html
	// for supported operators.
	Condition map[string]map[string]string `stack:"input"`
}

// NewPolicyDocument returns a policy document with the default version.
func NewPolicyDocument(stmts ...PolicyStatement) PolicyDocument {
	v := DefaultPolicyVersion
	return PolicyDocument{Version: &v, Statement: stmts}
}

// AssumeRolePolicy returns a trust policy that allows the given service
// principals to assume a role.
//
//   AssumeRolePolicy("ecs-tasks.amazonaws.com")
func AssumeRolePolicy(services ...string) PolicyDocument {
	return NewPolicyDocument(PolicyStatement{
		Effect:    "Allow",
		Principal: map[string][]string{"Service": services},
		Action:    []string{"sts:AssumeRole"},
	})
}
