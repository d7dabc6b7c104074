package aws

// Retention periods, in days.
const (
	RetentionOneWeek  = 7
	RetentionTwoWeeks = 14
	RetentionOneMonth = 30
	RetentionOneYear  = 365
	RetentionTenYears = 3653
)

// LogsLogGroup creates a CloudWatch Logs log group.
type LogsLogGroup struct {
	// Inputs

	// The name of the log group. If you don't specify a name, CloudFormation
	// generates a unique ID for the log group.
	LogGroupName *string `stack:"input" validate:"min=1,max=512"`

	// The number of days to retain the log events in the specified log group.
	// If not set, events are retained indefinitely.
	RetentionInDays *int `stack:"input" validate:"oneof=1 3 5 7 14 30 60 90 120 150 180 365 400 545 731 1827 3653"`

	// Outputs

	// The ARN of the log group, such as
	// arn:aws:logs:us-west-1:123456789012:log-group:/mystack-testgroup-12ABC1AB12A1:*
	Arn string `stack:"output"`
}

// Type returns the type name for a log group.
func (*LogsLogGroup) Type() string { return "aws_logs_log_group" }

// CloudFormationType returns the CloudFormation resource type.
func (*LogsLogGroup) CloudFormationType() string { return "AWS::Logs::LogGroup" }
