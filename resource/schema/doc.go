// Package schema extracts resource schema from struct tags.
//
// The struct tags set will define what inputs & outputs a resource has, the
// CloudFormation names of its properties and validation rules on inputs.
//
//   type LogGroup struct {
//       LogGroupName    *string `stack:"input"`
//       RetentionInDays *int64  `stack:"input" validate:"oneof=1 3 5 7 14 30"`
//
//       Arn string `stack:"output"`
//   }
//
// Field names are converted to snake_case (log_group_name) unless a name tag
// is set. The CloudFormation name defaults to the Go field name and can be
// overridden with a cfn tag.
package schema
