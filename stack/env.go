package stack

import "os"

// Environment variables read by FromEnv.
const (
	EnvAccount = "PA_ACCOUNT_NO"
	EnvRegion  = "AWS_REGION"
)

// An Environment is the account and region a stack is deployed to. Either
// may be empty, in which case the value is resolved by CloudFormation when
// the stack is deployed.
type Environment struct {
	Account string `json:"account,omitempty"`
	Region  string `json:"region,omitempty"`
}

// FromEnv reads the environment from the process environment.
func FromEnv() Environment {
	return Environment{
		Account: os.Getenv(EnvAccount),
		Region:  os.Getenv(EnvRegion),
	}
}

func (e Environment) String() string {
	account, region := e.Account, e.Region
	if account == "" {
		account = "unknown-account"
	}
	if region == "" {
		region = "unknown-region"
	}
	return "aws://" + account + "/" + region
}
