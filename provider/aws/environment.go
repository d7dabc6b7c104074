package aws

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/awserr"
	"github.com/aws/aws-sdk-go-v2/aws/endpoints"
	"github.com/aws/aws-sdk-go-v2/aws/external"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/sts/stsiface"
	"github.com/cenkalti/backoff"
	"github.com/meshstack/meshstack/stack"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ResolveOptions control how a deployment environment is resolved.
type ResolveOptions struct {
	// LookupAccount enables looking up a missing account from the caller
	// identity of the current credentials.
	LookupAccount bool

	// Client is used for account lookups. If not set, a client is created from
	// the shared AWS config.
	Client stsiface.ClientAPI

	// Region returns the default region. If not set, ConfigRegion is used.
	Region func() string

	// Account looks up the account. If not set, the account is read from
	// STS GetCallerIdentity.
	Account func(ctx context.Context) (string, error)

	// BackOff controls retries of the account lookup. If not set, an
	// exponential backoff that gives up after 30 seconds is used.
	BackOff backoff.BackOff

	Logger *zap.Logger
}

// ResolveEnvironment fills the missing values of env.
//
// A missing region is read from the shared AWS config. A missing account is
// only looked up if opts.LookupAccount is set; failed lookups are retried
// unless the error is a client error.
//
// Values that cannot be resolved are left empty, they are resolved from
// pseudo parameters by CloudFormation.
func ResolveEnvironment(ctx context.Context, env stack.Environment, opts ResolveOptions) (stack.Environment, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if env.Region == "" {
		region := opts.Region
		if region == nil {
			region = ConfigRegion
		}
		env.Region = region()
		logger.Debug("Resolved region", zap.String("region", env.Region))
	}

	if env.Account != "" || !opts.LookupAccount {
		return env, nil
	}

	lookup := opts.Account
	if lookup == nil {
		lookup = func(ctx context.Context) (string, error) {
			return callerAccount(ctx, opts.Client, env.Region)
		}
	}
	b := opts.BackOff
	if b == nil {
		eb := backoff.NewExponentialBackOff()
		eb.MaxElapsedTime = 30 * time.Second
		b = eb
	}

	var account string
	op := func() error {
		a, err := lookup(ctx)
		if err != nil {
			logger.Debug("Account lookup failed", zap.Error(err))
			return retryable(err)
		}
		account = a
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return env, errors.Wrap(err, "lookup account")
	}
	env.Account = account
	logger.Debug("Resolved account", zap.String("account", env.Account))
	return env, nil
}

func callerAccount(ctx context.Context, client stsiface.ClientAPI, region string) (string, error) {
	if client == nil {
		cfg, err := external.LoadDefaultAWSConfig()
		if err != nil {
			return "", backoff.Permanent(errors.Wrap(err, "load aws config"))
		}
		if region != "" {
			cfg.Region = region
		}
		if cfg.Region == "" {
			// STS is global, any region works.
			cfg.Region = endpoints.UsEast1RegionID
		}
		client = sts.New(cfg)
	}

	req := client.GetCallerIdentityRequest(&sts.GetCallerIdentityInput{})
	resp, err := req.Send(ctx)
	if err != nil {
		return "", err
	}
	if resp.Account == nil {
		return "", backoff.Permanent(errors.New("caller identity has no account"))
	}
	return *resp.Account, nil
}

// retryable marks client errors as permanent. Throttling and server errors
// are retried.
func retryable(err error) error {
	if aerr, ok := err.(awserr.RequestFailure); ok {
		if aerr.StatusCode() == http.StatusTooManyRequests {
			return err
		}
		if aerr.StatusCode() >= 400 && aerr.StatusCode() < 500 {
			return backoff.Permanent(err)
		}
	}
	return err
}

// ConfigRegion returns the region from the shared AWS config:
//
//  - From AWS_REGION or AWS_DEFAULT_REGION environment variables.
//  - From region in ~/.aws/config.
//
// An empty string is returned if no region is configured.
func ConfigRegion() string {
	var cfgs external.Configs
	cfgs, err := cfgs.AppendFromLoaders(external.DefaultConfigLoaders)
	if err != nil {
		return ""
	}
	cfg, err := cfgs.ResolveAWSConfig([]external.AWSConfigResolver{
		external.ResolveRegion,
	})
	if err != nil {
		return ""
	}
	return cfg.Region
}
