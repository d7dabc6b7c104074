package aws

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/pkg/errors"
)

type environment interface {
	Account() string
	Region() string
	URLSuffix() string
}

// ECRImage returns the image URI for a tag in a repository owned by the
// stack's account, in the stack's region.
func ECRImage(env environment, repository, tag string) string {
	return fmt.Sprintf("%s.dkr.ecr.%s.%s/%s:%s", env.Account(), env.Region(), env.URLSuffix(), repository, tag)
}

// ECRImageFromARN returns the image URI for a tag in the repository with the
// given ARN, such as
// arn:aws:ecr:us-west-2:840364872350:repository/aws-appmesh-envoy.
func ECRImageFromARN(repositoryARN, tag string) (string, error) {
	a, err := arn.Parse(repositoryARN)
	if err != nil {
		return "", errors.Wrap(err, "parse repository arn")
	}
	if a.Service != "ecr" {
		return "", errors.Errorf("arn %s is not an ecr arn", repositoryARN)
	}
	const prefix = "repository/"
	if !strings.HasPrefix(a.Resource, prefix) || len(a.Resource) == len(prefix) {
		return "", errors.Errorf("arn %s is not a repository", repositoryARN)
	}
	repo := strings.TrimPrefix(a.Resource, prefix)
	return fmt.Sprintf("%s.dkr.ecr.%s.%s/%s:%s", a.AccountID, a.Region, urlSuffix(a.Partition), repo, tag), nil
}

func urlSuffix(partition string) string {
	if partition == "aws-cn" {
		return "amazonaws.com.cn"
	}
	return "amazonaws.com"
}
