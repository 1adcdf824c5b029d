// Package registry publishes locally built images to Elastic Container
// Registry.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/lambdadock/lambdadock/internal/cache"
	"github.com/lambdadock/lambdadock/internal/docker"
	"github.com/lambdadock/lambdadock/internal/errs"
	"github.com/lambdadock/lambdadock/internal/logger"
)

const identityCacheTTL = time.Hour

// STSAPI is the slice of the STS client the publisher needs.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ECRAPI is the slice of the ECR client the publisher needs.
type ECRAPI interface {
	CreateRepository(ctx context.Context, params *ecr.CreateRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error)
}

// Publisher authenticates the local engine to ECR, ensures the repository
// exists, and pushes the image.
type Publisher struct {
	sts    STSAPI
	ecr    ECRAPI
	docker *docker.Client
	runner docker.Runner
	cache  *cache.IdentityCache
}

func NewPublisher(stsClient STSAPI, ecrClient ECRAPI, dockerClient *docker.Client, runner docker.Runner, identityCache *cache.IdentityCache) *Publisher {
	return &Publisher{
		sts:    stsClient,
		ecr:    ecrClient,
		docker: dockerClient,
		runner: runner,
		cache:  identityCache,
	}
}

// RegistryHost computes the per-account ECR endpoint.
func RegistryHost(accountID, region string) string {
	return fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", accountID, region)
}

// ImageURI computes the fully qualified remote reference for a repository and
// tag.
func ImageURI(accountID, region, repository, tag string) string {
	return fmt.Sprintf("%s/%s:%s", RegistryHost(accountID, region), repository, tag)
}

// AccountID resolves the caller's AWS account, preferring the cache over STS.
func (p *Publisher) AccountID(ctx context.Context, region string) (string, error) {
	if p.cache != nil {
		if id, ok := p.cache.Get(ctx, region); ok {
			return id, nil
		}
	}

	out, err := p.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{}, func(o *sts.Options) {
		o.Region = region
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve caller identity: %w", err)
	}
	accountID := aws.ToString(out.Account)

	if p.cache != nil {
		if err := p.cache.Set(ctx, region, accountID, identityCacheTTL); err != nil {
			logger.WithComponent("registry").WithError(err).Warn("identity cache write failed")
		}
	}
	return accountID, nil
}

// Publish pushes the locally tagged image to ECR and returns the remote URI.
func (p *Publisher) Publish(ctx context.Context, localTag, repository, tag, region string) (string, error) {
	accountID, err := p.AccountID(ctx, region)
	if err != nil {
		return "", err
	}
	host := RegistryHost(accountID, region)

	password, err := p.loginPassword(ctx, region)
	if err != nil {
		return "", err
	}
	if err := p.docker.Login(ctx, host, "AWS", password); err != nil {
		return "", err
	}

	if err := p.ensureRepository(ctx, repository, region); err != nil {
		return "", err
	}

	remote := ImageURI(accountID, region, repository, tag)
	if err := p.docker.TagImage(ctx, localTag, remote); err != nil {
		return "", err
	}
	if err := p.docker.Push(ctx, remote); err != nil {
		return "", err
	}
	return remote, nil
}

// loginPassword fetches a short-lived registry password via the AWS CLI. The
// value is only ever piped to docker login, never logged or written out.
func (p *Publisher) loginPassword(ctx context.Context, region string) (string, error) {
	stdout, stderr, err := p.runner.Run(ctx, "", "aws", "ecr", "get-login-password", "--region", region)
	if err != nil {
		return "", &errs.PublishError{Phase: "registry-login", Detail: stderr}
	}
	return strings.TrimSpace(stdout), nil
}

// ensureRepository creates the repository, treating "already exists" as
// success.
func (p *Publisher) ensureRepository(ctx context.Context, repository, region string) error {
	_, err := p.ecr.CreateRepository(ctx, &ecr.CreateRepositoryInput{
		RepositoryName: aws.String(repository),
	}, func(o *ecr.Options) {
		o.Region = region
	})
	if err != nil {
		var exists *ecrtypes.RepositoryAlreadyExistsException
		if errors.As(err, &exists) {
			return nil
		}
		return &errs.PublishError{Phase: "repository-create", Detail: err.Error()}
	}
	return nil
}
