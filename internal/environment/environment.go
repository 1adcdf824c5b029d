// Package environment verifies and provisions the local tools the pipeline
// depends on: the Docker daemon and the AWS CLI.
package environment

import (
	"context"
	"fmt"

	"github.com/lambdadock/lambdadock/internal/docker"
	"github.com/lambdadock/lambdadock/internal/errs"
	"github.com/lambdadock/lambdadock/internal/logger"
)

const awsCLIArchiveURL = "https://awscli.amazonaws.com/awscli-exe-linux-x86_64.zip"

type Checker struct {
	docker *docker.Client
	runner docker.Runner
}

func NewChecker(dockerClient *docker.Client, runner docker.Runner) *Checker {
	return &Checker{docker: dockerClient, runner: runner}
}

// Provision runs at service startup. It probes the Docker daemon and installs
// the AWS CLI if it is missing. Request handlers only re-check readiness.
func (c *Checker) Provision(ctx context.Context) error {
	if err := c.docker.Info(ctx); err != nil {
		return err
	}

	_, _, err := c.runner.Run(ctx, "", "aws", "--version")
	if err == nil {
		return nil
	}

	logger.WithComponent("environment").Info("AWS CLI not found, installing")
	return c.installAWSCLI(ctx)
}

// Check is the per-request readiness probe. Only the daemon is re-checked;
// CLI provisioning happened at startup.
func (c *Checker) Check(ctx context.Context) error {
	return c.docker.Info(ctx)
}

// installAWSCLI mirrors the documented install sequence: download, unzip,
// install, clean up. Each step must exit zero.
func (c *Checker) installAWSCLI(ctx context.Context) error {
	steps := [][]string{
		{"curl", awsCLIArchiveURL, "-o", "awscliv2.zip"},
		{"unzip", "awscliv2.zip"},
		{"sudo", "./aws/install"},
		{"rm", "-rf", "awscliv2.zip", "aws"},
	}
	for _, step := range steps {
		if _, stderr, err := c.runner.Run(ctx, "", step[0], step[1:]...); err != nil {
			return &errs.EnvironmentError{
				Reason: fmt.Sprintf("AWS CLI install failed at %q: %s", step[0], stderr),
			}
		}
	}
	return nil
}
