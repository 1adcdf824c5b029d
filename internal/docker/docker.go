// Package docker wraps the Docker CLI. All invocations go through a Runner so
// the pipeline can be exercised without a daemon.
package docker

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/lambdadock/lambdadock/internal/errs"
)

// Runner executes an external command, optionally feeding stdin, and returns
// captured stdout and stderr.
type Runner interface {
	Run(ctx context.Context, stdin string, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, stdin string, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	err := cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// Client drives the local Docker CLI.
type Client struct {
	runner Runner
}

func NewClient(runner Runner) *Client {
	return &Client{runner: runner}
}

// Info probes the daemon. A non-zero exit means the daemon is unreachable.
func (c *Client) Info(ctx context.Context) error {
	_, _, err := c.runner.Run(ctx, "", "docker", "info")
	if err != nil {
		return &errs.EnvironmentError{Reason: "Docker daemon is not running. Please start Docker daemon."}
	}
	return nil
}

// Build runs a tagged image build against contextDir. Stderr is surfaced
// verbatim on failure.
func (c *Client) Build(ctx context.Context, contextDir, tag string) error {
	_, stderr, err := c.runner.Run(ctx, "", "docker", "build", "-t", tag, contextDir)
	if err != nil {
		return &errs.BuildError{Detail: stderr}
	}
	return nil
}

// Login authenticates the engine to a registry host. The password goes over
// stdin, never onto the command line.
func (c *Client) Login(ctx context.Context, host, username, password string) error {
	_, stderr, err := c.runner.Run(ctx, password, "docker", "login", "--username", username, "--password-stdin", host)
	if err != nil {
		return &errs.PublishError{Phase: "registry-login", Detail: stderr}
	}
	return nil
}

func (c *Client) TagImage(ctx context.Context, src, dst string) error {
	_, stderr, err := c.runner.Run(ctx, "", "docker", "tag", src, dst)
	if err != nil {
		return &errs.PublishError{Phase: "image-tag", Detail: stderr}
	}
	return nil
}

func (c *Client) Push(ctx context.Context, ref string) error {
	_, stderr, err := c.runner.Run(ctx, "", "docker", "push", ref)
	if err != nil {
		return &errs.PublishError{Phase: "image-push", Detail: stderr}
	}
	return nil
}
