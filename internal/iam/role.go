// Package iam manages the execution role the published functions run under.
package iam

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
)

const (
	basicExecutionPolicyARN = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"

	lambdaTrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"Service": "lambda.amazonaws.com"},
      "Action": "sts:AssumeRole"
    }
  ]
}`
)

// API is the slice of the IAM client used here.
type API interface {
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	AttachRolePolicy(ctx context.Context, params *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error)
}

// Manager ensures execution roles exist.
type Manager struct {
	client API
}

func NewManager(client API) *Manager {
	return &Manager{client: client}
}

// EnsureRole returns the ARN of the named execution role, creating it with the
// Lambda trust policy and basic execution permissions when it does not exist.
func (m *Manager) EnsureRole(ctx context.Context, name string) (string, error) {
	got, err := m.client.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
	if err == nil {
		return aws.ToString(got.Role.Arn), nil
	}

	var notFound *iamtypes.NoSuchEntityException
	if !errors.As(err, &notFound) {
		return "", fmt.Errorf("failed to look up role %s: %w", name, err)
	}

	created, err := m.client.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(name),
		AssumeRolePolicyDocument: aws.String(lambdaTrustPolicy),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create role %s: %w", name, err)
	}

	_, err = m.client.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  aws.String(name),
		PolicyArn: aws.String(basicExecutionPolicyARN),
	})
	if err != nil {
		return "", fmt.Errorf("failed to attach execution policy to %s: %w", name, err)
	}

	return aws.ToString(created.Role.Arn), nil
}
