// Package lambda creates or updates container-image Lambda functions.
package lambda

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/lambdadock/lambdadock/internal/errs"
)

// Upsert phases, reported in PublishError so a caller can tell which step of
// the two-phase update failed.
const (
	PhaseCreating       = "creating"
	PhaseUpdatingCode   = "updating-code"
	PhaseUpdatingConfig = "updating-config"
)

// API is the slice of the Lambda client used by the publisher.
type API interface {
	CreateFunction(ctx context.Context, params *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error)
	UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error)
	UpdateFunctionConfiguration(ctx context.Context, params *lambda.UpdateFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionConfigurationOutput, error)
}

// VPCConfig carries the optional network attachment for a function.
type VPCConfig struct {
	SubnetIDs        []string
	SecurityGroupIDs []string
}

// UpsertInput describes the desired function state.
type UpsertInput struct {
	FunctionName string
	ImageURI     string
	RoleARN      string
	Region       string
	MemorySize   int32
	StorageSize  int32
	// VPC is attached only when non-nil; nil leaves the function on its
	// existing network configuration.
	VPC *VPCConfig
}

// Publisher upserts Lambda functions.
type Publisher struct {
	client API
}

func NewPublisher(client API) *Publisher {
	return &Publisher{client: client}
}

// Upsert creates the function, falling back to an update when it already
// exists. The update path changes code first; memory, storage, and VPC are
// only reconfigured when a VPC was requested, in a second call.
func (p *Publisher) Upsert(ctx context.Context, in UpsertInput) (string, error) {
	regionOpt := func(o *lambda.Options) {
		o.Region = in.Region
	}

	createInput := &lambda.CreateFunctionInput{
		FunctionName: aws.String(in.FunctionName),
		Role:         aws.String(in.RoleARN),
		Code: &lambdatypes.FunctionCode{
			ImageUri: aws.String(in.ImageURI),
		},
		PackageType: lambdatypes.PackageTypeImage,
		Publish:     true,
		MemorySize:  aws.Int32(in.MemorySize),
		EphemeralStorage: &lambdatypes.EphemeralStorage{
			Size: aws.Int32(in.StorageSize),
		},
	}
	if in.VPC != nil {
		createInput.VpcConfig = &lambdatypes.VpcConfig{
			SubnetIds:        in.VPC.SubnetIDs,
			SecurityGroupIds: in.VPC.SecurityGroupIDs,
		}
	}

	created, err := p.client.CreateFunction(ctx, createInput, regionOpt)
	if err == nil {
		return aws.ToString(created.FunctionArn), nil
	}

	var conflict *lambdatypes.ResourceConflictException
	if !errors.As(err, &conflict) {
		return "", &errs.PublishError{Phase: PhaseCreating, Detail: err.Error()}
	}

	updated, err := p.client.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(in.FunctionName),
		ImageUri:     aws.String(in.ImageURI),
		Publish:      true,
	}, regionOpt)
	if err != nil {
		return "", &errs.PublishError{Phase: PhaseUpdatingCode, Detail: err.Error()}
	}

	if in.VPC != nil {
		_, err = p.client.UpdateFunctionConfiguration(ctx, &lambda.UpdateFunctionConfigurationInput{
			FunctionName: aws.String(in.FunctionName),
			MemorySize:   aws.Int32(in.MemorySize),
			EphemeralStorage: &lambdatypes.EphemeralStorage{
				Size: aws.Int32(in.StorageSize),
			},
			VpcConfig: &lambdatypes.VpcConfig{
				SubnetIds:        in.VPC.SubnetIDs,
				SecurityGroupIds: in.VPC.SecurityGroupIDs,
			},
		}, regionOpt)
		if err != nil {
			// Code is already updated at this point; the phase tells the
			// caller where to resume.
			return "", &errs.PublishError{Phase: PhaseUpdatingConfig, Detail: err.Error()}
		}
	}

	return aws.ToString(updated.FunctionArn), nil
}
