package lambda

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambdadock/lambdadock/internal/errs"
)

type fakeLambda struct {
	createErr error
	codeErr   error
	configErr error

	createInput *lambda.CreateFunctionInput
	codeInput   *lambda.UpdateFunctionCodeInput
	configInput *lambda.UpdateFunctionConfigurationInput
}

func (f *fakeLambda) CreateFunction(_ context.Context, in *lambda.CreateFunctionInput, _ ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error) {
	f.createInput = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &lambda.CreateFunctionOutput{FunctionArn: aws.String("arn:aws:lambda:us-west-2:123456789012:function:demo-fn")}, nil
}

func (f *fakeLambda) UpdateFunctionCode(_ context.Context, in *lambda.UpdateFunctionCodeInput, _ ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error) {
	f.codeInput = in
	if f.codeErr != nil {
		return nil, f.codeErr
	}
	return &lambda.UpdateFunctionCodeOutput{FunctionArn: aws.String("arn:aws:lambda:us-west-2:123456789012:function:demo-fn")}, nil
}

func (f *fakeLambda) UpdateFunctionConfiguration(_ context.Context, in *lambda.UpdateFunctionConfigurationInput, _ ...func(*lambda.Options)) (*lambda.UpdateFunctionConfigurationOutput, error) {
	f.configInput = in
	if f.configErr != nil {
		return nil, f.configErr
	}
	return &lambda.UpdateFunctionConfigurationOutput{}, nil
}

func baseInput() UpsertInput {
	return UpsertInput{
		FunctionName: "demo-fn",
		ImageURI:     "123456789012.dkr.ecr.us-west-2.amazonaws.com/demo:v1",
		RoleARN:      "arn:aws:iam::123456789012:role/lambda-execution-role",
		Region:       "us-west-2",
		MemorySize:   128,
		StorageSize:  512,
	}
}

func TestUpsertCreates(t *testing.T) {
	client := &fakeLambda{}
	p := NewPublisher(client)

	arn, err := p.Upsert(context.Background(), baseInput())
	require.NoError(t, err)
	assert.Contains(t, arn, "function:demo-fn")

	require.NotNil(t, client.createInput)
	assert.Equal(t, lambdatypes.PackageTypeImage, client.createInput.PackageType)
	assert.Nil(t, client.createInput.VpcConfig)
	assert.Nil(t, client.codeInput)
}

func TestUpsertUpdatesOnConflict(t *testing.T) {
	client := &fakeLambda{createErr: &lambdatypes.ResourceConflictException{}}
	p := NewPublisher(client)

	arn, err := p.Upsert(context.Background(), baseInput())
	require.NoError(t, err)
	assert.Contains(t, arn, "function:demo-fn")

	require.NotNil(t, client.codeInput)
	assert.True(t, client.codeInput.Publish)
	// no VPC requested, so no configuration update
	assert.Nil(t, client.configInput)
}

func TestUpsertVPCOnlyWhenRequested(t *testing.T) {
	client := &fakeLambda{createErr: &lambdatypes.ResourceConflictException{}}
	p := NewPublisher(client)

	in := baseInput()
	in.VPC = &VPCConfig{
		SubnetIDs:        []string{"subnet-1", "subnet-2"},
		SecurityGroupIDs: []string{"sg-1"},
	}
	_, err := p.Upsert(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, client.configInput)
	assert.Equal(t, []string{"subnet-1", "subnet-2"}, client.configInput.VpcConfig.SubnetIds)
	assert.Equal(t, int32(128), aws.ToInt32(client.configInput.MemorySize))
	assert.Equal(t, int32(512), aws.ToInt32(client.configInput.EphemeralStorage.Size))
}

func TestUpsertCreateAttachesVPC(t *testing.T) {
	client := &fakeLambda{}
	p := NewPublisher(client)

	in := baseInput()
	in.VPC = &VPCConfig{SubnetIDs: []string{"subnet-1"}, SecurityGroupIDs: []string{"sg-1"}}
	_, err := p.Upsert(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, client.createInput.VpcConfig)
	assert.Equal(t, []string{"subnet-1"}, client.createInput.VpcConfig.SubnetIds)
}

func TestUpsertOtherCreateErrorPropagates(t *testing.T) {
	client := &fakeLambda{createErr: errors.New("invalid role")}
	p := NewPublisher(client)

	_, err := p.Upsert(context.Background(), baseInput())

	var pubErr *errs.PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, PhaseCreating, pubErr.Phase)
	assert.Nil(t, client.codeInput)
}

func TestUpsertConfigFailureReportsPhase(t *testing.T) {
	client := &fakeLambda{
		createErr: &lambdatypes.ResourceConflictException{},
		configErr: errors.New("throttled"),
	}
	p := NewPublisher(client)

	in := baseInput()
	in.VPC = &VPCConfig{SubnetIDs: []string{"subnet-1"}}
	_, err := p.Upsert(context.Background(), in)

	var pubErr *errs.PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, PhaseUpdatingConfig, pubErr.Phase)
	// code was already updated when configuration failed
	assert.NotNil(t, client.codeInput)
}
