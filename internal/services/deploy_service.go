package services

import (
	"context"
	"fmt"
	"io"

	"github.com/lambdadock/lambdadock/api/rest/v1/schemas"
	"github.com/lambdadock/lambdadock/internal/config"
	"github.com/lambdadock/lambdadock/internal/lambda"
	"github.com/lambdadock/lambdadock/internal/logger"
	"github.com/lambdadock/lambdadock/internal/models"
	"github.com/lambdadock/lambdadock/internal/repository"
	"github.com/lambdadock/lambdadock/internal/storage"
	"github.com/lambdadock/lambdadock/internal/workspace"
)

// Fixed sizing for the advanced path, matching the simple path's defaults.
const (
	advancedMemorySize  = 128
	advancedStorageSize = 512
)

// EnvironmentChecker is the request-time readiness probe.
type EnvironmentChecker interface {
	Check(ctx context.Context) error
}

// ImageBuilder builds a tagged image from a context directory.
type ImageBuilder interface {
	Build(ctx context.Context, contextDir, tag string) error
}

// RegistryPublisher pushes a locally tagged image and returns its remote URI.
type RegistryPublisher interface {
	Publish(ctx context.Context, localTag, repository, tag, region string) (string, error)
}

// FunctionPublisher upserts the serverless function.
type FunctionPublisher interface {
	Upsert(ctx context.Context, in lambda.UpsertInput) (string, error)
}

// RoleEnsurer resolves (or creates) the execution role.
type RoleEnsurer interface {
	EnsureRole(ctx context.Context, name string) (string, error)
}

// DeployService sequences the deployment pipeline.
type DeployService interface {
	Deploy(ctx context.Context, req schemas.DeployRequest) (*schemas.DeployResponse, error)
	AdvancedDeploy(ctx context.Context, req schemas.AdvancedDeployRequest) (*schemas.DeployResponse, error)
	List(ctx context.Context) ([]*models.Deployment, error)
}

type deployService struct {
	cfg       *config.Config
	env       EnvironmentChecker
	builder   ImageBuilder
	registry  RegistryPublisher
	functions FunctionPublisher
	roles     RoleEnsurer
	repo      repository.DeploymentRepository
	artifacts storage.ArtifactStore
}

// NewDeployService wires the pipeline. repo and artifacts may be nil, in which
// case history recording and context archiving are skipped.
func NewDeployService(
	cfg *config.Config,
	env EnvironmentChecker,
	builder ImageBuilder,
	registry RegistryPublisher,
	functions FunctionPublisher,
	roles RoleEnsurer,
	repo repository.DeploymentRepository,
	artifacts storage.ArtifactStore,
) DeployService {
	return &deployService{
		cfg:       cfg,
		env:       env,
		builder:   builder,
		registry:  registry,
		functions: functions,
		roles:     roles,
		repo:      repo,
		artifacts: artifacts,
	}
}

// Deploy runs the fixed-template pipeline: materialize, build, publish, upsert.
func (s *deployService) Deploy(ctx context.Context, req schemas.DeployRequest) (*schemas.DeployResponse, error) {
	if err := s.env.Check(ctx); err != nil {
		return nil, err
	}
	region := s.cfg.EffectiveRegion(req.Region)

	ws, err := workspace.New(s.cfg.WorkDir)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	if err := ws.MaterializeSimple(s.cfg.BaseImage, req.PythonScript, req.Requirements); err != nil {
		return nil, err
	}

	rec := s.record(ctx, ws, req.FunctionName, req.RepositoryName, req.ImageTag, region)

	var vpc *lambda.VPCConfig
	if req.VpcID != "" {
		vpc = &lambda.VPCConfig{
			SubnetIDs:        req.SubnetIDs,
			SecurityGroupIDs: req.SecurityGroupIDs,
		}
	}

	resp, err := s.run(ctx, ws, rec, pipelineInput{
		repository:   req.RepositoryName,
		tag:          req.ImageTag,
		region:       region,
		functionName: req.FunctionName,
		memorySize:   req.MemorySize,
		storageSize:  req.StorageSize,
		vpc:          vpc,
		message:      "Deployment successful",
	})
	return resp, err
}

// AdvancedDeploy runs the caller-controlled pipeline: the uploaded files and
// generated Dockerfile form the build context.
func (s *deployService) AdvancedDeploy(ctx context.Context, req schemas.AdvancedDeployRequest) (*schemas.DeployResponse, error) {
	if err := s.env.Check(ctx); err != nil {
		return nil, err
	}
	region := s.cfg.EffectiveRegion(req.Region)

	ws, err := workspace.New(s.cfg.WorkDir)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	for _, fh := range req.Files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		if err := ws.WriteFile(fh.Filename, data); err != nil {
			return nil, err
		}
	}

	if err := ws.MaterializeCustom(req.BaseImage, req.BuildCommands); err != nil {
		return nil, err
	}

	rec := s.record(ctx, ws, req.FunctionName, req.RepositoryName, req.ImageTag, region)

	var vpc *lambda.VPCConfig
	if req.VpcID != "" {
		vpc = &lambda.VPCConfig{
			SubnetIDs:        req.SubnetIDs,
			SecurityGroupIDs: req.SecurityGroupIDs,
		}
	}

	resp, err := s.run(ctx, ws, rec, pipelineInput{
		repository:   req.RepositoryName,
		tag:          req.ImageTag,
		region:       region,
		functionName: req.FunctionName,
		memorySize:   advancedMemorySize,
		storageSize:  advancedStorageSize,
		vpc:          vpc,
		message:      "Advanced deployment successful",
	})
	return resp, err
}

func (s *deployService) List(ctx context.Context) ([]*models.Deployment, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.GetAll(ctx)
}

type pipelineInput struct {
	repository   string
	tag          string
	region       string
	functionName string
	memorySize   int32
	storageSize  int32
	vpc          *lambda.VPCConfig
	message      string
}

// run executes build → publish → role → upsert over a materialized workspace.
// The first failure aborts the rest and is reflected on the history record.
func (s *deployService) run(ctx context.Context, ws *workspace.Workspace, rec *models.Deployment, in pipelineInput) (*schemas.DeployResponse, error) {
	// The local tag is the deployment id, so concurrent requests for the same
	// repository:tag never race on a shared local image name.
	localTag := "lambdadock-build:" + ws.ID.String()

	if err := s.builder.Build(ctx, ws.Dir, localTag); err != nil {
		return nil, s.fail(ctx, rec, err)
	}

	s.archive(ctx, ws)

	imageURI, err := s.registry.Publish(ctx, localTag, in.repository, in.tag, in.region)
	if err != nil {
		return nil, s.fail(ctx, rec, err)
	}

	roleARN, err := s.roles.EnsureRole(ctx, s.cfg.RoleName)
	if err != nil {
		return nil, s.fail(ctx, rec, err)
	}

	arn, err := s.functions.Upsert(ctx, lambda.UpsertInput{
		FunctionName: in.functionName,
		ImageURI:     imageURI,
		RoleARN:      roleARN,
		Region:       in.region,
		MemorySize:   in.memorySize,
		StorageSize:  in.storageSize,
		VPC:          in.vpc,
	})
	if err != nil {
		return nil, s.fail(ctx, rec, err)
	}

	s.succeed(ctx, rec, imageURI, arn)

	return &schemas.DeployResponse{
		Message:   in.message,
		ImageURI:  imageURI,
		LambdaARN: arn,
	}, nil
}

// record opens a history entry for this attempt. History failures are logged,
// never fatal to the deployment itself.
func (s *deployService) record(ctx context.Context, ws *workspace.Workspace, functionName, repo, tag, region string) *models.Deployment {
	rec := &models.Deployment{
		ID:             ws.ID,
		FunctionName:   functionName,
		RepositoryName: repo,
		ImageTag:       tag,
		Region:         region,
		ContextHash:    ws.ContentHash(),
		Status:         models.StatusRunning,
	}
	if s.repo == nil {
		return rec
	}
	if _, err := s.repo.Create(ctx, rec); err != nil {
		logger.WithComponent("deploy").WithError(err).Warn("failed to record deployment")
	}
	return rec
}

func (s *deployService) fail(ctx context.Context, rec *models.Deployment, cause error) error {
	rec.Status = models.StatusFailed
	rec.Error = cause.Error()
	if s.repo != nil {
		if err := s.repo.Update(ctx, rec); err != nil {
			logger.WithComponent("deploy").WithError(err).Warn("failed to update deployment record")
		}
	}
	return cause
}

func (s *deployService) succeed(ctx context.Context, rec *models.Deployment, imageURI, arn string) {
	rec.Status = models.StatusSucceeded
	rec.ImageURI = imageURI
	rec.FunctionARN = arn
	if s.repo != nil {
		if err := s.repo.Update(ctx, rec); err != nil {
			logger.WithComponent("deploy").WithError(err).Warn("failed to update deployment record")
		}
	}
}

func (s *deployService) archive(ctx context.Context, ws *workspace.Workspace) {
	if s.artifacts == nil {
		return
	}
	if err := s.artifacts.ArchiveContext(ctx, ws.ID.String(), ws.Dir); err != nil {
		logger.WithComponent("deploy").WithError(err).Warn("failed to archive build context")
	}
}
