package main

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/lambdadock/lambdadock/api/rest/server"
	"github.com/lambdadock/lambdadock/api/rest/v1/routes"
	"github.com/lambdadock/lambdadock/internal/cache"
	"github.com/lambdadock/lambdadock/internal/config"
	"github.com/lambdadock/lambdadock/internal/database"
	"github.com/lambdadock/lambdadock/internal/docker"
	"github.com/lambdadock/lambdadock/internal/environment"
	iamroles "github.com/lambdadock/lambdadock/internal/iam"
	lambdapub "github.com/lambdadock/lambdadock/internal/lambda"
	"github.com/lambdadock/lambdadock/internal/logger"
	"github.com/lambdadock/lambdadock/internal/registry"
	"github.com/lambdadock/lambdadock/internal/repository"
	"github.com/lambdadock/lambdadock/internal/services"
	"github.com/lambdadock/lambdadock/internal/storage"
)

func main() {
	ctx := context.Background()
	cfg := config.GetConfig()
	log := logger.Get()

	runner := docker.ExecRunner{}
	dockerClient := docker.NewClient(runner)

	// Tool provisioning happens once at startup; request handlers only
	// re-check daemon readiness.
	checker := environment.NewChecker(dockerClient, runner)
	if err := checker.Provision(ctx); err != nil {
		log.Fatalf("environment provisioning failed: %v", err)
	}

	db, err := database.Open(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	repo := repository.NewDeploymentRepository(db)

	identityCache := cache.NewIdentityCache(cfg.RedisAddr)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.DefaultRegion))
	if err != nil {
		log.Fatalf("failed to load AWS config: %v", err)
	}

	registryPublisher := registry.NewPublisher(
		sts.NewFromConfig(awsCfg),
		ecr.NewFromConfig(awsCfg),
		dockerClient,
		runner,
		identityCache,
	)
	functionPublisher := lambdapub.NewPublisher(awslambda.NewFromConfig(awsCfg))
	roleManager := iamroles.NewManager(iam.NewFromConfig(awsCfg))

	var artifacts storage.ArtifactStore
	if cfg.ArtifactBucket != "" {
		artifacts, err = storage.NewS3Store(storage.S3Config{
			Endpoint:        cfg.ArtifactEndpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			BucketName:      cfg.ArtifactBucket,
			Region:          cfg.DefaultRegion,
		})
		if err != nil {
			log.Fatalf("failed to init artifact store: %v", err)
		}
	}

	deployService := services.NewDeployService(
		cfg,
		checker,
		dockerClient,
		registryPublisher,
		functionPublisher,
		roleManager,
		repo,
		artifacts,
	)

	srv := server.NewServer(cfg.Addr)
	routes.RegisterRoutes(srv, deployService)

	log.Infof("starting HTTP server on %s", cfg.Addr)
	if err := srv.Run(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
