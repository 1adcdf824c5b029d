package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration.
type Config struct {
	Addr          string
	DefaultRegion string
	RoleName      string
	BaseImage     string
	WorkDir       string
	RedisAddr     string
	PostgresDSN   string

	// Optional build-context archive target. Archiving is disabled when
	// ArtifactBucket is empty.
	ArtifactBucket   string
	ArtifactEndpoint string
	S3AccessKeyID    string
	S3SecretKey      string
}

var (
	once     sync.Once
	instance *Config
)

// GetConfig returns the singleton instance of the Config.
// It loads the configuration from an .env file on its first call.
func GetConfig() *Config {
	once.Do(func() {
		// Load .env file. If no path is provided, it will look for a .env
		// file in the current directory.
		err := godotenv.Load()
		if err != nil {
			log.Println("No .env file found, using default environment variables")
		}

		instance = &Config{
			Addr:             getEnv("LISTEN_ADDR", ":8080"),
			DefaultRegion:    getEnv("AWS_DEFAULT_REGION", "us-west-2"),
			RoleName:         getEnv("LAMBDA_EXECUTION_ROLE", "lambda-execution-role"),
			BaseImage:        getEnv("LAMBDA_BASE_IMAGE", "public.ecr.aws/lambda/python:3.8"),
			WorkDir:          getEnv("DEPLOY_WORK_DIR", os.TempDir()),
			RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
			PostgresDSN:      getEnv("POSTGRES_DSN", "host=localhost user=lambdadock dbname=lambdadock sslmode=disable"),
			ArtifactBucket:   getEnv("ARTIFACT_BUCKET", ""),
			ArtifactEndpoint: getEnv("ARTIFACT_ENDPOINT", ""),
			S3AccessKeyID:    getEnv("S3_ACCESS_KEY_ID", ""),
			S3SecretKey:      getEnv("S3_SECRET_ACCESS_KEY", ""),
		}
	})
	return instance
}

// EffectiveRegion resolves the region for a request: the request value wins,
// then the configured default.
func (c *Config) EffectiveRegion(requested string) string {
	if requested != "" {
		return requested
	}
	return c.DefaultRegion
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
