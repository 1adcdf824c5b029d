package schemas

import "mime/multipart"

// DeployRequest is the JSON body of POST /deploy.
// @Description Simple deployment request: a Python handler packaged on the
// @Description default Lambda base image.
type DeployRequest struct {
	PythonScript     string   `json:"python_script" binding:"required"` // Handler source text
	Requirements     string   `json:"requirements"`                     // pip requirements, may be empty
	RepositoryName   string   `json:"repository_name" binding:"required"`
	ImageTag         string   `json:"image_tag" binding:"required"`
	FunctionName     string   `json:"function_name" binding:"required"`
	Region           string   `json:"region"` // Defaults to AWS_DEFAULT_REGION, then us-west-2
	MemorySize       int32    `json:"memory_size" binding:"required"`
	StorageSize      int32    `json:"storage_size" binding:"required"`
	VpcID            string   `json:"vpc_id"`
	SubnetIDs        []string `json:"subnet_ids"`
	SecurityGroupIDs []string `json:"security_group_ids"`
}

// AdvancedDeployRequest is the multipart form of POST /advanced-deploy. The
// uploaded files become the build context alongside the generated Dockerfile.
// @Description Advanced deployment request with a caller-controlled Dockerfile
type AdvancedDeployRequest struct {
	BaseImage        string                  `form:"base_image" binding:"required"`
	BuildCommands    []string                `form:"build_commands"` // One RUN step each, in order
	RepositoryName   string                  `form:"repository_name" binding:"required"`
	ImageTag         string                  `form:"image_tag" binding:"required"`
	FunctionName     string                  `form:"function_name" binding:"required"`
	Region           string                  `form:"region"`
	VpcID            string                  `form:"vpc_id"`
	SubnetIDs        []string                `form:"subnet_ids"`
	SecurityGroupIDs []string                `form:"security_group_ids"`
	Files            []*multipart.FileHeader `form:"files"`
}

// DeployResponse is the success body of both deploy endpoints.
// @Description Deployment result
type DeployResponse struct {
	Message   string `json:"message"`
	ImageURI  string `json:"image_uri"`
	LambdaARN string `json:"lambda_arn"`
}
