package routes

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/lambdadock/lambdadock/api/rest/v1"
	"github.com/lambdadock/lambdadock/api/rest/v1/handlers"
	"github.com/lambdadock/lambdadock/internal/services"
)

// @Summary Deploy a Python function
// @Description Packages the supplied handler into a container image and publishes it as a Lambda function
// @Tags Deployments
// @Accept json
// @Produce json
// @Param request body schemas.DeployRequest true "Deployment request"
// @Success 200 {object} schemas.DeployResponse
// @Failure 400 {object} v1.APIError
// @Failure 500 {object} v1.APIError
// @Router /deploy [post]
func handleDeploy(deployHandler *handlers.DeployHandler, router gin.IRoutes) {
	router.POST("/deploy", v1.ErrorHandler(deployHandler.HandleDeploy))
}

// @Summary Deploy with a custom build
// @Description Builds from a caller-supplied base image, build commands, and uploaded files, then publishes the image as a Lambda function
// @Tags Deployments
// @Accept multipart/form-data
// @Produce json
// @Param base_image formData string true "Base image reference"
// @Param build_commands formData []string false "Build commands, one RUN step each"
// @Param files formData file false "Files placed into the build context"
// @Success 200 {object} schemas.DeployResponse
// @Failure 400 {object} v1.APIError
// @Failure 500 {object} v1.APIError
// @Router /advanced-deploy [post]
func handleAdvancedDeploy(deployHandler *handlers.DeployHandler, router gin.IRoutes) {
	router.POST("/advanced-deploy", v1.ErrorHandler(deployHandler.HandleAdvancedDeploy))
}

// @Summary List deployments
// @Description Retrieves the recorded deployment history
// @Tags Deployments
// @Produce json
// @Success 200 {object} v1.APIResponse{data=[]models.Deployment}
// @Failure 500 {object} v1.APIError
// @Router /deployments [get]
func handleListDeployments(deployHandler *handlers.DeployHandler, router gin.IRoutes) {
	router.GET("/deployments", v1.ErrorHandler(deployHandler.HandleListDeployments))
}

func deploymentRoutes(deployService services.DeployService, router gin.IRoutes) {
	deployHandler := handlers.NewDeployHandler(deployService)
	handleDeploy(deployHandler, router)
	handleAdvancedDeploy(deployHandler, router)
	handleListDeployments(deployHandler, router)
	router.GET("/health", v1.ErrorHandler(deployHandler.HandleHealth))
}
