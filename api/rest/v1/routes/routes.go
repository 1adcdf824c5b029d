package routes

import (
	"github.com/lambdadock/lambdadock/api/rest/server"
	"github.com/lambdadock/lambdadock/api/rest/v1/middleware"
	"github.com/lambdadock/lambdadock/internal/services"
)

func RegisterRoutes(server *server.Server, deployService services.DeployService) {
	apiv1 := server.Engine.Group("/api/v1")
	apiv1.Use(middleware.RequestID())
	deploymentRoutes(deployService, apiv1)
}
