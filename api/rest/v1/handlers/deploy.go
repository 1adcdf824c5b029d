package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/lambdadock/lambdadock/api/rest/v1"
	"github.com/lambdadock/lambdadock/api/rest/v1/schemas"
	"github.com/lambdadock/lambdadock/internal/services"
)

type DeployHandler struct {
	service services.DeployService
}

func NewDeployHandler(service services.DeployService) *DeployHandler {
	return &DeployHandler{service: service}
}

// HandleDeploy packages a Python handler on the default base image and
// publishes it.
func (d *DeployHandler) HandleDeploy(c *gin.Context) error {
	var req schemas.DeployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return v1.APIError{
			Code: http.StatusBadRequest,
			Err:  "Bad Request",
		}
	}

	resp, err := d.service.Deploy(c.Request.Context(), req)
	if err != nil {
		return v1.APIError{
			Code: http.StatusInternalServerError,
			Err:  err.Error(),
		}
	}

	// The deploy endpoints answer with the bare result object, not the
	// APIResponse envelope; that shape is the published contract.
	c.JSON(http.StatusOK, resp)
	return nil
}

// HandleAdvancedDeploy builds from a caller-supplied base image, build
// commands, and uploaded files.
func (d *DeployHandler) HandleAdvancedDeploy(c *gin.Context) error {
	var req schemas.AdvancedDeployRequest
	if err := c.ShouldBind(&req); err != nil {
		return v1.APIError{
			Code: http.StatusBadRequest,
			Err:  "Bad Request",
		}
	}

	resp, err := d.service.AdvancedDeploy(c.Request.Context(), req)
	if err != nil {
		return v1.APIError{
			Code: http.StatusInternalServerError,
			Err:  err.Error(),
		}
	}

	c.JSON(http.StatusOK, resp)
	return nil
}

// HandleListDeployments returns the recorded deployment history, newest first.
func (d *DeployHandler) HandleListDeployments(c *gin.Context) error {
	deployments, err := d.service.List(c.Request.Context())
	if err != nil {
		return v1.APIError{
			Code: http.StatusInternalServerError,
			Err:  err.Error(),
		}
	}

	return v1.APIResponse{
		Code: http.StatusOK,
		Msg:  "ok",
		Data: deployments,
	}
}

// HandleHealth reports liveness.
func (d *DeployHandler) HandleHealth(c *gin.Context) error {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	return nil
}
