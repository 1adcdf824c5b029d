package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/lambdadock/lambdadock/api/rest/v1"
	"github.com/lambdadock/lambdadock/api/rest/v1/schemas"
	"github.com/lambdadock/lambdadock/internal/errs"
	"github.com/lambdadock/lambdadock/internal/models"
)

type fakeService struct {
	deployErr error
	listed    []*models.Deployment
}

func (f *fakeService) Deploy(_ context.Context, req schemas.DeployRequest) (*schemas.DeployResponse, error) {
	if f.deployErr != nil {
		return nil, f.deployErr
	}
	return &schemas.DeployResponse{
		Message:   "Deployment successful",
		ImageURI:  "123456789012.dkr.ecr.us-west-2.amazonaws.com/" + req.RepositoryName + ":" + req.ImageTag,
		LambdaARN: "arn:aws:lambda:us-west-2:123456789012:function:" + req.FunctionName,
	}, nil
}

func (f *fakeService) AdvancedDeploy(_ context.Context, req schemas.AdvancedDeployRequest) (*schemas.DeployResponse, error) {
	if f.deployErr != nil {
		return nil, f.deployErr
	}
	return &schemas.DeployResponse{
		Message:   "Advanced deployment successful",
		ImageURI:  "123456789012.dkr.ecr.us-west-2.amazonaws.com/" + req.RepositoryName + ":" + req.ImageTag,
		LambdaARN: "arn:aws:lambda:us-west-2:123456789012:function:" + req.FunctionName,
	}, nil
}

func (f *fakeService) List(context.Context) ([]*models.Deployment, error) {
	return f.listed, nil
}

func newRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewDeployHandler(svc)
	r.POST("/deploy", v1.ErrorHandler(h.HandleDeploy))
	r.POST("/advanced-deploy", v1.ErrorHandler(h.HandleAdvancedDeploy))
	r.GET("/deployments", v1.ErrorHandler(h.HandleListDeployments))
	r.GET("/health", v1.ErrorHandler(h.HandleHealth))
	return r
}

func validBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"python_script":   "def lambda_handler(e,c): return 1",
		"requirements":    "",
		"repository_name": "demo",
		"image_tag":       "v1",
		"function_name":   "demo-fn",
		"memory_size":     128,
		"storage_size":    512,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestHandleDeploySuccess(t *testing.T) {
	r := newRouter(&fakeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/deploy", validBody(t))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Deployment successful", resp["message"])
	assert.Equal(t, "123456789012.dkr.ecr.us-west-2.amazonaws.com/demo:v1", resp["image_uri"])
	assert.NotEmpty(t, resp["lambda_arn"])
}

func TestHandleDeployMalformedBody(t *testing.T) {
	r := newRouter(&fakeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/deploy", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDeployPipelineFailure(t *testing.T) {
	r := newRouter(&fakeService{
		deployErr: &errs.BuildError{Detail: "no space left on device"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/deploy", validBody(t))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var apiErr v1.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Err, "no space left on device")
}

func TestHandleListDeployments(t *testing.T) {
	r := newRouter(&fakeService{listed: []*models.Deployment{
		{FunctionName: "demo-fn", Status: models.StatusSucceeded},
	}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/deployments", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp v1.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotNil(t, resp.Data)
}

func TestHandleHealth(t *testing.T) {
	r := newRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
