// Package errs defines the error taxonomy shared across the deployment
// pipeline. Anything not covered by these types is treated as a generic
// failure by the HTTP layer.
package errs

// EnvironmentError signals that a required local tool is unavailable, such as
// the Docker daemon being unreachable or the AWS CLI failing to install.
type EnvironmentError struct {
	Reason string
}

func (e *EnvironmentError) Error() string {
	return e.Reason
}

// BuildError signals a non-zero image build exit. Detail carries the build
// tool's captured standard error.
type BuildError struct {
	Detail string
}

func (e *BuildError) Error() string {
	return "Docker build failed: " + e.Detail
}

// PublishError signals a failure while publishing the image to the registry
// or while creating/updating the function. Phase names the pipeline step that
// failed so callers can tell how far the deployment got.
type PublishError struct {
	Phase  string
	Detail string
}

func (e *PublishError) Error() string {
	if e.Phase == "" {
		return e.Detail
	}
	return e.Phase + ": " + e.Detail
}
