// Package workspace materializes per-request build contexts. Every request
// gets a uniquely named directory so concurrent deployments cannot interleave
// writes or share an ambient build context.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lambdadock/lambdadock/internal/utils"
)

const entrypoint = `CMD ["app.lambda_handler"]`

// Workspace is an isolated build-context directory for a single deployment.
type Workspace struct {
	ID  uuid.UUID
	Dir string

	written [][]byte
}

// New allocates a fresh context directory under root.
func New(root string) (*Workspace, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(root, "lambdadock-"+id.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{ID: id, Dir: dir}, nil
}

// Close removes the context directory and everything in it.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.Dir)
}

// WriteFile places a file into the build context. The name is flattened to its
// base so uploads cannot escape the workspace.
func (w *Workspace) WriteFile(name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(w.Dir, filepath.Base(name)), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	w.written = append(w.written, data)
	return nil
}

// ContentHash fingerprints everything written into the context so far.
func (w *Workspace) ContentHash() string {
	return utils.HashAll(w.written...)
}

// MaterializeSimple writes the fixed-template context: the handler source, its
// requirements, and a Dockerfile for the Lambda Python base image.
func (w *Workspace) MaterializeSimple(baseImage, script, requirements string) error {
	if err := w.WriteFile("app.py", []byte(script)); err != nil {
		return err
	}
	if err := w.WriteFile("requirements.txt", []byte(requirements)); err != nil {
		return err
	}
	return w.WriteFile("Dockerfile", []byte(simpleDockerfile(baseImage)))
}

// MaterializeCustom writes a Dockerfile from a caller-supplied base image and
// build commands. Commands are emitted in exactly the order given; they are
// not validated or escaped, the caller owns what runs inside the build.
func (w *Workspace) MaterializeCustom(baseImage string, buildCommands []string) error {
	return w.WriteFile("Dockerfile", []byte(customDockerfile(baseImage, buildCommands)))
}

func simpleDockerfile(baseImage string) string {
	return fmt.Sprintf(`FROM %s
COPY requirements.txt .
RUN pip install -r requirements.txt
COPY app.py .
%s
`, baseImage, entrypoint)
}

func customDockerfile(baseImage string, buildCommands []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FROM %s\n", baseImage)
	for _, cmd := range buildCommands {
		fmt.Fprintf(&b, "RUN %s\n", cmd)
	}
	b.WriteString("COPY . .\n")
	b.WriteString(entrypoint + "\n")
	return b.String()
}
