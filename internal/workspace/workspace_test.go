package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllocatesUniqueDirs(t *testing.T) {
	root := t.TempDir()

	a, err := New(root)
	require.NoError(t, err)
	defer a.Close()
	b, err := New(root)
	require.NoError(t, err)
	defer b.Close()

	assert.NotEqual(t, a.Dir, b.Dir)
	assert.DirExists(t, a.Dir)
	assert.DirExists(t, b.Dir)
}

func TestCloseRemovesDir(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, ws.WriteFile("app.py", []byte("print()")))

	require.NoError(t, ws.Close())
	assert.NoDirExists(t, ws.Dir)
}

func TestWriteFileFlattensPath(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteFile("../../etc/passwd", []byte("x")))

	assert.FileExists(t, filepath.Join(ws.Dir, "passwd"))
	assert.NoFileExists(t, filepath.Join(ws.Dir, "..", "..", "etc", "passwd"))
}

func TestMaterializeSimple(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	defer ws.Close()

	script := "def lambda_handler(e,c): return 1"
	require.NoError(t, ws.MaterializeSimple("public.ecr.aws/lambda/python:3.8", script, "requests==2.31.0"))

	app, err := os.ReadFile(filepath.Join(ws.Dir, "app.py"))
	require.NoError(t, err)
	assert.Equal(t, script, string(app))

	reqs, err := os.ReadFile(filepath.Join(ws.Dir, "requirements.txt"))
	require.NoError(t, err)
	assert.Equal(t, "requests==2.31.0", string(reqs))

	dockerfile, err := os.ReadFile(filepath.Join(ws.Dir, "Dockerfile"))
	require.NoError(t, err)
	content := string(dockerfile)
	assert.True(t, strings.HasPrefix(content, "FROM public.ecr.aws/lambda/python:3.8\n"))
	assert.Contains(t, content, "RUN pip install -r requirements.txt")
	assert.Contains(t, content, "COPY app.py .")
	assert.Contains(t, content, `CMD ["app.lambda_handler"]`)
}

func TestMaterializeCustomPreservesCommandOrder(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.MaterializeCustom("python:3.11-slim", []string{"pip install x", "echo done"}))

	dockerfile, err := os.ReadFile(filepath.Join(ws.Dir, "Dockerfile"))
	require.NoError(t, err)
	content := string(dockerfile)

	first := strings.Index(content, "RUN pip install x")
	second := strings.Index(content, "RUN echo done")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)

	assert.True(t, strings.HasPrefix(content, "FROM python:3.11-slim\n"))
	assert.Contains(t, content, "COPY . .")
	assert.Contains(t, content, `CMD ["app.lambda_handler"]`)
}

func TestContentHashChangesWithContent(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteFile("a.txt", []byte("one")))
	h1 := ws.ContentHash()
	require.NoError(t, ws.WriteFile("b.txt", []byte("two")))
	h2 := ws.ContentHash()

	assert.NotEqual(t, h1, h2)
}
