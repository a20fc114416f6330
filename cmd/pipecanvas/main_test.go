package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	httpAdapter "github.com/aretw0/pipecanvas/pkg/adapters/http"
	"github.com/aretw0/pipecanvas/pkg/catalog"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cyclic = `{"nodes":[{"id":"llm-1","type":"llm","data":{}},{"id":"text-1","type":"text","data":{"text":"{{input}}"}}],
"edges":[{"id":"e1","source":"llm-1","target":"text-1"},{"id":"e2","source":"text-1","target":"llm-1"}]}`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writePipeline(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pipecanvas version "))
}

func TestValidate(t *testing.T) {
	path := writePipeline(t, cyclic)

	out, errOut, err := execute(t, "", "validate", path, "--json", "--strict=false")
	require.NoError(t, err)
	var res domain.ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.ParseResult{NumNodes: 2, NumEdges: 2, IsDAG: false}, res)
	assert.Contains(t, errOut, domain.DAGWarning)

	_, _, err = execute(t, "", "validate", path, "--json", "--strict")
	assert.ErrorIs(t, err, errCyclic)

	_, _, err = execute(t, "{not json", "validate", "-", "--json", "--strict=false")
	assert.Error(t, err)
}

func TestPorts(t *testing.T) {
	out, _, err := execute(t, "", "ports", "{{a}} {{ b }} {{a}}", "--json")
	require.NoError(t, err)
	var inf template.Inference
	require.NoError(t, json.Unmarshal([]byte(out), &inf))
	assert.Equal(t, []string{"a", "b"}, inf.Variables)

	out, _, err = execute(t, "{{from_stdin}}\n", "ports", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &inf))
	assert.Equal(t, []string{"from_stdin"}, inf.Variables)
}

func TestKinds(t *testing.T) {
	out, _, err := execute(t, "", "kinds", "--json")
	require.NoError(t, err)
	var schemas []domain.NodeSchema
	require.NoError(t, json.Unmarshal([]byte(out), &schemas))
	assert.Len(t, schemas, len(catalog.Builtins()))
}

func TestGraph(t *testing.T) {
	path := writePipeline(t, cyclic)

	out, _, err := execute(t, "", "graph", path, "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "llm_1 --> text_1")
	assert.Contains(t, out, "class llm_1 cyclic;")

	out, _, err = execute(t, "", "graph", path, "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph pipeline")

	_, _, err = execute(t, "", "graph", path, "--format", "svg")
	assert.ErrorContains(t, err, "unknown format")
}

func TestSubmit(t *testing.T) {
	srv := httptest.NewServer(httpAdapter.NewHandler(nil, nil, catalog.Default()))
	defer srv.Close()
	path := writePipeline(t, cyclic)

	out, errOut, err := execute(t, "", "submit", path, "--backend", srv.URL, "--json")
	require.NoError(t, err)
	var res domain.ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.IsDAG)
	assert.Contains(t, errOut, domain.DAGWarning)

	srv.Close()
	_, _, err = execute(t, "", "submit", path, "--backend", srv.URL, "--json")
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestValidate_Lint(t *testing.T) {
	path := writePipeline(t, `{"nodes":[{"id":"a","type":"mystery","data":{}}],"edges":[]}`)

	_, errOut, err := execute(t, "", "validate", path, "--json", "--strict=false")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Unknown kind 'mystery'")

	_, _, err = execute(t, "", "validate", path, "--json", "--strict")
	assert.ErrorContains(t, err, "found 1 errors")
}
