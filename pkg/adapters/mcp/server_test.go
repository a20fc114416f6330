package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/pipecanvas/internal/engine"
	"github.com/aretw0/pipecanvas/pkg/adapters/memory"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := memory.NewStore()
	eng := engine.New(store)
	return NewServer(eng, store, eng.Catalog())
}

func TestHandleParse(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleParse(context.Background(), mcp.CallToolRequest{}, ParseArgs{
		Pipeline: `{"nodes":[{"id":"a","type":"llm"},{"id":"b","type":"llm"}],"edges":[{"id":"1","source":"a","target":"b"},{"id":"2","source":"b","target":"a"}]}`,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ParseResult{NumNodes: 2, NumEdges: 2, IsDAG: false}, res)

	_, err = s.handleParse(context.Background(), mcp.CallToolRequest{}, ParseArgs{Pipeline: "{"})
	assert.Error(t, err)
}

func TestHandleDerivePorts(t *testing.T) {
	s := newTestServer(t)
	inf, err := s.handleDerivePorts(context.Background(), mcp.CallToolRequest{}, PortsArgs{Text: "{{a}} and {{ b }} then {{a}}"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, inf.Variables)
}

func TestEditorTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	n, err := s.handleAddNode(ctx, mcp.CallToolRequest{}, NodeArgs{Kind: domain.KindText})
	require.NoError(t, err)
	assert.Equal(t, []string{"input"}, n.Variables)

	n, err = s.handleEditField(ctx, mcp.CallToolRequest{}, NodeArgs{NodeID: n.ID, Field: "text", Value: "{{q}}"})
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, n.Variables)

	n, err = s.handleRenderNode(ctx, mcp.CallToolRequest{}, NodeArgs{NodeID: n.ID})
	require.NoError(t, err)
	assert.Equal(t, "text-1-q", n.Inputs[0].ID)

	_, err = s.handleRenderNode(ctx, mcp.CallToolRequest{}, NodeArgs{NodeID: "nope-1"})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestDecodeValue(t *testing.T) {
	assert.Equal(t, true, decodeValue("true"))
	assert.Equal(t, 3.0, decodeValue("3"))
	assert.Nil(t, decodeValue("null"))
	assert.Equal(t, "GPT-4", decodeValue("GPT-4"))
	assert.Equal(t, `{"a":1}`, decodeValue(`{"a":1}`))
}

func TestToolsAreListed(t *testing.T) {
	s := newTestServer(t)
	resp := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"parse_pipeline", "derive_ports", "list_kinds", "add_node", "render_node", "edit_field"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}
