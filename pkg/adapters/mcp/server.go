package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/pipecanvas"
	"github.com/aretw0/pipecanvas/internal/dag"
	"github.com/aretw0/pipecanvas/pkg/catalog"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/ports"
	"github.com/aretw0/pipecanvas/pkg/template"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	kindsURI    = "pipecanvas://kinds"
	pipelineURI = "pipecanvas://pipeline"
)

// ParseArgs are the arguments of parse_pipeline.
type ParseArgs struct {
	Pipeline string `json:"pipeline"`
}

// PortsArgs are the arguments of derive_ports.
type PortsArgs struct {
	Text string `json:"text"`
}

// NodeArgs address one node.
type NodeArgs struct {
	Kind   string `json:"kind,omitempty"`
	NodeID string `json:"node_id,omitempty"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Server exposes the validation backend and the editor to MCP agents.
type Server struct {
	editor    ports.Editor
	store     ports.GraphStore
	catalog   *catalog.Catalog
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. Editor tools are only
// registered when editor and store are set.
func NewServer(editor ports.Editor, store ports.GraphStore, c *catalog.Catalog) *Server {
	if c == nil {
		c = catalog.Default()
	}
	s := &Server{
		editor:    editor,
		store:     store,
		catalog:   c,
		mcpServer: server.NewMCPServer("pipecanvas-mcp", strings.TrimSpace(pipecanvas.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("parse_pipeline",
		mcp.WithDescription("Count the nodes and edges of a pipeline and check that it is a DAG. A cyclic pipeline is reported, not rejected."),
		mcp.WithString("pipeline", mcp.Required(), mcp.Description(`JSON object {"nodes":[{id,type,data}],"edges":[{id,source,target,sourceHandle,targetHandle}]}`)),
		mcp.WithOutputSchema[domain.ParseResult](),
	), mcp.NewStructuredToolHandler(s.handleParse))

	s.mcpServer.AddTool(mcp.NewTool("derive_ports",
		mcp.WithDescription("List the {{variable}} placeholders of a template text, in first-occurrence order, with the node size they need."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Template text")),
		mcp.WithOutputSchema[template.Inference](),
	), mcp.NewStructuredToolHandler(s.handleDerivePorts))

	s.mcpServer.AddTool(mcp.NewTool("list_kinds",
		mcp.WithDescription("List the node kinds with their fields and ports."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(s.catalog.All())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	if s.editor == nil || s.store == nil {
		return
	}

	s.mcpServer.AddTool(mcp.NewTool("add_node",
		mcp.WithDescription("Place a new node of the given kind on the canvas."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Node kind, see list_kinds")),
		mcp.WithOutputSchema[domain.RenderedNode](),
	), mcp.NewStructuredToolHandler(s.handleAddNode))

	s.mcpServer.AddTool(mcp.NewTool("render_node",
		mcp.WithDescription("Render a node with its current field values and ports."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node ID")),
		mcp.WithOutputSchema[domain.RenderedNode](),
	), mcp.NewStructuredToolHandler(s.handleRenderNode))

	s.mcpServer.AddTool(mcp.NewTool("edit_field",
		mcp.WithDescription("Set a field of a node. Editing a template's text re-derives its input ports."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node ID")),
		mcp.WithString("field", mcp.Required(), mcp.Description("Field name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value; JSON literals are decoded, anything else is taken as text")),
		mcp.WithOutputSchema[domain.RenderedNode](),
	), mcp.NewStructuredToolHandler(s.handleEditField))
}

func (s *Server) handleParse(ctx context.Context, request mcp.CallToolRequest, args ParseArgs) (domain.ParseResult, error) {
	var p domain.Pipeline
	if err := json.Unmarshal([]byte(args.Pipeline), &p); err != nil {
		return domain.ParseResult{}, fmt.Errorf("invalid pipeline: %w", err)
	}
	result := dag.Parse(p)
	if !result.IsDAG {
		slog.Info("MCP: Pipeline contains cycles", "nodes", result.NumNodes, "edges", result.NumEdges)
	}
	return result, nil
}

func (s *Server) handleDerivePorts(ctx context.Context, request mcp.CallToolRequest, args PortsArgs) (template.Inference, error) {
	return template.Infer(args.Text), nil
}

func (s *Server) handleAddNode(ctx context.Context, request mcp.CallToolRequest, args NodeArgs) (domain.RenderedNode, error) {
	id, err := s.editor.AddNode(ctx, args.Kind)
	if err != nil {
		return domain.RenderedNode{}, err
	}
	return s.editor.RenderNode(ctx, id)
}

func (s *Server) handleRenderNode(ctx context.Context, request mcp.CallToolRequest, args NodeArgs) (domain.RenderedNode, error) {
	return s.editor.RenderNode(ctx, args.NodeID)
}

func (s *Server) handleEditField(ctx context.Context, request mcp.CallToolRequest, args NodeArgs) (domain.RenderedNode, error) {
	if err := s.editor.OnEdit(ctx, args.NodeID, args.Field, decodeValue(args.Value)); err != nil {
		return domain.RenderedNode{}, fmt.Errorf("edit failed: %w", err)
	}
	return s.editor.RenderNode(ctx, args.NodeID)
}

// decodeValue turns "true", "3" or "null" into JSON values; anything that is
// not a JSON literal (including JSON strings' raw text) is kept as text.
func decodeValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	switch v.(type) {
	case bool, float64, nil:
		return v
	default:
		return raw
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(kindsURI, "Node Kinds",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.catalog.All())
		if err != nil {
			return nil, fmt.Errorf("failed to encode kinds: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: kindsURI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})

	if s.store == nil {
		return
	}
	s.mcpServer.AddResource(mcp.NewResource(pipelineURI, "Current Pipeline",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := s.store.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot pipeline: %w", err)
		}
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to encode pipeline: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: pipelineURI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
