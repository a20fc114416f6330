package http

import (
	"net/http"

	"github.com/aretw0/pipecanvas/internal/dag"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/template"
	"github.com/go-chi/chi/v5"
)

type addNodeRequest struct {
	Kind string `json:"kind"`
}

type editFieldRequest struct {
	Value any `json:"value"`
}

type portsRequest struct {
	Text string `json:"text"`
}

// ListNodes handles GET /nodes.
func (s *Server) ListNodes(w http.ResponseWriter, r *http.Request) {
	p, err := s.Store.Snapshot(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	nodes := make([]domain.RenderedNode, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		rendered, err := s.Editor.RenderNode(r.Context(), n.ID)
		if err != nil {
			s.logger.Warn("ListNodes: Skipping node", "node_id", n.ID, "error", err)
			continue
		}
		nodes = append(nodes, rendered)
	}
	s.writeJSON(w, http.StatusOK, nodes)
}

// AddNode handles POST /nodes.
func (s *Server) AddNode(w http.ResponseWriter, r *http.Request) {
	var body addNodeRequest
	if !s.decode(w, r, &body) {
		return
	}

	id, err := s.Editor.AddNode(r.Context(), body.Kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, id, http.StatusCreated)
}

// RenderNode handles GET /nodes/{id}.
func (s *Server) RenderNode(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, id string, status int) {
	n, err := s.Editor.RenderNode(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, status, n)
}

// EditField handles PUT /nodes/{id}/fields/{field}.
func (s *Server) EditField(w http.ResponseWriter, r *http.Request) {
	var body editFieldRequest
	if !s.decode(w, r, &body) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.Editor.OnEdit(r.Context(), id, chi.URLParam(r, "field"), body.Value); err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, id, http.StatusOK)
}

// RemoveNode handles DELETE /nodes/{id}.
func (s *Server) RemoveNode(w http.ResponseWriter, r *http.Request) {
	if err := s.Editor.RemoveNode(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Connect handles POST /edges.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	var edge domain.Edge
	if !s.decode(w, r, &edge) {
		return
	}

	stored, err := s.Store.Connect(r.Context(), edge)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, stored)
}

// Disconnect handles DELETE /edges/{id}.
func (s *Server) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Disconnect(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPipeline handles GET /pipeline.
func (s *Server) GetPipeline(w http.ResponseWriter, r *http.Request) {
	p, err := s.Store.Snapshot(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

// ParseCanvas handles POST /pipeline/parse.
func (s *Server) ParseCanvas(w http.ResponseWriter, r *http.Request) {
	p, err := s.Store.Snapshot(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondParse(w, dag.Parse(p))
}

// DerivePorts handles POST /ports.
func (s *Server) DerivePorts(w http.ResponseWriter, r *http.Request) {
	var body portsRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.writeJSON(w, http.StatusOK, template.Infer(body.Text))
}
