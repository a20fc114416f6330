package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/pipecanvas"
	"github.com/aretw0/pipecanvas/internal/dag"
	"github.com/aretw0/pipecanvas/pkg/catalog"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/observability"
	"github.com/aretw0/pipecanvas/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultOrigin is the editor's development origin.
const DefaultOrigin = "http://localhost:3000"

// Server serves the validation backend and the editor API.
type Server struct {
	Editor  ports.Editor
	Store   ports.GraphStore
	Catalog *catalog.Catalog
	Streams *StreamManager

	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	origins  []string
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAllowedOrigins sets the CORS origins. "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithMetrics records request durations on m and serves g at /metrics.
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithStreams publishes editor events on streams at /events. The same
// manager's Hooks must be given to the engine.
func WithStreams(streams *StreamManager) Option {
	return func(s *Server) {
		s.Streams = streams
	}
}

// NewHandler creates the HTTP handler. Only the validation routes are
// mounted when editor is nil.
func NewHandler(editor ports.Editor, store ports.GraphStore, c *catalog.Catalog, opts ...Option) http.Handler {
	s := &Server{
		Editor:  editor,
		Store:   store,
		Catalog: c,
		origins: []string{DefaultOrigin},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Catalog == nil {
		s.Catalog = catalog.Default()
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.cors)
	if s.metrics != nil {
		r.Use(s.observe)
	}

	r.Get("/", s.Ping)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", s.GetSpec)
	r.Post("/pipelines/parse", s.ParsePipeline)
	r.Get("/kinds", s.ListKinds)
	r.Post("/ports", s.DerivePorts)

	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	if s.Editor != nil && s.Store != nil {
		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", s.ListNodes)
			r.Post("/", s.AddNode)
			r.Get("/{id}", s.RenderNode)
			r.Delete("/{id}", s.RemoveNode)
			r.Put("/{id}/fields/{field}", s.EditField)
		})
		r.Post("/edges", s.Connect)
		r.Delete("/edges/{id}", s.Disconnect)
		r.Get("/pipeline", s.GetPipeline)
		r.Post("/pipeline/parse", s.ParseCanvas)
		r.Get("/events", s.SubscribeEvents)
	}

	return r
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(s.origins, "*") || slices.Contains(s.origins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(r.Method, route, status, time.Since(start))
	})
}

// Ping handles GET /.
func (s *Server) Ping(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"Ping": "Pong"})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "pipecanvas",
		"version":     strings.TrimSpace(pipecanvas.Version),
		"api_version": apiVersion,
	})
}

// GetSpec serves the validated OpenAPI document.
func (s *Server) GetSpec(w http.ResponseWriter, r *http.Request) {
	if _, err := GetSwagger(); err != nil {
		http.Error(w, "Failed to load spec", http.StatusInternalServerError)
		s.logger.Error("Failed to load OpenAPI spec", "error", err)
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	_, _ = w.Write(rawSpec)
}

// ParsePipeline handles POST /pipelines/parse.
func (s *Server) ParsePipeline(w http.ResponseWriter, r *http.Request) {
	var p domain.Pipeline
	if !s.decode(w, r, &p) {
		return
	}
	if err := checkPipeline(p); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		s.logger.Warn("ParsePipeline: Invalid pipeline", "error", err)
		return
	}

	s.respondParse(w, dag.Parse(p))
}

func (s *Server) respondParse(w http.ResponseWriter, result domain.ParseResult) {
	if s.metrics != nil {
		s.metrics.ObserveValidation(result)
	}
	if !result.IsDAG {
		s.logger.Info("Pipeline contains cycles", "nodes", result.NumNodes, "edges", result.NumEdges)
	}
	s.writeJSON(w, http.StatusOK, result)
}

// ListKinds handles GET /kinds.
func (s *Server) ListKinds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Catalog.All())
}

func checkPipeline(p domain.Pipeline) error {
	if p.Nodes == nil || p.Edges == nil {
		return errors.New("nodes and edges are required")
	}
	for i, n := range p.Nodes {
		if n.ID == "" || n.Type == "" {
			return fmt.Errorf("nodes[%d]: id and type are required", i)
		}
	}
	for i, e := range p.Edges {
		if e.Source == "" || e.Target == "" {
			return fmt.Errorf("edges[%d]: source and target are required", i)
		}
	}
	return nil
}

// decode reads a JSON body, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 4<<20)).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNodeNotFound), errors.Is(err, domain.ErrEdgeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrUnknownKind):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}
