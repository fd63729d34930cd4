// Package server implements the interactive HTTP preview server.
//
// Uploaded trees are stored in a cache backend (in-process or Redis) and
// rendered onto retained scene surfaces. Pan and zoom gestures posted by
// clients mutate only the surface's view transform; the drawn geometry is
// reused across gestures and re-rendered only when the tree changes.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/treescope/treescope/pkg/cache"
	"github.com/treescope/treescope/pkg/diagram"
	"github.com/treescope/treescope/pkg/errors"
	"github.com/treescope/treescope/pkg/render/sink"
	"github.com/treescope/treescope/pkg/scene"
	"github.com/treescope/treescope/pkg/tree"
)

// Server holds the shared state behind the HTTP handlers.
//
// Surfaces perform no internal locking, so every handler that touches the
// document or a surface runs under mu.
type Server struct {
	store    cache.Cache
	renderer *diagram.Renderer
	cfg      diagram.Config
	width    float64
	ttl      time.Duration
	logger   *log.Logger

	mu  sync.Mutex
	doc *scene.Document
}

// Option configures a Server.
type Option func(*Server)

// WithWidth sets the surface width for rendered trees.
// The rendered height always equals the width.
func WithWidth(w float64) Option {
	return func(s *Server) { s.width = w }
}

// WithTreeTTL bounds how long uploaded trees are kept in the store.
func WithTreeTTL(ttl time.Duration) Option {
	return func(s *Server) { s.ttl = ttl }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server backed by the given tree store and renderer config.
func New(store cache.Cache, renderer *diagram.Renderer, cfg diagram.Config, opts ...Option) *Server {
	s := &Server{
		store:    store,
		renderer: renderer,
		cfg:      cfg,
		width:    900,
		ttl:      24 * time.Hour,
		logger:   log.Default(),
		doc:      scene.NewDocument(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/trees", s.handleUpload)
	r.Get("/trees/{id}", s.handlePage)
	r.Get("/trees/{id}.svg", s.handleSVG)
	r.Post("/trees/{id}/gestures", s.handleGesture)
	r.Delete("/trees/{id}", s.handleDelete)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// uploadResponse is returned after a successful tree upload.
type uploadResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// handleUpload stores a tree and renders it onto a fresh surface.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, 4<<20)
	var root tree.Node
	if err := json.NewDecoder(body).Decode(&root); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree"))
		return
	}
	if err := tree.Validate(&root); err != nil {
		writeError(w, err)
		return
	}

	id := uuid.NewString()
	data, err := tree.Marshal(&root)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Set(r.Context(), cache.TreeKey(id), data, s.ttl); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.AddSurface(id, s.width)
	if err := s.renderer.Render(r.Context(), s.doc, id, &root); err != nil {
		s.doc.RemoveSurface(id)
		writeError(w, err)
		return
	}

	s.logger.Info("tree uploaded", "id", id, "nodes", root.Count())
	writeJSON(w, http.StatusCreated, uploadResponse{ID: id, URL: "/trees/" + id})
}

// handleSVG renders the surface for a tree as an interactive SVG.
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateTargetID(id); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	surface, err := s.surfaceFor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(sink.RenderSurfaceSVG(surface, s.cfg))
}

// gestureRequest is a pan or zoom gesture against a tree's view.
type gestureRequest struct {
	Type   string  `json:"type"` // "pan", "zoom", or "reset"
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Factor float64 `json:"factor,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// gestureResponse echoes the resulting view transform.
type gestureResponse struct {
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Scale      float64 `json:"scale"`
}

// handleGesture applies a pan/zoom gesture to a tree's view transform.
// Gestures never touch the drawn elements.
func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateTargetID(id); err != nil {
		writeError(w, err)
		return
	}

	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode gesture"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	surface, err := s.surfaceFor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	view := surface.View()
	switch req.Type {
	case "pan":
		view.Pan(req.DX, req.DY)
	case "zoom":
		view.ZoomAt(req.Factor, req.X, req.Y)
	case "reset":
		view.Reset()
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown gesture type %q", req.Type))
		return
	}

	writeJSON(w, http.StatusOK, gestureResponse{
		TranslateX: view.TranslateX,
		TranslateY: view.TranslateY,
		Scale:      view.Scale,
	})
}

// handleDelete removes a tree and its surface.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateTargetID(id); err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.Delete(r.Context(), cache.TreeKey(id)); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.doc.RemoveSurface(id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// surfaceFor returns the live surface for a tree, recreating it from the
// store when the process has no surface yet (fresh start with a Redis-backed
// store). Callers must hold mu.
func (s *Server) surfaceFor(ctx context.Context, id string) (*scene.Surface, error) {
	if surface, err := s.doc.Surface(id); err == nil {
		return surface, nil
	}

	data, ok, err := s.store.Get(ctx, cache.TreeKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeTreeNotFound, "tree %q does not exist", id)
	}
	root, err := tree.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	s.doc.AddSurface(id, s.width)
	if err := s.renderer.Render(ctx, s.doc, id, root); err != nil {
		s.doc.RemoveSurface(id)
		return nil, err
	}
	return s.doc.Surface(id)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeTargetNotFound, errors.ErrCodeTreeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidTarget, errors.ErrCodeInvalidConfig:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": errors.UserMessage(err)})
}
