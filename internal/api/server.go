// Package api serves cached polycube generations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"polycubes/internal/cache"
	"polycubes/internal/polycube"
	"polycubes/internal/precompute"
)

// Lister is implemented by stores that can enumerate their entries.
type Lister interface {
	List(ctx context.Context) ([]cache.Entry, error)
}

// Server answers generation queries from a cache store, computing small
// generations on demand.
type Server struct {
	store      cache.Store
	gen        *precompute.Generator
	maxCompute int
	logger     *zap.Logger
}

// NewServer returns a Server. Generations up to maxCompute that are not
// cached are computed with gen; larger ones return 404. store may be nil.
func NewServer(store cache.Store, gen *precompute.Generator, maxCompute int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: store, gen: gen, maxCompute: maxCompute, logger: logger}
}

// Handler returns the router for all endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Get("/generations", s.ListGenerations)
	r.Get("/generations/{n}", s.GetGeneration)
	r.Get("/generations/{n}/count", s.GetCount)
	return r
}

// ShapeResponse describes one polycube.
type ShapeResponse struct {
	Dims        [3]int               `json:"dims"`
	Fingerprint polycube.Fingerprint `json:"fingerprint"`
}

// GenerationResponse is the body of GET /generations/{n}.
type GenerationResponse struct {
	N      int             `json:"n"`
	Count  int             `json:"count"`
	Source string          `json:"source"`
	Shapes []ShapeResponse `json:"shapes"`
}

// CountResponse is the body of GET /generations/{n}/count.
type CountResponse struct {
	N      int    `json:"n"`
	Count  int    `json:"count"`
	Source string `json:"source"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var errNotAvailable = errors.New("generation is not cached and too large to compute on demand")

// Health reports that the server is up.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListGenerations lists cached generations when the store supports it.
func (s *Server) ListGenerations(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.store.(Lister)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "store cannot list generations"})
		return
	}

	entries, err := lister.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if entries == nil {
		entries = []cache.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetGeneration returns every shape of generation n.
func (s *Server) GetGeneration(w http.ResponseWriter, r *http.Request) {
	n, ok := parseN(w, r)
	if !ok {
		return
	}

	shapes, source, err := s.shapes(r.Context(), n)
	if err != nil {
		s.writeShapesError(w, r, err)
		return
	}

	resp := GenerationResponse{N: n, Count: len(shapes), Source: source, Shapes: make([]ShapeResponse, len(shapes))}
	for i, g := range shapes {
		resp.Shapes[i] = ShapeResponse{Dims: g.Dims(), Fingerprint: polycube.Encode(g)}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCount returns the number of shapes in generation n.
func (s *Server) GetCount(w http.ResponseWriter, r *http.Request) {
	n, ok := parseN(w, r)
	if !ok {
		return
	}

	shapes, source, err := s.shapes(r.Context(), n)
	if err != nil {
		s.writeShapesError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{N: n, Count: len(shapes), Source: source})
}

// shapes loads generation n from the store, falling back to computing it.
func (s *Server) shapes(ctx context.Context, n int) ([]polycube.Grid, string, error) {
	if s.store != nil {
		shapes, ok, err := s.store.Load(ctx, n)
		if err != nil {
			return nil, "", err
		}
		if ok {
			return shapes, "cache", nil
		}
	}

	if s.gen == nil || n > s.maxCompute {
		return nil, "", errNotAvailable
	}

	shapes, err := s.gen.Generate(ctx, n)
	if err != nil {
		return nil, "", err
	}
	return shapes, "computed", nil
}

func (s *Server) writeShapesError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errNotAvailable) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	s.internalError(w, r, err)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func parseN(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "n must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
