// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpd is the HTTP front-end over the ranking orchestrator.
// It exposes the single ranking entry point and the cache flush hook;
// everything else (authentication, UI) belongs to outer layers.
package httpd

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/related-engine/internal/cache"
	"github.com/pdiddy/related-engine/internal/related"
	"github.com/pdiddy/related-engine/pkg/types"
)

// Server serves the ranking API.
type Server struct {
	service *related.Service
	cache   *cache.Facade
	http    *http.Server
	log     zerolog.Logger
}

// New builds the server and its routes.
func New(cfg types.HTTPConfig, service *related.Service, facade *cache.Facade, log zerolog.Logger) *Server {
	s := &Server{
		service: service,
		cache:   facade,
		log:     log.With().Str("component", "httpd").Logger(),
	}

	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/related/{providerId}/{itemId}", s.handleRelated)
		r.Delete("/cache", s.handleFlush)
	})

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server starting")
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleRelated is the public ranking entry point:
// GET /v1/related/{providerId}/{itemId}?principal=u1&limit=10
func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerId")
	itemID := chi.URLParam(r, "itemId")

	principal := r.URL.Query().Get("principal")
	if principal == "" {
		writeError(w, http.StatusBadRequest, "principal query parameter required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	resources, err := s.service.RelatedToItem(r.Context(), principal, providerID, itemID, limit)
	switch {
	case errors.Is(err, related.ErrNotFound), errors.Is(err, related.ErrUnknownProvider):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, related.ErrNoPrincipal):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.log.Error().Err(err).Str("provider", providerID).Str("item", itemID).Msg("ranking request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	views := make([]types.PublicResource, len(resources))
	for i, resource := range resources {
		views[i] = resource.Public()
	}
	writeJSON(w, http.StatusOK, views)
}

// handleFlush clears the cache namespace: DELETE /v1/cache.
func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Flush(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("cache flush failed")
		writeError(w, http.StatusInternalServerError, "flush failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
