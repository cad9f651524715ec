// Copyright 2025-26 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server serves changeset maps over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"m4o.io/adiff"
	"m4o.io/adiff/internal/leaflet"
	"m4o.io/adiff/internal/overpass"
	"m4o.io/adiff/model"
)

const shutdownTimeout = 10 * time.Second

// Server loads a changeset per request and answers with a map page or its
// GeoJSON.
type Server struct {
	source  adiff.Source
	opts    []adiff.RendererOption
	logger  *slog.Logger
	handler http.Handler
}

// New creates a server backed by source.
func New(source adiff.Source, logger *slog.Logger, opts ...adiff.RendererOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{source: source, opts: opts, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/changeset/{id}", s.page)
	r.Get("/api/changeset/{id}", s.geojson)

	s.handler = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := leaflet.NewMap().WriteHTML(w, leaflet.Page{Title: "Augmented diff viewer", Form: true}); err != nil {
		s.logger.Error("unable to write page", "error", err)
	}
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	id, m, ok := s.load(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	p := leaflet.Page{Title: fmt.Sprintf("Changeset %d", id), Form: true, Changeset: int64(id)}
	if err := m.WriteHTML(w, p); err != nil {
		s.logger.Error("unable to write page", "changeset", int64(id), "error", err)
	}
}

func (s *Server) geojson(w http.ResponseWriter, r *http.Request) {
	id, m, ok := s.load(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")

	if err := m.WriteGeoJSON(w); err != nil {
		s.logger.Error("unable to write geojson", "changeset", int64(id), "error", err)
	}
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (model.ChangesetID, *leaflet.Map, bool) {
	raw := chi.URLParam(r, "id")

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		http.Error(w, fmt.Sprintf("invalid changeset id %q", raw), http.StatusBadRequest)

		return 0, nil, false
	}

	id := model.ChangesetID(n)
	logger := s.logger.With("changeset", n, "request", middleware.GetReqID(r.Context()))

	m := leaflet.NewMap()
	l := adiff.NewLoader(s.source, m, adiff.NewRenderer(s.opts...), logger)

	if _, err := l.Load(r.Context(), id); err != nil {
		status := statusOf(err)
		logger.Error("unable to load changeset", "status", status, "error", err)
		http.Error(w, err.Error(), status)

		return 0, nil, false
	}

	return id, m, true
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, overpass.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, overpass.ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, adiff.ErrMalformedDocument):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
