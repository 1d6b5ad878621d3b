// Package http serves the conversions over a small JSON API.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/viewmig/internal/logging"
	"github.com/aretw0/viewmig/internal/service"
	"github.com/aretw0/viewmig/internal/view"
	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/transpile"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies; view documents are the largest payload.
const maxBodyBytes = 4 << 20

// AttrsRequest is the body of POST /v1/attrs.
type AttrsRequest struct {
	Attrs string `json:"attrs"`
}

// AttrsResponse lists one expression per attribute.
type AttrsResponse struct {
	Attributes transpile.AttrSet `json:"attributes"`
}

// DomainRequest is the body of POST /v1/domain.
type DomainRequest struct {
	Domain string `json:"domain"`
}

// DomainResponse holds the converted expression.
type DomainResponse struct {
	Expression string `json:"expression"`
}

// StatesRequest is the body of POST /v1/states.
type StatesRequest struct {
	States    string `json:"states"`
	Invisible string `json:"invisible"`
}

// StatesResponse holds the combined invisible expression.
type StatesResponse struct {
	Invisible string `json:"invisible"`
}

// ViewRequest is the body of POST /v1/views.
type ViewRequest struct {
	Content string `json:"content"`
}

// ViewChange is one rewritten node.
type ViewChange struct {
	Kind   string `json:"kind"`
	Node   string `json:"node"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// ViewResponse holds the converted document and its changes.
type ViewResponse struct {
	Content string       `json:"content"`
	Changes []ViewChange `json:"changes"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Server handles the conversion routes.
type Server struct {
	Converter *service.Converter
	Logger    *slog.Logger
}

// NewHandler creates the HTTP handler. Metrics are served on /metrics when
// the converter carries them.
func NewHandler(conv *service.Converter, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{Converter: conv, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if conv.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(conv.Metrics.Registry, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/attrs", s.Attrs)
		r.Post("/domain", s.Domain)
		r.Post("/states", s.States)
		r.Post("/views", s.Views)
	})
	return r
}

// Attrs handles POST /v1/attrs.
func (s *Server) Attrs(w http.ResponseWriter, r *http.Request) {
	var body AttrsRequest
	if !s.decode(w, r, &body) {
		return
	}
	set, err := s.Converter.Attrs(body.Attrs)
	if err != nil {
		s.fail(w, "attrs", err)
		return
	}
	if set == nil {
		set = transpile.AttrSet{}
	}
	writeJSON(w, http.StatusOK, AttrsResponse{Attributes: set})
}

// Domain handles POST /v1/domain.
func (s *Server) Domain(w http.ResponseWriter, r *http.Request) {
	var body DomainRequest
	if !s.decode(w, r, &body) {
		return
	}
	expr, err := s.Converter.Domain(body.Domain)
	if err != nil {
		s.fail(w, "domain", err)
		return
	}
	writeJSON(w, http.StatusOK, DomainResponse{Expression: expr})
}

// States handles POST /v1/states.
func (s *Server) States(w http.ResponseWriter, r *http.Request) {
	var body StatesRequest
	if !s.decode(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, StatesResponse{Invisible: s.Converter.States(body.States, body.Invisible)})
}

// Views handles POST /v1/views.
func (s *Server) Views(w http.ResponseWriter, r *http.Request) {
	var body ViewRequest
	if !s.decode(w, r, &body) {
		return
	}
	out, changes, err := s.Converter.View(body.Content)
	if err != nil {
		s.fail(w, "views", err)
		return
	}
	writeJSON(w, http.StatusOK, ViewResponse{Content: out, Changes: mapChanges(changes)})
}

func mapChanges(changes []view.Change) []ViewChange {
	out := make([]ViewChange, 0, len(changes))
	for _, c := range changes {
		out = append(out, ViewChange{Kind: c.Kind, Node: c.Line, Before: c.Before, After: c.After})
	}
	return out
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.Logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: "bad_request"})
		return false
	}
	return true
}

// fail maps conversion errors to 422 and anything else to 500.
func (s *Server) fail(w http.ResponseWriter, route string, err error) {
	kind := domain.ErrorKind(err)
	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		kind = "empty_input"
		status = http.StatusBadRequest
	case kind == "error":
		status = http.StatusInternalServerError
		// view parse errors come from the XML decoder and carry no sentinel
		if route == "views" {
			kind = "malformed_view"
			status = http.StatusUnprocessableEntity
		}
	}
	s.Logger.Info("conversion failed", "route", route, "kind", kind, "error", err)
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
