// Package http exposes a titration bench as a JSON API with an SSE
// stream of run diffs. Handlers are hand-written against the Workbench
// port; the OpenAPI document is embedded and served for tooling.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/burette/internal/logging"
	"github.com/aretw0/burette/pkg/chem"
	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/ports"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Server adapts a Workbench to HTTP.
type Server struct {
	bench   ports.Workbench
	streams *StreamManager
	logger  *slog.Logger
	version string

	// last remembers the most recent snapshot broadcast per run so
	// stream diffs only carry what changed.
	mu   sync.Mutex
	last map[string]*domain.Run
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithLogger sets a structured logger for request failures and stream
// events.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version string reported by /health.
func WithVersion(v string) ServerOption {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates the HTTP adapter for a bench.
func NewServer(bench ports.Workbench, opts ...ServerOption) *Server {
	s := &Server{
		bench:   bench,
		streams: NewStreamManager(),
		last:    make(map[string]*domain.Run),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.streams.logger = s.logger
	return s
}

// Handler builds the chi router with CORS enabled.
func (s *Server) Handler() http.Handler {
	return enableCORS(s.routes())
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)

	r.Route("/runs", func(r chi.Router) {
		r.Post("/", s.handleStartRun)
		r.Get("/", s.handleListRuns)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetRun)
			r.Delete("/", s.handleDeleteRun)
			r.Post("/tick", s.handleTick)
			r.Post("/pause", s.control("pause", s.bench.Pause))
			r.Post("/resume", s.control("resume", s.bench.Resume))
			r.Post("/stir", s.control("stir", s.bench.ToggleStir))
			r.Post("/reset", s.control("reset", s.bench.Reset))
			r.Get("/curve", s.handleCurve)
			r.Get("/equivalence", s.handleEquivalence)
		})
	})

	r.Get("/events", s.handleEvents)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// startRunRequest is the POST /runs payload.
type startRunRequest struct {
	ID     string        `json:"id,omitempty"`
	Config domain.Config `json:"config"`
}

// tickRequest is the POST /runs/{id}/tick payload.
type tickRequest struct {
	Delta float64 `json:"delta"`
}

// errorResponse is the JSON body of every non-2xx answer.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var body startRunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	run, err := s.bench.StartRun(r.Context(), body.ID, body.Config)
	if err != nil {
		s.writeError(w, r, "start run", err)
		return
	}
	s.publish(run)
	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.bench.List(r.Context())
	if err != nil {
		s.writeError(w, r, "list runs", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": ids})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.bench.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "get run", err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.bench.Remove(r.Context(), id); err != nil {
		s.writeError(w, r, "remove run", err)
		return
	}
	s.forget(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var body tickRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	run, err := s.bench.Tick(r.Context(), chi.URLParam(r, "id"), body.Delta)
	if err != nil {
		s.writeError(w, r, "tick", err)
		return
	}
	s.publish(run)
	writeJSON(w, http.StatusOK, run)
}

// control wires the bodyless mutation endpoints (pause, resume, stir,
// reset), which all share one shape.
func (s *Server) control(op string, fn func(context.Context, string) (*domain.Run, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := fn(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, op, err)
			return
		}
		s.publish(run)
		writeJSON(w, http.StatusOK, run)
	}
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	samples, err := s.bench.Curve(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "curve", err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".csv"))
		fmt.Fprintln(w, "volume_ml,ph")
		for _, sample := range samples {
			fmt.Fprintf(w, "%s,%s\n",
				strconv.FormatFloat(sample.Volume, 'g', -1, 64),
				strconv.FormatFloat(sample.PH, 'g', -1, 64))
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.Sample{"samples": samples})
}

func (s *Server) handleEquivalence(w http.ResponseWriter, r *http.Request) {
	run, err := s.bench.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "equivalence", err)
		return
	}
	eq := chem.EquivalencePoint(run.Config)
	writeJSON(w, http.StatusOK, map[string]float64{
		"volume": eq.Volume,
		"ph":     eq.PH,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run")
	if runID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing 'run' query parameter"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(runID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("sse client disconnected", "run_id", runID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// publish broadcasts the delta between the last seen snapshot of the run
// and this one to every stream subscriber.
func (s *Server) publish(run *domain.Run) {
	if run == nil {
		return
	}

	s.mu.Lock()
	diff := domain.Diff(s.last[run.ID], run)
	s.last[run.ID] = run
	s.mu.Unlock()

	if diff == nil || diff.Empty() {
		return
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		s.logger.Warn("failed to marshal run diff", "run_id", run.ID, "err", err)
		return
	}
	s.streams.Broadcast(run.ID, string(payload))
}

func (s *Server) forget(runID string) {
	s.mu.Lock()
	delete(s.last, runID)
	s.mu.Unlock()
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "op", op, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "op", op, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// errorStatus maps domain sentinels to HTTP statuses: config problems
// are unprocessable input, lifecycle conflicts and duplicates are 409,
// missing runs are 404.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidConfig), errors.Is(err, domain.ErrInvalidDelta):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrNonMonotonicVolume), errors.Is(err, domain.ErrRunExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Burette API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
