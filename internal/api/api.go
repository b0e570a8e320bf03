// Package api serves the envelope pipeline over HTTP.
//
// Routes:
//
//	POST /v1/envelopes          build from a JSON pipeline.Options body
//	GET  /healthz               liveness
//	GET  /metrics               Prometheus exposition
//
// POST /v1/envelopes answers with the model JSON wrapped in a build
// summary. The format query parameter selects a derived artifact instead:
// geojson (floor plan), dot or svg (space adjacency graph). Artifacts are
// cached alongside envelopes under their own keys.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/massform/pkg/cache"
	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/export"
	modelio "github.com/matzehuels/massform/pkg/io"
	"github.com/matzehuels/massform/pkg/pipeline"
)

const (
	maxBodyBytes   = 1 << 20
	requestTimeout = 60 * time.Second
)

// Server handles API requests.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	gatherer prometheus.Gatherer
}

// New creates a server. A nil gatherer serves the default registry.
func New(runner *pipeline.Runner, logger *log.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{runner: runner, logger: logger, gatherer: gatherer}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Post("/envelopes", s.handleEnvelope)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

// envelopeResponse is the body of a successful JSON build.
type envelopeResponse struct {
	Name        string          `json:"name"`
	Hash        string          `json:"hash"`
	CacheHit    bool            `json:"cache_hit"`
	Stats       stats           `json:"stats"`
	Diagnostics []diag.Message  `json:"diagnostics"`
	Model       json.RawMessage `json:"model"`
}

type stats struct {
	Surfaces    int     `json:"surfaces"`
	SubSurfaces int     `json:"sub_surfaces"`
	Windows     int     `json:"windows"`
	Skylights   int     `json:"skylights"`
	Doors       int     `json:"doors"`
	WindowArea  float64 `json:"window_area"`
	MassingMS   float64 `json:"massing_ms,omitempty"`
	PlacementMS float64 `json:"placement_ms,omitempty"`
}

type errorResponse struct {
	Error       string         `json:"error"`
	Code        errors.Code    `json:"code,omitempty"`
	Diagnostics []diag.Message `json:"diagnostics,omitempty"`
}

// formats maps the format query parameter to its content type.
var formats = map[string]string{
	"json":    "application/json",
	"geojson": "application/geo+json",
	"dot":     "text/vnd.graphviz",
	"svg":     "image/svg+xml",
}

func (s *Server) handleEnvelope(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	contentType, ok := formats[format]
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q", format), nil)
		return
	}

	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body: %v", err), nil)
		return
	}

	rec := &diag.Recorder{}
	opts.Sink = rec
	opts.Logger = loggerFrom(r.Context(), s.logger)

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err, rec.Messages())
		return
	}

	if format == "json" {
		var buf bytes.Buffer
		if err := modelio.WriteJSON(res.Envelope, &buf); err != nil {
			writeError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, envelopeResponse{
			Name:        res.Envelope.Name,
			Hash:        res.Hash,
			CacheHit:    res.CacheHit,
			Stats:       toStats(res.Stats),
			Diagnostics: nonNil(res.Diagnostics),
			Model:       buf.Bytes(),
		})
		return
	}

	data, err := s.artifact(r.Context(), res, format)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Envelope-Hash", res.Hash)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// artifact renders format for res, reading and filling the artifact cache.
func (s *Server) artifact(ctx context.Context, res *pipeline.Result, format string) ([]byte, error) {
	key := s.runner.Keyer.ArtifactKey(res.Hash, cache.ArtifactKeyOpts{Format: format})
	if data, hit, err := s.runner.Cache.Get(ctx, key); err == nil && hit {
		return data, nil
	}

	var data []byte
	var err error
	switch format {
	case "geojson":
		data, err = export.PlanJSON(res.Envelope, export.PlanOptions{})
	case "dot":
		data = []byte(export.AdjacencyDOT(res.Envelope, export.DOTOptions{Detailed: true}))
	case "svg":
		data, err = export.RenderSVG(ctx, export.AdjacencyDOT(res.Envelope, export.DOTOptions{Detailed: true}))
	}
	if err != nil {
		return nil, err
	}
	if err := s.runner.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		s.logger.Warn("cache store failed", "key", key, "error", err)
	}
	return data, nil
}

func toStats(st pipeline.Stats) stats {
	return stats{
		Surfaces:    st.Surfaces,
		SubSurfaces: st.SubSurfaces,
		Windows:     st.Windows,
		Skylights:   st.Skylights,
		Doors:       st.Doors,
		WindowArea:  st.WindowArea,
		MassingMS:   float64(st.MassingTime.Microseconds()) / 1000,
		PlacementMS: float64(st.PlacementTime.Microseconds()) / 1000,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error, messages []diag.Message) {
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Error:       errors.UserMessage(err),
		Code:        errors.GetCode(err),
		Diagnostics: messages,
	})
}

func nonNil(ms []diag.Message) []diag.Message {
	if ms == nil {
		return []diag.Message{}
	}
	return ms
}
