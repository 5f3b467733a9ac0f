package httpadapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/wave-data-etl/internal/charts"
	"github.com/couchcryptid/wave-data-etl/internal/domain"
	"github.com/couchcryptid/wave-data-etl/internal/report"
)

// TableSource exposes the most recently normalized table.
type TableSource interface {
	sharedobs.ReadinessChecker
	Table() *domain.Table
}

// ChartBuilder renders one chart on demand.
type ChartBuilder interface {
	BuildOne(ctx context.Context, table *domain.Table, id string) (charts.ChartOutput, error)
}

// Server exposes health, readiness, metrics, and chart HTTP endpoints.
type Server struct {
	httpServer *http.Server
	source     TableSource
	charts     ChartBuilder
	logger     *slog.Logger
}

type chartInfo struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, /charts,
// /charts/{id}, and /report/top routes.
func NewServer(addr string, source TableSource, builder ChartBuilder, logger *slog.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		source: source,
		charts: builder,
		logger: logger,
	}

	router.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	router.HandleFunc("/readyz", sharedobs.ReadinessHandler(source)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/charts", s.handleListCharts).Methods(http.MethodGet)
	router.HandleFunc("/charts/{id}", s.handleChart).Methods(http.MethodGet)
	router.HandleFunc("/report/top", s.handleTop).Methods(http.MethodGet)

	var h http.Handler = router
	h = handlers.CustomLoggingHandler(io.Discard, h, s.logRequest)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)(h)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	s.logger.Debug("http request",
		"method", p.Request.Method,
		"path", p.URL.Path,
		"status", p.StatusCode,
		"bytes", p.Size,
		"duration", time.Since(p.TimeStamp),
	)
}

func (s *Server) handleListCharts(w http.ResponseWriter, _ *http.Request) {
	specs := charts.Specs()
	out := make([]chartInfo, 0, len(specs))
	for _, spec := range specs {
		out = append(out, chartInfo{
			ID:       spec.ID,
			Kind:     string(spec.Kind),
			Title:    spec.Title,
			Filename: spec.Filename,
		})
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	table := s.source.Table()
	if table == nil {
		writeError(w, http.StatusServiceUnavailable, "no table loaded")
		return
	}

	id := mux.Vars(r)["id"]
	out, err := s.charts.BuildOne(r.Context(), table, id)
	if err != nil {
		var unknown *domain.UnknownChartIDError
		var invalid *domain.InvalidInputError
		switch {
		case errors.As(err, &unknown):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &invalid):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Error("serve chart failed", "chart", id, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", out.Chart.ContentType())
	w.Header().Set("Content-Disposition", `inline; filename="`+out.Filename+`"`)
	if out.Warning != nil {
		w.Header().Set("X-Chart-Warning", out.Warning.Error())
	}
	w.WriteHeader(http.StatusOK)
	if _, err := out.Chart.WriteTo(w); err != nil {
		s.logger.Warn("write chart response failed", "chart", id, "error", err)
	}
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	table := s.source.Table()
	if table == nil {
		writeError(w, http.StatusServiceUnavailable, "no table loaded")
		return
	}

	n := report.DefaultN
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = v
	}

	entries := report.TopN(table, n)
	if entries == nil {
		entries = []report.Entry{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, entries)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
