// Package fsout persists chart images and the wave height report to a directory.
package fsout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/wave-data-etl/internal/charts"
	"github.com/couchcryptid/wave-data-etl/internal/observability"
	"github.com/couchcryptid/wave-data-etl/internal/report"
)

// Sink writes outputs under a single directory.
type Sink struct {
	dir            string
	reportFilename string
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewSink creates a Sink rooted at dir. The directory is created on first write.
func NewSink(dir string, logger *slog.Logger, metrics *observability.Metrics) *Sink {
	if dir == "" {
		dir = "."
	}
	return &Sink{
		dir:            dir,
		reportFilename: report.DefaultFilename,
		logger:         logger,
		metrics:        metrics,
	}
}

// Dir returns the output directory.
func (s *Sink) Dir() string { return s.dir }

// SaveCharts writes every output to its pre-assigned filename. A failed save
// does not stop the others; all failures are returned joined.
func (s *Sink) SaveCharts(ctx context.Context, outputs []charts.ChartOutput) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var errs []error
	for _, out := range outputs {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		path := filepath.Join(s.dir, out.Filename)
		if err := out.Chart.Save(path); err != nil {
			s.logger.Error("save chart failed", "chart", out.ID, "path", path, "error", err)
			s.metrics.ChartErrors.WithLabelValues(out.ID, "save").Inc()
			errs = append(errs, fmt.Errorf("save %s: %w", out.ID, err))
			continue
		}
		s.logger.Info("chart saved", "chart", out.ID, "path", path)
	}
	return errors.Join(errs...)
}

// SaveReport writes the ranked entries as text.
func (s *Sink) SaveReport(_ context.Context, entries []report.Entry) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(s.dir, s.reportFilename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.Write(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}

	s.logger.Info("report saved", "path", path, "entries", len(entries))
	return nil
}
