package charts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/wave-data-etl/internal/domain"
	"github.com/couchcryptid/wave-data-etl/internal/observability"
)

// ChartOutput pairs a rendered chart with its output filename. Warning is set
// for placeholder charts built from empty input.
type ChartOutput struct {
	ID       string
	Filename string
	Chart    Chart
	Warning  error
}

// Dispatcher builds the charts a caller selects.
type Dispatcher struct {
	renderer Renderer
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewDispatcher creates a Dispatcher that draws through r.
func NewDispatcher(r Renderer, logger *slog.Logger, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{renderer: r, logger: logger, metrics: metrics}
}

// Build renders each selected chart in selection order. Ids repeated in the
// selection are built once, at their first position. A failing id does not
// stop the others: its error is collected and all of them are returned
// joined alongside the outputs that did build.
func (d *Dispatcher) Build(ctx context.Context, table *domain.Table, selected []string) ([]ChartOutput, error) {
	outputs := make([]ChartOutput, 0, len(selected))
	var errs []error
	seen := make(map[string]bool, len(selected))

	for _, id := range selected {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		spec, ok := Lookup(id)
		if !ok {
			d.logger.Error("unknown chart id", "chart", id)
			d.metrics.ChartErrors.WithLabelValues(id, "unknown_id").Inc()
			errs = append(errs, &domain.UnknownChartIDError{ID: id})
			continue
		}
		if seen[spec.ID] {
			continue
		}
		seen[spec.ID] = true

		out, err := d.buildOne(ctx, spec, table)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		outputs = append(outputs, out)
	}

	return outputs, errors.Join(errs...)
}

// BuildOne renders a single chart by id.
func (d *Dispatcher) BuildOne(ctx context.Context, table *domain.Table, id string) (ChartOutput, error) {
	spec, ok := Lookup(id)
	if !ok {
		d.metrics.ChartErrors.WithLabelValues(id, "unknown_id").Inc()
		return ChartOutput{}, &domain.UnknownChartIDError{ID: id}
	}
	return d.buildOne(ctx, spec, table)
}

func (d *Dispatcher) buildOne(ctx context.Context, spec Spec, table *domain.Table) (ChartOutput, error) {
	plot, warning, err := build(spec, table)
	if err != nil {
		d.logger.Error("chart input rejected", "chart", spec.ID, "error", err)
		d.metrics.ChartErrors.WithLabelValues(spec.ID, "invalid_input").Inc()
		return ChartOutput{}, err
	}
	if warning != nil {
		d.logger.Warn("rendering placeholder chart", "chart", spec.ID, "warning", warning)
		d.metrics.EmptyTableWarnings.WithLabelValues(spec.ID).Inc()
	}

	start := time.Now()
	chart, err := d.renderer.Render(ctx, plot)
	if err != nil {
		d.logger.Error("render chart failed", "chart", spec.ID, "error", err)
		d.metrics.ChartErrors.WithLabelValues(spec.ID, "render").Inc()
		return ChartOutput{}, fmt.Errorf("render %s: %w", spec.ID, err)
	}
	d.metrics.RenderDuration.WithLabelValues(spec.ID).Observe(time.Since(start).Seconds())
	d.metrics.ChartsBuilt.WithLabelValues(spec.ID).Inc()
	d.logger.Debug("chart built", "chart", spec.ID, "points", plot.Len(), "file", spec.Filename)

	return ChartOutput{
		ID:       spec.ID,
		Filename: spec.Filename,
		Chart:    chart,
		Warning:  warning,
	}, nil
}

// ParseSelection splits a comma-separated id list. "all" selects every
// registered chart; an empty list selects DefaultSelection. Ids are not
// validated here so that Build can report each unknown one.
func ParseSelection(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, "all") {
			return AllIDs()
		}
		ids = append(ids, part)
	}
	if len(ids) == 0 {
		return append([]string(nil), DefaultSelection...)
	}
	return ids
}
