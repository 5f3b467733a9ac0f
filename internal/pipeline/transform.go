package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/wave-data-etl/internal/domain"
	"github.com/couchcryptid/wave-data-etl/internal/ingest"
	"github.com/couchcryptid/wave-data-etl/internal/observability"
)

// TableNormalizer implements Transformer on top of ingest.Normalize.
type TableNormalizer struct {
	schema  domain.SchemaKind
	opts    []ingest.Option
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a TableNormalizer for the given layout. SchemaAuto
// detects the layout from each frame's header.
func NewTransformer(schema domain.SchemaKind, epochReference time.Time, logger *slog.Logger, metrics *observability.Metrics) *TableNormalizer {
	var opts []ingest.Option
	if !epochReference.IsZero() {
		opts = append(opts, ingest.WithEpochReference(epochReference))
	}
	return &TableNormalizer{
		schema:  schema,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *TableNormalizer) Transform(_ context.Context, frame dataframe.DataFrame) (*domain.Table, error) {
	start := time.Now()

	table, err := ingest.Normalize(frame, t.schema, t.opts...)
	if err != nil {
		return nil, err
	}

	stats := table.Stats()
	t.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	t.metrics.RecordsNormalized.Add(float64(table.Len()))
	t.metrics.DuplicatesDropped.Add(float64(stats.Duplicates))

	if stats.Duplicates > 0 {
		t.logger.Info("dropped duplicate timestamps", "duplicates", stats.Duplicates)
	}
	t.logger.Info("table normalized",
		"schema", stats.Schema.String(),
		"input_rows", stats.InputRows,
		"records", table.Len(),
	)
	return table, nil
}
