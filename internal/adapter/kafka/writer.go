package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/wave-data-etl/internal/config"
	"github.com/couchcryptid/wave-data-etl/internal/domain"
	"github.com/couchcryptid/wave-data-etl/internal/observability"
)

const (
	maxAttempts    = 3
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// messageWriter is the subset of *kafkago.Writer the Writer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes normalized records to a Kafka topic.
// It implements pipeline.RecordLoader.
type Writer struct {
	writer    messageWriter
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchFlushInterval,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics, batchSize: cfg.BatchSize}
}

// LoadRecords serializes records and publishes them in chunks of the
// configured batch size. Every message carries the run id and source schema
// as headers. A chunk is retried with exponential backoff before giving up.
func (w *Writer) LoadRecords(ctx context.Context, runID string, schema domain.SchemaKind, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	processedAt := domain.Now()

	size := max(w.batchSize, 1)
	for start := 0; start < len(records); start += size {
		chunk := records[start:min(start+size, len(records))]

		msgs := make([]kafkago.Message, len(chunk))
		for i := range chunk {
			msg, err := serializeToMessage(chunk[i], runID, schema, processedAt)
			if err != nil {
				return err
			}
			msgs[i] = msg
		}

		if err := w.writeWithRetry(ctx, msgs); err != nil {
			return fmt.Errorf("publish records %d-%d: %w", start, start+len(chunk)-1, err)
		}
		w.metrics.RecordsPublished.Add(float64(len(msgs)))
	}
	return nil
}

func (w *Writer) writeWithRetry(ctx context.Context, msgs []kafkago.Message) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.writer.WriteMessages(ctx, msgs...); err == nil {
			return nil
		}
		w.metrics.PublishErrors.Inc()
		if ctx.Err() != nil {
			return err
		}
		w.logger.Warn("kafka publish failed", "error", err, "attempt", attempt, "batch_size", len(msgs))
		if attempt == maxAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return err
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// recordMessage is the wire form of a record. Missing measurements are null.
type recordMessage struct {
	Timestamp             time.Time `json:"timestamp"`
	SignificantWaveHeight *float64  `json:"significant_wave_height_m"`
	MeanPeriod            *float64  `json:"mean_period_s"`
	PeakPeriod            *float64  `json:"peak_period_s"`
	MeanDirection         *float64  `json:"mean_direction_deg"`
	PeakDirection         *float64  `json:"peak_direction_deg"`
	MeanSpreading         *float64  `json:"mean_spreading_deg"`
	PeakSpreading         *float64  `json:"peak_spreading_deg"`
}

func newRecordMessage(r domain.Record) recordMessage {
	return recordMessage{
		Timestamp:             r.Timestamp.UTC(),
		SignificantWaveHeight: nullable(r.SignificantWaveHeight),
		MeanPeriod:            nullable(r.MeanPeriod),
		PeakPeriod:            nullable(r.PeakPeriod),
		MeanDirection:         nullable(r.MeanDirection),
		PeakDirection:         nullable(r.PeakDirection),
		MeanSpreading:         nullable(r.MeanSpreading),
		PeakSpreading:         nullable(r.PeakSpreading),
	}
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// serializeToMessage marshals a record into a Kafka message keyed by its timestamp.
func serializeToMessage(r domain.Record, runID string, schema domain.SchemaKind, processedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(newRecordMessage(r))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize buoy record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.Timestamp.UTC().Format(time.RFC3339)),
		Value: data,
		Time:  r.Timestamp,
		Headers: []kafkago.Header{
			{Key: "schema", Value: []byte(schema.String())},
			{Key: "run_id", Value: []byte(runID)},
			{Key: "processed_at", Value: []byte(processedAt.Format(time.RFC3339))},
		},
	}, nil
}
