package ingest

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/wave-data-etl/internal/domain"
)

// DefaultEpochReference is the instant epoch offsets count from.
var DefaultEpochReference = time.Unix(0, 0).UTC()

type options struct {
	epochReference time.Time
}

// Option configures Normalize.
type Option func(*options)

// WithEpochReference sets the reference instant for the epoch layout.
func WithEpochReference(ref time.Time) Option {
	return func(o *options) {
		o.epochReference = ref.UTC()
	}
}

// Normalize converts a raw frame in the given layout into a timestamp-keyed
// Table. Required columns that are absent fail with *domain.SchemaMismatchError;
// a row whose timestamp cannot be reconstructed fails the whole load with
// *domain.TimestampParseError. Rows are sorted by timestamp and, for repeated
// timestamps, only the first row in source order is kept.
func Normalize(frame dataframe.DataFrame, kind domain.SchemaKind, opts ...Option) (*domain.Table, error) {
	if frame.Err != nil {
		return nil, fmt.Errorf("normalize: %w", frame.Err)
	}

	o := options{epochReference: DefaultEpochReference}
	for _, opt := range opts {
		opt(&o)
	}

	names := frame.Names()
	if kind == domain.SchemaAuto {
		detected, err := DetectSchema(names)
		if err != nil {
			return nil, err
		}
		kind = detected
	}

	strategy, err := strategyFor(kind, o)
	if err != nil {
		return nil, err
	}

	headers := canonicalHeaders(names)
	timeCols, fieldCols, err := selectColumns(frame, headers, strategy)
	if err != nil {
		return nil, err
	}

	records, err := buildRecords(frame.Nrow(), timeCols, fieldCols, strategy)
	if err != nil {
		return nil, err
	}

	sortByTimestamp(records)
	deduped := dedupFirst(records)

	return domain.NewTable(deduped, domain.IngestStats{
		Schema:     kind,
		InputRows:  len(records),
		Duplicates: len(records) - len(deduped),
	})
}

func strategyFor(kind domain.SchemaKind, o options) (timestampStrategy, error) {
	switch kind {
	case domain.SchemaMultiField:
		return multiFieldStrategy{}, nil
	case domain.SchemaEpoch:
		return epochStrategy{reference: o.epochReference}, nil
	default:
		return nil, fmt.Errorf("normalize: unsupported schema kind %s", kind)
	}
}

// selectColumns projects the frame onto the timestamp columns of the strategy
// and the measurement columns, reporting every missing one at once.
func selectColumns(frame dataframe.DataFrame, headers map[string]string, strategy timestampStrategy) ([][]string, map[domain.Field][]string, error) {
	var missing []string
	timeRaw := make([]string, 0, len(strategy.columns()))
	for _, c := range strategy.columns() {
		raw, ok := c.resolve(headers)
		if !ok {
			missing = append(missing, c.name())
			continue
		}
		timeRaw = append(timeRaw, raw)
	}

	fieldRaw := make(map[domain.Field]string, len(domain.MeasurementFields))
	for _, f := range domain.MeasurementFields {
		c := measurementColumns[f]
		raw, ok := c.resolve(headers)
		if !ok {
			missing = append(missing, c.name())
			continue
		}
		fieldRaw[f] = raw
	}

	if len(missing) > 0 {
		return nil, nil, &domain.SchemaMismatchError{Schema: strategy.kind(), Missing: missing}
	}

	selected := make([]string, 0, len(timeRaw)+len(fieldRaw))
	selected = append(selected, timeRaw...)
	for _, f := range domain.MeasurementFields {
		selected = append(selected, fieldRaw[f])
	}
	sub := frame.Select(selected)
	if sub.Err != nil {
		return nil, nil, fmt.Errorf("normalize: select columns: %w", sub.Err)
	}

	timeCols := make([][]string, len(timeRaw))
	for i, raw := range timeRaw {
		timeCols[i] = sub.Col(raw).Records()
	}
	fieldCols := make(map[domain.Field][]string, len(fieldRaw))
	for f, raw := range fieldRaw {
		fieldCols[f] = sub.Col(raw).Records()
	}
	return timeCols, fieldCols, nil
}

func buildRecords(n int, timeCols [][]string, fieldCols map[domain.Field][]string, strategy timestampStrategy) ([]domain.Record, error) {
	records := make([]domain.Record, 0, n)
	cells := make([]string, len(timeCols))

	for row := 0; row < n; row++ {
		for i, col := range timeCols {
			cells[i] = col[row]
		}
		ts, field, err := strategy.timestamp(cells)
		if err != nil {
			return nil, &domain.TimestampParseError{
				Row:   row,
				Field: field,
				Value: cellFor(field, cells, strategy),
				Err:   err,
			}
		}

		rec := domain.EmptyRecord(ts)
		for f, col := range fieldCols {
			rec.Set(f, parseMeasurement(col[row]))
		}
		records = append(records, rec)
	}
	return records, nil
}

func cellFor(field string, cells []string, strategy timestampStrategy) string {
	for i, c := range strategy.columns() {
		if c.name() == field {
			return cells[i]
		}
	}
	return strings.Join(cells, " ")
}

// parseMeasurement returns NaN for empty, non-numeric or non-finite cells.
func parseMeasurement(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// sortByTimestamp orders records ascending. The sort is stable so repeated
// timestamps keep their source order for dedupFirst.
func sortByTimestamp(records []domain.Record) {
	slices.SortStableFunc(records, func(a, b domain.Record) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// dedupFirst drops every record whose timestamp equals its predecessor's.
// Input must be sorted.
func dedupFirst(records []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for i, rec := range records {
		if i > 0 && rec.Timestamp.Equal(records[i-1].Timestamp) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
