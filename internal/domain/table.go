package domain

import (
	"fmt"
	"math"
	"time"
)

// IngestStats describes how a Table was produced.
type IngestStats struct {
	Schema     SchemaKind
	InputRows  int
	Duplicates int
}

// Table is the normalized, timestamp-keyed measurement table. Keys are strictly
// increasing. A Table is never mutated after NewTable returns; every accessor
// hands out copies so it can be shared freely between readers.
type Table struct {
	keys  []time.Time
	cols  map[Field][]float64
	stats IngestStats
}

// NewTable builds a Table from records already sorted by timestamp with
// duplicates removed. It rejects input that violates that ordering.
func NewTable(records []Record, stats IngestStats) (*Table, error) {
	t := &Table{
		keys:  make([]time.Time, len(records)),
		cols:  make(map[Field][]float64, len(MeasurementFields)),
		stats: stats,
	}
	for _, f := range MeasurementFields {
		t.cols[f] = make([]float64, len(records))
	}

	for i, rec := range records {
		if i > 0 && !rec.Timestamp.After(records[i-1].Timestamp) {
			return nil, fmt.Errorf("new table: key %d (%s) not after key %d (%s)",
				i, rec.Timestamp.Format(time.RFC3339), i-1, records[i-1].Timestamp.Format(time.RFC3339))
		}
		t.keys[i] = rec.Timestamp
		for _, f := range MeasurementFields {
			t.cols[f][i] = rec.Value(f)
		}
	}
	return t, nil
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.keys) }

// Stats returns ingestion statistics.
func (t *Table) Stats() IngestStats { return t.stats }

// Timestamps returns a copy of the ordered keys.
func (t *Table) Timestamps() []time.Time {
	out := make([]time.Time, len(t.keys))
	copy(out, t.keys)
	return out
}

// Column returns a copy of the values of f in key order, NaN included.
// An unknown field yields nil.
func (t *Table) Column(f Field) []float64 {
	col, ok := t.cols[f]
	if !ok {
		return nil
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out
}

// Record returns the i-th record in key order.
func (t *Table) Record(i int) Record {
	rec := Record{Timestamp: t.keys[i]}
	for _, f := range MeasurementFields {
		rec.Set(f, t.cols[f][i])
	}
	return rec
}

// Records returns every record in key order.
func (t *Table) Records() []Record {
	out := make([]Record, t.Len())
	for i := range out {
		out[i] = t.Record(i)
	}
	return out
}

// Series returns the time-ordered (timestamp, value) sequence of f, skipping NaN.
func (t *Table) Series(f Field) ([]time.Time, []float64) {
	col := t.cols[f]
	ts := make([]time.Time, 0, len(col))
	ys := make([]float64, 0, len(col))
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		ts = append(ts, t.keys[i])
		ys = append(ys, v)
	}
	return ts, ys
}

// Values returns the non-NaN values of f, dropping the time axis.
func (t *Table) Values(f Field) []float64 {
	_, ys := t.Series(f)
	return ys
}

// Pairs returns aligned (x, y) values where both are present.
func (t *Table) Pairs(x, y Field) ([]float64, []float64) {
	xc, yc := t.cols[x], t.cols[y]
	xs := make([]float64, 0, len(xc))
	ys := make([]float64, 0, len(yc))
	for i := range xc {
		if i >= len(yc) || math.IsNaN(xc[i]) || math.IsNaN(yc[i]) {
			continue
		}
		xs = append(xs, xc[i])
		ys = append(ys, yc[i])
	}
	return xs, ys
}
