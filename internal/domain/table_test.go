package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	recs := []Record{
		EmptyRecord(base),
		EmptyRecord(base.Add(30 * time.Minute)),
		EmptyRecord(base.Add(60 * time.Minute)),
	}
	recs[0].SignificantWaveHeight, recs[0].PeakPeriod = 1.1, 7.9
	recs[1].SignificantWaveHeight = 1.2 // PeakPeriod missing
	recs[2].SignificantWaveHeight, recs[2].PeakPeriod = 1.3, 8.1
	return recs
}

func TestNewTable(t *testing.T) {
	table, err := NewTable(sampleRecords(), IngestStats{Schema: SchemaEpoch, InputRows: 4, Duplicates: 1})
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, IngestStats{Schema: SchemaEpoch, InputRows: 4, Duplicates: 1}, table.Stats())
	assert.Equal(t, []float64{1.1, 1.2, 1.3}, table.Column(SignificantWaveHeight))
	assert.Nil(t, table.Column(Field("Wind_Speed")))
}

func TestNewTable_RejectsUnorderedKeys(t *testing.T) {
	tests := []struct {
		name string
		swap func([]Record)
	}{
		{"out of order", func(r []Record) { r[0], r[2] = r[2], r[0] }},
		{"repeated key", func(r []Record) { r[1].Timestamp = r[0].Timestamp }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := sampleRecords()
			tt.swap(recs)
			_, err := NewTable(recs, IngestStats{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not after")
		})
	}
}

func TestNewTable_Empty(t *testing.T) {
	table, err := NewTable(nil, IngestStats{})
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Values(SignificantWaveHeight))
}

func TestTable_AccessorsReturnCopies(t *testing.T) {
	table, err := NewTable(sampleRecords(), IngestStats{})
	require.NoError(t, err)

	col := table.Column(SignificantWaveHeight)
	col[0] = 99
	keys := table.Timestamps()
	keys[0] = time.Time{}

	assert.Equal(t, 1.1, table.Column(SignificantWaveHeight)[0])
	assert.False(t, table.Timestamps()[0].IsZero())
}

func TestTable_SeriesSkipsNaN(t *testing.T) {
	table, err := NewTable(sampleRecords(), IngestStats{})
	require.NoError(t, err)

	ts, ys := table.Series(PeakPeriod)
	require.Len(t, ts, 2)
	assert.Equal(t, []float64{7.9, 8.1}, ys)
	assert.Equal(t, table.Timestamps()[2], ts[1])

	xs, ys := table.Pairs(PeakPeriod, SignificantWaveHeight)
	assert.Equal(t, []float64{7.9, 8.1}, xs)
	assert.Equal(t, []float64{1.1, 1.3}, ys)
}

func TestTable_RecordRoundTrip(t *testing.T) {
	recs := sampleRecords()
	table, err := NewTable(recs, IngestStats{})
	require.NoError(t, err)

	got := table.Record(1)
	assert.Equal(t, recs[1].Timestamp, got.Timestamp)
	assert.Equal(t, 1.2, got.SignificantWaveHeight)
	assert.True(t, math.IsNaN(got.PeakPeriod))
	assert.Len(t, table.Records(), 3)
}

func TestRecord_ValueAndSet(t *testing.T) {
	var rec Record
	for i, f := range MeasurementFields {
		rec.Set(f, float64(i+1))
	}
	for i, f := range MeasurementFields {
		assert.Equal(t, float64(i+1), rec.Value(f), f)
	}

	rec.Set(Field("Bogus"), 42)
	assert.True(t, math.IsNaN(rec.Value(Field("Bogus"))))
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"# year ", "Year"},
		{" month ", "Month"},
		{" milisec ", "Milisec"},
		{" Significant Wave Height", "Significant_Wave_Height"},
		{"Significant Wave Height (m)", "Significant_Wave_Height"},
		{"Peak Directional Spread (deg)", "Peak_Directional_Spread"},
		{"Epoch Time", "Epoch_Time"},
		{"mean_period", "Mean_Period"},
		{"Peak-Period [s]", "Peak_Period"},
		{"   ", ""},
		{"#", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalName(tt.raw))
		})
	}
}

func TestField_Label(t *testing.T) {
	assert.Equal(t, "Significant Wave Height (m)", SignificantWaveHeight.Label())
	assert.Equal(t, "Peak Period (s)", PeakPeriod.Label())
	assert.Equal(t, "Mean Direction (deg)", MeanDirection.Label())
	assert.Equal(t, "Other", Field("Other").Label())
}

func TestParseSchemaKind(t *testing.T) {
	tests := []struct {
		in      string
		want    SchemaKind
		wantErr bool
	}{
		{"", SchemaAuto, false},
		{"auto", SchemaAuto, false},
		{"multi-field", SchemaMultiField, false},
		{"MULTIFIELD", SchemaMultiField, false},
		{"epoch", SchemaEpoch, false},
		{"iso8601", SchemaAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSchemaKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.String())
		})
	}
}

func TestErrors(t *testing.T) {
	ts := &TimestampParseError{Row: 3, Field: "Month", Value: "13", Err: assert.AnError}
	assert.ErrorIs(t, ts, assert.AnError)
	assert.Contains(t, ts.Error(), "row 3")

	mismatch := &SchemaMismatchError{Schema: SchemaEpoch, Missing: []string{"Epoch_Time", "Peak_Period"}}
	assert.Equal(t, "schema epoch: missing required fields: Epoch_Time, Peak_Period", mismatch.Error())

	assert.Contains(t, (&UnknownChartIDError{ID: "bogus"}).Error(), `"bogus"`)
	assert.Contains(t, (&EmptyTableError{ChartID: "rose"}).Error(), "rose")
}

func TestSetClock(t *testing.T) {
	frozen := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { SetClock(nil) })

	assert.Equal(t, frozen.UTC(), Now())
	assert.Equal(t, time.UTC, Now().Location())
}
