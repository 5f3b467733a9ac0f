package fsout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wave-data-etl/internal/charts"
	"github.com/couchcryptid/wave-data-etl/internal/observability"
	"github.com/couchcryptid/wave-data-etl/internal/report"
)

type stubChart struct {
	body string
	err  error
}

func (c stubChart) Save(path string) error {
	if c.err != nil {
		return c.err
	}
	return os.WriteFile(path, []byte(c.body), 0o644)
}

func (c stubChart) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.body)
	return int64(n), err
}

func (c stubChart) ContentType() string { return "text/plain" }

func newSink(t *testing.T) *Sink {
	t.Helper()
	return NewSink(filepath.Join(t.TempDir(), "out"), slog.Default(), observability.NewMetricsForTesting())
}

func TestSaveCharts(t *testing.T) {
	s := newSink(t)

	err := s.SaveCharts(context.Background(), []charts.ChartOutput{
		{ID: "sigWave", Filename: "sigWave.png", Chart: stubChart{body: "a"}},
		{ID: "rose", Filename: "wave_rose.png", Chart: stubChart{body: "b"}},
	})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(s.Dir(), "wave_rose.png"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
	assert.FileExists(t, filepath.Join(s.Dir(), "sigWave.png"))
}

func TestSaveCharts_ContinuesPastFailure(t *testing.T) {
	s := newSink(t)
	boom := errors.New("disk full")

	err := s.SaveCharts(context.Background(), []charts.ChartOutput{
		{ID: "peakP", Filename: "peakP.png", Chart: stubChart{err: boom}},
		{ID: "meanP", Filename: "meanP.png", Chart: stubChart{body: "ok"}},
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "save peakP")
	assert.FileExists(t, filepath.Join(s.Dir(), "meanP.png"))
}

func TestSaveReport(t *testing.T) {
	s := newSink(t)
	entries := []report.Entry{
		{Rank: 1, Timestamp: time.Date(2023, 6, 1, 3, 0, 0, 0, time.UTC), SignificantWaveHeight: 9},
	}

	require.NoError(t, s.SaveReport(context.Background(), entries))

	data, err := os.ReadFile(filepath.Join(s.Dir(), report.DefaultFilename))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Top 1 Significant Wave Heights"))
	assert.Contains(t, string(data), "9.000")
}

func TestNewSink_DefaultDir(t *testing.T) {
	s := NewSink("", slog.Default(), observability.NewMetricsForTesting())
	assert.Equal(t, ".", s.Dir())
}
