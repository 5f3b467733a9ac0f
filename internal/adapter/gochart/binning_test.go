package gochart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counts(bins []Bin) []int {
	out := make([]int, len(bins))
	for i, b := range bins {
		out[i] = b.Count
	}
	return out
}

func TestHistogram(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		n      int
		want   []int
		lo, hi float64
	}{
		{"even spread", []float64{0, 1, 2, 3, 4}, 4, []int{1, 1, 1, 2}, 0, 4},
		{"max lands in last bin", []float64{0, 10}, 20, append(append([]int{1}, make([]int, 18)...), 1), 0, 10},
		{"constant sample", []float64{3, 3, 3}, 2, []int{0, 3}, 2.5, 3.5},
		{"non-finite ignored", []float64{math.NaN(), 1, math.Inf(1), 2}, 1, []int{2}, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bins := Histogram(tt.values, tt.n)
			require.Len(t, bins, tt.n)
			assert.Equal(t, tt.want, counts(bins))
			assert.InDelta(t, tt.lo, bins[0].Lo, 1e-9)
			assert.InDelta(t, tt.hi, bins[len(bins)-1].Hi, 1e-9)
		})
	}

	assert.Nil(t, Histogram(nil, 20))
	assert.Len(t, Histogram([]float64{1, 2}, 0), 1)
}

func TestSectorOf(t *testing.T) {
	tests := []struct {
		deg  float64
		want int
	}{
		{0, 0},
		{11.24, 0},
		{11.25, 1},
		{90, 4},
		{180, 8},
		{348.75, 0},
		{348.7, 15},
		{359.9, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SectorOf(tt.deg), "SectorOf(%v)", tt.deg)
	}
}

func TestBuildRoseTable(t *testing.T) {
	dirs := []float64{0, 5, 90, 180}
	mags := []float64{0, 5, 5, 2.5}

	table := BuildRoseTable(dirs, mags)
	require.Equal(t, 4, table.Total)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, table.Edges)

	// Each sample is 25% of the total.
	assert.InDelta(t, 50, table.SectorTotal(0), 1e-9)
	assert.InDelta(t, 25, table.Freq[0][0], 1e-9)
	assert.InDelta(t, 25, table.Freq[0][5], 1e-9)
	assert.InDelta(t, 25, table.Freq[4][5], 1e-9)
	assert.InDelta(t, 25, table.Freq[8][2], 1e-9)
	assert.InDelta(t, 50, table.MaxSectorTotal(), 1e-9)

	var sum float64
	for s := range table.Freq {
		sum += table.SectorTotal(s)
	}
	assert.InDelta(t, 100, sum, 1e-9)
}

func TestBuildRoseTable_Empty(t *testing.T) {
	table := BuildRoseTable(nil, nil)
	assert.Equal(t, 0, table.Total)
	assert.Zero(t, table.MaxSectorTotal())
	assert.Equal(t, 5.0, niceCeil(table.MaxSectorTotal()))
}
