package gochart

import (
	"math"
	"slices"
)

// Sectors is the number of compass sectors on the wave rose.
const Sectors = 16

// magnitudeClasses is the number of magnitude classes stacked in each sector.
const magnitudeClasses = 6

var sectorNames = [Sectors]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// RoseTable is the normalized frequency table behind a wave rose.
// Freq[s][c] is the percentage of all samples that fall in sector s and
// magnitude class c. Class c covers [Edges[c], Edges[c+1]); the last class
// is open-ended.
type RoseTable struct {
	Edges []float64
	Freq  [Sectors][]float64
	Total int
}

// SectorOf returns the compass sector index for a direction in degrees.
// Sector 0 is centred on north.
func SectorOf(deg float64) int {
	width := 360.0 / Sectors
	s := int(math.Floor(math.Mod(deg+width/2, 360) / width))
	if s < 0 {
		s += Sectors
	}
	return s % Sectors
}

// BuildRoseTable bins (direction, magnitude) pairs. Magnitude class edges are
// evenly spaced between the smallest and largest magnitude.
func BuildRoseTable(dirs, mags []float64) RoseTable {
	var t RoseTable
	for s := range t.Freq {
		t.Freq[s] = make([]float64, magnitudeClasses)
	}
	if len(mags) == 0 {
		return t
	}

	lo, hi := slices.Min(mags), slices.Max(mags)
	t.Edges = make([]float64, magnitudeClasses)
	for i := range t.Edges {
		t.Edges[i] = lo + (hi-lo)*float64(i)/float64(magnitudeClasses-1)
	}

	for i, d := range dirs {
		t.Freq[SectorOf(d)][t.class(mags[i])]++
		t.Total++
	}
	for s := range t.Freq {
		for c := range t.Freq[s] {
			t.Freq[s][c] = t.Freq[s][c] * 100 / float64(t.Total)
		}
	}
	return t
}

func (t RoseTable) class(m float64) int {
	for c := len(t.Edges) - 1; c > 0; c-- {
		if m >= t.Edges[c] {
			return c
		}
	}
	return 0
}

// SectorTotal returns the summed percentage of sector s.
func (t RoseTable) SectorTotal(s int) float64 {
	var sum float64
	for _, f := range t.Freq[s] {
		sum += f
	}
	return sum
}

// MaxSectorTotal returns the largest SectorTotal.
func (t RoseTable) MaxSectorTotal() float64 {
	var m float64
	for s := range t.Freq {
		m = math.Max(m, t.SectorTotal(s))
	}
	return m
}
