package gochart

import (
	"math"
	"slices"
)

// Bin is one equal-width histogram bucket. Values equal to Hi fall into the
// next bin, except in the last bin, which is closed.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Center returns the midpoint of the bin.
func (b Bin) Center() float64 { return (b.Lo + b.Hi) / 2 }

// Histogram counts values into n equal-width bins spanning their min and max.
// A constant sample is spread over [v-0.5, v+0.5]. Non-finite values are ignored.
func Histogram(values []float64, n int) []Bin {
	if n <= 0 {
		n = 1
	}
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return nil
	}

	lo, hi := slices.Min(finite), slices.Max(finite)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(n)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	bins[n-1].Hi = hi

	for _, v := range finite {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}
