package charts

import (
	"context"
	"io"
	"time"
)

// Kind is the chart family a Plot is drawn as.
type Kind string

const (
	KindLine      Kind = "line"
	KindScatter   Kind = "scatter"
	KindHistogram Kind = "histogram"
	KindRose      Kind = "rose"
)

// Plot is the renderer-facing description of one chart. Which slices are
// populated depends on Kind:
//
//	line:      Times and Y
//	scatter:   X and Y, aligned
//	histogram: X holds the sample values
//	rose:      X holds directions in [0, 360), Y the matching magnitudes
type Plot struct {
	Kind   Kind
	Title  string
	XLabel string
	YLabel string
	Legend string

	Times []time.Time
	X     []float64
	Y     []float64
}

// Len returns the number of points the plot carries.
func (p Plot) Len() int {
	if p.Kind == KindLine {
		return len(p.Times)
	}
	return len(p.X)
}

// Chart is an opaque rendered chart.
type Chart interface {
	// Save writes the chart image to path.
	Save(path string) error
	// WriteTo streams the encoded image.
	WriteTo(w io.Writer) (int64, error)
	// ContentType is the MIME type of the encoded image.
	ContentType() string
}

// Renderer turns a Plot into a Chart. Implementations draw pixels; this
// package never does.
type Renderer interface {
	Render(ctx context.Context, p Plot) (Chart, error)
}
