// Package gochart renders chart plots to PNG with github.com/wcharczuk/go-chart/v2.
package gochart

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/wave-data-etl/internal/charts"
)

// Default canvas size and histogram resolution.
const (
	DefaultWidth  = 1500
	DefaultHeight = 800
	DefaultBins   = 20
)

// Renderer draws charts.Plot values as PNG images.
type Renderer struct {
	width  int
	height int
	bins   int
}

// NewRenderer creates a Renderer. Non-positive arguments fall back to the defaults.
func NewRenderer(width, height, bins int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	return &Renderer{width: width, height: height, bins: bins}
}

// Render draws p. Plots with no points produce a titled placeholder image.
func (r *Renderer) Render(ctx context.Context, p charts.Plot) (charts.Chart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Len() == 0 {
		return r.placeholder(p)
	}

	var buf bytes.Buffer
	var err error
	switch p.Kind {
	case charts.KindLine:
		err = r.line(p).Render(chart.PNG, &buf)
	case charts.KindScatter:
		err = r.scatter(p).Render(chart.PNG, &buf)
	case charts.KindHistogram:
		err = r.histogram(p).Render(chart.PNG, &buf)
	case charts.KindRose:
		err = r.rose(p, &buf)
	default:
		return nil, fmt.Errorf("gochart: unsupported plot kind %q", p.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("gochart: render %q: %w", p.Title, err)
	}
	return &pngChart{data: buf.Bytes()}, nil
}

var (
	lineColor    = drawing.ColorFromHex("1f77b4")
	scatterColor = drawing.ColorFromHex("ff7f0e")
	barColor     = drawing.ColorFromHex("2ca02c")
)

func (r *Renderer) background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20}}
}

func (r *Renderer) line(p charts.Plot) chart.Chart {
	times, ys := p.Times, p.Y
	// go-chart needs two distinct x values to build a range.
	if len(times) == 1 {
		times = []time.Time{times[0], times[0].Add(time.Second)}
		ys = []float64{ys[0], ys[0]}
	}

	return chart.Chart{
		Title:      p.Title,
		Width:      r.width,
		Height:     r.height,
		Background: r.background(),
		XAxis: chart.XAxis{
			Name:           p.XLabel,
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			Name:  p.YLabel,
			Range: paddedRange(ys),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    p.YLabel,
				XValues: times,
				YValues: ys,
				Style:   chart.Style{StrokeColor: lineColor, StrokeWidth: 1.5},
			},
		},
	}
}

func (r *Renderer) scatter(p charts.Plot) chart.Chart {
	return chart.Chart{
		Title:      p.Title,
		Width:      r.width,
		Height:     r.height,
		Background: r.background(),
		XAxis:      chart.XAxis{Name: p.XLabel, Range: paddedRange(p.X)},
		YAxis:      chart.YAxis{Name: p.YLabel, Range: paddedRange(p.Y)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    p.YLabel,
				XValues: p.X,
				YValues: p.Y,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    scatterColor,
				},
			},
		},
	}
}

func (r *Renderer) histogram(p charts.Plot) chart.BarChart {
	bins := Histogram(p.X, r.bins)

	bars := make([]chart.Value, len(bins))
	maxCount := 1
	for i, b := range bins {
		bars[i] = chart.Value{
			Value: float64(b.Count),
			Label: strconv.FormatFloat(b.Center(), 'f', 2, 64),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		maxCount = max(maxCount, b.Count)
	}

	barWidth := (r.width - 120) / max(len(bins), 1) * 3 / 4
	return chart.BarChart{
		Title:      p.Title + " (" + p.XLabel + ")",
		Width:      r.width,
		Height:     r.height,
		BarWidth:   max(barWidth, 4),
		Background: r.background(),
		YAxis: chart.YAxis{
			Name:  p.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) * 1.1},
		},
		Bars: bars,
	}
}

// paddedRange widens a degenerate range so go-chart can scale it.
func paddedRange(vs []float64) *chart.ContinuousRange {
	if len(vs) == 0 {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	lo, hi := slices.Min(vs), slices.Max(vs)
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.1, 0.5)
		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
