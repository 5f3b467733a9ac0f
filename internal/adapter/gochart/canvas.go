package gochart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/wave-data-etl/internal/charts"
)

// roseOpening is the fraction of each sector covered by its wedge.
const roseOpening = 0.8

// classColor maps a magnitude class onto the viridis palette.
func classColor(c int) drawing.Color {
	return chart.Viridis(float64(c), 0, magnitudeClasses-1)
}

var (
	gridColor = drawing.ColorFromHex("bbbbbb")
	textColor = drawing.ColorFromHex("333333")
)

// canvas opens a blank white raster canvas with the default font loaded.
func (r *Renderer) canvas() (chart.Renderer, error) {
	rr, err := chart.PNG(r.width, r.height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	rr.SetFont(font)
	rr.SetFontColor(textColor)

	rr.SetFillColor(drawing.ColorWhite)
	rr.MoveTo(0, 0)
	rr.LineTo(r.width, 0)
	rr.LineTo(r.width, r.height)
	rr.LineTo(0, r.height)
	rr.Close()
	rr.Fill()
	return rr, nil
}

func (r *Renderer) title(rr chart.Renderer, title string) {
	rr.SetFontSize(16)
	box := rr.MeasureText(title)
	rr.Text(title, (r.width-box.Width())/2, 30)
}

// placeholder draws a titled empty canvas for plots with no points.
func (r *Renderer) placeholder(p charts.Plot) (charts.Chart, error) {
	rr, err := r.canvas()
	if err != nil {
		return nil, fmt.Errorf("gochart: placeholder: %w", err)
	}
	r.title(rr, p.Title)

	rr.SetFontSize(12)
	msg := "no data"
	box := rr.MeasureText(msg)
	rr.Text(msg, (r.width-box.Width())/2, r.height/2)

	var buf bytes.Buffer
	if err := rr.Save(&buf); err != nil {
		return nil, fmt.Errorf("gochart: placeholder: %w", err)
	}
	return &pngChart{data: buf.Bytes()}, nil
}

// rose draws a polar stacked histogram: one wedge per compass sector, its
// radius the percentage of samples in that sector, split by magnitude class.
func (r *Renderer) rose(p charts.Plot, buf *bytes.Buffer) error {
	table := BuildRoseTable(p.X, p.Y)

	rr, err := r.canvas()
	if err != nil {
		return err
	}
	r.title(rr, p.Title)

	const legendWidth = 260
	cx := (r.width - legendWidth) / 2
	cy := r.height/2 + 20
	radius := float64(min(r.width-legendWidth, r.height-100)) / 2 * 0.9

	scale := niceCeil(table.MaxSectorTotal())
	r.drawGrid(rr, cx, cy, radius, scale)

	sectorWidth := 2 * math.Pi / Sectors
	wedge := sectorWidth * roseOpening
	for s := range table.Freq {
		// Compass bearings run clockwise from north; screen angles from +x.
		start := float64(s)*sectorWidth - math.Pi/2 - wedge/2

		cum := make([]float64, len(table.Freq[s]))
		var acc float64
		for c, f := range table.Freq[s] {
			acc += f
			cum[c] = acc
		}
		// Outer classes first so inner wedges paint over them.
		for c := len(cum) - 1; c >= 0; c-- {
			if table.Freq[s][c] == 0 {
				continue
			}
			rad := cum[c] / scale * radius
			rr.SetFillColor(classColor(c))
			rr.SetStrokeColor(drawing.ColorWhite)
			rr.SetStrokeWidth(0.5)
			rr.MoveTo(cx, cy)
			rr.ArcTo(cx, cy, rad, rad, start, wedge)
			rr.LineTo(cx, cy)
			rr.Close()
			rr.FillStroke()
		}
	}

	r.drawRoseLegend(rr, p.Legend, table, r.width-legendWidth+20, 80)
	return rr.Save(buf)
}

func (r *Renderer) drawGrid(rr chart.Renderer, cx, cy int, radius, scale float64) {
	rr.SetStrokeColor(gridColor)
	rr.SetStrokeWidth(1)
	rr.SetFontSize(10)

	const rings = 4
	for i := 1; i <= rings; i++ {
		rad := radius * float64(i) / rings
		rr.MoveTo(cx+int(rad), cy)
		rr.ArcTo(cx, cy, rad, rad, 0, 2*math.Pi)
		rr.Stroke()
		label := fmt.Sprintf("%.0f%%", scale*float64(i)/rings)
		rr.Text(label, cx+4, cy-int(rad)-2)
	}

	rr.SetFontSize(12)
	for s := 0; s < Sectors; s += 2 {
		theta := float64(s)*2*math.Pi/Sectors - math.Pi/2
		x := cx + int(math.Cos(theta)*radius)
		y := cy + int(math.Sin(theta)*radius)
		rr.MoveTo(cx, cy)
		rr.LineTo(x, y)
		rr.Stroke()

		name := sectorNames[s]
		box := rr.MeasureText(name)
		lx := cx + int(math.Cos(theta)*(radius+18)) - box.Width()/2
		ly := cy + int(math.Sin(theta)*(radius+18)) + box.Height()/2
		rr.Text(name, lx, ly)
	}
}

func (r *Renderer) drawRoseLegend(rr chart.Renderer, title string, table RoseTable, x, y int) {
	rr.SetFontSize(12)
	rr.Text(title, x, y)

	for c := range table.Edges {
		label := fmt.Sprintf("[%.2f : %.2f)", table.Edges[c], edgeAfter(table.Edges, c))
		if c == len(table.Edges)-1 {
			label = fmt.Sprintf("[%.2f : inf)", table.Edges[c])
		}
		top := y + 20 + c*24
		rr.SetFillColor(classColor(c))
		rr.SetStrokeColor(classColor(c))
		rr.MoveTo(x, top)
		rr.LineTo(x+16, top)
		rr.LineTo(x+16, top+16)
		rr.LineTo(x, top+16)
		rr.Close()
		rr.FillStroke()
		rr.Text(label, x+24, top+13)
	}
}

func edgeAfter(edges []float64, c int) float64 {
	if c+1 < len(edges) {
		return edges[c+1]
	}
	return math.Inf(1)
}

// niceCeil rounds a positive percentage up to a multiple of 5 (min 5).
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 5
	}
	return math.Ceil(v/5) * 5
}
