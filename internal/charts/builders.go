package charts

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/wave-data-etl/internal/domain"
)

// build slices the columns a spec needs out of the table. A non-nil warning
// means the plot is a placeholder; a non-nil error means nothing can be drawn.
func build(spec Spec, table *domain.Table) (plot Plot, warning, err error) {
	plot = Plot{
		Kind:   spec.Kind,
		Title:  spec.Title,
		XLabel: spec.XLabel,
		YLabel: spec.YLabel,
		Legend: spec.Legend,
	}

	switch spec.Kind {
	case KindLine:
		plot.Times, plot.Y = table.Series(spec.YField)
	case KindScatter:
		plot.X, plot.Y = table.Pairs(spec.XField, spec.YField)
	case KindHistogram:
		plot.X = table.Values(spec.YField)
		if len(plot.X) == 0 {
			warning = &domain.EmptyTableError{ChartID: spec.ID}
		}
	case KindRose:
		plot.X, plot.Y, err = roseInput(spec, table)
		if err != nil {
			return Plot{}, nil, err
		}
		if len(plot.X) == 0 {
			warning = &domain.EmptyTableError{ChartID: spec.ID}
		}
	default:
		return Plot{}, nil, fmt.Errorf("chart %s: unsupported kind %q", spec.ID, spec.Kind)
	}
	return plot, warning, nil
}

// roseInput pairs direction with magnitude, wrapping directions into [0, 360).
// Rows missing either value are skipped.
func roseInput(spec Spec, table *domain.Table) ([]float64, []float64, error) {
	keys := table.Timestamps()
	dirCol, magCol := table.Column(spec.XField), table.Column(spec.YField)

	dirs := make([]float64, 0, len(keys))
	mags := make([]float64, 0, len(keys))
	for i := range keys {
		d, m := dirCol[i], magCol[i]
		if math.IsNaN(d) || math.IsNaN(m) {
			continue
		}
		if m < 0 {
			return nil, nil, &domain.InvalidInputError{
				ChartID: spec.ID,
				Reason:  fmt.Sprintf("negative %s %g at %s", spec.YField, m, keys[i].Format(time.RFC3339)),
			}
		}
		if math.IsInf(m, 0) {
			return nil, nil, &domain.InvalidInputError{
				ChartID: spec.ID,
				Reason:  fmt.Sprintf("non-finite %s at %s", spec.YField, keys[i].Format(time.RFC3339)),
			}
		}
		if math.IsInf(d, 0) {
			return nil, nil, &domain.InvalidInputError{
				ChartID: spec.ID,
				Reason:  fmt.Sprintf("non-finite %s at %s", spec.XField, keys[i].Format(time.RFC3339)),
			}
		}
		dirs = append(dirs, WrapDegrees(d))
		mags = append(mags, m)
	}
	return dirs, mags, nil
}

// WrapDegrees maps any finite angle into [0, 360).
func WrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}
