package charts

import (
	"github.com/couchcryptid/wave-data-etl/internal/domain"
)

// Spec is a named transformation from a normalized table to a Plot.
type Spec struct {
	ID       string
	Kind     Kind
	XField   domain.Field // unset for line charts, whose x axis is time
	YField   domain.Field // distribution field for histograms
	Title    string
	XLabel   string
	YLabel   string
	Legend   string
	Filename string
}

// Chart ids in registry order.
const (
	SigWave        = "sigWave"
	PeakP          = "peakP"
	MeanP          = "meanP"
	HsPeakScatter  = "hs_peak_scatter"
	HsMeanScatter  = "hs_mean_scatter"
	HsHistogram    = "hs_histogram"
	PeakPHistogram = "peakP_histogram"
	MeanPHistogram = "meanP_histogram"
	Rose           = "rose"
)

const (
	dateLabel      = "Date"
	frequencyLabel = "Frequency"
)

var registry = []Spec{
	{
		ID:       SigWave,
		Kind:     KindLine,
		YField:   domain.SignificantWaveHeight,
		Title:    "Timeseries of Significant Wave Height",
		XLabel:   dateLabel,
		YLabel:   domain.SignificantWaveHeight.Label(),
		Filename: "sigWave.png",
	},
	{
		ID:       PeakP,
		Kind:     KindLine,
		YField:   domain.PeakPeriod,
		Title:    "Timeseries of Peak Period",
		XLabel:   dateLabel,
		YLabel:   domain.PeakPeriod.Label(),
		Filename: "peakP.png",
	},
	{
		ID:       MeanP,
		Kind:     KindLine,
		YField:   domain.MeanPeriod,
		Title:    "Timeseries of Mean Period",
		XLabel:   dateLabel,
		YLabel:   domain.MeanPeriod.Label(),
		Filename: "meanP.png",
	},
	{
		ID:       HsPeakScatter,
		Kind:     KindScatter,
		XField:   domain.PeakPeriod,
		YField:   domain.SignificantWaveHeight,
		Title:    "Scatterplot of Significant Wave Height vs Peak Period",
		XLabel:   domain.PeakPeriod.Label(),
		YLabel:   domain.SignificantWaveHeight.Label(),
		Filename: "hs_peak_scatter.png",
	},
	{
		ID:       HsMeanScatter,
		Kind:     KindScatter,
		XField:   domain.MeanPeriod,
		YField:   domain.SignificantWaveHeight,
		Title:    "Scatterplot of Significant Wave Height vs Mean Period",
		XLabel:   domain.MeanPeriod.Label(),
		YLabel:   domain.SignificantWaveHeight.Label(),
		Filename: "hs_mean_scatter.png",
	},
	{
		ID:       HsHistogram,
		Kind:     KindHistogram,
		YField:   domain.SignificantWaveHeight,
		Title:    "Histogram of Significant Wave Height",
		XLabel:   domain.SignificantWaveHeight.Label(),
		YLabel:   frequencyLabel,
		Filename: "hs_histogram.png",
	},
	{
		ID:       PeakPHistogram,
		Kind:     KindHistogram,
		YField:   domain.PeakPeriod,
		Title:    "Histogram of Peak Period",
		XLabel:   domain.PeakPeriod.Label(),
		YLabel:   frequencyLabel,
		Filename: "peakP_histogram.png",
	},
	{
		ID:       MeanPHistogram,
		Kind:     KindHistogram,
		YField:   domain.MeanPeriod,
		Title:    "Histogram of Mean Period",
		XLabel:   domain.MeanPeriod.Label(),
		YLabel:   frequencyLabel,
		Filename: "meanP_histogram.png",
	},
	{
		ID:       Rose,
		Kind:     KindRose,
		XField:   domain.MeanDirection,
		YField:   domain.SignificantWaveHeight,
		Title:    "Wave Rose",
		XLabel:   domain.MeanDirection.Label(),
		YLabel:   "Frequency (%)",
		Legend:   domain.SignificantWaveHeight.Label(),
		Filename: "wave_rose.png",
	},
}

// aliases maps alternate ids onto registered ones.
var aliases = map[string]string{
	"wave_rose": Rose,
}

// DefaultSelection is the selection used when the caller supplies none.
var DefaultSelection = []string{SigWave, PeakP, MeanP}

// Lookup returns the spec registered under id or one of its aliases.
func Lookup(id string) (Spec, bool) {
	if target, ok := aliases[id]; ok {
		id = target
	}
	for _, s := range registry {
		if s.ID == id {
			return s, true
		}
	}
	return Spec{}, false
}

// Specs returns every registered spec in registry order.
func Specs() []Spec {
	out := make([]Spec, len(registry))
	copy(out, registry)
	return out
}

// AllIDs returns every registered chart id in registry order.
func AllIDs() []string {
	ids := make([]string, len(registry))
	for i, s := range registry {
		ids[i] = s.ID
	}
	return ids
}
