package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// Field is a canonical measurement column name. Both source schemas are mapped
// onto this vocabulary so chart builders never branch on source kind.
type Field string

const (
	SignificantWaveHeight Field = "Significant_Wave_Height"
	MeanPeriod            Field = "Mean_Period"
	PeakPeriod            Field = "Peak_Period"
	MeanDirection         Field = "Mean_Direction"
	PeakDirection         Field = "Peak_Direction"
	MeanSpreading         Field = "Mean_Spreading"
	PeakSpreading         Field = "Peak_Spreading"
)

// MeasurementFields lists every canonical measurement column in table order.
var MeasurementFields = []Field{
	SignificantWaveHeight,
	MeanPeriod,
	PeakPeriod,
	MeanDirection,
	PeakDirection,
	MeanSpreading,
	PeakSpreading,
}

// Unit returns the harmonized unit for a field: metres, seconds, or degrees.
func (f Field) Unit() string {
	switch f {
	case SignificantWaveHeight:
		return "m"
	case MeanPeriod, PeakPeriod:
		return "s"
	case MeanDirection, PeakDirection, MeanSpreading, PeakSpreading:
		return "deg"
	default:
		return ""
	}
}

// Label is the human-readable axis label, e.g. "Peak Period (s)".
func (f Field) Label() string {
	name := strings.ReplaceAll(string(f), "_", " ")
	if u := f.Unit(); u != "" {
		return name + " (" + u + ")"
	}
	return name
}

var (
	// unitAnnotationRe matches trailing unit annotations such as "(m)" or "[deg]".
	unitAnnotationRe = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)

	// separatorRe matches runs of whitespace, underscores and hyphens.
	separatorRe = regexp.MustCompile(`[\s_\-]+`)
)

// CanonicalName maps a raw header to the internal naming convention:
// "# year " -> "Year", " Significant Wave Height" -> "Significant_Wave_Height",
// "Peak Period (s)" -> "Peak_Period".
func CanonicalName(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "#")
	s = unitAnnotationRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	words := separatorRe.Split(s, -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		out = append(out, titleWord(w))
	}
	return strings.Join(out, "_")
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
