package domain

import (
	"math"
	"time"
)

// Record is one normalized measurement sample. Missing measurements are NaN.
type Record struct {
	Timestamp             time.Time `json:"timestamp"`
	SignificantWaveHeight float64   `json:"significant_wave_height_m"`
	MeanPeriod            float64   `json:"mean_period_s"`
	PeakPeriod            float64   `json:"peak_period_s"`
	MeanDirection         float64   `json:"mean_direction_deg"`
	PeakDirection         float64   `json:"peak_direction_deg"`
	MeanSpreading         float64   `json:"mean_spreading_deg"`
	PeakSpreading         float64   `json:"peak_spreading_deg"`
}

// Value returns the measurement stored under f, or NaN for an unknown field.
func (r Record) Value(f Field) float64 {
	switch f {
	case SignificantWaveHeight:
		return r.SignificantWaveHeight
	case MeanPeriod:
		return r.MeanPeriod
	case PeakPeriod:
		return r.PeakPeriod
	case MeanDirection:
		return r.MeanDirection
	case PeakDirection:
		return r.PeakDirection
	case MeanSpreading:
		return r.MeanSpreading
	case PeakSpreading:
		return r.PeakSpreading
	default:
		return math.NaN()
	}
}

// Set stores v under f. Unknown fields are ignored.
func (r *Record) Set(f Field, v float64) {
	switch f {
	case SignificantWaveHeight:
		r.SignificantWaveHeight = v
	case MeanPeriod:
		r.MeanPeriod = v
	case PeakPeriod:
		r.PeakPeriod = v
	case MeanDirection:
		r.MeanDirection = v
	case PeakDirection:
		r.PeakDirection = v
	case MeanSpreading:
		r.MeanSpreading = v
	case PeakSpreading:
		r.PeakSpreading = v
	}
}

// EmptyRecord returns a record at ts with every measurement set to NaN.
func EmptyRecord(ts time.Time) Record {
	nan := math.NaN()
	return Record{
		Timestamp:             ts,
		SignificantWaveHeight: nan,
		MeanPeriod:            nan,
		PeakPeriod:            nan,
		MeanDirection:         nan,
		PeakDirection:         nan,
		MeanSpreading:         nan,
		PeakSpreading:         nan,
	}
}
