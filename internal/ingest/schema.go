package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/wave-data-etl/internal/domain"
)

// column names one required source column. The first alias is the name
// reported when the column is missing.
type column struct {
	aliases []string
}

func (c column) name() string { return c.aliases[0] }

// resolve finds the raw header for c among canonical -> raw header mappings.
func (c column) resolve(headers map[string]string) (string, bool) {
	for _, a := range c.aliases {
		if raw, ok := headers[a]; ok {
			return raw, true
		}
	}
	return "", false
}

// measurementColumns maps each canonical field to the header names used by
// either export generation.
var measurementColumns = map[domain.Field]column{
	domain.SignificantWaveHeight: {aliases: []string{"Significant_Wave_Height"}},
	domain.MeanPeriod:            {aliases: []string{"Mean_Period"}},
	domain.PeakPeriod:            {aliases: []string{"Peak_Period"}},
	domain.MeanDirection:         {aliases: []string{"Mean_Direction"}},
	domain.PeakDirection:         {aliases: []string{"Peak_Direction"}},
	domain.MeanSpreading:         {aliases: []string{"Mean_Spreading", "Mean_Directional_Spread"}},
	domain.PeakSpreading:         {aliases: []string{"Peak_Spreading", "Peak_Directional_Spread"}},
}

// timestampStrategy reconstructs a record's instant from its source-specific
// time columns. cells holds the raw values in the order of columns().
type timestampStrategy interface {
	kind() domain.SchemaKind
	columns() []column
	timestamp(cells []string) (time.Time, string, error)
}

// multiFieldStrategy composes six discrete integer fields into a UTC instant.
type multiFieldStrategy struct{}

var multiFieldColumns = []column{
	{aliases: []string{"Year"}},
	{aliases: []string{"Month"}},
	{aliases: []string{"Day"}},
	{aliases: []string{"Hour"}},
	{aliases: []string{"Min", "Minute"}},
	{aliases: []string{"Sec", "Second"}},
}

func (multiFieldStrategy) kind() domain.SchemaKind { return domain.SchemaMultiField }

func (multiFieldStrategy) columns() []column { return multiFieldColumns }

// timestamp returns the instant, or the offending column name and an error.
func (multiFieldStrategy) timestamp(cells []string) (time.Time, string, error) {
	limits := [6][2]int{{1, 9999}, {1, 12}, {1, 31}, {0, 23}, {0, 59}, {0, 59}}

	var parts [6]int
	for i, cell := range cells {
		v, err := parseInt(cell)
		if err != nil {
			return time.Time{}, multiFieldColumns[i].name(), err
		}
		if v < limits[i][0] || v > limits[i][1] {
			return time.Time{}, multiFieldColumns[i].name(), fmt.Errorf("value %d out of range [%d, %d]", v, limits[i][0], limits[i][1])
		}
		parts[i] = v
	}

	ts := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.UTC)
	// time.Date normalizes overflow, so 31 April comes back as 1 May.
	if ts.Day() != parts[2] {
		return time.Time{}, "Day", fmt.Errorf("day %d does not exist in %04d-%02d", parts[2], parts[0], parts[1])
	}
	return ts, "", nil
}

// maxEpochOffset bounds offsets so the whole seconds plus the rounded
// fraction still fit in a time.Duration.
const maxEpochOffset = float64(math.MaxInt64/int64(time.Second)) - 1

// epochStrategy adds an offset in seconds to a fixed reference instant.
type epochStrategy struct {
	reference time.Time
}

var epochColumns = []column{
	{aliases: []string{"Epoch_Time", "Epoch", "Epoch_Seconds"}},
}

func (epochStrategy) kind() domain.SchemaKind { return domain.SchemaEpoch }

func (epochStrategy) columns() []column { return epochColumns }

func (s epochStrategy) timestamp(cells []string) (time.Time, string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cells[0]), 64)
	if err != nil {
		return time.Time{}, epochColumns[0].name(), err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}, epochColumns[0].name(), fmt.Errorf("offset %v is not finite", v)
	}
	if math.Abs(v) >= maxEpochOffset {
		return time.Time{}, epochColumns[0].name(), fmt.Errorf("offset %v s is out of range", v)
	}

	whole, frac := math.Modf(v)
	offset := time.Duration(whole)*time.Second + time.Duration(math.Round(frac*float64(time.Second)))
	return s.reference.Add(offset).UTC(), "", nil
}

// parseInt accepts "7" and "7.0" but rejects "7.5".
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer")
	}
	return int(f), nil
}

// canonicalHeaders maps canonical name -> raw header. The first raw header
// wins when two canonicalize to the same name.
func canonicalHeaders(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, raw := range names {
		c := domain.CanonicalName(raw)
		if c == "" {
			continue
		}
		if _, exists := out[c]; !exists {
			out[c] = raw
		}
	}
	return out
}

// DetectSchema picks the source layout from raw header names. The multi-field
// layout wins when both are present.
func DetectSchema(names []string) (domain.SchemaKind, error) {
	headers := canonicalHeaders(names)

	if missing := missingColumns(headers, multiFieldColumns); len(missing) == 0 {
		return domain.SchemaMultiField, nil
	}
	if missing := missingColumns(headers, epochColumns); len(missing) == 0 {
		return domain.SchemaEpoch, nil
	}

	return domain.SchemaAuto, &domain.SchemaMismatchError{
		Schema:  domain.SchemaAuto,
		Missing: []string{"Year|Month|Day|Hour|Min|Sec or Epoch_Time"},
	}
}

func missingColumns(headers map[string]string, cols []column) []string {
	var missing []string
	for _, c := range cols {
		if _, ok := c.resolve(headers); !ok {
			missing = append(missing, c.name())
		}
	}
	return missing
}
