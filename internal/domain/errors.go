package domain

import (
	"fmt"
	"strings"
)

// SchemaMismatchError reports required columns absent from the source.
type SchemaMismatchError struct {
	Schema  SchemaKind
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema %s: missing required fields: %s", e.Schema, strings.Join(e.Missing, ", "))
}

// TimestampParseError reports a row whose timestamp could not be reconstructed.
// Row is the zero-based data row index in the source.
type TimestampParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse timestamp field %s=%q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *TimestampParseError) Unwrap() error { return e.Err }

// UnknownChartIDError is returned for a selected chart id with no registered builder.
type UnknownChartIDError struct {
	ID string
}

func (e *UnknownChartIDError) Error() string {
	return fmt.Sprintf("unknown chart id %q", e.ID)
}

// EmptyTableError is a soft failure: the chart was still built, as a placeholder.
type EmptyTableError struct {
	ChartID string
}

func (e *EmptyTableError) Error() string {
	return fmt.Sprintf("chart %s: no records to plot", e.ChartID)
}

// InvalidInputError reports data a chart builder cannot accept.
type InvalidInputError struct {
	ChartID string
	Reason  string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("chart %s: %s", e.ChartID, e.Reason)
}
