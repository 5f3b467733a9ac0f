// Package domain models wave-buoy bulk parameter data.
//
// # Data Source
//
// Records come from Sofar Spotter style "bulk parameters" exports: one CSV row
// per spectral estimate, usually every 30 minutes. Two export generations exist
// and are handled as a tagged variant ([SchemaKind]).
//
// # Source Conventions
//
// Multi-field layout (older firmware):
//
//	"# year , month , day, hour ,min, sec, milisec , Significant Wave Height, ..."
//	Six integer columns carry the UTC date and time. Header names have stray
//	leading and trailing spaces and a leading "#". The millisecond column is not
//	part of the key.
//
// Epoch layout (newer exports):
//
//	"Epoch Time,Significant Wave Height (m),Peak Period (s),..."
//	One column carries seconds since a reference instant (Unix epoch unless
//	configured otherwise). Measurement headers embed their unit in parentheses.
//
// Canonical names:
//
//	Headers are trimmed, stripped of "#" and unit annotations, title-cased and
//	joined with "_": " Significant Wave Height" and "Significant Wave Height (m)"
//	both become Significant_Wave_Height. See [CanonicalName].
//
// Units:
//
//	Both layouts already report metres, seconds and degrees, so harmonization
//	is a naming concern only. [Field.Unit] gives the unit for axis labels.
//
// Missing values:
//
//	Empty or non-numeric measurement cells become NaN. There is no further
//	validation; chart builders skip NaN values.
//
// # Keys
//
// A [Table] is keyed by timestamp. Keys are unique and strictly increasing.
// When the source repeats a timestamp the first row wins, matching a
// first-writer upsert downstream.
package domain
