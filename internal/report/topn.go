// Package report produces the textual significant wave height ranking.
package report

import (
	"fmt"
	"io"
	"math"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/wave-data-etl/internal/domain"
)

// DefaultN is the number of entries in the standard report.
const DefaultN = 10

// DefaultFilename is where the standard report is written.
const DefaultFilename = "top10_sig_wave_height.txt"

// Entry is one ranked record.
type Entry struct {
	Rank                  int       `json:"rank"`
	Timestamp             time.Time `json:"timestamp"`
	SignificantWaveHeight float64   `json:"significant_wave_height_m"`
}

// TopN returns the n records with the highest significant wave height,
// descending. Equal heights are ordered by earliest timestamp. Records with
// no height are skipped.
func TopN(table *domain.Table, n int) []Entry {
	if n <= 0 {
		return nil
	}
	ts, hs := table.Series(domain.SignificantWaveHeight)

	entries := make([]Entry, len(hs))
	for i := range hs {
		entries[i] = Entry{Timestamp: ts[i], SignificantWaveHeight: hs[i]}
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if a.SignificantWaveHeight != b.SignificantWaveHeight {
			if a.SignificantWaveHeight > b.SignificantWaveHeight {
				return -1
			}
			return 1
		}
		return a.Timestamp.Compare(b.Timestamp)
	})

	entries = entries[:min(n, len(entries))]
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Write renders entries as an aligned text table with a generation stamp.
func Write(w io.Writer, entries []Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Top %d Significant Wave Heights\n", len(entries))
	fmt.Fprintf(tw, "generated %s\n\n", domain.Now().Format(time.RFC3339))
	fmt.Fprintln(tw, "rank\ttimestamp (UTC)\tsignificant wave height (m)")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Rank, e.Timestamp.UTC().Format("2006-01-02 15:04:05"), formatHeight(e.SignificantWaveHeight))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func formatHeight(v float64) string {
	if math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%.3f", v)
}
