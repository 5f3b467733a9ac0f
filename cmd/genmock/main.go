// Command genmock writes a synthetic buoy export in both source layouts. The
// two files carry identical samples, with a few rows swapped out of order and
// a few timestamps repeated late in the file (carrying an implausible 99 m
// height so a wrong dedup is easy to spot). Both files are normalized with
// the real ingest package before the command exits.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir internal/pipeline/testdata -n 48
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/wave-data-etl/internal/domain"
	"github.com/couchcryptid/wave-data-etl/internal/ingest"
	"github.com/couchcryptid/wave-data-etl/internal/report"
)

const (
	multiFieldHeader = "# year , month , day, hour ,min, sec, milisec , Significant Wave Height, Mean Period, Peak Period, Mean Direction, Peak Direction, Mean Spreading, Peak Spreading"
	epochHeader      = "Epoch Time,Significant Wave Height (m),Peak Period (s),Mean Period (s),Peak Direction (deg),Peak Directional Spread (deg),Mean Direction (deg),Mean Directional Spread (deg)"

	duplicateHeight = 99.0
)

// sample is one generated row. A NaN measurement is written as an empty cell.
type sample struct {
	ts  time.Time
	rec domain.Record
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory for the generated CSV files")
	n := flag.Int("n", 48, "number of unique samples")
	startStr := flag.String("start", "2023-06-01T00:00:00Z", "first sample time (RFC3339)")
	interval := flag.Duration("interval", 30*time.Minute, "spacing between samples")
	dups := flag.Int("duplicates", 3, "number of repeated timestamps to append")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *outDir == "" || *n < 2 {
		flag.Usage()
		return fmt.Errorf("missing required flag -out-dir, or -n below 2")
	}
	start, err := time.Parse(time.RFC3339, *startStr)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	rows := generate(rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)), start.UTC(), *interval, *n, *dups)

	multiPath := filepath.Join(*outDir, "bulk_multifield.csv")
	epochPath := filepath.Join(*outDir, "bulk_epoch.csv")
	if err := writeCSV(multiPath, multiFieldHeader, rows, multiFieldRow); err != nil {
		return fmt.Errorf("writing multi-field fixture: %w", err)
	}
	log.Printf("wrote %s (%d rows)", multiPath, len(rows))
	if err := writeCSV(epochPath, epochHeader, rows, epochRow); err != nil {
		return fmt.Errorf("writing epoch fixture: %w", err)
	}
	log.Printf("wrote %s (%d rows)", epochPath, len(rows))

	// Fixed clock so the printed report is reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(start.Add(time.Duration(*n) * *interval)))
	defer domain.SetClock(nil)

	for _, path := range []string{multiPath, epochPath} {
		table, err := normalizeFile(path)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", path, err)
		}
		stats := table.Stats()
		log.Printf("%s: schema=%s input_rows=%d records=%d duplicates=%d",
			filepath.Base(path), stats.Schema, stats.InputRows, table.Len(), stats.Duplicates)
		if path == multiPath {
			fmt.Println()
			if err := report.Write(os.Stdout, report.TopN(table, report.DefaultN)); err != nil {
				return err
			}
			fmt.Println()
		}
	}
	return nil
}

func generate(rng *rand.Rand, start time.Time, interval time.Duration, n, dups int) []sample {
	rows := make([]sample, 0, n+dups)
	for i := range n {
		ts := start.Add(time.Duration(i) * interval)
		phase := float64(i) / 8

		rec := domain.EmptyRecord(ts)
		rec.SignificantWaveHeight = round(1.4+0.5*math.Sin(phase)+0.1*rng.NormFloat64(), 2)
		rec.MeanPeriod = round(5+0.8*math.Cos(phase)+0.2*rng.NormFloat64(), 1)
		rec.PeakPeriod = round(rec.MeanPeriod+2.5+rng.Float64()*1.5, 1)
		rec.MeanDirection = math.Round(math.Mod(200+float64(i)*7+rng.Float64()*10, 360))
		rec.PeakDirection = math.Round(math.Mod(rec.MeanDirection+360-5+rng.Float64()*20, 360))
		rec.MeanSpreading = math.Round(20 + rng.Float64()*8)
		rec.PeakSpreading = math.Round(17 + rng.Float64()*10)
		if i%17 == 10 {
			rec.MeanPeriod = math.NaN()
		}
		rows = append(rows, sample{ts: ts, rec: rec})
	}

	// Swap a couple of adjacent pairs so the source is not sorted.
	for _, i := range []int{3, 15} {
		if i+1 < len(rows) {
			rows[i], rows[i+1] = rows[i+1], rows[i]
		}
	}

	// Repeat earlier timestamps a few rows after their originals; the first
	// occurrence must win.
	type insert struct {
		at int
		s  sample
	}
	inserts := make([]insert, 0, max(dups, 0))
	for d := range dups {
		i := (5 + d*n/dups) % n
		dup := rows[i]
		dup.rec.SignificantWaveHeight = duplicateHeight
		inserts = append(inserts, insert{at: min(i+7, n), s: dup})
	}
	slices.SortFunc(inserts, func(a, b insert) int { return b.at - a.at })
	for _, ins := range inserts {
		rows = slices.Insert(rows, ins.at, ins.s)
	}
	return rows
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func multiFieldRow(s sample) []string {
	t, r := s.ts, s.rec
	return []string{
		strconv.Itoa(t.Year()), strconv.Itoa(int(t.Month())), strconv.Itoa(t.Day()),
		strconv.Itoa(t.Hour()), strconv.Itoa(t.Minute()), strconv.Itoa(t.Second()), "0",
		cell(r.SignificantWaveHeight), cell(r.MeanPeriod), cell(r.PeakPeriod),
		cell(r.MeanDirection), cell(r.PeakDirection), cell(r.MeanSpreading), cell(r.PeakSpreading),
	}
}

func epochRow(s sample) []string {
	r := s.rec
	return []string{
		strconv.FormatInt(s.ts.Unix(), 10),
		cell(r.SignificantWaveHeight), cell(r.PeakPeriod), cell(r.MeanPeriod),
		cell(r.PeakDirection), cell(r.PeakSpreading), cell(r.MeanDirection), cell(r.MeanSpreading),
	}
}

func writeCSV(path, header string, rows []sample, format func(sample) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// The header is written verbatim; csv.Writer would quote the padded names.
	if _, err := fmt.Fprintln(f, header); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	for _, s := range rows {
		if err := w.Write(format(s)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func normalizeFile(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frame, err := ingest.ReadCSV(f)
	if err != nil {
		return nil, err
	}
	return ingest.Normalize(frame, domain.SchemaAuto)
}
