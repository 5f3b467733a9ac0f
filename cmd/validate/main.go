// Command validate checks that a multi-field export and an epoch export of
// the same buoy deployment normalize to the same table, and that the result
// is fit for charting.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -multi internal/pipeline/testdata/bulk_multifield.csv \
//	  -epoch internal/pipeline/testdata/bulk_epoch.csv
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/couchcryptid/wave-data-etl/internal/domain"
	"github.com/couchcryptid/wave-data-etl/internal/ingest"
	"github.com/couchcryptid/wave-data-etl/internal/report"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	multiPath := flag.String("multi", "", "path to the multi-field export")
	epochPath := flag.String("epoch", "", "path to the epoch export")
	epochRef := flag.String("epoch-reference", "1970-01-01T00:00:00Z", "instant epoch offsets count from (RFC3339)")
	flag.Parse()

	if *multiPath == "" || *epochPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	ref, err := time.Parse(time.RFC3339, *epochRef)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: invalid -epoch-reference: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(*multiPath, *epochPath, ref))
}

func run(multiPath, epochPath string, epochRef time.Time) int {
	fmt.Println("=== Buoy Export Consistency Validation ===")
	fmt.Println()

	multi, err := load(multiPath, domain.SchemaMultiField)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load multi-field export: %v\n", err)
		return 1
	}
	epoch, err := load(epochPath, domain.SchemaEpoch, ingest.WithEpochReference(epochRef))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load epoch export: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateOrdering("Multi-field keys strictly increasing", multi),
		validateOrdering("Epoch keys strictly increasing", epoch),
		validateAgreement(multi, epoch),
		validateRoseInput(multi),
		validateReport(multi, epoch),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	ms, es := multi.Stats(), epoch.Stats()
	fmt.Printf("Records: %d multi-field (%d rows, %d duplicates), %d epoch (%d rows, %d duplicates)\n",
		multi.Len(), ms.InputRows, ms.Duplicates, epoch.Len(), es.InputRows, es.Duplicates)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func load(path string, kind domain.SchemaKind, opts ...ingest.Option) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frame, err := ingest.ReadCSV(f)
	if err != nil {
		return nil, err
	}
	return ingest.Normalize(frame, kind, opts...)
}

func validateOrdering(name string, table *domain.Table) *phase {
	p := &phase{name: name}
	keys := table.Timestamps()
	for i := 1; i < len(keys); i++ {
		if !keys[i].After(keys[i-1]) {
			p.errorf("key %d (%s) not after key %d (%s)", i, keys[i].Format(time.RFC3339), i-1, keys[i-1].Format(time.RFC3339))
		}
	}
	return p
}

func validateAgreement(multi, epoch *domain.Table) *phase {
	p := &phase{name: "Layouts normalize identically"}
	if multi.Len() != epoch.Len() {
		p.errorf("record count: multi-field=%d epoch=%d", multi.Len(), epoch.Len())
	}
	if diff := cmp.Diff(multi.Records(), epoch.Records(), cmpopts.EquateNaNs()); diff != "" {
		p.errorf("records differ (-multi-field +epoch):\n%s", diff)
	}
	return p
}

func validateRoseInput(table *domain.Table) *phase {
	p := &phase{name: "Direction and height usable for rose"}
	dirs := table.Column(domain.MeanDirection)
	mags := table.Column(domain.SignificantWaveHeight)
	keys := table.Timestamps()
	for i := range keys {
		if math.IsInf(dirs[i], 0) {
			p.errorf("%s: direction is not finite", keys[i].Format(time.RFC3339))
		}
		if mags[i] < 0 {
			p.errorf("%s: negative height %v", keys[i].Format(time.RFC3339), mags[i])
		}
	}
	return p
}

func validateReport(multi, epoch *domain.Table) *phase {
	p := &phase{name: "Top wave heights agree"}
	a := report.TopN(multi, report.DefaultN)
	b := report.TopN(epoch, report.DefaultN)
	if diff := cmp.Diff(a, b); diff != "" {
		p.errorf("top %d differs (-multi-field +epoch):\n%s", report.DefaultN, diff)
	}
	return p
}
