// Command rnxcheck re-reads the report files written by rnxmeta and checks
// them against each other: every format must list the same stations in the
// same order, the fixed columns must parse, the ABB ids and line indices
// must be consecutive, and VEL must match the plate motion at the CRD
// coordinates.
//
// Usage:
//
//	go run ./cmd/rnxcheck -dir out -base 2025 -plate EURA
//
// Settings default to the same environment variables as rnxmeta.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/rinex-station-meta/internal/config"
	"github.com/couchcryptid/rinex-station-meta/internal/domain"
	"github.com/couchcryptid/rinex-station-meta/internal/report"
)

// velocityTolerance is one unit in the last written VEL decimal.
const velocityTolerance = 1e-5

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// reports holds the parsed data lines of every format.
type reports map[report.Kind][]report.ParsedLine

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns 0 when every phase passes, 1 when any fails and 2 on usage
// errors.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}

	fs := flag.NewFlagSet("rnxcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.OutputDir, "dir", cfg.OutputDir, "directory holding the report files")
	fs.StringVar(&cfg.OutputBasename, "base", cfg.OutputBasename, "base filename of the report files")
	fs.StringVar(&cfg.PlateLabel, "plate", cfg.PlateLabel, "expected plate label (empty accepts any single label)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if cfg.OutputBasename == "" {
		fs.Usage()
		fmt.Fprintln(stderr, "missing required flag: -base")
		return 2
	}

	fmt.Fprintln(stdout, "=== Station Metadata Report Validation ===")
	fmt.Fprintln(stdout)

	// ── Load and parse every report ──
	load, parsed := loadReports(cfg.OutputDir, cfg.OutputBasename)

	// ── Run validation phases ──
	phases := []*phase{
		load,
		validateKeyParity(parsed),
		validateSequence(parsed),
		validatePlate(parsed, cfg.PlateLabel, cfg.ClusterCode, cfg.PlateRotation),
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(stdout, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Stations: %d ABB, %d CRD, %d STA rows\n",
		len(parsed[report.ABB]), len(parsed[report.CRD]), len(parsed[report.STA]))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(stdout, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(stdout, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(stdout, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(stdout, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Layout ──
// Every report exists, carries its static blocks, and every data line parses.

func loadReports(dir, base string) (*phase, reports) {
	p := &phase{name: "Phase 1: Report layout"}
	parsed := make(reports, len(report.Kinds))

	for _, kind := range report.Kinds {
		path := filepath.Join(dir, base+"."+kind.Extension())
		lines, err := readReport(path, kind)
		if err != nil {
			p.errorf("%s: %v", kind, err)
			continue
		}
		for i, line := range lines {
			pl, err := report.ParseLine(kind, line)
			if err != nil {
				p.errorf("%s data line %d: %v", kind, i+1, err)
				continue
			}
			parsed[kind] = append(parsed[kind], pl)
		}
	}
	return p, parsed
}

func readReport(path string, kind report.Kind) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return report.ReadLines(f, kind)
}

// ── Phase 2: Station key parity ──
// CLU, PLD and VEL list the ABB stations in the same order, CRD lists the
// same names and number suffixes, and STA only refers to ABB stations.

func validateKeyParity(parsed reports) *phase {
	p := &phase{name: "Phase 2: Station key parity"}

	abb := parsed[report.ABB]
	known := make(map[domain.StationKey]bool, len(abb))
	for i, line := range abb {
		if known[line.Key] {
			p.errorf("ABB line %d: duplicate station %q", i+1, line.Key)
		}
		known[line.Key] = true
	}

	for _, kind := range []report.Kind{report.CLU, report.PLD, report.VEL} {
		lines := parsed[kind]
		if len(lines) != len(abb) {
			p.errorf("%s: %d stations, ABB has %d", kind, len(lines), len(abb))
			continue
		}
		for i := range lines {
			if lines[i].Key != abb[i].Key {
				p.errorf("%s line %d: station %q, ABB has %q", kind, i+1, lines[i].Key, abb[i].Key)
			}
		}
	}

	crd := parsed[report.CRD]
	if len(crd) != len(abb) {
		p.errorf("CRD: %d stations, ABB has %d", len(crd), len(abb))
	} else {
		for i := range crd {
			if crd[i].Key.Name != abb[i].Key.Name {
				p.errorf("CRD line %d: name %q, ABB has %q", i+1, crd[i].Key.Name, abb[i].Key.Name)
			}
			if want := report.NumberSuffix(abb[i].Key.Number); crd[i].Suffix != want {
				p.errorf("CRD line %d: number suffix %d, want %d", i+1, crd[i].Suffix, want)
			}
		}
	}

	inSTA := make(map[domain.StationKey]bool, len(abb))
	for i, line := range parsed[report.STA] {
		if !known[line.Key] {
			p.errorf("STA row %d: station %q missing from ABB", i+1, line.Key)
		}
		inSTA[line.Key] = true
	}
	for _, line := range abb {
		if !inSTA[line.Key] {
			p.errorf("ABB station %q has no STA row", line.Key)
		}
	}
	return p
}

// ── Phase 3: Identifiers ──
// ABB 2-character ids and CRD/PLD/VEL indices follow the line order.

func validateSequence(parsed reports) *phase {
	p := &phase{name: "Phase 3: Identifiers and indices"}

	for i, line := range parsed[report.ABB] {
		want, err := report.SequenceID(i)
		if err != nil {
			p.errorf("ABB line %d: %v", i+1, err)
			continue
		}
		if line.Sequence != want {
			p.errorf("ABB line %d: id %q, want %q", i+1, line.Sequence, want)
		}
	}

	for _, kind := range []report.Kind{report.CRD, report.PLD, report.VEL} {
		for i, line := range parsed[kind] {
			if line.Index != i+1 {
				p.errorf("%s line %d: index %d", kind, i+1, line.Index)
			}
		}
	}
	return p
}

// ── Phase 4: Plate, cluster and velocities ──

func validatePlate(parsed reports, plate, cluster string, rotation domain.PlateRotation) *phase {
	p := &phase{name: "Phase 4: Plate, cluster and velocities"}

	for _, kind := range []report.Kind{report.PLD, report.VEL} {
		for i, line := range parsed[kind] {
			if plate == "" {
				plate = line.Plate
			}
			if line.Plate != plate {
				p.errorf("%s line %d: plate %q, want %q", kind, i+1, line.Plate, plate)
			}
		}
	}

	clusters := report.Formatter{ClusterCode: cluster}
	for i, line := range parsed[report.CLU] {
		want := clusters.Cluster(domain.StationRecord{MarkerName: line.Key.Name, MarkerNumber: line.Key.Number})
		if line.Cluster != want {
			p.errorf("CLU line %d: cluster %q, want %q", i+1, line.Cluster, want)
		}
	}

	vel, crd := parsed[report.VEL], parsed[report.CRD]
	if len(vel) != len(crd) {
		// Counted in phase 2.
		return p
	}
	for i := range vel {
		want := rotation.Velocity(crd[i].Position)
		got := vel[i].Velocity
		if math.Abs(got.X-want.X) > velocityTolerance ||
			math.Abs(got.Y-want.Y) > velocityTolerance ||
			math.Abs(got.Z-want.Z) > velocityTolerance {
			p.errorf("VEL line %d: velocity %+v, plate motion at CRD position is %+v", i+1, got, want)
		}
	}
	return p
}
