// Command rnxgen writes a tree of synthetic RINEX observation headers for
// trying out rnxmeta and rnxcheck without real receiver data. Output is
// reproducible for a given seed.
//
// Usage:
//
//	go run ./cmd/rnxgen -out data/rinex -stations 12 -days 7 -year 2002
//
// Files are laid out as <out>/<year>/<doy>/<NAME><doy>0.<yy>O. Every other
// station swaps its receiver half way through the span, so the STA report
// carries more than one equipment period for it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/rinex-station-meta/internal/config"
	"github.com/couchcryptid/rinex-station-meta/internal/domain"
	"github.com/couchcryptid/rinex-station-meta/internal/observability"
)

// clock stamps the PGM / RUN BY / DATE line; tests use a fake one.
var clock clockwork.Clock = clockwork.NewRealClock()

const earthRadius = 6378137.0

var receivers = []string{"TRIMBLE 4000SSI", "LEICA GRX1200PRO", "JAVAD TRE_G3TH DELTA", "SEPT POLARX5"}

var antennas = []string{"TRM22020.00+GP", "LEIAT504GG", "JAVRINGANT_DM", "SEPCHOKE_B3E6"}

type station struct {
	name     string
	number   string
	position domain.Coord
	receiver [2]string // before and after the swap day
	antenna  string
}

type options struct {
	out      string
	stations int
	days     int
	year     int
	seed     uint64
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("rnxgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.out, "out", "", "output directory")
	fs.IntVar(&opts.stations, "stations", 5, "number of stations (1-99)")
	fs.IntVar(&opts.days, "days", 7, "number of observation days per station")
	fs.IntVar(&opts.year, "year", 2002, "observation year")
	fs.Uint64Var(&opts.seed, "seed", 1, "random seed")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := opts.validate(); err != nil {
		fs.Usage()
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}
	logger := observability.NewLogger(cfg, stderr)

	stations := makeStations(opts)
	files := 0
	for _, st := range stations {
		n, err := writeStation(opts, st)
		if err != nil {
			logger.Error("failed to write station", "station", st.name, "error", err)
			return 1
		}
		files += n
		logger.Debug("station written", "station", st.name, "files", n)
	}

	logger.Info("synthetic headers written", "dir", opts.out, "stations", len(stations), "files", files)
	return 0
}

func (o options) validate() error {
	switch {
	case o.out == "":
		return errors.New("missing required flag: -out")
	case o.stations < 1 || o.stations > 99:
		return fmt.Errorf("-stations must be within 1..99, got %d", o.stations)
	case o.year < 1980 || o.year > 2079:
		return fmt.Errorf("-year must be within 1980..2079, got %d", o.year)
	case o.days < 1 || o.days > domain.DaysInYear(o.year):
		return fmt.Errorf("-days must be within 1..%d, got %d", domain.DaysInYear(o.year), o.days)
	}
	return nil
}

func makeStations(opts options) []station {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	stations := make([]station, opts.stations)
	for i := range stations {
		lat := math.Asin(2*rng.Float64() - 1)
		lon := 2 * math.Pi * (rng.Float64() - 0.5)
		r := earthRadius + 1000*rng.Float64()

		first := rng.IntN(len(receivers))
		second := first
		if i%2 == 1 {
			second = (first + 1) % len(receivers)
		}

		stations[i] = station{
			name:   fmt.Sprintf("S%03d", i+1),
			number: fmt.Sprintf("%05dM%03d", 10000+rng.IntN(90000), 1+rng.IntN(9)),
			position: domain.Coord{
				X: r * math.Cos(lat) * math.Cos(lon),
				Y: r * math.Cos(lat) * math.Sin(lon),
				Z: r * math.Sin(lat),
			},
			receiver: [2]string{receivers[first], receivers[second]},
			antenna:  antennas[rng.IntN(len(antennas))],
		}
	}
	return stations
}

// writeStation writes one header file per observation day and returns how
// many it wrote.
func writeStation(opts options, st station) (int, error) {
	swapDay := opts.days / 2
	for day := range opts.days {
		doy := day + 1
		date, ok := domain.DayOfYearDate(opts.year, doy)
		if !ok {
			return day, fmt.Errorf("day %d of %d", doy, opts.year)
		}

		receiver := st.receiver[0]
		if day >= swapDay {
			receiver = st.receiver[1]
		}

		dir := filepath.Join(opts.out, fmt.Sprint(opts.year), fmt.Sprintf("%03d", doy))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return day, fmt.Errorf("create %s: %w", dir, err)
		}
		name := fmt.Sprintf("%s%03d0.%02dO", st.name, doy, opts.year%100)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(header(st, receiver, date)), 0o644); err != nil {
			return day, fmt.Errorf("write %s: %w", name, err)
		}
	}
	return opts.days, nil
}

func header(st station, receiver string, date time.Time) string {
	last := date.Add(24*time.Hour - 30*time.Second)

	var b strings.Builder
	line := func(value, label string) {
		fmt.Fprintf(&b, "%-60s%s\n", value, label)
	}
	line("     2.11           OBSERVATION DATA    G (GPS)", "RINEX VERSION / TYPE")
	line(fmt.Sprintf("%-20s%-20s%-20s", "rnxgen", "", clock.Now().UTC().Format("20060102 150405 UTC")), "PGM / RUN BY / DATE")
	line(st.name, domain.LabelMarkerName)
	line(st.number, domain.LabelMarkerNumber)
	line(fmt.Sprintf("%-20s%-20s%-20s", serial(st.name, 'R'), receiver, "1.00"), domain.LabelReceiver)
	line(fmt.Sprintf("%-20s%-20s", serial(st.name, 'A'), st.antenna), domain.LabelAntenna)
	line(fmt.Sprintf("  %13.4f %13.4f %13.4f", st.position.X, st.position.Y, st.position.Z), domain.LabelPosition)
	line(fmt.Sprintf("%14.4f%14.4f%14.4f", 0.1, 0.0, 0.0), domain.LabelAntennaDelta)
	line(epoch(date), domain.LabelFirstObs)
	line(epoch(last), domain.LabelLastObs)
	line("", "END OF HEADER")
	return b.String()
}

// epoch renders t as RINEX 5I6,F13.7 followed by the time system.
func epoch(t time.Time) string {
	return fmt.Sprintf("%6d%6d%6d%6d%6d%13.7f     GPS",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), float64(t.Second()))
}

// serial derives a stable 6-character equipment serial from the station.
func serial(name string, kind byte) string {
	return string(kind) + strings.ToUpper(name[1:]) + "0"
}
