// Command ntripmon is the CLI entrypoint of spec.md §6, built the way
// cmd/ntrip-client/main.go is: one flag per option, flag.Parse(),
// flag.Usage() on misuse, os.Exit(1) on fatal config errors.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ntripmon/ntripmon/internal/config"
	"github.com/ntripmon/ntripmon/internal/events"
	"github.com/ntripmon/ntripmon/internal/ntrip"
	"github.com/ntripmon/ntripmon/internal/roverpos"
	"github.com/ntripmon/ntripmon/internal/sink"
	"github.com/ntripmon/ntripmon/internal/sourcetable"
	"github.com/ntripmon/ntripmon/internal/stats"
)

const programInfo = "ntripmon - NTRIP/RTCM3.x client and stream analyzer"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ntripmon", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	configPath := fs.String("c", "config.json", "config file path")
	fs.StringVar(configPath, "config", "config.json", "config file path")
	mounts := fs.Bool("m", false, "request the sourcetable and render it formatted")
	fs.BoolVar(mounts, "mounts", false, "request the sourcetable and render it formatted")
	raw := fs.Bool("r", false, "with -m, render the sourcetable raw")
	decode := fs.String("d", "", "enter streaming mode; optional comma-separated message-type filter")
	analyze := fs.String("t", "", "bounded analysis mode (seconds); prints a per-type table at exit")
	satVis := fs.String("s", "", "bounded satellite-visibility mode (seconds); prints a per-GNSS table at exit")
	verbose := fs.Bool("v", false, "verbose output")
	genConfig := fs.Bool("g", false, "emit a template config to the config path and exit")
	info := fs.Bool("i", false, "print program info and exit")
	help := fs.Bool("h", false, "print help and exit")
	source := fs.String("a", "static", "rover position source: static or serial:PORT[:BAUD]")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), programInfo)
		fmt.Fprintln(fs.Output(), "\nUsage: ntripmon [flags]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *help || len(args) == 0 {
		fs.Usage()
		return 0
	}

	if *info {
		fmt.Println(programInfo)
		return 0
	}

	if *genConfig {
		if err := config.Save(config.Default(), *configPath); err != nil {
			fmt.Printf("writing template config: %v\n", err)
			return 1
		}
		fmt.Printf("template config written to %s\n", *configPath)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("loading config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid config: %v\n", err)
		return 1
	}

	rover, err := roverpos.Open(*source, cfg.Latitude, cfg.Longitude)
	if err != nil {
		fmt.Printf("opening rover position source: %v\n", err)
		return 1
	}
	defer rover.Close()

	sessCfg := ntrip.Config{
		Caster:     cfg.NtripCaster,
		Port:       cfg.NtripPort,
		Mountpoint: cfg.Mountpoint,
		Username:   cfg.Username,
		Password:   cfg.Password,
	}

	switch {
	case *mounts:
		return runMounts(sessCfg, cfg, *raw)
	case flagPassed(fs, "d"):
		return runDecode(sessCfg, rover, *decode, *verbose)
	case flagPassed(fs, "t"):
		return runAnalyze(sessCfg, rover, *analyze)
	case flagPassed(fs, "s"):
		return runSatVis(sessCfg, rover, *satVis)
	default:
		fs.Usage()
		return 0
	}
}

// flagPassed reports whether name was explicitly set on the command
// line, so that an empty value (-t "") still selects the mode with its
// default. -d, -t and -s always take a value: a bare -t with nothing
// after it is a parse error.
func flagPassed(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func runMounts(sessCfg ntrip.Config, cfg config.Config, raw bool) int {
	body, err := ntrip.FetchSourcetable(sessCfg)
	if err != nil {
		fmt.Printf("fetching sourcetable: %v\n", err)
		return 1
	}
	if raw {
		fmt.Print(body)
		return 0
	}
	entries := sourcetable.Parse(body, cfg.Latitude, cfg.Longitude)
	fmt.Printf("%-20s %-12s %-10s %-8s %-8s %-6s\n", "Mountpoint", "Format", "Carrier", "Nav", "Country", "Dist(km)")
	for _, e := range entries {
		fmt.Printf("%-20s %-12s %-10s %-8s %-8s %-6s\n", e.Mountpoint, e.Format, e.Carrier, e.NavSystem, e.Country, e.DistanceKM)
	}
	return 0
}

func runDecode(sessCfg ntrip.Config, rover roverpos.Source, filterSpec string, verbose bool) int {
	sessCfg.MessageFilter = parseFilter(filterSpec)
	bus := events.New(64)
	agg := stats.New()
	sess := ntrip.NewSession(sessCfg, bus, agg, rover, sink.Stdout{})

	go func() { _ = sess.Run() }()

	for ev := range bus.Events() {
		switch ev.Kind {
		case events.KindStreamInfo:
			if verbose {
				fmt.Printf("[stream format: %d]\n", ev.Format)
			}
		case events.KindStreamDone:
			if ev.Err != nil {
				fmt.Printf("session ended: %v\n", ev.Err)
				return 1
			}
			return 0
		}
	}
	return 0
}

func parseFilter(spec string) map[int]bool {
	if spec == "" {
		return nil
	}
	out := make(map[int]bool)
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		out[n] = true
	}
	return out
}

func runAnalyze(sessCfg ntrip.Config, rover roverpos.Source, durSpec string) int {
	d := 60 * time.Second
	if durSpec != "" {
		if secs, err := strconv.Atoi(durSpec); err == nil {
			d = time.Duration(secs) * time.Second
		}
	}

	bus := events.New(64)
	agg := stats.New()
	sess := ntrip.NewSession(sessCfg, bus, agg, rover, sink.Discard)

	go func() { _ = sess.Run() }()

	timer := time.AfterFunc(d, bus.Cancel)
	defer timer.Stop()

	exitCode := 0
	for ev := range bus.Events() {
		if ev.Kind == events.KindStreamDone && ev.Err != nil {
			exitCode = analysisExitCode(ev.Err)
		}
	}

	printTypeTable(agg)
	return exitCode
}

func analysisExitCode(err error) int {
	var serr *ntrip.SessionError
	if ok := asSessionError(err, &serr); ok && serr.Class == ntrip.Cancelled {
		return 0
	}
	return 1
}

func asSessionError(err error, target **ntrip.SessionError) bool {
	serr, ok := err.(*ntrip.SessionError)
	if !ok {
		return false
	}
	*target = serr
	return true
}

func printTypeTable(agg *stats.Aggregator) {
	types := agg.Types()
	sort.Ints(types)
	fmt.Printf("%-6s %-8s %-10s %-10s %-10s\n", "Type", "Count", "MinDt", "AvgDt", "MaxDt")
	for _, t := range types {
		row, _ := agg.Stat(t)
		fmt.Printf("%-6d %-8d %-10d %-10d %-10d\n", t, row.Count, row.MinDt, row.AvgDt(), row.MaxDt)
	}
}

func runSatVis(sessCfg ntrip.Config, rover roverpos.Source, durSpec string) int {
	d := 60 * time.Second
	if durSpec != "" {
		if secs, err := strconv.Atoi(durSpec); err == nil {
			d = time.Duration(secs) * time.Second
		}
	}

	bus := events.New(64)
	agg := stats.New()
	sess := ntrip.NewSession(sessCfg, bus, agg, rover, sink.Discard)

	go func() { _ = sess.Run() }()

	timer := time.AfterFunc(d, bus.Cancel)
	defer timer.Stop()

	exitCode := 0
	for ev := range bus.Events() {
		if ev.Kind == events.KindStreamDone && ev.Err != nil {
			exitCode = analysisExitCode(ev.Err)
		}
	}

	printSatTable(agg)
	return exitCode
}

var gnssNames = map[int]string{
	1: "GPS", 2: "GLONASS", 3: "Galileo", 4: "QZSS", 5: "BeiDou", 6: "SBAS",
}

func printSatTable(agg *stats.Aggregator) {
	ids := agg.GNSSIDs()
	sort.Ints(ids)
	fmt.Printf("%-10s %-6s\n", "GNSS", "Count")
	for _, g := range ids {
		_, count, _ := agg.Satellites(g)
		name := gnssNames[g]
		if name == "" {
			name = fmt.Sprintf("GNSS%d", g)
		}
		fmt.Printf("%-10s %-6d\n", name, count)
	}
}
