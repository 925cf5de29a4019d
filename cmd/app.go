// Package cmd implements the snv command line, reconciling exchange and
// wallet ledgers into lots.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/etnz/satsnav"
	"github.com/google/subcommands"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&groupCmd{}, "reconciliation")
	c.Register(&balancesCmd{}, "reconciliation")
	c.Register(&changesCmd{}, "reconciliation")
	c.Register(&verifyCmd{}, "reconciliation")
	c.Register(&fmtCmd{}, "reconciliation")

	c.Register(&recapCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&detailCmd{}, "reports")
	c.Register(&graphCmd{}, "reports")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file")
var entriesFile = flag.String("entries", "", "Path to the ledger entries (JSONL or JSON array), overrides the configuration")
var entriesPath = flag.String("entries-path", "", "JSONPath of the entries array inside the entries document, like $.data.entries")
var overridesFile = flag.String("overrides", "", "Path to the rate overrides JSON file")
var baseAsset = flag.String("base", "", "Settlement asset, like EUR or USD")
var policy = flag.String("policy", "", "Lots consumed first: lifo or fifo")
var verbose = flag.Bool("v", false, "Log the run details to stderr")

// newLogger returns a development logger in verbose mode, a production logger
// limited to warnings otherwise.
func newLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// DecodeConfig reads the configuration file, if any, then applies the global flags.
func DecodeConfig() (satsnav.Config, error) {
	c := satsnav.DefaultConfig()
	if *configFile != "" {
		f, err := os.Open(*configFile)
		if err != nil {
			return c, errors.Wrap(err, "cannot open config")
		}
		defer f.Close()
		if c, err = satsnav.DecodeConfig(f); err != nil {
			return c, errors.Wrapf(err, "cannot read %q", *configFile)
		}
	}

	var err error
	if *entriesFile != "" {
		c.Entries = *entriesFile
	}
	if *entriesPath != "" {
		c.EntriesPath = *entriesPath
	}
	if *overridesFile != "" {
		c.Overrides = *overridesFile
	}
	if *baseAsset != "" {
		if c.Base, err = satsnav.ParseAsset(*baseAsset); err != nil {
			return c, errors.Wrap(err, "invalid -base")
		}
	}
	if *policy != "" {
		if c.Policy, err = satsnav.ParseConsumptionPolicy(*policy); err != nil {
			return c, errors.Wrap(err, "invalid -policy")
		}
	}
	return c, nil
}

// DecodeEntries reads the ledger entries named by the configuration.
func DecodeEntries(c satsnav.Config) ([]satsnav.LedgerEntry, error) {
	f, err := os.Open(c.Entries)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open entries")
	}
	defer f.Close()
	if c.EntriesPath != "" {
		return satsnav.DecodeEntriesAt(f, c.EntriesPath)
	}
	return satsnav.DecodeEntries(f)
}

// DecodeOverrides reads the rate overrides named by the configuration, if any.
func DecodeOverrides(c satsnav.Config) (satsnav.RateOverrideMap, error) {
	if c.Overrides == "" {
		return nil, nil
	}
	f, err := os.Open(c.Overrides)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open overrides")
	}
	defer f.Close()
	return satsnav.DecodeRateOverrides(f)
}

// run is the input of a reconciliation.
type run struct {
	config  satsnav.Config
	entries []satsnav.LedgerEntry
	options satsnav.Options
}

// decodeRun loads the configuration, the entries and the overrides.
func decodeRun() (*run, error) {
	c, err := DecodeConfig()
	if err != nil {
		return nil, err
	}
	entries, err := DecodeEntries(c)
	if err != nil {
		return nil, err
	}
	overrides, err := DecodeOverrides(c)
	if err != nil {
		return nil, err
	}
	return &run{config: c, entries: entries, options: c.Options(overrides, newLogger())}, nil
}

// reconcile loads the run input and reconciles it. Diagnostics are
// summarized on stderr.
func reconcile() (*satsnav.Result, *run, error) {
	in, err := decodeRun()
	if err != nil {
		return nil, nil, err
	}
	defer in.options.Logger.Sync()

	r, err := satsnav.Reconcile(in.entries, in.options)
	if err != nil {
		return nil, in, err
	}
	printBanner(r.Diagnostics, r.Mismatches)
	return r, in, nil
}

var (
	warnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA500"))
	errStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
)

// printBanner prints a one line summary of the diagnostics on stderr, if there is anything to report.
func printBanner(d *satsnav.Diagnostics, mismatches []satsnav.Mismatch) {
	if len(mismatches) > 0 {
		fmt.Fprintln(os.Stderr, errStyle.Render(fmt.Sprintf("%d balance mismatches, run 'verify' for details", len(mismatches))))
	}
	if !d.Clean() {
		msg := fmt.Sprintf("%d unmatched transfers, %d leftover trade legs, %d leftover transfer legs, %d dust warnings",
			len(d.Unmatched), d.LeftoverTrades, d.LeftoverTransfers, len(d.DustWarnings))
		fmt.Fprintln(os.Stderr, warnStyle.Render(msg))
	}
}
