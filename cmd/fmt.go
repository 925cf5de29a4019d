package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/satsnav"
	"github.com/google/subcommands"
	"github.com/pkg/errors"
)

type fmtCmd struct {
	output string
}

func (*fmtCmd) Name() string     { return "fmt" }
func (*fmtCmd) Synopsis() string { return "rewrite the entries file in canonical JSONL" }
func (*fmtCmd) Usage() string {
	return `fmt [-o <file>]

  Rewrites the ledger entries as JSON lines, one entry per line with its
  fields in a fixed order. Entries selected with -entries-path are extracted
  from their wrapping document, so -o is then required.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file, '-' for stdout, the entries file by default")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, err := DecodeConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	output := c.output
	if output == "" {
		if conf.EntriesPath != "" {
			fmt.Fprintln(os.Stderr, "-o is required with -entries-path")
			return subcommands.ExitUsageError
		}
		output = conf.Entries
	}

	entries, err := DecodeEntries(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding entries: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := encodeEntries(output, entries); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding entries: %v\n", err)
		return subcommands.ExitFailure
	}
	if output != "-" {
		fmt.Fprintf(os.Stderr, "%d entries written to %s\n", len(entries), output)
	}
	return subcommands.ExitSuccess
}

// encodeEntries writes entries to the named file, or stdout for "-".
func encodeEntries(name string, entries []satsnav.LedgerEntry) error {
	var w io.Writer = os.Stdout
	if name != "-" {
		f, err := os.Create(name)
		if err != nil {
			return errors.Wrapf(err, "cannot create %q", name)
		}
		defer f.Close()
		w = f
	}
	return satsnav.EncodeEntries(w, entries)
}
