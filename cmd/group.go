package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/satsnav"
	"github.com/google/subcommands"
)

type groupCmd struct{}

func (*groupCmd) Name() string     { return "group" }
func (*groupCmd) Synopsis() string { return "group ledger entries into transactions" }
func (*groupCmd) Usage() string {
	return `group

  Pairs the ledger entries into trades and transfers, and prints the
  resulting transactions as a JSON array, oldest first.
`
}

func (c *groupCmd) SetFlags(f *flag.FlagSet) {}

func (c *groupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := decodeRun()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading entries: %v\n", err)
		return subcommands.ExitFailure
	}
	defer in.options.Logger.Sync()

	txs, diag := satsnav.GroupEntries(in.entries, in.options)
	if err := satsnav.EncodeJSON(os.Stdout, txs); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	printBanner(diag, nil)
	return subcommands.ExitSuccess
}
