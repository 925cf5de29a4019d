package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/satsnav"
	"github.com/google/subcommands"
)

type changesCmd struct{}

func (*changesCmd) Name() string     { return "changes" }
func (*changesCmd) Synopsis() string { return "print the lot changes of every transaction" }
func (*changesCmd) Usage() string {
	return `changes

  Reconciles the ledger and prints the balance changes as a JSON array, one
  per transaction in processing order. The output can be given to
  'graph -changes'.
`
}

func (c *changesCmd) SetFlags(f *flag.FlagSet) {}

func (c *changesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, _, err := reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := satsnav.EncodeJSON(os.Stdout, r.Changes); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing changes: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
