package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/satsnav/renderer"
	"github.com/google/subcommands"
)

type verifyCmd struct{}

func (*verifyCmd) Name() string     { return "verify" }
func (*verifyCmd) Synopsis() string { return "report what the reconciliation could not settle" }
func (*verifyCmd) Usage() string {
	return `verify

  Reconciles the ledger and reports the unmatched transfers, leftover trade
  legs, dust warnings, unknown ignored ids, and the wallets whose lots do not
  add up to their transactions. Fails when a wallet does not add up.
`
}

func (c *verifyCmd) SetFlags(f *flag.FlagSet) {}

func (c *verifyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, _, err := reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderDiagnostics(renderer.NewDiagnostics(r.Diagnostics, r.Mismatches)))
	if len(r.Mismatches) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
