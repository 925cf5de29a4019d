package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/satsnav"
	"github.com/etnz/satsnav/renderer"
	"github.com/google/subcommands"
)

type balancesCmd struct {
	json  bool
	asset string
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "list the lots held by every wallet" }
func (*balancesCmd) Usage() string {
	return `balances [-asset <asset>] [-json]

  Reconciles the ledger and lists the lots held by every wallet.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the balance as JSON")
	f.StringVar(&c.asset, "asset", "", "only list the lots of this asset")
}

func (c *balancesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, _, err := reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling: %v\n", err)
		return subcommands.ExitFailure
	}

	b := r.Balance
	if c.asset != "" {
		asset, err := satsnav.ParseAsset(c.asset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -asset: %v\n", err)
			return subcommands.ExitUsageError
		}
		b = b.Restrict(asset)
	}

	if c.json {
		if err := satsnav.EncodeJSON(os.Stdout, b); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing balance: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderBalances(renderer.NewBalances(b)))
	return subcommands.ExitSuccess
}
