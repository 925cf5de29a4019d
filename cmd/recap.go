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

type recapCmd struct {
	json bool
}

func (*recapCmd) Name() string     { return "recap" }
func (*recapCmd) Synopsis() string { return "summarize the holdings of every wallet" }
func (*recapCmd) Usage() string {
	return `recap [-json]

  Lists the wallets with their number of lots and their sum by asset, the
  largest holders of the tracked asset first.
`
}

func (c *recapCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the recap as JSON")
}

func (c *recapCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, in, err := reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling: %v\n", err)
		return subcommands.ExitFailure
	}

	tracked := in.config.Tracked
	recaps := satsnav.Recap(r.Balance, tracked)
	if c.json {
		if err := satsnav.EncodeJSON(os.Stdout, recaps); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing recap: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderRecap(renderer.NewRecap(recaps, tracked)))
	return subcommands.ExitSuccess
}
