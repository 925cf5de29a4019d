package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/satsnav"
	"github.com/etnz/satsnav/date"
	"github.com/etnz/satsnav/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	asset  string
	period string
	raw    bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the holdings history of an asset" }
func (*historyCmd) Usage() string {
	return `history [-asset <asset>] [-period <period>] [-raw]

  Displays, for every day a lot still held was received, the total, bonus
  and acquisition cost of an asset across all wallets at the start of that
  day, before the lots of the day.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "asset to report on, the tracked asset by default")
	f.StringVar(&c.period, "period", "day", "keep one row per period: day, week, month, quarter or year")
	f.BoolVar(&c.raw, "raw", false, "print the history as JSON lines")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -period: %v\n", err)
		return subcommands.ExitUsageError
	}

	r, in, err := reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling: %v\n", err)
		return subcommands.ExitFailure
	}

	asset := in.config.Tracked
	if c.asset != "" {
		if asset, err = satsnav.ParseAsset(c.asset); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -asset: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	h := satsnav.ProjectHistory(r.Balance, asset, satsnav.IndexEntries(in.entries))
	h = h.Sample(period)

	if c.raw {
		enc := json.NewEncoder(os.Stdout)
		for _, item := range h.Values() {
			if err := enc.Encode(item); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing history: %v\n", err)
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderHistory(renderer.NewHistory(h, asset, in.config.Base, period)))
	return subcommands.ExitSuccess
}
