package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/satsnav/renderer"
	"github.com/google/subcommands"
)

type detailCmd struct {
	id  string
	ref string
}

func (*detailCmd) Name() string     { return "detail" }
func (*detailCmd) Synopsis() string { return "show the lot changes of one transaction, or the origin of a lot" }
func (*detailCmd) Usage() string {
	return `detail -id <wallet-id>
detail -ref <lot-id>

  With -id, shows the entries and the lot changes of the transaction
  involving the entry with the given global id.

  With -ref, follows the lot back through the lots it was split, moved or
  converted from, up to the entry that created it or to a lot made of
  several parents.
`
}

func (c *detailCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "global id of an entry of the transaction, like Kraken-L2")
	f.StringVar(&c.ref, "ref", "", "id of a lot, like Kraken-L2~3")
}

func (c *detailCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.id == "") == (c.ref == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -id or -ref is required")
		return subcommands.ExitUsageError
	}
	r, _, err := reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.ref != "" {
		t, ok := r.Trace(c.ref)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no lot %q\n", c.ref)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.RenderTrace(renderer.NewTrace(c.ref, t)))
		return subcommands.ExitSuccess
	}
	change, ok := r.Change(c.id)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no transaction involves entry %q\n", c.id)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderDetail(renderer.NewDetail(change)))
	return subcommands.ExitSuccess
}
