package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/satsnav"
	"github.com/etnz/satsnav/graph"
	"github.com/google/subcommands"
	"github.com/pkg/errors"
)

type graphCmd struct {
	output   string
	changes  string
	simplify bool
}

func (*graphCmd) Name() string     { return "graph" }
func (*graphCmd) Synopsis() string { return "write the lot provenance graph in DOT format" }
func (*graphCmd) Usage() string {
	return `graph [-simplify] [-changes <file>] [-o <file>]

  Builds the provenance graph of the lots and writes it in Graphviz DOT
  format. The balance changes are reconciled from the ledger, or read from a
  file written by 'changes'.
`
}

func (c *graphCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file, stdout by default")
	f.StringVar(&c.changes, "changes", "", "read the balance changes from this JSON file instead of the ledger")
	f.BoolVar(&c.simplify, "simplify", false, "collapse the round trips through the base asset")
}

func (c *graphCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	changes, base, err := c.decodeChanges()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading balance changes: %v\n", err)
		return subcommands.ExitFailure
	}

	g, err := graph.Build(changes, base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building graph: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.simplify {
		n, err := g.Simplify(base)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error simplifying graph: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "%d round trips collapsed\n", n)
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := graph.WriteDOT(w, g, base); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing graph: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *graphCmd) decodeChanges() ([]satsnav.BalanceChange, satsnav.Asset, error) {
	if c.changes == "" {
		r, in, err := reconcile()
		if err != nil {
			return nil, satsnav.Asset{}, err
		}
		return r.Changes, in.config.Base, nil
	}

	conf, err := DecodeConfig()
	if err != nil {
		return nil, satsnav.Asset{}, err
	}
	f, err := os.Open(c.changes)
	if err != nil {
		return nil, conf.Base, errors.Wrap(err, "cannot open changes")
	}
	defer f.Close()
	changes, err := satsnav.DecodeChanges(f)
	return changes, conf.Base, err
}
