package graph

import (
	"fmt"

	"github.com/etnz/satsnav"
	"github.com/pkg/errors"
)

// Build derives the provenance graph of the audit trail. Lots leaving the
// tracked world end in a sink shape node, except fees which are not shown.
// Lots bought with the base asset get a base asset source node.
func Build(changes []satsnav.BalanceChange, base satsnav.Asset) (*Graph, error) {
	g := New()
	for i, c := range changes {
		if err := g.apply(c, base); err != nil {
			return nil, errors.Wrapf(err, "balance change %d", i)
		}
	}
	return g, nil
}

func (g *Graph) addRef(wallet string, ref satsnav.Ref, kind string) string {
	id := NodeID(wallet, ref)
	g.MergeNode(id, RefNode{Ref: ref, Wallet: wallet, Kind: kind})
	return id
}

func (g *Graph) apply(c satsnav.BalanceChange, base satsnav.Asset) error {
	kind := c.Transaction.Label()
	tooltip := Tooltip(c.Transaction)

	for _, change := range c.Changes {
		switch x := change.(type) {
		case satsnav.Create:
			t, bought := c.Transaction.(satsnav.Trade)
			bought = bought && t.Spend.Asset == base
			var from string
			if bought {
				from = g.addRef(t.Spend.Wallet, baseSource(t.Spend), kind)
			}
			to := g.addRef(x.Wallet, x.Ref, "")
			if bought {
				if err := g.MergeEdge(Edge{From: from, To: to, Label: LabelConvert, Tooltip: tooltip}); err != nil {
					return err
				}
			}
		case satsnav.Remove:
			from := g.addRef(x.Wallet, x.Ref, kind)
			if kind == satsnav.KindFee.Label() {
				continue
			}
			shape := Point
			if kind == satsnav.KindWithdrawal.Label() {
				shape = Diamond
			}
			sink := g.addShape(shape)
			if err := g.MergeEdge(Edge{From: from, To: sink, Label: kind, Tooltip: tooltip}); err != nil {
				return err
			}
		case satsnav.Move:
			if x.FromWallet == x.ToWallet {
				continue
			}
			from := g.addRef(x.FromWallet, x.Ref, "")
			to := g.addRef(x.ToWallet, x.Ref, "")
			if err := g.MergeEdge(Edge{From: from, To: to, Label: LabelTransfer, Tooltip: tooltip}); err != nil {
				return err
			}
		case satsnav.Split:
			from := g.addRef(x.Wallet, x.OriginalRef, "")
			for i, r := range x.ResultingRefs {
				k := ""
				if i == len(x.ResultingRefs)-1 {
					k = kind
				}
				to := g.addRef(x.Wallet, r, k)
				e := Edge{
					From:    from,
					To:      to,
					Label:   LabelSplit,
					Tooltip: fmt.Sprintf("Split from %s %s to %s %s", x.OriginalRef.Amount, x.OriginalRef.Asset, r.Amount, r.Asset),
				}
				if err := g.MergeEdge(e); err != nil {
					return err
				}
			}
		case satsnav.Join:
			to := g.addRef(x.Wallet, x.ResultingRef, "")
			for _, r := range x.OriginalRefs {
				from := g.addRef(x.Wallet, r, kind)
				if err := g.MergeEdge(Edge{From: from, To: to, Label: LabelJoin, Tooltip: tooltip}); err != nil {
					return err
				}
			}
		case satsnav.Convert:
			var froms []string
			for _, r := range x.FromRefs {
				froms = append(froms, g.addRef(x.Wallet, r, kind))
			}
			to := g.addRef(x.Wallet, x.ToRef, "")
			for _, from := range froms {
				if err := g.MergeEdge(Edge{From: from, To: to, Label: LabelConvert, Tooltip: tooltip}); err != nil {
					return err
				}
			}
		default:
			return &satsnav.UnknownEnumError{Type: "ref change", Value: fmt.Sprintf("%T", change)}
		}
	}
	return nil
}

// baseSource is the untracked lot of base asset spent by a trade.
func baseSource(spend satsnav.LedgerEntry) satsnav.Ref {
	return satsnav.Ref{
		ID:      spend.GlobalID(),
		Asset:   spend.Asset,
		Lineage: []string{spend.GlobalID()},
		Amount:  spend.Amount.Neg(),
		Date:    spend.Date,
	}
}

// Tooltip describes a transaction in one line.
func Tooltip(tx satsnav.Transaction) string {
	switch t := tx.(type) {
	case satsnav.Single:
		return "Single: " + t.Entry.Kind.Label()
	case satsnav.Trade:
		return fmt.Sprintf("Trade: %s %s -> %s %s", t.Spend.Amount, t.Spend.Asset, t.Receive.Amount, t.Receive.Asset)
	case satsnav.Transfer:
		return fmt.Sprintf("Transfer: %s %s from %s to %s", t.From.Amount, t.From.Asset, t.From.Wallet, t.To.Wallet)
	default:
		return tx.Label()
	}
}
