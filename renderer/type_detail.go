package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/satsnav"
)

// Detail is the audit record of one transaction.
type Detail struct {
	Title   string         `json:"title"`
	Date    string         `json:"date"`
	Entries []DetailEntry  `json:"entries"`
	Changes []DetailChange `json:"changes"`
}

// DetailEntry is one ledger entry.
type DetailEntry struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Wallet string `json:"wallet"`
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
}

// DetailChange is one lot level change.
type DetailChange struct {
	What   string `json:"what"`
	Wallet string `json:"wallet"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// NewDetail formats the balance change c.
func NewDetail(c satsnav.BalanceChange) *Detail {
	v := &Detail{
		Title:   Transaction(c.Transaction),
		Date:    c.Transaction.When().UTC().Format(time.DateTime),
		Entries: []DetailEntry{},
		Changes: []DetailChange{},
	}
	for _, e := range c.Transaction.Entries() {
		v.Entries = append(v.Entries, newDetailEntry(e))
	}
	for _, rc := range c.Changes {
		v.Changes = append(v.Changes, newDetailChange(rc))
	}
	return v
}

func newDetailEntry(e satsnav.LedgerEntry) DetailEntry {
	return DetailEntry{
		ID:     e.GlobalID(),
		Date:   e.Date.UTC().Format(time.DateTime),
		Wallet: e.Wallet,
		Kind:   e.Kind.Label(),
		Amount: satsnav.FormatAmount(e.Amount, e.Asset),
	}
}

func newDetailChange(rc satsnav.RefChange) DetailChange {
	d := DetailChange{What: rc.What()}
	switch c := rc.(type) {
	case satsnav.Create:
		d.Wallet, d.To = c.Wallet, refs(c.Ref)
	case satsnav.Remove:
		d.Wallet, d.From = c.Wallet, refs(c.Ref)
	case satsnav.Move:
		d.Wallet = c.FromWallet + " → " + c.ToWallet
		d.From, d.To = refs(c.Ref), refs(c.Ref)
	case satsnav.Split:
		d.Wallet, d.From, d.To = c.Wallet, refs(c.OriginalRef), refs(c.ResultingRefs...)
	case satsnav.Join:
		d.Wallet, d.From, d.To = c.Wallet, refs(c.OriginalRefs...), refs(c.ResultingRef)
	case satsnav.Convert:
		d.Wallet, d.From, d.To = c.Wallet, refs(c.FromRefs...), refs(c.ToRef)
	}
	return d
}

// refs formats lots like "W-1 (0.10000000 BTC), W-2 (€12.00)".
func refs(lots ...satsnav.Ref) string {
	s := make([]string, len(lots))
	for i, r := range lots {
		s[i] = fmt.Sprintf("%s (%s)", r.ID, satsnav.FormatAmount(r.Amount, r.Asset))
	}
	return strings.Join(s, ", ")
}
