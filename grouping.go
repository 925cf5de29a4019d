package satsnav

import (
	"cmp"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Diagnostics aggregates the recoverable findings of a run.
type Diagnostics struct {
	LeftoverTrades    int           // trade legs left without a counterpart
	LeftoverTransfers int           // transfer legs left without a counterpart
	ReplacedTransfers int           // buffered transfer legs replaced by a same amount one
	Ignored           int           // entries skipped on user request
	MissingIgnored    []string      // ignored ids not found in the ledger
	ZeroDropped       int           // zero amount trade rows
	Unmatched         []LedgerEntry // crypto deposits and withdrawals left as singles
	DustWarnings      []DustWarning
}

// Clean reports whether the run had nothing to report.
func (d *Diagnostics) Clean() bool {
	return d.LeftoverTrades == 0 && d.LeftoverTransfers == 0 && d.ReplacedTransfers == 0 &&
		len(d.MissingIgnored) == 0 && len(d.Unmatched) == 0 && len(d.DustWarnings) == 0
}

// pending is a buffered entry waiting for its counterpart.
type pending struct {
	entry LedgerEntry
	seq   int
}

// grouper pairs single-sided ledger entries into transactions.
type grouper struct {
	opts      Options
	transfers map[string]pending // by formatted absolute amount
	trades    map[string]pending // by wallet and group id
	seq       int
	txs       []Transaction
	diag      *Diagnostics
}

// GroupEntries pairs entries into trades and transfers. Everything that
// cannot be paired becomes a Single. The result is sorted by date.
//
// Entries are processed in date order, ties keeping the input order.
func GroupEntries(entries []LedgerEntry, opts Options) ([]Transaction, *Diagnostics) {
	opts = opts.withDefaults()
	g := &grouper{
		opts:      opts,
		transfers: make(map[string]pending),
		trades:    make(map[string]pending),
		diag:      &Diagnostics{},
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b LedgerEntry) int { return a.Date.Compare(b.Date) })

	seen := make(map[string]bool)
	for _, e := range sorted {
		if o, ok := opts.Overrides.RateOverride(e.GlobalID()); ok && o.Ignored {
			seen[e.GlobalID()] = true
			g.diag.Ignored++
			opts.Logger.Debug("ignoring entry", zap.String("entry", e.GlobalID()), zap.String("comment", o.Comment))
			continue
		}
		g.add(e)
	}
	for _, id := range opts.Overrides.IgnoredIDs() {
		if !seen[id] {
			g.diag.MissingIgnored = append(g.diag.MissingIgnored, id)
		}
	}
	g.flush()

	sortTransactions(g.txs)
	g.log()
	return g.txs, g.diag
}

func (g *grouper) add(e LedgerEntry) {
	switch {
	case (e.Kind == KindDeposit || e.Kind == KindWithdrawal) && e.Asset.IsCrypto():
		g.addTransferLeg(e)
	case e.Kind == KindTrade && e.Amount.IsZero():
		g.diag.ZeroDropped++
	case e.Kind == KindTrade:
		g.addTradeLeg(e)
	default:
		g.txs = append(g.txs, NewSingle(e))
	}
}

func (g *grouper) addTransferLeg(e LedgerEntry) {
	key := e.transferKey()
	if p, ok := g.transfers[key]; ok {
		if g.matches(p.entry, e) {
			delete(g.transfers, key)
			if e.Amount.IsPositive() {
				g.txs = append(g.txs, NewTransfer(p.entry, e))
			} else {
				g.txs = append(g.txs, NewTransfer(e, p.entry))
			}
			return
		}
		// Same amount but not its pair: give up on the buffered one.
		g.diag.ReplacedTransfers++
		g.unmatched(p.entry)
	}
	g.transfers[key] = g.buffer(e)
}

// matches reports whether e completes the buffered transfer leg b.
// b is never after e.
func (g *grouper) matches(b, e LedgerEntry) bool {
	if b.Kind == e.Kind {
		return false
	}
	if e.Amount.IsPositive() {
		return true
	}
	if e.Wallet != b.Wallet {
		return e.Date.Sub(b.Date) < g.opts.TransferWindow
	}
	return e.Date.Equal(b.Date)
}

func (g *grouper) addTradeLeg(e LedgerEntry) {
	key := e.Wallet + "-" + e.GroupID
	if p, ok := g.trades[key]; ok {
		if p.entry.Amount.Sign() != e.Amount.Sign() {
			delete(g.trades, key)
			if e.Amount.IsPositive() {
				g.txs = append(g.txs, NewTrade(p.entry, e))
			} else {
				g.txs = append(g.txs, NewTrade(e, p.entry))
			}
			return
		}
		g.diag.LeftoverTrades++
		g.txs = append(g.txs, NewSingle(p.entry))
	}
	g.trades[key] = g.buffer(e)
}

func (g *grouper) buffer(e LedgerEntry) pending {
	g.seq++
	return pending{entry: e, seq: g.seq}
}

func (g *grouper) unmatched(e LedgerEntry) {
	g.diag.Unmatched = append(g.diag.Unmatched, e)
	g.txs = append(g.txs, NewSingle(e))
}

// flush turns every buffered leg into a Single, in buffering order.
func (g *grouper) flush() {
	bySeq := func(a, b pending) int { return cmp.Compare(a.seq, b.seq) }
	transfers := slices.SortedFunc(maps.Values(g.transfers), bySeq)
	trades := slices.SortedFunc(maps.Values(g.trades), bySeq)
	g.diag.LeftoverTransfers += len(transfers)
	g.diag.LeftoverTrades += len(trades)
	for _, p := range transfers {
		g.unmatched(p.entry)
	}
	for _, p := range trades {
		g.txs = append(g.txs, NewSingle(p.entry))
	}
	clear(g.transfers)
	clear(g.trades)
}

func (g *grouper) log() {
	l := g.opts.Logger
	if g.diag.LeftoverTransfers > 0 || g.diag.LeftoverTrades > 0 {
		l.Info("leftover legs flushed as singles",
			zap.Int("leftover_transfers", g.diag.LeftoverTransfers),
			zap.Int("leftover_trades", g.diag.LeftoverTrades),
			zap.Int("replaced_transfers", g.diag.ReplacedTransfers))
	}
	if len(g.diag.MissingIgnored) > 0 {
		l.Warn("ignored entries not found in the ledger", zap.Strings("entries", g.diag.MissingIgnored))
	}
}
