package satsnav

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Result is the outcome of a reconciliation run.
type Result struct {
	Transactions []Transaction
	Balance      Balance
	Changes      []BalanceChange
	Diagnostics  *Diagnostics
	Mismatches   []Mismatch
}

// Reconcile groups the entries into transactions, replays them into lots
// and verifies the outcome. Nothing is returned on a fatal error.
func Reconcile(entries []LedgerEntry, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	txs, diag := GroupEntries(entries, opts)
	l, err := BuildBalances(txs, opts)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build balances")
	}
	diag.DustWarnings = l.DustWarnings()

	mismatches := Verify(txs, l.Balance(), opts.Base)
	if len(mismatches) > 0 {
		opts.Logger.Error("balance does not match the transactions", zap.Int("mismatches", len(mismatches)))
	}
	opts.Logger.Debug("reconciled",
		zap.Int("entries", len(entries)),
		zap.Int("transactions", len(txs)),
		zap.Int("wallets", len(l.Balance())))
	return &Result{
		Transactions: txs,
		Balance:      l.Balance(),
		Changes:      l.Changes(),
		Diagnostics:  diag,
		Mismatches:   mismatches,
	}, nil
}

// Change returns the balance change of the transaction involving the entry
// with the given global id.
func (r *Result) Change(globalID string) (BalanceChange, bool) {
	for _, c := range r.Changes {
		for _, e := range c.Transaction.Entries() {
			if e.GlobalID() == globalID {
				return c, true
			}
		}
	}
	return BalanceChange{}, false
}
