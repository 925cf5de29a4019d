package satsnav

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DustWarning reports a trade whose rounding dust exceeded the tolerance.
type DustWarning struct {
	Spend     string // spend entry global id
	Receive   string // receive entry global id
	Dust      decimal.Decimal
	Precision int32
}

func (w DustWarning) String() string {
	return fmt.Sprintf("trade %s/%s: dust %s at precision %d", w.Spend, w.Receive, w.Dust, w.Precision)
}

// walletAsset keys the per wallet and asset bookkeeping.
type walletAsset struct {
	wallet string
	asset  Asset
}

// LotLedger replays transactions in date order and tracks the lots of every
// wallet. It records one BalanceChange per applied transaction.
//
// A LotLedger is not safe for concurrent use. After Apply returned an error
// the ledger state is undefined and the run must be discarded.
type LotLedger struct {
	opts     Options
	balance  Balance
	changes  []BalanceChange
	expected map[walletAsset]decimal.Decimal
	dust     []DustWarning
	last     time.Time
	seq      int
}

// NewLotLedger returns an empty ledger.
func NewLotLedger(opts Options) *LotLedger {
	return &LotLedger{
		opts:     opts.withDefaults(),
		balance:  make(Balance),
		expected: make(map[walletAsset]decimal.Decimal),
	}
}

// Balance returns the current lots. It must not be modified.
func (l *LotLedger) Balance() Balance { return l.balance }

// Changes returns the audit trail, one record per applied transaction.
func (l *LotLedger) Changes() []BalanceChange { return l.changes }

// DustWarnings returns the trades whose dust exceeded the tolerance.
func (l *LotLedger) DustWarnings() []DustWarning { return l.dust }

// BuildBalances applies all transactions to a new LotLedger.
func BuildBalances(txs []Transaction, opts Options) (*LotLedger, error) {
	l := NewLotLedger(opts)
	for _, tx := range txs {
		if err := l.Apply(tx); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Apply processes one transaction. Transactions must come in ascending date order.
func (l *LotLedger) Apply(tx Transaction) error {
	if tx.When().Before(l.last) {
		return errors.Wrapf(ErrOutOfOrder, "%s on %s after %s", tx.Label(), tx.When().Format(time.RFC3339), l.last.Format(time.RFC3339))
	}
	l.last = tx.When()

	touched := make(map[walletAsset]bool)
	var changes []RefChange
	var err error
	switch t := tx.(type) {
	case Single:
		changes, err = l.applySingle(t, touched)
	case Transfer:
		changes, err = l.applyTransfer(t, touched)
	case Trade:
		changes, err = l.applyTrade(t, touched)
	default:
		return &UnknownEnumError{Type: "transaction", Value: fmt.Sprintf("%T", tx)}
	}
	if err != nil {
		return errors.Wrapf(err, "applying %s on %s", tx.Label(), tx.When().Format(time.RFC3339))
	}
	if err := l.check(touched); err != nil {
		return err
	}
	l.changes = append(l.changes, BalanceChange{Transaction: tx, Changes: changes})
	return nil
}

// record accounts a signed amount applied to wallet and asset.
func (l *LotLedger) record(wallet string, asset Asset, amount decimal.Decimal, touched map[walletAsset]bool) {
	k := walletAsset{wallet, asset}
	l.expected[k] = l.expected[k].Add(amount)
	touched[k] = true
}

// check verifies that the lots of every touched pair sum to the applied amounts.
func (l *LotLedger) check(touched map[walletAsset]bool) error {
	for k := range touched {
		actual := l.balance.Sum(k.wallet, k.asset)
		if !actual.Equal(l.expected[k]) {
			return &InvariantError{Wallet: k.wallet, Asset: k.asset, Expected: l.expected[k], Actual: actual, Context: "balance conservation"}
		}
	}
	return nil
}

// nextID returns a fresh id for a lot derived from r.
func (l *LotLedger) nextID(r Ref) string {
	l.seq++
	return fmt.Sprintf("%s~%d", r.Origin(), l.seq)
}

// derive is the splitter of the ledger: both parts get a fresh id.
func (l *LotLedger) derive(r Ref, kept, taken decimal.Decimal) (Ref, Ref) {
	k := r.withAmount(kept)
	k.ID, k.Parents = l.nextID(r), []string{r.ID}
	t := r.withAmount(taken)
	t.ID, t.Parents = l.nextID(r), []string{r.ID}
	return k, t
}

func (l *LotLedger) push(wallet string, r Ref) {
	l.balance.set(wallet, r.Asset, append(l.balance.Lots(wallet, r.Asset), r))
}

// consume takes amount of asset out of wallet. It returns the consumed lots
// and the Split change when a lot had to be cut.
func (l *LotLedger) consume(wallet string, asset Asset, amount decimal.Decimal) (Lots, []RefChange, error) {
	sub, err := l.balance.Lots(wallet, asset).subtract(amount, l.opts.Policy, l.derive)
	if err != nil {
		var underflow *BalanceUnderflowError
		if errors.As(err, &underflow) {
			underflow.Wallet, underflow.Asset = wallet, asset
		}
		if inv, ok := err.(*InvariantError); ok {
			inv.Wallet = wallet
		}
		return nil, nil, err
	}
	l.balance.set(wallet, asset, sub.remaining)
	var changes []RefChange
	if sub.split != nil {
		changes = append(changes, Split{
			OriginalRef:   sub.split.original,
			ResultingRefs: []Ref{sub.split.kept, sub.split.taken},
			Wallet:        wallet,
		})
	}
	return sub.taken, changes, nil
}

func (l *LotLedger) applySingle(t Single, touched map[walletAsset]bool) ([]RefChange, error) {
	e := t.Entry
	if e.Amount.IsZero() || e.Asset == l.opts.Base {
		return nil, nil
	}
	l.record(e.Wallet, e.Asset, e.Amount, touched)

	if e.Amount.IsNegative() {
		consumed, changes, err := l.consume(e.Wallet, e.Asset, e.Amount.Neg())
		if err != nil {
			return nil, err
		}
		for _, r := range consumed {
			changes = append(changes, Remove{Ref: r, Wallet: e.Wallet})
		}
		return changes, nil
	}

	ref := Ref{
		ID:      e.GlobalID(),
		Asset:   e.Asset,
		Lineage: []string{e.GlobalID()},
		Amount:  e.Amount,
		Date:    e.Date,
	}
	if o, ok := l.opts.Overrides.RateOverride(e.GlobalID()); ok && o.Rate.Valid {
		ref.Rate = o.Rate
		l.opts.Logger.Info("using user provided rate", zap.String("entry", e.GlobalID()), zap.String("rate", o.Rate.Decimal.String()))
	}
	changes := []RefChange{Create{Ref: ref, Wallet: e.Wallet}}
	if join, ok := l.consolidate(e.Wallet, ref); ok {
		return append(changes, join), nil
	}
	l.push(e.Wallet, ref)
	return changes, nil
}

// consolidate merges the unpriced ref with the newest lot of the wallet when
// that lot is unpriced too and was received on the same UTC day. The newest
// lot is the last one whatever the consumption policy.
func (l *LotLedger) consolidate(wallet string, ref Ref) (Join, bool) {
	lots := l.balance.Lots(wallet, ref.Asset)
	if !l.opts.ConsolidateUnpriced || ref.Priced() || len(lots) == 0 {
		return Join{}, false
	}
	last := lots[len(lots)-1]
	if last.Priced() || !sameDay(last.Date, ref.Date) {
		return Join{}, false
	}
	merged := Ref{
		ID:      l.nextID(last),
		Asset:   ref.Asset,
		Lineage: append(last.withLineage().Lineage, ref.Lineage...),
		Amount:  last.Amount.Add(ref.Amount),
		Date:    last.Date,
		Parents: []string{last.ID, ref.ID},
	}
	lots = append(lots[:len(lots)-1:len(lots)-1], merged)
	l.balance.set(wallet, ref.Asset, lots)
	return Join{OriginalRefs: []Ref{last, ref}, ResultingRef: merged, Wallet: wallet}, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (l *LotLedger) applyTransfer(t Transfer, touched map[walletAsset]bool) ([]RefChange, error) {
	from, to := t.From, t.To
	if !from.Amount.IsNegative() || !to.Amount.IsPositive() {
		return nil, errors.Errorf("invalid transfer %s to %s: amounts %s and %s", from.GlobalID(), to.GlobalID(), from.Amount, to.Amount)
	}
	if to.Asset == l.opts.Base {
		return nil, nil
	}
	l.record(from.Wallet, from.Asset, to.Amount.Neg(), touched)
	l.record(to.Wallet, to.Asset, to.Amount, touched)

	consumed, changes, err := l.consume(from.Wallet, from.Asset, to.Amount)
	if err != nil {
		return nil, err
	}
	for _, r := range consumed {
		moved := r.withLineage(to.GlobalID())
		moved.Asset = to.Asset
		l.push(to.Wallet, moved)
		changes = append(changes, Move{Ref: moved, FromWallet: from.Wallet, ToWallet: to.Wallet})
	}
	return changes, nil
}

func (l *LotLedger) applyTrade(t Trade, touched map[walletAsset]bool) ([]RefChange, error) {
	spend, receive := t.Spend, t.Receive
	if !spend.Amount.IsNegative() || !receive.Amount.IsPositive() {
		return nil, errors.Errorf("invalid trade %s for %s: amounts %s and %s", spend.GlobalID(), receive.GlobalID(), spend.Amount, receive.Amount)
	}
	base := l.opts.Base
	wallet := spend.Wallet
	rate := spend.Amount.Neg().Div(receive.Amount)

	if spend.Asset == base {
		if receive.Asset == base {
			return nil, nil
		}
		l.record(receive.Wallet, receive.Asset, receive.Amount, touched)
		ref := Ref{
			ID:      receive.GlobalID(),
			Asset:   receive.Asset,
			Lineage: []string{receive.GlobalID()},
			Amount:  receive.Amount,
			Date:    receive.Date,
			Rate:    decimal.NewNullDecimal(rate),
		}
		l.push(receive.Wallet, ref)
		return []RefChange{Create{Ref: ref, Wallet: receive.Wallet}}, nil
	}

	l.record(wallet, spend.Asset, spend.Amount, touched)
	consumed, changes, err := l.consume(wallet, spend.Asset, spend.Amount.Neg())
	if err != nil {
		return nil, err
	}

	if receive.Asset == base {
		baseRef := Ref{
			ID:      receive.GlobalID(),
			Asset:   receive.Asset,
			Lineage: []string{receive.GlobalID()},
			Amount:  receive.Amount,
			Date:    receive.Date,
			Parents: consumed.IDs(),
		}
		return append(changes, Convert{FromRefs: consumed, ToRef: baseRef, Wallet: wallet}), nil
	}

	l.record(receive.Wallet, receive.Asset, receive.Amount, touched)
	converted, dropped, err := l.convert(t, consumed, rate)
	if err != nil {
		return nil, err
	}
	for _, c := range converted {
		l.push(receive.Wallet, c.to)
		changes = append(changes, Convert{FromRefs: []Ref{c.from}, ToRef: c.to, Wallet: wallet})
	}
	for _, r := range dropped {
		changes = append(changes, Remove{Ref: r, Wallet: wallet})
	}
	return changes, nil
}

// conversion links a consumed lot to the lot it became.
type conversion struct {
	from Ref
	to   Ref
}

// convert turns the consumed lots into lots of the receive asset, and
// corrects the rounding dust so that they sum to the received amount.
// Consumed lots that end up with nothing are returned as dropped.
func (l *LotLedger) convert(t Trade, consumed Lots, rate decimal.Decimal) ([]conversion, Lots, error) {
	spend, receive := t.Spend, t.Receive
	precision := roundingPrecision(receive.Amount)

	var converted []conversion
	var dropped Lots
	for _, r := range consumed {
		amount := r.Amount.DivRound(rate, precision)
		if !amount.IsPositive() {
			dropped = append(dropped, r)
			continue
		}
		to := r.withLineage(spend.GlobalID(), receive.GlobalID())
		to.ID = l.nextID(r)
		to.Asset = receive.Asset
		to.Amount = amount
		to.Date = receive.Date
		to.Parents = []string{r.ID}
		if r.Rate.Valid {
			to.Rate = decimal.NewNullDecimal(r.Rate.Decimal.Mul(rate))
		}
		converted = append(converted, conversion{from: r, to: to})
	}

	results := make(Lots, len(converted))
	for i, c := range converted {
		results[i] = c.to
	}
	dust := receive.Amount.Sub(results.Sum())
	l.warnDust(t, dust, precision)

	switch {
	case dust.IsPositive() && len(converted) == 0:
		// Everything rounded away: the whole receive goes to the first consumed lot.
		r := consumed[0]
		to := r.withLineage(spend.GlobalID(), receive.GlobalID())
		to.ID, to.Asset, to.Amount, to.Date, to.Parents = l.nextID(r), receive.Asset, dust, receive.Date, []string{r.ID}
		if r.Rate.Valid {
			to.Rate = decimal.NewNullDecimal(r.Rate.Decimal.Mul(rate))
		}
		converted = []conversion{{from: r, to: to}}
		dropped = dropped[1:]
	case dust.IsPositive():
		converted[0].to.Amount = converted[0].to.Amount.Add(dust)
	case dust.IsNegative():
		sub, err := results.subtract(dust.Neg(), l.opts.Policy, keepID)
		if err != nil {
			return nil, nil, errors.Wrap(err, "correcting dust")
		}
		kept := make(map[string]Ref, len(sub.remaining))
		for _, r := range sub.remaining {
			kept[r.ID] = r
		}
		var trimmed []conversion
		for _, c := range converted {
			if r, ok := kept[c.to.ID]; ok {
				c.to = r
				trimmed = append(trimmed, c)
			} else {
				dropped = append(dropped, c.from)
			}
		}
		converted = trimmed
	}

	sum := decimal.Zero
	for _, c := range converted {
		sum = sum.Add(c.to.Amount)
	}
	if !sum.Equal(receive.Amount) {
		return nil, nil, &InvariantError{Wallet: receive.Wallet, Asset: receive.Asset, Expected: receive.Amount, Actual: sum, Context: "trade reconciliation"}
	}
	return converted, dropped, nil
}

// warnDust records the dust when it exceeds the tolerance.
func (l *LotLedger) warnDust(t Trade, dust decimal.Decimal, precision int32) {
	unit := decimal.New(1, -precision)
	if dust.Abs().LessThanOrEqual(unit.Mul(decimal.NewFromInt(l.opts.DustTolerance))) {
		return
	}
	w := DustWarning{Spend: t.Spend.GlobalID(), Receive: t.Receive.GlobalID(), Dust: dust, Precision: precision}
	l.dust = append(l.dust, w)
	l.opts.Logger.Warn("rounding dust beyond tolerance",
		zap.String("spend", w.Spend),
		zap.String("receive", w.Receive),
		zap.String("dust", dust.String()),
		zap.Int32("precision", precision))
}
