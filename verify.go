package satsnav

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Mismatch is a wallet and asset whose lots do not sum to the amounts
// recorded by the transactions.
type Mismatch struct {
	Wallet   string
	Asset    Asset
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

// Verify recomputes, independently of the lot engine, the amount of every
// non base asset each wallet should hold after txs, and compares it with the
// balance. It returns the mismatches sorted by wallet and asset.
func Verify(txs []Transaction, b Balance, base Asset) []Mismatch {
	if base == (Asset{}) {
		base = DefaultBase
	}
	expected := make(map[walletAsset]decimal.Decimal)
	add := func(wallet string, asset Asset, amount decimal.Decimal) {
		if asset == base {
			return
		}
		k := walletAsset{wallet, asset}
		expected[k] = expected[k].Add(amount)
	}
	for _, tx := range txs {
		switch t := tx.(type) {
		case Single:
			add(t.Entry.Wallet, t.Entry.Asset, t.Entry.Amount)
		case Trade:
			add(t.Spend.Wallet, t.Spend.Asset, t.Spend.Amount)
			add(t.Receive.Wallet, t.Receive.Asset, t.Receive.Amount)
		case Transfer:
			add(t.From.Wallet, t.From.Asset, t.To.Amount.Neg())
			add(t.To.Wallet, t.To.Asset, t.To.Amount)
		}
	}
	for wallet, assets := range b {
		for asset := range assets {
			k := walletAsset{wallet, asset}
			if _, ok := expected[k]; !ok {
				expected[k] = decimal.Zero
			}
		}
	}

	var mismatches []Mismatch
	for k, want := range expected {
		if got := b.Sum(k.wallet, k.asset); !got.Equal(want) {
			mismatches = append(mismatches, Mismatch{Wallet: k.wallet, Asset: k.asset, Expected: want, Actual: got})
		}
	}
	slices.SortFunc(mismatches, func(x, y Mismatch) int {
		return cmp.Or(strings.Compare(x.Wallet, y.Wallet), strings.Compare(x.Asset.Name, y.Asset.Name))
	})
	return mismatches
}

// WalletRecap summarizes the holdings of one wallet.
type WalletRecap struct {
	Wallet     string
	Count      int // number of lots
	SumByAsset map[Asset]decimal.Decimal
}

// Assets returns the assets of the recap sorted by name.
func (r WalletRecap) Assets() []Asset {
	return slices.SortedFunc(maps.Keys(r.SumByAsset), func(x, y Asset) int { return strings.Compare(x.Name, y.Name) })
}

func (r WalletRecap) MarshalJSON() ([]byte, error) {
	var sums jsonObjectWriter
	for _, asset := range r.Assets() {
		sums.Append(asset.Name, r.SumByAsset[asset])
	}
	var w jsonObjectWriter
	w.Append("wallet", r.Wallet)
	w.Append("count", r.Count)
	w.Append("sumByAsset", &sums)
	return w.MarshalJSON()
}

// Recap summarizes every wallet of the balance, the largest holders of the
// tracked asset first.
func Recap(b Balance, tracked Asset) []WalletRecap {
	recaps := make([]WalletRecap, 0, len(b))
	for _, wallet := range b.Wallets() {
		r := WalletRecap{Wallet: wallet, SumByAsset: make(map[Asset]decimal.Decimal)}
		for asset, lots := range b[wallet] {
			r.Count += len(lots)
			r.SumByAsset[asset] = lots.Sum()
		}
		recaps = append(recaps, r)
	}
	slices.SortStableFunc(recaps, func(x, y WalletRecap) int {
		return y.SumByAsset[tracked].Cmp(x.SumByAsset[tracked])
	})
	return recaps
}
