package satsnav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	BTC = NewAsset("BTC", Crypto)
	ETH = NewAsset("ETH", Crypto)
	EUR = DefaultBase
)

// at returns noon UTC of the given day of January 2024, plus some hours.
func at(day int, hours ...int) time.Time {
	t := time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC)
	for _, h := range hours {
		t = t.Add(time.Duration(h) * time.Hour)
	}
	return t
}

// E is a helper for test to create a ledger entry.
func E(wallet, id string, on time.Time, kind EntryKind, amount string, asset Asset) LedgerEntry {
	return LedgerEntry{Wallet: wallet, ID: id, Date: on, Kind: kind, Amount: D(amount), Asset: asset}
}

// G sets the group id of a trade leg.
func G(e LedgerEntry, group string) LedgerEntry {
	e.GroupID = group
	return e
}

// buy is a trade of base for asset in wallet.
func buy(wallet, id string, on time.Time, spend, receive string, asset Asset) Trade {
	return NewTrade(E(wallet, id, on, KindTrade, "-"+spend, EUR), E(wallet, id+"r", on, KindTrade, receive, asset))
}

// replay applies txs to a new ledger and fails the test on error.
func replay(t *testing.T, opts Options, txs ...Transaction) *LotLedger {
	t.Helper()
	l, err := BuildBalances(txs, opts)
	require.NoError(t, err)
	return l
}

func amounts(lots Lots) []string {
	var s []string
	for _, r := range lots {
		s = append(s, r.Amount.String())
	}
	return s
}
