package satsnav

import (
	"slices"

	"github.com/etnz/satsnav/date"
	"github.com/shopspring/decimal"
)

// HistoryItem is the state of the holdings of one asset at the start of a
// day, before the lots received that day.
type HistoryItem struct {
	Date  date.Date       `json:"date"`
	Total decimal.Decimal `json:"total"` // bonus included
	Bonus decimal.Decimal `json:"bonus"` // received as bonus or interest
	Spent decimal.Decimal `json:"spent"` // acquisition cost of the priced lots
}

// EntryLookup finds ledger entries by global id.
type EntryLookup interface {
	Entry(globalID string) (LedgerEntry, bool)
}

// EntryIndex is an EntryLookup backed by a map.
type EntryIndex map[string]LedgerEntry

func (x EntryIndex) Entry(globalID string) (LedgerEntry, bool) {
	e, ok := x[globalID]
	return e, ok
}

// IndexEntries indexes entries by global id.
func IndexEntries(entries []LedgerEntry) EntryIndex {
	x := make(EntryIndex, len(entries))
	for _, e := range entries {
		x[e.GlobalID()] = e
	}
	return x
}

// ProjectHistory walks the lots of asset held in b back in time, one UTC day
// at a time. For every day a held lot was received, the lots of that day are
// peeled off and the remaining totals are recorded at the start of the day.
// The oldest day therefore reports nothing held.
func ProjectHistory(b Balance, asset Asset, entries EntryLookup) *date.History[HistoryItem] {
	var refs Lots
	for _, wallet := range b.Wallets() {
		refs = append(refs, b.Lots(wallet, asset)...)
	}
	slices.SortStableFunc(refs, func(x, y Ref) int { return x.Date.Compare(y.Date) })

	free := func(r Ref) bool {
		e, ok := entries.Entry(r.Origin())
		return ok && (e.Kind == KindBonus || e.Kind == KindInterest)
	}
	cost := func(r Ref) decimal.Decimal {
		if !r.Rate.Valid {
			return decimal.Zero
		}
		return r.Rate.Decimal.Mul(r.Amount)
	}

	item := HistoryItem{Total: decimal.Zero, Bonus: decimal.Zero, Spent: decimal.Zero}
	for _, r := range refs {
		item.Total = item.Total.Add(r.Amount)
		item.Spent = item.Spent.Add(cost(r))
		if free(r) {
			item.Bonus = item.Bonus.Add(r.Amount)
		}
	}

	history := new(date.History[HistoryItem])
	for len(refs) > 0 {
		day := date.FromTime(refs[len(refs)-1].Date)
		for len(refs) > 0 && !refs[len(refs)-1].Date.Before(day.Time()) {
			r := refs[len(refs)-1]
			refs = refs[:len(refs)-1]
			item.Total = item.Total.Sub(r.Amount)
			item.Spent = item.Spent.Sub(cost(r))
			if free(r) {
				item.Bonus = item.Bonus.Sub(r.Amount)
			}
		}
		item.Date = day
		history.Append(day, item)
	}
	return history
}
