package satsnav

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Lots is the ordered collection of the lots of one asset in one wallet.
// Lots are appended at the end, so the collection is oldest first.
type Lots []Ref

// Sum returns the total amount held in the lots.
func (l Lots) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range l {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// Equal reports whether both collections hold identical lots in the same order.
func (l Lots) Equal(o Lots) bool {
	return slices.EqualFunc(l, o, Ref.Equal)
}

// IDs returns the ids of the lots.
func (l Lots) IDs() []string {
	ids := make([]string, len(l))
	for i, r := range l {
		ids[i] = r.ID
	}
	return ids
}

// splitter cuts lot r in a kept part and a taken part of the given amounts.
type splitter func(r Ref, kept, taken decimal.Decimal) (Ref, Ref)

// keepID is a splitter that keeps the lot identity on both parts.
func keepID(r Ref, kept, taken decimal.Decimal) (Ref, Ref) {
	return r.withAmount(kept), r.withAmount(taken)
}

// splitRecord describes the lot that was cut during a subtraction.
type splitRecord struct {
	original Ref
	kept     Ref
	taken    Ref
}

// subtraction is the outcome of taking an amount out of a lot collection.
type subtraction struct {
	remaining Lots
	taken     Lots // in collection order
	split     *splitRecord
}

// subtract takes amount out of the lots, starting at the consumption end of
// the policy. The lot overshooting the amount is cut in two: the kept part
// goes back where it was, the taken part joins the consumed lots.
//
// It returns a *BalanceUnderflowError when the lots do not hold enough.
func (l Lots) subtract(amount decimal.Decimal, policy ConsumptionPolicy, split splitter) (subtraction, error) {
	if amount.IsNegative() {
		return subtraction{}, errors.Errorf("cannot subtract a negative amount %s", amount)
	}
	total := l.Sum()
	if amount.GreaterThan(total) {
		return subtraction{}, &BalanceUnderflowError{Requested: amount, Available: total}
	}

	remaining := slices.Clone(l)
	var taken Lots
	var cut *splitRecord
	left := amount
	for left.IsPositive() {
		var lot Ref
		if policy == FIFO {
			lot, remaining = remaining[0], remaining[1:]
		} else {
			lot, remaining = remaining[len(remaining)-1], remaining[:len(remaining)-1]
		}
		if lot.Amount.LessThanOrEqual(left) {
			taken = append(taken, lot)
			left = left.Sub(lot.Amount)
			continue
		}
		kept, part := split(lot, lot.Amount.Sub(left), left)
		if policy == FIFO {
			remaining = append(Lots{kept}, remaining...)
		} else {
			remaining = append(remaining, kept)
		}
		taken = append(taken, part)
		cut = &splitRecord{original: lot, kept: kept, taken: part}
		left = decimal.Zero
	}
	if policy != FIFO {
		slices.Reverse(taken)
	}

	if after := remaining.Sum().Add(taken.Sum()); !after.Equal(total) {
		return subtraction{}, &InvariantError{Asset: firstAsset(l), Expected: total, Actual: after, Context: "subtract conservation"}
	}
	return subtraction{remaining: remaining, taken: taken, split: cut}, nil
}

func firstAsset(l Lots) Asset {
	if len(l) == 0 {
		return Asset{}
	}
	return l[0].Asset
}
