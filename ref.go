package satsnav

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Ref is a lot: a positive amount of one asset held as a unit, with the
// chain of ledger entries it arrived through and its acquisition rate.
//
// Rate is expressed in units of the asset originally spent per unit of this
// asset. It is undefined (not Valid) for lots received for free or whose
// cost is unknown, like deposits, interest or bonus credits.
type Ref struct {
	ID      string
	Asset   Asset
	Lineage []string // entry global ids, oldest first
	Amount  decimal.Decimal
	Date    time.Time
	Rate    decimal.NullDecimal
	Parents []string // ids of the refs this one was derived from
}

// Origin returns the global id of the entry this lot originates from.
func (r Ref) Origin() string {
	if len(r.Lineage) == 0 {
		return r.ID
	}
	return r.Lineage[0]
}

// Priced reports whether the lot has a known acquisition rate.
func (r Ref) Priced() bool { return r.Rate.Valid }

// withAmount returns a copy of r holding amount.
func (r Ref) withAmount(amount decimal.Decimal) Ref {
	r.Amount = amount
	r.Lineage = slices.Clone(r.Lineage)
	r.Parents = slices.Clone(r.Parents)
	return r
}

// withLineage returns a copy of r with ids appended to the lineage.
func (r Ref) withLineage(ids ...string) Ref {
	r.Lineage = append(slices.Clone(r.Lineage), ids...)
	r.Parents = slices.Clone(r.Parents)
	return r
}

// Equal reports whether both refs are identical.
func (r Ref) Equal(o Ref) bool {
	return r.ID == o.ID && r.Asset == o.Asset && slices.Equal(r.Lineage, o.Lineage) &&
		r.Amount.Equal(o.Amount) && r.Date.Equal(o.Date) && equalRate(r.Rate, o.Rate) &&
		slices.Equal(r.Parents, o.Parents)
}

func equalRate(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// MarshalJSON encodes the ref with the date as unix seconds.
func (r Ref) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("asset", r.Asset)
	w.Append("amount", r.Amount)
	w.Append("date", unixSeconds(r.Date))
	if r.Rate.Valid {
		w.Append("rate", r.Rate.Decimal)
	}
	w.Optional("lineage", r.Lineage)
	w.Optional("parents", r.Parents)
	return w.MarshalJSON()
}

// UnmarshalJSON decodes a ref.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID      string              `json:"id"`
		Asset   Asset               `json:"asset"`
		Amount  decimal.Decimal     `json:"amount"`
		Date    json.Number         `json:"date"`
		Rate    decimal.NullDecimal `json:"rate"`
		Lineage []string            `json:"lineage"`
		Parents []string            `json:"parents"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	on, err := unixDate(temp.Date)
	if err != nil {
		return err
	}
	*r = Ref{
		ID:      temp.ID,
		Asset:   temp.Asset,
		Lineage: temp.Lineage,
		Amount:  temp.Amount,
		Date:    on,
		Rate:    temp.Rate,
		Parents: temp.Parents,
	}
	return nil
}
