package renderer

import (
	"github.com/etnz/satsnav"
	"github.com/etnz/satsnav/date"
	"github.com/shopspring/decimal"
)

// History is the start of day history of one asset, ready to render.
type History struct {
	// Asset is the name of the asset.
	Asset string `json:"asset"`
	// Base is the name of the asset the acquisition costs are expressed in.
	Base string `json:"base"`
	// Period is the sampling period, empty for daily rows.
	Period string `json:"period,omitempty"`
	// Rows are sorted oldest first.
	Rows []HistoryRow `json:"rows"`
}

// HistoryRow is the holdings at the start of one day, before the lots
// received that day.
type HistoryRow struct {
	Date  string `json:"date"`
	Total string `json:"total"`
	Bonus string `json:"bonus"`
	Spent string `json:"spent"`
}

// NewHistory formats the history of asset sampled by period. Rows of a
// sampled history are named after their period, like "2025-Q3".
func NewHistory(h *date.History[satsnav.HistoryItem], asset, base satsnav.Asset, period date.Period) *History {
	v := &History{Asset: asset.Name, Base: base.Name, Rows: []HistoryRow{}}
	if period != date.Daily {
		v.Period = period.String()
	}
	for day, item := range h.Values() {
		v.Rows = append(v.Rows, HistoryRow{
			Date:  date.NewRange(day, period).Identifier(period),
			Total: quantity(item.Total, asset),
			Bonus: quantity(item.Bonus, asset),
			Spent: satsnav.FormatAmount(item.Spent, base),
		})
	}
	return v
}

// quantity formats an amount without its asset name.
func quantity(d decimal.Decimal, a satsnav.Asset) string {
	if a.IsCrypto() {
		return satsnav.FormatCrypto(d)
	}
	return d.StringFixed(2)
}
