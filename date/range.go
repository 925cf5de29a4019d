package date

import "fmt"

// Range represents a range of days, both ends included.
type Range struct{ From, To Date }

// NewRange returns the period of kind p containing d.
func NewRange(d Date, p Period) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// Contains reports whether the day is inside the range.
func (r Range) Contains(day Date) bool { return !day.Before(r.From) && !day.After(r.To) }

// Identifier returns a short name of the range in period p, like "2025-Q3".
func (r Range) Identifier(p Period) string {
	switch p {
	case Daily:
		return r.From.String()
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case Yearly:
		return r.From.Format("2006")
	default:
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
}
