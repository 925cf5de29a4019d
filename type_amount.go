package satsnav

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// D is a convenient factory for decimal.Decimal, mostly for tests and literals.
// It panics if s is not a valid decimal.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// significantFractionalDigits returns the number of meaningful digits after
// the decimal point, trailing zeros excluded.
func significantFractionalDigits(d decimal.Decimal) int {
	s := d.String()
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

// roundingPrecision returns the precision used to convert amounts into a
// trade's receive asset.
func roundingPrecision(receive decimal.Decimal) int32 {
	return int32(max(10, significantFractionalDigits(receive)))
}

// FormatFiat formats a fiat amount in its currency, like "€1,234.50".
func FormatFiat(d decimal.Decimal, currency string) string {
	cur := money.New(0, currency).Currency()
	return cur.Formatter().Format(d.Shift(int32(cur.Fraction)).Round(0).IntPart())
}

// FormatCrypto formats a crypto amount with 8 fraction digits.
func FormatCrypto(d decimal.Decimal) string { return d.StringFixed(8) }

// FormatAmount formats an amount according to the asset kind.
func FormatAmount(d decimal.Decimal, a Asset) string {
	if a.Kind == Fiat {
		return FormatFiat(d, a.Name)
	}
	return FormatCrypto(d) + " " + a.Name
}

// FormatRate formats an optional acquisition rate. Rates of lots bought with
// crypto keep up to 6 fraction digits, fiat rates up to 2.
func FormatRate(rate decimal.NullDecimal, spend AssetKind) string {
	if !rate.Valid {
		return "unknown"
	}
	places := int32(6)
	if spend == Fiat {
		places = 2
	}
	return rate.Decimal.Round(places).String()
}
