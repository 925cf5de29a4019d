package satsnav

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// EntryKind is the type of a ledger entry.
type EntryKind int

const (
	KindDeposit EntryKind = iota
	KindWithdrawal
	KindTrade
	KindInterest
	KindBonus
	KindFee
	KindTransfer
)

func (k EntryKind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindTrade:
		return "trade"
	case KindInterest:
		return "interest"
	case KindBonus:
		return "bonus"
	case KindFee:
		return "fee"
	case KindTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Label returns the capitalized kind name, as used in graph labels.
func (k EntryKind) Label() string {
	s := k.String()
	return string(s[0]-'a'+'A') + s[1:]
}

// ParseEntryKind parses a string into an EntryKind.
func ParseEntryKind(s string) (EntryKind, error) {
	for k := KindDeposit; k <= KindTransfer; k++ {
		if s == k.String() || s == k.Label() {
			return k, nil
		}
	}
	return 0, &UnknownEnumError{Type: "entry type", Value: s}
}

// MarshalJSON encodes the kind as its integer code.
func (k EntryKind) MarshalJSON() ([]byte, error) { return json.Marshal(int(k)) }

// UnmarshalJSON accepts either the integer code or the name.
func (k *EntryKind) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "entry type", int(KindTransfer), func(s string) (int, error) {
		kind, err := ParseEntryKind(s)
		return int(kind), err
	})
	if err != nil {
		return err
	}
	*k = EntryKind(v)
	return nil
}

// LedgerEntry is one signed movement of one asset in one wallet.
type LedgerEntry struct {
	Wallet  string
	ID      string
	GroupID string
	Date    time.Time
	Kind    EntryKind
	Amount  decimal.Decimal
	Asset   Asset
}

// GlobalID returns the identifier of the entry unique across wallets.
func (e LedgerEntry) GlobalID() string { return e.Wallet + "-" + e.ID }

// transferKey is the matching key of crypto deposits and withdrawals.
func (e LedgerEntry) transferKey() string {
	return fmt.Sprintf("%s %s", e.Asset.Name, e.Amount.Abs().StringFixed(8))
}

// Equal reports whether both entries are identical.
func (e LedgerEntry) Equal(o LedgerEntry) bool {
	return e.Wallet == o.Wallet && e.ID == o.ID && e.GroupID == o.GroupID &&
		e.Date.Equal(o.Date) && e.Kind == o.Kind && e.Amount.Equal(o.Amount) && e.Asset == o.Asset
}

func (e LedgerEntry) String() string {
	return fmt.Sprintf("%s %s %s %s %s - %s", e.Date.UTC().Format(time.DateTime), e.Wallet, e.Kind, e.Amount, e.Asset, e.ID)
}

// MarshalJSON encodes the entry with the date as unix seconds.
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("wallet", e.Wallet)
	w.Append("id", e.ID)
	w.Append("groupId", e.GroupID)
	w.Append("date", unixSeconds(e.Date))
	w.Append("type", e.Kind)
	w.Append("amount", e.Amount)
	w.Append("asset", e.Asset)
	return w.MarshalJSON()
}

// UnmarshalJSON decodes an entry. The date is unix seconds, possibly fractional.
func (e *LedgerEntry) UnmarshalJSON(data []byte) error {
	var temp struct {
		Wallet  string          `json:"wallet"`
		ID      string          `json:"id"`
		GroupID string          `json:"groupId"`
		Date    json.Number     `json:"date"`
		Kind    EntryKind       `json:"type"`
		Amount  decimal.Decimal `json:"amount"`
		Asset   Asset           `json:"asset"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	on, err := unixDate(temp.Date)
	if err != nil {
		return errors.Wrapf(err, "entry %s-%s", temp.Wallet, temp.ID)
	}
	*e = LedgerEntry{
		Wallet:  temp.Wallet,
		ID:      temp.ID,
		GroupID: temp.GroupID,
		Date:    on,
		Kind:    temp.Kind,
		Amount:  temp.Amount,
		Asset:   temp.Asset,
	}
	return nil
}

// unixDate converts a json number of seconds since epoch into a UTC time.
// Digits past the nanosecond are dropped.
func unixDate(n json.Number) (time.Time, error) {
	if n == "" {
		return time.Time{}, errors.New("missing date")
	}
	if sec, err := n.Int64(); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q", n)
	}
	sec := d.IntPart()
	nsec := d.Sub(decimal.NewFromInt(sec)).Shift(9).IntPart()
	return time.Unix(sec, nsec).UTC(), nil
}

// unixSeconds is the inverse of unixDate: seconds since epoch, with a
// fractional part only when t is not a whole second.
func unixSeconds(t time.Time) decimal.Decimal {
	return decimal.NewFromInt(t.Unix()).Add(decimal.New(int64(t.Nanosecond()), -9))
}
