package satsnav

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/pkg/errors"
)

// Transaction is a reconciled group of ledger entries: a Single, a Trade or a Transfer.
type Transaction interface {
	// What returns the variant name ("single", "trade" or "transfer").
	What() string
	// When returns the earliest date of the entries.
	When() time.Time
	// Label returns a display name, the entry kind for singles.
	Label() string
	Entries() []LedgerEntry
	Equal(Transaction) bool
	json.Marshaler
	isTransaction()
}

// Single is a standalone entry.
type Single struct {
	Entry LedgerEntry
}

// Trade is an exchange of one asset for another inside one wallet.
// Spend is negative and Receive is positive.
type Trade struct {
	Spend   LedgerEntry
	Receive LedgerEntry
}

// Transfer is a move of one asset between wallets, or inside one wallet.
// From is negative and To is positive.
type Transfer struct {
	From LedgerEntry
	To   LedgerEntry
}

// NewSingle wraps a standalone entry.
func NewSingle(e LedgerEntry) Single { return Single{Entry: e} }

// NewTrade pairs the spent and received legs of a trade.
func NewTrade(spend, receive LedgerEntry) Trade { return Trade{Spend: spend, Receive: receive} }

// NewTransfer pairs the outgoing and incoming legs of a transfer.
func NewTransfer(from, to LedgerEntry) Transfer { return Transfer{From: from, To: to} }

func (Single) What() string               { return "single" }
func (Trade) What() string                { return "trade" }
func (Transfer) What() string             { return "transfer" }
func (t Single) When() time.Time          { return t.Entry.Date }
func (t Trade) When() time.Time           { return earliest(t.Spend.Date, t.Receive.Date) }
func (t Transfer) When() time.Time        { return earliest(t.From.Date, t.To.Date) }
func (t Single) Label() string            { return t.Entry.Kind.Label() }
func (Trade) Label() string               { return "Trade" }
func (Transfer) Label() string            { return "Transfer" }
func (t Single) Entries() []LedgerEntry   { return []LedgerEntry{t.Entry} }
func (t Trade) Entries() []LedgerEntry    { return []LedgerEntry{t.Spend, t.Receive} }
func (t Transfer) Entries() []LedgerEntry { return []LedgerEntry{t.From, t.To} }
func (Single) isTransaction()             {}
func (Trade) isTransaction()              {}
func (Transfer) isTransaction()           {}

func earliest(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Equal reports whether both transactions are of the same variant with identical entries.
func (t Single) Equal(o Transaction) bool   { return equalTransactions(t, o) }
func (t Trade) Equal(o Transaction) bool    { return equalTransactions(t, o) }
func (t Transfer) Equal(o Transaction) bool { return equalTransactions(t, o) }

func equalTransactions(a, b Transaction) bool {
	if b == nil || a.What() != b.What() {
		return false
	}
	return slices.EqualFunc(a.Entries(), b.Entries(), LedgerEntry.Equal)
}

// MarshalJSON encodes the transaction as {"single":{"entry":...}}.
func (t Single) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Variant("single", func(b *jsonObjectWriter) {
		b.Append("entry", t.Entry)
	})
	return w.MarshalJSON()
}

// MarshalJSON encodes the transaction as {"trade":{"spend":...,"receive":...}}.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Variant("trade", func(b *jsonObjectWriter) {
		b.Append("spend", t.Spend)
		b.Append("receive", t.Receive)
	})
	return w.MarshalJSON()
}

// MarshalJSON encodes the transaction as {"transfer":{"from":...,"to":...}}.
func (t Transfer) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Variant("transfer", func(b *jsonObjectWriter) {
		b.Append("from", t.From)
		b.Append("to", t.To)
	})
	return w.MarshalJSON()
}

// DecodeTransaction decodes a transaction from its JSON discriminated union.
func DecodeTransaction(data []byte) (Transaction, error) {
	kind, body, err := decodeVariant(data, "transaction")
	if err != nil {
		return nil, err
	}
	switch kind {
	case "single":
		var temp struct {
			Entry LedgerEntry `json:"entry"`
		}
		if err := json.Unmarshal(body, &temp); err != nil {
			return nil, errors.Wrap(err, "invalid single")
		}
		return NewSingle(temp.Entry), nil
	case "trade":
		var temp struct {
			Spend   LedgerEntry `json:"spend"`
			Receive LedgerEntry `json:"receive"`
		}
		if err := json.Unmarshal(body, &temp); err != nil {
			return nil, errors.Wrap(err, "invalid trade")
		}
		return NewTrade(temp.Spend, temp.Receive), nil
	case "transfer":
		var temp struct {
			From LedgerEntry `json:"from"`
			To   LedgerEntry `json:"to"`
		}
		if err := json.Unmarshal(body, &temp); err != nil {
			return nil, errors.Wrap(err, "invalid transfer")
		}
		return NewTransfer(temp.From, temp.To), nil
	default:
		return nil, &UnknownEnumError{Type: "transaction", Value: kind}
	}
}

// sortTransactions stable sorts transactions by date.
func sortTransactions(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int { return a.When().Compare(b.When()) })
}
