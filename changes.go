package satsnav

import (
	"encoding/json"
	"slices"

	"github.com/pkg/errors"
)

// RefChange is one lot-level effect of a transaction.
type RefChange interface {
	What() string
	Equal(RefChange) bool
	json.Marshaler
	isRefChange()
}

// Create adds a new lot to a wallet.
type Create struct {
	Ref    Ref
	Wallet string
}

// Remove takes a lot out of a wallet, out of the tracked world.
type Remove struct {
	Ref    Ref
	Wallet string
}

// Move carries a lot from one wallet to another, keeping its identity.
type Move struct {
	Ref        Ref
	FromWallet string
	ToWallet   string
}

// Split cuts a lot in pieces.
type Split struct {
	OriginalRef   Ref
	ResultingRefs []Ref
	Wallet        string
}

// Join merges several lots into one.
type Join struct {
	OriginalRefs []Ref
	ResultingRef Ref
	Wallet       string
}

// Convert turns lots of one asset into a lot of another asset.
type Convert struct {
	FromRefs []Ref
	ToRef    Ref
	Wallet   string
}

func (Create) What() string  { return "create" }
func (Remove) What() string  { return "remove" }
func (Move) What() string    { return "move" }
func (Split) What() string   { return "split" }
func (Join) What() string    { return "join" }
func (Convert) What() string { return "convert" }
func (Create) isRefChange()  {}
func (Remove) isRefChange()  {}
func (Move) isRefChange()    {}
func (Split) isRefChange()   {}
func (Join) isRefChange()    {}
func (Convert) isRefChange() {}

func (c Create) Equal(o RefChange) bool {
	x, ok := o.(Create)
	return ok && c.Wallet == x.Wallet && c.Ref.Equal(x.Ref)
}

func (c Remove) Equal(o RefChange) bool {
	x, ok := o.(Remove)
	return ok && c.Wallet == x.Wallet && c.Ref.Equal(x.Ref)
}

func (c Move) Equal(o RefChange) bool {
	x, ok := o.(Move)
	return ok && c.FromWallet == x.FromWallet && c.ToWallet == x.ToWallet && c.Ref.Equal(x.Ref)
}

func (c Split) Equal(o RefChange) bool {
	x, ok := o.(Split)
	return ok && c.Wallet == x.Wallet && c.OriginalRef.Equal(x.OriginalRef) && Lots(c.ResultingRefs).Equal(x.ResultingRefs)
}

func (c Join) Equal(o RefChange) bool {
	x, ok := o.(Join)
	return ok && c.Wallet == x.Wallet && c.ResultingRef.Equal(x.ResultingRef) && Lots(c.OriginalRefs).Equal(x.OriginalRefs)
}

func (c Convert) Equal(o RefChange) bool {
	x, ok := o.(Convert)
	return ok && c.Wallet == x.Wallet && c.ToRef.Equal(x.ToRef) && Lots(c.FromRefs).Equal(x.FromRefs)
}

func (c Create) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Variant(c.What(), func(b *jsonObjectWriter) {
		b.Append("ref", c.Ref)
		b.Append("wallet", c.Wallet)
	})
	return w.MarshalJSON()
}

func (c Remove) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Variant(c.What(), func(b *jsonObjectWriter) {
		b.Append("ref", c.Ref)
		b.Append("wallet", c.Wallet)
	})
	return w.MarshalJSON()
}

func (c Move) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Variant(c.What(), func(b *jsonObjectWriter) {
		b.Append("ref", c.Ref)
		b.Append("fromWallet", c.FromWallet)
		b.Append("toWallet", c.ToWallet)
	})
	return w.MarshalJSON()
}

func (c Split) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Variant(c.What(), func(b *jsonObjectWriter) {
		b.Append("originalRef", c.OriginalRef)
		b.Append("resultingRefs", nonNil(c.ResultingRefs))
		b.Append("wallet", c.Wallet)
	})
	return w.MarshalJSON()
}

func (c Join) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Variant(c.What(), func(b *jsonObjectWriter) {
		b.Append("originalRefs", nonNil(c.OriginalRefs))
		b.Append("resultingRef", c.ResultingRef)
		b.Append("wallet", c.Wallet)
	})
	return w.MarshalJSON()
}

func (c Convert) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Variant(c.What(), func(b *jsonObjectWriter) {
		b.Append("fromRefs", nonNil(c.FromRefs))
		b.Append("toRef", c.ToRef)
		b.Append("wallet", c.Wallet)
	})
	return w.MarshalJSON()
}

func nonNil(refs []Ref) []Ref {
	if refs == nil {
		return []Ref{}
	}
	return refs
}

// DecodeRefChange decodes a ref change from its JSON discriminated union.
func DecodeRefChange(data []byte) (RefChange, error) {
	kind, body, err := decodeVariant(data, "ref change")
	if err != nil {
		return nil, err
	}
	var temp struct {
		Ref           Ref    `json:"ref"`
		Wallet        string `json:"wallet"`
		FromWallet    string `json:"fromWallet"`
		ToWallet      string `json:"toWallet"`
		OriginalRef   Ref    `json:"originalRef"`
		ResultingRefs []Ref  `json:"resultingRefs"`
		OriginalRefs  []Ref  `json:"originalRefs"`
		ResultingRef  Ref    `json:"resultingRef"`
		FromRefs      []Ref  `json:"fromRefs"`
		ToRef         Ref    `json:"toRef"`
	}
	if err := json.Unmarshal(body, &temp); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", kind)
	}
	switch kind {
	case "create":
		return Create{Ref: temp.Ref, Wallet: temp.Wallet}, nil
	case "remove":
		return Remove{Ref: temp.Ref, Wallet: temp.Wallet}, nil
	case "move":
		return Move{Ref: temp.Ref, FromWallet: temp.FromWallet, ToWallet: temp.ToWallet}, nil
	case "split":
		return Split{OriginalRef: temp.OriginalRef, ResultingRefs: temp.ResultingRefs, Wallet: temp.Wallet}, nil
	case "join":
		return Join{OriginalRefs: temp.OriginalRefs, ResultingRef: temp.ResultingRef, Wallet: temp.Wallet}, nil
	case "convert":
		return Convert{FromRefs: temp.FromRefs, ToRef: temp.ToRef, Wallet: temp.Wallet}, nil
	default:
		return nil, &UnknownEnumError{Type: "ref change", Value: kind}
	}
}

// BalanceChange is the audit record of one processed transaction.
type BalanceChange struct {
	Transaction Transaction
	Changes     []RefChange
}

// Equal reports whether both records are identical.
func (c BalanceChange) Equal(o BalanceChange) bool {
	if c.Transaction == nil || !c.Transaction.Equal(o.Transaction) {
		return c.Transaction == nil && o.Transaction == nil && slices.EqualFunc(c.Changes, o.Changes, RefChange.Equal)
	}
	return slices.EqualFunc(c.Changes, o.Changes, RefChange.Equal)
}

func (c BalanceChange) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("transaction", c.Transaction)
	changes := c.Changes
	if changes == nil {
		changes = []RefChange{}
	}
	w.Append("changes", changes)
	return w.MarshalJSON()
}

func (c *BalanceChange) UnmarshalJSON(data []byte) error {
	var temp struct {
		Transaction json.RawMessage   `json:"transaction"`
		Changes     []json.RawMessage `json:"changes"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	tx, err := DecodeTransaction(temp.Transaction)
	if err != nil {
		return err
	}
	changes := make([]RefChange, 0, len(temp.Changes))
	for _, raw := range temp.Changes {
		change, err := DecodeRefChange(raw)
		if err != nil {
			return err
		}
		changes = append(changes, change)
	}
	*c = BalanceChange{Transaction: tx, Changes: changes}
	return nil
}
