package satsnav

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// AssetKind tells fiat currencies from crypto assets.
type AssetKind int

const (
	// Fiat is a government issued currency, like EUR.
	Fiat AssetKind = iota
	// Crypto is any crypto asset, like BTC.
	Crypto
)

func (k AssetKind) String() string {
	switch k {
	case Fiat:
		return "fiat"
	case Crypto:
		return "crypto"
	default:
		return "unknown"
	}
}

// ParseAssetKind parses a string into an AssetKind.
func ParseAssetKind(s string) (AssetKind, error) {
	switch s {
	case "fiat", "Fiat":
		return Fiat, nil
	case "crypto", "Crypto":
		return Crypto, nil
	default:
		return 0, &UnknownEnumError{Type: "asset type", Value: s}
	}
}

// MarshalJSON encodes the kind as its integer code.
func (k AssetKind) MarshalJSON() ([]byte, error) { return json.Marshal(int(k)) }

// UnmarshalJSON accepts either the integer code or the name.
func (k *AssetKind) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "asset type", int(Crypto), func(s string) (int, error) {
		kind, err := ParseAssetKind(s)
		return int(kind), err
	})
	if err != nil {
		return err
	}
	*k = AssetKind(v)
	return nil
}

// Asset identifies a currency or a crypto asset by name and kind.
type Asset struct {
	Name string    `json:"name"`
	Kind AssetKind `json:"type"`
}

// DefaultBase is the base asset when none is configured.
var DefaultBase = Asset{Name: "EUR", Kind: Fiat}

// NewAsset returns a new Asset.
func NewAsset(name string, kind AssetKind) Asset { return Asset{Name: name, Kind: kind} }

func (a Asset) String() string { return a.Name }

// IsCrypto reports whether the asset is a crypto asset.
func (a Asset) IsCrypto() bool { return a.Kind == Crypto }

// ParseAsset parses "NAME" or "NAME:kind". Without an explicit kind, a few
// well known currency names are Fiat and everything else is Crypto.
func ParseAsset(s string) (Asset, error) {
	if s == "" {
		return Asset{}, errors.New("empty asset")
	}
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			kind, err := ParseAssetKind(s[i+1:])
			if err != nil {
				return Asset{}, errors.Wrapf(err, "asset %q", s)
			}
			return NewAsset(s[:i], kind), nil
		}
	}
	if fiatNames[s] {
		return NewAsset(s, Fiat), nil
	}
	return NewAsset(s, Crypto), nil
}

var fiatNames = map[string]bool{"EUR": true, "USD": true, "GBP": true, "CHF": true, "JPY": true, "CAD": true, "AUD": true}

// decodeEnum decodes an integer code in [0, max] or a name into an int.
func decodeEnum(data []byte, typ string, max int, parse func(string) (int, error)) (int, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return checkEnum(typ, n, max)
		}
		return parse(s)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, &UnknownEnumError{Type: typ, Value: string(data)}
	}
	return checkEnum(typ, n, max)
}

func checkEnum(typ string, n, max int) (int, error) {
	if n < 0 || n > max {
		return 0, &UnknownEnumError{Type: typ, Value: strconv.Itoa(n)}
	}
	return n, nil
}
