package satsnav

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Balance holds the lots of every asset of every wallet.
// Empty collections are not kept.
type Balance map[string]map[Asset]Lots

// Lots returns the lots of asset in wallet, oldest first.
func (b Balance) Lots(wallet string, asset Asset) Lots { return b[wallet][asset] }

// Sum returns the total amount of asset held by wallet.
func (b Balance) Sum(wallet string, asset Asset) decimal.Decimal { return b[wallet][asset].Sum() }

// set replaces the lots of asset in wallet.
func (b Balance) set(wallet string, asset Asset, lots Lots) {
	if len(lots) == 0 {
		delete(b[wallet], asset)
		if len(b[wallet]) == 0 {
			delete(b, wallet)
		}
		return
	}
	if b[wallet] == nil {
		b[wallet] = make(map[Asset]Lots)
	}
	b[wallet][asset] = lots
}

// Wallets returns the wallet names in lexical order.
func (b Balance) Wallets() []string { return slices.Sorted(maps.Keys(b)) }

// Assets returns the assets held by wallet, sorted by name.
func (b Balance) Assets(wallet string) []Asset {
	return slices.SortedFunc(maps.Keys(b[wallet]), func(x, y Asset) int { return strings.Compare(x.Name, y.Name) })
}

// Total returns the total amount of asset across all wallets.
func (b Balance) Total(asset Asset) decimal.Decimal {
	sum := decimal.Zero
	for _, assets := range b {
		sum = sum.Add(assets[asset].Sum())
	}
	return sum
}

// Restrict returns the balance reduced to a single asset.
func (b Balance) Restrict(asset Asset) Balance {
	r := make(Balance)
	for wallet, assets := range b {
		r.set(wallet, asset, assets[asset])
	}
	return r
}

// Equal reports whether both balances hold identical lots.
func (b Balance) Equal(o Balance) bool {
	if len(b) != len(o) {
		return false
	}
	for wallet, assets := range b {
		other, ok := o[wallet]
		if !ok || len(other) != len(assets) {
			return false
		}
		for asset, lots := range assets {
			if !lots.Equal(other[asset]) {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the balance as wallet → asset name → lots, with keys sorted.
func (b Balance) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for _, wallet := range b.Wallets() {
		var assets jsonObjectWriter
		for _, asset := range b.Assets(wallet) {
			assets.Append(asset.Name, b[wallet][asset])
		}
		w.Append(wallet, &assets)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON decodes a balance. The asset of each collection is read from its lots.
func (b *Balance) UnmarshalJSON(data []byte) error {
	var temp map[string]map[string]Lots
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	r := make(Balance)
	for wallet, assets := range temp {
		for name, lots := range assets {
			for _, lot := range lots {
				if lot.Asset.Name != name {
					return errors.Errorf("lot %s of asset %s listed under %s/%s", lot.ID, lot.Asset, wallet, name)
				}
			}
			if len(lots) > 0 {
				r.set(wallet, lots[0].Asset, lots)
			}
		}
	}
	*b = r
	return nil
}

// String returns a human readable listing of the balance.
func (b Balance) String() string {
	var buf bytes.Buffer
	for _, wallet := range b.Wallets() {
		for _, asset := range b.Assets(wallet) {
			lots := b[wallet][asset]
			fmt.Fprintf(&buf, "%s %s: %s (%d lots)\n", wallet, asset, lots.Sum(), len(lots))
		}
	}
	return buf.String()
}
