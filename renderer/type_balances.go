package renderer

import (
	"time"

	"github.com/etnz/satsnav"
)

// Balances lists the lots held by every wallet.
type Balances struct {
	Wallets []BalancesWallet `json:"wallets"`
}

// BalancesWallet groups the lots of one wallet by asset.
type BalancesWallet struct {
	Wallet string          `json:"wallet"`
	Assets []BalancesAsset `json:"assets"`
}

// BalancesAsset lists the lots of one asset, oldest first.
type BalancesAsset struct {
	Asset string        `json:"asset"`
	Total string        `json:"total"`
	Lots  []BalancesLot `json:"lots"`
}

// BalancesLot is one lot.
type BalancesLot struct {
	ID       string `json:"id"`
	Received string `json:"received"`
	Amount   string `json:"amount"`
	Rate     string `json:"rate"`
}

// NewBalances formats b, wallets and assets sorted by name.
func NewBalances(b satsnav.Balance) *Balances {
	v := &Balances{Wallets: []BalancesWallet{}}
	for _, wallet := range b.Wallets() {
		w := BalancesWallet{Wallet: wallet}
		for _, asset := range b.Assets(wallet) {
			lots := b.Lots(wallet, asset)
			a := BalancesAsset{Asset: asset.Name, Total: quantity(lots.Sum(), asset)}
			for _, r := range lots {
				a.Lots = append(a.Lots, BalancesLot{
					ID:       r.ID,
					Received: r.Date.UTC().Format(time.DateTime),
					Amount:   quantity(r.Amount, asset),
					Rate:     satsnav.FormatRate(r.Rate, satsnav.Crypto),
				})
			}
			w.Assets = append(w.Assets, a)
		}
		v.Wallets = append(v.Wallets, w)
	}
	return v
}
