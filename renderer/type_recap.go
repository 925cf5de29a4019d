package renderer

import (
	"strings"

	"github.com/etnz/satsnav"
)

// Recap lists the holdings of every wallet.
type Recap struct {
	// Tracked is the asset wallets are ranked by.
	Tracked string        `json:"tracked"`
	Wallets []RecapWallet `json:"wallets"`
}

// RecapWallet is one wallet of the recap.
type RecapWallet struct {
	Wallet  string `json:"wallet"`
	Lots    int    `json:"lots"`
	Tracked string `json:"tracked"`
	// Others lists the other assets held, like "2.00000000 ETH, €12.00".
	Others string `json:"others,omitempty"`
}

// NewRecap formats recaps in the order they are given.
func NewRecap(recaps []satsnav.WalletRecap, tracked satsnav.Asset) *Recap {
	v := &Recap{Tracked: tracked.Name, Wallets: []RecapWallet{}}
	for _, r := range recaps {
		var others []string
		for _, a := range r.Assets() {
			if a != tracked {
				others = append(others, satsnav.FormatAmount(r.SumByAsset[a], a))
			}
		}
		v.Wallets = append(v.Wallets, RecapWallet{
			Wallet:  r.Wallet,
			Lots:    r.Count,
			Tracked: quantity(r.SumByAsset[tracked], tracked),
			Others:  strings.Join(others, ", "),
		})
	}
	return v
}
