package renderer

import (
	"fmt"

	"github.com/etnz/satsnav"
)

// Transaction renders a transaction to a string.
func Transaction(tx satsnav.Transaction) string {
	switch v := tx.(type) {
	case satsnav.Single:
		e := v.Entry
		return fmt.Sprintf("%s of %s in %s", e.Kind.Label(), satsnav.FormatAmount(e.Amount.Abs(), e.Asset), e.Wallet)
	case satsnav.Trade:
		return fmt.Sprintf("Traded %s for %s in %s",
			satsnav.FormatAmount(v.Spend.Amount.Abs(), v.Spend.Asset),
			satsnav.FormatAmount(v.Receive.Amount, v.Receive.Asset),
			v.Receive.Wallet)
	case satsnav.Transfer:
		return fmt.Sprintf("Transferred %s from %s to %s",
			satsnav.FormatAmount(v.To.Amount, v.To.Asset), v.From.Wallet, v.To.Wallet)
	default:
		return tx.What()
	}
}
