package satsnav

import (
	"time"

	"go.uber.org/zap"
)

// Options holds the policy decisions of a reconciliation run.
// The zero value is usable: unset fields take their default.
type Options struct {
	// Base is the settlement asset, never lot-tracked. Defaults to EUR.
	Base Asset
	// Policy selects the lots consumed first. Defaults to LIFO.
	Policy ConsumptionPolicy
	// TransferWindow is the maximum gap between both legs of a transfer
	// across wallets. Defaults to 24 hours.
	TransferWindow time.Duration
	// DustTolerance is the rounding dust, in units of least precision, above
	// which a trade is reported. Defaults to 5.
	DustTolerance int64
	// ConsolidateUnpriced merges unpriced lots received on the same day.
	ConsolidateUnpriced bool
	// Overrides provides user supplied rates and ignored entries.
	Overrides RateOverrides
	// Logger receives the run diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultTransferWindow is the default maximum gap between transfer legs.
const DefaultTransferWindow = 24 * time.Hour

// DefaultDustTolerance is the default dust tolerance in units of least precision.
const DefaultDustTolerance = 5

// withDefaults returns a copy of o with the unset fields defaulted.
func (o Options) withDefaults() Options {
	if o.Base == (Asset{}) {
		o.Base = DefaultBase
	}
	if o.TransferWindow <= 0 {
		o.TransferWindow = DefaultTransferWindow
	}
	if o.DustTolerance <= 0 {
		o.DustTolerance = DefaultDustTolerance
	}
	if o.Overrides == nil {
		o.Overrides = RateOverrideMap(nil)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
