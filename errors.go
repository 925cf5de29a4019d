package satsnav

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrOutOfOrder is returned when transactions are not fed in ascending date order.
var ErrOutOfOrder = errors.New("transactions out of date order")

// ErrNotApplicable is returned when an operation has nothing to act upon.
var ErrNotApplicable = errors.New("not applicable")

// BalanceUnderflowError is returned when a wallet is asked to give away more
// of an asset than it holds. The input ledger is inconsistent.
type BalanceUnderflowError struct {
	Wallet    string
	Asset     Asset
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *BalanceUnderflowError) Error() string {
	return fmt.Sprintf("balance underflow in %s/%s: requested %s, available %s", e.Wallet, e.Asset, e.Requested, e.Available)
}

// UnknownEnumError is returned when an entry type or asset type cannot be decoded.
type UnknownEnumError struct {
	Type  string
	Value string
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Type, e.Value)
}

// InvariantError reports a broken internal invariant. It always denotes a bug.
type InvariantError struct {
	Wallet   string
	Asset    Asset
	Expected decimal.Decimal
	Actual   decimal.Decimal
	Context  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated (%s) in %s/%s: expected %s, got %s", e.Context, e.Wallet, e.Asset, e.Expected, e.Actual)
}
