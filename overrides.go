package satsnav

import (
	"encoding/json"
	"io"
	"maps"
	"slices"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// RateOverride is a user decision about one ledger entry.
type RateOverride struct {
	Rate    decimal.NullDecimal `json:"rate"`
	Ignored bool                `json:"ignored,omitempty"`
	Comment string              `json:"comment,omitempty"`
}

// RateOverrides looks up user decisions by entry global id.
type RateOverrides interface {
	// RateOverride returns the decision about the entry, if any.
	RateOverride(globalID string) (RateOverride, bool)
	// IgnoredIDs returns the global ids of the entries to ignore, sorted.
	IgnoredIDs() []string
}

// RateOverrideMap is a RateOverrides backed by a map. A nil map holds no override.
type RateOverrideMap map[string]RateOverride

func (m RateOverrideMap) RateOverride(globalID string) (RateOverride, bool) {
	o, ok := m[globalID]
	return o, ok
}

func (m RateOverrideMap) IgnoredIDs() []string {
	var ids []string
	for _, id := range slices.Sorted(maps.Keys(m)) {
		if m[id].Ignored {
			ids = append(ids, id)
		}
	}
	return ids
}

// DecodeRateOverrides decodes a JSON object of global id to rate override.
func DecodeRateOverrides(r io.Reader) (RateOverrideMap, error) {
	m := make(RateOverrideMap)
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "invalid rate overrides")
	}
	return m, nil
}
