package renderer

import (
	"github.com/etnz/satsnav"
)

// Diagnostics summarizes what a reconciliation run could not settle.
type Diagnostics struct {
	// Clean is true when there is nothing to report.
	Clean          bool                  `json:"clean"`
	Counts         []DiagnosticsCount    `json:"counts"`
	Unmatched      []DetailEntry         `json:"unmatched,omitempty"`
	Dust           []string              `json:"dust,omitempty"`
	MissingIgnored []string              `json:"missingIgnored,omitempty"`
	Mismatches     []DiagnosticsMismatch `json:"mismatches,omitempty"`
}

// DiagnosticsCount is one counter of the run.
type DiagnosticsCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DiagnosticsMismatch is a wallet whose lots disagree with its transactions.
type DiagnosticsMismatch struct {
	Wallet   string `json:"wallet"`
	Asset    string `json:"asset"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// NewDiagnostics formats the findings of a run.
func NewDiagnostics(d *satsnav.Diagnostics, mismatches []satsnav.Mismatch) *Diagnostics {
	v := &Diagnostics{
		Clean: d.Clean() && len(mismatches) == 0,
		Counts: []DiagnosticsCount{
			{"Leftover trade legs", d.LeftoverTrades},
			{"Leftover transfer legs", d.LeftoverTransfers},
			{"Replaced transfer legs", d.ReplacedTransfers},
			{"Unmatched transfers", len(d.Unmatched)},
			{"Ignored entries", d.Ignored},
			{"Missing ignored ids", len(d.MissingIgnored)},
			{"Zero amount rows", d.ZeroDropped},
			{"Dust warnings", len(d.DustWarnings)},
			{"Balance mismatches", len(mismatches)},
		},
		MissingIgnored: d.MissingIgnored,
	}
	for _, e := range d.Unmatched {
		v.Unmatched = append(v.Unmatched, newDetailEntry(e))
	}
	for _, w := range d.DustWarnings {
		v.Dust = append(v.Dust, w.String())
	}
	for _, m := range mismatches {
		v.Mismatches = append(v.Mismatches, DiagnosticsMismatch{
			Wallet:   m.Wallet,
			Asset:    m.Asset.Name,
			Expected: quantity(m.Expected, m.Asset),
			Actual:   quantity(m.Actual, m.Asset),
		})
	}
	return v
}
