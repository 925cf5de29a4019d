package renderer

import (
	"time"

	"github.com/etnz/satsnav"
)

// Trace is the ancestry of one lot.
type Trace struct {
	Lot     string       `json:"lot"`
	Events  []TraceEvent `json:"events"`
	Parents []string     `json:"parents,omitempty"`
}

// TraceEvent is one step of the ancestry, newest first.
type TraceEvent struct {
	What        string `json:"what"`
	Lot         string `json:"lot"`
	Wallet      string `json:"wallet"`
	Received    string `json:"received"`
	Rate        string `json:"rate"`
	Transaction string `json:"transaction"`
}

// NewTrace formats the ancestry t of lot id.
func NewTrace(id string, t *satsnav.Trace) *Trace {
	v := &Trace{Lot: id, Events: []TraceEvent{}}
	for _, e := range t.Events {
		v.Events = append(v.Events, TraceEvent{
			What:        e.What,
			Lot:         refs(e.Ref),
			Wallet:      e.Wallet,
			Received:    e.Ref.Date.UTC().Format(time.DateTime),
			Rate:        satsnav.FormatRate(e.Ref.Rate, satsnav.Crypto),
			Transaction: Transaction(e.Change.Transaction),
		})
	}
	for _, p := range t.Parents {
		v.Parents = append(v.Parents, refs(p))
	}
	return v
}
