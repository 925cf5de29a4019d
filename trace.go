package satsnav

// LotEvent is one step in the life of a lot: the change that created it from
// its parents, or moved it to another wallet.
type LotEvent struct {
	Ref    Ref
	Wallet string
	What   string // the RefChange variant
	Change BalanceChange
}

// Trace is the ancestry of a lot, newest event first.
type Trace struct {
	Events []LotEvent
	// Parents is set when the chain ends at a lot made of several parents:
	// a join or a conversion of several lots. Each can be traced in turn.
	Parents []Ref
}

// Trace follows the lot id back through its single parents, up to a lot
// created from an entry or made of several parents. It reports false when
// no change produced the lot.
func (r *Result) Trace(id string) (*Trace, bool) {
	events := make(map[string][]LotEvent)
	refs := make(map[string]Ref)
	add := func(ref Ref, wallet string, rc RefChange, c BalanceChange) {
		events[ref.ID] = append(events[ref.ID], LotEvent{Ref: ref, Wallet: wallet, What: rc.What(), Change: c})
		if _, ok := refs[ref.ID]; !ok {
			refs[ref.ID] = ref
		}
	}
	for _, c := range r.Changes {
		for _, rc := range c.Changes {
			switch x := rc.(type) {
			case Create:
				add(x.Ref, x.Wallet, rc, c)
			case Move:
				add(x.Ref, x.ToWallet, rc, c)
			case Split:
				for _, ref := range x.ResultingRefs {
					add(ref, x.Wallet, rc, c)
				}
			case Join:
				add(x.ResultingRef, x.Wallet, rc, c)
			case Convert:
				add(x.ToRef, x.Wallet, rc, c)
			}
		}
	}
	if len(events[id]) == 0 {
		return nil, false
	}

	t := new(Trace)
	seen := make(map[string]bool)
	for !seen[id] && len(events[id]) > 0 {
		seen[id] = true
		evs := events[id]
		for i := len(evs) - 1; i >= 0; i-- {
			t.Events = append(t.Events, evs[i])
		}
		parents := refs[id].Parents
		if len(parents) > 1 {
			for _, p := range parents {
				if ref, ok := refs[p]; ok {
					t.Parents = append(t.Parents, ref)
				}
			}
			break
		}
		if len(parents) == 0 {
			break
		}
		id = parents[0]
	}
	return t, true
}
