package trinity

// AllocationTarget maps each asset to its target fraction of portfolio
// value for one rebalancing. Fractions need not sum to 1: the unallocated
// remainder is implicitly cash. It is computed fresh at each month-end and
// never persisted.
type AllocationTarget map[string]Percent

// TiltPolicy is the Trinity allocation rule: hold every asset at its
// baseline weight, and add a fixed tilt to assets that are both momentum
// leaders (rank within the top K) and trading above trend.
type TiltPolicy struct {
	TopK int     // rank threshold, inclusive
	Tilt Percent // increment added to each qualifying asset
}

// DefaultPolicy matches the original strategy: top 5 of the universe, +20%.
func DefaultPolicy() TiltPolicy {
	return TiltPolicy{TopK: 5, Tilt: 0.20}
}

// TargetWeights combines ranks and trend flags into target weights.
// Assets absent from 'ranks' (not yet listed) stay at their baseline.
// This is a pure function: no ledger access, no side effects.
func (p TiltPolicy) TargetWeights(u *Universe, ranks map[string]ReturnRank, aboveTrend map[string]bool) AllocationTarget {
	target := make(AllocationTarget, u.Len())
	for a := range u.Assets() {
		w := a.Baseline
		if rr, ok := ranks[a.Ticker]; ok && rr.Rank <= p.TopK && aboveTrend[a.Ticker] {
			w += p.Tilt
		}
		target[a.Ticker] = w
	}
	return target
}
