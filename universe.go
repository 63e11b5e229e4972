package trinity

import (
	"fmt"
	"iter"
	"slices"
)

// Asset is one tradable ETF of the universe: a ticker and its permanent
// baseline weight. The baseline is held regardless of momentum; tilts are
// added on top of it at rebalancing time.
type Asset struct {
	Ticker   string
	Baseline Percent
}

// Universe is the fixed, ordered list of assets the strategy rotates over.
// Declaration order matters: it is the tie-break order for equal mean
// returns, so it is part of the configuration, not an accident of storage.
type Universe struct {
	assets []Asset
	index  map[string]int
}

// NewUniverse builds a universe from an ordered asset list.
// Tickers must be unique and baseline weights must sum to less than 100%:
// the remainder is the permanent cash floor.
func NewUniverse(assets []Asset) (*Universe, error) {
	u := &Universe{
		assets: slices.Clone(assets),
		index:  make(map[string]int, len(assets)),
	}
	var total Percent
	for i, a := range assets {
		if a.Ticker == "" {
			return nil, fmt.Errorf("asset %d has an empty ticker", i)
		}
		if _, dup := u.index[a.Ticker]; dup {
			return nil, fmt.Errorf("duplicate ticker %q in universe", a.Ticker)
		}
		if a.Baseline < 0 {
			return nil, fmt.Errorf("asset %q has a negative baseline weight", a.Ticker)
		}
		u.index[a.Ticker] = i
		total += a.Baseline
	}
	if total >= 1 {
		return nil, fmt.Errorf("baseline weights sum to %s, want less than 100%%", total)
	}
	return u, nil
}

// Len returns the number of assets in the universe.
func (u *Universe) Len() int { return len(u.assets) }

// Order returns the declaration position of the ticker, or -1.
func (u *Universe) Order(ticker string) int {
	i, ok := u.index[ticker]
	if !ok {
		return -1
	}
	return i
}

// Assets iterates over the assets in declaration order.
func (u *Universe) Assets() iter.Seq[Asset] {
	return func(yield func(Asset) bool) {
		for _, a := range u.assets {
			if !yield(a) {
				return
			}
		}
	}
}

// Tickers returns the tickers in declaration order.
func (u *Universe) Tickers() []string {
	tickers := make([]string, len(u.assets))
	for i, a := range u.assets {
		tickers[i] = a.Ticker
	}
	return tickers
}

// DefaultUniverse returns the Trinity ETF basket with its buy-and-hold
// baseline weights. Weights sum to 50.5%; the other 49.5% stays in cash
// until a tilt claims it.
func DefaultUniverse() *Universe {
	u, err := NewUniverse([]Asset{
		{Ticker: "MTUM", Baseline: 0.05},   // US stocks momentum
		{Ticker: "VTV", Baseline: 0.05},    // US stocks value
		{Ticker: "VEU", Baseline: 0.0675},  // foreign developed stocks
		{Ticker: "VWO", Baseline: 0.0225},  // foreign emerging stocks
		{Ticker: "VCIT", Baseline: 0.089},  // corporate bonds
		{Ticker: "VGLT", Baseline: 0.0675}, // 30y treasuries
		{Ticker: "BNDX", Baseline: 0.072},  // foreign bonds
		{Ticker: "VTIP", Baseline: 0.009},  // TIPS
		{Ticker: "DBC", Baseline: 0.025},   // commodities
		{Ticker: "IAU", Baseline: 0.025},   // gold
		{Ticker: "VNQ", Baseline: 0.0225},  // REITs
	})
	if err != nil {
		panic(err)
	}
	return u
}
