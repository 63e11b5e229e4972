package trinity

import (
	"testing"
	"time"
)

// testUniverse is a small three-asset universe: one flat, one rising, one
// falling price path, all with a 10% baseline.
func testUniverse(t *testing.T) *Universe {
	t.Helper()
	u, err := NewUniverse([]Asset{
		{Ticker: "AAA", Baseline: 0.10},
		{Ticker: "BBB", Baseline: 0.10},
		{Ticker: "CCC", Baseline: 0.10},
	})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

// testMarket builds two years of synthetic bars, three trading days per
// month (the 5th, 15th and 25th), so the 25th is always the month-end.
// AAA is flat at 10, BBB rises by 1 per trading day from 10, CCC falls by
// 1 per trading day from 100. Open, close and adjusted close are equal.
func testMarket(t *testing.T, u *Universe) (*MarketData, *Calendar) {
	t.Helper()
	return testMarketUntil(t, u, NewDate(2021, time.December, 25))
}

// testMarketUntil is testMarket truncated at a cutoff date, as if the data
// had last been refreshed that day. Price paths are identical up to the cut.
func testMarketUntil(t *testing.T, u *Universe, cutoff Date) (*MarketData, *Calendar) {
	t.Helper()
	m := NewMarketData()
	idx := 0
	for month := 0; month < 24; month++ {
		for _, d := range []int{5, 15, 25} {
			on := NewDate(2020, time.Month(1+month), d)
			if !on.After(cutoff) {
				m.AppendBar("AAA", on, 10, 10, 10)
				b := float64(10 + idx)
				m.AppendBar("BBB", on, b, b, b)
				c := float64(100 - idx)
				m.AppendBar("CCC", on, c, c, c)
			}
			idx++
		}
	}
	cal, err := m.Calendar(u.Tickers())
	if err != nil {
		t.Fatal(err)
	}
	return m, cal
}

// checkInvariant asserts value = cash + sum(shares * close) on every
// revalued entry of the ledger.
func checkInvariant(t *testing.T, l *Ledger) {
	t.Helper()
	for e := range l.Entries() {
		value, ok := e.Value()
		if !ok {
			t.Fatalf("entry %s has not been revalued", e.On())
		}
		want := e.Cash()
		for _, ticker := range l.Universe().Tickers() {
			close, marked := e.ClosePrice(ticker)
			if !marked {
				if e.Shares(ticker) > 0 {
					t.Fatalf("entry %s holds %s with no close", e.On(), ticker)
				}
				continue
			}
			want = want.Add(close.MulShares(e.Shares(ticker)))
		}
		if !value.Equal(want) {
			t.Errorf("entry %s: value %s, want %s", e.On(), value, want)
		}
	}
}
