package trinity

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b Percent) bool { return math.Abs(float64(a-b)) < 1e-9 }

func TestComputeRanks(t *testing.T) {
	u := testUniverse(t)
	market, _ := testMarket(t, u)
	on := MustParse("2021-06-25")

	ranks, err := ComputeRanks(on, u, market)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranks) != 3 {
		t.Fatalf("got %d ranked assets, want 3", len(ranks))
	}

	// BBB: 63 on the as-of date; 60, 54, 45 and 27 on the window anchors.
	bbb := ranks["BBB"]
	if !almostEqual(bbb.R1M, 63.0/60-1) || !almostEqual(bbb.R3M, 63.0/54-1) ||
		!almostEqual(bbb.R6M, 63.0/45-1) || !almostEqual(bbb.R1Y, 63.0/27-1) {
		t.Errorf("BBB windows = %+v", bbb)
	}
	if !almostEqual(bbb.Mean, (bbb.R1M+bbb.R3M+bbb.R6M+bbb.R1Y)/4) {
		t.Errorf("BBB mean = %v", bbb.Mean)
	}

	// Rising beats flat beats falling.
	if bbb.Rank != 1 || ranks["AAA"].Rank != 2 || ranks["CCC"].Rank != 3 {
		t.Errorf("ranks = BBB:%d AAA:%d CCC:%d", bbb.Rank, ranks["AAA"].Rank, ranks["CCC"].Rank)
	}
	if ranks["AAA"].Mean != 0 {
		t.Errorf("flat asset mean = %v, want 0", ranks["AAA"].Mean)
	}
	if ranks["CCC"].Mean >= 0 {
		t.Errorf("falling asset mean = %v, want negative", ranks["CCC"].Mean)
	}
}

func TestComputeRanksTiesKeepDeclarationOrder(t *testing.T) {
	u, err := NewUniverse([]Asset{
		{Ticker: "DDD", Baseline: 0.1},
		{Ticker: "EEE", Baseline: 0.1},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := NewMarketData()
	for month := 0; month < 14; month++ {
		on := NewDate(2020, time.Month(1+month), 28)
		m.AppendBar("DDD", on, 10, 10, 10)
		m.AppendBar("EEE", on, 20, 20, 20)
	}

	ranks, err := ComputeRanks(NewDate(2021, 2, 28), u, m)
	if err != nil {
		t.Fatal(err)
	}
	// Both assets are flat: equal means, declaration order breaks the tie.
	if ranks["DDD"].Rank != 1 || ranks["EEE"].Rank != 2 {
		t.Errorf("ranks = DDD:%d EEE:%d, want 1 and 2", ranks["DDD"].Rank, ranks["EEE"].Rank)
	}
}

func TestComputeRanksExcludesUnlistedAssets(t *testing.T) {
	u, err := NewUniverse([]Asset{
		{Ticker: "OLD", Baseline: 0.1},
		{Ticker: "NEW", Baseline: 0.1},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := NewMarketData()
	for month := 0; month < 30; month++ {
		on := NewDate(2020, time.Month(1+month), 28)
		m.AppendBar("OLD", on, 10, 10, 10)
		if on.After(MustParse("2021-01-01")) {
			m.AppendBar("NEW", on, 10, 10, 10)
		}
	}

	// Before NEW has a year of history it is excluded, never given a
	// sentinel rank.
	ranks, err := ComputeRanks(NewDate(2021, 6, 28), u, m)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ranks["NEW"]; ok {
		t.Error("asset with a partial history was ranked")
	}
	if ranks["OLD"].Rank != 1 {
		t.Errorf("OLD rank = %d, want 1", ranks["OLD"].Rank)
	}

	// A year after listing it joins the ranking.
	ranks, err = ComputeRanks(NewDate(2022, 4, 28), u, m)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ranks["NEW"]; !ok {
		t.Error("asset with a full history was not ranked")
	}

	// No asset listed at all: an error, not an empty ranking.
	if _, err := ComputeRanks(NewDate(2019, 6, 28), u, m); err == nil {
		t.Error("expected an error when no asset has a full history")
	}
}

func TestRankTableExtendIncremental(t *testing.T) {
	u := testUniverse(t)
	market, cal := testMarket(t, u)
	last, _ := cal.Last()

	whole := NewRankTable()
	if err := whole.Extend(last, cal, u, market); err != nil {
		t.Fatal(err)
	}

	split := NewRankTable()
	if err := split.Extend(MustParse("2021-03-25"), cal, u, market); err != nil {
		t.Fatal(err)
	}
	if err := split.Extend(last, cal, u, market); err != nil {
		t.Fatal(err)
	}

	// Extending in two steps yields exactly the one-shot table.
	a, b := whole.Dates(), split.Dates()
	if len(a) != len(b) {
		t.Fatalf("got %d dates in two steps, %d in one", len(b), len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("date %d differs: %s vs %s", i, a[i], b[i])
		}
		wr, _ := whole.Get(a[i])
		sr, _ := split.Get(b[i])
		for ticker, rr := range wr {
			if sr[ticker] != rr {
				t.Errorf("%s %s: %+v vs %+v", a[i], ticker, rr, sr[ticker])
			}
		}
	}

	// The first month-end with a full year of history is 2021-01-25.
	if first := a[0]; first != MustParse("2021-01-25") {
		t.Errorf("first ranked month-end = %s, want 2021-01-25", first)
	}
}
