package trinity

import (
	"fmt"
	"log"
	"sort"
)

// Window offsets, in calendar month-ends, of the blended momentum measure.
var returnWindows = [4]int{1, 3, 6, 12}

// ReturnRank holds the trailing blended return of one asset on one as-of
// date, and its rank across the universe (1 = highest mean return).
type ReturnRank struct {
	R1M, R3M, R6M, R1Y Percent
	Mean               Percent
	Rank               int
}

// windowReturn computes the total return of the adjusted close series over
// the window ending at 'on' and starting at the month-end 'months' before it.
// Each endpoint resolves to the last observation on or before it; the window
// is invalid when the series has no observation on or before the start.
func windowReturn(adj *Series, on Date, months int) (Percent, bool) {
	start, ok := adj.ValueAsOf(on.MonthEndBefore(months))
	if !ok || start == 0 {
		return 0, false
	}
	end, ok := adj.ValueAsOf(on)
	if !ok {
		return 0, false
	}
	return Percent(end/start - 1), true
}

// ComputeRanks computes the 1/3/6/12-month total returns over adjusted close
// for every universe asset as of 'on', and ranks the valid assets by the
// equal-weight mean, descending. Assets with any invalid window (not yet
// listed) are excluded entirely, never given a sentinel rank. Ties keep the
// universe declaration order, which makes the ranking deterministic.
func ComputeRanks(on Date, u *Universe, market *MarketData) (map[string]ReturnRank, error) {
	type scored struct {
		ticker string
		rr     ReturnRank
	}
	valid := make([]scored, 0, u.Len())
	for _, ticker := range u.Tickers() {
		adj := market.Series(ticker, AdjClose)
		var rr ReturnRank
		windows := [4]*Percent{&rr.R1M, &rr.R3M, &rr.R6M, &rr.R1Y}
		listed := true
		for i, months := range returnWindows {
			r, ok := windowReturn(adj, on, months)
			if !ok {
				listed = false
				break
			}
			*windows[i] = r
		}
		if !listed {
			continue
		}
		rr.Mean = (rr.R1M + rr.R3M + rr.R6M + rr.R1Y) / 4
		valid = append(valid, scored{ticker: ticker, rr: rr})
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no asset has a full return history on %s: %w", on, ErrMissingPrice)
	}
	// Stable: equal means keep universe declaration order.
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].rr.Mean > valid[j].rr.Mean })
	out := make(map[string]ReturnRank, len(valid))
	for i, s := range valid {
		s.rr.Rank = i + 1
		out[s.ticker] = s.rr
	}
	return out, nil
}

// RankTable is the per-month-end history of return ranks. It is extended
// incrementally as new price data arrives; extending in several steps yields
// exactly the same table as one computation over the whole span.
type RankTable struct {
	dates   []Date
	records map[Date]map[string]ReturnRank
}

// NewRankTable returns an empty rank table.
func NewRankTable() *RankTable {
	return &RankTable{records: make(map[Date]map[string]ReturnRank)}
}

// LastDate returns the most recent as-of date in the table.
func (t *RankTable) LastDate() (Date, bool) {
	if len(t.dates) == 0 {
		return Date{}, false
	}
	return t.dates[len(t.dates)-1], true
}

// Get returns the rank records for an as-of date.
func (t *RankTable) Get(on Date) (map[string]ReturnRank, bool) {
	rr, ok := t.records[on]
	return rr, ok
}

// Dates returns the as-of dates in chronological order.
func (t *RankTable) Dates() []Date { return t.dates }

// Extend computes rank records for every month-end trading date in (last,
// through] not yet present, walking the supplied calendar. Month-ends whose
// universe has no fully listed asset yet are skipped with a log line.
func (t *RankTable) Extend(through Date, cal *Calendar, u *Universe, market *MarketData) error {
	after := Date{}
	if last, ok := t.LastDate(); ok {
		after = last
	}
	first, ok := cal.First()
	if !ok {
		return fmt.Errorf("empty trading calendar")
	}
	if after.IsZero() {
		after = first.Add(-1)
	}
	for on := range cal.MonthEnds(after.Add(1), through) {
		records, err := ComputeRanks(on, u, market)
		if err != nil {
			log.Printf("ranks: skipping %s: %v", on, err)
			continue
		}
		t.dates = append(t.dates, on)
		t.records[on] = records
	}
	return nil
}
