package trinity

import (
	"errors"
	"fmt"
	"log"
)

// Simulation walks a ledger forward one trading day at a time, executing the
// Trinity rotation at month-ends. It owns no state of its own: all mutable
// state lives in the ledger, all market data is read-only.
type Simulation struct {
	Universe *Universe
	Policy   TiltPolicy
	Market   *MarketData
	Calendar *Calendar
	Ranks    *RankTable
	Window   int // trend filter window in trading days
}

// NewSimulation assembles a simulation with the default policy and trend window.
func NewSimulation(u *Universe, market *MarketData, cal *Calendar) *Simulation {
	return &Simulation{
		Universe: u,
		Policy:   DefaultPolicy(),
		Market:   market,
		Calendar: cal,
		Ranks:    NewRankTable(),
		Window:   TrendWindow,
	}
}

// Run advances the ledger day by day up to 'until' inclusive. It is
// restartable: it resumes strictly after the ledger's newest entry and never
// re-applies trades already committed, so running [d0,d2] in one pass or as
// [d0,d1] then [d1,d2] produces the same ledger.
//
// 'until' is clamped to the calendar's last completed month-end. The
// calendar's trailing day cannot be proven to close its month (market data
// normally ends mid-month after a refresh), and committing it would execute
// a rotation that a later refresh reinterprets as a mid-month trade. The
// held-back days replay on the next run once more data confirms them.
//
// A day is processed atomically: when any step fails the error is returned
// before the day's Revalue, and the ledger's last consistent state is the
// previous day. Partial days are never observable after a clean stop.
func (s *Simulation) Run(ledger *Ledger, until Date) error {
	last := ledger.Last().On()
	if !s.Calendar.Contains(last) {
		return fmt.Errorf("ledger date %s: %w", last, ErrCalendarMisalignment)
	}
	if end, ok := s.Calendar.LastCompletedMonthEnd(); !ok {
		until = last
	} else if end.Before(until) {
		until = end
	}
	if err := s.Ranks.Extend(until, s.Calendar, s.Universe, s.Market); err != nil {
		return err
	}
	if _, ok := ledger.First().Value(); !ok && ledger.Len() == 1 {
		// Inception entry: commit the all-cash state before walking.
		if err := ledger.Revalue(last); err != nil {
			return err
		}
	}
	for day := range s.Calendar.Days(last, until) {
		if err := s.step(ledger, last, day); err != nil {
			// A partial day must never be observable: drop it so the ledger
			// stays at its last fully revalued entry.
			ledger.rollback(day)
			return fmt.Errorf("simulation halted on %s: %w", day, err)
		}
		last = day
	}
	return nil
}

// step runs one full day transition: roll forward, rebalance on month-ends,
// mark closes, accrue dividends, revalue.
func (s *Simulation) step(ledger *Ledger, prior, day Date) error {
	if err := ledger.RollForward(prior, day); err != nil {
		return err
	}
	monthEnd, err := s.Calendar.IsMonthEnd(day)
	if err != nil {
		return err
	}
	if monthEnd {
		if err := s.rebalance(ledger, day); err != nil {
			return err
		}
	}
	for _, ticker := range s.Universe.Tickers() {
		if err := s.markClose(ledger, day, ticker); err != nil {
			return err
		}
	}
	// Dividends accrue on the shares held after the day's trades.
	for _, ticker := range s.Universe.Tickers() {
		if perShare := s.Market.Dividend(ticker, day); perShare > 0 {
			if err := ledger.AccrueDividend(day, ticker, M(perShare)); err != nil {
				return err
			}
		}
	}
	return ledger.Revalue(day)
}

// markClose marks the day's closing price. An asset with no bar that day is
// tolerated only while nothing of it is held (pre-inception); otherwise the
// missing price is fatal, Revalue would corrupt the valuation.
func (s *Simulation) markClose(ledger *Ledger, day Date, ticker string) error {
	price, err := s.Market.Price(ticker, day, Close)
	if err != nil {
		if errors.Is(err, ErrMissingPrice) && ledger.Last().Shares(ticker) == 0 {
			return nil
		}
		return err
	}
	return ledger.MarkClose(day, ticker, M(price))
}

// rebalance executes the month-end rotation: compute target weights, then
// sell down to target before buying up to target, both at the day's opening
// price, so sale proceeds fund the buys within the same day.
func (s *Simulation) rebalance(ledger *Ledger, day Date) error {
	ranks, ok := s.Ranks.Get(day)
	if !ok {
		return fmt.Errorf("no rank record for month-end %s: %w", day, ErrMissingPrice)
	}
	trends := make(map[string]bool, s.Universe.Len())
	for _, ticker := range s.Universe.Tickers() {
		if _, ranked := ranks[ticker]; !ranked {
			continue // unranked assets cannot be tilted
		}
		above, err := AboveTrend(s.Market.Series(ticker, Close), day, s.Window)
		if err != nil {
			return fmt.Errorf("trend filter for %s: %w", ticker, err)
		}
		trends[ticker] = above
	}
	target := s.Policy.TargetWeights(s.Universe, ranks, trends)

	// Targets are sized against the last finalized valuation, never against
	// the same-day prices the trades execute at.
	basis, ok2 := ledger.entries[len(ledger.entries)-2].Value()
	if !ok2 {
		return fmt.Errorf("no prior valuation before %s: %w", day, ErrLedgerDesync)
	}

	deltas := make(map[string]int64, s.Universe.Len())
	opens := make(map[string]Money, s.Universe.Len())
	for _, ticker := range s.Universe.Tickers() {
		open, err := s.Market.Price(ticker, day, Open)
		if err != nil {
			return err
		}
		opens[ticker] = M(open)
		want := basis.MulPercent(target[ticker]).FloorDiv(opens[ticker])
		deltas[ticker] = want - ledger.Last().Shares(ticker)
	}
	// Sell phase first: proceeds become buying power for the buy phase.
	for _, ticker := range s.Universe.Tickers() {
		if d := deltas[ticker]; d < 0 {
			if err := ledger.Sell(day, ticker, -d, opens[ticker].MulShares(-d)); err != nil {
				return err
			}
		}
	}
	for _, ticker := range s.Universe.Tickers() {
		if d := deltas[ticker]; d > 0 {
			err := ledger.Buy(day, ticker, d, opens[ticker].MulShares(d))
			if errors.Is(err, ErrInsufficientFunds) {
				log.Printf("rebalance %s: %v", day, err)
			} else if err != nil {
				return err
			}
		}
	}
	return nil
}
