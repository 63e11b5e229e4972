package trinity

import (
	"fmt"
	"log"
	"slices"
)

// PriceField selects which price series of a bar history to read.
type PriceField string

const (
	Open     PriceField = "open"
	Close    PriceField = "close"
	AdjClose PriceField = "adjusted_close"
)

// bars holds the per-asset price and dividend history.
type bars struct {
	open, close, adj Series
	dividends        Series
}

// MarketData holds the daily price and dividend history for a set of assets.
// All external data is pushed into it before a simulation runs; the ledger
// never reads a provider directly.
type MarketData struct {
	index map[string]*bars
}

// NewMarketData returns a new empty market data collection.
func NewMarketData() *MarketData {
	return &MarketData{index: make(map[string]*bars)}
}

func (m *MarketData) bars(ticker string) *bars {
	b, ok := m.index[ticker]
	if !ok {
		b = &bars{}
		m.index[ticker] = b
	}
	return b
}

// AppendBar records one daily bar for a ticker.
func (m *MarketData) AppendBar(ticker string, on Date, open, close, adj float64) {
	b := m.bars(ticker)
	b.open.Append(on, open)
	b.close.Append(on, close)
	b.adj.Append(on, adj)
}

// AppendDividend records a per-share cash dividend on its ex-date.
func (m *MarketData) AppendDividend(ticker string, on Date, perShare float64) {
	m.bars(ticker).dividends.Append(on, perShare)
}

// Series returns the requested price series for a ticker. The returned
// series is live: appending bars extends it.
func (m *MarketData) Series(ticker string, field PriceField) *Series {
	b := m.bars(ticker)
	switch field {
	case Open:
		return &b.open
	case Close:
		return &b.close
	case AdjClose:
		return &b.adj
	default:
		panic(fmt.Sprintf("unknown price field %q", field))
	}
}

// Price returns the price of the ticker on an exact date. It fails with
// ErrMissingPrice when the asset has no bar that day.
func (m *MarketData) Price(ticker string, on Date, field PriceField) (float64, error) {
	v, ok := m.Series(ticker, field).Get(on)
	if !ok {
		return 0, fmt.Errorf("%s has no %s price on %s: %w", ticker, field, on, ErrMissingPrice)
	}
	return v, nil
}

// Dividend returns the per-share dividend payable on the date, zero when none.
func (m *MarketData) Dividend(ticker string, on Date) float64 {
	v, _ := m.bars(ticker).dividends.Get(on)
	return v
}

// LastBarDate returns the most recent bar date across all tickers.
func (m *MarketData) LastBarDate() (Date, bool) {
	var last Date
	var any bool
	for _, b := range m.index {
		if on, _ := b.close.Latest(); !on.IsZero() && on.After(last) {
			last, any = on, true
		}
	}
	return last, any
}

// Calendar derives the trading calendar from the close bars of the given
// tickers: a date counts as a trading day when every listed asset has a bar.
// Assets not yet trading on a date are skipped, matching how the original
// data set only begins once all assets exist.
func (m *MarketData) Calendar(tickers []string) (*Calendar, error) {
	counts := make(map[Date]int)
	inception := make(map[Date]int) // how many assets already listed on that date
	firsts := make([]Date, 0, len(tickers))
	var all []Date
	for _, t := range tickers {
		s := &m.bars(t).close
		first, ok := s.FirstDate()
		if !ok {
			continue // never listed, contributes nothing
		}
		firsts = append(firsts, first)
		for on := range s.Values() {
			if counts[on] == 0 {
				all = append(all, on)
			}
			counts[on]++
		}
	}
	for _, on := range all {
		for _, f := range firsts {
			if !on.Before(f) {
				inception[on]++
			}
		}
	}
	days := make([]Date, 0, len(all))
	for _, on := range all {
		if counts[on] == inception[on] {
			days = append(days, on)
		} else {
			log.Printf("calendar: dropping %s, only %d of %d listed assets have a bar", on, counts[on], inception[on])
		}
	}
	// NewCalendar sorts nothing: order the candidates first.
	slices.SortFunc(days, Date.Compare)
	return NewCalendar(days)
}

// Provider is the external market-data collaborator contract.
// Implementations fetch daily bars and dividend cash flows for one ticker
// over an inclusive date range.
type Provider interface {
	DailyBars(ticker string, from, to Date) (open, close, adj *Series, err error)
	Dividends(ticker string, from, to Date) (*Series, error)
}

// Update fetches bars and dividends for every universe asset from the last
// known bar (exclusive) through 'to' and appends only the new dates, the
// incremental refresh the driver relies on.
func (m *MarketData) Update(p Provider, u *Universe, from, to Date) error {
	for _, ticker := range u.Tickers() {
		start := from
		if last, _ := m.bars(ticker).close.Latest(); !last.IsZero() {
			if !last.Before(to) {
				log.Printf("update: %s is up to date", ticker)
				continue
			}
			start = last.Add(1) // no index overlap
		}
		open, close, adj, err := p.DailyBars(ticker, start, to)
		if err != nil {
			return fmt.Errorf("could not fetch bars for %s: %w", ticker, err)
		}
		for on, v := range open.Values() {
			m.bars(ticker).open.Append(on, v)
		}
		for on, v := range close.Values() {
			m.bars(ticker).close.Append(on, v)
		}
		for on, v := range adj.Values() {
			m.bars(ticker).adj.Append(on, v)
		}
		divs, err := p.Dividends(ticker, start, to)
		if err != nil {
			return fmt.Errorf("could not fetch dividends for %s: %w", ticker, err)
		}
		for on, v := range divs.Values() {
			m.bars(ticker).dividends.Append(on, v)
		}
	}
	return nil
}
