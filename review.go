package trinity

import (
	"fmt"

	"github.com/google/uuid"
)

// Holding is one line of a review's final allocation breakdown.
type Holding struct {
	Ticker string
	Shares int64
	Close  Money
	Value  Money
	Weight Percent
}

// Review summarizes a simulated ledger: the valuation path boiled down to
// the figures the spreadsheet used to carry.
type Review struct {
	ID          uuid.UUID // identifies one backtest run in logs and reports
	Range       Range
	StartValue  Money
	EndValue    Money
	Return      Percent
	MaxDrawdown Percent
	Cash        Money
	Holdings    []Holding
}

// NewReview computes a review over the full ledger.
func NewReview(l *Ledger) (*Review, error) {
	first, last := l.First(), l.Last()
	start, ok := first.Value()
	if !ok {
		return nil, fmt.Errorf("inception entry %s has not been revalued", first.On())
	}
	end, ok := last.Value()
	if !ok {
		return nil, fmt.Errorf("entry %s has not been revalued", last.On())
	}

	r := &Review{
		ID:         uuid.New(),
		Range:      NewRange(first.On(), last.On()),
		StartValue: start,
		EndValue:   end,
		Cash:       last.Cash(),
	}
	if !start.IsZero() {
		r.Return = Percent(end.Sub(start).AsFloat() / start.AsFloat())
	}
	r.MaxDrawdown = maxDrawdown(l)

	for _, ticker := range l.Universe().Tickers() {
		shares := last.Shares(ticker)
		close, marked := last.ClosePrice(ticker)
		if !marked {
			continue
		}
		value := close.MulShares(shares)
		h := Holding{Ticker: ticker, Shares: shares, Close: close, Value: value}
		if !end.IsZero() {
			h.Weight = Percent(value.AsFloat() / end.AsFloat())
		}
		r.Holdings = append(r.Holdings, h)
	}
	return r, nil
}

// maxDrawdown is the deepest peak-to-trough loss of the valuation series.
func maxDrawdown(l *Ledger) Percent {
	var peak float64
	var worst Percent
	for e := range l.Entries() {
		value, ok := e.Value()
		if !ok {
			continue
		}
		v := value.AsFloat()
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := Percent(v/peak - 1); dd < worst {
				worst = dd
			}
		}
	}
	return worst
}
