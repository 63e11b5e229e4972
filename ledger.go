package trinity

import (
	"fmt"
	"iter"
)

// position is the fixed-shape per-asset record of one ledger entry.
type position struct {
	shares int64
	close  Money
	marked bool // close has been set for this entry
}

// Entry is one day of portfolio state: cash, per-asset share counts and
// closing prices, and the derived total value. Entries are created by the
// Ledger only and mutated through its operations.
type Entry struct {
	on        Date
	cash      Money
	positions map[string]*position
	value     Money
	valued    bool
}

// On returns the entry's date.
func (e *Entry) On() Date { return e.on }

// Cash returns the entry's cash balance.
func (e *Entry) Cash() Money { return e.cash }

// Shares returns the share count held for a ticker.
func (e *Entry) Shares(ticker string) int64 {
	p, ok := e.positions[ticker]
	if !ok {
		return 0
	}
	return p.shares
}

// ClosePrice returns the closing price marked for a ticker, and whether one
// has been set for this entry.
func (e *Entry) ClosePrice(ticker string) (Money, bool) {
	p, ok := e.positions[ticker]
	if !ok || !p.marked {
		return Money{}, false
	}
	return p.close, true
}

// Value returns the total portfolio value. It is only meaningful once the
// entry has been revalued; the boolean reports that.
func (e *Entry) Value() (Money, bool) { return e.value, e.valued }

// Ledger is the authoritative, append-only time series of portfolio state.
// One entry exists per trading day from inception; entries are never deleted
// and only the newest entry accepts mutations. After every Revalue the
// central invariant holds exactly:
//
//	value(date) = cash(date) + Σ shares(date,asset) · close(date,asset)
type Ledger struct {
	universe *Universe
	entries  []*Entry
}

// NewLedger creates a ledger with its inception entry: all cash, zero
// shares, closing prices unset.
func NewLedger(u *Universe, inception Date, cash Money) *Ledger {
	l := &Ledger{universe: u}
	l.entries = append(l.entries, l.newEntry(inception, cash))
	return l
}

func (l *Ledger) newEntry(on Date, cash Money) *Entry {
	e := &Entry{on: on, cash: cash, positions: make(map[string]*position, l.universe.Len())}
	for _, t := range l.universe.Tickers() {
		e.positions[t] = &position{close: M(0)}
	}
	return e
}

// Universe returns the asset universe the ledger tracks.
func (l *Ledger) Universe() *Universe { return l.universe }

// Len returns the number of daily entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Last returns the newest entry.
func (l *Ledger) Last() *Entry { return l.entries[len(l.entries)-1] }

// First returns the inception entry.
func (l *Ledger) First() *Entry { return l.entries[0] }

// On returns the entry for an exact date.
func (l *Ledger) On(day Date) (*Entry, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		switch l.entries[i].on.Compare(day) {
		case 0:
			return l.entries[i], true
		case -1:
			return nil, false // entries are sorted, nothing older matches
		}
	}
	return nil, false
}

// Entries returns an iterator over all entries in chronological order.
func (l *Ledger) Entries() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range l.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// rollback discards the newest entry if it is dated 'day'. It exists so the
// driver can erase a partially applied day; committed days are untouchable.
func (l *Ledger) rollback(day Date) {
	if len(l.entries) > 1 && l.Last().on == day {
		l.entries = l.entries[:len(l.entries)-1]
	}
}

// today resolves a mutation date to the newest entry. All mutations target
// the newest entry only; anything else is driver/ledger desynchronization.
func (l *Ledger) today(day Date) (*Entry, error) {
	e := l.Last()
	if e.on != day {
		return nil, fmt.Errorf("mutation on %s but newest entry is %s: %w", day, e.on, ErrLedgerDesync)
	}
	return e, nil
}

// RollForward creates the entry for newDay by carrying cash and share counts
// forward from the newest entry, which must be dated priorDay. Closing
// prices are left unset: they must be marked before the new entry can be
// revalued.
func (l *Ledger) RollForward(priorDay, newDay Date) error {
	prior, err := l.today(priorDay)
	if err != nil {
		return err
	}
	if !newDay.After(priorDay) {
		return fmt.Errorf("cannot roll forward from %s to %s: %w", priorDay, newDay, ErrLedgerDesync)
	}
	e := l.newEntry(newDay, prior.cash)
	for t, p := range prior.positions {
		e.positions[t].shares = p.shares
	}
	l.entries = append(l.entries, e)
	return nil
}

// Buy adds shares of the asset and debits the total cost from cash.
//
// A buy that overdraws cash is still applied, the balance goes negative, and
// ErrInsufficientFunds is returned as an advisory signal. This mirrors the
// strategy's intent: month-end targets are computed against the valuation,
// and rejecting the trade would silently drift the allocation.
func (l *Ledger) Buy(day Date, ticker string, shares int64, cost Money) error {
	e, err := l.today(day)
	if err != nil {
		return err
	}
	p, ok := e.positions[ticker]
	if !ok {
		return fmt.Errorf("buy %s: not in universe", ticker)
	}
	if shares <= 0 {
		return fmt.Errorf("buy %s: share count %d must be positive", ticker, shares)
	}
	if cost.IsNegative() {
		return fmt.Errorf("buy %s: negative cost %s", ticker, cost)
	}
	e.valued = false
	p.shares += shares
	overdrawn := cost.GreaterThan(e.cash)
	e.cash = e.cash.Sub(cost)
	if overdrawn {
		return fmt.Errorf("buy %d %s for %s on %s: %w", shares, ticker, cost, day, ErrInsufficientFunds)
	}
	return nil
}

// Sell removes shares of the asset and credits the total proceeds to cash.
// Unlike Buy, a sell that exceeds the held position is rejected outright
// with ErrInsufficientShares and the entry is left untouched: a short
// position is never representable.
func (l *Ledger) Sell(day Date, ticker string, shares int64, proceeds Money) error {
	e, err := l.today(day)
	if err != nil {
		return err
	}
	p, ok := e.positions[ticker]
	if !ok {
		return fmt.Errorf("sell %s: not in universe", ticker)
	}
	if shares <= 0 {
		return fmt.Errorf("sell %s: share count %d must be positive", ticker, shares)
	}
	if shares > p.shares {
		return fmt.Errorf("sell %d %s on %s but only %d held: %w", shares, ticker, day, p.shares, ErrInsufficientShares)
	}
	e.valued = false
	p.shares -= shares
	e.cash = e.cash.Add(proceeds)
	return nil
}

// MarkClose sets the asset's closing price for the day. No other side effect.
func (l *Ledger) MarkClose(day Date, ticker string, price Money) error {
	e, err := l.today(day)
	if err != nil {
		return err
	}
	p, ok := e.positions[ticker]
	if !ok {
		return fmt.Errorf("mark %s: not in universe", ticker)
	}
	if price.IsNegative() {
		return fmt.Errorf("mark %s: negative price %s", ticker, price)
	}
	e.valued = false
	p.close = price
	p.marked = true
	return nil
}

// AccrueDividend credits perShare times the held share count to cash.
// A no-op when no shares are held or the amount is zero.
func (l *Ledger) AccrueDividend(day Date, ticker string, perShare Money) error {
	e, err := l.today(day)
	if err != nil {
		return err
	}
	p, ok := e.positions[ticker]
	if !ok {
		return fmt.Errorf("dividend %s: not in universe", ticker)
	}
	if p.shares == 0 || perShare.IsZero() {
		return nil
	}
	e.valued = false
	e.cash = e.cash.Add(perShare.MulShares(p.shares))
	return nil
}

// Revalue recomputes the entry's total value from cash and marked closing
// prices. It is the commit point of the day's transition: it must run after
// every trade, mark and dividend for the day. A held position without a
// marked close fails with ErrMissingPrice instead of valuing at zero, which
// would silently corrupt the ledger invariant.
func (l *Ledger) Revalue(day Date) error {
	e, err := l.today(day)
	if err != nil {
		return err
	}
	value := e.cash
	for _, t := range l.universe.Tickers() {
		p := e.positions[t]
		if !p.marked {
			if p.shares > 0 {
				return fmt.Errorf("revalue %s: %d shares of %s held with no close marked: %w", day, p.shares, t, ErrMissingPrice)
			}
			continue
		}
		value = value.Add(p.close.MulShares(p.shares))
	}
	e.value = value
	e.valued = true
	return nil
}
