package trinity

import (
	"fmt"
	"iter"
	"slices"
)

// Calendar is the ordered sequence of trading dates the simulation walks.
// It is supplied by a market data collaborator, never computed from weekday
// arithmetic: exchange holidays make that a losing game.
type Calendar struct {
	days []Date
}

// NewCalendar builds a calendar from an ordered list of trading dates.
// Dates must be strictly increasing with no duplicates.
func NewCalendar(days []Date) (*Calendar, error) {
	for i := 1; i < len(days); i++ {
		if !days[i-1].Before(days[i]) {
			return nil, fmt.Errorf("calendar dates not strictly increasing at %s", days[i])
		}
	}
	return &Calendar{days: slices.Clone(days)}, nil
}

// Len returns the number of trading dates.
func (c *Calendar) Len() int { return len(c.days) }

// First returns the first trading date. The boolean is false for an empty calendar.
func (c *Calendar) First() (Date, bool) {
	if len(c.days) == 0 {
		return Date{}, false
	}
	return c.days[0], true
}

// Last returns the last trading date. The boolean is false for an empty calendar.
func (c *Calendar) Last() (Date, bool) {
	if len(c.days) == 0 {
		return Date{}, false
	}
	return c.days[len(c.days)-1], true
}

func (c *Calendar) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(c.days, day, func(d, t Date) int { return d.Compare(t) })
}

// Contains reports whether day is a trading date.
func (c *Calendar) Contains(day Date) bool {
	_, found := c.search(day)
	return found
}

// Next returns the first trading date strictly after day. It fails with
// ErrCalendarMisalignment when day is past the calendar's end.
func (c *Calendar) Next(day Date) (Date, error) {
	i, found := c.search(day)
	if found {
		i++
	}
	if i >= len(c.days) {
		return Date{}, fmt.Errorf("no trading day after %s: %w", day, ErrCalendarMisalignment)
	}
	return c.days[i], nil
}

// IsMonthEnd reports whether day is the last trading date of its calendar
// month. It fails with ErrCalendarMisalignment when day is not a trading date.
func (c *Calendar) IsMonthEnd(day Date) (bool, error) {
	i, found := c.search(day)
	if !found {
		return false, fmt.Errorf("%s: %w", day, ErrCalendarMisalignment)
	}
	if i+1 == len(c.days) {
		return true, nil
	}
	next := c.days[i+1]
	return next.Month() != day.Month() || next.Year() != day.Year(), nil
}

// LastCompletedMonthEnd returns the most recent trading date that is known
// to close its month: a trading date in a later month follows it. The
// calendar's trailing day never qualifies, a data refresh could still add
// days to its month. The boolean is false when the calendar spans a single
// month.
func (c *Calendar) LastCompletedMonthEnd() (Date, bool) {
	for i := len(c.days) - 2; i >= 0; i-- {
		day, next := c.days[i], c.days[i+1]
		if next.Month() != day.Month() || next.Year() != day.Year() {
			return day, true
		}
	}
	return Date{}, false
}

// MonthEnds returns an iterator over the month-end trading dates in [from, to].
func (c *Calendar) MonthEnds(from, to Date) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for i, day := range c.days {
			if day.Before(from) || day.After(to) {
				continue
			}
			last := i+1 == len(c.days)
			if !last {
				next := c.days[i+1]
				last = next.Month() != day.Month() || next.Year() != day.Year()
			}
			if last && !yield(day) {
				return
			}
		}
	}
}

// Days returns an iterator over the trading dates strictly after 'after' and
// up to 'until' inclusive. This is the walk order of the backtest driver.
func (c *Calendar) Days(after, until Date) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		i, found := c.search(after)
		if found {
			i++
		}
		for ; i < len(c.days); i++ {
			if c.days[i].After(until) {
				return
			}
			if !yield(c.days[i]) {
				return
			}
		}
	}
}
