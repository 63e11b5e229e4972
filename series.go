package trinity

import (
	"fmt"
	"iter"
	"slices"
	"sort"
)

// Series stores a chronological series of float64 values, each associated
// with a specific date. Dates are unique and the series is always sorted.
//
// A date before the first observation is simply absent: lookups report the
// miss instead of returning zero, so a pre-inception gap can never be
// mistaken for a valid price.
type Series struct {
	days   []Date
	values []float64
}

// Len returns the number of observations in the series.
func (s *Series) Len() int { return len(s.days) }

// FirstDate returns the earliest date in the series. The boolean is false
// when the series is empty.
func (s *Series) FirstDate() (Date, bool) {
	if len(s.days) == 0 {
		return Date{}, false
	}
	return s.days[0], true
}

// Latest returns the latest date and value in the series.
// If the series is empty, it returns zero values.
func (s *Series) Latest() (day Date, value float64) {
	last := len(s.days) - 1
	if last < 0 {
		return Date{}, 0
	}
	return s.days[last], s.values[last]
}

// chronological is a private implementation to keep the series sorted.
type chronological struct{ *Series }

func (c chronological) Len() int           { return len(c.days) }
func (c chronological) Less(i, j int) bool { return c.days[i].Before(c.days[j]) }
func (c chronological) Swap(i, j int) {
	c.days[i], c.days[j] = c.days[j], c.days[i]
	c.values[i], c.values[j] = c.values[j], c.values[i]
}

// Append adds a point to the series. An existing value at that date is overwritten.
func (s *Series) Append(on Date, v float64) *Series {
	if i := slices.Index(s.days, on); i >= 0 {
		// Replace: the last data wins.
		s.values[i] = v
		return s
	}
	s.days, s.values = append(s.days, on), append(s.values, v)
	sort.Sort(chronological{s})
	return s
}

// Get returns the value at 'day' and true, or zero and false.
func (s *Series) Get(day Date) (float64, bool) {
	if i := slices.Index(s.days, day); i >= 0 {
		return s.values[i], true
	}
	return 0, false
}

// search locates day in the sorted days slice.
func (s *Series) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(s.days, day, func(d, t Date) int { return d.Compare(t) })
}

// ValueAsOf returns the value on a given day, or the most recent value before
// it. It returns false when no observation exists on or before the day.
func (s *Series) ValueAsOf(day Date) (float64, bool) {
	i, found := s.search(day)
	if found {
		return s.values[i], true
	}
	if i == 0 {
		return 0, false // No date on or before the given day.
	}
	return s.values[i-1], true
}

// Values returns an iterator over all date/value pairs in chronological order.
func (s *Series) Values() iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for i, on := range s.days {
			if !yield(on, s.values[i]) {
				return
			}
		}
	}
}


// MovingAverage computes the simple arithmetic mean of the trailing 'window'
// observations ending at 'on' inclusive. It fails with ErrMissingPrice when
// 'on' is not an observation or fewer than 'window' observations precede it;
// it never silently falls back to a shorter window.
func (s *Series) MovingAverage(on Date, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("invalid moving average window %d", window)
	}
	i, found := s.search(on)
	if !found {
		return 0, fmt.Errorf("no observation on %s: %w", on, ErrMissingPrice)
	}
	if i+1 < window {
		return 0, fmt.Errorf("%d observations on or before %s, want %d: %w", i+1, on, window, ErrMissingPrice)
	}
	var sum float64
	for _, v := range s.values[i+1-window : i+1] {
		sum += v
	}
	return sum / float64(window), nil
}
