package trinity

import (
	"errors"
	"testing"
)

func TestSeriesAppendKeepsOrder(t *testing.T) {
	var s Series
	s.Append(MustParse("2024-01-03"), 3)
	s.Append(MustParse("2024-01-01"), 1)
	s.Append(MustParse("2024-01-02"), 2)

	var got []float64
	for _, v := range s.Values() {
		got = append(got, v)
	}
	for i, want := range []float64{1, 2, 3} {
		if got[i] != want {
			t.Fatalf("values out of order: %v", got)
		}
	}

	// Last write on the same date wins.
	s.Append(MustParse("2024-01-02"), 20)
	if v, _ := s.Get(MustParse("2024-01-02")); v != 20 {
		t.Errorf("overwrite gave %v, want 20", v)
	}
	if s.Len() != 3 {
		t.Errorf("overwrite changed the length to %d", s.Len())
	}
}

func TestSeriesValueAsOf(t *testing.T) {
	var s Series
	s.Append(MustParse("2024-01-10"), 1)
	s.Append(MustParse("2024-01-20"), 2)

	testCases := []struct {
		name   string
		date   string
		want   float64
		wantOK bool
	}{
		{name: "before first observation", date: "2024-01-09", wantOK: false},
		{name: "exact date", date: "2024-01-10", want: 1, wantOK: true},
		{name: "between observations", date: "2024-01-15", want: 1, wantOK: true},
		{name: "after last observation", date: "2024-02-01", want: 2, wantOK: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.ValueAsOf(MustParse(tc.date))
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("ValueAsOf(%s) = %v, %v, want %v, %v", tc.date, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestSeriesMovingAverage(t *testing.T) {
	var s Series
	for i, v := range []float64{1, 2, 3, 4, 5} {
		s.Append(NewDate(2024, 1, 10+i), v)
	}

	avg, err := s.MovingAverage(NewDate(2024, 1, 14), 3)
	if err != nil {
		t.Fatal(err)
	}
	if avg != 4 { // (3+4+5)/3
		t.Errorf("got %v, want 4", avg)
	}

	// Not enough observations: never fall back to a shorter window.
	if _, err := s.MovingAverage(NewDate(2024, 1, 11), 3); !errors.Is(err, ErrMissingPrice) {
		t.Errorf("short history gave %v, want ErrMissingPrice", err)
	}

	// The date must be an observation.
	if _, err := s.MovingAverage(NewDate(2024, 1, 15), 3); !errors.Is(err, ErrMissingPrice) {
		t.Errorf("non-observation gave %v, want ErrMissingPrice", err)
	}
}
