package trinity

import "testing"

func TestEndOfMonth(t *testing.T) {
	testCases := []struct {
		name string
		date string
		want string
	}{
		{name: "mid month", date: "2024-02-14", want: "2024-02-29"},
		{name: "already last day", date: "2023-12-31", want: "2023-12-31"},
		{name: "30 day month", date: "2025-04-01", want: "2025-04-30"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MustParse(tc.date).EndOfMonth()
			if got.String() != tc.want {
				t.Errorf("EndOfMonth(%s) = %s, want %s", tc.date, got, tc.want)
			}
		})
	}
}

func TestMonthEndBefore(t *testing.T) {
	testCases := []struct {
		name   string
		date   string
		months int
		want   string
	}{
		{name: "one month back", date: "2025-07-31", months: 1, want: "2025-06-30"},
		{name: "three months back", date: "2025-07-31", months: 3, want: "2025-04-30"},
		{name: "across year boundary", date: "2025-02-28", months: 3, want: "2024-11-30"},
		{name: "twelve months back", date: "2025-07-31", months: 12, want: "2024-07-31"},
		{name: "from mid month", date: "2025-07-10", months: 1, want: "2025-06-30"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MustParse(tc.date).MonthEndBefore(tc.months)
			if got.String() != tc.want {
				t.Errorf("%s.MonthEndBefore(%d) = %s, want %s", tc.date, tc.months, got, tc.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-3-7")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "2024-03-07" {
		t.Errorf("got %s, want 2024-03-07", d)
	}
	if _, err := ParseDate("not a date"); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestDateJSONRoundtrip(t *testing.T) {
	d := MustParse("2021-06-25")
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var got Date
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Errorf("roundtrip gave %s, want %s", got, d)
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(MustParse("2024-01-10"), MustParse("2024-01-20"))
	for date, want := range map[string]bool{
		"2024-01-09": false,
		"2024-01-10": true,
		"2024-01-15": true,
		"2024-01-20": true,
		"2024-01-21": false,
	} {
		if got := r.Contains(MustParse(date)); got != want {
			t.Errorf("Contains(%s) = %v, want %v", date, got, want)
		}
	}
}
