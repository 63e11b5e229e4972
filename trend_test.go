package trinity

import (
	"errors"
	"testing"
)

func TestAboveTrend(t *testing.T) {
	rising := &Series{}
	flat := &Series{}
	for i := 0; i < 5; i++ {
		on := NewDate(2024, 1, 10+i)
		rising.Append(on, float64(1+i))
		flat.Append(on, 10)
	}
	last := NewDate(2024, 1, 14)

	above, err := AboveTrend(rising, last, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !above {
		t.Error("rising series not above its trailing average")
	}

	// Equality is not above: the comparison is strict.
	above, err = AboveTrend(flat, last, 3)
	if err != nil {
		t.Fatal(err)
	}
	if above {
		t.Error("flat series reported above its own average")
	}

	// Too few observations is an error, never a silent false.
	if _, err := AboveTrend(rising, NewDate(2024, 1, 10), 3); !errors.Is(err, ErrMissingPrice) {
		t.Errorf("short history gave %v, want ErrMissingPrice", err)
	}
}
