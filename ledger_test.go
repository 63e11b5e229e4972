package trinity

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"
)

func TestLedgerBuySellDividendInvariant(t *testing.T) {
	u := testUniverse(t)
	day := MustParse("2021-03-25")
	l := NewLedger(u, day, M(10000))

	if err := l.Buy(day, "BBB", 55, M(54).MulShares(55)); err != nil {
		t.Fatal(err)
	}
	if err := l.Buy(day, "AAA", 100, M(10).MulShares(100)); err != nil {
		t.Fatal(err)
	}
	if err := l.Sell(day, "AAA", 40, M(10).MulShares(40)); err != nil {
		t.Fatal(err)
	}
	for ticker, price := range map[string]float64{"AAA": 10, "BBB": 54, "CCC": 56} {
		if err := l.MarkClose(day, ticker, M(price)); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.AccrueDividend(day, "BBB", M(0.5)); err != nil {
		t.Fatal(err)
	}
	if err := l.Revalue(day); err != nil {
		t.Fatal(err)
	}

	e := l.Last()
	// cash = 10000 - 55*54 - 100*10 + 40*10 + 55*0.5 = 6457.50
	if !e.Cash().Equal(M(6457.5)) {
		t.Errorf("cash = %s, want $6,457.50", e.Cash())
	}
	if e.Shares("AAA") != 60 || e.Shares("BBB") != 55 || e.Shares("CCC") != 0 {
		t.Errorf("positions = %d AAA, %d BBB, %d CCC", e.Shares("AAA"), e.Shares("BBB"), e.Shares("CCC"))
	}
	// value = 6457.50 + 60*10 + 55*54 = 10027.50
	value, ok := e.Value()
	if !ok || !value.Equal(M(10027.5)) {
		t.Errorf("value = %s, want $10,027.50", value)
	}
	checkInvariant(t, l)
}

func TestLedgerSellOvershootRejected(t *testing.T) {
	u := testUniverse(t)
	day := MustParse("2021-03-25")
	l := NewLedger(u, day, M(1000))
	if err := l.Buy(day, "AAA", 10, M(100)); err != nil {
		t.Fatal(err)
	}

	err := l.Sell(day, "AAA", 11, M(110))
	if !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("got %v, want ErrInsufficientShares", err)
	}
	// The rejected trade left the entry untouched.
	if l.Last().Shares("AAA") != 10 {
		t.Errorf("shares = %d, want 10", l.Last().Shares("AAA"))
	}
	if !l.Last().Cash().Equal(M(900)) {
		t.Errorf("cash = %s, want $900.00", l.Last().Cash())
	}
}

func TestLedgerBuyOverdrawAdvisory(t *testing.T) {
	u := testUniverse(t)
	day := MustParse("2021-03-25")
	l := NewLedger(u, day, M(100))

	// Reporting the overdraw is the caller's job: the ledger only returns
	// the error, it never logs.
	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)

	err := l.Buy(day, "AAA", 20, M(200))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	if logged.Len() != 0 {
		t.Errorf("ledger logged %q", logged.String())
	}
	// Advisory: the trade is applied and the balance goes negative.
	if l.Last().Shares("AAA") != 20 {
		t.Errorf("shares = %d, want 20", l.Last().Shares("AAA"))
	}
	if !l.Last().Cash().Equal(M(-100)) {
		t.Errorf("cash = %s, want -$100.00", l.Last().Cash())
	}
}

func TestLedgerRevalueMissingClose(t *testing.T) {
	u := testUniverse(t)
	day := MustParse("2021-03-25")
	l := NewLedger(u, day, M(1000))
	if err := l.Buy(day, "AAA", 10, M(100)); err != nil {
		t.Fatal(err)
	}
	// AAA close never marked: revalue must refuse, not value at zero.
	err := l.Revalue(day)
	if !errors.Is(err, ErrMissingPrice) {
		t.Fatalf("got %v, want ErrMissingPrice", err)
	}

	// With no shares held the unmarked close is fine.
	if err := l.Sell(day, "AAA", 10, M(100)); err != nil {
		t.Fatal(err)
	}
	if err := l.Revalue(day); err != nil {
		t.Fatal(err)
	}
	if value, _ := l.Last().Value(); !value.Equal(M(1000)) {
		t.Errorf("value = %s, want $1,000.00", value)
	}
}

func TestLedgerMutationsTargetNewestEntryOnly(t *testing.T) {
	u := testUniverse(t)
	inception := MustParse("2021-03-25")
	l := NewLedger(u, inception, M(1000))
	if err := l.Revalue(inception); err != nil {
		t.Fatal(err)
	}
	next := MustParse("2021-03-26")
	if err := l.RollForward(inception, next); err != nil {
		t.Fatal(err)
	}

	if err := l.Buy(inception, "AAA", 1, M(10)); !errors.Is(err, ErrLedgerDesync) {
		t.Errorf("stale-day buy gave %v, want ErrLedgerDesync", err)
	}
	if err := l.RollForward(inception, MustParse("2021-03-27")); !errors.Is(err, ErrLedgerDesync) {
		t.Errorf("stale roll forward gave %v, want ErrLedgerDesync", err)
	}
	if err := l.RollForward(next, next); !errors.Is(err, ErrLedgerDesync) {
		t.Errorf("same-day roll forward gave %v, want ErrLedgerDesync", err)
	}
}

func TestLedgerRollForwardCarriesState(t *testing.T) {
	u := testUniverse(t)
	d1, d2 := MustParse("2021-03-25"), MustParse("2021-03-26")
	l := NewLedger(u, d1, M(1000))
	if err := l.Buy(d1, "BBB", 5, M(500)); err != nil {
		t.Fatal(err)
	}
	if err := l.MarkClose(d1, "BBB", M(101)); err != nil {
		t.Fatal(err)
	}
	if err := l.Revalue(d1); err != nil {
		t.Fatal(err)
	}
	if err := l.RollForward(d1, d2); err != nil {
		t.Fatal(err)
	}

	e := l.Last()
	if e.Shares("BBB") != 5 {
		t.Errorf("shares not carried: %d", e.Shares("BBB"))
	}
	if !e.Cash().Equal(M(500)) {
		t.Errorf("cash not carried: %s", e.Cash())
	}
	// Closing prices never carry over: yesterday's close is not today's.
	if _, marked := e.ClosePrice("BBB"); marked {
		t.Error("close carried over to the new entry")
	}
	if _, valued := e.Value(); valued {
		t.Error("new entry pretends to be valued")
	}
}
