package trinity

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeLedgerInception(t *testing.T) {
	u := testUniverse(t)
	day := MustParse("2021-03-25")
	l := NewLedger(u, day, M(10000))
	if err := l.Revalue(day); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatal(err)
	}
	want := "Date,Cash,AAA_shares,AAA_close,BBB_shares,BBB_close,CCC_shares,CCC_close,Portfolio Value\n" +
		"2021-03-25,10000,0,nan,0,nan,0,nan,10000\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestEncodeLedgerRefusesUnvaluedEntry(t *testing.T) {
	u := testUniverse(t)
	l := NewLedger(u, MustParse("2021-03-25"), M(10000))
	// Never revalued.
	if err := EncodeLedger(&bytes.Buffer{}, l); err == nil {
		t.Error("expected an error for an unvalued entry")
	}
}

func TestLedgerCSVRoundtrip(t *testing.T) {
	u := testUniverse(t)
	market, cal := testMarket(t, u)
	sim := NewSimulation(u, market, cal)
	sim.Window = 3
	ledger := NewLedger(u, MustParse("2021-03-05"), M(10000))
	last, _ := cal.Last()
	if err := sim.Run(ledger, last); err != nil {
		t.Fatal(err)
	}

	var a bytes.Buffer
	if err := EncodeLedger(&a, ledger); err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeLedger(bytes.NewReader(a.Bytes()), u)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := EncodeLedger(&b, decoded); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("CSV roundtrip is not stable")
	}
	checkInvariant(t, decoded)
}

func TestDecodeLedgerRejectsForeignUniverse(t *testing.T) {
	u := testUniverse(t)
	day := MustParse("2021-03-25")
	l := NewLedger(u, day, M(10000))
	if err := l.Revalue(day); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatal(err)
	}

	other, err := NewUniverse([]Asset{{Ticker: "ZZZ", Baseline: 0.1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeLedger(&buf, other); err == nil {
		t.Error("expected an error decoding against a different universe")
	}
}

func TestDecodeLedgerRejectsTamperedValue(t *testing.T) {
	u := testUniverse(t)
	csv := "Date,Cash,AAA_shares,AAA_close,BBB_shares,BBB_close,CCC_shares,CCC_close,Portfolio Value\n" +
		"2021-03-25,10000,0,nan,0,nan,0,nan,9999\n"
	if _, err := DecodeLedger(strings.NewReader(csv), u); err == nil {
		t.Error("expected an error for a stored value that does not recompute")
	}
}

func TestLedgerMarshalJSON(t *testing.T) {
	u := testUniverse(t)
	day := MustParse("2021-03-25")
	l := NewLedger(u, day, M(10000))
	if err := l.Buy(day, "BBB", 5, M(500)); err != nil {
		t.Fatal(err)
	}
	if err := l.MarkClose(day, "BBB", M(101)); err != nil {
		t.Fatal(err)
	}
	if err := l.Revalue(day); err != nil {
		t.Fatal(err)
	}

	got, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"universe":["AAA","BBB","CCC"],"entries":[` +
		`{"Date":"2021-03-25","Cash":9500,"AAA_shares":0,"AAA_close":null,` +
		`"BBB_shares":5,"BBB_close":101,"CCC_shares":0,"CCC_close":null,` +
		`"Portfolio Value":10005}]}`
	if string(got) != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
