package trinity

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The ledger's tabular form: one row per trading day, one column per field.
//
//	Date, Cash, {asset}_shares, {asset}_close, ..., Portfolio Value
//
// Unset closing prices are written as "nan" so a pre-inception gap stays
// distinguishable from a zero price.
const (
	colDate  = "Date"
	colCash  = "Cash"
	colValue = "Portfolio Value"
	naRep    = "nan"
)

func ledgerHeader(u *Universe) []string {
	header := []string{colDate, colCash}
	for _, t := range u.Tickers() {
		header = append(header, t+"_shares", t+"_close")
	}
	return append(header, colValue)
}

// EncodeLedger writes the ledger as CSV in its tabular form.
func EncodeLedger(w io.Writer, l *Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledgerHeader(l.universe)); err != nil {
		return err
	}
	for e := range l.Entries() {
		row := []string{e.on.String(), e.cash.Decimal().String()}
		for _, t := range l.universe.Tickers() {
			row = append(row, strconv.FormatInt(e.Shares(t), 10))
			if close, ok := e.ClosePrice(t); ok {
				row = append(row, close.Decimal().String())
			} else {
				row = append(row, naRep)
			}
		}
		value, ok := e.Value()
		if !ok {
			return fmt.Errorf("entry %s has not been revalued", e.on)
		}
		row = append(row, value.Decimal().String())
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeLedger reads a ledger back from its CSV form. The header must match
// the universe exactly: a persisted ledger is only resumable against the
// configuration that produced it.
func DecodeLedger(r io.Reader, u *Universe) (*Ledger, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read ledger header: %w", err)
	}
	want := ledgerHeader(u)
	if len(header) != len(want) {
		return nil, fmt.Errorf("ledger has %d columns, universe wants %d", len(header), len(want))
	}
	for i := range want {
		if header[i] != want[i] {
			return nil, fmt.Errorf("ledger column %d is %q, want %q", i, header[i], want[i])
		}
	}

	var l *Ledger
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		on, err := ParseDate(row[0])
		if err != nil {
			return nil, err
		}
		cash, err := decimal.NewFromString(row[1])
		if err != nil {
			return nil, fmt.Errorf("bad cash on %s: %w", on, err)
		}
		if l == nil {
			l = NewLedger(u, on, M(cash))
		} else {
			prior := l.Last().On()
			if err := l.RollForward(prior, on); err != nil {
				return nil, err
			}
			l.Last().cash = M(cash)
		}
		e := l.Last()
		col := 2
		for _, t := range u.Tickers() {
			shares, err := strconv.ParseInt(row[col], 10, 64)
			if err != nil || shares < 0 {
				return nil, fmt.Errorf("bad share count %q for %s on %s", row[col], t, on)
			}
			e.positions[t].shares = shares
			if row[col+1] != naRep {
				close, err := decimal.NewFromString(row[col+1])
				if err != nil {
					return nil, fmt.Errorf("bad close %q for %s on %s", row[col+1], t, on)
				}
				e.positions[t].close = M(close)
				e.positions[t].marked = true
			}
			col += 2
		}
		if err := l.Revalue(on); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(row[col])
		if err != nil {
			return nil, fmt.Errorf("bad value on %s: %w", on, err)
		}
		if got, _ := e.Value(); !got.Equal(M(value)) {
			return nil, fmt.Errorf("ledger value on %s is %s, recomputed %s", on, M(value), got)
		}
	}
	if l == nil {
		return nil, fmt.Errorf("ledger file has no entries")
	}
	return l, nil
}

// MarshalJSON exports the ledger table as a JSON document with the same
// column names and order as the CSV form, ready for jsonpath queries.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	entries := make([]json.Marshaler, 0, l.Len())
	for e := range l.Entries() {
		var w jsonObjectWriter
		w.Append(colDate, e.on)
		w.Append(colCash, e.cash.Decimal())
		for _, t := range l.universe.Tickers() {
			w.Append(t+"_shares", e.Shares(t))
			if close, ok := e.ClosePrice(t); ok {
				w.Append(t+"_close", close.Decimal())
			} else {
				w.Append(t+"_close", nil)
			}
		}
		if value, ok := e.Value(); ok {
			w.Append(colValue, value.Decimal())
		}
		entries = append(entries, &w)
	}
	var w jsonObjectWriter
	w.Append("universe", l.universe.Tickers())
	w.Append("entries", entries)
	return w.MarshalJSON()
}
