package trinity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// Market data persists as one CSV file of daily bars per ticker, plus one
// dividends file, in a data directory. This mirrors how the driver consumes
// it: per-asset series, incrementally extended.
//
//	{ticker}.csv           Date,Open,Close,Adj Close
//	{ticker}_dividends.csv Date,Dividend

// EncodeMarketData writes the bars and dividends of every universe asset
// under dir, creating it when needed.
func EncodeMarketData(dir string, m *MarketData, u *Universe) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, ticker := range u.Tickers() {
		if err := encodeBars(filepath.Join(dir, ticker+".csv"), m, ticker); err != nil {
			return err
		}
		if err := encodeDividends(filepath.Join(dir, ticker+"_dividends.csv"), m, ticker); err != nil {
			return err
		}
	}
	return nil
}

func encodeBars(path string, m *MarketData, ticker string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Open", "Close", "Adj Close"}); err != nil {
		return err
	}
	open, close, adj := m.Series(ticker, Open), m.Series(ticker, Close), m.Series(ticker, AdjClose)
	for on, c := range close.Values() {
		o, ok := open.Get(on)
		if !ok {
			return fmt.Errorf("%s has a close but no open on %s", ticker, on)
		}
		a, ok := adj.Get(on)
		if !ok {
			return fmt.Errorf("%s has a close but no adjusted close on %s", ticker, on)
		}
		row := []string{on.String(), formatPrice(o), formatPrice(c), formatPrice(a)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func encodeDividends(path string, m *MarketData, ticker string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Dividend"}); err != nil {
		return err
	}
	for on, v := range m.bars(ticker).dividends.Values() {
		if err := w.Write([]string{on.String(), formatPrice(v)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatPrice(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// DecodeMarketData loads all persisted bars and dividends for the universe
// from dir. Missing files are not an error: an asset may simply never have
// been fetched yet.
func DecodeMarketData(dir string, u *Universe) (*MarketData, error) {
	m := NewMarketData()
	for _, ticker := range u.Tickers() {
		if err := decodeBars(filepath.Join(dir, ticker+".csv"), m, ticker); err != nil {
			return nil, err
		}
		if err := decodeDividends(filepath.Join(dir, ticker+"_dividends.csv"), m, ticker); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func decodeBars(path string, m *MarketData, ticker string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		on, err := ParseDate(row[0])
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		o, err1 := strconv.ParseFloat(row[1], 64)
		c, err2 := strconv.ParseFloat(row[2], 64)
		a, err3 := strconv.ParseFloat(row[3], 64)
		if err := errors.Join(err1, err2, err3); err != nil {
			return fmt.Errorf("%s on %s: %w", path, on, err)
		}
		m.AppendBar(ticker, on, o, c, a)
	}
}

func decodeDividends(path string, m *MarketData, ticker string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		on, err := ParseDate(row[0])
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return fmt.Errorf("%s on %s: %w", path, on, err)
		}
		m.AppendDividend(ticker, on, v)
	}
}
