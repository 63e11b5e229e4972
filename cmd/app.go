// Package cmd implements the CLI application to run and inspect backtests.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/quantfolio/trinity"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&updateCmd{}, "market data")

	c.Register(&backtestCmd{}, "simulation")
	c.Register(&reviewCmd{}, "simulation")

	c.Register(&ranksCmd{}, "strategy")
	c.Register(&allocationCmd{}, "strategy")

	c.Register(&queryCmd{}, "reporting")
	c.Register(&assistCmd{}, "reporting")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var marketPath = flag.String("market-path", ".marketdata", "Path to the market data folder")
var ledgerFile = flag.String("ledger-file", "ledger.csv", "Path to the backtest ledger file (CSV format)")

// DecodeMarketData loads the market data from the app market path folder.
// Missing files yield an empty market, never an error.
func DecodeMarketData(u *trinity.Universe) (*trinity.MarketData, error) {
	return trinity.DecodeMarketData(*marketPath, u)
}

// EncodeMarketData saves the market data into the app market path folder.
func EncodeMarketData(m *trinity.MarketData, u *trinity.Universe) error {
	return trinity.EncodeMarketData(*marketPath, m, u)
}

// DecodeLedger loads the ledger from the app ledger file.
// The boolean is false when no ledger file exists yet.
func DecodeLedger(u *trinity.Universe) (*trinity.Ledger, bool, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	ledger, err := trinity.DecodeLedger(f, u)
	if err != nil {
		return nil, false, fmt.Errorf("could not decode ledger file %q: %w", *ledgerFile, err)
	}
	return ledger, true, nil
}

// EncodeLedger saves the full ledger into the app ledger file.
func EncodeLedger(ledger *trinity.Ledger) error {
	f, err := os.Create(*ledgerFile)
	if err != nil {
		return fmt.Errorf("could not create ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	if err := trinity.EncodeLedger(f, ledger); err != nil {
		return fmt.Errorf("could not write ledger file %q: %w", *ledgerFile, err)
	}
	return nil
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

// monthEndOnOrBefore returns the last month-end trading date on or before 'until'.
func monthEndOnOrBefore(cal *trinity.Calendar, until trinity.Date) (trinity.Date, error) {
	first, ok := cal.First()
	if !ok {
		return trinity.Date{}, fmt.Errorf("market data is empty, run 'tps update' first")
	}
	var last trinity.Date
	for day := range cal.MonthEnds(first, until) {
		last = day
	}
	if last.IsZero() {
		return trinity.Date{}, fmt.Errorf("no month-end trading date on or before %s", until)
	}
	return last, nil
}
