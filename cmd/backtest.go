package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/quantfolio/trinity"
)

// backtestCmd holds the flags for the 'backtest' subcommand.
type backtestCmd struct {
	from string
	to   string
	cash float64
}

func (*backtestCmd) Name() string     { return "backtest" }
func (*backtestCmd) Synopsis() string { return "run the rotation strategy over the stored market data" }
func (*backtestCmd) Usage() string {
	return `tps backtest [-from <date>] [-to <date>] [-cash <amount>]

  Simulate the strategy day by day and write the resulting ledger.
  When a ledger already exists the simulation resumes after its last day,
  so repeated runs never re-apply committed trades.
`
}

func (c *backtestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "inception date of a new ledger, first trading date by default")
	f.StringVar(&c.to, "to", "", "last date to simulate, last stored bar by default")
	f.Float64Var(&c.cash, "cash", 10000, "starting cash of a new ledger")
}

func (c *backtestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	u := trinity.DefaultUniverse()
	market, err := DecodeMarketData(u)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	cal, err := market.Calendar(u.Tickers())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ledger, exists, err := DecodeLedger(u)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !exists {
		inception, ok := cal.First()
		if !ok {
			fmt.Fprintln(os.Stderr, "market data is empty, run 'tps update' first")
			return subcommands.ExitFailure
		}
		if c.from != "" {
			if inception, err = trinity.ParseDate(c.from); err != nil {
				fmt.Fprintln(os.Stderr, "invalid -from date:", err)
				return subcommands.ExitUsageError
			}
			if !cal.Contains(inception) {
				fmt.Fprintf(os.Stderr, "%s is not a trading date\n", inception)
				return subcommands.ExitUsageError
			}
		}
		ledger = trinity.NewLedger(u, inception, trinity.M(c.cash))
	} else if c.from != "" {
		fmt.Fprintln(os.Stderr, "-from is only valid for a new ledger, the existing one resumes from", ledger.Last().On())
		return subcommands.ExitUsageError
	}

	until, ok := cal.Last()
	if !ok {
		fmt.Fprintln(os.Stderr, "market data is empty, run 'tps update' first")
		return subcommands.ExitFailure
	}
	if c.to != "" {
		if until, err = trinity.ParseDate(c.to); err != nil {
			fmt.Fprintln(os.Stderr, "invalid -to date:", err)
			return subcommands.ExitUsageError
		}
	}

	sim := trinity.NewSimulation(u, market, cal)
	runErr := sim.Run(ledger, until)

	// The ledger is valid up to its last complete day even when the
	// simulation halted: persist what was committed before reporting.
	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		return subcommands.ExitFailure
	}

	last := ledger.Last()
	if value, ok := last.Value(); ok {
		fmt.Printf("Simulated through %s: %s\n", last.On(), value)
	}
	return subcommands.ExitSuccess
}
