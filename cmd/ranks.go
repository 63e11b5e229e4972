package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/quantfolio/trinity"
	"github.com/quantfolio/trinity/renderer"
)

type ranksCmd struct {
	date string
}

func (*ranksCmd) Name() string     { return "ranks" }
func (*ranksCmd) Synopsis() string { return "show the momentum ranking on a month-end" }
func (*ranksCmd) Usage() string {
	return `tps ranks [-d <date>]

  Rank the universe by the mean of its 1, 3, 6 and 12 month returns, computed
  on the last month-end trading date on or before the given date.
`
}
func (c *ranksCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "date for the ranking, last stored bar by default")
}

func (c *ranksCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	u := trinity.DefaultUniverse()
	on, market, status := resolveMonthEnd(c.date, u)
	if status != subcommands.ExitSuccess {
		return status
	}

	ranks, err := trinity.ComputeRanks(on, u, market)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RanksMarkdown(on, u, ranks))
	return subcommands.ExitSuccess
}

// resolveMonthEnd loads market data and resolves the optional -d flag to a
// month-end trading date.
func resolveMonthEnd(date string, u *trinity.Universe) (trinity.Date, *trinity.MarketData, subcommands.ExitStatus) {
	market, err := DecodeMarketData(u)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return trinity.Date{}, nil, subcommands.ExitFailure
	}
	cal, err := market.Calendar(u.Tickers())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return trinity.Date{}, nil, subcommands.ExitFailure
	}

	last, ok := cal.Last()
	if !ok {
		fmt.Fprintln(os.Stderr, "market data is empty, run 'tps update' first")
		return trinity.Date{}, nil, subcommands.ExitFailure
	}
	until := last
	if date != "" {
		if until, err = trinity.ParseDate(date); err != nil {
			fmt.Fprintln(os.Stderr, "invalid -d date:", err)
			return trinity.Date{}, nil, subcommands.ExitUsageError
		}
		first, _ := cal.First()
		if span := trinity.NewRange(first, last); !span.Contains(until) {
			fmt.Fprintf(os.Stderr, "%s is outside the stored market data (%s)\n", until, span)
			return trinity.Date{}, nil, subcommands.ExitUsageError
		}
	}

	on, err := monthEndOnOrBefore(cal, until)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return trinity.Date{}, nil, subcommands.ExitFailure
	}
	return on, market, subcommands.ExitSuccess
}
