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

type allocationCmd struct {
	date string
}

func (*allocationCmd) Name() string     { return "allocation" }
func (*allocationCmd) Synopsis() string { return "show the target allocation on a month-end" }
func (*allocationCmd) Usage() string {
	return `tps allocation [-d <date>]

  Compute the target weights of the strategy on the last month-end trading
  date on or before the given date: baseline weights, plus the tilt for
  top ranked assets trading above their 200 day average.
`
}
func (c *allocationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "date for the allocation, last stored bar by default")
}

func (c *allocationCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	above := make(map[string]bool, len(ranks))
	for ticker := range ranks {
		ok, err := trinity.AboveTrend(market.Series(ticker, trinity.Close), on, trinity.TrendWindow)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		above[ticker] = ok
	}

	target := trinity.DefaultPolicy().TargetWeights(u, ranks, above)
	printMarkdown(renderer.AllocationMarkdown(on, u, target))
	return subcommands.ExitSuccess
}
