package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/quantfolio/trinity"
)

type updateCmd struct {
	from string
	to   string
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "update daily bars and dividends from the eodhd.com provider"
}
func (*updateCmd) Usage() string {
	return `tps update [-from <date>] [-to <date>]

  Fetch daily bars and dividends for the whole universe and append them to
  the market data folder. Only dates after the last stored bar are fetched.
`
}
func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "2013-01-01", "first date to fetch when the market data is empty")
	f.StringVar(&c.to, "to", "", "last date to fetch, today by default")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Println("no arguments expected")
		return subcommands.ExitUsageError
	}

	from, err := trinity.ParseDate(c.from)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -from date:", err)
		return subcommands.ExitUsageError
	}
	to := trinity.Today()
	if c.to != "" {
		if to, err = trinity.ParseDate(c.to); err != nil {
			fmt.Fprintln(os.Stderr, "invalid -to date:", err)
			return subcommands.ExitUsageError
		}
	}

	u := trinity.DefaultUniverse()
	market, err := DecodeMarketData(u)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	provider, err := trinity.NewEODHD()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := market.Update(provider, u, from, to); err != nil {
		fmt.Fprintln(os.Stderr, "failed to update market data:", err)
		return subcommands.ExitFailure
	}

	if err := EncodeMarketData(market, u); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
