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

type reviewCmd struct{}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "review the backtest performance" }
func (*reviewCmd) Usage() string {
	return `tps review

  Summarize the simulated ledger: start and final value, cumulative return,
  max drawdown and the final holdings.
`
}
func (*reviewCmd) SetFlags(f *flag.FlagSet) {}

func (c *reviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, exists, err := DecodeLedger(trinity.DefaultUniverse())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !exists {
		fmt.Fprintln(os.Stderr, "no ledger found, run 'tps backtest' first")
		return subcommands.ExitFailure
	}

	review, err := trinity.NewReview(ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ReviewMarkdown(review))
	return subcommands.ExitSuccess
}
