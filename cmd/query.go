package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
	"github.com/quantfolio/trinity"
)

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "query the ledger with a JSONPath expression" }
func (*queryCmd) Usage() string {
	return `tps query <jsonpath>

  Evaluate a JSONPath expression against the ledger. The ledger document is
  {"universe": [...], "entries": [{"Date":..., "Cash":..., "<ticker>_shares":...,
  "<ticker>_close":..., "Portfolio Value":...}, ...]}.

Usage Examples:
# Final portfolio value.
$ tps query '$.entries[-1:]["Portfolio Value"]'

# Every month-end cash balance.
$ tps query '$.entries[*].Cash'
`
}
func (*queryCmd) SetFlags(f *flag.FlagSet) {}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one JSONPath expression")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)

	ledger, exists, err := DecodeLedger(trinity.DefaultUniverse())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !exists {
		fmt.Fprintln(os.Stderr, "no ledger found, run 'tps backtest' first")
		return subcommands.ExitFailure
	}

	// Round-trip through plain JSON values: jsonpath walks maps and slices,
	// not structs.
	doc, err := json.Marshal(ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	var jobj any
	if err := json.Unmarshal(doc, &jobj); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error evaluating %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	out, err := json.MarshalIndent(jval, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
