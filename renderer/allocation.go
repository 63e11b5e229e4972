package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/quantfolio/trinity"
)

// AllocationMarkdown renders the target weights computed for one month-end,
// next to the baselines so tilted assets stand out.
func AllocationMarkdown(on trinity.Date, u *trinity.Universe, target trinity.AllocationTarget) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Target Allocation on %s", on))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Ticker", "Baseline", "Target", ""},
	}
	var invested trinity.Percent
	for a := range u.Assets() {
		w := target[a.Ticker]
		invested += w
		note := ""
		if !w.Equal(a.Baseline) {
			note = "tilted"
		}
		table.Rows = append(table.Rows, []string{
			a.Ticker,
			a.Baseline.String(),
			w.String(),
			note,
		})
	}
	table.Rows = append(table.Rows, []string{
		md.Bold("Cash"), "", md.Bold(trinity.Percent(1 - invested).String()), "",
	})
	doc.Table(table)

	return doc.String()
}
