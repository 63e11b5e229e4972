package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/quantfolio/trinity"
)

func ReviewMarkdown(r *trinity.Review) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Backtest Review %s", r.Range))
	doc.PlainTextf("Run %s", r.ID)

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Final Value"),
			md.Bold(r.EndValue.String()),
		},
		Rows: [][]string{
			{"Starting Value", r.StartValue.String()},
			{"Cumulative Return", r.Return.SignedString()},
			{"Max Drawdown", r.MaxDrawdown.SignedString()},
			{"Cash", r.Cash.String()},
		},
	})

	if len(r.Holdings) > 0 {
		doc.H2("Final Holdings")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Ticker", "Shares", "Close", "Value", "Weight"},
		}
		for _, h := range r.Holdings {
			if h.Shares == 0 {
				continue
			}
			table.Rows = append(table.Rows, []string{
				h.Ticker,
				fmt.Sprintf("%d", h.Shares),
				h.Close.String(),
				h.Value.String(),
				h.Weight.String(),
			})
		}
		doc.Table(table)
	}

	return doc.String()
}
