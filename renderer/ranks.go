package renderer

import (
	"bytes"
	"fmt"
	"sort"

	md "github.com/nao1215/markdown"
	"github.com/quantfolio/trinity"
)

// RanksMarkdown renders the momentum ranking computed on one month-end.
func RanksMarkdown(on trinity.Date, u *trinity.Universe, ranks map[string]trinity.ReturnRank) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Momentum Ranks on %s", on))

	type row struct {
		ticker string
		rank   trinity.ReturnRank
	}
	rows := make([]row, 0, len(ranks))
	for ticker, r := range ranks {
		rows = append(rows, row{ticker, r})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].rank.Rank < rows[j].rank.Rank })

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Rank", "Ticker", "1M", "3M", "6M", "1Y", "Mean"},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", r.rank.Rank),
			r.ticker,
			r.rank.R1M.SignedString(),
			r.rank.R3M.SignedString(),
			r.rank.R6M.SignedString(),
			r.rank.R1Y.SignedString(),
			r.rank.Mean.SignedString(),
		})
	}
	doc.Table(table)

	if unranked := unrankedTickers(u, ranks); len(unranked) > 0 {
		doc.PlainTextf("Not ranked (insufficient history): %v", unranked)
	}
	return doc.String()
}

func unrankedTickers(u *trinity.Universe, ranks map[string]trinity.ReturnRank) []string {
	var out []string
	for _, ticker := range u.Tickers() {
		if _, ok := ranks[ticker]; !ok {
			out = append(out, ticker)
		}
	}
	return out
}
