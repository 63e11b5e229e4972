package trinity

import "testing"

func TestTargetWeights(t *testing.T) {
	u, err := NewUniverse([]Asset{
		{Ticker: "T1", Baseline: 0.05},
		{Ticker: "T5", Baseline: 0.05},
		{Ticker: "T6", Baseline: 0.05},
		{Ticker: "TD", Baseline: 0.05}, // ranked high but below trend
		{Ticker: "TU", Baseline: 0.05}, // not ranked at all
	})
	if err != nil {
		t.Fatal(err)
	}

	ranks := map[string]ReturnRank{
		"T1": {Rank: 1},
		"T5": {Rank: 5},
		"T6": {Rank: 6},
		"TD": {Rank: 2},
	}
	trend := map[string]bool{"T1": true, "T5": true, "T6": true, "TD": false}

	target := DefaultPolicy().TargetWeights(u, ranks, trend)

	testCases := []struct {
		ticker string
		want   Percent
	}{
		{ticker: "T1", want: 0.25}, // top rank, above trend: tilted
		{ticker: "T5", want: 0.25}, // rank 5 is still within the top 5
		{ticker: "T6", want: 0.05}, // rank 6 misses the cut
		{ticker: "TD", want: 0.05}, // top rank but below trend
		{ticker: "TU", want: 0.05}, // unranked assets stay at baseline
	}
	for _, tc := range testCases {
		if got := target[tc.ticker]; !got.Equal(tc.want) {
			t.Errorf("target[%s] = %v, want %v", tc.ticker, float64(got), float64(tc.want))
		}
	}
}
