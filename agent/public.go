package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/quantfolio/trinity"
	"github.com/quantfolio/trinity/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is running a long-only momentum rotation backtest over a fixed ETF basket.
			He is here primarily to understand what the backtest did and why: rankings, tilts,
			rebalancing trades, dividends, drawdowns.

			Devise a plan of questions to ask each expert and come up with the best response
			to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewStrategist returns an expert grounded in web search, for questions about
// the funds themselves rather than the simulation.
func NewStrategist() *Expert {
	return &Expert{
		Name: "Strategist",
		Description: `This is an expert strategist,
		very well aware of financial products, asset classes and fund providers,
		and of the latest news about the different funds.
		Ask the Strategist whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in asset allocation. You can search and find about anything
			related to ETFs, indices, markets and fund providers. You leverage Google Search
			to ground your assertions in a solid truth.
				`}}},
		},
	}
}

// Quant is the expert in charge of the simulation's data: the ledger file and
// the market data directory it answers from.
type Quant struct {
	LedgerFile string
	MarketDir  string
}

// NewQuant returns the expert that reads the backtest ledger and market data.
func (q Quant) NewExpert() *Expert {
	lib := []Function{q.reviewFn(), q.ranksFn(), q.allocationFn()}

	return &Expert{
		Name: "Quant",
		Description: `This is the Quant. He is in charge of reading the backtest ledger and
		the market data. He can compute the performance review, the momentum rankings and
		the target allocation for any month-end of the simulation.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a quant in charge of the user's backtest ledger.
				You know how to use the Tools to extract relevant information about the
				simulation: its performance review, the momentum rankings on a month-end,
				and the target allocation the strategy computed there.
				Pardon the user's approximative language and figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

var dateProperty = &genai.Schema{
	Type:        genai.TypeString,
	Description: "The date, in YYYY-MM-DD format. The last simulated day is the default. The computation uses the last month-end trading date on or before it.",
}

func (q Quant) reviewFn() *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Review",
			Description: "Review computes the performance summary of the backtest: start and final value, cumulative return, max drawdown, final holdings.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted performance review.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return respond(id, "Review", func() (string, error) {
				ledger, err := q.loadLedger()
				if err != nil {
					return "", err
				}
				review, err := trinity.NewReview(ledger)
				if err != nil {
					return "", err
				}
				return renderer.ReviewMarkdown(review), nil
			})
		},
	}
}

func (q Quant) ranksFn() *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Ranks",
			Description: "Ranks computes the momentum ranking of the universe on a month-end: 1, 3, 6 and 12 month returns, their mean, and the resulting rank (1 is best).",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{"date": dateProperty},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted ranking table.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return respond(id, "Ranks", func() (string, error) {
				u := trinity.DefaultUniverse()
				market, cal, err := q.loadMarket(u)
				if err != nil {
					return "", err
				}
				on, err := monthEnd(cal, args)
				if err != nil {
					return "", err
				}
				ranks, err := trinity.ComputeRanks(on, u, market)
				if err != nil {
					return "", err
				}
				return renderer.RanksMarkdown(on, u, ranks), nil
			})
		},
	}
}

func (q Quant) allocationFn() *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Allocation",
			Description: "Allocation computes the target weights the strategy assigns on a month-end: baseline weights plus the tilt for top ranked assets trading above their 200 day average.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{"date": dateProperty},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted allocation table.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return respond(id, "Allocation", func() (string, error) {
				u := trinity.DefaultUniverse()
				market, cal, err := q.loadMarket(u)
				if err != nil {
					return "", err
				}
				on, err := monthEnd(cal, args)
				if err != nil {
					return "", err
				}
				ranks, err := trinity.ComputeRanks(on, u, market)
				if err != nil {
					return "", err
				}
				above := make(map[string]bool, len(ranks))
				for ticker := range ranks {
					ok, err := trinity.AboveTrend(market.Series(ticker, trinity.Close), on, trinity.TrendWindow)
					if err != nil {
						return "", err
					}
					above[ticker] = ok
				}
				target := trinity.DefaultPolicy().TargetWeights(u, ranks, above)
				return renderer.AllocationMarkdown(on, u, target), nil
			})
		},
	}
}

// respond wraps a markdown producer into the function-response envelope.
func respond(id, name string, f func() (string, error)) *genai.FunctionResponse {
	output, err := f()
	if err != nil {
		return &genai.FunctionResponse{
			ID:   id,
			Name: name,
			Response: map[string]any{
				"error": err.Error(),
			},
		}
	}
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": output,
		},
	}
}

func (q Quant) loadLedger() (*trinity.Ledger, error) {
	f, err := os.Open(q.LedgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no ledger at %q, run a backtest first", q.LedgerFile)
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", q.LedgerFile, err)
	}
	defer f.Close()

	ledger, err := trinity.DecodeLedger(f, trinity.DefaultUniverse())
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", q.LedgerFile, err)
	}
	return ledger, nil
}

func (q Quant) loadMarket(u *trinity.Universe) (*trinity.MarketData, *trinity.Calendar, error) {
	market, err := trinity.DecodeMarketData(q.MarketDir, u)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load market data from %q: %w", q.MarketDir, err)
	}
	cal, err := market.Calendar(u.Tickers())
	if err != nil {
		return nil, nil, err
	}
	return market, cal, nil
}

// monthEnd resolves the optional 'date' argument to a month-end trading date.
func monthEnd(cal *trinity.Calendar, args map[string]any) (trinity.Date, error) {
	until, ok := cal.Last()
	if !ok {
		return trinity.Date{}, fmt.Errorf("market data is empty")
	}
	if idate, hasDate := args["date"]; hasDate {
		sdate, ok := idate.(string)
		if !ok {
			return trinity.Date{}, fmt.Errorf("argument 'date' is not a string as expected but %T", idate)
		}
		parsed, err := trinity.ParseDate(sdate)
		if err != nil {
			return trinity.Date{}, fmt.Errorf("argument 'date' must be a YYYY-MM-DD date, got %q", sdate)
		}
		until = parsed
	}
	first, _ := cal.First()
	var last trinity.Date
	for day := range cal.MonthEnds(first, until) {
		last = day
	}
	if last.IsZero() {
		return trinity.Date{}, fmt.Errorf("no month-end trading date on or before %s", until)
	}
	return last, nil
}
