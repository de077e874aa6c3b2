package agent

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/captable"
	"github.com/etnz/captable/date"
	"github.com/etnz/captable/docs"
	"github.com/etnz/captable/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			You assist a startup founder with the company's cap table.

			Learn about the experts' skills from the Tools and ask them questions.
			They keep the context of your previous questions.

			Devise a plan of questions to the experts and come up with the best answer.
			Figures must come from the Analyst, never compute them yourself.
			`),
		},
		Library: NewLibrary(experts),
	}
}

// NewCounsel returns an expert in venture financing terms, grounded with
// Google Search.
func NewCounsel() *Expert {
	return &Expert{
		Name: "Counsel",
		Description: `This is a lawyer specialized in venture financing.
		Ask the Counsel about the meaning of terms like liquidation preference,
		participation, conversion caps, pro-rata rights or vesting, and about market practice.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are a lawyer specialized in startup financing. You explain term sheet clauses
			and the current market practice. Leverage Google Search to ground your assertions.
			`),
		},
	}
}

// NewAnalyst returns the expert that runs computations on t.
func NewAnalyst(t *captable.CapTable) *Expert {
	lib := []Function{summaryFunc(t), liquidateFunc(t), financeFunc(t), topicFunc()}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It reads the company's cap table and computes
		its summary, the proceeds of each holder in a sale and the outcome of a financing round.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(fmt.Sprintf(`
			You are the analyst of %s's cap table. Use the Tools to answer with exact figures.
			Amounts are in %s. Read the documentation topics when a term is unclear.
			`, t.Name(), t.Currency())),
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, args map[string]any) (string, error)
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	out, err := f.Func(ctx, args)
	if err != nil {
		return failure(id, f.Decl.Name, err)
	}
	return success(id, f.Decl.Name, out)
}

var dateSchema = &genai.Schema{
	Type:        genai.TypeString,
	Description: "The day of the cap table in YYYY-MM-DD format. Today is the default.",
}

func amountSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber, Description: description}
}

var markdown = &genai.Schema{Type: genai.TypeString, Description: "A markdown report."}

func summaryFunc(t *captable.CapTable) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Summary",
			Description: "Summary lists the securities with their authorized, outstanding and fully diluted shares.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{"date": dateSchema},
			},
			Response: markdown,
		},
		Func: func(_ context.Context, args map[string]any) (string, error) {
			s, err := snapshot(t, args)
			if err != nil {
				return "", err
			}
			return renderer.SummaryMarkdown(s.NewSummaryReport()), nil
		},
	}
}

func liquidateFunc(t *captable.CapTable) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Liquidate",
			Description: "Liquidate distributes the purchase price of the company among the holders through the liquidation waterfall.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date":  dateSchema,
					"price": amountSchema("The purchase price of the company."),
				},
				Required: []string{"price"},
			},
			Response: markdown,
		},
		Func: func(_ context.Context, args map[string]any) (string, error) {
			s, err := snapshot(t, args)
			if err != nil {
				return "", err
			}
			price, err := number(args, "price")
			if err != nil {
				return "", err
			}
			r, err := s.NewLiquidationReport(captable.M(price, t.Currency()))
			if err != nil {
				return "", err
			}
			return renderer.LiquidationMarkdown(r), nil
		},
	}
}

func financeFunc(t *captable.CapTable) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Finance",
			Description: "Finance computes the cap table after a priced round.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date":          dateSchema,
					"new_money":     amountSchema("The cash raised in the round."),
					"pre_valuation": amountSchema("The pre-money valuation."),
					"pool_rata":     amountSchema("The target option pool as a fraction of the post-money, 0 keeps the pool as is."),
				},
				Required: []string{"new_money", "pre_valuation"},
			},
			Response: markdown,
		},
		Func: func(_ context.Context, args map[string]any) (string, error) {
			s, err := snapshot(t, args)
			if err != nil {
				return "", err
			}
			newMoney, err := number(args, "new_money")
			if err != nil {
				return "", err
			}
			pre, err := number(args, "pre_valuation")
			if err != nil {
				return "", err
			}
			var pool float64
			if _, ok := args["pool_rata"]; ok {
				if pool, err = number(args, "pool_rata"); err != nil {
					return "", err
				}
			}
			r, err := s.NewFinancingReport(captable.Financing{
				NewMoney:     captable.M(newMoney, t.Currency()),
				PreValuation: captable.M(pre, t.Currency()),
				PoolRata:     captable.R(pool),
			})
			if err != nil {
				return "", err
			}
			return renderer.FinancingMarkdown(r), nil
		},
	}
}

func topicFunc() *Func {
	descriptions, err := docs.Descriptions()
	if err != nil {
		panic(err)
	}
	var b strings.Builder
	for _, topic := range slices.Sorted(maps.Keys(descriptions)) {
		fmt.Fprintf(&b, "\n- %s: %s", topic, descriptions[topic])
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Topic",
			Description: "Topic returns a page of the user manual. The topics are:" + b.String(),
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {Type: genai.TypeString, Description: "The topic name."},
				},
				Required: []string{"topic"},
			},
			Response: markdown,
		},
		Func: func(_ context.Context, args map[string]any) (string, error) {
			topic, ok := args["topic"].(string)
			if !ok {
				return "", fmt.Errorf("argument 'topic' is not a string but %T", args["topic"])
			}
			return docs.GetTopic(topic)
		},
	}
}

// snapshot freezes t on the "date" argument.
func snapshot(t *captable.CapTable, args map[string]any) (*captable.Snapshot, error) {
	var on date.Date
	if v, ok := args["date"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("argument 'date' is not a string but %T", v)
		}
		d, err := date.Parse(s)
		if err != nil {
			return nil, err
		}
		on = d
	}
	return t.Snapshot(on)
}

func number(args map[string]any, name string) (float64, error) {
	switch v := args[name].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case nil:
		return 0, fmt.Errorf("missing argument %q", name)
	default:
		return 0, fmt.Errorf("argument %q is not a number but %T", name, v)
	}
}
