package explainer

// Per-token USD rates, input and output.
type rate struct {
	input  float64
	output float64
}

const DefaultModel = "gpt-4o-mini"

var rates = map[string]rate{
	"gpt-4o-mini": {input: 0.15 / 1e6, output: 0.60 / 1e6},
	"gpt-4o":      {input: 2.50 / 1e6, output: 10.0 / 1e6},
	"gpt-4-turbo": {input: 10.0 / 1e6, output: 30.0 / 1e6},
}

// Cost prices a call. Unknown models are priced as DefaultModel.
func Cost(model string, promptTokens, completionTokens int) float64 {
	r, ok := rates[model]
	if !ok {
		r = rates[DefaultModel]
	}
	return float64(promptTokens)*r.input + float64(completionTokens)*r.output
}
