// Package pricing maps model names to per-token prices for cost attribution.
package pricing

// ModelPricing holds USD prices per 1K tokens.
type ModelPricing struct {
	// Prompt is the price per 1K prompt tokens.
	Prompt float64

	// Completion is the price per 1K completion tokens.
	Completion float64
}

// models holds the built-in price table. Prices are taken from the provider
// price sheets and can be overridden with Register.
var models = map[string]ModelPricing{
	"gpt-4":         {Prompt: 0.03, Completion: 0.06},
	"gpt-4-32k":     {Prompt: 0.06, Completion: 0.12},
	"gpt-4-turbo":   {Prompt: 0.01, Completion: 0.03},
	"gpt-4o":        {Prompt: 0.005, Completion: 0.015},
	"gpt-4o-mini":   {Prompt: 0.00015, Completion: 0.0006},
	"gpt-3.5-turbo": {Prompt: 0.0005, Completion: 0.0015},
}

// Lookup returns the pricing for a model and whether it is known.
func Lookup(model string) (ModelPricing, bool) {
	p, ok := models[model]
	return p, ok
}

// Register adds or overrides the pricing for a model.
//
// Not safe for concurrent use with Cost or Lookup; register overrides during
// setup, before tracking starts.
func Register(model string, p ModelPricing) {
	models[model] = p
}

// Cost computes the USD cost of a call. Unknown models cost zero, so tracking
// still records token counts when no price is on file.
func Cost(model string, promptTokens, completionTokens int) float64 {
	p, ok := models[model]
	if !ok {
		return 0
	}
	return float64(promptTokens)/1000*p.Prompt + float64(completionTokens)/1000*p.Completion
}
