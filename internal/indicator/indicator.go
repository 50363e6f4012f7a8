package indicator

import (
	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/moznion/go-optional"
)

// Params holds the named numeric parameters of a strategy rule.
type Params map[string]float64

// Int returns the parameter as an int, or the fallback when absent.
func (p Params) Int(key string, fallback int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}

	return fallback
}

// Float returns the parameter, or the fallback when absent.
func (p Params) Float(key string, fallback float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}

	return fallback
}

// Trigger is produced when a rule fires on the last bar of its history prefix.
type Trigger struct {
	// Confidence is the fixed per-indicator score in [0,1]
	Confidence float64
	// Rationale embeds the numeric values that triggered the rule
	Rationale string
}

// Rule interface defines methods that any rule indicator must implement.
//
// Evaluate receives the causal prefix of one symbol's price history: bars
// 0..i inclusive, where bar i is the bar under evaluation. A rule never sees
// a price later than its own signal date, so look-ahead is impossible by
// construction. Rules with insufficient history return None without error.
type Rule interface {
	// Name returns the registry name of the indicator
	Name() types.IndicatorType
	// SignalType returns whether the rule proposes entries or exits
	SignalType() types.SignalType
	// Evaluate decides whether the rule fires on the last bar of history
	Evaluate(history []types.PricePoint, params Params) (optional.Option[Trigger], error)
}
