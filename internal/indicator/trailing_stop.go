package indicator

import (
	"fmt"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/moznion/go-optional"
)

const (
	// DefaultTrailingStopConfidence is the fixed score for trailing-stop exits.
	DefaultTrailingStopConfidence = 0.9
	// DefaultTrailingStopPct is the fractional drop from the running peak.
	DefaultTrailingStopPct = 0.05
)

// TrailingStop fires an exit when the current close falls below
// (1 - pct) * the highest high observed so far, current bar included.
//
// Parameters: pct (float in (0,1)).
type TrailingStop struct {
	confidence float64
}

// NewTrailingStop creates the rule with the default confidence score.
func NewTrailingStop() Rule {
	return &TrailingStop{confidence: DefaultTrailingStopConfidence}
}

// NewTrailingStopWithConfidence creates the rule with a custom confidence score.
func NewTrailingStopWithConfidence(confidence float64) Rule {
	return &TrailingStop{confidence: confidence}
}

// Name returns the name of the rule.
func (t *TrailingStop) Name() types.IndicatorType {
	return types.IndicatorTypeTrailingStop
}

// SignalType returns the signal type of the rule.
func (t *TrailingStop) SignalType() types.SignalType {
	return types.SignalTypeExit
}

// Evaluate compares the current close against the stop level derived from
// the running peak high over bars 0..i.
func (t *TrailingStop) Evaluate(history []types.PricePoint, params Params) (optional.Option[Trigger], error) {
	pct := params.Float("pct", DefaultTrailingStopPct)

	if len(history) < 2 {
		return optional.None[Trigger](), nil
	}

	peak, ok := highestHigh(history)
	if !ok {
		return optional.None[Trigger](), nil
	}

	stop := peak * (1 - pct)

	current := history[len(history)-1]
	if current.Close < stop {
		return optional.Some(Trigger{
			Confidence: t.confidence,
			Rationale: fmt.Sprintf("trailing stop hit: close %.4f < stop %.4f (peak %.4f)",
				current.Close, stop, peak),
		}), nil
	}

	return optional.None[Trigger](), nil
}
