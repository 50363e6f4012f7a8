package indicator

import (
	"fmt"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/moznion/go-optional"
)

// DefaultSMACrossBelowConfidence is the fixed score for the exit-side cross.
const DefaultSMACrossBelowConfidence = 0.8

// SMACrossBelow fires an exit when the fast simple moving average crosses
// the slow one from above to below. The symmetric counterpart of
// SMACrossover.
//
// Parameters: fast_window (int), slow_window (int).
type SMACrossBelow struct {
	confidence float64
}

// NewSMACrossBelow creates the rule with the default confidence score.
func NewSMACrossBelow() Rule {
	return &SMACrossBelow{confidence: DefaultSMACrossBelowConfidence}
}

// NewSMACrossBelowWithConfidence creates the rule with a custom confidence score.
func NewSMACrossBelowWithConfidence(confidence float64) Rule {
	return &SMACrossBelow{confidence: confidence}
}

// Name returns the name of the rule.
func (s *SMACrossBelow) Name() types.IndicatorType {
	return types.IndicatorTypeSMACrossBelow
}

// SignalType returns the signal type of the rule.
func (s *SMACrossBelow) SignalType() types.SignalType {
	return types.SignalTypeExit
}

// Evaluate fires when fast SMA >= slow SMA at the previous bar and
// fast SMA < slow SMA at the current bar.
func (s *SMACrossBelow) Evaluate(history []types.PricePoint, params Params) (optional.Option[Trigger], error) {
	fastWindow := params.Int("fast_window", DefaultFastWindow)
	slowWindow := params.Int("slow_window", DefaultSlowWindow)

	if len(history) < 2 {
		return optional.None[Trigger](), nil
	}

	fastNow, okFastNow := simpleMovingAverage(history, fastWindow)
	slowNow, okSlowNow := simpleMovingAverage(history, slowWindow)
	fastPrev, okFastPrev := simpleMovingAverage(history[:len(history)-1], fastWindow)
	slowPrev, okSlowPrev := simpleMovingAverage(history[:len(history)-1], slowWindow)

	if !okFastNow || !okSlowNow || !okFastPrev || !okSlowPrev {
		return optional.None[Trigger](), nil
	}

	if fastPrev >= slowPrev && fastNow < slowNow {
		return optional.Some(Trigger{
			Confidence: s.confidence,
			Rationale: fmt.Sprintf("SMA(%d)=%.4f crossed below SMA(%d)=%.4f",
				fastWindow, fastNow, slowWindow, slowNow),
		}), nil
	}

	return optional.None[Trigger](), nil
}
