package indicator

import (
	"fmt"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/moznion/go-optional"
)

// Default confidence scores and window parameters. These are policy
// constants, not learned values; override them via the constructor options
// or rule parameters when tuning a strategy.
const (
	DefaultSMACrossoverConfidence = 0.8
	DefaultFastWindow             = 10
	DefaultSlowWindow             = 50
)

// SMACrossover fires an entry when the fast simple moving average crosses
// the slow one from below to above.
//
// Parameters: fast_window (int), slow_window (int).
type SMACrossover struct {
	confidence float64
}

// NewSMACrossover creates the rule with the default confidence score.
func NewSMACrossover() Rule {
	return &SMACrossover{confidence: DefaultSMACrossoverConfidence}
}

// NewSMACrossoverWithConfidence creates the rule with a custom confidence score.
func NewSMACrossoverWithConfidence(confidence float64) Rule {
	return &SMACrossover{confidence: confidence}
}

// Name returns the name of the rule.
func (s *SMACrossover) Name() types.IndicatorType {
	return types.IndicatorTypeSMACrossover
}

// SignalType returns the signal type of the rule.
func (s *SMACrossover) SignalType() types.SignalType {
	return types.SignalTypeEntry
}

// Evaluate fires when fast SMA <= slow SMA at the previous bar and
// fast SMA > slow SMA at the current bar. Both averages need a full window
// of history at both bars or the rule is silently skipped.
func (s *SMACrossover) Evaluate(history []types.PricePoint, params Params) (optional.Option[Trigger], error) {
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

	if fastPrev <= slowPrev && fastNow > slowNow {
		return optional.Some(Trigger{
			Confidence: s.confidence,
			Rationale: fmt.Sprintf("SMA(%d)=%.4f crossed above SMA(%d)=%.4f",
				fastWindow, fastNow, slowWindow, slowNow),
		}), nil
	}

	return optional.None[Trigger](), nil
}
