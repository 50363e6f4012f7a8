package indicator

import (
	"fmt"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/moznion/go-optional"
)

const (
	// DefaultBreakoutConfidence is the fixed score for breakout entries.
	DefaultBreakoutConfidence = 0.7
	// DefaultBreakoutWindow is the lookback window in bars.
	DefaultBreakoutWindow = 20
)

// Breakout fires an entry when the current close exceeds the highest high of
// the preceding window bars.
//
// Parameters: window (int).
type Breakout struct {
	confidence float64
}

// NewBreakout creates the rule with the default confidence score.
func NewBreakout() Rule {
	return &Breakout{confidence: DefaultBreakoutConfidence}
}

// NewBreakoutWithConfidence creates the rule with a custom confidence score.
func NewBreakoutWithConfidence(confidence float64) Rule {
	return &Breakout{confidence: confidence}
}

// Name returns the name of the rule.
func (b *Breakout) Name() types.IndicatorType {
	return types.IndicatorTypeBreakout
}

// SignalType returns the signal type of the rule.
func (b *Breakout) SignalType() types.SignalType {
	return types.SignalTypeEntry
}

// Evaluate compares the current close against the highest high of the
// preceding window bars, excluding the current bar. Skipped silently until
// a full window of history precedes the bar.
func (b *Breakout) Evaluate(history []types.PricePoint, params Params) (optional.Option[Trigger], error) {
	window := params.Int("window", DefaultBreakoutWindow)

	// Bars 0..i-1 must contain at least window entries.
	i := len(history) - 1
	if window <= 0 || i < window {
		return optional.None[Trigger](), nil
	}

	recentHigh, ok := highestHigh(history[i-window : i])
	if !ok {
		return optional.None[Trigger](), nil
	}

	current := history[i]
	if current.Close > recentHigh {
		return optional.Some(Trigger{
			Confidence: b.confidence,
			Rationale: fmt.Sprintf("close %.4f > %d-day high %.4f",
				current.Close, window, recentHigh),
		}), nil
	}

	return optional.None[Trigger](), nil
}
