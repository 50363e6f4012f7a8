// Package signal computes causal entry/exit signals for one symbol's price
// history against a strategy's rules.
package signal

import (
	"github.com/matthewlshields/jx-42/internal/indicator"
	"github.com/matthewlshields/jx-42/internal/logger"
	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/matthewlshields/jx-42/pkg/errors"
	"go.uber.org/zap"
)

// Engine evaluates strategy rules over price history through the rule
// registry. It holds no per-run state; one Engine can serve any number of
// independent invocations.
type Engine struct {
	registry indicator.RuleRegistry
	log      *logger.Logger
}

// NewEngine creates a signal engine backed by the given rule registry.
func NewEngine(registry indicator.RuleRegistry, log *logger.Logger) *Engine {
	return &Engine{
		registry: registry,
		log:      log,
	}
}

// ComputeSignals evaluates every strategy rule over one symbol's history and
// returns the fired signals in bar order.
//
// The input must be pre-sorted ascending by date; the engine does not
// re-sort, so the causal prefix handed to each rule is explicit. Bar 0 never
// fires since no prior state exists. Each rule sees only bars 0..i when
// deciding about bar i. Multiple rules may fire on the same bar; nothing is
// de-duplicated here, the simulator decides which signals to act on.
//
// A rule referencing an indicator missing from the registry is an error: an
// unknown indicator must fail at the boundary rather than silently produce
// no signals.
func (e *Engine) ComputeSignals(points []types.PricePoint, strategy types.StrategyDefinition) ([]types.TradeSignal, error) {
	signals := make([]types.TradeSignal, 0)

	if len(points) == 0 {
		return signals, nil
	}

	// Resolve all rules up front so a bad strategy fails before any signal
	// is produced.
	rules := make([]indicator.Rule, len(strategy.Rules))

	for idx, stratRule := range strategy.Rules {
		rule, err := e.registry.GetRule(stratRule.Indicator)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeIndicatorNotFound, err,
				"strategy %s rule %s references unknown indicator %s",
				strategy.StrategyID, stratRule.RuleID, stratRule.Indicator)
		}

		rules[idx] = rule
	}

	for i := 1; i < len(points); i++ {
		history := points[:i+1]

		for idx, stratRule := range strategy.Rules {
			rule := rules[idx]

			// A rule only fires on its own side: an entry rule bound to an
			// exit indicator (or vice versa) never triggers.
			if rule.SignalType() != stratRule.RuleType {
				continue
			}

			trigger, err := rule.Evaluate(history, indicator.Params(stratRule.Parameters))
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeIndicatorCalculation, err,
					"rule %s (%s) failed at bar %s", stratRule.RuleID, stratRule.Indicator, points[i].Date)
			}

			if trigger.IsNone() {
				continue
			}

			fired := trigger.Unwrap()
			signals = append(signals, types.TradeSignal{
				Symbol:     points[i].Symbol,
				Date:       points[i].Date,
				Type:       stratRule.RuleType,
				RuleID:     stratRule.RuleID,
				Confidence: fired.Confidence,
				Rationale:  fired.Rationale,
			})
		}
	}

	if e.log != nil {
		e.log.Debug("Signals computed",
			zap.String("strategy", strategy.StrategyID),
			zap.String("symbol", points[0].Symbol),
			zap.Int("bars", len(points)),
			zap.Int("signals", len(signals)),
		)
	}

	return signals, nil
}
