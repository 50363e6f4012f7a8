package signal

import (
	"fmt"
	"testing"

	"github.com/matthewlshields/jx-42/internal/indicator"
	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/matthewlshields/jx-42/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	s.engine = NewEngine(indicator.NewDefaultRuleRegistry(), nil)
}

func series(symbol string, closes ...float64) []types.PricePoint {
	points := make([]types.PricePoint, 0, len(closes))
	for i, c := range closes {
		points = append(points, types.PricePoint{
			Symbol: symbol,
			Date:   fmt.Sprintf("2024-01-%02d", i+1),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		})
	}

	return points
}

func testStrategy(rules ...types.StrategyRule) types.StrategyDefinition {
	return types.StrategyDefinition{
		StrategyID:       "test-strategy",
		Name:             "Test Strategy",
		Version:          "1.0.0",
		Universe:         []string{"TEST"},
		Rules:            rules,
		MaxPositionSize:  0.1,
		MaxOpenPositions: 5,
		MaxDrawdownPct:   0.2,
	}
}

func smaRule(id string) types.StrategyRule {
	return types.StrategyRule{
		RuleID:    id,
		RuleType:  types.SignalTypeEntry,
		Indicator: types.IndicatorTypeSMACrossover,
		Parameters: map[string]float64{
			"fast_window": 2,
			"slow_window": 3,
		},
	}
}

func (s *EngineTestSuite) TestComputeSignals() {
	strategy := testStrategy(smaRule("sma-entry"))
	points := series("TEST", 10, 9, 8, 7, 12)

	signals, err := s.engine.ComputeSignals(points, strategy)
	s.Require().NoError(err)
	s.Require().Len(signals, 1)

	sig := signals[0]
	s.Equal("TEST", sig.Symbol)
	s.Equal("2024-01-05", sig.Date)
	s.Equal(types.SignalTypeEntry, sig.Type)
	s.Equal("sma-entry", sig.RuleID)
	s.Equal(indicator.DefaultSMACrossoverConfidence, sig.Confidence)
	s.NotEmpty(sig.Rationale)
}

func (s *EngineTestSuite) TestCausality() {
	// Changing a future bar must not change any signal at or before it.
	strategy := testStrategy(smaRule("sma-entry"))

	base := series("TEST", 10, 9, 8, 7, 12, 11, 10)
	mutated := series("TEST", 10, 9, 8, 7, 12, 11, 500)

	baseSignals, err := s.engine.ComputeSignals(base, strategy)
	s.Require().NoError(err)

	mutatedSignals, err := s.engine.ComputeSignals(mutated, strategy)
	s.Require().NoError(err)

	prefix := func(signals []types.TradeSignal, until string) []types.TradeSignal {
		kept := make([]types.TradeSignal, 0)
		for _, sig := range signals {
			if sig.Date <= until {
				kept = append(kept, sig)
			}
		}

		return kept
	}

	s.Equal(prefix(baseSignals, "2024-01-06"), prefix(mutatedSignals, "2024-01-06"))
}

func (s *EngineTestSuite) TestBarZeroNeverFires() {
	strategy := testStrategy(types.StrategyRule{
		RuleID:     "stop",
		RuleType:   types.SignalTypeExit,
		Indicator:  types.IndicatorTypeTrailingStop,
		Parameters: map[string]float64{"pct": 0.01},
	})

	// A steep first-bar drop still cannot fire before bar 1.
	signals, err := s.engine.ComputeSignals(series("TEST", 1), strategy)
	s.Require().NoError(err)
	s.Empty(signals)
}

func (s *EngineTestSuite) TestMultipleRulesSameBar() {
	strategy := testStrategy(
		smaRule("sma-entry"),
		types.StrategyRule{
			RuleID:     "breakout-entry",
			RuleType:   types.SignalTypeEntry,
			Indicator:  types.IndicatorTypeBreakout,
			Parameters: map[string]float64{"window": 3},
		},
	)

	// The last bar both crosses the SMA and clears the 3-day high.
	points := series("TEST", 10, 9, 8, 7, 12)

	signals, err := s.engine.ComputeSignals(points, strategy)
	s.Require().NoError(err)
	s.Require().Len(signals, 2)

	// Rule declaration order is preserved within a bar.
	s.Equal("sma-entry", signals[0].RuleID)
	s.Equal("breakout-entry", signals[1].RuleID)
	s.Equal(signals[0].Date, signals[1].Date)
}

func (s *EngineTestSuite) TestRuleTypeMismatchSkipped() {
	// An exit rule bound to an entry indicator never fires.
	strategy := testStrategy(types.StrategyRule{
		RuleID:    "wrong-side",
		RuleType:  types.SignalTypeExit,
		Indicator: types.IndicatorTypeSMACrossover,
		Parameters: map[string]float64{
			"fast_window": 2,
			"slow_window": 3,
		},
	})

	signals, err := s.engine.ComputeSignals(series("TEST", 10, 9, 8, 7, 12), strategy)
	s.Require().NoError(err)
	s.Empty(signals)
}

func (s *EngineTestSuite) TestUnknownIndicator() {
	strategy := testStrategy(types.StrategyRule{
		RuleID:    "mystery",
		RuleType:  types.SignalTypeEntry,
		Indicator: types.IndicatorType("no_such_indicator"),
	})

	_, err := s.engine.ComputeSignals(series("TEST", 10, 9), strategy)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
	s.Contains(err.Error(), "mystery")
}

func (s *EngineTestSuite) TestEmptyHistory() {
	signals, err := s.engine.ComputeSignals(nil, testStrategy(smaRule("sma-entry")))
	s.Require().NoError(err)
	s.Empty(signals)
}

func (s *EngineTestSuite) TestNoRules() {
	signals, err := s.engine.ComputeSignals(series("TEST", 10, 11, 12), testStrategy())
	s.Require().NoError(err)
	s.Empty(signals)
}
