package indicator

import (
	"fmt"
	"testing"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/stretchr/testify/suite"
)

type RuleTestSuite struct {
	suite.Suite
}

func TestRuleSuite(t *testing.T) {
	suite.Run(t, new(RuleTestSuite))
}

// series builds one symbol's history from close prices. High and low are
// pinned to the close so SMA tests are not disturbed by intrabar ranges.
func series(closes ...float64) []types.PricePoint {
	points := make([]types.PricePoint, 0, len(closes))
	for i, c := range closes {
		points = append(points, types.PricePoint{
			Symbol: "TEST",
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

func (s *RuleTestSuite) TestSMACrossoverFires() {
	rule := NewSMACrossover()
	params := Params{"fast_window": 2, "slow_window": 3}

	// fast 7.5 <= slow 8.0 at the previous bar, fast 9.5 > slow 9.0 now
	history := series(10, 9, 8, 7, 12)

	trigger, err := rule.Evaluate(history, params)
	s.Require().NoError(err)
	s.Require().True(trigger.IsSome())

	value := trigger.Unwrap()
	s.Equal(DefaultSMACrossoverConfidence, value.Confidence)
	s.Contains(value.Rationale, "crossed above")
}

func (s *RuleTestSuite) TestSMACrossoverNoCross() {
	rule := NewSMACrossover()
	params := Params{"fast_window": 2, "slow_window": 3}

	trigger, err := rule.Evaluate(series(10, 9, 8, 7, 6), params)
	s.Require().NoError(err)
	s.True(trigger.IsNone())
}

func (s *RuleTestSuite) TestSMACrossoverInsufficientHistory() {
	rule := NewSMACrossover()
	params := Params{"fast_window": 2, "slow_window": 3}

	// The slow average needs a full window at the previous bar too.
	trigger, err := rule.Evaluate(series(8, 7, 12), params)
	s.Require().NoError(err)
	s.True(trigger.IsNone())
}

func (s *RuleTestSuite) TestSMACrossoverSingleBar() {
	rule := NewSMACrossover()

	trigger, err := rule.Evaluate(series(10), Params{})
	s.Require().NoError(err)
	s.True(trigger.IsNone())
}

func (s *RuleTestSuite) TestSMACrossoverCustomConfidence() {
	rule := NewSMACrossoverWithConfidence(0.42)
	params := Params{"fast_window": 2, "slow_window": 3}

	trigger, err := rule.Evaluate(series(10, 9, 8, 7, 12), params)
	s.Require().NoError(err)
	s.Require().True(trigger.IsSome())
	s.Equal(0.42, trigger.Unwrap().Confidence)
}

func (s *RuleTestSuite) TestSMACrossBelowFires() {
	rule := NewSMACrossBelow()
	params := Params{"fast_window": 2, "slow_window": 3}

	// fast 12 >= slow 12 at the previous bar, fast 9 < slow 10 now
	history := series(12, 12, 12, 12, 6)

	trigger, err := rule.Evaluate(history, params)
	s.Require().NoError(err)
	s.Require().True(trigger.IsSome())

	value := trigger.Unwrap()
	s.Equal(DefaultSMACrossBelowConfidence, value.Confidence)
	s.Contains(value.Rationale, "crossed below")
}

func (s *RuleTestSuite) TestSMACrossBelowNoCross() {
	rule := NewSMACrossBelow()
	params := Params{"fast_window": 2, "slow_window": 3}

	trigger, err := rule.Evaluate(series(6, 7, 8, 9, 10), params)
	s.Require().NoError(err)
	s.True(trigger.IsNone())
}

func (s *RuleTestSuite) TestBreakoutFires() {
	rule := NewBreakout()
	params := Params{"window": 3}

	// 3-day high over the preceding bars is 12, close 13 clears it
	trigger, err := rule.Evaluate(series(10, 11, 12, 13), params)
	s.Require().NoError(err)
	s.Require().True(trigger.IsSome())

	value := trigger.Unwrap()
	s.Equal(DefaultBreakoutConfidence, value.Confidence)
	s.Contains(value.Rationale, "3-day high")
}

func (s *RuleTestSuite) TestBreakoutEqualHighDoesNotFire() {
	rule := NewBreakout()
	params := Params{"window": 3}

	// close must strictly exceed the prior high
	trigger, err := rule.Evaluate(series(10, 11, 12, 12), params)
	s.Require().NoError(err)
	s.True(trigger.IsNone())
}

func (s *RuleTestSuite) TestBreakoutInsufficientHistory() {
	rule := NewBreakout()
	params := Params{"window": 3}

	trigger, err := rule.Evaluate(series(10, 11, 12), params)
	s.Require().NoError(err)
	s.True(trigger.IsNone())
}

func (s *RuleTestSuite) TestBreakoutExcludesCurrentBar() {
	rule := NewBreakout()
	params := Params{"window": 3}

	// The current bar's own high must not raise the reference level.
	trigger, err := rule.Evaluate(series(10, 11, 12, 100), params)
	s.Require().NoError(err)
	s.True(trigger.IsSome())
}

func (s *RuleTestSuite) TestTrailingStopFires() {
	rule := NewTrailingStop()
	params := Params{"pct": 0.1}

	// peak 100, stop 90, close 89 breaches it
	trigger, err := rule.Evaluate(series(100, 95, 89), params)
	s.Require().NoError(err)
	s.Require().True(trigger.IsSome())

	value := trigger.Unwrap()
	s.Equal(DefaultTrailingStopConfidence, value.Confidence)
	s.Contains(value.Rationale, "trailing stop hit")
}

func (s *RuleTestSuite) TestTrailingStopHolds() {
	rule := NewTrailingStop()
	params := Params{"pct": 0.1}

	trigger, err := rule.Evaluate(series(100, 95, 91), params)
	s.Require().NoError(err)
	s.True(trigger.IsNone())
}

func (s *RuleTestSuite) TestTrailingStopSingleBar() {
	rule := NewTrailingStop()

	trigger, err := rule.Evaluate(series(100), Params{})
	s.Require().NoError(err)
	s.True(trigger.IsNone())
}

func (s *RuleTestSuite) TestSignalTypes() {
	s.Equal(types.SignalTypeEntry, NewSMACrossover().SignalType())
	s.Equal(types.SignalTypeEntry, NewBreakout().SignalType())
	s.Equal(types.SignalTypeExit, NewSMACrossBelow().SignalType())
	s.Equal(types.SignalTypeExit, NewTrailingStop().SignalType())
}

func (s *RuleTestSuite) TestParamsFallbacks() {
	params := Params{"window": 15, "pct": 0.03}

	s.Equal(15, params.Int("window", 20))
	s.Equal(20, params.Int("missing", 20))
	s.Equal(0.03, params.Float("pct", 0.05))
	s.Equal(0.05, params.Float("missing", 0.05))
}
