package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rounding precision applied to numeric fields at the API boundary.
const (
	// MoneyPrecision applies to monetary amounts and percentage points
	MoneyPrecision = 2
	// QuantityPrecision applies to share quantities and prices
	QuantityPrecision = 4
	// ReturnPrecision applies to returns expressed as fractions
	ReturnPrecision = 6
)

// BacktestResult is the complete outcome of one simulated strategy run.
// Degenerate outcomes (zero trades, kill-switch) are still results, never
// errors. Identical inputs produce byte-identical results: no field here
// depends on the wall clock or randomness.
type BacktestResult struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	StartDate  string `yaml:"start_date" json:"start_date"`
	EndDate    string `yaml:"end_date" json:"end_date"`
	// Trades are ordered by the day the position closed
	Trades []BacktestTrade `yaml:"trades" json:"trades"`
	// TotalReturn is (final - initial) / initial capital
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
	// MaxDrawdown is the largest fractional decline of capital from its running peak
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// WinRate is the fraction of trades with positive PnL, 0 when there are none
	WinRate   float64 `yaml:"win_rate" json:"win_rate"`
	NumTrades int     `yaml:"num_trades" json:"num_trades"`
	// KillSwitch is true when the drawdown threshold irreversibly halted trading
	KillSwitch bool `yaml:"kill_switch" json:"kill_switch"`
	// Summary is a one-line digest; it flags kill-switch activation explicitly
	Summary string `yaml:"summary" json:"summary"`
}

// WriteBacktestResult serializes the result to a YAML file.
func WriteBacktestResult(path string, result BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
