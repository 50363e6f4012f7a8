package types

type SignalType string

const (
	// SignalTypeEntry is a signal that proposes opening a position
	SignalTypeEntry SignalType = "entry"
	// SignalTypeExit is a signal that proposes closing a position
	SignalTypeExit SignalType = "exit"
)

// TradeSignal is a single entry or exit proposal produced by the signal
// engine. Signals are causal: a signal dated at bar i was computed from
// price data up to and including bar i only.
type TradeSignal struct {
	// Symbol is the symbol of the signal
	Symbol string `yaml:"symbol" json:"symbol"`
	// Date is the trading date of the bar that fired the rule
	Date string `yaml:"date" json:"date"`
	// Type is the type of the signal
	Type SignalType `yaml:"signal_type" json:"signal_type"`
	// RuleID is the strategy rule that fired
	RuleID string `yaml:"rule_id" json:"rule_id"`
	// Confidence is the fixed per-indicator score in [0,1]
	Confidence float64 `yaml:"confidence" json:"confidence"`
	// Rationale is a human-readable explanation embedding the values that triggered the signal
	Rationale string `yaml:"rationale" json:"rationale"`
}
