package types

// OpenPosition is the simulation-internal record of a held position.
// It exists only while the position is open; closing it produces a
// BacktestTrade.
type OpenPosition struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	// Quantity is the number of shares held
	Quantity float64 `yaml:"quantity" json:"quantity"`
	// EntryDate is the execution date (the day after the entry signal)
	EntryDate string `yaml:"entry_date" json:"entry_date"`
	// EntryPrice is the open price the position was executed at
	EntryPrice float64 `yaml:"entry_price" json:"entry_price"`
	// RuleID references the entry rule that opened the position
	RuleID string `yaml:"rule_id" json:"rule_id"`
}

// BacktestTrade is a completed round trip recorded when a position closes.
type BacktestTrade struct {
	Symbol     string  `yaml:"symbol" json:"symbol"`
	EntryDate  string  `yaml:"entry_date" json:"entry_date"`
	ExitDate   string  `yaml:"exit_date" json:"exit_date"`
	EntryPrice float64 `yaml:"entry_price" json:"entry_price"`
	ExitPrice  float64 `yaml:"exit_price" json:"exit_price"`
	Quantity   float64 `yaml:"quantity" json:"quantity"`
	// PnL is the realized profit or loss of the round trip
	PnL float64 `yaml:"pnl" json:"pnl"`
	// RuleID references the entry rule that opened the position
	RuleID string `yaml:"rule_id" json:"rule_id"`
}
