package types

import "sort"

// DateLayout is the calendar date format used for all trading dates.
// ISO dates compare correctly as plain strings, which the integrity
// checker and the simulation calendar rely on.
const DateLayout = "2006-01-02"

// PricePoint is a single OHLCV bar for one symbol on one trading date.
// Points are immutable once created and uniquely identified by (symbol, date).
type PricePoint struct {
	Symbol string  `yaml:"symbol" json:"symbol" csv:"symbol" validate:"required"`
	Date   string  `yaml:"date" json:"date" csv:"date" validate:"required,datetime=2006-01-02"`
	Open   float64 `yaml:"open" json:"open" csv:"open" validate:"gte=0"`
	High   float64 `yaml:"high" json:"high" csv:"high" validate:"gte=0"`
	Low    float64 `yaml:"low" json:"low" csv:"low" validate:"gte=0"`
	Close  float64 `yaml:"close" json:"close" csv:"close" validate:"gte=0"`
	Volume float64 `yaml:"volume" json:"volume" csv:"volume" validate:"gte=0"`
}

// GroupBySymbol splits points into per-symbol slices, preserving input order
// within each symbol. The returned symbol list is sorted so iteration over
// the groups is deterministic.
func GroupBySymbol(points []PricePoint) (map[string][]PricePoint, []string) {
	grouped := make(map[string][]PricePoint)
	symbols := make([]string, 0)

	for _, p := range points {
		if _, seen := grouped[p.Symbol]; !seen {
			symbols = append(symbols, p.Symbol)
		}

		grouped[p.Symbol] = append(grouped[p.Symbol], p)
	}

	sort.Strings(symbols)

	return grouped, symbols
}
