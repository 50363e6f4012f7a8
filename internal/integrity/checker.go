// Package integrity validates batches of price points before use.
//
// Violations are advisory: the checker reports, callers decide whether to
// proceed. The simulator never re-checks integrity itself.
package integrity

import (
	"fmt"
	"sort"

	"github.com/matthewlshields/jx-42/internal/types"
)

// Violation describes a single integrity problem on one symbol.
type Violation struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	// Date is empty for symbol-level violations such as ordering
	Date    string `yaml:"date" json:"date"`
	Message string `yaml:"message" json:"message"`
}

func (v Violation) String() string {
	if v.Date == "" {
		return fmt.Sprintf("%s: %s", v.Symbol, v.Message)
	}

	return fmt.Sprintf("%s %s: %s", v.Symbol, v.Date, v.Message)
}

// Check validates a batch of price points and returns all violations found.
// An empty result means the batch is clean. Input is never mutated; each
// symbol is checked independently.
//
// Checks per symbol:
//   - no duplicate (symbol, date) pairs
//   - dates strictly ascending in ISO order
//   - high >= max(open, close, low) and low <= min(open, close, high)
//   - volume >= 0
func Check(points []types.PricePoint) []Violation {
	violations := make([]Violation, 0)

	grouped, symbols := types.GroupBySymbol(points)

	for _, symbol := range symbols {
		symPoints := grouped[symbol]

		seen := make(map[string]bool, len(symPoints))
		for _, p := range symPoints {
			if seen[p.Date] {
				violations = append(violations, Violation{
					Symbol:  symbol,
					Date:    p.Date,
					Message: "duplicate date",
				})
			}

			seen[p.Date] = true
		}

		if !sort.SliceIsSorted(symPoints, func(i, j int) bool {
			return symPoints[i].Date < symPoints[j].Date
		}) {
			violations = append(violations, Violation{
				Symbol:  symbol,
				Message: "dates are not in ascending order",
			})
		}

		for _, p := range symPoints {
			if p.High < max3(p.Open, p.Close, p.Low) {
				violations = append(violations, Violation{
					Symbol:  symbol,
					Date:    p.Date,
					Message: fmt.Sprintf("high=%g < max(open, close, low)", p.High),
				})
			}

			if p.Low > min3(p.Open, p.Close, p.High) {
				violations = append(violations, Violation{
					Symbol:  symbol,
					Date:    p.Date,
					Message: fmt.Sprintf("low=%g > min(open, close, high)", p.Low),
				})
			}

			if p.Volume < 0 {
				violations = append(violations, Violation{
					Symbol:  symbol,
					Date:    p.Date,
					Message: "negative volume",
				})
			}
		}
	}

	return violations
}

func max3(a, b, c float64) float64 {
	return max(a, max(b, c))
}

func min3(a, b, c float64) float64 {
	return min(a, min(b, c))
}
