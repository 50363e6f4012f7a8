package engine

import (
	"math"
	"sort"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/moznion/go-optional"
)

// priceIndex provides (symbol, date) lookups plus the last bar per symbol.
type priceIndex struct {
	byKey map[string]map[string]types.PricePoint
	last  map[string]types.PricePoint
}

func newPriceIndex(bySymbol map[string][]types.PricePoint) priceIndex {
	idx := priceIndex{
		byKey: make(map[string]map[string]types.PricePoint, len(bySymbol)),
		last:  make(map[string]types.PricePoint, len(bySymbol)),
	}

	for symbol, points := range bySymbol {
		dates := make(map[string]types.PricePoint, len(points))
		for _, p := range points {
			dates[p.Date] = p
		}

		idx.byKey[symbol] = dates
		if len(points) > 0 {
			idx.last[symbol] = points[len(points)-1]
		}
	}

	return idx
}

func (idx priceIndex) at(symbol, date string) (types.PricePoint, bool) {
	p, ok := idx.byKey[symbol][date]

	return p, ok
}

func (idx priceIndex) lastBar(symbol string) (types.PricePoint, bool) {
	p, ok := idx.last[symbol]

	return p, ok
}

// buildCalendar returns the sorted, de-duplicated union of trading dates
// across the given per-symbol histories, optionally bounded inclusively.
func buildCalendar(bySymbol map[string][]types.PricePoint, start, end optional.Option[string]) []string {
	seen := make(map[string]bool)

	for _, points := range bySymbol {
		for _, p := range points {
			if start.IsSome() && p.Date < start.Unwrap() {
				continue
			}

			if end.IsSome() && p.Date > end.Unwrap() {
				continue
			}

			seen[p.Date] = true
		}
	}

	calendar := make([]string, 0, len(seen))
	for date := range seen {
		calendar = append(calendar, date)
	}

	sort.Strings(calendar)

	return calendar
}

// signalDates collapses signals of one type into symbol -> set of dates.
func signalDates(signals []types.TradeSignal, signalType types.SignalType) map[string]map[string]bool {
	dates := make(map[string]map[string]bool)

	for _, sig := range signals {
		if sig.Type != signalType {
			continue
		}

		if dates[sig.Symbol] == nil {
			dates[sig.Symbol] = make(map[string]bool)
		}

		dates[sig.Symbol][sig.Date] = true
	}

	return dates
}

// entryRuleIDs maps symbol -> date -> the rule id of the first entry signal
// fired there. When several entry rules fire on the same bar the first in
// signal order (bar order, then rule declaration order) opens the position.
func entryRuleIDs(signals []types.TradeSignal) map[string]map[string]string {
	rules := make(map[string]map[string]string)

	for _, sig := range signals {
		if sig.Type != types.SignalTypeEntry {
			continue
		}

		if rules[sig.Symbol] == nil {
			rules[sig.Symbol] = make(map[string]string)
		}

		if _, exists := rules[sig.Symbol][sig.Date]; !exists {
			rules[sig.Symbol][sig.Date] = sig.RuleID
		}
	}

	return rules
}

// roundTo rounds to the given number of decimal places.
func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))

	return math.Round(value*factor) / factor
}
