package engine

import (
	"sort"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// SimulationState is the full state of the simulation at one point in the
// day loop. Transitions never mutate the receiver: each step returns a fresh
// state, so a single transition can be tested in isolation from the
// calendar loop.
type SimulationState struct {
	Capital     float64
	PeakCapital float64
	MaxDrawdown float64
	// Killed is the irreversible kill-switch flag; once set, no later day
	// performs any exits or entries
	Killed    bool
	Positions map[string]types.OpenPosition
}

func newSimulationState(initialCapital float64) SimulationState {
	return SimulationState{
		Capital:     initialCapital,
		PeakCapital: initialCapital,
		MaxDrawdown: 0,
		Killed:      false,
		Positions:   make(map[string]types.OpenPosition),
	}
}

func (s SimulationState) clone() SimulationState {
	next := s

	next.Positions = make(map[string]types.OpenPosition, len(s.Positions))
	for symbol, pos := range s.Positions {
		next.Positions[symbol] = pos
	}

	return next
}

// openSymbols returns held symbols in sorted order so every iteration over
// positions is deterministic.
func (s SimulationState) openSymbols() []string {
	symbols := make([]string, 0, len(s.Positions))
	for symbol := range s.Positions {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols
}

// realizedPnL computes (exit - entry) * quantity with decimal arithmetic to
// keep repeated runs bit-identical.
func realizedPnL(entryPrice, exitPrice, quantity float64) float64 {
	exitDec := decimal.NewFromFloat(exitPrice).Mul(decimal.NewFromFloat(quantity))
	entryDec := decimal.NewFromFloat(entryPrice).Mul(decimal.NewFromFloat(quantity))
	pnl, _ := exitDec.Sub(entryDec).Float64()

	return pnl
}

// applyExits closes every held position whose exit-signal set contains
// today, executing at the next trading day's open for the symbol when one
// exists and falling back to today's close at the end of data. Capital,
// peak, and drawdown are updated per closed trade; crossing the drawdown
// threshold sets the kill-switch but still records the triggering exit.
func (s SimulationState) applyExits(
	today string,
	next optional.Option[string],
	exitDates map[string]map[string]bool,
	prices priceIndex,
	maxDrawdownPct float64,
) (SimulationState, []types.BacktestTrade) {
	state := s.clone()
	trades := make([]types.BacktestTrade, 0)

	for _, symbol := range s.openSymbols() {
		if !exitDates[symbol][today] {
			continue
		}

		pos := state.Positions[symbol]

		todayBar, ok := prices.at(symbol, today)
		if !ok {
			continue
		}

		execPrice := todayBar.Close

		if next.IsSome() {
			if nextBar, ok := prices.at(symbol, next.Unwrap()); ok {
				execPrice = nextBar.Open
			}
		}

		pnl := realizedPnL(pos.EntryPrice, execPrice, pos.Quantity)
		state.Capital += pnl

		trades = append(trades, types.BacktestTrade{
			Symbol:     symbol,
			EntryDate:  pos.EntryDate,
			ExitDate:   today,
			EntryPrice: roundTo(pos.EntryPrice, types.QuantityPrecision),
			ExitPrice:  roundTo(execPrice, types.QuantityPrecision),
			Quantity:   roundTo(pos.Quantity, types.QuantityPrecision),
			PnL:        roundTo(pnl, types.MoneyPrecision),
			RuleID:     pos.RuleID,
		})

		delete(state.Positions, symbol)

		if state.Capital > state.PeakCapital {
			state.PeakCapital = state.Capital
		}

		drawdown := 0.0
		if state.PeakCapital > 0 {
			drawdown = (state.PeakCapital - state.Capital) / state.PeakCapital
		}

		if drawdown > state.MaxDrawdown {
			state.MaxDrawdown = drawdown
		}

		if drawdown >= maxDrawdownPct {
			state.Killed = true
		}
	}

	return state, trades
}

// applyEntries opens positions for universe symbols with an entry signal
// today, iterating the universe in its declared order. An entry executes at
// the next trading day's open; when no next day exists the entry is skipped
// entirely (exits fall back to the close, entries never do). Sizing uses
// the capital currently on the state.
func (s SimulationState) applyEntries(
	today string,
	next optional.Option[string],
	entryRules map[string]map[string]string,
	prices priceIndex,
	strategy types.StrategyDefinition,
) SimulationState {
	state := s.clone()

	for _, symbol := range strategy.Universe {
		if state.Killed {
			break
		}

		if _, holding := state.Positions[symbol]; holding {
			continue
		}

		if len(state.Positions) >= strategy.MaxOpenPositions {
			continue
		}

		ruleID, signalled := entryRules[symbol][today]
		if !signalled {
			continue
		}

		if next.IsNone() {
			continue
		}

		nextBar, ok := prices.at(symbol, next.Unwrap())
		if !ok || nextBar.Open <= 0 {
			continue
		}

		positionValue := state.Capital * strategy.MaxPositionSize
		quantity := positionValue / nextBar.Open

		state.Positions[symbol] = types.OpenPosition{
			Symbol:     symbol,
			Quantity:   quantity,
			EntryDate:  nextBar.Date,
			EntryPrice: nextBar.Open,
			RuleID:     ruleID,
		}
	}

	return state
}

// forceClose closes every position still open after the calendar is
// exhausted at the symbol's last available close, with no drawdown or
// kill-switch evaluation.
func (s SimulationState) forceClose(prices priceIndex) (SimulationState, []types.BacktestTrade) {
	state := s.clone()
	trades := make([]types.BacktestTrade, 0)

	for _, symbol := range s.openSymbols() {
		pos := state.Positions[symbol]

		lastBar, ok := prices.lastBar(symbol)
		if !ok {
			continue
		}

		pnl := realizedPnL(pos.EntryPrice, lastBar.Close, pos.Quantity)
		state.Capital += pnl

		trades = append(trades, types.BacktestTrade{
			Symbol:     symbol,
			EntryDate:  pos.EntryDate,
			ExitDate:   lastBar.Date,
			EntryPrice: roundTo(pos.EntryPrice, types.QuantityPrecision),
			ExitPrice:  roundTo(lastBar.Close, types.QuantityPrecision),
			Quantity:   roundTo(pos.Quantity, types.QuantityPrecision),
			PnL:        roundTo(pnl, types.MoneyPrecision),
			RuleID:     pos.RuleID,
		})

		delete(state.Positions, symbol)
	}

	return state, trades
}
