package engine

import (
	"fmt"
	"sort"

	"github.com/matthewlshields/jx-42/internal/indicator"
	"github.com/matthewlshields/jx-42/internal/logger"
	"github.com/matthewlshields/jx-42/internal/signal"
	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/matthewlshields/jx-42/internal/version"
	"github.com/matthewlshields/jx-42/pkg/errors"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// OnDayCallback reports progress through the simulated calendar.
type OnDayCallback func(current int, total int)

// BacktestEngineV1 replays a strategy over historical price data and
// produces a deterministic BacktestResult. The engine holds no per-run
// mutable state; every Run threads an immutable SimulationState through the
// day loop and completes synchronously.
type BacktestEngineV1 struct {
	config       BacktestEngineV1Config
	log          *logger.Logger
	registry     indicator.RuleRegistry
	signalEngine *signal.Engine
}

func NewBacktestEngineV1() *BacktestEngineV1 {
	return &BacktestEngineV1{
		config:       EmptyConfig(),
		log:          nil,
		registry:     nil,
		signalEngine: nil,
	}
}

// Initialize parses the YAML engine config and wires the rule registry and
// signal engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	// parse the config
	err := yaml.Unmarshal([]byte(config), &b.config)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	// initialize the logger
	var loggerError error

	b.log, loggerError = logger.NewLogger()
	if loggerError != nil {
		return loggerError
	}

	b.log.Debug("Backtest engine initialized",
		zap.String("config", config),
	)

	b.registry = indicator.NewDefaultRuleRegistry()
	b.signalEngine = signal.NewEngine(b.registry, b.log)

	return nil
}

// GetConfigSchema returns the JSON schema of the engine configuration.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

// Registry exposes the rule registry so callers can register custom rules
// before running.
func (b *BacktestEngineV1) Registry() indicator.RuleRegistry {
	return b.registry
}

// ComputeAllSignals computes signals for every universe symbol, iterating
// the universe in declared order. Each symbol's history is stably sorted by
// date before evaluation; a universe symbol with no price data at all is an
// error rather than a silently empty signal set.
func (b *BacktestEngineV1) ComputeAllSignals(points []types.PricePoint, strategy types.StrategyDefinition) ([]types.TradeSignal, error) {
	bySymbol, err := b.universeHistories(points, strategy)
	if err != nil {
		return nil, err
	}

	allSignals := make([]types.TradeSignal, 0)

	for _, symbol := range strategy.Universe {
		signals, err := b.signalEngine.ComputeSignals(bySymbol[symbol], strategy)
		if err != nil {
			return nil, err
		}

		allSignals = append(allSignals, signals...)
	}

	return allSignals, nil
}

// Run simulates the strategy over the given price history.
//
// The simulated calendar is the sorted union of all universe dates. Each
// day processes exits before entries; capital freed or lost by an exit is
// reflected in the state before that day's entries are sized. Entries and
// exits both execute at the next trading day's open, the deliberate
// anti-look-ahead discipline: a signal computed from bar i's close is never
// acted on at a price known when the signal fired. Once the drawdown
// kill-switch fires the remaining calendar is skipped entirely.
//
// Degenerate outcomes (no trades, kill-switch) are results, not errors.
func (b *BacktestEngineV1) Run(
	points []types.PricePoint,
	strategy types.StrategyDefinition,
	onDay optional.Option[OnDayCallback],
) (types.BacktestResult, error) {
	if err := b.preRunCheck(strategy); err != nil {
		return types.BacktestResult{}, err
	}

	bySymbol, err := b.universeHistories(points, strategy)
	if err != nil {
		return types.BacktestResult{}, err
	}

	allSignals := make([]types.TradeSignal, 0)

	for _, symbol := range strategy.Universe {
		signals, err := b.signalEngine.ComputeSignals(bySymbol[symbol], strategy)
		if err != nil {
			return types.BacktestResult{}, err
		}

		allSignals = append(allSignals, signals...)
	}

	entryRules := entryRuleIDs(allSignals)
	exitDates := signalDates(allSignals, types.SignalTypeExit)
	prices := newPriceIndex(bySymbol)
	calendar := buildCalendar(bySymbol, b.config.StartDate, b.config.EndDate)

	state := newSimulationState(b.config.InitialCapital)
	trades := make([]types.BacktestTrade, 0)

	for i, today := range calendar {
		if onDay.IsSome() {
			onDay.Unwrap()(i+1, len(calendar))
		}

		// Terminal state: the kill-switch halts all later days.
		if state.Killed {
			break
		}

		next := optional.None[string]()
		if i+1 < len(calendar) {
			next = optional.Some(calendar[i+1])
		}

		var dayTrades []types.BacktestTrade

		state, dayTrades = state.applyExits(today, next, exitDates, prices, strategy.MaxDrawdownPct)
		trades = append(trades, dayTrades...)

		state = state.applyEntries(today, next, entryRules, prices, strategy)
	}

	var finalTrades []types.BacktestTrade

	state, finalTrades = state.forceClose(prices)
	trades = append(trades, finalTrades...)

	result := b.assembleResult(strategy, calendar, state, trades)

	b.log.Info("Backtest finished",
		zap.String("strategy", strategy.StrategyID),
		zap.Int("trades", result.NumTrades),
		zap.Float64("total_return", result.TotalReturn),
		zap.Bool("kill_switch", result.KillSwitch),
	)

	return result, nil
}

func (b *BacktestEngineV1) assembleResult(
	strategy types.StrategyDefinition,
	calendar []string,
	state SimulationState,
	trades []types.BacktestTrade,
) types.BacktestResult {
	initialCapital := b.config.InitialCapital

	totalReturn := 0.0
	if initialCapital > 0 {
		totalReturn = (state.Capital - initialCapital) / initialCapital
	}

	winRate := 0.0

	if len(trades) > 0 {
		wins := 0

		for _, t := range trades {
			if t.PnL > 0 {
				wins++
			}
		}

		winRate = float64(wins) / float64(len(trades))
	}

	startDate, endDate := "", ""
	if len(calendar) > 0 {
		startDate = calendar[0]
		endDate = calendar[len(calendar)-1]
	}

	summary := fmt.Sprintf("Backtest %s v%s | %s to %s | trades=%d, total_return=%.2f%%, max_drawdown=%.2f%%, win_rate=%.2f%%",
		strategy.Name, strategy.Version, startDate, endDate,
		len(trades), totalReturn*100, state.MaxDrawdown*100, winRate*100)
	if state.Killed {
		summary += " [KILL-SWITCH TRIGGERED]"
	}

	return types.BacktestResult{
		StrategyID:  strategy.StrategyID,
		StartDate:   startDate,
		EndDate:     endDate,
		Trades:      trades,
		TotalReturn: roundTo(totalReturn, types.ReturnPrecision),
		MaxDrawdown: roundTo(state.MaxDrawdown, types.ReturnPrecision),
		WinRate:     roundTo(winRate, types.QuantityPrecision),
		NumTrades:   len(trades),
		KillSwitch:  state.Killed,
		Summary:     summary,
	}
}

// universeHistories filters the input to the strategy's universe and
// returns stably date-sorted per-symbol histories. A universe symbol with
// no data is a lookup error surfaced at this boundary.
func (b *BacktestEngineV1) universeHistories(points []types.PricePoint, strategy types.StrategyDefinition) (map[string][]types.PricePoint, error) {
	bySymbol := make(map[string][]types.PricePoint, len(strategy.Universe))

	for _, p := range points {
		if strategy.InUniverse(p.Symbol) {
			bySymbol[p.Symbol] = append(bySymbol[p.Symbol], p)
		}
	}

	for _, symbol := range strategy.Universe {
		if len(bySymbol[symbol]) == 0 {
			return nil, errors.Newf(errors.ErrCodeDataNotFound,
				"universe symbol %s has no price data", symbol)
		}

		sort.SliceStable(bySymbol[symbol], func(i, j int) bool {
			return bySymbol[symbol][i].Date < bySymbol[symbol][j].Date
		})
	}

	return bySymbol, nil
}

func (b *BacktestEngineV1) preRunCheck(strategy types.StrategyDefinition) error {
	if b.signalEngine == nil || b.registry == nil {
		return errors.New(errors.ErrCodeBacktestConfigError, "engine not initialized")
	}

	if err := strategy.Validate(); err != nil {
		return err
	}

	if strategy.EngineVersion != "" {
		if err := version.CheckVersionCompatibility(version.GetVersion(), strategy.EngineVersion); err != nil {
			return errors.Wrap(errors.ErrCodeVersionMismatch, "strategy is not compatible with this engine", err)
		}
	}

	return nil
}
