// Package ticket converts recent entry signals into draft order tickets.
//
// Every ticket leaves this package with status "draft"; nothing here has
// authority to move a ticket toward execution.
package ticket

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/matthewlshields/jx-42/internal/logger"
	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/matthewlshields/jx-42/pkg/errors"
	"go.uber.org/zap"
)

// Policy holds the sizing and risk constants applied to every ticket.
// These are deliberate policy values, not computed from volatility; strategy
// authors tune them here rather than in code.
type Policy struct {
	// StopLossPct is the fractional stop distance below the current price
	StopLossPct float64 `yaml:"stop_loss_pct" json:"stop_loss_pct"`
	OrderType   string  `yaml:"order_type" json:"order_type"`
	TimeInForce string  `yaml:"time_in_force" json:"time_in_force"`
}

// DefaultPolicy returns the standard 2% stop, limit order, day ticket policy.
func DefaultPolicy() Policy {
	return Policy{
		StopLossPct: 0.02,
		OrderType:   "limit",
		TimeInForce: "day",
	}
}

// Builder produces draft tickets from signals. The id factory and clock are
// injectable so tests can pin them.
type Builder struct {
	policy    Policy
	log       *logger.Logger
	idFactory func() string
	now       func() time.Time
}

// NewBuilder creates a Builder with UUID ticket ids and the system clock.
func NewBuilder(policy Policy, log *logger.Logger) *Builder {
	return &Builder{
		policy:    policy,
		log:       log,
		idFactory: uuid.NewString,
		now:       time.Now,
	}
}

// NewBuilderWithClock creates a Builder with a custom id factory and clock.
func NewBuilderWithClock(policy Policy, log *logger.Logger, idFactory func() string, now func() time.Time) *Builder {
	return &Builder{
		policy:    policy,
		log:       log,
		idFactory: idFactory,
		now:       now,
	}
}

// LatestEntrySignals selects the most recent entry signal per symbol.
// Ties on date are broken by higher confidence, then by lexicographically
// smaller rule id, so the selection is stable across runs.
func LatestEntrySignals(signals []types.TradeSignal) map[string]types.TradeSignal {
	latest := make(map[string]types.TradeSignal)

	for _, sig := range signals {
		if sig.Type != types.SignalTypeEntry {
			continue
		}

		current, exists := latest[sig.Symbol]
		if !exists || preferSignal(sig, current) {
			latest[sig.Symbol] = sig
		}
	}

	return latest
}

// preferSignal reports whether candidate should replace current as the
// latest entry signal for a symbol.
func preferSignal(candidate, current types.TradeSignal) bool {
	if candidate.Date != current.Date {
		return candidate.Date > current.Date
	}

	if candidate.Confidence != current.Confidence {
		return candidate.Confidence > current.Confidence
	}

	return candidate.RuleID < current.RuleID
}

// BuildTicket builds one draft ticket from a signal at the symbol's latest
// known close price. The current price must be positive.
func (b *Builder) BuildTicket(
	sig types.TradeSignal,
	strategy types.StrategyDefinition,
	currentPrice float64,
	portfolioValue float64,
) (types.TradeTicketDraft, error) {
	if currentPrice <= 0 {
		return types.TradeTicketDraft{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"current price for %s must be positive, got %g", sig.Symbol, currentPrice)
	}

	notional := portfolioValue * strategy.MaxPositionSize
	quantity := notional / currentPrice

	side := types.TicketSideBuy
	if sig.Type == types.SignalTypeExit {
		side = types.TicketSideSell
	}

	entryRule, exitRule := "", ""

	for _, rule := range strategy.Rules {
		if entryRule == "" && rule.RuleType == types.SignalTypeEntry {
			entryRule = rule.RuleID
		}

		if exitRule == "" && rule.RuleType == types.SignalTypeExit {
			exitRule = rule.RuleID
		}
	}

	draft := types.TradeTicketDraft{
		TicketID:        b.idFactory(),
		CreatedAt:       b.now().UTC(),
		Symbol:          sig.Symbol,
		Side:            side,
		OrderType:       b.policy.OrderType,
		StrategyVersion: strategy.Version,
		Status:          types.TicketStatusDraft,
		Quantity:        roundTo(quantity, types.QuantityPrecision),
		Notional:        roundTo(notional, types.MoneyPrecision),
		EntryRuleRef:    entryRule,
		ExitRuleRef:     exitRule,
		StopLoss:        roundTo(currentPrice*(1-b.policy.StopLossPct), types.QuantityPrecision),
		TimeInForce:     b.policy.TimeInForce,
		RiskNotes: fmt.Sprintf("Max position size: %.1f%% of portfolio. Stop %.1f%% below current price.",
			strategy.MaxPositionSize*100, b.policy.StopLossPct*100),
		SizingRationale: fmt.Sprintf("Notional=%.2f (%.1f%% of %.2f), qty=%.4f @ %s near %.4f.",
			notional, strategy.MaxPositionSize*100, portfolioValue, quantity, b.policy.OrderType, currentPrice),
	}

	if err := draft.Validate(); err != nil {
		return types.TradeTicketDraft{}, err
	}

	return draft, nil
}

// BuildTickets builds one draft ticket per symbol from the latest entry
// signals, priced at each symbol's latest known close. Symbols without a
// known close are skipped. Tickets are returned in sorted symbol order.
func (b *Builder) BuildTickets(
	signals []types.TradeSignal,
	strategy types.StrategyDefinition,
	lastClose map[string]float64,
	portfolioValue float64,
) ([]types.TradeTicketDraft, error) {
	latest := LatestEntrySignals(signals)

	symbols := make([]string, 0, len(latest))
	for symbol := range latest {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	tickets := make([]types.TradeTicketDraft, 0, len(symbols))

	for _, symbol := range symbols {
		price, known := lastClose[symbol]
		if !known {
			if b.log != nil {
				b.log.Warn("No last close for signalled symbol, skipping ticket",
					zap.String("symbol", symbol),
				)
			}

			continue
		}

		draft, err := b.BuildTicket(latest[symbol], strategy, price, portfolioValue)
		if err != nil {
			return nil, err
		}

		tickets = append(tickets, draft)
	}

	return tickets, nil
}
