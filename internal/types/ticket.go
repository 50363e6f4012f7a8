package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/matthewlshields/jx-42/pkg/errors"
)

type TicketSide string

type TicketStatus string

const (
	TicketSideBuy  TicketSide = "buy"
	TicketSideSell TicketSide = "sell"
)

// TicketStatusDraft is the only status a ticket can hold in this system.
// Nothing here has authority to move a ticket toward execution.
const TicketStatusDraft TicketStatus = "draft"

// TradeTicketDraft is a fully-specified but never-executed order proposal
// built from the most recent entry signals.
type TradeTicketDraft struct {
	TicketID  string     `yaml:"ticket_id" json:"ticket_id" validate:"required,uuid"`
	CreatedAt time.Time  `yaml:"created_at" json:"created_at" validate:"required"`
	Symbol    string     `yaml:"symbol" json:"symbol" validate:"required"`
	Side      TicketSide `yaml:"side" json:"side" validate:"required,oneof=buy sell"`
	OrderType string     `yaml:"order_type" json:"order_type" validate:"required"`
	// StrategyVersion is the version of the strategy that produced the signal
	StrategyVersion string       `yaml:"strategy_version" json:"strategy_version" validate:"required"`
	Status          TicketStatus `yaml:"status" json:"status" validate:"required,eq=draft"`
	Quantity        float64      `yaml:"quantity" json:"quantity" validate:"gte=0"`
	// Notional is the cash value of the proposed order
	Notional float64 `yaml:"notional" json:"notional" validate:"gte=0"`
	// EntryRuleRef and ExitRuleRef reference the strategy rules backing the ticket
	EntryRuleRef string  `yaml:"entry_rule_reference" json:"entry_rule_reference"`
	ExitRuleRef  string  `yaml:"exit_rule_reference" json:"exit_rule_reference"`
	StopLoss     float64 `yaml:"stop_loss" json:"stop_loss" validate:"gte=0"`
	TimeInForce  string  `yaml:"time_in_force" json:"time_in_force" validate:"required"`
	// RiskNotes and SizingRationale are free-text audit fields
	RiskNotes       string `yaml:"risk_notes" json:"risk_notes"`
	SizingRationale string `yaml:"sizing_rationale" json:"sizing_rationale"`
}

// Validate validates the TradeTicketDraft struct.
func (t *TradeTicketDraft) Validate() error {
	validate := validator.New()
	if err := validate.Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTicket, "invalid trade ticket draft", err)
	}

	return nil
}
