package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/matthewlshields/jx-42/pkg/errors"
	"gopkg.in/yaml.v3"
)

// IndicatorType identifies a rule indicator by name. The set is open:
// the rule registry accepts any name, these are only the built-ins.
type IndicatorType string

const (
	IndicatorTypeSMACrossover  IndicatorType = "sma_crossover"
	IndicatorTypeBreakout      IndicatorType = "breakout"
	IndicatorTypeSMACrossBelow IndicatorType = "sma_cross_below"
	IndicatorTypeTrailingStop  IndicatorType = "trailing_stop"
)

// StrategyRule is a single declarative rule inside a strategy. Immutable.
type StrategyRule struct {
	// RuleID is unique within a strategy
	RuleID string `yaml:"rule_id" json:"rule_id" validate:"required" jsonschema:"title=Rule ID"`
	// RuleType is either entry or exit
	RuleType SignalType `yaml:"rule_type" json:"rule_type" validate:"required,oneof=entry exit" jsonschema:"title=Rule Type,enum=entry,enum=exit"`
	// Indicator is the registry name of the indicator evaluating this rule
	Indicator IndicatorType `yaml:"indicator" json:"indicator" validate:"required" jsonschema:"title=Indicator"`
	// Parameters holds the named numeric parameters of the indicator
	Parameters map[string]float64 `yaml:"parameters" json:"parameters" jsonschema:"title=Parameters"`
}

// StrategyDefinition is a declarative rules-based trading strategy. Immutable.
// The universe's declared order is the iteration order during simulation so
// identical definitions replay identically.
type StrategyDefinition struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id" validate:"required" jsonschema:"title=Strategy ID"`
	Name       string `yaml:"name" json:"name" validate:"required" jsonschema:"title=Name"`
	Version    string `yaml:"version" json:"version" validate:"required" jsonschema:"title=Version"`
	// EngineVersion optionally declares the engine line the document was
	// written for; when set it is semver-checked against the running engine
	EngineVersion string `yaml:"engine_version,omitempty" json:"engine_version,omitempty" jsonschema:"title=Engine Version"`
	// Universe is the fixed set of symbols the strategy is permitted to trade
	Universe []string `yaml:"universe" json:"universe" validate:"required,min=1,dive,required" jsonschema:"title=Universe"`
	// Rules may be empty, in which case no signals ever fire
	Rules []StrategyRule `yaml:"rules" json:"rules" validate:"dive" jsonschema:"title=Rules"`
	// MaxPositionSize is the fraction of capital allocated per position
	MaxPositionSize float64 `yaml:"max_position_size" json:"max_position_size" validate:"gt=0,lte=1" jsonschema:"title=Max Position Size,minimum=0,maximum=1"`
	// MaxOpenPositions bounds the number of simultaneously open positions
	MaxOpenPositions int `yaml:"max_open_positions" json:"max_open_positions" validate:"gt=0" jsonschema:"title=Max Open Positions,minimum=1"`
	// MaxDrawdownPct is the kill-switch threshold
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct" json:"max_drawdown_pct" validate:"gt=0,lte=1" jsonschema:"title=Max Drawdown Pct,minimum=0,maximum=1"`
}

// Validate validates the StrategyDefinition struct.
func (s *StrategyDefinition) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStrategy, "invalid strategy definition", err)
	}

	seen := make(map[string]bool, len(s.Rules))
	for _, rule := range s.Rules {
		if seen[rule.RuleID] {
			return errors.Newf(errors.ErrCodeInvalidStrategy, "duplicate rule_id %s in strategy %s", rule.RuleID, s.StrategyID)
		}

		seen[rule.RuleID] = true
	}

	return nil
}

// InUniverse reports whether the symbol belongs to the strategy's universe.
func (s *StrategyDefinition) InUniverse(symbol string) bool {
	for _, u := range s.Universe {
		if u == symbol {
			return true
		}
	}

	return false
}

// ParseStrategyYAML deserializes and validates a strategy rule document.
func ParseStrategyYAML(doc []byte) (StrategyDefinition, error) {
	var strategy StrategyDefinition
	if err := yaml.Unmarshal(doc, &strategy); err != nil {
		return StrategyDefinition{}, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse strategy document", err)
	}

	if err := strategy.Validate(); err != nil {
		return StrategyDefinition{}, err
	}

	return strategy, nil
}

// GenerateSchema generates a JSON schema for the StrategyDefinition
func (s *StrategyDefinition) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(s)

	// Set schema metadata
	schema.Title = "strategy-definition"
	schema.Description = "Declarative rules-based strategy document"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates a JSON schema string for the StrategyDefinition
func (s *StrategyDefinition) GenerateSchemaJSON() (string, error) {
	schema := s.GenerateSchema()

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
