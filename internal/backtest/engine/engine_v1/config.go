package engine

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
)

// BacktestEngineV1Config configures a single backtest run.
type BacktestEngineV1Config struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0"`
	// StartDate and EndDate optionally bound the simulated calendar (ISO dates, inclusive)
	StartDate optional.Option[string] `yaml:"start_date" json:"start_date" jsonschema:"title=Start Date,description=Optional inclusive ISO start date for the simulated calendar"`
	EndDate   optional.Option[string] `yaml:"end_date" json:"end_date" jsonschema:"title=End Date,description=Optional inclusive ISO end date for the simulated calendar"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital float64 `yaml:"initial_capital"`
		StartDate      *string `yaml:"start_date"`
		EndDate        *string `yaml:"end_date"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	if config.StartDate != nil {
		c.StartDate = optional.Some(*config.StartDate)
	}

	if config.EndDate != nil {
		c.EndDate = optional.Some(*config.EndDate)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[string]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema := c.GenerateSchema()

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: 0,
		StartDate:      optional.None[string](),
		EndDate:        optional.None[string](),
	}
}
