package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestConfigUnmarshalFull(t *testing.T) {
	doc := `
initial_capital: 50000
start_date: 2024-01-02
end_date: 2024-06-28
`

	var config BacktestEngineV1Config
	require.NoError(t, yaml.Unmarshal([]byte(doc), &config))

	assert.Equal(t, 50000.0, config.InitialCapital)
	require.True(t, config.StartDate.IsSome())
	assert.Equal(t, "2024-01-02", config.StartDate.Unwrap())
	require.True(t, config.EndDate.IsSome())
	assert.Equal(t, "2024-06-28", config.EndDate.Unwrap())
}

func TestConfigUnmarshalDatesOptional(t *testing.T) {
	var config BacktestEngineV1Config
	require.NoError(t, yaml.Unmarshal([]byte("initial_capital: 100000"), &config))

	assert.Equal(t, 100000.0, config.InitialCapital)
	assert.True(t, config.StartDate.IsNone())
	assert.True(t, config.EndDate.IsNone())
}

func TestEmptyConfig(t *testing.T) {
	config := EmptyConfig()

	assert.Equal(t, 0.0, config.InitialCapital)
	assert.True(t, config.StartDate.IsNone())
	assert.True(t, config.EndDate.IsNone())
}

func TestConfigSchema(t *testing.T) {
	config := EmptyConfig()

	schema, err := config.GenerateSchemaJSON()
	require.NoError(t, err)

	assert.Contains(t, schema, `"initial_capital"`)
	assert.Contains(t, schema, `"start_date"`)
	assert.Contains(t, schema, `"end_date"`)
	assert.Contains(t, schema, `"format": "date"`)
}
