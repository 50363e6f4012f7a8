package ingest

import (
	"strings"
	"testing"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/matthewlshields/jx-42/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	csv := `symbol,date,open,high,low,close,volume
aapl,2024-01-02,100,105,99,104,1000
MSFT,2024-01-02,300,310,295,305,800
`

	points, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, types.PricePoint{
		Symbol: "AAPL",
		Date:   "2024-01-02",
		Open:   100,
		High:   105,
		Low:    99,
		Close:  104,
		Volume: 1000,
	}, points[0])
	assert.Equal(t, "MSFT", points[1].Symbol)
}

func TestLoadCSVColumnOrderFree(t *testing.T) {
	csv := `close,volume,symbol,low,high,open,date,extra
104,1000,AAPL,99,105,100,2024-01-02,ignored
`

	points, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 100.0, points[0].Open)
	assert.Equal(t, 104.0, points[0].Close)
}

func TestLoadCSVHeaderCaseInsensitive(t *testing.T) {
	csv := `Symbol,Date,Open,High,Low,Close,Volume
AAPL,2024-01-02,100,105,99,104,1000
`

	points, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestLoadCSVEmptyInput(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeIngestMissingHeader))
}

func TestLoadCSVMissingColumn(t *testing.T) {
	csv := `symbol,date,open,high,low,close
AAPL,2024-01-02,100,105,99,104
`

	_, err := LoadCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeIngestMissingColumn))
	assert.Contains(t, err.Error(), "volume")
}

func TestLoadCSVNonNumericValue(t *testing.T) {
	csv := `symbol,date,open,high,low,close,volume
AAPL,2024-01-02,100,105,99,104,1000
AAPL,2024-01-03,100,abc,99,104,1000
`

	_, err := LoadCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeIngestParseFailed))
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), `"high"`)
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	points, err := LoadCSV(strings.NewReader("symbol,date,open,high,low,close,volume\n"))
	require.NoError(t, err)
	assert.Empty(t, points)
}
