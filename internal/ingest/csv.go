// Package ingest parses OHLCV CSV market data into price points.
//
// Parsing is all-or-nothing: a missing header, a missing column, or a value
// that fails numeric conversion fails the whole call with an error naming the
// offending row and column. There is no partial ingestion.
package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/matthewlshields/jx-42/pkg/errors"
)

var requiredColumns = []string{"symbol", "date", "open", "high", "low", "close", "volume"}

// LoadCSV parses OHLCV CSV into price points.
//
// Required columns (case-insensitive): symbol, date, open, high, low, close,
// volume. Symbols are uppercased. Column order is free; extra columns are
// ignored.
func LoadCSV(r io.Reader) ([]types.PricePoint, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeIngestMissingHeader, "market data CSV has no header row")
	}

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIngestParseFailed, "failed to read CSV header", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, errors.Newf(errors.ErrCodeIngestMissingColumn, "market data CSV missing column %q", col)
		}
	}

	var points []types.PricePoint

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeIngestParseFailed, err, "row %d: malformed CSV record", row)
		}

		point, err := parseRow(record, index, row)
		if err != nil {
			return nil, err
		}

		points = append(points, point)
	}

	return points, nil
}

func parseRow(record []string, index map[string]int, row int) (types.PricePoint, error) {
	field := func(col string) (string, error) {
		i := index[col]
		if i >= len(record) {
			return "", errors.Newf(errors.ErrCodeIngestMissingColumn, "row %d: missing value for column %q", row, col)
		}

		return strings.TrimSpace(record[i]), nil
	}

	numeric := func(col string) (float64, error) {
		raw, err := field(col)
		if err != nil {
			return 0, err
		}

		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, errors.Wrapf(errors.ErrCodeIngestParseFailed, err, "row %d: column %q value %q is not numeric", row, col, raw)
		}

		return value, nil
	}

	symbol, err := field("symbol")
	if err != nil {
		return types.PricePoint{}, err
	}

	date, err := field("date")
	if err != nil {
		return types.PricePoint{}, err
	}

	point := types.PricePoint{
		Symbol: strings.ToUpper(symbol),
		Date:   date,
	}

	numericFields := []struct {
		col string
		dst *float64
	}{
		{"open", &point.Open},
		{"high", &point.High},
		{"low", &point.Low},
		{"close", &point.Close},
		{"volume", &point.Volume},
	}

	for _, f := range numericFields {
		value, err := numeric(f.col)
		if err != nil {
			return types.PricePoint{}, err
		}

		*f.dst = value
	}

	return point, nil
}
