package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/matthewlshields/jx-42/internal/types"
)

// DataGenerator produces synthetic daily OHLCV history for tests and
// benchmarks. A fixed seed reproduces the same series exactly.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a DataGenerator with the given seed.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures one generated price series.
type GeneratorConfig struct {
	Symbol string
	// StartDate is the first trading date, ISO formatted
	StartDate string
	// Days is the number of daily bars to generate
	Days         int
	InitialPrice float64
	// Volatility controls the per-bar price movement (0.01 is a 1% typical day)
	Volatility float64
	// Trend is the total drift over the whole series, negative for bearish
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the fractional variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a neutral 1-year daily series at 100.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartDate:      "2024-01-02",
		Days:           252,
		InitialPrice:   100.0,
		Volatility:     0.01,
		Trend:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a daily price series following geometric Brownian motion.
// Dates are consecutive calendar days starting at StartDate; the simulator
// treats any sorted date set as a trading calendar, so gaps are unnecessary.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.PricePoint {
	points := make([]types.PricePoint, config.Days)

	start, err := time.Parse(types.DateLayout, config.StartDate)
	if err != nil {
		start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	}

	price := config.InitialPrice

	for i := 0; i < config.Days; i++ {
		open := price

		// Box-Muller transform for a normally distributed shock
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Days)

		close := open * (1 + config.Volatility*z + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension

		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		points[i] = types.PricePoint{
			Symbol: config.Symbol,
			Date:   start.AddDate(0, 0, i).Format(types.DateLayout),
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(close, 4),
			Volume: roundToDecimals(volume, 2),
		}

		price = close
	}

	return points
}

// GenerateMultiSymbol generates a series per symbol, varying the initial
// price and volatility slightly so the symbols do not move in lockstep.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.PricePoint {
	var points []types.PricePoint

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		points = append(points, g.Generate(config)...)
	}

	return points
}

func roundToDecimals(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))

	return math.Round(value*factor) / factor
}
