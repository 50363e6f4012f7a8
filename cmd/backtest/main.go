package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	engine "github.com/matthewlshields/jx-42/internal/backtest/engine/engine_v1"
	"github.com/matthewlshields/jx-42/internal/ingest"
	"github.com/matthewlshields/jx-42/internal/integrity"
	"github.com/matthewlshields/jx-42/internal/store"
	"github.com/matthewlshields/jx-42/internal/ticket"
	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// backtestAction is the core logic executed by the CLI command.
// It ingests market data, runs the advisory integrity check, simulates the
// strategy, writes the result, and optionally prints draft tickets.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	dataPath := cmd.String("data")
	strategyPath := cmd.String("strategy")
	capital := cmd.Float("capital")
	outputDir := cmd.String("output")
	withTickets := cmd.Bool("tickets")
	storePath := cmd.String("store")

	dataFile, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("failed to open market data: %w", err)
	}
	defer dataFile.Close()

	points, err := ingest.LoadCSV(dataFile)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	// Integrity violations are advisory; report and proceed.
	for _, violation := range integrity.Check(points) {
		log.Printf("integrity: %s", violation)
	}

	// With a store, the ingested batch is merged into the database and the
	// simulation runs over the full stored history. Re-ingesting the same
	// file is a no-op thanks to the (symbol, date) primary key.
	if storePath != "" {
		marketStore, err := store.NewDuckDBMarketStore(storePath, nil)
		if err != nil {
			return err
		}
		defer marketStore.Close()

		if err := marketStore.Save(points); err != nil {
			return err
		}

		points, err = marketStore.LoadAll()
		if err != nil {
			return err
		}
	}

	strategyDoc, err := os.ReadFile(strategyPath)
	if err != nil {
		return fmt.Errorf("failed to read strategy document: %w", err)
	}

	strategy, err := types.ParseStrategyYAML(strategyDoc)
	if err != nil {
		return err
	}

	backtester := engine.NewBacktestEngineV1()

	config := fmt.Sprintf("initial_capital: %g", capital)
	if err := backtester.Initialize(config); err != nil {
		return err
	}

	bar := progressbar.Default(-1, "simulating")
	onDay := optional.Some(engine.OnDayCallback(func(current, total int) {
		if bar.GetMax() != total {
			bar.ChangeMax(total)
		}

		bar.Set(current) //nolint:errcheck
	}))

	result, err := backtester.Run(points, strategy, onDay)
	if err != nil {
		return err
	}

	bar.Finish() //nolint:errcheck
	fmt.Println(result.Summary)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	resultPath := filepath.Join(outputDir, "result.yaml")
	if err := types.WriteBacktestResult(resultPath, result); err != nil {
		return err
	}

	log.Printf("Result written to %s", resultPath)

	if withTickets {
		return printTickets(backtester, points, strategy, capital, outputDir)
	}

	return nil
}

// printTickets drafts tickets from the latest entry signals at the latest
// known close per symbol and writes them next to the result.
func printTickets(
	backtester *engine.BacktestEngineV1,
	points []types.PricePoint,
	strategy types.StrategyDefinition,
	portfolioValue float64,
	outputDir string,
) error {
	signals, err := backtester.ComputeAllSignals(points, strategy)
	if err != nil {
		return err
	}

	lastClose := make(map[string]float64)
	lastDate := make(map[string]string)

	for _, p := range points {
		if p.Date >= lastDate[p.Symbol] {
			lastDate[p.Symbol] = p.Date
			lastClose[p.Symbol] = p.Close
		}
	}

	builder := ticket.NewBuilder(ticket.DefaultPolicy(), nil)

	tickets, err := builder.BuildTickets(signals, strategy, lastClose, portfolioValue)
	if err != nil {
		return err
	}

	if len(tickets) == 0 {
		fmt.Println("No entry signals; no tickets drafted.")

		return nil
	}

	data, err := yaml.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("failed to marshal tickets: %w", err)
	}

	ticketsPath := filepath.Join(outputDir, "tickets.yaml")
	if err := os.WriteFile(ticketsPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write tickets: %w", err)
	}

	for _, t := range tickets {
		fmt.Printf("[draft] %s %s qty=%.4f notional=%.2f stop=%.4f (%s)\n",
			t.Side, t.Symbol, t.Quantity, t.Notional, t.StopLoss, t.SizingRationale)
	}

	log.Printf("Tickets written to %s", ticketsPath)

	return nil
}

func main() {
	// Define the CLI application
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run a draft-only strategy backtest over OHLCV CSV data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the OHLCV CSV file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "strategy",
				Aliases:  []string{"s"},
				Usage:    "Path to the strategy YAML document",
				Required: true,
			},
			&cli.FloatFlag{
				Name:    "capital",
				Aliases: []string{"c"},
				Usage:   "Initial capital for the simulation",
				Value:   100000,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory the result files are written to",
				Value:   "results",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Optional DuckDB database the ingested data is merged into",
			},
			&cli.BoolFlag{
				Name:  "tickets",
				Usage: "Also draft trade tickets from the latest entry signals",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
