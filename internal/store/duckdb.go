package store

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/matthewlshields/jx-42/internal/logger"
	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/matthewlshields/jx-42/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBMarketStore persists price points in a DuckDB database.
// The (symbol, date) primary key makes Save idempotent.
type DuckDBMarketStore struct {
	db  *sql.DB
	log *logger.Logger
	sq  squirrel.StatementBuilderType
}

// NewDuckDBMarketStore opens (or creates) a DuckDB database at path.
// Use ":memory:" for an ephemeral store.
func NewDuckDBMarketStore(path string, log *logger.Logger) (*DuckDBMarketStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, "failed to open market data store", err)
	}

	s := &DuckDBMarketStore{
		db:  db,
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := s.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

func (s *DuckDBMarketStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			symbol TEXT NOT NULL,
			date TEXT NOT NULL,
			open DOUBLE NOT NULL,
			high DOUBLE NOT NULL,
			low DOUBLE NOT NULL,
			close DOUBLE NOT NULL,
			volume DOUBLE NOT NULL,
			PRIMARY KEY (symbol, date)
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, "failed to create market_data table", err)
	}

	return nil
}

// Save persists points inside one transaction, silently skipping rows whose
// (symbol, date) key is already stored.
func (s *DuckDBMarketStore) Save(points []types.PricePoint) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO market_data (symbol, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreFailed, "failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(p.Symbol, p.Date, p.Open, p.High, p.Low, p.Close, p.Volume); err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeStoreFailed, err, "failed to insert point %s %s", p.Symbol, p.Date)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, "failed to commit transaction", err)
	}

	if s.log != nil {
		s.log.Debug("Market data saved",
			zap.Int("points", len(points)),
		)
	}

	return nil
}

// LoadAll returns every stored point ordered by symbol then date.
func (s *DuckDBMarketStore) LoadAll() ([]types.PricePoint, error) {
	query := s.sq.
		Select("symbol", "date", "open", "high", "low", "close", "volume").
		From("market_data").
		OrderBy("symbol", "date").
		RunWith(s.db)

	rows, err := query.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	points := make([]types.PricePoint, 0)

	for rows.Next() {
		var p types.PricePoint
		if err := rows.Scan(&p.Symbol, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan market data row", err)
		}

		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read market data rows", err)
	}

	return points, nil
}

// Close releases the database handle.
func (s *DuckDBMarketStore) Close() error {
	return s.db.Close()
}
