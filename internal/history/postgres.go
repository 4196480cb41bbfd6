package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore implements the Store interface on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database and creates the price history
// table if it does not exist yet.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return s, nil
}

// RecordPricePoint implements the Store interface.
func (s *PostgresStore) RecordPricePoint(ctx context.Context, point *PricePoint) error {
	query := `
        INSERT INTO price_history (
            address, symbol, price_usd, volume_24h, liquidity, recorded_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6
        )
    `

	_, err := s.db.ExecContext(ctx, query,
		point.Address,
		point.Symbol,
		point.PriceUSD,
		point.Volume24h,
		point.Liquidity,
		point.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save price point: %w", err)
	}
	return nil
}

// RecentPoints implements the Store interface, newest first.
func (s *PostgresStore) RecentPoints(ctx context.Context, address string, limit int) ([]PricePoint, error) {
	query := `
        SELECT address, symbol, price_usd, volume_24h, liquidity, recorded_at
        FROM price_history
        WHERE address = $1
        ORDER BY recorded_at DESC
        LIMIT $2
    `

	rows, err := s.db.QueryContext(ctx, query, address, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var points []PricePoint
	for rows.Next() {
		var p PricePoint
		if err := rows.Scan(&p.Address, &p.Symbol, &p.PriceUSD, &p.Volume24h, &p.Liquidity, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price history: %w", err)
	}
	return points, nil
}

// Close implements the Store interface.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS price_history (
			id SERIAL PRIMARY KEY,
			address VARCHAR(64) NOT NULL,
			symbol VARCHAR(50),
			price_usd NUMERIC(24, 12),
			volume_24h NUMERIC(18, 2),
			liquidity NUMERIC(18, 2),
			recorded_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_history_address_time
			ON price_history (address, recorded_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}
	return nil
}
