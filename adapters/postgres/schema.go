package postgres

import (
	"context"

	"stocksheet/internal/errors"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS stock_daily (
		id BIGSERIAL PRIMARY KEY,
		trade_date TEXT NOT NULL,
		stock_code TEXT NOT NULL,
		stock_name TEXT,
		current_price DOUBLE PRECISION,
		price_change DOUBLE PRECISION,
		description TEXT,
		sector TEXT,
		main_net_amount DOUBLE PRECISION,
		auction_today_volume DOUBLE PRECISION,
		real_market_value DOUBLE PRECISION,
		flow_ratio DOUBLE PRECISION,
		net_ratio DOUBLE PRECISION,
		real_turnover_rate DOUBLE PRECISION,
		turnover_rate DOUBLE PRECISION,
		volume_ratio DOUBLE PRECISION,
		popularity_value DOUBLE PRECISION,
		auction_net_amount DOUBLE PRECISION,
		auction_increase TEXT,
		auction_main_net DOUBLE PRECISION,
		auction_yesterday_volume DOUBLE PRECISION,
		main_net_ratio DOUBLE PRECISION,
		buy_sell_ratio DOUBLE PRECISION,
		popularity_change DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (trade_date, stock_code)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_daily_date ON stock_daily (trade_date)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_daily_code ON stock_daily (stock_code)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_daily_date_code ON stock_daily (trade_date, stock_code)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_daily_sector ON stock_daily (sector)`,
	`CREATE TABLE IF NOT EXISTS import_history (
		id UUID PRIMARY KEY,
		imported_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		file_name TEXT NOT NULL,
		trade_date TEXT,
		records_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error_message TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_import_history_imported_at ON import_history (imported_at DESC)`,
}

// InitSchema creates the stock_daily and import_history tables and their
// indexes. Statements are idempotent, so this runs on every startup.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to initialize database schema")
		}
	}
	return nil
}
