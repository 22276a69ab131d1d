package ports

import (
	"context"

	"stocksheet/domain/stock"
)

// QueryFilter narrows a single-day query.
type QueryFilter struct {
	StockCode string
	Sector    string
	Limit     int
}

// StockStore persists daily stock records and serves them back. Implemented
// by the Postgres adapter; the import service and HTTP layer depend only on
// this interface.
type StockStore interface {
	// InsertBatch upserts records keyed on (trade_date, stock_code) and
	// returns how many were written and how many were skipped on error.
	InsertBatch(ctx context.Context, records []stock.Record) (inserted, skipped int, err error)

	QueryByDate(ctx context.Context, tradeDate string, filter QueryFilter) ([]stock.Record, error)
	QueryByDateRange(ctx context.Context, start, end, stockCode string) ([]stock.Record, error)
	Search(ctx context.Context, keyword, tradeDate string) ([]stock.Record, error)

	ListDates(ctx context.Context) ([]string, error)
	ListSectors(ctx context.Context) ([]string, error)

	// PreviousTradeDate returns the latest trade date strictly before the
	// given one, or "" when none exists.
	PreviousTradeDate(ctx context.Context, tradeDate string) (string, error)

	DeleteByDate(ctx context.Context, tradeDate string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	CountAll(ctx context.Context) (int, error)

	AddImportHistory(ctx context.Context, entry stock.ImportHistory) error
	ListImportHistory(ctx context.Context, limit int) ([]stock.ImportHistory, error)
}
