package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"stocksheet/domain/stock"
	"stocksheet/internal"
	"stocksheet/ports"

	"github.com/jmoiron/sqlx"
)

const recordColumns = `trade_date, stock_code, stock_name, current_price, price_change,
	description, sector, main_net_amount, auction_today_volume, real_market_value,
	flow_ratio, net_ratio, real_turnover_rate, turnover_rate, volume_ratio,
	popularity_value, auction_net_amount, auction_increase, auction_main_net,
	auction_yesterday_volume, main_net_ratio, buy_sell_ratio, popularity_change`

const upsertRecord = `INSERT INTO stock_daily (
	trade_date, stock_code, stock_name, current_price, price_change,
	description, sector, main_net_amount, auction_today_volume, real_market_value,
	flow_ratio, net_ratio, real_turnover_rate, turnover_rate, volume_ratio,
	popularity_value, auction_net_amount, auction_increase, auction_main_net,
	auction_yesterday_volume, main_net_ratio, buy_sell_ratio, popularity_change
) VALUES (
	:trade_date, :stock_code, :stock_name, :current_price, :price_change,
	:description, :sector, :main_net_amount, :auction_today_volume, :real_market_value,
	:flow_ratio, :net_ratio, :real_turnover_rate, :turnover_rate, :volume_ratio,
	:popularity_value, :auction_net_amount, :auction_increase, :auction_main_net,
	:auction_yesterday_volume, :main_net_ratio, :buy_sell_ratio, :popularity_change
) ON CONFLICT (trade_date, stock_code) DO UPDATE SET
	stock_name = EXCLUDED.stock_name,
	current_price = EXCLUDED.current_price,
	price_change = EXCLUDED.price_change,
	description = EXCLUDED.description,
	sector = EXCLUDED.sector,
	main_net_amount = EXCLUDED.main_net_amount,
	auction_today_volume = EXCLUDED.auction_today_volume,
	real_market_value = EXCLUDED.real_market_value,
	flow_ratio = EXCLUDED.flow_ratio,
	net_ratio = EXCLUDED.net_ratio,
	real_turnover_rate = EXCLUDED.real_turnover_rate,
	turnover_rate = EXCLUDED.turnover_rate,
	volume_ratio = EXCLUDED.volume_ratio,
	popularity_value = EXCLUDED.popularity_value,
	auction_net_amount = EXCLUDED.auction_net_amount,
	auction_increase = EXCLUDED.auction_increase,
	auction_main_net = EXCLUDED.auction_main_net,
	auction_yesterday_volume = EXCLUDED.auction_yesterday_volume,
	main_net_ratio = EXCLUDED.main_net_ratio,
	buy_sell_ratio = EXCLUDED.buy_sell_ratio,
	popularity_change = EXCLUDED.popularity_change`

// stockRepository implements the StockStore interface on Postgres.
type stockRepository struct {
	db  *sqlx.DB
	log *internal.Logger
}

// NewStockRepository creates a new stock repository.
func NewStockRepository(db *sqlx.DB, log *internal.Logger) ports.StockStore {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &stockRepository{db: db, log: log}
}

// InsertBatch upserts one record at a time. A failed row is logged and
// skipped; the batch keeps going.
func (r *stockRepository) InsertBatch(ctx context.Context, records []stock.Record) (int, int, error) {
	inserted := 0
	skipped := 0
	for _, rec := range records {
		if _, err := r.db.NamedExecContext(ctx, upsertRecord, rec); err != nil {
			r.log.Warn("failed to insert record (code=%s date=%s): %v", rec.StockCode, rec.TradeDate, err)
			skipped++
			continue
		}
		inserted++
	}
	return inserted, skipped, nil
}

// QueryByDate retrieves records for one trade date, optionally narrowed by
// stock code or sector substring, ordered by stock code.
func (r *stockRepository) QueryByDate(ctx context.Context, tradeDate string, filter ports.QueryFilter) ([]stock.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_daily WHERE trade_date = $1`, recordColumns)
	args := []interface{}{tradeDate}

	if filter.StockCode != "" {
		args = append(args, filter.StockCode)
		query += fmt.Sprintf(" AND stock_code = $%d", len(args))
	}
	if filter.Sector != "" {
		args = append(args, "%"+filter.Sector+"%")
		query += fmt.Sprintf(" AND sector LIKE $%d", len(args))
	}
	query += " ORDER BY stock_code ASC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var records []stock.Record
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query records for %s: %w", tradeDate, err)
	}
	return records, nil
}

// QueryByDateRange retrieves records between two trade dates inclusive.
func (r *stockRepository) QueryByDateRange(ctx context.Context, start, end, stockCode string) ([]stock.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_daily WHERE trade_date BETWEEN $1 AND $2`, recordColumns)
	args := []interface{}{start, end}

	if stockCode != "" {
		args = append(args, stockCode)
		query += fmt.Sprintf(" AND stock_code = $%d", len(args))
	}
	query += " ORDER BY trade_date, stock_code"

	var records []stock.Record
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query range %s..%s: %w", start, end, err)
	}
	return records, nil
}

// Search finds records whose code or name matches the keyword.
func (r *stockRepository) Search(ctx context.Context, keyword, tradeDate string) ([]stock.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_daily WHERE (stock_code LIKE $1 OR stock_name LIKE $1)`, recordColumns)
	args := []interface{}{"%" + keyword + "%"}

	if tradeDate != "" {
		args = append(args, tradeDate)
		query += fmt.Sprintf(" AND trade_date = $%d", len(args))
	}
	query += " ORDER BY trade_date DESC, stock_code"

	var records []stock.Record
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search records: %w", err)
	}
	return records, nil
}

// ListDates returns every imported trade date, newest first.
func (r *stockRepository) ListDates(ctx context.Context) ([]string, error) {
	var dates []string
	err := r.db.SelectContext(ctx, &dates,
		`SELECT DISTINCT trade_date FROM stock_daily ORDER BY trade_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trade dates: %w", err)
	}
	return dates, nil
}

// ListSectors returns the distinct sector names. A stock's sector column may
// hold several names joined with 顿号, so rows are split before dedup.
func (r *stockRepository) ListSectors(ctx context.Context) ([]string, error) {
	var raw []string
	err := r.db.SelectContext(ctx, &raw,
		`SELECT DISTINCT sector FROM stock_daily WHERE sector IS NOT NULL AND sector <> ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}

	seen := make(map[string]bool)
	var sectors []string
	for _, value := range raw {
		for _, sector := range strings.Split(value, "、") {
			sector = strings.TrimSpace(sector)
			if sector == "" || seen[sector] {
				continue
			}
			seen[sector] = true
			sectors = append(sectors, sector)
		}
	}
	sort.Strings(sectors)
	return sectors, nil
}

// PreviousTradeDate returns the latest trade date before the given one,
// or "" when the given date is the earliest on record.
func (r *stockRepository) PreviousTradeDate(ctx context.Context, tradeDate string) (string, error) {
	var prev string
	err := r.db.GetContext(ctx, &prev,
		`SELECT trade_date FROM stock_daily WHERE trade_date < $1 ORDER BY trade_date DESC LIMIT 1`,
		tradeDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to find previous trade date: %w", err)
	}
	return prev, nil
}

// DeleteByDate removes every record for one trade date.
func (r *stockRepository) DeleteByDate(ctx context.Context, tradeDate string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stock_daily WHERE trade_date = $1`, tradeDate)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records for %s: %w", tradeDate, err)
	}
	return result.RowsAffected()
}

// DeleteAll wipes the stock_daily table.
func (r *stockRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stock_daily`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear stock_daily: %w", err)
	}
	return result.RowsAffected()
}

// CountAll returns the total number of stored records.
func (r *stockRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM stock_daily`); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// AddImportHistory appends one audit entry.
func (r *stockRepository) AddImportHistory(ctx context.Context, entry stock.ImportHistory) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO import_history
		(id, imported_at, file_name, trade_date, records_count, status, error_message)
		VALUES (:id, :imported_at, :file_name, :trade_date, :records_count, :status, :error_message)`,
		entry)
	if err != nil {
		return fmt.Errorf("failed to record import history: %w", err)
	}
	return nil
}

// ListImportHistory returns the most recent audit entries.
func (r *stockRepository) ListImportHistory(ctx context.Context, limit int) ([]stock.ImportHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []stock.ImportHistory
	err := r.db.SelectContext(ctx, &entries, `SELECT
		id, imported_at, file_name, COALESCE(trade_date, '') AS trade_date,
		records_count, status, COALESCE(error_message, '') AS error_message
	FROM import_history ORDER BY imported_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import history: %w", err)
	}
	return entries, nil
}
