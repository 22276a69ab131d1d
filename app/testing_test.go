package app

import (
	"context"
	"sort"

	"stocksheet/domain/ingestion"
	"stocksheet/domain/stock"
	"stocksheet/ports"
)

// fakeStore is an in-memory StockStore for service tests.
type fakeStore struct {
	records map[string]map[string]stock.Record // trade date -> code -> record
	history []stock.ImportHistory
	failOn  string // stock code that InsertBatch refuses
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]map[string]stock.Record)}
}

func (f *fakeStore) InsertBatch(_ context.Context, records []stock.Record) (int, int, error) {
	inserted, skipped := 0, 0
	for _, rec := range records {
		if rec.StockCode == f.failOn {
			skipped++
			continue
		}
		day := f.records[rec.TradeDate]
		if day == nil {
			day = make(map[string]stock.Record)
			f.records[rec.TradeDate] = day
		}
		day[rec.StockCode] = rec
		inserted++
	}
	return inserted, skipped, nil
}

func (f *fakeStore) QueryByDate(_ context.Context, tradeDate string, filter ports.QueryFilter) ([]stock.Record, error) {
	var out []stock.Record
	for _, rec := range f.records[tradeDate] {
		if filter.StockCode != "" && rec.StockCode != filter.StockCode {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockCode < out[j].StockCode })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) QueryByDateRange(_ context.Context, start, end, code string) ([]stock.Record, error) {
	return nil, nil
}

func (f *fakeStore) Search(_ context.Context, keyword, tradeDate string) ([]stock.Record, error) {
	return nil, nil
}

func (f *fakeStore) ListDates(_ context.Context) ([]string, error) {
	var dates []string
	for d := range f.records {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

func (f *fakeStore) ListSectors(_ context.Context) ([]string, error) { return nil, nil }

func (f *fakeStore) PreviousTradeDate(_ context.Context, tradeDate string) (string, error) {
	prev := ""
	for d := range f.records {
		if d < tradeDate && d > prev {
			prev = d
		}
	}
	return prev, nil
}

func (f *fakeStore) DeleteByDate(_ context.Context, tradeDate string) (int64, error) {
	n := int64(len(f.records[tradeDate]))
	delete(f.records, tradeDate)
	return n, nil
}

func (f *fakeStore) DeleteAll(_ context.Context) (int64, error) {
	var n int64
	for _, day := range f.records {
		n += int64(len(day))
	}
	f.records = make(map[string]map[string]stock.Record)
	return n, nil
}

func (f *fakeStore) CountAll(_ context.Context) (int, error) {
	n := 0
	for _, day := range f.records {
		n += len(day)
	}
	return n, nil
}

func (f *fakeStore) AddImportHistory(_ context.Context, entry stock.ImportHistory) error {
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeStore) ListImportHistory(_ context.Context, limit int) ([]stock.ImportHistory, error) {
	if limit > 0 && len(f.history) > limit {
		return f.history[len(f.history)-limit:], nil
	}
	return f.history, nil
}

// fakeReader serves canned source tables keyed by file basename.
type fakeReader struct {
	tables map[string]ingestion.SourceTable
	errs   map[string]error
}

func (f *fakeReader) ReadFile(path string) (ingestion.SourceTable, error) {
	base := basename(path)
	if err, ok := f.errs[base]; ok {
		return ingestion.SourceTable{}, err
	}
	return f.tables[base], nil
}

func basename(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
