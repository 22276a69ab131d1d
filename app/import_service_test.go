package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksheet/domain/ingestion"
	"stocksheet/domain/stock"
)

var testMapping = ingestion.Mapping{
	"股票代码":  stock.FieldStockCode,
	"股票名称":  stock.FieldStockName,
	"成交额":   stock.FieldAuctionTodayVolume,
	"今日成交额": stock.FieldAuctionTodayVolume,
	"主力净额":  stock.FieldMainNetAmount,
	"交易日期":  stock.FieldTradeDate,
}

func auctionSheet() ingestion.SourceTable {
	return ingestion.SourceTable{
		Headers: []string{"股票代码", "股票名称", "成交额", "主力净额"},
		Rows: [][]string{
			{"600519", "贵州茅台", "3,070", "1200万"},
			{"2594", "比亚迪", "1.2亿", "N/A"},
		},
	}
}

func TestImportFile(t *testing.T) {
	store := newFakeStore()
	reader := &fakeReader{tables: map[string]ingestion.SourceTable{
		"2025-09-01.xlsx": auctionSheet(),
	}}
	svc := NewImportService(store, reader, testMapping, nil)

	result, err := svc.ImportFile(context.Background(), "/exports/2025-09-01.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "2025-09-01", result.TradeDate)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 1, result.Report.ParseFailures[stock.FieldMainNetAmount])

	day := store.records["2025-09-01"]
	require.Len(t, day, 2)
	moutai := day["600519"]
	require.NotNil(t, moutai.AuctionTodayVolume)
	assert.Equal(t, 3070.0, *moutai.AuctionTodayVolume)

	byd := day["002594"] // code padded during cleaning
	require.NotNil(t, byd.AuctionTodayVolume)
	assert.Equal(t, 12000.0, *byd.AuctionTodayVolume)
	assert.Nil(t, byd.MainNetAmount)

	require.Len(t, store.history, 1)
	assert.Equal(t, stock.ImportStatusSuccess, store.history[0].Status)
	assert.Equal(t, 2, store.history[0].RecordsCount)
}

func TestImportFileTradeDateFromSheet(t *testing.T) {
	sheet := ingestion.SourceTable{
		Headers: []string{"交易日期", "股票代码", "股票名称"},
		Rows:    [][]string{{"2025-09-02 00:00:00", "600519", "贵州茅台"}},
	}
	store := newFakeStore()
	reader := &fakeReader{tables: map[string]ingestion.SourceTable{"latest.xlsx": sheet}}
	svc := NewImportService(store, reader, testMapping, nil)

	result, err := svc.ImportFile(context.Background(), "latest.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "2025-09-02", result.TradeDate)
}

func TestImportFileMissingRequiredColumns(t *testing.T) {
	sheet := ingestion.SourceTable{
		Headers: []string{"成交额"},
		Rows:    [][]string{{"100"}},
	}
	store := newFakeStore()
	reader := &fakeReader{tables: map[string]ingestion.SourceTable{"2025-09-01.xlsx": sheet}}
	svc := NewImportService(store, reader, testMapping, nil)

	_, err := svc.ImportFile(context.Background(), "2025-09-01.xlsx")
	require.Error(t, err)

	// The failed attempt still lands in import history.
	require.Len(t, store.history, 1)
	assert.Equal(t, stock.ImportStatusFailed, store.history[0].Status)
}

func TestImportFileNoTradeDate(t *testing.T) {
	store := newFakeStore()
	reader := &fakeReader{tables: map[string]ingestion.SourceTable{"export.xlsx": auctionSheet()}}
	svc := NewImportService(store, reader, testMapping, nil)

	_, err := svc.ImportFile(context.Background(), "export.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trade date")
}

func TestImportDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2025-09-01.xlsx", "2025-09-02.xlsx", "broken.xlsx", "ignore.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0o644))
	}

	store := newFakeStore()
	reader := &fakeReader{
		tables: map[string]ingestion.SourceTable{
			"2025-09-01.xlsx": auctionSheet(),
			"2025-09-02.xlsx": auctionSheet(),
			// broken.xlsx: only an unmapped column, so required columns are missing
			"broken.xlsx": {Headers: []string{"垃圾列"}, Rows: [][]string{{"x"}}},
		},
	}
	svc := NewImportService(store, reader, testMapping, nil)

	result, err := svc.ImportDirectory(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, result.Succeeded, 2)
	assert.Equal(t, "2025-09-01.xlsx", result.Succeeded[0].FileName)
	assert.Equal(t, "2025-09-02.xlsx", result.Succeeded[1].FileName)
	assert.Equal(t, 4, result.TotalRecords)
	assert.Contains(t, result.Failed, "broken.xlsx")

	dates, _ := store.ListDates(context.Background())
	assert.Equal(t, []string{"2025-09-02", "2025-09-01"}, dates)
}

func TestImportDirectoryEmpty(t *testing.T) {
	store := newFakeStore()
	svc := NewImportService(store, &fakeReader{}, testMapping, nil)

	_, err := svc.ImportDirectory(context.Background(), t.TempDir())
	require.Error(t, err)
}
