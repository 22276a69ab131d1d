package stock

import (
	"testing"

	"stocksheet/domain/ingestion"
	"stocksheet/internal/errors"
)

func TestCleanStockCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"600519", "600519"},
		{"2594", "002594"},     // leading zeros dropped by the export
		{"2594.0", "002594"},   // numeric cell rendered with decimal point
		{" 300750 ", "300750"},
		{"BK0481", "BK0481"},   // board indexes keep their prefix
		{"", ""},
	}
	for _, test := range tests {
		if got := CleanStockCode(test.input); got != test.want {
			t.Errorf("CleanStockCode(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidateTable(t *testing.T) {
	valid := &ingestion.TargetTable{
		Fields: []string{FieldStockCode, FieldStockName},
		Rows:   []ingestion.Row{{FieldStockCode: ingestion.NewTextValue("600519")}},
	}
	if err := ValidateTable(valid); err != nil {
		t.Errorf("Expected valid table, got %v", err)
	}

	missingName := &ingestion.TargetTable{
		Fields: []string{FieldStockCode},
		Rows:   []ingestion.Row{{}},
	}
	err := ValidateTable(missingName)
	if err == nil || !errors.HasCode(err, errors.CodeRecordInvalid) {
		t.Errorf("Expected RECORD_INVALID for missing stock_name, got %v", err)
	}

	empty := &ingestion.TargetTable{Fields: []string{FieldStockCode, FieldStockName}}
	if err := ValidateTable(empty); err == nil {
		t.Error("Expected error for table without rows")
	}
}

func TestSplitRecords(t *testing.T) {
	records := []Record{
		{StockCode: "600519", StockName: "贵州茅台"},
		{StockCode: "  ", StockName: "blank code"},
		{StockCode: "000001", StockName: "平安银行"},
	}
	valid, invalid := SplitRecords(records)
	if len(valid) != 2 || len(invalid) != 1 {
		t.Errorf("Expected 2 valid / 1 invalid, got %d / %d", len(valid), len(invalid))
	}
}

func TestRecordsFromTable(t *testing.T) {
	table := &ingestion.TargetTable{
		Fields: []string{FieldStockCode, FieldStockName, FieldAuctionTodayVolume, FieldSector},
		Rows: []ingestion.Row{
			{
				FieldStockCode:          ingestion.NewTextValue("2594"),
				FieldStockName:          ingestion.NewTextValue("比亚迪"),
				FieldAuctionTodayVolume: ingestion.NewNumericValue(3070),
				FieldSector:             ingestion.NewNullValue(),
			},
		},
	}

	records := RecordsFromTable(table, "2025-09-01")
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.TradeDate != "2025-09-01" {
		t.Errorf("Expected trade date 2025-09-01, got %s", rec.TradeDate)
	}
	if rec.StockCode != "002594" {
		t.Errorf("Expected padded code 002594, got %s", rec.StockCode)
	}
	if rec.AuctionTodayVolume == nil || *rec.AuctionTodayVolume != 3070 {
		t.Errorf("Expected volume 3070, got %v", rec.AuctionTodayVolume)
	}
	if rec.Sector != nil {
		t.Errorf("Expected nil sector for null value, got %v", *rec.Sector)
	}
	if rec.CurrentPrice != nil {
		t.Error("Fields absent from the table must stay nil")
	}
}
