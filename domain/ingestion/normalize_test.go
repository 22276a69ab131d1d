package ingestion

import (
	"reflect"
	"testing"

	"stocksheet/internal/errors"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer([]string{"auction_today_volume", "main_net_amount", "turnover_rate"})
}

// TestNormalizeMappedSubset tests that with unique headers the target table
// holds exactly the mapped subset of source columns.
func TestNormalizeMappedSubset(t *testing.T) {
	src := SourceTable{
		Headers: []string{"股票代码", "股票名称", "主力净额", "备注"},
		Rows: [][]string{
			{"600519", "贵州茅台", "1200", "ignored"},
			{"000001", "平安银行", "-300.5", "ignored"},
		},
	}
	mapping := Mapping{
		"股票代码": "stock_code",
		"股票名称": "stock_name",
		"主力净额": "main_net_amount",
	}

	target, report, err := newTestNormalizer().Normalize(src, mapping)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	wantFields := []string{"stock_code", "stock_name", "main_net_amount"}
	if !reflect.DeepEqual(target.Fields, wantFields) {
		t.Errorf("Expected fields %v, got %v", wantFields, target.Fields)
	}
	if report.TotalColumns != 4 || report.MappedColumns != 3 {
		t.Errorf("Expected 3/4 columns mapped, got %d/%d", report.MappedColumns, report.TotalColumns)
	}
	if !reflect.DeepEqual(report.UnmappedColumns, []string{"备注"}) {
		t.Errorf("Expected 备注 unmapped, got %v", report.UnmappedColumns)
	}
	if report.MappedColumns+report.UnmappedCount() != report.TotalColumns {
		t.Errorf("mapped (%d) + unmapped (%d) != total (%d)",
			report.MappedColumns, report.UnmappedCount(), report.TotalColumns)
	}

	// No value is null unless the source cell was empty or unparsable.
	for i, row := range target.Rows {
		for _, field := range target.Fields {
			if row[field].IsNull() {
				t.Errorf("Row %d field %s unexpectedly null", i, field)
			}
		}
	}
	if got := target.Rows[1]["main_net_amount"].AsFloat64(); got != -300.5 {
		t.Errorf("Expected -300.5, got %v", got)
	}
}

// TestNormalizeSynonymFirstColumnWins tests that when two source headers map
// to the same target field, the earlier column supplies every value — even
// when its cells are empty and the later column's are not.
func TestNormalizeSynonymFirstColumnWins(t *testing.T) {
	mapping := Mapping{
		"成交额":   "auction_today_volume",
		"今日成交额": "auction_today_volume",
	}

	tests := []struct {
		name     string
		headers  []string
		row      []string
		wantNull bool
		want     float64
	}{
		{
			name:    "first column populated",
			headers: []string{"成交额", "今日成交额"},
			row:     []string{"3070", "9999"},
			want:    3070,
		},
		{
			name:     "first column empty, second ignored",
			headers:  []string{"成交额", "今日成交额"},
			row:      []string{"", "9999"},
			wantNull: true,
		},
		{
			name:    "reversed column order flips the winner",
			headers: []string{"今日成交额", "成交额"},
			row:     []string{"9999", "3070"},
			want:    9999,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			src := SourceTable{Headers: test.headers, Rows: [][]string{test.row}}
			target, report, err := newTestNormalizer().Normalize(src, mapping)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}

			val := target.Rows[0]["auction_today_volume"]
			if test.wantNull {
				if !val.IsNull() {
					t.Errorf("Expected null, got %v", val)
				}
			} else if val.AsFloat64() != test.want {
				t.Errorf("Expected %v, got %v", test.want, val)
			}

			if len(report.SkippedSynonyms) != 1 {
				t.Fatalf("Expected 1 skipped synonym, got %d", len(report.SkippedSynonyms))
			}
			if report.SkippedSynonyms[0].Field != "auction_today_volume" {
				t.Errorf("Unexpected skipped field: %+v", report.SkippedSynonyms[0])
			}
			// The skipped column is still a mapped column.
			if report.MappedColumns+report.UnmappedCount() != report.TotalColumns {
				t.Errorf("mapped (%d) + unmapped (%d) != total (%d)",
					report.MappedColumns, report.UnmappedCount(), report.TotalColumns)
			}
		})
	}
}

// TestNormalizeAbsentSynonymDoesNotNullOut is the regression case this
// normalizer exists for: a mapping entry with no matching source column must
// not erase the value supplied by the column that is present.
func TestNormalizeAbsentSynonymDoesNotNullOut(t *testing.T) {
	src := SourceTable{
		Headers: []string{"成交额", "股票代码"},
		Rows:    [][]string{{"3070", "600519"}},
	}
	// 今日成交额 is configured but absent from this particular sheet.
	mapping := Mapping{
		"成交额":   "auction_today_volume",
		"今日成交额": "auction_today_volume",
		"股票代码":  "stock_code",
	}

	target, report, err := newTestNormalizer().Normalize(src, mapping)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	val := target.Rows[0]["auction_today_volume"]
	if val.IsNull() {
		t.Fatal("auction_today_volume was nulled out by an absent synonym column")
	}
	if val.AsFloat64() != 3070.0 {
		t.Errorf("Expected 3070.0, got %v", val.AsFloat64())
	}
	if len(report.SkippedSynonyms) != 0 {
		t.Errorf("Absent columns must not register as skipped writes: %+v", report.SkippedSynonyms)
	}
}

// TestNormalizeDuplicateHeaders tests the duplicate-header policy: the first
// occurrence in column order wins, later ones are recorded as skipped.
func TestNormalizeDuplicateHeaders(t *testing.T) {
	src := SourceTable{
		Headers: []string{"成交额", "成交额"},
		Rows:    [][]string{{"100", "200"}},
	}
	mapping := Mapping{"成交额": "auction_today_volume"}

	target, report, err := newTestNormalizer().Normalize(src, mapping)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := target.Rows[0]["auction_today_volume"].AsFloat64(); got != 100 {
		t.Errorf("Expected first duplicate column to win with 100, got %v", got)
	}
	if len(report.SkippedSynonyms) != 1 {
		t.Errorf("Expected 1 skipped write, got %d", len(report.SkippedSynonyms))
	}
}

// TestNormalizeParseFailures tests that unparsable cells become null and are
// counted per field without aborting the run.
func TestNormalizeParseFailures(t *testing.T) {
	src := SourceTable{
		Headers: []string{"主力净额"},
		Rows:    [][]string{{"N/A"}, {""}, {"42"}},
	}
	mapping := Mapping{"主力净额": "main_net_amount"}

	target, report, err := newTestNormalizer().Normalize(src, mapping)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if !target.Rows[0]["main_net_amount"].IsNull() {
		t.Error("Expected N/A to coerce to null")
	}
	if !target.Rows[1]["main_net_amount"].IsNull() {
		t.Error("Expected empty cell to coerce to null")
	}
	if target.Rows[2]["main_net_amount"].AsFloat64() != 42 {
		t.Error("Expected 42 to survive coercion")
	}
	// Empty cells are not failures; only N/A counts.
	if report.ParseFailures["main_net_amount"] != 1 {
		t.Errorf("Expected 1 parse failure, got %d", report.ParseFailures["main_net_amount"])
	}
}

// TestNormalizeIdempotent tests that repeated runs over the same inputs give
// identical tables and reports.
func TestNormalizeIdempotent(t *testing.T) {
	src := SourceTable{
		Headers: []string{"成交额", "今日成交额", "股票代码", "未知列"},
		Rows:    [][]string{{"3,070", "", "600519", "x"}, {"", "5", "000001", "y"}},
	}
	mapping := Mapping{
		"成交额":   "auction_today_volume",
		"今日成交额": "auction_today_volume",
		"股票代码":  "stock_code",
	}

	n := newTestNormalizer()
	target1, report1, err := n.Normalize(src, mapping)
	if err != nil {
		t.Fatalf("First Normalize failed: %v", err)
	}
	target2, report2, err := n.Normalize(src, mapping)
	if err != nil {
		t.Fatalf("Second Normalize failed: %v", err)
	}

	if !reflect.DeepEqual(target1, target2) {
		t.Error("Target tables differ between identical runs")
	}
	if !reflect.DeepEqual(report1, report2) {
		t.Error("Reports differ between identical runs")
	}
}

// TestNormalizeContractViolations tests that structural problems fail before
// any output is produced.
func TestNormalizeContractViolations(t *testing.T) {
	tests := []struct {
		name     string
		src      SourceTable
		mapping  Mapping
		wantCode string
	}{
		{
			name: "ragged rows",
			src: SourceTable{
				Headers: []string{"a", "b"},
				Rows:    [][]string{{"1", "2"}, {"3"}},
			},
			mapping:  Mapping{"a": "x"},
			wantCode: errors.CodeTableInvalid,
		},
		{
			name:     "no columns",
			src:      SourceTable{},
			mapping:  Mapping{"a": "x"},
			wantCode: errors.CodeTableInvalid,
		},
		{
			name:     "empty mapping",
			src:      SourceTable{Headers: []string{"a"}},
			mapping:  Mapping{},
			wantCode: errors.CodeMappingInvalid,
		},
		{
			name:     "blank target field",
			src:      SourceTable{Headers: []string{"a"}},
			mapping:  Mapping{"a": "  "},
			wantCode: errors.CodeMappingInvalid,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			target, report, err := newTestNormalizer().Normalize(test.src, test.mapping)
			if err == nil {
				t.Fatal("Expected a contract violation")
			}
			if !errors.HasCode(err, test.wantCode) {
				t.Errorf("Expected code %s, got %s", test.wantCode, errors.CodeOf(err))
			}
			if target != nil || report != nil {
				t.Error("Contract violations must not produce partial output")
			}
		})
	}
}

// TestNormalizeTextFields tests that unconfigured fields stay text and blank
// cells become null without counting as failures.
func TestNormalizeTextFields(t *testing.T) {
	src := SourceTable{
		Headers: []string{"板块"},
		Rows:    [][]string{{" 白酒、消费 "}, {""}},
	}
	mapping := Mapping{"板块": "sector"}

	target, report, err := newTestNormalizer().Normalize(src, mapping)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := target.Rows[0]["sector"].AsText(); got != "白酒、消费" {
		t.Errorf("Expected trimmed sector text, got %q", got)
	}
	if !target.Rows[1]["sector"].IsNull() {
		t.Error("Expected blank sector to be null")
	}
	if report.TotalParseFailures() != 0 {
		t.Errorf("Text columns must not register parse failures, got %d", report.TotalParseFailures())
	}
}
