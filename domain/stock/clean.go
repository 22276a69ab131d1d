package stock

import (
	"fmt"
	"strconv"
	"strings"

	"stocksheet/domain/ingestion"
	"stocksheet/internal/errors"
)

// CleanStockCode pads numeric-looking exchange codes to six digits. Exports
// frequently drop leading zeros (300750 survives, 002594 arrives as 2594).
// Non-numeric codes pass through untouched.
func CleanStockCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return code
	}
	if n, err := strconv.ParseFloat(code, 64); err == nil && n >= 0 {
		return fmt.Sprintf("%06d", int64(n))
	}
	return code
}

// ValidateTable checks that a normalized table is loadable: it must carry the
// required identity columns and at least one row. This mirrors the top-level
// contract check, not per-row screening; individual blank codes are counted
// and skipped at insert time.
func ValidateTable(t *ingestion.TargetTable) error {
	var missing []string
	for _, f := range RequiredFields {
		if !t.HasField(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return errors.Newf(errors.CodeRecordInvalid,
			"sheet is missing required columns: %s", strings.Join(missing, ", "))
	}
	if len(t.Rows) == 0 {
		return errors.New(errors.CodeRecordInvalid, "sheet contains no data rows")
	}
	return nil
}

// SplitRecords separates loadable records from those without a stock code.
func SplitRecords(records []Record) (valid, invalid []Record) {
	for _, rec := range records {
		if strings.TrimSpace(rec.StockCode) == "" {
			invalid = append(invalid, rec)
			continue
		}
		valid = append(valid, rec)
	}
	return valid, invalid
}
