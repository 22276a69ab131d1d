package stock

import (
	"time"

	"github.com/google/uuid"
)

// Import outcome labels recorded in import_history.
const (
	ImportStatusSuccess = "success"
	ImportStatusFailed  = "failed"
)

// ImportHistory is one audit entry per attempted file import, success or not.
type ImportHistory struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ImportedAt   time.Time `db:"imported_at" json:"imported_at"`
	FileName     string    `db:"file_name" json:"file_name"`
	TradeDate    string    `db:"trade_date" json:"trade_date"`
	RecordsCount int       `db:"records_count" json:"records_count"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
}

// NewImportHistory stamps a fresh audit entry.
func NewImportHistory(fileName, tradeDate string, count int, status, errMsg string) ImportHistory {
	return ImportHistory{
		ID:           uuid.New(),
		ImportedAt:   time.Now().UTC(),
		FileName:     fileName,
		TradeDate:    tradeDate,
		RecordsCount: count,
		Status:       status,
		ErrorMessage: errMsg,
	}
}
