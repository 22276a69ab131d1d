package ports

import "stocksheet/domain/ingestion"

// SheetReader loads a spreadsheet file into a source table. Implemented by
// the excel adapter; faked in tests.
type SheetReader interface {
	ReadFile(path string) (ingestion.SourceTable, error)
}
