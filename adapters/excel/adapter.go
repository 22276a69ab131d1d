package excel

import (
	"stocksheet/domain/ingestion"
	"stocksheet/ports"
)

// Reader implements the SheetReader port over xlsx and csv files.
type Reader struct{}

// NewReader creates a stateless sheet reader.
func NewReader() ports.SheetReader {
	return Reader{}
}

// ReadFile loads one spreadsheet file into a source table.
func (Reader) ReadFile(path string) (ingestion.SourceTable, error) {
	return NewDataReader(path).Read()
}
