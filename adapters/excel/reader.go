package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"stocksheet/domain/ingestion"
	"stocksheet/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader loads a spreadsheet export (xlsx or csv) into a source table.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given file path. The legacy .xls
// format is not supported; exports must be re-saved as .xlsx or .csv.
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a source table: trimmed headers from the first
// row, raw cells from the rest, padded to a rectangular shape.
func (r *DataReader) Read() (ingestion.SourceTable, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return ingestion.SourceTable{}, errors.Newf(errors.CodeFileInvalid, "file not found: %s", r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return ingestion.SourceTable{}, err
	}

	if len(rows) < 2 {
		return ingestion.SourceTable{}, errors.Newf(errors.CodeFileInvalid,
			"%s needs a header row and at least one data row", filepath.Base(r.filePath))
	}

	return buildSourceTable(rows), nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open Excel file %s", r.filePath)
	}
	defer f.Close()

	// Daily exports carry a single sheet; read whichever comes first.
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Newf(errors.CodeFileInvalid, "%s has no sheets", filepath.Base(r.filePath))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheets[0])
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %s", r.filePath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read CSV file %s", r.filePath)
	}
	return rows, nil
}

// buildSourceTable shapes raw rows into a rectangular source table. Excel
// rows omit trailing empty cells, so short rows are padded; cells beyond the
// header width carry no column name and are dropped.
func buildSourceTable(rows [][]string) ingestion.SourceTable {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j := range headers {
			if j < len(row) {
				cells[j] = row[j]
			}
		}
		data = append(data, cells)
	}

	return ingestion.SourceTable{Headers: headers, Rows: data}
}
