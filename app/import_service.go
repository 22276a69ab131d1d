package app

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"stocksheet/domain/ingestion"
	"stocksheet/domain/stock"
	"stocksheet/internal"
	"stocksheet/internal/errors"
	"stocksheet/ports"

	"golang.org/x/sync/errgroup"
)

// parseConcurrency bounds how many files a batch import parses at once.
const parseConcurrency = 4

// ImportService drives the ingest path: read a sheet, normalize it against
// the column mapping, clean and validate the records, load them, and record
// the attempt in import history.
type ImportService struct {
	store      ports.StockStore
	reader     ports.SheetReader
	mapping    ingestion.Mapping
	normalizer *ingestion.Normalizer
	log        *internal.Logger
}

// NewImportService creates an import service with the given collaborators.
func NewImportService(store ports.StockStore, reader ports.SheetReader, mapping ingestion.Mapping, log *internal.Logger) *ImportService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &ImportService{
		store:      store,
		reader:     reader,
		mapping:    mapping,
		normalizer: ingestion.NewNormalizer(stock.NumericFields),
		log:        log,
	}
}

// ImportResult summarizes a single file import.
type ImportResult struct {
	FileName     string            `json:"file_name"`
	TradeDate    string            `json:"trade_date"`
	RecordsTotal int               `json:"records_total"`
	Inserted     int               `json:"inserted"`
	Skipped      int               `json:"skipped"`
	Report       *ingestion.Report `json:"report"`
}

// ImportFile imports one spreadsheet. Row- and column-level anomalies are
// absorbed into the result's Report; only structural problems (unreadable
// file, malformed mapping, ragged rows, missing identity columns, no trade
// date) return an error. Every attempt lands in import history either way.
func (s *ImportService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	fileName := filepath.Base(path)

	src, err := s.reader.ReadFile(path)
	if err != nil {
		return nil, s.fail(ctx, fileName, "", err)
	}

	result, records, err := s.prepare(fileName, src)
	if err != nil {
		return nil, s.fail(ctx, fileName, "", err)
	}

	return s.load(ctx, result, records)
}

// prepare runs the pure transformation half of an import: normalize, log the
// report, validate, resolve the trade date, and clean the records.
func (s *ImportService) prepare(fileName string, src ingestion.SourceTable) (*ImportResult, []stock.Record, error) {
	target, report, err := s.normalizer.Normalize(src, s.mapping)
	if err != nil {
		return nil, nil, err
	}
	s.logReport(fileName, report)

	if err := stock.ValidateTable(target); err != nil {
		return nil, nil, err
	}

	tradeDate := stock.DateFromFilename(fileName)
	if tradeDate == "" {
		tradeDate = stock.DateFromTable(target)
	}
	if tradeDate == "" {
		return nil, nil, errors.Newf(errors.CodeFileInvalid,
			"cannot determine trade date for %s: no date in filename or 交易日期 column", fileName)
	}

	records := stock.RecordsFromTable(target, tradeDate)
	valid, invalid := stock.SplitRecords(records)
	if len(invalid) > 0 {
		s.log.Warn("[import] %s: dropping %d rows without a stock code", fileName, len(invalid))
	}

	result := &ImportResult{
		FileName:     fileName,
		TradeDate:    tradeDate,
		RecordsTotal: len(records),
		Skipped:      len(invalid),
		Report:       report,
	}
	return result, valid, nil
}

// load writes prepared records and records the outcome in import history.
func (s *ImportService) load(ctx context.Context, result *ImportResult, records []stock.Record) (*ImportResult, error) {
	inserted, skipped, err := s.store.InsertBatch(ctx, records)
	if err != nil {
		return nil, s.fail(ctx, result.FileName, result.TradeDate, err)
	}
	result.Inserted = inserted
	result.Skipped += skipped

	entry := stock.NewImportHistory(result.FileName, result.TradeDate, inserted, stock.ImportStatusSuccess, "")
	if err := s.store.AddImportHistory(ctx, entry); err != nil {
		s.log.Warn("[import] failed to record history for %s: %v", result.FileName, err)
	}

	s.log.Info("[import] %s: %d inserted, %d skipped (date %s)",
		result.FileName, result.Inserted, result.Skipped, result.TradeDate)
	return result, nil
}

// BatchResult summarizes a directory import.
type BatchResult struct {
	Succeeded    []*ImportResult   `json:"succeeded"`
	Failed       map[string]string `json:"failed"`
	TotalRecords int               `json:"total_records"`
}

// ImportDirectory imports every spreadsheet in dir, ordered by filename.
// Files are parsed concurrently; loading stays sequential so records land in
// filename (trade date) order. A failed file does not stop the batch.
func (s *ImportService) ImportDirectory(ctx context.Context, dir string) (*BatchResult, error) {
	files, err := listSpreadsheets(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Newf(errors.CodeFileInvalid, "no spreadsheet files in %s", dir)
	}

	type prepared struct {
		result  *ImportResult
		records []stock.Record
		err     error
	}
	outcomes := make([]prepared, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := s.reader.ReadFile(path)
			if err != nil {
				outcomes[i] = prepared{err: err}
				return nil
			}
			result, records, err := s.prepare(filepath.Base(path), src)
			outcomes[i] = prepared{result: result, records: records, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &BatchResult{Failed: make(map[string]string)}
	for i, path := range files {
		fileName := filepath.Base(path)
		outcome := outcomes[i]
		if outcome.err != nil {
			s.fail(ctx, fileName, "", outcome.err)
			batch.Failed[fileName] = outcome.err.Error()
			continue
		}
		result, err := s.load(ctx, outcome.result, outcome.records)
		if err != nil {
			batch.Failed[fileName] = err.Error()
			continue
		}
		batch.Succeeded = append(batch.Succeeded, result)
		batch.TotalRecords += result.Inserted
	}
	return batch, nil
}

// fail records a failed attempt in import history and passes the error on.
func (s *ImportService) fail(ctx context.Context, fileName, tradeDate string, cause error) error {
	s.log.Error("[import] %s failed: %v", fileName, cause)
	entry := stock.NewImportHistory(fileName, tradeDate, 0, stock.ImportStatusFailed, cause.Error())
	if err := s.store.AddImportHistory(ctx, entry); err != nil {
		s.log.Warn("[import] failed to record history for %s: %v", fileName, err)
	}
	return cause
}

func (s *ImportService) logReport(fileName string, report *ingestion.Report) {
	s.log.Info("[import] %s: %d columns, %d mapped, %d unmapped",
		fileName, report.TotalColumns, report.MappedColumns, report.UnmappedCount())
	if len(report.UnmappedColumns) > 0 {
		s.log.Warn("[import] %s: unmapped columns ignored: %s",
			fileName, strings.Join(report.UnmappedColumns, ", "))
	}
	for _, skip := range report.SkippedSynonyms {
		s.log.Info("[import] %s: column %q skipped, %s already populated", fileName, skip.Header, skip.Field)
	}
	for field, count := range report.ParseFailures {
		s.log.Warn("[import] %s: %d unparsable cells in %s", fileName, count, field)
	}
}

func listSpreadsheets(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.xlsx", "*.csv"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan %s", dir)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}
