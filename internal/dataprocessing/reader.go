package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"salesreport/internal/errors"
	"salesreport/pkg/contracts/domain"
)

// Encoding selects how CSV bytes are decoded
type Encoding string

const (
	// EncodingLatin1 decodes ISO-8859-1, the encoding of the common retail exports
	EncodingLatin1 Encoding = "latin1"
	// EncodingUTF8 reads the bytes as they are
	EncodingUTF8 Encoding = "utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadOptions controls how a source file is read
type ReadOptions struct {
	// Encoding applies to CSV input. A file starting with a UTF-8 byte order
	// mark is always read as UTF-8.
	Encoding Encoding
	// Sheet selects an xlsx worksheet; empty means the first sheet with a header
	Sheet string
}

// DefaultReadOptions returns the options used for raw inputs
func DefaultReadOptions() ReadOptions {
	return ReadOptions{Encoding: EncodingLatin1}
}

// Reader loads CSV and XLSX files into raw tables
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader. A nil logger uses slog.Default().
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// SourceName returns the logical source name of a file: its base name up to
// the first dot.
func SourceName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

// SourceNames returns one distinct source name per path, in order. Paths that
// share a stem are named after their whole base name with dots replaced, so
// online_retail.csv and online_retail.xlsx become online_retail_csv and
// online_retail_xlsx.
func SourceNames(paths []string) []string {
	stems := make(map[string]int, len(paths))
	for _, p := range paths {
		stems[SourceName(p)]++
	}

	used := make(map[string]bool, len(paths))
	names := make([]string, len(paths))
	for i, p := range paths {
		name := SourceName(p)
		if stems[name] > 1 {
			name = strings.ReplaceAll(filepath.Base(p), ".", "_")
		}
		for n, stem := 2, name; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", stem, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// ReadTable reads the file at path. An empty source is derived from the file name.
func (r *Reader) ReadTable(path, source string, opts ReadOptions) (*domain.RawTable, error) {
	if source == "" {
		source = SourceName(path)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewNotFoundError(path, err).WithContext("source", source)
	}

	var (
		table *domain.RawTable
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		table, err = r.readCSV(path, opts)
	case ".xlsx", ".xlsm":
		table, err = r.readXLSX(path, opts)
	default:
		return nil, errors.NewParsingError(fmt.Sprintf("unsupported file type %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
	if err != nil {
		return nil, err
	}

	table.Source = source
	table.Path = path

	r.logger.Info("Source file read",
		slog.String("source", source),
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Columns)),
		slog.Int("skipped_lines", table.SkippedLines))

	if table.SkippedLines > 0 {
		r.logger.Warn("Malformed lines skipped",
			slog.String("source", source),
			slog.Int("skipped_lines", table.SkippedLines))
	}

	return table, nil
}

func (r *Reader) readCSV(path string, opts ReadOptions) (*domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewNotFoundError(path, err)
	}
	defer f.Close()

	return decodeCSV(f, opts)
}

// decodeCSV parses CSV content leniently. Lines with more fields than the
// header and lines the parser rejects are counted and skipped; short lines
// are padded.
func decodeCSV(in io.Reader, opts ReadOptions) (*domain.RawTable, error) {
	br := bufio.NewReader(in)

	var src io.Reader = br
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	} else if opts.Encoding != EncodingUTF8 {
		src = transform.NewReader(br, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	table := &domain.RawTable{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				table.SkippedLines++
				continue
			}
			return nil, errors.NewParsingError("failed to read csv", err)
		}

		if isBlankRow(record) {
			continue
		}

		if table.Columns == nil {
			table.Columns = normalizeHeader(record)
			continue
		}

		row, ok := fitRow(record, len(table.Columns))
		if !ok {
			table.SkippedLines++
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if table.Columns == nil {
		return nil, errors.NewParsingError("file has no header row", nil)
	}

	return table, nil
}

func (r *Reader) readXLSX(path string, opts ReadOptions) (*domain.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if opts.Sheet != "" {
		sheets = []string{opts.Sheet}
	}

	for _, sheet := range sheets {
		// Raw values keep dates as serial numbers instead of display strings
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
		}

		table := &domain.RawTable{}
		for _, record := range rows {
			if isBlankRow(record) {
				continue
			}
			if table.Columns == nil {
				table.Columns = normalizeHeader(record)
				continue
			}
			row, ok := fitRow(record, len(table.Columns))
			if !ok {
				table.SkippedLines++
				continue
			}
			table.Rows = append(table.Rows, row)
		}

		if table.Columns != nil {
			r.logger.Debug("Using worksheet", slog.String("sheet", sheet), slog.String("path", path))
			return table, nil
		}
	}

	return nil, errors.NewParsingError("workbook has no sheet with a header row", nil).WithContext("path", path)
}

// fitRow pads short records to width. Extra trailing empty fields are
// dropped; any other extra field makes the line malformed.
func fitRow(record []string, width int) ([]string, bool) {
	if len(record) > width {
		for _, v := range record[width:] {
			if strings.TrimSpace(v) != "" {
				return nil, false
			}
		}
		record = record[:width]
	}
	row := make([]string, width)
	copy(row, record)
	return row, true
}

func normalizeHeader(record []string) []string {
	header := make([]string, len(record))
	for i, name := range record {
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("unnamed_%d", i)
		}
		header[i] = name
	}
	return header
}

func isBlankRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
