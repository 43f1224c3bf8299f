// Package extractor turns exported statement files into raw statement rows.
//
// Statements are exported as workbooks or delimited text with account summary
// metadata above the transaction table and totals below it. The Reader strips
// both, maps the bank's column headers to the canonical field names and
// returns the rows it could read. Malformed rows are dropped and logged, only
// a missing workbook sheet is reported back to the caller.
package extractor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bcaldwell/statementimporter/pkg/statement"
)

// ErrSheetNotFound is returned when a workbook has no sheet with the layout's sheet name.
var ErrSheetNotFound = errors.New("sheet not found")

// Layout describes how one bank lays out its statement export.
type Layout interface {
	// SheetName is the workbook sheet holding the statement
	SheetName() string
	// IsTableHeader reports whether cells is the header row of the transaction table
	IsTableHeader(cells []string) bool
	// TransformHeader maps a raw column header to a canonical field name
	TransformHeader(header string) string
}

// File is an uploaded statement.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Reader struct {
	layout Layout
	// map of canonical field name to the raw header it should be read from
	columnTranslation map[string]string
}

func NewReader(layout Layout, columnTranslation map[string]string) *Reader {
	return &Reader{layout: layout, columnTranslation: columnTranslation}
}

// Read extracts the statement rows of file. The only error returned wraps
// ErrSheetNotFound, every other failure is logged and yields no rows.
func (r *Reader) Read(file File) ([]statement.RawRow, error) {
	text, err := r.toCSV(file)
	if errors.Is(err, ErrSheetNotFound) {
		return nil, err
	} else if err != nil {
		slog.Error("failed to read statement file", "file", file.Name, "error", err)
		return nil, nil
	}

	rows, err := r.parseCSV(text)
	if err != nil {
		slog.Error("failed to parse statement file", "file", file.Name, "error", err)
		return nil, nil
	}

	return rows, nil
}

func (r *Reader) toCSV(file File) (string, error) {
	switch detectFormat(file) {
	case formatXLSX:
		return xlsxToCSV(file.Data, r.layout.SheetName())
	case formatXLS:
		return xlsToCSV(file.Data, r.layout.SheetName())
	default:
		return string(file.Data), nil
	}
}

// parseCSV reads the transaction table out of text. Lines above the table
// header and from the totals trailer onward are discarded.
func (r *Reader) parseCSV(text string) ([]statement.RawRow, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var header []string
	rows := []statement.RawRow{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			slog.Warn("dropping unparsable statement row", "line", parseErr.Line, "error", parseErr.Err)
			continue
		} else if err != nil {
			return nil, fmt.Errorf("failed to read statement csv: %w", err)
		}

		if header == nil {
			if r.layout.IsTableHeader(record) {
				header = r.mapHeader(record)
			}
			continue
		}

		if isTrailer(record) {
			break
		}

		if isBlank(record) {
			continue
		}

		row, err := buildRow(header, record)
		if err != nil {
			slog.Warn("dropping malformed statement row", "row", record, "error", err)
			continue
		}

		rows = append(rows, row)
	}

	if header == nil {
		return nil, fmt.Errorf("statement table header not found")
	}

	return rows, nil
}

// mapHeader translates every raw header cell to its canonical field name.
func (r *Reader) mapHeader(record []string) []string {
	headerMap := generateHeaderMap(record)
	header := make([]string, len(record))

	for i, raw := range record {
		header[i] = r.layout.TransformHeader(strings.TrimSpace(raw))
	}

	for field, column := range r.columnTranslation {
		if i, ok := headerMap[strings.ToLower(column)]; ok {
			header[i] = field
		}
	}

	return header
}

func buildRow(header, record []string) (statement.RawRow, error) {
	if len(record) > len(header) {
		return statement.RawRow{}, fmt.Errorf("row has %d fields, header has %d", len(record), len(header))
	}

	row := statement.RawRow{}
	for i, value := range record {
		value = strings.TrimSpace(value)

		switch header[i] {
		case statement.FieldTransactionDate:
			row.TransactionDate = value
		case statement.FieldValueDate:
			row.ValueDate = value
		case statement.FieldDescription:
			row.Description = value
		case statement.FieldCheque:
			row.Cheque = value
		case statement.FieldDebit:
			row.Debit = value
		case statement.FieldCredit:
			row.Credit = value
		case statement.FieldBalance:
			row.Balance = value
		}
	}

	if row.TransactionDate == "" {
		return row, fmt.Errorf("missing transaction date")
	}

	if row.Description == "" {
		return row, fmt.Errorf("missing description")
	}

	return row, nil
}

// generateHeaderMap creates a map of lower case header name to column index
func generateHeaderMap(record []string) map[string]int {
	m := make(map[string]int)
	for i, r := range record {
		m[strings.ToLower(strings.TrimSpace(r))] = i
	}
	return m
}

// isTrailer reports whether record starts the totals section at the end of a statement.
func isTrailer(record []string) bool {
	for _, cell := range record {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		return strings.HasPrefix(cell, "Total")
	}
	return false
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
