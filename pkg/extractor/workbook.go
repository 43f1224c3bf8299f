package extractor

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

type format int

const (
	formatText format = iota
	formatXLSX
	formatXLS
)

var (
	xlsxMagic = []byte("PK\x03\x04")
	xlsMagic  = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

func detectFormat(file File) format {
	switch {
	case bytes.HasPrefix(file.Data, xlsxMagic):
		return formatXLSX
	case bytes.HasPrefix(file.Data, xlsMagic):
		return formatXLS
	}

	switch file.ContentType {
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return formatXLSX
	case "application/vnd.ms-excel":
		return formatXLS
	}

	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".xlsx":
		return formatXLSX
	case ".xls":
		return formatXLS
	}

	return formatText
}

func xlsxToCSV(data []byte, sheet string) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open xlsx workbook: %w", err)
	}
	defer f.Close()

	if !slices.Contains(f.GetSheetList(), sheet) {
		return "", fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	return renderCSV(rows)
}

func xlsToCSV(data []byte, sheet string) (string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", fmt.Errorf("failed to open xls workbook: %w", err)
	}

	var ws *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil && s.Name == sheet {
			ws = s
			break
		}
	}

	if ws == nil {
		return "", fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows := [][]string{}
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			continue
		}

		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}

	return renderCSV(rows)
}

// renderCSV writes rows as csv, skipping blank rows and padding every row to
// the width of the widest one so short rows keep their column positions.
func renderCSV(rows [][]string) (string, error) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	for _, row := range rows {
		if isBlank(row) {
			continue
		}

		padded := make([]string, width)
		copy(padded, row)

		if err := w.Write(padded); err != nil {
			return "", fmt.Errorf("failed to render sheet row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to render sheet: %w", err)
	}

	return buf.String(), nil
}
