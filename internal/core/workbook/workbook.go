// Package workbook turns uploaded spreadsheets into the delimited text the
// parsers read.
package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedFormat is returned for extensions other than csv, txt,
// xls and xlsx.
var ErrUnsupportedFormat = errors.New("formato de arquivo não suportado")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Supported reports whether filename has an extension ReadText accepts.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", "", ".xls", ".xlsx":
		return true
	}
	return false
}

// ReadText reads r, named filename, as line-delimited text. Workbook
// sheets are written one after the other with delim between cells; plain
// text is returned as is, decoded from ISO-8859-1 when it is not UTF-8.
func ReadText(r io.Reader, filename string, delim rune) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		return xlsxToText(r, delim)
	case ".xls":
		return xlsToText(r, delim)
	case ".csv", ".txt", "":
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("erro ao ler arquivo %s: %w", filename, err)
		}
		return DecodeText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// DecodeText strips a UTF-8 BOM and falls back to ISO-8859-1 for bytes
// that are not valid UTF-8, as exported by older spreadsheet tools.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("erro ao decodificar texto ISO-8859-1: %w", err)
	}
	return string(decoded), nil
}

func xlsxToText(r io.Reader, delim rune) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("erro ao abrir arquivo .xlsx: %w", err)
	}
	defer f.Close()

	rows := [][]string{}
	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		rows = append(rows, sheetRows...)
	}
	return writeRows(rows, delim)
}

func xlsToText(r io.Reader, delim rune) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("erro ao ler arquivo .xls: %w", err)
	}

	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		// talvez seja xlsx salvo com extensão .xls
		if f, errX := excelize.OpenReader(bytes.NewReader(data)); errX == nil {
			f.Close()
			return xlsxToText(bytes.NewReader(data), delim)
		}
		return "", fmt.Errorf("erro ao abrir arquivo .xls: %w", err)
	}

	rows := [][]string{}
	for _, sheet := range wb.GetSheets() {
		for _, row := range sheet.GetRows() {
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			rows = append(rows, cells)
		}
	}
	return writeRows(rows, delim)
}

func writeRows(rows [][]string, delim rune) (string, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	writer.Comma = delim

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = flattenCell(cell)
		}
		if err := writer.Write(cells); err != nil {
			return "", fmt.Errorf("erro ao escrever linha: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buffer.String(), nil
}

// flattenCell keeps a cell on one line and free of double quotes, which
// the parsers read as field delimiters: line breaks and tabs become
// spaces, other control characters are dropped and `"` becomes `'`.
func flattenCell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\r' || r == '\n' || r == '\t':
			b.WriteByte(' ')
		case r == '"':
			b.WriteByte('\'')
		case r < 32:
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
