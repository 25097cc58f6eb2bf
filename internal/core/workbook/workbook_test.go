package workbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"events-service/internal/core/normalize"
)

func TestReadTextCSV(t *testing.T) {
	text, err := ReadText(strings.NewReader("a,b\n1,2\n"), "report.CSV", ',')
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", text)
}

func TestReadTextStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Data,Evento")...)
	text, err := ReadText(bytes.NewReader(data), "ledger.csv", ',')
	require.NoError(t, err)
	assert.Equal(t, "Data,Evento", text)
}

func TestReadTextLatin1(t *testing.T) {
	// "Número" in ISO-8859-1.
	data := []byte{'N', 0xFA, 'm', 'e', 'r', 'o'}
	text, err := ReadText(bytes.NewReader(data), "report.txt", ',')
	require.NoError(t, err)
	assert.Equal(t, "Número", text)
}

func TestReadTextUnsupported(t *testing.T) {
	_, err := ReadText(strings.NewReader("x"), "report.pdf", ',')
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, Supported("report.pdf"))
	assert.True(t, Supported("report.XLSX"))
}

func TestReadTextXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"PARQUE PISTA | 26/09/2025"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"Porta", "", "601", "R$ 19.004,00"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	text, err := ReadText(&buf, "report.xlsx", ',')
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "PARQUE PISTA | 26/09/2025", lines[0])
	// The comma inside the currency cell is quoted and survives the split.
	cols := normalize.SplitRespectingQuotes(lines[1], ',')
	assert.Equal(t, []string{"Porta", "", "601", "R$ 19.004,00"}, cols)
}

func TestReadTextXLSXFlattensCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"Bar \"Central\"\nPista", "R$ 1,50"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"Porta", "601"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	text, err := ReadText(&buf, "ledger.xlsx", ',')
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 2)
	cols := normalize.SplitRespectingQuotes(lines[0], ',')
	assert.Equal(t, []string{"Bar 'Central' Pista", "R$ 1,50"}, cols)
	assert.Equal(t, "Porta,601", lines[1])
}

func TestFlattenCell(t *testing.T) {
	assert.Equal(t, "", flattenCell("  \n "))
	assert.Equal(t, "a b", flattenCell("a\tb"))
	assert.Equal(t, "ab", flattenCell("a\x01b"))
	assert.Equal(t, "Ilha 'VIP'", flattenCell(` Ilha "VIP" `))
}

func TestReadTextBrokenWorkbook(t *testing.T) {
	_, err := ReadText(strings.NewReader("not a workbook"), "x.xlsx", ',')
	assert.Error(t, err)
}
