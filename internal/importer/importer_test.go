package importer

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ─── CSV ────────────────────────────────────────────────────

func TestImportCSV_WithHeader(t *testing.T) {
	data := "Length,Qty\n2110,4\n940,1\n850,\n"

	result, err := ImportCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []Piece{{2110, 4}, {940, 1}, {850, 1}}, result.Pieces)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []uint{2110, 2110, 2110, 2110, 940, 850}, result.Lengths())
}

func TestImportCSV_HeaderColumnsReordered(t *testing.T) {
	data := "pcs;size\n2;600\n1;450\n"

	result, err := ImportCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []Piece{{600, 2}, {450, 1}}, result.Pieces)
}

func TestImportCSV_SingleColumnWithoutHeader(t *testing.T) {
	data := "2110\n940\n\n# trim pieces\n850\n"

	result, err := ImportCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []uint{2110, 940, 850}, result.Lengths())
}

func TestImportCSV_BadRowsBecomeWarnings(t *testing.T) {
	data := "length,quantity\n2110,2\nabc,1\n0,1\n300,-1\n940,0\n"

	result, err := ImportCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []Piece{{2110, 2}}, result.Pieces)
	require.Len(t, result.Warnings, 4)
	assert.Contains(t, result.Warnings[0], "line 3")
}

func TestImportCSV_QuantityIsBounded(t *testing.T) {
	data := "length,quantity\n2110,100000000000\n940,10000\n850,1\n600,2\n"

	result, err := ImportCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []Piece{{940, MaxPieces}}, result.Pieces)
	assert.Len(t, result.Lengths(), MaxPieces)
	require.Len(t, result.Warnings, 3)
	assert.Contains(t, result.Warnings[0], "line 2")
	assert.Contains(t, result.Warnings[0], "exceeds")
	assert.Contains(t, result.Warnings[1], "line 4")
	assert.Contains(t, result.Warnings[2], "line 5")
}

func TestImportCSV_NoPieces(t *testing.T) {
	_, err := ImportCSV(strings.NewReader("length,qty\n"))
	assert.ErrorIs(t, err, ErrNoPieces)

	_, err = ImportCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoPieces)
}

func TestImportCSV_HeaderWithoutLength(t *testing.T) {
	_, err := ImportCSV(strings.NewReader("qty\n2\n"))
	assert.Error(t, err)
}

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "a,b\n1,2\n", ','},
		{"semicolon", "a;b\n1;2\n", ';'},
		{"tab", "a\tb\n1\t2\n", '\t'},
		{"pipe", "a|b\n1|2\n", '|'},
		{"single column", "1\n2\n", ','},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectCSVDelimiter([]byte(tc.data)))
		})
	}
}

// ─── Excel ──────────────────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, ref, cell))
		}
	}
	return f
}

func TestImportExcel_FromFile(t *testing.T) {
	f := createTestExcel(t, [][]interface{}{
		{"Length", "Quantity"},
		{2110, 4},
		{940, 1},
		{850, 1},
	})
	path := filepath.Join(t.TempDir(), "pieces.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result, err := ImportExcel(path)
	require.NoError(t, err)

	assert.Equal(t, []uint{2110, 2110, 2110, 2110, 940, 850}, result.Lengths())
}

func TestImportExcel_StreamWithoutHeader(t *testing.T) {
	f := createTestExcel(t, [][]interface{}{
		{600, 2},
		{"oops", 1},
		{450},
	})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	result, err := importExcelReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, []Piece{{600, 2}, {450, 1}}, result.Pieces)
	assert.Len(t, result.Warnings, 1)
}

func TestImportExcel_MissingFile(t *testing.T) {
	_, err := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestParseUintAcceptsWholeFloats(t *testing.T) {
	got, err := parseUint("2110.0")
	require.NoError(t, err)
	assert.Equal(t, uint(2110), got)

	_, err = parseUint("2110.5")
	assert.Error(t, err)
}
