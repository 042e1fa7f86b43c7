// Package importer reads requested piece lengths from CSV and Excel files.
// Each row holds a length and an optional quantity; a header row is detected
// from common column names.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoPieces is returned when a file yields no usable rows.
var ErrNoPieces = errors.New("no pieces found")

// MaxPieces bounds the number of lengths a single file may expand to.
const MaxPieces = 10_000

// Piece is one requested length and how many times it is needed.
type Piece struct {
	Length   uint
	Quantity uint
}

// Result holds the parsed pieces and warnings for skipped rows.
type Result struct {
	Pieces   []Piece
	Warnings []string
}

// Lengths expands quantities into the flat list of lengths to plan.
func (r Result) Lengths() []uint {
	var n uint
	for _, p := range r.Pieces {
		n += p.Quantity
	}
	out := make([]uint, 0, n)
	for _, p := range r.Pieces {
		for i := uint(0); i < p.Quantity; i++ {
			out = append(out, p.Length)
		}
	}
	return out
}

type columnMapping struct {
	length   int
	quantity int
}

var headerAliases = map[string][]string{
	"length":   {"length", "len", "size", "l", "piece", "cut"},
	"quantity": {"quantity", "qty", "count", "pcs", "pieces", "num"},
}

// DetectCSVDelimiter picks the delimiter that splits the most rows into the
// same number of columns. Single-column data falls back to a comma.
func DetectCSVDelimiter(data []byte) rune {
	best := ','
	bestScore := 0

	for _, delim := range []rune{',', ';', '\t', '|'} {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == len(records[0]) {
				score++
			}
		}
		if weighted := score*10 + len(records[0]); weighted > bestScore {
			bestScore = weighted
			best = delim
		}
	}
	return best
}

// ImportCSV reads pieces from CSV data.
func ImportCSV(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read CSV: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectCSVDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("parse CSV: %w", err)
	}
	return importRows(records, "line")
}

// ImportExcel reads pieces from the first sheet of an Excel workbook.
func ImportExcel(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	return importExcelReader(file)
}

// importExcelReader reads pieces from an Excel workbook stream.
func importExcelReader(r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return importWorkbook(f)
}

func importWorkbook(f *excelize.File) (Result, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("%w: workbook has no sheets", ErrNoPieces)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return importRows(rows, "row")
}

func importRows(rows [][]string, rowPrefix string) (Result, error) {
	var (
		result Result
		total  uint
	)

	start := 0
	mapping := columnMapping{length: 0, quantity: 1}
	if len(rows) > 0 {
		if detected, ok := detectColumns(rows[0]); ok {
			if detected.length < 0 {
				return Result{}, fmt.Errorf("header row has no length column")
			}
			mapping = detected
			start = 1
		}
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		piece, err := parseRow(row, mapping)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s %d: %v", rowPrefix, i+1, err))
			continue
		}
		if piece.Quantity > MaxPieces-total {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s %d: file exceeds %d pieces", rowPrefix, i+1, MaxPieces))
			continue
		}
		total += piece.Quantity
		result.Pieces = append(result.Pieces, piece)
	}

	if len(result.Pieces) == 0 {
		return result, ErrNoPieces
	}
	return result, nil
}

// detectColumns reports whether row is a header and, if so, where the
// length and quantity columns are. Missing columns are -1.
func detectColumns(row []string) (columnMapping, bool) {
	mapping := columnMapping{length: -1, quantity: -1}
	matched := false

	for idx, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if name != alias {
					continue
				}
				matched = true
				switch role {
				case "length":
					if mapping.length < 0 {
						mapping.length = idx
					}
				case "quantity":
					if mapping.quantity < 0 {
						mapping.quantity = idx
					}
				}
			}
		}
	}
	return mapping, matched
}

func parseRow(row []string, mapping columnMapping) (Piece, error) {
	if mapping.length >= len(row) {
		return Piece{}, fmt.Errorf("missing length")
	}
	length, err := parseUint(row[mapping.length])
	if err != nil {
		return Piece{}, fmt.Errorf("length: %w", err)
	}
	if length == 0 {
		return Piece{}, fmt.Errorf("length must be positive")
	}

	quantity := uint(1)
	if mapping.quantity >= 0 && mapping.quantity < len(row) && strings.TrimSpace(row[mapping.quantity]) != "" {
		quantity, err = parseUint(row[mapping.quantity])
		if err != nil {
			return Piece{}, fmt.Errorf("quantity: %w", err)
		}
		if quantity == 0 {
			return Piece{}, fmt.Errorf("quantity must be positive")
		}
		if quantity > MaxPieces {
			return Piece{}, fmt.Errorf("quantity %d exceeds %d", quantity, MaxPieces)
		}
	}

	return Piece{Length: length, Quantity: quantity}, nil
}

func parseUint(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	value, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		// spreadsheets often store whole numbers as "2110.0"
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f < 0 || f != float64(uint(f)) {
			return 0, fmt.Errorf("invalid whole number %q", raw)
		}
		return uint(f), nil
	}
	return uint(value), nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
