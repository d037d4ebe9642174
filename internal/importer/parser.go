// Package importer turns line-item CSV exports into invoice draft rows.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/backoffice/internal/encoding"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
)

const (
	// MaxUploadSize caps the bytes read from one upload.
	MaxUploadSize = 2 << 20
	// MaxRows caps the data rows accepted from one upload.
	MaxRows = 1000
)

var (
	ErrUnknownFormat = errors.New("no matching line-item format found")
	ErrTooManyRows   = fmt.Errorf("upload exceeds %d rows", MaxRows)
	ErrTooLarge      = fmt.Errorf("upload exceeds %d bytes", MaxUploadSize)
)

// delimiters are tried in order. A semicolon-separated file is assumed to use
// decimal commas.
var delimiters = []rune{',', ';', '\t'}

// Parser reads line-item exports. It auto-detects the delimiter and which
// known layout is being used by matching column headers against profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*Result, error) {
	utf8r, charset, err := enc.ToUTF8(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	for _, delim := range delimiters {
		rows, err := readRows(data, delim)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		lines, err := parseRows(profile, cols, rows[headerIdx+1:], delim == ';')
		if err != nil {
			return nil, err
		}

		return &Result{Profile: profile.Name, Charset: charset, Lines: lines}, nil
	}

	return nil, ErrUnknownFormat
}

func readRows(data []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if _, seen := cols[name]; name != "" && !seen {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows maps data rows onto draft rows. Blank rows are dropped; anything
// else is kept so the aggregator can report what it skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, decimalComma bool) ([]invoice.LineInput, error) {
	var lines []invoice.LineInput

	for _, row := range rows {
		if isBlank(row) {
			continue
		}

		if len(lines) == MaxRows {
			return nil, ErrTooManyRows
		}

		line := invoice.LineInput{
			ItemName:  cellValue(row, cols, p.NameCol),
			Category:  cellValue(row, cols, p.CategoryCol),
			Quantity:  normalizeNumber(cellValue(row, cols, p.QtyCol), decimalComma),
			UnitPrice: normalizeNumber(cellValue(row, cols, p.PriceCol), decimalComma),
		}

		switch p.RateMode {
		case ratesSplit:
			line.CGSTRate = normalizeNumber(cellValue(row, cols, p.CGSTCol), decimalComma)
			line.SGSTRate = normalizeNumber(cellValue(row, cols, p.SGSTCol), decimalComma)
		case ratesCombined:
			if gst := normalizeNumber(cellValue(row, cols, p.GSTCol), decimalComma); gst != "" {
				line.CGSTRate, line.SGSTRate = splitRate(gst)
			}
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// cellValue safely gets a trimmed cell by column name. Unknown or optional
// columns yield "".
func cellValue(row []string, cols colIndex, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
