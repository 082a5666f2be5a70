package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

// DefaultMaxFileBytes is the upload size ceiling when config does not set one.
const DefaultMaxFileBytes = 10 * 1024 * 1024

// minUsableRows is the threshold below which a workbook sheet is considered
// empty and the next sheet is tried.
const minUsableRows = 3

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	// biffMagic is the compound-file signature of pre-2007 binary .xls.
	biffMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// ReadGrid decodes raw report bytes into a RawGrid. The format is taken from
// the filename extension; size is checked before any decode work.
func ReadGrid(filename string, data []byte, maxBytes int64) (*model.RawGrid, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", model.ErrFileTooLarge, len(data), maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm", ".xls":
		// The container decides, not the extension: legacy BIFF files are
		// routinely renamed .xls <-> .xlsx by licensees' export tools.
		if bytes.HasPrefix(data, biffMagic) {
			return readLegacyWorkbook(data)
		}
		return readWorkbook(data)
	case ".csv", ".txt":
		return readDelimited(data, guessDelimiter(data))
	case ".tsv":
		return readDelimited(data, '\t')
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, ext)
	}
}

// readWorkbook opens a binary spreadsheet and extracts the active sheet,
// falling back to the next sheet when the active one has fewer than
// minUsableRows non-empty rows.
func readWorkbook(data []byte) (*model.RawGrid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCorruptFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", model.ErrCorruptFile)
	}

	active := f.GetSheetName(f.GetActiveSheetIndex())
	ordered := make([]string, 0, len(sheets))
	if active != "" {
		ordered = append(ordered, active)
	}
	for _, name := range sheets {
		if name != active {
			ordered = append(ordered, name)
		}
	}

	var lastErr error
	for _, name := range ordered {
		rows, err := f.GetRows(name)
		if err != nil {
			lastErr = err
			continue
		}
		nonEmpty := 0
		for _, row := range rows {
			if !IsEmptyRow(row) {
				nonEmpty++
			}
		}
		if nonEmpty < minUsableRows {
			continue
		}
		return &model.RawGrid{Rows: rows, SheetName: name}, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCorruptFile, lastErr)
	}
	return nil, model.ErrNoDataRows
}

// readLegacyWorkbook opens a BIFF compound file and extracts the first sheet
// with enough non-empty rows, mirroring readWorkbook's sheet fallback.
func readLegacyWorkbook(data []byte) (*model.RawGrid, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCorruptFile, err)
	}

	for _, sheet := range wb.GetSheets() {
		var rows [][]string
		for _, row := range sheet.GetRows() {
			cells := row.GetCols()
			line := make([]string, len(cells))
			for j, c := range cells {
				line[j] = c.GetString()
			}
			rows = append(rows, line)
		}
		nonEmpty := 0
		for _, row := range rows {
			if !IsEmptyRow(row) {
				nonEmpty++
			}
		}
		if nonEmpty < minUsableRows {
			continue
		}
		return &model.RawGrid{Rows: rows, SheetName: sheet.GetName()}, nil
	}
	return nil, model.ErrNoDataRows
}

// readDelimited decodes text bytes trying UTF-8, UTF-8 with BOM,
// Windows-1252 and Latin-1 in that order, then parses rows.
func readDelimited(data []byte, delimiter rune) (*model.RawGrid, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrCorruptFile, err)
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, model.ErrNoDataRows
	}
	return &model.RawGrid{Rows: rows}, nil
}

// decodeText applies the fixed encoding priority order and accepts the first
// strategy that decodes cleanly.
func decodeText(data []byte) (string, error) {
	// The BOM is dropped before any strategy runs, so a BOM-carrying file
	// in a legacy encoding never leaks the marker into the first cell.
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		s := string(decoded)
		if !strings.ContainsRune(s, utf8.RuneError) {
			return s, nil
		}
	}
	if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
		return string(decoded), nil
	}
	return "", fmt.Errorf("%w: no text encoding succeeded", model.ErrCorruptFile)
}

// guessDelimiter picks the delimiter with the most occurrences in the first
// line. Comma wins ties.
func guessDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []byte{';', '\t', '|'} {
		if n := bytes.Count(line, []byte{d}); n > bestCount {
			best, bestCount = rune(d), n
		}
	}
	return best
}
