package report

import (
	"strings"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

const (
	// headerScanLimit bounds the header search; licensee reports bury the
	// table under at most a handful of title/metadata rows in practice.
	headerScanLimit = 20
	// minHeaderCells is the minimum count of textual cells for a header
	// candidate row.
	minHeaderCells = 3
	// maxSubTitleAdvance bounds the sub-title guard.
	maxSubTitleAdvance = 3
	// maxFooterLabelLen separates short footer labels from free text.
	maxFooterLabelLen = 40
)

var totalKeywords = []string{"grand total", "subtotal", "total", "sum"}

var metadataLabels = []string{
	"licensee name",
	"contract number",
	"reporting period start",
	"reporting period end",
	"period start",
	"period end",
	"territory",
	"prepared by",
	"agreement ref",
}

// DetectTable locates the header row, data range and footer boundary inside
// a raw grid. The grid itself is never modified.
func DetectTable(grid *model.RawGrid) (*model.DetectedTable, error) {
	rows := grid.Rows
	if len(rows) == 0 {
		return nil, model.ErrNoDataRows
	}

	headerIdx := findHeaderRow(rows)
	headerIdx = advancePastSubTitles(rows, headerIdx)

	table := &model.DetectedTable{
		HeaderRowIndex: headerIdx,
		FooterStart:    -1,
		ColumnNames:    forwardFillHeader(rows, headerIdx),
	}

	// Rows above the header are metadata by definition.
	for i := 0; i < headerIdx; i++ {
		harvestMetadata(rows[i], &table.Metadata)
	}

	dataStart, dataEnd := -1, -1
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if IsEmptyRow(row) {
			continue
		}
		first, _ := firstNonEmpty(row)
		if table.FooterStart < 0 && matchesTotalKeyword(first) {
			table.FooterStart = i
		}
		if table.FooterStart >= 0 {
			if label, value, ok := footerPair(row); ok {
				table.Footer = append(table.Footer, model.FooterEntry{Label: label, Value: value})
			}
			continue
		}
		if isMetadataRow(row) {
			harvestMetadata(row, &table.Metadata)
			table.SkipRows = append(table.SkipRows, i)
			continue
		}
		if dataStart < 0 {
			dataStart = i
		}
		dataEnd = i
	}

	if dataStart < 0 {
		return nil, model.ErrNoDataRows
	}
	table.DataRows = model.RowRange{Start: dataStart, End: dataEnd}
	return table, nil
}

// findHeaderRow scans the first headerScanLimit rows for a row of textual
// cells whose following row is predominantly numeric in the same columns.
// Row 0 is the default when nothing qualifies.
func findHeaderRow(rows [][]string) int {
	limit := headerScanLimit
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		if i+1 >= len(rows) {
			break
		}
		cols := textCellColumns(rows[i])
		if len(cols) < minHeaderCells {
			continue
		}
		if predominantlyNumeric(rows[i+1], cols) {
			return i
		}
	}
	return 0
}

// advancePastSubTitles moves the header down while the first row below it is
// entirely string-valued, which means a sub-title row was picked instead of
// the real header.
func advancePastSubTitles(rows [][]string, headerIdx int) int {
	for attempt := 0; attempt < maxSubTitleAdvance; attempt++ {
		next := firstNonEmptyRowAfter(rows, headerIdx)
		if next < 0 || !entirelyStringValued(rows[next]) {
			return headerIdx
		}
		if next >= len(rows)-1 {
			return headerIdx
		}
		headerIdx = next
	}
	return headerIdx
}

func firstNonEmptyRowAfter(rows [][]string, idx int) int {
	for i := idx + 1; i < len(rows); i++ {
		if !IsEmptyRow(rows[i]) {
			return i
		}
	}
	return -1
}

// textCellColumns returns the column indices holding non-empty, non-numeric,
// non-date strings.
func textCellColumns(row []string) []int {
	var cols []int
	for i, c := range row {
		v := strings.TrimSpace(c)
		if v == "" || IsNumericCell(v) || IsDateCell(v) {
			continue
		}
		cols = append(cols, i)
	}
	return cols
}

// predominantlyNumeric reports whether, restricted to the given columns, the
// row's non-empty cells are mostly numeric.
func predominantlyNumeric(row []string, cols []int) bool {
	numeric, nonEmpty := 0, 0
	for _, col := range cols {
		v := cellAt(row, col)
		if v == "" {
			continue
		}
		nonEmpty++
		if IsNumericCell(v) {
			numeric++
		}
	}
	return nonEmpty > 0 && numeric*2 > nonEmpty
}

func entirelyStringValued(row []string) bool {
	nonEmpty := 0
	for _, c := range row {
		v := strings.TrimSpace(c)
		if v == "" {
			continue
		}
		nonEmpty++
		if IsNumericCell(v) || IsDateCell(v) {
			return false
		}
	}
	return nonEmpty > 0
}

// forwardFillHeader returns the header row with merged-region blanks filled
// from the nearest non-empty cell above in the same column.
func forwardFillHeader(rows [][]string, headerIdx int) []string {
	header := rows[headerIdx]
	out := make([]string, len(header))
	for j := range header {
		v := strings.TrimSpace(header[j])
		if v == "" {
			for i := headerIdx - 1; i >= 0; i-- {
				if above := cellAt(rows[i], j); above != "" {
					v = above
					break
				}
			}
		}
		out[j] = v
	}
	return out
}

// ForwardFillColumn returns the values of one column across a row range with
// merged-region blanks inheriting the nearest non-empty value above.
// Idempotent: filling an already filled column is a no-op.
func ForwardFillColumn(rows [][]string, col int, rng model.RowRange) []string {
	out := make([]string, 0, rng.End-rng.Start+1)
	last := ""
	for i := rng.Start; i <= rng.End && i < len(rows); i++ {
		v := cellAt(rows[i], col)
		if v == "" {
			v = last
		} else {
			last = v
		}
		out = append(out, v)
	}
	return out
}

func matchesTotalKeyword(cell string) bool {
	s := strings.ToLower(strings.TrimSpace(cell))
	s = strings.TrimSuffix(s, ":")
	for _, kw := range totalKeywords {
		if s == kw || strings.HasPrefix(s, kw+" ") {
			return true
		}
	}
	return false
}

// footerPair extracts a label/value pair from a footer candidate row:
// exactly two non-empty cells, the first a short label.
func footerPair(row []string) (label, value string, ok bool) {
	var cells []string
	for _, c := range row {
		if v := strings.TrimSpace(c); v != "" {
			cells = append(cells, v)
		}
	}
	if len(cells) != 2 {
		return "", "", false
	}
	if len(cells[0]) > maxFooterLabelLen {
		return "", "", false
	}
	return cells[0], cells[1], true
}

// isMetadataRow reports whether a row is a label/value metadata row: at most
// two non-empty cells with a recognized first-cell label.
func isMetadataRow(row []string) bool {
	if CountNonEmpty(row) > 2 {
		return false
	}
	first, _ := firstNonEmpty(row)
	if first == "" {
		return false
	}
	lower := strings.ToLower(first)
	for _, label := range metadataLabels {
		if strings.Contains(lower, label) {
			return true
		}
	}
	return false
}

// harvestMetadata pulls known label/value pairs into the report metadata.
// The value is the second non-empty cell, or the text after a colon when the
// label and value share a cell.
func harvestMetadata(row []string, meta *model.ReportMeta) {
	first, idx := firstNonEmpty(row)
	if first == "" {
		return
	}
	label := strings.ToLower(first)
	value := ""
	for j := idx + 1; j < len(row); j++ {
		if v := cellAt(row, j); v != "" {
			value = v
			break
		}
	}
	if value == "" {
		if i := strings.Index(first, ":"); i >= 0 {
			label = strings.ToLower(strings.TrimSpace(first[:i]))
			value = strings.TrimSpace(first[i+1:])
		}
	}
	if value == "" {
		return
	}

	switch {
	case strings.Contains(label, "period start"):
		if t, ok := ParseDate(value); ok {
			meta.PeriodStart = &t
		}
	case strings.Contains(label, "period end"):
		if t, ok := ParseDate(value); ok {
			meta.PeriodEnd = &t
		}
	case strings.Contains(label, "licensee name"):
		meta.LicenseeName = value
	case strings.Contains(label, "territory"):
		meta.Territory = value
	}
}
