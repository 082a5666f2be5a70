package model

import "time"

// RawGrid is the rectangular cell grid decoded from an uploaded report.
// Empty string means an empty cell. Built once per upload, read-only after.
type RawGrid struct {
	Rows      [][]string `json:"rows"`
	SheetName string     `json:"sheetName"`
}

// RowRange is an inclusive row index range into a RawGrid.
type RowRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FooterEntry is a label/value pair found below the data region,
// e.g. "Total Royalty Due" -> "6,664.00".
type FooterEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DetectedTable describes where the real data table sits inside a RawGrid.
type DetectedTable struct {
	HeaderRowIndex int           `json:"headerRowIndex"`
	DataRows       RowRange      `json:"dataRows"`
	FooterStart    int           `json:"footerStart"` // -1 when no footer
	ColumnNames    []string      `json:"columnNames"`
	Footer         []FooterEntry `json:"footer,omitempty"`
	Metadata       ReportMeta    `json:"metadata"`
	// SkipRows are row indices inside DataRows that hold label/value
	// metadata rather than sales data.
	SkipRows []int `json:"skipRows,omitempty"`
}

// HasFooter reports whether a footer/summary boundary was found.
func (t *DetectedTable) HasFooter() bool {
	return t.FooterStart >= 0
}

// ReportMeta holds label/value metadata picked up outside the data table.
type ReportMeta struct {
	LicenseeName string     `json:"licenseeName,omitempty"`
	PeriodStart  *time.Time `json:"periodStart,omitempty"`
	PeriodEnd    *time.Time `json:"periodEnd,omitempty"`
	Territory    string     `json:"territory,omitempty"`
}
