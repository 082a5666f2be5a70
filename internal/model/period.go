package model

import "time"

// AggregatedPeriod is the normalized result of applying a confirmed mapping
// to every data row of a report.
type AggregatedPeriod struct {
	NetSales              float64            `json:"netSales"`
	CategoryBreakdown     map[string]float64 `json:"categoryBreakdown,omitempty"`
	ReportedRoyalty       *float64           `json:"reportedRoyalty,omitempty"`
	FooterReportedRoyalty *float64           `json:"footerReportedRoyalty,omitempty"`
	PeriodStart           *time.Time         `json:"periodStart,omitempty"`
	PeriodEnd             *time.Time         `json:"periodEnd,omitempty"`
	RowCount              int                `json:"rowCount"`
}

// RoyaltyResult is the computed royalty for one period. Basis is retained
// for audit, never recomputed from it.
type RoyaltyResult struct {
	Amount          float64            `json:"amount"`
	Basis           AggregatedPeriod   `json:"basis"`
	CategoryResults map[string]float64 `json:"categoryResults,omitempty"`
}

// SalesPeriod is a durable, confirmed sales-period record. Immutable after
// confirmation.
type SalesPeriod struct {
	ID            string           `json:"id"`
	ContractID    string           `json:"contractId"`
	PeriodLabel   string           `json:"periodLabel"` // e.g. "2026-Q1"
	PeriodEnd     time.Time        `json:"periodEnd"`
	Aggregated    AggregatedPeriod `json:"aggregated"`
	RoyaltyAmount float64          `json:"royaltyAmount"`
	ConfirmedAt   time.Time        `json:"confirmedAt"`
}
