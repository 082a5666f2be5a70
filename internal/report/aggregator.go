package report

import (
	"fmt"
	"strings"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

// UncategorizedKey buckets counted rows whose category cell is still empty
// after forward fill. Keeping them in the breakdown preserves
// sum(breakdown) == net sales; under a category-rate contract the bucket
// then fails rate lookup instead of escaping royalty silently.
const UncategorizedKey = "Uncategorized"

// Aggregate applies a confirmed mapping to every data row of a detected
// table and produces the period totals. knownCategories is the contract's
// category-rate table key set; nil disables category validation.
func Aggregate(grid *model.RawGrid, table *model.DetectedTable, mapping model.FieldMapping, knownCategories []string) (*model.AggregatedPeriod, error) {
	cols := columnIndexes(table.ColumnNames, mapping)

	netIdx, hasNet := cols[model.FieldNetSales]
	grossIdx, hasGross := cols[model.FieldGrossSales]
	returnsIdx, hasReturns := cols[model.FieldReturns]
	if !hasNet && !(hasGross && hasReturns) {
		return nil, model.ErrNetSalesColumnRequired
	}

	categoryIdx, hasCategory := cols[model.FieldProductCategory]
	royaltyIdx, hasRoyalty := cols[model.FieldReportedRoyalty]

	skip := make(map[int]bool, len(table.SkipRows))
	for _, i := range table.SkipRows {
		skip[i] = true
	}

	var categories []string
	if hasCategory {
		categories = ForwardFillColumn(grid.Rows, categoryIdx, table.DataRows)
	}

	agg := &model.AggregatedPeriod{
		PeriodStart: table.Metadata.PeriodStart,
		PeriodEnd:   table.Metadata.PeriodEnd,
	}
	if hasCategory {
		agg.CategoryBreakdown = make(map[string]float64)
	}

	netTotal := 0.0
	royaltyTotal := 0.0
	royaltySeen := false

	for i := table.DataRows.Start; i <= table.DataRows.End && i < len(grid.Rows); i++ {
		if skip[i] {
			continue
		}
		row := grid.Rows[i]
		if IsEmptyRow(row) {
			continue
		}

		rowNet, ok := rowNetSales(row, netIdx, hasNet, grossIdx, returnsIdx)
		if !ok {
			continue
		}
		netTotal += rowNet
		agg.RowCount++

		if hasCategory {
			cat := strings.TrimSpace(categories[i-table.DataRows.Start])
			if cat == "" {
				cat = UncategorizedKey
			}
			agg.CategoryBreakdown[cat] += rowNet
		}
		if hasRoyalty {
			if v, ok := ParseAmount(cellAt(row, royaltyIdx)); ok {
				royaltyTotal += v
				royaltySeen = true
			}
		}
	}

	if agg.RowCount == 0 {
		return nil, model.ErrNoDataRows
	}

	agg.NetSales = round2(netTotal)
	for cat, v := range agg.CategoryBreakdown {
		agg.CategoryBreakdown[cat] = round2(v)
	}

	// Negative aggregate means a mapping mistake, never clamped silently.
	// Zero is a legitimate no-sales period.
	if agg.NetSales < 0 {
		return nil, fmt.Errorf("%w: %.2f", model.ErrNegativeNetSales, agg.NetSales)
	}

	if royaltySeen {
		r := round2(royaltyTotal)
		agg.ReportedRoyalty = &r
	}
	// The footer total is retained as an independent cross-check; the
	// column-based sum above always takes precedence when both exist.
	if v, ok := footerRoyalty(table.Footer); ok {
		agg.FooterReportedRoyalty = &v
	}

	if knownCategories != nil {
		for cat := range agg.CategoryBreakdown {
			if _, ok := matchCategory(cat, knownCategories); !ok {
				return nil, fmt.Errorf("%w: %q", model.ErrUnknownCategory, cat)
			}
		}
	}

	return agg, nil
}

func columnIndexes(columnNames []string, mapping model.FieldMapping) map[model.CanonicalField]int {
	out := make(map[model.CanonicalField]int)
	for i, name := range columnNames {
		field, ok := mapping[name]
		if !ok || field == model.FieldIgnore {
			continue
		}
		if _, taken := out[field]; taken {
			continue
		}
		out[field] = i
	}
	return out
}

// rowNetSales reads a row's net sales, directly or as gross minus returns.
func rowNetSales(row []string, netIdx int, hasNet bool, grossIdx, returnsIdx int) (float64, bool) {
	if hasNet {
		return ParseAmount(cellAt(row, netIdx))
	}
	gross, okGross := ParseAmount(cellAt(row, grossIdx))
	ret, okRet := ParseAmount(cellAt(row, returnsIdx))
	if !okGross && !okRet {
		return 0, false
	}
	return gross - ret, true
}

// footerRoyalty recovers a self-reported royalty total from the footer
// label/value pairs.
func footerRoyalty(footer []model.FooterEntry) (float64, bool) {
	for _, entry := range footer {
		if !strings.Contains(strings.ToLower(entry.Label), "royalt") {
			continue
		}
		if v, ok := ParseAmount(entry.Value); ok {
			return v, true
		}
	}
	return 0, false
}

// MatchCategory resolves a reported category against the contract's known
// categories: exact (case-insensitive) first, then substring either way.
func MatchCategory(reported string, known []string) (string, bool) {
	return matchCategory(reported, known)
}

func matchCategory(reported string, known []string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(reported))
	for _, k := range known {
		if lower == strings.ToLower(strings.TrimSpace(k)) {
			return k, true
		}
	}
	for _, k := range known {
		kl := strings.ToLower(strings.TrimSpace(k))
		if strings.Contains(lower, kl) || strings.Contains(kl, lower) {
			return k, true
		}
	}
	return "", false
}
