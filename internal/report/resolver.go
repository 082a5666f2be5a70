package report

import (
	"context"
	"strings"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

// Suggester proposes canonical fields for columns no other strategy could
// resolve. Implementations may call out to an external service; the resolver
// works identically when it is nil or failing.
type Suggester interface {
	Suggest(ctx context.Context, columns []string) (map[string]model.CanonicalField, error)
}

// primaryNames are the canonical field primary names used for exact matching.
// They double as the template file column headers.
var primaryNames = map[model.CanonicalField]string{
	model.FieldNetSales:        "net sales",
	model.FieldGrossSales:      "gross sales",
	model.FieldReturns:         "returns",
	model.FieldProductCategory: "product category",
	model.FieldReportedRoyalty: "royalty due",
	model.FieldTerritory:       "territory",
}

// alwaysIgnore marks known noise columns ahead of synonym matching, so a
// short keyword inside e.g. "Royalty Rate" is never captured by a field's
// synonym list.
var alwaysIgnore = []string{
	"sku",
	"item code",
	"item number",
	"item no",
	"item #",
	"style",
	"upc",
	"description",
	"notes",
	"comment",
	"rate",
	"%",
}

// fieldSynonyms are substring-matched per field, in field order. Entries must
// be qualified phrases: a bare token that is also a substring of a column
// meaning something else (like "royalty" inside "Royalty Rate") is forbidden.
// A leading space on an entry guards short tokens against matching inside
// unrelated words.
var fieldSynonyms = []struct {
	field    model.CanonicalField
	synonyms []string
}{
	{model.FieldNetSales, []string{
		"net sales", "net sls", "net amount", "net revenue", "net rev", "total net", " ns ",
	}},
	{model.FieldGrossSales, []string{
		"gross sales", "gross amount", "gross revenue", "gross rev", "total gross", "invoiced sales",
	}},
	{model.FieldReturns, []string{
		"returns", "returned", "refunds", "allowances", "credits issued", "chargebacks",
	}},
	{model.FieldProductCategory, []string{
		"category", "product line", "product type", "product group", "classification", "division",
	}},
	{model.FieldReportedRoyalty, []string{
		"royalty due", "royalties due", "royalty owed", "royalty amount", "royalty payable",
		"amount owed", "amount due",
	}},
	{model.FieldTerritory, []string{
		"territory", "region", "country", "market",
	}},
}

// Resolver maps detected column names to canonical fields via an ordered
// strategy chain: saved mapping, exact name, always-ignore, synonym
// substring, AI suggestion, ignore. First match wins; output is
// deterministic for the same inputs.
type Resolver struct {
	Saved     model.FieldMapping
	Suggester Suggester
}

// Resolve resolves every column, in input order.
func (r *Resolver) Resolve(ctx context.Context, columnNames []string) []model.ResolvedColumn {
	out := make([]model.ResolvedColumn, len(columnNames))
	var unresolved []int

	for i, col := range columnNames {
		out[i] = model.ResolvedColumn{ColumnName: col, Field: model.FieldIgnore, Source: model.SourceUnresolved}

		if field, ok := r.Saved[col]; ok && field.IsValid() {
			out[i].Field = field
			out[i].Source = model.SourceSaved
			continue
		}
		if field, ok := exactMatch(col); ok {
			out[i].Field = field
			out[i].Source = model.SourceExact
			continue
		}
		if matchesIgnoreList(col) {
			out[i].Field = model.FieldIgnore
			out[i].Source = model.SourceSubstring
			continue
		}
		if field, ok := synonymMatch(col); ok {
			out[i].Field = field
			out[i].Source = model.SourceSubstring
			continue
		}
		unresolved = append(unresolved, i)
	}

	if r.Suggester != nil && len(unresolved) > 0 {
		names := make([]string, len(unresolved))
		for k, i := range unresolved {
			names[k] = columnNames[i]
		}
		suggestions, err := r.Suggester.Suggest(ctx, names)
		if err == nil {
			for _, i := range unresolved {
				if field, ok := suggestions[columnNames[i]]; ok && field.IsValid() && field != model.FieldIgnore {
					out[i].Field = field
					out[i].Source = model.SourceAI
				}
			}
		}
	}

	return out
}

// Mapping collapses resolved columns into a FieldMapping.
func Mapping(resolved []model.ResolvedColumn) model.FieldMapping {
	m := make(model.FieldMapping, len(resolved))
	for _, rc := range resolved {
		m[rc.ColumnName] = rc.Field
	}
	return m
}

func normalizeColumn(col string) string {
	col = strings.ToLower(strings.TrimSpace(col))
	col = strings.ReplaceAll(col, "_", " ")
	col = strings.Join(strings.Fields(col), " ")
	return col
}

func exactMatch(col string) (model.CanonicalField, bool) {
	norm := normalizeColumn(col)
	for _, field := range model.CanonicalFields {
		if norm == primaryNames[field] {
			return field, true
		}
	}
	return "", false
}

func matchesIgnoreList(col string) bool {
	norm := normalizeColumn(col)
	for _, noise := range alwaysIgnore {
		if strings.Contains(norm, noise) {
			return true
		}
	}
	return false
}

func synonymMatch(col string) (model.CanonicalField, bool) {
	// Padding with spaces lets leading/trailing-space synonyms guard short
	// tokens at word boundaries.
	padded := " " + normalizeColumn(col) + " "
	for _, fs := range fieldSynonyms {
		for _, syn := range fs.synonyms {
			if strings.HasPrefix(syn, " ") {
				if strings.Contains(padded, syn) {
					return fs.field, true
				}
				continue
			}
			if strings.Contains(padded, syn) {
				return fs.field, true
			}
		}
	}
	return "", false
}
