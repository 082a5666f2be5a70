package model

// CanonicalField is one of the closed set of financial fields a report
// column can resolve to.
type CanonicalField string

const (
	FieldNetSales        CanonicalField = "net_sales"
	FieldGrossSales      CanonicalField = "gross_sales"
	FieldReturns         CanonicalField = "returns"
	FieldProductCategory CanonicalField = "product_category"
	FieldReportedRoyalty CanonicalField = "licensee_reported_royalty"
	FieldTerritory       CanonicalField = "territory"
	FieldIgnore          CanonicalField = "ignore"
)

// CanonicalFields lists every mappable field in template order.
// These names double as the template file column headers.
var CanonicalFields = []CanonicalField{
	FieldNetSales,
	FieldGrossSales,
	FieldReturns,
	FieldProductCategory,
	FieldReportedRoyalty,
	FieldTerritory,
}

// IsValid reports whether f is a member of the closed field set.
func (f CanonicalField) IsValid() bool {
	switch f {
	case FieldNetSales, FieldGrossSales, FieldReturns, FieldProductCategory,
		FieldReportedRoyalty, FieldTerritory, FieldIgnore:
		return true
	}
	return false
}

// MappingSource records which resolver strategy produced a column's mapping.
// UI transparency only, never used in calculation.
type MappingSource string

const (
	SourceSaved      MappingSource = "saved"
	SourceExact      MappingSource = "exact"
	SourceSubstring  MappingSource = "substring"
	SourceAI         MappingSource = "ai"
	SourceUnresolved MappingSource = "unresolved"
)

// FieldMapping maps raw column names (case preserved) to canonical fields.
// Absent keys mean ignore.
type FieldMapping map[string]CanonicalField

// FieldColumn returns the raw column name mapped to the given field,
// or "" when the field is unmapped.
func (m FieldMapping) FieldColumn(field CanonicalField) string {
	for col, f := range m {
		if f == field {
			return col
		}
	}
	return ""
}

// Has reports whether any column maps to the given field.
func (m FieldMapping) Has(field CanonicalField) bool {
	return m.FieldColumn(field) != ""
}

// ResolvedColumn is one column of a suggested mapping, with provenance.
type ResolvedColumn struct {
	ColumnName string         `json:"columnName"`
	Field      CanonicalField `json:"field"`
	Source     MappingSource  `json:"source"`
}
