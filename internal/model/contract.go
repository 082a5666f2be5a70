package model

// RateKind discriminates the royalty rate structure variants.
type RateKind string

const (
	RateFlat     RateKind = "flat"
	RateTiered   RateKind = "tiered"
	RateCategory RateKind = "category"
)

// Tier is one bracket of a tiered rate. UpperBound < 0 means unbounded.
type Tier struct {
	UpperBound float64 `json:"upperBound"`
	Rate       float64 `json:"rate"`
}

// RoyaltyRate is the contract's rate structure, a closed tagged union.
// Exactly the fields for Kind are populated; the calculator matches
// exhaustively on Kind.
type RoyaltyRate struct {
	Kind          RateKind           `json:"kind"`
	Flat          float64            `json:"flat,omitempty"`
	Tiers         []Tier             `json:"tiers,omitempty"`
	CategoryRates map[string]float64 `json:"categoryRates,omitempty"`
}

// ReportingFrequency is how often a licensee must submit sales reports.
type ReportingFrequency string

const (
	FrequencyMonthly    ReportingFrequency = "monthly"
	FrequencyQuarterly  ReportingFrequency = "quarterly"
	FrequencySemiAnnual ReportingFrequency = "semi_annual"
	FrequencyAnnual     ReportingFrequency = "annual"
)

// PeriodsPerYear returns how many reporting periods make up a contract year.
func (f ReportingFrequency) PeriodsPerYear() int {
	switch f {
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	case FrequencySemiAnnual:
		return 2
	case FrequencyAnnual:
		return 1
	}
	return 0
}

// GuaranteePeriod is the span a minimum guarantee applies to.
// Tracking only supports annual guarantees.
type GuaranteePeriod string

const (
	GuaranteeAnnual GuaranteePeriod = "annual"
	GuaranteeTerm   GuaranteePeriod = "term"
)

// Contract holds the licensing terms the engine reads. Owned by the
// surrounding application; read-only here.
type Contract struct {
	ID                 string             `json:"id"`
	LicenseeID         string             `json:"licenseeId"`
	LicenseeName       string             `json:"licenseeName"`
	Rate               RoyaltyRate        `json:"rate"`
	AnnualMinimum      float64            `json:"annualMinimum"`
	GuaranteePeriod    GuaranteePeriod    `json:"guaranteePeriod"`
	ReportingFrequency ReportingFrequency `json:"reportingFrequency"`
}
