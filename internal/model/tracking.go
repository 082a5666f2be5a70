package model

// MGStatus is the minimum-guarantee pace status. Exactly two values exist:
// a linear-pace projection admits no reachable intermediate state.
type MGStatus string

const (
	StatusOnTrack   MGStatus = "on_track"
	StatusShortfall MGStatus = "shortfall"
)

// MGTracking is a derived view of guarantee pace for one contract year.
// Recomputed on demand from the period history; never stored.
type MGTracking struct {
	Applicable         bool     `json:"applicable"`
	AnnualMinimum      float64  `json:"annualMinimum"`
	PeriodsElapsed     int      `json:"periodsElapsed"`
	TotalPeriodsInYear int      `json:"totalPeriodsInYear"`
	YTDRoyalty         float64  `json:"ytdRoyalty"`
	ProRatedMinimum    float64  `json:"proRatedMinimum"`
	ProjectedAnnual    float64  `json:"projectedAnnual"`
	Status             MGStatus `json:"status,omitempty"`
	IsYearComplete     bool     `json:"isYearComplete"`
}
