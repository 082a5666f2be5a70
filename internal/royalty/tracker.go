package royalty

import (
	"time"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

// PeriodRoyalty is one confirmed period's royalty within a contract year.
type PeriodRoyalty struct {
	Amount    float64
	PeriodEnd time.Time
}

// Track derives the minimum-guarantee pace view for one contract year from
// the period history. It is a pure recomputation: nothing here is stored.
//
// Not applicable when no period has elapsed, the minimum is zero or absent,
// or the guarantee is not annual. At year completion the status reflects the
// actual year-to-date total, not the projection.
func Track(contract *model.Contract, periods []PeriodRoyalty, now time.Time) model.MGTracking {
	totalPeriods := contract.ReportingFrequency.PeriodsPerYear()

	tracking := model.MGTracking{
		AnnualMinimum:      contract.AnnualMinimum,
		TotalPeriodsInYear: totalPeriods,
	}

	elapsed := 0
	ytd := 0.0
	for _, p := range periods {
		if p.PeriodEnd.After(now) {
			continue
		}
		elapsed++
		ytd += p.Amount
	}
	tracking.PeriodsElapsed = elapsed
	tracking.YTDRoyalty = round2(ytd)

	if elapsed == 0 || contract.AnnualMinimum <= 0 ||
		contract.GuaranteePeriod != model.GuaranteeAnnual || totalPeriods == 0 {
		return tracking
	}

	tracking.Applicable = true
	tracking.ProRatedMinimum = round2(contract.AnnualMinimum * float64(elapsed) / float64(totalPeriods))
	tracking.ProjectedAnnual = round2(ytd / float64(elapsed) * float64(totalPeriods))
	tracking.IsYearComplete = elapsed >= totalPeriods

	// Exactly two statuses. An "at risk" middle state is unreachable under
	// linear-pace projection: projected >= minimum and pace-behind cannot
	// hold at once.
	if tracking.IsYearComplete {
		if tracking.YTDRoyalty >= contract.AnnualMinimum {
			tracking.Status = model.StatusOnTrack
		} else {
			tracking.Status = model.StatusShortfall
		}
		return tracking
	}

	if tracking.ProjectedAnnual >= contract.AnnualMinimum {
		tracking.Status = model.StatusOnTrack
	} else {
		tracking.Status = model.StatusShortfall
	}
	return tracking
}
