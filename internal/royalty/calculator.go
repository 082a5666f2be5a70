package royalty

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

// Calculate computes the royalty owed for one aggregated period under the
// contract's rate structure. Pure: it never touches storage and never
// applies a minimum-guarantee floor, which is strictly a cross-period
// forecasting concern.
func Calculate(period *model.AggregatedPeriod, rate model.RoyaltyRate) (*model.RoyaltyResult, error) {
	switch rate.Kind {
	case model.RateFlat:
		return &model.RoyaltyResult{
			Amount: round2(period.NetSales * rate.Flat),
			Basis:  *period,
		}, nil
	case model.RateTiered:
		return calculateTiered(period, rate.Tiers)
	case model.RateCategory:
		return calculateCategory(period, rate.CategoryRates)
	default:
		return nil, fmt.Errorf("unknown rate kind %q", rate.Kind)
	}
}

// calculateTiered applies marginal rates across ascending brackets: each
// bracket taxes only the slice of net sales that falls inside it.
func calculateTiered(period *model.AggregatedPeriod, tiers []model.Tier) (*model.RoyaltyResult, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("tiered rate has no tiers")
	}

	remaining := period.NetSales
	lower := 0.0
	amount := 0.0
	for _, tier := range tiers {
		if remaining <= 0 {
			break
		}
		width := remaining
		if tier.UpperBound >= 0 {
			width = math.Min(remaining, tier.UpperBound-lower)
			lower = tier.UpperBound
		}
		if width <= 0 {
			continue
		}
		amount += width * tier.Rate
		remaining -= width
	}
	// Sales above the last bounded tier fall into its rate.
	if remaining > 0 {
		amount += remaining * tiers[len(tiers)-1].Rate
	}

	return &model.RoyaltyResult{
		Amount: round2(amount),
		Basis:  *period,
	}, nil
}

func calculateCategory(period *model.AggregatedPeriod, rates map[string]float64) (*model.RoyaltyResult, error) {
	if len(period.CategoryBreakdown) == 0 {
		return nil, model.ErrCategoryBreakdownRequired
	}

	known := make([]string, 0, len(rates))
	for k := range rates {
		known = append(known, k)
	}
	sort.Strings(known)

	results := make(map[string]float64, len(period.CategoryBreakdown))
	total := 0.0

	cats := make([]string, 0, len(period.CategoryBreakdown))
	for cat := range period.CategoryBreakdown {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	for _, cat := range cats {
		matched, ok := lookupCategory(cat, known)
		if !ok {
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownCategory, cat)
		}
		amount := round2(period.CategoryBreakdown[cat] * rates[matched])
		results[cat] = amount
		total += amount
	}

	return &model.RoyaltyResult{
		Amount:          round2(total),
		Basis:           *period,
		CategoryResults: results,
	}, nil
}

// lookupCategory matches a reported category against contract categories,
// exact (case-insensitive) before substring in either direction.
func lookupCategory(reported string, known []string) (string, bool) {
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

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
