package royalty

import (
	"errors"
	"testing"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

func TestCalculate_FlatRate(t *testing.T) {
	t.Parallel()

	period := &model.AggregatedPeriod{NetSales: 83300}
	rate := model.RoyaltyRate{Kind: model.RateFlat, Flat: 0.08}

	result, err := Calculate(period, rate)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Amount != 6664.00 {
		t.Fatalf("amount = %v, want 6664.00", result.Amount)
	}
}

func TestCalculate_FlatRateRounding(t *testing.T) {
	t.Parallel()

	period := &model.AggregatedPeriod{NetSales: 100.10}
	rate := model.RoyaltyRate{Kind: model.RateFlat, Flat: 0.0333}

	result, err := Calculate(period, rate)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Amount != 3.33 {
		t.Fatalf("amount = %v, want 3.33", result.Amount)
	}
}

func TestCalculate_TieredMarginal(t *testing.T) {
	t.Parallel()

	rate := model.RoyaltyRate{Kind: model.RateTiered, Tiers: []model.Tier{
		{UpperBound: 50000, Rate: 0.05},
		{UpperBound: 150000, Rate: 0.08},
		{UpperBound: -1, Rate: 0.10},
	}}

	// 50,000 at 5% + 70,000 at 8%.
	result, err := Calculate(&model.AggregatedPeriod{NetSales: 120000}, rate)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Amount != 8100.00 {
		t.Fatalf("amount = %v, want 8100.00", result.Amount)
	}

	// 50,000 at 5% + 100,000 at 8% + 50,000 at 10%.
	result, err = Calculate(&model.AggregatedPeriod{NetSales: 200000}, rate)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Amount != 15500.00 {
		t.Fatalf("amount = %v, want 15500.00", result.Amount)
	}
}

func TestCalculate_TieredWithinFirstBracket(t *testing.T) {
	t.Parallel()

	rate := model.RoyaltyRate{Kind: model.RateTiered, Tiers: []model.Tier{
		{UpperBound: 50000, Rate: 0.05},
		{UpperBound: -1, Rate: 0.08},
	}}
	result, err := Calculate(&model.AggregatedPeriod{NetSales: 30000}, rate)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Amount != 1500.00 {
		t.Fatalf("amount = %v, want 1500.00", result.Amount)
	}
}

func TestCalculate_TieredMonotonic(t *testing.T) {
	t.Parallel()

	rate := model.RoyaltyRate{Kind: model.RateTiered, Tiers: []model.Tier{
		{UpperBound: 10000, Rate: 0.03},
		{UpperBound: 50000, Rate: 0.06},
		{UpperBound: -1, Rate: 0.09},
	}}
	prev := -1.0
	for _, net := range []float64{0, 5000, 10000, 10001, 49999, 50000, 75000, 200000} {
		result, err := Calculate(&model.AggregatedPeriod{NetSales: net}, rate)
		if err != nil {
			t.Fatalf("Calculate(%v): %v", net, err)
		}
		if result.Amount < prev {
			t.Fatalf("royalty not monotonic at net=%v: %v < %v", net, result.Amount, prev)
		}
		prev = result.Amount
	}
}

func TestCalculate_CategoryRates(t *testing.T) {
	t.Parallel()

	period := &model.AggregatedPeriod{
		NetSales: 146450,
		CategoryBreakdown: map[string]float64{
			"Apparel":     61800,
			"Accessories": 29450,
			"Footwear":    55200,
		},
	}
	rate := model.RoyaltyRate{Kind: model.RateCategory, CategoryRates: map[string]float64{
		"Apparel":     0.10,
		"Accessories": 0.12,
		"Footwear":    0.08,
	}}

	result, err := Calculate(period, rate)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Amount != 14130.00 {
		t.Fatalf("amount = %v, want 14130.00", result.Amount)
	}
	if result.CategoryResults["Apparel"] != 6180.00 {
		t.Fatalf("apparel = %v", result.CategoryResults["Apparel"])
	}
	if result.CategoryResults["Accessories"] != 3534.00 {
		t.Fatalf("accessories = %v", result.CategoryResults["Accessories"])
	}
	if result.CategoryResults["Footwear"] != 4416.00 {
		t.Fatalf("footwear = %v", result.CategoryResults["Footwear"])
	}
}

func TestCalculate_CategoryRequiresBreakdown(t *testing.T) {
	t.Parallel()

	rate := model.RoyaltyRate{Kind: model.RateCategory, CategoryRates: map[string]float64{
		"Apparel": 0.10,
	}}
	_, err := Calculate(&model.AggregatedPeriod{NetSales: 1000}, rate)
	if !errors.Is(err, model.ErrCategoryBreakdownRequired) {
		t.Fatalf("err = %v, want ErrCategoryBreakdownRequired", err)
	}
}

func TestCalculate_CategoryUnknownRejected(t *testing.T) {
	t.Parallel()

	period := &model.AggregatedPeriod{
		NetSales:          1000,
		CategoryBreakdown: map[string]float64{"Electronics": 1000},
	}
	rate := model.RoyaltyRate{Kind: model.RateCategory, CategoryRates: map[string]float64{
		"Apparel": 0.10,
	}}
	_, err := Calculate(period, rate)
	if !errors.Is(err, model.ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestCalculate_CategoryFuzzyNameUsesContractRate(t *testing.T) {
	t.Parallel()

	period := &model.AggregatedPeriod{
		NetSales:          1000,
		CategoryBreakdown: map[string]float64{"Apparel - Men's": 1000},
	}
	rate := model.RoyaltyRate{Kind: model.RateCategory, CategoryRates: map[string]float64{
		"Apparel": 0.10,
	}}
	result, err := Calculate(period, rate)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.Amount != 100.00 {
		t.Fatalf("amount = %v, want 100.00", result.Amount)
	}
}

func TestCalculate_UnknownRateKind(t *testing.T) {
	t.Parallel()

	_, err := Calculate(&model.AggregatedPeriod{NetSales: 1000}, model.RoyaltyRate{Kind: "percentage"})
	if err == nil {
		t.Fatalf("expected error for unknown rate kind")
	}
}
