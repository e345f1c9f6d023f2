package calculation

import (
	"math"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// PeriodicRate converts an annual percentage into a per-period rate.
// A rate too small to change a value in float64 collapses to zero.
func PeriodicRate(annualPercent float64, periodsPerYear int) float64 {
	r := annualPercent / 100 / float64(periodsPerYear)
	if 1+r == 1 {
		return 0
	}
	return r
}

// CompoundPeriods advances value by n periods with an end-of-period
// contribution (ordinary annuity): value = value*(1+rate) + contribution.
func CompoundPeriods(value, rate, contribution float64, n int) float64 {
	for i := 0; i < n; i++ {
		value = value*(1+rate) + contribution
	}
	return value
}

// ProjectGrowth compounds the principal and periodic contributions and
// records one point per whole year, starting with the initial state.
// Points are rounded for display; the carried value never is.
func ProjectGrowth(input domain.ProjectionInput) (*domain.GrowthProjection, error) {
	if input.Years < 0 {
		return nil, invalidArgument("project_growth", "years", "must not be negative, got %d", input.Years)
	}
	if input.PeriodsPerYear <= 0 {
		return nil, invalidArgument("project_growth", "periods_per_year", "must be positive, got %d", input.PeriodsPerYear)
	}

	rate := PeriodicRate(input.AnnualRatePercent, input.PeriodsPerYear)
	perYear := input.PeriodicContribution * float64(input.PeriodsPerYear)

	points := make([]domain.GrowthPoint, 0, input.Years+1)
	value := input.Principal
	for year := 0; year <= input.Years; year++ {
		if year > 0 {
			value = CompoundPeriods(value, rate, input.PeriodicContribution, input.PeriodsPerYear)
		}
		contributed := input.Principal + perYear*float64(year)
		point := domain.GrowthPoint{
			Year:        year,
			Value:       math.Round(value),
			Contributed: math.Round(contributed),
			Growth:      math.Round(value - contributed),
		}
		if input.InflationRatePercent != 0 {
			point.RealValue = math.Round(value / math.Pow(1+input.InflationRatePercent/100, float64(year)))
		}
		points = append(points, point)
	}

	totalContributed := input.Principal + perYear*float64(input.Years)
	return &domain.GrowthProjection{
		Input:            input,
		Points:           points,
		FinalValue:       value,
		TotalContributed: totalContributed,
		TotalGrowth:      value - totalContributed,
	}, nil
}
