package calculation

import (
	"math"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// nearZeroMonthlyRate is the threshold below which the annuity formula is
// replaced by straight-line division.
const nearZeroMonthlyRate = 1e-4

// SolveGoal finds the level monthly contribution that grows current savings
// into the inflation-adjusted target by the deadline. A goal without a
// positive target or timeframe is not an error; it yields an empty result.
func SolveGoal(cfg domain.GoalConfig) *domain.GoalResult {
	result := &domain.GoalResult{
		Config:     cfg,
		Projection: []domain.GoalPoint{},
	}
	if cfg.TargetAmount <= 0 || cfg.TimeframeYears <= 0 {
		return result
	}

	years := float64(cfg.TimeframeYears)
	monthlyRate := cfg.ExpectedReturn / 100 / 12
	months := cfg.TimeframeYears * 12

	adjustedTarget := cfg.TargetAmount * math.Pow(1+cfg.InflationRate/100, years)
	growthFactor := math.Pow(1+monthlyRate, float64(months))
	futureSavings := cfg.CurrentSavings * growthFactor
	amountNeeded := adjustedTarget - futureSavings

	var contribution float64
	switch {
	case amountNeeded <= 0:
		contribution = 0
	case math.Abs(monthlyRate) < nearZeroMonthlyRate:
		contribution = amountNeeded / float64(months)
	default:
		contribution = amountNeeded * monthlyRate / (growthFactor - 1)
	}

	result.RequiredMonthlyContribution = math.Round(contribution)
	result.InflationAdjustedTarget = adjustedTarget
	result.FutureValueOfCurrentSavings = futureSavings
	result.AmountNeeded = amountNeeded
	result.Months = months
	result.Projection = projectGoal(cfg, monthlyRate, contribution)
	return result
}

// projectGoal compounds savings plus the unrounded contribution and
// compares them with the target inflated monthly.
func projectGoal(cfg domain.GoalConfig, monthlyRate, contribution float64) []domain.GoalPoint {
	points := make([]domain.GoalPoint, 0, cfg.TimeframeYears+1)
	monthlyInflation := cfg.InflationRate / 100 / 12
	savings := cfg.CurrentSavings
	for year := 0; year <= cfg.TimeframeYears; year++ {
		if year > 0 {
			savings = CompoundPeriods(savings, monthlyRate, contribution, 12)
		}
		target := cfg.TargetAmount * math.Pow(1+monthlyInflation, float64(year*12))
		points = append(points, domain.GoalPoint{
			Year:                    year,
			ProjectedSavings:        math.Round(savings),
			InflationAdjustedTarget: math.Round(target),
		})
	}
	return points
}
