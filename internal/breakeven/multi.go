package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// OptimizeMultiDimensional runs every optimization target against the same
// base scenario and summarises the break-even points. An empty goal uses
// each target's default goal.
func (s *Solver) OptimizeMultiDimensional(
	ctx context.Context,
	baseScenario *domain.RetirementScenario,
	constraints Constraints,
	goal OptimizationGoal,
) (*MultiDimensionalResult, error) {

	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	targets := []OptimizationTarget{
		OptimizeMonthlyContribution,
		OptimizeRetirementAge,
		OptimizeWithdrawalRate,
	}

	mdResult := &MultiDimensionalResult{
		Failures: map[string]string{},
	}

	for _, target := range targets {
		req := OptimizationRequest{
			BaseScenario:  baseScenario,
			Target:        target,
			Goal:          goal,
			Constraints:   constraints,
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		}

		result, err := s.Optimize(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// Record the failure and continue with other targets
			mdResult.Failures[string(target)] = err.Error()
			continue
		}

		if result != nil && result.Success {
			mdResult.Results = append(mdResult.Results, *result)
		}
	}

	if len(mdResult.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_multi_dimensional",
			Message:   "no successful optimizations found",
		}
	}

	mdResult.Recommendations = s.generateMultiDimensionalRecommendations(baseScenario, mdResult)

	return mdResult, nil
}

// generateMultiDimensionalRecommendations creates recommendations from multi-dimensional results
func (s *Solver) generateMultiDimensionalRecommendations(base *domain.RetirementScenario, result *MultiDimensionalResult) []string {
	var recommendations []string
	symbol := s.currency()

	for _, res := range result.Results {
		switch {
		case res.OptimalMonthlyContribution != nil:
			optimal := money.NewMoneyFromDecimal(*res.OptimalMonthlyContribution)
			current := money.NewMoney(base.MonthlyContribution)
			rec := fmt.Sprintf("Invest at least %s per month (currently %s)", optimal.Format(symbol), current.Format(symbol))
			if optimal.LessThan(current.Decimal) {
				rec += fmt.Sprintf(", leaving %s of headroom", current.Sub(optimal).Format(symbol))
			}
			recommendations = append(recommendations, rec)

		case res.OptimalRetirementAge != nil:
			age := *res.OptimalRetirementAge
			switch {
			case age > base.RetirementAge:
				recommendations = append(recommendations,
					fmt.Sprintf("Retire at %d or later, %d years after the planned %d", age, age-base.RetirementAge, base.RetirementAge))
			case age < base.RetirementAge:
				recommendations = append(recommendations,
					fmt.Sprintf("Retiring as early as %d still meets the goal (planned %d)", age, base.RetirementAge))
			default:
				recommendations = append(recommendations,
					fmt.Sprintf("The planned retirement age of %d is the earliest that meets the goal", age))
			}

		case res.OptimalWithdrawalRate != nil:
			pct := res.OptimalWithdrawalRate.InexactFloat64() * 100
			rec := fmt.Sprintf("Withdraw at most %.2f%% of the corpus in the first year", pct)
			if rate, ok := base.WithdrawalStrategy.FixedRate(); ok && rate*100 > pct {
				rec += fmt.Sprintf("; the planned %s strategy runs out early", base.WithdrawalStrategy)
			}
			recommendations = append(recommendations, rec)
		}
	}

	return recommendations
}

// OptimizeAllTargets is a convenience method to optimize all targets with each target's default goal
func (s *Solver) OptimizeAllTargets(
	ctx context.Context,
	baseScenario *domain.RetirementScenario,
	constraints Constraints,
) (*MultiDimensionalResult, error) {
	return s.OptimizeMultiDimensional(ctx, baseScenario, constraints, "")
}

func (s *Solver) currency() string {
	if s.Currency == "" {
		return domain.DefaultCurrency
	}
	return s.Currency
}
