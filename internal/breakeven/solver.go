package breakeven

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
)

// Solver finds the break-even value of one retirement parameter
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
	Currency   string // display symbol for recommendations
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if req.BaseScenario == nil {
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   "base scenario is required",
		}
	}

	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}
	if req.Goal == "" {
		req.Goal = req.Target.DefaultGoal()
	}

	switch req.Goal {
	case GoalFundsLast, GoalCoverIncome:
	case GoalTargetConfidence:
		if req.Constraints.TargetConfidence == nil {
			return nil, &BreakEvenError{
				Operation: "optimize",
				Message:   "target_confidence goal requires a target confidence constraint",
			}
		}
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization goal: %s", req.Goal),
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch req.Target {
	case OptimizeMonthlyContribution:
		return s.optimizeMonthlyContribution(ctx, req)
	case OptimizeRetirementAge:
		return s.optimizeRetirementAge(ctx, req)
	case OptimizeWithdrawalRate:
		return s.optimizeWithdrawalRate(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
}

// optimizeMonthlyContribution binary searches the smallest contribution
// that meets the goal. More saving never makes an outcome worse.
func (s *Solver) optimizeMonthlyContribution(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	lo := 0.0
	hi := 1000000.0
	if req.Constraints.MinMonthlyContribution != nil {
		lo = req.Constraints.MinMonthlyContribution.InexactFloat64()
	}
	if req.Constraints.MaxMonthlyContribution != nil {
		hi = req.Constraints.MaxMonthlyContribution.InexactFloat64()
	}
	tolerance := req.Tolerance.InexactFloat64()

	base, err := s.evaluateContribution(ctx, req, req.BaseScenario.MonthlyContribution)
	if err != nil {
		return nil, err
	}

	iterations := 0
	evaluate := func(contribution float64) (*domain.RetirementResult, error) {
		iterations++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.evaluateContribution(ctx, req, contribution)
		if err != nil {
			return nil, err
		}
		s.debugf("monthly_contribution iteration %d: %.2f -> depletion %d, confidence %d",
			iterations, contribution, res.FundDepletionAge, res.ConfidenceScore)
		return res, nil
	}

	hiResult, err := evaluate(hi)
	if err != nil {
		return nil, err
	}
	if !meetsGoal(req, hiResult) {
		return nil, &BreakEvenError{
			Operation: "optimize_monthly_contribution",
			Message:   fmt.Sprintf("goal %s not reachable with a monthly contribution of %.0f", req.Goal, hi),
		}
	}

	loResult, err := evaluate(lo)
	if err != nil {
		return nil, err
	}
	if meetsGoal(req, loResult) {
		result := s.buildResult(req, loResult, base, iterations)
		result.OptimalMonthlyContribution = decimalPtr(lo)
		result.Success = true
		result.ConvergenceInfo = "Minimum contribution already meets the goal"
		return result, nil
	}

	for hi-lo > tolerance && iterations < req.MaxIterations {
		mid := (lo + hi) / 2
		res, err := evaluate(mid)
		if err != nil {
			return nil, err
		}
		if meetsGoal(req, res) {
			hi = mid
			hiResult = res
		} else {
			lo = mid
		}
	}

	// Whole currency units, rounded towards the side that meets the goal
	optimal := math.Ceil(hi)
	if optimal != hi {
		if res, err := s.evaluateContribution(ctx, req, optimal); err == nil && meetsGoal(req, res) {
			hiResult = res
		} else {
			optimal = hi
		}
	}

	result := s.buildResult(req, hiResult, base, iterations)
	result.OptimalMonthlyContribution = decimalPtr(optimal)
	if hi-lo <= tolerance {
		result.Success = true
		result.ConvergenceInfo = fmt.Sprintf("Converged within %s", req.Tolerance.StringFixed(0))
	} else {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	}
	return result, nil
}

func (s *Solver) evaluateContribution(ctx context.Context, req OptimizationRequest, contribution float64) (*domain.RetirementResult, error) {
	scenario := req.BaseScenario.DeepCopy()
	scenario.MonthlyContribution = contribution
	res, err := s.simulate(ctx, scenario)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "optimize_monthly_contribution",
			Message:   "failed to calculate scenario",
			Cause:     err,
		}
	}
	return res, nil
}

// optimizeRetirementAge scans ages upwards and returns the first one that
// meets the goal
func (s *Solver) optimizeRetirementAge(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	baseScenario := req.BaseScenario

	minAge := baseScenario.CurrentAge
	maxAge := baseScenario.LifeExpectancy
	if req.Constraints.MinRetirementAge != nil && *req.Constraints.MinRetirementAge > minAge {
		minAge = *req.Constraints.MinRetirementAge
	}
	if req.Constraints.MaxRetirementAge != nil && *req.Constraints.MaxRetirementAge < maxAge {
		maxAge = *req.Constraints.MaxRetirementAge
	}

	base, err := s.simulate(ctx, baseScenario)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "optimize_retirement_age",
			Message:   "failed to calculate base scenario",
			Cause:     err,
		}
	}

	iterations := 0
	for age := minAge; age <= maxAge && iterations < req.MaxIterations; age++ {
		iterations++

		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		scenario := baseScenario.DeepCopy()
		scenario.RetirementAge = age
		res, err := s.simulate(ctx, scenario)
		if err != nil {
			// Skip this age if calculation fails
			continue
		}
		s.debugf("retirement_age iteration %d: age %d -> depletion %d, confidence %d",
			iterations, age, res.FundDepletionAge, res.ConfidenceScore)

		if meetsGoal(req, res) {
			result := s.buildResult(req, res, base, iterations)
			optimal := age
			result.OptimalRetirementAge = &optimal
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("Evaluated %d retirement ages", iterations)
			return result, nil
		}
	}

	return nil, &BreakEvenError{
		Operation: "optimize_retirement_age",
		Message:   fmt.Sprintf("no retirement age between %d and %d meets goal %s", minAge, maxAge, req.Goal),
	}
}

// optimizeWithdrawalRate binary searches the highest fixed initial
// withdrawal rate that meets the goal
func (s *Solver) optimizeWithdrawalRate(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if req.Goal == GoalCoverIncome {
		return nil, &BreakEvenError{
			Operation: "optimize_withdrawal_rate",
			Message:   "cover_income is not a supported goal for withdrawal_rate",
		}
	}

	lo := 0.01
	hi := 0.15
	if req.Constraints.MinWithdrawalRate != nil {
		lo = req.Constraints.MinWithdrawalRate.InexactFloat64()
	}
	if req.Constraints.MaxWithdrawalRate != nil {
		hi = req.Constraints.MaxWithdrawalRate.InexactFloat64()
	}
	rateTolerance := s.Options.RateTolerance.InexactFloat64()
	if rateTolerance <= 0 {
		rateTolerance = 0.0001
	}
	cfg := req.BaseScenario.RetirementConfig

	base, err := s.simulate(ctx, req.BaseScenario)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "optimize_withdrawal_rate",
			Message:   "failed to calculate base scenario",
			Cause:     err,
		}
	}

	iterations := 0
	evaluate := func(rate float64) (*domain.RetirementResult, error) {
		iterations++

		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		res, err := calculation.SimulateRetirementWithPolicy(cfg, func(corpus, _ float64) calculation.WithdrawalPolicy {
			return calculation.NewFixedRateWithdrawal(rate, corpus, cfg.PostRetirementReturn, cfg.InflationRate)
		})
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "optimize_withdrawal_rate",
				Message:   "failed to calculate scenario",
				Cause:     err,
			}
		}
		s.debugf("withdrawal_rate iteration %d: %.4f -> depletion %d, confidence %d",
			iterations, rate, res.FundDepletionAge, res.ConfidenceScore)
		return res, nil
	}

	loResult, err := evaluate(lo)
	if err != nil {
		return nil, err
	}
	if !meetsGoal(req, loResult) {
		return nil, &BreakEvenError{
			Operation: "optimize_withdrawal_rate",
			Message:   fmt.Sprintf("even a %.2f%% withdrawal rate does not meet goal %s", lo*100, req.Goal),
		}
	}

	hiResult, err := evaluate(hi)
	if err != nil {
		return nil, err
	}
	if meetsGoal(req, hiResult) {
		result := s.buildResult(req, hiResult, base, iterations)
		result.OptimalWithdrawalRate = decimalPtr(hi)
		result.Success = true
		result.ConvergenceInfo = "Maximum withdrawal rate already meets the goal"
		return result, nil
	}

	for hi-lo > rateTolerance && iterations < req.MaxIterations {
		mid := (lo + hi) / 2
		res, err := evaluate(mid)
		if err != nil {
			return nil, err
		}
		if meetsGoal(req, res) {
			lo = mid
			loResult = res
		} else {
			hi = mid
		}
	}

	result := s.buildResult(req, loResult, base, iterations)
	result.OptimalWithdrawalRate = decimalPtr(lo)
	if hi-lo <= rateTolerance {
		result.Success = true
		result.ConvergenceInfo = "Binary search converged"
	} else {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	}
	return result, nil
}

// meetsGoal reports whether a simulation satisfies the request goal
func meetsGoal(req OptimizationRequest, res *domain.RetirementResult) bool {
	switch req.Goal {
	case GoalFundsLast:
		return res.FundsLast
	case GoalCoverIncome:
		if !res.FundsLast || len(res.Withdrawal) == 0 {
			return false
		}
		// withdrawal points are rounded to whole units
		return res.Withdrawal[0].Withdrawal+0.5 >= 12*res.MonthlyIncomeNeeded
	case GoalTargetConfidence:
		return req.Constraints.TargetConfidence != nil && res.ConfidenceScore >= *req.Constraints.TargetConfidence
	default:
		return false
	}
}

// buildResult creates an optimization result from a simulation
func (s *Solver) buildResult(req OptimizationRequest, res, base *domain.RetirementResult, iterations int) *OptimizationResult {
	result := &OptimizationResult{
		Request:          req,
		Target:           req.Target,
		Goal:             req.Goal,
		Iterations:       iterations,
		Result:           res,
		RetirementCorpus: decimal.NewFromFloat(res.RetirementCorpus).Round(0),
		FundDepletionAge: res.FundDepletionAge,
		FundsLast:        res.FundsLast,
		ConfidenceScore:  res.ConfidenceScore,
		BaseResult:       base,
	}
	if base != nil {
		result.CorpusDiffFromBase = result.RetirementCorpus.Sub(decimal.NewFromFloat(base.RetirementCorpus).Round(0))
		result.ConfidenceDiff = res.ConfidenceScore - base.ConfidenceScore
	}
	return result
}

// simulate runs a candidate scenario without the engine's per-scenario
// logging; a failing candidate is an expected part of the search
func (s *Solver) simulate(ctx context.Context, scenario *domain.RetirementScenario) (*domain.RetirementResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return calculation.SimulateRetirement(scenario.RetirementConfig)
}

func (s *Solver) debugf(format string, args ...any) {
	if s.CalcEngine == nil || s.CalcEngine.Logger == nil || !s.CalcEngine.Debug {
		return
	}
	s.CalcEngine.Logger.Debugf(format, args...)
}

func decimalPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}
