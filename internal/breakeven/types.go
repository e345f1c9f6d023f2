package breakeven

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// OptimizationTarget defines what parameter to optimize
type OptimizationTarget string

const (
	OptimizeMonthlyContribution OptimizationTarget = "monthly_contribution"
	OptimizeRetirementAge       OptimizationTarget = "retirement_age"
	OptimizeWithdrawalRate      OptimizationTarget = "withdrawal_rate"
	OptimizeAll                 OptimizationTarget = "all"
)

// OptimizationGoal defines what outcome counts as success
type OptimizationGoal string

const (
	GoalFundsLast        OptimizationGoal = "funds_last"        // Corpus outlives life expectancy
	GoalCoverIncome      OptimizationGoal = "cover_income"      // Funds last and year one withdrawal covers the need
	GoalTargetConfidence OptimizationGoal = "target_confidence" // Confidence score at or above the target
)

// DefaultGoal returns the goal used when a request leaves it empty.
// Fixed-rate plans last or fail independently of corpus size, so
// contribution searches default to covering the income need instead.
func (t OptimizationTarget) DefaultGoal() OptimizationGoal {
	if t == OptimizeMonthlyContribution {
		return GoalCoverIncome
	}
	return GoalFundsLast
}

// Constraints define bounds for optimization parameters
type Constraints struct {
	// Monthly contribution bounds (currency units, excludes EPF and NPS)
	MinMonthlyContribution *decimal.Decimal `json:"min_monthly_contribution,omitempty"`
	MaxMonthlyContribution *decimal.Decimal `json:"max_monthly_contribution,omitempty"`

	// Retirement age bounds
	MinRetirementAge *int `json:"min_retirement_age,omitempty"`
	MaxRetirementAge *int `json:"max_retirement_age,omitempty"`

	// Initial withdrawal rate bounds (as decimal, e.g., 0.04 for 4%)
	MinWithdrawalRate *decimal.Decimal `json:"min_withdrawal_rate,omitempty"`
	MaxWithdrawalRate *decimal.Decimal `json:"max_withdrawal_rate,omitempty"`

	// Score required by the target_confidence goal
	TargetConfidence *int `json:"target_confidence,omitempty"`
}

// DefaultConstraints returns sensible default constraints
func DefaultConstraints() Constraints {
	minRate := decimal.NewFromFloat(0.01)
	maxRate := decimal.NewFromFloat(0.15)
	minContribution := decimal.Zero
	maxContribution := decimal.NewFromInt(1000000)
	targetConfidence := 90

	return Constraints{
		MinMonthlyContribution: &minContribution,
		MaxMonthlyContribution: &maxContribution,
		MinWithdrawalRate:      &minRate,
		MaxWithdrawalRate:      &maxRate,
		TargetConfidence:       &targetConfidence,
	}
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	BaseScenario  *domain.RetirementScenario
	Target        OptimizationTarget
	Goal          OptimizationGoal
	Constraints   Constraints
	MaxIterations int             // Maximum solver iterations
	Tolerance     decimal.Decimal // Convergence tolerance for the contribution search, in currency units
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	// Optimization metadata
	Request         OptimizationRequest `json:"-"`
	Target          OptimizationTarget  `json:"target"`
	Goal            OptimizationGoal    `json:"goal"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	// Optimized parameters
	OptimalMonthlyContribution *decimal.Decimal `json:"optimal_monthly_contribution,omitempty"`
	OptimalRetirementAge       *int             `json:"optimal_retirement_age,omitempty"`
	OptimalWithdrawalRate      *decimal.Decimal `json:"optimal_withdrawal_rate,omitempty"`

	// Results at optimal parameters
	Result           *domain.RetirementResult `json:"result"`
	RetirementCorpus decimal.Decimal          `json:"retirement_corpus"`
	FundDepletionAge int                      `json:"fund_depletion_age"`
	FundsLast        bool                     `json:"funds_last"`
	ConfidenceScore  int                      `json:"confidence_score"`

	// Comparison to base
	BaseResult         *domain.RetirementResult `json:"-"`
	CorpusDiffFromBase decimal.Decimal          `json:"corpus_diff_from_base"`
	ConfidenceDiff     int                      `json:"confidence_diff"`
}

// MultiDimensionalResult contains results when optimizing every target
type MultiDimensionalResult struct {
	Results         []OptimizationResult `json:"results"`
	Failures        map[string]string    `json:"failures,omitempty"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Algorithm     string          // "binary_search"; retirement age always uses a linear scan
	Tolerance     decimal.Decimal // Convergence tolerance for contributions
	RateTolerance decimal.Decimal // Convergence tolerance for withdrawal rates
	MaxIterations int             // Maximum iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Algorithm:     "binary_search",
		Tolerance:     decimal.NewFromInt(100),
		RateTolerance: decimal.NewFromFloat(0.0001),
		MaxIterations: 60,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinMonthlyContribution != nil && c.MinMonthlyContribution.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_monthly_contribution cannot be negative",
		}
	}
	if c.MinMonthlyContribution != nil && c.MaxMonthlyContribution != nil {
		if c.MinMonthlyContribution.GreaterThan(*c.MaxMonthlyContribution) {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "min_monthly_contribution cannot be greater than max_monthly_contribution",
			}
		}
	}

	if c.MinRetirementAge != nil && c.MaxRetirementAge != nil {
		if *c.MinRetirementAge > *c.MaxRetirementAge {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "min_retirement_age cannot be greater than max_retirement_age",
			}
		}
	}

	for _, rate := range []*decimal.Decimal{c.MinWithdrawalRate, c.MaxWithdrawalRate} {
		if rate != nil && (!rate.IsPositive() || rate.GreaterThan(decimal.NewFromInt(1))) {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   fmt.Sprintf("withdrawal rate %s must be within (0, 1]", rate.String()),
			}
		}
	}
	if c.MinWithdrawalRate != nil && c.MaxWithdrawalRate != nil {
		if c.MinWithdrawalRate.GreaterThan(*c.MaxWithdrawalRate) {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "min_withdrawal_rate cannot be greater than max_withdrawal_rate",
			}
		}
	}

	if c.TargetConfidence != nil && (*c.TargetConfidence < 0 || *c.TargetConfidence > 100) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "target_confidence must be between 0 and 100",
		}
	}

	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
