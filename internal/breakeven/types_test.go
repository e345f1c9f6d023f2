package breakeven

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finplan/internal/domain"
)

func TestDefaultConstraints(t *testing.T) {
	c := DefaultConstraints()

	if c.MinWithdrawalRate == nil {
		t.Fatal("Expected MinWithdrawalRate to be set")
	}
	if !c.MinWithdrawalRate.Equal(decimal.NewFromFloat(0.01)) {
		t.Errorf("Expected MinWithdrawalRate 0.01, got %s", c.MinWithdrawalRate.String())
	}

	if c.MaxWithdrawalRate == nil {
		t.Fatal("Expected MaxWithdrawalRate to be set")
	}
	if !c.MaxWithdrawalRate.Equal(decimal.NewFromFloat(0.15)) {
		t.Errorf("Expected MaxWithdrawalRate 0.15, got %s", c.MaxWithdrawalRate.String())
	}

	if c.MinMonthlyContribution == nil || !c.MinMonthlyContribution.IsZero() {
		t.Errorf("Expected MinMonthlyContribution 0, got %v", c.MinMonthlyContribution)
	}
	if c.MaxMonthlyContribution == nil || !c.MaxMonthlyContribution.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("Expected MaxMonthlyContribution 1000000, got %v", c.MaxMonthlyContribution)
	}

	if c.TargetConfidence == nil || *c.TargetConfidence != 90 {
		t.Errorf("Expected TargetConfidence 90, got %v", c.TargetConfidence)
	}

	if c.MinRetirementAge != nil || c.MaxRetirementAge != nil {
		t.Error("Expected retirement age bounds to follow the scenario")
	}

	if err := c.Validate(); err != nil {
		t.Errorf("Expected default constraints to be valid, got %v", err)
	}
}

func TestConstraints_Validate(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	small := decimal.NewFromInt(100)
	large := decimal.NewFromInt(1000)
	zeroRate := decimal.Zero
	bigRate := decimal.NewFromFloat(1.5)
	lowRate := decimal.NewFromFloat(0.03)
	highRate := decimal.NewFromFloat(0.08)
	age60, age65 := 60, 65
	confidence := 120

	tests := []struct {
		name        string
		constraints Constraints
		wantErr     string
	}{
		{
			name:        "empty constraints",
			constraints: Constraints{},
		},
		{
			name:        "negative minimum contribution",
			constraints: Constraints{MinMonthlyContribution: &neg},
			wantErr:     "cannot be negative",
		},
		{
			name:        "contribution bounds reversed",
			constraints: Constraints{MinMonthlyContribution: &large, MaxMonthlyContribution: &small},
			wantErr:     "min_monthly_contribution cannot be greater",
		},
		{
			name:        "retirement age bounds reversed",
			constraints: Constraints{MinRetirementAge: &age65, MaxRetirementAge: &age60},
			wantErr:     "min_retirement_age cannot be greater",
		},
		{
			name:        "zero withdrawal rate",
			constraints: Constraints{MinWithdrawalRate: &zeroRate},
			wantErr:     "must be within (0, 1]",
		},
		{
			name:        "withdrawal rate above one",
			constraints: Constraints{MaxWithdrawalRate: &bigRate},
			wantErr:     "must be within (0, 1]",
		},
		{
			name:        "withdrawal rate bounds reversed",
			constraints: Constraints{MinWithdrawalRate: &highRate, MaxWithdrawalRate: &lowRate},
			wantErr:     "min_withdrawal_rate cannot be greater",
		},
		{
			name:        "target confidence out of range",
			constraints: Constraints{TargetConfidence: &confidence},
			wantErr:     "target_confidence must be between 0 and 100",
		},
		{
			name:        "valid bounds",
			constraints: Constraints{MinRetirementAge: &age60, MaxRetirementAge: &age65, MinWithdrawalRate: &lowRate, MaxWithdrawalRate: &highRate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constraints.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			beErr, ok := err.(*BreakEvenError)
			require.True(t, ok, "expected *BreakEvenError, got %T", err)
			assert.Equal(t, "validate_constraints", beErr.Operation)
		})
	}
}

func TestOptimizationTarget_DefaultGoal(t *testing.T) {
	assert.Equal(t, GoalCoverIncome, OptimizeMonthlyContribution.DefaultGoal())
	assert.Equal(t, GoalFundsLast, OptimizeRetirementAge.DefaultGoal())
	assert.Equal(t, GoalFundsLast, OptimizeWithdrawalRate.DefaultGoal())
}

func TestDefaultSolverOptions(t *testing.T) {
	opts := DefaultSolverOptions()

	assert.Equal(t, "binary_search", opts.Algorithm)
	assert.True(t, opts.Tolerance.Equal(decimal.NewFromInt(100)))
	assert.True(t, opts.RateTolerance.Equal(decimal.NewFromFloat(0.0001)))
	assert.Equal(t, 60, opts.MaxIterations)
}

func TestTableFormatter_Format(t *testing.T) {
	age := 67
	target := 90
	base := &domain.RetirementResult{RetirementCorpus: 129614680, ConfidenceScore: 57}
	result := &OptimizationResult{
		Request: OptimizationRequest{
			BaseScenario: &domain.RetirementScenario{Name: "Base"},
			Constraints:  Constraints{TargetConfidence: &target},
		},
		Target:               OptimizeRetirementAge,
		Goal:                 GoalTargetConfidence,
		Success:              true,
		Iterations:           8,
		ConvergenceInfo:      "Evaluated 8 retirement ages",
		OptimalRetirementAge: &age,
		RetirementCorpus:     decimal.NewFromInt(200000000),
		FundDepletionAge:     86,
		FundsLast:            true,
		ConfidenceScore:      92,
		BaseResult:           base,
		CorpusDiffFromBase:   decimal.NewFromInt(70385320),
		ConfidenceDiff:       35,
	}

	output := (&TableFormatter{Currency: "$"}).Format(result)

	for _, want := range []string{
		"BREAK-EVEN OPTIMIZATION RESULTS",
		"Optimization Target: retirement_age",
		"Scenario:            Base",
		"✓ Converged",
		"Retirement Age:       67",
		"Fund Depletion:       never",
		"COMPARISON TO BASE SCENARIO",
		"Confidence Change:    +35",
		"TARGET CONFIDENCE",
		"Target:   90",
	} {
		assert.Contains(t, output, want)
	}
	assert.NotContains(t, output, "Withdrawal Rate:")
}

func TestTableFormatter_FormatMultiDimensional(t *testing.T) {
	rate := decimal.NewFromFloat(0.0459)
	result := &MultiDimensionalResult{
		Results: []OptimizationResult{
			{
				Target:                OptimizeWithdrawalRate,
				Goal:                  GoalFundsLast,
				Success:               true,
				OptimalWithdrawalRate: &rate,
				FundDepletionAge:      86,
				FundsLast:             true,
				ConfidenceScore:       100,
			},
		},
		Failures: map[string]string{
			string(OptimizeMonthlyContribution): "goal cover_income not reachable",
		},
		Recommendations: []string{"Withdraw at most 4.59% of the corpus in the first year"},
	}

	output := (&TableFormatter{}).FormatMultiDimensional(result)

	assert.Contains(t, output, "MULTI-DIMENSIONAL OPTIMIZATION RESULTS")
	assert.Contains(t, output, "4.59%")
	assert.Contains(t, output, "NOT REACHABLE")
	assert.Contains(t, output, "goal cover_income not reachable")
	assert.Contains(t, output, "• Withdraw at most 4.59%")
}

func TestJSONFormatter(t *testing.T) {
	age := 67
	result := &OptimizationResult{
		Target:               OptimizeRetirementAge,
		Goal:                 GoalFundsLast,
		Success:              true,
		OptimalRetirementAge: &age,
		RetirementCorpus:     decimal.NewFromInt(1000),
	}

	compact, err := (&JSONFormatter{}).Format(result)
	require.NoError(t, err)
	assert.Contains(t, compact, `"target":"retirement_age"`)
	assert.Contains(t, compact, `"optimal_retirement_age":67`)
	assert.NotContains(t, compact, "optimal_withdrawal_rate")

	pretty, err := (&JSONFormatter{Pretty: true}).FormatMultiDimensional(&MultiDimensionalResult{
		Results:         []OptimizationResult{*result},
		Recommendations: []string{"Retire at 67 or later"},
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(pretty, "\n  \"results\""))
	assert.Contains(t, pretty, "Retire at 67 or later")
}
