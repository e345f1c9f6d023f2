package compare

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
)

func testConfig() *domain.Configuration {
	base := domain.RetirementConfig{
		CurrentAge:              30,
		RetirementAge:           60,
		LifeExpectancy:          85,
		CurrentSavings:          1000000,
		MonthlyContribution:     20000,
		EPFContribution:         1800,
		NPSContribution:         5000,
		ExpectedMonthlyExpenses: 50000,
		PreRetirementReturn:     12,
		PostRetirementReturn:    7,
		InflationRate:           6,
		WithdrawalStrategy:      domain.Withdraw4Percent,
	}
	sixPercent := base
	sixPercent.WithdrawalStrategy = domain.Withdraw6Percent

	return &domain.Configuration{
		Name: "compare test",
		RetirementScenarios: []domain.RetirementScenario{
			{Name: "Base", RetirementConfig: base},
			{Name: "Six", Description: "spend more early", RetirementConfig: sixPercent},
		},
	}
}

func TestCompareEngine_Compare(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := engine.Compare(context.Background(), testConfig(), CompareOptions{
		BaseScenarioName: "Base",
		Templates:        []string{"strategy_6pct", "postpone_3yr"},
	})
	require.NoError(t, err)

	require.NotNil(t, compSet.BaseResult)
	assert.Equal(t, "Base", compSet.BaseScenarioName)
	assert.Equal(t, domain.DefaultCurrency, compSet.Currency)
	assert.True(t, compSet.BaseResult.RetirementCorpus.Equal(decimal.NewFromInt(129614680)))
	assert.True(t, compSet.BaseResult.FundsLast)
	assert.Equal(t, 86, compSet.BaseResult.FundDepletionAge)
	assert.Equal(t, 25, compSet.BaseResult.YearsFunded)
	assert.Equal(t, 100, compSet.BaseResult.ConfidenceScore)

	require.Len(t, compSet.AlternativeResults, 2)

	six := compSet.AlternativeResults[0]
	assert.Equal(t, "Base_strategy_6pct", six.ScenarioName)
	assert.NotEmpty(t, six.Description)
	assert.Equal(t, 79, six.FundDepletionAge)
	assert.Equal(t, 57, six.ConfidenceScore)
	assert.Equal(t, -6, six.YearsFundedDiff)
	assert.Equal(t, -43, six.ConfidenceDiff)
	assert.True(t, six.CorpusDiffFromBase.IsZero(), "withdrawal strategy does not change accumulation")

	later := compSet.AlternativeResults[1]
	assert.Equal(t, "Base_postpone_3yr", later.ScenarioName)
	assert.Equal(t, 63, later.RetirementAge)
	assert.True(t, later.CorpusDiffFromBase.IsPositive())

	assert.Contains(t, compSet.Recommendations, "Caution: Base_strategy_6pct runs out of money at age 79")
	assert.Contains(t, compSet.Recommendations[0], "Largest Corpus: Base_postpone_3yr")
}

func TestCompareEngine_Compare_Errors(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	_, err := engine.Compare(context.Background(), testConfig(), CompareOptions{BaseScenarioName: "Missing"})
	assert.ErrorContains(t, err, "not found")

	_, err = engine.Compare(context.Background(), testConfig(), CompareOptions{
		BaseScenarioName: "Base",
		Templates:        []string{"retire_tomorrow"},
	})
	assert.ErrorContains(t, err, "template retire_tomorrow not found")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Compare(ctx, testConfig(), CompareOptions{BaseScenarioName: "Base"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareEngine_CompareScenarios(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := engine.CompareScenarios(context.Background(), testConfig(), "Base", []string{"Six"})
	require.NoError(t, err)

	require.Len(t, compSet.AlternativeResults, 1)
	assert.Equal(t, "Six", compSet.AlternativeResults[0].ScenarioName)
	assert.Equal(t, "spend more early", compSet.AlternativeResults[0].Description)
	assert.Equal(t, -43, compSet.AlternativeResults[0].ConfidenceDiff)

	_, err = engine.CompareScenarios(context.Background(), testConfig(), "Base", []string{"Nope"})
	assert.ErrorContains(t, err, "alternative scenario Nope not found")
}
