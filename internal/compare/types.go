package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description"`
	Result       *domain.RetirementResult `json:"-"`

	// Key Metrics
	RetirementCorpus    decimal.Decimal `json:"retirementCorpus"`
	MonthlyIncomeNeeded decimal.Decimal `json:"monthlyIncomeNeeded"`
	FundDepletionAge    int             `json:"fundDepletionAge"`
	FundsLast           bool            `json:"fundsLast"`
	YearsFunded         int             `json:"yearsFunded"`
	ConfidenceScore     int             `json:"confidenceScore"`
	RetirementShortfall decimal.Decimal `json:"retirementShortfall"`

	// Comparison to Base
	CorpusDiffFromBase    decimal.Decimal `json:"corpusDiffFromBase"`
	CorpusPctFromBase     decimal.Decimal `json:"corpusPctFromBase"`
	YearsFundedDiff       int             `json:"yearsFundedDiff"`
	ConfidenceDiff        int             `json:"confidenceDiff"`
	ShortfallDiffFromBase decimal.Decimal `json:"shortfallDiffFromBase"`

	// Scenario Specifics (extracted from the config for display)
	RetirementAge      int    `json:"retirementAge"`
	WithdrawalStrategy string `json:"withdrawalStrategy"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	Currency           string             `json:"currency"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// MetricsCalculator extracts key metrics from retirement results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a named result
func (mc *MetricsCalculator) CalculateMetrics(name string, result *domain.RetirementResult) ComparisonResult {
	return ComparisonResult{
		ScenarioName:        name,
		Result:              result,
		RetirementCorpus:    money.NewMoney(result.RetirementCorpus).Round().Decimal,
		MonthlyIncomeNeeded: money.NewMoney(result.MonthlyIncomeNeeded).Round().Decimal,
		FundDepletionAge:    result.FundDepletionAge,
		FundsLast:           result.FundsLast,
		YearsFunded:         result.YearsFunded(),
		ConfidenceScore:     result.ConfidenceScore,
		RetirementShortfall: money.NewMoney(result.RetirementShortfall).Round().Decimal,
		RetirementAge:       result.Config.RetirementAge,
		WithdrawalStrategy:  string(result.Config.WithdrawalStrategy),
	}
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.CorpusDiffFromBase = money.NewMoneyFromDecimal(scenario.RetirementCorpus).
		Sub(money.NewMoneyFromDecimal(base.RetirementCorpus)).Decimal

	scenario.CorpusPctFromBase = money.NewMoneyFromDecimal(scenario.CorpusDiffFromBase).
		PercentOf(money.NewMoneyFromDecimal(base.RetirementCorpus))

	scenario.YearsFundedDiff = scenario.YearsFunded - base.YearsFunded
	scenario.ConfidenceDiff = scenario.ConfidenceScore - base.ConfidenceScore
	scenario.ShortfallDiffFromBase = scenario.RetirementShortfall.Sub(base.RetirementShortfall)

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult
	symbol := currencyOf(compSet)

	// Highest confidence, later depletion breaks ties
	bestConfidence := -1
	for i, alt := range compSet.AlternativeResults {
		if alt.ConfidenceScore <= base.ConfidenceScore {
			continue
		}
		if bestConfidence < 0 || alt.ConfidenceScore > compSet.AlternativeResults[bestConfidence].ConfidenceScore ||
			(alt.ConfidenceScore == compSet.AlternativeResults[bestConfidence].ConfidenceScore &&
				alt.FundDepletionAge > compSet.AlternativeResults[bestConfidence].FundDepletionAge) {
			bestConfidence = i
		}
	}
	if bestConfidence >= 0 {
		best := compSet.AlternativeResults[bestConfidence]
		recommendations = append(recommendations,
			fmt.Sprintf("Best Confidence: %s raises confidence from %d to %d",
				best.ScenarioName, base.ConfidenceScore, best.ConfidenceScore))
	}

	// Largest corpus
	bestCorpus := -1
	for i, alt := range compSet.AlternativeResults {
		if !alt.RetirementCorpus.GreaterThan(base.RetirementCorpus) {
			continue
		}
		if bestCorpus < 0 || alt.RetirementCorpus.GreaterThan(compSet.AlternativeResults[bestCorpus].RetirementCorpus) {
			bestCorpus = i
		}
	}
	if bestCorpus >= 0 {
		best := compSet.AlternativeResults[bestCorpus]
		diff := money.NewMoneyFromDecimal(best.CorpusDiffFromBase)
		recommendations = append(recommendations,
			fmt.Sprintf("Largest Corpus: %s builds %s more by retirement", best.ScenarioName, diff.Compact(symbol)))
	}

	// Longest funded retirement
	bestLongevity := -1
	for i, alt := range compSet.AlternativeResults {
		if alt.YearsFunded <= base.YearsFunded {
			continue
		}
		if bestLongevity < 0 || alt.YearsFunded > compSet.AlternativeResults[bestLongevity].YearsFunded {
			bestLongevity = i
		}
	}
	if bestLongevity >= 0 {
		best := compSet.AlternativeResults[bestLongevity]
		recommendations = append(recommendations,
			fmt.Sprintf("Best Longevity: %s funds %d more years of retirement", best.ScenarioName, best.YearsFundedDiff))
	}

	// Warn about variants that make things worse
	for _, alt := range compSet.AlternativeResults {
		if !base.FundsLast || alt.FundsLast {
			continue
		}
		recommendations = append(recommendations,
			fmt.Sprintf("Caution: %s runs out of money at age %d", alt.ScenarioName, alt.FundDepletionAge))
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, fmt.Sprintf("No alternative improves on %s", base.ScenarioName))
	}

	return recommendations
}
