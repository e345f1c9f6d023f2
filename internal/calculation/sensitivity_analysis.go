package calculation

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SensitivityAnalyzer performs parameter sweep analysis over a retirement scenario
type SensitivityAnalyzer struct {
	Logger         Logger
	MaxConcurrency int
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer() *SensitivityAnalyzer {
	return &SensitivityAnalyzer{
		Logger:         NopLogger{},
		MaxConcurrency: runtime.GOMAXPROCS(0),
	}
}

// ApplyParameter returns a copy of cfg with the named parameter set to value
func ApplyParameter(cfg domain.RetirementConfig, name string, value decimal.Decimal) (domain.RetirementConfig, error) {
	v := value.InexactFloat64()
	switch name {
	case domain.ParamPreRetirementReturn:
		cfg.PreRetirementReturn = v
	case domain.ParamPostRetirementReturn:
		cfg.PostRetirementReturn = v
	case domain.ParamInflationRate:
		cfg.InflationRate = v
	case domain.ParamMonthlyContribution:
		cfg.MonthlyContribution = v
	case domain.ParamExpectedMonthlyExpenses:
		cfg.ExpectedMonthlyExpenses = v
	case domain.ParamRetirementAge:
		cfg.RetirementAge = int(value.Round(0).IntPart())
	default:
		return cfg, fmt.Errorf("unknown sensitivity parameter: %s", name)
	}
	return cfg, nil
}

// BaseParameterValue reads the current value of a sweepable parameter
func BaseParameterValue(cfg domain.RetirementConfig, name string) (decimal.Decimal, error) {
	switch name {
	case domain.ParamPreRetirementReturn:
		return decimal.NewFromFloat(cfg.PreRetirementReturn), nil
	case domain.ParamPostRetirementReturn:
		return decimal.NewFromFloat(cfg.PostRetirementReturn), nil
	case domain.ParamInflationRate:
		return decimal.NewFromFloat(cfg.InflationRate), nil
	case domain.ParamMonthlyContribution:
		return decimal.NewFromFloat(cfg.MonthlyContribution), nil
	case domain.ParamExpectedMonthlyExpenses:
		return decimal.NewFromFloat(cfg.ExpectedMonthlyExpenses), nil
	case domain.ParamRetirementAge:
		return decimal.NewFromInt(int64(cfg.RetirementAge)), nil
	}
	return decimal.Zero, fmt.Errorf("unknown sensitivity parameter: %s", name)
}

// AnalyzeSingleParameter sweeps one parameter and reports how the outcome moves
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	scenario *domain.RetirementScenario,
	parameter domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	if scenario == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	baseValue, err := BaseParameterValue(scenario.RetirementConfig, parameter.Name)
	if err != nil {
		return nil, err
	}
	parameter.BaseValue = baseValue

	base, err := SimulateRetirement(scenario.RetirementConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to run base scenario: %w", err)
	}
	baseMetrics := metricsFromResult(base)

	values := parameter.StepValues()
	results := make([]domain.SensitivityResult, len(values))

	g, gctx := errgroup.WithContext(ctx)
	if sa.MaxConcurrency > 0 {
		g.SetLimit(sa.MaxConcurrency)
	}
	for i, value := range values {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := sa.evaluate(scenario, baseMetrics, map[string]decimal.Decimal{parameter.Name: value})
			if err != nil {
				return err
			}
			r.ScenarioName = fmt.Sprintf("%s_%s_%s", scenario.Name, parameter.Name, value.StringFixed(2))
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.ParameterSensitivityAnalysis{
		BaseScenarioName: scenario.Name,
		Parameters:       []domain.SensitivityParameter{parameter},
		BaseMetrics:      baseMetrics,
		Results:          results,
		Summary:          sa.calculateSensitivitySummary(results, parameter),
		AnalysisType:     "single",
	}, nil
}

// AnalyzeParameterMatrix performs a 2D parameter sweep
func (sa *SensitivityAnalyzer) AnalyzeParameterMatrix(
	ctx context.Context,
	scenario *domain.RetirementScenario,
	param1, param2 domain.SensitivityParameter,
) (*domain.SensitivityMatrix, error) {
	if scenario == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}
	if param1.Name == param2.Name {
		return nil, fmt.Errorf("matrix analysis needs two different parameters, got %s twice", param1.Name)
	}
	for _, p := range []*domain.SensitivityParameter{&param1, &param2} {
		bv, err := BaseParameterValue(scenario.RetirementConfig, p.Name)
		if err != nil {
			return nil, err
		}
		p.BaseValue = bv
	}

	base, err := SimulateRetirement(scenario.RetirementConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to run base scenario: %w", err)
	}
	baseMetrics := metricsFromResult(base)

	values1 := param1.StepValues()
	values2 := param2.StepValues()
	matrixResults := make([][]domain.SensitivityResult, len(values1))
	for i := range matrixResults {
		matrixResults[i] = make([]domain.SensitivityResult, len(values2))
	}

	g, gctx := errgroup.WithContext(ctx)
	if sa.MaxConcurrency > 0 {
		g.SetLimit(sa.MaxConcurrency)
	}
	for i, value1 := range values1 {
		for j, value2 := range values2 {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				r, err := sa.evaluate(scenario, baseMetrics, map[string]decimal.Decimal{
					param1.Name: value1,
					param2.Name: value2,
				})
				if err != nil {
					return err
				}
				r.ScenarioName = fmt.Sprintf("%s_%s_%s_%s_%s", scenario.Name,
					param1.Name, value1.StringFixed(2), param2.Name, value2.StringFixed(2))
				matrixResults[i][j] = r
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.SensitivityMatrix{
		BaseScenarioName: scenario.Name,
		Parameter1:       param1,
		Parameter2:       param2,
		MatrixResults:    matrixResults,
		Summary:          calculateMatrixSummary(matrixResults, param1, param2),
	}, nil
}

// evaluate runs one sweep point. Values that make the ages inconsistent
// are reported as skipped rather than failing the sweep.
func (sa *SensitivityAnalyzer) evaluate(scenario *domain.RetirementScenario, baseMetrics domain.SensitivityMetrics, values map[string]decimal.Decimal) (domain.SensitivityResult, error) {
	cfg := scenario.RetirementConfig
	for name, value := range values {
		var err error
		cfg, err = ApplyParameter(cfg, name, value)
		if err != nil {
			return domain.SensitivityResult{}, err
		}
	}

	result := domain.SensitivityResult{ParameterValues: values}
	sim, err := SimulateRetirement(cfg)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			result.Skipped = true
			result.SkipReason = err.Error()
			sa.logger().Debugf("sweep point %v skipped: %v", values, err)
			return result, nil
		}
		return result, err
	}

	metrics := metricsFromResult(sim)
	metrics.CorpusChange = metrics.RetirementCorpus.Sub(baseMetrics.RetirementCorpus)
	if !baseMetrics.RetirementCorpus.IsZero() {
		metrics.CorpusChangePct = metrics.CorpusChange.
			Div(baseMetrics.RetirementCorpus).
			Mul(decimal.NewFromInt(100))
	}
	metrics.ConfidenceChange = metrics.ConfidenceScore - baseMetrics.ConfidenceScore
	result.KeyMetrics = metrics
	return result, nil
}

func (sa *SensitivityAnalyzer) logger() Logger {
	if sa.Logger == nil {
		return NopLogger{}
	}
	return sa.Logger
}

func metricsFromResult(r *domain.RetirementResult) domain.SensitivityMetrics {
	return domain.SensitivityMetrics{
		RetirementCorpus:    decimal.NewFromFloat(r.RetirementCorpus).Round(0),
		FundDepletionAge:    r.FundDepletionAge,
		ConfidenceScore:     r.ConfidenceScore,
		RetirementShortfall: decimal.NewFromFloat(r.RetirementShortfall).Round(0),
	}
}

// calculateSensitivitySummary summarises a single-parameter sweep
func (sa *SensitivityAnalyzer) calculateSensitivitySummary(results []domain.SensitivityResult, parameter domain.SensitivityParameter) domain.SensitivitySummary {
	summary := domain.SensitivitySummary{
		SensitivityScores: make(map[string]decimal.Decimal),
		MinConfidence:     100,
	}

	maxScore := decimal.Zero
	evaluated := 0
	for _, r := range results {
		if r.Skipped {
			continue
		}
		evaluated++
		m := r.KeyMetrics
		if m.ConfidenceScore < summary.MinConfidence {
			summary.MinConfidence = m.ConfidenceScore
		}
		if m.ConfidenceScore > summary.MaxConfidence {
			summary.MaxConfidence = m.ConfidenceScore
		}
		if summary.EarliestDepletionAge == 0 || m.FundDepletionAge < summary.EarliestDepletionAge {
			summary.EarliestDepletionAge = m.FundDepletionAge
		}
		change := r.ParameterValues[parameter.Name].Sub(parameter.BaseValue)
		if score := m.CalculateSensitivityScore(change); score.GreaterThan(maxScore) {
			maxScore = score
		}
	}
	if evaluated == 0 {
		summary.MinConfidence = 0
	}

	summary.SensitivityScores[parameter.Name] = maxScore
	summary.MostSensitiveParameter = parameter.Name
	summary.RiskLevel = summary.DetermineRiskLevel()
	summary.Recommendations = summary.GenerateRecommendations()
	return summary
}

func calculateMatrixSummary(matrix [][]domain.SensitivityResult, param1, param2 domain.SensitivityParameter) domain.SensitivityMatrixSummary {
	summary := domain.SensitivityMatrixSummary{}
	var worst, best *domain.SensitivityResult

	for i := range matrix {
		for j := range matrix[i] {
			r := &matrix[i][j]
			if r.Skipped {
				continue
			}
			summary.TotalCells++
			if r.KeyMetrics.ConfidenceScore < 80 {
				summary.FailingCells++
			}
			if worst == nil || r.KeyMetrics.ConfidenceScore < worst.KeyMetrics.ConfidenceScore {
				worst = r
			}
			if best == nil || r.KeyMetrics.ConfidenceScore > best.KeyMetrics.ConfidenceScore {
				best = r
			}
		}
	}

	describe := func(r *domain.SensitivityResult) string {
		return fmt.Sprintf("%s=%s, %s=%s",
			param1.Name, r.ParameterValues[param1.Name].StringFixed(2),
			param2.Name, r.ParameterValues[param2.Name].StringFixed(2))
	}
	if worst != nil {
		summary.WorstCombination = describe(worst)
		summary.BestCombination = describe(best)
	}

	switch {
	case summary.TotalCells == 0:
		summary.RiskLevel = "UNKNOWN"
	case summary.FailingCells == 0:
		summary.RiskLevel = "LOW"
		summary.Recommendations = append(summary.Recommendations, "Plan succeeds across the whole tested range")
	case summary.FailingCells*4 <= summary.TotalCells:
		summary.RiskLevel = "MEDIUM"
		summary.Recommendations = append(summary.Recommendations, "Plan fails only at the unfavourable corner of the range")
	case summary.FailingCells*2 <= summary.TotalCells:
		summary.RiskLevel = "HIGH"
		summary.Recommendations = append(summary.Recommendations, "Plan fails in a large part of the tested range")
	default:
		summary.RiskLevel = "CRITICAL"
		summary.Recommendations = append(summary.Recommendations, "Plan fails for most combinations; revisit savings or retirement age")
	}
	if worst != nil {
		summary.Recommendations = append(summary.Recommendations, "Weakest point: "+summary.WorstCombination)
	}
	return summary
}
