package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Name of the base scenario to compare against
	Templates        []string // List of template names to apply
}

// Compare runs the base scenario and one variant per template
func (ce *CompareEngine) Compare(
	ctx context.Context,
	config *domain.Configuration,
	options CompareOptions,
) (*ComparisonSet, error) {

	baseScenario, ok := config.FindRetirementScenario(options.BaseScenarioName)
	if !ok {
		return nil, fmt.Errorf("base scenario %s not found in configuration", options.BaseScenarioName)
	}

	baseResult, err := ce.run(ctx, baseScenario)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alternatives := make([]ComparisonResult, 0, len(options.Templates))

	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modifiedScenario, err := transform.ApplyTemplate(baseScenario, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modifiedScenario.Name = baseScenario.Name + "_" + template.Name

		altResult, err := ce.run(ctx, modifiedScenario)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", templateName, err)
		}
		altResult.Description = template.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	return ce.newComparisonSet(config, baseResult, alternatives), nil
}

// CompareScenarios compares explicit scenarios from the plan (not using templates)
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	config *domain.Configuration,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {

	baseScenario, ok := config.FindRetirementScenario(baseScenarioName)
	if !ok {
		return nil, fmt.Errorf("base scenario %s not found", baseScenarioName)
	}

	baseResult, err := ce.run(ctx, baseScenario)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alternatives := make([]ComparisonResult, 0, len(alternativeScenarioNames))

	for _, altName := range alternativeScenarioNames {
		altScenario, ok := config.FindRetirementScenario(altName)
		if !ok {
			return nil, fmt.Errorf("alternative scenario %s not found", altName)
		}

		altResult, err := ce.run(ctx, altScenario)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", altName, err)
		}
		altResult.Description = altScenario.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	return ce.newComparisonSet(config, baseResult, alternatives), nil
}

func (ce *CompareEngine) run(ctx context.Context, scenario *domain.RetirementScenario) (ComparisonResult, error) {
	result, err := ce.CalcEngine.RunRetirementScenario(ctx, scenario)
	if err != nil {
		return ComparisonResult{}, err
	}
	metrics := ce.MetricsCalculator.CalculateMetrics(scenario.Name, result)
	metrics.Description = scenario.Description
	return metrics, nil
}

func (ce *CompareEngine) newComparisonSet(config *domain.Configuration, base ComparisonResult, alternatives []ComparisonResult) *ComparisonSet {
	compSet := &ComparisonSet{
		BaseScenarioName:   base.ScenarioName,
		Currency:           config.CurrencySymbol(),
		BaseResult:         &base,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}
