package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter represents a retirement input to sweep
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"`
	Unit        string          `yaml:"unit" json:"unit"` // "percent", "currency", "years"
	Description string          `yaml:"description" json:"description"`
}

// ParameterSensitivityAnalysis is the result of a single-parameter sweep
type ParameterSensitivityAnalysis struct {
	BaseScenarioName string                 `json:"baseScenarioName"`
	Parameters       []SensitivityParameter `json:"parameters"`
	BaseMetrics      SensitivityMetrics     `json:"baseMetrics"`
	Results          []SensitivityResult    `json:"results"`
	Summary          SensitivitySummary     `json:"summary"`
	AnalysisType     string                 `json:"analysisType"` // "single", "matrix"
}

// SensitivityResult is one evaluated point of a sweep
type SensitivityResult struct {
	ParameterValues map[string]decimal.Decimal `json:"parameterValues"`
	ScenarioName    string                     `json:"scenarioName"`
	Skipped         bool                       `json:"skipped,omitempty"`
	SkipReason      string                     `json:"skipReason,omitempty"`
	KeyMetrics      SensitivityMetrics         `json:"keyMetrics"`
}

// SensitivityMetrics are the headline outputs tracked across a sweep
type SensitivityMetrics struct {
	RetirementCorpus    decimal.Decimal `json:"retirementCorpus"`
	FundDepletionAge    int             `json:"fundDepletionAge"`
	ConfidenceScore     int             `json:"confidenceScore"`
	RetirementShortfall decimal.Decimal `json:"retirementShortfall"`
	CorpusChange        decimal.Decimal `json:"corpusChange"`
	CorpusChangePct     decimal.Decimal `json:"corpusChangePct"`
	ConfidenceChange    int             `json:"confidenceChange"`
}

// SensitivitySummary provides the overall sweep summary
type SensitivitySummary struct {
	MostSensitiveParameter string                     `json:"mostSensitiveParameter"`
	SensitivityScores      map[string]decimal.Decimal `json:"sensitivityScores"`
	MinConfidence          int                        `json:"minConfidence"`
	MaxConfidence          int                        `json:"maxConfidence"`
	EarliestDepletionAge   int                        `json:"earliestDepletionAge"`
	Recommendations        []string                   `json:"recommendations"`
	RiskLevel              string                     `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
}

// SensitivityMatrix represents a 2D parameter sweep
type SensitivityMatrix struct {
	BaseScenarioName string                   `json:"baseScenarioName"`
	Parameter1       SensitivityParameter     `json:"parameter1"`
	Parameter2       SensitivityParameter     `json:"parameter2"`
	MatrixResults    [][]SensitivityResult    `json:"matrixResults"`
	Summary          SensitivityMatrixSummary `json:"summary"`
}

// SensitivityMatrixSummary provides matrix analysis summary
type SensitivityMatrixSummary struct {
	WorstCombination string   `json:"worstCombination"`
	BestCombination  string   `json:"bestCombination"`
	FailingCells     int      `json:"failingCells"`
	TotalCells       int      `json:"totalCells"`
	Recommendations  []string `json:"recommendations"`
	RiskLevel        string   `json:"riskLevel"`
}

// Sweepable retirement parameters
const (
	ParamPreRetirementReturn     = "pre_retirement_return"
	ParamPostRetirementReturn    = "post_retirement_return"
	ParamInflationRate           = "inflation_rate"
	ParamMonthlyContribution     = "monthly_contribution"
	ParamExpectedMonthlyExpenses = "expected_monthly_expenses"
	ParamRetirementAge           = "retirement_age"
)

// Common sensitivity parameters
var (
	PreRetirementReturnParam = SensitivityParameter{
		Name:        ParamPreRetirementReturn,
		MinValue:    decimal.NewFromInt(6),
		MaxValue:    decimal.NewFromInt(14),
		Steps:       5,
		Unit:        "percent",
		Description: "Annual return earned while saving",
	}

	PostRetirementReturnParam = SensitivityParameter{
		Name:        ParamPostRetirementReturn,
		MinValue:    decimal.NewFromInt(4),
		MaxValue:    decimal.NewFromInt(9),
		Steps:       6,
		Unit:        "percent",
		Description: "Annual return earned on the retirement corpus",
	}

	InflationRateParam = SensitivityParameter{
		Name:        ParamInflationRate,
		MinValue:    decimal.NewFromInt(3),
		MaxValue:    decimal.NewFromInt(8),
		Steps:       6,
		Unit:        "percent",
		Description: "General inflation applied to expenses and withdrawals",
	}

	MonthlyContributionParam = SensitivityParameter{
		Name:        ParamMonthlyContribution,
		MinValue:    decimal.NewFromInt(5000),
		MaxValue:    decimal.NewFromInt(50000),
		Steps:       10,
		Unit:        "currency",
		Description: "Monthly investment excluding EPF and NPS",
	}

	RetirementAgeParam = SensitivityParameter{
		Name:        ParamRetirementAge,
		MinValue:    decimal.NewFromInt(55),
		MaxValue:    decimal.NewFromInt(65),
		Steps:       11,
		Unit:        "years",
		Description: "Age at which contributions stop and withdrawals begin",
	}
)

// GetCommonParameters returns a list of common sensitivity parameters
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		PreRetirementReturnParam,
		PostRetirementReturnParam,
		InflationRateParam,
		MonthlyContributionParam,
		RetirementAgeParam,
	}
}

// LookupCommonParameter returns the default sweep for a parameter name
func LookupCommonParameter(name string) (SensitivityParameter, bool) {
	for _, p := range GetCommonParameters() {
		if p.Name == name {
			return p, true
		}
	}
	return SensitivityParameter{}, false
}

// StepValues returns the evenly spaced values of the sweep, endpoints included
func (sp SensitivityParameter) StepValues() []decimal.Decimal {
	if sp.Steps <= 1 {
		return []decimal.Decimal{sp.MinValue}
	}
	step := sp.MaxValue.Sub(sp.MinValue).Div(decimal.NewFromInt(int64(sp.Steps - 1)))
	values := make([]decimal.Decimal, sp.Steps)
	for i := range values {
		values[i] = sp.MinValue.Add(step.Mul(decimal.NewFromInt(int64(i))))
	}
	values[len(values)-1] = sp.MaxValue
	return values
}

// CalculateSensitivityScore weighs corpus change against confidence change
func (sm *SensitivityMetrics) CalculateSensitivityScore(parameterChange decimal.Decimal) decimal.Decimal {
	if parameterChange.IsZero() {
		return decimal.Zero
	}

	corpusChange := sm.CorpusChangePct.Abs()
	confidenceChange := decimal.NewFromInt(int64(sm.ConfidenceChange)).Abs()

	return corpusChange.Mul(decimal.NewFromFloat(0.4)).
		Add(confidenceChange.Mul(decimal.NewFromFloat(0.6)))
}

// DetermineRiskLevel determines the risk level based on sensitivity scores
// and the weakest confidence seen in the sweep.
func (ss *SensitivitySummary) DetermineRiskLevel() string {
	maxScore := decimal.Zero
	for _, score := range ss.SensitivityScores {
		if score.GreaterThan(maxScore) {
			maxScore = score
		}
	}

	switch {
	case ss.MinConfidence < 40 || maxScore.GreaterThanOrEqual(decimal.NewFromInt(30)):
		return "CRITICAL"
	case ss.MinConfidence < 75 || maxScore.GreaterThanOrEqual(decimal.NewFromInt(15)):
		return "HIGH"
	case maxScore.GreaterThanOrEqual(decimal.NewFromInt(5)):
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// GenerateRecommendations generates recommendations based on sensitivity analysis
func (ss *SensitivitySummary) GenerateRecommendations() []string {
	recommendations := []string{}

	switch ss.DetermineRiskLevel() {
	case "LOW":
		recommendations = append(recommendations, "Plan is robust to parameter changes")
	case "MEDIUM":
		recommendations = append(recommendations, "Monitor key parameters yearly")
	case "HIGH":
		recommendations = append(recommendations, "Plan fails in part of the tested range")
		recommendations = append(recommendations, "Consider a more conservative withdrawal strategy")
	case "CRITICAL":
		recommendations = append(recommendations, "Plan is highly sensitive to parameter changes")
		recommendations = append(recommendations, "Increase contributions or postpone retirement")
	}

	switch ss.MostSensitiveParameter {
	case ParamInflationRate:
		recommendations = append(recommendations, "Consider inflation-protected investments")
	case ParamPreRetirementReturn, ParamPostRetirementReturn:
		recommendations = append(recommendations, "Review asset allocation and expected returns")
	case ParamMonthlyContribution:
		recommendations = append(recommendations, "Automate contribution increases with income growth")
	case ParamRetirementAge:
		recommendations = append(recommendations, "Retirement timing has the largest effect on outcome")
	}

	return recommendations
}
