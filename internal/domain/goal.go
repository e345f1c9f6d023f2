package domain

// GoalConfig describes a savings goal expressed in today's money
type GoalConfig struct {
	TargetAmount   float64 `yaml:"target_amount" json:"targetAmount"`
	CurrentSavings float64 `yaml:"current_savings" json:"currentSavings" validate:"gte=0"`
	TimeframeYears int     `yaml:"timeframe_years" json:"timeframeYears" validate:"lte=200"`
	InflationRate  float64 `yaml:"inflation_rate" json:"inflationRate"`
	ExpectedReturn float64 `yaml:"expected_return" json:"expectedReturn"`
}

// GoalPoint compares projected savings with the inflated target at a year boundary
type GoalPoint struct {
	Year                    int     `json:"year"`
	ProjectedSavings        float64 `json:"projectedSavings"`
	InflationAdjustedTarget float64 `json:"inflationAdjustedTarget"`
}

// GoalResult is the solved monthly contribution plus its yearly projection.
// A degenerate goal (no target or no timeframe) yields the zero value with
// an empty projection.
type GoalResult struct {
	Config                      GoalConfig  `json:"config"`
	RequiredMonthlyContribution float64     `json:"requiredMonthlyContribution"`
	InflationAdjustedTarget     float64     `json:"inflationAdjustedTarget"`
	FutureValueOfCurrentSavings float64     `json:"futureValueOfCurrentSavings"`
	AmountNeeded                float64     `json:"amountNeeded"`
	Months                      int         `json:"months"`
	Projection                  []GoalPoint `json:"projection"`
}

// IsAlreadyMet reports whether current savings alone reach the target
func (gr *GoalResult) IsAlreadyMet() bool {
	return gr.Months > 0 && gr.AmountNeeded <= 0
}

// GoalScenario is a named goal inside a plan file
type GoalScenario struct {
	Name       string `yaml:"name" json:"name" validate:"required"`
	GoalConfig `yaml:",inline"`
}
