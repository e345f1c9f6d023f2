package domain

// Configuration is a complete plan file: any number of retirement
// scenarios, goals and growth projections evaluated together.
type Configuration struct {
	Name                string               `yaml:"name" json:"name"`
	Currency            string               `yaml:"currency,omitempty" json:"currency,omitempty"`
	RetirementScenarios []RetirementScenario `yaml:"retirement_scenarios" json:"retirementScenarios" validate:"dive"`
	Goals               []GoalScenario       `yaml:"goals" json:"goals" validate:"dive"`
	GrowthProjections   []GrowthScenario     `yaml:"growth_projections" json:"growthProjections" validate:"dive"`
}

// DefaultCurrency is used when a plan does not name one
const DefaultCurrency = "₹"

// CurrencySymbol returns the display symbol for the plan
func (c *Configuration) CurrencySymbol() string {
	if c == nil || c.Currency == "" {
		return DefaultCurrency
	}
	return c.Currency
}

// FindRetirementScenario looks up a retirement scenario by name
func (c *Configuration) FindRetirementScenario(name string) (*RetirementScenario, bool) {
	for i := range c.RetirementScenarios {
		if c.RetirementScenarios[i].Name == name {
			return &c.RetirementScenarios[i], true
		}
	}
	return nil, false
}

// IsEmpty reports whether the plan has nothing to evaluate
func (c *Configuration) IsEmpty() bool {
	return len(c.RetirementScenarios) == 0 && len(c.Goals) == 0 && len(c.GrowthProjections) == 0
}

// NamedRetirementResult pairs a scenario name with its simulation
type NamedRetirementResult struct {
	Name   string            `json:"name"`
	Result *RetirementResult `json:"result"`
}

// NamedGoalResult pairs a goal name with its solution
type NamedGoalResult struct {
	Name   string      `json:"name"`
	Result *GoalResult `json:"result"`
}

// NamedGrowthProjection pairs a projection name with its series
type NamedGrowthProjection struct {
	Name   string            `json:"name"`
	Result *GrowthProjection `json:"result"`
}

// PlanResults holds every evaluated item of a plan in configuration order
type PlanResults struct {
	PlanName   string                  `json:"planName"`
	Currency   string                  `json:"currency"`
	Retirement []NamedRetirementResult `json:"retirement"`
	Goals      []NamedGoalResult       `json:"goals"`
	Growth     []NamedGrowthProjection `json:"growth"`
}

// BestRetirement returns the scenario with the highest confidence score,
// preferring the later depletion age on ties.
func (pr *PlanResults) BestRetirement() *NamedRetirementResult {
	var best *NamedRetirementResult
	for i := range pr.Retirement {
		r := &pr.Retirement[i]
		if best == nil ||
			r.Result.ConfidenceScore > best.Result.ConfidenceScore ||
			(r.Result.ConfidenceScore == best.Result.ConfidenceScore && r.Result.FundDepletionAge > best.Result.FundDepletionAge) {
			best = r
		}
	}
	return best
}
