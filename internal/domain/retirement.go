package domain

import "fmt"

// WithdrawalStrategy selects how the retirement corpus is drawn down
type WithdrawalStrategy string

const (
	Withdraw4Percent WithdrawalStrategy = "4percent"
	Withdraw5Percent WithdrawalStrategy = "5percent"
	Withdraw6Percent WithdrawalStrategy = "6percent"
	WithdrawDynamic  WithdrawalStrategy = "dynamic"
)

// WithdrawalStrategies lists the supported strategies in display order
func WithdrawalStrategies() []WithdrawalStrategy {
	return []WithdrawalStrategy{Withdraw4Percent, Withdraw5Percent, Withdraw6Percent, WithdrawDynamic}
}

// ParseWithdrawalStrategy converts a user supplied name into a strategy
func ParseWithdrawalStrategy(s string) (WithdrawalStrategy, error) {
	ws := WithdrawalStrategy(s)
	if !ws.IsValid() {
		return "", fmt.Errorf("unknown withdrawal strategy %q (valid: 4percent, 5percent, 6percent, dynamic)", s)
	}
	return ws, nil
}

// IsValid reports whether ws is one of the supported strategies
func (ws WithdrawalStrategy) IsValid() bool {
	switch ws {
	case Withdraw4Percent, Withdraw5Percent, Withdraw6Percent, WithdrawDynamic:
		return true
	}
	return false
}

// FixedRate returns the first-year withdrawal rate for the fixed strategies.
// The second value is false for the dynamic strategy.
func (ws WithdrawalStrategy) FixedRate() (float64, bool) {
	switch ws {
	case Withdraw4Percent:
		return 0.04, true
	case Withdraw5Percent:
		return 0.05, true
	case Withdraw6Percent:
		return 0.06, true
	}
	return 0, false
}

// RetirementConfig holds the inputs of a two-phase retirement simulation.
// Rates are whole percentages (12 means 12%).
type RetirementConfig struct {
	CurrentAge              int                `yaml:"current_age" json:"currentAge" validate:"gte=0,lte=120"`
	RetirementAge           int                `yaml:"retirement_age" json:"retirementAge" validate:"gte=0,lte=120"`
	LifeExpectancy          int                `yaml:"life_expectancy" json:"lifeExpectancy" validate:"gte=0,lte=130"`
	CurrentSavings          float64            `yaml:"current_savings" json:"currentSavings" validate:"gte=0"`
	MonthlyContribution     float64            `yaml:"monthly_contribution" json:"monthlyContribution" validate:"gte=0"`
	EPFContribution         float64            `yaml:"epf_contribution" json:"epfContribution" validate:"gte=0"`
	NPSContribution         float64            `yaml:"nps_contribution" json:"npsContribution" validate:"gte=0"`
	ExpectedMonthlyExpenses float64            `yaml:"expected_monthly_expenses" json:"expectedMonthlyExpenses" validate:"gt=0"`
	PreRetirementReturn     float64            `yaml:"pre_retirement_return" json:"preRetirementReturn"`
	PostRetirementReturn    float64            `yaml:"post_retirement_return" json:"postRetirementReturn"`
	InflationRate           float64            `yaml:"inflation_rate" json:"inflationRate"`
	WithdrawalStrategy      WithdrawalStrategy `yaml:"withdrawal_strategy" json:"withdrawalStrategy" validate:"required,oneof=4percent 5percent 6percent dynamic"`
}

// EffectiveMonthlyContribution is the total invested every month
func (rc RetirementConfig) EffectiveMonthlyContribution() float64 {
	return rc.MonthlyContribution + rc.EPFContribution + rc.NPSContribution
}

// YearsToRetirement returns the length of the accumulation phase
func (rc RetirementConfig) YearsToRetirement() int {
	return rc.RetirementAge - rc.CurrentAge
}

// YearsInRetirement returns the length of the modelled retirement horizon
func (rc RetirementConfig) YearsInRetirement() int {
	return rc.LifeExpectancy - rc.RetirementAge
}

// AccumulationPoint is a yearly snapshot before retirement
type AccumulationPoint struct {
	Age          int     `json:"age"`
	Corpus       float64 `json:"corpus"`
	Contribution float64 `json:"contribution"`
	Returns      float64 `json:"returns"`
}

// WithdrawalPoint is a yearly snapshot after retirement. Corpus is the
// balance at the end of the year in which Withdrawal was taken.
type WithdrawalPoint struct {
	Age        int     `json:"age"`
	Corpus     float64 `json:"corpus"`
	Withdrawal float64 `json:"withdrawal"`
	Returns    float64 `json:"returns"`
}

// RetirementResult is the outcome of a retirement simulation.
// FundDepletionAge equals LifeExpectancy+1 when the corpus never runs out.
type RetirementResult struct {
	Config              RetirementConfig    `json:"config"`
	RetirementCorpus    float64             `json:"retirementCorpus"`
	MonthlyIncomeNeeded float64             `json:"monthlyIncomeNeeded"`
	FundDepletionAge    int                 `json:"fundDepletionAge"`
	RetirementShortfall float64             `json:"retirementShortfall"`
	ConfidenceScore     int                 `json:"confidenceScore"`
	FundsLast           bool                `json:"fundsLast"`
	Accumulation        []AccumulationPoint `json:"accumulation"`
	Withdrawal          []WithdrawalPoint   `json:"withdrawal"`
}

// NeverDepletes returns the sentinel depletion age for a configuration
func (rc RetirementConfig) NeverDepletes() int {
	return rc.LifeExpectancy + 1
}

// YearsFunded is the number of retirement years covered by the corpus
func (rr *RetirementResult) YearsFunded() int {
	if rr.FundsLast {
		return rr.Config.YearsInRetirement()
	}
	return rr.FundDepletionAge - rr.Config.RetirementAge
}

// RetirementScenario is a named retirement configuration inside a plan file
type RetirementScenario struct {
	Name             string `yaml:"name" json:"name" validate:"required"`
	Description      string `yaml:"description,omitempty" json:"description,omitempty"`
	RetirementConfig `yaml:",inline"`
}

// DeepCopy returns an independent copy of the scenario
func (rs *RetirementScenario) DeepCopy() *RetirementScenario {
	if rs == nil {
		return nil
	}
	cp := *rs
	return &cp
}
