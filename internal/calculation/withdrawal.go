package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// dynamicCorpusCap limits a dynamic withdrawal to this share of what remains
const dynamicCorpusCap = 0.05

// WithdrawalPolicy draws down a retirement corpus one year at a time.
// Implementations carry their own schedule and are used for a single
// simulation.
type WithdrawalPolicy interface {
	// WithdrawYear applies one year of growth and withdrawals to corpus.
	// It returns the closing corpus, the amount actually withdrawn and the
	// investment return earned during the year.
	WithdrawYear(corpus float64) (closing, withdrawn, returns float64)
	GetStrategyName() string
}

// FixedRateWithdrawal takes Rate of the opening corpus in the first year
// and grows that amount with inflation afterwards. Growth and withdrawals
// are applied monthly.
type FixedRateWithdrawal struct {
	Rate          float64
	AnnualAmount  float64
	MonthlyReturn float64
	Inflation     float64
	name          string
}

// NewFixedRateWithdrawal creates a fixed-rate policy for an opening corpus.
// Rates are whole percentages except rate, which is a fraction (0.04).
func NewFixedRateWithdrawal(rate, openingCorpus, postReturnPercent, inflationPercent float64) *FixedRateWithdrawal {
	return &FixedRateWithdrawal{
		Rate:          rate,
		AnnualAmount:  rate * openingCorpus,
		MonthlyReturn: PeriodicRate(postReturnPercent, 12),
		Inflation:     inflationPercent / 100,
		name:          fmt.Sprintf("fixed_%.4g_percent", rate*100),
	}
}

// WithdrawYear compounds monthly and takes one twelfth of the annual amount
// each month, never more than is available.
func (f *FixedRateWithdrawal) WithdrawYear(corpus float64) (float64, float64, float64) {
	monthly := f.AnnualAmount / 12
	var withdrawn, returns float64
	for m := 0; m < 12; m++ {
		grown := corpus * (1 + f.MonthlyReturn)
		returns += grown - corpus
		take := math.Min(monthly, math.Max(grown, 0))
		corpus = math.Max(0, grown-take)
		withdrawn += take
	}
	f.AnnualAmount *= 1 + f.Inflation
	return corpus, withdrawn, returns
}

// GetStrategyName returns the name of this strategy
func (f *FixedRateWithdrawal) GetStrategyName() string {
	if f.name == "" {
		return "fixed_rate"
	}
	return f.name
}

// DynamicWithdrawal withdraws the inflated income need, capped at 5% of
// the remaining corpus. Growth is applied once per year.
type DynamicWithdrawal struct {
	MonthlyNeed  float64
	AnnualReturn float64
	Inflation    float64
}

// NewDynamicWithdrawal creates a dynamic policy starting from the monthly
// income needed at retirement.
func NewDynamicWithdrawal(monthlyNeed, postReturnPercent, inflationPercent float64) *DynamicWithdrawal {
	return &DynamicWithdrawal{
		MonthlyNeed:  monthlyNeed,
		AnnualReturn: PeriodicRate(postReturnPercent, 1),
		Inflation:    inflationPercent / 100,
	}
}

// WithdrawYear recalculates the withdrawal from the current corpus
func (d *DynamicWithdrawal) WithdrawYear(corpus float64) (float64, float64, float64) {
	withdrawal := math.Min(d.MonthlyNeed*12, corpus*dynamicCorpusCap)
	grown := corpus * (1 + d.AnnualReturn)
	withdrawn := math.Max(0, math.Min(withdrawal, grown))
	closing := math.Max(0, grown-withdrawal)
	d.MonthlyNeed *= 1 + d.Inflation
	return closing, withdrawn, grown - corpus
}

// GetStrategyName returns the name of this strategy
func (d *DynamicWithdrawal) GetStrategyName() string {
	return string(domain.WithdrawDynamic)
}

// NewWithdrawalPolicy builds the policy selected by cfg.WithdrawalStrategy
func NewWithdrawalPolicy(cfg domain.RetirementConfig, retirementCorpus, monthlyIncomeNeeded float64) (WithdrawalPolicy, error) {
	if rate, ok := cfg.WithdrawalStrategy.FixedRate(); ok {
		p := NewFixedRateWithdrawal(rate, retirementCorpus, cfg.PostRetirementReturn, cfg.InflationRate)
		p.name = string(cfg.WithdrawalStrategy)
		return p, nil
	}
	if cfg.WithdrawalStrategy == domain.WithdrawDynamic {
		return NewDynamicWithdrawal(monthlyIncomeNeeded, cfg.PostRetirementReturn, cfg.InflationRate), nil
	}
	return nil, invalidArgument("simulate_retirement", "withdrawal_strategy",
		"unknown strategy %q", cfg.WithdrawalStrategy)
}
