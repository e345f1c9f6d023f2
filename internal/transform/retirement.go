package transform

import (
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// PostponeRetirement moves the retirement age by a number of years.
// Negative values retire earlier. This is useful for exploring
// "work a few more years" scenarios.
type PostponeRetirement struct {
	Years int
}

func (pr *PostponeRetirement) Name() string {
	return "postpone_retirement"
}

func (pr *PostponeRetirement) Description() string {
	if pr.Years < 0 {
		return fmt.Sprintf("Retire %d years earlier", -pr.Years)
	}
	return fmt.Sprintf("Postpone retirement by %d years", pr.Years)
}

func (pr *PostponeRetirement) Validate(base *domain.RetirementScenario) error {
	if err := validateBase(pr.Name(), base); err != nil {
		return err
	}
	return validateRetirementAge(pr.Name(), base, base.RetirementAge+pr.Years)
}

func (pr *PostponeRetirement) Apply(base *domain.RetirementScenario) (*domain.RetirementScenario, error) {
	modified := base.DeepCopy()
	modified.RetirementAge += pr.Years
	return modified, nil
}

// SetRetirementAge sets the retirement age to an absolute value.
// Unlike PostponeRetirement which is relative, this sets an exact age.
type SetRetirementAge struct {
	Age int
}

func (sra *SetRetirementAge) Name() string {
	return "set_retirement_age"
}

func (sra *SetRetirementAge) Description() string {
	return fmt.Sprintf("Retire at age %d", sra.Age)
}

func (sra *SetRetirementAge) Validate(base *domain.RetirementScenario) error {
	if err := validateBase(sra.Name(), base); err != nil {
		return err
	}
	return validateRetirementAge(sra.Name(), base, sra.Age)
}

func (sra *SetRetirementAge) Apply(base *domain.RetirementScenario) (*domain.RetirementScenario, error) {
	modified := base.DeepCopy()
	modified.RetirementAge = sra.Age
	return modified, nil
}

func validateRetirementAge(name string, base *domain.RetirementScenario, age int) error {
	if age < base.CurrentAge {
		return NewTransformError(name, "validate",
			fmt.Sprintf("retirement age %d would be before current age %d", age, base.CurrentAge), nil)
	}
	if age > base.LifeExpectancy {
		return NewTransformError(name, "validate",
			fmt.Sprintf("retirement age %d would be after life expectancy %d", age, base.LifeExpectancy), nil)
	}
	return nil
}

// SetLifeExpectancy changes the end of the modelled horizon
type SetLifeExpectancy struct {
	Age int
}

func (sle *SetLifeExpectancy) Name() string {
	return "set_life_expectancy"
}

func (sle *SetLifeExpectancy) Description() string {
	return fmt.Sprintf("Plan for a life expectancy of %d", sle.Age)
}

func (sle *SetLifeExpectancy) Validate(base *domain.RetirementScenario) error {
	if err := validateBase(sle.Name(), base); err != nil {
		return err
	}
	if sle.Age < base.RetirementAge {
		return NewTransformError(sle.Name(), "validate",
			fmt.Sprintf("life expectancy %d would be before retirement age %d", sle.Age, base.RetirementAge), nil)
	}
	return nil
}

func (sle *SetLifeExpectancy) Apply(base *domain.RetirementScenario) (*domain.RetirementScenario, error) {
	modified := base.DeepCopy()
	modified.LifeExpectancy = sle.Age
	return modified, nil
}

// SetWithdrawalStrategy switches the drawdown strategy
type SetWithdrawalStrategy struct {
	Strategy domain.WithdrawalStrategy
}

func (sws *SetWithdrawalStrategy) Name() string {
	return "set_withdrawal_strategy"
}

func (sws *SetWithdrawalStrategy) Description() string {
	return fmt.Sprintf("Switch to the %s withdrawal strategy", sws.Strategy)
}

func (sws *SetWithdrawalStrategy) Validate(base *domain.RetirementScenario) error {
	if err := validateBase(sws.Name(), base); err != nil {
		return err
	}
	if !sws.Strategy.IsValid() {
		return NewTransformError(sws.Name(), "validate", fmt.Sprintf("unknown strategy %q", sws.Strategy), nil)
	}
	return nil
}

func (sws *SetWithdrawalStrategy) Apply(base *domain.RetirementScenario) (*domain.RetirementScenario, error) {
	modified := base.DeepCopy()
	modified.WithdrawalStrategy = sws.Strategy
	return modified, nil
}

// AdjustContribution adds Delta to the monthly contribution
type AdjustContribution struct {
	Delta float64
}

func (ac *AdjustContribution) Name() string {
	return "adjust_contribution"
}

func (ac *AdjustContribution) Description() string {
	if ac.Delta < 0 {
		return fmt.Sprintf("Invest %.0f less every month", -ac.Delta)
	}
	return fmt.Sprintf("Invest %.0f more every month", ac.Delta)
}

func (ac *AdjustContribution) Validate(base *domain.RetirementScenario) error {
	if err := validateBase(ac.Name(), base); err != nil {
		return err
	}
	if base.MonthlyContribution+ac.Delta < 0 {
		return NewTransformError(ac.Name(), "validate",
			fmt.Sprintf("monthly contribution would become negative (%.0f)", base.MonthlyContribution+ac.Delta), nil)
	}
	return nil
}

func (ac *AdjustContribution) Apply(base *domain.RetirementScenario) (*domain.RetirementScenario, error) {
	modified := base.DeepCopy()
	modified.MonthlyContribution += ac.Delta
	return modified, nil
}

// AdjustReturns shifts the expected returns by whole percentage points
type AdjustReturns struct {
	PreDelta  float64
	PostDelta float64
}

func (ar *AdjustReturns) Name() string {
	return "adjust_returns"
}

func (ar *AdjustReturns) Description() string {
	return fmt.Sprintf("Shift returns by %+.1f%% before and %+.1f%% after retirement", ar.PreDelta, ar.PostDelta)
}

func (ar *AdjustReturns) Validate(base *domain.RetirementScenario) error {
	if err := validateBase(ar.Name(), base); err != nil {
		return err
	}
	if base.PreRetirementReturn+ar.PreDelta <= -100 || base.PostRetirementReturn+ar.PostDelta <= -100 {
		return NewTransformError(ar.Name(), "validate", "returns cannot fall to -100% or below", nil)
	}
	return nil
}

func (ar *AdjustReturns) Apply(base *domain.RetirementScenario) (*domain.RetirementScenario, error) {
	modified := base.DeepCopy()
	modified.PreRetirementReturn += ar.PreDelta
	modified.PostRetirementReturn += ar.PostDelta
	return modified, nil
}

// SetInflation replaces the inflation assumption
type SetInflation struct {
	Rate float64
}

func (si *SetInflation) Name() string {
	return "set_inflation"
}

func (si *SetInflation) Description() string {
	return fmt.Sprintf("Assume %.1f%% inflation", si.Rate)
}

func (si *SetInflation) Validate(base *domain.RetirementScenario) error {
	if err := validateBase(si.Name(), base); err != nil {
		return err
	}
	if si.Rate <= -100 {
		return NewTransformError(si.Name(), "validate", fmt.Sprintf("inflation must be above -100%%, got %.1f", si.Rate), nil)
	}
	return nil
}

func (si *SetInflation) Apply(base *domain.RetirementScenario) (*domain.RetirementScenario, error) {
	modified := base.DeepCopy()
	modified.InflationRate = si.Rate
	return modified, nil
}

// AdjustExpenses scales today's monthly expenses by Percent
type AdjustExpenses struct {
	Percent float64
}

func (ae *AdjustExpenses) Name() string {
	return "adjust_expenses"
}

func (ae *AdjustExpenses) Description() string {
	return fmt.Sprintf("Change monthly expenses by %+.0f%%", ae.Percent)
}

func (ae *AdjustExpenses) Validate(base *domain.RetirementScenario) error {
	if err := validateBase(ae.Name(), base); err != nil {
		return err
	}
	if ae.Percent <= -100 {
		return NewTransformError(ae.Name(), "validate", "expenses must stay positive", nil)
	}
	return nil
}

func (ae *AdjustExpenses) Apply(base *domain.RetirementScenario) (*domain.RetirementScenario, error) {
	modified := base.DeepCopy()
	modified.ExpectedMonthlyExpenses *= 1 + ae.Percent/100
	return modified, nil
}
