package calculation

import (
	"math"

	"github.com/rgehrsitz/finplan/internal/domain"
)

const (
	successBaseScore    = 80
	surplusYearPoints   = 4
	partialCoverageCeil = 75
)

// SimulateRetirement runs the accumulation phase up to retirement and the
// withdrawal phase up to life expectancy using cfg.WithdrawalStrategy.
func SimulateRetirement(cfg domain.RetirementConfig) (*domain.RetirementResult, error) {
	if err := validateAges(cfg); err != nil {
		return nil, err
	}
	if !cfg.WithdrawalStrategy.IsValid() {
		return nil, invalidArgument("simulate_retirement", "withdrawal_strategy",
			"unknown strategy %q", cfg.WithdrawalStrategy)
	}

	corpus, accumulation := accumulate(cfg)
	need := MonthlyIncomeNeeded(cfg)
	policy, err := NewWithdrawalPolicy(cfg, corpus, need)
	if err != nil {
		return nil, err
	}
	return finishSimulation(cfg, corpus, need, accumulation, policy), nil
}

// SimulateRetirementWithPolicy runs the same simulation with a caller
// supplied withdrawal policy. newPolicy receives the corpus at retirement
// and the monthly income needed at that date. cfg.WithdrawalStrategy is
// ignored.
func SimulateRetirementWithPolicy(cfg domain.RetirementConfig, newPolicy func(corpus, monthlyNeed float64) WithdrawalPolicy) (*domain.RetirementResult, error) {
	if err := validateAges(cfg); err != nil {
		return nil, err
	}
	corpus, accumulation := accumulate(cfg)
	need := MonthlyIncomeNeeded(cfg)
	return finishSimulation(cfg, corpus, need, accumulation, newPolicy(corpus, need)), nil
}

// MonthlyIncomeNeeded inflates today's monthly expenses to the retirement date
func MonthlyIncomeNeeded(cfg domain.RetirementConfig) float64 {
	return cfg.ExpectedMonthlyExpenses * math.Pow(1+cfg.InflationRate/100, float64(cfg.YearsToRetirement()))
}

func validateAges(cfg domain.RetirementConfig) error {
	if cfg.CurrentAge > cfg.RetirementAge {
		return invalidArgument("simulate_retirement", "retirement_age",
			"retirement age %d is before current age %d", cfg.RetirementAge, cfg.CurrentAge)
	}
	if cfg.RetirementAge > cfg.LifeExpectancy {
		return invalidArgument("simulate_retirement", "life_expectancy",
			"life expectancy %d is before retirement age %d", cfg.LifeExpectancy, cfg.RetirementAge)
	}
	return nil
}

// accumulate compounds savings monthly until retirement and returns the
// unrounded corpus together with one snapshot per age.
func accumulate(cfg domain.RetirementConfig) (float64, []domain.AccumulationPoint) {
	monthly := cfg.EffectiveMonthlyContribution()
	rate := PeriodicRate(cfg.PreRetirementReturn, 12)
	years := cfg.YearsToRetirement()

	points := make([]domain.AccumulationPoint, 0, years+1)
	corpus := cfg.CurrentSavings
	points = append(points, domain.AccumulationPoint{
		Age:    cfg.CurrentAge,
		Corpus: math.Round(corpus),
	})

	for year := 1; year <= years; year++ {
		opening := corpus
		corpus = CompoundPeriods(corpus, rate, monthly, 12)
		contributed := monthly * 12
		points = append(points, domain.AccumulationPoint{
			Age:          cfg.CurrentAge + year,
			Corpus:       math.Round(corpus),
			Contribution: math.Round(contributed),
			Returns:      math.Round(corpus - opening - contributed),
		})
	}
	return corpus, points
}

func finishSimulation(cfg domain.RetirementConfig, corpus, need float64, accumulation []domain.AccumulationPoint, policy WithdrawalPolicy) *domain.RetirementResult {
	result := &domain.RetirementResult{
		Config:              cfg,
		RetirementCorpus:    corpus,
		MonthlyIncomeNeeded: need,
		Accumulation:        accumulation,
		FundDepletionAge:    cfg.NeverDepletes(),
	}

	withdrawals := make([]domain.WithdrawalPoint, 0, cfg.YearsInRetirement()+1)
	remaining := corpus
	for age := cfg.RetirementAge; age <= cfg.LifeExpectancy; age++ {
		var withdrawn, returns float64
		remaining, withdrawn, returns = policy.WithdrawYear(remaining)
		withdrawals = append(withdrawals, domain.WithdrawalPoint{
			Age:        age,
			Corpus:     math.Round(remaining),
			Withdrawal: math.Round(withdrawn),
			Returns:    math.Round(returns),
		})
		if remaining <= 0 && result.FundDepletionAge == cfg.NeverDepletes() {
			result.FundDepletionAge = age
		}
	}
	result.Withdrawal = withdrawals

	if corpus <= 0 {
		result.FundDepletionAge = cfg.RetirementAge
	}
	result.FundsLast = result.FundDepletionAge > cfg.LifeExpectancy
	result.RetirementShortfall = shortfall(cfg, need, result.FundDepletionAge, remaining)
	result.ConfidenceScore = ConfidenceScore(cfg, need, result.FundDepletionAge, remaining)
	if corpus <= 0 {
		result.ConfidenceScore = 0
	}
	return result
}

// shortfall is negative when the corpus runs out before life expectancy and
// the remaining corpus otherwise.
func shortfall(cfg domain.RetirementConfig, need float64, depletionAge int, finalCorpus float64) float64 {
	switch {
	case depletionAge < cfg.LifeExpectancy:
		missingYears := float64(cfg.LifeExpectancy - depletionAge)
		inflation := math.Pow(1+cfg.InflationRate/100, float64(depletionAge-cfg.RetirementAge))
		return -missingYears * 12 * need * inflation
	case depletionAge == cfg.LifeExpectancy:
		return 0
	default:
		return finalCorpus
	}
}

// ConfidenceScore maps a simulation outcome to 0..100. Plans that outlive
// life expectancy score 80 or more; all others score at most 75.
func ConfidenceScore(cfg domain.RetirementConfig, monthlyNeed float64, depletionAge int, finalCorpus float64) int {
	if depletionAge > cfg.LifeExpectancy {
		needAtEnd := monthlyNeed * math.Pow(1+cfg.InflationRate/100, float64(cfg.YearsInRetirement()))
		if needAtEnd <= 0 {
			return 100
		}
		surplusYears := finalCorpus / (12 * needAtEnd)
		return clampScore(successBaseScore+surplusYears*surplusYearPoints, successBaseScore, 100)
	}

	horizon := cfg.YearsInRetirement()
	if horizon <= 0 {
		return 0
	}
	covered := float64(depletionAge-cfg.RetirementAge) / float64(horizon)
	return clampScore(covered*partialCoverageCeil, 0, partialCoverageCeil)
}

func clampScore(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		return lo
	}
	v = math.Round(v)
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}
