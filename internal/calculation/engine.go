package calculation

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rgehrsitz/finplan/internal/domain"
	"golang.org/x/sync/errgroup"
)

// CalculationEngine orchestrates plan evaluation on top of the pure
// projection functions
type CalculationEngine struct {
	Logger         Logger
	Debug          bool // Enable debug output for detailed calculations
	MaxConcurrency int  // Upper bound on items evaluated in parallel
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Logger:         NopLogger{},
		MaxConcurrency: runtime.GOMAXPROCS(0),
	}
}

// SetLogger sets the logger used by the engine; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// RunRetirementScenario simulates a single named retirement scenario
func (ce *CalculationEngine) RunRetirementScenario(ctx context.Context, scenario *domain.RetirementScenario) (*domain.RetirementResult, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := SimulateRetirement(scenario.RetirementConfig)
	if err != nil {
		return nil, fmt.Errorf("retirement scenario %q: %w", scenario.Name, err)
	}

	if ce.Debug {
		ce.logger().Debugf("scenario %s: corpus=%.0f need=%.0f depletion=%d confidence=%d (%s)",
			scenario.Name, result.RetirementCorpus, result.MonthlyIncomeNeeded,
			result.FundDepletionAge, result.ConfidenceScore, time.Since(start))
	}
	if !result.FundsLast {
		ce.logger().Warnf("scenario %s: funds deplete at age %d, before life expectancy %d",
			scenario.Name, result.FundDepletionAge, scenario.LifeExpectancy)
	}
	return result, nil
}

// RunGoal solves a single named goal
func (ce *CalculationEngine) RunGoal(ctx context.Context, goal *domain.GoalScenario) (*domain.GoalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := SolveGoal(goal.GoalConfig)
	if len(result.Projection) == 0 {
		ce.logger().Warnf("goal %s: no target or timeframe, nothing to solve", goal.Name)
	} else if ce.Debug {
		ce.logger().Debugf("goal %s: target=%.0f monthly=%.0f", goal.Name,
			result.InflationAdjustedTarget, result.RequiredMonthlyContribution)
	}
	return result, nil
}

// RunGrowth projects a single named growth scenario
func (ce *CalculationEngine) RunGrowth(ctx context.Context, growth *domain.GrowthScenario) (*domain.GrowthProjection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := ProjectGrowth(growth.ProjectionInput)
	if err != nil {
		return nil, fmt.Errorf("growth projection %q: %w", growth.Name, err)
	}
	if ce.Debug {
		ce.logger().Debugf("growth %s: final=%.0f after %d years", growth.Name, result.FinalValue, growth.Years)
	}
	return result, nil
}

// RunPlan evaluates every item of a plan. Items are independent and run
// concurrently; results keep configuration order. The first failure
// cancels the remaining work.
func (ce *CalculationEngine) RunPlan(ctx context.Context, config *domain.Configuration) (*domain.PlanResults, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	results := &domain.PlanResults{
		PlanName:   config.Name,
		Currency:   config.CurrencySymbol(),
		Retirement: make([]domain.NamedRetirementResult, len(config.RetirementScenarios)),
		Goals:      make([]domain.NamedGoalResult, len(config.Goals)),
		Growth:     make([]domain.NamedGrowthProjection, len(config.GrowthProjections)),
	}

	g, gctx := errgroup.WithContext(ctx)
	if ce.MaxConcurrency > 0 {
		g.SetLimit(ce.MaxConcurrency)
	}

	for i := range config.RetirementScenarios {
		scenario := &config.RetirementScenarios[i]
		g.Go(func() error {
			r, err := ce.RunRetirementScenario(gctx, scenario)
			if err != nil {
				return err
			}
			results.Retirement[i] = domain.NamedRetirementResult{Name: scenario.Name, Result: r}
			return nil
		})
	}
	for i := range config.Goals {
		goal := &config.Goals[i]
		g.Go(func() error {
			r, err := ce.RunGoal(gctx, goal)
			if err != nil {
				return err
			}
			results.Goals[i] = domain.NamedGoalResult{Name: goal.Name, Result: r}
			return nil
		})
	}
	for i := range config.GrowthProjections {
		growth := &config.GrowthProjections[i]
		g.Go(func() error {
			r, err := ce.RunGrowth(gctx, growth)
			if err != nil {
				return err
			}
			results.Growth[i] = domain.NamedGrowthProjection{Name: growth.Name, Result: r}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		ce.logger().Errorf("plan %s failed: %v", config.Name, err)
		return nil, err
	}

	ce.logger().Infof("plan %s: %d retirement scenarios, %d goals, %d growth projections",
		config.Name, len(results.Retirement), len(results.Goals), len(results.Growth))
	return results, nil
}
