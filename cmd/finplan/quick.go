package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
)

// Single calculations driven by flags. Defaults reproduce the reference
// examples so that running a command bare prints a meaningful result.

var growCmd = &cobra.Command{
	Use:   "grow",
	Short: "Project the growth of a lump sum plus periodic contributions",
	Example: `  finplan grow --principal 100000 --contribution 10000 --rate 12 --years 10
  finplan grow --principal 500000 --rate 8 --periods 1 --years 20 --inflation 6 -f json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var in domain.ProjectionInput
		in.Principal, _ = f.GetFloat64("principal")
		in.PeriodicContribution, _ = f.GetFloat64("contribution")
		in.AnnualRatePercent, _ = f.GetFloat64("rate")
		in.PeriodsPerYear, _ = f.GetInt("periods")
		in.Years, _ = f.GetInt("years")
		in.InflationRatePercent, _ = f.GetFloat64("inflation")

		if err := config.NewInputParser().ValidateProjectionInput(in); err != nil {
			return fmt.Errorf("invalid growth inputs: %w", err)
		}

		projection, err := calculation.ProjectGrowth(in)
		if err != nil {
			return err
		}

		return writeQuick(cmd, &domain.PlanResults{
			Growth: []domain.NamedGrowthProjection{{Name: "Projection", Result: projection}},
		})
	},
}

var retireCmd = &cobra.Command{
	Use:   "retire",
	Short: "Simulate saving until retirement and drawing down afterwards",
	Example: `  finplan retire --strategy 5percent
  finplan retire --current-age 35 --retirement-age 58 --expenses 80000 -f json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var cfg domain.RetirementConfig
		cfg.CurrentAge, _ = f.GetInt("current-age")
		cfg.RetirementAge, _ = f.GetInt("retirement-age")
		cfg.LifeExpectancy, _ = f.GetInt("life-expectancy")
		cfg.CurrentSavings, _ = f.GetFloat64("savings")
		cfg.MonthlyContribution, _ = f.GetFloat64("contribution")
		cfg.EPFContribution, _ = f.GetFloat64("epf")
		cfg.NPSContribution, _ = f.GetFloat64("nps")
		cfg.ExpectedMonthlyExpenses, _ = f.GetFloat64("expenses")
		cfg.PreRetirementReturn, _ = f.GetFloat64("pre-return")
		cfg.PostRetirementReturn, _ = f.GetFloat64("post-return")
		cfg.InflationRate, _ = f.GetFloat64("inflation")
		strategy, _ := f.GetString("strategy")
		cfg.WithdrawalStrategy = domain.WithdrawalStrategy(strategy)

		if err := config.NewInputParser().ValidateRetirementConfig(cfg); err != nil {
			return fmt.Errorf("invalid retirement inputs: %w", err)
		}

		result, err := calculation.SimulateRetirement(cfg)
		if err != nil {
			return err
		}

		return writeQuick(cmd, &domain.PlanResults{
			Retirement: []domain.NamedRetirementResult{{Name: string(cfg.WithdrawalStrategy), Result: result}},
		})
	},
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Solve the monthly investment needed to reach a savings goal",
	Example: `  finplan goal --target 5000000 --savings 1000000 --years 5
  finplan goal --target 2500000 --years 8 --inflation 5 --return 10 -f json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var cfg domain.GoalConfig
		cfg.TargetAmount, _ = f.GetFloat64("target")
		cfg.CurrentSavings, _ = f.GetFloat64("savings")
		cfg.TimeframeYears, _ = f.GetInt("years")
		cfg.InflationRate, _ = f.GetFloat64("inflation")
		cfg.ExpectedReturn, _ = f.GetFloat64("return")

		if err := config.NewInputParser().ValidateGoalConfig(cfg); err != nil {
			return fmt.Errorf("invalid goal inputs: %w", err)
		}

		name, _ := f.GetString("name")
		return writeQuick(cmd, &domain.PlanResults{
			Goals: []domain.NamedGoalResult{{Name: name, Result: calculation.SolveGoal(cfg)}},
		})
	},
}

func writeQuick(cmd *cobra.Command, results *domain.PlanResults) error {
	currency, _ := cmd.Flags().GetString("currency")
	results.Currency = currency
	format, _ := cmd.Flags().GetString("format")
	return writeResults(cmd, results, format, "")
}

func addQuickOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, csv, detailed-csv, json, html)")
	cmd.Flags().String("currency", domain.DefaultCurrency, "Currency symbol used for display")
}

func init() {
	growCmd.Flags().Float64("principal", 100000, "Starting amount")
	growCmd.Flags().Float64("contribution", 10000, "Contribution added every period")
	growCmd.Flags().Float64("rate", 12, "Annual return in percent")
	growCmd.Flags().Int("periods", 12, "Compounding periods per year")
	growCmd.Flags().Int("years", 10, "Projection horizon in years")
	growCmd.Flags().Float64("inflation", 0, "Inflation in percent for the real value column (0 disables it)")
	addQuickOutputFlags(growCmd)

	retireCmd.Flags().Int("current-age", 30, "Current age")
	retireCmd.Flags().Int("retirement-age", 60, "Age at which contributions stop")
	retireCmd.Flags().Int("life-expectancy", 85, "Last age the plan must fund")
	retireCmd.Flags().Float64("savings", 1000000, "Current savings")
	retireCmd.Flags().Float64("contribution", 20000, "Monthly investment")
	retireCmd.Flags().Float64("epf", 1800, "Monthly EPF contribution")
	retireCmd.Flags().Float64("nps", 5000, "Monthly NPS contribution")
	retireCmd.Flags().Float64("expenses", 50000, "Monthly expenses in today's money")
	retireCmd.Flags().Float64("pre-return", 12, "Annual return before retirement in percent")
	retireCmd.Flags().Float64("post-return", 7, "Annual return after retirement in percent")
	retireCmd.Flags().Float64("inflation", 6, "Annual inflation in percent")
	retireCmd.Flags().String("strategy", string(domain.Withdraw4Percent), "Withdrawal strategy (4percent, 5percent, 6percent, dynamic)")
	addQuickOutputFlags(retireCmd)

	goalCmd.Flags().String("name", "Goal", "Goal name used in the report")
	goalCmd.Flags().Float64("target", 5000000, "Goal amount in today's money")
	goalCmd.Flags().Float64("savings", 1000000, "Savings already set aside")
	goalCmd.Flags().Int("years", 5, "Years until the goal")
	goalCmd.Flags().Float64("inflation", 6, "Annual inflation in percent")
	goalCmd.Flags().Float64("return", 12, "Expected annual return in percent")
	addQuickOutputFlags(goalCmd)

	rootCmd.AddCommand(growCmd)
	rootCmd.AddCommand(retireCmd)
	rootCmd.AddCommand(goalCmd)
}
