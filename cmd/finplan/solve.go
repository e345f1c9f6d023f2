package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/breakeven"
)

var solveCmd = &cobra.Command{
	Use:   "solve [plan-file]",
	Short: "Find the break-even value of a retirement input",
	Long: `Find the break-even value of a retirement input for a scenario.

Targets:
  monthly_contribution  smallest monthly investment that meets the goal
  retirement_age        earliest retirement age that meets the goal
  withdrawal_rate       highest initial withdrawal rate that meets the goal
  all                   every target above

Goals:
  funds_last            the corpus outlives life expectancy
  cover_income          funds last and year one withdrawals cover the income need
  target_confidence     the confidence score reaches --target-confidence

Examples:
  finplan solve plan.yaml --target retirement_age
  finplan solve plan.yaml --scenario Base --target monthly_contribution --goal target_confidence --target-confidence 85
  finplan solve plan.yaml --target all -f json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		f := cmd.Flags()
		scenarioName, _ := f.GetString("scenario")
		scenario, err := findScenario(plan, scenarioName)
		if err != nil {
			return err
		}

		target, _ := f.GetString("target")
		goal, _ := f.GetString("goal")
		format, _ := f.GetString("format")

		constraints := breakeven.DefaultConstraints()
		if f.Changed("target-confidence") {
			v, _ := f.GetInt("target-confidence")
			constraints.TargetConfidence = &v
		}
		if f.Changed("min-age") {
			v, _ := f.GetInt("min-age")
			constraints.MinRetirementAge = &v
		}
		if f.Changed("max-age") {
			v, _ := f.GetInt("max-age")
			constraints.MaxRetirementAge = &v
		}

		solver := breakeven.NewDefaultSolver(newEngine(cmd))
		solver.Currency = plan.CurrencySymbol()
		table := &breakeven.TableFormatter{Currency: plan.CurrencySymbol()}
		jf := &breakeven.JSONFormatter{Pretty: true}

		var out string
		if breakeven.OptimizationTarget(target) == breakeven.OptimizeAll {
			result, err := solver.OptimizeMultiDimensional(cmd.Context(), scenario, constraints, breakeven.OptimizationGoal(goal))
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "json":
				if out, err = jf.FormatMultiDimensional(result); err != nil {
					return err
				}
			case "table", "console", "":
				out = table.FormatMultiDimensional(result)
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
			}
		} else {
			result, err := solver.Optimize(cmd.Context(), breakeven.OptimizationRequest{
				BaseScenario: scenario,
				Target:       breakeven.OptimizationTarget(target),
				Goal:         breakeven.OptimizationGoal(goal),
				Constraints:  constraints,
			})
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "json":
				if out, err = jf.Format(result); err != nil {
					return err
				}
			case "table", "console", "":
				out = table.Format(result)
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	f := solveCmd.Flags()
	f.String("scenario", "", "Retirement scenario to solve (default: first scenario in the plan)")
	f.String("target", string(breakeven.OptimizeRetirementAge), "What to solve for (monthly_contribution, retirement_age, withdrawal_rate, all)")
	f.String("goal", "", "Success criterion (funds_last, cover_income, target_confidence); default depends on the target")
	f.Int("target-confidence", 90, "Confidence score required by the target_confidence goal")
	f.Int("min-age", 0, "Earliest retirement age to consider")
	f.Int("max-age", 0, "Latest retirement age to consider")
	f.StringP("format", "f", "table", "Output format (table, json)")
	f.Bool("debug", false, "Enable debug output")

	rootCmd.AddCommand(solveCmd)
}
