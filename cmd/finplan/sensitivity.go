package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/logging"
	"github.com/rgehrsitz/finplan/internal/output"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [plan-file]",
	Short: "Sweep one or two inputs of a retirement scenario",
	Long: `Perform sensitivity analysis to test how robust a retirement plan is to input changes.

Parameters: pre_retirement_return, post_retirement_return, inflation_rate,
monthly_contribution, expected_monthly_expenses, retirement_age.
Without --min/--max a parameter uses its default range.

Examples:
  # Single parameter sweep
  finplan sensitivity plan.yaml --param inflation_rate --min 3 --max 8 --steps 6

  # Matrix analysis
  finplan sensitivity plan.yaml --param retirement_age --param2 post_retirement_return

  # CSV output for a named scenario
  finplan sensitivity plan.yaml --scenario Base --param monthly_contribution -f csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSensitivityAnalysis,
}

func runSensitivityAnalysis(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	scenarioName, _ := cmd.Flags().GetString("scenario")
	scenario, err := findScenario(plan, scenarioName)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	name, _ := f.GetString("param")
	param, err := buildParameter(name,
		optionalDecimal(cmd, "min"), optionalDecimal(cmd, "max"), optionalInt(cmd, "steps"))
	if err != nil {
		return err
	}

	debugMode, _ := f.GetBool("debug")
	analyzer := calculation.NewSensitivityAnalyzer()
	analyzer.Logger = logging.NewCalcLogger(logging.Component(newLogger(cmd, debugMode), "sensitivity"))

	var analysis any
	if name2, _ := f.GetString("param2"); name2 != "" {
		param2, err := buildParameter(name2,
			optionalDecimal(cmd, "min2"), optionalDecimal(cmd, "max2"), optionalInt(cmd, "steps2"))
		if err != nil {
			return err
		}
		analysis, err = analyzer.AnalyzeParameterMatrix(cmd.Context(), scenario, param, param2)
		if err != nil {
			return fmt.Errorf("sensitivity analysis failed: %w", err)
		}
	} else {
		analysis, err = analyzer.AnalyzeSingleParameter(cmd.Context(), scenario, param)
		if err != nil {
			return fmt.Errorf("sensitivity analysis failed: %w", err)
		}
	}

	format, _ := f.GetString("format")
	out, err := output.NewSensitivityFormatter(format, plan.CurrencySymbol()).FormatSensitivityAnalysis(analysis)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// buildParameter starts from the default sweep for name and applies any
// overrides. Parameters without a default sweep need both bounds.
func buildParameter(name string, minValue, maxValue *decimal.Decimal, steps *int) (domain.SensitivityParameter, error) {
	param, ok := domain.LookupCommonParameter(name)
	if !ok {
		if name != domain.ParamExpectedMonthlyExpenses {
			return param, fmt.Errorf("unknown sensitivity parameter %q (valid: %s)", name, strings.Join(parameterNames(), ", "))
		}
		if minValue == nil || maxValue == nil {
			return param, fmt.Errorf("%s has no default range, set --min and --max", name)
		}
		param = domain.SensitivityParameter{
			Name:        name,
			Steps:       5,
			Unit:        "currency",
			Description: "Monthly expenses in today's money",
		}
	}

	if minValue != nil {
		param.MinValue = *minValue
	}
	if maxValue != nil {
		param.MaxValue = *maxValue
	}
	if steps != nil {
		param.Steps = *steps
	}

	if param.Steps < 1 {
		return param, fmt.Errorf("steps must be at least 1, got %d", param.Steps)
	}
	if param.MaxValue.LessThan(param.MinValue) {
		return param, fmt.Errorf("max (%s) must not be below min (%s)", param.MaxValue, param.MinValue)
	}
	return param, nil
}

func parameterNames() []string {
	var names []string
	for _, p := range domain.GetCommonParameters() {
		names = append(names, p.Name)
	}
	return append(names, domain.ParamExpectedMonthlyExpenses)
}

func optionalDecimal(cmd *cobra.Command, flag string) *decimal.Decimal {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(flag)
	d := decimal.NewFromFloat(v)
	return &d
}

func optionalInt(cmd *cobra.Command, flag string) *int {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(flag)
	return &v
}

func init() {
	f := sensitivityCmd.Flags()
	f.String("scenario", "", "Retirement scenario to analyze (default: first scenario in the plan)")
	f.String("param", domain.ParamInflationRate, "Parameter to sweep")
	f.Float64("min", 0, "Lowest value of the sweep")
	f.Float64("max", 0, "Highest value of the sweep")
	f.Int("steps", 0, "Number of values in the sweep, endpoints included")
	f.String("param2", "", "Second parameter; runs a matrix analysis")
	f.Float64("min2", 0, "Lowest value of the second sweep")
	f.Float64("max2", 0, "Highest value of the second sweep")
	f.Int("steps2", 0, "Number of values in the second sweep")
	f.StringP("format", "f", "console", "Output format (console, csv, json)")
	f.Bool("debug", false, "Enable debug output")

	rootCmd.AddCommand(sensitivityCmd)
}
