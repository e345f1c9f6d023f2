package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/logging"
	"github.com/rgehrsitz/finplan/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "finplan",
	Short: "Personal finance projection CLI",
	Long: `Projects investment growth, simulates retirement and solves savings goals.

Plans are YAML files holding any number of retirement scenarios, goals and
growth projections. Rates are whole percentages (12 means 12%).`,
	SilenceUsage: true,
}

// newLogger builds the CLI logger; warnings only unless debug is set
func newLogger(cmd *cobra.Command, debugMode bool) zerolog.Logger {
	level := "warn"
	if debugMode {
		level = "debug"
	}
	log, err := logging.New(logging.Options{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
	if err != nil {
		return zerolog.Nop()
	}
	return log
}

func newEngine(cmd *cobra.Command) *calculation.CalculationEngine {
	debugMode, _ := cmd.Flags().GetBool("debug")
	engine := calculation.NewCalculationEngine()
	engine.SetLogger(logging.NewCalcLogger(logging.Component(newLogger(cmd, debugMode), "engine")))
	engine.Debug = debugMode
	return engine
}

func loadPlan(path string) (*domain.Configuration, error) {
	plan, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return plan, nil
}

// findScenario returns the named retirement scenario, or the first one
// when name is empty
func findScenario(plan *domain.Configuration, name string) (*domain.RetirementScenario, error) {
	if name == "" {
		if len(plan.RetirementScenarios) == 0 {
			return nil, fmt.Errorf("plan %q has no retirement scenarios", plan.Name)
		}
		return &plan.RetirementScenarios[0], nil
	}
	scenario, ok := plan.FindRetirementScenario(name)
	if !ok {
		return nil, fmt.Errorf("retirement scenario %q not found in plan", name)
	}
	return scenario, nil
}

// writeResults renders results with the named formatter to outPath, or to
// the command output when outPath is empty
func writeResults(cmd *cobra.Command, results *domain.PlanResults, format, outPath string) error {
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unknown output format %q (valid: %v)", format, output.AvailableFormatterNames())
	}
	if outPath != "" {
		if err := output.WriteFormattedTo(f, results, outPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", outPath)
		return nil
	}
	// Binary formats go to a generated file rather than the terminal
	if f.Name() == "pdf" {
		name, err := output.WriteFormatted(f, results, output.FileExtension(f))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", name)
		return nil
	}
	data, err := f.Format(results)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [plan-file]",
	Short: "Evaluate every scenario, goal and projection in a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		results, err := newEngine(cmd).RunPlan(cmd.Context(), plan)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")
		return writeResults(cmd, results, format, outPath)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadPlan(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plan file %s is valid\n", args[0])
		return nil
	},
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, csv, detailed-csv, json, html, pdf)")
	calculateCmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	calculateCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
