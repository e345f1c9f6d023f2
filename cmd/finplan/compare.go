package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/transform"
)

const customTemplateName = "custom"

var compareCmd = &cobra.Command{
	Use:   "compare [plan-file]",
	Short: "Compare a retirement scenario against alternative strategies",
	Long: `Compare a base retirement scenario against alternative strategies.

Alternatives come from built-in templates (--with), from other scenarios in
the plan (--scenarios) or from ad hoc transforms (--transform).

Examples:
  finplan compare plan.yaml --base Base --with postpone_3yr,strategy_dynamic
  finplan compare plan.yaml --base Base --scenarios Aggressive,Conservative -f csv
  finplan compare plan.yaml --base Base --transform "adjust_contribution:delta=5000;set_inflation:rate=7"
  finplan compare --list-templates`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if listTemplates, _ := cmd.Flags().GetBool("list-templates"); listTemplates {
			fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
			fmt.Fprintf(cmd.OutOrStdout(), "\nTransforms for --transform: %s\n",
				strings.Join(transform.NewTransformRegistry().List(), ", "))
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("plan file required for comparison (use --list-templates to see available templates)")
		}

		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		baseName, _ := cmd.Flags().GetString("base")
		templatesStr, _ := cmd.Flags().GetString("with")
		scenariosStr, _ := cmd.Flags().GetString("scenarios")
		transformStr, _ := cmd.Flags().GetString("transform")
		format, _ := cmd.Flags().GetString("format")

		base, err := findScenario(plan, baseName)
		if err != nil {
			return err
		}

		compareEngine := compare.NewCompareEngine(newEngine(cmd))

		var compSet *compare.ComparisonSet
		if scenariosStr != "" {
			compSet, err = compareEngine.CompareScenarios(cmd.Context(), plan, base.Name, transform.ParseTemplateList(scenariosStr))
		} else {
			templates := transform.ParseTemplateList(templatesStr)
			if transformStr != "" {
				custom, err := customTemplate(transformStr)
				if err != nil {
					return err
				}
				compareEngine.TemplateRegistry.Register(custom)
				templates = append(templates, custom.Name)
			}
			if len(templates) == 0 {
				return fmt.Errorf("--with, --scenarios or --transform is required (or use --list-templates)")
			}
			compSet, err = compareEngine.Compare(cmd.Context(), plan, compare.CompareOptions{
				BaseScenarioName: base.Name,
				Templates:        templates,
			})
		}
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}
		compSet.ConfigPath = args[0]

		var out string
		switch strings.ToLower(format) {
		case "csv":
			out, err = (&compare.CSVFormatter{}).Format(compSet)
		case "json":
			out, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
		case "compact":
			out = (&compare.TableFormatter{}).FormatCompact(compSet)
		case "table", "console", "":
			out = (&compare.TableFormatter{}).Format(compSet)
		default:
			return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// customTemplate builds a template from semicolon separated transform specs
func customTemplate(specs string) (transform.Template, error) {
	registry := transform.NewTransformRegistry()
	var transforms []transform.ScenarioTransform
	var descriptions []string
	for _, spec := range strings.Split(specs, ";") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return transform.Template{}, err
		}
		transforms = append(transforms, t)
		descriptions = append(descriptions, t.Description())
	}
	if len(transforms) == 0 {
		return transform.Template{}, fmt.Errorf("--transform has no transforms")
	}
	return transform.Template{
		Name:        customTemplateName,
		Description: strings.Join(descriptions, "; "),
		Transforms:  transforms,
	}, nil
}

func init() {
	compareCmd.Flags().String("base", "", "Base scenario name (default: first scenario in the plan)")
	compareCmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	compareCmd.Flags().String("scenarios", "", "Comma-separated list of plan scenarios to compare instead of templates")
	compareCmd.Flags().String("transform", "", "Semicolon-separated transforms applied as one extra alternative (name:key=value,...)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	compareCmd.Flags().Bool("list-templates", false, "List all available scenario templates")
	compareCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(compareCmd)
}
