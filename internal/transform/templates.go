package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common retirement what-ifs
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Retirement timing
	for _, years := range []int{1, 3, 5} {
		registry.Register(Template{
			Name:        fmt.Sprintf("postpone_%dyr", years),
			Description: fmt.Sprintf("Postpone retirement by %d year(s)", years),
			Transforms:  []ScenarioTransform{&PostponeRetirement{Years: years}},
		})
	}

	registry.Register(Template{
		Name:        "live_to_95",
		Description: "Plan for living to 95",
		Transforms:  []ScenarioTransform{&SetLifeExpectancy{Age: 95}},
	})

	// Withdrawal strategies
	strategyDescriptions := map[domain.WithdrawalStrategy]string{
		domain.Withdraw4Percent: "Withdraw 4% of the corpus in year one, inflation adjusted",
		domain.Withdraw5Percent: "Withdraw 5% of the corpus in year one, inflation adjusted",
		domain.Withdraw6Percent: "Withdraw 6% of the corpus in year one, inflation adjusted",
		domain.WithdrawDynamic:  "Withdraw the income need, capped at 5% of what remains",
	}
	for _, s := range domain.WithdrawalStrategies() {
		name := "strategy_dynamic"
		if rate, ok := s.FixedRate(); ok {
			name = fmt.Sprintf("strategy_%.0fpct", rate*100)
		}
		registry.Register(Template{
			Name:        name,
			Description: strategyDescriptions[s],
			Transforms:  []ScenarioTransform{&SetWithdrawalStrategy{Strategy: s}},
		})
	}

	// Saving more
	registry.Register(Template{
		Name:        "save_more_5k",
		Description: "Invest 5,000 more every month",
		Transforms:  []ScenarioTransform{&AdjustContribution{Delta: 5000}},
	})
	registry.Register(Template{
		Name:        "save_more_10k",
		Description: "Invest 10,000 more every month",
		Transforms:  []ScenarioTransform{&AdjustContribution{Delta: 10000}},
	})

	// Market and cost assumptions
	registry.Register(Template{
		Name:        "conservative",
		Description: "Returns 2 points lower, dynamic withdrawals",
		Transforms: []ScenarioTransform{
			&AdjustReturns{PreDelta: -2, PostDelta: -2},
			&SetWithdrawalStrategy{Strategy: domain.WithdrawDynamic},
		},
	})
	registry.Register(Template{
		Name:        "aggressive",
		Description: "Returns 2 points higher, 6% withdrawals",
		Transforms: []ScenarioTransform{
			&AdjustReturns{PreDelta: 2, PostDelta: 2},
			&SetWithdrawalStrategy{Strategy: domain.Withdraw6Percent},
		},
	})
	registry.Register(Template{
		Name:        "high_inflation",
		Description: "Inflation at 8%",
		Transforms:  []ScenarioTransform{&SetInflation{Rate: 8}},
	})
	registry.Register(Template{
		Name:        "lean_retirement",
		Description: "Spend 20% less in retirement",
		Transforms:  []ScenarioTransform{&AdjustExpenses{Percent: -20}},
	})

	// Combinations
	registry.Register(Template{
		Name:        "postpone_3yr_save_more_5k",
		Description: "Postpone retirement 3 years and invest 5,000 more every month",
		Transforms: []ScenarioTransform{
			&PostponeRetirement{Years: 3},
			&AdjustContribution{Delta: 5000},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base scenario
func ApplyTemplate(base *domain.RetirementScenario, template Template) (*domain.RetirementScenario, error) {
	if len(template.Transforms) == 0 {
		return base.DeepCopy(), nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	order := []string{"Retirement Timing", "Withdrawal Strategies", "Saving", "Assumptions", "Combination Strategies"}
	categories := map[string][]Template{}

	for _, name := range registry.List() {
		template := registry.templates[name]
		var category string
		switch {
		case strings.Count(name, "_") > 2:
			category = "Combination Strategies"
		case strings.HasPrefix(name, "postpone_"), strings.HasPrefix(name, "live_to_"):
			category = "Retirement Timing"
		case strings.HasPrefix(name, "strategy_"):
			category = "Withdrawal Strategies"
		case strings.HasPrefix(name, "save_more_"):
			category = "Saving"
		default:
			category = "Assumptions"
		}
		categories[category] = append(categories[category], template)
	}

	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-28s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  finplan compare plan.yaml --base Base --with postpone_3yr,strategy_dynamic\n")
	sb.WriteString("  finplan compare plan.yaml --base Base --with conservative,aggressive\n")

	return sb.String()
}
