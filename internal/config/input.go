package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rgehrsitz/finplan/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan files
type InputParser struct {
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	v := validator.New()
	// Report field paths with the names used in plan files
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &InputParser{validate: v}
}

// LoadFromFile loads and validates a YAML plan file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.LoadFromBytes(data)
}

// LoadFromBytes parses and validates a YAML plan document
func (ip *InputParser) LoadFromBytes(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates a loaded plan
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config.IsEmpty() {
		return fmt.Errorf("plan has no retirement scenarios, goals or growth projections")
	}

	if err := ip.validate.Struct(config); err != nil {
		return translateValidationErrors(err)
	}

	if err := ip.validateRetirementScenarios(config.RetirementScenarios); err != nil {
		return fmt.Errorf("retirement scenarios validation failed: %w", err)
	}
	if err := validateUniqueNames("goals", len(config.Goals), func(i int) string { return config.Goals[i].Name }); err != nil {
		return err
	}
	if err := validateUniqueNames("growth_projections", len(config.GrowthProjections), func(i int) string { return config.GrowthProjections[i].Name }); err != nil {
		return err
	}
	return nil
}

// ValidateRetirementConfig validates a single retirement configuration
// outside a plan file, e.g. one built from CLI flags.
func (ip *InputParser) ValidateRetirementConfig(cfg domain.RetirementConfig) error {
	if err := ip.validate.Struct(cfg); err != nil {
		return translateValidationErrors(err)
	}
	return validateAgeOrdering(cfg)
}

// ValidateProjectionInput validates a single growth projection input
func (ip *InputParser) ValidateProjectionInput(in domain.ProjectionInput) error {
	if err := ip.validate.Struct(in); err != nil {
		return translateValidationErrors(err)
	}
	return nil
}

// ValidateGoalConfig validates a single goal. Only the bounds are checked:
// a goal without a target or timeframe is still solvable to an empty result.
func (ip *InputParser) ValidateGoalConfig(cfg domain.GoalConfig) error {
	if err := ip.validate.Struct(cfg); err != nil {
		return translateValidationErrors(err)
	}
	return nil
}

func (ip *InputParser) validateRetirementScenarios(scenarios []domain.RetirementScenario) error {
	if err := validateUniqueNames("retirement_scenarios", len(scenarios), func(i int) string { return scenarios[i].Name }); err != nil {
		return err
	}
	for i, scenario := range scenarios {
		if err := validateAgeOrdering(scenario.RetirementConfig); err != nil {
			return fmt.Errorf("scenario %d (%s): %w", i, scenario.Name, err)
		}
	}
	return nil
}

func validateAgeOrdering(cfg domain.RetirementConfig) error {
	if cfg.CurrentAge > cfg.RetirementAge {
		return fmt.Errorf("retirement_age (%d) cannot be before current_age (%d)", cfg.RetirementAge, cfg.CurrentAge)
	}
	if cfg.RetirementAge > cfg.LifeExpectancy {
		return fmt.Errorf("life_expectancy (%d) cannot be before retirement_age (%d)", cfg.LifeExpectancy, cfg.RetirementAge)
	}
	return nil
}

func validateUniqueNames(section string, n int, name func(int) string) error {
	seen := make(map[string]int, n)
	for i := 0; i < n; i++ {
		if prev, dup := seen[name(i)]; dup {
			return fmt.Errorf("%s: duplicate name %q at positions %d and %d", section, name(i), prev, i)
		}
		seen[name(i)] = i
	}
	return nil
}

// ValidationError describes one rejected field
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects every field-level problem found in a plan
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Field + ": " + e.Message
	}
	return strings.Join(msgs, "; ")
}

func translateValidationErrors(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: translateValidationError(fe),
		})
	}
	return out
}

// fieldPath drops the root type name from a validator namespace and the
// names of embedded structs
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	kept := parts[:0]
	for _, p := range parts {
		switch p {
		case "RetirementConfig", "GoalConfig", "ProjectionInput":
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}

func translateValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed '%s' validation", fe.Tag())
	}
}
