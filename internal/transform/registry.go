package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("postpone_retirement", createPostponeRetirement)
	registry.Register("set_retirement_age", createSetRetirementAge)
	registry.Register("set_life_expectancy", createSetLifeExpectancy)
	registry.Register("set_strategy", createSetWithdrawalStrategy)
	registry.Register("adjust_contribution", createAdjustContribution)
	registry.Register("adjust_returns", createAdjustReturns)
	registry.Register("set_inflation", createSetInflation)
	registry.Register("adjust_expenses", createAdjustExpenses)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "adjust_returns:pre=-1,post=-0.5"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func requireInt(transform string, params map[string]string, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func requireFloat(transform string, params map[string]string, key string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return parseFloat(key, raw)
}

func optionalFloat(params map[string]string, key string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, nil
	}
	return parseFloat(key, raw)
}

func parseFloat(key, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// Factory functions for each transform

func createPostponeRetirement(params map[string]string) (ScenarioTransform, error) {
	years, err := requireInt("postpone_retirement", params, "years")
	if err != nil {
		return nil, err
	}
	return &PostponeRetirement{Years: years}, nil
}

func createSetRetirementAge(params map[string]string) (ScenarioTransform, error) {
	age, err := requireInt("set_retirement_age", params, "age")
	if err != nil {
		return nil, err
	}
	return &SetRetirementAge{Age: age}, nil
}

func createSetLifeExpectancy(params map[string]string) (ScenarioTransform, error) {
	age, err := requireInt("set_life_expectancy", params, "age")
	if err != nil {
		return nil, err
	}
	return &SetLifeExpectancy{Age: age}, nil
}

func createSetWithdrawalStrategy(params map[string]string) (ScenarioTransform, error) {
	raw, ok := params["strategy"]
	if !ok {
		return nil, fmt.Errorf("set_strategy requires 'strategy' parameter")
	}
	strategy, err := domain.ParseWithdrawalStrategy(raw)
	if err != nil {
		return nil, err
	}
	return &SetWithdrawalStrategy{Strategy: strategy}, nil
}

func createAdjustContribution(params map[string]string) (ScenarioTransform, error) {
	delta, err := requireFloat("adjust_contribution", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustContribution{Delta: delta}, nil
}

func createAdjustReturns(params map[string]string) (ScenarioTransform, error) {
	_, hasPre := params["pre"]
	_, hasPost := params["post"]
	if !hasPre && !hasPost {
		return nil, fmt.Errorf("adjust_returns requires 'pre' or 'post' parameter")
	}

	pre, err := optionalFloat(params, "pre")
	if err != nil {
		return nil, err
	}
	post, err := optionalFloat(params, "post")
	if err != nil {
		return nil, err
	}
	return &AdjustReturns{PreDelta: pre, PostDelta: post}, nil
}

func createSetInflation(params map[string]string) (ScenarioTransform, error) {
	rate, err := requireFloat("set_inflation", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetInflation{Rate: rate}, nil
}

func createAdjustExpenses(params map[string]string) (ScenarioTransform, error) {
	percent, err := requireFloat("adjust_expenses", params, "percent")
	if err != nil {
		return nil, err
	}
	return &AdjustExpenses{Percent: percent}, nil
}
