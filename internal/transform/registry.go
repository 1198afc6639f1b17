package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry builds transforms from string parameters, as typed on the command line.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (GoalTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("postpone_target", createPostponeTarget)
	registry.Register("set_target_date", createSetTargetDate)
	registry.Register("set_step_up", percentFactory("set_step_up", func(p decimal.Decimal) GoalTransform { return &SetStepUp{Percent: p} }))
	registry.Register("set_equity", percentFactory("set_equity", func(p decimal.Decimal) GoalTransform { return &SetEquity{Percent: p} }))
	registry.Register("set_inflation", percentFactory("set_inflation", func(p decimal.Decimal) GoalTransform { return &SetInflation{Percent: p} }))
	registry.Register("scale_target", createScaleTarget)
	registry.Register("toggle_retirement_contributions", createToggleRetirementContributions)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (GoalTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the sorted names of all registered transforms.
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
// Example: "postpone_target:months=12"
func (r *TransformRegistry) ParseTransformSpec(spec string) (GoalTransform, error) {
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

// Factory functions for each transform

func createPostponeTarget(params map[string]string) (GoalTransform, error) {
	monthsStr, ok := params["months"]
	if !ok {
		return nil, fmt.Errorf("postpone_target requires 'months' parameter")
	}

	months, err := strconv.Atoi(monthsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid months value: %w", err)
	}

	return &PostponeTarget{Months: months}, nil
}

func createSetTargetDate(params map[string]string) (GoalTransform, error) {
	dateStr, ok := params["date"]
	if !ok {
		return nil, fmt.Errorf("set_target_date requires 'date' parameter")
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	return &SetTargetDate{Date: date}, nil
}

func percentFactory(name string, build func(decimal.Decimal) GoalTransform) TransformFactory {
	return func(params map[string]string) (GoalTransform, error) {
		percentStr, ok := params["percent"]
		if !ok {
			return nil, fmt.Errorf("%s requires 'percent' parameter", name)
		}

		percent, err := decimal.NewFromString(strings.TrimSuffix(percentStr, "%"))
		if err != nil {
			return nil, fmt.Errorf("invalid percent value: %w", err)
		}

		return build(percent), nil
	}
}

func createScaleTarget(params map[string]string) (GoalTransform, error) {
	factorStr, ok := params["factor"]
	if !ok {
		return nil, fmt.Errorf("scale_target requires 'factor' parameter")
	}

	factor, err := decimal.NewFromString(factorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid factor value: %w", err)
	}

	return &ScaleTarget{Factor: factor}, nil
}

func createToggleRetirementContributions(params map[string]string) (GoalTransform, error) {
	includeStr, ok := params["include"]
	if !ok {
		return nil, fmt.Errorf("toggle_retirement_contributions requires 'include' parameter")
	}

	include, err := strconv.ParseBool(includeStr)
	if err != nil {
		include = includeStr == "yes"
		if !include && includeStr != "no" {
			return nil, fmt.Errorf("invalid include value: %w", err)
		}
	}

	return &ToggleRetirementContributions{Include: include}, nil
}
