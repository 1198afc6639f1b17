package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/transform"
)

// CompareEngine orchestrates what-if comparison for a single goal
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	GoalID     string   // Goal to compare
	Templates  []string // Template names to apply, one alternative each
	Transforms []string // Ad-hoc transform specs ("name:k=v"), one alternative each
	AsOf       time.Time
}

// Compare projects the base goal and each requested alternative as of the same instant
func (ce *CompareEngine) Compare(
	ctx context.Context,
	config *domain.Configuration,
	options CompareOptions,
) (*ComparisonSet, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration is nil")
	}

	base, ok := config.FindGoal(options.GoalID)
	if !ok {
		return nil, fmt.Errorf("goal %s not found in configuration", options.GoalID)
	}

	asOf := options.AsOf
	if asOf.IsZero() {
		asOf = ce.CalcEngine.Now()
	}
	registry := config.AssetRegistry()

	project := func(name string, goal *domain.Goal) ComparisonResult {
		projection := ce.CalcEngine.ProjectAt(goal, config.ReturnAssumptions, registry, config.RetirementContributions, asOf)
		schedule := ce.CalcEngine.Schedule(goal, projection, config.ReturnAssumptions)
		return ce.MetricsCalculator.CalculateMetrics(name, goal, projection, schedule)
	}

	baseResult := project(base.ID, base)
	baseResult.Description = "Plan as configured"

	alternatives := []ComparisonResult{}
	addAlternative := func(name, description string, apply func(*domain.Goal) (*domain.Goal, error)) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		modified, err := apply(base)
		if err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}

		altResult := project(base.ID+"_"+name, modified)
		altResult.Description = description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
		return nil
	}

	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}
		applyTemplate := func(g *domain.Goal) (*domain.Goal, error) { return transform.ApplyTemplate(g, template) }
		if err := addAlternative(template.Name, template.Description, applyTemplate); err != nil {
			return nil, err
		}
	}

	for _, spec := range options.Transforms {
		t, err := ce.TransformRegistry.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}
		applyTransform := func(g *domain.Goal) (*domain.Goal, error) {
			return transform.ApplyTransforms(g, []transform.GoalTransform{t})
		}
		if err := addAlternative(t.Name(), t.Description(), applyTransform); err != nil {
			return nil, err
		}
	}

	compSet := &ComparisonSet{
		GoalID:             base.ID,
		BaseScenarioName:   base.DisplayName(),
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}

	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
