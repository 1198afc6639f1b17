package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages named what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []GoalTransform
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
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
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

// CreateBuiltInTemplates creates a template registry with common what-if questions
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "delay_1yr",
		Description: "Push the target date out by 1 year",
		Transforms:  []GoalTransform{&PostponeTarget{Months: 12}},
	})

	registry.Register(Template{
		Name:        "delay_3yr",
		Description: "Push the target date out by 3 years",
		Transforms:  []GoalTransform{&PostponeTarget{Months: 36}},
	})

	registry.Register(Template{
		Name:        "step_up_5",
		Description: "Raise the monthly contribution 5% every year",
		Transforms:  []GoalTransform{&SetStepUp{Percent: decimal.NewFromInt(5)}},
	})

	registry.Register(Template{
		Name:        "step_up_10",
		Description: "Raise the monthly contribution 10% every year",
		Transforms:  []GoalTransform{&SetStepUp{Percent: decimal.NewFromInt(10)}},
	})

	registry.Register(Template{
		Name:        "conservative",
		Description: "Start with 40% equity",
		Transforms:  []GoalTransform{&SetEquity{Percent: decimal.NewFromInt(40)}},
	})

	registry.Register(Template{
		Name:        "aggressive",
		Description: "Start with 80% equity",
		Transforms:  []GoalTransform{&SetEquity{Percent: decimal.NewFromInt(80)}},
	})

	registry.Register(Template{
		Name:        "delay_1yr_step_up_5",
		Description: "Push the target out 1 year and step up 5% a year",
		Transforms: []GoalTransform{
			&PostponeTarget{Months: 12},
			&SetStepUp{Percent: decimal.NewFromInt(5)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base goal
func ApplyTemplate(base *domain.Goal, template Template) (*domain.Goal, error) {
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

	categories := map[string][]Template{}
	order := []string{"Timing", "Contribution Growth", "Allocation", "Combinations"}
	for _, name := range registry.List() {
		t := registry.templates[name]
		switch {
		case strings.Contains(name, "delay_") && strings.Contains(name, "step_up_"):
			categories["Combinations"] = append(categories["Combinations"], t)
		case strings.HasPrefix(name, "delay_"):
			categories["Timing"] = append(categories["Timing"], t)
		case strings.HasPrefix(name, "step_up_"):
			categories["Contribution Growth"] = append(categories["Contribution Growth"], t)
		case name == "conservative" || name == "aggressive":
			categories["Allocation"] = append(categories["Allocation"], t)
		default:
			categories["Combinations"] = append(categories["Combinations"], t)
		}
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")
	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-24s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  sipgo compare plan.yaml --goal education --with delay_1yr,step_up_10\n")
	sb.WriteString("  sipgo compare plan.yaml --goal retirement --with conservative,aggressive\n")

	return sb.String()
}
