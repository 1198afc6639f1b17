// Package tui is an interactive terminal view of a plan's goals built on
// Bubble Tea.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/transform"
	"github.com/rgehrsitz/sipgo/internal/tui/scenes"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Configuration and data
	configPath string
	config     *domain.Configuration
	results    []domain.ProjectionResult

	calcEngine *calculation.CalculationEngine

	goalsModel   *scenes.GoalsModel
	detailModel  *scenes.GoalDetailModel
	compareModel *scenes.CompareModel

	err error

	loading        bool
	loadingMessage string
}

// NewModel creates a new application model. engine supplies the clock,
// logger and default settings; the plan's engine overrides are applied on load.
func NewModel(configPath string, engine *calculation.CalculationEngine) Model {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	return Model{
		currentScene:   SceneGoals,
		configPath:     configPath,
		calcEngine:     engine,
		goalsModel:     scenes.NewGoalsModel(),
		detailModel:    scenes.NewGoalDetailModel(),
		compareModel:   scenes.NewCompareModel(),
		width:          100,
		height:         30,
		loading:        true,
		loadingMessage: "Loading plan...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.configPath)
}

// loadConfigCmd returns a command that loads the plan file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Config: cfg}
	}
}

// projectAllCmd projects every goal of the plan
func projectAllCmd(engine *calculation.CalculationEngine, cfg *domain.Configuration) tea.Cmd {
	return func() tea.Msg {
		results, err := engine.ProjectAll(context.Background(), cfg)
		return ProjectionsCompleteMsg{Results: results, Err: err}
	}
}

// projectGoalCmd re-projects a single goal after an edit
func projectGoalCmd(engine *calculation.CalculationEngine, cfg *domain.Configuration, goal domain.Goal) tea.Cmd {
	returns := cfg.ReturnAssumptions
	registry := cfg.AssetRegistry()
	rc := cfg.RetirementContributions
	return func() tea.Msg {
		result := engine.Project(&goal, returns, registry, rc)
		return GoalProjectedMsg{
			Goal:     goal,
			Result:   result,
			Schedule: engine.Schedule(&goal, result, returns),
		}
	}
}

// compareCmd runs every built-in what-if template against a goal
func compareCmd(engine *calculation.CalculationEngine, cfg *domain.Configuration, goalID string) tea.Cmd {
	return func() tea.Msg {
		ce := compare.NewCompareEngine(engine)
		set, err := ce.Compare(context.Background(), cfg, compare.CompareOptions{
			GoalID:    goalID,
			Templates: transform.CreateBuiltInTemplates().List(),
		})
		return ComparisonCompleteMsg{Comparison: set, Err: err}
	}
}

// engineFor returns the model's engine with the plan's overrides applied
func (m Model) engineFor(cfg *domain.Configuration) *calculation.CalculationEngine {
	eng := *m.calcEngine
	eng.Settings = cfg.Engine.Apply(m.calcEngine.Settings)
	return &eng
}

// resultFor returns the current projection of a goal
func (m Model) resultFor(goalID string) (domain.ProjectionResult, bool) {
	for _, r := range m.results {
		if r.GoalID == goalID {
			return r, true
		}
	}
	return domain.ProjectionResult{}, false
}

// Scene returns the scene on display
func (m Model) Scene() Scene {
	return m.currentScene
}

// Config returns the plan as currently edited
func (m Model) Config() *domain.Configuration {
	return m.config
}

// Results returns the current projection of every goal
func (m Model) Results() []domain.ProjectionResult {
	return m.results
}

// Err returns the error on display, if any
func (m Model) Err() error {
	return m.err
}
