package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/sipgo/internal/transform"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.goalsModel.SetSize(msg.Width, msg.Height)
		m.detailModel.SetSize(msg.Width, msg.Height)
		m.compareModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		m.config = msg.Config
		m.calcEngine = m.engineFor(msg.Config)
		m.loading = true
		m.loadingMessage = "Projecting goals..."
		return m, projectAllCmd(m.calcEngine, m.config)

	case ProjectionsCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.results = msg.Results
		m.goalsModel.SetGoals(m.config.Goals, m.results)
		return m, nil

	case GoalSelectedMsg:
		goal, ok := m.config.FindGoal(msg.GoalID)
		result, found := m.resultFor(msg.GoalID)
		if !ok || !found {
			return m, nil
		}
		m.detailModel.SetGoal(*goal, result, m.calcEngine.Schedule(goal, result, m.config.ReturnAssumptions))
		m.previousScene = m.currentScene
		m.currentScene = SceneDetail
		return m, nil

	case GoalEditedMsg:
		goal, ok := m.config.FindGoal(msg.GoalID)
		if !ok {
			return m, nil
		}
		modified, err := transform.ApplyTransforms(goal, []transform.GoalTransform{msg.Transform})
		if err != nil {
			m.err = err
			return m, nil
		}
		// Commands still running hold the previous plan
		m.config = m.config.WithGoal(*modified)
		return m, projectGoalCmd(m.calcEngine, m.config, *modified)

	case GoalProjectedMsg:
		for i := range m.results {
			if m.results[i].GoalID == msg.Result.GoalID {
				m.results[i] = msg.Result
			}
		}
		m.goalsModel.SetResult(msg.Goal, msg.Result)
		m.detailModel.SetGoal(msg.Goal, msg.Result, msg.Schedule)
		return m, nil

	case CompareRequestedMsg:
		m.loading = true
		m.loadingMessage = "Comparing what-if scenarios..."
		return m, compareCmd(m.calcEngine, m.config, msg.GoalID)

	case ComparisonCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.compareModel.SetComparison(msg.Comparison)
		m.previousScene = m.currentScene
		m.currentScene = SceneCompare
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key dismisses an error
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	// The edit prompt owns the keyboard while it has focus
	if m.currentScene == SceneDetail && m.detailModel.Editing() {
		return m.updateCurrentScene(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		if m.currentScene != SceneHelp {
			m.previousScene = m.currentScene
			m.currentScene = SceneHelp
		}
		return m, nil

	case "esc":
		m.currentScene = m.parentScene()
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// parentScene is where esc leads from the current scene
func (m Model) parentScene() Scene {
	switch m.currentScene {
	case SceneCompare:
		return SceneDetail
	case SceneHelp:
		return m.previousScene
	default:
		return SceneGoals
	}
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneGoals:
		m.goalsModel, cmd = m.goalsModel.Update(msg)
	case SceneDetail:
		m.detailModel, cmd = m.detailModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	}
	return m, cmd
}
