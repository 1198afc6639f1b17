package tui

import "github.com/rgehrsitz/sipgo/internal/tui/tuimsg"

// Scene represents different screens in the TUI
type Scene int

const (
	SceneGoals Scene = iota
	SceneDetail
	SceneCompare
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneGoals:
		return "Goals"
	case SceneDetail:
		return "Goal"
	case SceneCompare:
		return "What-if"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// Messages produced by scenes, re-exported for callers of this package
type (
	ConfigLoadedMsg        = tuimsg.ConfigLoadedMsg
	ErrorMsg               = tuimsg.ErrorMsg
	ProjectionsCompleteMsg = tuimsg.ProjectionsCompleteMsg
	GoalSelectedMsg        = tuimsg.GoalSelectedMsg
	GoalEditedMsg          = tuimsg.GoalEditedMsg
	GoalProjectedMsg       = tuimsg.GoalProjectedMsg
	CompareRequestedMsg    = tuimsg.CompareRequestedMsg
	ComparisonCompleteMsg  = tuimsg.ComparisonCompleteMsg
)
