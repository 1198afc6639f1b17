// Package tuimsg defines the messages scenes send back to the root model.
package tuimsg

import (
	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/transform"
)

// ConfigLoadedMsg signals the plan file has been parsed and validated
type ConfigLoadedMsg struct {
	Config *domain.Configuration
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ProjectionsCompleteMsg carries the projection of every goal in plan order
type ProjectionsCompleteMsg struct {
	Results []domain.ProjectionResult
	Err     error
}

// GoalSelectedMsg signals a goal has been picked from the list
type GoalSelectedMsg struct {
	GoalID string
}

// GoalEditedMsg asks for a goal to be changed and re-projected
type GoalEditedMsg struct {
	GoalID    string
	Transform transform.GoalTransform
}

// GoalProjectedMsg carries a fresh projection of one goal after an edit
type GoalProjectedMsg struct {
	Goal     domain.Goal
	Result   domain.ProjectionResult
	Schedule []domain.ScheduleRow
}

// CompareRequestedMsg asks for the built-in what-if templates to be run on a goal
type CompareRequestedMsg struct {
	GoalID string
}

// ComparisonCompleteMsg signals a comparison has finished
type ComparisonCompleteMsg struct {
	Comparison *compare.ComparisonSet
	Err        error
}
