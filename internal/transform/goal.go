package transform

import (
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func requireGoal(name string, base *domain.Goal) error {
	if base == nil {
		return NewTransformError(name, "validate", "base goal cannot be nil", nil)
	}
	return nil
}

// PostponeTarget moves a goal's target date later by a number of months.
// Useful for "what if we buy the house a year later" questions.
type PostponeTarget struct {
	Months int
}

func (pt *PostponeTarget) Name() string {
	return "postpone_target"
}

func (pt *PostponeTarget) Description() string {
	return fmt.Sprintf("Postpone the target date by %d months", pt.Months)
}

func (pt *PostponeTarget) Validate(base *domain.Goal) error {
	if pt.Months < 0 {
		return NewTransformError(pt.Name(), "validate", fmt.Sprintf("months must be non-negative, got %d", pt.Months), nil)
	}
	if err := requireGoal(pt.Name(), base); err != nil {
		return err
	}
	if base.TargetDate.IsZero() {
		return NewTransformError(pt.Name(), "validate", fmt.Sprintf("goal %s has no target date", base.ID), nil)
	}
	return nil
}

func (pt *PostponeTarget) Apply(base *domain.Goal) (*domain.Goal, error) {
	modified := base.DeepCopy()
	modified.TargetDate = domain.Date{Time: base.TargetDate.AddDate(0, pt.Months, 0)}
	return modified, nil
}

// SetTargetDate sets the target date to an absolute date
type SetTargetDate struct {
	Date domain.Date
}

func (st *SetTargetDate) Name() string {
	return "set_target_date"
}

func (st *SetTargetDate) Description() string {
	return fmt.Sprintf("Set the target date to %s", st.Date)
}

func (st *SetTargetDate) Validate(base *domain.Goal) error {
	if st.Date.IsZero() {
		return NewTransformError(st.Name(), "validate", "date cannot be zero", nil)
	}
	return requireGoal(st.Name(), base)
}

func (st *SetTargetDate) Apply(base *domain.Goal) (*domain.Goal, error) {
	modified := base.DeepCopy()
	modified.TargetDate = st.Date
	return modified, nil
}

// SetStepUp changes how much the monthly contribution grows each year
type SetStepUp struct {
	Percent decimal.Decimal
}

func (ss *SetStepUp) Name() string {
	return "set_step_up"
}

func (ss *SetStepUp) Description() string {
	if ss.Percent.IsZero() {
		return "Keep the monthly contribution flat"
	}
	return fmt.Sprintf("Step up the monthly contribution by %s%% a year", ss.Percent.String())
}

func (ss *SetStepUp) Validate(base *domain.Goal) error {
	if ss.Percent.IsNegative() || ss.Percent.GreaterThan(hundred) {
		return NewTransformError(ss.Name(), "validate", fmt.Sprintf("step-up must be between 0 and 100, got %s", ss.Percent), nil)
	}
	return requireGoal(ss.Name(), base)
}

func (ss *SetStepUp) Apply(base *domain.Goal) (*domain.Goal, error) {
	modified := base.DeepCopy()
	modified.AnnualStepUpPercent = ss.Percent
	return modified, nil
}

// SetEquity changes the goal's starting equity allocation
type SetEquity struct {
	Percent decimal.Decimal
}

func (se *SetEquity) Name() string {
	return "set_equity"
}

func (se *SetEquity) Description() string {
	return fmt.Sprintf("Start with %s%% in equity", se.Percent.String())
}

func (se *SetEquity) Validate(base *domain.Goal) error {
	if se.Percent.IsNegative() || se.Percent.GreaterThan(hundred) {
		return NewTransformError(se.Name(), "validate", fmt.Sprintf("equity must be between 0 and 100, got %s", se.Percent), nil)
	}
	return requireGoal(se.Name(), base)
}

func (se *SetEquity) Apply(base *domain.Goal) (*domain.Goal, error) {
	modified := base.DeepCopy()
	modified.InitialEquityPercent = se.Percent
	return modified, nil
}

// ScaleTarget multiplies the target amount by a factor
type ScaleTarget struct {
	Factor decimal.Decimal
}

func (st *ScaleTarget) Name() string {
	return "scale_target"
}

func (st *ScaleTarget) Description() string {
	return fmt.Sprintf("Scale the target amount by %sx", st.Factor.String())
}

func (st *ScaleTarget) Validate(base *domain.Goal) error {
	if !st.Factor.IsPositive() {
		return NewTransformError(st.Name(), "validate", fmt.Sprintf("factor must be positive, got %s", st.Factor), nil)
	}
	return requireGoal(st.Name(), base)
}

func (st *ScaleTarget) Apply(base *domain.Goal) (*domain.Goal, error) {
	modified := base.DeepCopy()
	modified.TargetAmount = base.TargetAmount.Mul(st.Factor)
	return modified, nil
}

// SetInflation overrides the goal's inflation assumption
type SetInflation struct {
	Percent decimal.Decimal
}

func (si *SetInflation) Name() string {
	return "set_inflation"
}

func (si *SetInflation) Description() string {
	return fmt.Sprintf("Assume %s%% inflation", si.Percent.String())
}

func (si *SetInflation) Validate(base *domain.Goal) error {
	if si.Percent.IsNegative() {
		return NewTransformError(si.Name(), "validate", fmt.Sprintf("inflation cannot be negative, got %s", si.Percent), nil)
	}
	return requireGoal(si.Name(), base)
}

func (si *SetInflation) Apply(base *domain.Goal) (*domain.Goal, error) {
	modified := base.DeepCopy()
	modified.InflationRatePercent = si.Percent
	return modified, nil
}

// ToggleRetirementContributions decides whether EPF/NPS streams count toward a retirement goal
type ToggleRetirementContributions struct {
	Include bool
}

func (tr *ToggleRetirementContributions) Name() string {
	return "toggle_retirement_contributions"
}

func (tr *ToggleRetirementContributions) Description() string {
	if tr.Include {
		return "Count EPF/NPS contributions toward the goal"
	}
	return "Ignore EPF/NPS contributions"
}

func (tr *ToggleRetirementContributions) Validate(base *domain.Goal) error {
	if err := requireGoal(tr.Name(), base); err != nil {
		return err
	}
	if tr.Include && !base.IsRetirement() {
		return NewTransformError(tr.Name(), "validate", fmt.Sprintf("goal %s is not a retirement goal", base.ID), nil)
	}
	return nil
}

func (tr *ToggleRetirementContributions) Apply(base *domain.Goal) (*domain.Goal, error) {
	modified := base.DeepCopy()
	modified.IncludeRetirementContributions = tr.Include
	return modified, nil
}
