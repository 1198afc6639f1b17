package breakeven

import (
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines which goal parameter the solver moves
type OptimizationTarget string

const (
	OptimizeTargetDate   OptimizationTarget = "target_date"
	OptimizeStepUp       OptimizationTarget = "step_up"
	OptimizeEquity       OptimizationTarget = "equity"
	OptimizeTargetAmount OptimizationTarget = "target_amount"
	OptimizeAll          OptimizationTarget = "all"
)

// ParseTarget resolves a target name
func ParseTarget(s string) (OptimizationTarget, error) {
	switch t := OptimizationTarget(s); t {
	case OptimizeTargetDate, OptimizeStepUp, OptimizeEquity, OptimizeTargetAmount, OptimizeAll:
		return t, nil
	}
	return "", &BreakEvenError{Operation: "parse_target", Message: "unknown target " + s}
}

const (
	defaultMaxDelayMonths   = 120
	defaultMaxStepUpPercent = 25
)

// Constraints bound the search for a goal that fits the budget
type Constraints struct {
	GoalID string          `json:"goal_id"`
	Budget decimal.Decimal `json:"budget"` // monthly SIP the goal has to fit in

	MaxDelayMonths   int              `json:"max_delay_months,omitempty"`
	MaxStepUpPercent *decimal.Decimal `json:"max_step_up_percent,omitempty"`
	MinEquityPercent *decimal.Decimal `json:"min_equity_percent,omitempty"`
	MaxEquityPercent *decimal.Decimal `json:"max_equity_percent,omitempty"`
}

// DefaultConstraints returns the search bounds used when none are given
func DefaultConstraints(goalID string, budget decimal.Decimal) Constraints {
	maxStepUp := decimal.NewFromInt(defaultMaxStepUpPercent)
	minEquity := decimal.Zero
	maxEquity := decimal.NewFromInt(100)

	return Constraints{
		GoalID:           goalID,
		Budget:           budget,
		MaxDelayMonths:   defaultMaxDelayMonths,
		MaxStepUpPercent: &maxStepUp,
		MinEquityPercent: &minEquity,
		MaxEquityPercent: &maxEquity,
	}
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	Config        *domain.Configuration
	Target        OptimizationTarget
	Constraints   Constraints
	MaxIterations int
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	Target          OptimizationTarget `json:"target"`
	GoalID          string             `json:"goal_id"`
	Budget          decimal.Decimal    `json:"budget"`
	Success         bool               `json:"success"`
	AlreadyMet      bool               `json:"already_met"`
	Iterations      int                `json:"iterations"`
	ConvergenceInfo string             `json:"convergence_info,omitempty"`

	// Only the field for the optimized target is set
	OptimalTargetDate   *domain.Date     `json:"optimal_target_date,omitempty"`
	DelayMonths         int              `json:"delay_months,omitempty"`
	OptimalStepUp       *decimal.Decimal `json:"optimal_step_up_percent,omitempty"`
	OptimalEquity       *decimal.Decimal `json:"optimal_equity_percent,omitempty"`
	OptimalTargetAmount *decimal.Decimal `json:"optimal_target_amount,omitempty"`

	Projection          domain.ProjectionResult `json:"projection"`
	RequiredMonthly     decimal.Decimal         `json:"required_monthly"`
	BaseRequiredMonthly decimal.Decimal         `json:"base_required_monthly"`
	MonthlyDiffFromBase decimal.Decimal         `json:"monthly_diff_from_base"`
}

// MultiDimensionalResult holds one result per target that applies to the goal
type MultiDimensionalResult struct {
	GoalID          string                  `json:"goal_id"`
	GoalName        string                  `json:"goal_name"`
	Budget          decimal.Decimal         `json:"budget"`
	Base            domain.ProjectionResult `json:"base"`
	Results         []OptimizationResult    `json:"results"`
	Recommendations []string                `json:"recommendations"`
}

// SolverOptions configures the solver
type SolverOptions struct {
	MaxIterations int
	StepUpUnit    decimal.Decimal // resolution of the step-up search, in percent
	AmountUnit    decimal.Decimal // resolution of the target amount search, in rupees
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: 60,
		StepUpUnit:    decimal.NewFromFloat(0.1),
		AmountUnit:    decimal.NewFromInt(1000),
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.GoalID == "" {
		return &BreakEvenError{Operation: "validate_constraints", Message: "goal id is required"}
	}
	if !c.Budget.IsPositive() {
		return &BreakEvenError{Operation: "validate_constraints", Message: "budget must be positive"}
	}
	if c.MaxDelayMonths < 0 {
		return &BreakEvenError{Operation: "validate_constraints", Message: "max_delay_months cannot be negative"}
	}
	if c.MaxStepUpPercent != nil && (c.MaxStepUpPercent.IsNegative() || c.MaxStepUpPercent.GreaterThan(decimal.NewFromInt(100))) {
		return &BreakEvenError{Operation: "validate_constraints", Message: "max_step_up_percent must be between 0 and 100"}
	}
	if c.MinEquityPercent != nil && c.MaxEquityPercent != nil && c.MinEquityPercent.GreaterThan(*c.MaxEquityPercent) {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_equity_percent cannot be greater than max_equity_percent"}
	}
	for _, p := range []*decimal.Decimal{c.MinEquityPercent, c.MaxEquityPercent} {
		if p != nil && (p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100))) {
			return &BreakEvenError{Operation: "validate_constraints", Message: "equity bounds must be between 0 and 100"}
		}
	}
	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
