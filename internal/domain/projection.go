package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContributionMethod records which branch of the engine produced the required contribution
type ContributionMethod string

const (
	MethodNone           ContributionMethod = "none"
	MethodAnnuity        ContributionMethod = "annuity"
	MethodTapering       ContributionMethod = "tapering"
	MethodStepUpTapering ContributionMethod = "step_up_tapering"
)

// TaperingPhase is one step of a goal's glide path
type TaperingPhase struct {
	YearsThreshold float64         `json:"yearsThreshold"`
	EquityPercent  decimal.Decimal `json:"equityPercent"`
}

// StreamBreakdown is the projected value of a single retirement stream (EPF or NPS)
type StreamBreakdown struct {
	ReturnPercent           decimal.Decimal `json:"returnPercent"`
	CorpusFutureValue       decimal.Decimal `json:"corpusFutureValue"`
	ContributionFutureValue decimal.Decimal `json:"contributionFutureValue"`
}

// Total is corpus plus contributions
func (s StreamBreakdown) Total() decimal.Decimal {
	return s.CorpusFutureValue.Add(s.ContributionFutureValue)
}

// RetirementBreakdown reports the EPF/NPS streams that count toward a retirement goal
type RetirementBreakdown struct {
	CorpusFutureValue       decimal.Decimal `json:"corpusFutureValue"`
	ContributionFutureValue decimal.Decimal `json:"contributionFutureValue"`
	TotalFutureValue        decimal.Decimal `json:"totalFutureValue"`
	EffectiveStepUpPercent  decimal.Decimal `json:"effectiveStepUpPercent"`
	EPF                     StreamBreakdown `json:"epf"`
	NPS                     StreamBreakdown `json:"nps"`
}

// ProjectionResult is the engine's output for one goal
type ProjectionResult struct {
	GoalID                      string               `json:"goalId"`
	GoalName                    string               `json:"goalName"`
	Category                    GoalCategory         `json:"category"`
	YearsRemaining              decimal.Decimal      `json:"yearsRemaining"`
	MonthsRemaining             int                  `json:"monthsRemaining"`
	InflationAdjustedTarget     decimal.Decimal      `json:"inflationAdjustedTarget"`
	BlendedReturnPercent        decimal.Decimal      `json:"blendedReturnPercent"`
	LinkedAssetsFutureValue     decimal.Decimal      `json:"linkedAssetsFutureValue"`
	GapAmount                   decimal.Decimal      `json:"gapAmount"`
	RequiredMonthlyContribution decimal.Decimal      `json:"requiredMonthlyContribution"`
	TaperingSchedule            [4]TaperingPhase     `json:"taperingSchedule"`
	RetirementBreakdown         *RetirementBreakdown `json:"retirementBreakdown,omitempty"`
	Method                      ContributionMethod   `json:"method"`
	Converged                   bool                 `json:"converged"`
}

// RetirementFutureValue is the combined EPF/NPS value, zero when not applicable
func (r *ProjectionResult) RetirementFutureValue() decimal.Decimal {
	if r.RetirementBreakdown == nil {
		return decimal.Zero
	}
	return r.RetirementBreakdown.TotalFutureValue
}

// ScheduleRow is one goal year of the year-by-year contribution table
type ScheduleRow struct {
	Year                    int             `json:"year"`
	YearsRemaining          decimal.Decimal `json:"yearsRemaining"`
	EquityPercent           decimal.Decimal `json:"equityPercent"`
	MonthlyContribution     decimal.Decimal `json:"monthlyContribution"`
	AnnualContribution      decimal.Decimal `json:"annualContribution"`
	CumulativeContributions decimal.Decimal `json:"cumulativeContributions"`
	ProjectedValue          decimal.Decimal `json:"projectedValue"`
}

// GoalSchedule pairs a goal id with its year-by-year rows
type GoalSchedule struct {
	GoalID string        `json:"goalId"`
	Rows   []ScheduleRow `json:"rows"`
}

// PlanReport is everything a report formatter needs for one plan
type PlanReport struct {
	CalculationID     string             `json:"calculationId,omitempty"`
	AsOf              time.Time          `json:"asOf"`
	ReturnAssumptions ReturnAssumptions  `json:"returnAssumptions"`
	Projections       []ProjectionResult `json:"projections"`
	Schedules         []GoalSchedule     `json:"schedules,omitempty"`
}

// TotalRequiredMonthly sums the required contribution across every goal
func (p *PlanReport) TotalRequiredMonthly() decimal.Decimal {
	total := decimal.Zero
	for _, r := range p.Projections {
		total = total.Add(r.RequiredMonthlyContribution)
	}
	return total
}

// ScheduleFor returns the schedule rows of a goal, if they were built
func (p *PlanReport) ScheduleFor(goalID string) []ScheduleRow {
	for _, s := range p.Schedules {
		if s.GoalID == goalID {
			return s.Rows
		}
	}
	return nil
}
