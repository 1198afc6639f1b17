package compare

import (
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single goal variant with calculated metrics
type ComparisonResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description"`
	Projection   *domain.ProjectionResult `json:"projection,omitempty"`

	// Key Metrics
	RequiredMonthly         decimal.Decimal `json:"requiredMonthly"`
	InflationAdjustedTarget decimal.Decimal `json:"inflationAdjustedTarget"`
	GapAmount               decimal.Decimal `json:"gapAmount"`
	MonthsRemaining         int             `json:"monthsRemaining"`
	TotalContributions      decimal.Decimal `json:"totalContributions"` // Sum of every stepped-up monthly payment

	// Comparison to Base
	MonthlyDiffFromBase       decimal.Decimal `json:"monthlyDiffFromBase"`
	MonthlyPctFromBase        decimal.Decimal `json:"monthlyPctFromBase"`
	ContributionsDiffFromBase decimal.Decimal `json:"contributionsDiffFromBase"`
	MonthsDiff                int             `json:"monthsDiff"`

	// Goal specifics (extracted from the variant for display)
	TargetDate           string `json:"targetDate,omitempty"`
	StepUpPercent        string `json:"stepUpPercent,omitempty"`
	InitialEquityPercent string `json:"initialEquityPercent,omitempty"`
}

// ComparisonSet represents a base goal and its what-if alternatives
type ComparisonSet struct {
	GoalID             string             `json:"goalId"`
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// MetricsCalculator extracts key metrics from projections
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics for one projected goal variant.
// schedule may be nil, in which case total contributions assume a flat payment.
func (mc *MetricsCalculator) CalculateMetrics(name string, goal *domain.Goal, projection domain.ProjectionResult, schedule []domain.ScheduleRow) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:            name,
		Projection:              &projection,
		RequiredMonthly:         projection.RequiredMonthlyContribution,
		InflationAdjustedTarget: projection.InflationAdjustedTarget,
		GapAmount:               projection.GapAmount,
		MonthsRemaining:         projection.MonthsRemaining,
		TotalContributions:      mc.totalContributions(projection, schedule),
	}

	if goal != nil {
		result.TargetDate = goal.TargetDate.String()
		result.StepUpPercent = goal.AnnualStepUpPercent.String()
		result.InitialEquityPercent = goal.InitialEquityPercent.String()
	}

	return result
}

// CalculateComparison computes comparison metrics between a variant and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.MonthlyDiffFromBase = scenario.RequiredMonthly.Sub(base.RequiredMonthly)

	if !base.RequiredMonthly.IsZero() {
		scenario.MonthlyPctFromBase = scenario.MonthlyDiffFromBase.
			Div(base.RequiredMonthly).
			Mul(decimal.NewFromInt(100))
	}

	scenario.ContributionsDiffFromBase = scenario.TotalContributions.Sub(base.TotalContributions)
	scenario.MonthsDiff = scenario.MonthsRemaining - base.MonthsRemaining

	return scenario
}

func (mc *MetricsCalculator) totalContributions(projection domain.ProjectionResult, schedule []domain.ScheduleRow) decimal.Decimal {
	if len(schedule) > 0 {
		return schedule[len(schedule)-1].CumulativeContributions
	}
	return projection.RequiredMonthlyContribution.Mul(decimal.NewFromInt(int64(projection.MonthsRemaining)))
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Find the lowest starting SIP
	lowestMonthly := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.RequiredMonthly.LessThan(lowestMonthly.RequiredMonthly) {
			lowestMonthly = alt
		}
	}

	if lowestMonthly != compSet.BaseResult {
		saving := compSet.BaseResult.RequiredMonthly.Sub(lowestMonthly.RequiredMonthly)
		recommendations = append(recommendations,
			"Lowest Starting SIP: "+lowestMonthly.ScenarioName+" needs Rs. "+saving.StringFixed(0)+
				" less per month than the base plan")
	}

	// Find the smallest total outlay
	lowestTotal := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalContributions.LessThan(lowestTotal.TotalContributions) {
			lowestTotal = alt
		}
	}

	if lowestTotal != compSet.BaseResult {
		saving := compSet.BaseResult.TotalContributions.Sub(lowestTotal.TotalContributions)
		recommendations = append(recommendations,
			"Lowest Total Outlay: "+lowestTotal.ScenarioName+" contributes Rs. "+saving.StringFixed(0)+
				" less over the life of the goal")
	}

	// Variants that no longer need contributions
	for _, alt := range compSet.AlternativeResults {
		if alt.RequiredMonthly.IsZero() && compSet.BaseResult.RequiredMonthly.IsPositive() {
			recommendations = append(recommendations,
				"Fully Funded: "+alt.ScenarioName+" is covered by linked assets alone")
		}
	}

	// Flag projections where the contribution search stopped at its bound
	for _, alt := range compSet.AlternativeResults {
		if alt.Projection != nil && !alt.Projection.Converged {
			recommendations = append(recommendations,
				fmt.Sprintf("Check %s: the contribution search did not converge, the figure is an upper bound", alt.ScenarioName))
		}
	}

	return recommendations
}
