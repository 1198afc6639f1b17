package compare

import (
	"testing"
	"time"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	calc := NewMetricsCalculator()

	goal := &domain.Goal{
		ID:                   "house",
		TargetDate:           domain.NewDate(2032, time.April, 1),
		InitialEquityPercent: decimal.NewFromInt(60),
		AnnualStepUpPercent:  decimal.NewFromInt(10),
	}
	projection := domain.ProjectionResult{
		GoalID:                      "house",
		MonthsRemaining:             24,
		InflationAdjustedTarget:     decimal.NewFromInt(1000000),
		GapAmount:                   decimal.NewFromInt(900000),
		RequiredMonthlyContribution: decimal.NewFromInt(30000),
		Converged:                   true,
	}
	schedule := []domain.ScheduleRow{
		{Year: 1, CumulativeContributions: decimal.NewFromInt(360000)},
		{Year: 2, CumulativeContributions: decimal.NewFromInt(756000)},
	}

	result := calc.CalculateMetrics("house", goal, projection, schedule)

	if result.ScenarioName != "house" {
		t.Errorf("Expected scenario name 'house', got %s", result.ScenarioName)
	}
	if !result.RequiredMonthly.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("Expected required monthly 30000, got %s", result.RequiredMonthly)
	}
	if !result.TotalContributions.Equal(decimal.NewFromInt(756000)) {
		t.Errorf("Expected total contributions from the last schedule row, got %s", result.TotalContributions)
	}
	if result.TargetDate != "2032-04-01" || result.StepUpPercent != "10" || result.InitialEquityPercent != "60" {
		t.Errorf("Unexpected goal specifics: %s %s %s", result.TargetDate, result.StepUpPercent, result.InitialEquityPercent)
	}
	if result.Projection == nil || result.Projection.GoalID != "house" {
		t.Error("Expected projection to be attached")
	}
}

func TestMetricsCalculator_CalculateMetrics_NoSchedule(t *testing.T) {
	calc := NewMetricsCalculator()

	projection := domain.ProjectionResult{
		MonthsRemaining:             12,
		RequiredMonthlyContribution: decimal.NewFromInt(5000),
	}

	result := calc.CalculateMetrics("flat", nil, projection, nil)

	if !result.TotalContributions.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("Expected flat total 60000, got %s", result.TotalContributions)
	}
	if result.TargetDate != "" {
		t.Errorf("Expected no target date without a goal, got %s", result.TargetDate)
	}
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	calc := NewMetricsCalculator()

	base := ComparisonResult{
		RequiredMonthly:    decimal.NewFromInt(20000),
		TotalContributions: decimal.NewFromInt(2400000),
		MonthsRemaining:    120,
	}
	alt := ComparisonResult{
		RequiredMonthly:    decimal.NewFromInt(15000),
		TotalContributions: decimal.NewFromInt(2000000),
		MonthsRemaining:    132,
	}

	result := calc.CalculateComparison(alt, base)

	if !result.MonthlyDiffFromBase.Equal(decimal.NewFromInt(-5000)) {
		t.Errorf("Expected -5000, got %s", result.MonthlyDiffFromBase)
	}
	if !result.MonthlyPctFromBase.Equal(decimal.NewFromInt(-25)) {
		t.Errorf("Expected -25%%, got %s", result.MonthlyPctFromBase)
	}
	if !result.ContributionsDiffFromBase.Equal(decimal.NewFromInt(-400000)) {
		t.Errorf("Expected -400000, got %s", result.ContributionsDiffFromBase)
	}
	if result.MonthsDiff != 12 {
		t.Errorf("Expected 12 months diff, got %d", result.MonthsDiff)
	}
}

func TestMetricsCalculator_CalculateComparison_ZeroBase(t *testing.T) {
	calc := NewMetricsCalculator()

	result := calc.CalculateComparison(
		ComparisonResult{RequiredMonthly: decimal.NewFromInt(100)},
		ComparisonResult{RequiredMonthly: decimal.Zero},
	)

	if !result.MonthlyPctFromBase.IsZero() {
		t.Errorf("Expected zero percent change against a zero base, got %s", result.MonthlyPctFromBase)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	notConverged := &domain.ProjectionResult{Converged: false}
	compSet := &ComparisonSet{
		BaseResult: &ComparisonResult{
			ScenarioName:       "base",
			RequiredMonthly:    decimal.NewFromInt(20000),
			TotalContributions: decimal.NewFromInt(2400000),
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:       "step_up_10",
				RequiredMonthly:    decimal.NewFromInt(14000),
				TotalContributions: decimal.NewFromInt(2600000),
			},
			{
				ScenarioName:       "aggressive",
				RequiredMonthly:    decimal.NewFromInt(18000),
				TotalContributions: decimal.NewFromInt(2160000),
				Projection:         notConverged,
			},
			{
				ScenarioName:       "windfall",
				RequiredMonthly:    decimal.Zero,
				TotalContributions: decimal.Zero,
			},
		},
	}

	recs := GenerateRecommendations(compSet)

	if len(recs) != 4 {
		t.Fatalf("Expected 4 recommendations, got %d: %v", len(recs), recs)
	}
	if recs[0] != "Lowest Starting SIP: windfall needs Rs. 20000 less per month than the base plan" {
		t.Errorf("Unexpected first recommendation: %s", recs[0])
	}
	if recs[1] != "Lowest Total Outlay: windfall contributes Rs. 2400000 less over the life of the goal" {
		t.Errorf("Unexpected second recommendation: %s", recs[1])
	}
	if recs[2] != "Fully Funded: windfall is covered by linked assets alone" {
		t.Errorf("Unexpected third recommendation: %s", recs[2])
	}
	if !contains(recs[3], "aggressive") {
		t.Errorf("Expected convergence warning for aggressive, got %s", recs[3])
	}
}

func TestGenerateRecommendations_NoAlternatives(t *testing.T) {
	recs := GenerateRecommendations(&ComparisonSet{BaseResult: &ComparisonResult{}})
	if len(recs) != 0 {
		t.Errorf("Expected no recommendations, got %v", recs)
	}
}
