package calculation

import (
	"math"
	"testing"
	"time"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetReturnPercent(t *testing.T) {
	returns := testReturns()

	tests := []struct {
		category domain.AssetCategory
		expected float64
	}{
		{domain.AssetEquity, 12},
		{domain.AssetStocks, 12},
		{domain.AssetEquityMutualFund, 12},
		{domain.AssetIndexFund, 12},
		{domain.AssetELSS, 12},
		{domain.AssetDebt, 7},
		{domain.AssetDebtMutualFund, 7},
		{domain.AssetFixedDeposit, 7},
		{domain.AssetBonds, 7},
		{domain.AssetPPF, 7},
		{domain.AssetArbitrage, 7},
		{domain.AssetArbitrageFund, 7},
		{domain.AssetCash, 0},
		{domain.AssetGold, 0},
		{domain.AssetRealEstate, 0},
		{domain.AssetCategory("crypto"), 7},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.expected, AssetReturnPercent(tt.category, returns))
		})
	}
}

func TestLinkedAssetsFutureValue(t *testing.T) {
	returns := testReturns()
	registry := domain.NewAssetRegistry([]domain.Asset{
		{ID: "eq", Category: domain.AssetEquityMutualFund, CurrentValue: decimal.NewFromInt(500000)},
		{ID: "fd", Category: domain.AssetFixedDeposit, CurrentValue: decimal.NewFromInt(200000)},
		{ID: "gold", Category: domain.AssetGold, CurrentValue: decimal.NewFromInt(300000)},
	})
	pledges := []domain.LinkedAsset{
		{AssetID: "eq", PledgedAmount: decimal.NewFromInt(100000)},
		{AssetID: "fd", PledgedAmount: decimal.NewFromInt(50000)},
		{AssetID: "gold", PledgedAmount: decimal.NewFromInt(20000)},
		{AssetID: "missing", PledgedAmount: decimal.NewFromInt(999999)},
	}

	t.Run("compounds pledged amounts by category", func(t *testing.T) {
		fv := LinkedAssetsFutureValue(pledges, registry, 5, returns, nil)
		expected := 100000*math.Pow(1.12, 5) + 50000*math.Pow(1.07, 5) + 20000
		assert.InDelta(t, expected, fv, 1e-6)
	})

	t.Run("past date is the raw sum", func(t *testing.T) {
		fv := LinkedAssetsFutureValue(pledges, registry, 0, returns, nil)
		assert.InDelta(t, 170000, fv, 1e-9)
	})

	t.Run("no registry", func(t *testing.T) {
		assert.Equal(t, 0.0, LinkedAssetsFutureValue(pledges, nil, 5, returns, nil))
	})

	t.Run("no pledges", func(t *testing.T) {
		assert.Equal(t, 0.0, LinkedAssetsFutureValue(nil, registry, 5, returns, nil))
	})
}

func TestRetirementEligible(t *testing.T) {
	goal := retirementGoal()
	rc := testContributions()

	assert.True(t, RetirementEligible(goal, rc))
	assert.False(t, RetirementEligible(goal, nil))
	assert.False(t, RetirementEligible(goal, &domain.RetirementContributions{}))

	notIncluded := retirementGoal()
	notIncluded.IncludeRetirementContributions = false
	assert.False(t, RetirementEligible(notIncluded, rc))

	oneTime := retirementGoal()
	oneTime.GoalType = domain.GoalTypeOneTime
	assert.False(t, RetirementEligible(oneTime, rc))

	corpusOnly := &domain.RetirementContributions{EPFCorpus: decimal.NewFromInt(1)}
	assert.True(t, RetirementEligible(goal, corpusOnly))
}

func TestEffectiveStepUpPercent(t *testing.T) {
	goal := retirementGoal()

	assert.Equal(t, 5.0, EffectiveStepUpPercent(goal, testContributions()))

	rc := testContributions()
	rc.StepUpEnabled = false
	assert.Equal(t, 0.0, EffectiveStepUpPercent(goal, rc))
	assert.Equal(t, 0.0, EffectiveStepUpPercent(goal, nil))
}

func TestRetirementFutureValue(t *testing.T) {
	returns := testReturns()
	rc := testContributions()

	breakdown := RetirementFutureValue(rc, 10, 120, returns, 0)
	require.NotNil(t, breakdown)

	epfCorpus := 400000 * math.Pow(1.0825, 10)
	npsCorpus := 250000 * math.Pow(1.10, 10)
	assert.InDelta(t, epfCorpus, breakdown.EPF.CorpusFutureValue.InexactFloat64(), 1e-6)
	assert.InDelta(t, npsCorpus, breakdown.NPS.CorpusFutureValue.InexactFloat64(), 1e-6)
	assert.InDelta(t, epfCorpus+npsCorpus, breakdown.CorpusFutureValue.InexactFloat64(), 1e-6)

	// Without step-up each stream is a plain annuity at its own rate
	epfContrib := FutureValueConstant(3600, 8.25, 120)
	npsContrib := FutureValueConstant(5000, 10, 120)
	assert.InDelta(t, epfContrib, breakdown.EPF.ContributionFutureValue.InexactFloat64(), 1e-4)
	assert.InDelta(t, npsContrib, breakdown.NPS.ContributionFutureValue.InexactFloat64(), 1e-4)

	total := breakdown.CorpusFutureValue.Add(breakdown.ContributionFutureValue)
	assert.True(t, total.Equal(breakdown.TotalFutureValue))
	assert.True(t, breakdown.EffectiveStepUpPercent.IsZero())

	stepped := RetirementFutureValue(rc, 10, 120, returns, 10)
	require.NotNil(t, stepped)
	assert.True(t, stepped.ContributionFutureValue.GreaterThan(breakdown.ContributionFutureValue))
	assert.True(t, stepped.CorpusFutureValue.Equal(breakdown.CorpusFutureValue), "step-up does not touch existing balances")
}

func TestRetirementFutureValue_Absent(t *testing.T) {
	assert.Nil(t, RetirementFutureValue(nil, 10, 120, testReturns(), 0))
	assert.Nil(t, RetirementFutureValue(&domain.RetirementContributions{}, 10, 120, testReturns(), 0))
}

func TestBuildSchedule_LongGoal(t *testing.T) {
	engine := newTestEngine()
	goal := longGoal()
	goal.AnnualStepUpPercent = decimal.NewFromInt(10)
	result := engine.Project(goal, testReturns(), nil, nil)

	rows := engine.Schedule(goal, result, testReturns())

	require.Len(t, rows, 10)
	assert.Equal(t, 1, rows[0].Year)
	assert.InDelta(t, 60, rows[0].EquityPercent.InexactFloat64(), 1e-9)
	assert.InDelta(t, 30, rows[3].EquityPercent.InexactFloat64(), 1e-9, "seven years left")
	assert.InDelta(t, 15, rows[6].EquityPercent.InexactFloat64(), 1e-9, "four years left")
	assert.InDelta(t, 0, rows[9].EquityPercent.InexactFloat64(), 1e-9, "one year left")

	payment := result.RequiredMonthlyContribution.InexactFloat64()
	assert.InDelta(t, payment, rows[0].MonthlyContribution.InexactFloat64(), 1e-6)
	assert.InDelta(t, payment*1.1, rows[1].MonthlyContribution.InexactFloat64(), 1e-6)

	last := rows[len(rows)-1]
	assert.GreaterOrEqual(t, last.ProjectedValue.InexactFloat64(), result.GapAmount.InexactFloat64()-engine.Settings.Tolerance)

	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i].CumulativeContributions.GreaterThan(rows[i-1].CumulativeContributions))
	}
}

func TestBuildSchedule_ShortGoal(t *testing.T) {
	engine := newTestEngine()
	goal := shortGoal()
	goal.TargetDate = domain.NewDate(2026, time.July, 1)
	result := engine.Project(goal, testReturns(), nil, nil)

	rows := BuildSchedule(goal, result, testReturns(), engine.Settings)

	// 546 days is 17 whole months: a full year then a partial one
	require.Equal(t, 17, result.MonthsRemaining)
	require.Len(t, rows, 2)
	payment := result.RequiredMonthlyContribution.InexactFloat64()
	assert.InDelta(t, payment*12, rows[0].AnnualContribution.InexactFloat64(), 1e-6)
	assert.InDelta(t, payment*5, rows[1].AnnualContribution.InexactFloat64(), 1e-6)
	assert.InDelta(t, payment*17, rows[1].CumulativeContributions.InexactFloat64(), 1e-6)
	assert.True(t, rows[1].EquityPercent.IsZero())
	assert.InDelta(t, result.GapAmount.InexactFloat64(), rows[1].ProjectedValue.InexactFloat64(), 1e-4)
}

func TestBuildSchedule_NoTimeLeft(t *testing.T) {
	goal := longGoal()
	result := domain.ProjectionResult{MonthsRemaining: 0}

	assert.Nil(t, BuildSchedule(goal, result, testReturns(), domain.DefaultEngineSettings()))
}
