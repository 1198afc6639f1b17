package calculation

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine() *CalculationEngine {
	engine := NewCalculationEngine()
	engine.Clock = func() time.Time { return testNow }
	return engine
}

func testReturns() domain.ReturnAssumptions {
	arbitrage := decimal.NewFromFloat(7.5)
	return domain.ReturnAssumptions{
		EquityReturnPercent:    decimal.NewFromInt(12),
		DebtReturnPercent:      decimal.NewFromInt(7),
		ArbitrageReturnPercent: &arbitrage,
		EPFReturnPercent:       decimal.NewFromFloat(8.25),
		NPSReturnPercent:       decimal.NewFromInt(10),
	}
}

func longGoal() *domain.Goal {
	return &domain.Goal{
		ID:                   "education",
		Name:                 "Child education",
		TargetAmount:         decimal.NewFromInt(2500000),
		TargetDate:           domain.NewDate(2035, time.January, 1),
		InflationRatePercent: decimal.NewFromInt(6),
		GoalType:             domain.GoalTypeOneTime,
		InitialEquityPercent: decimal.NewFromInt(60),
	}
}

func shortGoal() *domain.Goal {
	return &domain.Goal{
		ID:                   "car",
		TargetAmount:         decimal.NewFromInt(800000),
		TargetDate:           domain.NewDate(2027, time.January, 1),
		InflationRatePercent: decimal.NewFromInt(5),
		GoalType:             domain.GoalTypeOneTime,
		InitialEquityPercent: decimal.NewFromInt(60),
		AnnualStepUpPercent:  decimal.NewFromInt(10),
	}
}

func TestNewCalculationEngine(t *testing.T) {
	engine := NewCalculationEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
	assert.NotNil(t, engine.Clock, "Should initialize clock")
	assert.Equal(t, domain.DefaultEngineSettings(), engine.Settings)
}

func TestCalculationEngine_SetLogger(t *testing.T) {
	engine := NewCalculationEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)

	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	// nil falls back to the no-op logger
	engine.SetLogger(nil)

	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestProject_Idempotent(t *testing.T) {
	engine := newTestEngine()
	goal := longGoal()

	first := engine.Project(goal, testReturns(), nil, nil)
	second := engine.Project(goal, testReturns(), nil, nil)

	assert.True(t, first.RequiredMonthlyContribution.Equal(second.RequiredMonthlyContribution))
	assert.True(t, first.InflationAdjustedTarget.Equal(second.InflationAdjustedTarget))
	assert.True(t, first.GapAmount.Equal(second.GapAmount))
	assert.Equal(t, first.MonthsRemaining, second.MonthsRemaining)
	assert.Equal(t, first.Method, second.Method)
}

func TestProject_DoesNotMutateGoal(t *testing.T) {
	engine := newTestEngine()
	goal := longGoal()
	goal.LinkedAssets = []domain.LinkedAsset{{AssetID: "mf", PledgedAmount: decimal.NewFromInt(1000)}}
	before := goal.DeepCopy()

	engine.Project(goal, testReturns(), domain.AssetRegistry{"mf": {ID: "mf", Category: domain.AssetIndexFund, CurrentValue: decimal.NewFromInt(5000)}}, nil)

	assert.Equal(t, before, goal)
}

func TestProject_LongGoalUsesTaperingSimulation(t *testing.T) {
	engine := newTestEngine()
	goal := longGoal()

	result := engine.Project(goal, testReturns(), nil, nil)

	assert.Equal(t, domain.CategoryLong, result.Category)
	assert.Equal(t, 120, result.MonthsRemaining)
	assert.Equal(t, domain.MethodTapering, result.Method)
	assert.True(t, result.Converged)
	assert.Nil(t, result.RetirementBreakdown)

	// Nominal blended return: 0.6*12 + 0.4*7
	assert.InDelta(t, 10.0, result.BlendedReturnPercent.InexactFloat64(), 1e-9)

	years := result.YearsRemaining.InexactFloat64()
	expectedTarget := 2500000 * math.Pow(1.06, years)
	assert.InDelta(t, expectedTarget, result.InflationAdjustedTarget.InexactFloat64(), 1e-3)
	assert.InDelta(t, expectedTarget, result.GapAmount.InexactFloat64(), 1e-3)

	// Re-running the simulation on the answer meets the gap
	sim := NewTaperingSimulation(120, 60, 12, 7, engine.Settings.GlidePath)
	fv := sim.FutureValue(result.RequiredMonthlyContribution.InexactFloat64())
	gap := result.GapAmount.InexactFloat64()
	assert.InDelta(t, gap, fv, engine.Settings.Tolerance)
	assert.GreaterOrEqual(t, fv, gap-engine.Settings.Tolerance)

	expectedEquity := []int64{60, 30, 15, 0}
	for i, phase := range result.TaperingSchedule {
		assert.True(t, phase.EquityPercent.Equal(decimal.NewFromInt(expectedEquity[i])), "phase %d", i)
	}
	assert.Equal(t, 8.0, result.TaperingSchedule[0].YearsThreshold)
	assert.Equal(t, 0.0, result.TaperingSchedule[3].YearsThreshold)
}

func TestProject_LongGoalWithStepUp(t *testing.T) {
	engine := newTestEngine()
	flat := longGoal()
	stepped := longGoal()
	stepped.AnnualStepUpPercent = decimal.NewFromInt(10)

	flatResult := engine.Project(flat, testReturns(), nil, nil)
	steppedResult := engine.Project(stepped, testReturns(), nil, nil)

	assert.Equal(t, domain.MethodStepUpTapering, steppedResult.Method)
	assert.True(t, steppedResult.RequiredMonthlyContribution.LessThan(flatResult.RequiredMonthlyContribution),
		"A growing contribution should start lower")

	sim := NewStepUpTaperingSimulation(120, 60, 12, 7, 10, engine.Settings.GlidePath)
	fv := sim.FutureValue(steppedResult.RequiredMonthlyContribution.InexactFloat64())
	assert.GreaterOrEqual(t, fv, steppedResult.GapAmount.InexactFloat64()-engine.Settings.Tolerance)
}

func TestProject_ShortGoalUsesAnnuity(t *testing.T) {
	engine := newTestEngine()
	goal := shortGoal()

	result := engine.Project(goal, testReturns(), nil, nil)

	assert.Equal(t, domain.CategoryShort, result.Category)
	assert.Equal(t, domain.MethodAnnuity, result.Method)
	assert.InDelta(t, 7.5, result.BlendedReturnPercent.InexactFloat64(), 1e-9)

	// Step-up is ignored for short goals
	expected := RequiredConstantPayment(result.GapAmount.InexactFloat64(), 7.5, result.MonthsRemaining)
	assert.InDelta(t, expected, result.RequiredMonthlyContribution.InexactFloat64(), 1e-6)
}

func TestProject_ShortGoalFallsBackToDebtRate(t *testing.T) {
	engine := newTestEngine()
	returns := testReturns()
	returns.ArbitrageReturnPercent = nil

	result := engine.Project(shortGoal(), returns, nil, nil)

	assert.InDelta(t, 7.0, result.BlendedReturnPercent.InexactFloat64(), 1e-9)
}

func TestProject_DegenerateInputs(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name   string
		modify func(g *domain.Goal)
		check  func(t *testing.T, r domain.ProjectionResult)
	}{
		{
			name:   "zero target",
			modify: func(g *domain.Goal) { g.TargetAmount = decimal.Zero },
			check: func(t *testing.T, r domain.ProjectionResult) {
				assert.True(t, r.GapAmount.IsZero())
				assert.True(t, r.RequiredMonthlyContribution.IsZero())
				assert.Equal(t, domain.MethodNone, r.Method)
			},
		},
		{
			name:   "negative target",
			modify: func(g *domain.Goal) { g.TargetAmount = decimal.NewFromInt(-5000) },
			check: func(t *testing.T, r domain.ProjectionResult) {
				assert.True(t, r.RequiredMonthlyContribution.IsZero())
			},
		},
		{
			name:   "past target date",
			modify: func(g *domain.Goal) { g.TargetDate = domain.NewDate(2020, time.June, 1) },
			check: func(t *testing.T, r domain.ProjectionResult) {
				assert.True(t, r.YearsRemaining.IsZero())
				assert.Equal(t, 0, r.MonthsRemaining)
				assert.Equal(t, domain.CategoryShort, r.Category)
				assert.InDelta(t, 2500000, r.InflationAdjustedTarget.InexactFloat64(), 1e-9, "no inflation adjustment without time")
				assert.True(t, r.RequiredMonthlyContribution.IsZero())
			},
		},
		{
			name:   "same day",
			modify: func(g *domain.Goal) { g.TargetDate = domain.NewDate(2025, time.January, 1) },
			check: func(t *testing.T, r domain.ProjectionResult) {
				assert.True(t, r.YearsRemaining.IsZero())
				assert.Equal(t, 0, r.MonthsRemaining)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := longGoal()
			tt.modify(goal)
			tt.check(t, engine.Project(goal, testReturns(), nil, nil))
		})
	}
}

func TestProject_LinkedAssetReduction(t *testing.T) {
	engine := newTestEngine()
	registry := domain.NewAssetRegistry([]domain.Asset{
		{ID: "nifty", Category: domain.AssetIndexFund, CurrentValue: decimal.NewFromInt(10000000)},
	})

	base := engine.Project(longGoal(), testReturns(), registry, nil)

	pledged := longGoal()
	pledged.LinkedAssets = []domain.LinkedAsset{{AssetID: "nifty", PledgedAmount: decimal.NewFromInt(300000)}}
	partial := engine.Project(pledged, testReturns(), registry, nil)

	assert.True(t, partial.LinkedAssetsFutureValue.GreaterThan(decimal.Zero))
	assert.True(t, partial.GapAmount.LessThan(base.GapAmount))
	assert.True(t, partial.RequiredMonthlyContribution.LessThan(base.RequiredMonthlyContribution))

	covered := longGoal()
	covered.LinkedAssets = []domain.LinkedAsset{{AssetID: "nifty", PledgedAmount: decimal.NewFromInt(2000000)}}
	full := engine.Project(covered, testReturns(), registry, nil)

	assert.True(t, full.GapAmount.IsZero())
	assert.True(t, full.RequiredMonthlyContribution.IsZero())
}

func TestProject_LinkedAssetsIgnoredWithoutRegistry(t *testing.T) {
	engine := newTestEngine()
	goal := longGoal()
	goal.LinkedAssets = []domain.LinkedAsset{{AssetID: "nifty", PledgedAmount: decimal.NewFromInt(300000)}}

	result := engine.Project(goal, testReturns(), nil, nil)

	assert.True(t, result.LinkedAssetsFutureValue.IsZero())
}

func retirementGoal() *domain.Goal {
	return &domain.Goal{
		ID:                             "retire",
		TargetAmount:                   decimal.NewFromInt(30000000),
		TargetDate:                     domain.NewDate(2050, time.January, 1),
		InflationRatePercent:           decimal.NewFromInt(6),
		GoalType:                       domain.GoalTypeRetirement,
		InitialEquityPercent:           decimal.NewFromInt(70),
		AnnualStepUpPercent:            decimal.NewFromInt(5),
		IncludeRetirementContributions: true,
	}
}

func testContributions() *domain.RetirementContributions {
	return &domain.RetirementContributions{
		MonthlyEPF:    decimal.NewFromInt(3600),
		MonthlyNPS:    decimal.NewFromInt(5000),
		EPFCorpus:     decimal.NewFromInt(400000),
		NPSCorpus:     decimal.NewFromInt(250000),
		StepUpEnabled: true,
	}
}

func TestProject_RetirementContributions(t *testing.T) {
	engine := newTestEngine()

	with := engine.Project(retirementGoal(), testReturns(), nil, testContributions())
	require.NotNil(t, with.RetirementBreakdown)
	assert.True(t, with.RetirementBreakdown.TotalFutureValue.GreaterThan(decimal.Zero))
	assert.InDelta(t, 5.0, with.RetirementBreakdown.EffectiveStepUpPercent.InexactFloat64(), 1e-9)

	excluded := retirementGoal()
	excluded.IncludeRetirementContributions = false
	without := engine.Project(excluded, testReturns(), nil, testContributions())
	assert.Nil(t, without.RetirementBreakdown)

	assert.True(t, with.GapAmount.LessThan(without.GapAmount))
	expectedGap := without.GapAmount.Sub(with.RetirementBreakdown.TotalFutureValue)
	assert.InDelta(t, expectedGap.InexactFloat64(), with.GapAmount.InexactFloat64(), 1e-3)
}

func TestProject_RetirementGuard(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name string
		goal func() *domain.Goal
		rc   *domain.RetirementContributions
	}{
		{"absent contributions", retirementGoal, nil},
		{"zero contributions", retirementGoal, &domain.RetirementContributions{StepUpEnabled: true}},
		{"one-time goal", func() *domain.Goal {
			g := retirementGoal()
			g.GoalType = domain.GoalTypeOneTime
			return g
		}, testContributions()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Project(tt.goal(), testReturns(), nil, tt.rc)
			assert.Nil(t, result.RetirementBreakdown)
		})
	}
}

func TestProjectAll_PreservesOrder(t *testing.T) {
	engine := newTestEngine()
	engine.Workers = 2

	cfg := &domain.Configuration{
		ReturnAssumptions:       testReturns(),
		RetirementContributions: testContributions(),
		Goals:                   []domain.Goal{*longGoal(), *shortGoal(), *retirementGoal()},
	}

	results, err := engine.ProjectAll(context.Background(), cfg)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "education", results[0].GoalID)
	assert.Equal(t, "car", results[1].GoalID)
	assert.Equal(t, "retire", results[2].GoalID)

	single := engine.Project(longGoal(), testReturns(), nil, nil)
	assert.True(t, single.RequiredMonthlyContribution.Equal(results[0].RequiredMonthlyContribution))
	assert.NotNil(t, results[2].RetirementBreakdown)
}

func TestProjectAll_Cancelled(t *testing.T) {
	engine := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &domain.Configuration{Goals: []domain.Goal{*longGoal()}}
	results, err := engine.ProjectAll(ctx, cfg)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestProjectAll_NilConfig(t *testing.T) {
	_, err := newTestEngine().ProjectAll(context.Background(), nil)
	assert.Error(t, err)
}

func TestProject_LogsMissingAsset(t *testing.T) {
	engine := newTestEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	goal := longGoal()
	goal.LinkedAssets = []domain.LinkedAsset{{AssetID: "ghost", PledgedAmount: decimal.NewFromInt(1000)}}
	engine.Project(goal, testReturns(), domain.AssetRegistry{}, nil)

	assert.True(t, logger.contains("not found"))
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	mu       sync.Mutex
	messages []string
}

func (tl *TestLogger) record(level, format string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.messages = append(tl.messages, level+": "+format)
}

func (tl *TestLogger) contains(s string) bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	for _, m := range tl.messages {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) { tl.record("DEBUG", format) }
func (tl *TestLogger) Infof(format string, args ...interface{})  { tl.record("INFO", format) }
func (tl *TestLogger) Warnf(format string, args ...interface{})  { tl.record("WARN", format) }
func (tl *TestLogger) Errorf(format string, args ...interface{}) { tl.record("ERROR", format) }
