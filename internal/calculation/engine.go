package calculation

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine projects goals into required monthly contributions.
// It holds no mutable state once configured and is safe for concurrent use.
type CalculationEngine struct {
	Settings domain.EngineSettings
	Logger   Logger
	Clock    func() time.Time
	Workers  int // goals projected in parallel by ProjectAll; 0 means GOMAXPROCS
}

// NewCalculationEngine creates an engine with the default settings
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithSettings(domain.DefaultEngineSettings())
}

// NewCalculationEngineWithSettings creates an engine with explicit settings
func NewCalculationEngineWithSettings(settings domain.EngineSettings) *CalculationEngine {
	return &CalculationEngine{
		Settings: settings,
		Logger:   NopLogger{},
		Clock:    time.Now,
	}
}

// SetLogger sets the engine's logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// Now returns the engine clock's current time
func (ce *CalculationEngine) Now() time.Time {
	if ce.Clock == nil {
		return time.Now()
	}
	return ce.Clock()
}

// Project computes the projection for one goal as of the engine clock.
// registry and rc may be nil.
func (ce *CalculationEngine) Project(goal *domain.Goal, returns domain.ReturnAssumptions, registry domain.AssetRegistry, rc *domain.RetirementContributions) domain.ProjectionResult {
	return ce.ProjectAt(goal, returns, registry, rc, ce.Now())
}

// ProjectAt computes the projection for one goal as of now
func (ce *CalculationEngine) ProjectAt(goal *domain.Goal, returns domain.ReturnAssumptions, registry domain.AssetRegistry, rc *domain.RetirementContributions, now time.Time) domain.ProjectionResult {
	log := ce.logger()
	settings := ce.Settings

	years, months := TimeRemaining(goal.TargetDate.Time, now)
	category := Classify(years, settings)
	initialEquity := goal.InitialEquityPercent.InexactFloat64()
	equityReturn := returns.EquityReturnPercent.InexactFloat64()
	debtReturn := returns.DebtReturnPercent.InexactFloat64()

	target := goal.TargetAmount.InexactFloat64()
	adjustedTarget := target
	if years > 0 {
		adjustedTarget = target * math.Pow(1+goal.InflationRatePercent.InexactFloat64()/100, years)
	}

	var blended float64
	if category == domain.CategoryShort {
		blended = returns.ShortTermReturnPercent().InexactFloat64()
	} else {
		blended = BlendedReturn(initialEquity, equityReturn, debtReturn)
	}

	linkedFV := LinkedAssetsFutureValue(goal.LinkedAssets, registry, years, returns, log)
	gap := math.Max(0, adjustedTarget-linkedFV)

	var breakdown *domain.RetirementBreakdown
	if RetirementEligible(goal, rc) {
		breakdown = RetirementFutureValue(rc, years, months, returns, EffectiveStepUpPercent(goal, rc))
		if breakdown != nil {
			gap = math.Max(0, gap-breakdown.TotalFutureValue.InexactFloat64())
		}
	}

	result := domain.ProjectionResult{
		GoalID:                  goal.ID,
		GoalName:                goal.DisplayName(),
		Category:                category,
		YearsRemaining:          decimal.NewFromFloat(years),
		MonthsRemaining:         months,
		InflationAdjustedTarget: decimal.NewFromFloat(adjustedTarget),
		BlendedReturnPercent:    decimal.NewFromFloat(blended),
		LinkedAssetsFutureValue: decimal.NewFromFloat(linkedFV),
		GapAmount:               decimal.NewFromFloat(gap),
		TaperingSchedule:        TaperingSchedule(initialEquity, settings.GlidePath),
		RetirementBreakdown:     breakdown,
		Method:                  domain.MethodNone,
		Converged:               true,
	}

	if gap <= 0 {
		result.RequiredMonthlyContribution = decimal.Zero
		return result
	}

	stepUp := goal.AnnualStepUpPercent.InexactFloat64()
	var payment float64
	switch {
	case category == domain.CategoryShort:
		result.Method = domain.MethodAnnuity
		payment = RequiredConstantPayment(gap, blended, months)
	case stepUp > 0:
		result.Method = domain.MethodStepUpTapering
		sim := NewStepUpTaperingSimulation(months, initialEquity, equityReturn, debtReturn, stepUp, settings.GlidePath)
		sol := Invert(gap, months, sim.FutureValue, settings)
		payment, result.Converged = sol.Payment, sol.Converged
		log.Debugf("goal %s: step-up tapering solve in %d iterations (converged=%t)", goal.ID, sol.Iterations, sol.Converged)
	default:
		result.Method = domain.MethodTapering
		sim := NewTaperingSimulation(months, initialEquity, equityReturn, debtReturn, settings.GlidePath)
		sol := Invert(gap, months, sim.FutureValue, settings)
		payment, result.Converged = sol.Payment, sol.Converged
		log.Debugf("goal %s: tapering solve in %d iterations (converged=%t)", goal.ID, sol.Iterations, sol.Converged)
	}

	if !result.Converged {
		log.Warnf("goal %s: contribution search did not converge, using upper bound", goal.ID)
	}

	result.RequiredMonthlyContribution = decimal.NewFromFloat(payment)
	return result
}

// ProjectAll projects every goal of a plan concurrently. Results keep the
// order of cfg.Goals and share a single as-of instant.
func (ce *CalculationEngine) ProjectAll(ctx context.Context, cfg *domain.Configuration) ([]domain.ProjectionResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is nil")
	}

	now := ce.Now()
	registry := cfg.AssetRegistry()
	results := make([]domain.ProjectionResult, len(cfg.Goals))

	workers := ce.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := range cfg.Goals {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = ce.ProjectAt(&cfg.Goals[idx], cfg.ReturnAssumptions, registry, cfg.RetirementContributions, now)
		}(i)
	}
	wg.Wait()

	ce.logger().Infof("projected %d goals", len(results))
	return results, nil
}
