package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/output"
)

// targetsFor lists the targets that can move the required SIP of a goal
func targetsFor(base domain.ProjectionResult, returns domain.ReturnAssumptions) []OptimizationTarget {
	targets := []OptimizationTarget{OptimizeTargetDate}
	if base.Category == domain.CategoryLong {
		targets = append(targets, OptimizeStepUp)
		if returns.EquityReturnPercent.GreaterThan(returns.DebtReturnPercent) {
			targets = append(targets, OptimizeEquity)
		}
	}
	return append(targets, OptimizeTargetAmount)
}

// OptimizeAll runs every target that applies to the goal and collects the
// levers that bring it within budget
func (s *Solver) OptimizeAll(ctx context.Context, req OptimizationRequest) (*MultiDimensionalResult, error) {
	gc, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	result := &MultiDimensionalResult{
		GoalID:   gc.goal.ID,
		GoalName: gc.goal.DisplayName(),
		Budget:   req.Constraints.Budget,
		Base:     gc.base,
		Results:  []OptimizationResult{},
	}

	for _, target := range targetsFor(gc.base, gc.returns) {
		r := req
		r.Target = target
		res, err := s.optimize(ctx, gc, r)
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, *res)
		if res.AlreadyMet {
			// every other lever would report the same thing
			break
		}
	}

	result.Recommendations = Recommend(result)
	return result, nil
}

// Recommend turns the per-target results into one line per working lever
func Recommend(result *MultiDimensionalResult) []string {
	recs := []string{}
	if result.Base.RequiredMonthlyContribution.LessThanOrEqual(result.Budget) {
		return append(recs, fmt.Sprintf("Already within budget: %s needs %s a month",
			result.GoalName, output.FormatCurrency(result.Base.RequiredMonthlyContribution)))
	}

	for _, r := range result.Results {
		if !r.Success {
			continue
		}
		monthly := output.FormatCurrency(r.RequiredMonthly)
		switch r.Target {
		case OptimizeTargetDate:
			recs = append(recs, fmt.Sprintf("Postpone to %s (+%d months): %s a month", r.OptimalTargetDate, r.DelayMonths, monthly))
		case OptimizeStepUp:
			recs = append(recs, fmt.Sprintf("Raise step-up to %s%% a year: %s a month to start", r.OptimalStepUp.StringFixed(1), monthly))
		case OptimizeEquity:
			recs = append(recs, fmt.Sprintf("Raise initial equity to %s%%: %s a month", r.OptimalEquity.StringFixed(0), monthly))
		case OptimizeTargetAmount:
			recs = append(recs, fmt.Sprintf("Reduce target to %s: %s a month", output.FormatCurrency(*r.OptimalTargetAmount), monthly))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "No single change fits the budget; combine levers with the compare command")
	}
	return recs
}
