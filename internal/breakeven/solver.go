// Package breakeven finds the goal change that brings a goal's required SIP
// within a monthly budget: a later target date, a steeper step-up, a larger
// equity share or a smaller target.
package breakeven

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/transform"
	"github.com/shopspring/decimal"
)

// Solver searches a single goal parameter for the budget boundary
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// goalContext is everything a single evaluation needs, fixed for one run
type goalContext struct {
	goal     *domain.Goal
	returns  domain.ReturnAssumptions
	registry domain.AssetRegistry
	rc       *domain.RetirementContributions
	now      time.Time
	base     domain.ProjectionResult
}

func (s *Solver) prepare(req OptimizationRequest) (*goalContext, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if req.Config == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "configuration is nil"}
	}

	goal, ok := req.Config.FindGoal(req.Constraints.GoalID)
	if !ok {
		return nil, &BreakEvenError{Operation: "optimize", Message: fmt.Sprintf("goal %s not found in configuration", req.Constraints.GoalID)}
	}

	gc := &goalContext{
		goal:     goal,
		returns:  req.Config.ReturnAssumptions,
		registry: req.Config.AssetRegistry(),
		rc:       req.Config.RetirementContributions,
		now:      s.CalcEngine.Now(),
	}
	gc.base = s.project(gc, goal)
	return gc, nil
}

func (s *Solver) project(gc *goalContext, goal *domain.Goal) domain.ProjectionResult {
	return s.CalcEngine.ProjectAt(goal, gc.returns, gc.registry, gc.rc, gc.now)
}

// Optimize solves for one target
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	gc, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	return s.optimize(ctx, gc, req)
}

func (s *Solver) optimize(ctx context.Context, gc *goalContext, req OptimizationRequest) (*OptimizationResult, error) {
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}

	switch req.Target {
	case OptimizeTargetDate:
		return s.optimizeTargetDate(ctx, gc, req)
	case OptimizeStepUp:
		return s.optimizeStepUp(ctx, gc, req)
	case OptimizeEquity:
		return s.optimizeEquity(ctx, gc, req)
	case OptimizeTargetAmount:
		return s.optimizeTargetAmount(ctx, gc, req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
}

// optimizeTargetDate finds the fewest months of postponement that fit the budget
func (s *Solver) optimizeTargetDate(ctx context.Context, gc *goalContext, req OptimizationRequest) (*OptimizationResult, error) {
	maxDelay := req.Constraints.MaxDelayMonths
	if maxDelay == 0 {
		maxDelay = defaultMaxDelayMonths
	}

	eval := func(months int) (domain.ProjectionResult, error) {
		g, err := transform.ApplyTransforms(gc.goal, []transform.GoalTransform{&transform.PostponeTarget{Months: months}})
		if err != nil {
			return domain.ProjectionResult{}, err
		}
		return s.project(gc, g), nil
	}

	sr, err := s.search(ctx, 0, maxDelay, true, req, eval)
	if err != nil {
		return nil, s.wrap("optimize_target_date", err)
	}

	moved, err := (&transform.PostponeTarget{Months: sr.value}).Apply(gc.goal)
	if err != nil {
		return nil, s.wrap("optimize_target_date", err)
	}

	result := s.newResult(gc, req, sr)
	result.OptimalTargetDate = &moved.TargetDate
	result.DelayMonths = sr.value
	result.ConvergenceInfo = describe(sr, fmt.Sprintf("postponing by up to %d months", maxDelay))
	return result, nil
}

// optimizeStepUp finds the smallest annual step-up that fits the budget
func (s *Solver) optimizeStepUp(ctx context.Context, gc *goalContext, req OptimizationRequest) (*OptimizationResult, error) {
	if gc.base.Category == domain.CategoryShort {
		return nil, &BreakEvenError{Operation: "optimize_step_up", Message: "step-up does not apply to short-term goals"}
	}

	maxStepUp := decimal.NewFromInt(defaultMaxStepUpPercent)
	if req.Constraints.MaxStepUpPercent != nil {
		maxStepUp = *req.Constraints.MaxStepUpPercent
	}
	unit := s.Options.StepUpUnit
	lo := int(gc.goal.AnnualStepUpPercent.Div(unit).Ceil().IntPart())
	hi := max(int(maxStepUp.Div(unit).IntPart()), lo)

	percent := func(units int) decimal.Decimal { return unit.Mul(decimal.NewFromInt(int64(units))) }
	eval := func(units int) (domain.ProjectionResult, error) {
		g, err := transform.ApplyTransforms(gc.goal, []transform.GoalTransform{&transform.SetStepUp{Percent: percent(units)}})
		if err != nil {
			return domain.ProjectionResult{}, err
		}
		return s.project(gc, g), nil
	}

	sr, err := s.search(ctx, lo, hi, true, req, eval)
	if err != nil {
		return nil, s.wrap("optimize_step_up", err)
	}

	result := s.newResult(gc, req, sr)
	p := percent(sr.value)
	result.OptimalStepUp = &p
	result.ConvergenceInfo = describe(sr, fmt.Sprintf("a step-up of up to %s%%", maxStepUp))
	return result, nil
}

// optimizeEquity finds the smallest initial equity share that fits the budget
func (s *Solver) optimizeEquity(ctx context.Context, gc *goalContext, req OptimizationRequest) (*OptimizationResult, error) {
	if gc.base.Category == domain.CategoryShort {
		return nil, &BreakEvenError{Operation: "optimize_equity", Message: "equity allocation does not apply to short-term goals"}
	}
	if !gc.returns.EquityReturnPercent.GreaterThan(gc.returns.DebtReturnPercent) {
		return nil, &BreakEvenError{Operation: "optimize_equity", Message: "more equity only helps when equity returns exceed debt returns"}
	}

	lo, hi := int(gc.goal.InitialEquityPercent.Ceil().IntPart()), 100
	if req.Constraints.MinEquityPercent != nil {
		lo = max(lo, int(req.Constraints.MinEquityPercent.Ceil().IntPart()))
	}
	if req.Constraints.MaxEquityPercent != nil {
		hi = int(req.Constraints.MaxEquityPercent.Floor().IntPart())
	}
	hi = max(hi, lo)

	eval := func(pct int) (domain.ProjectionResult, error) {
		g, err := transform.ApplyTransforms(gc.goal, []transform.GoalTransform{&transform.SetEquity{Percent: decimal.NewFromInt(int64(pct))}})
		if err != nil {
			return domain.ProjectionResult{}, err
		}
		return s.project(gc, g), nil
	}

	sr, err := s.search(ctx, lo, hi, true, req, eval)
	if err != nil {
		return nil, s.wrap("optimize_equity", err)
	}

	result := s.newResult(gc, req, sr)
	p := decimal.NewFromInt(int64(sr.value))
	result.OptimalEquity = &p
	result.ConvergenceInfo = describe(sr, fmt.Sprintf("an initial equity share of up to %d%%", hi))
	return result, nil
}

// optimizeTargetAmount finds the largest target the budget can fund by the target date
func (s *Solver) optimizeTargetAmount(ctx context.Context, gc *goalContext, req OptimizationRequest) (*OptimizationResult, error) {
	unit := s.Options.AmountUnit
	hi := int(gc.goal.TargetAmount.Div(unit).IntPart())

	amount := func(units int) decimal.Decimal { return unit.Mul(decimal.NewFromInt(int64(units))) }
	eval := func(units int) (domain.ProjectionResult, error) {
		g := gc.goal.DeepCopy()
		g.TargetAmount = amount(units)
		return s.project(gc, g), nil
	}

	sr, err := s.search(ctx, 0, hi, false, req, eval)
	if err != nil {
		return nil, s.wrap("optimize_target_amount", err)
	}

	result := s.newResult(gc, req, sr)
	a := amount(sr.value)
	if sr.alreadyMet {
		a = gc.goal.TargetAmount
	}
	result.OptimalTargetAmount = &a
	result.ConvergenceInfo = describe(sr, "reducing the target")
	return result, nil
}

func (s *Solver) newResult(gc *goalContext, req OptimizationRequest, sr searchResult) *OptimizationResult {
	return &OptimizationResult{
		Target:              req.Target,
		GoalID:              gc.goal.ID,
		Budget:              req.Constraints.Budget,
		Success:             sr.found,
		AlreadyMet:          sr.alreadyMet,
		Iterations:          sr.iterations,
		Projection:          sr.projection,
		RequiredMonthly:     sr.projection.RequiredMonthlyContribution,
		BaseRequiredMonthly: gc.base.RequiredMonthlyContribution,
		MonthlyDiffFromBase: sr.projection.RequiredMonthlyContribution.Sub(gc.base.RequiredMonthlyContribution),
	}
}

func (s *Solver) wrap(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &BreakEvenError{Operation: op, Message: "search failed", Cause: err}
}

func describe(sr searchResult, lever string) string {
	switch {
	case sr.alreadyMet:
		return "The goal already fits the budget"
	case sr.found:
		return fmt.Sprintf("Converged after %d projections", sr.iterations)
	default:
		return "The budget cannot be met by " + lever
	}
}

// searchResult is the edge of the affordable region of one integer parameter
type searchResult struct {
	value      int
	projection domain.ProjectionResult
	iterations int
	found      bool
	alreadyMet bool
}

// search bisects [lo, hi] for the boundary where the required SIP meets the
// budget. decreasing means the SIP falls as the parameter grows, so the answer
// is the smallest affordable value; otherwise it is the largest. lo is the
// goal as configured for decreasing searches and hi for increasing ones.
func (s *Solver) search(
	ctx context.Context,
	lo, hi int,
	decreasing bool,
	req OptimizationRequest,
	eval func(int) (domain.ProjectionResult, error),
) (searchResult, error) {
	budget := req.Constraints.Budget
	sr := searchResult{}
	affordable := func(r domain.ProjectionResult) bool {
		return r.RequiredMonthlyContribution.LessThanOrEqual(budget)
	}
	probe := func(x int) (domain.ProjectionResult, error) {
		if err := ctx.Err(); err != nil {
			return domain.ProjectionResult{}, err
		}
		sr.iterations++
		return eval(x)
	}

	start, end := lo, hi
	if !decreasing {
		start, end = hi, lo
	}

	first, err := probe(start)
	if err != nil {
		return sr, err
	}
	if affordable(first) {
		sr.value, sr.projection, sr.found, sr.alreadyMet = start, first, true, true
		return sr, nil
	}

	last, err := probe(end)
	if err != nil {
		return sr, err
	}
	if !affordable(last) {
		sr.value, sr.projection = end, last
		return sr, nil
	}

	// Invariant: bad is unaffordable and good is affordable
	bad, good, goodResult := start, end, last
	for abs(good-bad) > 1 && sr.iterations < req.MaxIterations {
		mid := (bad + good) / 2
		r, err := probe(mid)
		if err != nil {
			return sr, err
		}
		if affordable(r) {
			good, goodResult = mid, r
		} else {
			bad = mid
		}
	}

	sr.value, sr.projection, sr.found = good, goodResult, true
	return sr, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
