package calculation

import (
	"math"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// Evaluator maps a monthly payment to the future value it produces. It must
// be non-decreasing in payment.
type Evaluator func(payment float64) float64

// Solution is the result of inverting an Evaluator
type Solution struct {
	Payment    float64
	Iterations int
	Converged  bool
}

// Invert finds the smallest practical payment whose future value reaches
// target, using bisection over [0, UpperBoundFactor*target/months].
//
// A converged midpoint below target is raised until it reaches target, and
// an exhausted search returns the upper bound.
func Invert(target float64, months int, eval Evaluator, settings domain.EngineSettings) Solution {
	if target <= 0 || months <= 0 {
		return Solution{Converged: true}
	}

	lo := 0.0
	hi := settings.UpperBoundFactor * target / float64(months)
	if hi <= 0 {
		hi = target / float64(months)
	}

	// Negative effective returns can leave the initial bound short of target.
	for i := 0; i < settings.MaxBoundExpansions && eval(hi) < target; i++ {
		lo = hi
		hi *= 2
	}

	for i := 1; i <= settings.MaxIterations; i++ {
		mid := (lo + hi) / 2
		fv := eval(mid)

		if math.Abs(fv-target) <= settings.Tolerance {
			if fv < target {
				mid = raise(target, mid, fv, hi, eval)
			}
			return Solution{Payment: mid, Iterations: i, Converged: true}
		}

		if fv < target {
			lo = mid
		} else {
			hi = mid
		}
	}

	return Solution{Payment: hi, Iterations: settings.MaxIterations, Converged: false}
}

// raise returns a payment at or above mid that reaches target. The
// proportional step is exact when value scales with payment; otherwise the
// bracket's upper end is used.
func raise(target, mid, fv, hi float64, eval Evaluator) float64 {
	if fv > 0 {
		if scaled := mid * target / fv; eval(scaled) >= target {
			return scaled
		}
	}
	if eval(hi) >= target {
		return hi
	}
	return mid
}
