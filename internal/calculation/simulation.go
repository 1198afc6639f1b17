package calculation

import (
	"math"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// RateSchedule returns the monthly rate (as a fraction) applied when the
// given number of months remain until the goal date.
type RateSchedule func(remainingMonths int) float64

// Simulation compounds a monthly contribution stream whose rate and amount
// may change over time. Contributions are made at the start of each month.
type Simulation struct {
	Months        int
	StepUpPercent float64
	Rates         RateSchedule

	// weights[m] is the value at the goal date of one unit of base payment
	// contributed in month m: the step-up multiplier for that month times
	// the compounded growth from m to the goal.
	weights []float64
}

// NewSimulation precomputes per-month weights for a rate schedule
func NewSimulation(months int, stepUpPercent float64, rates RateSchedule) *Simulation {
	s := &Simulation{
		Months:        months,
		StepUpPercent: stepUpPercent,
		Rates:         rates,
	}
	if months <= 0 {
		return s
	}

	growth := make([]float64, months+1)
	growth[months] = 1
	for m := months - 1; m >= 0; m-- {
		growth[m] = growth[m+1] * (1 + rates(months-m))
	}

	s.weights = make([]float64, months)
	step := 1 + stepUpPercent/100
	for m := 0; m < months; m++ {
		s.weights[m] = math.Pow(step, float64(m/12)) * growth[m]
	}
	return s
}

// NewTaperingSimulation follows the glide path for a level payment
func NewTaperingSimulation(months int, initialEquity, equityReturn, debtReturn float64, gp domain.GlidePathSettings) *Simulation {
	return NewStepUpTaperingSimulation(months, initialEquity, equityReturn, debtReturn, 0, gp)
}

// NewStepUpTaperingSimulation follows the glide path and raises the payment every 12 months
func NewStepUpTaperingSimulation(months int, initialEquity, equityReturn, debtReturn, stepUpPercent float64, gp domain.GlidePathSettings) *Simulation {
	return NewSimulation(months, stepUpPercent, TaperedRateSchedule(initialEquity, equityReturn, debtReturn, gp))
}

// NewStepUpSimulation uses a constant annual rate and raises the payment every 12 months
func NewStepUpSimulation(months int, annualRatePercent, stepUpPercent float64) *Simulation {
	r := monthlyRate(annualRatePercent)
	return NewSimulation(months, stepUpPercent, func(int) float64 { return r })
}

// TaperedRateSchedule blends equity and debt returns using the equity share in force for each remaining month
func TaperedRateSchedule(initialEquity, equityReturn, debtReturn float64, gp domain.GlidePathSettings) RateSchedule {
	return func(remainingMonths int) float64 {
		equity := TaperedEquity(float64(remainingMonths)/12, initialEquity, gp)
		annual := (equity*equityReturn + (100-equity)*debtReturn) / 100
		return monthlyRate(annual)
	}
}

// FutureValue is the value at the goal date of contributing payment monthly,
// stepped up every 12 months from the start.
func (s *Simulation) FutureValue(payment float64) float64 {
	if payment <= 0 {
		return 0
	}
	total := 0.0
	for _, w := range s.weights {
		total += payment * w
	}
	return total
}

// PaymentInMonth is the stepped contribution made in month m
func (s *Simulation) PaymentInMonth(payment float64, m int) float64 {
	return payment * math.Pow(1+s.StepUpPercent/100, float64(m/12))
}
