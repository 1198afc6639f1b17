package calculation

import (
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildSchedule lays out a projection year by year: the equity share in
// force, the stepped contribution and the portfolio value the contributions
// have grown to by the end of each goal year. Compounding matches the
// simulation the engine solved against, so the last row meets the gap.
func BuildSchedule(goal *domain.Goal, result domain.ProjectionResult, returns domain.ReturnAssumptions, settings domain.EngineSettings) []domain.ScheduleRow {
	months := result.MonthsRemaining
	if months <= 0 {
		return nil
	}

	payment := result.RequiredMonthlyContribution.InexactFloat64()
	initialEquity := goal.InitialEquityPercent.InexactFloat64()

	var rates RateSchedule
	stepUp := 0.0
	if result.Category == domain.CategoryShort {
		r := monthlyRate(result.BlendedReturnPercent.InexactFloat64())
		rates = func(int) float64 { return r }
	} else {
		rates = TaperedRateSchedule(initialEquity, returns.EquityReturnPercent.InexactFloat64(), returns.DebtReturnPercent.InexactFloat64(), settings.GlidePath)
		stepUp = goal.AnnualStepUpPercent.InexactFloat64()
	}
	sim := &Simulation{Months: months, StepUpPercent: stepUp, Rates: rates}

	var rows []domain.ScheduleRow
	value, cumulative := 0.0, 0.0
	for start := 0; start < months; start += 12 {
		end := min(start+12, months)
		remainingYears := float64(months-start) / 12

		equity := 0.0
		if result.Category == domain.CategoryLong {
			equity = TaperedEquity(remainingYears, initialEquity, settings.GlidePath)
		}

		monthly := sim.PaymentInMonth(payment, start)
		annual := 0.0
		for m := start; m < end; m++ {
			contribution := sim.PaymentInMonth(payment, m)
			annual += contribution
			value = (value + contribution) * (1 + rates(months-m))
		}
		cumulative += annual

		rows = append(rows, domain.ScheduleRow{
			Year:                    start/12 + 1,
			YearsRemaining:          decimal.NewFromFloat(remainingYears),
			EquityPercent:           decimal.NewFromFloat(equity),
			MonthlyContribution:     decimal.NewFromFloat(monthly),
			AnnualContribution:      decimal.NewFromFloat(annual),
			CumulativeContributions: decimal.NewFromFloat(cumulative),
			ProjectedValue:          decimal.NewFromFloat(value),
		})
	}
	return rows
}

// Schedule builds the year-by-year table with the engine's settings
func (ce *CalculationEngine) Schedule(goal *domain.Goal, result domain.ProjectionResult, returns domain.ReturnAssumptions) []domain.ScheduleRow {
	return BuildSchedule(goal, result, returns, ce.Settings)
}
