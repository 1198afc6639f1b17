package calculation

import (
	"math"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TaperedEquity returns the equity percentage in force with the given years
// left, stepping down from the initial allocation as the goal date nears.
func TaperedEquity(years, initialEquity float64, gp domain.GlidePathSettings) float64 {
	switch {
	case years >= gp.FullEquityYears:
		return initialEquity
	case years >= gp.HalfEquityYears:
		return math.Floor(math.Min(initialEquity/2, gp.HalfEquityCap))
	case years >= gp.QuarterEquityYears:
		return math.Floor(math.Min(initialEquity/4, gp.QuarterEquityCap))
	default:
		return 0
	}
}

// TaperingSchedule lists the four glide path phases for an initial allocation
func TaperingSchedule(initialEquity float64, gp domain.GlidePathSettings) [4]domain.TaperingPhase {
	thresholds := [4]float64{gp.FullEquityYears, gp.HalfEquityYears, gp.QuarterEquityYears, 0}

	var phases [4]domain.TaperingPhase
	for i, threshold := range thresholds {
		phases[i] = domain.TaperingPhase{
			YearsThreshold: threshold,
			EquityPercent:  decimal.NewFromFloat(TaperedEquity(threshold, initialEquity, gp)),
		}
	}
	return phases
}

// BlendedReturn weights the equity and debt returns by the equity share
func BlendedReturn(equityPercent, equityReturn, debtReturn float64) float64 {
	return equityPercent/100*equityReturn + (1-equityPercent/100)*debtReturn
}
