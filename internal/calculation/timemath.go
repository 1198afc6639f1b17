package calculation

import (
	"math"
	"time"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

const daysPerYear = 365.25

// YearsRemaining returns the fractional years from now until target, never negative
func YearsRemaining(target, now time.Time) float64 {
	d := target.Sub(now)
	if d <= 0 {
		return 0
	}
	return d.Hours() / 24 / daysPerYear
}

// MonthsRemaining converts fractional years into whole months, truncating any partial month
func MonthsRemaining(years float64) int {
	if years <= 0 {
		return 0
	}
	return int(math.Floor(years * 12))
}

// TimeRemaining returns years and whole months until target
func TimeRemaining(target, now time.Time) (float64, int) {
	years := YearsRemaining(target, now)
	return years, MonthsRemaining(years)
}

// Classify buckets a goal as short or long term. The threshold itself is long term.
func Classify(years float64, settings domain.EngineSettings) domain.GoalCategory {
	if years < settings.ShortTermThresholdYears {
		return domain.CategoryShort
	}
	return domain.CategoryLong
}
