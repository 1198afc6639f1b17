package calculation

import "math"

func monthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// annuityDueFactor is the future value of one unit paid at the start of each of n months
func annuityDueFactor(r float64, months int) float64 {
	if r == 0 {
		return float64(months)
	}
	return (math.Pow(1+r, float64(months)) - 1) / r * (1 + r)
}

// FutureValueConstant returns the value at the end of the term of a level
// monthly payment made at the start of each month.
func FutureValueConstant(payment, annualRatePercent float64, months int) float64 {
	if payment <= 0 || months <= 0 {
		return 0
	}
	return payment * annuityDueFactor(monthlyRate(annualRatePercent), months)
}

// RequiredConstantPayment is the level monthly payment whose annuity-due
// future value equals targetFV.
func RequiredConstantPayment(targetFV, annualRatePercent float64, months int) float64 {
	if targetFV <= 0 || months <= 0 {
		return 0
	}
	factor := annuityDueFactor(monthlyRate(annualRatePercent), months)
	if factor <= 0 {
		return 0
	}
	return targetFV / factor
}

// compound grows a lump sum at an annual rate for fractional years
func compound(amount, annualRatePercent, years float64) float64 {
	if years <= 0 {
		return amount
	}
	return amount * math.Pow(1+annualRatePercent/100, years)
}
