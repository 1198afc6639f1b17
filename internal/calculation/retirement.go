package calculation

import (
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// RetirementEligible reports whether EPF/NPS streams count toward the goal
func RetirementEligible(goal *domain.Goal, rc *domain.RetirementContributions) bool {
	if goal == nil || rc == nil {
		return false
	}
	if !goal.IsRetirement() || !goal.IncludeRetirementContributions {
		return false
	}
	return rc.Total().GreaterThan(decimal.Zero)
}

// EffectiveStepUpPercent is the step-up applied to EPF/NPS contributions:
// the goal's own step-up when the household steps up its retirement
// contributions, otherwise none.
func EffectiveStepUpPercent(goal *domain.Goal, rc *domain.RetirementContributions) float64 {
	if rc == nil || !rc.StepUpEnabled {
		return 0
	}
	return goal.AnnualStepUpPercent.InexactFloat64()
}

func projectStream(monthly, corpus decimal.Decimal, ratePercent decimal.Decimal, years float64, months int, stepUpPercent float64) domain.StreamBreakdown {
	rate := ratePercent.InexactFloat64()
	corpusFV := compound(corpus.InexactFloat64(), rate, years)
	contributionFV := NewStepUpSimulation(months, rate, stepUpPercent).FutureValue(monthly.InexactFloat64())
	return domain.StreamBreakdown{
		ReturnPercent:           ratePercent,
		CorpusFutureValue:       decimal.NewFromFloat(corpusFV),
		ContributionFutureValue: decimal.NewFromFloat(contributionFV),
	}
}

// RetirementFutureValue projects the EPF and NPS streams independently, each
// at its own rate. It returns nil when rc is absent or carries nothing.
func RetirementFutureValue(rc *domain.RetirementContributions, years float64, months int, returns domain.ReturnAssumptions, stepUpPercent float64) *domain.RetirementBreakdown {
	if rc == nil || !rc.Total().GreaterThan(decimal.Zero) {
		return nil
	}

	epf := projectStream(rc.MonthlyEPF, rc.EPFCorpus, returns.EPFReturnPercent, years, months, stepUpPercent)
	nps := projectStream(rc.MonthlyNPS, rc.NPSCorpus, returns.NPSReturnPercent, years, months, stepUpPercent)

	corpusFV := epf.CorpusFutureValue.Add(nps.CorpusFutureValue)
	contributionFV := epf.ContributionFutureValue.Add(nps.ContributionFutureValue)

	return &domain.RetirementBreakdown{
		CorpusFutureValue:       corpusFV,
		ContributionFutureValue: contributionFV,
		TotalFutureValue:        corpusFV.Add(contributionFV),
		EffectiveStepUpPercent:  decimal.NewFromFloat(stepUpPercent),
		EPF:                     epf,
		NPS:                     nps,
	}
}
