package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed per-goal console report.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "GOAL-BASED SIP PLAN")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintf(&buf, "As of: %s\n", report.AsOf.Format(domain.DateLayout))
	if report.CalculationID != "" {
		fmt.Fprintf(&buf, "Calculation: %s\n", report.CalculationID)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range AssumptionLines(report.ReturnAssumptions) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, r := range report.Projections {
		fmt.Fprintf(&buf, "GOAL %d: %s (%s)\n", i+1, r.GoalName, r.GoalID)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeProjection(&buf, r)

		if rows := report.ScheduleFor(r.GoalID); len(rows) > 0 {
			fmt.Fprintln(&buf)
			writeSchedule(&buf, rows)
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintf(&buf, "TOTAL MONTHLY SIP ACROSS %d GOALS: %s\n", len(report.Projections), FormatCurrency(report.TotalRequiredMonthly()))
	fmt.Fprintln(&buf, strings.Repeat("=", 81))

	return buf.Bytes(), nil
}

func writeProjection(buf *bytes.Buffer, r domain.ProjectionResult) {
	fmt.Fprintf(buf, "  Category:                  %s-term\n", r.Category)
	fmt.Fprintf(buf, "  Time Remaining:            %s years (%d months)\n", r.YearsRemaining.StringFixed(2), r.MonthsRemaining)
	fmt.Fprintf(buf, "  Inflation-Adjusted Target: %s\n", FormatCurrency(r.InflationAdjustedTarget))
	fmt.Fprintf(buf, "  Blended Return:            %s\n", FormatPercentage(r.BlendedReturnPercent))
	fmt.Fprintf(buf, "  Linked Assets (future):    %s\n", FormatCurrency(r.LinkedAssetsFutureValue))

	if rb := r.RetirementBreakdown; rb != nil {
		fmt.Fprintf(buf, "  EPF/NPS (future):          %s\n", FormatCurrency(rb.TotalFutureValue))
		fmt.Fprintf(buf, "    EPF @ %s:            corpus %s + contributions %s\n",
			FormatPercentage(rb.EPF.ReturnPercent), FormatCurrency(rb.EPF.CorpusFutureValue), FormatCurrency(rb.EPF.ContributionFutureValue))
		fmt.Fprintf(buf, "    NPS @ %s:           corpus %s + contributions %s\n",
			FormatPercentage(rb.NPS.ReturnPercent), FormatCurrency(rb.NPS.CorpusFutureValue), FormatCurrency(rb.NPS.ContributionFutureValue))
		if rb.EffectiveStepUpPercent.IsPositive() {
			fmt.Fprintf(buf, "    Step-up applied:         %s\n", FormatPercentage(rb.EffectiveStepUpPercent))
		}
	}

	fmt.Fprintf(buf, "  Gap:                       %s\n", FormatCurrency(r.GapAmount))
	fmt.Fprintf(buf, "  REQUIRED MONTHLY SIP:      %s (%s)\n", FormatCurrency(r.RequiredMonthlyContribution), r.Method)
	if r.Category == domain.CategoryLong {
		fmt.Fprintf(buf, "  Glide Path:                %s\n", glidePathSummary(r.TaperingSchedule))
	}
	if !r.Converged {
		fmt.Fprintln(buf, "  WARNING: contribution search did not converge; the SIP shown is an upper bound")
	}
}

func writeSchedule(buf *bytes.Buffer, rows []domain.ScheduleRow) {
	fmt.Fprintf(buf, "  %-5s %8s %16s %18s %18s\n", "Year", "Equity", "Monthly SIP", "Contributed", "Projected Value")
	fmt.Fprintf(buf, "  %s\n", strings.Repeat("-", 69))
	for _, row := range rows {
		fmt.Fprintf(buf, "  %-5d %7s%% %16s %18s %18s\n",
			row.Year,
			row.EquityPercent.StringFixed(0),
			FormatCurrency(row.MonthlyContribution),
			FormatCurrency(row.CumulativeContributions),
			FormatCurrency(row.ProjectedValue))
	}
}
