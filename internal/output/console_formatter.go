package output

import (
	"bytes"
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "SIP PLAN SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "As of: %s\n", report.AsOf.Format(domain.DateLayout))
	fmt.Fprintln(&buf)
	for _, r := range report.Projections {
		fmt.Fprintf(&buf, "%s [%s]: SIP=%s/mo Target=%s Gap=%s Months=%d\n",
			r.GoalName,
			r.Category,
			FormatCurrency(r.RequiredMonthlyContribution),
			FormatCurrency(r.InflationAdjustedTarget),
			FormatCurrency(r.GapAmount),
			r.MonthsRemaining,
		)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Total Monthly SIP: %s\n", FormatCurrency(report.TotalRequiredMonthly()))
	return buf.Bytes(), nil
}
