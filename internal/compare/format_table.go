package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	crore = decimal.NewFromInt(10000000)
	lakh  = decimal.NewFromInt(100000)
	thou  = decimal.NewFromInt(1000)
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing goal variants
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("GOAL WHAT-IF COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Goal: %s (%s)\n", compSet.BaseScenarioName, compSet.GoalID))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 12

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Target Date",
		numWidth, "Monthly SIP",
		numWidth, "Total Paid",
		numWidth, "Gap"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			// Lower contributions are better
			sb.WriteString(fmt.Sprintf("  Monthly SIP:      %sRs. %s (%s%%)\n",
				tf.deltaSymbol(alt.MonthlyDiffFromBase),
				tf.formatDecimal(alt.MonthlyDiffFromBase.Abs()),
				alt.MonthlyPctFromBase.StringFixed(1)))

			if !alt.ContributionsDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Total Paid:       %sRs. %s\n",
					tf.deltaSymbol(alt.ContributionsDiffFromBase),
					tf.formatDecimal(alt.ContributionsDiffFromBase.Abs())))
			}

			if alt.MonthsDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Horizon:          %+d months\n", alt.MonthsDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, result.TargetDate,
		numWidth, tf.formatDecimal(result.RequiredMonthly),
		numWidth, tf.formatDecimal(result.TotalContributions),
		numWidth, tf.formatDecimal(result.GapAmount))
}

// formatDecimal formats an amount in crores, lakhs or thousands
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(crore):
		return d.Div(crore).StringFixed(2) + "Cr"
	case abs.GreaterThanOrEqual(lakh):
		return d.Div(lakh).StringFixed(2) + "L"
	case abs.GreaterThanOrEqual(thou):
		return d.Div(thou).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a sign for a delta; the magnitude is printed separately
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each alternative
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.MonthlyDiffFromBase.IsPositive() {
			change = fmt.Sprintf("+Rs. %s/mo", tf.formatDecimal(alt.MonthlyDiffFromBase))
		} else if alt.MonthlyDiffFromBase.IsNegative() {
			change = fmt.Sprintf("-Rs. %s/mo", tf.formatDecimal(alt.MonthlyDiffFromBase.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
