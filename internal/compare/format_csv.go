package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Target Date",
		"Step-Up %",
		"Initial Equity %",
		"Months Remaining",
		"Inflation-Adjusted Target",
		"Gap",
		"Required Monthly",
		"Total Contributions",
		"Monthly Diff from Base",
		"Monthly % Change",
		"Contributions Diff from Base",
		"Months Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.TargetDate,
		result.StepUpPercent,
		result.InitialEquityPercent,
		strconv.Itoa(result.MonthsRemaining),
		result.InflationAdjustedTarget.StringFixed(2),
		result.GapAmount.StringFixed(2),
		result.RequiredMonthly.StringFixed(2),
		result.TotalContributions.StringFixed(2),
		result.MonthlyDiffFromBase.StringFixed(2),
		result.MonthlyPctFromBase.StringFixed(2),
		result.ContributionsDiffFromBase.StringFixed(2),
		strconv.Itoa(result.MonthsDiff),
	}
}
