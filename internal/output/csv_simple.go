package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per goal).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"GoalID", "GoalName", "Category", "YearsRemaining", "MonthsRemaining", "InflationAdjustedTarget", "BlendedReturnPercent", "LinkedAssetsFutureValue", "RetirementFutureValue", "GapAmount", "RequiredMonthlyContribution", "Method", "Converged"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range report.Projections {
		r := &report.Projections[i]
		row := []string{
			r.GoalID,
			r.GoalName,
			string(r.Category),
			r.YearsRemaining.StringFixed(4),
			strconv.Itoa(r.MonthsRemaining),
			r.InflationAdjustedTarget.StringFixed(2),
			r.BlendedReturnPercent.StringFixed(2),
			r.LinkedAssetsFutureValue.StringFixed(2),
			r.RetirementFutureValue().StringFixed(2),
			r.GapAmount.StringFixed(2),
			r.RequiredMonthlyContribution.StringFixed(2),
			string(r.Method),
			strconv.FormatBool(r.Converged),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
