package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// CSVScheduleExporter writes every goal's year-by-year schedule as one CSV table.
type CSVScheduleExporter struct{}

func (c CSVScheduleExporter) Name() string { return "schedule-csv" }

func (c CSVScheduleExporter) Format(report *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"GoalID", "Year", "YearsRemaining", "EquityPercent", "MonthlyContribution", "AnnualContribution", "CumulativeContributions", "ProjectedValue"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range report.Schedules {
		for _, row := range s.Rows {
			record := []string{
				s.GoalID,
				strconv.Itoa(row.Year),
				row.YearsRemaining.StringFixed(2),
				row.EquityPercent.StringFixed(2),
				row.MonthlyContribution.StringFixed(2),
				row.AnnualContribution.StringFixed(2),
				row.CumulativeContributions.StringFixed(2),
				row.ProjectedValue.StringFixed(2),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
