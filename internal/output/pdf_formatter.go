package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// pdfText converts report text to something the standard PDF fonts can draw.
// The core fonts are Latin-1 only, so the rupee sign is spelled out.
func pdfText(s string) string {
	s = strings.ReplaceAll(s, "₹", "Rs. ")
	return strings.ReplaceAll(s, "•", "-")
}

func pdfCurrency(amount decimal.Decimal) string {
	return "Rs. " + groupIndian(amount.StringFixed(2))
}

// PDFFormatter renders the plan as an A4 PDF: a summary page followed by one page per goal.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	r := &pdfReport{
		pdf:    fpdf.New("P", "mm", "A4", ""),
		report: report,
	}

	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle("SIP Goal Plan", false)

	r.addSummaryPage()
	for i := range report.Projections {
		r.addGoalPage(&report.Projections[i])
	}

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pdfReport struct {
	pdf    *fpdf.Fpdf
	report *domain.PlanReport
}

func (r *pdfReport) addSummaryPage() {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 24)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 14, "SIP Goal Plan", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 6, "As of "+r.report.AsOf.Format(domain.DateLayout), "", 1, "C", false, 0, "")
	if r.report.CalculationID != "" {
		r.pdf.CellFormat(contentWidth, 6, "Calculation "+r.report.CalculationID, "", 1, "C", false, 0, "")
	}
	r.pdf.Ln(8)

	r.drawSectionHeader("Goals")
	widths := []float64{60, 20, 25, 40, 35}
	r.drawTableHeader([]string{"Goal", "Type", "Months", "Target (inflated)", "Monthly SIP"}, widths)
	for i, proj := range r.report.Projections {
		r.drawTableRow([]string{
			proj.GoalName,
			string(proj.Category),
			fmt.Sprintf("%d", proj.MonthsRemaining),
			pdfCurrency(proj.InflationAdjustedTarget),
			pdfCurrency(proj.RequiredMonthlyContribution),
		}, widths, false, i%2 == 1)
	}
	r.drawTableRow([]string{"Total", "", "", "", pdfCurrency(r.report.TotalRequiredMonthly())}, widths, true, false)

	r.pdf.Ln(8)
	r.drawSectionHeader("Assumptions")
	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetTextColor(50, 50, 50)
	for _, a := range AssumptionLines(r.report.ReturnAssumptions) {
		r.pdf.MultiCell(contentWidth, 5, pdfText("- "+a), "", "L", false)
	}
}

func (r *pdfReport) addGoalPage(proj *domain.ProjectionResult) {
	r.pdf.AddPage()
	r.drawSectionHeader(fmt.Sprintf("%s (%s-term)", proj.GoalName, proj.Category))

	widths := []float64{100, 80}
	r.drawTableHeader([]string{"Metric", "Value"}, widths)
	rows := [][]string{
		{"Time Remaining", fmt.Sprintf("%s years (%d months)", proj.YearsRemaining.StringFixed(2), proj.MonthsRemaining)},
		{"Inflation-Adjusted Target", pdfCurrency(proj.InflationAdjustedTarget)},
		{"Blended Return", FormatPercentage(proj.BlendedReturnPercent)},
		{"Linked Assets (future)", pdfCurrency(proj.LinkedAssetsFutureValue)},
	}
	if rb := proj.RetirementBreakdown; rb != nil {
		rows = append(rows,
			[]string{"EPF (future)", pdfCurrency(rb.EPF.Total())},
			[]string{"NPS (future)", pdfCurrency(rb.NPS.Total())},
		)
	}
	rows = append(rows,
		[]string{"Gap", pdfCurrency(proj.GapAmount)},
		[]string{"Method", string(proj.Method)},
	)
	for i, row := range rows {
		r.drawTableRow(row, widths, false, i%2 == 1)
	}
	r.drawTableRow([]string{"Required Monthly SIP", pdfCurrency(proj.RequiredMonthlyContribution)}, widths, true, false)

	if proj.Category == domain.CategoryLong {
		r.pdf.Ln(4)
		r.pdf.SetFont("Arial", "", 9)
		r.pdf.SetTextColor(50, 50, 50)
		r.pdf.MultiCell(contentWidth, 5, "Glide path: "+glidePathSummary(proj.TaperingSchedule), "", "L", false)
	}
	if !proj.Converged {
		r.pdf.SetTextColor(185, 74, 72)
		r.pdf.MultiCell(contentWidth, 5, "The contribution search did not converge; the SIP shown is an upper bound.", "", "L", false)
	}

	schedule := r.report.ScheduleFor(proj.GoalID)
	if len(schedule) == 0 {
		return
	}

	r.pdf.Ln(6)
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7, "Year-by-Year Schedule", "", 1, "L", false, 0, "")

	widths = []float64{18, 22, 45, 50, 45}
	r.drawTableHeader([]string{"Year", "Equity", "Monthly SIP", "Contributed", "Projected"}, widths)
	for i, row := range schedule {
		if r.pdf.GetY() > 260 {
			r.pdf.AddPage()
			r.drawTableHeader([]string{"Year", "Equity", "Monthly SIP", "Contributed", "Projected"}, widths)
		}
		r.drawTableRow([]string{
			fmt.Sprintf("%d", row.Year),
			row.EquityPercent.StringFixed(0) + "%",
			pdfCurrency(row.MonthlyContribution),
			pdfCurrency(row.CumulativeContributions),
			pdfCurrency(row.ProjectedValue),
		}, widths, false, i%2 == 1)
	}
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, pdfText(title), "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(5)
}

func (r *pdfReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(cells []string, widths []float64, isBold, shaded bool) {
	r.pdf.SetTextColor(50, 50, 50)
	style := ""
	if isBold {
		style = "B"
	}
	r.pdf.SetFont("Arial", style, 9)

	switch {
	case isBold:
		r.pdf.SetFillColor(240, 240, 240)
	case shaded:
		r.pdf.SetFillColor(250, 250, 250)
	default:
		r.pdf.SetFillColor(255, 255, 255)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, pdfText(cell), "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}
