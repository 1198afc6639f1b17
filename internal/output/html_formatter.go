package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":      FormatCurrency,
	"pct":       FormatPercentage,
	"glidePath": glidePathSummary,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.PlanReport
		AsOfDate     string
		TotalMonthly string
		Assumptions  []string
	}{report, report.AsOf.Format(domain.DateLayout), FormatCurrency(report.TotalRequiredMonthly()), AssumptionLines(report.ReturnAssumptions)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
