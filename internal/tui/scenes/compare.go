package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/tui/tuistyles"
)

// CompareModel shows a goal against the built-in what-if templates
type CompareModel struct {
	set    *compare.ComparisonSet
	width  int
	height int
}

// NewCompareModel creates a new compare scene model
func NewCompareModel() *CompareModel {
	return &CompareModel{}
}

// SetComparison replaces the comparison on display
func (m *CompareModel) SetComparison(set *compare.ComparisonSet) {
	m.set = set
}

// Comparison returns the comparison on display
func (m *CompareModel) Comparison() *compare.ComparisonSet {
	return m.set
}

// SetSize updates the scene dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the compare scene; it is read-only
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	return m, nil
}

// View renders the comparison table and recommendations
func (m *CompareModel) View() string {
	if m.set == nil || m.set.BaseResult == nil {
		return tuistyles.InfoStyle.Render("No comparison to display.\n\nPress ESC to go back.")
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("What-if: " + m.set.BaseScenarioName))
	sb.WriteString("\n\n")
	sb.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-30s %-11s %18s %14s", "Scenario", "Target", "Monthly SIP", "Change")))
	sb.WriteString("\n")

	base := m.set.BaseResult
	sb.WriteString(fmt.Sprintf("%-30s %-11s %18s %14s\n",
		truncate(base.ScenarioName+" (base)", 30), base.TargetDate, tuistyles.FormatCurrency(base.RequiredMonthly), ""))

	for _, alt := range m.set.AlternativeResults {
		change := alt.MonthlyPctFromBase.StringFixed(1) + "%"
		style := lipgloss.NewStyle()
		switch {
		case alt.MonthlyDiffFromBase.IsNegative():
			style = tuistyles.MetricPositiveStyle
		case alt.MonthlyDiffFromBase.IsPositive():
			style = tuistyles.MetricNegativeStyle
			change = "+" + change
		}
		sb.WriteString(fmt.Sprintf("%-30s %-11s %18s ",
			truncate(alt.ScenarioName, 30), alt.TargetDate, tuistyles.FormatCurrency(alt.RequiredMonthly)))
		sb.WriteString(style.Render(fmt.Sprintf("%14s", change)))
		sb.WriteString("\n")
	}

	if len(m.set.Recommendations) > 0 {
		sb.WriteString("\n")
		sb.WriteString(tuistyles.TableHeaderStyle.Render("Recommendations"))
		sb.WriteString("\n")
		for _, rec := range m.set.Recommendations {
			sb.WriteString("• " + rec + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(tuistyles.HelpDescStyle.Render("esc back to goal"))
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}
