package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/sipgo/internal/tui/tuistyles"
)

// AllocationBar shows an equity/debt split as a single filled bar
type AllocationBar struct {
	Label         string
	EquityPercent float64
	Width         int
}

// NewAllocationBar creates a bar for one glide path phase
func NewAllocationBar(label string, equityPercent float64) *AllocationBar {
	return &AllocationBar{Label: label, EquityPercent: equityPercent, Width: 30}
}

// WithWidth sets the bar width
func (a *AllocationBar) WithWidth(width int) *AllocationBar {
	a.Width = width
	return a
}

// Render returns the styled bar, e.g. "8+ yrs   [█████░░░░░] 50% equity"
func (a *AllocationBar) Render() string {
	pct := a.EquityPercent
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}

	filled := int(float64(a.Width) * pct / 100)
	empty := a.Width - filled

	equity := lipgloss.NewStyle().Foreground(tuistyles.ColorEquity)
	debt := lipgloss.NewStyle().Foreground(tuistyles.ColorDebt)

	var sb strings.Builder
	sb.WriteString(tuistyles.MetricLabelStyle.Render(fmt.Sprintf("%-9s", a.Label)))
	sb.WriteString("[")
	if filled > 0 {
		sb.WriteString(equity.Render(strings.Repeat("█", filled)))
	}
	if empty > 0 {
		sb.WriteString(debt.Render(strings.Repeat("░", empty)))
	}
	sb.WriteString("] ")
	sb.WriteString(fmt.Sprintf("%3.0f%% equity", pct))
	return sb.String()
}

// ValueBars draws one horizontal bar per point, scaled to the largest value
type ValueBars struct {
	Title  string
	Labels []string
	Values []float64
	Format func(float64) string
	Width  int
}

// NewValueBars creates a bar chart
func NewValueBars(title string, labels []string, values []float64) *ValueBars {
	return &ValueBars{
		Title:  title,
		Labels: labels,
		Values: values,
		Format: func(v float64) string { return fmt.Sprintf("%.0f", v) },
		Width:  40,
	}
}

// Render returns the chart, or a placeholder when there is nothing to draw
func (v *ValueBars) Render() string {
	if len(v.Values) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	peak := 0.0
	labelWidth := 0
	for i, val := range v.Values {
		peak = max(peak, val)
		if i < len(v.Labels) {
			labelWidth = max(labelWidth, len(v.Labels[i]))
		}
	}

	bar := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)

	var sb strings.Builder
	if v.Title != "" {
		sb.WriteString(tuistyles.TableHeaderStyle.Render(v.Title))
		sb.WriteString("\n")
	}
	for i, val := range v.Values {
		label := ""
		if i < len(v.Labels) {
			label = v.Labels[i]
		}
		n := 0
		if peak > 0 && val > 0 {
			n = max(1, int(float64(v.Width)*val/peak))
		}
		sb.WriteString(fmt.Sprintf("%-*s ", labelWidth, label))
		sb.WriteString(bar.Render(strings.Repeat("▇", n)))
		sb.WriteString(" " + v.Format(val) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
