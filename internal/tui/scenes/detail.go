package scenes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/output"
	"github.com/rgehrsitz/sipgo/internal/transform"
	"github.com/rgehrsitz/sipgo/internal/tui/components"
	"github.com/rgehrsitz/sipgo/internal/tui/tuimsg"
	"github.com/rgehrsitz/sipgo/internal/tui/tuistyles"
)

var (
	keyEditStepUp = key.NewBinding(key.WithKeys("s"))
	keyEditEquity = key.NewBinding(key.WithKeys("e"))
	keyCompare    = key.NewBinding(key.WithKeys("c"))
	keyCancel     = key.NewBinding(key.WithKeys("esc"))
)

// EditField is the goal parameter being edited in the detail scene
type EditField int

const (
	EditNone EditField = iota
	EditStepUp
	EditEquity
)

func (f EditField) String() string {
	switch f {
	case EditStepUp:
		return "Annual step-up %"
	case EditEquity:
		return "Initial equity %"
	default:
		return ""
	}
}

// GoalDetailModel shows one goal's projection and lets the user adjust it
type GoalDetailModel struct {
	goal     *domain.Goal
	result   *domain.ProjectionResult
	previous *domain.ProjectionResult
	schedule []domain.ScheduleRow

	editing  EditField
	input    textinput.Model
	inputErr string

	width  int
	height int
}

// NewGoalDetailModel creates a new detail scene model
func NewGoalDetailModel() *GoalDetailModel {
	ti := textinput.New()
	ti.Placeholder = "e.g., 10"
	ti.CharLimit = 6
	ti.Width = 10

	return &GoalDetailModel{input: ti}
}

// SetGoal shows a goal. Re-showing the same goal keeps the old result for the trend.
func (m *GoalDetailModel) SetGoal(goal domain.Goal, result domain.ProjectionResult, schedule []domain.ScheduleRow) {
	if m.goal != nil && m.result != nil && m.goal.ID == goal.ID {
		prev := *m.result
		m.previous = &prev
	} else {
		m.previous = nil
	}
	m.goal = &goal
	m.result = &result
	m.schedule = schedule
}

// Goal returns the goal on display
func (m *GoalDetailModel) Goal() *domain.Goal {
	return m.goal
}

// SetSize updates the scene dimensions
func (m *GoalDetailModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Editing reports whether a parameter prompt has focus
func (m *GoalDetailModel) Editing() bool {
	return m.editing != EditNone
}

// Update handles messages for the detail scene
func (m *GoalDetailModel) Update(msg tea.Msg) (*GoalDetailModel, tea.Cmd) {
	if m.goal == nil {
		return m, nil
	}
	if m.Editing() {
		return m.updateEditing(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyEditStepUp):
		return m, m.startEdit(EditStepUp, m.goal.AnnualStepUpPercent)
	case key.Matches(keyMsg, keyEditEquity):
		return m, m.startEdit(EditEquity, m.goal.InitialEquityPercent)
	case key.Matches(keyMsg, keyCompare):
		id := m.goal.ID
		return m, func() tea.Msg { return tuimsg.CompareRequestedMsg{GoalID: id} }
	}
	return m, nil
}

func (m *GoalDetailModel) startEdit(field EditField, current decimal.Decimal) tea.Cmd {
	m.editing = field
	m.inputErr = ""
	m.input.Reset()
	m.input.Placeholder = current.String()
	return m.input.Focus()
}

func (m *GoalDetailModel) stopEdit() {
	m.editing = EditNone
	m.input.Blur()
	m.input.Reset()
}

func (m *GoalDetailModel) updateEditing(msg tea.Msg) (*GoalDetailModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keyCancel):
			m.stopEdit()
			m.inputErr = ""
			return m, nil

		case key.Matches(keyMsg, keySelect):
			t, err := m.buildTransform()
			if err != nil {
				m.inputErr = err.Error()
				return m, nil
			}
			id := m.goal.ID
			m.stopEdit()
			return m, func() tea.Msg { return tuimsg.GoalEditedMsg{GoalID: id, Transform: t} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// buildTransform turns the prompt into a validated transform
func (m *GoalDetailModel) buildTransform() (transform.GoalTransform, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(m.input.Value()), "%")
	if raw == "" {
		return nil, fmt.Errorf("enter a percentage")
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}

	var t transform.GoalTransform
	switch m.editing {
	case EditStepUp:
		t = &transform.SetStepUp{Percent: value}
	case EditEquity:
		t = &transform.SetEquity{Percent: value}
	default:
		return nil, fmt.Errorf("nothing is being edited")
	}

	if err := t.Validate(m.goal); err != nil {
		return nil, err
	}
	return t, nil
}

// View renders the detail scene
func (m *GoalDetailModel) View() string {
	if m.goal == nil || m.result == nil {
		return tuistyles.InfoStyle.Render("No goal selected.\n\nPress ESC to go back.")
	}

	sections := []string{
		m.renderHeader(),
		m.renderMetrics(),
	}
	if m.result.Category == domain.CategoryLong {
		sections = append(sections, m.renderGlidePath())
	}
	if len(m.schedule) > 0 {
		sections = append(sections, m.renderSchedule())
	}
	sections = append(sections, m.renderPrompt())

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *GoalDetailModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(m.goal.DisplayName())
	sub := fmt.Sprintf("Target %s by %s • %d months • %s-term • step-up %s%% • equity %s%%",
		tuistyles.FormatCurrency(m.goal.TargetAmount),
		m.goal.TargetDate,
		m.result.MonthsRemaining,
		m.result.Category,
		m.goal.AnnualStepUpPercent.String(),
		m.goal.InitialEquityPercent.String())
	return title + "\n" + tuistyles.SubtitleStyle.Render(sub) + "\n"
}

// compactWidth is the terminal width below which metric cards lose their borders
const compactWidth = 64

func (m *GoalDetailModel) renderMetrics() string {
	monthly := components.NewMetricCard("Monthly SIP", tuistyles.FormatCurrency(m.result.RequiredMonthlyContribution))
	if m.previous != nil {
		delta := m.result.RequiredMonthlyContribution.Sub(m.previous.RequiredMonthlyContribution)
		if !delta.IsZero() {
			monthly.WithTrend(delta.IsPositive(), delta.IsNegative(), tuistyles.FormatCurrency(delta.Abs()))
		}
	}
	if !m.result.Converged {
		monthly.WithDescription("upper bound, search did not converge")
	}

	cards := []*components.MetricCard{
		monthly,
		components.NewMetricCard("Inflation-adjusted target", tuistyles.FormatCurrency(m.result.InflationAdjustedTarget)),
		components.NewMetricCard("Linked assets at target", tuistyles.FormatCurrency(m.result.LinkedAssetsFutureValue)),
		components.NewMetricCard("Gap to fund", tuistyles.FormatCurrency(m.result.GapAmount)),
	}
	if m.result.RetirementBreakdown != nil {
		cards = append(cards, components.NewMetricCard("EPF + NPS at target", tuistyles.FormatCurrency(m.result.RetirementFutureValue())))
	}

	if m.width > 0 && m.width < compactWidth {
		return components.MetricList(cards)
	}
	columns := 2
	if m.width >= 130 {
		columns = 4
	}
	return components.MetricGrid(cards, columns)
}

func (m *GoalDetailModel) renderGlidePath() string {
	lines := []string{tuistyles.TableHeaderStyle.Render("Glide path")}
	for i, phase := range m.result.TaperingSchedule {
		lines = append(lines, components.NewAllocationBar(output.GlidePathLabels[i], phase.EquityPercent.InexactFloat64()).Render())
	}
	return "\n" + strings.Join(lines, "\n")
}

func (m *GoalDetailModel) renderSchedule() string {
	labels := make([]string, len(m.schedule))
	values := make([]float64, len(m.schedule))
	for i, row := range m.schedule {
		labels[i] = "Y" + strconv.Itoa(row.Year)
		values[i] = row.ProjectedValue.InexactFloat64()
	}
	chart := components.NewValueBars("Projected SIP corpus by goal year", labels, values)
	chart.Format = func(v float64) string { return tuistyles.FormatCurrency(decimal.NewFromFloat(v).Round(0)) }
	return "\n" + chart.Render()
}

func (m *GoalDetailModel) renderPrompt() string {
	if !m.Editing() {
		return "\n" + tuistyles.HelpDescStyle.Render("s step-up • e equity • c compare what-ifs • esc back")
	}
	prompt := "\n" + tuistyles.MetricLabelStyle.Render(m.editing.String()+": ") + m.input.View()
	if m.inputErr != "" {
		prompt += "\n" + tuistyles.ErrorStyle.Render(m.inputErr)
	}
	return prompt + "\n" + tuistyles.HelpDescStyle.Render("enter apply • esc cancel")
}
