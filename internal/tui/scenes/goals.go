package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/tui/tuimsg"
	"github.com/rgehrsitz/sipgo/internal/tui/tuistyles"
)

var (
	keyUp     = key.NewBinding(key.WithKeys("up", "k"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keyTop    = key.NewBinding(key.WithKeys("g"))
	keyBottom = key.NewBinding(key.WithKeys("G"))
	keySelect = key.NewBinding(key.WithKeys("enter"))
)

// GoalsModel lists every goal in the plan with its required SIP
type GoalsModel struct {
	goals         []domain.Goal
	results       map[string]domain.ProjectionResult
	selectedIndex int
	width         int
	height        int
}

// NewGoalsModel creates a new goal list scene model
func NewGoalsModel() *GoalsModel {
	return &GoalsModel{results: map[string]domain.ProjectionResult{}}
}

// SetGoals replaces the list. results are matched to goals by id.
func (m *GoalsModel) SetGoals(goals []domain.Goal, results []domain.ProjectionResult) {
	m.goals = goals
	m.results = make(map[string]domain.ProjectionResult, len(results))
	for _, r := range results {
		m.results[r.GoalID] = r
	}
	if m.selectedIndex >= len(m.goals) {
		m.selectedIndex = 0
	}
}

// SetResult replaces the projection of a single goal
func (m *GoalsModel) SetResult(goal domain.Goal, result domain.ProjectionResult) {
	for i := range m.goals {
		if m.goals[i].ID == goal.ID {
			m.goals[i] = goal
		}
	}
	m.results[result.GoalID] = result
}

// SetSize updates the scene dimensions
func (m *GoalsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedGoal returns the id of the highlighted goal
func (m *GoalsModel) SelectedGoal() string {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.goals) {
		return m.goals[m.selectedIndex].ID
	}
	return ""
}

// Update handles messages for the goal list
func (m *GoalsModel) Update(msg tea.Msg) (*GoalsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, keyDown):
		if m.selectedIndex < len(m.goals)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, keyTop):
		m.selectedIndex = 0
	case key.Matches(keyMsg, keyBottom):
		m.selectedIndex = max(0, len(m.goals)-1)
	case key.Matches(keyMsg, keySelect):
		id := m.SelectedGoal()
		if id == "" {
			return m, nil
		}
		return m, func() tea.Msg { return tuimsg.GoalSelectedMsg{GoalID: id} }
	}

	return m, nil
}

// View renders the goal list with a total row
func (m *GoalsModel) View() string {
	if len(m.goals) == 0 {
		return tuistyles.InfoStyle.Render("No goals in this plan.")
	}

	var sb strings.Builder
	header := fmt.Sprintf("  %-26s %-11s %-6s %18s", "Goal", "Target", "Term", "Monthly SIP")
	sb.WriteString(tuistyles.TableHeaderStyle.Render(header))
	sb.WriteString("\n")

	total := decimal.Zero
	for i, goal := range m.goals {
		result, ok := m.results[goal.ID]
		monthly := "-"
		term := "-"
		if ok {
			monthly = tuistyles.FormatCurrency(result.RequiredMonthlyContribution)
			term = string(result.Category)
			total = total.Add(result.RequiredMonthlyContribution)
		}

		line := fmt.Sprintf("%-26s %-11s %-6s %18s", truncate(goal.DisplayName(), 26), goal.TargetDate, term, monthly)
		if i == m.selectedIndex {
			sb.WriteString(tuistyles.SelectedItemStyle.Render("▸ " + line))
		} else {
			sb.WriteString(tuistyles.UnselectedItemStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(tuistyles.MetricLabelStyle.Render("Total monthly SIP: "))
	sb.WriteString(tuistyles.MetricValueStyle.Render(tuistyles.FormatCurrency(total)))
	sb.WriteString("\n\n")
	sb.WriteString(tuistyles.HelpDescStyle.Render("↑/↓ move • enter open goal"))

	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
