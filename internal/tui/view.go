package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch {
	case m.err != nil:
		content = ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err))
	case m.loading:
		content = BorderStyle.Render("⠋ " + m.loadingMessage)
	default:
		switch m.currentScene {
		case SceneGoals:
			content = m.goalsModel.View()
		case SceneDetail:
			content = m.detailModel.View()
		case SceneCompare:
			content = m.compareModel.View()
		case SceneHelp:
			content = m.renderHelp()
		default:
			content = "Unknown scene"
		}
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := max(0, m.height-4)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("SIPGO - Goal-based SIP Planner")

	breadcrumb := m.currentScene.String()
	if goal := m.detailModel.Goal(); goal != nil && (m.currentScene == SceneDetail || m.currentScene == SceneCompare) {
		breadcrumb = fmt.Sprintf("%s / %s", breadcrumb, goal.DisplayName())
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(breadcrumb))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("enter", "open"),
		formatShortcut("esc", "back"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	statusText := strings.Join(shortcuts, " • ")

	if m.config != nil {
		planName := SubtitleStyle.Render(fmt.Sprintf("%d goals", len(m.config.Goals)))
		spacer := strings.Repeat(" ", max(0, m.width-lipgloss.Width(statusText)-lipgloss.Width(planName)-2))
		statusText += spacer + planName
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	bindings := [][2]string{
		{"↑/↓ j/k", "Move through the goal list"},
		{"g/G", "Jump to first/last goal"},
		{"enter", "Open the highlighted goal"},
		{"s", "Edit the goal's annual step-up"},
		{"e", "Edit the goal's initial equity share"},
		{"c", "Compare the goal against the built-in what-ifs"},
		{"esc", "Go back / cancel an edit"},
		{"?", "Show this help"},
		{"q, ctrl+c", "Quit"},
	}

	var sb strings.Builder
	sb.WriteString("KEYBOARD SHORTCUTS\n\n")
	for _, b := range bindings {
		sb.WriteString(HelpKeyStyle.Render(fmt.Sprintf("  %-10s", b[0])))
		sb.WriteString(HelpDescStyle.Render(b[1]))
		sb.WriteString("\n")
	}
	sb.WriteString("\nEdits change the plan in memory only; the plan file is never rewritten.")

	return BorderStyle.Render(sb.String())
}
