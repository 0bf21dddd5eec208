package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/output"
)

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	completedStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("240"))
	descriptionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	syncingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	inputCursorMarker = "_"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" Task Manager "))
	b.WriteString("\n\n")

	b.WriteString(m.renderInput("Title", m.draft.Title, focusTitle))
	b.WriteString("\n")
	b.WriteString(m.renderInput("Description", m.draft.Description, focusDescription))
	b.WriteString("\n\n")

	b.WriteString(m.renderTasks())
	b.WriteString("\n")

	if status := m.renderStatus(); status != "" {
		b.WriteString(status)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderInput(label, value string, f focus) string {
	style := labelStyle
	if m.focus == f {
		style = activeLabelStyle
		value += inputCursorMarker
	}
	return fmt.Sprintf("%s %s", style.Render(fmt.Sprintf("%-12s", label+":")), value)
}

func (m Model) renderTasks() string {
	if len(m.tasks) == 0 {
		return "  " + output.EmptyMessage + "\n"
	}

	var b strings.Builder
	for i, task := range m.tasks {
		pointer := "  "
		if m.focus == focusList && i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}

		title := output.NormalizeTitle(task.Title)
		if task.Completed {
			title = completedStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s%s %s\n", pointer, output.Checkbox(task.Completed), title)

		if desc := strings.TrimSpace(task.Description); desc != "" {
			fmt.Fprintf(&b, "      %s\n", descriptionStyle.Render(desc))
		}
	}
	return b.String()
}

func (m Model) renderStatus() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("error: " + m.err.Error())
	case m.inFlight > 0:
		return syncingStyle.Render("syncing...")
	}
	return ""
}

func (m Model) helpLine() string {
	if m.focus == focusList {
		return "j/k: move | space: toggle | d: delete | a: new task | r: reload | q: quit"
	}
	return "enter: add task | tab: next field | esc: back to list | ctrl+c: quit"
}
