package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the model as a string.
func (m *Model) View() string {
	lines := []string{titleStyle.Render("TARGETS")}

	for _, node := range m.targets {
		var (
			icon  string
			style lipgloss.Style
		)
		switch node.Status {
		case StatusRunning:
			icon, style = m.spinner.View(), targetRunningStyle
		case StatusDone:
			icon, style = "✓", targetDoneStyle
		case StatusError:
			icon, style = "✗", targetErrorStyle
		default:
			icon, style = "⚡", targetCachedStyle
		}
		if node.Status == StatusRunning {
			lines = append(lines, icon+" "+node.Name)
		} else {
			lines = append(lines, style.Render(icon+" "+node.Name))
		}

		if node.Status == StatusRunning || node.Status == StatusError {
			for _, l := range node.Tail() {
				lines = append(lines, logLineStyle.Render(l))
			}
		}
	}

	// Keep the newest lines when the terminal is too short.
	if m.height > 0 && len(lines) > m.height {
		lines = lines[len(lines)-m.height:]
	}
	return strings.Join(lines, "\n") + "\n"
}
