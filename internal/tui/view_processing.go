package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/deckfill/internal/panel"
)

const applyingMessage = "Applying to slides..."

// stageMarks places the controller state on the analyze, generate and apply
// steps: stages before done are complete, current is running, failed errored.
func stageMarks(st panel.Status) (done, current, failed int) {
	current, failed = -1, -1
	switch st.State {
	case panel.StateAnalyzing:
		current = 0
	case panel.StateAnalyzed:
		done = 1
	case panel.StateGenerating:
		done, current = 1, 1
		if st.Message == applyingMessage {
			done, current = 2, 2
		}
	case panel.StateDone:
		done = 3
	case panel.StateError:
		switch {
		case !st.CanGenerate:
			failed = 0
		case st.Plan != nil:
			done, failed = 2, 2
		default:
			done, failed = 1, 1
		}
	}
	return done, current, failed
}

func (a *App) renderSteps(st panel.Status) string {
	stages := []string{"Analyze", "Generate", "Apply"}
	done, current, failed := stageMarks(st)

	var parts []string
	for i, stage := range stages {
		var icon string
		var style lipgloss.Style

		switch {
		case i == failed:
			icon = "[!]"
			style = lipgloss.NewStyle().Foreground(colorError).Bold(true)
		case i == current:
			icon = "[>]"
			style = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
		case i < done:
			icon = "[x]"
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		default:
			icon = "[ ]"
			style = lipgloss.NewStyle().Foreground(colorMuted)
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %s", icon, stage)))
	}

	return strings.Join(parts, "  ")
}
