package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	title := styleTitle.Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	steps := []string{
		"  1. Open your template presentation in the browser",
		"  2. Analyze the template to read its slides",
		"  3. Paste your content and pick options",
		"  4. Generate: the AI fills the slides in place",
		"  5. Refresh the presentation to see changes",
	}
	stepsBox := styleBox.
		Width(60).
		Render(strings.Join(steps, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, stepsBox))
	b.WriteString("\n\n")

	shortcutsTitle := styleSubtitle.Render("Keyboard Shortcuts")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsTitle))
	b.WriteString("\n\n")

	var shortcuts []string
	for _, k := range []key.Binding{keys.Analyze, keys.Generate, keys.Tab, keys.Toggle, keys.Settings, keys.Help, keys.Quit} {
		h := k.Help()
		shortcuts = append(shortcuts, fmt.Sprintf("  %-14s %s", h.Key, h.Desc))
	}
	shortcutsBox := styleBox.
		Width(60).
		Render(strings.Join(shortcuts, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
