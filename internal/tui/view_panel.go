package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/deckfill/internal/panel"
)

func (a *App) renderPanel() string {
	var b strings.Builder
	st := a.ctrl.Status()
	w := min(90, a.width-4)

	// Header
	header := styleTitle.Render("deckfill") + styleSubtitle.Render("  AI Slides Assistant")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.renderConnection()))
	b.WriteString("\n")
	if a.state.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(a.state.notice)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Content
	border := colorMuted
	if a.state.focus == focusContent {
		border = colorSecondary
	}
	contentBox := styleBox.
		Width(w).
		BorderForeground(border).
		Render(a.state.content.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, contentBox))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.renderOptions()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.renderSteps(st)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.renderStatus(st)))
	b.WriteString("\n")
	if st.State == panel.StateError {
		if hints := errorHints(st.Err); len(hints) > 0 {
			b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(strings.Join(hints, "\n"))))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if preview := a.renderPreview(st, w); preview != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, preview))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.renderBudget(st)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.renderFooter()))

	return b.String()
}

func (a *App) renderConnection() string {
	if a.providerError != nil {
		return lipgloss.NewStyle().Foreground(colorWarning).
			Render("Provider unreachable: " + truncate(a.providerError.Error(), 60))
	}
	if a.connected == nil {
		return styleSubtitle.Render("Presentation " + a.ctrl.PresentationID())
	}
	if a.connected() {
		return lipgloss.NewStyle().Foreground(colorSuccess).Render("Presentation page connected")
	}
	return lipgloss.NewStyle().Foreground(colorWarning).
		Render("Waiting for the presentation page helper (run: deckfill helper)")
}

func (a *App) renderOptions() string {
	items := []struct {
		focus int
		label string
		on    bool
	}{
		{focusAutoFormat, "Auto-format content", a.state.options.AutoFormat},
		{focusPreserveStyle, "Preserve template styling", a.state.options.PreserveStyle},
		{focusSmartMapping, "Smart content mapping", a.state.options.SmartMapping},
	}

	var parts []string
	for _, it := range items {
		box := "[ ]"
		if it.on {
			box = "[x]"
		}
		text := fmt.Sprintf("%s %s", box, it.label)
		if a.state.focus == it.focus {
			text = styleSelected.Render(text)
		} else {
			text = styleSubtitle.Render(text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "   ")
}

func (a *App) renderStatus(st panel.Status) string {
	if st.Message == "" {
		return styleSubtitle.Render("Analyze the template to begin")
	}

	style := styleSubtitle
	switch st.State {
	case panel.StateAnalyzed, panel.StateDone:
		style = lipgloss.NewStyle().Foreground(colorSuccess)
	case panel.StateError:
		style = lipgloss.NewStyle().Foreground(colorError)
	}

	line := style.Render(st.Message)
	if st.State.Busy() {
		line = a.state.spinner.View() + " " + line
	}
	return line
}

func (a *App) renderBudget(st panel.Status) string {
	var template string
	if st.Template != nil {
		template = panel.DescribeTemplate(st.Template)
	}
	cfg := a.state.config
	used, limit, over := promptBudget(cfg.Model, cfg.MaxTokens, a.state.content.Value(), template)
	text := fmt.Sprintf("~%d prompt tokens of %dk (%s)", used, limit/1000, cfg.Model)
	if over {
		return lipgloss.NewStyle().Foreground(colorWarning).Render(text + " - content may not fit")
	}
	return styleStatusBar.Render(text)
}

func (a *App) renderFooter() string {
	parts := []string{"[ctrl+r] Analyze"}
	if keys.Generate.Enabled() {
		parts = append(parts, "[ctrl+g] Generate")
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorMuted).Faint(true).Render("[ctrl+g] Generate"))
	}
	parts = append(parts, "[tab] Options", "[ctrl+s] Settings", "[f1] Help", "[esc] Quit")
	return styleStatusBar.Render(strings.Join(parts, "  "))
}
