package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/deckfill/internal/slides"
)

// renderAlert blocks the panel until the user dismisses it.
func (a *App) renderAlert() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorWarning).
		Bold(true).
		Render("Heads up")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	alertBox := styleBox.
		Width(min(60, a.width-4)).
		BorderForeground(colorWarning).
		Render(a.state.alert)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, alertBox))
	b.WriteString("\n\n")

	status := styleStatusBar.Render("[Enter] OK")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}

// errorHints suggests a next step for a failed analyze or generate.
func errorHints(err error) []string {
	if err == nil {
		return nil
	}

	var notFound *slides.NotFoundError
	var timeout *slides.BridgeTimeoutError
	var parse *slides.ParseError
	var upstream *slides.UpstreamError

	switch {
	case errors.As(err, &notFound):
		return []string{"Check the presentation URL and that you can open it in the browser"}
	case errors.As(err, &timeout):
		return []string{"The presentation page did not answer", "Reload the page and run the helper again"}
	case errors.As(err, &parse):
		return []string{"The model reply was not a usable plan", "Generate again, or switch response format to json_object"}
	case errors.As(err, &upstream):
		switch {
		case upstream.Status == 401 || upstream.Status == 403:
			return []string{"Check your API key in settings [ctrl+s]"}
		case upstream.Status == 429:
			return []string{"You've hit the API rate limit", "Wait a moment and try again"}
		case upstream.Source == slides.SourceHost:
			return []string{"Make sure the presentation page is open with the helper loaded"}
		}
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "ollama"):
		return []string{"Make sure Ollama is running: ollama serve"}
	case strings.Contains(lower, "connect") || strings.Contains(lower, "timeout"):
		return []string{"Check your internet connection"}
	}
	return nil
}
