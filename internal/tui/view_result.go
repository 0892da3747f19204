package tui

import (
	"github.com/sant0-9/deckfill/internal/panel"
)

func (a *App) renderPreview(st panel.Status, width int) string {
	if st.Template == nil && st.Plan == nil {
		return ""
	}

	title := "Template"
	if st.Plan != nil {
		title = "Generated content"
	}

	border := colorMuted
	if a.state.focus != focusContent {
		border = colorPrimary
	}

	body := styleSubtitle.Render(title) + "\n" + a.state.preview.View()
	return styleBox.
		Width(width).
		BorderForeground(border).
		Render(body)
}
