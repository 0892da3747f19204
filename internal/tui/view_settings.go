package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/deckfill/internal/config"
)

func (a *App) handleSettingsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch a.state.settingsMode {
	case "provider":
		switch {
		case key.Matches(msg, keys.Quit):
			a.state.settingsMode = ""
		case key.Matches(msg, keys.Up):
			if a.state.settingsSelected > 0 {
				a.state.settingsSelected--
			}
		case key.Matches(msg, keys.Down):
			if a.state.settingsSelected < len(config.Providers)-1 {
				a.state.settingsSelected++
			}
		case key.Matches(msg, keys.Enter):
			p := config.Providers[a.state.settingsSelected]
			a.state.config.Provider = p.ID
			a.state.config.Model = p.DefaultModel
			a.ctrl.SetCredentialRequired(a.state.config.NeedsAPIKey())
			return a.saveConfig(), true
		}
		return nil, true

	case "model":
		provider := config.GetProvider(a.state.config.Provider)
		switch {
		case key.Matches(msg, keys.Quit):
			a.state.settingsMode = ""
		case key.Matches(msg, keys.Up):
			if a.state.settingsSelected > 0 {
				a.state.settingsSelected--
			}
		case key.Matches(msg, keys.Down):
			if provider != nil && a.state.settingsSelected < len(provider.Models)-1 {
				a.state.settingsSelected++
			}
		case key.Matches(msg, keys.Enter):
			if provider == nil || len(provider.Models) == 0 {
				a.state.settingsMode = ""
				return nil, true
			}
			a.state.config.Model = provider.Models[a.state.settingsSelected]
			return a.saveConfig(), true
		}
		return nil, true

	case "apikey":
		switch {
		case key.Matches(msg, keys.Quit):
			a.state.settingsMode = ""
			a.state.apiKeyInput.Reset()
			return nil, true
		case key.Matches(msg, keys.Enter):
			return a.saveKey(a.state.apiKeyInput.Value()), true
		}
		return nil, false
	}

	switch msg.String() {
	case "esc":
		a.view = viewPanel
	case "p":
		a.state.settingsMode = "provider"
		a.state.settingsSelected = providerIndex(a.state.config.Provider)
	case "m":
		a.state.settingsMode = "model"
		a.state.settingsSelected = 0
		if p := config.GetProvider(a.state.config.Provider); p != nil {
			for i, m := range p.Models {
				if m == a.state.config.Model {
					a.state.settingsSelected = i
				}
			}
		}
	case "k":
		a.state.settingsMode = "apikey"
		a.state.apiKeyInput.Reset()
		a.state.apiKeyInput.Focus()
		return textinput.Blink, true
	}
	return nil, true
}

func providerIndex(id string) int {
	for i, p := range config.Providers {
		if p.ID == id {
			return i
		}
	}
	return 0
}

func (a *App) saveConfig() tea.Cmd {
	cfg := a.state.config
	return func() tea.Msg {
		return settingsSavedMsg{cfg.Save()}
	}
}

// saveKey stores the key; the store notifies the controller.
func (a *App) saveKey(value string) tea.Cmd {
	return func() tea.Msg {
		return settingsSavedMsg{a.store.Set(value)}
	}
}

func (a *App) renderSettings() string {
	switch a.state.settingsMode {
	case "provider":
		return a.renderSettingsProvider()
	case "model":
		return a.renderSettingsModel()
	case "apikey":
		return a.renderSettingsAPIKey()
	default:
		return a.renderSettingsMain()
	}
}

func (a *App) renderSettingsMain() string {
	var b strings.Builder

	title := styleTitle.Render("Settings")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	cfg := a.state.config
	providerName := cfg.Provider
	if provider := config.GetProvider(cfg.Provider); provider != nil {
		providerName = provider.Name
	}

	configLines := []string{
		fmt.Sprintf("  Provider: %s", providerName),
		fmt.Sprintf("  Model:    %s", cfg.Model),
		fmt.Sprintf("  API Key:  %s", cfg.MaskedKey()),
		fmt.Sprintf("  Host:     %s", cfg.Host.Mode),
	}

	configBox := styleBox.
		Width(50).
		Render(strings.Join(configLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, configBox))
	b.WriteString("\n\n")

	actions := []string{
		"  [p] Change provider",
		"  [m] Change model",
		"  [k] Update API key",
	}
	actionsBox := styleBox.
		Width(50).
		Render(strings.Join(actions, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, actionsBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderList(title, subtitle string, items []string, current string) string {
	var b strings.Builder

	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleTitle.Render(title)))
	b.WriteString("\n\n")

	if subtitle != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(subtitle)))
		b.WriteString("\n\n")
	}

	var lines []string
	for i, item := range items {
		cursor := "  "
		if i == a.state.settingsSelected {
			cursor = "> "
		}
		line := cursor + item
		if item == current {
			line += " (current)"
		}
		if i == a.state.settingsSelected {
			line = styleTitle.Render(line)
		}
		lines = append(lines, line)
	}

	listBox := styleBox.
		Width(50).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, listBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Up/Down] Navigate  [Enter] Select  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderSettingsProvider() string {
	names := make([]string, len(config.Providers))
	current := ""
	for i, p := range config.Providers {
		names[i] = p.Name
		if p.ID == a.state.config.Provider {
			current = p.Name
		}
	}
	return a.renderList("Select Provider", "", names, current)
}

func (a *App) renderSettingsModel() string {
	provider := config.GetProvider(a.state.config.Provider)
	if provider == nil {
		return a.renderList("Select Model", "No provider selected", nil, "")
	}
	return a.renderList("Select Model", "Provider: "+provider.Name, provider.Models, a.state.config.Model)
}

func (a *App) renderSettingsAPIKey() string {
	var b strings.Builder

	title := styleTitle.Render("Update API Key")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	desc := styleSubtitle.Render("Enter your new API key. The open panel picks it up immediately.")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, desc))
	b.WriteString("\n\n")

	inputBox := styleBox.
		Width(50).
		BorderForeground(colorPrimary).
		Render(a.state.apiKeyInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Enter] Save  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
