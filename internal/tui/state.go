package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/deckfill/internal/config"
	"github.com/sant0-9/deckfill/internal/slides"
)

// focus targets inside the panel view.
const (
	focusContent = iota
	focusAutoFormat
	focusPreserveStyle
	focusSmartMapping
	focusCount
)

type state struct {
	// Config
	config     *config.Config
	needsSetup bool

	// Setup wizard state
	setupStep        int
	selectedProvider int
	apiKeyInput      textinput.Model

	// Settings
	settingsMode     string
	settingsSelected int

	// Panel
	content textarea.Model
	options slides.MappingOptions
	focus   int
	busy    bool
	spinner spinner.Model
	preview viewport.Model

	// notice is shown under the header
	notice string

	// alert blocks the panel until dismissed
	alert string
}

func newState(cfg *config.Config) *state {
	apiKey := textinput.New()
	apiKey.Placeholder = "Paste your API key here..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 200
	apiKey.Width = 50

	content := textarea.New()
	content.Placeholder = "Paste your assignment content here..."
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.MaxHeight = 0
	content.SetWidth(70)
	content.SetHeight(8)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorSecondary)

	return &state{
		config:      cfg,
		apiKeyInput: apiKey,
		content:     content,
		options:     slides.DefaultMappingOptions(),
		spinner:     sp,
		preview:     viewport.New(70, 10),
	}
}

// toggleOption flips the checkbox under focus.
func (s *state) toggleOption() {
	switch s.focus {
	case focusAutoFormat:
		s.options.AutoFormat = !s.options.AutoFormat
	case focusPreserveStyle:
		s.options.PreserveStyle = !s.options.PreserveStyle
	case focusSmartMapping:
		s.options.SmartMapping = !s.options.SmartMapping
	}
}
