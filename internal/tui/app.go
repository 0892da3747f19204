package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/sant0-9/deckfill/internal/config"
	"github.com/sant0-9/deckfill/internal/document"
	"github.com/sant0-9/deckfill/internal/llm"
	"github.com/sant0-9/deckfill/internal/panel"
	"github.com/sant0-9/deckfill/internal/slides"
)

type view int

const (
	viewSetup view = iota
	viewPanel
	viewSettings
	viewHelp
)

// Options wire the panel to its collaborators.
type Options struct {
	Context    context.Context
	Config     *config.Config
	Store      *config.CredentialStore
	Controller *panel.Controller
	NeedsSetup bool

	// Document prefills the content area.
	Document *document.Document

	// Connected reports whether the page helper is attached. Nil when the
	// host does not need one.
	Connected func() bool

	Log logrus.FieldLogger
}

type App struct {
	width    int
	height   int
	view     view
	state    *state
	quitting bool

	ctx       context.Context
	ctrl      *panel.Controller
	store     *config.CredentialStore
	connected func() bool
	log       logrus.FieldLogger
	progress  chan panel.Progress

	providerError error
}

func NewApp(opts Options) *App {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	s := newState(opts.Config)
	s.needsSetup = opts.NeedsSetup
	if opts.Document != nil {
		s.content.SetValue(opts.Document.Content)
		s.notice = opts.Document.Metadata.Summary()
	}

	a := &App{
		view:      viewPanel,
		state:     s,
		ctx:       ctx,
		ctrl:      opts.Controller,
		store:     opts.Store,
		connected: opts.Connected,
		log:       opts.Log,
		progress:  make(chan panel.Progress, 16),
	}
	a.ctrl.SetProgressCallback(func(p panel.Progress) {
		select {
		case a.progress <- p:
		default:
		}
	})
	a.syncBindings()
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.WindowSize(), a.state.spinner.Tick, a.waitForProgress()}
	if a.state.needsSetup {
		a.view = viewSetup
		return tea.Batch(append(cmds, textinput.Blink)...)
	}

	a.state.content.Focus()
	return tea.Batch(append(cmds, textarea.Blink, a.testProvider())...)
}

func (a *App) testProvider() tea.Cmd {
	cfg := *a.state.config
	return func() tea.Msg {
		provider, err := llm.NewProvider(&cfg)
		if err != nil {
			return providerErrorMsg{err}
		}

		ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
		defer cancel()

		if err := provider.Ping(ctx); err != nil {
			return providerErrorMsg{err}
		}

		return providerReadyMsg{}
	}
}

func (a *App) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-a.progress:
			return progressMsg(p)
		case <-a.ctx.Done():
			return nil
		}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, handled := a.handleKey(msg)
		if handled {
			a.syncBindings()
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.state.spinner, cmd = a.state.spinner.Update(msg)
		return a, cmd

	case progressMsg:
		a.log.WithField("state", msg.State).Debug(msg.Message)
		return a, a.waitForProgress()

	case analyzeDoneMsg:
		a.state.busy = false
		if msg.err == nil {
			a.state.preview.SetContent(panel.DescribeTemplate(msg.tmpl))
			a.state.preview.GotoTop()
		}
		a.syncBindings()
		return a, nil

	case generateDoneMsg:
		a.state.busy = false
		switch {
		case slides.IsValidation(msg.err):
			a.state.alert = msg.err.Error()
		case msg.plan != nil:
			a.state.preview.SetContent(panel.DescribePlan(msg.plan))
			a.state.preview.GotoTop()
		}
		a.syncBindings()
		return a, nil

	case setupCompleteMsg:
		a.state.needsSetup = false
		a.view = viewPanel
		a.state.content.Focus()
		return a, tea.Batch(textarea.Blink, a.testProvider())

	case setupErrorMsg:
		a.state.alert = msg.Error()
		return a, nil

	case settingsSavedMsg:
		if msg.err != nil {
			a.state.alert = msg.err.Error()
			return a, nil
		}
		a.state.settingsMode = ""
		a.state.apiKeyInput.Reset()
		return a, a.testProvider()

	case providerReadyMsg:
		a.providerError = nil
		return a, nil

	case providerErrorMsg:
		a.log.WithError(msg.error).Warn("provider check failed")
		a.providerError = msg.error
		return a, nil
	}

	// Update inputs based on view
	switch {
	case a.view == viewSetup && a.state.setupStep == 1,
		a.view == viewSettings && a.state.settingsMode == "apikey":
		var cmd tea.Cmd
		a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		cmds = append(cmds, cmd)
	case a.view == viewPanel && a.state.alert == "":
		var cmd tea.Cmd
		if a.state.focus == focusContent {
			a.state.content, cmd = a.state.content.Update(msg)
		} else {
			a.state.preview, cmd = a.state.preview.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// syncBindings enables generate only once a template is available.
func (a *App) syncBindings() {
	st := a.ctrl.Status()
	keys.Generate.SetEnabled(st.CanGenerate && !a.state.busy)
	keys.Analyze.SetEnabled(!a.state.busy)
}

func (a *App) resize() {
	w := min(90, a.width-4)
	if w < 20 {
		w = 20
	}
	a.state.content.SetWidth(w - 4)
	a.state.preview.Width = w - 4
	// header, content box, options, steps, status and footer
	a.state.preview.Height = max(3, a.height-26)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return tea.Quit, true
	}

	if a.state.alert != "" {
		if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Quit) {
			a.state.alert = ""
		}
		return nil, true
	}

	switch a.view {
	case viewSetup:
		return a.handleSetupKey(msg)
	case viewSettings:
		return a.handleSettingsKey(msg)
	case viewHelp:
		if key.Matches(msg, keys.Quit) || key.Matches(msg, keys.Help) {
			a.view = viewPanel
		}
		return nil, true
	}
	return a.handlePanelKey(msg)
}

func (a *App) handlePanelKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		a.quitting = true
		return tea.Quit, true

	case key.Matches(msg, keys.Help):
		a.view = viewHelp
		return nil, true

	case key.Matches(msg, keys.Settings):
		if a.state.busy {
			return nil, true
		}
		a.view = viewSettings
		a.state.settingsMode = ""
		return nil, true

	case key.Matches(msg, keys.Analyze):
		return a.analyze(), true

	case key.Matches(msg, keys.Generate):
		return a.generate(), true

	case key.Matches(msg, keys.Tab):
		a.state.focus = (a.state.focus + 1) % focusCount
		if a.state.focus == focusContent {
			return a.state.content.Focus(), true
		}
		a.state.content.Blur()
		return nil, true

	case a.state.focus != focusContent && key.Matches(msg, keys.Toggle):
		a.state.toggleOption()
		return nil, true
	}

	return nil, false
}

func (a *App) analyze() tea.Cmd {
	if a.state.busy {
		return nil
	}
	a.state.busy = true
	return func() tea.Msg {
		tmpl, err := a.ctrl.Analyze(a.ctx)
		return analyzeDoneMsg{tmpl, err}
	}
}

func (a *App) generate() tea.Cmd {
	if a.state.busy {
		return nil
	}
	content := a.state.content.Value()
	opts := a.state.options
	a.state.busy = true
	return func() tea.Msg {
		plan, err := a.ctrl.Generate(a.ctx, content, opts)
		if errors.Is(err, slides.ErrBusy) {
			return generateDoneMsg{}
		}
		return generateDoneMsg{plan, err}
	}
}

func (a *App) handleSetupKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch a.state.setupStep {
	case 0: // Provider selection
		switch {
		case key.Matches(msg, keys.Quit):
			a.quitting = true
			return tea.Quit, true
		case key.Matches(msg, keys.Up):
			if a.state.selectedProvider > 0 {
				a.state.selectedProvider--
			}
		case key.Matches(msg, keys.Down):
			if a.state.selectedProvider < len(config.Providers)-1 {
				a.state.selectedProvider++
			}
		case key.Matches(msg, keys.Enter):
			provider := config.Providers[a.state.selectedProvider]
			a.state.config.Provider = provider.ID
			a.state.config.Model = provider.DefaultModel

			if provider.NeedsAPIKey {
				a.state.setupStep = 1
				a.state.apiKeyInput.Focus()
				return textinput.Blink, true
			}
			return a.finishSetup(""), true
		}
		return nil, true

	case 1: // API key entry
		switch {
		case key.Matches(msg, keys.Quit):
			a.state.setupStep = 0
			a.state.apiKeyInput.Reset()
			return nil, true
		case key.Matches(msg, keys.Enter):
			return a.finishSetup(a.state.apiKeyInput.Value()), true
		}
	}

	return nil, false
}

func (a *App) finishSetup(apiKey string) tea.Cmd {
	needsKey := a.state.config.NeedsAPIKey()
	a.ctrl.SetCredentialRequired(needsKey)
	return func() tea.Msg {
		var err error
		if needsKey {
			err = a.store.Set(apiKey)
		} else {
			err = a.state.config.Save()
		}
		if err != nil {
			return setupErrorMsg{err}
		}
		return setupCompleteMsg{}
	}
}

type setupCompleteMsg struct{}
type setupErrorMsg struct{ error }
type settingsSavedMsg struct{ err error }
type providerReadyMsg struct{}
type providerErrorMsg struct{ error }
type progressMsg panel.Progress

type analyzeDoneMsg struct {
	tmpl *slides.TemplateStructure
	err  error
}

type generateDoneMsg struct {
	plan *slides.UpdatePlan
	err  error
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	if a.state.alert != "" {
		return a.renderAlert()
	}

	switch a.view {
	case viewSetup:
		return a.renderSetup()
	case viewSettings:
		return a.renderSettings()
	case viewHelp:
		return a.renderHelp()
	default:
		return a.renderPanel()
	}
}
