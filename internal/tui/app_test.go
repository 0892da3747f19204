package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sant0-9/deckfill/internal/config"
	"github.com/sant0-9/deckfill/internal/panel"
	"github.com/sant0-9/deckfill/internal/slides"
)

type stubReader struct{}

func (stubReader) Fetch(ctx context.Context, id string) (*slides.TemplateStructure, error) {
	return &slides.TemplateStructure{PresentationID: id, Slides: []slides.Slide{
		{Number: 1, Elements: []slides.TextElement{{ObjectID: "e1", Text: "Title"}}},
	}}, nil
}

type stubMapper struct{}

func (stubMapper) Map(ctx context.Context, content string, tmpl *slides.TemplateStructure, opts slides.MappingOptions) (*slides.UpdatePlan, error) {
	return &slides.UpdatePlan{Slides: []slides.SlideUpdate{
		{SlideNumber: 1, Updates: []slides.TextUpdate{{ObjectID: "e1", Text: "Filled"}}},
	}}, nil
}

type stubWriter struct{ applied int }

func (w *stubWriter) Apply(ctx context.Context, id string, plan *slides.UpdatePlan) error {
	w.applied++
	return nil
}

func newTestApp(t *testing.T, apiKey string) (*App, *stubWriter) {
	t.Helper()
	t.Setenv(config.EnvAPIKey, "")
	config.SetPath(filepath.Join(t.TempDir(), "config.yaml"))
	t.Cleanup(func() { config.SetPath("") })

	cfg := config.DefaultConfig()
	cfg.APIKey = apiKey
	log, _ := test.NewNullLogger()
	w := &stubWriter{}
	ctrl := panel.New(panel.Settings{PresentationID: "deck", Credential: apiKey, NeedsCredential: true},
		stubReader{}, func(string) (panel.ContentMapper, error) { return stubMapper{}, nil }, w, log)

	app := NewApp(Options{
		Config:     cfg,
		Store:      config.NewCredentialStore(cfg),
		Controller: ctrl,
		Log:        log,
	})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app, w
}

// press sends a key and runs the resulting command once, feeding its message back.
func press(a *App, k tea.KeyMsg) {
	_, cmd := a.Update(k)
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		a.Update(msg)
	}
}

func TestGenerateDisabledUntilAnalyzed(t *testing.T) {
	app, w := newTestApp(t, "sk-test")
	app.state.content.SetValue("Q1: Growth")

	if keys.Generate.Enabled() {
		t.Fatal("generate enabled before analyze")
	}
	press(app, tea.KeyMsg{Type: tea.KeyCtrlG})
	if w.applied != 0 || app.state.busy {
		t.Fatal("generate ran before analyze")
	}

	press(app, tea.KeyMsg{Type: tea.KeyCtrlR})
	if !keys.Generate.Enabled() {
		t.Fatal("generate still disabled after analyze")
	}
	if !strings.Contains(app.state.preview.View(), "Slide 1:") {
		t.Errorf("preview = %q", app.state.preview.View())
	}

	press(app, tea.KeyMsg{Type: tea.KeyCtrlG})
	if w.applied != 1 {
		t.Fatalf("applied = %d, want 1", w.applied)
	}
	if st := app.ctrl.Status(); st.State != panel.StateDone {
		t.Errorf("state = %v", st.State)
	}
	if !strings.Contains(app.state.preview.View(), "Filled") {
		t.Errorf("preview = %q", app.state.preview.View())
	}
}

func TestMissingKeyShowsAlert(t *testing.T) {
	app, w := newTestApp(t, "")
	app.state.content.SetValue("Q1: Growth")

	press(app, tea.KeyMsg{Type: tea.KeyCtrlR})
	press(app, tea.KeyMsg{Type: tea.KeyCtrlG})

	if w.applied != 0 {
		t.Fatal("writer called without a key")
	}
	if app.state.alert != "Please set your API key in settings" {
		t.Fatalf("alert = %q", app.state.alert)
	}
	if !strings.Contains(app.View(), "Please set your API key") {
		t.Error("alert not rendered")
	}

	// Everything but dismissal is swallowed while the alert is up.
	press(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	if app.view != viewPanel {
		t.Error("settings opened behind the alert")
	}
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.state.alert != "" {
		t.Error("alert not dismissed")
	}
}

func TestToggleOptions(t *testing.T) {
	app, _ := newTestApp(t, "sk")

	press(app, tea.KeyMsg{Type: tea.KeyTab})
	if app.state.focus != focusAutoFormat {
		t.Fatalf("focus = %d", app.state.focus)
	}
	press(app, tea.KeyMsg{Type: tea.KeySpace})
	if app.state.options.AutoFormat {
		t.Error("auto-format not toggled off")
	}

	press(app, tea.KeyMsg{Type: tea.KeyTab})
	press(app, tea.KeyMsg{Type: tea.KeyTab})
	press(app, tea.KeyMsg{Type: tea.KeyTab})
	if app.state.focus != focusContent {
		t.Errorf("focus did not wrap, got %d", app.state.focus)
	}
}

func TestStageMarks(t *testing.T) {
	tests := []struct {
		name                  string
		status                panel.Status
		done, current, failed int
	}{
		{"idle", panel.Status{State: panel.StateIdle}, 0, -1, -1},
		{"analyzing", panel.Status{State: panel.StateAnalyzing}, 0, 0, -1},
		{"applying", panel.Status{State: panel.StateGenerating, Message: applyingMessage}, 2, 2, -1},
		{"analyze failed", panel.Status{State: panel.StateError}, 0, -1, 0},
		{"map failed", panel.Status{State: panel.StateError, CanGenerate: true}, 1, -1, 1},
		{"done", panel.Status{State: panel.StateDone}, 3, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done, current, failed := stageMarks(tt.status)
			if done != tt.done || current != tt.current || failed != tt.failed {
				t.Errorf("stageMarks() = %d,%d,%d, want %d,%d,%d", done, current, failed, tt.done, tt.current, tt.failed)
			}
		})
	}
}

func TestPromptBudget(t *testing.T) {
	_, limit, over := promptBudget("gpt-4", 3000, strings.Repeat("a", 400))
	if limit != 8000 || over {
		t.Errorf("limit=%d over=%v", limit, over)
	}
	if _, _, over := promptBudget("gpt-4", 3000, strings.Repeat("a", 24000)); !over {
		t.Error("expected budget overflow")
	}
}
