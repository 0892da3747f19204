// Package panel drives the analyze and generate actions of the side panel.
package panel

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/sant0-9/deckfill/internal/slides"
)

// TemplateReader fetches the template structure of a presentation.
type TemplateReader interface {
	Fetch(ctx context.Context, presentationID string) (*slides.TemplateStructure, error)
}

// ContentMapper turns user content into an update plan for a template.
type ContentMapper interface {
	Map(ctx context.Context, content string, tmpl *slides.TemplateStructure, opts slides.MappingOptions) (*slides.UpdatePlan, error)
}

// MapperFactory builds a mapper authenticated with apiKey.
type MapperFactory func(apiKey string) (ContentMapper, error)

// PlanWriter applies an update plan to a presentation.
type PlanWriter interface {
	Apply(ctx context.Context, presentationID string, plan *slides.UpdatePlan) error
}

// Progress is reported on every state change.
type Progress struct {
	State   State
	Message string
}

// Status is a snapshot for rendering.
type Status struct {
	State       State
	Message     string
	Err         error
	Template    *slides.TemplateStructure
	Plan        *slides.UpdatePlan
	CanGenerate bool
}

// Settings configure a controller.
type Settings struct {
	PresentationID  string
	Credential      string
	NeedsCredential bool
	SessionTTL      time.Duration
}

// Controller runs at most one analyze or generate chain at a time.
type Controller struct {
	presentationID string
	reader         TemplateReader
	newMapper      MapperFactory
	writer         PlanWriter
	log            logrus.FieldLogger

	// session holds the analyzed template; entries expire after SessionTTL
	// so a stale template cannot be written against.
	session *cache.Cache

	mu              sync.Mutex
	state           State
	fallback        State
	credential      string
	needsCredential bool
	message         string
	err             error
	plan            *slides.UpdatePlan
	onProgress      func(Progress)
}

// New creates a controller in the Idle state.
func New(s Settings, reader TemplateReader, newMapper MapperFactory, writer PlanWriter, log logrus.FieldLogger) *Controller {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Controller{
		presentationID:  s.PresentationID,
		needsCredential: s.NeedsCredential,
		credential:      strings.TrimSpace(s.Credential),
		reader:          reader,
		newMapper:       newMapper,
		writer:          writer,
		log:             log.WithField("presentation", s.PresentationID),
		session:         cache.New(ttl, 2*ttl),
		state:           StateIdle,
	}
}

// SetProgressCallback sets the progress callback
func (c *Controller) SetProgressCallback(fn func(Progress)) {
	c.mu.Lock()
	c.onProgress = fn
	c.mu.Unlock()
}

// PresentationID returns the presentation this panel edits.
func (c *Controller) PresentationID() string {
	return c.presentationID
}

// SetCredential replaces the API key used by the next generate.
func (c *Controller) SetCredential(key string) {
	c.mu.Lock()
	c.credential = strings.TrimSpace(key)
	c.mu.Unlock()
	c.log.Info("API key updated")
}

// SetCredentialRequired updates whether generate needs an API key, after the
// provider changes.
func (c *Controller) SetCredentialRequired(required bool) {
	c.mu.Lock()
	c.needsCredential = required
	c.mu.Unlock()
}

// WatchCredentials applies every key received on updates until ctx is done
// or updates is closed.
func (c *Controller) WatchCredentials(ctx context.Context, updates <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-updates:
			if !ok {
				return
			}
			c.SetCredential(key)
		}
	}
}

// HasCredential reports whether an API key is set.
func (c *Controller) HasCredential() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.credential != ""
}

// Status returns the current snapshot.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	tmpl, _ := c.template()
	return Status{
		State:       c.state,
		Message:     c.message,
		Err:         c.err,
		Template:    tmpl,
		Plan:        c.plan,
		CanGenerate: c.canGenerate() && tmpl != nil,
	}
}

func (c *Controller) template() (*slides.TemplateStructure, bool) {
	v, ok := c.session.Get(c.presentationID)
	if !ok {
		return nil, false
	}
	return v.(*slides.TemplateStructure), true
}

func (c *Controller) canGenerate() bool {
	switch c.state {
	case StateAnalyzed, StateDone:
		return true
	case StateError:
		return c.fallback == StateAnalyzed
	}
	return false
}

// transition must be called with mu held. It returns the callback to invoke
// once the lock is released.
func (c *Controller) transition(s State, msg string, err error) (func(Progress), Progress) {
	c.state = s
	c.message = msg
	c.err = err
	return c.onProgress, Progress{State: s, Message: msg}
}

func (c *Controller) report(s State, msg string, err error) {
	c.mu.Lock()
	fn, p := c.transition(s, msg, err)
	c.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}

// fail moves to Error; the flow resumes from fallback.
func (c *Controller) fail(fallback State, err error) error {
	c.mu.Lock()
	c.fallback = fallback
	fn, p := c.transition(StateError, "Error: "+err.Error(), err)
	c.mu.Unlock()
	if fn != nil {
		fn(p)
	}
	return err
}

// Analyze fetches the template, discarding any previous template and plan.
func (c *Controller) Analyze(ctx context.Context) (*slides.TemplateStructure, error) {
	c.mu.Lock()
	if c.state.Busy() {
		c.mu.Unlock()
		return nil, slides.ErrBusy
	}
	c.session.Delete(c.presentationID)
	c.plan = nil
	fn, p := c.transition(StateAnalyzing, "Analyzing template...", nil)
	c.mu.Unlock()
	if fn != nil {
		fn(p)
	}

	tmpl, err := c.reader.Fetch(ctx, c.presentationID)
	if err != nil {
		c.log.WithError(err).Warn("analyze failed")
		return nil, c.fail(StateIdle, err)
	}

	c.session.Set(c.presentationID, tmpl, cache.DefaultExpiration)
	c.report(StateAnalyzed, fmt.Sprintf("Template analyzed: %d slides found", len(tmpl.Slides)), nil)
	return tmpl, nil
}

// Generate maps content onto the analyzed template and writes it back.
// Validation failures return a *slides.ValidationError without changing
// state or calling anything remote.
func (c *Controller) Generate(ctx context.Context, content string, opts slides.MappingOptions) (*slides.UpdatePlan, error) {
	c.mu.Lock()
	if c.state.Busy() {
		c.mu.Unlock()
		return nil, slides.ErrBusy
	}
	tmpl, apiKey, err := c.validate(content)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.plan = nil
	fn, p := c.transition(StateGenerating, "Generating slides with AI...", nil)
	c.mu.Unlock()
	if fn != nil {
		fn(p)
	}

	m, err := c.newMapper(apiKey)
	if err != nil {
		return nil, c.fail(StateAnalyzed, &slides.ValidationError{Field: "provider", Message: err.Error()})
	}

	plan, err := m.Map(ctx, content, tmpl, opts)
	if err != nil {
		c.log.WithError(err).Warn("mapping failed")
		return nil, c.fail(StateAnalyzed, err)
	}

	c.mu.Lock()
	c.plan = plan
	c.mu.Unlock()
	c.report(StateGenerating, "Applying to slides...", nil)

	if err := c.writer.Apply(ctx, c.presentationID, plan); err != nil {
		c.log.WithError(err).Warn("apply failed")
		return plan, c.fail(StateAnalyzed, err)
	}

	c.report(StateDone, "Slides generated successfully! Refresh the presentation to see changes.", nil)
	return plan, nil
}

// validate must be called with mu held.
func (c *Controller) validate(content string) (*slides.TemplateStructure, string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, "", &slides.ValidationError{Field: "content", Message: "Please enter your assignment content"}
	}
	if c.needsCredential && c.credential == "" {
		return nil, "", &slides.ValidationError{Field: "credential", Message: "Please set your API key in settings"}
	}
	if !c.canGenerate() {
		return nil, "", &slides.ValidationError{Field: "template", Message: "Analyze the template first"}
	}
	tmpl, ok := c.template()
	if !ok {
		return nil, "", &slides.ValidationError{Field: "template", Message: "Template analysis expired, analyze again"}
	}
	return tmpl, c.credential, nil
}
