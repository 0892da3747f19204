// Package mapper asks a language model to rewrite free-form content so it
// fits the text elements of a presentation template.
package mapper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sant0-9/deckfill/internal/config"
	"github.com/sant0-9/deckfill/internal/llm"
	"github.com/sant0-9/deckfill/internal/prompts"
	"github.com/sant0-9/deckfill/internal/slides"
)

// Mapper builds the mapping prompt, calls the model and parses its reply.
type Mapper struct {
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
	jsonMode    bool
	parser      ResponseParser
	log         logrus.FieldLogger
}

// New creates a mapper. The parser follows cfg.ResponseFormat: strict JSON
// when the provider runs in JSON mode, brace-span extraction otherwise.
func New(provider llm.Provider, cfg *config.Config, log logrus.FieldLogger) *Mapper {
	m := &Mapper{
		provider:    provider,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		parser:      BraceSpanParser{},
		log:         log,
	}
	if cfg.ResponseFormat == config.FormatJSONObject {
		m.jsonMode = true
		m.parser = StrictJSONParser{}
	}
	return m
}

// WithParser replaces the response parser.
func (m *Mapper) WithParser(p ResponseParser) *Mapper {
	m.parser = p
	return m
}

type templateSlide struct {
	SlideNumber    int               `json:"slideNumber"`
	CurrentContent string            `json:"currentContent"`
	TextElements   []templateElement `json:"textElements"`
}

type templateElement struct {
	ObjectID    string `json:"objectId"`
	CurrentText string `json:"currentText"`
}

// DescribeTemplate renders the template as the JSON block embedded in the prompt.
func DescribeTemplate(tmpl *slides.TemplateStructure) (string, error) {
	out := make([]templateSlide, 0, len(tmpl.Slides))
	for _, s := range tmpl.Slides {
		ts := templateSlide{
			SlideNumber:    s.Number,
			CurrentContent: s.Text(),
			TextElements:   make([]templateElement, 0, len(s.Elements)),
		}
		for _, el := range s.Elements {
			ts.TextElements = append(ts.TextElements, templateElement{ObjectID: el.ObjectID, CurrentText: el.Text})
		}
		out = append(out, ts)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// BuildRequest assembles the completion request for content and tmpl.
func (m *Mapper) BuildRequest(content string, tmpl *slides.TemplateStructure, opts slides.MappingOptions) (*llm.CompletionRequest, error) {
	desc, err := DescribeTemplate(tmpl)
	if err != nil {
		return nil, fmt.Errorf("describe template: %w", err)
	}
	user, err := prompts.BuildMappingPrompt(prompts.MappingData{
		Template: desc,
		Content:  content,
		Options: prompts.Options{
			AutoFormat:    opts.AutoFormat,
			PreserveStyle: opts.PreserveStyle,
			SmartMapping:  opts.SmartMapping,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	req := llm.NewRequest(m.model, prompts.BuildSystemPrompt(), user)
	req.Temperature = m.temperature
	req.MaxTokens = m.maxTokens
	req.JSONMode = m.jsonMode
	return req, nil
}

// Map rewrites content into an update plan for tmpl. The returned plan only
// references elements of tmpl.
func (m *Mapper) Map(ctx context.Context, content string, tmpl *slides.TemplateStructure, opts slides.MappingOptions) (*slides.UpdatePlan, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &slides.ValidationError{Field: "content", Message: "Please enter your assignment content"}
	}

	req, err := m.BuildRequest(content, tmpl, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := m.provider.Complete(ctx, req)
	if err != nil {
		return nil, modelFailure(err)
	}

	log := m.log.WithFields(logrus.Fields{
		"provider": m.provider.Name(),
		"model":    resp.Model,
		"tokens":   resp.Usage.TotalTokens,
		"elapsed":  time.Since(start).Round(time.Millisecond),
	})

	plan, err := m.parser.Parse(resp.Content)
	if err == nil {
		err = Validate(plan, tmpl)
		var pe *slides.ParseError
		if errors.As(err, &pe) && pe.Raw == "" {
			pe.Raw = resp.Content
		}
	}
	if err != nil {
		log.WithError(err).Warn("model reply rejected")
		return nil, err
	}

	log.WithField("updates", plan.UpdateCount()).Info("content mapped")
	return plan, nil
}

func modelFailure(err error) error {
	var se *llm.StatusError
	if errors.As(err, &se) {
		return &slides.UpstreamError{Source: slides.SourceModel, Status: se.Status, Message: se.Body, Err: err}
	}
	return &slides.UpstreamError{Source: slides.SourceModel, Err: err}
}
