package mapper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sant0-9/deckfill/internal/config"
	"github.com/sant0-9/deckfill/internal/llm"
	"github.com/sant0-9/deckfill/internal/slides"
)

type stubProvider struct {
	reply string
	err   error
	reqs  []*llm.CompletionRequest
}

func (s *stubProvider) Name() string                   { return "stub" }
func (s *stubProvider) Ping(ctx context.Context) error { return nil }
func (s *stubProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.reply, Model: req.Model}, nil
}

func oneElementTemplate() *slides.TemplateStructure {
	return &slides.TemplateStructure{
		PresentationID: "deck",
		Slides: []slides.Slide{
			{Number: 1, Elements: []slides.TextElement{{ObjectID: "e1", Text: ""}}},
		},
	}
}

func newTestMapper(p llm.Provider) *Mapper {
	log, _ := test.NewNullLogger()
	return New(p, config.DefaultConfig(), log)
}

func TestMapEndToEnd(t *testing.T) {
	p := &stubProvider{reply: `{"slides":[{"slideNumber":1,"updates":[{"objectId":"e1","text":"Growth: 15%"}]}]}`}

	plan, err := newTestMapper(p).Map(context.Background(), "Q1: Growth. A: 15%.", oneElementTemplate(), slides.DefaultMappingOptions())
	if err != nil {
		t.Fatal(err)
	}

	reqs := slides.BuildRequests(plan)
	if len(reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(reqs))
	}
	if d := reqs[0].DeleteText; d == nil || d.ObjectID != "e1" || d.TextRange.Type != slides.RangeAll {
		t.Errorf("first request = %+v, want deleteText(e1, ALL)", reqs[0])
	}
	if i := reqs[1].InsertText; i == nil || i.ObjectID != "e1" || i.Text != "Growth: 15%" || i.InsertionIndex != 0 {
		t.Errorf("second request = %+v, want insertText(e1, \"Growth: 15%%\", 0)", reqs[1])
	}

	req := p.reqs[0]
	if req.Model != "gpt-4" || req.Temperature != 0.5 || req.MaxTokens != 3000 {
		t.Errorf("request settings = %+v", req)
	}
	if !strings.Contains(req.Messages[1].Content, `"objectId": "e1"`) {
		t.Error("prompt does not list the template element ids")
	}
}

func TestMapReplies(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr bool
	}{
		{
			name:  "prose around object",
			reply: "Sure! Here is the plan:\n```json\n{\"slides\":[{\"slideNumber\":1,\"updates\":[{\"objectId\":\"e1\",\"text\":\"x\"}]}]}\n```\nLet me know.",
		},
		{
			name:  "empty slides",
			reply: `{"slides":[]}`,
		},
		{name: "no brace", reply: "I cannot help with that.", wantErr: true},
		{name: "invalid json", reply: `{"slides":[{"slideNumber":1,}]}`, wantErr: true},
		{name: "wrong shape", reply: `{"slides":"none"}`, wantErr: true},
		{name: "missing slides", reply: `{"result":[]}`, wantErr: true},
		{name: "missing updates", reply: `{"slides":[{"slideNumber":1}]}`, wantErr: true},
		{name: "unknown element", reply: `{"slides":[{"slideNumber":1,"updates":[{"objectId":"ghost","text":"x"}]}]}`, wantErr: true},
		{name: "slide out of range", reply: `{"slides":[{"slideNumber":2,"updates":[{"objectId":"e1","text":"x"}]}]}`, wantErr: true},
		{name: "two objects", reply: `{"slides":[]} and also {"slides":[]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := newTestMapper(&stubProvider{reply: tt.reply}).Map(context.Background(), "content", oneElementTemplate(), slides.DefaultMappingOptions())
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Map() error = %v", err)
				}
				tmpl := oneElementTemplate()
				for _, s := range plan.Slides {
					for _, u := range s.Updates {
						if !tmpl.HasElement(u.ObjectID) {
							t.Errorf("plan references unknown element %q", u.ObjectID)
						}
					}
				}
				return
			}
			var pe *slides.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Map() error = %v, want ParseError", err)
			}
			if pe.Raw != tt.reply {
				t.Errorf("ParseError.Raw = %q, want the full reply", pe.Raw)
			}
		})
	}
}

func TestMapUpstreamError(t *testing.T) {
	p := &stubProvider{err: &llm.StatusError{Provider: "openai", Status: 401, Body: "Incorrect API key provided"}}

	_, err := newTestMapper(p).Map(context.Background(), "content", oneElementTemplate(), slides.DefaultMappingOptions())

	var up *slides.UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("got %v, want UpstreamError", err)
	}
	if up.Source != slides.SourceModel || up.Status != 401 || up.Message != "Incorrect API key provided" {
		t.Errorf("UpstreamError = %+v", up)
	}
}

func TestMapEmptyContentMakesNoCall(t *testing.T) {
	p := &stubProvider{}
	_, err := newTestMapper(p).Map(context.Background(), "  \n\t", oneElementTemplate(), slides.DefaultMappingOptions())
	if !slides.IsValidation(err) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if len(p.reqs) != 0 {
		t.Errorf("made %d model calls, want 0", len(p.reqs))
	}
}

func TestJSONModeUsesStrictParser(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ResponseFormat = config.FormatJSONObject
	p := &stubProvider{reply: "Here you go: {\"slides\":[]}"}
	log, _ := test.NewNullLogger()

	_, err := New(p, cfg, log).Map(context.Background(), "content", oneElementTemplate(), slides.DefaultMappingOptions())

	var pe *slides.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want ParseError from strict parser", err)
	}
	if !p.reqs[0].JSONMode {
		t.Error("request was not sent in JSON mode")
	}
}

func TestDescribeTemplate(t *testing.T) {
	tmpl := &slides.TemplateStructure{Slides: []slides.Slide{
		{Number: 1, Elements: []slides.TextElement{{ObjectID: "t", Text: "Title"}, {ObjectID: "b", Text: " body"}}},
		{Number: 2, Elements: []slides.TextElement{}},
	}}

	got, err := DescribeTemplate(tmpl)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"currentContent": "Title body"`, `"slideNumber": 2`, `"textElements": []`} {
		if !strings.Contains(got, want) {
			t.Errorf("description missing %q:\n%s", want, got)
		}
	}
}
