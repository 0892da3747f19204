package slides

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

type fakeHost struct {
	presentation *Presentation
	getErr       error
	batchErr     error
	batches      [][]Request
}

func (f *fakeHost) Get(ctx context.Context, id string) (*Presentation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.presentation, nil
}

func (f *fakeHost) BatchUpdate(ctx context.Context, id string, requests []Request) error {
	f.batches = append(f.batches, requests)
	return f.batchErr
}

func shapeWithRuns(id string, runs ...string) PageElement {
	var segs []TextSegment
	for _, r := range runs {
		segs = append(segs, TextSegment{}) // paragraph marker
		segs = append(segs, TextSegment{TextRun: &TextRun{Content: r}})
	}
	return PageElement{ObjectID: id, Shape: &Shape{Text: &TextContent{TextElements: segs}}}
}

func TestBuildTemplate(t *testing.T) {
	p := &Presentation{
		PresentationID: "deck",
		Title:          "Q1 Review",
		Slides: []Page{
			{ObjectID: "s1", PageElements: []PageElement{
				shapeWithRuns("title", "Market ", "Analysis\n"),
				{ObjectID: "img"},
				{ObjectID: "box", Shape: &Shape{}},
			}},
			{ObjectID: "s2"},
			{ObjectID: "s3", PageElements: []PageElement{
				{ObjectID: "grp", ElementGroup: &ElementGroup{Children: []PageElement{
					shapeWithRuns("a", "left"),
					shapeWithRuns("b"),
				}}},
			}},
		},
	}

	tmpl := BuildTemplate(p)

	if len(tmpl.Slides) != 3 {
		t.Fatalf("got %d slides, want 3", len(tmpl.Slides))
	}
	if got := tmpl.Slides[0].Elements; len(got) != 1 || got[0].ObjectID != "title" || got[0].Text != "Market Analysis\n" {
		t.Errorf("slide 1 elements = %+v", got)
	}
	if tmpl.Slides[1].Elements == nil || len(tmpl.Slides[1].Elements) != 0 {
		t.Errorf("slide 2 should have an empty, non-nil element list, got %#v", tmpl.Slides[1].Elements)
	}
	if got := tmpl.Slides[2].Elements; len(got) != 2 || got[0].ObjectID != "a" || got[1].ObjectID != "b" || got[1].Text != "" {
		t.Errorf("slide 3 elements = %+v", got)
	}
	for i, s := range tmpl.Slides {
		if s.Number != i+1 {
			t.Errorf("slide %d numbered %d", i, s.Number)
		}
	}
	if !tmpl.HasElement("b") || tmpl.HasElement("img") {
		t.Error("HasElement disagrees with the extracted elements")
	}
}

func TestReaderFetch(t *testing.T) {
	log, _ := test.NewNullLogger()

	tests := []struct {
		name    string
		id      string
		host    *fakeHost
		check   func(error) bool
		wantErr bool
	}{
		{
			name: "zero text slides",
			id:   "deck",
			host: &fakeHost{presentation: &Presentation{Slides: []Page{{ObjectID: "s1"}, {ObjectID: "s2"}}}},
		},
		{
			name:    "empty id",
			id:      "",
			host:    &fakeHost{},
			wantErr: true,
			check:   func(err error) bool { var nf *NotFoundError; return errors.As(err, &nf) },
		},
		{
			name:    "host 404",
			id:      "deck",
			host:    &fakeHost{getErr: &HostError{Status: http.StatusNotFound, Message: "Requested entity was not found."}},
			wantErr: true,
			check:   func(err error) bool { var nf *NotFoundError; return errors.As(err, &nf) },
		},
		{
			name:    "host failure",
			id:      "deck",
			host:    &fakeHost{getErr: &HostError{Status: http.StatusForbidden, Message: "denied"}},
			wantErr: true,
			check: func(err error) bool {
				var up *UpstreamError
				return errors.As(err, &up) && up.Source == SourceHost && up.Status == http.StatusForbidden
			},
		},
		{
			name:    "bridge timeout passes through",
			id:      "deck",
			host:    &fakeHost{getErr: &BridgeTimeoutError{Op: "GET_PRESENTATION", RequestID: "r1", After: time.Second}},
			wantErr: true,
			check:   func(err error) bool { var bt *BridgeTimeoutError; return errors.As(err, &bt) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.host, log)
			tmpl, err := r.Fetch(context.Background(), tt.id)
			if tt.wantErr {
				if err == nil || !tt.check(err) {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if tmpl.PresentationID != tt.id {
				t.Errorf("PresentationID = %q, want %q", tmpl.PresentationID, tt.id)
			}
			for _, s := range tmpl.Slides {
				if len(s.Elements) != 0 {
					t.Errorf("slide %d has %d elements, want 0", s.Number, len(s.Elements))
				}
			}
		})
	}
}

func TestBuildRequestsOrder(t *testing.T) {
	plan := &UpdatePlan{Slides: []SlideUpdate{
		{SlideNumber: 1, Updates: []TextUpdate{{ObjectID: "a", Text: "A"}, {ObjectID: "b", Text: "B"}}},
		{SlideNumber: 2, Updates: []TextUpdate{{ObjectID: "c", Text: "C"}}},
	}}

	reqs := BuildRequests(plan)
	if len(reqs) != 6 {
		t.Fatalf("got %d requests, want 6", len(reqs))
	}
	for i, id := range []string{"a", "b", "c"} {
		del, ins := reqs[2*i], reqs[2*i+1]
		if del.DeleteText == nil || del.DeleteText.ObjectID != id || del.DeleteText.TextRange.Type != RangeAll {
			t.Errorf("request %d = %+v, want deleteText(%s, ALL)", 2*i, del, id)
		}
		if ins.InsertText == nil || ins.InsertText.ObjectID != id || ins.InsertText.InsertionIndex != 0 {
			t.Errorf("request %d = %+v, want insertText(%s, 0)", 2*i+1, ins, id)
		}
	}
}

func TestWriterApply(t *testing.T) {
	log, _ := test.NewNullLogger()
	plan := &UpdatePlan{Slides: []SlideUpdate{{SlideNumber: 1, Updates: []TextUpdate{{ObjectID: "e1", Text: "x"}}}}}

	t.Run("success", func(t *testing.T) {
		host := &fakeHost{}
		if err := NewWriter(host, log).Apply(context.Background(), "deck", plan); err != nil {
			t.Fatal(err)
		}
		if len(host.batches) != 1 || len(host.batches[0]) != 2 {
			t.Errorf("batches = %+v", host.batches)
		}
	})

	t.Run("empty plan sends nothing", func(t *testing.T) {
		host := &fakeHost{}
		if err := NewWriter(host, log).Apply(context.Background(), "deck", &UpdatePlan{}); err != nil {
			t.Fatal(err)
		}
		if len(host.batches) != 0 {
			t.Errorf("expected no batch, got %d", len(host.batches))
		}
	})

	t.Run("host failure", func(t *testing.T) {
		host := &fakeHost{batchErr: &HostError{Status: 400, Message: "Invalid requests[1].insertText"}}
		err := NewWriter(host, log).Apply(context.Background(), "deck", plan)
		var up *UpstreamError
		if !errors.As(err, &up) || up.Status != 400 {
			t.Fatalf("got %v, want UpstreamError status 400", err)
		}
	})
}
