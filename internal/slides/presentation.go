package slides

import (
	"context"
	"strings"
)

// Presentation is the subset of the Slides API presentation resource needed
// to read the text skeleton of a deck.
type Presentation struct {
	PresentationID string `json:"presentationId"`
	Title          string `json:"title"`
	Slides         []Page `json:"slides"`
}

// Page is a slide in the presentation resource.
type Page struct {
	ObjectID     string        `json:"objectId"`
	PageElements []PageElement `json:"pageElements,omitempty"`
}

// PageElement is a shape, group, image, table etc. Only shapes with text and
// groups are read.
type PageElement struct {
	ObjectID     string        `json:"objectId"`
	Shape        *Shape        `json:"shape,omitempty"`
	ElementGroup *ElementGroup `json:"elementGroup,omitempty"`
}

// Shape carries the text of a shape element.
type Shape struct {
	Text *TextContent `json:"text,omitempty"`
}

// ElementGroup holds grouped page elements.
type ElementGroup struct {
	Children []PageElement `json:"children,omitempty"`
}

// TextContent is the run-split text of a shape.
type TextContent struct {
	TextElements []TextSegment `json:"textElements,omitempty"`
}

// TextSegment is one entry of a shape's text. Paragraph markers and auto
// text have no TextRun and contribute nothing.
type TextSegment struct {
	TextRun *TextRun `json:"textRun,omitempty"`
}

// TextRun is a run of uniformly styled text.
type TextRun struct {
	Content string `json:"content"`
}

// HostClient reads and writes presentations on behalf of the panel.
// Failures reported by the host should be returned as *HostError.
type HostClient interface {
	Get(ctx context.Context, presentationID string) (*Presentation, error)
	BatchUpdate(ctx context.Context, presentationID string, requests []Request) error
}

// BuildTemplate converts a presentation resource into its template structure.
// Every slide is kept, including ones with no text.
func BuildTemplate(p *Presentation) *TemplateStructure {
	t := &TemplateStructure{
		PresentationID: p.PresentationID,
		Title:          p.Title,
		Slides:         make([]Slide, 0, len(p.Slides)),
	}
	for i, page := range p.Slides {
		slide := Slide{
			Number:   i + 1,
			ObjectID: page.ObjectID,
			Elements: []TextElement{},
		}
		slide.Elements = collectText(slide.Elements, page.PageElements)
		t.Slides = append(t.Slides, slide)
	}
	return t
}

func collectText(dst []TextElement, elements []PageElement) []TextElement {
	for _, el := range elements {
		if el.ElementGroup != nil {
			dst = collectText(dst, el.ElementGroup.Children)
			continue
		}
		if el.Shape == nil || el.Shape.Text == nil {
			continue
		}
		var b strings.Builder
		for _, seg := range el.Shape.Text.TextElements {
			if seg.TextRun != nil {
				b.WriteString(seg.TextRun.Content)
			}
		}
		dst = append(dst, TextElement{ObjectID: el.ObjectID, Text: b.String()})
	}
	return dst
}
