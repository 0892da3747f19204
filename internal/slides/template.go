package slides

import "strings"

// TemplateStructure is the text skeleton of a presentation: its slides and
// the text-bearing elements on each one.
type TemplateStructure struct {
	PresentationID string
	Title          string
	Slides         []Slide
}

// Slide is one page of the template. Number is 1-based.
type Slide struct {
	Number   int
	ObjectID string
	Elements []TextElement
}

// TextElement is a text-bearing page element and its current text.
type TextElement struct {
	ObjectID string
	Text     string
}

// Text returns the concatenated text of every element on the slide.
func (s Slide) Text() string {
	var b strings.Builder
	for _, el := range s.Elements {
		b.WriteString(el.Text)
	}
	return b.String()
}

// HasElement reports whether objectID names a text element anywhere in the template.
func (t *TemplateStructure) HasElement(objectID string) bool {
	for _, s := range t.Slides {
		for _, el := range s.Elements {
			if el.ObjectID == objectID {
				return true
			}
		}
	}
	return false
}

// ElementCount returns the number of text elements across all slides.
func (t *TemplateStructure) ElementCount() int {
	n := 0
	for _, s := range t.Slides {
		n += len(s.Elements)
	}
	return n
}

// MappingOptions are hints echoed into the model prompt.
type MappingOptions struct {
	AutoFormat    bool
	PreserveStyle bool
	SmartMapping  bool
}

// DefaultMappingOptions has every hint switched on.
func DefaultMappingOptions() MappingOptions {
	return MappingOptions{
		AutoFormat:    true,
		PreserveStyle: true,
		SmartMapping:  true,
	}
}

// UpdatePlan maps template text elements to new text.
type UpdatePlan struct {
	Slides []SlideUpdate `json:"slides"`
}

// SlideUpdate holds the replacements for one slide.
type SlideUpdate struct {
	SlideNumber int          `json:"slideNumber"`
	Updates     []TextUpdate `json:"updates"`
}

// TextUpdate replaces the text of one element.
type TextUpdate struct {
	ObjectID string `json:"objectId"`
	Text     string `json:"text"`
}

// UpdateCount returns the number of element replacements in the plan.
func (p *UpdatePlan) UpdateCount() int {
	n := 0
	for _, s := range p.Slides {
		n += len(s.Updates)
	}
	return n
}
