package mapper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sant0-9/deckfill/internal/slides"
)

// ResponseParser turns a raw model reply into an update plan. It does not
// check the plan against a template; see Validate.
type ResponseParser interface {
	Parse(raw string) (*slides.UpdatePlan, error)
}

// BraceSpanParser takes everything from the first '{' to the last '}' and
// parses it. Prose or markdown fences around the object are ignored.
type BraceSpanParser struct{}

func (BraceSpanParser) Parse(raw string) (*slides.UpdatePlan, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return nil, &slides.ParseError{Reason: "no JSON object in reply", Raw: raw}
	}
	return decodePlan(raw[start:end+1], raw)
}

// StrictJSONParser requires the whole reply to be a single JSON object. Use
// it with providers running in JSON mode.
type StrictJSONParser struct{}

func (StrictJSONParser) Parse(raw string) (*slides.UpdatePlan, error) {
	body := strings.TrimSpace(raw)
	if !strings.HasPrefix(body, "{") {
		return nil, &slides.ParseError{Reason: "reply is not a JSON object", Raw: raw}
	}
	return decodePlan(body, raw)
}

// rawPlan mirrors UpdatePlan with pointers so missing fields can be told
// apart from zero values.
type rawPlan struct {
	Slides *[]struct {
		SlideNumber *int `json:"slideNumber"`
		Updates     *[]struct {
			ObjectID *string `json:"objectId"`
			Text     *string `json:"text"`
		} `json:"updates"`
	} `json:"slides"`
}

func decodePlan(body, raw string) (*slides.UpdatePlan, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	var rp rawPlan
	if err := dec.Decode(&rp); err != nil {
		return nil, &slides.ParseError{Reason: "invalid JSON", Raw: raw, Err: err}
	}
	if dec.More() {
		return nil, &slides.ParseError{Reason: "trailing data after JSON object", Raw: raw}
	}
	if rp.Slides == nil {
		return nil, &slides.ParseError{Reason: `missing "slides" array`, Raw: raw}
	}

	plan := &slides.UpdatePlan{Slides: make([]slides.SlideUpdate, 0, len(*rp.Slides))}
	for i, s := range *rp.Slides {
		if s.SlideNumber == nil {
			return nil, &slides.ParseError{Reason: fmt.Sprintf("slides[%d] has no slideNumber", i), Raw: raw}
		}
		if s.Updates == nil {
			return nil, &slides.ParseError{Reason: fmt.Sprintf("slides[%d] has no updates array", i), Raw: raw}
		}
		su := slides.SlideUpdate{SlideNumber: *s.SlideNumber, Updates: make([]slides.TextUpdate, 0, len(*s.Updates))}
		for j, u := range *s.Updates {
			if u.ObjectID == nil || *u.ObjectID == "" {
				return nil, &slides.ParseError{Reason: fmt.Sprintf("slides[%d].updates[%d] has no objectId", i, j), Raw: raw}
			}
			if u.Text == nil {
				return nil, &slides.ParseError{Reason: fmt.Sprintf("slides[%d].updates[%d] has no text", i, j), Raw: raw}
			}
			su.Updates = append(su.Updates, slides.TextUpdate{ObjectID: *u.ObjectID, Text: *u.Text})
		}
		plan.Slides = append(plan.Slides, su)
	}
	return plan, nil
}

// Validate checks that every update in plan targets an element of tmpl and
// a slide number that exists.
func Validate(plan *slides.UpdatePlan, tmpl *slides.TemplateStructure) error {
	for _, s := range plan.Slides {
		if s.SlideNumber < 1 || s.SlideNumber > len(tmpl.Slides) {
			return &slides.ParseError{Reason: fmt.Sprintf("slide %d does not exist in the template", s.SlideNumber)}
		}
		for _, u := range s.Updates {
			if !tmpl.HasElement(u.ObjectID) {
				return &slides.ParseError{Reason: fmt.Sprintf("element %q is not in the template", u.ObjectID)}
			}
		}
	}
	return nil
}
