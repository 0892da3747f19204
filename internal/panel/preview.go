package panel

import (
	"fmt"
	"strings"

	"github.com/sant0-9/deckfill/internal/slides"
)

// DescribeTemplate renders the analyzed template for the preview area.
func DescribeTemplate(tmpl *slides.TemplateStructure) string {
	var b strings.Builder
	for i, s := range tmpl.Slides {
		if i > 0 {
			b.WriteString("\n\n")
		}
		text := strings.TrimRight(s.Text(), "\n")
		if text == "" {
			fmt.Fprintf(&b, "[Empty slide %d]", s.Number)
			continue
		}
		fmt.Fprintf(&b, "Slide %d:\n%s", s.Number, text)
	}
	return b.String()
}

// DescribePlan renders the generated content for the preview area.
func DescribePlan(plan *slides.UpdatePlan) string {
	var b strings.Builder
	b.WriteString("Generated Content:")
	for _, s := range plan.Slides {
		fmt.Fprintf(&b, "\n\nSlide %d:", s.SlideNumber)
		for _, u := range s.Updates {
			b.WriteString("\n")
			b.WriteString(u.Text)
		}
	}
	return b.String()
}
