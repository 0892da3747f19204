package prompts

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed system.md
var System string

//go:embed mapping.md
var mappingSource string

var mappingTemplate = template.Must(template.New("mapping").Parse(mappingSource))

// Options are the panel checkboxes as they appear in the prompt.
type Options struct {
	AutoFormat    bool
	PreserveStyle bool
	SmartMapping  bool
}

// MappingData fills the mapping prompt. Template is the pre-rendered JSON
// description of the slides.
type MappingData struct {
	Template string
	Content  string
	Options  Options
}

// BuildSystemPrompt returns the system message for the mapping call.
func BuildSystemPrompt() string {
	return strings.TrimSpace(System)
}

// BuildMappingPrompt renders the user message for the mapping call.
func BuildMappingPrompt(data MappingData) (string, error) {
	var b strings.Builder
	if err := mappingTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
