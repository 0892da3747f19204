// Package shell holds the glue between the command line and the panel: URL
// routing, first-run install and log setup.
package shell

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrNotPresentation is returned when the panel is opened on anything other
// than a Slides presentation.
var ErrNotPresentation = errors.New("open a Google Slides presentation first")

var presentationIDPattern = regexp.MustCompile(`/presentation/d/([a-zA-Z0-9-_]+)`)

// IsPresentationURL reports whether raw points at a Google Slides document.
func IsPresentationURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}
	return strings.EqualFold(u.Hostname(), "docs.google.com") &&
		strings.HasPrefix(u.Path, "/presentation")
}

// ExtractPresentationID returns the id embedded in a presentation URL, or ""
// when there is none.
func ExtractPresentationID(raw string) string {
	m := presentationIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}

// Resolve validates raw and returns its presentation id.
func Resolve(raw string) (string, error) {
	if !IsPresentationURL(raw) {
		return "", ErrNotPresentation
	}
	return ExtractPresentationID(raw), nil
}
