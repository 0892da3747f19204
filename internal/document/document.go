// Package document loads assignment content from files on disk.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// MaxSize bounds content files.
const MaxSize = 1 << 20

// Document is content ready for the panel.
type Document struct {
	Content  string
	Metadata Metadata
}

// Metadata contains document metadata
type Metadata struct {
	Title         string
	SourcePath    string
	SourceFormat  string
	FileSizeBytes int64
	WordCount     int
}

// FileSizeHuman returns human-readable file size
func (m Metadata) FileSizeHuman() string {
	return humanize.IBytes(uint64(m.FileSizeBytes))
}

// Summary is a one-line description for status output.
func (m Metadata) Summary() string {
	return fmt.Sprintf("Loaded %s (%s, %d words)", m.Title, m.FileSizeHuman(), m.WordCount)
}

var textFormats = map[string]string{
	".txt":      "text",
	".md":       "markdown",
	".markdown": "markdown",
	"":          "text",
}

// Load reads a plain text or markdown file.
func Load(path string) (*Document, error) {
	format, ok := textFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("unsupported content file %s: use .txt or .md", filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxSize {
		return nil, fmt.Errorf("content file too large: %d bytes (max %d)", info.Size(), MaxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not UTF-8 text", filepath.Base(path))
	}

	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	return &Document{
		Content: content,
		Metadata: Metadata{
			Title:         filepath.Base(path),
			SourcePath:    path,
			SourceFormat:  format,
			FileSizeBytes: info.Size(),
			WordCount:     len(strings.Fields(content)),
		},
	}, nil
}
