package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("# Q1\r\nGrowth was 15%.\r\n\r\n"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Content != "# Q1\nGrowth was 15%." {
		t.Errorf("Content = %q", doc.Content)
	}
	if doc.Metadata.SourceFormat != "markdown" || doc.Metadata.WordCount != 5 {
		t.Errorf("Metadata = %+v", doc.Metadata)
	}
	if !strings.HasPrefix(doc.Metadata.Summary(), "Loaded notes.md (") {
		t.Errorf("Summary() = %q", doc.Metadata.Summary())
	}
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "raw.txt")
	os.WriteFile(binary, []byte{0xff, 0xfe, 0x00}, 0644)

	tests := []struct {
		name string
		path string
	}{
		{"unsupported extension", filepath.Join(dir, "deck.pdf")},
		{"missing file", filepath.Join(dir, "nope.txt")},
		{"directory", dir},
		{"invalid utf-8", binary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFileSizeHuman(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := (Metadata{FileSizeBytes: tt.size}).FileSizeHuman(); got != tt.want {
			t.Errorf("FileSizeHuman(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
