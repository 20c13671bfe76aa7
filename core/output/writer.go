// Package output handles file naming and writing for townpipe outputs.
// File names come from the town title (e.g. "Oak Vale" -> oak_vale.html);
// an untitled town is named after its source document.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
	// used tracks names written by this Writer so a batch never overwrites
	// one town with another of the same title.
	used map[string]int
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir, used: make(map[string]int)}, nil
}

// Write stores data as <name>.ext where name derives from title, or from
// source when the title is empty. A repeated name gets a numeric suffix.
func (w *Writer) Write(title, source string, data []byte, ext string) (string, error) {
	name := Filename(title, source)
	w.used[name]++
	if n := w.used[name]; n > 1 {
		name = fmt.Sprintf("%s_%d", name, n)
	}

	p := filepath.Join(w.OutputDir, name+ext)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", p, err)
	}
	return p, nil
}

// Filename returns the base file name for a town.
// Example: ("Oak Vale", _) -> oak_vale; ("", "https://x.org/t/river.html") -> river
func Filename(title, source string) string {
	if s := sanitize(strings.ToLower(strings.TrimSpace(title))); s != "" {
		return s
	}
	base := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		base = u.Path
	}
	base = path.Base(filepath.ToSlash(base))
	base = strings.TrimSuffix(base, path.Ext(base))
	if s := sanitize(strings.ToLower(base)); s != "" && s != "." {
		return s
	}
	return "town"
}

// sanitize replaces runs of non-alphanumeric characters with one underscore
// and trims underscores at both ends.
func sanitize(s string) string {
	var b strings.Builder
	gap := false
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			if gap && b.Len() > 0 {
				b.WriteRune('_')
			}
			gap = false
			b.WriteRune(ch)
		} else {
			gap = true
		}
	}
	return b.String()
}
