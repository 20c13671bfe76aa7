// Package extract strips a saved generator page down to the markup the
// converter reads. Browsers that save a Wizardawn page add scripts, styles,
// and meta tags around the generated body; none of it describes the town.
package extract

import (
	"fmt"

	"github.com/gaurav-prasanna/townpipe/core/markup"
	"go.uber.org/zap"
)

// noiseSelectors are removed before the body is handed on.
// Images are kept: the generator marks every section with one.
var noiseSelectors = []string{
	"script", "style", "noscript", "link", "meta",
	"iframe", "object", "embed",
	"form", "button", "input", "select", "textarea",
}

// Extractor removes page noise from a generator document.
type Extractor struct {
	log *zap.Logger
}

// New creates an Extractor.
func New(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log}
}

// Extract parses html, drops every noise element, and returns the body
// content as a fragment.
func (e *Extractor) Extract(html string) (string, error) {
	doc, err := markup.Parse(html)
	if err != nil {
		return "", err
	}

	removed := 0
	for _, sel := range noiseSelectors {
		found := doc.Find(sel)
		removed += found.Length()
		found.Remove()
	}
	if removed > 0 {
		e.log.Debug("noise removed", zap.Int("elements", removed))
	}

	body, err := markup.InnerBody(doc)
	if err != nil {
		return "", fmt.Errorf("extracting body: %w", err)
	}
	return body, nil
}
