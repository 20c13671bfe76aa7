// Package fixup patches a known structural defect of the Wizardawn generator
// before segmentation. Under one section configuration the generator leaves
// an inline <font> open two nodes after the citizens marker image, and the
// HTML parser then nests every following section inside that span.
package fixup

import (
	"strings"

	"github.com/gaurav-prasanna/townpipe/core/markup"
	"github.com/gaurav-prasanna/townpipe/core/normalize"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Corrector re-terminates the unterminated span. Correction is opportunistic:
// documents without the marker pass through untouched.
type Corrector struct {
	norm   *normalize.Normalizer
	marker string
	log    *zap.Logger
}

// New creates a Corrector keyed on the marker image filename.
func New(norm *normalize.Normalizer, marker string, log *zap.Logger) *Corrector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Corrector{norm: norm, marker: marker, log: log}
}

// Fix closes the element two top-level nodes past the marker node right
// after its first child: every later child is moved out to follow the
// element, which is what a closing tag at that point would have produced.
func (c *Corrector) Fix(content string) (string, error) {
	doc, err := markup.Parse(content)
	if err != nil {
		return "", err
	}

	nodes := significant(markup.TopLevel(doc))
	var bad *html.Node
	for i, n := range nodes {
		if !strings.Contains(markup.Render(n), c.marker) {
			continue
		}
		if i+2 < len(nodes) && nodes[i+2].Type == html.ElementNode && nodes[i+2].FirstChild != nil {
			bad = nodes[i+2]
		}
		break
	}
	if bad == nil {
		c.log.Debug("no defect marker found", zap.String("marker", c.marker))
		return c.norm.Clean(content), nil
	}

	moved := 0
	anchor := bad
	for s := bad.FirstChild.NextSibling; s != nil; {
		next := s.NextSibling
		bad.RemoveChild(s)
		bad.Parent.InsertBefore(s, anchor.NextSibling)
		anchor = s
		s = next
		moved++
	}
	c.log.Debug("closed unterminated span",
		zap.String("tag", bad.Data),
		zap.String("fragment", strings.TrimSpace(markup.Render(bad.FirstChild))),
		zap.Int("released", moved))

	return c.norm.Clean(markup.Document(doc)), nil
}

// significant drops whitespace-only text nodes, which do not count as
// positions between the marker and the unterminated span.
func significant(nodes []*html.Node) []*html.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}
