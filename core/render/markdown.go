// Package render: Markdown renderer.
// Writes a town as one Markdown document: the ruler, then every building
// grouped by category with its occupants, then the unplaced occupants.
// The map grid is image-only and is left out.
package render

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/npc"
)

// categoryTitles heads each building category in document outputs.
var categoryTitles = map[core.Category]string{
	core.CategoryHouse:    "Houses",
	core.CategoryGuard:    "Guardhouses",
	core.CategoryChurch:   "Churches",
	core.CategoryBank:     "Banks",
	core.CategoryMerchant: "Merchants",
	core.CategoryGuild:    "Guilds",
}

var headingLine = regexp.MustCompile(`(?m)^(#{1,4}) `)

// MarkdownRenderer converts a town to Markdown with html-to-markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts res to Markdown.
func (r *MarkdownRenderer) Render(res *core.Result) ([]byte, error) {
	if res == nil || res.City == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	city := res.City

	var b strings.Builder
	title := city.Title
	if title == "" {
		title = "Untitled town"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if ruler, ok := res.Part(core.SectionRuler); ok {
		md, err := toMarkdown(ruler, 1)
		if err != nil {
			return nil, fmt.Errorf("converting ruler: %w", err)
		}
		fmt.Fprintf(&b, "## Ruler\n\n%s\n\n", md)
	}

	// Stored towns list occupants as reference tokens; write them out as cards.
	roster := npc.RosterOf(city.NPCs)
	for _, cat := range core.Categories {
		first := true
		for _, bld := range city.Buildings {
			if bld.Category != cat {
				continue
			}
			if first {
				fmt.Fprintf(&b, "## %s\n\n", categoryTitles[cat])
				first = false
			}
			md, err := toMarkdown(npc.ExpandReferences(bld.Content, roster), 2)
			if err != nil {
				return nil, fmt.Errorf("converting building %d: %w", bld.ID, err)
			}
			b.WriteString(md)
			b.WriteString("\n\n")
		}
	}

	if len(city.Unplaced) > 0 {
		b.WriteString("## Unplaced\n\n")
		for _, u := range city.Unplaced {
			md, err := toMarkdown(u, 1)
			if err != nil {
				return nil, fmt.Errorf("converting unplaced occupant: %w", err)
			}
			b.WriteString(md)
			b.WriteString("\n\n")
		}
	}

	return []byte(strings.TrimRight(b.String(), "\n") + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// toMarkdown converts an HTML fragment and pushes its headings down by
// depth levels so they nest under the document's own headings.
func toMarkdown(fragment string, depth int) (string, error) {
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", err
	}
	prefix := strings.Repeat("#", depth)
	md = headingLine.ReplaceAllString(md, prefix+"$1 ")
	return strings.TrimSpace(md), nil
}
