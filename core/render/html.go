// Package render provides the output renderers for converted towns.
// This file implements the HTML page renderer: the flat, self-contained
// page a game master pastes into a site, with one collapsible list entry
// per section and every building modal at the end.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/persist"
)

const pageStyle = `.collapsible-body p { padding: 0; }`

// sectionUnplaced heads the list of occupants without a building.
const sectionUnplaced core.Section = "unplaced"

// HTMLRenderer assembles a converted town into one HTML page.
type HTMLRenderer struct {
	assetBase string
}

// NewHTMLRenderer creates an HTMLRenderer. assetBase locates the section
// header images.
func NewHTMLRenderer(assetBase string) *HTMLRenderer {
	return &HTMLRenderer{assetBase: assetBase}
}

// Render writes the map, the collapsible section list, and the building
// modals. The title and buildings parts are not listed.
func (r *HTMLRenderer) Render(res *core.Result) ([]byte, error) {
	if res == nil || res.City == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	title := html.EscapeString(res.City.Title)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"/>")
	fmt.Fprintf(&b, "<title>%s</title><style>%s</style></head><body>", title, pageStyle)
	if title != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>", title)
	}
	if m, ok := res.Part(core.SectionMap); ok {
		b.WriteString(m)
	}

	b.WriteString(`<ul class="collapsible" data-collapsible="expandable">`)
	for _, p := range res.Parts {
		switch p.Section {
		case core.SectionMap, core.SectionTitle, core.SectionBuildings:
			continue
		}
		r.writeEntry(&b, p.Section, p.HTML)
	}
	if len(res.City.Unplaced) > 0 {
		r.writeEntry(&b, sectionUnplaced, strings.Join(res.City.Unplaced, ""))
	}
	b.WriteString(`</ul>`)

	if modals, ok := res.Part(core.SectionBuildings); ok {
		b.WriteString(modals)
	}
	b.WriteString("</body></html>\n")
	return []byte(b.String()), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

func (r *HTMLRenderer) writeEntry(b *strings.Builder, s core.Section, content string) {
	b.WriteString(`<li><div class="collapsible-header" style="line-height: initial; margin-top: 10px;">`)
	fmt.Fprintf(b, `<img src="%s" alt="%s"/>`, sectionImage(r.assetBase, s), s)
	b.WriteString(`</div><div class="collapsible-body">`)
	b.WriteString(content)
	b.WriteString(`</div></li>`)
}

// sectionImage returns the header image of a section. Building sections
// share the category images of the stored city page.
func sectionImage(assetBase string, s core.Section) string {
	if cat, ok := core.CategoryFor(s); ok {
		return persist.HeaderImage(assetBase, cat)
	}
	return strings.TrimSuffix(assetBase, "/") + "/images/" + string(s) + ".jpg"
}
