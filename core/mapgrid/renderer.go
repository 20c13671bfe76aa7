// Package mapgrid turns the generator's absolutely positioned map grid into a
// flow layout of cells, linking every numbered cell to its building modal.
package mapgrid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/finalize"
	"github.com/gaurav-prasanna/townpipe/core/markup"
	"github.com/gaurav-prasanna/townpipe/core/normalize"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

var (
	widthRegex    = regexp.MustCompile(`width: ([0-9]+)px;`)
	buildingRegex = regexp.MustCompile(`color: #FF0000;">([0-9]+)</div>`)
	positionRegex = regexp.MustCompile(`style="position:absolute;top:([0-9]+)px; left:([0-9]+)px; z-index:1;"`)
)

const (
	buildingLink = `color: #FF0000;"><a href="#modal_$1">$1</a></div>`
	flowStyle    = `style="display: inline-block; position:relative; padding: 0;"`
)

// The generator's container is 5px narrower than its cells need; the extra
// 100px leaves room for the scrollbar.
const (
	widthShrink  = 5
	widthPadding = 100
)

// Renderer renders the map section.
type Renderer struct {
	container cascadia.Selector
	norm      *normalize.Normalizer
	final     *finalize.Finalizer
	log       *zap.Logger
}

// New creates a Renderer locating the grid by element id.
func New(containerID string, norm *normalize.Normalizer, final *finalize.Finalizer, log *zap.Logger) (*Renderer, error) {
	sel, err := cascadia.Compile("#" + containerID)
	if err != nil {
		return nil, fmt.Errorf("compiling map container selector: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{container: sel, norm: norm, final: final, log: log}, nil
}

// DisplayWidth pads the captured container width for the flow layout.
func DisplayWidth(captured int) int {
	return captured - widthShrink + widthPadding
}

// Render builds the Map from the raw map section. It returns nil when the
// section holds no grid container.
func (r *Renderer) Render(section string) (*core.Map, error) {
	doc, err := markup.Parse(r.norm.Clean(section))
	if err != nil {
		return nil, err
	}
	grid := doc.FindMatcher(r.container).First()
	if grid.Length() == 0 {
		r.log.Debug("map container not found")
		return nil, nil
	}

	m := &core.Map{}
	style, _ := grid.Attr("style")
	if match := widthRegex.FindStringSubmatch(style); match != nil {
		captured, _ := strconv.Atoi(match[1])
		m.Width = DisplayWidth(captured)
	} else {
		r.log.Debug("map width not found", zap.String("style", style))
	}

	node := grid.Nodes[0]
	for c := node.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type != html.ElementNode {
			node.RemoveChild(c)
		}
		c = next
	}

	var b strings.Builder
	b.WriteString(`<div style="overflow: auto;">`)
	if m.Width > 0 {
		fmt.Fprintf(&b, `<div style="width: %dpx;">`, m.Width)
	} else {
		b.WriteString(`<div>`)
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		cell := r.renderCell(r.norm.Clean(markup.Render(c)))
		if cell.HTML, err = r.final.Finalize(cell.HTML); err != nil {
			return nil, err
		}
		m.Cells = append(m.Cells, cell)
		b.WriteString(cell.HTML)
	}
	b.WriteString(`</div></div>`)

	m.HTML, err = r.final.Finalize(b.String())
	if err != nil {
		return nil, err
	}
	return m, nil
}

// renderCell links a numbered cell and switches it to inline flow.
func (r *Renderer) renderCell(cell string) core.Cell {
	var c core.Cell
	if match := buildingRegex.FindStringSubmatch(cell); match != nil {
		c.BuildingID, _ = strconv.Atoi(match[1])
		cell = buildingRegex.ReplaceAllString(cell, buildingLink)
	}
	c.HTML = positionRegex.ReplaceAllString(cell, flowStyle)
	return c
}
