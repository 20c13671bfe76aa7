// Package segment splits a corrected generator document into ordered
// sections. Boundaries are marker images (one per section) plus the
// horizontal rule that ends the map.
package segment

import (
	"strings"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/config"
	"github.com/gaurav-prasanna/townpipe/core/markup"
	"go.uber.org/zap"
)

// Marker binds a marker image filename to the section it opens.
type Marker struct {
	Image   string
	Section core.Section
}

// MarkersFrom builds the ordered marker list from configuration.
func MarkersFrom(m config.Markers) []Marker {
	return []Marker{
		{Image: m.NPCs, Section: core.SectionNPCs},
		{Image: m.Ruler, Section: core.SectionRuler},
		{Image: m.Guards, Section: core.SectionGuards},
		{Image: m.Churches, Section: core.SectionChurches},
		{Image: m.Banks, Section: core.SectionBanks},
		{Image: m.Merchants, Section: core.SectionMerchants},
		{Image: m.Guilds, Section: core.SectionGuilds},
	}
}

// Segmenter walks top-level body nodes and files each under the current section.
type Segmenter struct {
	markers []Marker
	log     *zap.Logger
}

// New creates a Segmenter for the given marker set.
func New(markers []Marker, log *zap.Logger) *Segmenter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Segmenter{markers: markers, log: log}
}

// Split returns the non-empty sections of content in order of first appearance.
func (s *Segmenter) Split(content string) ([]core.Part, error) {
	doc, err := markup.Parse(content)
	if err != nil {
		return nil, err
	}

	var (
		order   []core.Section
		text    = make(map[core.Section]*strings.Builder)
		current = core.SectionMap
	)
	for _, n := range markup.TopLevel(doc) {
		if current == core.SectionMap && markup.ContainsElement(n, "hr") {
			current = core.SectionTitle
			continue
		}
		rendered := markup.Render(n)
		if next, ok := s.markerSection(rendered); ok {
			s.log.Debug("section boundary", zap.String("section", string(next)))
			current = next
			continue
		}
		b, ok := text[current]
		if !ok {
			b = &strings.Builder{}
			text[current] = b
			order = append(order, current)
		}
		b.WriteString(strings.TrimSpace(rendered))
	}

	parts := make([]core.Part, 0, len(order))
	for _, sec := range order {
		if html := text[sec].String(); html != "" {
			parts = append(parts, core.Part{Section: sec, HTML: html})
		}
	}
	return parts, nil
}

// markerSection reports the section opened by a node rendering, if any.
func (s *Segmenter) markerSection(rendered string) (core.Section, bool) {
	for _, m := range s.markers {
		if m.Image != "" && strings.Contains(rendered, m.Image) {
			return m.Section, true
		}
	}
	return "", false
}
