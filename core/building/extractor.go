// Package building splits building sections of a generator document into one
// fragment per building, registers them, and merges occupant sections into
// buildings that were already described.
package building

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/townpipe/core"
	"go.uber.org/zap"
)

var (
	markerRegex = regexp.MustCompile(`<font size="3">([0-9]+)</font>`)
	titleRegex  = regexp.MustCompile(`-<b>(.*?)</b>`)
)

const (
	splitToken = "##START##"
	linkFormat = `<a class="modal-trigger" href="#modal_%d">%s</a><br/>`
)

// fragments marks every building marker with the split token, flattens the
// generator's bold-italic nesting, and splits. The first element holds
// whatever precedes the first marker.
func fragments(section string) []string {
	s := markerRegex.ReplaceAllString(section, splitToken+"$0")
	s = strings.ReplaceAll(s, "<b><i>", "")
	s = strings.ReplaceAll(s, "</i></b>", "")
	s = strings.ReplaceAll(s, "</i><b>", "</i>")
	return strings.Split(s, splitToken)
}

// marker returns the building id of a fragment and the exact marker text.
func marker(fragment string) (int, string, bool) {
	m := markerRegex.FindStringSubmatch(fragment)
	if m == nil {
		return 0, "", false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return id, m[0], true
}

// Link renders the modal trigger listing entry for a building.
func Link(id int, title string) string {
	return fmt.Sprintf(linkFormat, id, title)
}

// Extractor registers whole buildings.
type Extractor struct {
	log *zap.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log}
}

// Extract registers every building of section under category and returns the
// section's link list.
//
// A fragment starting with "-<b>Name</b>" names the building. Citizens start
// with "-<b>Name:</b>" instead; a trailing colon marks an occupant, and the
// building keeps its generic title.
func (e *Extractor) Extract(section string, category core.Category, reg *Registry) string {
	var links strings.Builder
	for _, frag := range fragments(section) {
		id, mark, ok := marker(frag)
		if !ok {
			continue
		}
		b := &core.Building{ID: id, Title: core.GenericTitle(id), Category: category}
		if t := titleRegex.FindStringSubmatch(frag); t != nil && !strings.HasSuffix(t[1], ":") && t[1] != "" {
			b.Title = t[1]
			frag = strings.TrimSpace(strings.ReplaceAll(frag, t[0], ""))
		}
		title := b.DisplayTitle()
		b.Content = strings.ReplaceAll(frag, mark, "<h1>"+title+"</h1>")

		if _, isNew := reg.Register(b); !isNew {
			e.log.Debug("building registered twice, content appended", zap.Int("building", id))
		}
		links.WriteString(Link(id, title))
	}
	return links.String()
}
