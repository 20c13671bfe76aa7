package building

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/townpipe/core"
	"go.uber.org/zap"
)

var (
	// infoRegex captures "[info] <b>Profession:</b>".
	infoRegex = regexp.MustCompile(`\[(.*?)\] <b>(.*?):</b>`)
	ruleRegex = regexp.MustCompile(`<hr[^>]*>`)
)

// Merger appends occupant sections (guards, churches, banks, merchants,
// guilds) to buildings an earlier section already registered.
type Merger struct {
	log *zap.Logger
}

// NewMerger creates a Merger.
func NewMerger(log *zap.Logger) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Merger{log: log}
}

// Merge folds every occupant fragment of section into its registered building
// and returns the section's link list. Fragments naming an unregistered
// building are returned verbatim as unplaced, unlinked HTML.
//
// The part of a fragment before its first rule is replaced by a
// "<h3><b>Profession</b> [info]</h3>" header.
func (m *Merger) Merge(section string, category core.Category, reg *Registry) (string, []string) {
	var (
		links    strings.Builder
		unplaced []string
	)
	for _, frag := range fragments(section) {
		id, _, ok := marker(frag)
		if !ok {
			continue
		}
		title := titleRegex.FindStringSubmatch(frag)
		info := infoRegex.FindStringSubmatch(frag)
		if title == nil || info == nil {
			m.log.Debug("occupant fragment without title or profession", zap.Int("building", id))
			continue
		}

		b, ok := reg.Get(id)
		if !ok {
			m.log.Debug("occupant of unknown building", zap.Int("building", id))
			unplaced = append(unplaced, strings.TrimSpace(frag))
			continue
		}

		b.Content += occupantBody(frag, info[2], info[1])
		if b.HasGenericTitle() {
			generic := "<h1>" + core.GenericTitle(id) + "</h1>"
			b.Title = title[1]
			b.Content = strings.ReplaceAll(b.Content, generic, "<h1>"+b.DisplayTitle()+"</h1>")
		}
		b.Category = category
		links.WriteString(Link(id, fmt.Sprintf("%s (Building %d)", title[1], id)))
	}
	return links.String(), unplaced
}

// occupantBody swaps everything before the fragment's first rule for the
// profession header. Every copy of that rule is normalized to <hr/>.
func occupantBody(frag, profession, info string) string {
	header := fmt.Sprintf("<h3><b>%s</b> [%s]</h3>", profession, info)
	rule := ruleRegex.FindString(frag)
	if rule == "" {
		return header
	}
	pieces := strings.Split(frag, rule)
	pieces[0] = header
	return strings.TrimSpace(strings.Join(pieces, closingRule))
}
