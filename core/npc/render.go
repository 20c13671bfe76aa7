package npc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/townpipe/core"
)

var referenceToken = regexp.MustCompile(`\[npc-([^\]]+)\]`)

// Relation is the suffix naming an NPC's place in its family.
type Relation string

const (
	Owner  Relation = ""
	Spouse Relation = " (spouse)"
	Child  Relation = " (child)"
)

// Renderer turns an NPC back into building HTML.
type Renderer interface {
	Render(n *core.NPC, rel Relation) string
}

// CardRenderer renders NPCs inline as heading plus paragraph cards.
type CardRenderer struct {
	roster     *Roster
	withFamily bool
}

// NewCardRenderer creates a CardRenderer. With withFamily, an owner's card
// is followed by the cards of its spouse and children looked up in roster.
func NewCardRenderer(roster *Roster, withFamily bool) *CardRenderer {
	return &CardRenderer{roster: roster, withFamily: withFamily}
}

// Render returns the card of n.
func (c *CardRenderer) Render(n *core.NPC, rel Relation) string {
	var b strings.Builder
	writeCard(&b, n, rel)
	if !c.withFamily {
		return b.String()
	}
	if s := c.roster.Get(n.Spouse); s != nil {
		writeCard(&b, s, Spouse)
	}
	for _, id := range n.Children {
		if ch := c.roster.Get(id); ch != nil {
			writeCard(&b, ch, Child)
		}
	}
	return b.String()
}

func writeCard(b *strings.Builder, n *core.NPC, rel Relation) {
	fmt.Fprintf(b, "<h3>%s%s</h3>", n.Name, rel)
	b.WriteString("<p>")
	fmt.Fprintf(b, "<b>Height:</b> %d <b>Weight:</b> %d<br/>", n.Height, n.Weight)
	b.WriteString(n.Description + "<br/>")
	b.WriteString("<b>Wearing:</b> " + strings.Join(n.Clothing, ", ") + "<br/>")
	b.WriteString("<b>Possessions:</b> " + strings.Join(n.Possessions, ", ") + "<br/>")
	b.WriteString("</p>")
}

// ReferenceRenderer renders stored NPCs as "[npc-ID]" tokens the host
// expands.
type ReferenceRenderer struct{}

// Render returns the reference token of n.
func (ReferenceRenderer) Render(n *core.NPC, _ Relation) string {
	return "[npc-" + n.ID + "]"
}

// ExpandReferences replaces the reference tokens of stored content with
// cards. An owner's card carries its family, so the later tokens of its
// spouse and children are dropped. Unknown ids are dropped too.
func ExpandReferences(content string, roster *Roster) string {
	cards := NewCardRenderer(roster, true)
	seen := make(map[string]bool)
	return referenceToken.ReplaceAllStringFunc(content, func(tok string) string {
		id := referenceToken.FindStringSubmatch(tok)[1]
		n := roster.Get(id)
		if n == nil || seen[id] {
			return ""
		}
		seen[id] = true
		if n.Spouse != "" {
			seen[n.Spouse] = true
		}
		for _, c := range n.Children {
			seen[c] = true
		}
		return cards.Render(n, Owner)
	})
}
