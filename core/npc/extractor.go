// Package npc parses the occupants of a building (owner, spouse, children)
// into NPC records, links the family together, and renders each occupant
// back into the building as a card or, once stored, a reference token.
package npc

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/finalize"
	"github.com/gaurav-prasanna/townpipe/core/markup"
	"github.com/gaurav-prasanna/townpipe/core/normalize"
	"github.com/gaurav-prasanna/townpipe/core/persist"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	titleRegex      = regexp.MustCompile(`<h1>(.*?)</h1>`)
	ownerRegex      = regexp.MustCompile(`<font size="2">-<b>(.*?)</font>`)
	spouseRegex     = regexp.MustCompile(`<font size="2">--<b>(.*?)</font>`)
	childRegex      = regexp.MustCompile(`<font size="2">---<b>(.*?)</font>`)
	headingRegex    = regexp.MustCompile(`<h3>(.*?)</h3>`)
	boldRegex       = regexp.MustCompile(`<b>(.*?)</b>`)
	bracketRegex    = regexp.MustCompile(`\[(.*?)\]`)
	singleRegex     = regexp.MustCompile(`<font size="2">(.*?)</font>`)
	inlineInfoRegex = regexp.MustCompile(` \[(.*?)\]`)
	inlineProfRegex = regexp.MustCompile(` <b>(.*?)</b> `)
)

// Session is the NPC state of one conversion: the roster and the rendering
// strategy. With a store, every NPC and building is written as it is parsed
// and occupants render as reference tokens.
type Session struct {
	roster   *Roster
	renderer Renderer
	store    core.ContentStore
}

// NewSession creates the state for one conversion. A nil store selects
// display mode.
func NewSession(store core.ContentStore) *Session {
	roster := NewRoster()
	s := &Session{roster: roster, store: store}
	if store == nil {
		s.renderer = NewCardRenderer(roster, false)
	} else {
		s.renderer = ReferenceRenderer{}
	}
	return s
}

// Roster returns every NPC parsed so far.
func (s *Session) Roster() *Roster { return s.roster }

// Persist reports whether the session writes through a store.
func (s *Session) Persist() bool { return s.store != nil }

// Extractor parses building occupants.
type Extractor struct {
	norm        *normalize.Normalizer
	final       *finalize.Finalizer
	emptyPhrase string
	log         *zap.Logger
}

// NewExtractor creates an Extractor. emptyPhrase marks a building without
// occupants.
func NewExtractor(norm *normalize.Normalizer, final *finalize.Finalizer, emptyPhrase string, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{norm: norm, final: final, emptyPhrase: emptyPhrase, log: log}
}

// placed is an NPC waiting for its placeholder to be rendered.
type placed struct {
	token string
	npc   *core.NPC
	rel   Relation
}

// Extract parses the occupants of b, rewrites b.Content with their
// renderings, and returns the new content. In persist mode the building is
// stored afterwards.
//
// Occupants are resolved in two passes: each family block is swapped for a
// placeholder while the NPCs are created and linked, then every placeholder
// is replaced by its rendering.
func (e *Extractor) Extract(ctx context.Context, s *Session, b *core.Building) (string, error) {
	doc, err := markup.Parse(b.Content)
	if err != nil {
		return "", fmt.Errorf("parsing building %d: %w", b.ID, err)
	}
	body, err := markup.InnerBody(doc)
	if err != nil {
		return "", fmt.Errorf("serializing building %d: %w", b.ID, err)
	}
	html := e.norm.Clean(body)
	title := titleRegex.FindString(html)

	if e.emptyPhrase != "" && strings.Contains(b.Content, e.emptyPhrase) {
		b.Content = e.norm.Clean(title + " <p>" + e.emptyPhrase + ".</p>")
		return b.Content, nil
	}

	var pending []placed
	hold := func(block string, n *core.NPC, rel Relation) {
		p := placed{token: "###NPC_" + n.ID + "###", npc: n, rel: rel}
		html = strings.ReplaceAll(html, block, p.token)
		pending = append(pending, p)
	}

	if block := ownerRegex.FindString(html); block != "" {
		owner, err := e.create(ctx, s, Parse(block, b.ID))
		if err != nil {
			return "", err
		}
		hold(block, owner, Owner)

		if block := spouseRegex.FindString(html); block != "" {
			spouse, err := e.create(ctx, s, Parse(block, b.ID))
			if err != nil {
				return "", err
			}
			hold(block, spouse, Spouse)
			if err := e.link(ctx, s, owner, persist.LinkSpouse, spouse); err != nil {
				return "", err
			}
		}
		for _, block := range childRegex.FindAllString(html, -1) {
			child, err := e.create(ctx, s, Parse(block, b.ID))
			if err != nil {
				return "", err
			}
			hold(block, child, Child)
			if err := e.link(ctx, s, owner, persist.LinkChild, child); err != nil {
				return "", err
			}
		}

		if h := headingRegex.FindStringSubmatch(html); h != nil {
			var profession, info string
			if m := boldRegex.FindStringSubmatch(h[1]); m != nil {
				profession = m[1]
			}
			if m := bracketRegex.FindStringSubmatch(h[1]); m != nil {
				info = m[1]
			}
			if err := e.setProfession(ctx, s, owner, profession, info); err != nil {
				return "", err
			}
		}
	} else if block := singleRegex.FindString(html); block != "" {
		frag := block
		var profession, info string
		if m := inlineInfoRegex.FindStringSubmatch(frag); m != nil {
			frag = strings.ReplaceAll(frag, m[0], "")
			info = m[1]
		}
		if m := inlineProfRegex.FindStringSubmatch(frag); m != nil {
			frag = strings.ReplaceAll(frag, m[0], "-")
			profession = m[1]
		}
		n := Parse(frag, b.ID)
		n.Profession, n.ProfessionInfo = profession, info
		occupant, err := e.create(ctx, s, n)
		if err != nil {
			return "", err
		}
		hold(block, occupant, Owner)
	} else {
		e.log.Debug("building without occupants", zap.Int("building", b.ID))
	}

	b.NPCs = b.NPCs[:0]
	for _, p := range pending {
		html = strings.ReplaceAll(html, p.token, s.renderer.Render(p.npc, p.rel))
		b.NPCs = append(b.NPCs, p.npc.ID)
	}
	b.Content = e.norm.Clean(html)

	if s.Persist() {
		stored, err := e.final.Finalize(b.Content)
		if err != nil {
			return "", err
		}
		if b.StoreID, err = persist.Building(ctx, s.store, b, stored); err != nil {
			return "", err
		}
	}
	return b.Content, nil
}

// create assigns n its id, storing it first in persist mode, and adds it to
// the roster.
func (e *Extractor) create(ctx context.Context, s *Session, n *core.NPC) (*core.NPC, error) {
	if n.Name == "" {
		e.log.Debug("occupant without name", zap.Int("building", n.Building))
	}
	if !s.Persist() {
		n.ID = "npc_" + uuid.NewString()
		s.roster.Add(n)
		return n, nil
	}
	body, err := e.final.Finalize(n.Description)
	if err != nil {
		return nil, err
	}
	id, err := persist.NPC(ctx, s.store, n, body)
	if err != nil {
		return nil, err
	}
	n.ID, n.Persisted = id, true
	s.roster.Add(n)
	return n, nil
}

// link records member as the owner's spouse or child.
func (e *Extractor) link(ctx context.Context, s *Session, owner *core.NPC, t persist.LinkType, member *core.NPC) error {
	switch t {
	case persist.LinkSpouse:
		owner.Spouse = member.ID
	case persist.LinkChild:
		owner.Children = append(owner.Children, member.ID)
	}
	if !s.Persist() {
		return nil
	}
	return persist.AddFamilyLink(ctx, s.store, owner.ID, t, member.ID)
}

// setProfession updates the owner from the profession heading of its building.
func (e *Extractor) setProfession(ctx context.Context, s *Session, owner *core.NPC, profession, info string) error {
	owner.Profession, owner.ProfessionInfo = profession, info
	if !s.Persist() {
		return nil
	}
	for _, kv := range [][2]string{{persist.KeyProfession, profession}, {persist.KeyProfessionInfo, info}} {
		if err := s.store.SetMetadata(ctx, owner.ID, kv[0], kv[1]); err != nil {
			return fmt.Errorf("writing %s of npc %s: %w", kv[0], owner.ID, err)
		}
	}
	return nil
}
