// Package convert orchestrates a conversion: normalize, correct, segment,
// extract buildings and their occupants, then filter the citizen listing.
// Every registry lives in a per-call run, so one Converter may serve
// concurrent conversions.
package convert

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/building"
	"github.com/gaurav-prasanna/townpipe/core/config"
	"github.com/gaurav-prasanna/townpipe/core/finalize"
	"github.com/gaurav-prasanna/townpipe/core/fixup"
	"github.com/gaurav-prasanna/townpipe/core/mapgrid"
	"github.com/gaurav-prasanna/townpipe/core/markup"
	"github.com/gaurav-prasanna/townpipe/core/normalize"
	"github.com/gaurav-prasanna/townpipe/core/npc"
	"github.com/gaurav-prasanna/townpipe/core/persist"
	"github.com/gaurav-prasanna/townpipe/core/segment"
	"go.uber.org/zap"
)

var htmlTagRegex = regexp.MustCompile(`(?i)<\s*(!doctype|html|head|body|div|font|img|p|table|br|hr)\b`)

const modalFormat = `<div id="modal_%d" class="modal"><div class="modal-content">%s</div></div>`

// Converter turns generator documents into cities.
type Converter struct {
	cfg       config.Config
	store     core.ContentStore
	log       *zap.Logger
	norm      *normalize.Normalizer
	final     *finalize.Finalizer
	fixer     *fixup.Corrector
	segmenter *segment.Segmenter
	mapper    *mapgrid.Renderer
	extractor *building.Extractor
	merger    *building.Merger
	npcs      *npc.Extractor
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Converter) { c.log = log }
}

// WithStore sets the content store used in persist mode.
func WithStore(s core.ContentStore) Option {
	return func(c *Converter) { c.store = s }
}

// New builds a Converter for cfg.
func New(cfg config.Config, opts ...Option) (*Converter, error) {
	c := &Converter{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}

	c.norm = normalize.New(cfg.Boilerplate)
	c.final = finalize.New(c.norm, cfg.Images.CanonicalHost, cfg.Images.CanonicalBase)
	c.fixer = fixup.New(c.norm, cfg.Defect.Marker, c.log.Named("fixup"))
	c.segmenter = segment.New(segment.MarkersFrom(cfg.Markers), c.log.Named("segment"))
	mapper, err := mapgrid.New(cfg.MapContainerID, c.norm, c.final, c.log.Named("map"))
	if err != nil {
		return nil, err
	}
	c.mapper = mapper
	c.extractor = building.NewExtractor(c.log.Named("building"))
	c.merger = building.NewMerger(c.log.Named("building"))
	c.npcs = npc.NewExtractor(c.norm, c.final, cfg.EmptyPhrase, c.log.Named("npc"))
	return c, nil
}

// run is the state of one conversion.
type run struct {
	reg     *building.Registry
	session *npc.Session
	city    *core.City
	parts   []core.Part
}

// Convert converts document. With persist, every entity is written to the
// configured store as it is discovered and occupants render as reference
// tokens.
func (c *Converter) Convert(ctx context.Context, document string, persistMode bool) (*core.Result, error) {
	if strings.TrimSpace(document) == "" {
		return nil, fmt.Errorf("empty document: %w", core.ErrInvalidInput)
	}
	if !htmlTagRegex.MatchString(document) {
		return nil, fmt.Errorf("document is not HTML: %w", core.ErrInvalidInput)
	}
	var st core.ContentStore
	if persistMode {
		if c.store == nil {
			return nil, core.ErrNoStore
		}
		st = c.store
	}

	r := &run{
		reg:     building.NewRegistry(),
		session: npc.NewSession(st),
		city:    &core.City{},
	}

	fixed, err := c.fixer.Fix(c.norm.Clean(document))
	if err != nil {
		return nil, fmt.Errorf("correcting document: %w", err)
	}
	sections, err := c.segmenter.Split(fixed)
	if err != nil {
		return nil, fmt.Errorf("segmenting document: %w", err)
	}
	hasCitizens := false
	for _, s := range sections {
		if s.Section == core.SectionNPCs {
			hasCitizens = true
		}
	}

	for _, s := range sections {
		if err := c.section(r, s, hasCitizens); err != nil {
			return nil, err
		}
	}
	r.reg.Close()

	if err := c.buildings(ctx, r); err != nil {
		return nil, err
	}
	if hasCitizens {
		c.filterHouses(r)
	}

	if persistMode {
		if err := c.persistCity(ctx, st, r.city); err != nil {
			return nil, err
		}
	}

	c.log.Debug("conversion finished",
		zap.String("title", r.city.Title),
		zap.Int("buildings", len(r.city.Buildings)),
		zap.Int("npcs", len(r.city.NPCs)),
		zap.Int("unplaced", len(r.city.Unplaced)))
	return &core.Result{City: r.city, Parts: r.parts}, nil
}

// section converts one segmented section and appends its finalized part.
func (c *Converter) section(r *run, s core.Part, hasCitizens bool) error {
	out := s.HTML
	switch s.Section {
	case core.SectionMap:
		m, err := c.mapper.Render(s.HTML)
		if err != nil {
			return fmt.Errorf("rendering map: %w", err)
		}
		if m == nil {
			return nil
		}
		r.city.Map = m
		out = m.HTML
	case core.SectionTitle:
		title, err := text(s.HTML)
		if err != nil {
			return err
		}
		r.city.Title = title
	case core.SectionNPCs:
		out = c.extractor.Extract(s.HTML, core.CategoryHouse, r.reg)
	case core.SectionGuards, core.SectionChurches, core.SectionBanks, core.SectionMerchants, core.SectionGuilds:
		cat, _ := core.CategoryFor(s.Section)
		if !hasCitizens {
			out = c.extractor.Extract(s.HTML, cat, r.reg)
			break
		}
		var unplaced []string
		out, unplaced = c.merger.Merge(s.HTML, cat, r.reg)
		for _, u := range unplaced {
			fin, err := c.final.Finalize(u)
			if err != nil {
				return err
			}
			r.city.Unplaced = append(r.city.Unplaced, fin)
		}
	}

	fin, err := c.final.Finalize(out)
	if err != nil {
		return fmt.Errorf("finalizing %s: %w", s.Section, err)
	}
	if fin == "" {
		c.log.Debug("section rendered empty", zap.String("section", string(s.Section)))
		return nil
	}
	r.parts = append(r.parts, core.Part{Section: s.Section, HTML: fin})
	return nil
}

// buildings resolves the occupants of every registered building and wraps
// each in its modal.
func (c *Converter) buildings(ctx context.Context, r *run) error {
	var all strings.Builder
	for _, b := range r.reg.All() {
		content, err := c.npcs.Extract(ctx, r.session, b)
		if err != nil {
			return fmt.Errorf("extracting occupants of building %d: %w", b.ID, err)
		}
		if b.Content, err = c.final.Finalize(content); err != nil {
			return err
		}
		modal, err := c.final.Finalize(fmt.Sprintf(modalFormat, b.ID, b.Content))
		if err != nil {
			return err
		}
		all.WriteString(modal)
	}
	r.city.Buildings = r.reg.All()
	r.city.NPCs = r.session.Roster().All()

	fin, err := c.final.Finalize(all.String())
	if err != nil {
		return err
	}
	if fin != "" {
		r.parts = append(r.parts, core.Part{Section: core.SectionBuildings, HTML: fin})
	}
	return nil
}

// filterHouses drops citizen houses already linked from another section.
func (c *Converter) filterHouses(r *run) {
	idx := -1
	var others strings.Builder
	for i, p := range r.parts {
		switch p.Section {
		case core.SectionNPCs:
			idx = i
		case core.SectionMap:
		default:
			others.WriteString(p.HTML)
		}
	}
	if idx < 0 {
		return
	}
	kept := building.FilterEmptyHouses(r.parts[idx].HTML, c.norm.Clean(others.String()))
	if kept == "" {
		r.parts = append(r.parts[:idx], r.parts[idx+1:]...)
		return
	}
	r.parts[idx].HTML = kept
}

// persistCity stores the map and then the city page referencing it.
func (c *Converter) persistCity(ctx context.Context, st core.ContentStore, city *core.City) error {
	if city.Map != nil {
		id, err := persist.Map(ctx, st, city.Map, city.Title)
		if err != nil {
			return err
		}
		city.Map.StoreID = id
	}
	id, err := persist.City(ctx, st, city, c.cfg.Images.AssetBase)
	if err != nil {
		return err
	}
	city.ID = id
	return nil
}

// text returns the collapsed text content of a fragment.
func text(fragment string) (string, error) {
	doc, err := markup.Parse(fragment)
	if err != nil {
		return "", fmt.Errorf("parsing title: %w", err)
	}
	return strings.Join(strings.Fields(markup.Body(doc).Text()), " "), nil
}
