// Package publish stores a city that was converted in display mode. Each
// NPC is written first and its temporary id swapped for the store id
// throughout the city; buildings, the map, and the city page follow.
package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/finalize"
	"github.com/gaurav-prasanna/townpipe/core/persist"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// KeyNPCs lists the store ids of a building's occupants.
const KeyNPCs = "npcs"

// Publisher writes converted cities to a content store.
type Publisher struct {
	final     *finalize.Finalizer
	assetBase string
	log       *zap.Logger
}

// New creates a Publisher. assetBase locates the category header images of
// the city page.
func New(final *finalize.Finalizer, assetBase string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{final: final, assetBase: assetBase, log: log}
}

// Publish stores every entity of city that is not stored yet. A failure
// affects only its own entity; all failures are returned combined. The city
// page is written last, referencing whatever was stored.
func (p *Publisher) Publish(ctx context.Context, city *core.City, store core.ContentStore) error {
	var (
		errs      error
		published []*core.NPC
	)
	for _, n := range city.NPCs {
		if n.Persisted {
			continue
		}
		if err := p.publishNPC(ctx, city, store, n); err != nil {
			p.log.Warn("npc not published", zap.String("npc", n.Name), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		published = append(published, n)
	}
	for _, n := range published {
		errs = multierr.Append(errs, p.publishFamily(ctx, city, store, n))
	}

	for _, b := range city.Buildings {
		if b.StoreID != "" {
			continue
		}
		if err := p.publishBuilding(ctx, store, b); err != nil {
			p.log.Warn("building not published", zap.Int("building", b.ID), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}

	if city.Map != nil && city.Map.StoreID == "" {
		id, err := persist.Map(ctx, store, city.Map, city.Title)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			city.Map.StoreID = id
		}
	}

	if city.ID == "" {
		id, err := persist.City(ctx, store, city, p.assetBase)
		if err != nil {
			return multierr.Append(errs, err)
		}
		city.ID = id
	}
	return errs
}

func (p *Publisher) publishNPC(ctx context.Context, city *core.City, store core.ContentStore, n *core.NPC) error {
	body, err := p.final.Finalize(n.Description)
	if err != nil {
		return fmt.Errorf("finalizing npc %q: %w", n.Name, err)
	}
	oldID := n.ID
	id, err := persist.NPC(ctx, store, n, body)
	if err != nil {
		return err
	}
	if err := city.ReplaceID(oldID, id); err != nil {
		return err
	}
	p.log.Debug("npc published", zap.String("from", oldID), zap.String("to", id))
	return nil
}

// publishFamily writes the family links of a freshly stored owner. Links to
// members that failed to publish still carry temporary ids and are skipped.
func (p *Publisher) publishFamily(ctx context.Context, city *core.City, store core.ContentStore, n *core.NPC) error {
	var errs error
	add := func(t persist.LinkType, id string) {
		member := city.NPC(id)
		if member == nil || !member.Persisted {
			return
		}
		errs = multierr.Append(errs, persist.AddFamilyLink(ctx, store, n.ID, t, member.ID))
	}
	if n.Spouse != "" {
		add(persist.LinkSpouse, n.Spouse)
	}
	for _, c := range n.Children {
		add(persist.LinkChild, c)
	}
	return errs
}

func (p *Publisher) publishBuilding(ctx context.Context, store core.ContentStore, b *core.Building) error {
	body, err := p.final.Finalize(b.Content)
	if err != nil {
		return fmt.Errorf("finalizing building %d: %w", b.ID, err)
	}
	id, err := persist.Building(ctx, store, b, body)
	if err != nil {
		return err
	}
	b.StoreID = id
	if len(b.NPCs) == 0 {
		return nil
	}
	if err := store.SetMetadata(ctx, id, KeyNPCs, strings.Join(b.NPCs, ", ")); err != nil {
		return fmt.Errorf("writing occupants of building %s: %w", id, err)
	}
	return nil
}
