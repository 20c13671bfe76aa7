// Package persist writes converted entities through a core.ContentStore:
// NPC records with their metadata and family links, buildings, the map, and
// the city page that ties them together with store reference tokens.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/townpipe/core"
)

// Metadata keys written for every NPC.
const (
	KeyName           = "name"
	KeyHeight         = "height"
	KeyWeight         = "weight"
	KeyClothing       = "clothing"
	KeyPossessions    = "possessions"
	KeyBuilding       = "building"
	KeyProfession     = "profession"
	KeyProfessionInfo = "profession_info"
	KeyFamilyLinks    = "family_links"

	KeyBuildingID = "building_id"
	KeyCategory   = "category"
	KeyWidth      = "width"
)

// LinkType distinguishes family links.
type LinkType int

const (
	LinkSpouse LinkType = 0
	LinkChild  LinkType = 1
)

// FamilyLink is one entry of an NPC's family_links metadata.
type FamilyLink struct {
	LinkType LinkType `json:"link_type"`
	NPCID    string   `json:"npc_id"`
}

// NPC creates the record for n with body as its content, writes every field
// as metadata, and returns the allocated id. n is not modified.
func NPC(ctx context.Context, store core.ContentStore, n *core.NPC, body string) (string, error) {
	id, err := store.Create(ctx, core.KindNPC, n.Name, body)
	if err != nil {
		return "", fmt.Errorf("creating npc %q: %w", n.Name, err)
	}
	fields := []struct{ key, value string }{
		{KeyName, n.Name},
		{KeyHeight, strconv.Itoa(n.Height)},
		{KeyWeight, strconv.Itoa(n.Weight)},
		{KeyClothing, strings.Join(n.Clothing, ", ")},
		{KeyPossessions, strings.Join(n.Possessions, ", ")},
		{KeyBuilding, strconv.Itoa(n.Building)},
	}
	if n.Profession != "" {
		fields = append(fields, struct{ key, value string }{KeyProfession, n.Profession})
	}
	if n.ProfessionInfo != "" {
		fields = append(fields, struct{ key, value string }{KeyProfessionInfo, n.ProfessionInfo})
	}
	for _, f := range fields {
		if err := store.SetMetadata(ctx, id, f.key, f.value); err != nil {
			return "", fmt.Errorf("writing %s of npc %s: %w", f.key, id, err)
		}
	}
	return id, nil
}

// FamilyLinks reads the family links stored on npcID.
func FamilyLinks(ctx context.Context, store core.ContentStore, npcID string) ([]FamilyLink, error) {
	raw, err := store.GetMetadata(ctx, npcID, KeyFamilyLinks)
	if err != nil {
		return nil, fmt.Errorf("reading family links of %s: %w", npcID, err)
	}
	if raw == "" {
		return nil, nil
	}
	var links []FamilyLink
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, fmt.Errorf("decoding family links of %s: %w", npcID, err)
	}
	return links, nil
}

// AddFamilyLink appends a link to memberID onto ownerID's family links.
func AddFamilyLink(ctx context.Context, store core.ContentStore, ownerID string, t LinkType, memberID string) error {
	links, err := FamilyLinks(ctx, store, ownerID)
	if err != nil {
		return err
	}
	links = append(links, FamilyLink{LinkType: t, NPCID: memberID})
	raw, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("encoding family links of %s: %w", ownerID, err)
	}
	if err := store.SetMetadata(ctx, ownerID, KeyFamilyLinks, string(raw)); err != nil {
		return fmt.Errorf("writing family links of %s: %w", ownerID, err)
	}
	return nil
}

// Building creates the record for b with body as its content and returns
// the allocated id.
func Building(ctx context.Context, store core.ContentStore, b *core.Building, body string) (string, error) {
	id, err := store.Create(ctx, core.KindBuilding, b.DisplayTitle(), body)
	if err != nil {
		return "", fmt.Errorf("creating building %d: %w", b.ID, err)
	}
	if err := store.SetMetadata(ctx, id, KeyBuildingID, strconv.Itoa(b.ID)); err != nil {
		return "", fmt.Errorf("writing building id of %s: %w", id, err)
	}
	if err := store.SetMetadata(ctx, id, KeyCategory, string(b.Category)); err != nil {
		return "", fmt.Errorf("writing category of %s: %w", id, err)
	}
	return id, nil
}

// Map creates the record for the map of a city titled title.
func Map(ctx context.Context, store core.ContentStore, m *core.Map, title string) (string, error) {
	id, err := store.Create(ctx, core.KindMap, title, m.HTML)
	if err != nil {
		return "", fmt.Errorf("creating map: %w", err)
	}
	if err := store.SetMetadata(ctx, id, KeyWidth, strconv.Itoa(m.Width)); err != nil {
		return "", fmt.Errorf("writing width of map %s: %w", id, err)
	}
	return id, nil
}

// City creates the city record. Its buildings and map must already be stored.
func City(ctx context.Context, store core.ContentStore, c *core.City, assetBase string) (string, error) {
	id, err := store.Create(ctx, core.KindCity, c.Title, CityBody(c, assetBase))
	if err != nil {
		return "", fmt.Errorf("creating city %q: %w", c.Title, err)
	}
	return id, nil
}

// headerImages names the category header image under <asset base>/images/.
var headerImages = map[core.Category]string{
	core.CategoryHouse:    "houses",
	core.CategoryGuard:    "guardhouses",
	core.CategoryChurch:   "churches",
	core.CategoryBank:     "banks",
	core.CategoryMerchant: "merchants",
	core.CategoryGuild:    "guilds",
}

// HeaderImage returns the URL of a category's header image.
func HeaderImage(assetBase string, c core.Category) string {
	return strings.TrimSuffix(assetBase, "/") + "/images/" + headerImages[c] + ".jpg"
}

// CityBody renders the city page: the map reference followed by one
// collapsible list per category of building link tokens. Categories without
// stored buildings are left out.
func CityBody(c *core.City, assetBase string) string {
	var b strings.Builder
	if c.Map != nil && c.Map.StoreID != "" {
		fmt.Fprintf(&b, "[map-%s]", c.Map.StoreID)
	}
	b.WriteString(`<ul class="collapsible" data-collapsible="expandable">`)
	for _, cat := range core.Categories {
		var tokens strings.Builder
		for _, bld := range c.Buildings {
			if bld.Category == cat && bld.StoreID != "" {
				fmt.Fprintf(&tokens, "[building-link-%s]", bld.StoreID)
			}
		}
		if tokens.Len() == 0 {
			continue
		}
		b.WriteString(`<li><div class="collapsible-header" style="line-height: initial; margin-top: 10px;">`)
		fmt.Fprintf(&b, `<img src="%s"/>`, HeaderImage(assetBase, cat))
		b.WriteString(`</div><div class="collapsible-body">`)
		b.WriteString(tokens.String())
		b.WriteString(`</div></li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}
