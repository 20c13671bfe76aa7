// Package core defines the entity model and pipeline interfaces for townpipe.
// Every stage of the converter works on the value types declared here; all
// platform I/O (fetching, storage, rendering) sits behind the interfaces.
package core

import (
	"context"
	"fmt"
)

// Section names one contiguous region of a generator document.
type Section string

// Sections of a Wizardawn settlement document, in generator order.
// SectionBuildings is synthesized by the converter and holds every modal.
const (
	SectionMap       Section = "map"
	SectionTitle     Section = "title"
	SectionNPCs      Section = "npcs"
	SectionRuler     Section = "ruler"
	SectionGuards    Section = "guards"
	SectionChurches  Section = "churches"
	SectionBanks     Section = "banks"
	SectionMerchants Section = "merchants"
	SectionGuilds    Section = "guilds"
	SectionBuildings Section = "buildings"
)

// Category is the kind of building, derived from the section that contributed it.
type Category string

const (
	CategoryHouse    Category = "house"
	CategoryGuard    Category = "guard"
	CategoryChurch   Category = "church"
	CategoryBank     Category = "bank"
	CategoryMerchant Category = "merchant"
	CategoryGuild    Category = "guild"
)

// Categories lists every building category in listing order.
var Categories = []Category{
	CategoryHouse, CategoryGuard, CategoryChurch,
	CategoryBank, CategoryMerchant, CategoryGuild,
}

// CategoryFor maps a building section to its category.
// ok is false for sections that never describe buildings (map, title, ruler).
func CategoryFor(s Section) (Category, bool) {
	switch s {
	case SectionNPCs:
		return CategoryHouse, true
	case SectionGuards:
		return CategoryGuard, true
	case SectionChurches:
		return CategoryChurch, true
	case SectionBanks:
		return CategoryBank, true
	case SectionMerchants:
		return CategoryMerchant, true
	case SectionGuilds:
		return CategoryGuild, true
	default:
		return "", false
	}
}

// Kind is the entity kind passed to a ContentStore.
type Kind string

const (
	KindNPC      Kind = "npc"
	KindBuilding Kind = "building"
	KindMap      Kind = "map"
	KindCity     Kind = "city"
)

// City is the root aggregate produced by one conversion.
type City struct {
	ID        string      `json:"id,omitempty"`
	Title     string      `json:"title"`
	Map       *Map        `json:"map,omitempty"`
	Buildings []*Building `json:"buildings"`
	NPCs      []*NPC      `json:"npcs"`
	// Unplaced holds occupants whose building could not be resolved.
	Unplaced []string `json:"unplaced,omitempty"`
}

// Map is the rendered settlement grid.
type Map struct {
	StoreID string `json:"store_id,omitempty"`
	Width   int    `json:"width"`
	Cells   []Cell `json:"cells"`
	HTML    string `json:"html"`
}

// Cell is one map tile. BuildingID is 0 for blank tiles.
type Cell struct {
	BuildingID int    `json:"building_id,omitempty"`
	HTML       string `json:"html"`
}

// Building is one structure of the settlement and the HTML describing its occupants.
type Building struct {
	ID       int      `json:"id"`
	StoreID  string   `json:"store_id,omitempty"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Content  string   `json:"content"`
	NPCs     []string `json:"npcs,omitempty"`
}

// GenericTitle is the placeholder title of a building without a proper name.
func GenericTitle(id int) string {
	return fmt.Sprintf("Building %d", id)
}

// HasGenericTitle reports whether the building still carries its placeholder title.
func (b *Building) HasGenericTitle() bool {
	return b.Title == GenericTitle(b.ID)
}

// DisplayTitle returns "Name (Building N)" for named buildings and "Building N" otherwise.
func (b *Building) DisplayTitle() string {
	if b.HasGenericTitle() || b.Title == "" {
		return GenericTitle(b.ID)
	}
	return fmt.Sprintf("%s (Building %d)", b.Title, b.ID)
}

// NPC is one inhabitant. Spouse and Children hold NPC ids.
type NPC struct {
	ID             string   `json:"id"`
	Persisted      bool     `json:"persisted,omitempty"`
	Name           string   `json:"name"`
	Height         int      `json:"height"` // cm
	Weight         int      `json:"weight"` // kg
	Clothing       []string `json:"clothing"`
	Possessions    []string `json:"possessions"`
	Description    string   `json:"description"`
	Profession     string   `json:"profession,omitempty"`
	ProfessionInfo string   `json:"profession_info,omitempty"`
	Spouse         string   `json:"spouse,omitempty"`
	Children       []string `json:"children,omitempty"`
	Building       int      `json:"building"`
}

// Part is one flat-HTML fragment of the converted document.
type Part struct {
	Section Section `json:"section"`
	HTML    string  `json:"html"`
}

// Result is the outcome of a conversion: the entity graph plus the
// flat-HTML rendering of every section, in document order.
type Result struct {
	City  *City  `json:"city"`
	Parts []Part `json:"parts"`
}

// Part returns the HTML of the named section and whether it exists.
func (r *Result) Part(s Section) (string, bool) {
	for _, p := range r.Parts {
		if p.Section == s {
			return p.HTML, true
		}
	}
	return "", false
}

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	HTML        string
}

// Fetcher retrieves a generator document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// ContentStore is the persistence collaborator used in persist mode.
// Create must allocate and return the id synchronously.
type ContentStore interface {
	Create(ctx context.Context, kind Kind, title, body string) (string, error)
	SetMetadata(ctx context.Context, id, key, value string) error
	// GetMetadata returns "" for a key that was never set.
	GetMetadata(ctx context.Context, id, key string) (string, error)
}

// Renderer converts a conversion result into a final output format.
type Renderer interface {
	Render(res *Result) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
