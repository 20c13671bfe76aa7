package persist

import (
	"context"
	"testing"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNPC_WritesMetadata(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	n := &core.NPC{
		Name: "Ulric", Height: 173, Weight: 73,
		Clothing: []string{"Tunic", "Boots"}, Possessions: []string{"Dagger"},
		Building: 4, Profession: "Smith",
	}

	id, err := NPC(ctx, s, n, "<p>stout</p>")
	require.NoError(t, err)

	p, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.KindNPC, p.Kind)
	assert.Equal(t, "Ulric", p.Title)
	assert.Equal(t, "<p>stout</p>", p.Body)

	for key, want := range map[string]string{
		KeyName: "Ulric", KeyHeight: "173", KeyWeight: "73",
		KeyClothing: "Tunic, Boots", KeyPossessions: "Dagger",
		KeyBuilding: "4", KeyProfession: "Smith", KeyProfessionInfo: "",
	} {
		got, err := s.GetMetadata(ctx, id, key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}
}

func TestAddFamilyLink_Appends(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	owner, _ := s.Create(ctx, core.KindNPC, "Ulric", "")

	require.NoError(t, AddFamilyLink(ctx, s, owner, LinkSpouse, "7"))
	require.NoError(t, AddFamilyLink(ctx, s, owner, LinkChild, "8"))

	raw, err := s.GetMetadata(ctx, owner, KeyFamilyLinks)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"link_type":0,"npc_id":"7"},{"link_type":1,"npc_id":"8"}]`, raw)

	links, err := FamilyLinks(ctx, s, owner)
	require.NoError(t, err)
	assert.Equal(t, []FamilyLink{{LinkSpouse, "7"}, {LinkChild, "8"}}, links)
}

func TestAddFamilyLink_CorruptMetadata(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	owner, _ := s.Create(ctx, core.KindNPC, "Ulric", "")
	require.NoError(t, s.SetMetadata(ctx, owner, KeyFamilyLinks, "not json"))

	assert.Error(t, AddFamilyLink(ctx, s, owner, LinkChild, "8"))
}

func TestCityBody(t *testing.T) {
	c := &core.City{
		Title: "Oakvale",
		Map:   &core.Map{StoreID: "1"},
		Buildings: []*core.Building{
			{ID: 1, StoreID: "10", Category: core.CategoryHouse},
			{ID: 2, StoreID: "11", Category: core.CategoryGuild},
			{ID: 3, StoreID: "12", Category: core.CategoryHouse},
			{ID: 4, Category: core.CategoryBank},
		},
	}

	want := `[map-1]<ul class="collapsible" data-collapsible="expandable">` +
		`<li><div class="collapsible-header" style="line-height: initial; margin-top: 10px;">` +
		`<img src="assets/images/houses.jpg"/></div><div class="collapsible-body">` +
		`[building-link-10][building-link-12]</div></li>` +
		`<li><div class="collapsible-header" style="line-height: initial; margin-top: 10px;">` +
		`<img src="assets/images/guilds.jpg"/></div><div class="collapsible-body">` +
		`[building-link-11]</div></li></ul>`
	assert.Equal(t, want, CityBody(c, "assets/"))
}

func TestCityBody_NoMap(t *testing.T) {
	body := CityBody(&core.City{Title: "Empty"}, "assets")
	assert.Equal(t, `<ul class="collapsible" data-collapsible="expandable"></ul>`, body)
}

func TestBuildingMapCity(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	b := &core.Building{ID: 7, Title: "The Anvil", Category: core.CategoryMerchant}
	bid, err := Building(ctx, s, b, "<h1>The Anvil (Building 7)</h1>")
	require.NoError(t, err)
	p, _ := s.Get(ctx, bid)
	assert.Equal(t, "The Anvil (Building 7)", p.Title)
	cat, _ := s.GetMetadata(ctx, bid, KeyCategory)
	assert.Equal(t, "merchant", cat)

	m := &core.Map{Width: 695, HTML: "<div></div>"}
	mid, err := Map(ctx, s, m, "Oakvale")
	require.NoError(t, err)
	width, _ := s.GetMetadata(ctx, mid, KeyWidth)
	assert.Equal(t, "695", width)

	m.StoreID, b.StoreID = mid, bid
	cid, err := City(ctx, s, &core.City{Title: "Oakvale", Map: m, Buildings: []*core.Building{b}}, "assets")
	require.NoError(t, err)
	p, _ = s.Get(ctx, cid)
	assert.Equal(t, core.KindCity, p.Kind)
	assert.Contains(t, p.Body, "[map-"+mid+"]")
	assert.Contains(t, p.Body, "[building-link-"+bid+"]")
}
