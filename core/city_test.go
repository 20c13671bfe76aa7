package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func familyCity() *City {
	return &City{
		Buildings: []*Building{{ID: 3, Title: GenericTitle(3), NPCs: []string{"npc_a", "npc_b", "npc_c"}}},
		NPCs: []*NPC{
			{ID: "npc_a", Name: "Aldo", Spouse: "npc_b", Children: []string{"npc_c"}, Building: 3},
			{ID: "npc_b", Name: "Bella", Building: 3},
			{ID: "npc_c", Name: "Cid", Building: 3},
		},
	}
}

func TestReplaceID_UpdatesEveryReference(t *testing.T) {
	city := familyCity()

	require.NoError(t, city.ReplaceID("npc_b", "12"))
	require.NoError(t, city.ReplaceID("npc_c", "13"))

	owner := city.NPC("npc_a")
	require.NotNil(t, owner)
	assert.Equal(t, "12", owner.Spouse)
	assert.Equal(t, []string{"13"}, owner.Children)
	assert.Equal(t, []string{"npc_a", "12", "13"}, city.Buildings[0].NPCs)
	assert.True(t, city.NPC("12").Persisted)
	assert.Nil(t, city.NPC("npc_b"))
}

func TestReplaceID_UnknownID(t *testing.T) {
	city := familyCity()
	err := city.ReplaceID("npc_missing", "99")
	assert.ErrorIs(t, err, ErrIDNotReplaced)
}

func TestBuilding_DisplayTitle(t *testing.T) {
	generic := &Building{ID: 4, Title: GenericTitle(4)}
	named := &Building{ID: 7, Title: "The Anvil"}

	assert.True(t, generic.HasGenericTitle())
	assert.Equal(t, "Building 4", generic.DisplayTitle())
	assert.False(t, named.HasGenericTitle())
	assert.Equal(t, "The Anvil (Building 7)", named.DisplayTitle())
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		section Section
		want    Category
		ok      bool
	}{
		{SectionNPCs, CategoryHouse, true},
		{SectionGuards, CategoryGuard, true},
		{SectionGuilds, CategoryGuild, true},
		{SectionRuler, "", false},
		{SectionMap, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.section), func(t *testing.T) {
			got, ok := CategoryFor(tt.section)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResult_Part(t *testing.T) {
	res := &Result{Parts: []Part{{Section: SectionMap, HTML: "<div></div>"}}}
	html, ok := res.Part(SectionMap)
	assert.True(t, ok)
	assert.Equal(t, "<div></div>", html)
	_, ok = res.Part(SectionGuilds)
	assert.False(t, ok)
}
