package npc

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const ulric = `<font size="2">-<b>Ulric Banner:</b> [<b>HGT:</b>5ft, 8in <b>WGT:</b>160lbs] A stout man. ` +
	`<b>DRESSEDIN:</b> a tunic, and boots. <b>POSSESSIONS:</b> a dagger, and 5gp.</font>`

func TestParse(t *testing.T) {
	n := Parse(ulric, 4)

	assert.Equal(t, "Ulric Banner", n.Name)
	assert.Equal(t, 173, n.Height)
	assert.Equal(t, 73, n.Weight)
	assert.Equal(t, []string{"A tunic", "Boots"}, n.Clothing)
	assert.Equal(t, []string{"A dagger", "5gp"}, n.Possessions)
	assert.Equal(t, "A stout man.", n.Description)
	assert.Equal(t, 4, n.Building)
	assert.Empty(t, n.ID)
}

func TestParse_MissingTokens(t *testing.T) {
	n := Parse(`<font size="2">just some text</font>`, 1)

	assert.Empty(t, n.Name)
	assert.Zero(t, n.Height)
	assert.Zero(t, n.Weight)
	assert.Empty(t, n.Clothing)
	assert.Empty(t, n.Possessions)
	assert.Equal(t, `<font size="2">just some text`, n.Description)
}

func TestParse_UnparsedUnitsDefaultToZero(t *testing.T) {
	n := Parse(`[<b>HGT:</b>tall <b>WGT:</b>heavy]`, 1)
	assert.Zero(t, n.Height)
	assert.Zero(t, n.Weight)

	n = Parse(`[<b>HGT:</b>6ft <b>WGT:</b>?]`, 1)
	assert.Equal(t, HeightCM(6, 0), n.Height)
	assert.Zero(t, n.Weight)
}

func TestParse_ChildDashes(t *testing.T) {
	n := Parse(`<font size="2">---<b>Tam:</b> Small.</font>`, 2)
	assert.Equal(t, "Tam", n.Name)
	assert.Equal(t, "Small.", n.Description)
}

func TestHeightFromFeetAndInches(t *testing.T) {
	for feet := 0; feet <= 8; feet++ {
		for inches := 0; inches <= 11; inches++ {
			frag := fmt.Sprintf(`[<b>HGT:</b>%d ft, %d in <b>WGT:</b>0lbs]`, feet, inches)
			want := int(math.Round(float64(feet)*30.48 + float64(inches)*2.54))
			assert.Equal(t, want, Parse(frag, 0).Height, frag)
		}
	}
}

func TestWeightFromPounds(t *testing.T) {
	for pounds := 0; pounds <= 500; pounds += 7 {
		frag := fmt.Sprintf(`[<b>HGT:</b>5ft, 0in <b>WGT:</b>%d lbs]`, pounds)
		want := int(math.Round(float64(pounds) * 0.453592))
		assert.Equal(t, want, Parse(frag, 0).Weight, frag)
	}
}

func TestItems(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{" a cloak, a hat, and boots", []string{"A cloak", "A hat", "Boots"}},
		{"andiron", []string{"Andiron"}},
		{"ébène box", []string{"Ébène box"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, items(tt.in), tt.in)
	}
}
