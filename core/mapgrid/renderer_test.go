package mapgrid

import (
	"testing"

	"github.com/gaurav-prasanna/townpipe/core/finalize"
	"github.com/gaurav-prasanna/townpipe/core/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "http://wizardawn.and-mag.com/maps"

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	norm := normalize.New([]string{"<html>", "</html>", "<body>", "</body>"})
	r, err := New("myMap", norm, finalize.New(norm, "wizardawn.and-mag.com", base), nil)
	require.NoError(t, err)
	return r
}

const mapSection = `<div id="myMap" style="position:relative; width: 600px; height: 40px;">
  <div style="position:absolute;top:0px; left:0px; z-index:1;"><img src="./town_files/grass.gif"></div>
  <div style="position:absolute;top:0px; left:20px; z-index:1;"><div style="color: #FF0000;">3</div></div>
</div>`

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 695, DisplayWidth(600))
	assert.Equal(t, 95, DisplayWidth(0))
}

func TestRender_Grid(t *testing.T) {
	m, err := newRenderer(t).Render(mapSection)
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, 695, m.Width)
	require.Len(t, m.Cells, 2)

	flow := `<div style="display: inline-block; position:relative; padding: 0;">`
	blank := flow + `<img src="` + base + `/grass.gif"/></div>`
	linked := flow + `<div style="color: #FF0000;"><a href="#modal_3">3</a></div></div>`

	assert.Equal(t, 0, m.Cells[0].BuildingID)
	assert.Equal(t, blank, m.Cells[0].HTML)
	assert.Equal(t, 3, m.Cells[1].BuildingID)
	assert.Equal(t, linked, m.Cells[1].HTML)

	assert.Equal(t, `<div style="overflow: auto;"><div style="width: 695px;">`+blank+linked+`</div></div>`, m.HTML)
}

func TestRender_NoContainer(t *testing.T) {
	m, err := newRenderer(t).Render(`<div id="other">x</div>`)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRender_NoWidth(t *testing.T) {
	m, err := newRenderer(t).Render(`<div id="myMap"><div>a</div></div>`)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 0, m.Width)
	assert.Equal(t, `<div style="overflow: auto;"><div><div>a</div></div></div>`, m.HTML)
}

func TestNew_InvalidContainerID(t *testing.T) {
	norm := normalize.New(nil)
	_, err := New("[", norm, finalize.New(norm, "h", "b"), nil)
	assert.Error(t, err)
}
