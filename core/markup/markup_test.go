package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestTopLevel_IncludesTextNodes(t *testing.T) {
	doc, err := Parse(`<p>a</p> text <hr><font size="3">1</font>`)
	require.NoError(t, err)

	nodes := TopLevel(doc)
	require.Len(t, nodes, 4)
	assert.Equal(t, "<p>a</p>", Render(nodes[0]))
	assert.Equal(t, html.TextNode, nodes[1].Type)
	assert.Equal(t, "<hr/>", Render(nodes[2]))
	assert.Equal(t, `<font size="3">1</font>`, Render(nodes[3]))
}

func TestDocument_RoundTrip(t *testing.T) {
	doc, err := Parse(`<b>x</b>`)
	require.NoError(t, err)
	assert.Equal(t, "<html><head></head><body><b>x</b></body></html>", Document(doc))
}

func TestInnerBody(t *testing.T) {
	doc, err := Parse(`<div id="a">x</div><br>`)
	require.NoError(t, err)
	out, err := InnerBody(doc)
	require.NoError(t, err)
	assert.Equal(t, `<div id="a">x</div><br/>`, out)
}

func TestContainsElement(t *testing.T) {
	doc, err := Parse(`<div><span><hr></span></div><hr><p>x</p>`)
	require.NoError(t, err)
	nodes := TopLevel(doc)
	require.Len(t, nodes, 3)

	assert.True(t, ContainsElement(nodes[0], "hr"))
	assert.True(t, ContainsElement(nodes[1], "hr"))
	assert.False(t, ContainsElement(nodes[2], "hr"))
	assert.False(t, ContainsElement(nil, "hr"))
}
