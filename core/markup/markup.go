// Package markup holds the goquery / x/net/html helpers shared by every DOM
// stage of the converter: parsing a fragment into a document, walking the
// top-level body nodes, and rendering nodes back to HTML text.
package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse parses an HTML document or fragment. Fragments are wrapped in
// html/head/body by the HTML5 parser.
func Parse(s string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// Body returns the document's body element.
func Body(doc *goquery.Document) *goquery.Selection {
	return doc.Find("body").First()
}

// TopLevel returns the direct children of <body>, text nodes included.
func TopLevel(doc *goquery.Document) []*html.Node {
	body := Body(doc)
	if body.Length() == 0 {
		return nil
	}
	var nodes []*html.Node
	for c := body.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, c)
	}
	return nodes
}

// Render serializes a single node (element, text, or comment).
func Render(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	// Rendering into a strings.Builder cannot fail on write; html.Render only
	// reports writer errors.
	_ = html.Render(&b, n)
	return b.String()
}

// Document serializes the whole document, html/head/body included.
func Document(doc *goquery.Document) string {
	var b strings.Builder
	for _, n := range doc.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			_ = html.Render(&b, c)
		}
	}
	return b.String()
}

// InnerBody serializes the children of <body>.
func InnerBody(doc *goquery.Document) (string, error) {
	body := Body(doc)
	if body.Length() == 0 {
		return "", nil
	}
	out, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("serializing body: %w", err)
	}
	return out, nil
}

// ContainsElement reports whether n is, or contains, an element named tag.
func ContainsElement(n *html.Node, tag string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	sel := goquery.NewDocumentFromNode(n).Selection
	return sel.Is(tag) || sel.Find(tag).Length() > 0
}
