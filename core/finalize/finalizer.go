// Package finalize is the normalization pass re-applied after every
// structural transform: relative image paths become absolute generator URLs,
// presentational <font> tags become <span>, and whitespace is re-collapsed.
package finalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/townpipe/core/markup"
	"github.com/gaurav-prasanna/townpipe/core/normalize"
	"golang.org/x/net/html/atom"
)

var (
	imgSelector  = cascadia.MustCompile("img[src]")
	fontSelector = cascadia.MustCompile("font")
)

// Finalizer rewrites a rendered fragment into its publishable form.
type Finalizer struct {
	norm          *normalize.Normalizer
	canonicalHost string
	canonicalBase string
}

// New creates a Finalizer. Images whose src lacks canonicalHost are rebased
// onto canonicalBase.
func New(norm *normalize.Normalizer, canonicalHost, canonicalBase string) *Finalizer {
	return &Finalizer{
		norm:          norm,
		canonicalHost: canonicalHost,
		canonicalBase: strings.TrimSuffix(canonicalBase, "/"),
	}
}

// Finalize normalizes part, rewrites its images and fonts, and normalizes again.
func (f *Finalizer) Finalize(part string) (string, error) {
	part = f.norm.Clean(part)
	if part == "" {
		return "", nil
	}
	doc, err := markup.Parse(part)
	if err != nil {
		return "", err
	}

	doc.FindMatcher(imgSelector).Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		img.SetAttr("src", f.RewriteImage(src))
	})

	for _, n := range doc.FindMatcher(fontSelector).Nodes {
		n.Data = "span"
		n.DataAtom = atom.Span
		n.Attr = nil
	}

	out, err := markup.InnerBody(doc)
	if err != nil {
		return "", err
	}
	return f.norm.Clean(out), nil
}

// RewriteImage replaces everything up to the last "/" of src with the
// canonical base. Sources already on the canonical host, or without any
// path separator, are returned unchanged.
func (f *Finalizer) RewriteImage(src string) string {
	if strings.Contains(src, f.canonicalHost) {
		return src
	}
	i := strings.LastIndex(src, "/")
	if i < 0 {
		return src
	}
	return f.canonicalBase + "/" + src[i+1:]
}
