// Package crawl: which links on an index page point at towns.
package crawl

import (
	"net/url"
	"path"
	"slices"
	"strings"
)

// townExtensions are the extensions a browser gives a saved generator page.
var townExtensions = []string{".html", ".htm"}

// IsTownLink reports whether link is a saved page on host. The path
// extension decides; query strings are ignored.
func IsTownLink(link *url.URL, host string) bool {
	if !strings.EqualFold(link.Host, host) {
		return false
	}
	return slices.Contains(townExtensions, strings.ToLower(path.Ext(link.Path)))
}

// Canonical returns the key two links to the same town share: no
// fragment, a lower-case host, and no trailing slash.
func Canonical(link *url.URL) string {
	c := *link
	c.Fragment = ""
	c.Host = strings.ToLower(c.Host)
	if c.Path != "/" {
		c.Path = strings.TrimSuffix(c.Path, "/")
	}
	return c.String()
}
