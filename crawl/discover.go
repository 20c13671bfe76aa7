// Package crawl discovers generator documents for --all mode.
// An index page (a directory listing or a game master's town list) links
// to saved Wizardawn pages; every same-host .html/.htm link is one town.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/townpipe/core"
	"go.uber.org/zap"
)

// maxDocuments bounds a single discovery run.
const maxDocuments = 500

// Discover returns the generator documents linked from the index page at
// indexURL, in link order and without duplicates. The index itself is not
// included.
func Discover(ctx context.Context, indexURL string, fetcher core.Fetcher, log *zap.Logger) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	base, err := url.Parse(indexURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid index URL %q: %w", indexURL, core.ErrInvalidInput)
	}

	result, err := fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetching index: %w", err)
	}
	links, err := townLinks(result.HTML, base)
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	batch := NewBatch()
	batch.Exclude(Canonical(base))
	for _, link := range links {
		if batch.Len() == maxDocuments {
			log.Warn("document limit reached", zap.Int("limit", maxDocuments))
			break
		}
		if IsTownLink(link, base.Host) {
			batch.Add(Canonical(link))
		}
	}

	towns := batch.Towns()
	log.Debug("documents discovered", zap.String("index", indexURL), zap.Int("count", len(towns)))
	return towns, nil
}

// townLinks returns the targets of every <a href> on the index, resolved
// against base. In-page anchors and non-navigational schemes are skipped.
func townLinks(html string, base *url.URL) ([]*url.URL, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var links []*url.URL
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		link := base.ResolveReference(ref)
		if link.Scheme != "http" && link.Scheme != "https" {
			return
		}
		links = append(links, link)
	})
	return links, nil
}
