// Package crawl: the towns found on one index page.
package crawl

import "slices"

// Batch lists the towns of one index in link order, each once.
type Batch struct {
	towns []string
	seen  map[string]struct{}
}

// NewBatch creates an empty Batch.
func NewBatch() *Batch {
	return &Batch{seen: make(map[string]struct{})}
}

// Exclude marks key as seen without listing it.
func (b *Batch) Exclude(key string) {
	b.seen[key] = struct{}{}
}

// Add lists key unless it was seen before and reports whether it was new.
func (b *Batch) Add(key string) bool {
	if _, ok := b.seen[key]; ok {
		return false
	}
	b.seen[key] = struct{}{}
	b.towns = append(b.towns, key)
	return true
}

// Len returns the number of listed towns.
func (b *Batch) Len() int {
	return len(b.towns)
}

// Towns returns the listed towns in link order.
func (b *Batch) Towns() []string {
	return slices.Clone(b.towns)
}
