package building

import (
	"github.com/gaurav-prasanna/townpipe/core"
)

// closingRule terminates a building's content. The generator omits it after
// the very last building of the document.
const closingRule = "<hr/>"

// Registry holds the buildings of one conversion, keyed by source id, in
// registration order. It is not safe for concurrent use; each conversion owns
// its own Registry.
type Registry struct {
	order []int
	byID  map[int]*core.Building
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[int]*core.Building)}
}

// Register adds b. If its id is already registered the content is appended to
// the existing building instead, so an id is never registered twice. It
// returns the registered building and whether it was new.
func (r *Registry) Register(b *core.Building) (*core.Building, bool) {
	if existing, ok := r.byID[b.ID]; ok {
		existing.Content += b.Content
		return existing, false
	}
	r.byID[b.ID] = b
	r.order = append(r.order, b.ID)
	return b, true
}

// Get returns the building registered under id.
func (r *Registry) Get(id int) (*core.Building, bool) {
	b, ok := r.byID[id]
	return b, ok
}

// All returns every building in registration order.
func (r *Registry) All() []*core.Building {
	out := make([]*core.Building, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Last returns the most recently registered building, or nil.
func (r *Registry) Last() *core.Building {
	if len(r.order) == 0 {
		return nil
	}
	return r.byID[r.order[len(r.order)-1]]
}

// Close appends the closing rule to the last registered building. Call it
// once, after every section has been extracted.
func (r *Registry) Close() {
	if last := r.Last(); last != nil {
		last.Content += closingRule
	}
}
