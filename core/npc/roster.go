package npc

import (
	"github.com/gaurav-prasanna/townpipe/core"
)

// Roster is every NPC created during one conversion, in creation order.
type Roster struct {
	order []*core.NPC
	byID  map[string]*core.NPC
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{byID: make(map[string]*core.NPC)}
}

// RosterOf builds a Roster holding npcs in order.
func RosterOf(npcs []*core.NPC) *Roster {
	r := NewRoster()
	for _, n := range npcs {
		r.Add(n)
	}
	return r
}

// Add appends n. Its id must already be assigned.
func (r *Roster) Add(n *core.NPC) {
	r.order = append(r.order, n)
	r.byID[n.ID] = n
}

// Get returns the NPC with id, or nil.
func (r *Roster) Get(id string) *core.NPC {
	if id == "" {
		return nil
	}
	return r.byID[id]
}

// All returns every NPC in creation order.
func (r *Roster) All() []*core.NPC {
	return r.order
}
