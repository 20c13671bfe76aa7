package core

import "fmt"

// NPC returns the NPC with the given id, or nil.
func (c *City) NPC(id string) *NPC {
	for _, n := range c.NPCs {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Building returns the building with the given source id, or nil.
func (c *City) Building(id int) *Building {
	for _, b := range c.Buildings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// ReplaceID swaps a temporary NPC id for a persisted one everywhere it is
// referenced: the NPC itself, spouse and child links, and building occupant
// lists. It returns ErrIDNotReplaced when no NPC carries oldID.
func (c *City) ReplaceID(oldID, newID string) error {
	target := c.NPC(oldID)
	if target == nil {
		return fmt.Errorf("replacing %s with %s: %w", oldID, newID, ErrIDNotReplaced)
	}
	target.ID = newID
	target.Persisted = true

	for _, n := range c.NPCs {
		if n.Spouse == oldID {
			n.Spouse = newID
		}
		for i, child := range n.Children {
			if child == oldID {
				n.Children[i] = newID
			}
		}
	}
	for _, b := range c.Buildings {
		for i, id := range b.NPCs {
			if id == oldID {
				b.NPCs[i] = newID
			}
		}
	}
	return nil
}
