// Package render: JSON renderer.
// Emits the whole entity graph, the flat section parts, and a summary of
// building and occupant counts.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/townpipe/core"
)

// JSONRenderer produces the structured JSON output of a town.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type townJSON struct {
	City    *core.City  `json:"city"`
	Parts   []core.Part `json:"parts"`
	Summary summary     `json:"summary"`
}

type summary struct {
	Buildings  int                   `json:"buildings"`
	ByCategory map[core.Category]int `json:"by_category"`
	NPCs       int                   `json:"npcs"`
	Families   int                   `json:"families"`
	Unplaced   int                   `json:"unplaced"`
}

// Render marshals res with two-space indentation.
func (r *JSONRenderer) Render(res *core.Result) ([]byte, error) {
	if res == nil || res.City == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	data, err := json.MarshalIndent(townJSON{
		City:    res.City,
		Parts:   res.Parts,
		Summary: summarize(res.City),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

func summarize(c *core.City) summary {
	s := summary{
		Buildings:  len(c.Buildings),
		ByCategory: make(map[core.Category]int),
		NPCs:       len(c.NPCs),
		Unplaced:   len(c.Unplaced),
	}
	for _, b := range c.Buildings {
		s.ByCategory[b.Category]++
	}
	for _, n := range c.NPCs {
		if n.Spouse != "" || len(n.Children) > 0 {
			s.Families++
		}
	}
	return s
}
