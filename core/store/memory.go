// Package store provides core.ContentStore backends: an in-memory store for
// dry runs and tests, and a SQLite store for durable output.
package store

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/gaurav-prasanna/townpipe/core"
)

// Post is one stored entity.
type Post struct {
	ID    string    `db:"id"`
	Kind  core.Kind `db:"kind"`
	Title string    `db:"title"`
	Body  string    `db:"body"`
}

// Ensure MemoryStore implements the interface.
var _ core.ContentStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory implementation of core.ContentStore. Ids are
// allocated sequentially from 1.
type MemoryStore struct {
	mu    sync.RWMutex
	next  int
	posts map[string]Post
	meta  map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts: make(map[string]Post),
		meta:  make(map[string]map[string]string),
	}
}

// Create stores a new entity and returns its id.
func (s *MemoryStore) Create(_ context.Context, kind core.Kind, title, body string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := strconv.Itoa(s.next)
	s.posts[id] = Post{ID: id, Kind: kind, Title: title, Body: body}
	return id, nil
}

// SetMetadata sets key on an existing entity.
func (s *MemoryStore) SetMetadata(_ context.Context, id, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return core.ErrNotFound
	}
	m, ok := s.meta[id]
	if !ok {
		m = make(map[string]string)
		s.meta[id] = m
	}
	m[key] = value
	return nil
}

// GetMetadata returns the value of key, or "" when it was never set.
func (s *MemoryStore) GetMetadata(_ context.Context, id, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.posts[id]; !ok {
		return "", core.ErrNotFound
	}
	return s.meta[id][key], nil
}

// Get retrieves an entity by id.
func (s *MemoryStore) Get(_ context.Context, id string) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &p, nil
}

// List returns every entity of kind in creation order.
func (s *MemoryStore) List(_ context.Context, kind core.Kind) ([]Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Post, 0)
	for _, p := range s.posts {
		if p.Kind == kind {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, _ := strconv.Atoi(result[i].ID)
		b, _ := strconv.Atoi(result[j].ID)
		return a < b
	})
	return result, nil
}
