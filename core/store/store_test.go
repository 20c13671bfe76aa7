package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is the surface both stores share beyond core.ContentStore.
type backend interface {
	core.ContentStore
	Get(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, kind core.Kind) ([]Post, error)
}

func backends(t *testing.T) map[string]backend {
	t.Helper()
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "town.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]backend{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStore_CreateAllocatesDistinctIDs(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a, err := s.Create(ctx, core.KindNPC, "Ulric", "a farmer")
			require.NoError(t, err)
			b, err := s.Create(ctx, core.KindBuilding, "Building 1", "<h1>Building 1</h1>")
			require.NoError(t, err)

			assert.NotEmpty(t, a)
			assert.NotEqual(t, a, b)

			p, err := s.Get(ctx, a)
			require.NoError(t, err)
			assert.Equal(t, Post{ID: a, Kind: core.KindNPC, Title: "Ulric", Body: "a farmer"}, *p)
		})
	}
}

func TestStore_MetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id, err := s.Create(ctx, core.KindNPC, "Mira", "")
			require.NoError(t, err)

			v, err := s.GetMetadata(ctx, id, "height")
			require.NoError(t, err)
			assert.Equal(t, "", v, "unset keys read as empty")

			require.NoError(t, s.SetMetadata(ctx, id, "height", "165"))
			require.NoError(t, s.SetMetadata(ctx, id, "height", "170"))
			v, err = s.GetMetadata(ctx, id, "height")
			require.NoError(t, err)
			assert.Equal(t, "170", v)
		})
	}
}

func TestStore_UnknownID(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "999")
			assert.ErrorIs(t, err, core.ErrNotFound)
			assert.ErrorIs(t, s.SetMetadata(ctx, "999", "k", "v"), core.ErrNotFound)
			_, err = s.GetMetadata(ctx, "999", "k")
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestStore_ListByKind(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			first, _ := s.Create(ctx, core.KindNPC, "a", "")
			_, _ = s.Create(ctx, core.KindMap, "map", "")
			second, _ := s.Create(ctx, core.KindNPC, "b", "")

			npcs, err := s.List(ctx, core.KindNPC)
			require.NoError(t, err)
			require.Len(t, npcs, 2)
			assert.Equal(t, first, npcs[0].ID)
			assert.Equal(t, second, npcs[1].ID)

			cities, err := s.List(ctx, core.KindCity)
			require.NoError(t, err)
			assert.Empty(t, cities)
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "town.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	id, err := s.Create(ctx, core.KindCity, "Oakvale", "[map-1]")
	require.NoError(t, err)
	require.NoError(t, s.SetMetadata(ctx, id, "k", "v"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.GetMetadata(ctx, id, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestOpen(t *testing.T) {
	s, closeFn, err := Open(config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	assert.NoError(t, closeFn())

	s, closeFn, err = Open(config.StoreConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.NoError(t, closeFn())

	_, _, err = Open(config.StoreConfig{Driver: "postgres"})
	assert.Error(t, err)
}
