package depscan

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveFixtureSnapshot scans testdata/app and saves it to a temp database.
func saveFixtureSnapshot(t *testing.T) (string, *Index) {
	t.Helper()
	app := fixturePath(t, "app")
	idx, err := New().Scan(context.Background(), app)
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "deps.db")
	_, err = SaveSnapshot(context.Background(), dbPath, idx, app)
	require.NoError(t, err)
	return dbPath, idx
}

func TestSaveSnapshot_Info(t *testing.T) {
	t.Parallel()

	app := fixturePath(t, "app")
	idx, err := New().Scan(context.Background(), app)
	require.NoError(t, err)
	dbPath := filepath.Join(t.TempDir(), "deps.db")

	info, err := SaveSnapshot(context.Background(), dbPath, idx, app)
	require.NoError(t, err)
	assert.True(t, info.Changed)
	assert.NotEmpty(t, info.Hash)
	assert.Equal(t, 3, info.Files)
	assert.Equal(t, 3, info.Provides)
	assert.Equal(t, 6, info.Requires)

	again, err := SaveSnapshot(context.Background(), dbPath, idx, app)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Equal(t, info.Hash, again.Hash)
}

func TestSaveSnapshot_ChangedContent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "deps.db")
	ctx := context.Background()

	first := NewIndex()
	first.Provides.Set("ns.A", "/a.js")
	info, err := SaveSnapshot(ctx, dbPath, first)
	require.NoError(t, err)

	second := NewIndex()
	second.Provides.Set("ns.A", "/a.js")
	second.Requires.Set("/a.js", "ns.B")
	changed, err := SaveSnapshot(ctx, dbPath, second)
	require.NoError(t, err)
	assert.True(t, changed.Changed)
	assert.NotEqual(t, info.Hash, changed.Hash)
}

func TestSaveSnapshot_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SaveSnapshot(ctx, filepath.Join(t.TempDir(), "deps.db"), NewIndex())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadSnapshot_RoundTripsManifest(t *testing.T) {
	t.Parallel()

	dbPath, idx := saveFixtureSnapshot(t)
	loaded, err := LoadSnapshot(dbPath)
	require.NoError(t, err)

	app := fixturePath(t, "app")
	want, err := GenerateManifest(idx, app, DefaultManifestOptions())
	require.NoError(t, err)
	got, err := GenerateManifest(loaded, app, DefaultManifestOptions())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpenQuery_Missing(t *testing.T) {
	t.Parallel()

	_, err := OpenQuery(filepath.Join(t.TempDir(), "none.db"))
	assert.ErrorIs(t, err, ErrNoSnapshot)
	_, err = LoadSnapshot(filepath.Join(t.TempDir(), "none.db"))
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestLoadSnapshot_PreservesRequireOrder(t *testing.T) {
	t.Parallel()

	// Scan order: a require-only file first, then declaring files.
	idx := NewIndex()
	Directives{Requires: []string{"ns.C", "ns.A"}}.apply("/app/main.js", idx)
	Directives{Provides: []string{"ns.A"}, Requires: []string{"ns.B"}}.apply("/app/a.js", idx)
	Directives{Provides: []string{"ns.B"}}.apply("/app/b.js", idx)
	require.Equal(t, []string{"ns.C", "ns.A", "ns.B"}, idx.Requires.All())

	dbPath := filepath.Join(t.TempDir(), "deps.db")
	_, err := SaveSnapshot(context.Background(), dbPath, idx)
	require.NoError(t, err)

	loaded, err := LoadSnapshot(dbPath)
	require.NoError(t, err)
	assert.Equal(t, idx.Files(), loaded.Files())
	assert.Equal(t, idx.Requires.Files(), loaded.Requires.Files())
	assert.Equal(t, idx.Requires.All(), loaded.Requires.All())
	assert.Equal(t, idx.Provides.Names(), loaded.Provides.Names())
	for _, f := range idx.Files() {
		assert.Equal(t, idx.Requires.Get(f), loaded.Requires.Get(f), f)
		assert.Equal(t, idx.Provides.Declared(f), loaded.Provides.Declared(f), f)
	}
}
