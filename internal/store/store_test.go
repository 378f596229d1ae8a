package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

// commitTestSnapshot stores a small snapshot:
//
//	/a.js declares ns.A, requires ns.B and ns.C
//	/b.js declares ns.B
//	/c.js declares ns.B (a second definer)
//	/t.js requires ns.A
func commitTestSnapshot(t *testing.T, s *Store) {
	t.Helper()
	b := NewBatch()
	a := b.AddFile("/a.js")
	b.AddProvide(a, "ns.A")
	b.AddRequire(a, "ns.B")
	b.AddRequire(a, "ns.C")
	bf := b.AddFile("/b.js")
	b.AddProvide(bf, "ns.B")
	cf := b.AddFile("/c.js")
	b.AddProvide(cf, "ns.B")
	tf := b.AddFile("/t.js")
	b.AddRequire(tf, "ns.A")
	require.NoError(t, s.CommitBatch(b))
}

func paths(files []*File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// =============================================================================
// Schema & Lifecycle
// =============================================================================

func TestMigrate_AllTablesExist(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, table := range []string{"files", "provides", "requires", "metadata"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestMigrate_WALMode(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	var mode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
}

func TestNewStore_InvalidPath(t *testing.T) {
	t.Parallel()
	_, err := NewStore("/nonexistent/dir/db.sqlite")
	require.Error(t, err)
}

// =============================================================================
// Snapshot queries
// =============================================================================

func TestCommitBatch_FilesInOrder(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	commitTestSnapshot(t, s)

	files, err := s.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.js", "/b.js", "/c.js", "/t.js"}, paths(files))
	for _, f := range files {
		assert.Positive(t, f.ID, "committed IDs should be real")
	}
}

func TestCommitBatch_ReplacesPreviousSnapshot(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	commitTestSnapshot(t, s)

	b := NewBatch()
	id := b.AddFile("/z.js")
	b.AddProvide(id, "ns.Z")
	require.NoError(t, s.CommitBatch(b))

	files, err := s.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"/z.js"}, paths(files))

	nFiles, nProvides, nRequires, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, nFiles)
	assert.Equal(t, 1, nProvides)
	assert.Equal(t, 0, nRequires)
}

func TestCommitBatch_UnknownFileID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	b := NewBatch()
	b.AddProvide(-42, "ns.Orphan")
	err := s.CommitBatch(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ns.Orphan")
}

func TestFileByPath(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	commitTestSnapshot(t, s)

	got, err := s.FileByPath("/b.js")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/b.js", got.Path)

	missing, err := s.FileByPath("/nonexistent.js")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProvidesAndRequiresByFile(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	commitTestSnapshot(t, s)

	a, err := s.FileByPath("/a.js")
	require.NoError(t, err)
	require.NotNil(t, a)

	provides, err := s.ProvidesByFile(a.ID)
	require.NoError(t, err)
	require.Len(t, provides, 1)
	assert.Equal(t, "ns.A", provides[0].Name)

	requires, err := s.RequiresByFile(a.ID)
	require.NoError(t, err)
	require.Len(t, requires, 2)
	assert.Equal(t, "ns.B", requires[0].Name)
	assert.Equal(t, "ns.C", requires[1].Name)
}

func TestDefiner_LastRegistrationWins(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	commitTestSnapshot(t, s)

	f, err := s.Definer("ns.B")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "/c.js", f.Path)

	none, err := s.Definer("ns.Missing")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDeclarers_AllDefiners(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	commitTestSnapshot(t, s)

	files, err := s.Declarers("ns.B")
	require.NoError(t, err)
	assert.Equal(t, []string{"/b.js", "/c.js"}, paths(files))
}

func TestRequirers(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	commitTestSnapshot(t, s)

	files, err := s.Requirers("ns.A")
	require.NoError(t, err)
	assert.Equal(t, []string{"/t.js"}, paths(files))

	none, err := s.Requirers("ns.Nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRequiresInOrder(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	// The require-only file registers its requirements before the
	// declaring file, although it was added to the batch second.
	b := NewBatch()
	a := b.AddFile("/a.js")
	b.AddProvide(a, "ns.A")
	tf := b.AddFile("/t.js")
	b.AddRequire(tf, "ns.A")
	b.AddRequire(a, "ns.B")
	require.NoError(t, s.CommitBatch(b))

	rows, err := s.RequiresInOrder()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "/t.js", rows[0].Path)
	assert.Equal(t, "ns.A", rows[0].Name)
	assert.Equal(t, "/a.js", rows[1].Path)
	assert.Equal(t, "ns.B", rows[1].Name)
	assert.Less(t, rows[0].Ordinal, rows[1].Ordinal)
}

// =============================================================================
// Metadata
// =============================================================================

func TestMetadata_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	got, err := s.GetMetadata("snapshot_hash")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.SetMetadata("snapshot_hash", "abc"))
	require.NoError(t, s.SetMetadata("snapshot_hash", "def"))

	got, err = s.GetMetadata("snapshot_hash")
	require.NoError(t, err)
	assert.Equal(t, "def", got)
}
