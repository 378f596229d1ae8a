package depscan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jward/depscan/internal/store"
)

// QueryBuilder answers dependency questions against a saved snapshot.
type QueryBuilder struct {
	store *store.Store
}

// OpenQuery opens the snapshot at dbPath. It returns ErrNoSnapshot if the
// database file does not exist.
func OpenQuery(dbPath string) (*QueryBuilder, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, dbPath)
		}
		return nil, fmt.Errorf("depscan: stat snapshot: %w", err)
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("depscan: open snapshot: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("depscan: migrate snapshot: %w", err)
	}
	return &QueryBuilder{store: s}, nil
}

// Close releases the snapshot database.
func (q *QueryBuilder) Close() error {
	return q.store.Close()
}

// Definer returns the file that last declared name.
func (q *QueryBuilder) Definer(name string) (string, bool, error) {
	f, err := q.store.Definer(name)
	if err != nil {
		return "", false, fmt.Errorf("definer: %w", err)
	}
	if f == nil {
		return "", false, nil
	}
	return f.Path, true, nil
}

// Declarers returns every file that declared name, including those the
// forward lookup shadows.
func (q *QueryBuilder) Declarers(name string) ([]string, error) {
	files, err := q.store.Declarers(name)
	if err != nil {
		return nil, fmt.Errorf("declarers: %w", err)
	}
	return filePaths(files), nil
}

// Requirers returns every file that requires name.
func (q *QueryBuilder) Requirers(name string) ([]string, error) {
	files, err := q.store.Requirers(name)
	if err != nil {
		return nil, fmt.Errorf("requirers: %w", err)
	}
	return filePaths(files), nil
}

// Files returns every file in the snapshot in manifest order.
func (q *QueryBuilder) Files() ([]string, error) {
	files, err := q.store.Files()
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	return filePaths(files), nil
}

// FileRecord returns the stored record for path, or nil if the snapshot
// does not contain it.
func (q *QueryBuilder) FileRecord(path string) (*Record, error) {
	f, err := q.store.FileByPath(path)
	if err != nil {
		return nil, fmt.Errorf("file record: %w", err)
	}
	if f == nil {
		return nil, nil
	}
	return q.record(f)
}

func (q *QueryBuilder) record(f *store.File) (*Record, error) {
	provides, err := q.store.ProvidesByFile(f.ID)
	if err != nil {
		return nil, fmt.Errorf("file record: %w", err)
	}
	requires, err := q.store.RequiresByFile(f.ID)
	if err != nil {
		return nil, fmt.Errorf("file record: %w", err)
	}
	r := &Record{Path: f.Path}
	for _, p := range provides {
		r.Provides = append(r.Provides, p.Name)
	}
	for _, req := range requires {
		r.Requires = append(r.Requires, req.Name)
	}
	return r, nil
}

// Index rebuilds the full Index from the snapshot. Declarations and
// requirements are replayed in registration order, so the result matches
// the scan that was saved.
func (q *QueryBuilder) Index() (*Index, error) {
	files, err := q.store.Files()
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	idx := NewIndex()
	for _, f := range files {
		provides, err := q.store.ProvidesByFile(f.ID)
		if err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}
		for _, p := range provides {
			idx.Provides.Set(p.Name, f.Path)
		}
	}
	requires, err := q.store.RequiresInOrder()
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	for _, r := range requires {
		idx.Requires.Set(r.Path, r.Name)
	}
	return idx, nil
}

// Metadata returns a snapshot metadata value such as MetaSnapshotHash.
func (q *QueryBuilder) Metadata(key string) (string, error) {
	return q.store.GetMetadata(key)
}

func filePaths(files []*store.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
