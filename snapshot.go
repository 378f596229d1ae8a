package depscan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jward/depscan/internal/store"
)

// Metadata keys written with every snapshot.
const (
	MetaSnapshotHash = "snapshot_hash"
	MetaScannedAt    = "scanned_at"
	MetaRoots        = "roots"
)

// SnapshotInfo summarises a saved snapshot.
type SnapshotInfo struct {
	Hash     string
	Changed  bool // hash differs from the previous snapshot (or there was none)
	Files    int
	Provides int
	Requires int
}

// SaveSnapshot writes idx to the SQLite database at dbPath, replacing any
// snapshot already stored there. roots are recorded as metadata, one per
// line.
func SaveSnapshot(ctx context.Context, dbPath string, idx *Index, roots ...string) (*SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("depscan: open snapshot: %w", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return nil, fmt.Errorf("depscan: migrate snapshot: %w", err)
	}

	batch := store.NewBatch()
	for _, path := range idx.Files() {
		id := batch.AddFile(path)
		for _, name := range idx.Provides.Declared(path) {
			batch.AddProvide(id, name)
		}
	}
	// Requires take ordinals in requiring-file order so a reload can replay
	// the scan's order.
	for _, path := range idx.Requires.Files() {
		id := batch.AddFile(path)
		for _, name := range idx.Requires.Get(path) {
			batch.AddRequire(id, name)
		}
	}
	hash := store.ComputeSnapshotHash(batch)

	prev, err := s.GetMetadata(MetaSnapshotHash)
	if err != nil {
		return nil, fmt.Errorf("depscan: read snapshot hash: %w", err)
	}
	if err := s.CommitBatch(batch); err != nil {
		return nil, fmt.Errorf("depscan: write snapshot: %w", err)
	}
	if err := s.SetMetadata(MetaSnapshotHash, hash); err != nil {
		return nil, fmt.Errorf("depscan: write snapshot: %w", err)
	}
	if err := s.SetMetadata(MetaScannedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("depscan: write snapshot: %w", err)
	}
	if err := s.SetMetadata(MetaRoots, strings.Join(roots, "\n")); err != nil {
		return nil, fmt.Errorf("depscan: write snapshot: %w", err)
	}

	files, provides, requires, err := s.Counts()
	if err != nil {
		return nil, fmt.Errorf("depscan: count snapshot: %w", err)
	}
	return &SnapshotInfo{
		Hash:     hash,
		Changed:  prev != hash,
		Files:    files,
		Provides: provides,
		Requires: requires,
	}, nil
}

// LoadSnapshot rebuilds the Index stored at dbPath.
func LoadSnapshot(dbPath string) (*Index, error) {
	q, err := OpenQuery(dbPath)
	if err != nil {
		return nil, err
	}
	defer q.Close()
	return q.Index()
}
