package store

import (
	"crypto/sha256"
	"fmt"
)

// ComputeSnapshotHash computes a deterministic hash of a batch's
// manifest-relevant content: files in order, and each file's provides and
// requires in ordinal order. Fake IDs do not affect the hash.
func ComputeSnapshotHash(batch *Batch) string {
	batch.mu.Lock()
	defer batch.mu.Unlock()

	provides := make(map[int64][]string, len(batch.Files))
	for _, p := range batch.Provides {
		provides[p.FileID] = append(provides[p.FileID], p.Name)
	}
	requires := make(map[int64][]string, len(batch.Files))
	for _, r := range batch.Requires {
		requires[r.FileID] = append(requires[r.FileID], r.Name)
	}

	h := sha256.New()
	for _, f := range batch.Files {
		fmt.Fprintf(h, "file:%s\n", f.Path)
		for _, name := range provides[f.ID] {
			fmt.Fprintf(h, "provide:%s\n", name)
		}
		for _, name := range requires[f.ID] {
			fmt.Fprintf(h, "require:%s\n", name)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
