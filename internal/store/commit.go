package store

import (
	"database/sql"
	"fmt"
)

// CommitBatch replaces the stored snapshot with the contents of batch within
// a single transaction. Fake (negative) file IDs are remapped to real IDs
// and provide/require rows are rewritten using the mapping.
//
// Order:
//  1. Delete the previous snapshot (requires, provides, files)
//  2. Files
//  3. Provides (depend on file_id)
//  4. Requires (depend on file_id)
func (s *Store) CommitBatch(batch *Batch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM requires",
		"DELETE FROM provides",
		"DELETE FROM files",
	} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("commit batch: clear: %w", err)
		}
	}

	fakeToReal := make(map[int64]int64, len(batch.Files))

	for _, f := range batch.Files {
		realID, err := insertFileTx(tx, &f)
		if err != nil {
			return fmt.Errorf("commit batch: file %q: %w", f.Path, err)
		}
		fakeToReal[f.ID] = realID
	}

	for _, p := range batch.Provides {
		realID, ok := fakeToReal[p.FileID]
		if !ok {
			return fmt.Errorf("commit batch: provide %q has file_id=%d not in batch", p.Name, p.FileID)
		}
		if _, err := tx.Exec(
			"INSERT INTO provides (file_id, name, ordinal) VALUES (?, ?, ?)",
			realID, p.Name, p.Ordinal,
		); err != nil {
			return fmt.Errorf("commit batch: provide %q: %w", p.Name, err)
		}
	}

	for _, r := range batch.Requires {
		realID, ok := fakeToReal[r.FileID]
		if !ok {
			return fmt.Errorf("commit batch: require %q has file_id=%d not in batch", r.Name, r.FileID)
		}
		if _, err := tx.Exec(
			"INSERT INTO requires (file_id, name, ordinal) VALUES (?, ?, ?)",
			realID, r.Name, r.Ordinal,
		); err != nil {
			return fmt.Errorf("commit batch: require %q: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

func insertFileTx(tx *sql.Tx, f *File) (int64, error) {
	res, err := tx.Exec("INSERT INTO files (path) VALUES (?)", f.Path)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
