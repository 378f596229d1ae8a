package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

func (s *Store) FileByPath(path string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow("SELECT id, path FROM files WHERE path = ?", path).Scan(&f.ID, &f.Path)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// Files returns every file in the snapshot in insertion order.
func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query("SELECT id, path FROM files ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// --- Directive operations ---

// ProvidesByFile returns the declarations of a file in ordinal order.
func (s *Store) ProvidesByFile(fileID int64) ([]*Provide, error) {
	rows, err := s.db.Query(
		"SELECT id, file_id, name, ordinal FROM provides WHERE file_id = ? ORDER BY ordinal", fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("provides by file: %w", err)
	}
	defer rows.Close()
	var out []*Provide
	for rows.Next() {
		p := &Provide{}
		if err := rows.Scan(&p.ID, &p.FileID, &p.Name, &p.Ordinal); err != nil {
			return nil, fmt.Errorf("scan provide: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RequiresByFile returns the requirements of a file in ordinal order.
func (s *Store) RequiresByFile(fileID int64) ([]*Require, error) {
	rows, err := s.db.Query(
		"SELECT id, file_id, name, ordinal FROM requires WHERE file_id = ? ORDER BY ordinal", fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("requires by file: %w", err)
	}
	defer rows.Close()
	var out []*Require
	for rows.Next() {
		r := &Require{}
		if err := rows.Scan(&r.ID, &r.FileID, &r.Name, &r.Ordinal); err != nil {
			return nil, fmt.Errorf("scan require: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RequiresInOrder returns every requirement with its file path, in
// registration order.
func (s *Store) RequiresInOrder() ([]*RequireRow, error) {
	rows, err := s.db.Query(
		`SELECT f.path, r.name, r.ordinal FROM requires r JOIN files f ON f.id = r.file_id
		 ORDER BY r.ordinal`,
	)
	if err != nil {
		return nil, fmt.Errorf("requires in order: %w", err)
	}
	defer rows.Close()
	var out []*RequireRow
	for rows.Next() {
		r := &RequireRow{}
		if err := rows.Scan(&r.Path, &r.Name, &r.Ordinal); err != nil {
			return nil, fmt.Errorf("scan require: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Definer returns the file that last declared name, or nil if none did.
func (s *Store) Definer(name string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow(
		`SELECT f.id, f.path FROM provides p JOIN files f ON f.id = p.file_id
		 WHERE p.name = ? ORDER BY p.ordinal DESC LIMIT 1`, name,
	).Scan(&f.ID, &f.Path)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("definer: %w", err)
	}
	return f, nil
}

// Declarers returns every file that declared name, in declaration order.
func (s *Store) Declarers(name string) ([]*File, error) {
	return s.queryFiles(
		`SELECT f.id, f.path FROM provides p JOIN files f ON f.id = p.file_id
		 WHERE p.name = ? ORDER BY p.ordinal`, name,
	)
}

// Requirers returns every file that requires name, in registration order.
func (s *Store) Requirers(name string) ([]*File, error) {
	return s.queryFiles(
		`SELECT f.id, f.path FROM requires r JOIN files f ON f.id = r.file_id
		 WHERE r.name = ? ORDER BY r.ordinal`, name,
	)
}

func (s *Store) queryFiles(query string, args ...any) ([]*File, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Counts returns the number of files, provides and requires stored.
func (s *Store) Counts() (files, provides, requires int, err error) {
	err = s.db.QueryRow(
		`SELECT (SELECT COUNT(*) FROM files), (SELECT COUNT(*) FROM provides), (SELECT COUNT(*) FROM requires)`,
	).Scan(&files, &provides, &requires)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("counts: %w", err)
	}
	return files, provides, requires, nil
}
