package depscan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// ManifestOptions controls how manifest statements are rendered.
type ManifestOptions struct {
	// Statement is the loader function each record calls.
	Statement string
	// ServePrefix is prepended to every base-relative path.
	ServePrefix string
}

// DefaultManifestOptions renders Closure deps.js statements.
func DefaultManifestOptions() ManifestOptions {
	return ManifestOptions{
		Statement:   "goog.addDependency",
		ServePrefix: "../../",
	}
}

// Record is one manifest entry: a file with what it declares and requires.
type Record struct {
	Path     string // absolute path
	Provides []string
	Requires []string
}

// Records returns one Record per file in idx, in Index.Files order.
func Records(idx *Index) []Record {
	files := idx.Files()
	records := make([]Record, 0, len(files))
	for _, path := range files {
		records = append(records, Record{
			Path:     path,
			Provides: idx.Provides.Declared(path),
			Requires: idx.Requires.Get(path),
		})
	}
	return records
}

// Render returns the record as a single loader statement, with its path made
// relative to base.
func (r Record) Render(base string, opts ManifestOptions) (string, error) {
	rel, err := filepath.Rel(base, r.Path)
	if err != nil {
		return "", fmt.Errorf("depscan: relative path for %s: %w", r.Path, err)
	}
	var b strings.Builder
	b.WriteString(opts.Statement)
	b.WriteString(`("`)
	b.WriteString(opts.ServePrefix)
	b.WriteString(filepath.ToSlash(rel))
	b.WriteString(`", `)
	b.WriteString(quoteArray(r.Provides))
	b.WriteString(", ")
	b.WriteString(quoteArray(r.Requires))
	b.WriteString(");")
	return b.String(), nil
}

// GenerateManifest renders every file in idx as a loader statement, one per
// line, with paths relative to base.
func GenerateManifest(idx *Index, base string, opts ManifestOptions) (string, error) {
	return renderRecords(Records(idx), base, opts)
}

func renderRecords(records []Record, base string, opts ManifestOptions) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("depscan: manifest base %s: %w", base, err)
	}
	lines := make([]string, 0, len(records))
	for _, r := range records {
		line, err := r.Render(absBase, opts)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// RequiresList renders names as a comma-joined list of single-quoted
// strings, for splicing one file's requirements into generated source.
func RequiresList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return strings.Join(quoted, ", ")
}

// quoteArray renders names as a compact JSON array of strings.
func quoteArray(names []string) string {
	if len(names) == 0 {
		return "[]"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a []string cannot fail.
	_ = enc.Encode(names)
	return strings.TrimSuffix(buf.String(), "\n")
}
