package store

// Snapshot domain types

type File struct {
	ID   int64
	Path string
}

type Provide struct {
	ID      int64
	FileID  int64
	Name    string
	Ordinal int
}

type Require struct {
	ID      int64
	FileID  int64
	Name    string
	Ordinal int
}

// RequireRow is a Require joined with its file path.
type RequireRow struct {
	Path    string
	Name    string
	Ordinal int
}
