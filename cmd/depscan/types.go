package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIManifest is the output of deps.
type CLIManifest struct {
	Base     string `json:"base"`
	Manifest string `json:"manifest"`
}

// CLIClosure is the output of closure.
type CLIClosure struct {
	Files      []string `json:"files"`
	Modules    []string `json:"modules"`
	Unresolved []string `json:"unresolved"`
	Rounds     int      `json:"rounds"`
}

// CLIRequires is the output of requires.
type CLIRequires struct {
	File     string `json:"file"`
	Rendered string `json:"rendered"`
}

// CLISnapshot summarises an index run.
type CLISnapshot struct {
	DB       string   `json:"db"`
	Roots    []string `json:"roots"`
	Hash     string   `json:"hash"`
	Changed  bool     `json:"changed"`
	Files    int      `json:"files"`
	Provides int      `json:"provides"`
	Requires int      `json:"requires"`
}

// CLIRecord is a JSON-friendly file record.
type CLIRecord struct {
	Path     string   `json:"path"`
	Provides []string `json:"provides"`
	Requires []string `json:"requires"`
}

// CLIDefiner is the output of query definer.
type CLIDefiner struct {
	Name string `json:"name"`
	File string `json:"file"`
}
