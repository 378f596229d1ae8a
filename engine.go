package depscan

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is a reasonable bound for WithCacheSize when repeated
// scans of a large library on one Engine dominate run time.
const DefaultCacheSize = 4096

// Engine orchestrates the depscan pipeline: file discovery, directive
// scanning, closure resolution and manifest rendering. Every scan builds
// fresh indices; an Engine never carries index state between calls.
type Engine struct {
	syntax   Syntax
	exts     []string
	library  *Library // nil means no library configured
	manifest ManifestOptions
	logger   *slog.Logger

	// jobs > 1 enables the parallel read pipeline.
	jobs int

	cacheSize int
	cache     *lru.Cache[string, cachedScan]
}

// Option configures an Engine.
type Option func(*Engine)

// WithSyntax sets the directive keywords.
func WithSyntax(s Syntax) Option {
	return func(e *Engine) {
		e.syntax = s
	}
}

// WithExtensions restricts scanned files to the given extensions
// (including the leading dot).
func WithExtensions(exts ...string) Option {
	return func(e *Engine) {
		e.exts = append([]string(nil), exts...)
	}
}

// WithLibrary configures the external library closures resolve against.
func WithLibrary(l Library) Option {
	return func(e *Engine) {
		e.library = &l
	}
}

// WithManifestOptions sets how manifest statements are rendered.
func WithManifestOptions(opts ManifestOptions) Option {
	return func(e *Engine) {
		e.manifest = opts
	}
}

// WithParallel sets the number of concurrent file readers. Values below 2
// select the serial path. Index contents and order do not depend on it.
func WithParallel(jobs int) Option {
	return func(e *Engine) {
		e.jobs = jobs
	}
}

// WithCacheSize enables a per-file scan cache holding up to n results. A
// cached result is reused while the file's size and modification time are
// unchanged, so an edit that preserves both is not seen until the entry is
// evicted. Zero, the default, disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// WithLogger sets the logger for debug tracing. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine. Defaults: Closure directive syntax, ".js" files,
// serial scanning, no scan cache, no library.
func New(opts ...Option) *Engine {
	e := &Engine{
		syntax:   DefaultSyntax,
		exts:     DefaultExtensions,
		manifest: DefaultManifestOptions(),
		logger:   discardLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cacheSize > 0 {
		// lru.New only fails for a non-positive size.
		e.cache, _ = lru.New[string, cachedScan](e.cacheSize)
	}
	return e
}

// Library returns the configured library, if any.
func (e *Engine) Library() (Library, bool) {
	if e.library == nil {
		return Library{}, false
	}
	return *e.library, true
}

// Scan walks every root and scans the union of their files into a fresh
// Index.
func (e *Engine) Scan(ctx context.Context, roots ...string) (*Index, error) {
	var paths []string
	for _, root := range roots {
		files, err := WalkFiles(root, e.exts...)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("walked", "root", root, "files", len(files))
		paths = append(paths, files...)
	}
	return e.ScanFiles(ctx, paths)
}

// ScanFiles scans the given files into a fresh Index. Paths are made
// absolute and index keys use the absolute form.
func (e *Engine) ScanFiles(ctx context.Context, paths []string) (*Index, error) {
	abs := make([]string, len(paths))
	for i, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("depscan: resolve %s: %w", p, err)
		}
		abs[i] = a
	}

	idx := NewIndex()
	if e.jobs > 1 && len(abs) > 1 {
		if err := e.scanFilesParallel(ctx, abs, idx); err != nil {
			return nil, err
		}
		return idx, nil
	}
	if err := e.scanFilesSerial(ctx, abs, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// LibraryIndex scans the library subtree into a fresh Index.
func (e *Engine) LibraryIndex(ctx context.Context) (*Index, error) {
	if e.library == nil {
		return nil, ErrNoLibrary
	}
	root, err := e.library.ScanRoot()
	if err != nil {
		return nil, fmt.Errorf("depscan: library root: %w", err)
	}
	return e.Scan(ctx, root)
}

// Resolver scans the library and returns a resolver over it.
func (e *Engine) Resolver(ctx context.Context) (*ClosureResolver, error) {
	lib, err := e.LibraryIndex(ctx)
	if err != nil {
		return nil, err
	}
	bootstrap, err := e.library.BootstrapPath()
	if err != nil {
		return nil, fmt.Errorf("depscan: bootstrap path: %w", err)
	}
	return &ClosureResolver{
		Library:   lib,
		Prefix:    e.library.Prefix,
		Bootstrap: bootstrap,
		Logger:    e.logger,
	}, nil
}

// Closure resolves the library closure of app's requirements.
func (e *Engine) Closure(ctx context.Context, app *Index) (*Closure, error) {
	r, err := e.Resolver(ctx)
	if err != nil {
		return nil, err
	}
	c, err := r.Resolve(app.Requires)
	if err != nil {
		return nil, err
	}
	if len(c.Unresolved) > 0 {
		e.logger.Debug("closure has unresolved modules", "count", len(c.Unresolved))
	}
	return c, nil
}

// ScanDeps returns the library files the application under roots needs,
// followed by the library bootstrap file.
func (e *Engine) ScanDeps(ctx context.Context, roots ...string) ([]string, error) {
	app, err := e.Scan(ctx, roots...)
	if err != nil {
		return nil, err
	}
	c, err := e.Closure(ctx, app)
	if err != nil {
		return nil, err
	}
	return c.Files(), nil
}

// GenDepsOptions tunes GenDeps.
type GenDepsOptions struct {
	// IncludeLibrary appends records for the library files in the
	// application's closure (bootstrap excluded) after the application's
	// own records.
	IncludeLibrary bool
}

// GenDeps scans every target tree and renders their manifest with paths
// relative to base.
func (e *Engine) GenDeps(ctx context.Context, base string, targets []string, opts GenDepsOptions) (string, error) {
	app, err := e.Scan(ctx, targets...)
	if err != nil {
		return "", err
	}
	records := Records(app)

	if opts.IncludeLibrary {
		c, err := e.Closure(ctx, app)
		if err != nil {
			return "", err
		}
		var libFiles []string
		for _, f := range c.Files() {
			if f != c.Bootstrap {
				libFiles = append(libFiles, f)
			}
		}
		lib, err := e.ScanFiles(ctx, libFiles)
		if err != nil {
			return "", err
		}
		seen := make(map[string]bool, len(records))
		for _, r := range records {
			seen[r.Path] = true
		}
		for _, r := range Records(lib) {
			if !seen[r.Path] {
				records = append(records, r)
			}
		}
	}

	return renderRecords(records, base, e.manifest)
}

// Manifest renders idx with the Engine's manifest options.
func (e *Engine) Manifest(idx *Index, base string) (string, error) {
	return GenerateManifest(idx, base, e.manifest)
}

// ExtractRequires scans a single file and renders its requirements with
// RequiresList.
func (e *Engine) ExtractRequires(ctx context.Context, file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("depscan: resolve %s: %w", file, err)
	}
	idx, err := e.ScanFiles(ctx, []string{abs})
	if err != nil {
		return "", err
	}
	return RequiresList(idx.Requires.Get(abs)), nil
}
