package depscan

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Library describes the external module tree that closures are resolved
// against.
type Library struct {
	// Root is the library checkout (the Closure Library root).
	Root string
	// Subdir is the subtree of Root that is scanned for directives.
	Subdir string
	// Prefix filters application requirements: only names starting with it
	// are resolved against the library.
	Prefix string
	// Bootstrap is the base runtime file, relative to Root, appended to every
	// closure.
	Bootstrap string
}

// DefaultLibrary returns the Closure Library layout rooted at root.
func DefaultLibrary(root string) Library {
	return Library{
		Root:      root,
		Subdir:    filepath.Join("closure", "goog"),
		Prefix:    "goog",
		Bootstrap: filepath.Join("closure", "goog", "base.js"),
	}
}

// ScanRoot returns the absolute directory that is walked for library files.
func (l Library) ScanRoot() (string, error) {
	return filepath.Abs(filepath.Join(l.Root, l.Subdir))
}

// BootstrapPath returns the absolute bootstrap path, or "" when none is set.
func (l Library) BootstrapPath() (string, error) {
	if l.Bootstrap == "" {
		return "", nil
	}
	return filepath.Abs(filepath.Join(l.Root, l.Bootstrap))
}

// Closure is the result of resolving a seed set against a library index.
type Closure struct {
	// Modules lists the resolved module names in discovery order.
	Modules []string
	// Definers maps each resolved module to its defining file.
	Definers map[string]string
	// Defining lists the distinct defining files in discovery order.
	Defining []string
	// Unresolved lists required names with no definer, in discovery order.
	Unresolved []string
	// Bootstrap is appended after Defining by Files.
	Bootstrap string
	// Rounds is the number of expansion rounds run, including the final one
	// that found nothing new.
	Rounds int
}

// Files returns the defining files followed by the bootstrap file. The
// bootstrap appears exactly once, always last.
func (c *Closure) Files() []string {
	files := make([]string, 0, len(c.Defining)+1)
	for _, f := range c.Defining {
		if f != c.Bootstrap {
			files = append(files, f)
		}
	}
	if c.Bootstrap != "" {
		files = append(files, c.Bootstrap)
	}
	return files
}

// ClosureResolver expands module requirements through a library index until
// no new modules appear.
type ClosureResolver struct {
	Library   *Index
	Prefix    string
	Bootstrap string
	Logger    *slog.Logger
}

// Resolve seeds the expansion with app's distinct required names that carry
// the library prefix.
func (r *ClosureResolver) Resolve(app *RequireIndex) (*Closure, error) {
	var seeds []string
	for _, name := range app.All() {
		if strings.HasPrefix(name, r.Prefix) {
			seeds = append(seeds, name)
		}
	}
	return r.Expand(seeds)
}

// Expand runs the fixed point from an explicit seed list. Seeds are not
// prefix-filtered. Names without a definer are recorded as unresolved and
// otherwise ignored.
func (r *ClosureResolver) Expand(seeds []string) (*Closure, error) {
	c := &Closure{
		Definers:  make(map[string]string),
		Bootstrap: r.Bootstrap,
	}
	files := newNameSet()
	unresolved := newNameSet()

	visit := func(name string) {
		if _, ok := c.Definers[name]; ok {
			return
		}
		path, ok := r.Library.Provides.Get(name)
		if !ok {
			if unresolved.add(name) {
				r.logger().Debug("unresolved module", "name", name)
			}
			return
		}
		c.Definers[name] = path
		c.Modules = append(c.Modules, name)
		files.add(path)
	}

	for _, name := range seeds {
		visit(name)
	}

	// The map only ever holds names the library declares, so the loop is
	// bounded by the library's name count.
	limit := r.Library.Provides.Len() + 2
	for {
		if c.Rounds >= limit {
			return nil, fmt.Errorf("%w after %d rounds", ErrClosureDiverged, c.Rounds)
		}
		c.Rounds++
		known := len(c.Modules)
		for _, name := range c.Modules[:known] {
			for _, req := range r.Library.Requires.Get(c.Definers[name]) {
				visit(req)
			}
		}
		r.logger().Debug("closure round", "round", c.Rounds, "modules", len(c.Modules))
		if len(c.Modules) == known {
			break
		}
	}

	c.Defining = files.order
	c.Unresolved = unresolved.order
	return c, nil
}

func (r *ClosureResolver) logger() *slog.Logger {
	if r.Logger == nil {
		return discardLogger
	}
	return r.Logger
}
