package depscan

import (
	"context"
	"path/filepath"

	"github.com/jward/depscan/internal/runtime"
)

// EvalOptions selects what a script sees.
type EvalOptions struct {
	// Base is the manifest base directory for manifest().
	Base string
	// Globals are extra script globals.
	Globals map[string]any
}

// Eval runs a Risor script against idx. Scripts can call files, declares,
// requires, definer and all_requires over idx, manifest() over idx rendered
// relative to opts.Base, and, when a library is configured, closure(names).
// The value of the script's final expression is returned. Imports resolve
// relative to the script's directory.
func (e *Engine) Eval(ctx context.Context, idx *Index, script string, opts EvalOptions) (any, error) {
	dir, name := filepath.Split(script)
	return e.runtime(idx, opts.Base, dir).RunScript(ctx, name, opts.Globals)
}

// EvalSource is Eval for inline source.
func (e *Engine) EvalSource(ctx context.Context, idx *Index, source string, opts EvalOptions) (any, error) {
	return e.runtime(idx, opts.Base, "").RunSource(ctx, source, opts.Globals)
}

// runtime builds a script runtime over idx. Imports resolve against dir.
func (e *Engine) runtime(idx *Index, base, dir string) *runtime.Runtime {
	rtOpts := []runtime.RuntimeOption{
		runtime.WithLogger(e.logger),
		runtime.WithManifest(func() (string, error) {
			return e.Manifest(idx, base)
		}),
	}
	if e.library != nil {
		rtOpts = append(rtOpts, runtime.WithClosure(func(ctx context.Context, names []string) ([]string, error) {
			r, err := e.Resolver(ctx)
			if err != nil {
				return nil, err
			}
			c, err := r.Expand(names)
			if err != nil {
				return nil, err
			}
			return c.Files(), nil
		}))
	}
	return runtime.NewRuntime(idx, dir, rtOpts...)
}
