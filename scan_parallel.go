package depscan

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// scanFilesParallel reads and scans files on a bounded worker group. Each
// worker fills the result slot for its input position; a single writer then
// applies the slots in input order, so the index matches the serial path.
func (e *Engine) scanFilesParallel(ctx context.Context, paths []string, idx *Index) error {
	results := make([]Directives, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := e.scanFile(path)
			if err != nil {
				return err
			}
			results[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range paths {
		results[i].apply(path, idx)
	}
	e.logger.Debug("parallel scan", "files", len(paths), "jobs", e.jobs)
	return nil
}
