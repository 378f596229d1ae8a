package depscan

import (
	"context"
	"fmt"
	"os"
	"time"
)

// cachedScan is a file's directives together with the stat data they were
// read under.
type cachedScan struct {
	size       int64
	modTime    time.Time
	directives Directives
}

func (e *Engine) scanFilesSerial(ctx context.Context, paths []string, idx *Index) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, err := e.scanFile(path)
		if err != nil {
			return err
		}
		d.apply(path, idx)
	}
	return nil
}

// scanFile returns the directives in path, served from the cache when the
// file's size and modification time are unchanged.
func (e *Engine) scanFile(path string) (Directives, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Directives{}, fmt.Errorf("depscan: read %s: %w", path, err)
	}
	if e.cache != nil {
		if c, ok := e.cache.Get(path); ok && c.size == info.Size() && c.modTime.Equal(info.ModTime()) {
			return c.directives, nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Directives{}, fmt.Errorf("depscan: read %s: %w", path, err)
	}
	d := e.syntax.ScanLines(content)

	if e.cache != nil {
		e.cache.Add(path, cachedScan{
			size:       info.Size(),
			modTime:    info.ModTime(),
			directives: d,
		})
	}
	return d, nil
}
