package depscan

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultExtensions is the source-file filter used when none is configured.
var DefaultExtensions = []string{".js"}

// WalkFiles returns every file under root whose extension is one of exts
// (DefaultExtensions when empty). Directories are descended unconditionally,
// symlinks are followed, and entries are visited in lexical order so the
// result is stable across runs. Any unreadable entry aborts the walk.
func WalkFiles(root string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[ext] = true
	}

	var files []string
	if err := walkDir(root, allowed, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func walkDir(dir string, allowed map[string]bool, files *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("depscan: walk %s: %w", dir, err)
	}
	for _, entry := range entries {
		name := filepath.Join(dir, entry.Name())
		// os.Stat rather than entry.Type() so symlinked directories are descended.
		info, err := os.Stat(name)
		if err != nil {
			return fmt.Errorf("depscan: stat %s: %w", name, err)
		}
		if info.IsDir() {
			if err := walkDir(name, allowed, files); err != nil {
				return err
			}
			continue
		}
		if allowed[filepath.Ext(name)] {
			*files = append(*files, name)
		}
	}
	return nil
}
