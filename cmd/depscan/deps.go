package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jward/depscan"
	"github.com/spf13/cobra"
)

var (
	flagBase        string
	flagWithLibrary bool
)

var depsCmd = &cobra.Command{
	Use:   "deps [target...]",
	Short: "Render the dependency manifest for source trees",
	Long: "Scans every target tree and prints one loader statement per file that declares " +
		"or requires a module, with paths relative to --base. Targets default to app.roots.",
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().StringVar(&flagBase, "base", "", "directory manifest paths are relative to (default: manifest.base, then the working directory)")
	depsCmd.Flags().BoolVar(&flagWithLibrary, "with-library", false, "also emit records for the library files the targets need")
}

func runDeps(cmd *cobra.Command, args []string) error {
	targets, err := resolveRoots(args)
	if err != nil {
		return outputError("deps", err)
	}
	base, err := resolveBase()
	if err != nil {
		return outputError("deps", err)
	}

	manifest, err := newEngine().GenDeps(cmd.Context(), base, targets, depscan.GenDepsOptions{
		IncludeLibrary: flagWithLibrary,
	})
	if err != nil {
		return outputError("deps", err)
	}
	return outputResult(CLIResult{
		Command: "deps",
		Results: CLIManifest{Base: base, Manifest: manifest},
	})
}

// resolveBase returns the absolute manifest base directory.
func resolveBase() (string, error) {
	base := flagBase
	if base == "" {
		base = cfg.Manifest.Base
	}
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting cwd: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolving base %q: %w", base, err)
	}
	return abs, nil
}

var closureCmd = &cobra.Command{
	Use:   "closure [root...]",
	Short: "List the library files an application needs",
	Long: "Resolves every library-prefixed requirement of the application roots through the " +
		"library's declarations until no new modules appear, then prints the defining files " +
		"followed by the library bootstrap file.",
	RunE: runClosure,
}

func runClosure(cmd *cobra.Command, args []string) error {
	roots, err := resolveRoots(args)
	if err != nil {
		return outputError("closure", err)
	}

	engine := newEngine()
	app, err := engine.Scan(cmd.Context(), roots...)
	if err != nil {
		return outputError("closure", err)
	}
	c, err := engine.Closure(cmd.Context(), app)
	if err != nil {
		return outputError("closure", err)
	}
	for _, name := range c.Unresolved {
		logger.Warn("no library file declares module", "name", name)
	}

	files := c.Files()
	return outputResult(CLIResult{
		Command: "closure",
		Results: CLIClosure{
			Files:      files,
			Modules:    nonNil(c.Modules),
			Unresolved: nonNil(c.Unresolved),
			Rounds:     c.Rounds,
		},
		TotalCount: intPtr(len(files)),
	})
}

var requiresCmd = &cobra.Command{
	Use:   "requires <file>",
	Short: "Print one file's requirements as a quoted list",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequires,
}

func runRequires(cmd *cobra.Command, args []string) error {
	file, err := filepath.Abs(args[0])
	if err != nil {
		return outputError("requires", fmt.Errorf("resolving file path %q: %w", args[0], err))
	}
	rendered, err := newEngine().ExtractRequires(cmd.Context(), file)
	if err != nil {
		return outputError("requires", err)
	}
	return outputResult(CLIResult{
		Command: "requires",
		Results: CLIRequires{File: file, Rendered: rendered},
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
