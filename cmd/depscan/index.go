package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jward/depscan"
	"github.com/spf13/cobra"
)

var flagForce bool

var indexCmd = &cobra.Command{
	Use:   "index [root...]",
	Short: "Scan source trees and save a queryable snapshot",
	Long: "Scans the roots (default: app.roots) and writes every declaration and requirement " +
		"to the snapshot database, replacing its previous contents.",
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete the database file before writing")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	roots, err := resolveRoots(args)
	if err != nil {
		return outputError("index", err)
	}
	absRoots := make([]string, len(roots))
	for i, root := range roots {
		if absRoots[i], err = filepath.Abs(root); err != nil {
			return outputError("index", fmt.Errorf("resolving path %q: %w", root, err))
		}
	}

	dbPath := resolveDBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return outputError("index", fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err))
	}
	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return outputError("index", fmt.Errorf("removing database for --force: %w", err))
		}
		logger.Info("cleared database", "db", dbPath)
	}

	idx, err := newEngine().Scan(cmd.Context(), absRoots...)
	if err != nil {
		return outputError("index", err)
	}
	info, err := depscan.SaveSnapshot(cmd.Context(), dbPath, idx, absRoots...)
	if err != nil {
		return outputError("index", err)
	}

	logger.Info("indexed",
		"files", info.Files,
		"changed", info.Changed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return outputResult(CLIResult{
		Command: "index",
		Results: CLISnapshot{
			DB:       dbPath,
			Roots:    absRoots,
			Hash:     info.Hash,
			Changed:  info.Changed,
			Files:    info.Files,
			Provides: info.Provides,
			Requires: info.Requires,
		},
	})
}
