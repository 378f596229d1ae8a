package main

import (
	"fmt"
	"path/filepath"

	"github.com/jward/depscan"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a saved snapshot",
	Long:  "Run queries against the snapshot written by 'depscan index'.",
}

func init() {
	queryCmd.AddCommand(definerCmd)
	queryCmd.AddCommand(declarersCmd)
	queryCmd.AddCommand(requirersCmd)
	queryCmd.AddCommand(fileCmd)
	queryCmd.AddCommand(filesCmd)
}

// openQuery opens the snapshot from the --db flag path (or default).
func openQuery() (*depscan.QueryBuilder, error) {
	dbPath := resolveDBPath()
	qb, err := depscan.OpenQuery(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'depscan index' first)", err)
	}
	return qb, nil
}

var definerCmd = &cobra.Command{
	Use:   "definer <module>",
	Short: "Show the file whose declaration of a module wins",
	Args:  cobra.ExactArgs(1),
	RunE:  runDefiner,
}

func runDefiner(cmd *cobra.Command, args []string) error {
	qb, err := openQuery()
	if err != nil {
		return outputError("definer", err)
	}
	defer qb.Close()

	file, ok, err := qb.Definer(args[0])
	if err != nil {
		return outputError("definer", err)
	}
	var result any
	if ok {
		result = CLIDefiner{Name: args[0], File: file}
	}
	return outputResult(CLIResult{Command: "definer", Results: result})
}

var declarersCmd = &cobra.Command{
	Use:   "declarers <module>",
	Short: "List every file that declares a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPathQuery("declarers", func(qb *depscan.QueryBuilder) ([]string, error) {
			return qb.Declarers(args[0])
		})
	},
}

var requirersCmd = &cobra.Command{
	Use:   "requirers <module>",
	Short: "List every file that requires a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPathQuery("requirers", func(qb *depscan.QueryBuilder) ([]string, error) {
			return qb.Requirers(args[0])
		})
	},
}

// runPathQuery runs a query returning file paths and outputs them.
func runPathQuery(command string, query func(*depscan.QueryBuilder) ([]string, error)) error {
	qb, err := openQuery()
	if err != nil {
		return outputError(command, err)
	}
	defer qb.Close()

	paths, err := query(qb)
	if err != nil {
		return outputError(command, err)
	}
	paths = nonNil(paths)
	return outputResult(CLIResult{
		Command:    command,
		Results:    paths,
		TotalCount: intPtr(len(paths)),
	})
}

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Show what a file declares and requires",
	Args:  cobra.ExactArgs(1),
	RunE:  runFile,
}

func runFile(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return outputError("file", fmt.Errorf("resolving file path %q: %w", args[0], err))
	}
	qb, err := openQuery()
	if err != nil {
		return outputError("file", err)
	}
	defer qb.Close()

	rec, err := qb.FileRecord(path)
	if err != nil {
		return outputError("file", err)
	}
	if rec == nil {
		return outputError("file", fmt.Errorf("file not in snapshot: %s", path))
	}
	return outputResult(CLIResult{Command: "file", Results: toCLIRecord(*rec)})
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List every file in the snapshot with its declarations and requirements",
	RunE:  runFiles,
}

func runFiles(cmd *cobra.Command, args []string) error {
	qb, err := openQuery()
	if err != nil {
		return outputError("files", err)
	}
	defer qb.Close()

	idx, err := qb.Index()
	if err != nil {
		return outputError("files", err)
	}
	records := depscan.Records(idx)
	cliRecords := make([]CLIRecord, len(records))
	for i, r := range records {
		cliRecords[i] = toCLIRecord(r)
	}
	return outputResult(CLIResult{
		Command:    "files",
		Results:    cliRecords,
		TotalCount: intPtr(len(cliRecords)),
	})
}

func toCLIRecord(r depscan.Record) CLIRecord {
	return CLIRecord{
		Path:     r.Path,
		Provides: nonNil(r.Provides),
		Requires: nonNil(r.Requires),
	}
}
