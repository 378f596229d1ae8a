package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/jward/depscan"
	"github.com/jward/depscan/internal/config"
	"github.com/jward/depscan/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagFormat  string
	flagDB      string
	flagLibrary string
	flagJobs    int
	flagVerbose int
	flagQuiet   bool
)

// Populated by the root PersistentPreRunE.
var (
	cfg    *config.Config
	logger *slog.Logger
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "depscan",
	Short: "Dependency scanner and manifest generator for provide/require modules",
	Long: "depscan scans source trees for module declarations and requirements, " +
		"resolves the library files an application needs and renders loader manifests.",
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	// No Run: prints help by default.
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default: depscan.{toml,yaml,json} in the working directory)")
	pf.StringVar(&flagFormat, "format", "json", "output format: json|text")
	pf.StringVar(&flagDB, "db", "", "snapshot database path (default: db from config, then .depscan/deps.db)")
	pf.StringVar(&flagLibrary, "library", "", "library root, overrides library.root")
	pf.IntVarP(&flagJobs, "jobs", "j", 0, "concurrent file readers, overrides scan.jobs")
	pf.CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress all logging")

	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(closureCmd)
	rootCmd.AddCommand(requiresCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(evalCmd)
}

// setup validates global flags and loads configuration and logging.
func setup(cmd *cobra.Command, args []string) error {
	if err := validateFormat(flagFormat); err != nil {
		return err
	}

	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLibrary != "" {
		c.Library.Root = flagLibrary
	}
	if flagJobs > 0 {
		c.Scan.Jobs = flagJobs
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	level := logging.LevelFromVerbosity(logging.LevelFromString(cfg.Log.Level), flagVerbose, flagQuiet)
	logger = logging.New(os.Stderr, logging.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Prefix: "depscan",
	})
	return nil
}

// newEngine builds an Engine from the loaded configuration.
func newEngine() *depscan.Engine {
	opts := []depscan.Option{
		depscan.WithSyntax(depscan.Syntax{
			Provide: cfg.Scan.Provide,
			Require: cfg.Scan.Require,
		}),
		depscan.WithExtensions(cfg.Scan.Extensions...),
		depscan.WithManifestOptions(depscan.ManifestOptions{
			Statement:   cfg.Manifest.Statement,
			ServePrefix: cfg.Manifest.ServePrefix,
		}),
		depscan.WithParallel(cfg.Scan.Jobs),
		depscan.WithCacheSize(cfg.Scan.CacheSize),
		depscan.WithLogger(logger),
	}
	if cfg.Library.Root != "" {
		opts = append(opts, depscan.WithLibrary(depscan.Library{
			Root:      cfg.Library.Root,
			Subdir:    cfg.Library.Subdir,
			Prefix:    cfg.Library.Prefix,
			Bootstrap: cfg.Library.Bootstrap,
		}))
	}
	return depscan.New(opts...)
}

// resolveRoots returns the positional roots, falling back to app.roots.
func resolveRoots(args []string) ([]string, error) {
	roots := args
	if len(roots) == 0 {
		roots = cfg.App.Roots
	}
	if len(roots) == 0 {
		return nil, errors.New("no source roots: pass paths or set app.roots")
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("directory not found: %s", root)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("not a directory: %s", root)
		}
	}
	return roots, nil
}

// resolveDBPath returns the snapshot path from --db, then config, then the
// default under the working directory.
func resolveDBPath() string {
	if flagDB != "" {
		return flagDB
	}
	if cfg.DB != "" {
		return cfg.DB
	}
	return filepath.Join(".depscan", "deps.db")
}
