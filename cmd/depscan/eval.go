package main

import (
	"errors"

	"github.com/jward/depscan"
	"github.com/spf13/cobra"
)

var flagExpr string

var evalCmd = &cobra.Command{
	Use:   "eval [script.risor] [root...]",
	Short: "Run a Risor script over a scan",
	Long: "Scans the roots (default: app.roots) and runs a Risor script with files(), " +
		"declares(path), requires(path), definer(name), all_requires(), manifest() and, " +
		"when a library is configured, closure(names). The script's final value is printed.",
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&flagExpr, "expr", "e", "", "inline script source instead of a script file")
}

func runEval(cmd *cobra.Command, args []string) error {
	var script string
	if flagExpr == "" {
		if len(args) == 0 {
			return outputError("eval", errors.New("requires a script path or --expr"))
		}
		script, args = args[0], args[1:]
	}

	roots, err := resolveRoots(args)
	if err != nil {
		return outputError("eval", err)
	}
	base, err := resolveBase()
	if err != nil {
		return outputError("eval", err)
	}

	engine := newEngine()
	idx, err := engine.Scan(cmd.Context(), roots...)
	if err != nil {
		return outputError("eval", err)
	}

	opts := depscan.EvalOptions{Base: base}
	var value any
	if flagExpr != "" {
		value, err = engine.EvalSource(cmd.Context(), idx, flagExpr, opts)
	} else {
		value, err = engine.Eval(cmd.Context(), idx, script, opts)
	}
	if err != nil {
		return outputError("eval", err)
	}
	return outputResult(CLIResult{Command: "eval", Results: value})
}
