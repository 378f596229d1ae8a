package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

var (
	headingColor = color.New(color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// formatPathsText writes one path per line.
func formatPathsText(w io.Writer, paths []string) {
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
}

// formatClosureText writes the closure files, then any unresolved names.
func formatClosureText(w io.Writer, c CLIClosure) {
	formatPathsText(w, c.Files)
	if len(c.Unresolved) > 0 {
		fmt.Fprintln(w)
		warnColor.Fprintf(w, "Unresolved (%d):\n", len(c.Unresolved))
		for _, name := range c.Unresolved {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
}

// formatRecordsText formats CLIRecord results as aligned columns.
func formatRecordsText(w io.Writer, records []CLIRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tPROVIDES\tREQUIRES")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Path, joinOrDash(r.Provides), joinOrDash(r.Requires))
	}
	tw.Flush()
}

// formatSnapshotText formats an index summary.
func formatSnapshotText(w io.Writer, s CLISnapshot) {
	headingColor.Fprintln(w, "Snapshot")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Database:\t%s\n", s.DB)
	fmt.Fprintf(tw, "Roots:\t%s\n", strings.Join(s.Roots, ", "))
	fmt.Fprintf(tw, "Files:\t%d\n", s.Files)
	fmt.Fprintf(tw, "Provides:\t%d\n", s.Provides)
	fmt.Fprintf(tw, "Requires:\t%d\n", s.Requires)
	fmt.Fprintf(tw, "Hash:\t%s\n", s.Hash)
	fmt.Fprintf(tw, "Changed:\t%t\n", s.Changed)
	tw.Flush()
}

// formatValueText prints a script result: strings raw, lists one item per
// line, anything else as compact JSON.
func formatValueText(w io.Writer, v any) error {
	switch val := v.(type) {
	case nil:
	case string:
		fmt.Fprintln(w, val)
	case []any:
		for _, item := range val {
			if err := formatValueText(w, item); err != nil {
				return err
			}
		}
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("formatting result: %w", err)
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type. It writes to os.Stdout.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case CLIManifest:
		if v.Manifest != "" {
			fmt.Fprintln(w, v.Manifest)
		}
	case CLIClosure:
		formatClosureText(w, v)
	case CLIRequires:
		fmt.Fprintln(w, v.Rendered)
	case CLISnapshot:
		formatSnapshotText(w, v)
	case []CLIRecord:
		formatRecordsText(w, v)
	case CLIRecord:
		formatRecordsText(w, []CLIRecord{v})
	case CLIDefiner:
		fmt.Fprintln(w, v.File)
	case []string:
		formatPathsText(w, v)
	case nil:
		// No output for nil results (e.g. definer with no match).
	default:
		return formatValueText(w, v)
	}
	return nil
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

// outputError reports err in the selected format and returns it so the
// command exits non-zero.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}

func intPtr(n int) *int { return &n }
