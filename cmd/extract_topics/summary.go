package main

import (
	"fmt"
	"io"

	"szexam/internal/domain"
)

// resolvePaths returns the single --pdf path when given, otherwise the configured list.
func resolvePaths(single string, configured []string) []string {
	if single != "" {
		return []string{single}
	}
	return configured
}

func printSummary(w io.Writer, stats domain.IngestStats) {
	fmt.Fprintln(w, "Run summary")
	fmt.Fprintf(w, "  files:       %d (%d failed)\n", stats.Files, stats.FailedFiles)
	fmt.Fprintf(w, "  extracted:   %d\n", stats.Extracted)
	fmt.Fprintf(w, "  incomplete:  %d\n", stats.Incomplete)
	fmt.Fprintf(w, "  invalid:     %d\n", stats.Invalid)
	fmt.Fprintf(w, "  inserted:    %d\n", stats.Inserted)
	fmt.Fprintf(w, "  duplicates:  %d\n", stats.Duplicates)
	fmt.Fprintf(w, "  skipped:     %d\n", stats.Skipped)
	if len(stats.ErrorSamples) > 0 {
		fmt.Fprintln(w, "  first errors:")
		for _, msg := range stats.ErrorSamples {
			fmt.Fprintf(w, "    - %s\n", msg)
		}
	}
}

// runResult fails the command only when no input file could be read at all.
func runResult(stats domain.IngestStats) error {
	if stats.Files > 0 && stats.FailedFiles == stats.Files {
		return fmt.Errorf("all %d input files failed", stats.Files)
	}
	return nil
}
