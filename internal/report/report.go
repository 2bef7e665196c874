package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/substantialcattle5/scour/internal/constants"
	"github.com/substantialcattle5/scour/internal/dedup"
	"github.com/substantialcattle5/scour/internal/resolve"
	"github.com/substantialcattle5/scour/internal/stats"
	"github.com/substantialcattle5/scour/util"
)

// Options controls report rendering.
type Options struct {
	Color bool
}

// Render writes the duplicate analysis report for one scan.
func Render(w io.Writer, root string, groups []dedup.DuplicateGroup, summary dedup.Summary, opts Options) {
	header := color.New(color.FgCyan, color.Bold)
	keep := color.New(color.FgGreen)
	dupe := color.New(color.FgYellow)
	if !opts.Color {
		color.NoColor = true
	}

	separator := strings.Repeat("─", 60)
	// #nosec G104 - report rendering errors are not actionable
	header.Fprintln(w, "Duplicate File Analysis")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Scanned directory: %s\n\n", root)

	RenderSummary(w, summary)

	if len(groups) == 0 {
		fmt.Fprintln(w, "\nNo duplicate files found.")
		return
	}

	fmt.Fprintf(w, "\nDuplicate groups:\n")
	for i, group := range groups {
		fmt.Fprintf(w, "\nGroup %d: %d identical files, %s each (%s wasted)\n",
			i+1, len(group.Members),
			util.HumanReadableSize(group.Size),
			util.HumanReadableSize(group.WastedBytes()))
		fmt.Fprintf(w, "  Digest: %s\n", group.Digest)

		for j, member := range sortedByModTime(group.Members) {
			marker := "[DUPLICATE]"
			painter := dupe
			if j == 0 {
				marker = "[ORIGINAL] "
				painter = keep
			}
			painter.Fprintf(w, "  %s %s\n", marker, member.Path)
			fmt.Fprintf(w, "              modified %s\n", member.ModTime.Format("2006-01-02 15:04:05"))
		}
	}
}

// RenderSummary writes the scan statistics block.
func RenderSummary(w io.Writer, summary dedup.Summary) {
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Files scanned:    %d\n", summary.TotalScanned)
	fmt.Fprintf(w, "  Unique contents:  %d\n", summary.UniqueContent)
	fmt.Fprintf(w, "  Duplicate groups: %d\n", summary.DuplicateGroups)
	fmt.Fprintf(w, "  Duplicate files:  %d\n", summary.DuplicateFiles)
	fmt.Fprintf(w, "  Wasted space:     %s\n", util.HumanReadableSize(summary.WastedBytes))
}

// RenderOutcomes writes the per-file results of a resolution run plus
// the final run statistics.
func RenderOutcomes(w io.Writer, outcomes []resolve.Outcome, runStats stats.RunStats, opts Options) {
	if !opts.Color {
		color.NoColor = true
	}
	retained := color.New(color.FgGreen)
	removed := color.New(color.FgYellow)
	failed := color.New(color.FgRed)

	for _, outcome := range outcomes {
		switch outcome.Action {
		case resolve.ActionRetained:
			retained.Fprintf(w, "  kept     %s\n", outcome.Record.Path)
		case resolve.ActionRemoved:
			removed.Fprintf(w, "  removed  %s\n", outcome.Record.Path)
		case resolve.ActionFailed:
			failed.Fprintf(w, "  failed   %s: %v\n", outcome.Record.Path, outcome.Err)
		}
	}

	fmt.Fprintf(w, "\nFiles removed: %d\n", runStats.RemovedCount)
	fmt.Fprintf(w, "Space recovered: %s\n", util.HumanReadableSize(runStats.RecoveredBytes))
	if runStats.FailedCount > 0 {
		failed.Fprintf(w, "Failed deletions: %d\n", runStats.FailedCount)
	}
}

// DefaultExportName returns a timestamped report filename, matching the
// duplicate_report_YYYYMMDD_HHMMSS.txt convention.
func DefaultExportName() string {
	return fmt.Sprintf("duplicate_report_%s.txt", time.Now().Format("20060102_150405"))
}

// Export writes the plain-text report to path.
func Export(path, root string, groups []dedup.DuplicateGroup, summary dedup.Summary) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.StandardFilePerms)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	defer file.Close()

	fmt.Fprintf(file, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	Render(file, root, groups, summary, Options{Color: false})

	return nil
}

func sortedByModTime(members []dedup.FingerprintedRecord) []dedup.FingerprintedRecord {
	sorted := make([]dedup.FingerprintedRecord, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].ModTime.Equal(sorted[j].ModTime) {
			return sorted[i].ModTime.Before(sorted[j].ModTime)
		}
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}
