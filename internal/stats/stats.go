package stats

import (
	"github.com/substantialcattle5/scour/internal/dedup"
	"github.com/substantialcattle5/scour/internal/resolve"
)

// RunStats is the full set of metrics for one detect-and-resolve run.
// It is derived on demand and never stored.
type RunStats struct {
	TotalScanned    int
	UniqueContent   int
	DuplicateGroups int
	DuplicateFiles  int
	WastedBytes     int64
	RecoveredBytes  int64
	RemovedCount    int
	FailedCount     int
}

// Summarize extends the index summary with resolution results:
// RecoveredBytes counts only the sizes of files actually removed, and
// FailedCount the deletions the backend refused.
func Summarize(summary dedup.Summary, outcomes []resolve.Outcome) RunStats {
	runStats := RunStats{
		TotalScanned:    summary.TotalScanned,
		UniqueContent:   summary.UniqueContent,
		DuplicateGroups: summary.DuplicateGroups,
		DuplicateFiles:  summary.DuplicateFiles,
		WastedBytes:     summary.WastedBytes,
	}

	for _, outcome := range outcomes {
		switch outcome.Action {
		case resolve.ActionRemoved:
			runStats.RecoveredBytes += outcome.Record.Size
			runStats.RemovedCount++
		case resolve.ActionFailed:
			runStats.FailedCount++
		}
	}
	return runStats
}
