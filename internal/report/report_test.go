package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/substantialcattle5/scour/internal/dedup"
	"github.com/substantialcattle5/scour/internal/resolve"
	"github.com/substantialcattle5/scour/internal/scan"
	"github.com/substantialcattle5/scour/internal/stats"
	"github.com/substantialcattle5/scour/testutil"
)

func sampleGroups() ([]dedup.DuplicateGroup, dedup.Summary) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	newMember := func(path string, offset time.Duration) dedup.FingerprintedRecord {
		return dedup.FingerprintedRecord{
			FileRecord: scan.FileRecord{Path: path, Size: 100, ModTime: base.Add(offset)},
			Digest:     "abc123",
		}
	}
	groups := []dedup.DuplicateGroup{{
		Digest: "abc123",
		Size:   100,
		Members: []dedup.FingerprintedRecord{
			newMember("/data/b.txt", 2*time.Second),
			newMember("/data/a.txt", time.Second),
		},
	}}
	summary := dedup.Summary{
		TotalScanned:    5,
		UniqueContent:   4,
		DuplicateGroups: 1,
		DuplicateFiles:  1,
		WastedBytes:     100,
	}
	return groups, summary
}

func TestRenderReport(t *testing.T) {
	groups, summary := sampleGroups()
	var buf bytes.Buffer
	Render(&buf, "/data", groups, summary, Options{Color: false})
	output := buf.String()

	for _, want := range []string{
		"Scanned directory: /data",
		"Files scanned:    5",
		"Unique contents:  4",
		"Duplicate groups: 1",
		"Wasted space:     100 B",
		"Digest: abc123",
		"[ORIGINAL]",
		"[DUPLICATE]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Report missing %q:\n%s", want, output)
		}
	}

	// The oldest file is marked as the original
	originalIdx := strings.Index(output, "[ORIGINAL]")
	if originalIdx == -1 || !strings.Contains(output[originalIdx:originalIdx+80], "/data/a.txt") {
		t.Errorf("Oldest member should be marked [ORIGINAL]:\n%s", output)
	}
}

func TestRenderNoDuplicates(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, "/data", nil, dedup.Summary{TotalScanned: 3, UniqueContent: 3}, Options{Color: false})
	if !strings.Contains(buf.String(), "No duplicate files found.") {
		t.Errorf("Empty scan should say so:\n%s", buf.String())
	}
}

func TestRenderOutcomes(t *testing.T) {
	groups, summary := sampleGroups()
	outcomes := []resolve.Outcome{
		{Record: groups[0].Members[1], Action: resolve.ActionRetained},
		{Record: groups[0].Members[0], Action: resolve.ActionRemoved},
		{Record: groups[0].Members[0], Action: resolve.ActionFailed, Err: errors.New("backend refused")},
	}
	runStats := stats.Summarize(summary, outcomes)

	var buf bytes.Buffer
	RenderOutcomes(&buf, outcomes, runStats, Options{Color: false})
	output := buf.String()

	for _, want := range []string{
		"kept     /data/a.txt",
		"removed  /data/b.txt",
		"failed   /data/b.txt: backend refused",
		"Files removed: 1",
		"Space recovered: 100 B",
		"Failed deletions: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Outcome report missing %q:\n%s", want, output)
		}
	}
}

func TestExport(t *testing.T) {
	dir := testutil.TempDir(t, "report-export-test")
	groups, summary := sampleGroups()
	path := filepath.Join(dir, "report.txt")

	if err := Export(path, "/data", groups, summary); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Exported report unreadable: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "Generated: ") {
		t.Error("Export should carry a generation timestamp")
	}
	if !strings.Contains(content, "Digest: abc123") {
		t.Error("Export should contain the group details")
	}
}

func TestDefaultExportName(t *testing.T) {
	name := DefaultExportName()
	if !strings.HasPrefix(name, "duplicate_report_") || !strings.HasSuffix(name, ".txt") {
		t.Errorf("Unexpected export name: %s", name)
	}
}
