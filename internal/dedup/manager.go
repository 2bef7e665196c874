package dedup

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/substantialcattle5/scour/internal/fingerprint"
	"github.com/substantialcattle5/scour/internal/scan"
)

// ProgressReporter receives scan progress. A nil reporter disables reporting.
type ProgressReporter interface {
	Start(totalFiles int)
	Increment()
	Finish()
}

// Options configures a scan run.
type Options struct {
	Scan      scan.Options
	Algorithm string
	ChunkSize int64
	Workers   int // fingerprint worker pool size; defaults to GOMAXPROCS
}

// Result is everything one scan run produces. It is discarded when the
// caller is done with it; nothing persists across runs.
type Result struct {
	Groups   []DuplicateGroup
	Summary  Summary
	Warnings []scan.Warning
	Partial  bool // true when the scan was cancelled before completing
}

// Manager drives one duplicate-detection run: enumerate, fingerprint
// across a bounded worker pool, and merge results into the index it owns.
type Manager struct {
	engine   *fingerprint.Engine
	index    *Index
	options  Options
	progress ProgressReporter
}

// NewManager creates a manager for a single run.
func NewManager(options Options) (*Manager, error) {
	engine, err := fingerprint.New(options.Algorithm, options.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create fingerprint engine: %w", err)
	}
	if options.Workers <= 0 {
		options.Workers = runtime.GOMAXPROCS(0)
	}
	return &Manager{
		engine:  engine,
		index:   NewIndex(),
		options: options,
	}, nil
}

// SetProgressReporter sets the progress reporter for the run.
func (m *Manager) SetProgressReporter(reporter ProgressReporter) {
	m.progress = reporter
}

type fingerprintResult struct {
	record scan.FileRecord
	digest string
	err    error
}

// Scan walks root, fingerprints every candidate file, and returns the
// finalized duplicate groups with statistics. Workers fingerprint in
// parallel and send results over a channel to a single consumer that
// owns the index, so grouping is identical under any parallelism.
// On cancellation the accumulated partial result is returned with
// Partial set, alongside the context error.
func (m *Manager) Scan(ctx context.Context, root string) (*Result, error) {
	records, warnings, err := scan.Enumerate(ctx, root, m.options.Scan)
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	cancelled := errors.Is(err, context.Canceled)

	if m.progress != nil {
		m.progress.Start(len(records))
		defer m.progress.Finish()
	}

	jobs := make(chan scan.FileRecord)
	results := make(chan fingerprintResult)

	group, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < m.options.Workers; i++ {
		group.Go(func() error {
			for record := range jobs {
				digest, err := m.engine.Fingerprint(record.Path)
				select {
				case results <- fingerprintResult{record: record, digest: digest, err: err}:
				case <-groupCtx.Done():
					return groupCtx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			select {
			case jobs <- record:
			case <-groupCtx.Done():
				return
			}
		}
	}()

	go func() {
		// Barrier: the index is only finalized after every worker has
		// drained and its results have been merged.
		if err := group.Wait(); err != nil {
			cancelled = true
		}
		close(results)
	}()

	for result := range results {
		m.index.NoteScanned()
		if result.err != nil {
			// The file is excluded from the index entirely; a partial
			// digest is never admitted.
			warnings = append(warnings, scan.Warning{Path: result.record.Path, Err: result.err})
		} else {
			m.index.Insert(FingerprintedRecord{FileRecord: result.record, Digest: result.digest})
		}
		if m.progress != nil {
			m.progress.Increment()
		}
	}

	groups, collisions := m.index.Finalize()
	for _, collision := range collisions {
		warnings = append(warnings, scan.Warning{Path: root, Err: collision})
	}

	result := &Result{
		Groups:   groups,
		Summary:  m.index.Summary(),
		Warnings: warnings,
		Partial:  cancelled,
	}
	if cancelled {
		return result, context.Canceled
	}
	return result, nil
}
