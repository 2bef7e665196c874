package dedup

import (
	"fmt"
	"sort"
	"sync"
)

// Index accumulates fingerprinted records keyed by digest for the
// lifetime of one scan. It is safe for concurrent Insert calls; in the
// scan pipeline a single consumer owns it, so the mutex is cheap.
// The index holds no state between runs.
type Index struct {
	mu      sync.Mutex
	buckets map[string][]FingerprintedRecord
	scanned int
}

// NewIndex creates an empty duplicate index.
func NewIndex() *Index {
	return &Index{
		buckets: make(map[string][]FingerprintedRecord),
	}
}

// NoteScanned counts a file the enumerator yielded, whether or not its
// fingerprint succeeded, so callers can reconcile warnings against the total.
func (idx *Index) NoteScanned() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.scanned++
}

// Insert appends the record to the bucket for its digest.
func (idx *Index) Insert(record FingerprintedRecord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.buckets[record.Digest] = append(idx.buckets[record.Digest], record)
}

// Finalize returns the duplicate groups: buckets with at least two
// members of identical size. Buckets of size one represent unique
// content and are dropped. A bucket whose members disagree on size is
// digest-collision evidence; it is partitioned by size (each same-size
// partition of two or more still forms a group) and reported as a
// collision warning so it never silently drives a destructive operation.
// Groups are ordered by digest for determinism.
func (idx *Index) Finalize() ([]DuplicateGroup, []error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var groups []DuplicateGroup
	var collisions []error

	for digest, records := range idx.buckets {
		if len(records) < 2 {
			continue
		}
		partitions := partitionBySize(records)
		if len(partitions) > 1 {
			collisions = append(collisions, fmt.Errorf(
				"digest %s shared by files of %d different sizes; treating each size separately", digest, len(partitions)))
		}
		for _, part := range partitions {
			if len(part) < 2 {
				continue
			}
			groups = append(groups, DuplicateGroup{
				Digest:  digest,
				Size:    part[0].Size,
				Members: part,
			})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Digest != groups[j].Digest {
			return groups[i].Digest < groups[j].Digest
		}
		return groups[i].Size < groups[j].Size
	})

	return groups, collisions
}

// Summary derives the accumulation statistics. UniqueContent counts every
// distinct digest observed, singletons included.
func (idx *Index) Summary() Summary {
	groups, _ := idx.Finalize()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	summary := Summary{
		TotalScanned:    idx.scanned,
		UniqueContent:   len(idx.buckets),
		DuplicateGroups: len(groups),
	}
	for _, group := range groups {
		summary.DuplicateFiles += len(group.Members) - 1
		summary.WastedBytes += group.WastedBytes()
	}
	return summary
}

// partitionBySize splits a bucket into same-size runs, preserving
// insertion order within each partition.
func partitionBySize(records []FingerprintedRecord) [][]FingerprintedRecord {
	bySize := make(map[int64][]FingerprintedRecord)
	var sizes []int64
	for _, record := range records {
		if _, seen := bySize[record.Size]; !seen {
			sizes = append(sizes, record.Size)
		}
		bySize[record.Size] = append(bySize[record.Size], record)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	partitions := make([][]FingerprintedRecord, 0, len(sizes))
	for _, size := range sizes {
		partitions = append(partitions, bySize[size])
	}
	return partitions
}
