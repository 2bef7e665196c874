package dedup

import (
	"github.com/substantialcattle5/scour/internal/scan"
)

// FingerprintedRecord is a file record plus its content digest. Records
// without a digest (fingerprinting failed) never reach the index.
type FingerprintedRecord struct {
	scan.FileRecord
	Digest string
}

// DuplicateGroup is a set of two or more files sharing one digest.
// All members have identical size; member order is insertion order
// until a retention policy resequences it at resolution time.
type DuplicateGroup struct {
	Digest  string
	Size    int64
	Members []FingerprintedRecord
}

// WastedBytes is the storage recoverable if all but one member were removed.
func (g DuplicateGroup) WastedBytes() int64 {
	return g.Size * int64(len(g.Members)-1)
}

// Summary holds the statistics derived from one accumulation pass.
type Summary struct {
	TotalScanned    int
	UniqueContent   int
	DuplicateGroups int
	DuplicateFiles  int
	WastedBytes     int64
}
