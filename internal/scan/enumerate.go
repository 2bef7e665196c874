package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/substantialcattle5/scour/internal/constants"
)

// FileRecord describes a candidate file produced by enumeration.
// Identity is the path; Size and ModTime are captured at walk time.
type FileRecord struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Warning records a non-fatal problem encountered while walking or
// fingerprinting. The walk continues past it.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// Options controls enumeration behavior.
type Options struct {
	Recursive      bool
	FollowSymlinks bool // resolve file symlinks to their targets; never descends into symlinked directories
	IncludeHidden  bool
}

// ValidateRoot verifies the scan root exists and is a directory.
// A failure here is fatal: the engine refuses to start on a bad root.
func ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("scan root does not exist: %s", root)
		}
		return fmt.Errorf("cannot access scan root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan root is not a directory: %s", root)
	}
	return nil
}

// Enumerate walks root and returns a record for every regular file found.
// Each call re-walks the filesystem; nothing is cached between calls.
// Unreadable subtrees are skipped and reported as warnings rather than
// aborting the walk. On context cancellation the records collected so far
// are returned along with the context error.
func Enumerate(ctx context.Context, root string, opts Options) ([]FileRecord, []Warning, error) {
	if err := ValidateRoot(root); err != nil {
		return nil, nil, err
	}

	var records []FileRecord
	var warnings []Warning

	if !opts.Recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot read directory %s: %w", root, err)
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return records, warnings, err
			}
			if entry.IsDir() || shouldSkipHidden(entry.Name(), opts.IncludeHidden) {
				continue
			}
			rec, warn := resolveEntry(filepath.Join(root, entry.Name()), entry, opts)
			if warn != nil {
				warnings = append(warnings, *warn)
				continue
			}
			if rec != nil {
				records = append(records, *rec)
			}
		}
		return records, warnings, nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if walkErr := ctx.Err(); walkErr != nil {
			return walkErr
		}
		if err != nil {
			// Permission denied entering a subtree, or the entry vanished
			// mid-walk. Skip it and keep going.
			warnings = append(warnings, Warning{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldSkipHidden(d.Name(), opts.IncludeHidden) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			// Never descend into the recoverable-trash area; re-scanning
			// trashed files would resurrect them as duplicates.
			if d.Name() == constants.TrashDirName {
				return filepath.SkipDir
			}
			return nil
		}
		rec, warn := resolveEntry(path, d, opts)
		if warn != nil {
			warnings = append(warnings, *warn)
			return nil
		}
		if rec != nil {
			records = append(records, *rec)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return records, warnings, ctx.Err()
		}
		return records, warnings, fmt.Errorf("error walking directory %s: %w", root, err)
	}

	return records, warnings, nil
}

// resolveEntry turns a directory entry into a FileRecord, applying the
// symlink policy. Non-regular entries are silently excluded (nil, nil).
func resolveEntry(path string, d fs.DirEntry, opts Options) (*FileRecord, *Warning) {
	if d.Type()&fs.ModeSymlink != 0 {
		if !opts.FollowSymlinks {
			return nil, nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, &Warning{Path: path, Err: err}
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return &FileRecord{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
	}

	info, err := d.Info()
	if err != nil {
		// Raced with a concurrent delete; not an error for the scan.
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &Warning{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}
	return &FileRecord{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

func shouldSkipHidden(name string, includeHidden bool) bool {
	if includeHidden {
		return false
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
