package trash

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/substantialcattle5/scour/internal/constants"
)

// ErrNoSession is returned when no trash session exists to restore.
var ErrNoSession = errors.New("no trash session found")

const manifestName = "manifest.yaml"

// Entry records one file moved into a session, keyed by its name inside
// the session directory so it can be moved back.
type Entry struct {
	Name         string    `yaml:"name"`
	OriginalPath string    `yaml:"original_path"`
	Size         int64     `yaml:"size"`
	DeletedAt    time.Time `yaml:"deleted_at"`
}

// Manifest describes one trash session on disk.
type Manifest struct {
	SessionID string    `yaml:"session_id"`
	StartedAt time.Time `yaml:"started_at"`
	Entries   []Entry   `yaml:"entries"`
}

// Session is a reversible deletion backend: Delete moves files into a
// per-run directory under the trash root and journals their original
// paths, so a whole run can be undone with Restore.
type Session struct {
	baseDir string
	dir     string

	mu       sync.Mutex
	manifest Manifest
}

// NewSession creates a fresh session directory under baseDir.
func NewSession(baseDir string) (*Session, error) {
	id := time.Now().UTC().Format("20060102T150405Z") + "-" + uuid.NewString()[:8]
	dir := filepath.Join(baseDir, id)
	if err := os.MkdirAll(filepath.Join(dir, "files"), constants.SecureDirPerms); err != nil {
		return nil, fmt.Errorf("failed to create trash session directory: %w", err)
	}

	session := &Session{
		baseDir: baseDir,
		dir:     dir,
		manifest: Manifest{
			SessionID: id,
			StartedAt: time.Now().UTC(),
		},
	}
	if err := session.persist(); err != nil {
		return nil, err
	}
	return session, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.manifest.SessionID
}

// Dir returns the session directory path.
func (s *Session) Dir() string {
	return s.dir
}

// Delete moves the file into the session directory and journals its
// original location. The manifest is persisted after every move, so a
// crash mid-run loses nothing already trashed.
func (s *Session) Delete(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", abs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := fmt.Sprintf("%04d-%s", len(s.manifest.Entries), filepath.Base(abs))
	staged := filepath.Join(s.dir, "files", name)
	if err := moveFile(abs, staged); err != nil {
		return fmt.Errorf("failed to move %s to trash: %w", abs, err)
	}

	s.manifest.Entries = append(s.manifest.Entries, Entry{
		Name:         name,
		OriginalPath: abs,
		Size:         info.Size(),
		DeletedAt:    time.Now().UTC(),
	})
	return s.persist()
}

func (s *Session) persist() error {
	data, err := yaml.Marshal(&s.manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal trash manifest: %w", err)
	}
	path := filepath.Join(s.dir, manifestName)
	if err := os.WriteFile(path, data, constants.SecureFilePerms); err != nil {
		return fmt.Errorf("failed to write trash manifest: %w", err)
	}
	return nil
}

// Sessions lists the manifests under baseDir, oldest first.
func Sessions(baseDir string) ([]Manifest, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read trash directory %s: %w", baseDir, err)
	}

	var manifests []Manifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := loadManifest(filepath.Join(baseDir, entry.Name(), manifestName))
		if err != nil {
			continue // not a session directory
		}
		manifests = append(manifests, manifest)
	}
	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].SessionID < manifests[j].SessionID
	})
	return manifests, nil
}

// LatestSessionID returns the most recent session under baseDir.
func LatestSessionID(baseDir string) (string, error) {
	manifests, err := Sessions(baseDir)
	if err != nil {
		return "", err
	}
	if len(manifests) == 0 {
		return "", ErrNoSession
	}
	return manifests[len(manifests)-1].SessionID, nil
}

// Restore moves every file of a session back to its original path and
// removes the session directory once fully restored. Files whose
// original path is occupied again are left in the trash; their errors
// are joined and returned alongside the count of files restored.
func Restore(baseDir, sessionID string) (int, error) {
	dir := filepath.Join(baseDir, sessionID)
	manifest, err := loadManifest(filepath.Join(dir, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNoSession
		}
		return 0, err
	}

	restored := 0
	var remaining []Entry
	var failures []error

	for _, entry := range manifest.Entries {
		staged := filepath.Join(dir, "files", entry.Name)
		if _, err := os.Lstat(entry.OriginalPath); err == nil {
			remaining = append(remaining, entry)
			failures = append(failures, fmt.Errorf("%s already exists, leaving %s in trash", entry.OriginalPath, entry.Name))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(entry.OriginalPath), constants.StandardDirPerms); err != nil {
			remaining = append(remaining, entry)
			failures = append(failures, err)
			continue
		}
		if err := moveFile(staged, entry.OriginalPath); err != nil {
			remaining = append(remaining, entry)
			failures = append(failures, err)
			continue
		}
		restored++
	}

	if len(remaining) == 0 {
		if err := os.RemoveAll(dir); err != nil {
			failures = append(failures, fmt.Errorf("failed to remove session directory: %w", err))
		}
	} else {
		manifest.Entries = remaining
		if data, err := yaml.Marshal(&manifest); err == nil {
			_ = os.WriteFile(filepath.Join(dir, manifestName), data, constants.SecureFilePerms)
		}
	}

	return restored, errors.Join(failures...)
}

func loadManifest(path string) (Manifest, error) {
	var manifest Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest, err
	}
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("corrupt trash manifest %s: %w", path, err)
	}
	return manifest, nil
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.StandardFilePerms)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// Permanent deletes files outright, with no recovery path.
type Permanent struct{}

// Delete removes the file permanently.
func (Permanent) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}
