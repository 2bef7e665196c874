// Package testutil provides common testing utilities for Scour
package testutil

import (
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TempDir creates a temporary directory for testing
func TempDir(t *testing.T, prefix string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	// Clean up on test completion
	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Errorf("Failed to clean up temp dir %s: %v", dir, err)
		}
	})

	return dir
}

// CreateTestFile creates a test file with specified content
func CreateTestFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	filePath := filepath.Join(dir, filename)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	err := os.WriteFile(filePath, []byte(content), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test file %s: %v", filePath, err)
	}

	return filePath
}

// CreateTestFileWithModTime creates a test file and pins its modification time.
func CreateTestFileWithModTime(t *testing.T, dir, filename, content string, modTime time.Time) string {
	t.Helper()
	filePath := CreateTestFile(t, dir, filename, content)
	if err := os.Chtimes(filePath, modTime, modTime); err != nil {
		t.Fatalf("Failed to set mod time on %s: %v", filePath, err)
	}
	return filePath
}

// CreateTestFileWithSize creates a test file with random content of specified size
func CreateTestFileWithSize(t *testing.T, dir, filename string, size int64) string {
	t.Helper()
	filePath := filepath.Join(dir, filename)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		t.Fatalf("Failed to create test file %s: %v", filePath, err)
	}
	defer file.Close()

	// Write random data
	written, err := io.CopyN(file, rand.Reader, size)
	if err != nil {
		t.Fatalf("Failed to write test data to %s: %v", filePath, err)
	}

	if written != size {
		t.Fatalf("Expected to write %d bytes, but wrote %d", size, written)
	}

	return filePath
}
