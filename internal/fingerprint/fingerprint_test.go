package fingerprint

import (
	"strings"
	"testing"

	"github.com/substantialcattle5/scour/internal/constants"
	"github.com/substantialcattle5/scour/testutil"
)

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := New("md5000", 0); err == nil {
		t.Fatal("Expected error for unknown algorithm")
	}
	engine, err := New("", 0)
	if err != nil {
		t.Fatalf("New with defaults failed: %v", err)
	}
	if engine.Algorithm() != constants.HashAlgorithmSHA256 {
		t.Errorf("Default algorithm = %q, want sha256", engine.Algorithm())
	}
}

func TestFingerprintDeterminism(t *testing.T) {
	dir := testutil.TempDir(t, "fingerprint-test")
	content := "identical content, different names and locations"
	first := testutil.CreateTestFile(t, dir, "first.txt", content)
	second := testutil.CreateTestFile(t, dir, "nested/second.dat", content)

	for _, algorithm := range []string{
		constants.HashAlgorithmSHA256,
		constants.HashAlgorithmSHA512,
		constants.HashAlgorithmSHA1,
		constants.HashAlgorithmBLAKE3,
	} {
		t.Run(algorithm, func(t *testing.T) {
			engine, err := New(algorithm, 0)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", algorithm, err)
			}

			digestA, err := engine.Fingerprint(first)
			if err != nil {
				t.Fatalf("Fingerprint failed: %v", err)
			}
			digestB, err := engine.Fingerprint(second)
			if err != nil {
				t.Fatalf("Fingerprint failed: %v", err)
			}
			if digestA != digestB {
				t.Errorf("Identical content produced different digests: %s vs %s", digestA, digestB)
			}
			if digestA == "" {
				t.Error("Digest must not be empty")
			}
		})
	}
}

func TestFingerprintSeparatesDifferentContent(t *testing.T) {
	dir := testutil.TempDir(t, "fingerprint-diff-test")
	engine, err := New(constants.HashAlgorithmSHA256, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		name     string
		contentA string
		contentB string
	}{
		{name: "different bytes", contentA: "aaaa", contentB: "bbbb"},
		{name: "different length", contentA: "aaaa", contentB: "aaaaa"},
		{name: "empty vs nonempty", contentA: "", contentB: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pathA := testutil.CreateTestFile(t, dir, tt.name+"-a", tt.contentA)
			pathB := testutil.CreateTestFile(t, dir, tt.name+"-b", tt.contentB)

			digestA, err := engine.Fingerprint(pathA)
			if err != nil {
				t.Fatalf("Fingerprint failed: %v", err)
			}
			digestB, err := engine.Fingerprint(pathB)
			if err != nil {
				t.Fatalf("Fingerprint failed: %v", err)
			}
			if digestA == digestB {
				t.Errorf("Different content produced equal digests")
			}
		})
	}
}

func TestFingerprintChunkedReads(t *testing.T) {
	dir := testutil.TempDir(t, "fingerprint-chunk-test")
	// Content several times larger than the chunk size forces the read loop
	// around more than once.
	content := strings.Repeat("0123456789abcdef", 1024) // 16 KiB
	path := testutil.CreateTestFile(t, dir, "large.bin", content)

	small, err := New(constants.HashAlgorithmSHA256, 512)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	large, err := New(constants.HashAlgorithmSHA256, 1<<20)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	digestSmall, err := small.Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	digestLarge, err := large.Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if digestSmall != digestLarge {
		t.Errorf("Chunk size changed the digest: %s vs %s", digestSmall, digestLarge)
	}
}

func TestFingerprintFailures(t *testing.T) {
	dir := testutil.TempDir(t, "fingerprint-fail-test")
	engine, err := New(constants.HashAlgorithmSHA256, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	t.Run("nonexistent file", func(t *testing.T) {
		digest, err := engine.Fingerprint(dir + "/missing.txt")
		if err == nil {
			t.Fatal("Expected error for missing file")
		}
		if digest != "" {
			t.Errorf("No partial digest may be returned, got %q", digest)
		}
	})

	t.Run("directory", func(t *testing.T) {
		digest, err := engine.Fingerprint(dir)
		if err == nil {
			t.Fatal("Expected error when fingerprinting a directory")
		}
		if digest != "" {
			t.Errorf("No partial digest may be returned, got %q", digest)
		}
	})
}
