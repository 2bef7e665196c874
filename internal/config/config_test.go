package config

import (
	"strings"
	"testing"

	"github.com/substantialcattle5/scour/internal/constants"
	"github.com/substantialcattle5/scour/testutil"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config must validate: %v", err)
	}
	if cfg.HashAlgorithm != constants.HashAlgorithmSHA256 {
		t.Errorf("Default algorithm = %q, want sha256", cfg.HashAlgorithm)
	}
	if cfg.ChunkSizeBytes() != constants.DefaultChunkSize {
		t.Errorf("Default chunk size = %d, want %d", cfg.ChunkSizeBytes(), constants.DefaultChunkSize)
	}
}

func TestLoadValidFile(t *testing.T) {
	dir := testutil.TempDir(t, "config-load-test")
	path := testutil.CreateTestFile(t, dir, ".scour.yaml", `
hash_algorithm: blake3
chunk_size: "8"
workers: 2
keep_policy: newest
trash_dir: /tmp/custom-trash
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HashAlgorithm != "blake3" {
		t.Errorf("HashAlgorithm = %q", cfg.HashAlgorithm)
	}
	if cfg.ChunkSizeBytes() != 8*1024*1024 {
		t.Errorf("ChunkSizeBytes = %d, want 8 MiB", cfg.ChunkSizeBytes())
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.KeepPolicy != "newest" {
		t.Errorf("KeepPolicy = %q", cfg.KeepPolicy)
	}
}

func TestLoadInvalidFiles(t *testing.T) {
	dir := testutil.TempDir(t, "config-invalid-test")

	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name:        "unknown algorithm",
			content:     "hash_algorithm: md5000\n",
			errContains: "unsupported hash algorithm",
		},
		{
			name:        "bad policy",
			content:     "keep_policy: largest\n",
			errContains: "retention policy",
		},
		{
			name:        "negative workers",
			content:     "workers: -3\n",
			errContains: "workers",
		},
		{
			name:        "unparseable chunk size",
			content:     "chunk_size: lots\n",
			errContains: "invalid size format",
		},
		{
			name:        "not yaml",
			content:     "{{{{",
			errContains: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.CreateTestFile(t, dir, tt.name+".yaml", tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Error %q does not mention %q", err, tt.errContains)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/no/such/config.yaml"); err == nil {
		t.Fatal("Explicit config path must fail loudly when missing")
	}
}
