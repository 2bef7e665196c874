package fingerprint

import (
	"crypto/sha1" // #nosec G401 - legacy algorithm kept for compatibility, not used by default
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/substantialcattle5/scour/internal/constants"
)

// Engine computes content fingerprints by reading files in fixed-size
// chunks, so memory use is independent of file size. Two files with
// identical byte content always produce equal digests regardless of
// name, path, or timestamps.
type Engine struct {
	algorithm string
	chunkSize int64
}

// New creates an engine for the given hash algorithm and read buffer size.
// An empty algorithm defaults to SHA-256; a non-positive chunk size
// defaults to constants.DefaultChunkSize.
func New(algorithm string, chunkSize int64) (*Engine, error) {
	if algorithm == "" {
		algorithm = constants.HashAlgorithmSHA256
	}
	if chunkSize <= 0 {
		chunkSize = constants.DefaultChunkSize
	}
	// Fail fast on unknown algorithms rather than on the first file.
	if _, err := CreateHasher(algorithm); err != nil {
		return nil, err
	}
	return &Engine{algorithm: algorithm, chunkSize: chunkSize}, nil
}

// Algorithm returns the configured hash algorithm name.
func (e *Engine) Algorithm() string {
	return e.algorithm
}

// Fingerprint reads the file at path in chunks and returns the hex digest
// of its full content. On any read failure the attempt fails atomically:
// no partial digest is ever returned.
func (e *Engine) Fingerprint(path string) (string, error) {
	file, err := openRegularFile(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher, err := CreateHasher(e.algorithm)
	if err != nil {
		return "", err
	}

	buffer := make([]byte, e.chunkSize)
	for {
		bytesRead, err := file.Read(buffer)
		if bytesRead > 0 {
			hasher.Write(buffer[:bytesRead])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("error reading %s: %w", path, err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// CreateHasher creates a hasher based on the given hash algorithm.
func CreateHasher(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case constants.HashAlgorithmSHA256, "": // Default to SHA-256 if empty
		return sha256.New(), nil
	case constants.HashAlgorithmSHA512:
		return sha512.New(), nil
	case constants.HashAlgorithmSHA1:
		// #nosec G401
		return sha1.New(), nil
	case constants.HashAlgorithmBLAKE3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", algorithm)
	}
}

func openRegularFile(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %s", path)
		}
		return nil, fmt.Errorf("error accessing file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	return file, nil
}
