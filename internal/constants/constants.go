package constants

// Hash algorithms supported by the fingerprint engine
const (
	HashAlgorithmSHA256 = "sha256"
	HashAlgorithmSHA512 = "sha512"
	HashAlgorithmSHA1   = "sha1"
	HashAlgorithmBLAKE3 = "blake3"
)

// Defaults for scanning
const (
	DefaultChunkSize int64 = 4 * 1024 * 1024 // read buffer for fingerprinting
	TrashDirName           = ".scour-trash"
	ConfigFileName         = ".scour.yaml"
)

// File permissions
const (
	SecureDirPerms    = 0o700 // Owner read/write/execute only
	SecureFilePerms   = 0o600 // Owner read/write only
	StandardDirPerms  = 0o755 // Standard directory permissions
	StandardFilePerms = 0o644 // Standard file permissions
)
