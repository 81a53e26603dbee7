package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the SHA-256 hex digest of data. Uploads are hashed before
// parsing so identical payloads share dataset and artifact keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a prefixed key from the JSON encoding of parts. The full
// 256-bit digest is kept to rule out collisions between option sets.
func hashKey(prefix string, parts ...any) string {
	encoded, _ := json.Marshal(parts)
	sum := sha256.Sum256(encoded)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// ArtifactKeyOpts captures everything that changes exported bytes: chart
// kind, color scheme, labels, category filter, output format and DPI.
// Two exports with equal opts and equal dataset hashes are byte-identical.
type ArtifactKeyOpts struct {
	Kind       string
	Scheme     string
	Title      string
	XLabel     string
	YLabel     string
	PieGroup   string
	Categories []string
	Format     string
	DPI        int
}

// Keyer generates cache keys. Implementations must be deterministic:
// the same inputs always produce the same key.
type Keyer interface {
	// DatasetKey keys a parsed dataset by the hash of its raw upload.
	DatasetKey(uploadHash string) string

	// ArtifactKey keys an exported artifact by dataset hash and the full
	// set of render and export options.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates hash-based keys with type prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DatasetKey generates a key for dataset caching.
func (k *DefaultKeyer) DatasetKey(uploadHash string) string {
	return "dataset:" + uploadHash
}

// ArtifactKey generates a key for artifact caching. All options are part
// of the hash so a DPI or scheme change never serves stale bytes.
func (k *DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", datasetHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
