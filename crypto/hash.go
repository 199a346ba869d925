// Package crypto implements the node's content-addressing primitives and
// its simulated signing scheme. The keypair/sign/verify trio here is a
// documented placeholder (see Sign and Verify below): it keeps the exact
// interface a real, PQC-capable scheme must expose, without the cost of
// implementing one.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash is a 256-bit content identifier.
type Hash [32]byte

// IsZero reports whether h is the all-zero hash, used as the genesis
// block's previous-hash sentinel.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Hex returns the hex-encoded hash.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// HashData returns the SHA-256 hash of data.
func HashData(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}
