package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// PublicKey identifies a participant. In the current simulation it is the
// hash of the holder's SecretKey; a real scheme would derive it from a
// PQC keypair instead.
type PublicKey [32]byte

// SecretKey authorizes a PublicKey's transactions.
type SecretKey [32]byte

// GenerateKeyPair creates a new random SecretKey and derives its
// PublicKey. This is the simulation's substitution point: any replacement
// must preserve this signature and the property that distinct secret keys
// yield distinct public keys with overwhelming probability.
func GenerateKeyPair() (PublicKey, SecretKey, error) {
	var sec SecretKey
	if _, err := io.ReadFull(rand.Reader, sec[:]); err != nil {
		return PublicKey{}, SecretKey{}, fmt.Errorf("generate secret key: %w", err)
	}
	return PublicKey(HashData(sec[:])), sec, nil
}

// Public derives the public key for sec.
func (sec SecretKey) Public() PublicKey {
	return PublicKey(HashData(sec[:]))
}

// Hex returns the hex-encoded public key.
func (pub PublicKey) Hex() string {
	return hex.EncodeToString(pub[:])
}

// Hex returns the hex-encoded secret key.
func (sec SecretKey) Hex() string {
	return hex.EncodeToString(sec[:])
}

// PublicKeyFromHex decodes a hex-encoded public key.
func PublicKeyFromHex(s string) (PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("invalid pubkey hex: %w", err)
	}
	if len(b) != 32 {
		return PublicKey{}, fmt.Errorf("pubkey must be 32 bytes, got %d", len(b))
	}
	var pub PublicKey
	copy(pub[:], b)
	return pub, nil
}

// SecretKeyFromHex decodes a hex-encoded secret key.
func SecretKeyFromHex(s string) (SecretKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return SecretKey{}, fmt.Errorf("invalid secret key hex: %w", err)
	}
	if len(b) != 32 {
		return SecretKey{}, fmt.Errorf("secret key must be 32 bytes, got %d", len(b))
	}
	var sec SecretKey
	copy(sec[:], b)
	return sec, nil
}
