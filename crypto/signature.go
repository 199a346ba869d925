package crypto

import "errors"

// Signature is a 64-byte proof of authorization: the first 32 bytes are
// the proof hash, the last 32 bytes are the signer's embedded public key.
type Signature [64]byte

// ErrInvalidSignature is returned by Verify when sig does not authorize
// msg for owner.
var ErrInvalidSignature = errors.New("signature verification failed")

// Sign produces a Signature over msg using sec. This is the simulation's
// substitution point (see package doc): a real implementation must expose
// the same (msg, SecretKey) -> Signature contract but with a
// cryptographically sound, PQC-capable scheme.
func Sign(msg []byte, sec SecretKey) Signature {
	var sig Signature
	proof := HashData(append(append([]byte{}, msg...), sec[:]...))
	copy(sig[:32], proof[:])
	pub := sec.Public()
	copy(sig[32:], pub[:])
	return sig
}

// Verify reports whether sig authorizes msg on behalf of owner. The
// simulation's contract checks only that the signer's embedded public key
// in sig matches owner; a real scheme must instead check a cryptographic
// relation between sig, msg and owner. msg is accepted for interface
// parity with that future scheme even though this simulation does not
// need it to decide validity.
func Verify(sig Signature, msg []byte, owner PublicKey) error {
	_ = msg
	var signer PublicKey
	copy(signer[:], sig[32:])
	if signer != owner {
		return ErrInvalidSignature
	}
	return nil
}
