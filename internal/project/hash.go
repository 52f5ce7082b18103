package project

import (
	"crypto/sha256"
)

// Digest is a fixed 256-bit hash of a project's type-system-relevant state.
type Digest [32]byte

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// Combine builds an aggregate hash: H(content || dep1 || dep2 ...).
// The order of deps must be deterministic.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Sum hashes raw bytes into a Digest.
func Sum(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}
