package project

import (
	"crypto/sha256"
)

// Digest is a fixed 256-bit content hash.
type Digest [32]byte

// HashBytes digests raw content.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

// Combine builds an aggregate hash: H( content || extra1 || extra2 ... ).
// Callers must pass extras in a deterministic order.
func Combine(content Digest, extras ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range extras {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
